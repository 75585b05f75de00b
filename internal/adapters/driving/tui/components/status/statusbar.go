// Package status provides the chat status bar.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/askdoc/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/askdoc/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/askdoc/internal/core/domain"
)

// State represents the chat state shown on the left of the bar.
type State string

const (
	StateReady    State = "ready"
	StateThinking State = "thinking"
	StateError    State = "error"
)

// Bar displays the chat state, the last answering tier and key hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	state    State
	message  string
	document string
	tier     domain.Tier
	degraded bool
	pending  int
	width    int
}

// NewBar creates a new status bar component.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &Bar{
		styles: s,
		keymap: km,
		state:  StateReady,
		width:  80,
	}
}

// View renders the status bar on a single line. Key hints that do not fit
// are dropped, oldest first, keeping the quit hint; an overlong left side
// is truncated.
func (s *Bar) View() string {
	inner := s.width - s.styles.StatusBar.GetHorizontalFrameSize()
	if inner < 1 {
		inner = 1
	}

	left := lipgloss.NewStyle().MaxWidth(inner).Render(s.renderLeft())
	right := s.renderRight(inner - lipgloss.Width(left) - 1)

	padding := inner - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}
	line := left
	if right != "" {
		line += strings.Repeat(" ", padding) + right
	}

	return s.styles.StatusBar.Width(s.width).MaxHeight(1).Render(line)
}

func (s *Bar) renderLeft() string {
	var parts []string
	if s.document != "" {
		parts = append(parts, s.styles.Normal.Render(s.document))
	}

	switch s.state {
	case StateThinking:
		label := "Thinking..."
		if s.pending > 1 {
			label = fmt.Sprintf("Thinking (%d)...", s.pending)
		}
		parts = append(parts, s.styles.Typing.Render(label))
	case StateError:
		msg := "Error"
		if s.message != "" {
			msg = fmt.Sprintf("Error: %s", s.message)
		}
		parts = append(parts, s.styles.Error.Render(msg))
	default:
		if s.tier != "" {
			tag := fmt.Sprintf("tier: %s", s.tier)
			if s.degraded {
				tag += " (degraded)"
				parts = append(parts, s.styles.Degraded.Render(tag))
			} else {
				parts = append(parts, s.styles.Tier.Render(tag))
			}
		} else {
			parts = append(parts, s.styles.Muted.Render("Ready"))
		}
	}

	return strings.Join(parts, "  ")
}

// renderRight renders the key hints that fit in width cells.
func (s *Bar) renderRight(width int) string {
	bindings := s.keymap.ShortHelp()
	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}

	for len(hints) > 0 {
		joined := strings.Join(hints, " | ")
		if lipgloss.Width(joined) <= width {
			return s.styles.Muted.Render(joined)
		}
		hints = hints[1:]
	}
	return ""
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets the error message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetDocument sets the title of the document being discussed.
func (s *Bar) SetDocument(title string) {
	s.document = title
}

// SetPending sets the number of questions awaiting an answer.
func (s *Bar) SetPending(n int) {
	s.pending = n
}

// SetTier records the tier that produced the last answer.
func (s *Bar) SetTier(tier domain.Tier, degraded bool) {
	s.tier = tier
	s.degraded = degraded
}

// Tier returns the tier of the last answer.
func (s *Bar) Tier() domain.Tier {
	return s.tier
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}

// Clear resets the bar to ready, keeping the document title.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.pending = 0
}
