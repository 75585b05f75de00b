// Package transcript renders the scrolling question and answer history.
package transcript

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/askdoc/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/askdoc/internal/core/domain"
)

// Role identifies who produced a transcript entry.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleError     Role = "error"
)

// Entry is one line of the conversation.
type Entry struct {
	Role     Role
	Text     string
	Tier     domain.Tier
	Degraded bool
}

// Transcript is a scrollable view over the conversation.
type Transcript struct {
	viewport viewport.Model
	styles   *styles.Styles
	entries  []Entry
}

// New creates an empty transcript.
func New(s *styles.Styles) *Transcript {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &Transcript{
		viewport: viewport.New(80, 20),
		styles:   s,
	}
}

// SetSize resizes the viewport and re-wraps the content.
func (t *Transcript) SetSize(width, height int) {
	if height < 1 {
		height = 1
	}
	t.viewport.Width = width
	t.viewport.Height = height
	t.refresh()
}

// AddQuestion appends a user question.
func (t *Transcript) AddQuestion(question string) {
	t.append(Entry{Role: RoleUser, Text: question})
}

// AddAnswer appends an answer with the tier that produced it.
func (t *Transcript) AddAnswer(text string, tier domain.Tier, degraded bool) {
	t.append(Entry{Role: RoleAssistant, Text: text, Tier: tier, Degraded: degraded})
}

// AddError appends a failure message.
func (t *Transcript) AddError(text string) {
	t.append(Entry{Role: RoleError, Text: text})
}

// Entries returns a copy of the conversation so far.
func (t *Transcript) Entries() []Entry {
	out := make([]Entry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Update forwards scroll messages to the viewport.
func (t *Transcript) Update(msg tea.Msg) (*Transcript, tea.Cmd) {
	var cmd tea.Cmd
	t.viewport, cmd = t.viewport.Update(msg)
	return t, cmd
}

// ScrollUp moves one page towards the start of the conversation.
func (t *Transcript) ScrollUp() {
	t.viewport.ViewUp()
}

// ScrollDown moves one page towards the latest answer.
func (t *Transcript) ScrollDown() {
	t.viewport.ViewDown()
}

// View renders the visible part of the transcript.
func (t *Transcript) View() string {
	return t.viewport.View()
}

func (t *Transcript) append(e Entry) {
	t.entries = append(t.entries, e)
	t.refresh()
}

func (t *Transcript) refresh() {
	if len(t.entries) == 0 {
		t.viewport.SetContent(t.styles.Muted.Render("Ask a question to get started."))
		return
	}

	width := t.viewport.Width
	if width < 10 {
		width = 10
	}
	body := t.styles.Normal.Width(width)

	blocks := make([]string, 0, len(t.entries))
	for _, e := range t.entries {
		blocks = append(blocks, t.label(e)+"\n"+body.Render(e.Text))
	}
	t.viewport.SetContent(strings.Join(blocks, "\n\n"))
	t.viewport.GotoBottom()
}

func (t *Transcript) label(e Entry) string {
	switch e.Role {
	case RoleUser:
		return t.styles.UserLabel.Render("You")
	case RoleError:
		return t.styles.Error.Render("askdoc")
	default:
		label := t.styles.AssistantLabel.Render("askdoc")
		if e.Tier != "" {
			label += " " + t.styles.Tier.Render(fmt.Sprintf("[%s]", e.Tier))
		}
		if e.Degraded {
			label += " " + t.styles.Degraded.Render("(degraded)")
		}
		return label
	}
}
