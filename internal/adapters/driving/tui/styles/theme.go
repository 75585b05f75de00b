// Package styles provides colour themes and styling for the chat TUI.
package styles

import (
	"github.com/charmbracelet/lipgloss"
)

// Theme defines the colour palette for the chat TUI.
type Theme struct {
	Primary    lipgloss.Color
	Secondary  lipgloss.Color
	Foreground lipgloss.Color
	Muted      lipgloss.Color
	Success    lipgloss.Color
	Warning    lipgloss.Color
	Error      lipgloss.Color
	Border     lipgloss.Color
	StatusBg   lipgloss.Color
}

// DefaultTheme returns the default colour theme.
func DefaultTheme() *Theme {
	return &Theme{
		Primary:    lipgloss.Color("#7C3AED"),
		Secondary:  lipgloss.Color("#06B6D4"),
		Foreground: lipgloss.Color("#CDD6F4"),
		Muted:      lipgloss.Color("#6C7086"),
		Success:    lipgloss.Color("#A6E3A1"),
		Warning:    lipgloss.Color("#F9E2AF"),
		Error:      lipgloss.Color("#F38BA8"),
		Border:     lipgloss.Color("#45475A"),
		StatusBg:   lipgloss.Color("#181825"),
	}
}

// Styles contains pre-configured lipgloss styles.
type Styles struct {
	theme *Theme

	// Title renders the header with the document title.
	Title lipgloss.Style

	Normal lipgloss.Style
	Muted  lipgloss.Style
	Error  lipgloss.Style

	// UserLabel prefixes the user's questions in the transcript.
	UserLabel lipgloss.Style

	// AssistantLabel prefixes answers in the transcript.
	AssistantLabel lipgloss.Style

	// Tier renders the tier tag after an answer label.
	Tier lipgloss.Style

	// Degraded marks answers produced without a language model.
	Degraded lipgloss.Style

	// Typing renders the thinking indicator.
	Typing lipgloss.Style

	InputField lipgloss.Style
	StatusBar  lipgloss.Style
}

// NewStyles creates styles from a theme.
func NewStyles(theme *Theme) *Styles {
	if theme == nil {
		theme = DefaultTheme()
	}

	return &Styles{
		theme: theme,

		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Primary),

		Normal: lipgloss.NewStyle().Foreground(theme.Foreground),
		Muted:  lipgloss.NewStyle().Foreground(theme.Muted),
		Error:  lipgloss.NewStyle().Foreground(theme.Error),

		UserLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Secondary),

		AssistantLabel: lipgloss.NewStyle().
			Bold(true).
			Foreground(theme.Success),

		Tier: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		Degraded: lipgloss.NewStyle().
			Foreground(theme.Warning),

		Typing: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Italic(true),

		InputField: lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(theme.Border).
			Padding(0, 1),

		StatusBar: lipgloss.NewStyle().
			Foreground(theme.Muted).
			Background(theme.StatusBg).
			Padding(0, 1),
	}
}

// DefaultStyles returns styles with the default theme.
func DefaultStyles() *Styles {
	return NewStyles(DefaultTheme())
}

// Theme returns the theme used by these styles.
func (s *Styles) Theme() *Theme {
	return s.theme
}
