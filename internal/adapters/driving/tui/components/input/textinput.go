// Package input provides the question input for the chat TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/askdoc/internal/adapters/driving/tui/styles"
)

// MaxQuestionLength bounds a single question.
const MaxQuestionLength = 1000

// QuestionInput wraps a bubbles textinput for typing questions.
type QuestionInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
}

// NewQuestionInput creates a focused question input.
func NewQuestionInput(s *styles.Styles) *QuestionInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Ask a question about the document..."
	ti.Focus()
	ti.CharLimit = MaxQuestionLength
	ti.Width = 50

	return &QuestionInput{
		textinput: ti,
		styles:    s,
		width:     50,
	}
}

// Init starts the cursor blinking.
func (q *QuestionInput) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (q *QuestionInput) Update(msg tea.Msg) (*QuestionInput, tea.Cmd) {
	var cmd tea.Cmd
	q.textinput, cmd = q.textinput.Update(msg)
	return q, cmd
}

// View renders the input with its prompt label.
func (q *QuestionInput) View() string {
	label := q.styles.UserLabel.Render("> ")
	field := q.styles.InputField.Render(q.textinput.View())
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, field)
}

// Value returns the current input value.
func (q *QuestionInput) Value() string {
	return q.textinput.Value()
}

// SetValue sets the input value.
func (q *QuestionInput) SetValue(value string) {
	q.textinput.SetValue(value)
}

// Focused returns whether the input is focused.
func (q *QuestionInput) Focused() bool {
	return q.textinput.Focused()
}

// SetWidth sets the width of the input.
func (q *QuestionInput) SetWidth(width int) {
	q.width = width
	inputWidth := width - 8
	if inputWidth < 20 {
		inputWidth = 20
	}
	q.textinput.Width = inputWidth
}

// Width returns the current width.
func (q *QuestionInput) Width() int {
	return q.width
}

// Reset clears the input.
func (q *QuestionInput) Reset() {
	q.textinput.Reset()
}
