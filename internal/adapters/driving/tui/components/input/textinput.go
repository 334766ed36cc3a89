// Package input provides text input components for the TUI.
package input

import (
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/daybook/internal/adapters/driving/tui/styles"
)

// AskInput is the single-line input for messages to the assistant.
// While editing, it remembers which message is being replaced.
type AskInput struct {
	textinput textinput.Model
	styles    *styles.Styles
	width     int
	editingID string
}

// NewAskInput creates a new ask input component.
func NewAskInput(s *styles.Styles) *AskInput {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = "Ask about your day..."
	ti.CharLimit = 2000
	ti.Width = 50

	return &AskInput{
		textinput: ti,
		styles:    s,
		width:     50,
	}
}

// Update handles input messages.
func (s *AskInput) Update(msg tea.Msg) (*AskInput, tea.Cmd) {
	var cmd tea.Cmd
	s.textinput, cmd = s.textinput.Update(msg)
	return s, cmd
}

// View renders the input with its label.
func (s *AskInput) View() string {
	label := s.styles.Title.Render("Ask: ")
	if s.editingID != "" {
		label = s.styles.Warning.Render("Edit: ")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, label, s.textinput.View())
}

// Value returns the current input value.
func (s *AskInput) Value() string {
	return s.textinput.Value()
}

// SetValue sets the input value.
func (s *AskInput) SetValue(value string) {
	s.textinput.SetValue(value)
}

// StartEdit loads content of message id for editing.
func (s *AskInput) StartEdit(id, content string) {
	s.editingID = id
	s.textinput.SetValue(content)
	s.textinput.CursorEnd()
}

// EditingID returns the message being edited, or "".
func (s *AskInput) EditingID() string {
	return s.editingID
}

// Focus sets focus on the input.
func (s *AskInput) Focus() tea.Cmd {
	return s.textinput.Focus()
}

// Blur removes focus from the input.
func (s *AskInput) Blur() {
	s.textinput.Blur()
}

// Focused returns whether the input is focused.
func (s *AskInput) Focused() bool {
	return s.textinput.Focused()
}

// SetWidth sets the width of the input.
func (s *AskInput) SetWidth(width int) {
	s.width = width
	// Account for label and padding
	inputWidth := width - 10
	if inputWidth < 20 {
		inputWidth = 20
	}
	s.textinput.Width = inputWidth
}

// Width returns the current width.
func (s *AskInput) Width() int {
	return s.width
}

// Reset clears the input and leaves edit mode.
func (s *AskInput) Reset() {
	s.textinput.Reset()
	s.editingID = ""
}
