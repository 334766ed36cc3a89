// Package status provides status bar components for the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/daybook/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/daybook/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/daybook/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/daybook/internal/core/domain"
)

// Bar displays the save indicator, assistant activity and keybinding hints.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	save     domain.SaveStatus
	thinking bool
	err      string
	message  string
	focus    messages.Focus
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
		save:   domain.SaveStatusIdle,
		width:  80,
	}
}

// View renders the status bar.
func (s *Bar) View() string {
	left := s.renderLeft()
	right := s.renderRight()

	padding := s.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if padding < 1 {
		padding = 1
	}

	return s.styles.StatusBar.Width(s.width).Render(
		left + strings.Repeat(" ", padding) + right,
	)
}

// renderLeft renders the indicators, most urgent first.
func (s *Bar) renderLeft() string {
	var parts []string

	switch s.save {
	case domain.SaveStatusSaving:
		parts = append(parts, s.styles.Warning.Render("Saving..."))
	case domain.SaveStatusSaved:
		parts = append(parts, s.styles.Success.Render("Saved"))
	}

	if s.thinking {
		parts = append(parts, s.styles.Muted.Render("Assistant is thinking..."))
	}

	switch {
	case s.err != "":
		parts = append(parts, s.styles.Error.Render(fmt.Sprintf("Error: %s", s.err)))
	case s.message != "":
		parts = append(parts, s.styles.Normal.Render(s.message))
	}

	return strings.Join(parts, s.styles.Muted.Render(" · "))
}

// renderRight renders keybinding hints for the focused pane.
func (s *Bar) renderRight() string {
	var bindings []key.Binding
	if s.focus == messages.FocusAsk {
		bindings = s.keymap.AskHelp()
	} else {
		bindings = s.keymap.DiaryHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		hints = append(hints, fmt.Sprintf("%s: %s", h.Key, h.Desc))
	}
	return s.styles.Help.Render(strings.Join(hints, " | "))
}

// SetSaveStatus sets the autosave indicator.
func (s *Bar) SetSaveStatus(status domain.SaveStatus) {
	s.save = status
}

// SaveStatus returns the autosave indicator.
func (s *Bar) SaveStatus() domain.SaveStatus {
	return s.save
}

// SetThinking sets whether an assistant request is in flight.
func (s *Bar) SetThinking(thinking bool) {
	s.thinking = thinking
}

// Thinking reports whether an assistant request is in flight.
func (s *Bar) Thinking() bool {
	return s.thinking
}

// SetError sets the error text. Empty clears it.
func (s *Bar) SetError(err string) {
	s.err = err
}

// Error returns the error text.
func (s *Bar) Error() string {
	return s.err
}

// SetMessage sets an informational message.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the informational message.
func (s *Bar) Message() string {
	return s.message
}

// SetFocus selects which hints are shown.
func (s *Bar) SetFocus(focus messages.Focus) {
	s.focus = focus
}

// SetWidth sets the status bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Width returns the current width.
func (s *Bar) Width() int {
	return s.width
}
