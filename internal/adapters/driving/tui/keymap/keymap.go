// Package keymap defines keybindings for the TUI.
package keymap

import (
	"github.com/charmbracelet/bubbles/key"
)

// KeyMap defines all keybindings for the day view.
type KeyMap struct {
	// Quit saves and exits the application.
	Quit key.Binding

	// NextDay and PrevDay move one day forward or back.
	NextDay key.Binding
	PrevDay key.Binding

	// Today jumps back to today.
	Today key.Binding

	// SwitchFocus toggles between the diary and the ask input.
	SwitchFocus key.Binding

	// Send sends the ask input to the assistant.
	Send key.Binding

	// Reflect sends the diary text to the assistant.
	Reflect key.Binding

	// EditLast loads the last user message into the ask input for resending.
	EditLast key.Binding

	// Cancel abandons an edit in progress.
	Cancel key.Binding

	// ScrollUp and ScrollDown page through the conversation.
	ScrollUp   key.Binding
	ScrollDown key.Binding
}

// DefaultKeyMap returns the default keybindings.
func DefaultKeyMap() *KeyMap {
	return &KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "ctrl+q"),
			key.WithHelp("ctrl+c", "quit"),
		),
		NextDay: key.NewBinding(
			key.WithKeys("ctrl+n"),
			key.WithHelp("ctrl+n", "next day"),
		),
		PrevDay: key.NewBinding(
			key.WithKeys("ctrl+p"),
			key.WithHelp("ctrl+p", "prev day"),
		),
		Today: key.NewBinding(
			key.WithKeys("ctrl+t"),
			key.WithHelp("ctrl+t", "today"),
		),
		SwitchFocus: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "switch"),
		),
		Send: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "send"),
		),
		Reflect: key.NewBinding(
			key.WithKeys("ctrl+r"),
			key.WithHelp("ctrl+r", "reflect"),
		),
		EditLast: key.NewBinding(
			key.WithKeys("ctrl+e"),
			key.WithHelp("ctrl+e", "edit last"),
		),
		Cancel: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "cancel"),
		),
		ScrollUp: key.NewBinding(
			key.WithKeys("pgup"),
			key.WithHelp("pgup", "scroll up"),
		),
		ScrollDown: key.NewBinding(
			key.WithKeys("pgdown"),
			key.WithHelp("pgdn", "scroll down"),
		),
	}
}

// DiaryHelp returns keybindings shown while writing the diary.
func (k *KeyMap) DiaryHelp() []key.Binding {
	return []key.Binding{k.PrevDay, k.NextDay, k.Today, k.Reflect, k.SwitchFocus, k.Quit}
}

// AskHelp returns keybindings shown while typing a message.
func (k *KeyMap) AskHelp() []key.Binding {
	return []key.Binding{k.Send, k.EditLast, k.Cancel, k.SwitchFocus, k.Quit}
}

// Matches checks if a key string matches a binding.
func Matches(keyStr string, binding key.Binding) bool {
	for _, k := range binding.Keys() {
		if k == keyStr {
			return true
		}
	}
	return false
}
