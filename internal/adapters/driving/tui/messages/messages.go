// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/daybook/internal/core/domain"
	"github.com/custodia-labs/daybook/internal/core/ports/driving"
)

// JournalLoaded is sent once the journal document has loaded (or failed to).
type JournalLoaded struct {
	Err error
}

// JournalChanged is sent after a commit to the journal document.
type JournalChanged struct {
	// Days is the number of days that have an entry with content.
	Days int
}

// DateChanged asks the day view to show another day.
type DateChanged struct {
	Date domain.DateKey
}

// ConversationChanged carries a new conversation state.
type ConversationChanged struct {
	State driving.ConversationState
}

// SendCompleted is sent when an assistant request resolves.
type SendCompleted struct {
	Err error
}

// PromptChanged is sent when a prompt file is edited on disk.
type PromptChanged struct {
	Name string
}

// Tick refreshes time-dependent display such as the save indicator.
type Tick struct{}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Focus identifies which pane receives keystrokes.
type Focus int

const (
	// FocusDiary is the diary textarea.
	FocusDiary Focus = iota
	// FocusAsk is the ask input.
	FocusAsk
)

// String returns the string representation of the focus.
func (f Focus) String() string {
	switch f {
	case FocusDiary:
		return "diary"
	case FocusAsk:
		return "ask"
	default:
		return "unknown"
	}
}
