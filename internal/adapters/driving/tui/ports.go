// Package tui provides an interactive terminal user interface for daybook.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"context"

	"github.com/custodia-labs/daybook/internal/core/domain"
	"github.com/custodia-labs/daybook/internal/core/ports/driving"
)

// Ports aggregates the driving ports and factories required by the TUI.
type Ports struct {
	// Journal reads entries and resolves today.
	Journal driving.JournalService

	// Settings supplies the theme. Optional.
	Settings driving.SettingsService

	// NewAutosave binds the diary editor to a day.
	NewAutosave func(date domain.DateKey) driving.Autosave

	// NewConversation creates the conversation engine. date reports the day
	// being shown; the returned function unbinds it.
	NewConversation func(date func() domain.DateKey) (driving.Conversation, func())

	// Store reports commits so the header stays current. Optional.
	Store driving.DocumentStore

	// WaitReady blocks until the journal document has loaded. Optional.
	WaitReady func(ctx context.Context) error

	// WatchPrompts reports prompt file edits. Optional.
	WatchPrompts func(ctx context.Context, onChange func(name string)) error
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p.Journal == nil {
		return ErrMissingJournalService
	}
	if p.NewAutosave == nil {
		return ErrMissingAutosave
	}
	if p.NewConversation == nil {
		return ErrMissingConversation
	}
	return nil
}
