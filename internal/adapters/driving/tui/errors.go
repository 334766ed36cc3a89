package tui

import "errors"

// ErrMissingJournalService is returned when the journal service is not provided.
var ErrMissingJournalService = errors.New("tui: journal service is required")

// ErrMissingAutosave is returned when no autosave factory is provided.
var ErrMissingAutosave = errors.New("tui: autosave factory is required")

// ErrMissingConversation is returned when no conversation factory is provided.
var ErrMissingConversation = errors.New("tui: conversation factory is required")
