package tui

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrors_AreDistinct(t *testing.T) {
	errors := []error{
		ErrMissingJournalService,
		ErrMissingAutosave,
		ErrMissingConversation,
	}

	seen := make(map[string]bool)
	for _, err := range errors {
		msg := err.Error()
		assert.False(t, seen[msg], "duplicate error message: %s", msg)
		seen[msg] = true
	}
}

func TestErrMissingJournalService_Message(t *testing.T) {
	assert.Contains(t, ErrMissingJournalService.Error(), "journal service")
}
