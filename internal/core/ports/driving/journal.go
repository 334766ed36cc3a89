package driving

import "github.com/custodia-labs/daybook/internal/core/domain"

// JournalService answers read queries over the journal.
type JournalService interface {
	// Today returns today's date in the configured timezone.
	Today() domain.DateKey

	// Entry returns the entry for date, or domain.ErrNotFound.
	Entry(date domain.DateKey) (*domain.JournalEntry, error)

	// View returns date's entry split into diary text and conversation.
	View(date domain.DateKey) (domain.EntryView, error)

	// Dates returns the sorted dates that have entries with content.
	Dates() ([]domain.DateKey, error)

	// RecordPosition attaches a location to date's entry.
	RecordPosition(date domain.DateKey, pos domain.Position) error
}
