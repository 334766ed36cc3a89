package driven

import (
	"context"

	"github.com/custodia-labs/daybook/internal/core/domain"
)

// DocumentPersister provides durable, local storage for the journal document.
// It is owned by the DocumentStore, which is its only writer.
type DocumentPersister interface {
	// Load returns the stored document. A missing or empty store is not an
	// error: implementations return domain.NewJournalDoc().
	Load(ctx context.Context) (*domain.JournalDoc, error)

	// Save writes the entries and settings named in changes, taking values
	// from doc. The write is atomic: either every change lands or none does.
	Save(ctx context.Context, doc *domain.JournalDoc, changes domain.ChangeSet) error

	// Close releases resources.
	Close() error
}
