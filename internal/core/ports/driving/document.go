package driving

import "github.com/custodia-labs/daybook/internal/core/domain"

// DocumentStore owns the single journal document.
// It is the only writer; everyone else reads snapshots and issues whole mutations.
type DocumentStore interface {
	// Doc returns a snapshot of the committed document, or nil while loading.
	// The snapshot is a deep copy and may be kept or modified freely.
	Doc() *domain.JournalDoc

	// IsLoading returns true until the document has been loaded.
	IsLoading() bool

	// Mutate applies fn to a draft of the latest committed document and commits it.
	// Mutations are applied in call order. Returns domain.ErrDocumentLoading if
	// the document is not loaded yet; callers should skip the write. A draft
	// that writes an entry under an invalid date is rejected with an error
	// wrapping domain.ErrInvalidDate.
	Mutate(fn func(doc *domain.JournalDoc)) error

	// Subscribe registers fn to receive a snapshot after every commit.
	// The returned function removes the subscription.
	Subscribe(fn func(doc *domain.JournalDoc)) (cancel func())
}
