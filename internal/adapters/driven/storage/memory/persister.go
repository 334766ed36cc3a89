package memory

import (
	"context"
	"sync"

	"github.com/custodia-labs/daybook/internal/core/domain"
	"github.com/custodia-labs/daybook/internal/core/ports/driven"
)

// Ensure Persister implements the interface.
var _ driven.DocumentPersister = (*Persister)(nil)

// Persister is an in-memory implementation of driven.DocumentPersister.
// It is used for tests and for the --memory CLI mode, and can be told to
// fail or to hold loading until released.
type Persister struct {
	mu      sync.Mutex
	doc     *domain.JournalDoc
	loadErr error
	saveErr error
	gate    chan struct{}
	changes []domain.ChangeSet
	closed  bool
}

// NewPersister creates a persister that loads doc. A nil doc behaves like
// an empty store.
func NewPersister(doc *domain.JournalDoc) *Persister {
	return &Persister{doc: doc.Clone()}
}

// Load returns a copy of the stored document, or nil if nothing was saved.
// It blocks while the persister is held.
func (p *Persister) Load(ctx context.Context) (*domain.JournalDoc, error) {
	p.mu.Lock()
	gate := p.gate
	p.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	if p.loadErr != nil {
		return nil, p.loadErr
	}
	return p.doc.Clone(), nil
}

// Save stores a copy of doc and records changes.
func (p *Persister) Save(_ context.Context, doc *domain.JournalDoc, changes domain.ChangeSet) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.saveErr != nil {
		return p.saveErr
	}
	p.doc = doc.Clone()
	p.changes = append(p.changes, changes)
	return nil
}

// Close marks the persister closed.
func (p *Persister) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.closed = true
	return nil
}

// Hold makes Load block until the returned function is called.
func (p *Persister) Hold() (release func()) {
	gate := make(chan struct{})
	p.mu.Lock()
	p.gate = gate
	p.mu.Unlock()

	var once sync.Once
	return func() { once.Do(func() { close(gate) }) }
}

// FailLoad makes Load return err.
func (p *Persister) FailLoad(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.loadErr = err
}

// FailSave makes Save return err. A nil err restores normal saving.
func (p *Persister) FailSave(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.saveErr = err
}

// Stored returns a copy of the last saved document.
func (p *Persister) Stored() *domain.JournalDoc {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.doc.Clone()
}

// Changes returns every change set passed to a successful Save.
func (p *Persister) Changes() []domain.ChangeSet {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]domain.ChangeSet, len(p.changes))
	copy(out, p.changes)
	return out
}

// Closed reports whether Close was called.
func (p *Persister) Closed() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.closed
}
