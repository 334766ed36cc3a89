package services

import (
	"context"
	"fmt"
	"sync"

	"github.com/custodia-labs/daybook/internal/core/domain"
	"github.com/custodia-labs/daybook/internal/core/ports/driven"
	"github.com/custodia-labs/daybook/internal/core/ports/driving"
	"github.com/custodia-labs/daybook/internal/logger"
)

// Ensure DocumentStore implements the interface.
var _ driving.DocumentStore = (*DocumentStore)(nil)

// mutation is one queued Mutate call.
type mutation struct {
	fn   func(*domain.JournalDoc)
	done chan mutationResult
}

type mutationResult struct {
	panicked any
	err      error
}

// DocumentStore owns the journal document and is its single writer.
//
// Loading happens in the background after Open. Mutations are handed to one
// writer goroutine over an unbuffered channel, so they are applied in the
// order callers block on it and each one starts from the latest committed
// state. The committed document is never modified in place; every commit
// swaps in a new value.
type DocumentStore struct {
	persister driven.DocumentPersister

	mu         sync.RWMutex
	doc        *domain.JournalDoc
	loaded     bool
	loadErr    error
	persistErr error
	closed     bool
	started    bool
	subs       map[int]func(*domain.JournalDoc)
	nextSub    int

	mutations chan mutation
	ready     chan struct{}
	stop      chan struct{}
	stopped   chan struct{}
	closeOnce sync.Once
}

// NewDocumentStore creates a document store over persister. Call Open to load.
func NewDocumentStore(persister driven.DocumentPersister) *DocumentStore {
	return &DocumentStore{
		persister: persister,
		subs:      make(map[int]func(*domain.JournalDoc)),
		mutations: make(chan mutation),
		ready:     make(chan struct{}),
		stop:      make(chan struct{}),
		stopped:   make(chan struct{}),
	}
}

// Open starts loading the document and the writer loop. It returns immediately;
// use Ready or WaitReady to wait for the load. The loop runs until Close or
// until ctx is cancelled.
func (s *DocumentStore) Open(ctx context.Context) {
	s.mu.Lock()
	if s.started || s.closed {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	go s.run(ctx)
}

// Ready is closed once loading has finished, successfully or not.
func (s *DocumentStore) Ready() <-chan struct{} {
	return s.ready
}

// WaitReady blocks until loading finishes and returns the load error, if any.
func (s *DocumentStore) WaitReady(ctx context.Context) error {
	select {
	case <-s.ready:
		return s.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the load error. A nil error while IsLoading is true means
// loading has not finished.
func (s *DocumentStore) Err() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loadErr
}

// IsLoading returns true until the document has loaded.
// It stays true if loading failed; see Err.
func (s *DocumentStore) IsLoading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return !s.loaded
}

// Doc returns a deep snapshot of the committed document, or nil while loading.
func (s *DocumentStore) Doc() *domain.JournalDoc {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if !s.loaded {
		return nil
	}
	return s.doc.Clone()
}

// LastPersistError returns the error from the most recent persist attempt,
// or nil if it succeeded. Persist failures never roll back in-memory state.
func (s *DocumentStore) LastPersistError() error {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.persistErr
}

// Mutate applies fn to a draft of the latest committed document, commits the
// draft, and persists the changes before returning.
//
// fn must not retain the draft or call Mutate itself. A panic inside fn
// discards the draft and is re-raised in the caller's goroutine. A draft that
// writes an entry under an invalid date is discarded and Mutate returns an
// error wrapping domain.ErrInvalidDate.
func (s *DocumentStore) Mutate(fn func(doc *domain.JournalDoc)) error {
	s.mu.RLock()
	closed, loaded, loadErr := s.closed, s.loaded, s.loadErr
	s.mu.RUnlock()

	switch {
	case closed:
		return domain.ErrStoreClosed
	case loadErr != nil:
		return loadErr
	case !loaded:
		return domain.ErrDocumentLoading
	}

	m := mutation{fn: fn, done: make(chan mutationResult, 1)}
	select {
	case s.mutations <- m:
	case <-s.stopped:
		return domain.ErrStoreClosed
	}

	var res mutationResult
	select {
	case res = <-m.done:
	case <-s.stopped:
		// The writer may have finished this mutation just before stopping.
		select {
		case res = <-m.done:
		default:
			return domain.ErrStoreClosed
		}
	}
	if res.panicked != nil {
		panic(res.panicked)
	}
	return res.err
}

// Subscribe registers fn to receive a snapshot after every commit.
// Callbacks run on the writer goroutine and must not call Mutate synchronously.
func (s *DocumentStore) Subscribe(fn func(doc *domain.JournalDoc)) func() {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

// Close stops the writer loop and closes the persister.
// Mutations issued after Close return domain.ErrStoreClosed.
func (s *DocumentStore) Close() error {
	var err error
	s.closeOnce.Do(func() {
		s.mu.Lock()
		s.closed = true
		started := s.started
		s.mu.Unlock()

		close(s.stop)
		if started {
			<-s.stopped
		} else {
			close(s.stopped)
		}
		err = s.persister.Close()
	})
	return err
}

// run loads the document and then serves mutations until stopped.
func (s *DocumentStore) run(ctx context.Context) {
	defer close(s.stopped)

	logger.Debug("document store: loading")
	doc, err := s.persister.Load(ctx)

	s.mu.Lock()
	if err != nil {
		s.loadErr = fmt.Errorf("%w: %w", domain.ErrDocumentUnavailable, err)
	} else {
		if doc == nil {
			doc = domain.NewJournalDoc()
		}
		s.doc = doc
		s.loaded = true
	}
	s.mu.Unlock()
	close(s.ready)

	if err != nil {
		logger.Warn("document store: load failed: %v", err)
		return
	}
	logger.Debug("document store: loaded %d entries", len(doc.Entries))

	for {
		select {
		case <-s.stop:
			return
		case <-ctx.Done():
			return
		case m := <-s.mutations:
			m.done <- s.apply(ctx, m.fn)
		}
	}
}

// apply runs one mutation on the writer goroutine.
func (s *DocumentStore) apply(ctx context.Context, fn func(*domain.JournalDoc)) mutationResult {
	s.mu.RLock()
	before := s.doc
	s.mu.RUnlock()

	draft := before.Clone()
	if r := callMutation(fn, draft); r != nil {
		return mutationResult{panicked: r}
	}

	changes := domain.Diff(before, draft)
	if changes.IsEmpty() {
		return mutationResult{}
	}
	if err := draft.CheckDates(changes.Upserted); err != nil {
		logger.Warn("document store: rejected mutation: %v", err)
		return mutationResult{err: err}
	}

	s.mu.Lock()
	s.doc = draft
	s.mu.Unlock()

	err := s.persister.Save(ctx, draft, changes)
	if err != nil {
		logger.Warn("document store: persist failed, keeping in-memory change: %v", err)
	}
	s.mu.Lock()
	s.persistErr = err
	subs := make([]func(*domain.JournalDoc), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub(draft.Clone())
	}
	return mutationResult{}
}

// callMutation runs fn and returns the panic value, if any.
func callMutation(fn func(*domain.JournalDoc), draft *domain.JournalDoc) (panicked any) {
	defer func() {
		panicked = recover()
	}()
	fn(draft)
	return nil
}
