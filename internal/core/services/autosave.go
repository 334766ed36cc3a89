package services

import (
	"errors"
	"sync"
	"time"

	"github.com/custodia-labs/daybook/internal/core/domain"
	"github.com/custodia-labs/daybook/internal/core/ports/driven"
	"github.com/custodia-labs/daybook/internal/core/ports/driving"
	"github.com/custodia-labs/daybook/internal/logger"
)

// Ensure Autosave implements the interface.
var _ driving.Autosave = (*Autosave)(nil)

// Default autosave timings.
const (
	DefaultDebounce      = 500 * time.Millisecond
	DefaultDisplayWindow = 1500 * time.Millisecond
)

// AutosaveOptions configures an Autosave field.
type AutosaveOptions struct {
	// Debounce is the idle window before content is committed.
	Debounce time.Duration

	// DisplayWindow is how long the saved status is shown before returning to idle.
	DisplayWindow time.Duration

	// NewID generates message and entry IDs. Defaults to NewID.
	NewID func() string
}

// Autosave turns keystroke-level edits of one day's diary text into a single
// debounced store write, with a idle -> saving -> saved -> idle indicator.
//
// Every timer callback carries the generation it was armed in. Any edit,
// date change, flush or close bumps the generation, so a callback that lost
// the race with Stop finds a stale generation and does nothing.
type Autosave struct {
	store driving.DocumentStore
	clock driven.Clock
	opts  AutosaveOptions

	mu       sync.Mutex
	date     domain.DateKey
	content  string
	dirty    bool
	status   domain.SaveStatus
	gen      uint64
	debounce driven.Timer
	display  driven.Timer
	closed   bool
}

// NewAutosave binds a field to date, starting from the stored diary text.
func NewAutosave(
	store driving.DocumentStore,
	clock driven.Clock,
	date domain.DateKey,
	opts AutosaveOptions,
) *Autosave {
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.DisplayWindow <= 0 {
		opts.DisplayWindow = DefaultDisplayWindow
	}
	if opts.NewID == nil {
		opts.NewID = NewID
	}
	if clock == nil {
		clock = SystemClock{}
	}

	a := &Autosave{
		store:  store,
		clock:  clock,
		opts:   opts,
		date:   date,
		status: domain.SaveStatusIdle,
	}
	a.content = storedDiaryText(store, date)
	return a
}

// Content returns the current text, including unsaved edits.
func (a *Autosave) Content() string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.content
}

// Status returns the save indicator state.
func (a *Autosave) Status() domain.SaveStatus {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.status
}

// Date returns the day the field is bound to.
func (a *Autosave) Date() domain.DateKey {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.date
}

// Change records new content, cancels any pending timer and arms a new debounce.
func (a *Autosave) Change(content string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed {
		return
	}

	a.cancelTimersLocked()
	a.content = content
	a.dirty = true
	a.status = domain.SaveStatusSaving

	gen := a.gen
	a.debounce = a.clock.AfterFunc(a.opts.Debounce, func() { a.fire(gen) })
}

// SetDate rebinds the field to another day. A pending write for the old day
// is dropped, never committed to either day.
func (a *Autosave) SetDate(date domain.DateKey) {
	a.mu.Lock()
	if a.closed || date == a.date {
		a.mu.Unlock()
		return
	}
	a.cancelTimersLocked()
	a.date = date
	a.dirty = false
	a.status = domain.SaveStatusIdle
	a.mu.Unlock()

	// Read outside the lock; the store may be slow to answer.
	content := storedDiaryText(a.store, date)

	a.mu.Lock()
	if a.date == date && !a.dirty {
		a.content = content
	}
	a.mu.Unlock()
}

// Flush commits pending content now instead of waiting for the debounce.
// It returns domain.ErrDocumentLoading if the store is not ready.
func (a *Autosave) Flush() error {
	a.mu.Lock()
	if a.closed || !a.dirty {
		a.mu.Unlock()
		return nil
	}
	a.cancelTimersLocked()
	gen, date, content := a.gen, a.date, a.content
	a.mu.Unlock()

	return a.commit(gen, date, content)
}

// Close cancels pending timers. Unsaved content is discarded.
func (a *Autosave) Close() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.cancelTimersLocked()
	a.closed = true
}

// fire runs when the debounce timer elapses.
func (a *Autosave) fire(gen uint64) {
	a.mu.Lock()
	if a.closed || gen != a.gen {
		a.mu.Unlock()
		return
	}
	date, content := a.date, a.content
	a.mu.Unlock()

	if err := a.commit(gen, date, content); err != nil && !errors.Is(err, domain.ErrDocumentLoading) {
		logger.Warn("autosave: commit for %s failed: %v", date, err)
	}
}

// commit writes content as the diary text of date and moves to the saved state
// if nothing newer arrived in the meantime.
func (a *Autosave) commit(gen uint64, date domain.DateKey, content string) error {
	err := a.store.Mutate(func(doc *domain.JournalDoc) {
		now := a.clock.Now()
		entry := doc.EnsureEntry(date, now, a.opts.NewID)
		entry.SetDiaryText(content, now, a.opts.NewID)
	})
	if errors.Is(err, domain.ErrDocumentLoading) {
		logger.Debug("autosave: document still loading, skipping write for %s", date)
	}

	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || gen != a.gen {
		return err
	}
	if err != nil {
		// Content stays dirty so a later edit or Flush can retry.
		a.status = domain.SaveStatusIdle
		return err
	}
	a.dirty = false
	a.status = domain.SaveStatusSaved
	a.display = a.clock.AfterFunc(a.opts.DisplayWindow, func() { a.settle(gen) })
	return nil
}

// settle returns the indicator to idle once the display window has passed.
func (a *Autosave) settle(gen uint64) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.closed || gen != a.gen {
		return
	}
	a.status = domain.SaveStatusIdle
}

// cancelTimersLocked stops both timers and invalidates in-flight callbacks.
func (a *Autosave) cancelTimersLocked() {
	a.gen++
	if a.debounce != nil {
		a.debounce.Stop()
		a.debounce = nil
	}
	if a.display != nil {
		a.display.Stop()
		a.display = nil
	}
}

// storedDiaryText reads the diary text for date, or "" while the store is loading.
func storedDiaryText(store driving.DocumentStore, date domain.DateKey) string {
	doc := store.Doc()
	if doc == nil {
		return ""
	}
	return doc.Entry(date).DiaryText()
}
