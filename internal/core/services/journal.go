package services

import (
	"time"

	"github.com/custodia-labs/daybook/internal/core/domain"
	"github.com/custodia-labs/daybook/internal/core/ports/driven"
	"github.com/custodia-labs/daybook/internal/core/ports/driving"
)

// Ensure JournalService implements the interface.
var _ driving.JournalService = (*JournalService)(nil)

// JournalService answers read queries over the journal and records
// entry metadata. Diary text and conversations are written by Autosave and
// EntryReconciler.
type JournalService struct {
	store driving.DocumentStore
	clock driven.Clock
	newID func() string
}

// NewJournalService creates a journal service over store.
func NewJournalService(store driving.DocumentStore, clock driven.Clock, newID func() string) *JournalService {
	if clock == nil {
		clock = SystemClock{}
	}
	if newID == nil {
		newID = NewID
	}
	return &JournalService{store: store, clock: clock, newID: newID}
}

// Today returns today's date in the configured timezone.
func (s *JournalService) Today() domain.DateKey {
	loc := time.Local
	if doc := s.store.Doc(); doc != nil {
		loc = doc.Settings.Location()
	}
	return domain.DateKeyFromTime(s.clock.Now().In(loc))
}

// Entry returns a copy of the entry for date.
func (s *JournalService) Entry(date domain.DateKey) (*domain.JournalEntry, error) {
	doc := s.store.Doc()
	if doc == nil {
		return nil, domain.ErrDocumentLoading
	}
	entry := doc.Entry(date)
	if entry == nil {
		return nil, domain.ErrNotFound
	}
	return entry, nil
}

// View returns the split view of date's entry. A missing entry yields an
// empty view.
func (s *JournalService) View(date domain.DateKey) (domain.EntryView, error) {
	doc := s.store.Doc()
	if doc == nil {
		return domain.EntryView{}, domain.ErrDocumentLoading
	}
	return SplitEntry(doc.Entry(date)), nil
}

// Dates returns the sorted dates that have entries with content.
func (s *JournalService) Dates() ([]domain.DateKey, error) {
	doc := s.store.Doc()
	if doc == nil {
		return nil, domain.ErrDocumentLoading
	}
	return doc.Dates(), nil
}

// RecordPosition attaches a location to date's entry, creating the entry if
// needed. CapturedAt defaults to now.
func (s *JournalService) RecordPosition(date domain.DateKey, pos domain.Position) error {
	if err := pos.Validate(); err != nil {
		return err
	}
	return s.store.Mutate(func(doc *domain.JournalDoc) {
		now := s.clock.Now()
		if pos.CapturedAt.IsZero() {
			pos.CapturedAt = now
		}
		entry := doc.EnsureEntry(date, now, s.newID)
		entry.Position = &pos
		entry.UpdatedAt = now
	})
}
