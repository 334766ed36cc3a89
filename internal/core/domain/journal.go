package domain

import (
	"fmt"
	"sort"
	"time"
)

// JournalDoc is the entire unit of persistence: every entry plus settings.
// Exactly one exists per device; it is created lazily and never deleted.
type JournalDoc struct {
	Entries  map[DateKey]*JournalEntry
	Settings Settings
}

// NewJournalDoc returns the document used for a fresh install.
func NewJournalDoc() *JournalDoc {
	return &JournalDoc{
		Entries:  make(map[DateKey]*JournalEntry),
		Settings: DefaultSettings(),
	}
}

// Entry returns the entry for date, or nil.
func (d *JournalDoc) Entry(date DateKey) *JournalEntry {
	if d == nil {
		return nil
	}
	return d.Entries[date]
}

// EnsureEntry returns the entry for date, creating it when absent.
// newID is only called when an entry is created.
func (d *JournalDoc) EnsureEntry(date DateKey, now time.Time, newID func() string) *JournalEntry {
	if d.Entries == nil {
		d.Entries = make(map[DateKey]*JournalEntry)
	}
	if e, ok := d.Entries[date]; ok && e != nil {
		return e
	}
	e := NewJournalEntry(newID(), date, now)
	d.Entries[date] = e
	return e
}

// Dates returns the sorted dates of entries that have messages.
func (d *JournalDoc) Dates() []DateKey {
	if d == nil {
		return nil
	}
	dates := make([]DateKey, 0, len(d.Entries))
	for date, e := range d.Entries {
		if e.HasContent() {
			dates = append(dates, date)
		}
	}
	sort.Slice(dates, func(i, j int) bool { return dates[i] < dates[j] })
	return dates
}

// Clone returns a deep copy of the document.
func (d *JournalDoc) Clone() *JournalDoc {
	if d == nil {
		return nil
	}
	c := &JournalDoc{
		Entries:  make(map[DateKey]*JournalEntry, len(d.Entries)),
		Settings: d.Settings.Clone(),
	}
	for date, e := range d.Entries {
		c.Entries[date] = e.Clone()
	}
	return c
}

// CheckDates verifies that each of dates is a valid key and that its entry, if
// any, carries the same date.
func (d *JournalDoc) CheckDates(dates []DateKey) error {
	for _, date := range dates {
		if !date.IsValid() {
			return fmt.Errorf("%w: entry key %q", ErrInvalidDate, string(date))
		}
		if e := d.Entry(date); e != nil && e.Date != date {
			return fmt.Errorf("%w: entry %q stored under %q", ErrInvalidDate, string(e.Date), string(date))
		}
	}
	return nil
}

// ChangeSet describes what a mutation touched, so persisters can write incrementally.
type ChangeSet struct {
	// Upserted lists entries that were created or modified.
	Upserted []DateKey

	// Removed lists entries that no longer exist.
	Removed []DateKey

	// Settings is true when settings changed.
	Settings bool
}

// IsEmpty returns true if nothing changed.
func (c ChangeSet) IsEmpty() bool {
	return len(c.Upserted) == 0 && len(c.Removed) == 0 && !c.Settings
}

// Diff computes the ChangeSet that turns before into after.
// Dates are sorted so persisters apply them deterministically.
func Diff(before, after *JournalDoc) ChangeSet {
	var cs ChangeSet
	if before == nil {
		before = &JournalDoc{}
	}
	if after == nil {
		after = &JournalDoc{}
	}
	for date, e := range after.Entries {
		if !e.Equal(before.Entries[date]) {
			cs.Upserted = append(cs.Upserted, date)
		}
	}
	for date := range before.Entries {
		if _, ok := after.Entries[date]; !ok {
			cs.Removed = append(cs.Removed, date)
		}
	}
	sort.Slice(cs.Upserted, func(i, j int) bool { return cs.Upserted[i] < cs.Upserted[j] })
	sort.Slice(cs.Removed, func(i, j int) bool { return cs.Removed[i] < cs.Removed[j] })
	cs.Settings = !before.Settings.Equal(after.Settings)
	return cs
}
