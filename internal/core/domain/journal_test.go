package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewJournalDoc_Defaults(t *testing.T) {
	doc := NewJournalDoc()

	require.NotNil(t, doc.Entries)
	assert.Empty(t, doc.Entries)
	assert.True(t, doc.Settings.Equal(DefaultSettings()))
}

func TestJournalDoc_EnsureEntry(t *testing.T) {
	doc := &JournalDoc{}
	date := MustParseDateKey("2024-01-15")
	calls := 0
	newID := func() string { calls++; return "e1" }

	first := doc.EnsureEntry(date, time.Now(), newID)
	second := doc.EnsureEntry(date, time.Now(), newID)

	assert.Same(t, first, second)
	assert.Equal(t, 1, calls)
	assert.Equal(t, date, first.Date)
}

func TestJournalDoc_Dates_SkipsEmptyEntries(t *testing.T) {
	doc := NewJournalDoc()
	doc.Entries["2024-01-16"] = &JournalEntry{Messages: []Message{{ID: "1"}}}
	doc.Entries["2024-01-14"] = &JournalEntry{Messages: []Message{{ID: "2"}}}
	doc.Entries["2024-01-15"] = &JournalEntry{Messages: []Message{}}

	assert.Equal(t, []DateKey{"2024-01-14", "2024-01-16"}, doc.Dates())
}

func TestJournalDoc_CloneIsIndependent(t *testing.T) {
	doc := NewJournalDoc()
	doc.Settings.APIKeys[AIProviderClaude] = "key"
	doc.Entries["2024-01-15"] = &JournalEntry{ID: "e", Messages: []Message{{ID: "1", Content: "a"}}}

	c := doc.Clone()
	c.Settings.APIKeys[AIProviderClaude] = "other"
	c.Entries["2024-01-15"].Messages[0].Content = "b"
	delete(c.Entries, "2024-01-15")

	assert.Equal(t, "key", doc.Settings.APIKeys[AIProviderClaude])
	require.Contains(t, doc.Entries, DateKey("2024-01-15"))
	assert.Equal(t, "a", doc.Entries["2024-01-15"].Messages[0].Content)
}

func TestDiff(t *testing.T) {
	before := NewJournalDoc()
	before.Entries["2024-01-14"] = &JournalEntry{ID: "a", Date: "2024-01-14"}
	before.Entries["2024-01-15"] = &JournalEntry{ID: "b", Date: "2024-01-15"}

	after := before.Clone()
	after.Entries["2024-01-15"].Messages = []Message{{ID: "m", Role: RoleUser, Content: "hi"}}
	after.Entries["2024-01-16"] = &JournalEntry{ID: "c", Date: "2024-01-16"}
	delete(after.Entries, "2024-01-14")

	cs := Diff(before, after)

	assert.Equal(t, []DateKey{"2024-01-15", "2024-01-16"}, cs.Upserted)
	assert.Equal(t, []DateKey{"2024-01-14"}, cs.Removed)
	assert.False(t, cs.Settings)
	assert.False(t, cs.IsEmpty())

	after.Settings.DisplayName = "Sam"
	assert.True(t, Diff(before, after).Settings)
	assert.True(t, Diff(before, before.Clone()).IsEmpty())
}

func TestJournalDoc_CheckDates(t *testing.T) {
	doc := NewJournalDoc()
	doc.Entries["2024-02-29"] = &JournalEntry{ID: "a", Date: "2024-02-29"}
	doc.Entries["2025-02-29"] = &JournalEntry{ID: "b", Date: "2025-02-29"}
	doc.Entries["2024-03-01"] = &JournalEntry{ID: "c", Date: "2024-03-02"}

	assert.NoError(t, doc.CheckDates([]DateKey{"2024-02-29"}))
	assert.NoError(t, doc.CheckDates(nil))
	assert.ErrorIs(t, doc.CheckDates([]DateKey{"2025-02-29"}), ErrInvalidDate)
	assert.ErrorIs(t, doc.CheckDates([]DateKey{"2024-03-01"}), ErrInvalidDate)
	assert.ErrorIs(t, doc.CheckDates([]DateKey{"2024-02-29", "2025-04-31"}), ErrInvalidDate)
}
