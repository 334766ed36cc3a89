package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/daybook/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/daybook/internal/core/domain"
)

func TestJournalService_Today(t *testing.T) {
	doc := domain.NewJournalDoc()
	doc.Settings.Timezone = "Pacific/Kiritimati"
	clock := newFakeClock()
	service := NewJournalService(openStore(t, memory.NewPersister(doc)), clock, nil)

	// 23:00 on the 15th in UTC+14.
	assert.Equal(t, domain.MustParseDateKey("2024-03-15"), service.Today())

	// 11:00 UTC is already the 16th there.
	clock.Advance(2 * time.Hour)
	assert.Equal(t, domain.MustParseDateKey("2024-03-16"), service.Today())
}

func TestJournalService_EntryAndView(t *testing.T) {
	date := domain.MustParseDateKey("2024-03-15")
	service := NewJournalService(openStore(t, memory.NewPersister(docWithDiary(date, "text"))), newFakeClock(), nil)

	entry, err := service.Entry(date)
	require.NoError(t, err)
	assert.Equal(t, "text", entry.DiaryText())

	_, err = service.Entry(date.AddDays(1))
	assert.ErrorIs(t, err, domain.ErrNotFound)

	view, err := service.View(date.AddDays(1))
	require.NoError(t, err)
	assert.Empty(t, view.DiaryText)
}

func TestJournalService_Dates(t *testing.T) {
	doc := docWithDiary(domain.MustParseDateKey("2024-03-15"), "b")
	other := docWithDiary(domain.MustParseDateKey("2024-02-29"), "a")
	for k, v := range other.Entries {
		doc.Entries[k] = v
	}
	doc.EnsureEntry(domain.MustParseDateKey("2024-04-01"), testEpoch, func() string { return "empty" })
	service := NewJournalService(openStore(t, memory.NewPersister(doc)), newFakeClock(), nil)

	dates, err := service.Dates()

	require.NoError(t, err)
	assert.Equal(t, []domain.DateKey{"2024-02-29", "2024-03-15"}, dates)
}

func TestJournalService_RecordPosition(t *testing.T) {
	date := domain.MustParseDateKey("2024-03-15")
	store := openStore(t, memory.NewPersister(nil))
	clock := newFakeClock()
	service := NewJournalService(store, clock, sequentialIDs("e"))

	require.NoError(t, service.RecordPosition(date, domain.Position{Latitude: 51.5, Longitude: -0.12, Place: "London"}))

	entry := store.Doc().Entry(date)
	require.NotNil(t, entry)
	require.NotNil(t, entry.Position)
	assert.Equal(t, "London", entry.Position.Place)
	assert.Equal(t, clock.Now(), entry.Position.CapturedAt)
	assert.Empty(t, entry.Messages)

	err := service.RecordPosition(date, domain.Position{Latitude: 91})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
