package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/daybook/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/daybook/internal/core/domain"
)

func newTestAutosave(store *DocumentStore, clock *fakeClock, date domain.DateKey) *Autosave {
	return NewAutosave(store, clock, date, AutosaveOptions{NewID: sequentialIDs("auto")})
}

func TestAutosave_StartsFromStoredText(t *testing.T) {
	date := domain.MustParseDateKey("2024-03-15")
	store := openStore(t, memory.NewPersister(docWithDiary(date, "already here")))

	a := newTestAutosave(store, newFakeClock(), date)

	assert.Equal(t, "already here", a.Content())
	assert.Equal(t, domain.SaveStatusIdle, a.Status())
	assert.Equal(t, date, a.Date())
}

func TestAutosave_DebounceAndStatusCycle(t *testing.T) {
	persister := memory.NewPersister(nil)
	store := openStore(t, persister)
	clock := newFakeClock()
	date := domain.MustParseDateKey("2024-03-15")
	a := newTestAutosave(store, clock, date)

	a.Change("Hello")
	assert.Equal(t, domain.SaveStatusSaving, a.Status())

	clock.Advance(200 * time.Millisecond)
	a.Change("Hello world")
	assert.Equal(t, domain.SaveStatusSaving, a.Status())

	// 499ms after the last edit nothing is written yet.
	clock.Advance(499 * time.Millisecond)
	assert.Empty(t, persister.Changes())

	clock.Advance(time.Millisecond)
	require.Len(t, persister.Changes(), 1)
	assert.Equal(t, "Hello world", persister.Stored().Entry(date).DiaryText())
	assert.Equal(t, domain.SaveStatusSaved, a.Status())

	clock.Advance(1499 * time.Millisecond)
	assert.Equal(t, domain.SaveStatusSaved, a.Status())

	clock.Advance(time.Millisecond)
	assert.Equal(t, domain.SaveStatusIdle, a.Status())
}

func TestAutosave_BurstCoalescesIntoOneWrite(t *testing.T) {
	persister := memory.NewPersister(nil)
	store := openStore(t, persister)
	clock := newFakeClock()
	date := domain.MustParseDateKey("2024-03-15")
	a := newTestAutosave(store, clock, date)

	text := ""
	for _, r := range "dear diary" {
		text += string(r)
		a.Change(text)
		clock.Advance(50 * time.Millisecond)
	}
	clock.Advance(time.Second)

	assert.Len(t, persister.Changes(), 1)
	assert.Equal(t, "dear diary", store.Doc().Entry(date).DiaryText())
}

func TestAutosave_CloseDropsPendingWrite(t *testing.T) {
	persister := memory.NewPersister(nil)
	store := openStore(t, persister)
	clock := newFakeClock()
	a := newTestAutosave(store, clock, domain.MustParseDateKey("2024-03-15"))

	a.Change("unsaved")
	a.Close()
	clock.Advance(time.Second)

	assert.Empty(t, persister.Changes())
	assert.Zero(t, clock.Pending())

	// Edits after Close are ignored.
	a.Change("ignored")
	clock.Advance(time.Second)
	assert.Empty(t, persister.Changes())
}

func TestAutosave_DateChangeDropsPendingWrite(t *testing.T) {
	dayA := domain.MustParseDateKey("2024-03-15")
	dayB := domain.MustParseDateKey("2024-03-16")
	persister := memory.NewPersister(docWithDiary(dayB, "day b text"))
	store := openStore(t, persister)
	clock := newFakeClock()
	a := newTestAutosave(store, clock, dayA)

	a.Change("meant for day A")
	clock.Advance(100 * time.Millisecond)
	a.SetDate(dayB)
	clock.Advance(time.Second)

	assert.Empty(t, persister.Changes())
	assert.Nil(t, store.Doc().Entry(dayA))
	assert.Equal(t, "day b text", store.Doc().Entry(dayB).DiaryText())
	assert.Equal(t, "day b text", a.Content())
	assert.Equal(t, domain.SaveStatusIdle, a.Status())
	assert.Equal(t, dayB, a.Date())
}

func TestAutosave_DateChangeClearsSavedIndicator(t *testing.T) {
	store := openStore(t, memory.NewPersister(nil))
	clock := newFakeClock()
	a := newTestAutosave(store, clock, domain.MustParseDateKey("2024-03-15"))

	a.Change("text")
	clock.Advance(500 * time.Millisecond)
	require.Equal(t, domain.SaveStatusSaved, a.Status())

	a.SetDate(domain.MustParseDateKey("2024-03-16"))

	assert.Equal(t, domain.SaveStatusIdle, a.Status())
	assert.Empty(t, a.Content())
}

func TestAutosave_SkipsWriteWhileStoreLoading(t *testing.T) {
	persister := memory.NewPersister(nil)
	release := persister.Hold()
	store := NewDocumentStore(persister)
	store.Open(context.Background())
	defer store.Close()
	defer release()

	clock := newFakeClock()
	date := domain.MustParseDateKey("2024-03-15")
	a := newTestAutosave(store, clock, date)

	a.Change("typed too early")
	clock.Advance(time.Second)

	assert.Empty(t, persister.Changes())
	assert.Equal(t, "typed too early", a.Content())
	assert.Equal(t, domain.SaveStatusIdle, a.Status())
}

func TestAutosave_InvalidDateIsNeverWritten(t *testing.T) {
	persister := memory.NewPersister(nil)
	store := openStore(t, persister)
	clock := newFakeClock()
	a := newTestAutosave(store, clock, domain.DateKey("2025-02-30"))

	a.Change("lost day")
	clock.Advance(DefaultDebounce)

	assert.Empty(t, persister.Changes())
	assert.Empty(t, store.Doc().Entries)
	assert.Equal(t, domain.SaveStatusIdle, a.Status())
	assert.ErrorIs(t, a.Flush(), domain.ErrInvalidDate)
}

func TestAutosave_FlushWritesImmediately(t *testing.T) {
	persister := memory.NewPersister(nil)
	store := openStore(t, persister)
	clock := newFakeClock()
	date := domain.MustParseDateKey("2024-03-15")
	a := newTestAutosave(store, clock, date)

	a.Change("now please")
	require.NoError(t, a.Flush())

	assert.Len(t, persister.Changes(), 1)
	assert.Equal(t, "now please", store.Doc().Entry(date).DiaryText())
	assert.Equal(t, domain.SaveStatusSaved, a.Status())

	// The cancelled debounce does not write again.
	clock.Advance(time.Second)
	assert.Len(t, persister.Changes(), 1)

	// Nothing dirty, nothing to flush.
	require.NoError(t, a.Flush())
	assert.Len(t, persister.Changes(), 1)
}

func TestAutosave_KeepsConversationMessages(t *testing.T) {
	date := domain.MustParseDateKey("2024-03-15")
	doc := docWithDiary(date, "diary")
	entry := doc.Entry(date)
	entry.Messages = append(entry.Messages,
		domain.Message{ID: "q", Role: domain.RoleUser, Content: "question"},
		domain.Message{ID: "a", Role: domain.RoleAssistant, Content: "answer"},
	)
	store := openStore(t, memory.NewPersister(doc))
	clock := newFakeClock()
	a := newTestAutosave(store, clock, date)

	a.Change("diary, revised")
	clock.Advance(500 * time.Millisecond)

	msgs := store.Doc().Entry(date).Messages
	require.Len(t, msgs, 3)
	assert.Equal(t, "diary, revised", msgs[0].Content)
	assert.Equal(t, "diary-"+string(date), msgs[0].ID)
	assert.Equal(t, "question", msgs[1].Content)
	assert.Equal(t, "answer", msgs[2].Content)
}

func TestAutosave_DefaultsApplied(t *testing.T) {
	store := openStore(t, memory.NewPersister(nil))

	a := NewAutosave(store, nil, domain.MustParseDateKey("2024-03-15"), AutosaveOptions{})

	assert.Equal(t, DefaultDebounce, a.opts.Debounce)
	assert.Equal(t, DefaultDisplayWindow, a.opts.DisplayWindow)
	assert.NotNil(t, a.opts.NewID)
	assert.IsType(t, SystemClock{}, a.clock)
}
