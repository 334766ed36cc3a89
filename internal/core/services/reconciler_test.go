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

func TestSplitEntry(t *testing.T) {
	t.Run("nil entry", func(t *testing.T) {
		view := SplitEntry(nil)
		assert.Empty(t, view.DiaryText)
		assert.NotNil(t, view.Conversation)
		assert.Empty(t, view.Conversation)
		assert.False(t, view.HasConversation)
	})

	t.Run("diary only", func(t *testing.T) {
		entry := &domain.JournalEntry{Messages: []domain.Message{
			{ID: "d", Role: domain.RoleUser, Content: "diary"},
		}}
		view := SplitEntry(entry)
		assert.Equal(t, "diary", view.DiaryText)
		assert.Empty(t, view.Conversation)
		assert.False(t, view.HasConversation)
	})

	t.Run("question without reply", func(t *testing.T) {
		entry := &domain.JournalEntry{Messages: []domain.Message{
			{ID: "d", Role: domain.RoleUser, Content: "diary"},
			{ID: "q", Role: domain.RoleUser, Content: "question"},
		}}
		view := SplitEntry(entry)
		assert.Len(t, view.Conversation, 1)
		assert.False(t, view.HasConversation)
	})

	t.Run("with conversation", func(t *testing.T) {
		entry := &domain.JournalEntry{Messages: []domain.Message{
			{ID: "d", Role: domain.RoleUser, Content: "diary"},
			{ID: "q", Role: domain.RoleUser, Content: "question"},
			{ID: "a", Role: domain.RoleAssistant, Content: "answer"},
		}}
		view := SplitEntry(entry)
		assert.Equal(t, "diary", view.DiaryText)
		assert.Equal(t, []string{"question", "answer"}, contents(view.Conversation))
		assert.True(t, view.HasConversation)

		// The view does not alias the entry.
		view.Conversation[0].Content = "changed"
		assert.Equal(t, "question", entry.Messages[1].Content)
	})
}

func TestMergeConversation_RoundTrip(t *testing.T) {
	original := []domain.Message{
		{ID: "d", Role: domain.RoleUser, Content: "diary"},
		{ID: "q", Role: domain.RoleUser, Content: "question"},
		{ID: "a", Role: domain.RoleAssistant, Content: "answer"},
	}
	view := SplitEntry(&domain.JournalEntry{Messages: original})

	merged := MergeConversation(original, view.Conversation, func() domain.Message {
		t.Fatal("placeholder not expected")
		return domain.Message{}
	})

	assert.Equal(t, original, merged)
}

func TestMergeConversation_ReplacesConversation(t *testing.T) {
	current := []domain.Message{
		{ID: "d", Role: domain.RoleUser, Content: "diary"},
		{ID: "old", Role: domain.RoleUser, Content: "old question"},
	}
	conv := []domain.Message{
		{ID: "new", Role: domain.RoleUser, Content: "new question"},
		{ID: "ans", Role: domain.RoleAssistant, Content: "new answer"},
	}

	merged := MergeConversation(current, conv, nil)

	assert.Equal(t, []string{"diary", "new question", "new answer"}, contents(merged))
}

func TestMergeConversation_NoDiaryUsesPlaceholder(t *testing.T) {
	conv := []domain.Message{{ID: "q", Role: domain.RoleUser, Content: "question"}}

	merged := MergeConversation(nil, conv, func() domain.Message {
		return domain.Message{ID: "placeholder", Role: domain.RoleUser}
	})

	require.Len(t, merged, 2)
	assert.Equal(t, "placeholder", merged[0].ID)
	assert.Empty(t, merged[0].Content)
	assert.Equal(t, "question", merged[1].Content)
}

func TestEntryReconciler_SaveConversationKeepsDiary(t *testing.T) {
	date := domain.MustParseDateKey("2024-03-15")
	persister := memory.NewPersister(docWithDiary(date, "my day"))
	store := openStore(t, persister)
	r := NewEntryReconciler(store, newFakeClock(), sequentialIDs("r"))

	conv := []domain.Message{
		{ID: "q", Role: domain.RoleUser, Content: "question"},
		{ID: "a", Role: domain.RoleAssistant, Content: "answer"},
	}
	require.NoError(t, r.SaveConversation(date, conv))

	msgs := store.Doc().Entry(date).Messages
	assert.Equal(t, []string{"my day", "question", "answer"}, contents(msgs))
	assert.Len(t, persister.Changes(), 1)

	// Saving the same conversation again writes nothing.
	require.NoError(t, r.SaveConversation(date, conv))
	assert.Len(t, persister.Changes(), 1)
}

func TestEntryReconciler_SaveConversationCreatesEntry(t *testing.T) {
	date := domain.MustParseDateKey("2024-03-15")
	store := openStore(t, memory.NewPersister(nil))
	r := NewEntryReconciler(store, newFakeClock(), sequentialIDs("r"))

	require.NoError(t, r.SaveConversation(date, []domain.Message{
		{ID: "q", Role: domain.RoleUser, Content: "question"},
	}))

	entry := store.Doc().Entry(date)
	require.NotNil(t, entry)
	require.Len(t, entry.Messages, 2)
	assert.Empty(t, entry.DiaryText())
	assert.Equal(t, domain.RoleUser, entry.Messages[0].Role)
	assert.Equal(t, "question", entry.Messages[1].Content)
}

func TestEntryReconciler_SaveConversationRejectsInvalidDate(t *testing.T) {
	persister := memory.NewPersister(nil)
	store := openStore(t, persister)
	r := NewEntryReconciler(store, newFakeClock(), sequentialIDs("r"))

	err := r.SaveConversation(domain.DateKey("2025-13-01"), []domain.Message{
		{ID: "q", Role: domain.RoleUser, Content: "question"},
	})

	assert.ErrorIs(t, err, domain.ErrInvalidDate)
	assert.Empty(t, store.Doc().Entries)
	assert.Empty(t, persister.Changes())
}

func TestEntryReconciler_SaveWhileLoading(t *testing.T) {
	persister := memory.NewPersister(nil)
	release := persister.Hold()
	store := NewDocumentStore(persister)
	store.Open(context.Background())
	defer store.Close()
	defer release()
	r := NewEntryReconciler(store, nil, nil)

	err := r.SaveConversation(domain.MustParseDateKey("2024-03-15"), nil)

	assert.ErrorIs(t, err, domain.ErrDocumentLoading)
}

func TestEntryReconciler_BindPersistsSettledStates(t *testing.T) {
	date := domain.MustParseDateKey("2024-03-15")
	persister := memory.NewPersister(docWithDiary(date, "diary"))
	store := openStore(t, persister)
	r := NewEntryReconciler(store, newFakeClock(), sequentialIDs("r"))
	assistant := newBlockingAssistant()
	conv := newTestConversation(assistant, nil)
	defer r.Bind(conv)()

	done := make(chan error, 1)
	go func() { done <- conv.Send(context.Background(), "question") }()
	req := assistant.next(t)

	// Nothing is written while the request is in flight.
	assert.Empty(t, persister.Changes())

	req.reply <- domain.AssistantReply{Content: "answer", Success: true}
	require.NoError(t, <-done)

	assert.Equal(t, []string{"diary", "question", "answer"}, contents(store.Doc().Entry(date).Messages))
}

func TestEntryReconciler_BindIgnoresFailedExchange(t *testing.T) {
	date := domain.MustParseDateKey("2024-03-15")
	persister := memory.NewPersister(docWithDiary(date, "diary"))
	store := openStore(t, persister)
	r := NewEntryReconciler(store, newFakeClock(), sequentialIDs("r"))
	conv := newTestConversation(failWith("offline"), nil)
	defer r.Bind(conv)()

	require.Error(t, conv.Send(context.Background(), "question"))

	assert.Empty(t, persister.Changes())
	assert.Equal(t, []string{"diary"}, contents(store.Doc().Entry(date).Messages))
}

// A day with saved diary text gets a conversation, and both survive a reload.
func TestEntryReconciler_DiaryThenConversationEndToEnd(t *testing.T) {
	date := domain.MustParseDateKey("2024-03-15")
	persister := memory.NewPersister(nil)
	store := openStore(t, persister)
	clock := newFakeClock()
	ids := sequentialIDs("id")

	// Write the diary through autosave.
	field := NewAutosave(store, clock, date, AutosaveOptions{NewID: ids})
	field.Change("Today was good")
	clock.Advance(DefaultDebounce)
	require.Equal(t, []string{"Today was good"}, contents(store.Doc().Entry(date).Messages))

	// Ask about it.
	view := SplitEntry(store.Doc().Entry(date))
	conv := NewConversation(replyWith("That sounds nice"), date.String(), view.Conversation,
		ConversationOptions{Clock: clock, NewID: ids})
	r := NewEntryReconciler(store, clock, ids)
	defer r.Bind(conv)()

	require.NoError(t, conv.Send(context.Background(), view.DiaryText))

	stored := store.Doc().Entry(date).Messages
	require.Len(t, stored, 3)
	assert.Equal(t, "Today was good", stored[0].Content)
	assert.Equal(t, domain.RoleUser, stored[1].Role)
	assert.Equal(t, "Today was good", stored[1].Content)
	assert.Equal(t, domain.RoleAssistant, stored[2].Role)
	assert.Equal(t, "That sounds nice", stored[2].Content)

	// Reload from the persisted copy.
	reopened := openStore(t, memory.NewPersister(persister.Stored()))
	reloaded := SplitEntry(reopened.Doc().Entry(date))
	assert.Equal(t, "Today was good", reloaded.DiaryText)
	assert.True(t, reloaded.HasConversation)
	assert.Len(t, reloaded.Conversation, 2)

	// Editing the diary afterwards leaves the conversation alone.
	clock.Advance(time.Second)
	field.Change("Today was great")
	clock.Advance(DefaultDebounce)
	assert.Equal(t,
		[]string{"Today was great", "Today was good", "That sounds nice"},
		contents(store.Doc().Entry(date).Messages))
}
