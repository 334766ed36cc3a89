package services

import (
	"github.com/custodia-labs/daybook/internal/core/domain"
	"github.com/custodia-labs/daybook/internal/core/ports/driven"
	"github.com/custodia-labs/daybook/internal/core/ports/driving"
	"github.com/custodia-labs/daybook/internal/logger"
)

// SplitEntry splits entry into diary text and conversation.
// A nil or empty entry yields an empty view.
func SplitEntry(entry *domain.JournalEntry) domain.EntryView {
	if entry == nil || len(entry.Messages) == 0 {
		return domain.EntryView{Conversation: []domain.Message{}}
	}
	conv := domain.CloneMessages(entry.Messages[1:])
	return domain.EntryView{
		DiaryText:       entry.DiaryText(),
		Conversation:    conv,
		HasConversation: domain.HasAssistantMessage(conv),
	}
}

// MergeConversation rebuilds an entry's message list from its current list and
// a new conversation. The diary message (current[0], when it is a user message)
// is kept and everything after it is replaced by conversation. When there is
// no diary message, placeholder supplies an empty one so that the diary slot
// stays at index 0.
func MergeConversation(current, conversation []domain.Message, placeholder func() domain.Message) []domain.Message {
	out := make([]domain.Message, 0, len(conversation)+1)
	if len(current) > 0 && current[0].Role == domain.RoleUser {
		out = append(out, current[0])
	} else {
		out = append(out, placeholder())
	}
	return append(out, conversation...)
}

// EntryReconciler writes conversation results back into journal entries
// without disturbing the diary text.
type EntryReconciler struct {
	store driving.DocumentStore
	clock driven.Clock
	newID func() string
}

// NewEntryReconciler creates a reconciler writing through store.
func NewEntryReconciler(store driving.DocumentStore, clock driven.Clock, newID func() string) *EntryReconciler {
	if clock == nil {
		clock = SystemClock{}
	}
	if newID == nil {
		newID = NewID
	}
	return &EntryReconciler{store: store, clock: clock, newID: newID}
}

// SaveConversation replaces the conversation part of date's entry in a single
// mutation, creating the entry if needed. Nothing is written when the merged
// list equals the stored one.
func (r *EntryReconciler) SaveConversation(date domain.DateKey, conversation []domain.Message) error {
	return r.store.Mutate(func(doc *domain.JournalDoc) {
		now := r.clock.Now()
		entry := doc.EnsureEntry(date, now, r.newID)
		merged := MergeConversation(entry.Messages, domain.CloneMessages(conversation), func() domain.Message {
			return domain.Message{ID: r.newID(), Role: domain.RoleUser, CreatedAt: now}
		})
		if domain.MessagesEqual(entry.Messages, merged) {
			return
		}
		entry.Messages = merged
		entry.UpdatedAt = now
	})
}

// Bind persists conv's messages whenever a request settles.
// States that are loading or hold no messages are ignored. The returned
// function stops persisting.
func (r *EntryReconciler) Bind(conv driving.Conversation) func() {
	return conv.Subscribe(func(state driving.ConversationState) {
		if state.IsLoading || len(state.Messages) == 0 {
			return
		}
		date, err := domain.ParseDateKey(state.Key)
		if err != nil {
			logger.Warn("conversation key %q is not a date: %v", state.Key, err)
			return
		}
		if err := r.SaveConversation(date, state.Messages); err != nil {
			logger.Warn("failed to save conversation for %s: %v", date, err)
		}
	})
}
