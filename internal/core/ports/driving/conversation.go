package driving

import (
	"context"

	"github.com/custodia-labs/daybook/internal/core/domain"
)

// ConversationState is a point-in-time view of a conversation.
type ConversationState struct {
	Key       string
	Messages  []domain.Message
	IsLoading bool
	Error     string
}

// Conversation manages the chat with the assistant for one conversation key.
type Conversation interface {
	// Send appends text as a user message and asks the assistant for a reply.
	// It blocks until the reply arrives; run it in a goroutine for async use.
	Send(ctx context.Context, text string) error

	// EditAndResend replaces a user message and everything after it, then asks again.
	EditAndResend(ctx context.Context, messageID, text string) error

	// Load binds the engine to key and its stored messages, resetting state when
	// either differs from the current binding.
	Load(key string, initial []domain.Message)

	// Reset clears messages, error and loading state.
	Reset()

	// Snapshot returns the current state.
	Snapshot() ConversationState

	// Subscribe registers fn to receive the state after every change.
	Subscribe(fn func(state ConversationState)) (cancel func())
}
