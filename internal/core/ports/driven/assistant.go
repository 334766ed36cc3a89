package driven

import (
	"context"

	"github.com/custodia-labs/daybook/internal/core/domain"
)

// Assistant answers a user message given the prior conversation.
// It is the provider capability consumed by the conversation engine.
//
// SendMessage never returns an error: every expected failure (network,
// rate limiting, invalid key, empty reply) is reported in the reply with
// Success false, so callers can roll back optimistic state.
type Assistant interface {
	SendMessage(ctx context.Context, history []domain.Message, userText string) domain.AssistantReply
}

// AssistantFunc adapts a function to the Assistant interface.
type AssistantFunc func(ctx context.Context, history []domain.Message, userText string) domain.AssistantReply

// SendMessage calls f.
func (f AssistantFunc) SendMessage(ctx context.Context, history []domain.Message, userText string) domain.AssistantReply {
	return f(ctx, history, userText)
}

// AssistantValidator checks that settings select a reachable provider.
type AssistantValidator interface {
	ValidateAssistant(settings domain.Settings) error
}
