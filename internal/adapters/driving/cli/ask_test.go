package cli

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/daybook/internal/core/domain"
	"github.com/custodia-labs/daybook/internal/core/ports/driven"
	"github.com/custodia-labs/daybook/internal/core/ports/driving"
	"github.com/custodia-labs/daybook/internal/core/services"
)

func TestAsk_OpensWithDiaryText(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "write", "2024-03-15", "Went hiking")

	out := env.mustRun(t, "ask", "2024-03-15", "was", "it", "worth", "it?")

	assert.Equal(t, []string{"Went hiking", "was it worth it?"}, env.prompts)
	assert.Contains(t, out, "You: Went hiking")
	assert.Contains(t, out, "Assistant: Tell me more about: was it worth it?")

	view, err := env.rt.Journal.View(domain.MustParseDateKey("2024-03-15"))
	require.NoError(t, err)
	assert.Equal(t, "Went hiking", view.DiaryText)
	require.Len(t, view.Conversation, 4)
	assert.True(t, view.HasConversation)
}

func TestAsk_ContinuesExistingConversation(t *testing.T) {
	env := newTestEnv(t)
	env.mustRun(t, "write", "2024-03-15", "Went hiking")
	env.mustRun(t, "ask", "2024-03-15", "first")
	env.prompts = nil

	env.mustRun(t, "ask", "2024-03-15", "second")

	assert.Equal(t, []string{"second"}, env.prompts)
	view, err := env.rt.Journal.View(domain.MustParseDateKey("2024-03-15"))
	require.NoError(t, err)
	assert.Len(t, view.Conversation, 6)
}

func TestAsk_WithoutDiaryText(t *testing.T) {
	env := newTestEnv(t)

	env.mustRun(t, "ask", "2024-03-15", "hello")

	assert.Equal(t, []string{"hello"}, env.prompts)
	view, err := env.rt.Journal.View(domain.MustParseDateKey("2024-03-15"))
	require.NoError(t, err)
	assert.Empty(t, view.DiaryText)
	require.Len(t, view.Conversation, 2)
	assert.Equal(t, "hello", view.Conversation[0].Content)
}

func TestAsk_Interactive(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "one\ntwo\n\nignored\n", "ask", "2024-03-15")

	require.NoError(t, err)
	assert.Contains(t, out, "What's on your mind?")
	assert.Equal(t, []string{"one", "two"}, env.prompts)
}

func TestAsk_ProviderFailureInteractiveContinues(t *testing.T) {
	env := newTestEnv(t)
	calls := 0
	env.assistant = driven.AssistantFunc(func(context.Context, []domain.Message, string) domain.AssistantReply {
		calls++
		if calls == 1 {
			return domain.AssistantReply{Error: "overloaded"}
		}
		return domain.AssistantReply{Success: true, Content: "ok"}
	})

	out, err := env.run(t, "one\ntwo\n", "ask", "2024-03-15")

	require.NoError(t, err)
	assert.Contains(t, out, "Error: assistant request failed: overloaded")
	assert.Contains(t, out, "Assistant: ok")
}

func TestAsk_AssistantUnavailable(t *testing.T) {
	env := newTestEnv(t)
	env.rt.NewConversation = func(func() domain.DateKey) (driving.Conversation, func()) {
		return services.NewConversation(nil, "", nil, services.ConversationOptions{}), func() {}
	}

	_, err := env.run(t, "", "ask", "2024-03-15", "hello")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
	assert.Contains(t, err.Error(), "daybook settings provider")
}
