// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	anthropicllm "github.com/custodia-labs/daybook/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/daybook/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/daybook/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/daybook/internal/core/domain"
	"github.com/custodia-labs/daybook/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateLLMService creates the LLM service selected by settings.Provider.
// An unknown provider is a setup error and is returned as ErrUnsupportedProvider.
// A cloud provider without an API key returns ErrLLMUnavailable.
func CreateLLMService(settings domain.Settings) (driven.LLMService, error) {
	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaLLM(settings), nil

	case domain.AIProviderOpenAI:
		return createOpenAILLM(settings)

	case domain.AIProviderClaude:
		return createAnthropicLLM(settings)

	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnsupportedProvider, settings.Provider)
	}
}

// CreateAndValidateLLMService creates an LLM service and validates connectivity.
// Returns the service if successful, or an error with guidance.
func CreateAndValidateLLMService(ctx context.Context, settings domain.Settings) (driven.LLMService, error) {
	svc, err := CreateLLMService(settings)
	if err != nil {
		return nil, fmt.Errorf("%w. Run 'daybook settings provider' to fix", err)
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		_ = svc.Close()
		return nil, fmt.Errorf("%w: service unreachable (%w). Run 'daybook settings provider' to fix",
			domain.ErrLLMUnavailable, err)
	}

	return svc, nil
}

// ValidateLLMConfig validates an LLM configuration by creating a service and pinging it.
func ValidateLLMConfig(ctx context.Context, settings domain.Settings) error {
	svc, err := CreateAndValidateLLMService(ctx, settings)
	if err != nil {
		return err
	}
	return svc.Close()
}

// createOllamaLLM creates an Ollama LLM service.
func createOllamaLLM(settings domain.Settings) driven.LLMService {
	return ollamallm.NewLLMService(ollamallm.LLMConfig{
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createOpenAILLM creates an OpenAI LLM service.
func createOpenAILLM(settings domain.Settings) (driven.LLMService, error) {
	return openaillm.NewLLMService(openaillm.LLMConfig{
		APIKey:  settings.APIKeys[domain.AIProviderOpenAI],
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}

// createAnthropicLLM creates an Anthropic LLM service.
func createAnthropicLLM(settings domain.Settings) (driven.LLMService, error) {
	return anthropicllm.NewLLMService(anthropicllm.Config{
		APIKey:  settings.APIKeys[domain.AIProviderClaude],
		BaseURL: settings.BaseURL,
		Model:   settings.Model,
	})
}
