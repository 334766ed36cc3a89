// Package assistant adapts an LLMService into the journaling assistant used
// by conversations. It renders the system prompt from the user's settings,
// throttles requests, and reports every failure as a reply value.
package assistant

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"text/template"

	"github.com/custodia-labs/daybook/internal/core/domain"
	"github.com/custodia-labs/daybook/internal/core/ports/driven"
	"github.com/custodia-labs/daybook/internal/logger"
)

// Ensure Service implements the interface.
var _ driven.Assistant = (*Service)(nil)

// fallbackPrompt is used when no PromptStore is configured.
const fallbackPrompt = `You are a warm, thoughtful journaling companion. The conversation is about the journal entry for {{.Weekday}}, {{.Date}}.`

// PromptData is the data the system prompt template is rendered with.
type PromptData struct {
	DisplayName  string
	Date         string
	Weekday      string
	Bio          string
	Instructions string
}

// Options configures a Service. Settings and Date are read on every request
// so the assistant follows settings edits and day changes.
type Options struct {
	// Prompts supplies the system prompt template. Optional.
	Prompts driven.PromptStore

	// Settings returns the current user settings. Optional.
	Settings func() domain.Settings

	// Date returns the day being discussed.
	Date func() domain.DateKey

	// Limiter throttles requests. Optional.
	Limiter *RateLimiter

	// MaxTokens caps reply length. Zero uses the provider default.
	MaxTokens int
}

// Service is a driven.Assistant backed by an LLMService.
type Service struct {
	llm  driven.LLMService
	opts Options
}

// New creates an assistant over llm.
func New(llm driven.LLMService, opts Options) *Service {
	return &Service{llm: llm, opts: opts}
}

// SendMessage asks the model to reply to userText after history.
func (s *Service) SendMessage(ctx context.Context, history []domain.Message, userText string) domain.AssistantReply {
	if s.opts.Limiter != nil {
		if err := s.opts.Limiter.Wait(ctx); err != nil {
			return failure(fmt.Errorf("%w: %w", domain.ErrRateLimited, err))
		}
	}

	system, err := s.systemPrompt()
	if err != nil {
		return failure(err)
	}

	messages := make([]driven.ChatMessage, 0, len(history)+2)
	messages = append(messages, driven.ChatMessage{Role: "system", Content: system})
	for i := range history {
		messages = append(messages, driven.ChatMessage{
			Role:    history[i].Role.String(),
			Content: history[i].Content,
		})
	}
	messages = append(messages, driven.ChatMessage{Role: domain.RoleUser.String(), Content: userText})

	reply, err := s.llm.Chat(ctx, messages, driven.ChatOptions{MaxTokens: s.opts.MaxTokens})
	if err != nil {
		if errors.Is(err, domain.ErrRateLimited) && s.opts.Limiter != nil {
			s.opts.Limiter.Backoff(0)
		}
		logger.Warn("assistant: %s request failed: %v", s.llm.ModelName(), err)
		return failure(err)
	}

	reply = strings.TrimSpace(reply)
	if reply == "" {
		return failure(errors.New("assistant returned an empty reply"))
	}

	logger.Debug("assistant: %s replied with %d characters", s.llm.ModelName(), len(reply))
	return domain.AssistantReply{Content: reply, Success: true}
}

// systemPrompt loads and renders the journal system prompt.
func (s *Service) systemPrompt() (string, error) {
	text := fallbackPrompt
	if s.opts.Prompts != nil {
		loaded, err := s.opts.Prompts.Load(driven.PromptJournalSystem)
		if err != nil {
			logger.Warn("assistant: load prompt: %v", err)
		} else {
			text = loaded
		}
	}

	tmpl, err := template.New(driven.PromptJournalSystem).Parse(text)
	if err != nil {
		return "", fmt.Errorf("parse %s prompt: %w", driven.PromptJournalSystem, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, s.promptData()); err != nil {
		return "", fmt.Errorf("render %s prompt: %w", driven.PromptJournalSystem, err)
	}
	return strings.TrimSpace(buf.String()), nil
}

func (s *Service) promptData() PromptData {
	var data PromptData
	if s.opts.Date != nil {
		date := s.opts.Date()
		data.Date = date.String()
		data.Weekday = date.Time().Weekday().String()
	}
	if s.opts.Settings != nil {
		settings := s.opts.Settings()
		data.DisplayName = settings.DisplayName
		data.Bio = settings.Bio
		data.Instructions = settings.Instructions
	}
	return data
}

func failure(err error) domain.AssistantReply {
	return domain.AssistantReply{Success: false, Error: err.Error()}
}
