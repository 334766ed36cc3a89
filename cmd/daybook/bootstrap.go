package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/custodia-labs/daybook/internal/adapters/driven/ai"
	"github.com/custodia-labs/daybook/internal/adapters/driven/assistant"
	"github.com/custodia-labs/daybook/internal/adapters/driven/config/file"
	"github.com/custodia-labs/daybook/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/daybook/internal/adapters/driving/cli"
	"github.com/custodia-labs/daybook/internal/core/domain"
	"github.com/custodia-labs/daybook/internal/core/ports/driven"
	"github.com/custodia-labs/daybook/internal/core/ports/driving"
	"github.com/custodia-labs/daybook/internal/core/services"
	"github.com/custodia-labs/daybook/internal/logger"
)

// bootstrap wires the adapters and services for one command invocation.
func bootstrap(ctx context.Context, opts cli.Options) (*cli.Runtime, error) {
	logger.Section("Bootstrap")

	configDir := opts.ConfigDir
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		configDir = filepath.Join(home, ".daybook")
	}

	configStore, err := file.NewConfigStore(configDir)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	cfg := services.LoadAppConfig(configStore, filepath.Join(configDir, "data"))

	prompts, err := file.NewPromptStore(filepath.Join(configDir, "prompts"))
	if err != nil {
		return nil, fmt.Errorf("loading prompts: %w", err)
	}

	persister, err := sqlite.NewStore(cfg.DataDir)
	if err != nil {
		return nil, fmt.Errorf("opening journal: %w", err)
	}

	store := services.NewDocumentStore(persister)
	store.Open(ctx)

	clock := services.SystemClock{}
	journal := services.NewJournalService(store, clock, services.NewID)
	settings := services.NewSettingsService(store, ai.NewConfigValidator())
	reconciler := services.NewEntryReconciler(store, clock, services.NewID)
	limiter := assistant.NewRateLimiter(cfg.AssistantRequestsPerMinute)

	currentSettings := func() domain.Settings {
		s, err := settings.Get()
		if err != nil {
			return domain.DefaultSettings()
		}
		return *s
	}

	newAssistant := func(date func() domain.DateKey) driven.Assistant {
		llm, err := ai.CreateLLMService(currentSettings())
		if err != nil {
			// An unknown provider already failed WaitReady; a missing key is
			// reported when the user sends.
			logger.Debug("assistant unavailable: %v", err)
			return nil
		}
		return assistant.New(llm, assistant.Options{
			Prompts:   prompts,
			Settings:  currentSettings,
			Date:      date,
			Limiter:   limiter,
			MaxTokens: cfg.AssistantMaxTokens,
		})
	}

	logger.Debug("config: data dir %s, debounce %s", cfg.DataDir, cfg.AutosaveDebounce)

	return &cli.Runtime{
		Store:     store,
		Journal:   journal,
		Settings:  settings,
		AppConfig: cfg,
		NewAutosave: func(date domain.DateKey) driving.Autosave {
			return services.NewAutosave(store, clock, date, services.AutosaveOptions{
				Debounce:      cfg.AutosaveDebounce,
				DisplayWindow: cfg.AutosaveDisplay,
				NewID:         services.NewID,
			})
		},
		NewConversation: func(date func() domain.DateKey) (driving.Conversation, func()) {
			conv := services.NewConversation(newAssistant(date), "", nil, services.ConversationOptions{
				Clock: clock,
				NewID: services.NewID,
			})
			return conv, reconciler.Bind(conv)
		},
		WatchPrompts: prompts.Watch,
		WaitReady: func(ctx context.Context) error {
			if err := store.WaitReady(ctx); err != nil {
				return err
			}
			return checkProvider(currentSettings())
		},
		// Closing the store also closes the database.
		Close: store.Close,
	}, nil
}

// checkProvider fails when settings name a provider no adapter exists for.
// Other construction errors, such as a missing API key, are not fatal.
func checkProvider(settings domain.Settings) error {
	llm, err := ai.CreateLLMService(settings)
	if errors.Is(err, domain.ErrUnsupportedProvider) {
		return err
	}
	if llm != nil {
		_ = llm.Close()
	}
	return nil
}
