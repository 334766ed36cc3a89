package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/custodia-labs/daybook/internal/core/domain"
	"github.com/custodia-labs/daybook/internal/core/ports/driven"
	"github.com/custodia-labs/daybook/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// SettingsService manages the settings stored in the journal document.
type SettingsService struct {
	store     driving.DocumentStore
	validator driven.AssistantValidator
}

// NewSettingsService creates a new settings service.
// validator may be nil, in which case ValidateAssistant only checks
// the local configuration.
func NewSettingsService(store driving.DocumentStore, validator driven.AssistantValidator) *SettingsService {
	return &SettingsService{
		store:     store,
		validator: validator,
	}
}

// Get retrieves the current settings.
func (s *SettingsService) Get() (*domain.Settings, error) {
	doc := s.store.Doc()
	if doc == nil {
		return nil, domain.ErrDocumentLoading
	}
	settings := doc.Settings.Clone()
	return &settings, nil
}

// Save replaces the settings after validating them.
func (s *SettingsService) Save(settings *domain.Settings) error {
	if settings == nil {
		return fmt.Errorf("%w: settings required", domain.ErrInvalidInput)
	}
	if err := validateSettings(*settings); err != nil {
		return err
	}
	next := settings.Clone()
	return s.store.Mutate(func(doc *domain.JournalDoc) {
		doc.Settings = next
	})
}

// SetProvider selects the assistant provider.
// An empty model clears the override so the provider default applies.
func (s *SettingsService) SetProvider(provider domain.AIProvider, model, baseURL string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedProvider, provider)
	}
	return s.update(func(settings *domain.Settings) {
		settings.Provider = provider
		settings.Model = model
		settings.BaseURL = baseURL
	})
}

// SetAPIKey stores the API key for provider. An empty key removes it.
func (s *SettingsService) SetAPIKey(provider domain.AIProvider, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedProvider, provider)
	}
	return s.update(func(settings *domain.Settings) {
		if settings.APIKeys == nil {
			settings.APIKeys = make(map[domain.AIProvider]string)
		}
		if apiKey == "" {
			delete(settings.APIKeys, provider)
			return
		}
		settings.APIKeys[provider] = apiKey
	})
}

// SetProfile applies a partial profile update.
func (s *SettingsService) SetProfile(profile domain.Profile) error {
	return s.update(profile.Apply)
}

// Validate checks the stored settings are usable.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	return validateSettings(*settings)
}

// ValidateAssistant checks the selected provider is configured and reachable.
func (s *SettingsService) ValidateAssistant() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	if !settings.Provider.IsValid() {
		return fmt.Errorf("%w: %s", domain.ErrUnsupportedProvider, settings.Provider)
	}
	if !settings.IsAssistantConfigured() {
		return fmt.Errorf("%w: no API key for %s", domain.ErrLLMUnavailable, settings.Provider)
	}
	if s.validator == nil {
		return nil
	}
	return s.validator.ValidateAssistant(*settings)
}

// update validates the result of fn before committing it.
func (s *SettingsService) update(fn func(settings *domain.Settings)) error {
	settings, err := s.Get()
	if err != nil {
		return err
	}
	fn(settings)
	if err := validateSettings(*settings); err != nil {
		return err
	}
	next := settings.Clone()
	return s.store.Mutate(func(doc *domain.JournalDoc) {
		doc.Settings = next
	})
}

func validateSettings(settings domain.Settings) error {
	var errs []error
	if !settings.Theme.IsValid() {
		errs = append(errs, fmt.Errorf("%w: theme %q", domain.ErrInvalidInput, settings.Theme))
	}
	if !settings.Provider.IsValid() {
		errs = append(errs, fmt.Errorf("%w: %s", domain.ErrUnsupportedProvider, settings.Provider))
	}
	if settings.Timezone != "" {
		if _, err := time.LoadLocation(settings.Timezone); err != nil {
			errs = append(errs, fmt.Errorf("%w: timezone %q", domain.ErrInvalidInput, settings.Timezone))
		}
	}
	return errors.Join(errs...)
}
