package driving

import "github.com/custodia-labs/daybook/internal/core/domain"

// SettingsService manages the user settings stored in the journal document.
type SettingsService interface {
	// Get retrieves current settings.
	Get() (*domain.Settings, error)

	// Save replaces settings.
	Save(settings *domain.Settings) error

	// SetProvider selects the assistant provider and optional model override.
	SetProvider(provider domain.AIProvider, model, baseURL string) error

	// SetAPIKey stores the API key for a provider.
	SetAPIKey(provider domain.AIProvider, apiKey string) error

	// SetProfile updates the display name, timezone, bio and instructions.
	SetProfile(profile domain.Profile) error

	// Validate checks the settings are usable.
	Validate() error

	// ValidateAssistant checks the selected provider is reachable.
	ValidateAssistant() error
}
