package domain

import (
	"maps"
	"time"
)

const unknownDescription = "Unknown"

// Theme is the user's colour scheme preference.
type Theme string

// Available themes.
const (
	ThemeSystem Theme = "system"
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
)

// IsValid returns true if the theme is recognised.
func (t Theme) IsValid() bool {
	switch t {
	case ThemeSystem, ThemeLight, ThemeDark:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (t Theme) String() string {
	return string(t)
}

// AIProvider identifies the LLM provider behind the assistant.
// It is the discriminator used to select an adapter at construction time.
type AIProvider string

// Available AI providers.
const (
	// AIProviderClaude is the Anthropic cloud API.
	AIProviderClaude AIProvider = "claude"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderClaude, AIProviderOpenAI, AIProviderOllama:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderClaude || p == AIProviderOpenAI
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderClaude:
		return "Claude (Anthropic cloud)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderOllama:
		return "Ollama (local)"
	default:
		return unknownDescription
	}
}

// AllProviders returns every supported provider.
func AllProviders() []AIProvider {
	return []AIProvider{AIProviderClaude, AIProviderOpenAI, AIProviderOllama}
}

// DefaultModels returns default models for each provider.
func DefaultModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderClaude: "claude-3-5-sonnet-latest",
		AIProviderOpenAI: "gpt-4o-mini",
		AIProviderOllama: "llama3.2",
	}
}

// Settings holds per-device user configuration stored in the journal document.
type Settings struct {
	// DisplayName is how the assistant addresses the user.
	DisplayName string

	// Timezone is an IANA zone name used to decide "today". Empty means local time.
	Timezone string

	// Theme is the colour scheme preference.
	Theme Theme

	// Provider selects the assistant's LLM provider.
	Provider AIProvider

	// Model overrides the provider's default model.
	Model string

	// BaseURL overrides the provider endpoint (required in practice for remote Ollama).
	BaseURL string

	// APIKeys holds one key per cloud provider.
	APIKeys map[AIProvider]string

	// Bio is free text about the user, given to the assistant as context.
	Bio string

	// Instructions are extra system-prompt instructions for the assistant.
	Instructions string
}

// DefaultSettings returns settings with sensible defaults.
// The assistant is left unconfigured until an API key is set.
func DefaultSettings() Settings {
	return Settings{
		Theme:    ThemeSystem,
		Provider: AIProviderClaude,
		APIKeys:  map[AIProvider]string{},
	}
}

// APIKey returns the key stored for the selected provider.
func (s Settings) APIKey() string {
	return s.APIKeys[s.Provider]
}

// IsAssistantConfigured returns true if the selected provider can be used.
func (s Settings) IsAssistantConfigured() bool {
	if !s.Provider.IsValid() {
		return false
	}
	if s.Provider.RequiresAPIKey() && s.APIKey() == "" {
		return false
	}
	return true
}

// Location resolves Timezone, falling back to local time for empty or unknown zones.
func (s Settings) Location() *time.Location {
	if s.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// Clone returns a deep copy of the settings.
func (s Settings) Clone() Settings {
	c := s
	c.APIKeys = maps.Clone(s.APIKeys)
	if c.APIKeys == nil {
		c.APIKeys = map[AIProvider]string{}
	}
	return c
}

// Equal reports whether two settings values are identical.
func (s Settings) Equal(o Settings) bool {
	if s.DisplayName != o.DisplayName || s.Timezone != o.Timezone || s.Theme != o.Theme ||
		s.Provider != o.Provider || s.Model != o.Model || s.BaseURL != o.BaseURL ||
		s.Bio != o.Bio || s.Instructions != o.Instructions {
		return false
	}
	return maps.Equal(s.APIKeys, o.APIKeys)
}

// Profile is a partial update of the personal fields in Settings.
// Nil fields are left unchanged.
type Profile struct {
	DisplayName  *string
	Timezone     *string
	Theme        *Theme
	Bio          *string
	Instructions *string
}

// Apply writes the non-nil fields of p into s.
func (p Profile) Apply(s *Settings) {
	if p.DisplayName != nil {
		s.DisplayName = *p.DisplayName
	}
	if p.Timezone != nil {
		s.Timezone = *p.Timezone
	}
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.Bio != nil {
		s.Bio = *p.Bio
	}
	if p.Instructions != nil {
		s.Instructions = *p.Instructions
	}
}
