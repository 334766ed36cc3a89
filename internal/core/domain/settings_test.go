package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

// TestAIProvider_IsValid tests all valid and invalid provider discriminators
func TestAIProvider_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		provider AIProvider
		expected bool
	}{
		{"claude is valid", AIProviderClaude, true},
		{"openai is valid", AIProviderOpenAI, true},
		{"ollama is valid", AIProviderOllama, true},
		{"anthropic is not a discriminator", AIProvider("anthropic"), false},
		{"empty string is invalid", AIProvider(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.provider.IsValid())
		})
	}
}

func TestAIProvider_RequiresAPIKey(t *testing.T) {
	assert.True(t, AIProviderClaude.RequiresAPIKey())
	assert.True(t, AIProviderOpenAI.RequiresAPIKey())
	assert.False(t, AIProviderOllama.RequiresAPIKey())
	assert.True(t, AIProviderOllama.IsLocal())
}

func TestAIProvider_Description(t *testing.T) {
	for _, p := range AllProviders() {
		assert.NotEqual(t, unknownDescription, p.Description())
		assert.NotEmpty(t, DefaultModels()[p])
	}
	assert.Equal(t, unknownDescription, AIProvider("x").Description())
}

func TestTheme_IsValid(t *testing.T) {
	assert.True(t, ThemeSystem.IsValid())
	assert.True(t, ThemeLight.IsValid())
	assert.True(t, ThemeDark.IsValid())
	assert.False(t, Theme("neon").IsValid())
}

func TestSettings_IsAssistantConfigured(t *testing.T) {
	s := DefaultSettings()
	assert.False(t, s.IsAssistantConfigured(), "claude without key")

	s.APIKeys[AIProviderClaude] = "sk-ant"
	assert.True(t, s.IsAssistantConfigured())

	s.Provider = AIProviderOpenAI
	assert.False(t, s.IsAssistantConfigured(), "key belongs to another provider")

	s.Provider = AIProviderOllama
	assert.True(t, s.IsAssistantConfigured())

	s.Provider = AIProvider("bogus")
	assert.False(t, s.IsAssistantConfigured())
}

func TestSettings_Location(t *testing.T) {
	s := DefaultSettings()
	assert.Equal(t, time.Local, s.Location())

	s.Timezone = "Not/AZone"
	assert.Equal(t, time.Local, s.Location())

	s.Timezone = "UTC"
	assert.Equal(t, "UTC", s.Location().String())
}

func TestSettings_CloneAndEqual(t *testing.T) {
	s := DefaultSettings()
	s.APIKeys[AIProviderOpenAI] = "sk"

	c := s.Clone()
	assert.True(t, s.Equal(c))

	c.APIKeys[AIProviderOpenAI] = "changed"
	assert.False(t, s.Equal(c))
	assert.Equal(t, "sk", s.APIKeys[AIProviderOpenAI])
}

func TestProfile_Apply_OnlyTouchesSetFields(t *testing.T) {
	s := DefaultSettings()
	s.DisplayName = "Sam"
	s.Bio = "gardener"

	name := "Alex"
	dark := ThemeDark
	Profile{DisplayName: &name, Theme: &dark}.Apply(&s)

	assert.Equal(t, "Alex", s.DisplayName)
	assert.Equal(t, ThemeDark, s.Theme)
	assert.Equal(t, "gardener", s.Bio)
}
