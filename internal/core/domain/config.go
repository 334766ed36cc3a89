package domain

import "time"

// AppConfig holds process-level configuration read from the config file.
// It is distinct from Settings, which live inside the journal document.
type AppConfig struct {
	// DataDir is where the journal database lives.
	DataDir string

	// AutosaveDebounce is the idle window before an edit is committed.
	AutosaveDebounce time.Duration

	// AutosaveDisplay is how long the "saved" indicator stays visible.
	AutosaveDisplay time.Duration

	// AssistantRequestsPerMinute throttles outgoing LLM requests. Zero disables throttling.
	AssistantRequestsPerMinute int

	// AssistantMaxTokens caps reply length.
	AssistantMaxTokens int
}

// DefaultAppConfig returns configuration defaults.
func DefaultAppConfig() AppConfig {
	return AppConfig{
		AutosaveDebounce:           500 * time.Millisecond,
		AutosaveDisplay:            1500 * time.Millisecond,
		AssistantRequestsPerMinute: 20,
		AssistantMaxTokens:         1024,
	}
}
