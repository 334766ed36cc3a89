package services

import (
	"time"

	"github.com/custodia-labs/daybook/internal/core/domain"
	"github.com/custodia-labs/daybook/internal/core/ports/driven"
)

// Config keys read by LoadAppConfig.
const (
	KeyDataDir            = "storage.data_dir"
	KeyAutosaveDebounceMS = "autosave.debounce_ms"
	KeyAutosaveDisplayMS  = "autosave.display_ms"
	KeyRequestsPerMinute  = "assistant.requests_per_minute"
	KeyMaxTokens          = "assistant.max_tokens"
)

// LoadAppConfig reads process configuration from store, falling back to
// defaults for missing or non-positive values. dataDir is used when
// storage.data_dir is unset.
func LoadAppConfig(store driven.ConfigStore, dataDir string) domain.AppConfig {
	cfg := domain.DefaultAppConfig()
	cfg.DataDir = dataDir
	if store == nil {
		return cfg
	}

	if v := store.GetString(KeyDataDir); v != "" {
		cfg.DataDir = v
	}
	if v := store.GetInt(KeyAutosaveDebounceMS); v > 0 {
		cfg.AutosaveDebounce = time.Duration(v) * time.Millisecond
	}
	if v := store.GetInt(KeyAutosaveDisplayMS); v > 0 {
		cfg.AutosaveDisplay = time.Duration(v) * time.Millisecond
	}
	// Zero is meaningful here: it disables throttling.
	if _, ok := store.Get(KeyRequestsPerMinute); ok {
		if v := store.GetInt(KeyRequestsPerMinute); v >= 0 {
			cfg.AssistantRequestsPerMinute = v
		}
	}
	if v := store.GetInt(KeyMaxTokens); v > 0 {
		cfg.AssistantMaxTokens = v
	}
	return cfg
}
