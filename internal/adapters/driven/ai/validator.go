package ai

import (
	"context"

	"github.com/custodia-labs/daybook/internal/core/domain"
	"github.com/custodia-labs/daybook/internal/core/ports/driven"
)

// Ensure ConfigValidator implements the interface.
var _ driven.AssistantValidator = (*ConfigValidator)(nil)

// ConfigValidator validates assistant provider settings by pinging the provider.
type ConfigValidator struct{}

// NewConfigValidator creates a new AI config validator.
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateAssistant creates the selected provider's service and pings it.
func (v *ConfigValidator) ValidateAssistant(settings domain.Settings) error {
	return ValidateLLMConfig(context.Background(), settings)
}
