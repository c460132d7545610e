package usecase

import (
	"context"

	"github.com/osmnl/pdok-report/internal/domain"
)

// ShowConfigInput contains the input for the ShowConfig use case.
type ShowConfigInput struct {
	ShowSecrets bool // Print API keys instead of masking them
}

// ShowConfigOutput contains the output of the ShowConfig use case.
type ShowConfigOutput struct {
	File      domain.ConfigInfo // Config file info
	Effective string            // Effective configuration after merging defaults
	Warnings  []string
}

// ConfigEncoder renders a configuration as text.
type ConfigEncoder func(cfg *domain.Config, showSecrets bool) (string, error)

// ShowConfig displays configuration file information and the effective configuration.
type ShowConfig struct {
	configManager domain.ConfigManager
	configLoader  domain.ConfigLoader
	encode        ConfigEncoder
}

// NewShowConfig creates a new ShowConfig use case.
func NewShowConfig(configManager domain.ConfigManager, configLoader domain.ConfigLoader, encode ConfigEncoder) *ShowConfig {
	return &ShowConfig{
		configManager: configManager,
		configLoader:  configLoader,
		encode:        encode,
	}
}

// Execute retrieves configuration file information.
func (uc *ShowConfig) Execute(_ context.Context, in ShowConfigInput) (*ShowConfigOutput, error) {
	cfg, err := uc.configLoader.Load()
	if err != nil {
		return nil, err
	}
	effective, err := uc.encode(cfg, in.ShowSecrets)
	if err != nil {
		return nil, err
	}
	return &ShowConfigOutput{
		File:      uc.configManager.Info(),
		Effective: effective,
		Warnings:  cfg.Warnings,
	}, nil
}
