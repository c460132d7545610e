package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/osmnl/pdok-report/internal/domain"
)

// ValidateKeyInput contains the parameters for validating an API key.
type ValidateKeyInput struct {
	Mode domain.APIMode // Empty means the configured mode
	Key  string         // Empty means the configured key for Mode
}

// ValidateKeyOutput contains the result of a key check.
type ValidateKeyOutput struct {
	Mode  domain.APIMode
	Valid bool
}

// ValidateKey checks an API key against the registry.
type ValidateKey struct {
	api          domain.ReportAPI
	configLoader domain.ConfigLoader
}

// NewValidateKey creates a new ValidateKey use case.
func NewValidateKey(api domain.ReportAPI, configLoader domain.ConfigLoader) *ValidateKey {
	return &ValidateKey{
		api:          api,
		configLoader: configLoader,
	}
}

// Execute validates the key. Proxy modes have no key and are always valid.
func (uc *ValidateKey) Execute(ctx context.Context, in ValidateKeyInput) (*ValidateKeyOutput, error) {
	cfg, err := uc.configLoader.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	mode := in.Mode
	if mode == "" {
		mode = cfg.API.Use
	}
	if !mode.NeedsKey() {
		return &ValidateKeyOutput{Mode: mode, Valid: true}, nil
	}

	key := strings.TrimSpace(in.Key)
	if key == "" {
		key = strings.TrimSpace(cfg.API.Token(mode))
	}
	if key == "" {
		return nil, domain.ErrAPIKeyNotSet
	}

	valid, err := uc.api.ValidateKey(ctx, mode, key)
	if err != nil {
		return nil, fmt.Errorf("validate key: %w", err)
	}
	return &ValidateKeyOutput{Mode: mode, Valid: valid}, nil
}
