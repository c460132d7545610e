package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osmnl/pdok-report/internal/domain"
	"github.com/osmnl/pdok-report/internal/testutil"
)

func TestValidateKey_Execute(t *testing.T) {
	cfg := domain.NewDefaultConfig()
	cfg.API.Key = "prod-key"
	cfg.API.AcceptanceKey = "act-key"

	tests := []struct {
		name string
		in   ValidateKeyInput
		want ValidateKeyOutput
	}{
		{name: "configured mode and key", in: ValidateKeyInput{}, want: ValidateKeyOutput{Mode: domain.APIPDOKProduction, Valid: true}},
		{name: "acceptance key is checked", in: ValidateKeyInput{Mode: domain.APIPDOKAcceptance}, want: ValidateKeyOutput{Mode: domain.APIPDOKAcceptance}},
		{name: "explicit key", in: ValidateKeyInput{Key: " prod-key "}, want: ValidateKeyOutput{Mode: domain.APIPDOKProduction, Valid: true}},
		{name: "wrong key", in: ValidateKeyInput{Key: "guess"}, want: ValidateKeyOutput{Mode: domain.APIPDOKProduction}},
		{name: "proxy needs no key", in: ValidateKeyInput{Mode: domain.APIProxyProduction}, want: ValidateKeyOutput{Mode: domain.APIProxyProduction, Valid: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			api := &testutil.MockReportAPI{ValidKey: "prod-key"}
			uc := NewValidateKey(api, &testutil.MockConfigLoader{Config: cfg})

			out, err := uc.Execute(context.Background(), tt.in)

			require.NoError(t, err)
			assert.Equal(t, tt.want, *out)
		})
	}
}

func TestValidateKey_Execute_NoKey(t *testing.T) {
	uc := NewValidateKey(&testutil.MockReportAPI{}, &testutil.MockConfigLoader{})

	_, err := uc.Execute(context.Background(), ValidateKeyInput{})

	assert.ErrorIs(t, err, domain.ErrAPIKeyNotSet)
}

func TestValidateKey_Execute_LoadError(t *testing.T) {
	uc := NewValidateKey(&testutil.MockReportAPI{}, &testutil.MockConfigLoader{LoadErr: errors.New("broken")})

	_, err := uc.Execute(context.Background(), ValidateKeyInput{})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "load config")
}
