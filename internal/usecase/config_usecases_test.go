package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osmnl/pdok-report/internal/domain"
	"github.com/osmnl/pdok-report/internal/testutil"
)

func TestShowConfig_Execute(t *testing.T) {
	// Setup
	cfg := domain.NewDefaultConfig()
	cfg.Warnings = []string{"unknown section: workers"}
	manager := &testutil.MockConfigManager{
		ConfigInfo: domain.ConfigInfo{Path: "/cfg/config.toml", Exists: true},
	}
	var gotSecrets bool
	encode := func(c *domain.Config, showSecrets bool) (string, error) {
		gotSecrets = showSecrets
		return "use = " + string(c.API.Use), nil
	}
	uc := NewShowConfig(manager, &testutil.MockConfigLoader{Config: cfg}, encode)

	// Execute
	out, err := uc.Execute(context.Background(), ShowConfigInput{ShowSecrets: true})

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "/cfg/config.toml", out.File.Path)
	assert.Equal(t, "use = pdokProduction", out.Effective)
	assert.Equal(t, cfg.Warnings, out.Warnings)
	assert.True(t, gotSecrets)
}

func TestShowConfig_Execute_LoadError(t *testing.T) {
	uc := NewShowConfig(&testutil.MockConfigManager{}, &testutil.MockConfigLoader{LoadErr: assert.AnError},
		func(*domain.Config, bool) (string, error) { return "", nil })

	_, err := uc.Execute(context.Background(), ShowConfigInput{})

	assert.ErrorIs(t, err, assert.AnError)
}

func TestInitConfig_Execute(t *testing.T) {
	manager := &testutil.MockConfigManager{InitPath: "/cfg/config.toml"}

	out, err := NewInitConfig(manager).Execute(context.Background(), InitConfigInput{})

	require.NoError(t, err)
	assert.Equal(t, "/cfg/config.toml", out.Path)
	assert.True(t, manager.Inited)
}

func TestInitConfig_Execute_Exists(t *testing.T) {
	manager := &testutil.MockConfigManager{InitErr: domain.ErrConfigExists}

	_, err := NewInitConfig(manager).Execute(context.Background(), InitConfigInput{})

	assert.ErrorIs(t, err, domain.ErrConfigExists)
}

func TestShowLogs_Execute(t *testing.T) {
	logs := &testutil.MockLogHistory{Entries: []string{"a", "b", "c"}}
	uc := NewShowLogs(logs)

	out, err := uc.Execute(context.Background(), ShowLogsInput{})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, out.Lines)

	out, err = uc.Execute(context.Background(), ShowLogsInput{Lines: 2})
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "c"}, out.Lines)
}
