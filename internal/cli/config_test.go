package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osmnl/pdok-report/internal/app"
	"github.com/osmnl/pdok-report/internal/domain"
)

// runWithConfig runs the real container against a config file in a temporary directory.
func runWithConfig(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()
	var stdout bytes.Buffer
	root := NewRootCommand(app.New, "test-version")
	root.SetOut(&stdout)
	root.SetErr(&bytes.Buffer{})
	root.SetArgs(append([]string{"--config", configPath}, args...))
	err := root.Execute()
	return stdout.String(), err
}

func TestConfigCommand_NoSubcommand_ShowsHelp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	out, err := runWithConfig(t, path, "config")

	require.NoError(t, err)
	assert.Contains(t, out, "show")
	assert.Contains(t, out, "init")
}

func TestConfigInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	out, err := runWithConfig(t, path, "config", "init")
	require.NoError(t, err)
	assert.Contains(t, out, "Created config file: "+path)
	assert.FileExists(t, path)

	_, err = runWithConfig(t, path, "config", "init")
	assert.ErrorIs(t, err, domain.ErrConfigExists)

	_, err = runWithConfig(t, path, "config", "init", "--force")
	assert.NoError(t, err)
}

func TestConfigShowCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[api]\nkey = \"secret-key-123\"\n"), 0o600))

	out, err := runWithConfig(t, path, "config", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "[Loaded from]")
	assert.Contains(t, out, "- "+path+"\n")
	assert.Contains(t, out, "[Effective Config]")
	assert.NotContains(t, out, "secret-key-123")

	out, err = runWithConfig(t, path, "config", "show", "--show-secrets")
	require.NoError(t, err)
	assert.Contains(t, out, "secret-key-123")
}

func TestConfigShowCommand_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")

	out, err := runWithConfig(t, path, "config", "show")

	require.NoError(t, err)
	assert.Contains(t, out, path+" (not found)")
}

func TestLogsCommand(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	require.NoError(t, os.MkdirAll(domain.LogsDir(dir), 0o750))
	require.NoError(t, os.WriteFile(domain.LogFilePath(dir), []byte("[2024-05-06 10:00:00] [INFO] [submit] one\n[2024-05-06 10:00:01] [INFO] [submit] two\n"), 0o600))

	out, err := runWithConfig(t, path, "logs", "-n", "1")

	require.NoError(t, err)
	assert.Contains(t, out, domain.LogFilePath(dir))
	assert.Contains(t, out, "two")
	assert.NotContains(t, out, "] one")
}
