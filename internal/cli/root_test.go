package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osmnl/pdok-report/internal/app"
	"github.com/osmnl/pdok-report/internal/domain"
	"github.com/osmnl/pdok-report/internal/infra/reportfile"
	"github.com/osmnl/pdok-report/internal/testutil"
)

// testEnv runs commands against a container built around a mock API.
type testEnv struct {
	api  *testutil.MockReportAPI
	last *app.Container
	opts app.Options
	dir  string
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	return &testEnv{
		api: &testutil.MockReportAPI{ValidKey: "good"},
		dir: t.TempDir(),
	}
}

func (e *testEnv) factory(opts app.Options) (*app.Container, error) {
	e.opts = opts
	cfg := domain.NewDefaultConfig()
	cfg.API.Key = "key"
	clock := &testutil.MockClock{NowTime: time.Date(2024, 5, 6, 10, 0, 0, 0, time.UTC)}
	c := app.NewWithDeps(cfg, e.api, clock, &bytes.Buffer{})
	c.Paths = app.Paths{
		ConfigDir:   e.dir,
		ConfigFile:  filepath.Join(e.dir, "config.toml"),
		PendingFile: domain.PendingFilePath(e.dir),
	}
	e.last = c
	return c, nil
}

func (e *testEnv) run(args ...string) (string, string, error) {
	var stdout, stderr bytes.Buffer
	root := NewRootCommand(e.factory, "test-version")
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// seed writes pending reports as the previous session.
func (e *testEnv) seed(t *testing.T, reports ...*domain.Report) {
	t.Helper()
	_, err := reportfile.Write(domain.PendingFilePath(e.dir), reports, time.Now())
	require.NoError(t, err)
}

func TestNewRootCommand_NoArgs_LaunchesTUI(t *testing.T) {
	// Save original function and restore after test
	originalFunc := launchTUIFunc
	defer func() {
		launchTUIFunc = originalFunc
	}()

	env := newTestEnv(t)
	var got *app.Container
	launchTUIFunc = func(c *app.Container) error {
		got = c
		return nil
	}

	_, _, err := env.run()

	assert.NoError(t, err)
	assert.NotNil(t, got, "launchTUIFunc should be called when no arguments are provided")
	assert.Same(t, env.last, got)
	assert.False(t, env.opts.Headless)
}

func TestNewRootCommand_WithHelp_ShowsHelp(t *testing.T) {
	originalFunc := launchTUIFunc
	defer func() {
		launchTUIFunc = originalFunc
	}()

	called := false
	launchTUIFunc = func(_ *app.Container) error {
		called = true
		return nil
	}

	env := newTestEnv(t)
	out, _, err := env.run("--help")

	assert.NoError(t, err)
	assert.False(t, called, "launchTUIFunc should NOT be called when --help is provided")
	assert.Contains(t, out, "Report Commands:")
	assert.Contains(t, out, "API Commands:")
}

func TestNewRootCommand_GlobalFlags(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run("--api", "pdokAcceptance", "--config", "/tmp/x.toml", "list")

	require.NoError(t, err)
	assert.Equal(t, domain.APIPDOKAcceptance, env.opts.APIMode)
	assert.Equal(t, "/tmp/x.toml", env.opts.ConfigPath)
	assert.True(t, env.opts.Headless)
}

func TestNewRootCommand_InvalidAPIMode(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run("--api", "ftp", "list")

	assert.ErrorIs(t, err, domain.ErrInvalidAPIMode)
	assert.Nil(t, env.last)
}

func TestNewRootCommand_PrintsConfigWarnings(t *testing.T) {
	env := newTestEnv(t)
	factory := func(opts app.Options) (*app.Container, error) {
		c, err := env.factory(opts)
		if err == nil {
			c.Config.Warnings = []string{"unknown key [api] foo"}
		}
		return c, err
	}
	var stderr bytes.Buffer
	root := NewRootCommand(factory, "test-version")
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&stderr)
	root.SetArgs([]string{"list"})

	require.NoError(t, root.Execute())
	assert.Contains(t, stderr.String(), "Warning: unknown key [api] foo")
}

func TestListCommand(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, domain.NewPendingReport(domain.LatLon{Lat: 52.1, Lon: 5.1}, "missing house\nsecond line"))

	out, _, err := env.run("list")

	require.NoError(t, err)
	assert.Contains(t, out, "KEY")
	assert.Contains(t, out, "pending")
	assert.Contains(t, out, "missing house")
	assert.NotContains(t, out, "second line")
}

func TestListCommand_Empty(t *testing.T) {
	env := newTestEnv(t)

	out, _, err := env.run("list")

	require.NoError(t, err)
	assert.Equal(t, "No reports.\n", out)
}

func TestListCommand_JSONFromFile(t *testing.T) {
	env := newTestEnv(t)
	path := filepath.Join(t.TempDir(), "export.yaml")
	_, err := reportfile.Write(path, []*domain.Report{
		domain.RestorePendingReport("abc", domain.LatLon{Lat: 52.5, Lon: 4.5}, "note"),
	}, time.Now())
	require.NoError(t, err)

	out, _, err := env.run("list", "--file", path, "--json")

	require.NoError(t, err)
	var items []reportJSON
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 1)
	assert.Equal(t, "note", items[0].Description)
	assert.Equal(t, 52.5, items[0].Lat)
	assert.Nil(t, items[0].Confirmed)
}

func TestDownloadCommand(t *testing.T) {
	env := newTestEnv(t)
	env.api.FetchFunc = func(context.Context, domain.Bounds) ([]*domain.Report, error) {
		return []*domain.Report{
			domain.NewConfirmedReport(domain.LatLon{Lat: 52.37, Lon: 4.9}, "BAG", "wrong address", domain.Confirmed{
				RegistrationNumber: "BAG-2024-1",
				StatusCode:         domain.StatusNew,
			}),
			domain.NewConfirmedReport(domain.LatLon{Lat: 52.37, Lon: 4.9}, "BGT", "road", domain.Confirmed{
				RegistrationNumber: "BGT-2024-2",
				StatusCode:         domain.StatusParked,
			}),
		}, nil
	}

	out, _, err := env.run("download", "--bbox", "4.88,52.36,4.92,52.38", "--status", "new")

	require.NoError(t, err)
	require.Len(t, env.api.FetchedBounds(), 1)
	assert.Contains(t, out, "BAG")
	assert.Contains(t, out, "wrong address")
	assert.NotContains(t, out, "road")
}

func TestDownloadCommand_InvalidInput(t *testing.T) {
	tests := []struct {
		name    string
		wantErr error
		args    []string
	}{
		{name: "bad bbox", args: []string{"download", "--bbox", "4.88,52.36"}, wantErr: domain.ErrInvalidBounds},
		{name: "bad status", args: []string{"download", "--bbox", "4.88,52.36,4.92,52.38", "--status", "DONE"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			_, _, err := env.run(tt.args...)
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			assert.Zero(t, env.api.FetchCount())
		})
	}
}

func TestImportExportCommands(t *testing.T) {
	env := newTestEnv(t)
	src := filepath.Join(t.TempDir(), "in.yaml")
	_, err := reportfile.Write(src, []*domain.Report{
		domain.RestorePendingReport("one", domain.LatLon{Lat: 52.1, Lon: 5.1}, "first"),
		domain.RestorePendingReport("two", domain.LatLon{Lat: 52.2, Lon: 5.2}, "second"),
	}, time.Now())
	require.NoError(t, err)

	out, _, err := env.run("import", src)
	require.NoError(t, err)
	assert.Contains(t, out, "Imported 2 report(s)")

	// The imported reports are kept for the next run.
	dst := filepath.Join(t.TempDir(), "out.yaml")
	out, _, err = env.run("export", dst)
	require.NoError(t, err)
	assert.Contains(t, out, "Exported 2 report(s)")

	exported, err := reportfile.Read(dst)
	require.NoError(t, err)
	assert.Len(t, exported, 2)
}

func TestExportCommand_NothingPending(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run("export", filepath.Join(t.TempDir(), "out.yaml"))

	assert.ErrorIs(t, err, domain.ErrNoPendingReports)
}

func TestSubmitCommand(t *testing.T) {
	env := newTestEnv(t)
	env.seed(t, domain.NewPendingReport(domain.LatLon{Lat: 52.1, Lon: 5.1}, "missing house"))

	out, _, err := env.run("submit")

	require.NoError(t, err)
	assert.Contains(t, out, "Submitted")
	assert.Len(t, env.api.Submitted, 1)
	_, statErr := os.Stat(domain.PendingFilePath(env.dir))
	assert.True(t, os.IsNotExist(statErr), "pending file should be removed once everything is submitted")
}

func TestSubmitCommand_FailureKeepsReport(t *testing.T) {
	env := newTestEnv(t)
	env.api.SubmitFunc = func(context.Context, *domain.Report) (*domain.SubmitResult, error) {
		return nil, &domain.SubmitRejectedError{Status: 400, Message: "bad geometry"}
	}
	env.seed(t, domain.NewPendingReport(domain.LatLon{Lat: 52.1, Lon: 5.1}, "missing house"))

	_, stderr, err := env.run("submit")

	require.Error(t, err)
	assert.Contains(t, stderr, "Failed")
	kept, readErr := reportfile.Read(domain.PendingFilePath(env.dir))
	require.NoError(t, readErr)
	assert.Len(t, kept, 1)
}

func TestValidateKeyCommand(t *testing.T) {
	tests := []struct {
		name    string
		wantOut string
		args    []string
		wantErr bool
	}{
		{name: "accepted", args: []string{"validate-key", "--key", "good"}, wantOut: "API key accepted for pdokProduction"},
		{name: "rejected", args: []string{"validate-key", "--key", "bad"}, wantErr: true},
		{name: "proxy mode needs no key", args: []string{"validate-key", "--mode", "proxyProduction"}, wantOut: "accepted for proxyProduction"},
		{name: "invalid mode", args: []string{"validate-key", "--mode", "ftp"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env := newTestEnv(t)
			out, _, err := env.run(tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out, tt.wantOut)
		})
	}
}

func TestProxyCommand_RequiresKey(t *testing.T) {
	env := newTestEnv(t)

	_, _, err := env.run("proxy", "--acceptance")

	assert.ErrorIs(t, err, domain.ErrAPIKeyNotSet)
}
