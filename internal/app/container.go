// Package app provides the dependency injection container for the application.
package app

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/osmnl/pdok-report/internal/domain"
	"github.com/osmnl/pdok-report/internal/download"
	"github.com/osmnl/pdok-report/internal/filter"
	"github.com/osmnl/pdok-report/internal/history"
	"github.com/osmnl/pdok-report/internal/infra/config"
	"github.com/osmnl/pdok-report/internal/infra/datasource"
	"github.com/osmnl/pdok-report/internal/infra/logging"
	"github.com/osmnl/pdok-report/internal/infra/pdok"
	"github.com/osmnl/pdok-report/internal/infra/reportfile"
	"github.com/osmnl/pdok-report/internal/mode"
	"github.com/osmnl/pdok-report/internal/reportdata"
	"github.com/osmnl/pdok-report/internal/usecase"
)

// Paths holds the application file locations.
type Paths struct {
	ConfigDir   string // Directory holding config.toml and logs/
	ConfigFile  string // Path to config.toml
	PendingFile string // Unsent reports kept between sessions
}

// Options adjusts how the container is built.
type Options struct {
	ConfigPath string         // Empty uses the default location
	APIMode    domain.APIMode // Overrides [api] use when set
	Headless   bool           // No map view; download failures are not notified
}

// Container provides dependency injection for the application.
// It owns the report store, the command history and the download coordinator,
// and provides factory methods for use cases.
type Container struct {
	// Ports (interfaces bound to implementations)
	API           domain.ReportAPI
	Clock         domain.Clock
	ConfigLoader  domain.ConfigLoader
	ConfigManager domain.ConfigManager
	Archive       domain.ReportArchive

	// Core state
	Store       *reportdata.Store
	Record      *history.Record
	Filter      *filter.Filter
	Coordinator *download.Coordinator
	Sources     *datasource.Static
	Progress    *usecase.UploadProgress

	// Pointer fields
	Log      *logging.Logger // Category log file
	Logger   *slog.Logger    // CLI diagnostics
	Notifier *Relay
	Config   *domain.Config

	// Configuration
	Paths Paths
}

// New loads the configuration and wires the application.
// A broken config file is reported and the defaults are used instead.
func New(opts Options) (*Container, error) {
	loader := config.NewLoader(opts.ConfigPath)
	dir := filepath.Dir(loader.Path())
	paths := Paths{
		ConfigDir:   dir,
		ConfigFile:  loader.Path(),
		PendingFile: domain.PendingFilePath(dir),
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))

	cfg, err := loader.Load()
	if err != nil {
		logger.Warn("using default configuration", "error", err)
		cfg = domain.NewDefaultConfig()
	}
	if opts.APIMode != "" {
		if _, err := domain.ParseAPIMode(string(opts.APIMode)); err != nil {
			return nil, fmt.Errorf("%w: %s", err, opts.APIMode)
		}
		cfg.API.Use = opts.APIMode
	}

	fileLog := logging.New(paths.ConfigDir, logging.ParseLevel(cfg.Log.Level))
	c := build(cfg, fileLog, logger)
	c.Paths = paths
	c.ConfigLoader = fixedLoader{cfg: cfg}
	c.ConfigManager = config.NewManager(paths.ConfigFile)
	c.API = pdok.NewClient(cfg.API, cfg.User, pdok.WithLogger(fileLog), pdok.WithClock(c.Clock))
	c.Coordinator = c.newCoordinator(opts.Headless)
	return c, nil
}

// NewWithDeps creates a Container around the given API for testing.
// Nothing is written to disk.
func NewWithDeps(cfg *domain.Config, api domain.ReportAPI, clock domain.Clock, out io.Writer) *Container {
	fileLog := logging.New("", logging.ParseLevel(cfg.Log.Level))
	logger := slog.New(slog.NewTextHandler(out, nil))
	c := build(cfg, fileLog, logger)
	c.Clock = clock
	c.API = api
	c.ConfigLoader = fixedLoader{cfg: cfg}
	c.Coordinator = c.newCoordinator(true)
	return c
}

func build(cfg *domain.Config, fileLog *logging.Logger, logger *slog.Logger) *Container {
	c := &Container{
		Clock:    domain.RealClock{},
		Archive:  reportfile.Archive{},
		Store:    reportdata.New(),
		Record:   history.NewRecord(),
		Sources:  datasource.NewStatic(),
		Progress: &usecase.UploadProgress{},
		Log:      fileLog,
		Logger:   logger,
		Notifier: NewRelay(logNotifier{log: fileLog}),
		Config:   cfg,
	}
	c.Filter = filter.New(c.Store, cfg.Filter, c)
	c.Filter.Attach()
	c.Sources.OnChange(func() {
		if c.Coordinator != nil {
			c.Coordinator.DataSourcesChanged()
		}
	})
	return c
}

// Now implements domain.Clock through the container's current clock.
func (c *Container) Now() time.Time {
	return c.Clock.Now()
}

func (c *Container) newCoordinator(headless bool) *download.Coordinator {
	return download.NewCoordinator(download.Options{
		Store:    c.Store,
		API:      c.API,
		Sources:  c.Sources,
		Notifier: c.Notifier,
		Logger:   c.Log,
		Config:   *c.Config,
		Headless: headless,
	})
}

// AttachMap connects a map view: it becomes the store's renderer and the
// viewport of the store and the coordinator.
func (c *Container) AttachMap(v domain.Viewport, r domain.Renderer) {
	c.Store.SetViewport(v)
	c.Store.SetRenderer(r)
	c.Coordinator.SetViewport(v)
}

// DetachMap disconnects the map view and sends notifications to the log again.
func (c *Container) DetachMap() {
	c.Store.SetRenderer(nil)
	c.Store.SetViewport(nil)
	c.Coordinator.SetViewport(nil)
	c.Notifier.SetTarget(logNotifier{log: c.Log})
}

// NewModeController creates the interaction mode controller for a map view.
func (c *Container) NewModeController(source domain.PointerSource, v domain.Viewport, editor domain.EditorHighlighter) *mode.Controller {
	return mode.NewController(source, mode.Env{
		Store:        c.Store,
		History:      c.Record,
		Viewport:     v,
		Editor:       editor,
		SnapDistance: c.Config.Download.SnapDistance,
	})
}

// LoadSession adds the reports saved by SaveSession. Loading is not undoable.
func (c *Container) LoadSession() (int, error) {
	if c.Paths.PendingFile == "" {
		return 0, nil
	}
	reports, err := c.Archive.Read(c.Paths.PendingFile)
	if errors.Is(err, os.ErrNotExist) {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	c.Store.AddAll(reports)
	return len(reports), nil
}

// SaveSession writes the pending reports so the next run can pick them up.
// Without pending reports the file is removed.
func (c *Container) SaveSession() error {
	if c.Paths.PendingFile == "" {
		return nil
	}
	pending := c.Store.PendingReports()
	if len(pending) == 0 {
		if err := os.Remove(c.Paths.PendingFile); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("remove pending file: %w", err)
		}
		return nil
	}
	_, err := c.Archive.Write(c.Paths.PendingFile, pending, c.Clock.Now())
	return err
}

// Close stops all downloads, clears the undo history and closes the log file.
func (c *Container) Close() error {
	stopErr := c.Coordinator.Close()
	c.Filter.Detach()
	c.Record.Reset()
	if err := c.Log.Close(); err != nil {
		return err
	}
	return stopErr
}

// UseCase factory methods

// SubmitReportsUseCase returns a new SubmitReports use case.
func (c *Container) SubmitReportsUseCase() *usecase.SubmitReports {
	return usecase.NewSubmitReports(c.API, c.Store, c.Notifier, c.Log, c.Progress)
}

// ValidateKeyUseCase returns a new ValidateKey use case.
func (c *Container) ValidateKeyUseCase() *usecase.ValidateKey {
	return usecase.NewValidateKey(c.API, c.ConfigLoader)
}

// DownloadAreaUseCase returns a new DownloadArea use case.
func (c *Container) DownloadAreaUseCase() *usecase.DownloadArea {
	return usecase.NewDownloadArea(c.API, c.Store, c.Log)
}

// ListReportsUseCase returns a new ListReports use case.
func (c *Container) ListReportsUseCase() *usecase.ListReports {
	return usecase.NewListReports(c.Store)
}

// CreateReportUseCase returns a new CreateReport use case.
func (c *Container) CreateReportUseCase() *usecase.CreateReport {
	return usecase.NewCreateReport(c.Store, c.Log)
}

// EditReportUseCase returns a new EditReport use case.
func (c *Container) EditReportUseCase() *usecase.EditReport {
	return usecase.NewEditReport(c.Store)
}

// DeleteReportsUseCase returns a new DeleteReports use case.
func (c *Container) DeleteReportsUseCase() *usecase.DeleteReports {
	return usecase.NewDeleteReports(c.Store, c.Record)
}

// ZoomToSelectedUseCase returns a new ZoomToSelected use case for the given viewport.
func (c *Container) ZoomToSelectedUseCase(v domain.Viewport) *usecase.ZoomToSelected {
	return usecase.NewZoomToSelected(c.Store, func() domain.Viewport { return v })
}

// ImportReportsUseCase returns a new ImportReports use case.
func (c *Container) ImportReportsUseCase() *usecase.ImportReports {
	return usecase.NewImportReports(c.Archive, c.Store, c.Record, c.Log)
}

// ExportReportsUseCase returns a new ExportReports use case.
func (c *Container) ExportReportsUseCase() *usecase.ExportReports {
	return usecase.NewExportReports(c.Archive, c.Store, c.Clock, c.Log)
}

// ShowConfigUseCase returns a new ShowConfig use case.
func (c *Container) ShowConfigUseCase() *usecase.ShowConfig {
	return usecase.NewShowConfig(c.ConfigManager, c.ConfigLoader, config.Encode)
}

// InitConfigUseCase returns a new InitConfig use case.
func (c *Container) InitConfigUseCase() *usecase.InitConfig {
	return usecase.NewInitConfig(c.ConfigManager)
}

// ShowLogsUseCase returns a new ShowLogs use case.
// Entries come from the log file when there is one, so earlier runs are included.
func (c *Container) ShowLogsUseCase() *usecase.ShowLogs {
	if c.Paths.ConfigDir != "" {
		return usecase.NewShowLogs(logging.FileHistory{ConfigDir: c.Paths.ConfigDir})
	}
	return usecase.NewShowLogs(c.Log)
}

// fixedLoader returns the configuration the container was built with,
// including command-line overrides.
type fixedLoader struct {
	cfg *domain.Config
}

func (l fixedLoader) Load() (*domain.Config, error) {
	return l.cfg, nil
}

// Relay forwards notifications to a replaceable target, so the map view can
// take over from the log once it is running.
type Relay struct {
	target domain.Notifier
	mu     sync.RWMutex
}

// Ensure Relay implements domain.Notifier.
var _ domain.Notifier = (*Relay)(nil)

// NewRelay creates a Relay delivering to target.
func NewRelay(target domain.Notifier) *Relay {
	return &Relay{target: target}
}

// SetTarget replaces the destination.
func (r *Relay) SetTarget(target domain.Notifier) {
	r.mu.Lock()
	r.target = target
	r.mu.Unlock()
}

// Notify implements domain.Notifier.
func (r *Relay) Notify(n domain.Notification) {
	r.mu.RLock()
	target := r.target
	r.mu.RUnlock()
	if target != nil {
		target.Notify(n)
	}
}

// logNotifier writes notifications to the log when no map view is shown.
type logNotifier struct {
	log domain.Logger
}

func (n logNotifier) Notify(note domain.Notification) {
	switch note.Level {
	case domain.NotifyError:
		n.log.Error("notify", note.Message)
	case domain.NotifyWarning:
		n.log.Warn("notify", note.Message)
	default:
		n.log.Info("notify", note.Message)
	}
}
