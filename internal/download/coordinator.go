package download

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/osmnl/pdok-report/internal/domain"
)

// Options configures a Coordinator.
// Fields are ordered to minimize memory padding.
type Options struct {
	Store    Store
	API      domain.ReportAPI
	Viewport domain.Viewport           // May be nil until a map is shown
	Sources  domain.DataSourceProvider // May be nil when no editor data exists
	Notifier domain.Notifier
	Logger   domain.Logger
	OnDone   func() // Called after each finished download, e.g. to re-apply the filter
	Config   domain.Config
	Pool     PoolConfig
	Tick     time.Duration // Debouncer tick; zero uses DefaultTick
	Headless bool          // Suppress failure notifications
}

// Coordinator decides which areas to download and runs the downloads on a pool.
type Coordinator struct {
	opts      Options
	pool      *Pool
	debouncer *Debouncer
	viewport  domain.Viewport
	cfg       domain.Config
	mu        sync.Mutex
	running   atomic.Int32
}

// NewCoordinator creates a coordinator with a fresh pool.
func NewCoordinator(opts Options) *Coordinator {
	if opts.Pool == (PoolConfig{}) {
		opts.Pool = DefaultPoolConfig()
	}
	if opts.Logger == nil {
		opts.Logger = nopLogger{}
	}
	c := &Coordinator{
		opts:     opts,
		pool:     NewPool(opts.Pool),
		viewport: opts.Viewport,
		cfg:      opts.Config,
	}
	c.debouncer = c.newDebouncer()
	return c
}

func (c *Coordinator) newDebouncer() *Debouncer {
	return NewDebouncer(func() {
		if err := c.DownloadVisibleArea(); err != nil {
			c.opts.Logger.Debug(logCategory, err.Error())
		}
	}, c.opts.Tick, c.cfg.Download.Cooldown)
}

// SetViewport sets the viewport used by visible-area downloads.
func (c *Coordinator) SetViewport(v domain.Viewport) {
	c.mu.Lock()
	c.viewport = v
	c.mu.Unlock()
}

// SetConfig replaces the API and download settings used by new downloads.
// Leaving visible-area mode stops the debouncer and installs a fresh one.
func (c *Coordinator) SetConfig(cfg domain.Config) {
	c.mu.Lock()
	prev := c.cfg.Download.Mode
	c.cfg = cfg
	c.mu.Unlock()
	if prev == domain.DownloadVisibleArea && cfg.Download.Mode != domain.DownloadVisibleArea {
		c.ResetDebouncer()
	}
}

// Mode returns the current download mode.
func (c *Coordinator) Mode() domain.DownloadMode {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.cfg.Download.Mode
}

// Running returns the number of downloads in progress.
func (c *Coordinator) Running() int {
	return int(c.running.Load())
}

// Download schedules a download of b. It returns false when the pool dropped the request.
func (c *Coordinator) Download(b domain.Bounds) bool {
	c.mu.Lock()
	task := &Task{
		api:      c.opts.API,
		store:    c.opts.Store,
		notifier: c.opts.Notifier,
		logger:   c.opts.Logger,
		onDone:   c.opts.OnDone,
		apiCfg:   c.cfg.API,
		bounds:   b,
		headless: c.opts.Headless,
	}
	pool := c.pool
	c.mu.Unlock()

	ok := pool.Submit(func(ctx context.Context) {
		c.running.Add(1)
		defer c.running.Add(-1)
		task.Run(ctx)
	})
	if !ok {
		c.opts.Logger.Debug(logCategory, fmt.Sprintf("download of %s dropped", b))
	}
	return ok
}

// DownloadVisibleArea downloads the current view, even when it was downloaded
// before, since report status may have changed on the server.
func (c *Coordinator) DownloadVisibleArea() error {
	c.mu.Lock()
	v := c.viewport
	c.mu.Unlock()
	if v == nil {
		return domain.ErrNoViewport
	}
	view := v.Bounds()
	c.opts.Store.AddBounds(view)
	c.Download(view)
	return nil
}

// DownloadOSMArea downloads every editor data area that has not been
// downloaded yet. It returns the number of downloads scheduled.
func (c *Coordinator) DownloadOSMArea() int {
	if c.opts.Sources == nil {
		return 0
	}
	n := 0
	for _, b := range c.opts.Sources.DataSourceBounds() {
		if c.opts.Store.Covers(b) {
			continue
		}
		if !c.opts.Store.AddBoundsIfAbsent(b) {
			continue
		}
		c.Download(b)
		n++
	}
	return n
}

// ViewportMoved feeds the pan debouncer in visible-area mode.
func (c *Coordinator) ViewportMoved() {
	if c.Mode() != domain.DownloadVisibleArea {
		return
	}
	c.mu.Lock()
	d := c.debouncer
	c.mu.Unlock()
	d.Start()
	d.Moved()
}

// DataSourcesChanged downloads new editor data areas in OSM-area mode.
func (c *Coordinator) DataSourcesChanged() int {
	if c.Mode() != domain.DownloadOSMArea {
		return 0
	}
	return c.DownloadOSMArea()
}

// ResetDebouncer stops the pan debouncer and replaces it with a fresh one.
func (c *Coordinator) ResetDebouncer() {
	c.mu.Lock()
	old := c.debouncer
	c.debouncer = c.newDebouncer()
	c.mu.Unlock()
	old.Stop()
}

// StopAll cancels all queued and running downloads, waits for them to finish
// and installs a new pool so later downloads still work.
func (c *Coordinator) StopAll() error {
	return c.StopAllWithin(domain.DefaultDownloadStopTimeout)
}

// StopAllWithin is StopAll with a custom wait.
func (c *Coordinator) StopAllWithin(timeout time.Duration) error {
	c.mu.Lock()
	old := c.pool
	c.pool = NewPool(c.opts.Pool)
	c.mu.Unlock()

	if err := old.Stop(timeout); err != nil {
		c.opts.Logger.Error(logCategory, err.Error())
		return err
	}
	return nil
}

// Close stops the debouncer and all downloads.
func (c *Coordinator) Close() error {
	c.mu.Lock()
	d := c.debouncer
	pool := c.pool
	c.mu.Unlock()
	d.Stop()
	return pool.Stop(domain.DefaultDownloadStopTimeout)
}

type nopLogger struct{}

func (nopLogger) Debug(string, string) {}
func (nopLogger) Info(string, string)  {}
func (nopLogger) Warn(string, string)  {}
func (nopLogger) Error(string, string) {}
