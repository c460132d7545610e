package download

import (
	"context"
	"errors"
	"fmt"

	"github.com/osmnl/pdok-report/internal/domain"
)

const logCategory = "download"

// Task downloads the reports inside one area into the store.
type Task struct {
	api      domain.ReportAPI
	store    Store
	notifier domain.Notifier
	logger   domain.Logger
	onDone   func()
	apiCfg   domain.APIConfig
	bounds   domain.Bounds
	headless bool
}

// Store is the part of the report store a task writes to.
type Store interface {
	AddAll(reports []*domain.Report)
	AddBounds(b domain.Bounds)
	AddBoundsIfAbsent(b domain.Bounds) bool
	Covers(b domain.Bounds) bool
}

// Bounds returns the area the task downloads.
func (t *Task) Bounds() domain.Bounds {
	return t.bounds
}

// Run performs the download. Errors are logged and, unless headless, shown
// as a notification; they never propagate.
func (t *Task) Run(ctx context.Context) {
	if err := t.run(ctx); err != nil {
		t.report(err)
	}
	if ctx.Err() == nil && t.onDone != nil {
		t.onDone()
	}
}

func (t *Task) run(ctx context.Context) error {
	if _, ok := t.apiCfg.Credential(); !ok {
		return domain.ErrAPIKeyNotSet
	}

	reports, err := t.api.FetchReports(ctx, t.bounds)
	if ctx.Err() != nil {
		t.logger.Debug(logCategory, fmt.Sprintf("download of %s cancelled", t.bounds))
		return nil
	}
	if err != nil {
		return fmt.Errorf("could not read reports for %s: %w", t.bounds, err)
	}

	t.store.AddAll(reports)
	t.logger.Info(logCategory, fmt.Sprintf("downloaded %d reports for %s", len(reports), t.bounds))
	return nil
}

func (t *Task) report(err error) {
	if errors.Is(err, domain.ErrAPIKeyNotSet) {
		// Always shown, the user has to act on it.
		t.logger.Warn(logCategory, err.Error())
		t.notify(domain.Notification{Message: err.Error(), Level: domain.NotifyWarning})
		return
	}
	t.logger.Warn(logCategory, err.Error())
	if !t.headless {
		t.notify(domain.Notification{Message: err.Error(), Level: domain.NotifyWarning})
	}
}

func (t *Task) notify(n domain.Notification) {
	if t.notifier != nil {
		t.notifier.Notify(n)
	}
}
