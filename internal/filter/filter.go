// Package filter decides which reports are drawn on the map.
package filter

import (
	"sync"
	"time"

	"github.com/osmnl/pdok-report/internal/domain"
	"github.com/osmnl/pdok-report/internal/reportdata"
)

// Settings are the user-controlled filter switches.
// Fields are ordered to minimize memory padding.
type Settings struct {
	HidePeriod     domain.Period
	HideNumber     float64
	ShowPending    bool // "New reports"
	ShowConfirmed  bool // "Downloaded reports"
	HideClosed     bool // Hide closed reports older than HideNumber HidePeriod
	LayerInvisible bool // Hide everything
}

// DefaultSettings returns the settings a reset restores, taking the age
// filter from cfg.
func DefaultSettings(cfg domain.FilterConfig) Settings {
	return Settings{
		ShowPending:   true,
		ShowConfirmed: true,
		HideClosed:    cfg.HideClosed,
		HideNumber:    cfg.HideNumber,
		HidePeriod:    cfg.HidePeriod,
	}
}

// Hidden reports whether r is filtered out at time now.
func (s Settings) Hidden(r *domain.Report, now time.Time) bool {
	if s.LayerInvisible {
		return true
	}
	switch r.Kind() {
	case domain.KindPending:
		return !s.ShowPending
	case domain.KindConfirmed:
		if !s.ShowConfirmed {
			return true
		}
		return s.HideClosed && s.closedBefore(r.Confirmed(), now)
	}
	return false
}

func (s Settings) closedBefore(c *domain.Confirmed, now time.Time) bool {
	if c == nil || !c.StatusCode.IsClosed() {
		return false
	}
	return c.ReportedAt.Before(now.Add(-s.HidePeriod.Duration(s.HideNumber)))
}

// Filter applies Settings to a store and re-applies them whenever reports
// are added or removed.
type Filter struct {
	store    *reportdata.Store
	clock    domain.Clock
	defaults domain.FilterConfig
	settings Settings
	mu       sync.Mutex
}

// Ensure Filter implements reportdata.Listener.
var _ reportdata.Listener = (*Filter)(nil)

// New creates a Filter with default settings. Call Attach to start
// following store changes.
func New(store *reportdata.Store, cfg domain.FilterConfig, clock domain.Clock) *Filter {
	if clock == nil {
		clock = domain.RealClock{}
	}
	return &Filter{
		store:    store,
		clock:    clock,
		defaults: cfg,
		settings: DefaultSettings(cfg),
	}
}

// Attach registers the filter as a store listener and applies it once.
func (f *Filter) Attach() {
	f.store.AddListener(f)
	f.Refresh()
}

// Detach stops following store changes.
func (f *Filter) Detach() {
	f.store.RemoveListener(f)
}

// Settings returns the current settings.
func (f *Filter) Settings() Settings {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.settings
}

// Update replaces the settings and re-applies the filter.
func (f *Filter) Update(s Settings) {
	f.mu.Lock()
	f.settings = s
	f.mu.Unlock()
	f.Refresh()
}

// Reset restores the default settings and re-applies the filter.
func (f *Filter) Reset() {
	f.Update(DefaultSettings(f.defaults))
}

// Save returns the age filter of the current settings as configuration.
func (f *Filter) Save() domain.FilterConfig {
	s := f.Settings()
	return domain.FilterConfig{
		HideClosed: s.HideClosed,
		HideNumber: s.HideNumber,
		HidePeriod: s.HidePeriod,
	}
}

// Refresh sets the visibility of every report and repaints.
func (f *Filter) Refresh() {
	s := f.Settings()
	now := f.clock.Now()
	for _, r := range f.store.Reports() {
		r.SetVisible(!s.Hidden(r, now))
	}
	f.store.Invalidate()
}

// Count returns the number of visible and total reports.
func (f *Filter) Count() (visible, total int) {
	reports := f.store.Reports()
	for _, r := range reports {
		if r.Visible() {
			visible++
		}
	}
	return visible, len(reports)
}

// ReportsAdded implements reportdata.Listener.
func (f *Filter) ReportsAdded() { f.Refresh() }

// ReportsRemoved implements reportdata.Listener.
func (f *Filter) ReportsRemoved() { f.Refresh() }

// SelectedReportChanged implements reportdata.Listener.
func (f *Filter) SelectedReportChanged(_, _ *domain.Report) {}
