// Package testutil provides shared test utilities and mock implementations.
package testutil

import (
	"context"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/osmnl/pdok-report/internal/domain"
)

// MockClock is a test double for domain.Clock.
type MockClock struct {
	NowTime time.Time
}

// Now returns the configured time.
func (m *MockClock) Now() time.Time {
	return m.NowTime
}

// MockRenderer counts invalidations.
type MockRenderer struct {
	count atomic.Int64
}

// Invalidate records a repaint request.
func (m *MockRenderer) Invalidate() {
	m.count.Add(1)
}

// Count returns the number of Invalidate calls.
func (m *MockRenderer) Count() int {
	return int(m.count.Load())
}

// MockViewport is a linear projection: x grows with longitude, y grows southwards.
// Fields are ordered to minimize memory padding.
type MockViewport struct {
	Origin domain.LatLon // Map position of screen (0, 0)
	View   domain.Bounds
	Zoomed []domain.LatLon
	Scale  float64 // Pixels per degree
	mu     sync.Mutex
}

// NewMockViewport creates a viewport with its origin at (lat, lon) and the given scale.
func NewMockViewport(origin domain.LatLon, scale float64) *MockViewport {
	return &MockViewport{Origin: origin, Scale: scale}
}

// Point returns the screen position of ll.
func (m *MockViewport) Point(ll domain.LatLon) (float64, float64) {
	return (ll.Lon - m.Origin.Lon) * m.Scale, (m.Origin.Lat - ll.Lat) * m.Scale
}

// LatLon returns the map position of a screen point.
func (m *MockViewport) LatLon(x, y float64) domain.LatLon {
	return domain.LatLon{Lat: m.Origin.Lat - y/m.Scale, Lon: m.Origin.Lon + x/m.Scale}
}

// Bounds returns the configured view.
func (m *MockViewport) Bounds() domain.Bounds {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.View
}

// SetBounds changes the configured view.
func (m *MockViewport) SetBounds(b domain.Bounds) {
	m.mu.Lock()
	m.View = b
	m.mu.Unlock()
}

// ZoomTo records the requested center.
func (m *MockViewport) ZoomTo(ll domain.LatLon) {
	m.mu.Lock()
	m.Zoomed = append(m.Zoomed, ll)
	m.mu.Unlock()
}

// ZoomCalls returns the recorded ZoomTo targets.
func (m *MockViewport) ZoomCalls() []domain.LatLon {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.LatLon(nil), m.Zoomed...)
}

// MockNotifier records notifications.
type MockNotifier struct {
	notes []domain.Notification
	mu    sync.Mutex
}

// Notify records n.
func (m *MockNotifier) Notify(n domain.Notification) {
	m.mu.Lock()
	m.notes = append(m.notes, n)
	m.mu.Unlock()
}

// Notifications returns the recorded notifications.
func (m *MockNotifier) Notifications() []domain.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Notification(nil), m.notes...)
}

// Messages returns the recorded notification messages.
func (m *MockNotifier) Messages() []string {
	notes := m.Notifications()
	out := make([]string, len(notes))
	for i, n := range notes {
		out[i] = n.Message
	}
	return out
}

// MockLogger records log lines as "LEVEL category: msg".
type MockLogger struct {
	lines []string
	mu    sync.Mutex
}

func (m *MockLogger) record(level, category, msg string) {
	m.mu.Lock()
	m.lines = append(m.lines, level+" "+category+": "+msg)
	m.mu.Unlock()
}

// Debug records a debug line.
func (m *MockLogger) Debug(category, msg string) { m.record("DEBUG", category, msg) }

// Info records an info line.
func (m *MockLogger) Info(category, msg string) { m.record("INFO", category, msg) }

// Warn records a warning line.
func (m *MockLogger) Warn(category, msg string) { m.record("WARN", category, msg) }

// Error records an error line.
func (m *MockLogger) Error(category, msg string) { m.record("ERROR", category, msg) }

// Lines returns the recorded lines.
func (m *MockLogger) Lines() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.lines...)
}

// MockReportAPI is a test double for domain.ReportAPI.
// Fields are ordered to minimize memory padding.
type MockReportAPI struct {
	FetchFunc  func(ctx context.Context, b domain.Bounds) ([]*domain.Report, error)
	SubmitFunc func(ctx context.Context, r *domain.Report) (*domain.SubmitResult, error)
	Fetched    []domain.Bounds
	Submitted  []*domain.Report
	ValidKey   string
	mu         sync.Mutex
	fetchCount atomic.Int64
}

// FetchReports records the call and delegates to FetchFunc.
func (m *MockReportAPI) FetchReports(ctx context.Context, b domain.Bounds) ([]*domain.Report, error) {
	m.fetchCount.Add(1)
	m.mu.Lock()
	m.Fetched = append(m.Fetched, b)
	m.mu.Unlock()
	if m.FetchFunc != nil {
		return m.FetchFunc(ctx, b)
	}
	return nil, nil
}

// FetchCount returns the number of FetchReports calls.
func (m *MockReportAPI) FetchCount() int {
	return int(m.fetchCount.Load())
}

// FetchedBounds returns the bounds passed to FetchReports.
func (m *MockReportAPI) FetchedBounds() []domain.Bounds {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Bounds(nil), m.Fetched...)
}

// Submit records the call and delegates to SubmitFunc.
func (m *MockReportAPI) Submit(ctx context.Context, r *domain.Report) (*domain.SubmitResult, error) {
	m.mu.Lock()
	m.Submitted = append(m.Submitted, r)
	m.mu.Unlock()
	if m.SubmitFunc != nil {
		return m.SubmitFunc(ctx, r)
	}
	return &domain.SubmitResult{Reference: "ref-" + r.ID(), Status: 201}, nil
}

// ValidateKey accepts only ValidKey.
func (m *MockReportAPI) ValidateKey(_ context.Context, _ domain.APIMode, key string) (bool, error) {
	return key != "" && key == m.ValidKey, nil
}

// MockDataSource is a test double for domain.DataSourceProvider.
type MockDataSource struct {
	Areas []domain.Bounds
	mu    sync.Mutex
}

// DataSourceBounds returns the configured areas.
func (m *MockDataSource) DataSourceBounds() []domain.Bounds {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Bounds(nil), m.Areas...)
}

// Add appends an area.
func (m *MockDataSource) Add(b domain.Bounds) {
	m.mu.Lock()
	m.Areas = append(m.Areas, b)
	m.mu.Unlock()
}

// MockEditorHighlighter is a test double for domain.EditorHighlighter.
type MockEditorHighlighter struct {
	ModeActive []bool
	Cleared    int
	EditLayer  bool
}

// HasEditLayer returns EditLayer.
func (m *MockEditorHighlighter) HasEditLayer() bool {
	return m.EditLayer
}

// SetMapModeActive records the call.
func (m *MockEditorHighlighter) SetMapModeActive(active bool) {
	m.ModeActive = append(m.ModeActive, active)
}

// ClearHighlights records the call.
func (m *MockEditorHighlighter) ClearHighlights() {
	m.Cleared++
}

// MockConfigLoader is a test double for domain.ConfigLoader.
type MockConfigLoader struct {
	Config  *domain.Config
	LoadErr error
}

// Load returns the configured config or error.
func (m *MockConfigLoader) Load() (*domain.Config, error) {
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Config == nil {
		return domain.NewDefaultConfig(), nil
	}
	return m.Config, nil
}

// MockConfigManager is a test double for domain.ConfigManager.
type MockConfigManager struct {
	InitErr    error
	ConfigInfo domain.ConfigInfo
	InitPath   string
	Inited     bool
}

// Info returns the configured info.
func (m *MockConfigManager) Info() domain.ConfigInfo {
	return m.ConfigInfo
}

// Init records the call.
func (m *MockConfigManager) Init(_ bool) (string, error) {
	if m.InitErr != nil {
		return "", m.InitErr
	}
	m.Inited = true
	return m.InitPath, nil
}

// MockPointerSource is a test double for domain.PointerSource.
type MockPointerSource struct {
	Listeners []domain.PointerListener
}

// AddPointerListener registers l.
func (m *MockPointerSource) AddPointerListener(l domain.PointerListener) {
	m.Listeners = append(m.Listeners, l)
}

// RemovePointerListener unregisters l.
func (m *MockPointerSource) RemovePointerListener(l domain.PointerListener) {
	for i, existing := range m.Listeners {
		if existing == l {
			m.Listeners = append(m.Listeners[:i], m.Listeners[i+1:]...)
			return
		}
	}
}

// MockReportArchive is a test double for domain.ReportArchive.
type MockReportArchive struct {
	ReadErr    error
	WriteErr   error
	Files      map[string][]*domain.Report
	WrittenAt  time.Time
	WritePaths []string
}

// Read returns the reports stored under path.
func (m *MockReportArchive) Read(path string) ([]*domain.Report, error) {
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	reports, ok := m.Files[path]
	if !ok {
		return nil, os.ErrNotExist
	}
	return reports, nil
}

// Write stores the pending reports under path.
func (m *MockReportArchive) Write(path string, reports []*domain.Report, at time.Time) (int, error) {
	if m.WriteErr != nil {
		return 0, m.WriteErr
	}
	if m.Files == nil {
		m.Files = make(map[string][]*domain.Report)
	}
	var pending []*domain.Report
	for _, r := range reports {
		if r.Kind() == domain.KindPending {
			pending = append(pending, r)
		}
	}
	m.Files[path] = pending
	m.WrittenAt = at
	m.WritePaths = append(m.WritePaths, path)
	return len(pending), nil
}

// MockLogHistory is a test double for domain.LogHistory.
type MockLogHistory struct {
	Entries []string
}

// Recent returns the last n entries.
func (m *MockLogHistory) Recent(n int) []string {
	if n < 0 || n >= len(m.Entries) {
		return append([]string(nil), m.Entries...)
	}
	return append([]string(nil), m.Entries[len(m.Entries)-n:]...)
}

// Compile-time interface checks.
var (
	_ domain.Clock              = (*MockClock)(nil)
	_ domain.Renderer           = (*MockRenderer)(nil)
	_ domain.Viewport           = (*MockViewport)(nil)
	_ domain.Notifier           = (*MockNotifier)(nil)
	_ domain.Logger             = (*MockLogger)(nil)
	_ domain.ReportAPI          = (*MockReportAPI)(nil)
	_ domain.DataSourceProvider = (*MockDataSource)(nil)
	_ domain.EditorHighlighter  = (*MockEditorHighlighter)(nil)
	_ domain.ConfigLoader       = (*MockConfigLoader)(nil)
	_ domain.ConfigManager      = (*MockConfigManager)(nil)
	_ domain.PointerSource      = (*MockPointerSource)(nil)
	_ domain.ReportArchive      = (*MockReportArchive)(nil)
	_ domain.LogHistory         = (*MockLogHistory)(nil)
)
