package domain

import (
	"context"
	"time"
)

// ReportAPI talks to the registry's report API.
type ReportAPI interface {
	// FetchReports downloads the confirmed reports inside bounds.
	FetchReports(ctx context.Context, bounds Bounds) ([]*Report, error)

	// Submit uploads a pending report and returns the registry's reference.
	Submit(ctx context.Context, report *Report) (*SubmitResult, error)

	// ValidateKey checks a candidate key against the given API mode.
	ValidateKey(ctx context.Context, mode APIMode, key string) (bool, error)
}

// SubmitResult describes an accepted submission.
type SubmitResult struct {
	Reference string // Registration number or Location of the new report
	Status    int    // HTTP status code (200 or 201)
}

// Viewport converts between map and screen coordinates.
type Viewport interface {
	// Point returns the screen position of ll.
	Point(ll LatLon) (x, y float64)

	// LatLon returns the map position of a screen point.
	LatLon(x, y float64) LatLon

	// Bounds returns the currently visible area.
	Bounds() Bounds

	// ZoomTo centers the view on ll.
	ZoomTo(ll LatLon)
}

// PointerButton identifies the mouse button of a pointer event.
type PointerButton int

const (
	ButtonNone PointerButton = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
)

// PointerEvent is a mouse event in screen coordinates.
type PointerEvent struct {
	X          float64
	Y          float64
	Button     PointerButton
	ClickCount int
	Additive   bool // Platform multi-select modifier held
	Shift      bool
}

// PointerListener receives pointer events from a map view.
type PointerListener interface {
	PointerPressed(e PointerEvent)
	PointerReleased(e PointerEvent)
	PointerDragged(e PointerEvent)
	PointerMoved(e PointerEvent)
}

// PointerSource delivers pointer events to registered listeners.
type PointerSource interface {
	AddPointerListener(l PointerListener)
	RemovePointerListener(l PointerListener)
}

// Renderer repaints the report layer when core state changes.
type Renderer interface {
	Invalidate()
}

// DataSourceProvider exposes the areas for which the editor holds OSM data.
type DataSourceProvider interface {
	// DataSourceBounds returns the bounds of all editor data sources.
	DataSourceBounds() []Bounds
}

// EditorHighlighter is the editor's own selection highlighting, which is
// suppressed while a report is hovered.
type EditorHighlighter interface {
	// HasEditLayer reports whether an editable data layer exists.
	HasEditLayer() bool

	// SetMapModeActive enables or disables the editor's active map mode.
	SetMapModeActive(active bool)

	// ClearHighlights removes highlighting from all editor primitives.
	ClearHighlights()
}

// NotificationLevel is the severity of a user notification.
type NotificationLevel int

const (
	NotifyInfo NotificationLevel = iota
	NotifyWarning
	NotifyError
)

// String returns the string representation of the level.
func (l NotificationLevel) String() string {
	switch l {
	case NotifyInfo:
		return "info"
	case NotifyWarning:
		return "warning"
	case NotifyError:
		return "error"
	default:
		return "unknown"
	}
}

// Notification is a transient user-visible message.
type Notification struct {
	Message string
	Level   NotificationLevel
}

// Notifier shows transient notifications to the user.
type Notifier interface {
	Notify(n Notification)
}

// Logger provides category-tagged logging.
type Logger interface {
	Debug(category, msg string)
	Info(category, msg string)
	Warn(category, msg string)
	Error(category, msg string)
}

// ConfigLoader loads configuration from files.
type ConfigLoader interface {
	// Load returns the configuration merged over defaults.
	Load() (*Config, error)
}

// ConfigInfo describes a configuration file.
type ConfigInfo struct {
	Path    string
	Content string
	Exists  bool
}

// ConfigManager manages the configuration file.
type ConfigManager interface {
	// Info returns information about the config file.
	Info() ConfigInfo

	// Init writes the default config template. Fails with ErrConfigExists unless overwrite is set.
	Init(overwrite bool) (string, error)
}

// ReportArchive stores pending reports outside the running session.
type ReportArchive interface {
	// Read loads the reports stored at path.
	Read(path string) ([]*Report, error)

	// Write stores the pending reports among reports at path and returns how many were written.
	Write(path string, reports []*Report, at time.Time) (int, error)
}

// LogHistory exposes the most recent log entries.
type LogHistory interface {
	// Recent returns up to n entries, oldest first; n < 0 returns all.
	Recent(n int) []string
}

// Clock provides time operations for testability.
type Clock interface {
	Now() time.Time
}

// RealClock implements Clock using the system clock.
type RealClock struct{}

// Now returns the current time.
func (RealClock) Now() time.Time {
	return time.Now()
}
