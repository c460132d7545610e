package mode

import (
	"sync"

	"github.com/osmnl/pdok-report/internal/domain"
)

// Ensure Join implements Mode.
var _ Mode = (*Join)(nil)

// Link is the rubber band drawn from a pending report to the pointer.
type Link struct {
	From *domain.Report
	X    float64 // Pointer position in screen coordinates
	Y    float64
}

// Join starts a link from a pending report and follows the pointer with it.
// Link is read by the renderer, so its state is guarded.
type Join struct {
	env  Env
	from *domain.Report
	x, y float64
	mu   sync.Mutex
}

// NewJoin creates a join mode.
func NewJoin(env Env) *Join {
	return &Join{env: env}
}

// Kind implements Mode.
func (m *Join) Kind() Kind { return KindJoin }

func (m *Join) String() string { return "Join mode" }

// Reset drops the link.
func (m *Join) Reset() {
	m.mu.Lock()
	m.from = nil
	m.mu.Unlock()
}

// PointerPressed begins a link when a pending report is highlighted and no
// link exists yet.
func (m *Join) PointerPressed(domain.PointerEvent) {
	highlighted := m.env.Store.Highlighted()
	if highlighted == nil {
		return
	}
	m.mu.Lock()
	if m.from == nil && highlighted.Kind() == domain.KindPending {
		m.from = highlighted
	}
	m.mu.Unlock()
	m.env.Store.Invalidate()
}

// PointerMoved tracks the pointer and highlights the nearest report.
func (m *Join) PointerMoved(e domain.PointerEvent) {
	m.mu.Lock()
	m.x, m.y = e.X, e.Y
	m.mu.Unlock()
	m.env.Store.SetHighlighted(m.env.Closest(e.X, e.Y))
	m.env.Store.Invalidate()
}

// PointerDragged implements domain.PointerListener.
func (m *Join) PointerDragged(domain.PointerEvent) {}

// PointerReleased implements domain.PointerListener.
func (m *Join) PointerReleased(domain.PointerEvent) {}

// Link returns the current link, if one has been started.
func (m *Join) Link() (Link, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.from == nil {
		return Link{}, false
	}
	return Link{From: m.from, X: m.x, Y: m.y}, true
}
