// Package mode implements the pointer interaction modes of the report map.
package mode

import (
	"math"

	"github.com/osmnl/pdok-report/internal/domain"
	"github.com/osmnl/pdok-report/internal/history"
)

// Kind identifies an interaction mode.
type Kind int

const (
	KindSelect Kind = iota // Select, multi-select and drag reports
	KindJoin               // Link pending reports
)

// String returns the string representation of the kind.
func (k Kind) String() string {
	switch k {
	case KindSelect:
		return "select"
	case KindJoin:
		return "join"
	default:
		return "unknown"
	}
}

// Mode is an interaction mode attached to a pointer source while active.
type Mode interface {
	domain.PointerListener

	// Kind returns the mode identifier.
	Kind() Kind

	// Reset drops any in-progress interaction. Called when the mode is detached.
	Reset()

	String() string
}

// Store is the part of the report store the modes operate on.
type Store interface {
	history.ReportStore
	Reports() []*domain.Report
	Selected() *domain.Report
	Selection() []*domain.Report
	SetSelected(r *domain.Report, zoom bool)
	AddMultiSelected(rs ...*domain.Report)
	Highlighted() *domain.Report
	SetHighlighted(r *domain.Report)
}

// History records undoable commands.
type History interface {
	AddCommand(cmd history.Command)
}

// Env holds the collaborators shared by all modes.
// Fields are ordered to minimize memory padding.
type Env struct {
	Store        Store
	History      History
	Viewport     domain.Viewport
	Editor       domain.EditorHighlighter // May be nil
	SnapDistance float64                  // Hit-test radius in pixels; zero uses the default
}

func (e Env) snap() float64 {
	if e.SnapDistance <= 0 {
		return domain.DefaultSnapDistance
	}
	return e.SnapDistance
}

// Closest returns the visible report nearest to the screen point (x, y),
// provided it lies strictly within the snap distance. Reports are compared
// at their live position; the first of equally near reports wins.
func (e Env) Closest(x, y float64) *domain.Report {
	snap := e.snap()
	minDist := math.MaxFloat64
	var closest *domain.Report
	for _, r := range e.Store.Reports() {
		if !r.Visible() {
			continue
		}
		px, py := e.Viewport.Point(r.LivePosition())
		dx, dy := px-x, py-y
		dist := dx*dx + dy*dy
		if dist < minDist && math.Sqrt(dist) < snap {
			minDist = dist
			closest = r
		}
	}
	return closest
}
