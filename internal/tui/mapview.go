package tui

import (
	"math"
	"sync"

	"github.com/osmnl/pdok-report/internal/domain"
)

// Each terminal cell spans CellWidth x CellHeight map pixels. Cells are about
// twice as tall as they are wide.
const (
	CellWidth  = 8.0
	CellHeight = 16.0
)

// Zoom limits in degrees of longitude per map pixel.
const (
	minScale     = 1e-7
	maxScale     = 1e-2
	defaultScale = 2e-6
)

// MapView is a pannable equirectangular map of the report layer.
// It is the viewport of the store and the download coordinator, and the
// pointer source of the interaction modes. Safe for concurrent use.
// Fields are ordered to minimize memory padding.
type MapView struct {
	listeners []domain.PointerListener
	center    domain.LatLon
	scale     float64 // Degrees of longitude per pixel
	cols      int
	rows      int
	mu        sync.RWMutex
}

// Ensure MapView implements domain.Viewport and domain.PointerSource.
var (
	_ domain.Viewport      = (*MapView)(nil)
	_ domain.PointerSource = (*MapView)(nil)
)

// NewMapView creates a map centered on center.
func NewMapView(center domain.LatLon, cols, rows int) *MapView {
	return &MapView{
		center: center,
		scale:  defaultScale,
		cols:   cols,
		rows:   rows,
	}
}

// Resize sets the size of the map area in cells.
func (v *MapView) Resize(cols, rows int) {
	v.mu.Lock()
	v.cols, v.rows = max(cols, 1), max(rows, 1)
	v.mu.Unlock()
}

// Size returns the size of the map area in cells.
func (v *MapView) Size() (cols, rows int) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.cols, v.rows
}

// Center returns the map center.
func (v *MapView) Center() domain.LatLon {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.center
}

// Scale returns the zoom level in degrees of longitude per pixel.
func (v *MapView) Scale() float64 {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.scale
}

// latScale returns degrees of latitude per pixel. Must be called with v.mu held.
func (v *MapView) latScale() float64 {
	return v.scale * math.Cos(v.center.Lat*math.Pi/180)
}

// Point implements domain.Viewport.
func (v *MapView) Point(ll domain.LatLon) (x, y float64) {
	v.mu.RLock()
	defer v.mu.RUnlock()
	w := float64(v.cols) * CellWidth
	h := float64(v.rows) * CellHeight
	x = w/2 + (ll.Lon-v.center.Lon)/v.scale
	y = h/2 - (ll.Lat-v.center.Lat)/v.latScale()
	return x, y
}

// LatLon implements domain.Viewport.
func (v *MapView) LatLon(x, y float64) domain.LatLon {
	v.mu.RLock()
	defer v.mu.RUnlock()
	w := float64(v.cols) * CellWidth
	h := float64(v.rows) * CellHeight
	return domain.LatLon{
		Lat: v.center.Lat - (y-h/2)*v.latScale(),
		Lon: v.center.Lon + (x-w/2)*v.scale,
	}
}

// Bounds implements domain.Viewport.
func (v *MapView) Bounds() domain.Bounds {
	cols, rows := v.Size()
	return domain.NewBounds(
		v.LatLon(0, 0),
		v.LatLon(float64(cols)*CellWidth, float64(rows)*CellHeight),
	)
}

// ZoomTo implements domain.Viewport.
func (v *MapView) ZoomTo(ll domain.LatLon) {
	v.mu.Lock()
	v.center = ll
	v.mu.Unlock()
}

// Pan moves the map by whole cells.
func (v *MapView) Pan(dCols, dRows int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.center.Lon += float64(dCols) * CellWidth * v.scale
	v.center.Lat -= float64(dRows) * CellHeight * v.latScale()
	v.center.Lat = math.Max(-85, math.Min(85, v.center.Lat))
}

// Zoom multiplies the scale by factor; factors below one zoom in.
func (v *MapView) Zoom(factor float64) {
	v.mu.Lock()
	v.scale = math.Max(minScale, math.Min(maxScale, v.scale*factor))
	v.mu.Unlock()
}

// Cell returns the terminal cell that contains ll, relative to the map area.
func (v *MapView) Cell(ll domain.LatLon) (col, row int) {
	x, y := v.Point(ll)
	return int(math.Floor(x / CellWidth)), int(math.Floor(y / CellHeight))
}

// CellCenter returns the map pixel at the middle of a cell.
func CellCenter(col, row int) (x, y float64) {
	return (float64(col) + 0.5) * CellWidth, (float64(row) + 0.5) * CellHeight
}

// AddPointerListener implements domain.PointerSource.
func (v *MapView) AddPointerListener(l domain.PointerListener) {
	v.mu.Lock()
	v.listeners = append(v.listeners, l)
	v.mu.Unlock()
}

// RemovePointerListener implements domain.PointerSource.
func (v *MapView) RemovePointerListener(l domain.PointerListener) {
	v.mu.Lock()
	defer v.mu.Unlock()
	for i, existing := range v.listeners {
		if existing == l {
			v.listeners = append(v.listeners[:i], v.listeners[i+1:]...)
			return
		}
	}
}

func (v *MapView) snapshotListeners() []domain.PointerListener {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return append([]domain.PointerListener(nil), v.listeners...)
}

// PointerKind is the kind of pointer event dispatched to listeners.
type PointerKind int

const (
	PointerPress PointerKind = iota
	PointerRelease
	PointerDrag
	PointerMove
)

// Dispatch delivers e to every listener outside the lock.
func (v *MapView) Dispatch(kind PointerKind, e domain.PointerEvent) {
	for _, l := range v.snapshotListeners() {
		switch kind {
		case PointerPress:
			l.PointerPressed(e)
		case PointerRelease:
			l.PointerReleased(e)
		case PointerDrag:
			l.PointerDragged(e)
		case PointerMove:
			l.PointerMoved(e)
		}
	}
}
