// Package reportdata holds the in-memory report store shared by the map view,
// the download workers and the interaction modes.
package reportdata

import (
	"slices"
	"sync"
	"sync/atomic"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/osmnl/pdok-report/internal/domain"
)

// Listener is notified about store changes. Notifications are delivered
// synchronously, in registration order, on the goroutine that made the change.
type Listener interface {
	// ReportsAdded is called after reports were added (see Store.Add).
	ReportsAdded()

	// ReportsRemoved is called after reports were removed.
	ReportsRemoved()

	// SelectedReportChanged is called after the single selection changed.
	SelectedReportChanged(old, current *domain.Report)
}

// ListenerFuncs adapts plain functions to Listener. Nil functions are skipped.
type ListenerFuncs struct {
	OnAdded    func()
	OnRemoved  func()
	OnSelected func(old, current *domain.Report)
}

// ReportsAdded implements Listener.
func (f *ListenerFuncs) ReportsAdded() {
	if f.OnAdded != nil {
		f.OnAdded()
	}
}

// ReportsRemoved implements Listener.
func (f *ListenerFuncs) ReportsRemoved() {
	if f.OnRemoved != nil {
		f.OnRemoved()
	}
}

// SelectedReportChanged implements Listener.
func (f *ListenerFuncs) SelectedReportChanged(old, current *domain.Report) {
	if f.OnSelected != nil {
		f.OnSelected(old, current)
	}
}

// Store is the concurrent collection of reports plus selection, highlight and
// downloaded-area state.
//
// The member set, the multi-selection and the listener list are each safe for
// concurrent use; there is no store-wide lock. SetReports is the only operation
// that needs a larger atomic unit and runs clear+insert under the set's lock.
type Store struct {
	reports     *reportSet
	multi       *reportSet
	selected    *domain.Report
	highlighted atomic.Pointer[domain.Report]
	listeners   atomic.Pointer[[]Listener]
	renderer    domain.Renderer
	viewport    domain.Viewport
	bounds      []domain.Bounds
	selMu       sync.RWMutex
	listenerMu  sync.Mutex
	boundsMu    sync.RWMutex
	collabMu    sync.RWMutex
}

// New creates an empty Store. Listeners are registered in the given order.
func New(listeners ...Listener) *Store {
	s := &Store{
		reports: newReportSet(),
		multi:   newReportSet(),
	}
	empty := []Listener{}
	s.listeners.Store(&empty)
	for _, l := range listeners {
		s.AddListener(l)
	}
	return s
}

// SetRenderer sets the renderer invalidated after changes.
func (s *Store) SetRenderer(r domain.Renderer) {
	s.collabMu.Lock()
	s.renderer = r
	s.collabMu.Unlock()
}

// SetViewport sets the viewport used to center on selections.
func (s *Store) SetViewport(v domain.Viewport) {
	s.collabMu.Lock()
	s.viewport = v
	s.collabMu.Unlock()
}

// Invalidate asks the renderer to repaint.
func (s *Store) Invalidate() {
	s.collabMu.RLock()
	r := s.renderer
	s.collabMu.RUnlock()
	if r != nil {
		r.Invalidate()
	}
}

func (s *Store) currentViewport() domain.Viewport {
	s.collabMu.RLock()
	defer s.collabMu.RUnlock()
	return s.viewport
}

// AddListener registers a listener.
func (s *Store) AddListener(l Listener) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	old := *s.listeners.Load()
	next := make([]Listener, len(old), len(old)+1)
	copy(next, old)
	next = append(next, l)
	s.listeners.Store(&next)
}

// RemoveListener unregisters a listener.
func (s *Store) RemoveListener(l Listener) {
	s.listenerMu.Lock()
	defer s.listenerMu.Unlock()
	old := *s.listeners.Load()
	next := make([]Listener, 0, len(old))
	for _, existing := range old {
		if existing != l {
			next = append(next, existing)
		}
	}
	s.listeners.Store(&next)
}

func (s *Store) each(fn func(Listener)) {
	for _, l := range *s.listeners.Load() {
		if l != nil {
			fn(l)
		}
	}
}

func (s *Store) fireAdded() {
	s.each(func(l Listener) { l.ReportsAdded() })
}

func (s *Store) fireRemoved() {
	s.each(func(l Listener) { l.ReportsRemoved() })
}

func (s *Store) fireSelected(old, current *domain.Report) {
	s.each(func(l Listener) { l.SelectedReportChanged(old, current) })
}

// Add inserts r if no equal report is present and repaints. Listeners are told
// about the addition even when r was already a member.
func (s *Store) Add(r *domain.Report) {
	if r == nil {
		return
	}
	s.reports.add(r)
	s.Invalidate()
	s.fireAdded()
}

// AddAll inserts all reports with a single notification.
func (s *Store) AddAll(rs []*domain.Report) {
	s.reports.addAll(rs)
	s.Invalidate()
	s.fireAdded()
}

// CreateReport adds a new pending report at ll.
func (s *Store) CreateReport(ll domain.LatLon, description string) *domain.Report {
	r := domain.NewPendingReport(ll, description)
	s.Add(r)
	return r
}

// Remove deletes r. A selection that involves r is cleared first.
func (s *Store) Remove(r *domain.Report) {
	if r == nil {
		return
	}
	s.reports.remove(r)
	inMulti := s.multi.contains(r)
	if inMulti || r.Equal(s.Selected()) {
		s.SetSelected(nil, false)
	}
	if r.Equal(s.Highlighted()) {
		s.highlighted.Store(nil)
	}
	s.Invalidate()
	s.fireRemoved()
}

// RemoveAll removes each report with full side effects.
func (s *Store) RemoveAll(rs []*domain.Report) {
	for _, r := range rs {
		s.Remove(r)
	}
}

// RemoveSilently drops reports from the member set without touching the
// selection and without notifying listeners. The caller repaints.
func (s *Store) RemoveSilently(rs []*domain.Report) {
	for _, r := range rs {
		if r != nil {
			s.reports.remove(r)
		}
	}
}

// SetReports replaces the member set atomically. No listeners are notified.
func (s *Store) SetReports(rs []*domain.Report) {
	s.reports.replace(rs)
}

// Contains reports whether an equal report is a member.
func (s *Store) Contains(r *domain.Report) bool {
	return r != nil && s.reports.contains(r)
}

// Get returns the member with the given key, or nil.
func (s *Store) Get(key string) *domain.Report {
	return s.reports.get(key)
}

// Len returns the number of members.
func (s *Store) Len() int {
	return s.reports.len()
}

// Reports returns a snapshot of all members.
func (s *Store) Reports() []*domain.Report {
	return s.reports.snapshot()
}

// PendingReports returns a snapshot of the members that have not been submitted.
func (s *Store) PendingReports() []*domain.Report {
	all := s.reports.snapshot()
	out := make([]*domain.Report, 0, len(all))
	for _, r := range all {
		if r.Kind().Uploadable() {
			out = append(out, r)
		}
	}
	return out
}

// Selected returns the single selection, or nil.
func (s *Store) Selected() *domain.Report {
	s.selMu.RLock()
	defer s.selMu.RUnlock()
	return s.selected
}

// SetSelected replaces the selection and clears the multi-selection.
// With zoom set, the viewport is centered on the new selection.
func (s *Store) SetSelected(r *domain.Report, zoom bool) {
	s.selMu.Lock()
	old := s.selected
	s.selected = r
	s.selMu.Unlock()
	s.multi.clear()

	if zoom && r != nil {
		if v := s.currentViewport(); v != nil {
			v.ZoomTo(r.LivePosition())
		}
	}
	s.fireSelected(old, r)
	s.Invalidate()
}

// AddMultiSelected extends the selection. While nothing is selected, the first
// report becomes the single selection instead. Already present reports are skipped.
func (s *Store) AddMultiSelected(rs ...*domain.Report) {
	for _, r := range rs {
		if r == nil || s.multi.contains(r) {
			continue
		}
		if s.Selected() == nil {
			s.SetSelected(r, false)
			continue
		}
		s.multi.add(r)
	}
	s.Invalidate()
}

// MultiSelected returns a snapshot of the multi-selection.
func (s *Store) MultiSelected() []*domain.Report {
	return s.multi.snapshot()
}

// Selection returns the selected report followed by the multi-selection, without duplicates.
func (s *Store) Selection() []*domain.Report {
	sel := s.Selected()
	multi := s.multi.snapshot()
	if sel == nil {
		return multi
	}
	out := make([]*domain.Report, 0, len(multi)+1)
	out = append(out, sel)
	for _, r := range multi {
		if !r.Equal(sel) {
			out = append(out, r)
		}
	}
	return out
}

// Highlighted returns the report under the pointer, or nil.
func (s *Store) Highlighted() *domain.Report {
	return s.highlighted.Load()
}

// SetHighlighted sets the hover target. Repainting is up to the caller.
func (s *Store) SetHighlighted(r *domain.Report) {
	s.highlighted.Store(r)
}

// Bounds returns a snapshot of the downloaded areas.
func (s *Store) Bounds() []domain.Bounds {
	s.boundsMu.RLock()
	defer s.boundsMu.RUnlock()
	return slices.Clone(s.bounds)
}

// AddBounds records a downloaded area.
func (s *Store) AddBounds(b domain.Bounds) {
	s.boundsMu.Lock()
	s.bounds = append(s.bounds, b)
	s.boundsMu.Unlock()
}

// AddBoundsIfAbsent records b unless an equal area is already recorded.
// Returns true if b was added.
func (s *Store) AddBoundsIfAbsent(b domain.Bounds) bool {
	s.boundsMu.Lock()
	defer s.boundsMu.Unlock()
	for _, existing := range s.bounds {
		if existing.Equal(b) {
			return false
		}
	}
	s.bounds = append(s.bounds, b)
	return true
}

// HasBounds reports whether an equal area has been recorded.
func (s *Store) HasBounds(b domain.Bounds) bool {
	s.boundsMu.RLock()
	defer s.boundsMu.RUnlock()
	for _, existing := range s.bounds {
		if existing.Equal(b) {
			return true
		}
	}
	return false
}

// Covers reports whether b lies inside the union of the downloaded areas.
// The edges of b and of every recorded area split b into a grid of cells;
// each cell is either fully inside a recorded area or not at all, so
// testing the cell centres is exact.
func (s *Store) Covers(b domain.Bounds) bool {
	recorded := s.Bounds()
	if len(recorded) == 0 || !b.Valid() {
		return false
	}
	rects := make([]s2.Rect, 0, len(recorded))
	lats := []float64{b.Min.Lat, b.Max.Lat}
	lons := []float64{b.Min.Lon, b.Max.Lon}
	for _, r := range recorded {
		rects = append(rects, toRect(r))
		lats = appendInside(lats, b.Min.Lat, b.Max.Lat, r.Min.Lat, r.Max.Lat)
		lons = appendInside(lons, b.Min.Lon, b.Max.Lon, r.Min.Lon, r.Max.Lon)
	}
	slices.Sort(lats)
	slices.Sort(lons)
	lats = slices.Compact(lats)
	lons = slices.Compact(lons)

	for i := 1; i < len(lats); i++ {
		for j := 1; j < len(lons); j++ {
			centre := s2.LatLngFromDegrees((lats[i-1]+lats[i])/2, (lons[j-1]+lons[j])/2)
			if !slices.ContainsFunc(rects, func(r s2.Rect) bool { return r.ContainsLatLng(centre) }) {
				return false
			}
		}
	}
	return true
}

// appendInside adds the values strictly between lo and hi.
func appendInside(dst []float64, lo, hi float64, values ...float64) []float64 {
	for _, v := range values {
		if v > lo && v < hi {
			dst = append(dst, v)
		}
	}
	return dst
}

// toRect converts bounds to an s2 rectangle.
func toRect(b domain.Bounds) s2.Rect {
	minLL := s2.LatLngFromDegrees(b.Min.Lat, b.Min.Lon)
	maxLL := s2.LatLngFromDegrees(b.Max.Lat, b.Max.Lon)
	return s2.Rect{
		Lat: r1.Interval{Lo: minLL.Lat.Radians(), Hi: maxLL.Lat.Radians()},
		Lng: s1.Interval{Lo: minLL.Lng.Radians(), Hi: maxLL.Lng.Radians()},
	}
}
