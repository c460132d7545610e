package mode

import (
	"github.com/osmnl/pdok-report/internal/domain"
	"github.com/osmnl/pdok-report/internal/history"
)

// Ensure Select implements Mode.
var _ Mode = (*Select)(nil)

// Select selects reports on press, moves the selection on drag and records
// the move on release. Hovering highlights the nearest report.
type Select struct {
	env        Env
	moved      []*domain.Report // Reports dragged since the last press
	offset     domain.Delta     // Live offset of the current drag
	suppressed bool             // Editor highlighting is switched off while hovering
}

// NewSelect creates a select mode.
func NewSelect(env Env) *Select {
	return &Select{env: env}
}

// Kind implements Mode.
func (m *Select) Kind() Kind { return KindSelect }

func (m *Select) String() string { return "Select mode" }

// Reset cancels an unfinished drag and restores editor highlighting.
func (m *Select) Reset() {
	for _, r := range m.moved {
		r.CancelMoving()
	}
	m.moved = nil
	m.offset = domain.Delta{}
	if m.suppressed {
		m.restoreEditor()
	}
}

// PointerPressed selects the report under the pointer. With the additive
// modifier the report joins the multi-selection; a miss clears the selection.
func (m *Select) PointerPressed(e domain.PointerEvent) {
	if e.Button != domain.ButtonLeft {
		return
	}
	store := m.env.Store
	closest := m.env.Closest(e.X, e.Y)
	if closest == nil {
		store.SetSelected(nil, false)
		return
	}
	// A press also highlights, so a drag can start without prior hover.
	store.SetHighlighted(closest)

	switch {
	case e.ClickCount == 2:
	case e.Additive:
		store.AddMultiSelected(closest)
	default:
		store.SetSelected(closest, false)
	}
}

// PointerDragged moves every editable report in the selection so that the
// highlighted report follows the pointer. Shift suppresses the move.
func (m *Select) PointerDragged(e domain.PointerEvent) {
	if e.Button != domain.ButtonLeft {
		return
	}
	anchor := m.env.Store.Highlighted()
	if anchor == nil {
		return
	}
	if !e.Shift {
		m.offset = m.env.Viewport.LatLon(e.X, e.Y).Sub(anchor.Position())
		m.moved = m.moved[:0]
		for _, r := range m.env.Store.Selection() {
			if !r.Kind().Editable() {
				continue
			}
			r.Move(m.offset)
			m.moved = append(m.moved, r)
		}
	}
	m.env.Store.Invalidate()
}

// PointerReleased records a move command for a non-zero drag and commits
// every selected report.
func (m *Select) PointerReleased(domain.PointerEvent) {
	store := m.env.Store
	if store.Selected() == nil {
		m.moved, m.offset = nil, domain.Delta{}
		return
	}
	if len(m.moved) > 0 && !m.offset.IsZero() {
		m.env.History.AddCommand(history.NewMove(store, m.moved, m.offset))
	}
	for _, r := range store.Selection() {
		r.StopMoving()
	}
	m.moved, m.offset = nil, domain.Delta{}
	store.Invalidate()
}

// PointerMoved updates the hover highlight.
func (m *Select) PointerMoved(e domain.PointerEvent) {
	closest := m.env.Closest(e.X, e.Y)
	m.syncEditor(closest != nil)

	store := m.env.Store
	if store.Highlighted() != closest {
		store.SetHighlighted(closest)
	}
	store.Invalidate()
}

// syncEditor switches the editor's own highlighting off while a report is
// hovered and back on when the pointer leaves it.
func (m *Select) syncEditor(hovering bool) {
	ed := m.env.Editor
	if ed == nil || !ed.HasEditLayer() {
		return
	}
	switch {
	case hovering && !m.suppressed:
		ed.SetMapModeActive(false)
		ed.ClearHighlights()
		m.suppressed = true
	case !hovering && m.suppressed:
		m.restoreEditor()
	}
}

func (m *Select) restoreEditor() {
	if ed := m.env.Editor; ed != nil {
		ed.SetMapModeActive(true)
	}
	m.suppressed = false
}
