package history

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osmnl/pdok-report/internal/domain"
	"github.com/osmnl/pdok-report/internal/reportdata"
)

const tolerance = 1e-9

func newReport(lat, lon float64) *domain.Report {
	return domain.NewPendingReport(domain.LatLon{Lat: lat, Lon: lon}, "test")
}

func assertPosition(t *testing.T, want domain.LatLon, r *domain.Report) {
	t.Helper()
	got := r.Position()
	assert.InDelta(t, want.Lat, got.Lat, tolerance)
	assert.InDelta(t, want.Lon, got.Lon, tolerance)
}

func TestRecord_Empty(t *testing.T) {
	rec := NewRecord()

	assert.Equal(t, -1, rec.Position())
	assert.False(t, rec.CanUndo())
	assert.False(t, rec.CanRedo())
	assert.Nil(t, rec.Last())

	assert.NotPanics(t, rec.Undo)
	assert.NotPanics(t, rec.Redo)
}

func TestRecord_MoveCoalescing(t *testing.T) {
	a, b := newReport(52, 5), newReport(53, 6)
	rec := NewRecord()

	rec.AddCommand(NewMove(nil, []*domain.Report{a, b}, domain.Delta{DLon: 0.001}))
	rec.AddCommand(NewMove(nil, []*domain.Report{b, a}, domain.Delta{DLon: 0.002, DLat: 0.003}))

	require.Len(t, rec.Commands(), 1)
	move, ok := rec.Last().(*Move)
	require.True(t, ok)
	assert.InDelta(t, 0.003, move.Offset().DLon, tolerance)
	assert.InDelta(t, 0.003, move.Offset().DLat, tolerance)
}

func TestRecord_NoCoalescing(t *testing.T) {
	a, b := newReport(52, 5), newReport(53, 6)
	s := reportdata.New()
	s.AddAll([]*domain.Report{a, b})

	tests := []struct {
		second Command
		name   string
	}{
		{name: "different report set", second: NewMove(nil, []*domain.Report{a, b}, domain.Delta{DLon: 1})},
		{name: "subset of reports", second: NewMove(nil, []*domain.Report{}, domain.Delta{DLon: 1})},
		{name: "different kind", second: NewDelete(s, []*domain.Report{a})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := NewRecord()
			rec.AddCommand(NewMove(nil, []*domain.Report{a}, domain.Delta{DLon: 1}))
			rec.AddCommand(tt.second)

			assert.Len(t, rec.Commands(), 2)
			assert.Equal(t, 1, rec.Position())
		})
	}
}

func TestRecord_AddTruncatesRedoTail(t *testing.T) {
	a, b := newReport(52, 5), newReport(53, 6)
	rec := NewRecord()
	rec.AddCommand(NewMove(nil, []*domain.Report{a}, domain.Delta{DLon: 1}))
	rec.AddCommand(NewMove(nil, []*domain.Report{b}, domain.Delta{DLon: 1}))
	rec.Undo()
	require.True(t, rec.CanRedo())

	third := NewMove(nil, []*domain.Report{a, b}, domain.Delta{DLat: 1})
	rec.AddCommand(third)

	require.Len(t, rec.Commands(), 2)
	assert.Same(t, third, rec.Last())
	assert.False(t, rec.CanRedo())
}

func TestRecord_CoalescesAfterUndoWithCommandAtCursor(t *testing.T) {
	a, b := newReport(52, 5), newReport(53, 6)
	rec := NewRecord()
	rec.AddCommand(NewMove(nil, []*domain.Report{a}, domain.Delta{DLon: 1}))
	rec.AddCommand(NewMove(nil, []*domain.Report{b}, domain.Delta{DLon: 1}))
	rec.Undo()

	rec.AddCommand(NewMove(nil, []*domain.Report{a}, domain.Delta{DLon: 2}))

	assert.Len(t, rec.Commands(), 2, "redo tail is kept when the command is summed")
	assert.Equal(t, 0, rec.Position())
	assert.InDelta(t, 3, rec.Last().(*Move).Offset().DLon, tolerance)
}

func TestRecord_MoveUndoRedoRoundTrip(t *testing.T) {
	r := newReport(52.1, 5.1)
	rec := NewRecord()

	// Interaction already moved the report before recording.
	r.Move(domain.Delta{DLon: 0.001})
	r.StopMoving()
	rec.AddCommand(NewMove(nil, []*domain.Report{r}, domain.Delta{DLon: 0.001}))
	moved := domain.LatLon{Lat: 52.1, Lon: 5.101}
	assertPosition(t, moved, r)

	rec.Undo()
	assertPosition(t, domain.LatLon{Lat: 52.1, Lon: 5.1}, r)

	rec.Redo()
	assertPosition(t, moved, r)

	rec.Undo()
	assertPosition(t, domain.LatLon{Lat: 52.1, Lon: 5.1}, r)
	assert.False(t, r.IsModified())
}

func TestRecord_DeleteUndoRedoRoundTrip(t *testing.T) {
	r, other := newReport(1, 1), newReport(2, 2)
	s := reportdata.New()
	s.AddAll([]*domain.Report{r, other})
	s.SetSelected(r, false)
	rec := NewRecord()

	rec.AddCommand(NewDelete(s, []*domain.Report{r}))
	assert.False(t, s.Contains(r))
	assert.Nil(t, s.Selected(), "delete uses the store's remove side effects")

	rec.Undo()
	assert.True(t, s.Contains(r))

	rec.Redo()
	assert.False(t, s.Contains(r))

	rec.Undo()
	assert.True(t, s.Contains(r))
	assert.Equal(t, 2, s.Len())
}

func TestRecord_ImportUndoRedoRoundTrip(t *testing.T) {
	imported := []*domain.Report{newReport(1, 1), newReport(2, 2)}
	s := reportdata.New()
	removed := 0
	s.AddListener(&reportdata.ListenerFuncs{OnRemoved: func() { removed++ }})
	rec := NewRecord()

	rec.AddCommand(NewImport(s, imported))
	assert.Equal(t, 2, s.Len())

	rec.Undo()
	assert.Zero(t, s.Len())
	assert.Zero(t, removed, "import undo does not fire removal events")

	rec.Redo()
	assert.Equal(t, 2, s.Len())

	rec.Undo()
	assert.Zero(t, s.Len())
}

func TestRecord_Listeners(t *testing.T) {
	rec := NewRecord()
	calls := 0
	l := &ListenerFuncs{OnChanged: func() { calls++ }}
	rec.AddListener(l)
	r := newReport(1, 1)

	rec.AddCommand(NewMove(nil, []*domain.Report{r}, domain.Delta{DLon: 1}))
	rec.AddCommand(NewMove(nil, []*domain.Report{r}, domain.Delta{DLon: 1}))
	rec.Undo()
	rec.Redo()
	assert.Equal(t, 4, calls)

	rec.RemoveListener(l)
	rec.Undo()
	assert.Equal(t, 4, calls)
}

func TestRecord_Reset(t *testing.T) {
	rec := NewRecord()
	rec.AddCommand(NewMove(nil, []*domain.Report{newReport(1, 1)}, domain.Delta{DLon: 1}))

	rec.Reset()

	assert.Empty(t, rec.Commands())
	assert.Equal(t, -1, rec.Position())
	assert.False(t, rec.CanUndo())
}

func TestCommand_String(t *testing.T) {
	one := []*domain.Report{newReport(1, 1)}
	two := []*domain.Report{newReport(1, 1), newReport(2, 2)}

	assert.Equal(t, "Moved 1 report", NewMove(nil, one, domain.Delta{}).String())
	assert.Equal(t, "Deleted 2 reports", NewDelete(nil, two).String())
	assert.Equal(t, "Imported 2 reports", NewImport(nil, two).String())
}

func TestNewReportSetDeduplicates(t *testing.T) {
	r := newReport(1, 1)

	cmd := NewMove(nil, []*domain.Report{r, r, nil}, domain.Delta{})

	assert.Len(t, cmd.Reports(), 1)
}
