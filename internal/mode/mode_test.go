package mode

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/osmnl/pdok-report/internal/domain"
	"github.com/osmnl/pdok-report/internal/history"
	"github.com/osmnl/pdok-report/internal/reportdata"
	"github.com/osmnl/pdok-report/internal/testutil"
)

// The test viewport maps (52.2, 5.0) to the screen origin at 1000 px per degree,
// so (52.1, 5.1) is drawn at (100, 100).
func newEnv(t *testing.T) (Env, *reportdata.Store, *history.Record) {
	t.Helper()
	store := reportdata.New()
	record := history.NewRecord()
	return Env{
		Store:    store,
		History:  record,
		Viewport: testutil.NewMockViewport(domain.LatLon{Lat: 52.2, Lon: 5.0}, 1000),
	}, store, record
}

func left(x, y float64) domain.PointerEvent {
	return domain.PointerEvent{X: x, Y: y, Button: domain.ButtonLeft, ClickCount: 1}
}

func hover(x, y float64) domain.PointerEvent {
	return domain.PointerEvent{X: x, Y: y}
}

func confirmedAt(id string, ll domain.LatLon) *domain.Report {
	return domain.NewConfirmedReport(ll, "BAG", "", domain.Confirmed{RegistrationNumber: id})
}

func TestKind_String(t *testing.T) {
	assert.Equal(t, "select", KindSelect.String())
	assert.Equal(t, "join", KindJoin.String())
	assert.Equal(t, "unknown", Kind(9).String())
}

func TestEnv_Closest(t *testing.T) {
	env, store, _ := newEnv(t)
	near := store.CreateReport(domain.LatLon{Lat: 52.1, Lon: 5.1}, "near")
	far := store.CreateReport(domain.LatLon{Lat: 52.1, Lon: 5.105}, "far")

	tests := []struct {
		want *domain.Report
		name string
		x, y float64
	}{
		{name: "exact", x: 100, y: 100, want: near},
		{name: "nearer to second", x: 104, y: 100, want: far},
		{name: "inside snap", x: 100, y: 109, want: near},
		{name: "outside snap", x: 100, y: 111, want: nil},
		{name: "far away", x: 500, y: 500, want: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := env.Closest(tt.x, tt.y)
			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			assert.Same(t, tt.want, got)
		})
	}
}

func TestEnv_Closest_SkipsHidden(t *testing.T) {
	env, store, _ := newEnv(t)
	hidden := store.CreateReport(domain.LatLon{Lat: 52.1, Lon: 5.1}, "hidden")
	visible := store.CreateReport(domain.LatLon{Lat: 52.1, Lon: 5.105}, "visible")
	hidden.SetVisible(false)

	assert.Same(t, visible, env.Closest(100, 100))

	visible.SetVisible(false)
	assert.Nil(t, env.Closest(100, 100))
}

func TestEnv_Closest_FirstMinimumWins(t *testing.T) {
	env, store, _ := newEnv(t)
	ll := domain.LatLon{Lat: 52.1, Lon: 5.1}
	b := confirmedAt("b", ll)
	a := confirmedAt("a", ll)
	store.AddAll([]*domain.Report{b, a})

	assert.Same(t, a, env.Closest(100, 100))
}

func TestEnv_Closest_UsesLivePosition(t *testing.T) {
	env, store, _ := newEnv(t)
	r := store.CreateReport(domain.LatLon{Lat: 52.1, Lon: 5.1}, "dragged")
	r.Move(domain.Delta{DLon: 0.05})

	assert.Nil(t, env.Closest(100, 100))
	assert.Same(t, r, env.Closest(150, 100))
}

func TestEnv_Closest_CustomSnap(t *testing.T) {
	env, store, _ := newEnv(t)
	r := store.CreateReport(domain.LatLon{Lat: 52.1, Lon: 5.1}, "r")
	env.SnapDistance = 30

	assert.Same(t, r, env.Closest(120, 100))
}

func TestController_Switch(t *testing.T) {
	env, _, _ := newEnv(t)
	source := &testutil.MockPointerSource{}
	c := NewController(source, env)

	require.Len(t, source.Listeners, 1)
	assert.Equal(t, KindSelect, c.Current().Kind())

	join := c.Switch(KindJoin)
	require.Len(t, source.Listeners, 1)
	assert.Same(t, join, source.Listeners[0])
	assert.Equal(t, KindJoin, c.Current().Kind())

	assert.Same(t, join, c.Switch(KindJoin), "switching to the active mode keeps it")

	c.Switch(KindSelect)
	assert.Equal(t, KindSelect, c.Current().Kind())

	c.Close()
	assert.Empty(t, source.Listeners)
	assert.Nil(t, c.Current())
}

func TestController_SwitchCancelsDrag(t *testing.T) {
	env, store, record := newEnv(t)
	c := NewController(&testutil.MockPointerSource{}, env)
	r := store.CreateReport(domain.LatLon{Lat: 52.1, Lon: 5.1}, "r")
	sel := c.Current()
	sel.PointerPressed(left(100, 100))
	sel.PointerDragged(left(120, 100))
	require.True(t, r.IsModified())

	c.Switch(KindJoin)

	assert.False(t, r.IsModified())
	assert.Equal(t, domain.LatLon{Lat: 52.1, Lon: 5.1}, r.Position())
	assert.Empty(t, record.Commands())
}

func TestController_Link(t *testing.T) {
	env, store, _ := newEnv(t)
	c := NewController(nil, env)
	store.CreateReport(domain.LatLon{Lat: 52.1, Lon: 5.1}, "r")

	_, ok := c.Link()
	assert.False(t, ok)

	m := c.Switch(KindJoin)
	m.PointerMoved(hover(100, 100))
	m.PointerPressed(left(100, 100))

	_, ok = c.Link()
	assert.True(t, ok)
}
