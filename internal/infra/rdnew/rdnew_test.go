package rdnew

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/osmnl/pdok-report/internal/domain"
)

// Amersfoort, the origin of the grid, is RD (155000, 463000).
func TestToWGS84_ReferencePoint(t *testing.T) {
	ll := ToWGS84(155000, 463000)

	// Within a few metres.
	assert.InDelta(t, 52.15517440, ll.Lat, 5e-5)
	assert.InDelta(t, 5.38720621, ll.Lon, 5e-5)
}

func TestFromWGS84_ReferencePoint(t *testing.T) {
	x, y := FromWGS84(domain.LatLon{Lat: 52.15517440, Lon: 5.38720621})

	assert.InDelta(t, 155000, x, 5)
	assert.InDelta(t, 463000, y, 5)
}

func TestRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		ll   domain.LatLon
	}{
		{name: "amsterdam", ll: domain.LatLon{Lat: 52.3731, Lon: 4.8922}},
		{name: "maastricht", ll: domain.LatLon{Lat: 50.8514, Lon: 5.6910}},
		{name: "groningen", ll: domain.LatLon{Lat: 53.2194, Lon: 6.5665}},
		{name: "middelburg", ll: domain.LatLon{Lat: 51.4988, Lon: 3.6136}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			x, y := FromWGS84(tt.ll)
			back := ToWGS84(x, y)

			// The inverse undoes the forward transformation to well under a metre.
			assert.InDelta(t, tt.ll.Lat, back.Lat, 1e-5)
			assert.InDelta(t, tt.ll.Lon, back.Lon, 1e-5)
		})
	}
}

func TestFromWGS84_KnownLocation(t *testing.T) {
	// Dam square, Amsterdam, is near RD (121400, 487400).
	x, y := FromWGS84(domain.LatLon{Lat: 52.3731, Lon: 4.8922})

	assert.InDelta(t, 121400, x, 200)
	assert.InDelta(t, 487400, y, 200)
}
