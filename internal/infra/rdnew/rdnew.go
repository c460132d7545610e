// Package rdnew converts between the Dutch national grid (RD New, EPSG:28992)
// and WGS84 (EPSG:4326). The datum shift is the EPSG seven-parameter
// Helmert transformation, accurate to about a metre inside the Netherlands.
package rdnew

import (
	"github.com/wroge/wgs84"

	"github.com/osmnl/pdok-report/internal/domain"
)

// EPSG codes.
const (
	EPSG      = 28992
	epsgWGS84 = 4326
)

var (
	toWGS84   = wgs84.EPSG().Code(EPSG).To(wgs84.EPSG().Code(epsgWGS84))
	fromWGS84 = wgs84.EPSG().Code(epsgWGS84).To(wgs84.EPSG().Code(EPSG))
)

// ToWGS84 converts RD coordinates (x easting, y northing, metres) to WGS84.
func ToWGS84(x, y float64) domain.LatLon {
	lon, lat, _ := toWGS84(x, y, 0)
	return domain.LatLon{Lat: lat, Lon: lon}
}

// FromWGS84 converts a WGS84 coordinate to RD (x easting, y northing, metres).
func FromWGS84(ll domain.LatLon) (x, y float64) {
	x, y, _ = fromWGS84(ll.Lon, ll.Lat, 0)
	return x, y
}
