package domain

import (
	"fmt"
	"math"
)

// LatLon is a WGS84 coordinate in degrees.
type LatLon struct {
	Lat float64
	Lon float64
}

// Add returns the coordinate shifted by the given delta.
func (ll LatLon) Add(d Delta) LatLon {
	return LatLon{Lat: ll.Lat + d.DLat, Lon: ll.Lon + d.DLon}
}

// Sub returns the delta that moves o onto ll.
func (ll LatLon) Sub(o LatLon) Delta {
	return Delta{DLon: ll.Lon - o.Lon, DLat: ll.Lat - o.Lat}
}

// String formats the coordinate for display.
func (ll LatLon) String() string {
	return fmt.Sprintf("%.7f, %.7f", ll.Lat, ll.Lon)
}

// Delta is an offset in degrees. DLon is the x component, DLat the y component.
type Delta struct {
	DLon float64
	DLat float64
}

// IsZero reports whether the delta does not move anything.
func (d Delta) IsZero() bool {
	return d.DLon == 0 && d.DLat == 0
}

// Plus returns the vector sum of two deltas.
func (d Delta) Plus(o Delta) Delta {
	return Delta{DLon: d.DLon + o.DLon, DLat: d.DLat + o.DLat}
}

// Neg returns the inverse delta.
func (d Delta) Neg() Delta {
	return Delta{DLon: -d.DLon, DLat: -d.DLat}
}

// Bounds is an axis-aligned lat/lon rectangle.
type Bounds struct {
	Min LatLon
	Max LatLon
}

// NewBounds creates bounds from two corners in any order.
func NewBounds(a, b LatLon) Bounds {
	return Bounds{
		Min: LatLon{Lat: math.Min(a.Lat, b.Lat), Lon: math.Min(a.Lon, b.Lon)},
		Max: LatLon{Lat: math.Max(a.Lat, b.Lat), Lon: math.Max(a.Lon, b.Lon)},
	}
}

// ParseBounds parses "minLon,minLat,maxLon,maxLat".
func ParseBounds(s string) (Bounds, error) {
	var minLon, minLat, maxLon, maxLat float64
	if _, err := fmt.Sscanf(s, "%g,%g,%g,%g", &minLon, &minLat, &maxLon, &maxLat); err != nil {
		return Bounds{}, fmt.Errorf("%w: %q", ErrInvalidBounds, s)
	}
	b := NewBounds(LatLon{Lat: minLat, Lon: minLon}, LatLon{Lat: maxLat, Lon: maxLon})
	if !b.Valid() {
		return Bounds{}, fmt.Errorf("%w: %q", ErrInvalidBounds, s)
	}
	return b, nil
}

// Valid reports whether the bounds span a non-empty area inside WGS84 limits.
func (b Bounds) Valid() bool {
	return b.Min.Lat < b.Max.Lat && b.Min.Lon < b.Max.Lon &&
		b.Min.Lat >= -90 && b.Max.Lat <= 90 && b.Min.Lon >= -180 && b.Max.Lon <= 180
}

// Contains reports whether ll lies inside the bounds (edges included).
func (b Bounds) Contains(ll LatLon) bool {
	return ll.Lat >= b.Min.Lat && ll.Lat <= b.Max.Lat && ll.Lon >= b.Min.Lon && ll.Lon <= b.Max.Lon
}

// Equal reports whether both bounds describe the same rectangle.
func (b Bounds) Equal(o Bounds) bool {
	return b.Min == o.Min && b.Max == o.Max
}

// Center returns the midpoint of the bounds.
func (b Bounds) Center() LatLon {
	return LatLon{Lat: (b.Min.Lat + b.Max.Lat) / 2, Lon: (b.Min.Lon + b.Max.Lon) / 2}
}

// String formats the bounds as "minLon,minLat,maxLon,maxLat", the bbox query format.
func (b Bounds) String() string {
	return fmt.Sprintf("%g,%g,%g,%g", b.Min.Lon, b.Min.Lat, b.Max.Lon, b.Max.Lat)
}
