package models

import "math"

type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the location may be rendered or sent to the
// routing provider. The exact (0,0) pair is the backend sentinel for
// "coordinate unknown" and is treated as invalid.
func (l Location) Valid() bool {
	if math.IsNaN(l.Latitude) || math.IsInf(l.Latitude, 0) {
		return false
	}
	if math.IsNaN(l.Longitude) || math.IsInf(l.Longitude, 0) {
		return false
	}
	if l.Latitude == 0 && l.Longitude == 0 {
		return false
	}
	return l.Latitude >= -90 && l.Latitude <= 90 &&
		l.Longitude >= -180 && l.Longitude <= 180
}

// SamePoint reports whether two locations are the same coordinate pair.
// Used for route identity checks, not for geometric proximity.
func (l Location) SamePoint(other Location) bool {
	return l.Latitude == other.Latitude && l.Longitude == other.Longitude
}

// Bounds is a geographic bounding box for viewport fitting.
type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLng float64 `json:"min_lng"`
	MaxLat float64 `json:"max_lat"`
	MaxLng float64 `json:"max_lng"`
}
