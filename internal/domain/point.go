package domain

import "strconv"

// Immutable geographic point (latitude, longitude).
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// String renders the point as "lat,lng" without trailing zeros.
// This is the provisional label shown while a map-picked point is
// being reverse geocoded.
func (p Point) String() string {
	return strconv.FormatFloat(p.Lat, 'f', -1, 64) + "," + strconv.FormatFloat(p.Lng, 'f', -1, 64)
}
