package domain

import (
	"bytes"
	"fmt"
	"strconv"
)

// Bounding box of a geocode match, in degrees.
type BoundingBox struct {
	South float64 `json:"south"`
	North float64 `json:"north"`
	West  float64 `json:"west"`
	East  float64 `json:"east"`
}

// ID is a geocode result identifier. Upstream geocoders emit either a
// numeric or a string id, so both JSON forms are accepted.
type ID string

func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		s, err := strconv.Unquote(string(b))
		if err != nil {
			return fmt.Errorf("geocode id: %w", err)
		}
		*id = ID(s)
		return nil
	}
	*id = ID(b)
	return nil
}

// A single candidate produced by forward or reverse geocoding.
// Read-only; identified by ID for list rendering.
type GeocodeResult struct {
	ID    ID           `json:"id"`
	Label string       `json:"label"`
	Lat   float64      `json:"lat"`
	Lng   float64      `json:"lng"`
	Kind  string       `json:"type,omitempty"`
	Class string       `json:"class,omitempty"`
	BBox  *BoundingBox `json:"bbox,omitempty"`
}

func (r GeocodeResult) Point() Point {
	return Point{Lat: r.Lat, Lng: r.Lng}
}
