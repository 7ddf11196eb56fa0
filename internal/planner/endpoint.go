// Package planner owns the route-options state: two endpoint slots with
// debounced geocode search, the route parameters, route generation and
// the map click layer. It is the single source of truth for the UI;
// consumers read immutable snapshots and listen for change
// notifications.
package planner

import "route-planner/internal/domain"

// Slot identifies one of the two route endpoints.
type Slot int

const (
	Start Slot = iota
	End
)

func (s Slot) String() string {
	if s == End {
		return "end"
	}
	return "start"
}

// sibling returns the other slot.
func (s Slot) sibling() Slot {
	if s == Start {
		return End
	}
	return Start
}

// Method describes how the user is specifying an endpoint.
type Method int

const (
	// MethodSearch: free-text query resolved through forward geocoding.
	MethodSearch Method = iota
	// MethodPin: coordinate picked directly on the map.
	MethodPin
)

// Endpoint is the per-slot selection state. The flags are orthogonal on
// purpose: AwaitingClick, Loading and Method combine freely.
type Endpoint struct {
	Method        Method
	Query         string
	Coords        *domain.Point
	AwaitingClick bool
	Results       []domain.GeocodeResult
	Loading       bool
	Err           string
}

func (e Endpoint) clone() Endpoint {
	out := e
	if e.Coords != nil {
		p := *e.Coords
		out.Coords = &p
	}
	if e.Results != nil {
		out.Results = append([]domain.GeocodeResult(nil), e.Results...)
	}
	return out
}
