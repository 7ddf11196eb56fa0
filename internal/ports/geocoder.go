package ports

import (
	"context"
	"errors"
	"fmt"

	"route-planner/internal/domain"
)

// ErrNotFound reports that the upstream geocoder has no match, e.g. a
// reverse lookup over open water. Callers map it to a 404 or an inline
// message; it is not an upstream failure.
var ErrNotFound = errors.New("geocoder: no match found")

// UpstreamError is a non-2xx response from an external API.
type UpstreamError struct {
	Status int
	Body   string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream status %d: %s", e.Status, e.Body)
}

// Contract for resolving free text or coordinates into labeled places.
// Cancellation travels through ctx; implementations return the ctx error
// unwrapped so callers can swallow it silently.
type Geocoder interface {
	// Search returns zero or more candidates for a free-text query.
	Search(ctx context.Context, query string) ([]domain.GeocodeResult, error)
	// Reverse returns the best-match place for a coordinate, or
	// ErrNotFound when the upstream knows no address there.
	Reverse(ctx context.Context, p domain.Point) (domain.GeocodeResult, error)
}
