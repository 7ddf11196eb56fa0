package ports

import (
	"context"

	"route-planner/internal/domain"
)

// Cache of geocoder responses keyed by request. Forward searches store
// the full candidate list; reverse lookups store a single-item list.
// A miss is (nil, false, nil); errors are reserved for backend faults.
type GeocodeCache interface {
	Get(ctx context.Context, key string) ([]domain.GeocodeResult, bool, error)
	Put(ctx context.Context, key string, items []domain.GeocodeResult) error
}
