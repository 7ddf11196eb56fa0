package ports

import (
	"context"

	"route-planner/internal/domain"
)

// Contract for requesting route computation from the external backend.
type RouteProvider interface {
	// Generate computes one route. Absent endpoints are passed as nil and
	// must be omitted from the upstream request (the backend then picks
	// its own defaults, e.g. a random start).
	Generate(ctx context.Context, opts domain.RouteOptions, start, end *domain.Point) (*domain.RouteResult, error)
}

// Contract for turning a computed route into a GPX document.
type GPXExporter interface {
	ExportGPX(ctx context.Context, route *domain.RouteResult, title string) ([]byte, error)
}
