package backend

import (
	"context"
	"errors"

	"route-planner/internal/domain"
)

// MockBackend is a test double implementing the geocoder and route
// provider ports. Unset hooks fail loudly so tests only stub what they
// exercise.
type MockBackend struct {
	SearchFn   func(ctx context.Context, query string) ([]domain.GeocodeResult, error)
	ReverseFn  func(ctx context.Context, p domain.Point) (domain.GeocodeResult, error)
	GenerateFn func(ctx context.Context, opts domain.RouteOptions, start, end *domain.Point) (*domain.RouteResult, error)
	ExportFn   func(ctx context.Context, route *domain.RouteResult, title string) ([]byte, error)
}

func (m *MockBackend) Search(ctx context.Context, query string) ([]domain.GeocodeResult, error) {
	if m.SearchFn == nil {
		return nil, errors.New("mock backend: Search not stubbed")
	}
	return m.SearchFn(ctx, query)
}

func (m *MockBackend) Reverse(ctx context.Context, p domain.Point) (domain.GeocodeResult, error) {
	if m.ReverseFn == nil {
		return domain.GeocodeResult{}, errors.New("mock backend: Reverse not stubbed")
	}
	return m.ReverseFn(ctx, p)
}

func (m *MockBackend) Generate(
	ctx context.Context,
	opts domain.RouteOptions,
	start, end *domain.Point,
) (*domain.RouteResult, error) {
	if m.GenerateFn == nil {
		return nil, errors.New("mock backend: Generate not stubbed")
	}
	return m.GenerateFn(ctx, opts, start, end)
}

func (m *MockBackend) ExportGPX(ctx context.Context, route *domain.RouteResult, title string) ([]byte, error) {
	if m.ExportFn == nil {
		return nil, errors.New("mock backend: ExportGPX not stubbed")
	}
	return m.ExportFn(ctx, route, title)
}
