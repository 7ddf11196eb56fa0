package planner

import (
	"context"
	"log"
	"sync"

	"route-planner/internal/domain"
	"route-planner/internal/ports"
)

// The upstream error detail is deliberately not shown to the user; it
// goes to the log instead.
const generateFailedMsg = "could not generate route"

// Generator issues route-computation requests from the current
// coordinator snapshot and accumulates the results. There is no
// single-flight guard here: concurrent Generate calls each issue an
// independent request, unlike the geocode coordinator.
type Generator struct {
	provider ports.RouteProvider
	coord    *Coordinator

	mu      sync.Mutex
	loading bool
	err     string
	results []*domain.RouteResult
	updates chan struct{}
}

func NewGenerator(provider ports.RouteProvider, coord *Coordinator) *Generator {
	return &Generator{
		provider: provider,
		coord:    coord,
		updates:  make(chan struct{}, 1),
	}
}

func (g *Generator) Updates() <-chan struct{} {
	return g.updates
}

// Generate snapshots the options and resolved endpoints, requests one
// route and prepends it to the result list. Failures become a generic
// user-facing message; no retry.
func (g *Generator) Generate(ctx context.Context) {
	g.mu.Lock()
	g.loading = true
	g.err = ""
	g.notifyLocked()
	g.mu.Unlock()

	snap := g.coord.Snapshot()
	opts := domain.RouteOptions{
		DistanceMeters: snap.DistanceMeters,
		Algorithm:      snap.Algorithm,
		PreferNew:      snap.PreferNew,
	}

	route, err := g.provider.Generate(ctx, opts, snap.Start.Coords, snap.End.Coords)

	g.mu.Lock()
	defer g.mu.Unlock()

	g.loading = false
	if err != nil {
		log.Printf("route generation failed: algorithm=%s distance=%d err=%v",
			opts.Algorithm, opts.DistanceMeters, err)
		g.err = generateFailedMsg
		g.notifyLocked()
		return
	}

	g.results = append([]*domain.RouteResult{route}, g.results...)
	g.notifyLocked()
}

// Remove drops the result at index i. Out-of-range indexes are ignored.
func (g *Generator) Remove(i int) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if i < 0 || i >= len(g.results) {
		return
	}
	g.results = append(g.results[:i:i], g.results[i+1:]...)
	g.notifyLocked()
}

// Results returns a copy of the accumulated routes, newest first.
func (g *Generator) Results() []*domain.RouteResult {
	g.mu.Lock()
	defer g.mu.Unlock()

	return append([]*domain.RouteResult(nil), g.results...)
}

// State reports the loading flag and the current user-facing error
// message, empty when the last request succeeded.
func (g *Generator) State() (loading bool, errMsg string) {
	g.mu.Lock()
	defer g.mu.Unlock()

	return g.loading, g.err
}

func (g *Generator) notifyLocked() {
	select {
	case g.updates <- struct{}{}:
	default:
	}
}
