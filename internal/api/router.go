package api

import (
	"net/http"

	"route-planner/internal/api/handlers"
	"route-planner/internal/ports"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
// cache may be nil to run the proxy without one.
func NewRouter(geocoder ports.Geocoder, cache ports.GeocodeCache, build string) http.Handler {
	mux := http.NewServeMux()

	geoHandler := &handlers.GeocodeHandler{
		Geocoder: geocoder,
		Cache:    cache,
	}
	versionHandler := &handlers.VersionHandler{Build: build}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/version", versionHandler.Version)
	mux.HandleFunc("/geocode", geoHandler.Geocode)

	return loggingMiddleware(mux)
}
