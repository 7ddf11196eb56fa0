// Package backend is the HTTP adapter for the external route-planning
// API: forward/reverse geocoding, route generation and GPX export.
package backend

import (
	"errors"
	"net/http"
	"strings"
	"time"
)

// Client talks to the route-planning backend. One instance is safe for
// concurrent use; cancellation travels through request contexts.
type Client struct {
	baseURL string
	session *http.Client
}

func NewClient(baseURL string) (*Client, error) {
	baseURL = strings.TrimRight(strings.TrimSpace(baseURL), "/")
	if baseURL == "" {
		return nil, errors.New("backend: baseURL is required")
	}

	return &Client{
		baseURL: baseURL,
		session: &http.Client{Timeout: 30 * time.Second},
	}, nil
}
