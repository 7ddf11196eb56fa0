package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"route-planner/internal/domain"
	"route-planner/internal/platform/obs"
)

type gpxRequest struct {
	Points [][]float64 `json:"points"`
	Title  string      `json:"title"`
}

// ExportGPX posts the route's (lat, lon[, ele]) points to /route-to-gpx
// and returns the GPX document bytes.
func (c *Client) ExportGPX(ctx context.Context, route *domain.RouteResult, title string) (_ []byte, err error) {
	defer obs.Time(ctx, "backend.route.gpx")(&err)

	body, err := json.Marshal(gpxRequest{Points: route.GPXPoints(), Title: title})
	if err != nil {
		return nil, fmt.Errorf("export gpx: encode body: %w", err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, c.baseURL+"/route-to-gpx", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("export gpx: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("export gpx %q: %w", title, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("export gpx %q: read response: %w", title, err)
	}

	return data, nil
}
