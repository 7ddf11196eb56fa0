package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"route-planner/internal/domain"
	"route-planner/internal/platform/obs"
	"route-planner/internal/ports"
)

type searchResponse struct {
	Items []domain.GeocodeResult `json:"items"`
}

// Search performs a forward geocode via GET /geocode?q=.
// The minimum query length is enforced by the caller, not here.
func (c *Client) Search(ctx context.Context, query string) (_ []domain.GeocodeResult, err error) {
	defer obs.Time(ctx, "backend.geocode.search")(&err)

	q := url.Values{}
	q.Set("q", query)

	req, err := c.newRequest(ctx, http.MethodGet, c.baseURL+"/geocode?"+q.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("geocode search: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("geocode search %q: %w", query, err)
	}
	defer resp.Body.Close()

	var decoded searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&decoded); err != nil {
		return nil, fmt.Errorf("geocode search %q: decode response: %w", query, err)
	}

	return decoded.Items, nil
}

// Reverse resolves a coordinate to its best-match place via
// GET /geocode?lat=&lng=. A 404 means no address exists there.
func (c *Client) Reverse(ctx context.Context, p domain.Point) (_ domain.GeocodeResult, err error) {
	defer obs.Time(ctx, "backend.geocode.reverse")(&err)

	q := url.Values{}
	q.Set("lat", strconv.FormatFloat(p.Lat, 'f', -1, 64))
	q.Set("lng", strconv.FormatFloat(p.Lng, 'f', -1, 64))

	req, err := c.newRequest(ctx, http.MethodGet, c.baseURL+"/geocode?"+q.Encode(), nil)
	if err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("geocode reverse: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		var ue *ports.UpstreamError
		if errors.As(err, &ue) && ue.Status == http.StatusNotFound {
			return domain.GeocodeResult{}, ports.ErrNotFound
		}
		return domain.GeocodeResult{}, fmt.Errorf("geocode reverse %s: %w", p, err)
	}
	defer resp.Body.Close()

	var item domain.GeocodeResult
	if err := json.NewDecoder(resp.Body).Decode(&item); err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("geocode reverse %s: decode response: %w", p, err)
	}

	return item, nil
}
