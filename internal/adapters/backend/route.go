package backend

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"route-planner/internal/domain"
	"route-planner/internal/platform/obs"
)

// Generate requests one route via GET /route/{algorithm}.
// Unset endpoints are omitted from the query entirely so the backend
// can choose its own defaults.
func (c *Client) Generate(
	ctx context.Context,
	opts domain.RouteOptions,
	start, end *domain.Point,
) (_ *domain.RouteResult, err error) {
	defer obs.Time(ctx, "backend.route.generate")(&err)

	q := url.Values{}
	q.Set("distance", strconv.Itoa(opts.DistanceMeters))
	q.Set("prefer_new", strconv.FormatBool(opts.PreferNew))
	if start != nil {
		q.Set("start_x", strconv.FormatFloat(start.Lat, 'f', -1, 64))
		q.Set("start_y", strconv.FormatFloat(start.Lng, 'f', -1, 64))
	}
	if end != nil {
		q.Set("end_x", strconv.FormatFloat(end.Lat, 'f', -1, 64))
		q.Set("end_y", strconv.FormatFloat(end.Lng, 'f', -1, 64))
	}

	endpoint := c.baseURL + "/route/" + string(opts.Algorithm) + "?" + q.Encode()

	req, err := c.newRequest(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("generate route: %w", err)
	}

	resp, err := c.do(req)
	if err != nil {
		return nil, fmt.Errorf("generate route %s: %w", opts.Algorithm, err)
	}
	defer resp.Body.Close()

	var route domain.RouteResult
	if err := json.NewDecoder(resp.Body).Decode(&route); err != nil {
		return nil, fmt.Errorf("generate route %s: decode response: %w", opts.Algorithm, err)
	}

	return &route, nil
}
