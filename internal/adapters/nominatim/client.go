// Package nominatim adapts an OpenStreetMap-compatible geocoding
// service to the Geocoder port, translating its response shape into
// GeocodeResult and capping forward searches at a fixed result count.
package nominatim

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"route-planner/internal/domain"
	"route-planner/internal/platform/obs"
	"route-planner/internal/ports"
)

const (
	DefaultSearchURL  = "https://nominatim.openstreetmap.org/search"
	DefaultReverseURL = "https://nominatim.openstreetmap.org/reverse"

	// Nominatim's usage policy requires an identifying User-Agent.
	defaultUserAgent = "route-planner/1.0"

	// Forward searches return at most this many candidates.
	resultLimit = 5
)

type Client struct {
	searchURL  string
	reverseURL string
	userAgent  string
	language   string
	session    *http.Client
}

func NewClient(searchURL, reverseURL, userAgent string) *Client {
	if strings.TrimSpace(searchURL) == "" {
		searchURL = DefaultSearchURL
	}
	if strings.TrimSpace(reverseURL) == "" {
		reverseURL = DefaultReverseURL
	}
	if strings.TrimSpace(userAgent) == "" {
		userAgent = defaultUserAgent
	}

	return &Client{
		searchURL:  searchURL,
		reverseURL: reverseURL,
		userAgent:  userAgent,
		language:   "pl,en;q=0.8",
		session:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Wire shape of a Nominatim place. Coordinates arrive as strings.
type nominatimItem struct {
	PlaceID     json.Number `json:"place_id"`
	DisplayName string      `json:"display_name"`
	Lat         string      `json:"lat"`
	Lon         string      `json:"lon"`
	Type        string      `json:"type"`
	Class       string      `json:"class"`
	BoundingBox []string    `json:"boundingbox"`
	Error       string      `json:"error"`
}

// Search performs a forward geocode, returning at most resultLimit
// candidates.
func (c *Client) Search(ctx context.Context, query string) (_ []domain.GeocodeResult, err error) {
	defer obs.Time(ctx, "nominatim.search")(&err)

	q := url.Values{}
	q.Set("q", query)
	q.Set("format", "jsonv2")
	q.Set("limit", strconv.Itoa(resultLimit))
	q.Set("addressdetails", "1")

	req, err := c.newRequest(ctx, c.searchURL+"?"+q.Encode())
	if err != nil {
		return nil, fmt.Errorf("nominatim search: %w", err)
	}

	resp, err := c.session.Do(req)
	if err != nil {
		return nil, fmt.Errorf("nominatim search %q: %w", query, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, upstreamError(resp)
	}

	var raw []nominatimItem
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("nominatim search %q: decode response: %w", query, err)
	}

	items := make([]domain.GeocodeResult, 0, len(raw))
	for _, r := range raw {
		item, err := r.toResult()
		if err != nil {
			return nil, fmt.Errorf("nominatim search %q: %w", query, err)
		}
		items = append(items, item)
		if len(items) == resultLimit {
			break
		}
	}

	return items, nil
}

// Reverse resolves a coordinate to its best-match place. Nominatim
// reports "no address" as a 200 with an error body; that becomes
// ports.ErrNotFound.
func (c *Client) Reverse(ctx context.Context, p domain.Point) (_ domain.GeocodeResult, err error) {
	defer obs.Time(ctx, "nominatim.reverse")(&err)

	q := url.Values{}
	q.Set("format", "jsonv2")
	q.Set("lat", strconv.FormatFloat(p.Lat, 'f', -1, 64))
	q.Set("lon", strconv.FormatFloat(p.Lng, 'f', -1, 64))
	q.Set("addressdetails", "1")

	req, err := c.newRequest(ctx, c.reverseURL+"?"+q.Encode())
	if err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("nominatim reverse: %w", err)
	}

	resp, err := c.session.Do(req)
	if err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("nominatim reverse %s: %w", p, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return domain.GeocodeResult{}, upstreamError(resp)
	}

	var raw nominatimItem
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("nominatim reverse %s: decode response: %w", p, err)
	}

	if raw.Error != "" || raw.DisplayName == "" {
		return domain.GeocodeResult{}, ports.ErrNotFound
	}

	item, err := raw.toResult()
	if err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("nominatim reverse %s: %w", p, err)
	}
	return item, nil
}

func (c *Client) newRequest(ctx context.Context, rawURL string) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Accept-Language", c.language)
	return req, nil
}

func upstreamError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
	return &ports.UpstreamError{
		Status: resp.StatusCode,
		Body:   strings.TrimSpace(string(b)),
	}
}

func (r nominatimItem) toResult() (domain.GeocodeResult, error) {
	lat, err := strconv.ParseFloat(r.Lat, 64)
	if err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("parse lat %q: %w", r.Lat, err)
	}
	lon, err := strconv.ParseFloat(r.Lon, 64)
	if err != nil {
		return domain.GeocodeResult{}, fmt.Errorf("parse lon %q: %w", r.Lon, err)
	}

	item := domain.GeocodeResult{
		ID:    domain.ID(r.PlaceID.String()),
		Label: r.DisplayName,
		Lat:   lat,
		Lng:   lon,
		Kind:  r.Type,
		Class: r.Class,
	}

	// Nominatim bounding boxes arrive as [south, north, west, east]
	// strings.
	if len(r.BoundingBox) == 4 {
		south, err1 := strconv.ParseFloat(r.BoundingBox[0], 64)
		north, err2 := strconv.ParseFloat(r.BoundingBox[1], 64)
		west, err3 := strconv.ParseFloat(r.BoundingBox[2], 64)
		east, err4 := strconv.ParseFloat(r.BoundingBox[3], 64)
		if err1 == nil && err2 == nil && err3 == nil && err4 == nil {
			item.BBox = &domain.BoundingBox{South: south, North: north, West: west, East: east}
		}
	}

	return item, nil
}
