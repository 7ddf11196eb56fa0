package nominatim

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"route-planner/internal/domain"
	"route-planner/internal/ports"
)

func TestSearchTranslatesAndCaps(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"q":      r.URL.Query().Get("q"),
			"format": r.URL.Query().Get("format"),
			"limit":  r.URL.Query().Get("limit"),
		}
		if r.Header.Get("User-Agent") == "" {
			t.Error("missing User-Agent header")
		}

		// More items than the cap, mimicking a permissive upstream.
		var items []map[string]any
		for i := 0; i < 7; i++ {
			items = append(items, map[string]any{
				"place_id":     1000 + i,
				"display_name": fmt.Sprintf("Place %d", i),
				"lat":          "52.1",
				"lon":          "21.2",
				"type":         "city",
				"class":        "place",
				"boundingbox":  []string{"52.0", "52.2", "21.1", "21.3"},
			})
		}
		json.NewEncoder(w).Encode(items)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.URL, "test-agent")

	items, err := client.Search(context.Background(), "Warszawa")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery["q"] != "Warszawa" || gotQuery["format"] != "jsonv2" || gotQuery["limit"] != "5" {
		t.Errorf("query params = %v", gotQuery)
	}
	if len(items) != 5 {
		t.Fatalf("expected 5 items after cap, got %d", len(items))
	}

	first := items[0]
	if first.ID != "1000" || first.Label != "Place 0" {
		t.Errorf("first item = %+v", first)
	}
	if first.Lat != 52.1 || first.Lng != 21.2 {
		t.Errorf("coords not parsed: %v,%v", first.Lat, first.Lng)
	}
	want := domain.BoundingBox{South: 52.0, North: 52.2, West: 21.1, East: 21.3}
	if first.BBox == nil || *first.BBox != want {
		t.Errorf("bbox = %+v, want %+v", first.BBox, want)
	}
}

func TestReverseNoMatchIsNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		// Nominatim reports a miss with a 200 and an error body.
		w.Write([]byte(`{"error":"Unable to geocode"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.URL, "test-agent")

	_, err := client.Reverse(context.Background(), domain.Point{Lat: 0, Lng: 0})
	if !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ports.ErrNotFound, got %v", err)
	}
}

func TestReverseTranslatesItem(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("lat") != "50.06" || q.Get("lon") != "19.94" {
			t.Errorf("params = lat=%q lon=%q", q.Get("lat"), q.Get("lon"))
		}
		w.Write([]byte(`{"place_id":42,"display_name":"Rynek Główny, Kraków","lat":"50.0616","lon":"19.9373"}`))
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.URL, "test-agent")

	item, err := client.Reverse(context.Background(), domain.Point{Lat: 50.06, Lng: 19.94})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.ID != "42" || item.Label != "Rynek Główny, Kraków" {
		t.Errorf("item = %+v", item)
	}
	if item.Lat != 50.0616 || item.Lng != 19.9373 {
		t.Errorf("refined coords wrong: %v,%v", item.Lat, item.Lng)
	}
}

func TestUpstreamFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer srv.Close()

	client := NewClient(srv.URL, srv.URL, "test-agent")

	_, err := client.Search(context.Background(), "Warszawa")
	var ue *ports.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected *ports.UpstreamError, got %v", err)
	}
	if ue.Status != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", ue.Status)
	}
}
