package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"route-planner/internal/domain"
	"route-planner/internal/ports"
)

func TestSearchDecodesItems(t *testing.T) {
	var gotQuery string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/geocode" {
			t.Errorf("path = %q, want /geocode", r.URL.Path)
		}
		gotQuery = r.URL.Query().Get("q")

		w.Header().Set("Content-Type", "application/json")
		// Numeric and string ids both occur in the wild.
		w.Write([]byte(`{"items":[
			{"id":123,"label":"Plac Zamkowy, Warszawa","lat":52.2477,"lng":21.0137,"type":"square",
			 "bbox":{"south":52.24,"north":52.25,"west":21.01,"east":21.02}},
			{"id":"osm-9","label":"Plac Zamkowy, Lublin","lat":51.25,"lng":22.57}
		]}`))
	}))
	defer srv.Close()

	client, err := NewClient(srv.URL)
	if err != nil {
		t.Fatal(err)
	}

	items, err := client.Search(context.Background(), "Plac Zamkowy")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotQuery != "Plac Zamkowy" {
		t.Errorf("query param = %q, want %q", gotQuery, "Plac Zamkowy")
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	if items[0].ID != "123" || items[1].ID != "osm-9" {
		t.Errorf("ids = %q, %q", items[0].ID, items[1].ID)
	}
	if items[0].BBox == nil || items[0].BBox.North != 52.25 {
		t.Errorf("bbox not decoded: %+v", items[0].BBox)
	}
	if items[0].Point() != (domain.Point{Lat: 52.2477, Lng: 21.0137}) {
		t.Errorf("point = %v", items[0].Point())
	}
}

func TestSearchUpstreamError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "backend down", http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	client, _ := NewClient(srv.URL)

	_, err := client.Search(context.Background(), "Warszawa")
	var ue *ports.UpstreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected *ports.UpstreamError, got %v", err)
	}
	if ue.Status != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", ue.Status)
	}
}

func TestSearchCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	client, _ := NewClient(srv.URL)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(20 * time.Millisecond)
		cancel()
	}()

	_, err := client.Search(ctx, "Warszawa")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestReverseParamsAndDecode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("lat") != "52" || q.Get("lng") != "21.5" {
			t.Errorf("params = lat=%q lng=%q", q.Get("lat"), q.Get("lng"))
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"id":5,"label":"Rynek, Kraków","lat":50.0616,"lng":19.9373}`))
	}))
	defer srv.Close()

	client, _ := NewClient(srv.URL)

	item, err := client.Reverse(context.Background(), domain.Point{Lat: 52, Lng: 21.5})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if item.Label != "Rynek, Kraków" {
		t.Errorf("label = %q", item.Label)
	}
}

func TestReverseNotFound(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"no address"}`, http.StatusNotFound)
	}))
	defer srv.Close()

	client, _ := NewClient(srv.URL)

	_, err := client.Reverse(context.Background(), domain.Point{Lat: 0, Lng: 0})
	if !errors.Is(err, ports.ErrNotFound) {
		t.Fatalf("expected ports.ErrNotFound, got %v", err)
	}
}
