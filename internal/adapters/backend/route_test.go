package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"route-planner/internal/domain"
)

func TestGenerateOmitsUnsetEndpointParams(t *testing.T) {
	var gotPath string
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"rec":[0,0,0,0],"x":[],"y":[],"distance":0}`))
	}))
	defer srv.Close()

	client, _ := NewClient(srv.URL)

	opts := domain.RouteOptions{DistanceMeters: 5000, Algorithm: domain.AlgorithmDFS, PreferNew: true}
	if _, err := client.Generate(context.Background(), opts, nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if gotPath != "/route/dfs" {
		t.Errorf("path = %q, want /route/dfs", gotPath)
	}
	if gotQuery.Get("distance") != "5000" || gotQuery.Get("prefer_new") != "true" {
		t.Errorf("query = %v", gotQuery)
	}
	for _, key := range []string{"start_x", "start_y", "end_x", "end_y"} {
		if _, present := gotQuery[key]; present {
			t.Errorf("param %s sent for unset endpoint: %q", key, gotQuery.Get(key))
		}
	}
}

func TestGenerateEndpointParamMapping(t *testing.T) {
	var gotQuery url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"rec":[19.9,50.0,20.0,50.1],
			"x":[19.93,19.94],"y":[50.06,50.07],
			"distance":1200.5,
			"segments":[{"new":true,"distance":700},{"new":false,"distance":500.5}],
			"elevation":[210,215],
			"total_gain":5,"total_lose":0,"total_new":700,"total_old":500.5,
			"percent_of_new":58.3
		}`))
	}))
	defer srv.Close()

	client, _ := NewClient(srv.URL)

	start := &domain.Point{Lat: 50.06, Lng: 19.93}
	end := &domain.Point{Lat: 50.07, Lng: 19.94}
	opts := domain.RouteOptions{DistanceMeters: 10000, Algorithm: domain.AlgorithmAStar, PreferNew: false}

	route, err := client.Generate(context.Background(), opts, start, end)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// x carries latitude, y longitude, matching the backend contract.
	if gotQuery.Get("start_x") != "50.06" || gotQuery.Get("start_y") != "19.93" {
		t.Errorf("start params = %q,%q", gotQuery.Get("start_x"), gotQuery.Get("start_y"))
	}
	if gotQuery.Get("end_x") != "50.07" || gotQuery.Get("end_y") != "19.94" {
		t.Errorf("end params = %q,%q", gotQuery.Get("end_x"), gotQuery.Get("end_y"))
	}
	if gotQuery.Get("prefer_new") != "false" {
		t.Errorf("prefer_new = %q", gotQuery.Get("prefer_new"))
	}

	if route.Distance != 1200.5 || route.PercentNew != 58.3 {
		t.Errorf("route decoded wrong: %+v", route)
	}
	if len(route.Segments) != 2 || !route.Segments[0].NewRoad {
		t.Errorf("segments decoded wrong: %+v", route.Segments)
	}
}

func TestExportGPXBody(t *testing.T) {
	var gotBody struct {
		Points [][]float64 `json:"points"`
		Title  string      `json:"title"`
	}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/route-to-gpx" {
			t.Errorf("request = %s %s", r.Method, r.URL.Path)
		}
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode body: %v", err)
		}
		w.Write([]byte("<gpx></gpx>"))
	}))
	defer srv.Close()

	client, _ := NewClient(srv.URL)

	route := &domain.RouteResult{
		Xs:        []float64{19.93, 19.94},
		Ys:        []float64{50.06, 50.07},
		Elevation: []float64{210, 215},
	}

	doc, err := client.ExportGPX(context.Background(), route, "Morning loop")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(doc) != "<gpx></gpx>" {
		t.Errorf("doc = %q", doc)
	}

	if gotBody.Title != "Morning loop" {
		t.Errorf("title = %q", gotBody.Title)
	}
	want := [][]float64{{50.06, 19.93, 210}, {50.07, 19.94, 215}}
	if len(gotBody.Points) != 2 {
		t.Fatalf("points = %v", gotBody.Points)
	}
	for i := range want {
		for j := range want[i] {
			if gotBody.Points[i][j] != want[i][j] {
				t.Fatalf("points = %v, want %v", gotBody.Points, want)
			}
		}
	}
}
