package domain

import (
	"reflect"
	"testing"
)

func TestPointString(t *testing.T) {
	cases := []struct {
		p    Point
		want string
	}{
		{Point{Lat: 52.2297, Lng: 21.0122}, "52.2297,21.0122"},
		{Point{Lat: 52, Lng: 21}, "52,21"},
		{Point{Lat: -33.8688, Lng: 151.2093}, "-33.8688,151.2093"},
	}

	for _, tc := range cases {
		if got := tc.p.String(); got != tc.want {
			t.Errorf("%+v.String() = %q, want %q", tc.p, got, tc.want)
		}
	}
}

func TestParseAlgorithm(t *testing.T) {
	for _, name := range []string{"dfs", "astar", "random"} {
		if _, ok := ParseAlgorithm(name); !ok {
			t.Errorf("ParseAlgorithm(%q) rejected", name)
		}
	}
	if _, ok := ParseAlgorithm("dijkstra"); ok {
		t.Error("ParseAlgorithm accepted unknown name")
	}
}

func TestRoutePointsPairsParallelArrays(t *testing.T) {
	r := RouteResult{
		Xs: []float64{21.0, 21.1, 21.2},
		Ys: []float64{52.0, 52.1, 52.2},
	}

	got := r.Points()
	want := []Point{{52.0, 21.0}, {52.1, 21.1}, {52.2, 21.2}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("points = %v, want %v", got, want)
	}
}

func TestGPXPointsIncludeElevationOnlyWhenComplete(t *testing.T) {
	r := RouteResult{
		Xs:        []float64{21.0, 21.1},
		Ys:        []float64{52.0, 52.1},
		Elevation: []float64{110, 112},
	}

	got := r.GPXPoints()
	want := [][]float64{{52.0, 21.0, 110}, {52.1, 21.1, 112}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("with elevation: %v, want %v", got, want)
	}

	// Partial elevation data is dropped rather than mispaired.
	r.Elevation = []float64{110}
	got = r.GPXPoints()
	want = [][]float64{{52.0, 21.0}, {52.1, 21.1}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("partial elevation: %v, want %v", got, want)
	}
}
