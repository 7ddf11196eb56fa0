package domain

// Routing algorithm selector understood by the backend.
type Algorithm string

const (
	AlgorithmDFS    Algorithm = "dfs"
	AlgorithmAStar  Algorithm = "astar"
	AlgorithmRandom Algorithm = "random"
)

// ParseAlgorithm maps a user-supplied name to an Algorithm.
func ParseAlgorithm(s string) (Algorithm, bool) {
	switch Algorithm(s) {
	case AlgorithmDFS, AlgorithmAStar, AlgorithmRandom:
		return Algorithm(s), true
	}
	return "", false
}

// Parameters of a route generation request. Distance clamping happens
// in the UI control, not here.
type RouteOptions struct {
	DistanceMeters int
	Algorithm      Algorithm
	PreferNew      bool
}

// One leg of a generated route.
type Segment struct {
	NewRoad  bool    `json:"new"`
	Distance float64 `json:"distance"`
}

// A route computed by the backend. Treated as an opaque DTO: Xs/Ys are
// parallel arrays (longitude, latitude) paired only for rendering and
// for the GPX export body.
type RouteResult struct {
	BBox       [4]float64 `json:"rec"`
	Xs         []float64  `json:"x"`
	Ys         []float64  `json:"y"`
	Distance   float64    `json:"distance"`
	Segments   []Segment  `json:"segments"`
	Elevation  []float64  `json:"elevation"`
	TotalGain  float64    `json:"total_gain"`
	TotalLoss  float64    `json:"total_lose"`
	TotalNew   float64    `json:"total_new"`
	TotalOld   float64    `json:"total_old"`
	PercentNew float64    `json:"percent_of_new"`
}

// Points pairs Xs[i], Ys[i] into (lat, lng) points.
func (r *RouteResult) Points() []Point {
	pts := make([]Point, 0, len(r.Xs))
	for i := range r.Xs {
		if i >= len(r.Ys) {
			break
		}
		pts = append(pts, Point{Lat: r.Ys[i], Lng: r.Xs[i]})
	}
	return pts
}

// GPXPoints builds the (lat, lon[, ele]) tuples the GPX export endpoint
// expects. Elevation is included only when it covers every point.
func (r *RouteResult) GPXPoints() [][]float64 {
	hasEle := len(r.Elevation) == len(r.Xs)

	pts := make([][]float64, 0, len(r.Xs))
	for i := range r.Xs {
		if i >= len(r.Ys) {
			break
		}
		if hasEle {
			pts = append(pts, []float64{r.Ys[i], r.Xs[i], r.Elevation[i]})
			continue
		}
		pts = append(pts, []float64{r.Ys[i], r.Xs[i]})
	}
	return pts
}
