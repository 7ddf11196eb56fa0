package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"route-planner/internal/adapters/backend"
	"route-planner/internal/config"
	"route-planner/internal/domain"
	"route-planner/internal/planner"

	"github.com/joho/godotenv"
	"github.com/tkrajina/gpxgo/gpx"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	switch os.Args[1] {
	case "route":
		runRoute(os.Args[2:])
	case "gpx":
		runGPX(os.Args[2:])
	default:
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage:
  routetool route -algorithm dfs -distance 5 [-start PLACE] [-end PLACE] [-o route.json]
  routetool gpx -in route.json -title NAME [-o route.gpx]

PLACE is either free text (geocoded, first hit wins) or "lat,lng".
The backend base URL comes from -api or the API_URL environment variable.`)
}

func newClient(apiFlag string) *backend.Client {
	base := apiFlag
	if base == "" {
		base = config.Get("API_URL", "http://localhost:8000")
	}

	client, err := backend.NewClient(base)
	if err != nil {
		log.Fatal(err)
	}
	return client
}

func runRoute(args []string) {
	fs := flag.NewFlagSet("route", flag.ExitOnError)
	api := fs.String("api", "", "backend base URL")
	algorithm := fs.String("algorithm", "dfs", "routing algorithm: dfs, astar or random")
	distanceKm := fs.Float64("distance", 5, "requested route length in kilometers")
	preferNew := fs.Bool("prefer-new", true, "prefer roads not visited before")
	start := fs.String("start", "", "start endpoint (free text or lat,lng)")
	end := fs.String("end", "", "end endpoint (free text or lat,lng)")
	out := fs.String("o", "", "write the route JSON to this file instead of stdout")
	fs.Parse(args)

	alg, ok := domain.ParseAlgorithm(*algorithm)
	if !ok {
		log.Fatalf("unknown algorithm %q (want dfs, astar or random)", *algorithm)
	}

	client := newClient(*api)

	coord := planner.NewCoordinator(client)
	defer coord.Close()
	coord.SetAlgorithm(alg)
	coord.SetDistance(int(*distanceKm * 1000))
	coord.SetPreferNew(*preferNew)

	if *start != "" {
		if err := resolveEndpoint(coord, planner.Start, *start); err != nil {
			log.Fatal(err)
		}
	}
	if *end != "" {
		if err := resolveEndpoint(coord, planner.End, *end); err != nil {
			log.Fatal(err)
		}
	}

	gen := planner.NewGenerator(client, coord)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()
	gen.Generate(ctx)

	if _, errMsg := gen.State(); errMsg != "" {
		log.Fatalf("route generation failed: %s", errMsg)
	}

	routes := gen.Results()
	if len(routes) == 0 {
		log.Fatal("route generation returned no result")
	}
	route := routes[0]

	log.Printf("route ready: points=%d distance=%.0fm new=%.1f%%",
		len(route.Xs), route.Distance, route.PercentNew)

	data, err := json.MarshalIndent(route, "", "  ")
	if err != nil {
		log.Fatal(err)
	}

	if *out == "" {
		fmt.Println(string(data))
		return
	}
	if err := os.WriteFile(*out, data, 0o644); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s", *out)
}

// resolveEndpoint commits a coordinate pair directly, or runs a forward
// search and picks the first candidate.
func resolveEndpoint(coord *planner.Coordinator, slot planner.Slot, value string) error {
	if p, ok := parsePoint(value); ok {
		coord.PickResult(slot, domain.GeocodeResult{Label: value, Lat: p.Lat, Lng: p.Lng})
		return nil
	}

	coord.SetQuery(slot, value)
	coord.Geocode(slot)

	ep := coord.Snapshot().Slot(slot)
	if ep.Err != "" {
		return fmt.Errorf("resolve %s endpoint %q: %s", slot, value, ep.Err)
	}
	if len(ep.Results) == 0 {
		return fmt.Errorf("resolve %s endpoint: no geocode results for %q", slot, value)
	}

	picked := ep.Results[0]
	coord.PickResult(slot, picked)
	log.Printf("resolved %s=%q -> %s", slot, value, picked.Label)
	return nil
}

func parsePoint(s string) (domain.Point, bool) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return domain.Point{}, false
	}

	lat, errLat := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	lng, errLng := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if errLat != nil || errLng != nil {
		return domain.Point{}, false
	}
	return domain.Point{Lat: lat, Lng: lng}, true
}

func runGPX(args []string) {
	fs := flag.NewFlagSet("gpx", flag.ExitOnError)
	api := fs.String("api", "", "backend base URL")
	in := fs.String("in", "", "route JSON file produced by the route command")
	title := fs.String("title", "route", "track title")
	out := fs.String("o", "", "output file (default: <title>.gpx)")
	fs.Parse(args)

	if *in == "" {
		log.Fatal("-in is required")
	}

	data, err := os.ReadFile(*in)
	if err != nil {
		log.Fatal(err)
	}

	var route domain.RouteResult
	if err := json.Unmarshal(data, &route); err != nil {
		log.Fatalf("decode route file %q: %v", *in, err)
	}

	client := newClient(*api)

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	doc, err := client.ExportGPX(ctx, &route, *title)
	if err != nil {
		log.Fatalf("export gpx: %v", err)
	}

	parsed, err := gpx.ParseBytes(doc)
	if err != nil {
		log.Fatalf("backend returned invalid gpx: %v", err)
	}

	var length float64
	for _, trk := range parsed.Tracks {
		length += trk.Length2D()
	}
	log.Printf("gpx ready: tracks=%d points=%d length=%.0fm",
		len(parsed.Tracks), parsed.GetTrackPointsNo(), length)

	path := *out
	if path == "" {
		path = sanitizeFilename(*title) + ".gpx"
	}
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		log.Fatal(err)
	}
	log.Printf("wrote %s", path)
}

func sanitizeFilename(name string) string {
	name = strings.TrimSpace(name)
	replacer := strings.NewReplacer(
		"/", "-", "?", "-", "%", "-", "*", "-", ":", "-",
		"|", "-", "\"", "-", "<", "-", ">", "-",
	)
	name = replacer.Replace(name)
	name = strings.Join(strings.Fields(name), "_")
	if len(name) > 120 {
		name = name[:120]
	}
	if name == "" {
		name = "route"
	}
	return name
}
