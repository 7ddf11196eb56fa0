package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"time"

	"route-planner/internal/adapters/cache"
	"route-planner/internal/adapters/nominatim"
	"route-planner/internal/api"
	"route-planner/internal/config"
	"route-planner/internal/platform/db"
	"route-planner/internal/ports"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"
)

// main is the geocode proxy composition root.
// It wires the Nominatim adapter and an optional cache backend behind
// ports and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := config.Get("PORT", "8080")
	build := config.Get("APP_VERSION", "dev")

	geocoder := nominatim.NewClient(
		config.Get("NOMINATIM_URL", nominatim.DefaultSearchURL),
		config.Get("NOMINATIM_REVERSE_URL", nominatim.DefaultReverseURL),
		config.Get("GEOCODE_USER_AGENT", ""),
	)

	geocodeCache, closeCache, err := openCache()
	if err != nil {
		log.Fatal(err)
	}
	if closeCache != nil {
		defer closeCache()
	}

	router := api.NewRouter(geocoder, geocodeCache, build)

	// Write timeout covers one upstream geocode round trip.
	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// openCache builds the cache backend selected by CACHE_BACKEND:
// sqlite (default), postgres, redis or none.
func openCache() (ports.GeocodeCache, func(), error) {
	backend := config.Get("CACHE_BACKEND", "sqlite")

	switch backend {
	case "none":
		return nil, nil, nil

	case "sqlite":
		conn, err := db.OpenSqlite(config.Get("SQLITE_PATH", "data/geocode.db"))
		if err != nil {
			return nil, nil, fmt.Errorf("open cache: %w", err)
		}
		if err := cache.EnsureSqliteSchema(conn); err != nil {
			conn.Close()
			return nil, nil, fmt.Errorf("open cache: %w", err)
		}
		return cache.NewSqliteGeocodeCache(conn), closeDB(conn), nil

	case "postgres":
		pool, err := db.OpenPostgres(config.Get("DATABASE_URL", ""))
		if err != nil {
			return nil, nil, fmt.Errorf("open cache: %w", err)
		}
		if err := cache.EnsurePostgresSchema(pool); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("open cache: %w", err)
		}
		return cache.NewPostgresGeocodeCache(pool), closeDB(pool), nil

	case "redis":
		ttl, err := time.ParseDuration(config.Get("CACHE_TTL", "5m"))
		if err != nil {
			return nil, nil, fmt.Errorf("open cache: parse CACHE_TTL: %w", err)
		}
		rdb := redis.NewClient(&redis.Options{
			Addr:     config.Get("REDIS_ADDR", "localhost:6379"),
			Password: config.Get("REDIS_PASSWORD", ""),
		})
		return cache.NewRedisGeocodeCache(rdb, ttl), func() { _ = rdb.Close() }, nil
	}

	return nil, nil, fmt.Errorf("open cache: unknown CACHE_BACKEND %q", backend)
}

func closeDB(conn *sql.DB) func() {
	return func() { _ = conn.Close() }
}
