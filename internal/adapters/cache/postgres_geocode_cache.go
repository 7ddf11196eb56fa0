package cache

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"route-planner/internal/domain"
	"route-planner/internal/platform/obs"
)

// Postgres-backed cache of geocoder responses. Same contract as the
// sqlite variant; meant for deployments where the proxy runs with more
// than one replica.
type PostgresGeocodeCache struct {
	DB *sql.DB
}

func NewPostgresGeocodeCache(db *sql.DB) *PostgresGeocodeCache {
	return &PostgresGeocodeCache{DB: db}
}

// EnsurePostgresSchema creates the cache table when missing.
func EnsurePostgresSchema(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS geocode_cache (
        key        TEXT PRIMARY KEY,
        payload    JSONB NOT NULL,
        created_at TIMESTAMPTZ NOT NULL DEFAULT now()
    );
	`)
	if err != nil {
		return fmt.Errorf("ensure geocode_cache schema: %w", err)
	}
	return nil
}

// Fetch the cached response for the given key.
func (s *PostgresGeocodeCache) Get(ctx context.Context, key string) (_ []domain.GeocodeResult, _ bool, err error) {
	defer obs.Time(ctx, "geocode.cache.postgres.get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("geocode cache: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return nil, false, nil
	}

	var payload []byte
	row := s.DB.QueryRowContext(ctx, `SELECT payload FROM geocode_cache WHERE key = $1;`, key)
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}

	var items []domain.GeocodeResult
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, false, fmt.Errorf("get geocode cache: decode payload key=%q: %w", key, err)
	}

	return items, true, nil
}

// Store a geocoder response under the given key.
func (s *PostgresGeocodeCache) Put(ctx context.Context, key string, items []domain.GeocodeResult) (err error) {
	defer obs.Time(ctx, "geocode.cache.postgres.put")(&err)

	if s.DB == nil {
		return errors.New("geocode cache: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("insert geocode cache: empty key")
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("insert geocode cache: encode payload key=%q: %w", key, err)
	}

	_, err = s.DB.ExecContext(ctx, `
	INSERT INTO geocode_cache (key, payload)
    VALUES ($1, $2)
	ON CONFLICT (key) DO UPDATE
	SET payload = EXCLUDED.payload,
		created_at = now();
	`, key, payload)
	if err != nil {
		return fmt.Errorf("insert geocode cache key=%q: %w", key, err)
	}

	return nil
}
