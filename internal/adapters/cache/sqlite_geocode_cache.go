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

// SQLite-backed cache of geocoder responses, keyed by request key
// ("q:<query>" or "rev:<lat>,<lng>"). Payloads are stored as JSON.
type SqliteGeocodeCache struct {
	DB *sql.DB
}

func NewSqliteGeocodeCache(db *sql.DB) *SqliteGeocodeCache {
	return &SqliteGeocodeCache{DB: db}
}

// EnsureSqliteSchema creates the cache table when missing.
func EnsureSqliteSchema(db *sql.DB) error {
	_, err := db.Exec(`
	CREATE TABLE IF NOT EXISTS geocode_cache (
        key        TEXT PRIMARY KEY,
        payload    TEXT NOT NULL,
        created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
    );
	`)
	if err != nil {
		return fmt.Errorf("ensure geocode_cache schema: %w", err)
	}
	return nil
}

// Fetch the cached response for the given key.
func (s *SqliteGeocodeCache) Get(ctx context.Context, key string) (_ []domain.GeocodeResult, _ bool, err error) {
	defer obs.Time(ctx, "geocode.cache.sqlite.get")(&err)

	if s.DB == nil {
		return nil, false, errors.New("geocode cache: db is nil")
	}
	if strings.TrimSpace(key) == "" {
		return nil, false, nil
	}

	var payload string
	row := s.DB.QueryRowContext(ctx, `SELECT payload FROM geocode_cache WHERE key = ?;`, key)
	if err := row.Scan(&payload); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get geocode cache: query geocode_cache table: %w", err)
	}

	var items []domain.GeocodeResult
	if err := json.Unmarshal([]byte(payload), &items); err != nil {
		return nil, false, fmt.Errorf("get geocode cache: decode payload key=%q: %w", key, err)
	}

	return items, true, nil
}

// Store a geocoder response under the given key.
func (s *SqliteGeocodeCache) Put(ctx context.Context, key string, items []domain.GeocodeResult) (err error) {
	defer obs.Time(ctx, "geocode.cache.sqlite.put")(&err)

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
	INSERT OR REPLACE INTO geocode_cache (key, payload)
    VALUES (?, ?);
	`, key, string(payload))
	if err != nil {
		return fmt.Errorf("insert geocode cache key=%q: %w", key, err)
	}

	return nil
}
