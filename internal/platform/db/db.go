package db

import (
	"database/sql"
	"fmt"
	"time"
)

// OpenPostgres opens and verifies a pgx-backed connection pool.
// Pool limits are sized for the geocode cache workload (small, bursty
// point lookups).
func OpenPostgres(databaseURL string) (*sql.DB, error) {
	pool, err := sql.Open("pgx", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open postgres database: %w", err)
	}

	pool.SetMaxOpenConns(10)
	pool.SetMaxIdleConns(10)
	pool.SetConnMaxLifetime(30 * time.Minute)

	if err := pool.Ping(); err != nil {
		return nil, fmt.Errorf("verify postgres connection: %w", err)
	}

	return pool, nil
}

// OpenSqlite opens and verifies a file-backed (or :memory:) sqlite
// database via the modernc driver.
func OpenSqlite(path string) (*sql.DB, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database %q: %w", path, err)
	}

	if err := conn.Ping(); err != nil {
		return nil, fmt.Errorf("verify sqlite connection to %q: %w", path, err)
	}

	return conn, nil
}
