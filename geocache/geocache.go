// Copyright 2026 The SolarMap Authors
// SPDX-License-Identifier: Apache-2.0

// Package geocache provides durable memoization of geocoding lookups,
// keyed by the exact location string, backed by a local DuckDB file.
//
// Keys are stored as received: no trimming or case folding is performed,
// so "London, UK" and "london, uk" are distinct entries. Entries are
// immutable once written and are kept indefinitely. The cache is meant
// for a single sequential process; it is not safe for concurrent use.
package geocache

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "github.com/duckdb/duckdb-go/v2" // register duckdb driver
	"github.com/mkells/solarmap/spatial"
)

const schemaVersion = "1"

// DuplicateKeyError is returned by Store when the location key is already
// cached. It signals a fetch-before-store protocol violation by the caller
// rather than a recoverable runtime condition.
type DuplicateKeyError struct {
	Location string
	Err      error
}

func (e *DuplicateKeyError) Error() string {
	return fmt.Sprintf("geocache: location %q is already cached", e.Location)
}

func (e *DuplicateKeyError) Unwrap() error {
	return e.Err
}

// Entry is one cached resolution.
type Entry struct {
	Location   string        `json:"location"`
	Point      spatial.Point `json:"point"`
	GeocodedAt time.Time     `json:"geocoded_at"`
}

// Cache is a handle on the backing store. Open it once and keep it for the
// process lifetime; durability is per-write, so no explicit Close is required
// for correctness.
type Cache struct {
	db *sql.DB
}

// Open opens or creates the cache database at path and ensures the schema
// exists. It is idempotent: reopening an existing cache preserves its
// entries.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("opening cache database: %w", err)
	}

	c := &Cache{db: db}
	if err := c.createSchema(); err != nil {
		_ = db.Close()

		return nil, err
	}

	return c, nil
}

func (c *Cache) createSchema() error {
	// Latitude and longitude are plain DOUBLE columns so the file stays
	// inspectable with any DuckDB client and float64 values round-trip
	// bit-exactly.
	_, err := c.db.Exec(`
		CREATE TABLE IF NOT EXISTS geocache (
			location VARCHAR PRIMARY KEY,
			lat DOUBLE NOT NULL,
			lng DOUBLE NOT NULL,
			geocoded_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		);

		CREATE TABLE IF NOT EXISTS cache_meta (
			key VARCHAR PRIMARY KEY,
			value VARCHAR NOT NULL
		);
	`)
	if err != nil {
		return fmt.Errorf("creating geocache schema: %w", err)
	}

	_, err = c.db.Exec(
		`INSERT INTO cache_meta(key, value) VALUES ('schema_version', ?) ON CONFLICT DO NOTHING`,
		schemaVersion,
	)
	if err != nil {
		return fmt.Errorf("recording schema version: %w", err)
	}

	return nil
}

// Fetch looks up the exact location key. The second return value reports
// whether an entry exists; a miss is not an error.
func (c *Cache) Fetch(location string) (spatial.Point, bool, error) {
	var p spatial.Point

	err := c.db.QueryRow(
		`SELECT lat, lng FROM geocache WHERE location = ?`, location,
	).Scan(&p.Lat, &p.Lng)
	if errors.Is(err, sql.ErrNoRows) {
		return spatial.Point{}, false, nil
	}

	if err != nil {
		return spatial.Point{}, false, fmt.Errorf("fetching %q: %w", location, err)
	}

	return p, true, nil
}

// Store writes a new entry. Each insert auto-commits, so the entry is durable
// when Store returns. Entries are immutable: storing a location that already
// exists fails with *DuplicateKeyError. Callers must Fetch first and Store
// only on a genuine miss.
func (c *Cache) Store(location string, point spatial.Point) error {
	_, err := c.db.Exec(
		`INSERT INTO geocache(location, lat, lng) VALUES (?, ?, ?)`,
		location, point.Lat, point.Lng,
	)
	if err != nil {
		if isDuplicateKey(err) {
			return &DuplicateKeyError{Location: location, Err: err}
		}

		return fmt.Errorf("storing %q: %w", location, err)
	}

	return nil
}

// DuckDB reports a primary-key violation as a constraint error naming the
// duplicated key.
func isDuplicateKey(err error) bool {
	msg := strings.ToLower(err.Error())

	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "primary key or unique constraint")
}

// Count returns the number of cached entries.
func (c *Cache) Count() (int, error) {
	var n int
	if err := c.db.QueryRow(`SELECT count(*) FROM geocache`).Scan(&n); err != nil {
		return 0, fmt.Errorf("counting entries: %w", err)
	}

	return n, nil
}

// Entries returns all cached entries sorted by location key.
func (c *Cache) Entries() ([]Entry, error) {
	rows, err := c.db.Query(
		`SELECT location, lat, lng, geocoded_at FROM geocache ORDER BY location`,
	)
	if err != nil {
		return nil, fmt.Errorf("listing entries: %w", err)
	}
	defer rows.Close()

	var entries []Entry

	for rows.Next() {
		var e Entry
		if err := rows.Scan(&e.Location, &e.Point.Lat, &e.Point.Lng, &e.GeocodedAt); err != nil {
			return nil, fmt.Errorf("scanning entry: %w", err)
		}

		entries = append(entries, e)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entries: %w", err)
	}

	return entries, nil
}

// DB returns the underlying database connection for advanced queries.
func (c *Cache) DB() *sql.DB {
	return c.db
}

// Close releases the database handle.
func (c *Cache) Close() error {
	return c.db.Close()
}
