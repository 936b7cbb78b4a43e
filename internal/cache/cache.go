// Package cache memoizes compiled output by source hash in a local
// SQLite database, so the CLI and the gRPC server can skip
// re-running the pipeline for a source text they have already
// compiled.
package cache

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"

	_ "modernc.org/sqlite"
)

// Cache is a handle to the on-disk compilation cache.
type Cache struct {
	db *sql.DB
}

// Open creates (if needed) and opens the cache database at path.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("cache: opening %s: %w", path, err)
	}
	const schema = `
CREATE TABLE IF NOT EXISTS artifacts (
	source_hash TEXT PRIMARY KEY,
	assembly    TEXT NOT NULL,
	build_id    TEXT NOT NULL
);`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("cache: migrating schema: %w", err)
	}
	return &Cache{db: db}, nil
}

func (c *Cache) Close() error { return c.db.Close() }

// Key hashes a source text into the cache's primary key.
func Key(source string) string {
	sum := sha256.Sum256([]byte(source))
	return hex.EncodeToString(sum[:])
}

// Lookup returns the cached assembly for a source hash, if present.
func (c *Cache) Lookup(key string) (assembly string, ok bool, err error) {
	row := c.db.QueryRow(`SELECT assembly FROM artifacts WHERE source_hash = ?`, key)
	err = row.Scan(&assembly)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache: lookup: %w", err)
	}
	return assembly, true, nil
}

// Store records a freshly compiled artifact under its source hash.
func (c *Cache) Store(key, assembly, buildID string) error {
	_, err := c.db.Exec(
		`INSERT INTO artifacts (source_hash, assembly, build_id) VALUES (?, ?, ?)
		 ON CONFLICT(source_hash) DO UPDATE SET assembly = excluded.assembly, build_id = excluded.build_id`,
		key, assembly, buildID,
	)
	if err != nil {
		return fmt.Errorf("cache: store: %w", err)
	}
	return nil
}
