// Package cache is the small local key-value store backing the bits of UI
// state that survive a relaunch: the last-chosen granularity and the set
// of budget alerts already shown.
package cache

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"

	"famledger/models"
)

// Keys in the kv table.
const (
	keyGranularity = "last_granularity"
	keyShownPrefix = "budget_alerts_shown:"
)

// Cache is a sqlite-backed string key-value store.
type Cache struct {
	db *sql.DB
}

// Open opens (or creates) the cache database at path. Pass ":memory:" for
// an ephemeral cache in tests.
func Open(path string) (*Cache, error) {
	dsn := path + "?_journal=WAL&_busy_timeout=5000"
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("open cache db: %w", err)
	}
	// One connection keeps ":memory:" databases alive and is plenty for a
	// key-value table.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("set journal mode: %w", err)
	}

	schema := `
	CREATE TABLE IF NOT EXISTS kv (
		key TEXT PRIMARY KEY,
		value TEXT NOT NULL
	);
	`
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("create kv table: %w", err)
	}

	return &Cache{db: db}, nil
}

// Close closes the underlying database.
func (c *Cache) Close() error {
	return c.db.Close()
}

// Get returns the value for key and whether it was present.
func (c *Cache) Get(key string) (string, bool, error) {
	var value string
	err := c.db.QueryRow("SELECT value FROM kv WHERE key = ?", key).Scan(&value)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("get %q: %w", key, err)
	}
	return value, true, nil
}

// Set stores value under key, replacing any previous value.
func (c *Cache) Set(key, value string) error {
	_, err := c.db.Exec(`
		INSERT INTO kv (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	if err != nil {
		return fmt.Errorf("set %q: %w", key, err)
	}
	return nil
}

// LastGranularity returns the cached granularity selection, if any.
func (c *Cache) LastGranularity() (models.Granularity, bool) {
	value, ok, err := c.Get(keyGranularity)
	if err != nil || !ok {
		return "", false
	}
	g := models.Granularity(value)
	if !g.Valid() {
		return "", false
	}
	return g, true
}

// SetLastGranularity caches the granularity selection.
func (c *Cache) SetLastGranularity(g models.Granularity) error {
	return c.Set(keyGranularity, string(g))
}
