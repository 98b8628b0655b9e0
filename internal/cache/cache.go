package cache

import (
	"context"
	"crypto/sha256"
	"database/sql"
	_ "embed"
	"encoding/binary"
	"encoding/hex"
	"fmt"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

//go:embed schema.sql
var schemaSQL string

// Cache is a durable compile cache over a SQLite file.
type Cache struct {
	db *sql.DB
}

// Open creates or opens the cache database at path. Pragmas and schema are
// applied on every open; the call is idempotent.
func Open(path string) (*Cache, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open cache database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to connect to cache database: %w", err)
	}

	// single writer avoids SQLITE_BUSY under concurrent compiles
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)

	if err := applyPragmas(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply pragmas: %w", err)
	}
	if _, err := db.Exec(schemaSQL); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}
	return &Cache{db: db}, nil
}

// Close closes the database connection.
func (c *Cache) Close() error {
	if c.db == nil {
		return nil
	}
	return c.db.Close()
}

func applyPragmas(db *sql.DB) error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA synchronous = NORMAL",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA foreign_keys = ON",
	}
	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			return fmt.Errorf("failed to execute %q: %w", pragma, err)
		}
	}
	return nil
}

// Key digests the template source together with every option that affects
// output. Parts are length-prefixed so adjacent fields cannot collide.
func Key(parts ...string) string {
	h := sha256.New()
	var n [8]byte
	for _, p := range parts {
		binary.BigEndian.PutUint64(n[:], uint64(len(p)))
		h.Write(n[:])
		h.Write([]byte(p))
	}
	return hex.EncodeToString(h.Sum(nil))
}

// Get returns the cached output for key, reporting whether it was present.
func (c *Cache) Get(ctx context.Context, key string) (string, bool, error) {
	var output string
	err := c.db.QueryRowContext(ctx,
		`SELECT output FROM renders WHERE key = ?`, key).Scan(&output)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("cache get: %w", err)
	}
	return output, true, nil
}

// Put stores output under key, replacing any previous entry, and returns
// the build ID minted for this entry. Build IDs are UUIDv7 so they sort by
// creation time.
func (c *Cache) Put(ctx context.Context, key, filename, output string) (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("cache put: generate build id: %w", err)
	}
	_, err = c.db.ExecContext(ctx,
		`INSERT INTO renders (key, build_id, filename, output)
		 VALUES (?, ?, ?, ?)
		 ON CONFLICT(key) DO UPDATE SET
		   build_id = excluded.build_id,
		   filename = excluded.filename,
		   output = excluded.output`,
		key, id.String(), filename, output)
	if err != nil {
		return "", fmt.Errorf("cache put: %w", err)
	}
	return id.String(), nil
}
