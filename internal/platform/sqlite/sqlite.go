// Package sqlite opens the embedded database and applies the schema.
package sqlite

import (
	"database/sql"
	_ "embed"
	"fmt"

	_ "modernc.org/sqlite" // Register sqlite driver
)

//go:embed migrations/001_initial.sql
var schema string

type DB struct {
	*sql.DB
}

var pragmas = []string{
	"PRAGMA journal_mode=WAL",
	"PRAGMA synchronous=NORMAL",
	"PRAGMA foreign_keys=ON",
	"PRAGMA busy_timeout=5000",
}

// Open opens (or creates) the database at dsn, applies connection pragmas and
// ensures the schema exists. The schema script is idempotent, so Open is safe
// to call on every start.
func Open(dsn string) (*DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// An in-memory database exists per connection. Without this cap each
	// pooled connection would see its own empty database.
	if dsn == ":memory:" {
		db.SetMaxOpenConns(1)
	}

	for _, pragma := range pragmas {
		if _, err := db.Exec(pragma); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("exec %s: %w", pragma, err)
		}
	}

	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply schema: %w", err)
	}

	return &DB{db}, nil
}
