// Package sqlite implements the domain repositories using a file-local
// SQLite database via the cgo-free modernc.org driver.
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	"sortstore/internal/domain"

	_ "modernc.org/sqlite"
)

// DB wraps a *sql.DB and implements the domain repository interfaces.
type DB struct {
	sql *sql.DB
	// the driver does not support concurrent writers
	writeLock sync.Mutex
}

// Ensure interfaces are met.
var _ domain.UserRepository = (*DB)(nil)
var _ domain.ArrayRepository = (*DB)(nil)
var _ domain.HistoryRepository = (*DB)(nil)

// Open opens (or creates) the database file and creates the schema.
func Open(path string) (*DB, error) {
	s, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if err := s.Ping(); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("ping db: %w", err)
	}

	if _, err := s.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		_ = s.Close()
		return nil, fmt.Errorf("set busy timeout: %w", err)
	}
	s.SetConnMaxLifetime(5 * time.Minute)

	d := &DB{sql: s}
	if err := d.migrate(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return d, nil
}

// Close closes the underlying database connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) migrate() error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id            INTEGER PRIMARY KEY AUTOINCREMENT,
			username      TEXT    UNIQUE NOT NULL,
			password_hash TEXT    NOT NULL,
			token         TEXT    UNIQUE NOT NULL,
			created_at    INTEGER NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS user_arrays (
			user_id    INTEGER PRIMARY KEY,
			array_data TEXT    NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS request_history (
			id         INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id    INTEGER NOT NULL,
			endpoint   TEXT    NOT NULL,
			created_at INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_request_history_user_created ON request_history(user_id, created_at DESC);`,
	}

	for _, stmt := range stmts {
		if _, err := d.sql.Exec(stmt); err != nil {
			return fmt.Errorf("create schema: %w", err)
		}
	}
	return nil
}

func (d *DB) exec(ctx context.Context, query string, args ...any) (sql.Result, error) {
	d.writeLock.Lock()
	defer d.writeLock.Unlock()
	return d.sql.ExecContext(ctx, query, args...)
}
