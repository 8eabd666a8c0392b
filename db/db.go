// Package db persists the podcast catalog in a local SQLite database.
// Every open applies pending migrations and takes a lock file next to
// the database, so concurrent invocations fail fast instead of
// interleaving writes.
package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"

	_ "modernc.org/sqlite"
)

// Store handles all database operations for podcasts, episodes and
// their counters over a single shared connection.
type Store struct {
	db   *sql.DB
	lock *flock.Flock
}

// Open readies the database at path: creates the parent directory if
// needed, takes the invocation lock, applies pending migrations and
// opens the connection. A second invocation against the same database
// returns an error immediately rather than blocking.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	lock := flock.New(path + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock %s: %w", lock.Path(), err)
	}
	if !locked {
		return nil, fmt.Errorf("database %s is in use by another podkeep invocation", path)
	}

	if err := Migrate(path); err != nil {
		_ = lock.Unlock()
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	db, err := connection(path)
	if err != nil {
		_ = lock.Unlock()
		return nil, err
	}

	return &Store{db: db, lock: lock}, nil
}

// Close releases the connection and the invocation lock.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	err := s.db.Close()
	if unlockErr := s.lock.Unlock(); err == nil {
		err = unlockErr
	}
	return err
}

// connection opens the SQLite database with the pragmas every podkeep
// connection needs. Foreign keys guard episode ownership; WAL keeps
// readers unblocked while counters are written.
func connection(database string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", fmt.Sprintf("%s?_pragma=foreign_keys(1)&_pragma=journal_mode(WAL)", database))
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	// SQLite supports a single writer; keep the pool at one connection.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(time.Hour)

	if _, err := db.Exec(`
		PRAGMA busy_timeout = 5000;
		PRAGMA synchronous = NORMAL;
		PRAGMA temp_store = MEMORY;
	`); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to set pragmas: %w", err)
	}

	return db, nil
}

// rowScanner is satisfied by both sql.Row and sql.Rows so the scan
// helpers serve single-row and multi-row queries alike.
type rowScanner interface {
	Scan(dest ...any) error
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
