package store

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// ErrNoAuth is returned when no authentication is stored
var ErrNoAuth = errors.New("no authentication stored")

// ErrTrialNotFound is returned when a time trial doesn't exist
var ErrTrialNotFound = errors.New("time trial not found")

// ErrResultNotFound is returned when a trial has no computed result
var ErrResultNotFound = errors.New("result not found")

// Store is the application's data access layer over SQLite
type Store struct {
	db *sql.DB
}

// Open opens the SQLite database at path, creating it if necessary
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	// The pragma in the DSN applies to every pooled connection
	db, err := sql.Open("sqlite", path+"?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return prepare(db)
}

// OpenDefault opens the database at ~/.pacecalc/data.db
func OpenDefault() (*Store, error) {
	path, err := DefaultPath()
	if err != nil {
		return nil, fmt.Errorf("getting db path: %w", err)
	}
	return Open(path)
}

// OpenMemory opens a private in-memory database. Used by tests and by
// commands that should not touch the history file.
func OpenMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	// Every pooled connection would otherwise get its own empty database
	db.SetMaxOpenConns(1)

	return prepare(db)
}

func prepare(db *sql.DB) (*Store, error) {
	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling foreign keys: %w", err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return &Store{db: db}, nil
}

// Close closes the underlying database connection
func (s *Store) Close() error {
	return s.db.Close()
}

// DefaultPath returns the path to the SQLite database file
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".pacecalc", "data.db"), nil
}
