// Package store provides the repository layer over the SQLite database:
// site credentials, AI provider configs, schedules, generated articles and
// the append-only execution history.
package store

import (
	"errors"

	"autopress/publisher/internal/database"
)

// ErrNotFound is returned when a requested row does not exist.
var ErrNotFound = errors.New("not found")

// Store implements all persistence operations used by the runner and the
// HTTP API.
type Store struct {
	db *database.DB
}

// New creates a new store instance.
func New(db *database.DB) *Store {
	return &Store{db: db}
}
