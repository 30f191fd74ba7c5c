// Package store persists reports and their timeline entries over GORM.
package store

import (
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned by point lookups for an unknown report id.
	ErrNotFound = errors.New("report not found")
	// ErrDuplicateKey is returned when an insert collides on report id.
	ErrDuplicateKey = errors.New("duplicate report id")
)

// Store is the durable collection of reports plus the append-only timeline
// log. It does no locking of its own; the database serializes writes.
type Store struct {
	db *gorm.DB
}

func New(db *gorm.DB) *Store {
	return &Store{db: db}
}

// Transaction runs fn against a transaction-scoped Store. The lifecycle
// service uses this to commit a report write and its timeline append as a
// single unit.
func (s *Store) Transaction(fn func(tx *Store) error) error {
	return s.db.Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}
