package store

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Entry represents a persisted translated line.
type Entry struct {
	ID             string
	Source         string
	Player         string
	Original       string
	Translated     string
	SourceLanguage string
	TeamChat       bool
	Team           string
	CreatedAt      time.Time
}

// EntryQuery filters ListEntries. Zero values match everything.
type EntryQuery struct {
	Player   string
	Source   string
	TeamOnly bool
	Before   time.Time
	Limit    int
}

// EntryStore handles translated line persistence.
type EntryStore interface {
	// SaveEntry persists an entry. Saving an existing ID replaces it.
	SaveEntry(ctx context.Context, e *Entry) error

	// GetEntry retrieves an entry by ID.
	GetEntry(ctx context.Context, id string) (*Entry, error)

	// ListEntries returns matching entries, newest first.
	ListEntries(ctx context.Context, q EntryQuery) ([]*Entry, error)

	// DeleteBefore removes entries created before t and reports how many went.
	DeleteBefore(ctx context.Context, t time.Time) (int64, error)
}

// Store aggregates all storage interfaces.
type Store interface {
	EntryStore

	// Close closes the underlying database connection.
	Close() error
}
