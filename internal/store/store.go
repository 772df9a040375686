package store

import (
	"errors"

	"vaani/internal/chat"
)

// ErrNotFound is returned by Get when no record has the given id. Callers
// are expected to treat it as a normal outcome, not a failure.
var ErrNotFound = errors.New("conversation not found")

// Record is one saved conversation as listed in the sidebar. Messages is a
// full snapshot of the stream at the last save, never a delta.
type Record struct {
	ID        string         `json:"id"`
	Title     string         `json:"title"`
	Preview   string         `json:"preview"`
	Timestamp string         `json:"timestamp"`
	Messages  []chat.Message `json:"messages"`
}

// Store persists conversation records in insertion order, newest creation
// first. Upsert of an existing id replaces the record at its current
// position; only creation affects ordering.
type Store interface {
	Upsert(rec Record) error
	Remove(id string) error
	Get(id string) (Record, error)
	List() ([]Record, error)
	Close() error
}
