package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
)

// SlotStore keeps every record in a single JSON file. The file is read once
// at construction and rewritten in full on every mutation, so the in-memory
// ordering is the ordering on disk. An absent or unparsable file starts the
// store empty rather than failing.
type SlotStore struct {
	path    string
	logger  *slog.Logger
	mu      sync.Mutex
	records []Record
}

// NewSlotStore opens the slot file at path, loading whatever it holds.
func NewSlotStore(path string, logger *slog.Logger) *SlotStore {
	s := &SlotStore{path: path, logger: logger}
	s.load()
	return s
}

func (s *SlotStore) load() {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			s.logger.Warn("failed to read conversation slot, starting empty", "path", s.path, "error", err)
		}
		return
	}
	var records []Record
	if err := json.Unmarshal(data, &records); err != nil {
		s.logger.Warn("conversation slot is malformed, starting empty", "path", s.path, "error", err)
		return
	}
	s.records = records
}

// write rewrites the whole slot. Partial writes are not recovered; the
// target filesystem call is taken to be atomic enough for a single slot.
func (s *SlotStore) write() error {
	data, err := json.Marshal(s.records)
	if err != nil {
		return fmt.Errorf("failed to marshal conversations: %w", err)
	}
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create store directory: %w", err)
		}
	}
	if err := os.WriteFile(s.path, data, 0644); err != nil {
		return fmt.Errorf("failed to write conversation slot: %w", err)
	}
	return nil
}

// Upsert inserts a new record at the front, or replaces an existing one in
// place without moving it.
func (s *SlotStore) Upsert(rec Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == rec.ID {
			s.records[i] = rec
			return s.write()
		}
	}
	s.records = append([]Record{rec}, s.records...)
	return s.write()
}

// Remove deletes the record with the given id. Unknown ids are a no-op.
func (s *SlotStore) Remove(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.records {
		if s.records[i].ID == id {
			s.records = append(s.records[:i], s.records[i+1:]...)
			return s.write()
		}
	}
	return nil
}

// Get returns the record with the given id, or ErrNotFound.
func (s *SlotStore) Get(id string) (Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.records {
		if rec.ID == id {
			return rec, nil
		}
	}
	return Record{}, ErrNotFound
}

// List returns all records, newest creation first.
func (s *SlotStore) List() ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return append([]Record(nil), s.records...), nil
}

// Close is a no-op; every mutation is written through synchronously.
func (s *SlotStore) Close() error {
	return nil
}
