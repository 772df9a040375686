package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	_ "github.com/mattn/go-sqlite3"
)

// SQLiteStore is the database-backed alternative to the JSON slot, for
// installs whose history outgrows a single file. It honors the same
// contract: a monotonic position column reproduces newest-creation-first
// ordering, and updates keep their position.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
}

// NewSQLiteStore opens (creating if needed) the conversations database.
func NewSQLiteStore(path string, logger *slog.Logger) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	createConversationsTable := `
	CREATE TABLE IF NOT EXISTS conversations (
		id TEXT PRIMARY KEY,
		title TEXT,
		preview TEXT,
		timestamp TEXT,
		messages TEXT,
		position INTEGER
	);`

	if _, err := db.Exec(createConversationsTable); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create conversations table: %w", err)
	}

	return &SQLiteStore{db: db, logger: logger}, nil
}

// Upsert replaces an existing record in place or inserts a new one at the
// next position.
func (s *SQLiteStore) Upsert(rec Record) error {
	messages, err := json.Marshal(rec.Messages)
	if err != nil {
		return fmt.Errorf("failed to marshal messages: %w", err)
	}

	res, err := s.db.Exec(
		"UPDATE conversations SET title = ?, preview = ?, timestamp = ?, messages = ? WHERE id = ?",
		rec.Title, rec.Preview, rec.Timestamp, string(messages), rec.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update conversation: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n > 0 {
		return nil
	}

	_, err = s.db.Exec(
		`INSERT INTO conversations (id, title, preview, timestamp, messages, position)
		 VALUES (?, ?, ?, ?, ?, (SELECT COALESCE(MAX(position), 0) + 1 FROM conversations))`,
		rec.ID, rec.Title, rec.Preview, rec.Timestamp, string(messages),
	)
	if err != nil {
		return fmt.Errorf("failed to insert conversation: %w", err)
	}
	return nil
}

// Remove deletes the record with the given id. Unknown ids are a no-op.
func (s *SQLiteStore) Remove(id string) error {
	if _, err := s.db.Exec("DELETE FROM conversations WHERE id = ?", id); err != nil {
		return fmt.Errorf("failed to delete conversation: %w", err)
	}
	return nil
}

// Get returns the record with the given id, or ErrNotFound.
func (s *SQLiteStore) Get(id string) (Record, error) {
	var rec Record
	var messages string
	err := s.db.QueryRow(
		"SELECT id, title, preview, timestamp, messages FROM conversations WHERE id = ?", id,
	).Scan(&rec.ID, &rec.Title, &rec.Preview, &rec.Timestamp, &messages)
	if err == sql.ErrNoRows {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, fmt.Errorf("failed to load conversation: %w", err)
	}
	if err := json.Unmarshal([]byte(messages), &rec.Messages); err != nil {
		return Record{}, fmt.Errorf("failed to unmarshal messages: %w", err)
	}
	return rec, nil
}

// List returns all records, newest creation first.
func (s *SQLiteStore) List() ([]Record, error) {
	rows, err := s.db.Query(
		"SELECT id, title, preview, timestamp, messages FROM conversations ORDER BY position DESC",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list conversations: %w", err)
	}
	defer rows.Close()

	var records []Record
	for rows.Next() {
		var rec Record
		var messages string
		if err := rows.Scan(&rec.ID, &rec.Title, &rec.Preview, &rec.Timestamp, &messages); err != nil {
			return nil, fmt.Errorf("failed to scan conversation: %w", err)
		}
		if err := json.Unmarshal([]byte(messages), &rec.Messages); err != nil {
			s.logger.Warn("skipping conversation with malformed messages", "id", rec.ID, "error", err)
			continue
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
