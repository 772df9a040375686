package store

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vaani/internal/chat"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testRecord(id, title string) Record {
	return Record{
		ID:        id,
		Title:     title,
		Preview:   title + "...",
		Timestamp: "Just now",
		Messages: []chat.Message{
			{Role: chat.RoleUser, Content: title},
		},
	}
}

func TestSlotStore_RoundTrip(t *testing.T) {
	s := NewSlotStore(filepath.Join(t.TempDir(), "conversations.json"), discardLogger())

	rec := testRecord("a", "Hello")
	require.NoError(t, s.Upsert(rec))

	got, err := s.Get("a")
	require.NoError(t, err)
	assert.Equal(t, rec.ID, got.ID)
	assert.Equal(t, rec.Title, got.Title)
	assert.Equal(t, rec.Messages, got.Messages)

	require.NoError(t, s.Remove("a"))
	_, err = s.Get("a")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestSlotStore_InsertsAtFront(t *testing.T) {
	s := NewSlotStore(filepath.Join(t.TempDir(), "conversations.json"), discardLogger())

	require.NoError(t, s.Upsert(testRecord("a", "first")))
	require.NoError(t, s.Upsert(testRecord("b", "second")))

	records, err := s.List()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "b", records[0].ID)
	assert.Equal(t, "a", records[1].ID)
}

func TestSlotStore_UpdatePreservesPosition(t *testing.T) {
	s := NewSlotStore(filepath.Join(t.TempDir(), "conversations.json"), discardLogger())

	require.NoError(t, s.Upsert(testRecord("a", "first")))
	require.NoError(t, s.Upsert(testRecord("b", "second")))

	updated := testRecord("a", "first")
	updated.Preview = "updated..."
	require.NoError(t, s.Upsert(updated))

	records, err := s.List()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "b", records[0].ID)
	assert.Equal(t, "a", records[1].ID)
	assert.Equal(t, "updated...", records[1].Preview)
}

func TestSlotStore_RemoveUnknownIsNoop(t *testing.T) {
	s := NewSlotStore(filepath.Join(t.TempDir(), "conversations.json"), discardLogger())

	require.NoError(t, s.Upsert(testRecord("a", "first")))
	require.NoError(t, s.Remove("missing"))

	records, err := s.List()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestSlotStore_PersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conversations.json")

	s := NewSlotStore(path, discardLogger())
	require.NoError(t, s.Upsert(testRecord("a", "first")))
	require.NoError(t, s.Upsert(testRecord("b", "second")))
	require.NoError(t, s.Close())

	reopened := NewSlotStore(path, discardLogger())
	records, err := reopened.List()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "b", records[0].ID)
}

func TestSlotStore_MissingFileStartsEmpty(t *testing.T) {
	s := NewSlotStore(filepath.Join(t.TempDir(), "nope.json"), discardLogger())

	records, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestSlotStore_MalformedFileStartsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "conversations.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0644))

	s := NewSlotStore(path, discardLogger())
	records, err := s.List()
	require.NoError(t, err)
	assert.Empty(t, records)

	// the store stays usable and overwrites the bad slot
	require.NoError(t, s.Upsert(testRecord("a", "first")))
	reopened := NewSlotStore(path, discardLogger())
	records, err = reopened.List()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
