package store

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "vaani.db"), discardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStore_RoundTrip(t *testing.T) {
	s := newTestSQLiteStore(t)

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

func TestSQLiteStore_NewestCreationFirst(t *testing.T) {
	s := newTestSQLiteStore(t)

	require.NoError(t, s.Upsert(testRecord("a", "first")))
	require.NoError(t, s.Upsert(testRecord("b", "second")))

	records, err := s.List()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "b", records[0].ID)
	assert.Equal(t, "a", records[1].ID)
}

func TestSQLiteStore_UpdatePreservesPosition(t *testing.T) {
	s := newTestSQLiteStore(t)

	require.NoError(t, s.Upsert(testRecord("a", "first")))
	require.NoError(t, s.Upsert(testRecord("b", "second")))

	updated := testRecord("a", "first")
	updated.Preview = "updated..."
	require.NoError(t, s.Upsert(updated))

	records, err := s.List()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "b", records[0].ID)
	assert.Equal(t, "updated...", records[1].Preview)
}

func TestSQLiteStore_RemoveUnknownIsNoop(t *testing.T) {
	s := newTestSQLiteStore(t)

	require.NoError(t, s.Upsert(testRecord("a", "first")))
	require.NoError(t, s.Remove("missing"))

	records, err := s.List()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
