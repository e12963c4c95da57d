package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/supriyakanse/agent-email-query/internal/core"
)

func newTestSQLiteStore(t *testing.T, path string) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(path, "emails", MetricCosine, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSQLiteStoreReplaceQueryCount(t *testing.T) {
	s := newTestSQLiteStore(t, filepath.Join(t.TempDir(), "index.db"))
	ctx := context.Background()

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	date := time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)
	require.NoError(t, s.Replace(ctx, []core.IndexedVector{
		{DocumentID: "meeting", Embedding: []float32{1, 0}, Text: "Meeting at 3pm",
			Metadata: core.DocumentMeta{Sender: "alice@example.com", Subject: "Meeting", Date: date}},
		{DocumentID: "invoice", Embedding: []float32{0, 1}, Text: "Invoice attached",
			Metadata: core.DocumentMeta{Sender: "bob@example.com", Subject: "Invoice", Date: date}},
	}))

	count, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	results, err := s.Query(ctx, []float32{1, 0}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "meeting", results[0].Document.ID)
	assert.Equal(t, "Meeting at 3pm", results[0].Document.Text)
	assert.Equal(t, "alice@example.com", results[0].Document.Metadata.Sender)
	assert.True(t, results[0].Document.Metadata.Date.Equal(date))
}

func TestSQLiteStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "index.db")
	ctx := context.Background()

	first := newTestSQLiteStore(t, path)
	require.NoError(t, first.Replace(ctx, []core.IndexedVector{
		{DocumentID: "a", Embedding: []float32{1, 0}, Text: "a"},
	}))
	require.NoError(t, first.Close())

	second := newTestSQLiteStore(t, path)
	count, err := second.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestSQLiteStoreReplaceIsWholesale(t *testing.T) {
	s := newTestSQLiteStore(t, filepath.Join(t.TempDir(), "index.db"))
	ctx := context.Background()

	require.NoError(t, s.Replace(ctx, []core.IndexedVector{
		{DocumentID: "a", Embedding: []float32{1, 0}, Text: "a"},
		{DocumentID: "b", Embedding: []float32{0, 1}, Text: "b"},
	}))
	require.NoError(t, s.Replace(ctx, []core.IndexedVector{
		{DocumentID: "c", Embedding: []float32{1, 1}, Text: "c"},
	}))

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)

	results, err := s.Query(ctx, []float32{1, 1}, 10)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "c", results[0].Document.ID)
}

func TestSQLiteStoreInvalidCollectionName(t *testing.T) {
	_, err := NewSQLiteStore(filepath.Join(t.TempDir(), "index.db"),
		"emails; DROP TABLE emails", MetricCosine, zap.NewNop())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid collection name")
}

func TestSQLiteStoreUnreadableDatabase(t *testing.T) {
	// A directory path is not a usable database file
	_, err := NewSQLiteStore(t.TempDir(), "emails", MetricCosine, zap.NewNop())
	require.Error(t, err)
	assert.ErrorIs(t, err, core.ErrIndexUnavailable)
}
