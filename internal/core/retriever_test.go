package core_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/supriyakanse/agent-email-query/internal/adapters/store"
	"github.com/supriyakanse/agent-email-query/internal/core"
)

func buildRetriever(t *testing.T, embedder core.Embedder, vectors []core.IndexedVector) *core.Retriever {
	t.Helper()
	memStore := store.NewMemoryStore(store.MetricCosine, zap.NewNop())
	require.NoError(t, memStore.Replace(context.Background(), vectors))
	index := core.NewIndex(memStore, embedder, 32, zap.NewNop())
	return core.NewRetriever(embedder, index, zap.NewNop())
}

func TestRetrieveRanksByRelevance(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"meeting question": {1, 0},
	}}
	retriever := buildRetriever(t, embedder, []core.IndexedVector{
		{DocumentID: "invoice", Embedding: []float32{0, 1}, Text: "Invoice attached"},
		{DocumentID: "meeting", Embedding: []float32{1, 0}, Text: "Meeting at 3pm"},
		{DocumentID: "mixed", Embedding: []float32{0.7, 0.7}, Text: "Meeting about the invoice"},
	})

	results, err := retriever.Retrieve(context.Background(), "meeting question", 3)
	require.NoError(t, err)
	require.Len(t, results, 3)

	assert.Equal(t, "meeting", results[0].Document.ID)
	assert.Equal(t, "mixed", results[1].Document.ID)
	assert.Equal(t, "invoice", results[2].Document.ID)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestRetrieveTieBreaksByDocumentID(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"query": {1, 0},
	}}
	retriever := buildRetriever(t, embedder, []core.IndexedVector{
		{DocumentID: "bbb", Embedding: []float32{1, 0}, Text: "b"},
		{DocumentID: "aaa", Embedding: []float32{1, 0}, Text: "a"},
	})

	results, err := retriever.Retrieve(context.Background(), "query", 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "aaa", results[0].Document.ID)
	assert.Equal(t, "bbb", results[1].Document.ID)
}

func TestRetrieveKLargerThanCollection(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"query": {1, 0},
	}}
	retriever := buildRetriever(t, embedder, []core.IndexedVector{
		{DocumentID: "only", Embedding: []float32{1, 0}, Text: "only"},
	})

	results, err := retriever.Retrieve(context.Background(), "query", 50)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestRetrieveEmptyIndex(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"query": {1, 0},
	}}
	retriever := buildRetriever(t, embedder, nil)

	results, err := retriever.Retrieve(context.Background(), "query", 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestRetrieveIsDeterministic(t *testing.T) {
	embedder := &fakeEmbedder{vectors: map[string][]float32{
		"query": {0.5, 0.5},
	}}
	vectors := []core.IndexedVector{
		{DocumentID: "a", Embedding: []float32{1, 0}, Text: "a"},
		{DocumentID: "b", Embedding: []float32{0, 1}, Text: "b"},
		{DocumentID: "c", Embedding: []float32{0.5, 0.5}, Text: "c"},
	}
	retriever := buildRetriever(t, embedder, vectors)

	first, err := retriever.Retrieve(context.Background(), "query", 3)
	require.NoError(t, err)
	second, err := retriever.Retrieve(context.Background(), "query", 3)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestRetrieveEmbedderFailure(t *testing.T) {
	embedder := &fakeEmbedder{err: errors.New("embedding backend down")}
	retriever := buildRetriever(t, embedder, nil)

	_, err := retriever.Retrieve(context.Background(), "query", 10)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "embed query")
}
