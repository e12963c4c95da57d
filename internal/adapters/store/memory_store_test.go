package store

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/supriyakanse/agent-email-query/internal/core"
)

func sampleVectors() []core.IndexedVector {
	return []core.IndexedVector{
		{DocumentID: "invoice", Embedding: []float32{0, 1}, Text: "Invoice attached",
			Metadata: core.DocumentMeta{Sender: "bob@example.com", Subject: "Invoice"}},
		{DocumentID: "meeting", Embedding: []float32{1, 0}, Text: "Meeting at 3pm",
			Metadata: core.DocumentMeta{Sender: "alice@example.com", Subject: "Meeting"}},
		{DocumentID: "mixed", Embedding: []float32{0.7, 0.7}, Text: "Meeting about the invoice"},
	}
}

func TestMemoryStoreReplaceAndCount(t *testing.T) {
	s := NewMemoryStore(MetricCosine, zap.NewNop())
	ctx := context.Background()

	count, err := s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	require.NoError(t, s.Replace(ctx, sampleVectors()))
	count, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// Replace is wholesale, not additive
	require.NoError(t, s.Replace(ctx, sampleVectors()[:1]))
	count, err = s.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestMemoryStoreQueryRanking(t *testing.T) {
	s := NewMemoryStore(MetricCosine, zap.NewNop())
	ctx := context.Background()
	require.NoError(t, s.Replace(ctx, sampleVectors()))

	results, err := s.Query(ctx, []float32{1, 0}, 2)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, "meeting", results[0].Document.ID)
	assert.Equal(t, "mixed", results[1].Document.ID)
	assert.Equal(t, "alice@example.com", results[0].Document.Metadata.Sender)
}

func TestMemoryStoreQueryEmpty(t *testing.T) {
	s := NewMemoryStore(MetricCosine, zap.NewNop())

	results, err := s.Query(context.Background(), []float32{1, 0}, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMemoryStoreReplaceCopiesInput(t *testing.T) {
	s := NewMemoryStore(MetricCosine, zap.NewNop())
	ctx := context.Background()

	input := sampleVectors()
	require.NoError(t, s.Replace(ctx, input))
	input[0].Text = "mutated after replace"

	results, err := s.Query(ctx, []float32{0, 1}, 1)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Invoice attached", results[0].Document.Text)
}

func TestRankTieBreakAndTruncation(t *testing.T) {
	vectors := []core.IndexedVector{
		{DocumentID: "bbb", Embedding: []float32{1, 0}},
		{DocumentID: "aaa", Embedding: []float32{1, 0}},
		{DocumentID: "ccc", Embedding: []float32{0, 1}},
	}

	results := rank(MetricCosine, vectors, []float32{1, 0}, 2)
	require.Len(t, results, 2)
	assert.Equal(t, "aaa", results[0].Document.ID)
	assert.Equal(t, "bbb", results[1].Document.ID)

	assert.Nil(t, rank(MetricCosine, vectors, []float32{1, 0}, 0))
	assert.Len(t, rank(MetricCosine, vectors, []float32{1, 0}, 100), 3)
}

func TestRankL2Metric(t *testing.T) {
	vectors := []core.IndexedVector{
		{DocumentID: "near", Embedding: []float32{1, 1}},
		{DocumentID: "far", Embedding: []float32{5, 5}},
	}

	results := rank(MetricL2, vectors, []float32{1, 0}, 2)
	require.Len(t, results, 2)
	assert.Equal(t, "near", results[0].Document.ID)
	assert.Equal(t, "far", results[1].Document.ID)
	// L2 scores are negated distances, closer means higher
	assert.Greater(t, results[0].Score, results[1].Score)
	assert.Negative(t, results[0].Score)
}

func TestParseMetric(t *testing.T) {
	m, err := ParseMetric("cosine")
	require.NoError(t, err)
	assert.Equal(t, MetricCosine, m)

	m, err = ParseMetric("l2")
	require.NoError(t, err)
	assert.Equal(t, MetricL2, m)

	_, err = ParseMetric("dot")
	assert.Error(t, err)
}

func TestCosineSimilarityZeroVector(t *testing.T) {
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{1, 0}))
}
