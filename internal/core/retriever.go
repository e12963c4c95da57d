package core

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"
)

// Retriever answers "which indexed emails are most relevant to this text"
// by embedding the query once and delegating to the vector index.
type Retriever struct {
	embedder Embedder
	index    *Index
	logger   *zap.Logger
}

// NewRetriever creates a new Retriever
func NewRetriever(embedder Embedder, index *Index, logger *zap.Logger) *Retriever {
	return &Retriever{
		embedder: embedder,
		index:    index,
		logger:   logger,
	}
}

// Retrieve returns the top-k documents for the query text, ordered by
// descending similarity. Equal scores are broken by document id ascending so
// results are deterministic across runs given identical index contents.
// An unreachable embedding capability surfaces as an error; there is no
// keyword-search fallback.
func (r *Retriever) Retrieve(ctx context.Context, queryText string, k int) ([]ScoredDocument, error) {
	embeddings, err := r.embedder.Embed(ctx, []string{queryText})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	if len(embeddings) != 1 {
		return nil, fmt.Errorf("embed query: expected 1 vector, got %d", len(embeddings))
	}

	results, err := r.index.Query(ctx, embeddings[0], k)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Document.ID < results[j].Document.ID
	})

	r.logger.Debug("Retrieved documents",
		zap.Int("requested", k),
		zap.Int("returned", len(results)))

	return results, nil
}
