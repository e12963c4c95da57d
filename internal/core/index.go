package core

import (
	"context"
	"fmt"

	"go.uber.org/zap"
)

// Index owns the mapping from document identity to embedding vector and
// metadata. It wraps the persisted vector-store engine and the embedding
// capability; callers rebuild it wholesale and query it by vector.
type Index struct {
	store     VectorStore
	embedder  Embedder
	batchSize int
	logger    *zap.Logger
}

// NewIndex creates a new Index. batchSize controls how many documents are
// embedded per capability call; values below 1 disable batching.
func NewIndex(store VectorStore, embedder Embedder, batchSize int, logger *zap.Logger) *Index {
	if batchSize < 1 {
		batchSize = 1
	}
	return &Index{
		store:     store,
		embedder:  embedder,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Rebuild embeds the given documents and replaces the persisted collection
// with them. Duplicate document ids collapse to a single entry, last write
// wins. The swap is atomic: on any error the previous collection remains.
// Returns the number of distinct documents stored.
func (ix *Index) Rebuild(ctx context.Context, docs []Document) (int, error) {
	docs = dedupeByID(docs)

	vectors := make([]IndexedVector, 0, len(docs))
	dimension := 0
	for start := 0; start < len(docs); start += ix.batchSize {
		end := start + ix.batchSize
		if end > len(docs) {
			end = len(docs)
		}
		batch := docs[start:end]

		texts := make([]string, len(batch))
		for i, d := range batch {
			texts[i] = d.Text
		}
		embeddings, err := ix.embedder.Embed(ctx, texts)
		if err != nil {
			return 0, fmt.Errorf("embed documents: %w", err)
		}
		if len(embeddings) != len(batch) {
			return 0, fmt.Errorf("embedder returned %d vectors for %d documents", len(embeddings), len(batch))
		}

		for i, d := range batch {
			if dimension == 0 {
				dimension = len(embeddings[i])
			}
			if len(embeddings[i]) != dimension {
				return 0, fmt.Errorf("embedding dimension changed mid-build: got %d, want %d", len(embeddings[i]), dimension)
			}
			vectors = append(vectors, IndexedVector{
				DocumentID: d.ID,
				Embedding:  embeddings[i],
				Text:       d.Text,
				Metadata:   d.Metadata,
			})
		}
	}

	if err := ix.store.Replace(ctx, vectors); err != nil {
		return 0, fmt.Errorf("persist index: %w", err)
	}

	ix.logger.Info("Rebuilt vector index",
		zap.Int("documents", len(vectors)),
		zap.Int("dimension", dimension))

	return len(vectors), nil
}

// Query returns the k stored documents nearest to the given embedding.
func (ix *Index) Query(ctx context.Context, embedding []float32, k int) ([]ScoredDocument, error) {
	return ix.store.Query(ctx, embedding, k)
}

// Count returns the current document count of the persisted collection.
func (ix *Index) Count(ctx context.Context) (int, error) {
	return ix.store.Count(ctx)
}

// dedupeByID keeps one document per id, preserving first-seen order but
// letting later occurrences overwrite earlier ones.
func dedupeByID(docs []Document) []Document {
	position := make(map[string]int, len(docs))
	out := make([]Document, 0, len(docs))
	for _, d := range docs {
		if i, seen := position[d.ID]; seen {
			out[i] = d
			continue
		}
		position[d.ID] = len(out)
		out = append(out, d)
	}
	return out
}
