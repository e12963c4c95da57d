package core

import (
	"context"
	"time"
)

// Embedder defines the interface for the embedding capability.
// Implementations may batch; every returned vector has the same dimension.
type Embedder interface {
	// Embed returns one embedding per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float32, error)
}

// Generator defines the interface for the text generation capability.
type Generator interface {
	// Generate produces text for the given prompt at the given temperature.
	Generate(ctx context.Context, prompt string, temperature float32) (string, error)
}

// VectorStore defines the interface for the persisted vector-store engine.
type VectorStore interface {
	// Replace atomically swaps the stored collection for the given entries.
	// Either the whole new collection replaces the old one, or on error the
	// old one remains untouched.
	Replace(ctx context.Context, vectors []IndexedVector) error

	// Query returns the k nearest stored entries to the given embedding,
	// ordered by descending similarity. An empty store yields an empty
	// result, not an error; k larger than the store yields everything.
	Query(ctx context.Context, embedding []float32, k int) ([]ScoredDocument, error)

	// Count returns the number of stored documents.
	Count(ctx context.Context) (int, error)
}

// MailSource defines the interface for fetching raw messages.
// The date range is since-inclusive and before-exclusive, matching IMAP
// SINCE/BEFORE search semantics.
type MailSource interface {
	Fetch(ctx context.Context, since, before time.Time) ([]RawMessage, error)
}
