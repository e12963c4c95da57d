package store

import (
	"context"
	"sync"

	"github.com/supriyakanse/agent-email-query/internal/core"
	"go.uber.org/zap"
)

// MemoryStore is an in-memory implementation of the VectorStore interface.
// It does not persist across process invocations and exists for tests and
// throwaway sessions.
type MemoryStore struct {
	mu      sync.RWMutex
	vectors []core.IndexedVector
	metric  Metric
	logger  *zap.Logger
}

// NewMemoryStore creates a new in-memory vector store
func NewMemoryStore(metric Metric, logger *zap.Logger) *MemoryStore {
	return &MemoryStore{
		metric: metric,
		logger: logger,
	}
}

// Replace atomically swaps the stored collection for the given entries
func (s *MemoryStore) Replace(_ context.Context, vectors []core.IndexedVector) error {
	replacement := make([]core.IndexedVector, len(vectors))
	copy(replacement, vectors)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.vectors = replacement

	s.logger.Debug("Replaced in-memory collection", zap.Int("documents", len(replacement)))
	return nil
}

// Query returns the k nearest stored entries to the given embedding
func (s *MemoryStore) Query(_ context.Context, embedding []float32, k int) ([]core.ScoredDocument, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return rank(s.metric, s.vectors, embedding, k), nil
}

// Count returns the number of stored documents
func (s *MemoryStore) Count(_ context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.vectors), nil
}
