package store

import (
	"fmt"
	"math"
	"sort"

	"github.com/supriyakanse/agent-email-query/internal/core"
)

// Metric selects the similarity measure used for ranking.
type Metric string

const (
	// MetricCosine ranks by cosine similarity, higher is closer.
	MetricCosine Metric = "cosine"
	// MetricL2 ranks by Euclidean distance, expressed as a negated
	// distance so that higher scores are still closer.
	MetricL2 Metric = "l2"
)

// ParseMetric validates a configured metric name.
func ParseMetric(name string) (Metric, error) {
	switch Metric(name) {
	case MetricCosine, MetricL2:
		return Metric(name), nil
	default:
		return "", fmt.Errorf("unsupported similarity metric: %q", name)
	}
}

// rank scores every stored vector against the query embedding and returns
// the top k as documents, ordered by descending score with ties broken by
// document id ascending. k larger than the collection returns everything.
func rank(metric Metric, vectors []core.IndexedVector, query []float32, k int) []core.ScoredDocument {
	if len(vectors) == 0 || k <= 0 {
		return nil
	}

	results := make([]core.ScoredDocument, 0, len(vectors))
	for _, v := range vectors {
		results = append(results, core.ScoredDocument{
			Document: core.Document{
				ID:       v.DocumentID,
				Text:     v.Text,
				Metadata: v.Metadata,
			},
			Score: score(metric, v.Embedding, query),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Score != results[j].Score {
			return results[i].Score > results[j].Score
		}
		return results[i].Document.ID < results[j].Document.ID
	})

	if k < len(results) {
		results = results[:k]
	}
	return results
}

func score(metric Metric, stored, query []float32) float64 {
	switch metric {
	case MetricL2:
		return -l2Distance(stored, query)
	default:
		return cosineSimilarity(stored, query)
	}
}

func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

func l2Distance(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var sum float64
	for i := 0; i < n; i++ {
		d := float64(a[i]) - float64(b[i])
		sum += d * d
	}
	return math.Sqrt(sum)
}
