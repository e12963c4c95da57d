package core

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

// AssistantService sequences the two phases of the pipeline: indexing
// (fetch, normalize, embed, persist) and querying (retrieve, synthesize).
// The persisted vector index is shared between the phases and across
// process invocations; each query is processed independently with no
// conversation memory.
type AssistantService struct {
	source         MailSource
	normalizer     *Normalizer
	index          *Index
	retriever      *Retriever
	synthesizer    *Synthesizer
	retrievalCount int
	ignoredDomains []string
	logger         *zap.Logger
}

// NewAssistantService creates a new assistant service
func NewAssistantService(
	source MailSource,
	normalizer *Normalizer,
	index *Index,
	retriever *Retriever,
	synthesizer *Synthesizer,
	retrievalCount int,
	ignoredDomains []string,
	logger *zap.Logger,
) *AssistantService {
	normalized := make([]string, len(ignoredDomains))
	for i, domain := range ignoredDomains {
		normalized[i] = strings.ToLower(strings.TrimSpace(domain))
	}
	return &AssistantService{
		source:         source,
		normalizer:     normalizer,
		index:          index,
		retriever:      retriever,
		synthesizer:    synthesizer,
		retrievalCount: retrievalCount,
		ignoredDomains: normalized,
		logger:         logger,
	}
}

// BuildIndex fetches messages for the date range and rebuilds the persisted
// index from them wholesale. Messages that fail normalization are logged and
// skipped without aborting the build; a fetch, embedding or store failure
// aborts the phase and leaves the previously persisted index untouched.
func (s *AssistantService) BuildIndex(ctx context.Context, since, before time.Time) (*IndexStats, error) {
	messages, err := s.source.Fetch(ctx, since, before)
	if err != nil {
		return nil, err
	}

	stats := &IndexStats{Fetched: len(messages)}

	docs := make([]Document, 0, len(messages))
	for _, msg := range messages {
		if s.isSenderIgnored(msg.Sender) {
			s.logger.Debug("Skipping message from ignored domain",
				zap.String("sender", msg.Sender))
			stats.Ignored++
			continue
		}
		doc, err := s.normalizer.Normalize(msg)
		if err != nil {
			s.logger.Warn("Skipping message that failed normalization",
				zap.String("message_id", msg.MessageID),
				zap.Error(err))
			stats.Skipped++
			continue
		}
		docs = append(docs, doc)
	}

	if len(docs) == 0 {
		s.logger.Warn("No indexable messages in date range, keeping existing index",
			zap.Time("since", since),
			zap.Time("before", before))
		return stats, nil
	}

	indexed, err := s.index.Rebuild(ctx, docs)
	if err != nil {
		return nil, err
	}
	stats.Indexed = indexed

	s.logger.Info("Index build complete",
		zap.Int("fetched", stats.Fetched),
		zap.Int("indexed", stats.Indexed),
		zap.Int("skipped", stats.Skipped),
		zap.Int("ignored", stats.Ignored))

	return stats, nil
}

// AnswerQuery answers one natural-language question against the current
// index. It requires a non-empty, previously built index and carries no
// state across calls. A retrieval or synthesis failure is fatal to this
// query only; the caller's query loop continues.
func (s *AssistantService) AnswerQuery(ctx context.Context, question string) (*Answer, error) {
	count, err := s.index.Count(ctx)
	if err != nil {
		return nil, err
	}
	if count == 0 {
		return nil, ErrIndexEmpty
	}

	results, err := s.retriever.Retrieve(ctx, question, s.retrievalCount)
	if err != nil {
		return nil, err
	}

	text, included, err := s.synthesizer.Synthesize(ctx, question, results)
	if err != nil {
		return nil, err
	}

	// Only the documents that made it into the generation context are
	// reported; the budget may have dropped lower-ranked ones.
	used := results[:included]
	sources := make([]Source, 0, len(used))
	for _, r := range used {
		sources = append(sources, Source{
			Sender:  r.Document.Metadata.Sender,
			Subject: r.Document.Metadata.Subject,
			Date:    r.Document.Metadata.Date,
		})
	}

	return &Answer{Text: text, Sources: sources}, nil
}

// Status reports the document count and whether the persisted index can be
// opened at all.
func (s *AssistantService) Status(ctx context.Context) (*Status, error) {
	count, err := s.index.Count(ctx)
	if err != nil {
		if errors.Is(err, ErrIndexUnavailable) {
			return &Status{DocumentCount: 0, IndexPresent: false}, nil
		}
		return nil, err
	}
	return &Status{DocumentCount: count, IndexPresent: true}, nil
}

// isSenderIgnored checks if the sender's domain is in the ignore list.
func (s *AssistantService) isSenderIgnored(sender string) bool {
	if len(s.ignoredDomains) == 0 {
		return false
	}

	addr := sender
	if start := strings.LastIndex(addr, "<"); start >= 0 {
		if end := strings.Index(addr[start:], ">"); end > 0 {
			addr = addr[start+1 : start+end]
		}
	}
	parts := strings.Split(addr, "@")
	if len(parts) != 2 {
		return false
	}
	domain := strings.ToLower(strings.TrimSpace(parts[1]))

	for _, ignored := range s.ignoredDomains {
		if domain == ignored {
			return true
		}
	}
	return false
}
