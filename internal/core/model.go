package core

import (
	"errors"
	"time"
)

// RawMessage represents a single email message as produced by the mail source.
// It is immutable once fetched.
type RawMessage struct {
	MessageID string
	Sender    string
	Subject   string
	Date      time.Time
	Body      string
}

// DocumentMeta is the metadata carried alongside an indexed document and
// reported back as a source reference for answers.
type DocumentMeta struct {
	Sender  string
	Subject string
	Date    time.Time
}

// Document is a cleaned text unit derived from exactly one RawMessage,
// ready for embedding. The ID is stable across rebuilds so that re-indexing
// the same message upserts rather than duplicates.
type Document struct {
	ID       string
	Text     string
	Metadata DocumentMeta
}

// IndexedVector is a single stored entry of the vector index: the document,
// its embedding, and the metadata needed to report it as a source.
type IndexedVector struct {
	DocumentID string
	Embedding  []float32
	Text       string
	Metadata   DocumentMeta
}

// ScoredDocument pairs a retrieved document with its similarity to the query.
type ScoredDocument struct {
	Document Document
	Score    float64
}

// IndexStats summarizes a completed index build.
type IndexStats struct {
	Fetched int
	Indexed int
	Skipped int
	Ignored int
}

// Source identifies one email an answer drew on.
type Source struct {
	Sender  string
	Subject string
	Date    time.Time
}

// Answer is the result of a single query: the generated text plus the
// emails that were placed in the generation context.
type Answer struct {
	Text    string
	Sources []Source
}

// Status reports the state of the persisted index.
type Status struct {
	DocumentCount int
	IndexPresent  bool
}

var (
	// ErrEmptyMessage is returned by the normalizer when a message has no
	// indexable content left after cleaning. The caller skips the record.
	ErrEmptyMessage = errors.New("message has no indexable content")

	// ErrIndexUnavailable is returned when the persisted vector store cannot
	// be opened or read. Fatal for the current operation, never retried here.
	ErrIndexUnavailable = errors.New("vector index unavailable")

	// ErrIndexEmpty is returned by the query phase when no index has been
	// built yet, so the caller can point the user at the refresh command.
	ErrIndexEmpty = errors.New("vector index is empty")
)
