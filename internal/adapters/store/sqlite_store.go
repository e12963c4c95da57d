package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/supriyakanse/agent-email-query/internal/core"
	"go.uber.org/zap"
)

// SQLiteStore is a SQLite-backed implementation of the VectorStore
// interface. Embeddings are stored as float32 blobs and ranked brute-force
// in memory, which is plenty for a personal mailbox.
//
// The design assumes a single writer; concurrent rebuilds from separate
// processes are not coordinated.
type SQLiteStore struct {
	db         *sql.DB
	collection string
	metric     Metric
	logger     *zap.Logger
}

// NewSQLiteStore opens or creates the persisted store at the given path.
// Failure to open or prepare the collection reports core.ErrIndexUnavailable.
func NewSQLiteStore(path, collection string, metric Metric, logger *zap.Logger) (*SQLiteStore, error) {
	if err := validateCollection(collection); err != nil {
		return nil, err
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("%w: open sqlite database at %s: %v", core.ErrIndexUnavailable, path, err)
	}

	_, err = db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			document_id TEXT PRIMARY KEY,
			embedding BLOB NOT NULL,
			text TEXT NOT NULL,
			sender TEXT,
			subject TEXT,
			date TEXT
		)
	`, collection))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: create collection %s: %v", core.ErrIndexUnavailable, collection, err)
	}

	return &SQLiteStore{
		db:         db,
		collection: collection,
		metric:     metric,
		logger:     logger,
	}, nil
}

// Replace swaps the whole collection inside one transaction, so a failed
// rebuild leaves the previously persisted rows in place.
func (s *SQLiteStore) Replace(ctx context.Context, vectors []core.IndexedVector) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", core.ErrIndexUnavailable, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, s.collection)); err != nil {
		return fmt.Errorf("clear collection: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
		INSERT OR REPLACE INTO %s (document_id, embedding, text, sender, subject, date)
		VALUES (?, ?, ?, ?, ?, ?)
	`, s.collection))
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, v := range vectors {
		_, err := stmt.ExecContext(ctx,
			v.DocumentID,
			encodeEmbedding(v.Embedding),
			v.Text,
			v.Metadata.Sender,
			v.Metadata.Subject,
			v.Metadata.Date.Format(time.RFC3339),
		)
		if err != nil {
			return fmt.Errorf("insert document %s: %w", v.DocumentID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit collection replace: %w", err)
	}

	s.logger.Debug("Replaced persisted collection",
		zap.String("collection", s.collection),
		zap.Int("documents", len(vectors)))
	return nil
}

// Query loads the collection and ranks it against the query embedding
func (s *SQLiteStore) Query(ctx context.Context, embedding []float32, k int) ([]core.ScoredDocument, error) {
	vectors, err := s.loadAll(ctx)
	if err != nil {
		return nil, err
	}
	return rank(s.metric, vectors, embedding, k), nil
}

// Count returns the number of stored documents
func (s *SQLiteStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, s.collection)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: count documents: %v", core.ErrIndexUnavailable, err)
	}
	return count, nil
}

// Close closes the underlying database
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) loadAll(ctx context.Context) ([]core.IndexedVector, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf(`
		SELECT document_id, embedding, text, sender, subject, date FROM %s
	`, s.collection))
	if err != nil {
		return nil, fmt.Errorf("%w: load collection: %v", core.ErrIndexUnavailable, err)
	}
	defer rows.Close()

	var vectors []core.IndexedVector
	for rows.Next() {
		var (
			v       core.IndexedVector
			blob    []byte
			dateStr string
		)
		if err := rows.Scan(&v.DocumentID, &blob, &v.Text, &v.Metadata.Sender, &v.Metadata.Subject, &dateStr); err != nil {
			return nil, fmt.Errorf("scan document row: %w", err)
		}
		if v.Embedding, err = decodeEmbedding(blob); err != nil {
			return nil, fmt.Errorf("document %s: %w", v.DocumentID, err)
		}
		if dateStr != "" {
			if t, err := time.Parse(time.RFC3339, dateStr); err == nil {
				v.Metadata.Date = t
			}
		}
		vectors = append(vectors, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read collection: %v", core.ErrIndexUnavailable, err)
	}
	return vectors, nil
}
