package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/supriyakanse/agent-email-query/internal/core"
	"go.uber.org/zap"
)

// MySQLStore is a MySQL-backed implementation of the VectorStore interface,
// for deployments where the index should live next to other shared state
// instead of a local file. Same brute-force ranking as the SQLite store.
type MySQLStore struct {
	db         *sql.DB
	collection string
	metric     Metric
	logger     *zap.Logger
}

// NewMySQLStore connects to MySQL and prepares the collection table.
func NewMySQLStore(dsn, collection string, metric Metric, logger *zap.Logger) (*MySQLStore, error) {
	if err := validateCollection(collection); err != nil {
		return nil, err
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open mysql connection: %v", core.ErrIndexUnavailable, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: ping mysql: %v", core.ErrIndexUnavailable, err)
	}

	_, err = db.Exec(fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			document_id VARCHAR(64) PRIMARY KEY,
			embedding LONGBLOB NOT NULL,
			text LONGTEXT NOT NULL,
			sender TEXT,
			subject TEXT,
			date VARCHAR(40)
		)
	`, collection))
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: create collection %s: %v", core.ErrIndexUnavailable, collection, err)
	}

	return &MySQLStore{
		db:         db,
		collection: collection,
		metric:     metric,
		logger:     logger,
	}, nil
}

// Replace swaps the whole collection inside one transaction
func (s *MySQLStore) Replace(ctx context.Context, vectors []core.IndexedVector) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: begin transaction: %v", core.ErrIndexUnavailable, err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, s.collection)); err != nil {
		return fmt.Errorf("clear collection: %w", err)
	}

	stmt, err := tx.PrepareContext(ctx, fmt.Sprintf(`
		REPLACE INTO %s (document_id, embedding, text, sender, subject, date)
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
func (s *MySQLStore) Query(ctx context.Context, embedding []float32, k int) ([]core.ScoredDocument, error) {
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
			dateStr sql.NullString
		)
		if err := rows.Scan(&v.DocumentID, &blob, &v.Text, &v.Metadata.Sender, &v.Metadata.Subject, &dateStr); err != nil {
			return nil, fmt.Errorf("scan document row: %w", err)
		}
		if v.Embedding, err = decodeEmbedding(blob); err != nil {
			return nil, fmt.Errorf("document %s: %w", v.DocumentID, err)
		}
		if dateStr.Valid && dateStr.String != "" {
			if t, err := time.Parse(time.RFC3339, dateStr.String); err == nil {
				v.Metadata.Date = t
			}
		}
		vectors = append(vectors, v)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: read collection: %v", core.ErrIndexUnavailable, err)
	}

	return rank(s.metric, vectors, embedding, k), nil
}

// Count returns the number of stored documents
func (s *MySQLStore) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, s.collection)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("%w: count documents: %v", core.ErrIndexUnavailable, err)
	}
	return count, nil
}

// Close closes the underlying database connection
func (s *MySQLStore) Close() error {
	return s.db.Close()
}
