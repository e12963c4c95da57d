package factory

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/supriyakanse/agent-email-query/internal/adapters/store"
	"github.com/supriyakanse/agent-email-query/internal/config"
	"github.com/supriyakanse/agent-email-query/internal/core"
	"go.uber.org/zap"
)

// StoreFactory creates vector stores based on configuration
type StoreFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewStoreFactory creates a new store factory
func NewStoreFactory(cfg *config.Config, logger *zap.Logger) *StoreFactory {
	return &StoreFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateVectorStore creates a vector store based on the configuration
func (f *StoreFactory) CreateVectorStore() (core.VectorStore, error) {
	storeCfg := f.cfg.GetStore()

	metric, err := store.ParseMetric(storeCfg.Metric)
	if err != nil {
		return nil, err
	}

	switch storeCfg.Type {
	case "memory":
		return store.NewMemoryStore(metric, f.logger), nil
	case "sqlite":
		// Ensure directory exists
		if err := os.MkdirAll(filepath.Dir(storeCfg.SQLitePath), 0755); err != nil {
			return nil, fmt.Errorf("failed to create store directory: %w", err)
		}
		return store.NewSQLiteStore(storeCfg.SQLitePath, storeCfg.Collection, metric, f.logger)
	case "mysql":
		return store.NewMySQLStore(storeCfg.MySQLDSN, storeCfg.Collection, metric, f.logger)
	default:
		return nil, fmt.Errorf("unsupported store type: %s", storeCfg.Type)
	}
}
