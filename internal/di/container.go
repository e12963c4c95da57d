package di

import (
	"go.uber.org/dig"
	"go.uber.org/zap"

	"github.com/supriyakanse/agent-email-query/internal/config"
	"github.com/supriyakanse/agent-email-query/internal/core"
	"github.com/supriyakanse/agent-email-query/internal/factory"
	"github.com/supriyakanse/agent-email-query/internal/logging"
	"github.com/supriyakanse/agent-email-query/internal/utils"
)

// BuildContainer creates and configures a dependency injection container
func BuildContainer() (*dig.Container, error) {
	container := dig.New()

	// Register configuration
	if err := container.Provide(config.New); err != nil {
		return nil, err
	}

	// Register logger
	if err := container.Provide(logging.InitLogger); err != nil {
		return nil, err
	}

	// Register factories
	if err := container.Provide(factory.NewLLMFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewStoreFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewSourceFactory); err != nil {
		return nil, err
	}
	if err := container.Provide(factory.NewTextProcessorFactory); err != nil {
		return nil, err
	}

	// Register text processor
	if err := container.Provide(func(f *factory.TextProcessorFactory) *utils.TextProcessor {
		return f.CreateTextProcessor()
	}); err != nil {
		return nil, err
	}

	// Register capabilities
	if err := container.Provide(func(f *factory.LLMFactory) (core.Embedder, error) {
		return f.CreateEmbedder()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.LLMFactory) (core.Generator, error) {
		return f.CreateGenerator()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.StoreFactory) (core.VectorStore, error) {
		return f.CreateVectorStore()
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(f *factory.SourceFactory) (core.MailSource, error) {
		return f.CreateMailSource()
	}); err != nil {
		return nil, err
	}

	// Register pipeline components
	if err := container.Provide(func(cfg *config.Config, tp *utils.TextProcessor) *core.Normalizer {
		return core.NewNormalizer(tp, cfg.GetIndex().MaxBodySize)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(cfg *config.Config, vs core.VectorStore, e core.Embedder, logger *zap.Logger) *core.Index {
		return core.NewIndex(vs, e, cfg.GetIndex().EmbedBatchSize, logger)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(e core.Embedder, ix *core.Index, logger *zap.Logger) *core.Retriever {
		return core.NewRetriever(e, ix, logger)
	}); err != nil {
		return nil, err
	}
	if err := container.Provide(func(cfg *config.Config, g core.Generator, logger *zap.Logger) *core.Synthesizer {
		queryCfg := cfg.GetQuery()
		return core.NewSynthesizer(g, queryCfg.ContextBudget, queryCfg.Temperature, logger)
	}); err != nil {
		return nil, err
	}

	// Register assistant service
	if err := container.Provide(func(
		cfg *config.Config,
		source core.MailSource,
		normalizer *core.Normalizer,
		index *core.Index,
		retriever *core.Retriever,
		synthesizer *core.Synthesizer,
		logger *zap.Logger,
	) *core.AssistantService {
		return core.NewAssistantService(
			source,
			normalizer,
			index,
			retriever,
			synthesizer,
			cfg.GetQuery().RetrievalCount,
			cfg.GetIndex().IgnoredDomains,
			logger,
		)
	}); err != nil {
		return nil, err
	}

	return container, nil
}
