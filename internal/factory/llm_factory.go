package factory

import (
	"fmt"

	"github.com/supriyakanse/agent-email-query/internal/adapters/bedrock"
	"github.com/supriyakanse/agent-email-query/internal/adapters/gemini"
	"github.com/supriyakanse/agent-email-query/internal/adapters/openai"
	"github.com/supriyakanse/agent-email-query/internal/config"
	"github.com/supriyakanse/agent-email-query/internal/core"
	"go.uber.org/zap"
)

// LLMFactory creates the embedding and generation capabilities from the
// configured providers. The two capabilities may come from different
// providers; by default they share one.
type LLMFactory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewLLMFactory creates a new LLM factory
func NewLLMFactory(cfg *config.Config, logger *zap.Logger) *LLMFactory {
	return &LLMFactory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateGenerator creates the text generation capability
func (f *LLMFactory) CreateGenerator() (core.Generator, error) {
	return f.createClient(f.cfg.GetLLM().Provider)
}

// CreateEmbedder creates the embedding capability
func (f *LLMFactory) CreateEmbedder() (core.Embedder, error) {
	return f.createClient(f.cfg.GetLLM().EmbeddingProvider)
}

// createClient builds a provider client; every provider implements both
// capability interfaces.
func (f *LLMFactory) createClient(provider string) (interface {
	core.Embedder
	core.Generator
}, error) {
	switch provider {
	case "ollama":
		return openai.NewFactory(f.cfg, f.logger).CreateOllamaClient(), nil
	case "openai":
		return openai.NewFactory(f.cfg, f.logger).CreateClient(), nil
	case "gemini":
		return gemini.NewFactory(f.cfg, f.logger).CreateClient()
	case "bedrock":
		return bedrock.NewFactory(f.cfg, f.logger).CreateClient()
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", provider)
	}
}
