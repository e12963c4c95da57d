package openai

import (
	"github.com/supriyakanse/agent-email-query/internal/config"
	"go.uber.org/zap"
)

// Factory creates new instances of Client
type Factory struct {
	cfg    *config.Config
	logger *zap.Logger
}

// NewFactory creates a new factory for OpenAI clients
func NewFactory(cfg *config.Config, logger *zap.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		logger: logger,
	}
}

// CreateClient creates a client for the hosted OpenAI API
func (f *Factory) CreateClient() *Client {
	openaiCfg := f.cfg.GetOpenAI()

	return NewClient(
		openaiCfg.APIKey,
		openaiCfg.BaseURL,
		openaiCfg.EmbeddingModel,
		openaiCfg.LLMModel,
		openaiCfg.MaxTokens,
		openaiCfg.TopP,
		f.logger,
	)
}

// CreateOllamaClient creates a client for a local Ollama server through its
// OpenAI-compatible endpoint. Ollama ignores the API key but the client
// requires one to be set.
func (f *Factory) CreateOllamaClient() *Client {
	ollamaCfg := f.cfg.GetOllama()

	return NewClient(
		"ollama",
		ollamaCfg.BaseURL+"/v1",
		ollamaCfg.EmbeddingModel,
		ollamaCfg.LLMModel,
		ollamaCfg.MaxTokens,
		ollamaCfg.TopP,
		f.logger,
	)
}
