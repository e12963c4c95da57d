package openai

import (
	"context"
	"fmt"

	"github.com/sashabaranov/go-openai"
	"go.uber.org/zap"
)

// Client implements the Embedder and Generator interfaces against any
// OpenAI-compatible chat/embeddings API. With a custom base URL this is also
// how a local Ollama server is reached.
type Client struct {
	client          *openai.Client
	embeddingModel  string
	generationModel string
	maxTokens       int
	topP            float32
	logger          *zap.Logger
}

// NewClient creates a new OpenAI-compatible client. baseURL may be empty for
// the hosted OpenAI API.
func NewClient(
	apiKey string,
	baseURL string,
	embeddingModel string,
	generationModel string,
	maxTokens int,
	topP float32,
	logger *zap.Logger,
) *Client {
	cfg := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		cfg.BaseURL = baseURL
	}

	return &Client{
		client:          openai.NewClientWithConfig(cfg),
		embeddingModel:  embeddingModel,
		generationModel: generationModel,
		maxTokens:       maxTokens,
		topP:            topP,
		logger:          logger,
	}
}

// Embed returns one embedding per input text, in input order
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	resp, err := c.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(c.embeddingModel),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create embeddings: %w", err)
	}
	if len(resp.Data) != len(texts) {
		return nil, fmt.Errorf("embedding API returned %d vectors for %d inputs", len(resp.Data), len(texts))
	}

	// The API is allowed to reorder; restore input order by index
	embeddings := make([][]float32, len(texts))
	for _, item := range resp.Data {
		if item.Index < 0 || item.Index >= len(embeddings) {
			return nil, fmt.Errorf("embedding API returned out-of-range index %d", item.Index)
		}
		embeddings[item.Index] = item.Embedding
	}
	return embeddings, nil
}

// Generate produces text for the given prompt at the given temperature
func (c *Client) Generate(ctx context.Context, prompt string, temperature float32) (string, error) {
	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.generationModel,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleUser,
				Content: prompt,
			},
		},
		MaxTokens:   c.maxTokens,
		Temperature: temperature,
		TopP:        c.topP,
	})
	if err != nil {
		return "", fmt.Errorf("failed to create chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from model %s", c.generationModel)
	}

	return resp.Choices[0].Message.Content, nil
}
