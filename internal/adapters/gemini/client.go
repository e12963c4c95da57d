package gemini

import (
	"context"
	"fmt"

	"github.com/google/generative-ai-go/genai"
	"go.uber.org/zap"
	"google.golang.org/api/option"
)

// Client implements the Embedder and Generator interfaces using Google
// Gemini.
type Client struct {
	client          *genai.Client
	model           *genai.GenerativeModel
	embedder        *genai.EmbeddingModel
	generationModel string
	logger          *zap.Logger
}

// NewClient creates a new Gemini client
func NewClient(
	apiKey string,
	generationModel string,
	embeddingModel string,
	maxTokens int,
	topP float32,
	logger *zap.Logger,
) (*Client, error) {
	client, err := genai.NewClient(context.Background(), option.WithAPIKey(apiKey))
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	model := client.GenerativeModel(generationModel)
	model.SetTopP(topP)
	model.SetMaxOutputTokens(int32(maxTokens))

	return &Client{
		client:          client,
		model:           model,
		embedder:        client.EmbeddingModel(embeddingModel),
		generationModel: generationModel,
		logger:          logger,
	}, nil
}

// Close closes the underlying Gemini client
func (c *Client) Close() error {
	if c.client != nil {
		return c.client.Close()
	}
	return nil
}

// Embed returns one embedding per input text using a single batch call
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	batch := c.embedder.NewBatch()
	for _, text := range texts {
		batch.AddContent(genai.Text(text))
	}

	resp, err := c.embedder.BatchEmbedContents(ctx, batch)
	if err != nil {
		return nil, fmt.Errorf("failed to embed contents with Gemini: %w", err)
	}
	if len(resp.Embeddings) != len(texts) {
		return nil, fmt.Errorf("Gemini returned %d embeddings for %d inputs", len(resp.Embeddings), len(texts))
	}

	embeddings := make([][]float32, len(resp.Embeddings))
	for i, e := range resp.Embeddings {
		embeddings[i] = e.Values
	}
	return embeddings, nil
}

// Generate produces text for the given prompt at the given temperature.
// The temperature is set on the model before each call; the pipeline invokes
// capabilities sequentially, so this is not racy in practice.
func (c *Client) Generate(ctx context.Context, prompt string, temperature float32) (string, error) {
	c.model.SetTemperature(temperature)

	resp, err := c.model.GenerateContent(ctx, genai.Text(prompt))
	if err != nil {
		return "", fmt.Errorf("failed to generate content with Gemini: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil || len(resp.Candidates[0].Content.Parts) == 0 {
		return "", fmt.Errorf("empty response from Gemini model %s", c.generationModel)
	}

	return fmt.Sprintf("%v", resp.Candidates[0].Content.Parts[0]), nil
}
