package bedrock

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
	"go.uber.org/zap"
)

// Client implements the Embedder and Generator interfaces using Amazon
// Bedrock. Embeddings go through a Titan embedding model; generation
// supports the Anthropic Claude and Amazon Titan payload shapes.
type Client struct {
	client          *bedrockruntime.Client
	generationModel string
	embeddingModel  string
	maxTokens       int
	topP            float32
	logger          *zap.Logger
}

// NewClient creates a new Bedrock client
func NewClient(
	client *bedrockruntime.Client,
	generationModel string,
	embeddingModel string,
	maxTokens int,
	topP float32,
	logger *zap.Logger,
) *Client {
	return &Client{
		client:          client,
		generationModel: generationModel,
		embeddingModel:  embeddingModel,
		maxTokens:       maxTokens,
		topP:            topP,
		logger:          logger,
	}
}

// Embed returns one embedding per input text. The Titan embedding API takes
// a single input per invocation, so texts are embedded one call each.
func (c *Client) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	embeddings := make([][]float32, len(texts))
	for i, text := range texts {
		payload, err := json.Marshal(map[string]interface{}{
			"inputText": text,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to marshal embedding payload: %w", err)
		}

		resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
			ModelId:     &c.embeddingModel,
			Body:        payload,
			Accept:      aws.String("application/json"),
			ContentType: aws.String("application/json"),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to invoke Bedrock embedding model: %w", err)
		}

		var embeddingResp struct {
			Embedding []float32 `json:"embedding"`
		}
		if err := json.Unmarshal(resp.Body, &embeddingResp); err != nil {
			return nil, fmt.Errorf("failed to unmarshal embedding response: %w", err)
		}
		if len(embeddingResp.Embedding) == 0 {
			return nil, fmt.Errorf("empty embedding from Bedrock model %s", c.embeddingModel)
		}
		embeddings[i] = embeddingResp.Embedding
	}
	return embeddings, nil
}

// Generate produces text for the given prompt at the given temperature
func (c *Client) Generate(ctx context.Context, prompt string, temperature float32) (string, error) {
	var payload []byte
	var err error

	if c.isAnthropicModel() {
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":               fmt.Sprintf("\n\nHuman: %s\n\nAssistant:", prompt),
			"max_tokens_to_sample": c.maxTokens,
			"temperature":          temperature,
			"top_p":                c.topP,
		})
	} else if c.isAmazonTitanModel() {
		payload, err = json.Marshal(map[string]interface{}{
			"inputText": prompt,
			"textGenerationConfig": map[string]interface{}{
				"maxTokenCount": c.maxTokens,
				"temperature":   temperature,
				"topP":          c.topP,
			},
		})
	} else {
		payload, err = json.Marshal(map[string]interface{}{
			"prompt":      prompt,
			"max_tokens":  c.maxTokens,
			"temperature": temperature,
			"top_p":       c.topP,
		})
	}
	if err != nil {
		return "", fmt.Errorf("failed to marshal request payload: %w", err)
	}

	resp, err := c.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     &c.generationModel,
		Body:        payload,
		Accept:      aws.String("application/json"),
		ContentType: aws.String("application/json"),
	})
	if err != nil {
		return "", fmt.Errorf("failed to invoke Bedrock model: %w", err)
	}

	if c.isAnthropicModel() {
		var claudeResp struct {
			Completion string `json:"completion"`
		}
		if err := json.Unmarshal(resp.Body, &claudeResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Claude response: %w", err)
		}
		return claudeResp.Completion, nil
	}

	if c.isAmazonTitanModel() {
		var titanResp struct {
			Results []struct {
				OutputText string `json:"outputText"`
			} `json:"results"`
		}
		if err := json.Unmarshal(resp.Body, &titanResp); err != nil {
			return "", fmt.Errorf("failed to unmarshal Titan response: %w", err)
		}
		if len(titanResp.Results) == 0 {
			return "", fmt.Errorf("empty response from Titan model")
		}
		return titanResp.Results[0].OutputText, nil
	}

	var genericResp struct {
		Output   string `json:"output"`
		Text     string `json:"text"`
		Response string `json:"response"`
	}
	if err := json.Unmarshal(resp.Body, &genericResp); err != nil {
		return "", fmt.Errorf("failed to unmarshal generic response: %w", err)
	}
	switch {
	case genericResp.Output != "":
		return genericResp.Output, nil
	case genericResp.Text != "":
		return genericResp.Text, nil
	case genericResp.Response != "":
		return genericResp.Response, nil
	default:
		return string(resp.Body), nil
	}
}

// isAnthropicModel checks if the generation model is an Anthropic Claude model
func (c *Client) isAnthropicModel() bool {
	return strings.HasPrefix(c.generationModel, "anthropic.claude")
}

// isAmazonTitanModel checks if the generation model is an Amazon Titan model
func (c *Client) isAmazonTitanModel() bool {
	return strings.HasPrefix(c.generationModel, "amazon.titan")
}
