package config

import (
	"fmt"
	"strings"
)

// LLMConfig represents which providers back the two model capabilities
type LLMConfig struct {
	Provider          string
	EmbeddingProvider string
}

// OllamaConfig represents the configuration for a local Ollama server,
// reached through its OpenAI-compatible API
type OllamaConfig struct {
	BaseURL        string
	LLMModel       string
	EmbeddingModel string
	MaxTokens      int
	TopP           float32
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey         string
	BaseURL        string
	LLMModel       string
	EmbeddingModel string
	MaxTokens      int
	TopP           float32
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey         string
	LLMModel       string
	EmbeddingModel string
	MaxTokens      int
	TopP           float32
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region           string
	LLMModelID       string
	EmbeddingModelID string
	MaxTokens        int
	TopP             float32
}

// MailConfig represents the configuration for the mail source
type MailConfig struct {
	Source      string
	IMAPServer  string
	Username    string
	AppPassword string
	Mailbox     string
	StartDate   string
	EndDate     string
}

// StoreConfig represents the configuration for the persisted vector store
type StoreConfig struct {
	Type       string
	SQLitePath string
	MySQLDSN   string
	Collection string
	Metric     string
}

// IndexConfig represents the configuration for index builds
type IndexConfig struct {
	EmbedBatchSize int
	MaxBodySize    int
	IgnoredDomains []string
}

// QueryConfig represents the configuration for the query phase
type QueryConfig struct {
	RetrievalCount int
	Temperature    float32
	ContextBudget  int
}

// GetLLM returns the LLM capability configuration. The embedding provider
// defaults to the generation provider, matching the original single-model
// setup.
func (c *Config) GetLLM() LLMConfig {
	provider := c.GetString("llm.provider")
	embeddingProvider := c.GetString("llm.embedding_provider")
	if embeddingProvider == "" {
		embeddingProvider = provider
	}
	return LLMConfig{
		Provider:          provider,
		EmbeddingProvider: embeddingProvider,
	}
}

// GetOllama returns the Ollama configuration
func (c *Config) GetOllama() OllamaConfig {
	return OllamaConfig{
		BaseURL:        c.GetString("ollama.base_url"),
		LLMModel:       c.GetString("ollama.llm_model"),
		EmbeddingModel: c.GetString("ollama.embedding_model"),
		MaxTokens:      c.GetInt("ollama.max_tokens"),
		TopP:           float32(c.GetFloat64("ollama.top_p")),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:         c.GetString("openai.api_key"),
		BaseURL:        c.GetString("openai.base_url"),
		LLMModel:       c.GetString("openai.llm_model"),
		EmbeddingModel: c.GetString("openai.embedding_model"),
		MaxTokens:      c.GetInt("openai.max_tokens"),
		TopP:           float32(c.GetFloat64("openai.top_p")),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:         c.GetString("gemini.api_key"),
		LLMModel:       c.GetString("gemini.llm_model"),
		EmbeddingModel: c.GetString("gemini.embedding_model"),
		MaxTokens:      c.GetInt("gemini.max_tokens"),
		TopP:           float32(c.GetFloat64("gemini.top_p")),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:           c.GetString("bedrock.region"),
		LLMModelID:       c.GetString("bedrock.llm_model_id"),
		EmbeddingModelID: c.GetString("bedrock.embedding_model_id"),
		MaxTokens:        c.GetInt("bedrock.max_tokens"),
		TopP:             float32(c.GetFloat64("bedrock.top_p")),
	}
}

// GetMail returns the mail source configuration
func (c *Config) GetMail() MailConfig {
	return MailConfig{
		Source:      c.GetString("mail.source"),
		IMAPServer:  c.GetString("mail.imap_server"),
		Username:    c.GetString("mail.username"),
		AppPassword: c.GetString("mail.app_password"),
		Mailbox:     c.GetString("mail.mailbox"),
		StartDate:   c.GetString("mail.start_date"),
		EndDate:     c.GetString("mail.end_date"),
	}
}

// GetStore returns the vector store configuration
func (c *Config) GetStore() StoreConfig {
	return StoreConfig{
		Type:       c.GetString("store.type"),
		SQLitePath: c.GetString("store.sqlite_path"),
		MySQLDSN:   c.GetString("store.mysql_dsn"),
		Collection: c.GetString("store.collection"),
		Metric:     c.GetString("store.metric"),
	}
}

// GetIndex returns the index build configuration
func (c *Config) GetIndex() IndexConfig {
	return IndexConfig{
		EmbedBatchSize: c.GetInt("index.embed_batch_size"),
		MaxBodySize:    c.GetInt("index.max_body_size"),
		IgnoredDomains: c.GetStringSlice("index.ignored_domains"),
	}
}

// GetQuery returns the query phase configuration
func (c *Config) GetQuery() QueryConfig {
	return QueryConfig{
		RetrievalCount: c.GetInt("query.retrieval_count"),
		Temperature:    float32(c.GetFloat64("query.temperature")),
		ContextBudget:  c.GetInt("query.context_budget"),
	}
}

// ValidateQuery checks that the query phase configuration is usable. A
// non-positive retrieval count would silently retrieve nothing.
func (c *Config) ValidateQuery() error {
	query := c.GetQuery()
	if query.RetrievalCount <= 0 {
		return fmt.Errorf("query.retrieval_count must be positive, got %d", query.RetrievalCount)
	}
	if query.Temperature < 0 || query.Temperature > 1 {
		return fmt.Errorf("query.temperature must be between 0 and 1, got %g", query.Temperature)
	}
	return nil
}

// ValidateMail checks that the configuration carries everything an index
// build needs from the mail source.
func (c *Config) ValidateMail() error {
	mail := c.GetMail()
	var missing []string
	if mail.Username == "" {
		missing = append(missing, "mail.username")
	}
	if mail.AppPassword == "" {
		missing = append(missing, "mail.app_password")
	}
	if mail.IMAPServer == "" {
		missing = append(missing, "mail.imap_server")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required mail configuration: %s", strings.Join(missing, ", "))
	}
	return nil
}
