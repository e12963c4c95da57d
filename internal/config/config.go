package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	v *viper.Viper
}

// New creates a new configuration instance
func New() (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("/etc/email-assistant/")
	v.AddConfigPath("$HOME/.email-assistant")
	v.AddConfigPath("./configs")
	v.AddConfigPath(".")

	// Set defaults
	setDefaults(v)

	// Environment variables
	v.AutomaticEnv()
	v.SetEnvPrefix("EMAIL_ASSISTANT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Read config file
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found, using defaults
	}

	return &Config{v: v}, nil
}

// NewFromViper creates a new configuration instance from an existing Viper instance
func NewFromViper(v *viper.Viper) *Config {
	return &Config{v: v}
}

// NewEmptyViper creates a new Viper instance with defaults
func NewEmptyViper() *viper.Viper {
	v := viper.New()
	setDefaults(v)
	return v
}

// setDefaults sets the default configuration values
func setDefaults(v *viper.Viper) {
	// LLM provider defaults; the embedding provider falls back to the
	// generation provider when unset
	v.SetDefault("llm.provider", "ollama")
	v.SetDefault("llm.embedding_provider", "")

	// Ollama defaults
	v.SetDefault("ollama.base_url", "http://localhost:11434")
	v.SetDefault("ollama.llm_model", "llama3.1:8b")
	v.SetDefault("ollama.embedding_model", "llama3.1:8b")
	v.SetDefault("ollama.max_tokens", 1000)
	v.SetDefault("ollama.top_p", 0.9)

	// OpenAI defaults
	v.SetDefault("openai.api_key", "")
	v.SetDefault("openai.base_url", "")
	v.SetDefault("openai.llm_model", "gpt-4")
	v.SetDefault("openai.embedding_model", "text-embedding-3-small")
	v.SetDefault("openai.max_tokens", 1000)
	v.SetDefault("openai.top_p", 0.9)

	// Gemini defaults
	v.SetDefault("gemini.api_key", "")
	v.SetDefault("gemini.llm_model", "gemini-pro")
	v.SetDefault("gemini.embedding_model", "text-embedding-004")
	v.SetDefault("gemini.max_tokens", 1000)
	v.SetDefault("gemini.top_p", 0.9)

	// Bedrock defaults
	v.SetDefault("bedrock.region", "us-east-1")
	v.SetDefault("bedrock.llm_model_id", "anthropic.claude-v2")
	v.SetDefault("bedrock.embedding_model_id", "amazon.titan-embed-text-v1")
	v.SetDefault("bedrock.max_tokens", 1000)
	v.SetDefault("bedrock.top_p", 0.9)

	// Mail source defaults
	v.SetDefault("mail.source", "imap")
	v.SetDefault("mail.imap_server", "imap.gmail.com:993")
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.app_password", "")
	v.SetDefault("mail.mailbox", "INBOX")
	v.SetDefault("mail.start_date", "")
	v.SetDefault("mail.end_date", "")

	// Vector store defaults
	v.SetDefault("store.type", "sqlite")
	v.SetDefault("store.sqlite_path", "data/email_index.db")
	v.SetDefault("store.mysql_dsn", "user:password@tcp(localhost:3306)/email_assistant")
	v.SetDefault("store.collection", "emails")
	v.SetDefault("store.metric", "cosine")

	// Index build defaults
	v.SetDefault("index.embed_batch_size", 32)
	v.SetDefault("index.max_body_size", 8192)
	v.SetDefault("index.ignored_domains", []string{})

	// Query defaults
	v.SetDefault("query.retrieval_count", 50)
	v.SetDefault("query.temperature", 0.2)
	v.SetDefault("query.context_budget", 16384)

	// Logging defaults
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// GetString gets a string value from the configuration
func (c *Config) GetString(key string) string {
	return c.v.GetString(key)
}

// GetInt gets an integer value from the configuration
func (c *Config) GetInt(key string) int {
	return c.v.GetInt(key)
}

// GetFloat64 gets a float64 value from the configuration
func (c *Config) GetFloat64(key string) float64 {
	return c.v.GetFloat64(key)
}

// GetBool gets a boolean value from the configuration
func (c *Config) GetBool(key string) bool {
	return c.v.GetBool(key)
}

// GetStringSlice gets a string slice value from the configuration
func (c *Config) GetStringSlice(key string) []string {
	return c.v.GetStringSlice(key)
}

// GetDuration gets a duration value from the configuration
func (c *Config) GetDuration(key string) (time.Duration, error) {
	return time.ParseDuration(c.GetString(key))
}

// GetViper returns the underlying Viper instance
func (c *Config) GetViper() *viper.Viper {
	return c.v
}
