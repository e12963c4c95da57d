package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestConfig() *Config {
	return NewFromViper(NewEmptyViper())
}

func TestDefaults(t *testing.T) {
	cfg := newTestConfig()

	assert.Equal(t, "ollama", cfg.GetLLM().Provider)
	assert.Equal(t, "http://localhost:11434", cfg.GetOllama().BaseURL)
	assert.Equal(t, "imap", cfg.GetMail().Source)
	assert.Equal(t, "INBOX", cfg.GetMail().Mailbox)
	assert.Equal(t, "sqlite", cfg.GetStore().Type)
	assert.Equal(t, "emails", cfg.GetStore().Collection)
	assert.Equal(t, "cosine", cfg.GetStore().Metric)
	assert.Equal(t, 32, cfg.GetIndex().EmbedBatchSize)
	assert.Equal(t, 50, cfg.GetQuery().RetrievalCount)
	assert.Equal(t, 16384, cfg.GetQuery().ContextBudget)
	assert.InDelta(t, 0.2, cfg.GetQuery().Temperature, 0.001)
	assert.Empty(t, cfg.GetIndex().IgnoredDomains)
}

func TestEmbeddingProviderFallsBackToGenerationProvider(t *testing.T) {
	cfg := newTestConfig()
	cfg.GetViper().Set("llm.provider", "gemini")

	llm := cfg.GetLLM()
	assert.Equal(t, "gemini", llm.Provider)
	assert.Equal(t, "gemini", llm.EmbeddingProvider)

	cfg.GetViper().Set("llm.embedding_provider", "openai")
	llm = cfg.GetLLM()
	assert.Equal(t, "gemini", llm.Provider)
	assert.Equal(t, "openai", llm.EmbeddingProvider)
}

func TestValidateMail(t *testing.T) {
	cfg := newTestConfig()

	err := cfg.ValidateMail()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "mail.username")
	assert.Contains(t, err.Error(), "mail.app_password")
	assert.NotContains(t, err.Error(), "mail.imap_server")

	cfg.GetViper().Set("mail.username", "alice@example.com")
	cfg.GetViper().Set("mail.app_password", "secret")
	assert.NoError(t, cfg.ValidateMail())
}

func TestValidateQuery(t *testing.T) {
	cfg := newTestConfig()
	assert.NoError(t, cfg.ValidateQuery())

	cfg.GetViper().Set("query.retrieval_count", 0)
	err := cfg.ValidateQuery()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query.retrieval_count")

	cfg.GetViper().Set("query.retrieval_count", 10)
	cfg.GetViper().Set("query.temperature", 1.5)
	err = cfg.ValidateQuery()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "query.temperature")
}

func TestEnvironmentOverride(t *testing.T) {
	t.Setenv("EMAIL_ASSISTANT_LLM_PROVIDER", "openai")

	cfg, err := New()
	require.NoError(t, err)
	assert.Equal(t, "openai", cfg.GetLLM().Provider)
}
