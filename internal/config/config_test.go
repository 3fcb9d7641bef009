package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Provider:           ProviderSarvam,
		CompletionAPIKey:   "sk_test_0123456789",
		CompletionEndpoint: "https://example.test/v1/chat/completions",
		CompletionModel:    "sarvam-m",
		RequestTimeout:     30 * time.Second,
		HistoryBackend:     HistoryBackendFile,
		HistoryFile:        "reviews_history.jsonl",
	}
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "")
	t.Setenv("HISTORY_BACKEND", "")
	t.Setenv("HISTORY_FILE", "")

	cfg := Load()
	assert.Equal(t, ProviderSarvam, cfg.Provider)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "sarvam-m", cfg.CompletionModel)
	assert.Equal(t, "api-subscription-key", cfg.CompletionAuthKey)
	assert.Equal(t, HistoryBackendFile, cfg.HistoryBackend)
	assert.Equal(t, "reviews_history.json", cfg.HistoryFile)
}

func TestLoadReadsEnvironment(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "Gemini")
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "12")
	t.Setenv("GEMINI_API_KEY", "gm-0123456789")

	cfg := Load()
	assert.Equal(t, ProviderGemini, cfg.Provider)
	assert.Equal(t, 12*time.Second, cfg.RequestTimeout)
	assert.Equal(t, cfg.GeminiModel, cfg.ActiveModel())
}

func TestLoadIgnoresBadTimeout(t *testing.T) {
	t.Setenv("REQUEST_TIMEOUT_SECONDS", "soon")
	assert.Equal(t, 30*time.Second, Load().RequestTimeout)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
		field  string
	}{
		{name: "valid", mutate: func(_ *Config) {}},
		{name: "missing key", mutate: func(c *Config) { c.CompletionAPIKey = "" }, field: "SARVAM_API_KEY"},
		{name: "short key", mutate: func(c *Config) { c.CompletionAPIKey = "abc" }, field: "SARVAM_API_KEY"},
		{name: "unknown provider", mutate: func(c *Config) { c.Provider = "bard" }, field: "LLM_PROVIDER"},
		{name: "gemini without key", mutate: func(c *Config) { c.Provider = ProviderGemini }, field: "GEMINI_API_KEY"},
		{name: "zero timeout", mutate: func(c *Config) { c.RequestTimeout = 0 }, field: "REQUEST_TIMEOUT_SECONDS"},
		{name: "postgres without dsn", mutate: func(c *Config) { c.HistoryBackend = HistoryBackendPostgres }, field: "DATABASE_URL"},
		{name: "unknown backend", mutate: func(c *Config) { c.HistoryBackend = "redis" }, field: "HISTORY_BACKEND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.field == "" {
				require.NoError(t, err)
				return
			}
			var cfgErr *ConfigurationError
			require.True(t, errors.As(err, &cfgErr))
			assert.Equal(t, tt.field, cfgErr.Field)
		})
	}
}
