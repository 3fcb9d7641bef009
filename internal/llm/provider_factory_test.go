package llm

import (
	"context"
	"testing"
	"time"

	"github.com/Conceptual-Machines/review-generator/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func factoryConfig() *config.Config {
	return &config.Config{
		Provider:           config.ProviderSarvam,
		CompletionAPIKey:   "test-subscription-key",
		CompletionEndpoint: "http://localhost/v1/chat/completions",
		CompletionModel:    "sarvam-m",
		CompletionAuthKey:  "api-subscription-key",
		GeminiAPIKey:       "test-gemini-key",
		GeminiModel:        "gemini-2.5-flash",
		RequestTimeout:     30 * time.Second,
	}
}

func TestProviderFactory_GetProvider(t *testing.T) {
	f := NewProviderFactory(factoryConfig())

	tests := []struct {
		name     string
		provider string
		wantName string
	}{
		{"configured default", "", "openai"},
		{"sarvam", "sarvam", "openai"},
		{"openai", "OpenAI", "openai"},
		{"gemini", "gemini", "gemini"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := f.GetProvider(context.Background(), tt.provider)
			require.NoError(t, err)
			assert.Equal(t, tt.wantName, p.Name())
		})
	}
}

func TestProviderFactory_Errors(t *testing.T) {
	cfg := factoryConfig()
	cfg.CompletionAPIKey = ""
	cfg.GeminiAPIKey = ""
	f := NewProviderFactory(cfg)

	_, err := f.GetProvider(context.Background(), "sarvam")
	assert.ErrorContains(t, err, "completion API key not configured")

	_, err = f.GetProvider(context.Background(), "gemini")
	assert.ErrorContains(t, err, "gemini API key not configured")

	_, err = f.GetProvider(context.Background(), "anthropic")
	assert.ErrorContains(t, err, "unknown provider")
}

func TestProviderFactory_NewClient(t *testing.T) {
	client, err := NewProviderFactory(factoryConfig()).NewClient(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "sarvam-m", client.Model())
	assert.Equal(t, "openai", client.Provider().Name())
}
