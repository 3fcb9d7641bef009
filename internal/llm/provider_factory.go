package llm

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/Conceptual-Machines/review-generator/internal/config"
)

// ProviderFactory creates providers based on the configured backend
type ProviderFactory struct {
	cfg        *config.Config
	httpClient *http.Client
}

// NewProviderFactory creates a new provider factory
func NewProviderFactory(cfg *config.Config) *ProviderFactory {
	return &ProviderFactory{cfg: cfg}
}

// WithHTTPClient overrides the transport used by the providers
func (f *ProviderFactory) WithHTTPClient(client *http.Client) *ProviderFactory {
	f.httpClient = client
	return f
}

// GetProvider returns the provider for the given name, or the configured one when empty
func (f *ProviderFactory) GetProvider(ctx context.Context, providerName string) (Provider, error) {
	if providerName == "" {
		providerName = f.cfg.Provider
	}

	switch strings.ToLower(providerName) {
	case config.ProviderSarvam, config.ProviderOpenAI:
		if f.cfg.CompletionAPIKey == "" {
			return nil, fmt.Errorf("completion API key not configured")
		}
		return NewOpenAIProvider(OpenAIConfig{
			Endpoint:   f.cfg.CompletionEndpoint,
			APIKey:     f.cfg.CompletionAPIKey,
			AuthHeader: f.cfg.CompletionAuthKey,
			HTTPClient: f.httpClient,
		}), nil

	case config.ProviderGemini:
		if f.cfg.GeminiAPIKey == "" {
			return nil, fmt.Errorf("gemini API key not configured")
		}
		provider, err := NewGeminiProvider(ctx, GeminiConfig{
			APIKey:     f.cfg.GeminiAPIKey,
			HTTPClient: f.httpClient,
		})
		if err != nil {
			return nil, err
		}
		return provider, nil

	default:
		return nil, fmt.Errorf("unknown provider: %s (allowed: sarvam, openai, gemini)", providerName)
	}
}

// NewClient builds a Client for the configured provider and model
func (f *ProviderFactory) NewClient(ctx context.Context) (*Client, error) {
	provider, err := f.GetProvider(ctx, "")
	if err != nil {
		return nil, err
	}
	return NewClient(provider, f.cfg.ActiveModel(), f.cfg.RequestTimeout), nil
}
