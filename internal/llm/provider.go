package llm

import (
	"context"
)

// Provider defines the interface for completion backends.
// A provider makes exactly one upstream call per Complete and never retries.
type Provider interface {
	// Complete sends the system and user prompt and returns the raw generated text
	Complete(ctx context.Context, request *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name (e.g., "openai", "gemini")
	Name() string
}

// Sampling holds the generation knobs sent with every request
type Sampling struct {
	Temperature      float64
	MaxTokens        int
	FrequencyPenalty float64 // discourages repeated tokens
	PresencePenalty  float64 // discourages repeated topics
}

// CompletionRequest contains all parameters needed for one completion
type CompletionRequest struct {
	Model        string
	SystemPrompt string
	UserPrompt   string
	Sampling     Sampling
}

// CompletionResponse contains the unshaped result from the provider
type CompletionResponse struct {
	Text  string
	Usage map[string]any // provider-reported usage, passed through verbatim
}
