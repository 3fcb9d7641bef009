package services

import "github.com/Conceptual-Machines/review-generator/internal/llm"

// Sampling defaults sent with every completion
const (
	defaultTemperature      = 0.8
	defaultMaxTokens        = 100
	defaultFrequencyPenalty = 0.5
	defaultPresencePenalty  = 0.3
)

// DefaultSampling returns the sampling parameters used for review generation.
// The penalties push the model away from repeating itself across reviews.
func DefaultSampling() llm.Sampling {
	return llm.Sampling{
		Temperature:      defaultTemperature,
		MaxTokens:        defaultMaxTokens,
		FrequencyPenalty: defaultFrequencyPenalty,
		PresencePenalty:  defaultPresencePenalty,
	}
}
