package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Conceptual-Machines/review-generator/internal/logger"
	"github.com/Conceptual-Machines/review-generator/internal/models"
	"github.com/Conceptual-Machines/review-generator/internal/variation"
)

// Client sends one completion per call and shapes the reply into a GenerationResult
type Client struct {
	provider Provider
	model    string
	timeout  time.Duration
}

// NewClient creates a completion client bound to one provider and model
func NewClient(provider Provider, model string, timeout time.Duration) *Client {
	return &Client{
		provider: provider,
		model:    model,
		timeout:  timeout,
	}
}

// Provider returns the underlying provider
func (c *Client) Provider() Provider {
	return c.provider
}

// Model returns the model name sent with each request
func (c *Client) Model() string {
	return c.model
}

// Complete performs a single completion. It never returns an error: failures
// are reported through the result's ErrorKind and Error fields.
func (c *Client) Complete(
	ctx context.Context, userPrompt, systemPrompt string, sampling Sampling, window variation.LengthRange,
) models.GenerationResult {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	start := time.Now()
	resp, err := c.provider.Complete(ctx, &CompletionRequest{
		Model:        c.model,
		SystemPrompt: systemPrompt,
		UserPrompt:   userPrompt,
		Sampling:     sampling,
	})
	if err != nil {
		classified := Classify(err)
		logger.Warn("Completion failed", logger.Fields{
			"provider":    c.provider.Name(),
			"model":       c.model,
			"error_kind":  string(classified.Kind),
			"duration_ms": time.Since(start).Milliseconds(),
		})
		return models.Failed(classified.Kind, c.failureMessage(classified))
	}

	review := EnforceWindow(StripQuotes(resp.Text), window.Min, window.Max)
	if strings.TrimSpace(review) == "" {
		classified := responseError(nil, fmt.Errorf("completion contained no review text"))
		logger.Warn("Completion returned empty text", logger.Fields{
			"provider":   c.provider.Name(),
			"model":      c.model,
			"error_kind": string(classified.Kind),
		})
		return models.Failed(classified.Kind, c.failureMessage(classified))
	}
	result := models.Succeeded(review, resp.Usage)
	logger.LogGenerationRequest(ctx, c.model, time.Since(start), resp.Usage, logger.Fields{
		"provider":   c.provider.Name(),
		"char_count": result.CharCount,
		"window_min": window.Min,
		"window_max": window.Max,
	})
	return result
}

func (c *Client) failureMessage(err *Error) string {
	switch err.Kind {
	case models.ErrAPI:
		return fmt.Sprintf("API Error %d: %s", err.StatusCode, err.Body)
	case models.ErrTimeout:
		return fmt.Sprintf("Request timeout. API took too long to respond (%d seconds).", int(c.timeout.Seconds()))
	case models.ErrConnection:
		return fmt.Sprintf("Connection error: %v", err.Err)
	default:
		return fmt.Sprintf("Unexpected error: %v", err.Err)
	}
}
