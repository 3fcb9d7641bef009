package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/Conceptual-Machines/review-generator/internal/logger"
	"github.com/Conceptual-Machines/review-generator/internal/models"
	"github.com/getsentry/sentry-go"
	"github.com/openai/openai-go"
)

const (
	providerNameOpenAI  = "openai"
	authorizationHeader = "Authorization"
	maxErrorBodyChars   = 500
)

// OpenAIConfig configures an OpenAI-compatible chat completions endpoint
type OpenAIConfig struct {
	Endpoint   string // full chat completions URL
	APIKey     string
	AuthHeader string       // header carrying the key; Authorization gets a Bearer prefix
	HTTPClient *http.Client // optional
}

// OpenAIProvider talks to any OpenAI-compatible chat completions endpoint.
// Request and response bodies use the openai-go wire types; transport is a raw
// HTTP call so status codes and bodies reach the caller untouched and nothing is retried.
type OpenAIProvider struct {
	endpoint   string
	apiKey     string
	authHeader string
	httpClient *http.Client
}

// NewOpenAIProvider creates a new OpenAI-compatible provider
func NewOpenAIProvider(cfg OpenAIConfig) *OpenAIProvider {
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{}
	}
	header := cfg.AuthHeader
	if header == "" {
		header = authorizationHeader
	}
	return &OpenAIProvider{
		endpoint:   cfg.Endpoint,
		apiKey:     cfg.APIKey,
		authHeader: header,
		httpClient: client,
	}
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return providerNameOpenAI
}

// Complete implements Provider
func (p *OpenAIProvider) Complete(ctx context.Context, request *CompletionRequest) (*CompletionResponse, error) {
	span := sentry.StartSpan(ctx, "openai.chat_completion")
	span.SetTag("model", request.Model)
	defer span.Finish()

	payload, err := json.Marshal(p.buildRequestParams(request))
	if err != nil {
		return nil, fmt.Errorf("marshal completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("create completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if strings.EqualFold(p.authHeader, authorizationHeader) {
		httpReq.Header.Set(authorizationHeader, "Bearer "+p.apiKey)
	} else {
		httpReq.Header.Set(p.authHeader, p.apiKey)
	}

	start := time.Now()
	httpResp, err := p.httpClient.Do(httpReq)
	if err != nil {
		span.Status = sentry.SpanStatusUnavailable
		return nil, Classify(err)
	}
	defer func() {
		if closeErr := httpResp.Body.Close(); closeErr != nil {
			logger.Warn("Failed to close response body", logger.Fields{"error": closeErr.Error()})
		}
	}()

	body, err := io.ReadAll(httpResp.Body)
	if err != nil {
		span.Status = sentry.SpanStatusUnavailable
		return nil, Classify(err)
	}

	span.SetData("status_code", httpResp.StatusCode)
	span.SetData("duration_ms", time.Since(start).Milliseconds())

	if httpResp.StatusCode < http.StatusOK || httpResp.StatusCode >= http.StatusMultipleChoices {
		span.Status = sentry.SpanStatusInternalError
		logger.Warn("Completion API returned an error status", logger.Fields{
			"status_code": httpResp.StatusCode,
			"body":        truncate(string(body), maxErrorBodyChars),
			"model":       request.Model,
		})
		return nil, &Error{Kind: models.ErrAPI, StatusCode: httpResp.StatusCode, Body: string(body)}
	}

	resp, err := parseCompletion(body)
	if err != nil {
		span.Status = sentry.SpanStatusInternalError
		return nil, err
	}
	span.Status = sentry.SpanStatusOK
	return resp, nil
}

// buildRequestParams converts a CompletionRequest to chat completion params
func (p *OpenAIProvider) buildRequestParams(request *CompletionRequest) openai.ChatCompletionNewParams {
	s := request.Sampling
	return openai.ChatCompletionNewParams{
		Model: openai.ChatModel(request.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(request.SystemPrompt),
			openai.UserMessage(request.UserPrompt),
		},
		Temperature:      openai.Float(s.Temperature),
		MaxTokens:        openai.Int(int64(s.MaxTokens)),
		FrequencyPenalty: openai.Float(s.FrequencyPenalty),
		PresencePenalty:  openai.Float(s.PresencePenalty),
	}
}

// parseCompletion extracts the first choice and the raw usage block
func parseCompletion(body []byte) (*CompletionResponse, error) {
	var completion openai.ChatCompletion
	if err := json.Unmarshal(body, &completion); err != nil {
		return nil, responseError(body, fmt.Errorf("parse completion: %w", err))
	}
	if len(completion.Choices) == 0 {
		return nil, responseError(body, fmt.Errorf("no choices in response"))
	}
	content := completion.Choices[0].Message.Content
	if strings.TrimSpace(content) == "" {
		return nil, responseError(body, fmt.Errorf("empty message content in response"))
	}

	// usage is passed through as the provider reported it
	var envelope struct {
		Usage map[string]any `json:"usage"`
	}
	_ = json.Unmarshal(body, &envelope)
	usage := envelope.Usage
	if usage == nil {
		usage = map[string]any{}
	}

	return &CompletionResponse{
		Text:  content,
		Usage: usage,
	}, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
