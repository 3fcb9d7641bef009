package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/Conceptual-Machines/review-generator/internal/models"
	"github.com/getsentry/sentry-go"
	"google.golang.org/genai"
)

const providerNameGemini = "gemini"

// GeminiConfig configures the Gemini backend
type GeminiConfig struct {
	APIKey     string
	BaseURL    string       // optional override of the Gemini API host
	HTTPClient *http.Client // optional
}

// GeminiProvider implements Provider using Google's Gemini API
type GeminiProvider struct {
	client *genai.Client
}

// NewGeminiProvider creates a new Gemini provider
func NewGeminiProvider(ctx context.Context, cfg GeminiConfig) (*GeminiProvider, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: cfg.HTTPClient,
	}
	if cfg.BaseURL != "" {
		clientCfg.HTTPOptions = genai.HTTPOptions{BaseURL: cfg.BaseURL}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}
	return &GeminiProvider{client: client}, nil
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return providerNameGemini
}

// Complete implements Provider
func (p *GeminiProvider) Complete(ctx context.Context, request *CompletionRequest) (*CompletionResponse, error) {
	span := sentry.StartSpan(ctx, "gemini.generate_content")
	span.SetTag("model", request.Model)
	defer span.Finish()

	s := request.Sampling
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: request.SystemPrompt}},
		},
		Temperature:      genai.Ptr(float32(s.Temperature)),
		MaxOutputTokens:  int32(s.MaxTokens),
		FrequencyPenalty: genai.Ptr(float32(s.FrequencyPenalty)),
		PresencePenalty:  genai.Ptr(float32(s.PresencePenalty)),
	}

	result, err := p.client.Models.GenerateContent(ctx, request.Model, genai.Text(request.UserPrompt), config)
	if err != nil {
		span.Status = sentry.SpanStatusInternalError
		return nil, classifyGeminiError(err)
	}

	text := geminiText(result)
	if strings.TrimSpace(text) == "" {
		span.Status = sentry.SpanStatusInternalError
		return nil, responseError(nil, fmt.Errorf("gemini response did not include any output text"))
	}

	span.Status = sentry.SpanStatusOK
	return &CompletionResponse{
		Text:  text,
		Usage: geminiUsage(result.UsageMetadata),
	}, nil
}

func classifyGeminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &Error{Kind: models.ErrAPI, StatusCode: apiErr.Code, Body: apiErr.Message, Err: err}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return &Error{Kind: models.ErrAPI, StatusCode: apiErrPtr.Code, Body: apiErrPtr.Message, Err: err}
	}
	return Classify(err)
}

func geminiText(result *genai.GenerateContentResponse) string {
	if result == nil || len(result.Candidates) == 0 {
		return ""
	}
	candidate := result.Candidates[0]
	if candidate.Content == nil {
		return ""
	}
	var sb strings.Builder
	for _, part := range candidate.Content.Parts {
		if part != nil {
			sb.WriteString(part.Text)
		}
	}
	return sb.String()
}

// geminiUsage maps usage metadata onto the chat completion usage keys
func geminiUsage(meta *genai.GenerateContentResponseUsageMetadata) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return map[string]any{
		"prompt_tokens":     int(meta.PromptTokenCount),
		"completion_tokens": int(meta.CandidatesTokenCount),
		"total_tokens":      int(meta.TotalTokenCount),
	}
}
