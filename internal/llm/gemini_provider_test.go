package llm

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Conceptual-Machines/review-generator/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/genai"
)

func newTestGemini(t *testing.T, handler http.HandlerFunc) *GeminiProvider {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	provider, err := NewGeminiProvider(context.Background(), GeminiConfig{
		APIKey:  "test-gemini-key",
		BaseURL: server.URL + "/",
	})
	require.NoError(t, err)
	return provider
}

func TestGeminiProvider_Name(t *testing.T) {
	provider := &GeminiProvider{client: nil}
	assert.Equal(t, "gemini", provider.Name())
}

func TestGeminiProvider_Complete(t *testing.T) {
	var path string
	var got map[string]any
	provider := newTestGemini(t, func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"candidates": [{"content": {"role": "model", "parts": [{"text": "Great chai, "}, {"text": "friendly staff."}]}}],
			"usageMetadata": {"promptTokenCount": 120, "candidatesTokenCount": 30, "totalTokenCount": 150}
		}`)
	})

	resp, err := provider.Complete(context.Background(), &CompletionRequest{
		Model:        "gemini-2.5-flash",
		SystemPrompt: "system",
		UserPrompt:   "write a review",
		Sampling:     Sampling{Temperature: 0.8, MaxTokens: 100},
	})
	require.NoError(t, err)

	assert.Equal(t, "Great chai, friendly staff.", resp.Text)
	assert.Equal(t, 150, resp.Usage["total_tokens"])
	assert.Equal(t, 120, resp.Usage["prompt_tokens"])
	assert.Equal(t, 30, resp.Usage["completion_tokens"])
	assert.True(t, strings.HasSuffix(path, "models/gemini-2.5-flash:generateContent"), path)
	assert.Contains(t, got, "systemInstruction")
}

func TestGeminiProvider_APIError(t *testing.T) {
	provider := newTestGemini(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error": {"code": 400, "message": "API key not valid", "status": "INVALID_ARGUMENT"}}`)
	})

	_, err := provider.Complete(context.Background(), &CompletionRequest{Model: "gemini-2.5-flash", UserPrompt: "x"})
	require.Error(t, err)

	classified := Classify(err)
	assert.Equal(t, models.ErrAPI, classified.Kind)
	assert.Equal(t, http.StatusBadRequest, classified.StatusCode)
	assert.Contains(t, classified.Body, "API key not valid")
}

func TestGeminiProvider_EmptyCandidates(t *testing.T) {
	provider := newTestGemini(t, func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{"candidates": []}`)
	})

	_, err := provider.Complete(context.Background(), &CompletionRequest{Model: "gemini-2.5-flash", UserPrompt: "x"})
	require.Error(t, err)
	assert.Equal(t, models.ErrResponse, Classify(err).Kind)
}

func TestGeminiUsageNil(t *testing.T) {
	assert.Empty(t, geminiUsage(nil))
	assert.Equal(t, 7, geminiUsage(&genai.GenerateContentResponseUsageMetadata{TotalTokenCount: 7})["total_tokens"])
}
