package llm

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/Conceptual-Machines/review-generator/internal/models"
	"github.com/Conceptual-Machines/review-generator/internal/variation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockProvider is a test implementation of the Provider interface
type MockProvider struct {
	name         string
	completeFunc func(ctx context.Context, request *CompletionRequest) (*CompletionResponse, error)
	calls        int
	last         *CompletionRequest
}

func (m *MockProvider) Name() string {
	return m.name
}

func (m *MockProvider) Complete(ctx context.Context, request *CompletionRequest) (*CompletionResponse, error) {
	m.calls++
	m.last = request
	if m.completeFunc != nil {
		return m.completeFunc(ctx, request)
	}
	return &CompletionResponse{}, nil
}

type timeoutNetError struct{}

func (timeoutNetError) Error() string   { return "i/o timeout" }
func (timeoutNetError) Timeout() bool   { return true }
func (timeoutNetError) Temporary() bool { return true }

var _ net.Error = timeoutNetError{}

var window = variation.LengthRange{Min: 200, Max: 250}

func TestClientCompleteSuccess(t *testing.T) {
	reply := `"` + strings.Repeat("a", 208) + `."`
	mock := &MockProvider{name: "mock", completeFunc: func(context.Context, *CompletionRequest) (*CompletionResponse, error) {
		return &CompletionResponse{Text: reply, Usage: map[string]any{"total_tokens": 57}}, nil
	}}

	sampling := Sampling{Temperature: 0.8, MaxTokens: 100, FrequencyPenalty: 0.5, PresencePenalty: 0.3}
	result := NewClient(mock, "sarvam-m", time.Second).Complete(context.Background(), "user", "system", sampling, window)

	require.True(t, result.Success)
	assert.Equal(t, strings.Repeat("a", 208)+".", result.Review)
	assert.Equal(t, 209, result.CharCount)
	assert.Equal(t, models.MethodAPI, result.Method)
	assert.EqualValues(t, 57, result.TokenUsage["total_tokens"])
	assert.Empty(t, result.Error)

	assert.Equal(t, 1, mock.calls)
	assert.Equal(t, "sarvam-m", mock.last.Model)
	assert.Equal(t, "system", mock.last.SystemPrompt)
	assert.Equal(t, "user", mock.last.UserPrompt)
	assert.Equal(t, sampling, mock.last.Sampling)
}

func TestClientCompleteClampsLongReply(t *testing.T) {
	mock := &MockProvider{name: "mock", completeFunc: func(context.Context, *CompletionRequest) (*CompletionResponse, error) {
		return &CompletionResponse{Text: strings.Repeat("word ", 120)}, nil
	}}
	result := NewClient(mock, "m", time.Second).Complete(context.Background(), "u", "s", Sampling{}, window)

	require.True(t, result.Success)
	assert.LessOrEqual(t, result.CharCount, window.Max)
	assert.NotNil(t, result.TokenUsage)
}

func TestClientCompleteFailures(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantKind models.ErrorKind
		wantMsg  string
	}{
		{
			name:     "api error",
			err:      &Error{Kind: models.ErrAPI, StatusCode: 429, Body: "slow down"},
			wantKind: models.ErrAPI,
			wantMsg:  "API Error 429: slow down",
		},
		{
			name:     "deadline",
			err:      fmt.Errorf("post: %w", context.DeadlineExceeded),
			wantKind: models.ErrTimeout,
			wantMsg:  "Request timeout. API took too long to respond (30 seconds).",
		},
		{
			name:     "net timeout",
			err:      &net.OpError{Op: "read", Err: timeoutNetError{}},
			wantKind: models.ErrTimeout,
			wantMsg:  "Request timeout",
		},
		{
			name:     "connection",
			err:      errors.New("dial tcp: connection refused"),
			wantKind: models.ErrConnection,
			wantMsg:  "Connection error: dial tcp: connection refused",
		},
		{
			name:     "malformed",
			err:      responseError([]byte("{"), errors.New("parse completion")),
			wantKind: models.ErrResponse,
			wantMsg:  "Unexpected error",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mock := &MockProvider{name: "mock", completeFunc: func(context.Context, *CompletionRequest) (*CompletionResponse, error) {
				return nil, tt.err
			}}
			result := NewClient(mock, "m", 30*time.Second).Complete(context.Background(), "u", "s", Sampling{}, window)

			assert.False(t, result.Success)
			assert.Empty(t, result.Review)
			assert.Equal(t, tt.wantKind, result.ErrorKind)
			assert.Contains(t, result.Error, tt.wantMsg)
			assert.Equal(t, 1, mock.calls)
		})
	}
}

func TestClientCompleteRejectsEmptyReview(t *testing.T) {
	for _, reply := range []string{"", "   \n", `""`, `"''"`, `" "`} {
		mock := &MockProvider{name: "mock", completeFunc: func(context.Context, *CompletionRequest) (*CompletionResponse, error) {
			return &CompletionResponse{Text: reply, Usage: map[string]any{"total_tokens": 3}}, nil
		}}
		result := NewClient(mock, "m", time.Second).Complete(context.Background(), "u", "s", Sampling{}, window)

		assert.False(t, result.Success, "reply %q", reply)
		assert.Equal(t, models.ErrResponse, result.ErrorKind, "reply %q", reply)
		assert.Empty(t, result.Review)
		assert.Zero(t, result.CharCount)
		assert.NotEmpty(t, result.Error)
	}
}

func TestClientAppliesTimeout(t *testing.T) {
	mock := &MockProvider{name: "mock", completeFunc: func(ctx context.Context, _ *CompletionRequest) (*CompletionResponse, error) {
		<-ctx.Done()
		return nil, ctx.Err()
	}}
	result := NewClient(mock, "m", 20*time.Millisecond).Complete(context.Background(), "u", "s", Sampling{}, window)
	assert.Equal(t, models.ErrTimeout, result.ErrorKind)
}

func TestClassifyNil(t *testing.T) {
	assert.Nil(t, Classify(nil))
}
