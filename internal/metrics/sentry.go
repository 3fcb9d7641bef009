package metrics

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
)

const (
	// HTTP status code threshold for considering a request successful
	successStatusCodeThreshold = http.StatusBadRequest
)

// SentryMetrics attaches measurements to the active Sentry transaction
type SentryMetrics struct{}

// NewSentryMetrics creates a new Sentry metrics recorder
func NewSentryMetrics() *SentryMetrics {
	return &SentryMetrics{}
}

// RecordAPIRequest implements Recorder
func (m *SentryMetrics) RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
	span := sentry.StartSpan(ctx, "api.request")
	defer span.Finish()

	span.Description = fmt.Sprintf("API Request: %s", endpoint)
	span.SetTag("endpoint", endpoint)
	span.SetTag("status_code", fmt.Sprintf("%d", statusCode))
	span.SetData("duration_ms", duration.Milliseconds())

	if statusCode < successStatusCodeThreshold {
		span.Status = sentry.SpanStatusOK
	} else {
		span.Status = sentry.SpanStatusInternalError
	}
}

// RecordGeneration implements Recorder
func (m *SentryMetrics) RecordGeneration(ctx context.Context, g Generation) {
	if transaction := sentry.TransactionFromContext(ctx); transaction != nil {
		transaction.SetTag("llm.provider", g.Provider)
		transaction.SetTag("llm.model", g.Model)
		transaction.SetTag("generation.outcome", g.Outcome())
	}

	span := sentry.StartSpan(ctx, "generation.request")
	defer span.Finish()

	span.Description = fmt.Sprintf("Generation: %s", g.Outcome())
	span.SetTag("success", fmt.Sprintf("%t", g.Result.Success))
	span.SetData("duration_ms", g.Duration.Milliseconds())
	span.SetData("language", g.Language)
	span.SetData("star_rating", g.StarRating)
	if g.Result.Success {
		span.SetData("char_count", g.Result.CharCount)
		span.SetData("near_duplicate", g.NearDuplicate)
		if total, ok := g.Result.TokenUsage.TotalTokens(); ok {
			span.SetData("total_tokens", total)
		}
		span.Status = sentry.SpanStatusOK
	} else {
		span.Status = sentry.SpanStatusInternalError
	}
}
