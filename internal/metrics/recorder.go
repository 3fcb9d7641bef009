// Package metrics fans generation and request measurements out to
// Prometheus, CloudWatch and Sentry.
package metrics

import (
	"context"
	"time"

	"github.com/Conceptual-Machines/review-generator/internal/models"
)

// Generation describes one finished pipeline run
type Generation struct {
	Provider      string
	Model         string
	Language      string
	StarRating    int
	Duration      time.Duration
	Result        models.GenerationResult
	NearDuplicate bool
}

// Outcome is the label used for a run: "success" or the error kind
func (g Generation) Outcome() string {
	if g.Result.Success {
		return "success"
	}
	return string(g.Result.ErrorKind)
}

// otherLanguage labels any language outside the supported set
const otherLanguage = "other"

// LanguageLabel bounds the language to the supported set so request input
// cannot mint label values
func (g Generation) LanguageLabel() string {
	switch g.Language {
	case models.LanguageEnglish, models.LanguageGujarati, models.LanguageHindi:
		return g.Language
	default:
		return otherLanguage
	}
}

// Recorder receives measurements from the API and the generation service
type Recorder interface {
	RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration)
	RecordGeneration(ctx context.Context, g Generation)
}

// Multi forwards every measurement to each recorder in order
type Multi []Recorder

// RecordAPIRequest implements Recorder
func (m Multi) RecordAPIRequest(ctx context.Context, endpoint string, statusCode int, duration time.Duration) {
	for _, r := range m {
		r.RecordAPIRequest(ctx, endpoint, statusCode, duration)
	}
}

// RecordGeneration implements Recorder
func (m Multi) RecordGeneration(ctx context.Context, g Generation) {
	for _, r := range m {
		r.RecordGeneration(ctx, g)
	}
}

// Nop discards everything
type Nop struct{}

// RecordAPIRequest implements Recorder
func (Nop) RecordAPIRequest(context.Context, string, int, time.Duration) {}

// RecordGeneration implements Recorder
func (Nop) RecordGeneration(context.Context, Generation) {}
