package services

import (
	"context"
	"fmt"
	"time"

	"github.com/Conceptual-Machines/review-generator/internal/history"
	"github.com/Conceptual-Machines/review-generator/internal/llm"
	"github.com/Conceptual-Machines/review-generator/internal/logger"
	"github.com/Conceptual-Machines/review-generator/internal/metrics"
	"github.com/Conceptual-Machines/review-generator/internal/models"
	"github.com/Conceptual-Machines/review-generator/internal/observability"
	"github.com/Conceptual-Machines/review-generator/internal/prompt"
	"github.com/Conceptual-Machines/review-generator/internal/variation"
	"github.com/getsentry/sentry-go"
)

// GenerationService runs the review pipeline: compose a prompt from the
// request and recent history, then make one completion call.
type GenerationService struct {
	store    history.Store
	client   *llm.Client
	composer *prompt.Composer
	sampling llm.Sampling
	recorder metrics.Recorder
	tracer   *observability.LangfuseClient
	now      func() time.Time
}

// Option configures a GenerationService
type Option func(*GenerationService)

// WithSelector replaces the random variation selector
func WithSelector(selector *variation.Selector) Option {
	return func(s *GenerationService) {
		s.composer = prompt.NewComposer(s.store, selector)
	}
}

// WithSampling overrides DefaultSampling
func WithSampling(sampling llm.Sampling) Option {
	return func(s *GenerationService) {
		s.sampling = sampling
	}
}

// WithRecorder attaches a metrics recorder
func WithRecorder(recorder metrics.Recorder) Option {
	return func(s *GenerationService) {
		s.recorder = recorder
	}
}

// WithTracer attaches a Langfuse client
func WithTracer(tracer *observability.LangfuseClient) Option {
	return func(s *GenerationService) {
		s.tracer = tracer
	}
}

// WithClock overrides the timestamp source used when saving history
func WithClock(now func() time.Time) Option {
	return func(s *GenerationService) {
		s.now = now
	}
}

// NewGenerationService creates a new generation service
func NewGenerationService(store history.Store, client *llm.Client, opts ...Option) *GenerationService {
	s := &GenerationService{
		store:    store,
		client:   client,
		composer: prompt.NewComposer(store, nil),
		sampling: DefaultSampling(),
		recorder: metrics.Nop{},
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Outcome is a generation result plus what the pipeline learned producing it
type Outcome struct {
	Result        models.GenerationResult
	Params        variation.Parameters
	NearDuplicate bool
}

// Generate produces one review. The result is returned exactly as the
// completion client produced it; history is not written.
func (s *GenerationService) Generate(ctx context.Context, req models.GenerationRequest) models.GenerationResult {
	return s.Run(ctx, req).Result
}

// Run produces one review and reports whether it opens like a recent one
func (s *GenerationService) Run(ctx context.Context, req models.GenerationRequest) Outcome {
	span := sentry.StartSpan(ctx, "review.generate")
	span.SetTag("language", req.Language)
	span.SetTag("use_case", req.UseCase)
	defer span.Finish()
	ctx = span.Context()

	startTime := time.Now()
	p := s.composer.Compose(ctx, req)

	trace := observability.GetClient()
	if s.tracer != nil {
		trace = s.tracer
	}
	t := trace.StartTrace(ctx, "review_generation", map[string]any{
		"business_type": req.BusinessType,
		"star_rating":   req.StarRating,
		"language":      req.Language,
	})
	gen := t.Generation("completion", map[string]any{
		"length_min": p.Params.Range.Min,
		"length_max": p.Params.Range.Max,
		"structure":  p.Params.Structure,
	})

	result := s.client.Complete(ctx, p.User, p.System, s.sampling, p.Params.Range)

	gen.LogCompletion(s.client.Model(), p.System, p.User, result)
	gen.Finish()
	t.Finish()

	outcome := Outcome{Result: result, Params: p.Params}
	if result.Success {
		outcome.NearDuplicate = history.IsNearDuplicate(s.store.Load(ctx), result.Review)
		span.Status = sentry.SpanStatusOK
	} else {
		span.Status = sentry.SpanStatusInternalError
	}

	duration := time.Since(startTime)
	s.recorder.RecordGeneration(ctx, metrics.Generation{
		Provider:      s.client.Provider().Name(),
		Model:         s.client.Model(),
		Language:      req.Language,
		StarRating:    req.StarRating,
		Duration:      duration,
		Result:        result,
		NearDuplicate: outcome.NearDuplicate,
	})

	fields := logger.Fields{
		"business_type": req.BusinessType,
		"star_rating":   req.StarRating,
		"language":      req.Language,
		"success":       result.Success,
		"duration_ms":   duration.Milliseconds(),
	}
	if result.Success {
		fields["char_count"] = result.CharCount
		fields["near_duplicate"] = outcome.NearDuplicate
	} else {
		fields["error_kind"] = string(result.ErrorKind)
	}
	logger.Info("Review generation finished", fields)

	return outcome
}

// Save appends a successful result to history
func (s *GenerationService) Save(ctx context.Context, req models.GenerationRequest, result models.GenerationResult) error {
	if !result.Success {
		return fmt.Errorf("refusing to save a failed generation")
	}
	if err := s.store.Append(ctx, models.NewHistoryRecord(req, result, s.now())); err != nil {
		return fmt.Errorf("failed to save review to history: %w", err)
	}
	return nil
}

// History returns all saved reviews, oldest first
func (s *GenerationService) History(ctx context.Context) []models.HistoryRecord {
	return s.store.Load(ctx)
}

// Sampling returns the sampling parameters sent with each request
func (s *GenerationService) Sampling() llm.Sampling {
	return s.sampling
}

// ProviderName returns the active provider and model
func (s *GenerationService) ProviderName() (provider, model string) {
	return s.client.Provider().Name(), s.client.Model()
}
