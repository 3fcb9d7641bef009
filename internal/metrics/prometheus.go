package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "reviewgen"

// Prometheus holds the collectors exposed on /metrics
type Prometheus struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
	generationsTotal    *prometheus.CounterVec
	generationDuration  *prometheus.HistogramVec
	tokensTotal         *prometheus.CounterVec
	reviewChars         prometheus.Histogram
	nearDuplicatesTotal prometheus.Counter
}

// NewPrometheus creates the collectors on a private registry
func NewPrometheus() *Prometheus {
	p := &Prometheus{
		registry: prometheus.NewRegistry(),
		httpRequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests.",
			},
			[]string{"endpoint", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"endpoint"},
		),
		generationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "generations_total",
				Help:      "Review generations by provider and outcome.",
			},
			[]string{"provider", "language", "outcome"},
		),
		generationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "generation_duration_seconds",
				Help:      "End-to-end generation latency in seconds.",
				Buckets:   []float64{0.5, 1, 2, 5, 10, 20, 30, 60},
			},
			[]string{"provider"},
		),
		tokensTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "completion_tokens_total",
				Help:      "Tokens reported by the completion API.",
			},
			[]string{"model", "kind"},
		),
		reviewChars: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: metricsNamespace,
				Name:      "review_characters",
				Help:      "Character count of generated reviews.",
				Buckets:   prometheus.LinearBuckets(150, 25, 10),
			},
		),
		nearDuplicatesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: metricsNamespace,
				Name:      "near_duplicates_total",
				Help:      "Generated reviews whose opening matched a recent review.",
			},
		),
	}

	p.registry.MustRegister(
		p.httpRequestsTotal,
		p.httpRequestDuration,
		p.generationsTotal,
		p.generationDuration,
		p.tokensTotal,
		p.reviewChars,
		p.nearDuplicatesTotal,
	)
	return p
}

// Handler serves the registry in the Prometheus exposition format
func (p *Prometheus) Handler() http.Handler {
	return promhttp.HandlerFor(p.registry, promhttp.HandlerOpts{})
}

// Registry returns the underlying registry
func (p *Prometheus) Registry() *prometheus.Registry {
	return p.registry
}

// RecordAPIRequest implements Recorder
func (p *Prometheus) RecordAPIRequest(_ context.Context, endpoint string, statusCode int, duration time.Duration) {
	p.httpRequestsTotal.WithLabelValues(endpoint, strconv.Itoa(statusCode)).Inc()
	p.httpRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
}

// RecordGeneration implements Recorder
func (p *Prometheus) RecordGeneration(_ context.Context, g Generation) {
	p.generationsTotal.WithLabelValues(g.Provider, g.LanguageLabel(), g.Outcome()).Inc()
	p.generationDuration.WithLabelValues(g.Provider).Observe(g.Duration.Seconds())

	if !g.Result.Success {
		return
	}
	p.reviewChars.Observe(float64(g.Result.CharCount))
	if g.NearDuplicate {
		p.nearDuplicatesTotal.Inc()
	}
	for _, kind := range []string{"prompt_tokens", "completion_tokens"} {
		if n, ok := g.Result.TokenUsage.Int(kind); ok {
			p.tokensTotal.WithLabelValues(g.Model, kind).Add(float64(n))
		}
	}
}
