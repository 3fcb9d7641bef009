package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/Conceptual-Machines/review-generator/internal/api"
	"github.com/Conceptual-Machines/review-generator/internal/config"
	"github.com/Conceptual-Machines/review-generator/internal/history"
	"github.com/Conceptual-Machines/review-generator/internal/llm"
	"github.com/Conceptual-Machines/review-generator/internal/logger"
	"github.com/Conceptual-Machines/review-generator/internal/metrics"
	"github.com/Conceptual-Machines/review-generator/internal/observability"
	"github.com/Conceptual-Machines/review-generator/internal/services"
	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

const (
	sentryFlushTimeout = 2 * time.Second
	shutdownTimeout    = 10 * time.Second
	readHeaderTimeout  = 10 * time.Second
)

// releaseVersion is set via ldflags during build
var releaseVersion = "dev"

// GetVersion returns the current release version
func GetVersion() string {
	return releaseVersion
}

func main() {
	os.Exit(run())
}

func run() int {
	envErr := godotenv.Load()

	cfg := config.Load()

	if err := logger.Init(cfg.LogLevel, cfg.LogFormat); err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		return 1
	}
	defer logger.Sync()

	if envErr != nil {
		logger.Info("No .env file found, using environment variables", nil)
	}

	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", err, nil)
		return 1
	}

	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.Environment,
			Release:          "review-generator@" + releaseVersion,
			EnableTracing:    true,
			TracesSampleRate: 1.0,
			Debug:            !cfg.IsProduction(),
			BeforeSend: func(event *sentry.Event, _ *sentry.EventHint) *sentry.Event {
				if event.Request != nil {
					event.Request.Headers = filterSensitiveHeaders(event.Request.Headers)
				}
				return event
			},
		}); err != nil {
			logger.Warn("Failed to initialize Sentry", logger.Fields{"error": err.Error()})
		} else {
			logger.Info("Sentry initialized", logger.Fields{"environment": cfg.Environment, "release": releaseVersion})
			defer sentry.Flush(sentryFlushTimeout)
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := history.Open(cfg)
	if err != nil {
		sentry.CaptureException(err)
		logger.Error("Failed to open review history", err, logger.Fields{"backend": cfg.HistoryBackend})
		return 1
	}
	defer func() {
		if err := store.Close(); err != nil {
			logger.Warn("Failed to close review history", logger.Fields{"error": err.Error()})
		}
	}()

	client, err := llm.NewProviderFactory(cfg).NewClient(ctx)
	if err != nil {
		sentry.CaptureException(err)
		logger.Error("Failed to create completion client", err, logger.Fields{"provider": cfg.Provider})
		return 1
	}

	prom := metrics.NewPrometheus()
	recorder := metrics.Multi{
		prom,
		metrics.NewClient(ctx, cfg.Environment, cfg.CloudWatchEnabled),
		metrics.NewSentryMetrics(),
	}

	svc := services.NewGenerationService(store, client,
		services.WithRecorder(recorder),
		services.WithTracer(observability.InitializeLangfuse(ctx, cfg)),
	)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := api.SetupRouter(api.Dependencies{
		Service:        svc,
		Prometheus:     prom,
		Recorder:       recorder,
		HistoryBackend: cfg.HistoryBackend,
		Version:        GetVersion(),
	})

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Starting server", logger.Fields{
			"port":     cfg.Port,
			"provider": cfg.Provider,
			"model":    cfg.ActiveModel(),
			"history":  cfg.HistoryBackend,
		})
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			sentry.CaptureException(err)
			logger.Error("Failed to start server", err, nil)
			return 1
		}
	case <-ctx.Done():
		logger.Info("Shutting down server", nil)
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("Server shutdown failed", err, nil)
			return 1
		}
	}
	return 0
}

func filterSensitiveHeaders(headers map[string]string) map[string]string {
	filtered := make(map[string]string)
	sensitiveKeys := map[string]bool{
		"authorization":        true,
		"cookie":               true,
		"x-api-key":            true,
		"api-subscription-key": true,
	}

	for k, v := range headers {
		if sensitiveKeys[strings.ToLower(k)] {
			filtered[k] = "[REDACTED]"
		} else {
			filtered[k] = v
		}
	}
	return filtered
}
