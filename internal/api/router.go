package api

import (
	"github.com/Conceptual-Machines/review-generator/internal/api/handlers"
	apimiddleware "github.com/Conceptual-Machines/review-generator/internal/api/middleware"
	"github.com/Conceptual-Machines/review-generator/internal/metrics"
	"github.com/Conceptual-Machines/review-generator/internal/services"
	"github.com/gin-gonic/gin"
)

// Dependencies are the components the HTTP API is wired to
type Dependencies struct {
	Service        *services.GenerationService
	Prometheus     *metrics.Prometheus // optional; enables /metrics
	Recorder       metrics.Recorder    // optional; request metrics sink
	HistoryBackend string
	Version        string
}

func SetupRouter(deps Dependencies) *gin.Engine {
	router := gin.New()

	// Recovery middleware (must be first)
	router.Use(apimiddleware.RecoverWithSentry())

	// Sentry middleware for error tracking
	router.Use(apimiddleware.SentryMiddleware())

	// Request tracking and structured logging
	router.Use(apimiddleware.RequestTracking(deps.Recorder))

	router.Use(apimiddleware.CORS())

	healthHandler := handlers.NewHealthHandler(deps.Service, deps.HistoryBackend)
	router.GET("/health", healthHandler.HealthCheck)

	metricsHandler := handlers.NewMetricsHandler(deps.Version, deps.Service)
	router.GET("/api/metrics", metricsHandler.GetMetrics)

	if deps.Prometheus != nil {
		router.GET("/metrics", gin.WrapH(deps.Prometheus.Handler()))
	}

	v1 := router.Group("/api/v1")
	{
		reviewHandler := handlers.NewReviewHandler(deps.Service)
		v1.POST("/reviews/generate", reviewHandler.Generate)
		v1.GET("/reviews", reviewHandler.List)
		v1.GET("/reviews/export.csv", reviewHandler.ExportCSV)
		v1.GET("/reviews/export.pdf", reviewHandler.ExportPDF)
	}

	return router
}
