package handlers

import (
	"fmt"
	"net/http"
	"runtime"
	"time"

	"github.com/Conceptual-Machines/review-generator/internal/models"
	"github.com/Conceptual-Machines/review-generator/internal/services"
	"github.com/gin-gonic/gin"
)

// MetricsHandler serves a JSON snapshot of the process and the review history
type MetricsHandler struct {
	startTime time.Time
	version   string
	svc       *services.GenerationService
}

func NewMetricsHandler(version string, svc *services.GenerationService) *MetricsHandler {
	return &MetricsHandler{
		startTime: time.Now(),
		version:   version,
		svc:       svc,
	}
}

const (
	secondsPerMinute = 60
	secondsPerHour   = 3600
	bytesToMB        = 1024 * 1024
)

// formatUptime formats the uptime duration with seconds rounded to 2 decimal places
func formatUptime(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % secondsPerMinute
	seconds := d.Seconds() - float64(hours*secondsPerHour) - float64(minutes*secondsPerMinute)

	if hours > 0 {
		return fmt.Sprintf("%dh%dm%.2fs", hours, minutes, seconds)
	}
	if minutes > 0 {
		return fmt.Sprintf("%dm%.2fs", minutes, seconds)
	}
	return fmt.Sprintf("%.2fs", seconds)
}

type MetricsResponse struct {
	Uptime    string         `json:"uptime"`
	Version   string         `json:"version"`
	StartTime string         `json:"start_time"`
	Runtime   RuntimeMetrics `json:"runtime"`
	API       APIMetrics     `json:"api"`
	Reviews   ReviewMetrics  `json:"reviews"`
}

type RuntimeMetrics struct {
	GoVersion    string `json:"go_version"`
	NumGoroutine int    `json:"num_goroutine"`
	MemAllocMB   uint64 `json:"mem_alloc_mb"`
}

// APIMetrics describes the completion backend and its sampling settings
type APIMetrics struct {
	Provider         string  `json:"provider"`
	Model            string  `json:"model"`
	Temperature      float64 `json:"temperature"`
	MaxTokens        int     `json:"max_tokens"`
	FrequencyPenalty float64 `json:"frequency_penalty"`
	PresencePenalty  float64 `json:"presence_penalty"`
}

// ReviewMetrics aggregates the stored history
type ReviewMetrics struct {
	Total        int            `json:"total"`
	ByLanguage   map[string]int `json:"by_language"`
	ByRating     map[int]int    `json:"by_rating"`
	AvgCharCount float64        `json:"avg_char_count"`
	TotalTokens  int            `json:"total_tokens"`
	LastSaved    string         `json:"last_saved,omitempty"`
}

func summarizeReviews(records []models.HistoryRecord) ReviewMetrics {
	summary := ReviewMetrics{
		Total:      len(records),
		ByLanguage: map[string]int{},
		ByRating:   map[int]int{},
	}
	chars := 0
	for _, rec := range records {
		summary.ByLanguage[rec.Language]++
		summary.ByRating[rec.StarRating]++
		chars += rec.CharCount
		if tokens, ok := rec.TokenUsage.TotalTokens(); ok {
			summary.TotalTokens += tokens
		}
	}
	if len(records) > 0 {
		summary.AvgCharCount = float64(chars) / float64(len(records))
		summary.LastSaved = records[len(records)-1].Timestamp
	}
	return summary
}

func (h *MetricsHandler) GetMetrics(c *gin.Context) {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	provider, model := h.svc.ProviderName()
	sampling := h.svc.Sampling()

	c.JSON(http.StatusOK, MetricsResponse{
		Uptime:    formatUptime(time.Since(h.startTime)),
		Version:   h.version,
		StartTime: h.startTime.UTC().Format(time.RFC3339),
		Runtime: RuntimeMetrics{
			GoVersion:    runtime.Version(),
			NumGoroutine: runtime.NumGoroutine(),
			MemAllocMB:   m.Alloc / bytesToMB,
		},
		API: APIMetrics{
			Provider:         provider,
			Model:            model,
			Temperature:      sampling.Temperature,
			MaxTokens:        sampling.MaxTokens,
			FrequencyPenalty: sampling.FrequencyPenalty,
			PresencePenalty:  sampling.PresencePenalty,
		},
		Reviews: summarizeReviews(h.svc.History(c.Request.Context())),
	})
}
