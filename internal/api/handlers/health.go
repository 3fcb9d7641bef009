package handlers

import (
	"net/http"

	"github.com/Conceptual-Machines/review-generator/internal/services"
	"github.com/gin-gonic/gin"
)

// HealthHandler reports service health and the active completion backend
type HealthHandler struct {
	svc            *services.GenerationService
	historyBackend string
}

// NewHealthHandler creates a health handler
func NewHealthHandler(svc *services.GenerationService, historyBackend string) *HealthHandler {
	return &HealthHandler{svc: svc, historyBackend: historyBackend}
}

// HealthCheck returns the health status of the API
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	provider, model := h.svc.ProviderName()
	c.JSON(http.StatusOK, gin.H{
		"status": "healthy",
		"completion": gin.H{
			"provider": provider,
			"model":    model,
		},
		"history": gin.H{
			"backend": h.historyBackend,
			"reviews": len(h.svc.History(c.Request.Context())),
		},
	})
}
