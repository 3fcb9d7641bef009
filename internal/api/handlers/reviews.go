package handlers

import (
	"bytes"
	"errors"
	"net/http"
	"slices"
	"strconv"
	"time"

	"github.com/Conceptual-Machines/review-generator/internal/export"
	"github.com/Conceptual-Machines/review-generator/internal/logger"
	"github.com/Conceptual-Machines/review-generator/internal/models"
	"github.com/Conceptual-Machines/review-generator/internal/services"
	"github.com/gin-gonic/gin"
)

// ReviewHandler serves review generation, history and export
type ReviewHandler struct {
	svc *services.GenerationService
	now func() time.Time
}

// NewReviewHandler creates a review handler
func NewReviewHandler(svc *services.GenerationService) *ReviewHandler {
	return &ReviewHandler{svc: svc, now: time.Now}
}

// GenerateResponse is the body returned for a successful generation
type GenerateResponse struct {
	models.GenerationResult
	NearDuplicate bool `json:"near_duplicate"`
	Saved         bool `json:"saved"`
}

// Generate validates the request, runs the pipeline and saves successful reviews
func (h *ReviewHandler) Generate(c *gin.Context) {
	var req models.GenerationRequest
	if err := c.ShouldBind(&req); err != nil {
		c.JSON(http.StatusBadRequest, models.Failed(models.ErrValidation, "malformed request: "+err.Error()))
		return
	}
	req = req.Normalize()
	if err := req.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, models.Failed(models.ErrValidation, err.Error()))
		return
	}

	ctx := c.Request.Context()
	outcome := h.svc.Run(ctx, req)
	result := outcome.Result
	if !result.Success {
		c.JSON(statusForFailure(result.ErrorKind), result)
		return
	}

	saved := true
	if err := h.svc.Save(ctx, req, result); err != nil {
		saved = false
		logger.Error("Failed to save review", err, logger.WithContext(c))
	}

	c.JSON(http.StatusOK, GenerateResponse{
		GenerationResult: result,
		NearDuplicate:    outcome.NearDuplicate,
		Saved:            saved,
	})
}

// List returns saved reviews, newest first. An optional limit caps the count.
func (h *ReviewHandler) List(c *gin.Context) {
	records := slices.Clone(h.svc.History(c.Request.Context()))
	slices.Reverse(records)

	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a non-negative integer"})
			return
		}
		if limit < len(records) {
			records = records[:limit]
		}
	}

	if records == nil {
		records = []models.HistoryRecord{}
	}
	c.JSON(http.StatusOK, gin.H{
		"count":   len(records),
		"reviews": records,
	})
}

// ExportCSV downloads saved reviews as CSV. indices select rows by their
// position in the newest-first listing.
func (h *ReviewHandler) ExportCSV(c *gin.Context) {
	h.export(c, export.FormatCSV)
}

// ExportPDF downloads saved reviews as a PDF report, with the same selection
// rules as ExportCSV.
func (h *ReviewHandler) ExportPDF(c *gin.Context) {
	h.export(c, export.FormatPDF)
}

func (h *ReviewHandler) export(c *gin.Context, format export.Format) {
	indices, err := export.ParseIndices(c.Query("indices"))
	if err != nil {
		c.String(http.StatusBadRequest, "Invalid indices")
		return
	}

	records, err := export.Select(h.svc.History(c.Request.Context()), indices)
	switch {
	case errors.Is(err, export.ErrNoReviews):
		c.String(http.StatusNotFound, "No reviews to download")
		return
	case errors.Is(err, export.ErrNoneSelected):
		c.String(http.StatusBadRequest, "No reviews selected")
		return
	case err != nil:
		c.String(http.StatusInternalServerError, "Failed to export reviews")
		return
	}

	now := h.now()
	var buf bytes.Buffer
	if err := export.Write(&buf, format, records, now); err != nil {
		fields := logger.WithContext(c)
		fields["format"] = string(format)
		logger.Error("Failed to write export", err, fields)
		c.String(http.StatusInternalServerError, "Failed to export reviews")
		return
	}

	c.Header("Content-Disposition", "attachment; filename="+export.Filename(now, format))
	c.Data(http.StatusOK, format.ContentType(), buf.Bytes())
}

// statusForFailure maps an error kind onto an HTTP status
func statusForFailure(kind models.ErrorKind) int {
	switch kind {
	case models.ErrValidation:
		return http.StatusBadRequest
	case models.ErrTimeout:
		return http.StatusGatewayTimeout
	case models.ErrAPI, models.ErrConnection, models.ErrResponse:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
