// Package handlers implements the REST endpoints.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/promoflow/threshold-service/internal/application/dto"
	appservice "github.com/promoflow/threshold-service/internal/application/service"
	"github.com/promoflow/threshold-service/internal/domain/models"
	"github.com/promoflow/threshold-service/internal/interfaces/http/middleware"
	"github.com/promoflow/threshold-service/pkg/errors"
	"github.com/promoflow/threshold-service/pkg/logger"
)

// ThresholdHandler serves the threshold read and mutation endpoints.
type ThresholdHandler struct {
	service appservice.ThresholdAppService
	log     logger.Logger
}

// NewThresholdHandler creates the threshold handler.
func NewThresholdHandler(service appservice.ThresholdAppService, log logger.Logger) *ThresholdHandler {
	return &ThresholdHandler{service: service, log: log.WithComponent("threshold_handler")}
}

// List handles GET /thresholds, optionally filtered by ?category=.
func (h *ThresholdHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		out []*models.Threshold
		err error
	)
	if category := c.Query("category"); category != "" {
		out, err = h.service.GetThresholdsByCategory(ctx, category)
	} else {
		out, err = h.service.GetAllThresholds(ctx)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.ListThresholdsResponse{
		Success: true,
		Data:    out,
		Total:   len(out),
	})
}

// ListByCategory handles GET /thresholds/category/:category.
func (h *ThresholdHandler) ListByCategory(c *gin.Context) {
	out, err := h.service.GetThresholdsByCategory(c.Request.Context(), c.Param("category"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListThresholdsResponse{
		Success: true,
		Data:    out,
		Total:   len(out),
	})
}

// Get handles GET /thresholds/:id.
func (h *ThresholdHandler) Get(c *gin.Context) {
	t, err := h.service.GetThreshold(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(t))
}

// Update handles PUT /thresholds/:id, the manual update path.
func (h *ThresholdHandler) Update(c *gin.Context) {
	var req dto.UpdateThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Validation("invalid request body: value and reason are required"))
		return
	}

	ctx := c.Request.Context()
	t, err := h.service.UpdateThreshold(ctx, c.Param("id"), *req.Value, req.Reason, middleware.ActorFrom(ctx))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(t))
}

// Adjust handles POST /thresholds/:id/adjust, the automatic delta path.
func (h *ThresholdHandler) Adjust(c *gin.Context) {
	var req dto.AdjustThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Validation("invalid request body: adjustment and reason are required"))
		return
	}

	t, err := h.service.AdjustThreshold(c.Request.Context(), c.Param("id"), *req.Adjustment, req.Reason, req.Metadata)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.AdjustThresholdResponse{
		Success:    true,
		Data:       t,
		Adjustment: *req.Adjustment,
		Reason:     req.Reason,
	})
}

// Reset handles POST /thresholds/:id/reset.
func (h *ThresholdHandler) Reset(c *gin.Context) {
	var req dto.ResetThresholdRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Validation("invalid request body: reason is required"))
		return
	}

	ctx := c.Request.Context()
	t, err := h.service.ResetThreshold(ctx, c.Param("id"), req.Reason, middleware.ActorFrom(ctx))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(t))
}

// SetActive handles PATCH /thresholds/:id/active.
func (h *ThresholdHandler) SetActive(c *gin.Context) {
	var req dto.SetThresholdActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Validation("invalid request body: active and reason are required"))
		return
	}

	ctx := c.Request.Context()
	t, err := h.service.SetThresholdActive(ctx, c.Param("id"), *req.Active, req.Reason, middleware.ActorFrom(ctx))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(t))
}

// History handles GET /thresholds/:id/history.
func (h *ThresholdHandler) History(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		parsed, err := parsePositiveInt(raw)
		if err != nil {
			respondError(c, errors.Validation("limit must be a positive integer"))
			return
		}
		limit = parsed
	}

	entries, err := h.service.GetThresholdHistory(c.Request.Context(), c.Param("id"), limit)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(entries))
}
