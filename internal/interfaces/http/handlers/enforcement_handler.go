package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/promoflow/threshold-service/internal/application/dto"
	"github.com/promoflow/threshold-service/internal/domain/models"
	"github.com/promoflow/threshold-service/pkg/logger"
)

// ActiveThresholdReader is the read side consumed by enforcement
// components. Backed by the Redis cache when enabled, otherwise by a
// direct store read.
type ActiveThresholdReader interface {
	GetActive(ctx context.Context) ([]*models.Threshold, error)
}

// EnforcementHandler serves the hot-path active threshold list.
type EnforcementHandler struct {
	reader ActiveThresholdReader
	log    logger.Logger
}

// NewEnforcementHandler creates the enforcement handler.
func NewEnforcementHandler(reader ActiveThresholdReader, log logger.Logger) *EnforcementHandler {
	return &EnforcementHandler{reader: reader, log: log.WithComponent("enforcement_handler")}
}

// ActiveThresholds handles GET /enforcement/thresholds.
func (h *EnforcementHandler) ActiveThresholds(c *gin.Context) {
	thresholds, err := h.reader.GetActive(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ListThresholdsResponse{
		Success: true,
		Data:    thresholds,
		Total:   len(thresholds),
	})
}
