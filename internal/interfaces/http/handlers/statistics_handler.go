package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/promoflow/threshold-service/internal/application/dto"
	appservice "github.com/promoflow/threshold-service/internal/application/service"
	"github.com/promoflow/threshold-service/pkg/logger"
)

// StatisticsHandler serves the per-category adjustment statistics.
type StatisticsHandler struct {
	service appservice.StatisticsAppService
	log     logger.Logger
}

// NewStatisticsHandler creates the statistics handler.
func NewStatisticsHandler(service appservice.StatisticsAppService, log logger.Logger) *StatisticsHandler {
	return &StatisticsHandler{service: service, log: log.WithComponent("statistics_handler")}
}

// Get handles GET /statistics/thresholds?startDate=&endDate=. The shorter
// start/end spellings are accepted as aliases.
func (h *StatisticsHandler) Get(c *gin.Context) {
	start := c.Query("startDate")
	if start == "" {
		start = c.Query("start")
	}
	end := c.Query("endDate")
	if end == "" {
		end = c.Query("end")
	}

	snapshots, window, err := h.service.GetThresholdStatistics(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.StatisticsResponse{
		Success:   true,
		Data:      snapshots,
		TimeRange: window,
	})
}
