package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appservice "github.com/promoflow/threshold-service/internal/application/service"
	"github.com/promoflow/threshold-service/pkg/logger"
)

// DashboardHandler serves the admin dashboard summary.
type DashboardHandler struct {
	service appservice.DashboardAppService
	log     logger.Logger
}

// NewDashboardHandler creates the dashboard handler.
func NewDashboardHandler(service appservice.DashboardAppService, log logger.Logger) *DashboardHandler {
	return &DashboardHandler{service: service, log: log.WithComponent("dashboard_handler")}
}

// Get handles GET /dashboard.
func (h *DashboardHandler) Get(c *gin.Context) {
	resp, err := h.service.GetDashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}
