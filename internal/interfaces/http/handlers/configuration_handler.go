package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/promoflow/threshold-service/internal/application/dto"
	appservice "github.com/promoflow/threshold-service/internal/application/service"
	"github.com/promoflow/threshold-service/internal/interfaces/http/middleware"
	"github.com/promoflow/threshold-service/pkg/errors"
	"github.com/promoflow/threshold-service/pkg/logger"
)

// ConfigurationHandler serves the generic configuration endpoints.
type ConfigurationHandler struct {
	service appservice.ConfigurationAppService
	log     logger.Logger
}

// NewConfigurationHandler creates the configuration handler.
func NewConfigurationHandler(service appservice.ConfigurationAppService, log logger.Logger) *ConfigurationHandler {
	return &ConfigurationHandler{service: service, log: log.WithComponent("configuration_handler")}
}

// ListSection handles GET /configurations/:section. A ?key= query narrows
// the response to that single entry.
func (h *ConfigurationHandler) ListSection(c *gin.Context) {
	ctx := c.Request.Context()
	section := c.Param("section")

	if key := c.Query("key"); key != "" {
		cfg, err := h.service.GetConfiguration(ctx, section, key)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, dto.OK(cfg))
		return
	}

	configs, err := h.service.ListSection(ctx, section)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(configs))
}

// Get handles GET /configurations/:section/:key.
func (h *ConfigurationHandler) Get(c *gin.Context) {
	cfg, err := h.service.GetConfiguration(c.Request.Context(), c.Param("section"), c.Param("key"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(cfg))
}

// Set handles PUT /configurations/:section/:key.
func (h *ConfigurationHandler) Set(c *gin.Context) {
	var req dto.SetConfigurationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Validation("invalid request body"))
		return
	}

	ctx := c.Request.Context()
	cfg, err := h.service.SetConfiguration(ctx, c.Param("section"), c.Param("key"), req.Value, middleware.ActorFrom(ctx))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(cfg))
}
