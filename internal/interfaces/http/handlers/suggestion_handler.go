package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/promoflow/threshold-service/internal/application/dto"
	appservice "github.com/promoflow/threshold-service/internal/application/service"
	"github.com/promoflow/threshold-service/pkg/logger"
)

// SuggestionHandler serves the optimization suggestions.
type SuggestionHandler struct {
	service appservice.SuggestionAppService
	log     logger.Logger
}

// NewSuggestionHandler creates the suggestion handler.
func NewSuggestionHandler(service appservice.SuggestionAppService, log logger.Logger) *SuggestionHandler {
	return &SuggestionHandler{service: service, log: log.WithComponent("suggestion_handler")}
}

// List handles GET /suggestions.
func (h *SuggestionHandler) List(c *gin.Context) {
	suggestions, err := h.service.SuggestOptimizations(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.SuggestionsResponse{
		Success: true,
		Data:    suggestions,
		Summary: appservice.SummarizeSuggestions(suggestions),
	})
}
