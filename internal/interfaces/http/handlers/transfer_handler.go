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

// TransferHandler serves bulk export and import.
type TransferHandler struct {
	service appservice.TransferAppService
	log     logger.Logger
}

// NewTransferHandler creates the transfer handler.
func NewTransferHandler(service appservice.TransferAppService, log logger.Logger) *TransferHandler {
	return &TransferHandler{service: service, log: log.WithComponent("transfer_handler")}
}

// Export handles GET /export.
func (h *TransferHandler) Export(c *gin.Context) {
	doc, err := h.service.Export(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.OK(doc))
}

// Import handles POST /import.
func (h *TransferHandler) Import(c *gin.Context) {
	var req dto.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, errors.Validation("invalid import document"))
		return
	}
	if len(req.Thresholds) == 0 && len(req.Configurations) == 0 {
		respondError(c, errors.Validation("import document is empty"))
		return
	}

	ctx := c.Request.Context()
	counts, err := h.service.Import(ctx, &req, middleware.ActorFrom(ctx))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.ImportResponse{
		Success:  true,
		Imported: counts,
	})
}
