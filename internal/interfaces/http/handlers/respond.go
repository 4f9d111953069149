package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/promoflow/threshold-service/internal/application/dto"
)

// respondError writes the failure envelope for any service error.
func respondError(c *gin.Context, err error) {
	status, body := dto.Err(err)
	c.JSON(status, body)
}

func parsePositiveInt(raw string) (int, error) {
	n, err := strconv.Atoi(raw)
	if err != nil || n <= 0 {
		return 0, strconv.ErrRange
	}
	return n, nil
}
