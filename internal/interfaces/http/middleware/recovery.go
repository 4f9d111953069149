package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/promoflow/threshold-service/internal/application/dto"
	"github.com/promoflow/threshold-service/pkg/logger"
)

// Recovery converts panics into the standard internal-error envelope.
func Recovery(log logger.Logger) gin.HandlerFunc {
	log = log.WithComponent("http")
	return func(c *gin.Context) {
		defer func() {
			if r := recover(); r != nil {
				log.Error(c.Request.Context(), "Handler panicked", nil,
					logger.Any("panic", r),
					logger.String("path", c.Request.URL.Path))
				c.AbortWithStatusJSON(http.StatusInternalServerError, dto.Response{
					Success: false,
					Error:   "internal server error",
				})
			}
		}()
		c.Next()
	}
}
