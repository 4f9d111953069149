package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/promoflow/threshold-service/internal/domain/service"
	"github.com/promoflow/threshold-service/pkg/logger"
)

// Logging logs every handled request and feeds the HTTP metrics.
func Logging(log logger.Logger, metrics service.Metrics) gin.HandlerFunc {
	log = log.WithComponent("http")
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		duration := time.Since(start)

		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		status := c.Writer.Status()
		metrics.RecordHTTPRequest(c.Request.Method, path, status, duration)

		ctx := c.Request.Context()
		fields := []logger.Field{
			logger.String("method", c.Request.Method),
			logger.String("path", c.Request.URL.Path),
			logger.Int("status", status),
			logger.Duration("duration", duration),
			logger.String("client_ip", c.ClientIP()),
		}
		switch {
		case status >= 500:
			log.Error(ctx, "Request failed", nil, fields...)
		case status >= 400:
			log.Warn(ctx, "Request rejected", fields...)
		default:
			log.Info(ctx, "Request handled", fields...)
		}
	}
}
