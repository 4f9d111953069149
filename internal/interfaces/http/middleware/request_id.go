// Package middleware holds the gin middleware chain of the service.
package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/promoflow/threshold-service/pkg/constants"
)

const (
	// HeaderRequestID carries the caller-supplied or generated request id.
	HeaderRequestID = "X-Request-ID"

	// HeaderUserID identifies the acting operator. Authentication happens
	// upstream at the API gateway; this service records the identity it is
	// handed for the audit trail.
	HeaderUserID = "X-User-ID"

	// defaultActor is recorded when no operator identity was supplied.
	defaultActor = "unknown"
)

// RequestID ensures every request carries a request id and the acting
// operator in its context, echoing the id back to the caller.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(HeaderRequestID)
		if requestID == "" {
			requestID = uuid.New().String()
		}

		actor := c.GetHeader(HeaderUserID)
		if actor == "" {
			actor = defaultActor
		}

		ctx := context.WithValue(c.Request.Context(), constants.ContextKeyRequestID, requestID)
		ctx = context.WithValue(ctx, constants.ContextKeyUserID, actor)
		c.Request = c.Request.WithContext(ctx)

		c.Header(HeaderRequestID, requestID)
		c.Next()
	}
}

// ActorFrom returns the operator identity recorded by RequestID.
func ActorFrom(ctx context.Context) string {
	if actor, ok := ctx.Value(constants.ContextKeyUserID).(string); ok && actor != "" {
		return actor
	}
	return defaultActor
}
