package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/geargillie/safetrade-mvp-sub000/pkg/logger"
)

const (
	// CorrelationIDHeader is the header name for correlation ID
	CorrelationIDHeader = "X-Request-ID"
	// CorrelationIDKey is the context key for correlation ID
	CorrelationIDKey = "correlation_id"
)

// CorrelationID middleware generates or extracts correlation ID for request tracing
func CorrelationID() gin.HandlerFunc {
	return func(c *gin.Context) {
		// Try to get correlation ID from header
		correlationID := c.GetHeader(CorrelationIDHeader)

		// If not provided, generate a new UUID
		if correlationID == "" {
			correlationID = uuid.New().String()
		}

		// Store in gin context and the request context for downstream logging
		c.Set(CorrelationIDKey, correlationID)
		ctx := context.WithValue(c.Request.Context(), logger.CorrelationIDContextKey, correlationID)
		c.Request = c.Request.WithContext(ctx)

		// Add to response headers
		c.Writer.Header().Set(CorrelationIDHeader, correlationID)

		c.Next()
	}
}

// GetCorrelationID extracts correlation ID from gin context
func GetCorrelationID(c *gin.Context) string {
	if id, exists := c.Get(CorrelationIDKey); exists {
		if correlationID, ok := id.(string); ok {
			return correlationID
		}
	}
	return ""
}
