package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/guttosm/stockpulse/internal/logger"
)

const (
	RequestIDKey    = "request_id"
	RequestIDHeader = "X-Request-ID"
)

// RequestID tags every request with an identifier that follows it down to the
// provider call.
//
// Behavior:
//   - Reuses an inbound X-Request-ID when it is a valid UUID, otherwise generates a v4 UUID.
//   - Stores it in the Gin context under "request_id" and echoes it as X-Request-ID.
//   - Puts it on the request context (logger.WithRequestID), so the facade and the
//     Alpha Vantage client log it and forward it upstream.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if _, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		}

		c.Set(RequestIDKey, id)
		c.Request = c.Request.WithContext(logger.WithRequestID(c.Request.Context(), id))
		c.Writer.Header().Set(RequestIDHeader, id)

		c.Next()
	}
}
