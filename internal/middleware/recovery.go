package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/stockpulse/internal/logger"
)

// RecoveryMiddleware turns a panic in a handler into a 500 dto.ErrorResponse.
//
// Behavior:
//   - Logs the panic value and stack with the request-scoped logger, so the
//     entry carries request_id when RequestID ran first.
//   - Renders through AbortWithError; the panic is attached to c.Errors for the access log.
//   - Does nothing if a response was already written.
//
// The facade recovers payload panics itself and serves mock data; this only
// catches panics in the HTTP layer.
func RecoveryMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			r := recover()
			if r == nil {
				return
			}
			logger.Ctx(c.Request.Context()).Error().
				Str("panic", fmt.Sprintf("%v", r)).
				Str("path", c.Request.URL.Path).
				Bytes("stack", debug.Stack()).
				Msg("panic recovered")

			if c.Writer.Written() {
				c.Abort()
				return
			}
			AbortWithError(c, http.StatusInternalServerError, "Internal server error", fmt.Errorf("panic: %v", r))
		}()

		c.Next()
	}
}
