package middleware

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/guttosm/stockpulse/internal/domain/models"
	"github.com/guttosm/stockpulse/internal/logger"
)

// DataSourceHeader carries the provenance of market data responses.
const DataSourceHeader = "X-Data-Source"

// RequestLogger writes one access log line per request.
//
// Behavior:
//   - Uses the request-scoped logger, so the line carries request_id when RequestID ran first.
//   - Logs method, path, status, latency_ms, client_ip and the X-Data-Source value set by
//     the market data handlers.
//   - Responses served from mock data and 5xx responses are logged at warn level,
//     4xx at info; the last error attached with c.Error is included.
//
// Usage:
//
//	router := gin.New()
//	router.Use(middleware.RequestID(), middleware.RequestLogger())
func RequestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		status := c.Writer.Status()
		source := c.Writer.Header().Get(DataSourceHeader)
		log := logger.Ctx(c.Request.Context())

		var ev *zerolog.Event
		if source == string(models.SourceMock) || status >= 500 {
			ev = log.Warn()
		} else {
			ev = log.Info()
		}
		if last := c.Errors.Last(); last != nil {
			ev = ev.Err(last.Err)
		}

		ev.Str("method", c.Request.Method).
			Str("path", path).
			Int("status", status).
			Int64("latency_ms", time.Since(start).Milliseconds()).
			Str("client_ip", c.ClientIP()).
			Str("data_source", source).
			Msg("http_request")
	}
}
