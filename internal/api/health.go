package api

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/stockpulse/internal/logger"
)

// readyTimeout bounds one readiness ping of the cache backend.
const readyTimeout = 2 * time.Second

// HealthHandler serves liveness and readiness of the service.
//
// Liveness never looks at dependencies: the facade answers with mock data even
// when the provider is down. Readiness follows the response cache backend only,
// since without it every request would reach the rate-limited provider.
type HealthHandler struct {
	backend string
	ping    func(ctx context.Context) error
}

// NewHealthHandler builds a HealthHandler for the named cache backend.
//
// Parameters:
//   - backend: CACHE_BACKEND value reported by /readyz (memory, redis, postgres).
//   - ping: typically cache.Cache.Ping (no-op for memory, PING for redis, db ping for postgres).
//     A nil ping reports ready.
func NewHealthHandler(backend string, ping func(ctx context.Context) error) *HealthHandler {
	return &HealthHandler{backend: backend, ping: ping}
}

// Register mounts /healthz and /readyz.
func (h *HealthHandler) Register(r *gin.Engine) {
	r.GET("/healthz", h.liveness)
	r.GET("/readyz", h.readiness)
}

// liveness godoc
// @Summary      Liveness probe
// @Description  Always returns OK if the process is serving
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Router       /healthz [get]
func (h *HealthHandler) liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// readiness godoc
// @Summary      Readiness probe
// @Description  Returns ready when the response cache backend answers a ping
// @Tags         health
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      503  {object}  map[string]string
// @Router       /readyz [get]
func (h *HealthHandler) readiness(c *gin.Context) {
	if h.ping != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), readyTimeout)
		defer cancel()
		if err := h.ping(ctx); err != nil {
			logger.Ctx(c.Request.Context()).Warn().Err(err).Str("cache_backend", h.backend).Msg("cache backend not ready")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "degraded", "cache": h.backend})
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"status": "ready", "cache": h.backend})
}
