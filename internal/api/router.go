package api

import (
	"context"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/guttosm/stockpulse/internal/metrics"
	"github.com/guttosm/stockpulse/internal/middleware"
)

// requestTimeout bounds a whole request. It is above the provider timeout so
// a slow upstream call still ends in a fallback rather than a cancelled request.
const requestTimeout = 15 * time.Second

// NewRouter creates a Gin engine with routes configured.
// It receives a Handler instance with all business logic already injected.
//
// Responsibilities:
//   - Registers global middlewares (RequestID, Logger, Recovery, ErrorHandler, CORS, RateLimiter).
//   - Adds request timeout handling (15 seconds).
//   - Mounts Swagger docs (/swagger/*any) and Prometheus metrics (/metrics).
//   - Configures the provider proxy (/api/alpha-vantage) and API v1 routes (/api/v1).
//
// Note:
//   - Health and readiness endpoints (/healthz, /readyz) are registered in app.InitializeApp().
//
// Parameters:
//   - handler (*Handler): The HTTP handler with business logic.
//   - allowedOrigins ([]string): CORS origins; empty or "*" allows any origin.
//
// Returns:
//   - *gin.Engine: Configured Gin router.
func NewRouter(handler *Handler, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	// ─── Middlewares ───────────────────────────────
	router.Use(
		middleware.RequestID(),
		middleware.RequestLogger(),
		middleware.RecoveryMiddleware(),
		middleware.ErrorHandler,
		cors.New(corsConfig(allowedOrigins)),
		middleware.RateLimiter(),
	)

	// ─── Timeout ──────────────────────────────────
	router.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), requestTimeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	// ─── Swagger & metrics ────────────────────────
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	router.GET("/metrics", gin.WrapH(metrics.Handler()))

	// ─── Provider proxy ───────────────────────────
	router.GET("/api/alpha-vantage", handler.Proxy)

	// ─── API v1 ───────────────────────────────────
	v1 := router.Group("/api/v1")
	{
		v1.GET("/alpha-vantage", handler.Proxy)

		v1.GET("/history/:symbol", handler.GetHistory)
		v1.GET("/profile/:symbol", handler.GetProfile)
		v1.GET("/news/:symbol", handler.GetNews)

		market := v1.Group("/market")
		market.GET("/summary", handler.GetMarketSummary)
		market.GET("/top-performers", handler.GetTopPerformers)
		market.GET("/cap-distribution", handler.GetCapDistribution)

		v1.GET("/symbols", handler.GetSymbols)
		v1.GET("/stocks/:symbol", handler.GetStock)
		v1.GET("/financials", handler.GetFinancials)
		v1.GET("/sectors", handler.GetSectors)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.DefaultConfig()
	cfg.AllowMethods = []string{"GET", "OPTIONS"}
	cfg.ExposeHeaders = []string{middleware.RequestIDHeader, middleware.DataSourceHeader}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}
