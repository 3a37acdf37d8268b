package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/stockpulse/internal/domain/models"
	"github.com/guttosm/stockpulse/internal/middleware"
	"github.com/guttosm/stockpulse/internal/service"
)

// respond writes a facade result. The body is always the canonical record;
// provenance travels in the X-Data-Source header.
func respond[T any](c *gin.Context, res service.Result[T]) {
	c.Header(middleware.DataSourceHeader, string(res.Source))
	c.JSON(http.StatusOK, res.Value)
}

func symbolParam(c *gin.Context) string {
	return strings.ToUpper(strings.TrimSpace(c.Param("symbol")))
}

// GetHistory godoc
// @Summary      Price history
// @Description  Daily (or intraday for 1d, weekly for 5y) OHLCV bars in ascending date order
// @Tags         market
// @Produce      json
// @Param        symbol  path      string  true   "Symbol" example(IBM)
// @Param        period  query     string  false  "1d|1w|1m|3m|6m|1y|5y" default(1y)
// @Success      200     {array}   models.PricePoint
// @Header       200     {string}  X-Data-Source  "Alpha Vantage or Mock Data"
// @Router       /api/v1/history/{symbol} [get]
func (h *Handler) GetHistory(c *gin.Context) {
	period := models.Period(strings.ToLower(c.DefaultQuery("period", string(models.DefaultPeriod))))
	respond(c, h.svc.Historical(c.Request.Context(), symbolParam(c), period))
}

// GetProfile godoc
// @Summary      Company profile
// @Tags         market
// @Produce      json
// @Param        symbol  path      string  true  "Symbol" example(IBM)
// @Success      200     {object}  models.CompanyProfile
// @Header       200     {string}  X-Data-Source  "Alpha Vantage or Mock Data"
// @Router       /api/v1/profile/{symbol} [get]
func (h *Handler) GetProfile(c *gin.Context) {
	respond(c, h.svc.Profile(c.Request.Context(), symbolParam(c)))
}

// GetNews godoc
// @Summary      Company news
// @Tags         market
// @Produce      json
// @Param        symbol  path      string  true  "Symbol" example(IBM)
// @Success      200     {array}   models.NewsItem
// @Header       200     {string}  X-Data-Source  "Alpha Vantage or Mock Data"
// @Router       /api/v1/news/{symbol} [get]
func (h *Handler) GetNews(c *gin.Context) {
	respond(c, h.svc.News(c.Request.Context(), symbolParam(c)))
}

// GetMarketSummary godoc
// @Summary      Market summary
// @Description  Index quote, breadth, sector ranking and sentiment, with per-part provenance
// @Tags         market
// @Produce      json
// @Success      200  {object}  models.MarketSummary
// @Header       200  {string}  X-Data-Source  "Alpha Vantage when every part is real, else Mock Data"
// @Router       /api/v1/market/summary [get]
func (h *Handler) GetMarketSummary(c *gin.Context) {
	respond(c, h.svc.MarketSummary(c.Request.Context()))
}

// GetTopPerformers godoc
// @Summary      Top gainers, losers and most active
// @Tags         market
// @Produce      json
// @Success      200  {object}  models.TopPerformers
// @Header       200  {string}  X-Data-Source  "Alpha Vantage or Mock Data"
// @Router       /api/v1/market/top-performers [get]
func (h *Handler) GetTopPerformers(c *gin.Context) {
	respond(c, h.svc.TopPerformers(c.Request.Context()))
}

// GetCapDistribution godoc
// @Summary      Market cap distribution
// @Tags         market
// @Produce      json
// @Success      200  {object}  models.MarketCapDistribution
// @Header       200  {string}  X-Data-Source  "Alpha Vantage or Mock Data"
// @Router       /api/v1/market/cap-distribution [get]
func (h *Handler) GetCapDistribution(c *gin.Context) {
	respond(c, h.svc.MarketCapDistribution(c.Request.Context()))
}
