package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/stockpulse/internal/alphavantage"
	"github.com/guttosm/stockpulse/internal/domain/dto"
	"github.com/guttosm/stockpulse/internal/domain/failure"
	"github.com/guttosm/stockpulse/internal/inventory"
	"github.com/guttosm/stockpulse/internal/service"
)

const (
	proxyFailureMessage   = "Failed to fetch data from Alpha Vantage"
	proxyTimeoutMessage   = "Request to Alpha Vantage timed out. Please try again later."
	proxyRateLimitMessage = "Alpha Vantage API call frequency exceeded. Please try again later."
)

// Handler provides HTTP handlers for the market data API.
//
// Responsibilities:
//   - Forward raw provider queries through the cached client (proxy).
//   - Serve canonical records from the aggregation facade.
//   - Serve the fundamentals inventory.
type Handler struct {
	client    alphavantage.Client
	svc       service.MarketDataService
	inventory inventory.Inventory
}

// NewHandler constructs a new Handler instance.
//
// Parameters:
//   - client (alphavantage.Client): cached provider client used by the proxy.
//   - svc (service.MarketDataService): aggregation facade.
//   - inv (inventory.Inventory): fundamentals dataset.
//
// Returns:
//   - *Handler: A handler ready to be registered with the router.
func NewHandler(client alphavantage.Client, svc service.MarketDataService, inv inventory.Inventory) *Handler {
	return &Handler{client: client, svc: svc, inventory: inv}
}

// Proxy handles GET /api/alpha-vantage requests.
//
// Query Parameters:
//   - function (string, required): provider function name.
//   - symbol, interval, outputsize, tickers (string, optional): forwarded as given.
//
// Responses:
//   - 200 OK: the provider body, verbatim.
//   - 400 Bad Request: function is missing.
//   - 500 Internal Server Error: transport, provider or shape failure; message tells timeouts apart.
//
// Proxy godoc
// @Summary      Provider proxy
// @Description  Forwards a query to Alpha Vantage through the response cache
// @Tags         proxy
// @Produce      json
// @Param        function    query     string  true   "Provider function" example(GLOBAL_QUOTE)
// @Param        symbol      query     string  false  "Symbol" example(IBM)
// @Param        interval    query     string  false  "Intraday interval" example(5min)
// @Param        outputsize  query     string  false  "compact or full"
// @Param        tickers     query     string  false  "News tickers"
// @Success      200         {object}  map[string]interface{}   "Provider payload"
// @Failure      400         {object}  map[string]string        "Missing function"
// @Failure      500         {object}  dto.ProxyErrorResponse   "Upstream failure"
// @Router       /api/alpha-vantage [get]
func (h *Handler) Proxy(c *gin.Context) {
	req := alphavantage.Request{
		Function:   strings.TrimSpace(c.Query("function")),
		Symbol:     c.Query("symbol"),
		Interval:   c.Query("interval"),
		OutputSize: c.Query("outputsize"),
		Tickers:    c.Query("tickers"),
	}

	body, err := h.client.Call(c.Request.Context(), req)
	if err != nil {
		if failure.KindOf(err) == failure.KindCaller {
			c.JSON(http.StatusBadRequest, gin.H{"error": failureMessage(err)})
			return
		}
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, dto.ProxyErrorResponse{
			Error:   proxyFailureMessage,
			Message: proxyMessage(err),
		})
		return
	}

	c.Data(http.StatusOK, "application/json; charset=utf-8", body)
}

// proxyMessage tells timeouts and rate limits apart from other upstream failures.
func proxyMessage(err error) string {
	switch {
	case failure.IsTimeout(err):
		return proxyTimeoutMessage
	case failure.IsRateLimited(err):
		return proxyRateLimitMessage
	}
	return failureMessage(err)
}

func failureMessage(err error) string {
	var fe *failure.Error
	if errors.As(err, &fe) && fe.Message != "" {
		return fe.Message
	}
	return err.Error()
}
