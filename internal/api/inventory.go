package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/stockpulse/internal/inventory"
	"github.com/guttosm/stockpulse/internal/middleware"
)

// GetSymbols godoc
// @Summary      Symbols for autocomplete
// @Tags         inventory
// @Produce      json
// @Success      200  {array}   inventory.SymbolInfo
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/v1/symbols [get]
func (h *Handler) GetSymbols(c *gin.Context) {
	symbols, err := h.inventory.Symbols(c.Request.Context())
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "Failed to retrieve stock symbols", err)
		return
	}
	c.JSON(http.StatusOK, symbols)
}

// GetStock godoc
// @Summary      Fundamentals of one symbol
// @Tags         inventory
// @Produce      json
// @Param        symbol  path      string  true  "Symbol" example(MMM)
// @Success      200     {object}  inventory.Record
// @Failure      404     {object}  dto.ErrorResponse
// @Failure      500     {object}  dto.ErrorResponse
// @Router       /api/v1/stocks/{symbol} [get]
func (h *Handler) GetStock(c *gin.Context) {
	rec, err := h.inventory.Lookup(c.Request.Context(), symbolParam(c))
	switch {
	case errors.Is(err, inventory.ErrNotFound):
		middleware.AbortWithError(c, http.StatusNotFound, "Stock not found", nil)
		return
	case err != nil:
		middleware.AbortWithError(c, http.StatusInternalServerError, "Failed to load stock data", err)
		return
	}
	c.JSON(http.StatusOK, rec)
}

// GetFinancials godoc
// @Summary      Fundamentals of every symbol
// @Tags         inventory
// @Produce      json
// @Success      200  {array}   inventory.Record
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/v1/financials [get]
func (h *Handler) GetFinancials(c *gin.Context) {
	records, err := h.inventory.Records(c.Request.Context())
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "Failed to load financial data", err)
		return
	}
	c.JSON(http.StatusOK, records)
}

// GetSectors godoc
// @Summary      Sector statistics
// @Description  Count, total market cap, average P/E and dividend yield per sector; stocks sorted by market cap
// @Tags         inventory
// @Produce      json
// @Success      200  {object}  map[string]inventory.SectorSummary
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/v1/sectors [get]
func (h *Handler) GetSectors(c *gin.Context) {
	sectors, err := h.inventory.Sectors(c.Request.Context())
	if err != nil {
		middleware.AbortWithError(c, http.StatusInternalServerError, "Failed to analyze sector data", err)
		return
	}
	c.JSON(http.StatusOK, sectors)
}
