package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// Prices are rendered as JSON numbers, not quoted strings.
	decimal.MarshalJSONWithoutQuotes = true
}

// PricePoint is one OHLCV bar of a historical series.
//
// Within a series dates are strictly increasing and
// Low <= Open, Close <= High holds for every point.
//
// swagger:model PricePoint
type PricePoint struct {
	Date   time.Time       `json:"date" example:"2024-09-03T00:00:00Z"`
	Open   decimal.Decimal `json:"open" swaggertype:"number" example:"182.35"`
	High   decimal.Decimal `json:"high" swaggertype:"number" example:"184.10"`
	Low    decimal.Decimal `json:"low" swaggertype:"number" example:"181.02"`
	Close  decimal.Decimal `json:"close" swaggertype:"number" example:"183.77"`
	Volume int64           `json:"volume" example:"51234000"`
}

// Period is a requested history horizon.
type Period string

const (
	Period1D Period = "1d"
	Period1W Period = "1w"
	Period1M Period = "1m"
	Period3M Period = "3m"
	Period6M Period = "6m"
	Period1Y Period = "1y"
	Period5Y Period = "5y"
)

// DefaultPeriod is used when no period is requested.
const DefaultPeriod = Period1Y

// Days is the number of daily points synthesized for the period.
// Periods without an explicit horizon use a year.
func (p Period) Days() int {
	switch p {
	case Period1M:
		return 30
	case Period3M:
		return 90
	case Period6M:
		return 180
	case Period1Y:
		return 365
	case Period5Y:
		return 365 * 5
	default:
		return 365
	}
}
