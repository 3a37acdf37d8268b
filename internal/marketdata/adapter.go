// Package marketdata turns raw provider payloads into canonical records.
//
// Every category has an endpoint Adapter bundling the provider request, a
// validator that locates the expected substructure, a pure normalizer and a
// mock generator with the same output shape. Validators, normalizers and mock
// generators do no I/O.
package marketdata

import (
	"math/rand/v2"
	"time"

	"github.com/tidwall/gjson"

	"github.com/guttosm/stockpulse/internal/alphavantage"
	"github.com/guttosm/stockpulse/internal/domain/models"
)

// Category identifies one kind of aggregated data.
type Category string

const (
	CategoryHistory       Category = "history"
	CategoryProfile       Category = "profile"
	CategoryNews          Category = "news"
	CategoryIndexQuote    Category = "index_quote"
	CategoryBreadth       Category = "breadth"
	CategorySectors       Category = "sectors"
	CategoryTopPerformers Category = "top_performers"
	CategoryCapDistrib    Category = "cap_distribution"
	CategoryMarketSummary Category = "market_summary"
)

// IntradayInterval is the bar size requested for one-day histories.
const IntradayInterval = "5min"

const historyOutputSize = "full"

// Categories lists every category served by the facade.
var Categories = []Category{
	CategoryHistory,
	CategoryProfile,
	CategoryNews,
	CategoryMarketSummary,
	CategoryTopPerformers,
	CategoryCapDistrib,
}

// Adapter describes how one category is fetched, checked, converted and faked.
type Adapter[T any] struct {
	Category  Category
	Request   alphavantage.Request
	Validate  func(body []byte) (gjson.Result, error)
	Normalize func(node gjson.Result) (T, error)
	Mock      func(rng *rand.Rand, now time.Time) T
}

// HistoryRequest maps a period to the provider call for its granularity:
// 1d is intraday at 5min, 5y is weekly, anything else is daily.
func HistoryRequest(symbol string, period models.Period) alphavantage.Request {
	req := alphavantage.Request{Symbol: symbol, OutputSize: historyOutputSize}
	switch period {
	case models.Period1D:
		req.Function = alphavantage.FunctionIntraday
		req.Interval = IntradayInterval
	case models.Period5Y:
		req.Function = alphavantage.FunctionWeekly
	default:
		req.Function = alphavantage.FunctionDaily
	}
	return req
}

// History adapts a price history request.
func History(symbol string, period models.Period) Adapter[[]models.PricePoint] {
	req := HistoryRequest(symbol, period)
	key := TimeSeriesKey(req.Function, req.Interval)
	return Adapter[[]models.PricePoint]{
		Category:  CategoryHistory,
		Request:   req,
		Validate:  func(body []byte) (gjson.Result, error) { return ValidateTimeSeries(body, key) },
		Normalize: NormalizeTimeSeries,
		Mock: func(rng *rand.Rand, now time.Time) []models.PricePoint {
			return MockHistory(rng, symbol, period, now)
		},
	}
}

// Profile adapts a company overview request.
func Profile(symbol string) Adapter[models.CompanyProfile] {
	return Adapter[models.CompanyProfile]{
		Category: CategoryProfile,
		Request:  alphavantage.Request{Function: alphavantage.FunctionOverview, Symbol: symbol},
		Validate: ValidateProfile,
		Normalize: func(node gjson.Result) (models.CompanyProfile, error) {
			return NormalizeProfile(node, symbol), nil
		},
		Mock: func(rng *rand.Rand, _ time.Time) models.CompanyProfile { return MockProfile(rng, symbol) },
	}
}

// News adapts a news sentiment request.
func News(symbol string) Adapter[[]models.NewsItem] {
	return Adapter[[]models.NewsItem]{
		Category: CategoryNews,
		Request:  alphavantage.Request{Function: alphavantage.FunctionNews, Tickers: symbol},
		Validate: ValidateNews,
		Normalize: func(node gjson.Result) ([]models.NewsItem, error) {
			return NormalizeNews(node), nil
		},
		Mock: func(rng *rand.Rand, now time.Time) []models.NewsItem { return MockNews(rng, symbol, now) },
	}
}

// IndexQuote adapts the index quote of the market summary.
func IndexQuote(symbol string) Adapter[models.IndexQuote] {
	return Adapter[models.IndexQuote]{
		Category: CategoryIndexQuote,
		Request:  alphavantage.Request{Function: alphavantage.FunctionGlobalQuote, Symbol: symbol},
		Validate: ValidateQuote,
		Normalize: func(node gjson.Result) (models.IndexQuote, error) {
			return NormalizeQuote(node, symbol), nil
		},
		Mock: func(rng *rand.Rand, _ time.Time) models.IndexQuote { return MockIndexQuote(rng, symbol) },
	}
}

// Breadth adapts the advances/declines count of the market summary.
func Breadth() Adapter[models.MarketBreadth] {
	return Adapter[models.MarketBreadth]{
		Category: CategoryBreadth,
		Request:  alphavantage.Request{Function: alphavantage.FunctionTopMovers},
		Validate: ValidateMovers,
		Normalize: func(node gjson.Result) (models.MarketBreadth, error) {
			return NormalizeBreadth(node), nil
		},
		Mock: func(*rand.Rand, time.Time) models.MarketBreadth { return MockBreadth() },
	}
}

// Sectors adapts the sector ranking of the market summary.
func Sectors() Adapter[[]models.SectorPerformance] {
	return Adapter[[]models.SectorPerformance]{
		Category:  CategorySectors,
		Request:   alphavantage.Request{Function: alphavantage.FunctionSector},
		Validate:  ValidateSectors,
		Normalize: NormalizeSectors,
		Mock:      func(*rand.Rand, time.Time) []models.SectorPerformance { return MockSectors() },
	}
}

// TopPerformers adapts the day's movers.
func TopPerformers() Adapter[models.TopPerformers] {
	return Adapter[models.TopPerformers]{
		Category: CategoryTopPerformers,
		Request:  alphavantage.Request{Function: alphavantage.FunctionTopMovers},
		Validate: ValidateMovers,
		Normalize: func(node gjson.Result) (models.TopPerformers, error) {
			return NormalizeMovers(node), nil
		},
		Mock: func(rng *rand.Rand, _ time.Time) models.TopPerformers { return MockTopPerformers(rng) },
	}
}

// LatestMoverPrices adapts the movers call used to re-price market caps.
// Its mock is an empty price map, which leaves stored caps untouched.
func LatestMoverPrices() Adapter[map[string]float64] {
	return Adapter[map[string]float64]{
		Category: CategoryCapDistrib,
		Request:  alphavantage.Request{Function: alphavantage.FunctionTopMovers},
		Validate: ValidateMovers,
		Normalize: func(node gjson.Result) (map[string]float64, error) {
			return LatestPrices(node), nil
		},
		Mock: func(*rand.Rand, time.Time) map[string]float64 { return map[string]float64{} },
	}
}
