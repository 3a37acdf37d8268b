package marketdata

import (
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"github.com/guttosm/stockpulse/internal/alphavantage"
	"github.com/guttosm/stockpulse/internal/domain/failure"
)

// Top-level keys of provider payloads.
const (
	DailySeriesKey  = "Time Series (Daily)"
	WeeklySeriesKey = "Weekly Time Series"
	GlobalQuoteKey  = "Global Quote"
	NewsFeedKey     = "feed"
	TopGainersKey   = "top_gainers"
	TopLosersKey    = "top_losers"
	MostActiveKey   = "most_actively_traded"
)

// profileFields are OVERVIEW fields; a profile must carry at least one of them.
var profileFields = []string{"Symbol", "Name", "Description", "Sector", "Industry", "MarketCapitalization"}

// TimeSeriesKey returns the payload key holding the series for a time-series function.
func TimeSeriesKey(function, interval string) string {
	switch function {
	case alphavantage.FunctionIntraday:
		if interval == "" {
			interval = IntradayInterval
		}
		return fmt.Sprintf("Time Series (%s)", interval)
	case alphavantage.FunctionWeekly:
		return WeeklySeriesKey
	default:
		return DailySeriesKey
	}
}

// ValidateTimeSeries locates the non-empty series object under key.
func ValidateTimeSeries(body []byte, key string) (gjson.Result, error) {
	series := gjson.GetBytes(body, path(key))
	if !series.IsObject() || isEmptyObject(series) {
		return gjson.Result{}, failure.Shape("time series", "missing or empty %q", key)
	}
	return series, nil
}

// ValidateProfile accepts a non-empty object carrying at least one recognizable OVERVIEW field.
func ValidateProfile(body []byte) (gjson.Result, error) {
	root := gjson.ParseBytes(body)
	if !root.IsObject() || isEmptyObject(root) {
		return gjson.Result{}, failure.Shape(alphavantage.FunctionOverview, "empty profile")
	}
	for _, f := range profileFields {
		if root.Get(f).Exists() {
			return root, nil
		}
	}
	return gjson.Result{}, failure.Shape(alphavantage.FunctionOverview, "no profile fields")
}

// ValidateNews locates the feed array.
func ValidateNews(body []byte) (gjson.Result, error) {
	feed := gjson.GetBytes(body, NewsFeedKey)
	if !feed.IsArray() {
		return gjson.Result{}, failure.Shape(alphavantage.FunctionNews, "missing %q array", NewsFeedKey)
	}
	return feed, nil
}

// ValidateQuote locates the non-empty quote object.
func ValidateQuote(body []byte) (gjson.Result, error) {
	quote := gjson.GetBytes(body, path(GlobalQuoteKey))
	if !quote.IsObject() || isEmptyObject(quote) {
		return gjson.Result{}, failure.Shape(alphavantage.FunctionGlobalQuote, "missing or empty %q", GlobalQuoteKey)
	}
	return quote, nil
}

// ValidateMovers requires the gainers, losers and most active arrays.
func ValidateMovers(body []byte) (gjson.Result, error) {
	root := gjson.ParseBytes(body)
	for _, key := range []string{TopGainersKey, TopLosersKey, MostActiveKey} {
		if !root.Get(key).IsArray() {
			return gjson.Result{}, failure.Shape(alphavantage.FunctionTopMovers, "missing %q array", key)
		}
	}
	return root, nil
}

// ValidateSectors locates the real-time performance ranking.
func ValidateSectors(body []byte) (gjson.Result, error) {
	rank := gjson.GetBytes(body, path(alphavantage.SectorRealTimeRankKey))
	if !rank.IsObject() {
		return gjson.Result{}, failure.Shape(alphavantage.FunctionSector, "missing %q", alphavantage.SectorRealTimeRankKey)
	}
	return rank, nil
}

func isEmptyObject(r gjson.Result) bool {
	empty := true
	r.ForEach(func(_, _ gjson.Result) bool {
		empty = false
		return false
	})
	return empty
}

// path escapes a literal object key for use as a gjson path.
func path(key string) string {
	const special = `.*?|#@\!=<>%()"`
	var b strings.Builder
	for _, r := range key {
		if strings.ContainsRune(special, r) {
			b.WriteByte('\\')
		}
		b.WriteRune(r)
	}
	return b.String()
}
