package marketdata

import (
	"cmp"
	"fmt"
	"math"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/tidwall/gjson"

	"github.com/guttosm/stockpulse/internal/alphavantage"
	"github.com/guttosm/stockpulse/internal/domain/failure"
	"github.com/guttosm/stockpulse/internal/domain/models"
)

// Index quote defaults used when a quote field is missing, unparsable or zero.
const (
	defaultIndexPrice         = 4500.25
	defaultIndexChange        = 15.75
	defaultIndexChangePercent = 0.35
	defaultIndexOpen          = 4485.50
	defaultIndexHigh          = 4510.75
	defaultIndexLow           = 4475.25
	defaultIndexPrevClose     = 4484.50
	defaultIndexVolume        = 2.5e9
)

const (
	sectorLabelPrefix = "GICS "
	// duplicatedSector is reported by the provider alongside its GICS twin.
	duplicatedSector = "Information Technology"
	unknownValue     = "Unknown"
)

var seriesDateLayouts = []string{"2006-01-02 15:04:05", "2006-01-02"}

// NormalizeTimeSeries converts a provider series into PricePoints sorted by date.
//
// Behavior:
//   - Points with an unparsable date or price are skipped.
//   - Duplicate dates keep the first occurrence.
//   - High and low are widened to contain open and close.
//   - A series with no usable point is a shape failure.
func NormalizeTimeSeries(series gjson.Result) ([]models.PricePoint, error) {
	points := make([]models.PricePoint, 0, 64)
	seen := make(map[time.Time]struct{})

	series.ForEach(func(key, value gjson.Result) bool {
		date, ok := parseSeriesDate(key.String())
		if !ok {
			return true
		}
		if _, dup := seen[date]; dup {
			return true
		}
		p, ok := parsePricePoint(value)
		if !ok {
			return true
		}
		p.Date = date
		seen[date] = struct{}{}
		points = append(points, p)
		return true
	})

	if len(points) == 0 {
		return nil, failure.Shape("time series", "no usable points")
	}
	slices.SortFunc(points, func(a, b models.PricePoint) int { return a.Date.Compare(b.Date) })
	return points, nil
}

func parseSeriesDate(s string) (time.Time, bool) {
	for _, layout := range seriesDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

func parsePricePoint(v gjson.Result) (models.PricePoint, bool) {
	var prices [4]decimal.Decimal
	for i, field := range []string{"1. open", "2. high", "3. low", "4. close"} {
		d, err := decimal.NewFromString(strings.TrimSpace(v.Get(path(field)).String()))
		if err != nil || d.IsNegative() {
			return models.PricePoint{}, false
		}
		prices[i] = d
	}
	open, high, low, closing := prices[0], prices[1], prices[2], prices[3]

	var volume int64
	if d, err := decimal.NewFromString(strings.TrimSpace(v.Get(path("5. volume")).String())); err == nil && d.IsPositive() {
		volume = d.IntPart()
	}

	return models.PricePoint{
		Open:   open,
		High:   decimal.Max(high, open, closing, low),
		Low:    decimal.Min(low, open, closing),
		Close:  closing,
		Volume: volume,
	}, true
}

// NormalizeProfile maps an OVERVIEW payload to a CompanyProfile.
//
// Defaults:
//   - description: "No description available for <symbol>"
//   - industry, sector, ceo: "Unknown"
//   - website: https://www.<symbol>.com
//   - numeric fields: 0
//
// DividendYield is converted from a fraction to a percentage.
func NormalizeProfile(overview gjson.Result, symbol string) models.CompanyProfile {
	str := func(field, def string) string {
		if s := strings.TrimSpace(overview.Get(field).String()); s != "" && s != "None" {
			return s
		}
		return def
	}

	marketCap, err := decimal.NewFromString(strings.TrimSpace(overview.Get("MarketCapitalization").String()))
	if err != nil || marketCap.IsNegative() {
		marketCap = decimal.Zero
	}
	employees := int64(parseNumber(overview.Get("FullTimeEmployees").String()))
	if employees < 0 {
		employees = 0
	}

	high := max(parseNumber(overview.Get("52WeekHigh").String()), 0)
	low := max(parseNumber(overview.Get("52WeekLow").String()), 0)
	if low > high {
		high, low = low, high
	}

	website := str("Website", str("OfficialSite", fmt.Sprintf("https://www.%s.com", strings.ToLower(symbol))))

	return models.CompanyProfile{
		Symbol:           str("Symbol", symbol),
		Description:      str("Description", "No description available for "+symbol),
		Employees:        employees,
		Industry:         str("Industry", unknownValue),
		Sector:           str("Sector", unknownValue),
		Website:          website,
		CEO:              str("CEO", unknownValue),
		MarketCap:        marketCap,
		PERatio:          parseNumber(overview.Get("PERatio").String()),
		DividendYield:    parseNumber(overview.Get("DividendYield").String()) * 100,
		EPS:              parseNumber(overview.Get("EPS").String()),
		Beta:             parseNumber(overview.Get("Beta").String()),
		FiftyTwoWeekHigh: high,
		FiftyTwoWeekLow:  low,
	}
}

// newsPublishedLayout is the compact timestamp used by the news feed.
const newsPublishedLayout = "20060102T150405"

// newsDate reduces a feed timestamp to YYYY-MM-DD. Unknown layouts keep their first ten characters,
// so a timestamp already shaped like YYYY-MM-DDThh:mm:ss is truncated to its date.
func newsDate(published string) string {
	if t, err := time.Parse(newsPublishedLayout, published); err == nil {
		return t.Format(time.DateOnly)
	}
	if len(published) > 10 {
		return published[:10]
	}
	return published
}

// NormalizeNews maps feed items to NewsItems, reducing time_published to a date.
func NormalizeNews(feed gjson.Result) []models.NewsItem {
	items := make([]models.NewsItem, 0, len(feed.Array()))
	for _, item := range feed.Array() {
		published := newsDate(item.Get("time_published").String())
		items = append(items, models.NewsItem{
			Headline:  item.Get("title").String(),
			Date:      published,
			Source:    item.Get("source").String(),
			URL:       item.Get("url").String(),
			Summary:   item.Get("summary").String(),
			Sentiment: newsSentiment(item.Get("overall_sentiment_label").String()),
		})
	}
	return items
}

func newsSentiment(label string) string {
	for _, s := range models.NewsSentiments {
		if strings.EqualFold(s, label) {
			return s
		}
	}
	return models.SentimentNeutral
}

// NormalizeQuote maps a GLOBAL_QUOTE object to an IndexQuote.
// Missing or zero fields take the index defaults; high and low are widened to contain price.
func NormalizeQuote(quote gjson.Result, symbol string) models.IndexQuote {
	num := func(field string, def float64) float64 {
		if v := parseNumber(quote.Get(path(field)).String()); v != 0 {
			return v
		}
		return def
	}
	q := models.IndexQuote{
		Symbol:        quote.Get(path("01. symbol")).String(),
		Open:          num("02. open", defaultIndexOpen),
		High:          num("03. high", defaultIndexHigh),
		Low:           num("04. low", defaultIndexLow),
		Price:         num("05. price", defaultIndexPrice),
		Volume:        num("06. volume", defaultIndexVolume),
		PreviousClose: num("08. previous close", defaultIndexPrevClose),
		Change:        num("09. change", defaultIndexChange),
		ChangePercent: defaultIndexChangePercent,
	}
	if pct, err := parsePercent(quote.Get(path("10. change percent")).String()); err == nil && pct != 0 {
		q.ChangePercent = pct
	}
	if q.Symbol == "" {
		q.Symbol = symbol
	}
	q.High = max(q.High, q.Price)
	q.Low = min(q.Low, q.Price)
	return q
}

// NormalizeBreadth counts the provider's gainers and losers.
func NormalizeBreadth(movers gjson.Result) models.MarketBreadth {
	return models.MarketBreadth{
		Advances: len(movers.Get(TopGainersKey).Array()),
		Declines: len(movers.Get(TopLosersKey).Array()),
	}
}

// NormalizeSectors turns the performance ranking into a list sorted by change, descending.
// The duplicated technology label is dropped and the GICS prefix is stripped.
func NormalizeSectors(rank gjson.Result) ([]models.SectorPerformance, error) {
	var sectors []models.SectorPerformance
	rank.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		if name == duplicatedSector {
			return true
		}
		change, err := parsePercent(value.String())
		if err != nil {
			return true
		}
		sectors = append(sectors, models.SectorPerformance{
			Sector: strings.TrimPrefix(name, sectorLabelPrefix),
			Change: change,
		})
		return true
	})
	if len(sectors) == 0 {
		return nil, failure.Shape(alphavantage.FunctionSector, "no sector performance values")
	}
	SortSectors(sectors)
	return sectors, nil
}

// SortSectors orders sectors by change, descending.
func SortSectors(sectors []models.SectorPerformance) {
	slices.SortStableFunc(sectors, func(a, b models.SectorPerformance) int { return cmp.Compare(b.Change, a.Change) })
}

// NormalizeMovers maps a TOP_GAINERS_LOSERS payload to TopPerformers.
//
// Each list is capped at models.MaxPerformers. Gainers with a negative change and
// losers with a positive change are dropped. MostActive is ordered by volume.
func NormalizeMovers(movers gjson.Result) models.TopPerformers {
	tp := models.TopPerformers{
		TopGainers: performers(movers.Get(TopGainersKey), func(p models.Performer) bool { return p.Change >= 0 && p.ChangePercent >= 0 }),
		TopLosers:  performers(movers.Get(TopLosersKey), func(p models.Performer) bool { return p.Change <= 0 && p.ChangePercent <= 0 }),
		MostActive: performers(movers.Get(MostActiveKey), nil),
		DataSource: models.SourceAlphaVantage,
	}
	SortByVolume(tp.MostActive)
	return tp
}

func performers(list gjson.Result, keep func(models.Performer) bool) []models.Performer {
	out := make([]models.Performer, 0, models.MaxPerformers)
	for _, item := range list.Array() {
		if len(out) == models.MaxPerformers {
			break
		}
		p := performer(item)
		if keep != nil && !keep(p) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func performer(item gjson.Result) models.Performer {
	symbol := item.Get("ticker").String()
	name := item.Get("name").String()
	if name == "" {
		name = symbol
	}
	pct, _ := parsePercent(item.Get("change_percentage").String())
	return models.Performer{
		Symbol:        symbol,
		Name:          name,
		Price:         parseNumber(item.Get("price").String()),
		Change:        parseNumber(item.Get("change_amount").String()),
		ChangePercent: pct,
		Volume:        int64(parseNumber(item.Get("volume").String())),
	}
}

// SortByVolume orders performers by volume, descending.
func SortByVolume(ps []models.Performer) {
	slices.SortStableFunc(ps, func(a, b models.Performer) int { return cmp.Compare(b.Volume, a.Volume) })
}

// LatestPrices maps every ticker in a movers payload to its last price.
func LatestPrices(movers gjson.Result) map[string]float64 {
	prices := make(map[string]float64)
	for _, key := range []string{TopGainersKey, TopLosersKey, MostActiveKey} {
		for _, item := range movers.Get(key).Array() {
			if price := parseNumber(item.Get("price").String()); price > 0 {
				prices[item.Get("ticker").String()] = price
			}
		}
	}
	return prices
}

// parseNumber reads a provider numeric string; anything unparsable is 0.
func parseNumber(s string) float64 {
	v, err := parseFinite(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return v
}

func parsePercent(s string) (float64, error) {
	return parseFinite(strings.TrimSuffix(strings.TrimSpace(s), "%"))
}

// parseFinite rejects NaN and infinities, which cannot be encoded as JSON.
func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("non-finite number %q", s)
	}
	return v, nil
}
