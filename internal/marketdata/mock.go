package marketdata

import (
	"cmp"
	"fmt"
	"math"
	"math/rand/v2"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/guttosm/stockpulse/internal/domain/models"
)

// Mock generators produce fallback data with the same shape and invariants as
// normalized provider data. Values are random; callers pass the source so tests
// can seed it.

// NewRand returns a PCG source seeded from the given values.
func NewRand(seed1, seed2 uint64) *rand.Rand {
	return rand.New(rand.NewPCG(seed1, seed2))
}

// ─── Historical ──────────────────────────────────────────────────────────────

// MockHistory walks a price forward one day at a time and returns period.Days()
// daily points ending on now's date. The starting price is derived from the symbol
// so the same symbol starts at the same level.
func MockHistory(rng *rand.Rand, symbol string, period models.Period, now time.Time) []models.PricePoint {
	days := period.Days()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	sum := 0
	for _, r := range symbol {
		sum += int(r)
	}
	price := 50 + float64(sum%200)

	points := make([]models.PricePoint, 0, days)
	for i := days - 1; i >= 0; i-- {
		change := (rng.Float64() - 0.48) * 2 // percent, slightly upward biased
		price = math.Max(1, price*(1+change/100))

		open := price * (1 - rng.Float64()*0.01)
		high := price * (1 + rng.Float64()*0.02)
		low := math.Min(price*(1-rng.Float64()*0.02), open)

		points = append(points, models.PricePoint{
			Date:   today.AddDate(0, 0, -i),
			Open:   money(open),
			High:   money(high),
			Low:    money(low),
			Close:  money(price),
			Volume: int64(rng.Float64()*1e7) + 1e6,
		})
	}
	return points
}

func money(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).Round(2)
}

// ─── Profile ─────────────────────────────────────────────────────────────────

// MockProfile fills a CompanyProfile with plausible values:
// employees 1,000-101,000, market cap $1B-$1T, P/E 5-35, dividend yield 0-5%,
// EPS 1-11, beta 0.5-2.5, 52 week high 100-300 and low 50-150.
func MockProfile(rng *rand.Rand, symbol string) models.CompanyProfile {
	high := round2(100 + rng.Float64()*200)
	low := round2(50 + rng.Float64()*100)
	if low > high {
		high, low = low, high
	}
	return models.CompanyProfile{
		Symbol: symbol,
		Description: fmt.Sprintf("%s is a leading company in its industry, focused on innovation and growth. "+
			"The company has a strong market position and continues to expand its product offerings.", symbol),
		Employees:        int64(rng.IntN(100000)) + 1000,
		Industry:         "Technology",
		Sector:           "Information Technology",
		Website:          fmt.Sprintf("https://www.%s.com", strings.ToLower(symbol)),
		CEO:              "John Smith",
		MarketCap:        decimal.NewFromInt(rng.Int64N(1e12) + 1e9),
		PERatio:          round2(rng.Float64()*30 + 5),
		DividendYield:    round2(rng.Float64() * 5),
		EPS:              round2(rng.Float64()*10 + 1),
		Beta:             round2(rng.Float64()*2 + 0.5),
		FiftyTwoWeekHigh: high,
		FiftyTwoWeekLow:  low,
	}
}

// ─── News ────────────────────────────────────────────────────────────────────

var (
	newsHeadlines = []string{
		"%s Reports Strong Quarterly Earnings",
		"%s Announces New Product Line",
		"%s CEO Discusses Future Growth Strategy",
		"Analysts Upgrade %s Stock Rating",
		"%s Expands into New Markets",
	}
	newsSources = []string{"Bloomberg", "Reuters", "CNBC", "Wall Street Journal", "Financial Times"}
)

// MockNews returns one item per headline template, dated two days apart going back from now.
func MockNews(rng *rand.Rand, symbol string, now time.Time) []models.NewsItem {
	items := make([]models.NewsItem, 0, len(newsHeadlines))
	for i, tmpl := range newsHeadlines {
		headline := fmt.Sprintf(tmpl, symbol)
		items = append(items, models.NewsItem{
			Headline:  headline,
			Date:      now.AddDate(0, 0, -2*i).Format(time.DateOnly),
			Source:    newsSources[i],
			URL:       fmt.Sprintf("https://example.com/news/%s/%d", strings.ToLower(symbol), i),
			Summary:   fmt.Sprintf("This is a mock summary for %s. In a real application, this would contain actual news content.", headline),
			Sentiment: models.NewsSentiments[rng.IntN(len(models.NewsSentiments))],
		})
	}
	return items
}

// ─── Market summary ──────────────────────────────────────────────────────────

var mockSectors = []models.SectorPerformance{
	{Sector: "Energy", Change: 2.5},
	{Sector: "Technology", Change: 1.8},
	{Sector: "Healthcare", Change: 1.2},
	{Sector: "Consumer Discretionary", Change: 0.7},
	{Sector: "Financials", Change: 0.3},
	{Sector: "Consumer Staples", Change: -0.2},
	{Sector: "Industrials", Change: -0.5},
	{Sector: "Utilities", Change: -0.9},
	{Sector: "Real Estate", Change: -1.3},
	{Sector: "Materials", Change: -1.8},
}

// MockIndexQuote returns a random index quote with high >= price >= low.
func MockIndexQuote(rng *rand.Rand, symbol string) models.IndexQuote {
	q := models.IndexQuote{
		Symbol:        symbol,
		Price:         round2(4500 + rng.Float64()*200),
		Change:        round2(15 + rng.Float64()*20 - 10),
		ChangePercent: round2(0.3 + rng.Float64()*0.8 - 0.4),
		Open:          round2(4480 + rng.Float64()*50),
		High:          round2(4520 + rng.Float64()*50),
		Low:           round2(4470 + rng.Float64()*40),
		PreviousClose: round2(4485 + rng.Float64()*40),
		Volume:        math.Round(2.5e9 + rng.Float64()*5e8),
	}
	q.High = max(q.High, q.Price)
	q.Low = min(q.Low, q.Price)
	return q
}

// MockBreadth returns a fixed advances/declines split.
func MockBreadth() models.MarketBreadth {
	return models.MarketBreadth{Advances: 285, Declines: 215}
}

// MockSectors returns a fixed ten-sector ranking sorted by change, descending.
func MockSectors() []models.SectorPerformance {
	return slices.Clone(mockSectors)
}

// MockMarketSummary returns a summary built entirely from mock parts.
func MockMarketSummary(rng *rand.Rand, indexSymbol string, now time.Time) models.MarketSummary {
	breadth := MockBreadth()
	return models.MarketSummary{
		SPXIndex:          MockIndexQuote(rng, indexSymbol),
		MarketBreadth:     breadth,
		SectorPerformance: MockSectors(),
		Sentiment:         SentimentFromBreadth(breadth),
		Timestamp:         now,
		DataSource: models.SummarySources{
			SPX:     models.SourceMock,
			Breadth: models.SourceMock,
			Sectors: models.SourceMock,
		},
	}
}

// SentimentFromBreadth labels the market from the advance/decline ratio.
func SentimentFromBreadth(b models.MarketBreadth) models.MarketSentiment {
	declines := b.Declines
	if declines == 0 {
		declines = 1
	}
	ratio := float64(b.Advances) / float64(declines)
	switch {
	case ratio > 1.5:
		return models.MarketSentiment{Label: "Bullish", CSSClass: "bullish"}
	case ratio > 1.1:
		return models.MarketSentiment{Label: "Slightly Bullish", CSSClass: "slightly-bullish"}
	case ratio > 0.9:
		return models.MarketSentiment{Label: "Neutral", CSSClass: "neutral"}
	case ratio > 0.5:
		return models.MarketSentiment{Label: "Slightly Bearish", CSSClass: "slightly-bearish"}
	default:
		return models.MarketSentiment{Label: "Bearish", CSSClass: "bearish"}
	}
}

// ─── Top performers ──────────────────────────────────────────────────────────

type performerTemplate struct {
	symbol, name string
	price        float64
	change       float64
	volume       float64
}

var (
	gainerTemplates = []performerTemplate{
		{"AAPL", "Apple Inc.", 180, 5, 10e6},
		{"MSFT", "Microsoft Corporation", 350, 8, 8e6},
		{"AMZN", "Amazon.com Inc.", 150, 4, 9e6},
		{"GOOGL", "Alphabet Inc.", 130, 3, 7e6},
		{"META", "Meta Platforms Inc.", 300, 7, 6e6},
		{"TSLA", "Tesla Inc.", 200, 6, 12e6},
		{"NVDA", "NVIDIA Corporation", 500, 15, 15e6},
		{"V", "Visa Inc.", 250, 5, 5e6},
		{"JPM", "JPMorgan Chase & Co.", 160, 4, 6e6},
		{"JNJ", "Johnson & Johnson", 150, 3, 4e6},
	}
	loserTemplates = []performerTemplate{
		{"IBM", "International Business Machines", 140, 3, 5e6},
		{"T", "AT&T Inc.", 18, 0.5, 7e6},
		{"GE", "General Electric Company", 120, 2, 6e6},
		{"F", "Ford Motor Company", 12, 0.3, 8e6},
		{"GM", "General Motors Company", 40, 1, 6e6},
		{"INTC", "Intel Corporation", 35, 1, 9e6},
		{"VZ", "Verizon Communications Inc.", 40, 1, 5e6},
		{"PFE", "Pfizer Inc.", 30, 0.8, 7e6},
		{"KO", "The Coca-Cola Company", 60, 1, 4e6},
		{"DIS", "The Walt Disney Company", 100, 2, 6e6},
	}
)

// mostActivePerList is how many entries of each list feed MostActive.
const mostActivePerList = 5

// MockTopPerformers builds gainers and losers from fixed tickers with randomized
// price, change and volume. Gainers are always positive, losers always negative.
// MostActive takes the five largest movers of each list, ordered by volume.
func MockTopPerformers(rng *rand.Rand) models.TopPerformers {
	gainers := mockPerformers(rng, gainerTemplates, 1)
	losers := mockPerformers(rng, loserTemplates, -1)

	mostActive := append(largestMovers(gainers), largestMovers(losers)...)
	SortByVolume(mostActive)

	return models.TopPerformers{
		TopGainers: gainers,
		TopLosers:  losers,
		MostActive: mostActive,
		DataSource: models.SourceMock,
	}
}

func mockPerformers(rng *rand.Rand, templates []performerTemplate, sign float64) []models.Performer {
	out := make([]models.Performer, 0, len(templates))
	for _, t := range templates {
		price := round2(t.price + rng.Float64()*t.price*0.2)
		change := round2(t.change*(rng.Float64()*0.5+0.5)) * sign
		out = append(out, models.Performer{
			Symbol:        t.symbol,
			Name:          t.name,
			Price:         price,
			Change:        change,
			ChangePercent: round2(change / price * 100),
			Volume:        int64(t.volume * (rng.Float64()*2 + 0.5)),
		})
	}
	return out
}

func largestMovers(ps []models.Performer) []models.Performer {
	sorted := slices.Clone(ps)
	slices.SortStableFunc(sorted, func(a, b models.Performer) int {
		return cmp.Compare(math.Abs(b.ChangePercent), math.Abs(a.ChangePercent))
	})
	return sorted[:min(mostActivePerList, len(sorted))]
}

// ─── Market cap distribution ─────────────────────────────────────────────────

var mockCapCounts = []int{42, 178, 185, 83, 12}

// MockCapDistribution returns a fixed bucket snapshot.
func MockCapDistribution(now time.Time) models.MarketCapDistribution {
	d := models.NewMarketCapDistribution(now)
	for i, b := range models.CapBuckets {
		d.Categories[b.Label] = mockCapCounts[i]
	}
	return d
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
