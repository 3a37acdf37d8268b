package models

import "time"

// Source tells where a value came from.
type Source string

const (
	SourceAlphaVantage Source = "Alpha Vantage"
	SourceMock         Source = "Mock Data"
)

// IndexQuote is the quote of the reference market index.
// High >= Price >= Low always holds.
type IndexQuote struct {
	Symbol        string  `json:"symbol" example:"^GSPC"`
	Price         float64 `json:"price" example:"4500.25"`
	Change        float64 `json:"change" example:"15.75"`
	ChangePercent float64 `json:"changePercent" example:"0.35"`
	Open          float64 `json:"open" example:"4485.5"`
	High          float64 `json:"high" example:"4510.75"`
	Low           float64 `json:"low" example:"4475.25"`
	PreviousClose float64 `json:"previousClose" example:"4484.5"`
	Volume        float64 `json:"volume" example:"2500000000"`
}

// MarketBreadth counts advancing and declining issues.
type MarketBreadth struct {
	Advances int `json:"advances" example:"285"`
	Declines int `json:"declines" example:"215"`
}

// SectorPerformance is the percentage change of one sector.
type SectorPerformance struct {
	Sector string  `json:"sector" example:"Energy"`
	Change float64 `json:"change" example:"2.5"`
}

// MarketSentiment is derived from the advance/decline ratio.
type MarketSentiment struct {
	Label    string `json:"label" example:"Slightly Bullish"`
	CSSClass string `json:"cssClass" example:"slightly-bullish"`
}

// SummarySources records provenance per sub-category of a MarketSummary.
type SummarySources struct {
	SPX     Source `json:"spx"`
	Breadth Source `json:"breadth"`
	Sectors Source `json:"sectors"`
}

// MarketSummary is the market overview. SectorPerformance is sorted by Change, descending.
//
// swagger:model MarketSummary
type MarketSummary struct {
	SPXIndex          IndexQuote          `json:"spxIndex"`
	MarketBreadth     MarketBreadth       `json:"marketBreadth"`
	SectorPerformance []SectorPerformance `json:"sectorPerformance"`
	Sentiment         MarketSentiment     `json:"sentiment"`
	Timestamp         time.Time           `json:"timestamp"`
	DataSource        SummarySources      `json:"dataSource"`
}

// Performer is one entry of a top performers list.
type Performer struct {
	Symbol        string  `json:"Symbol" example:"NVDA"`
	Name          string  `json:"Name" example:"NVIDIA Corporation"`
	Price         float64 `json:"Price" example:"512.4"`
	Change        float64 `json:"Change" example:"12.8"`
	ChangePercent float64 `json:"ChangePercent" example:"2.56"`
	Volume        int64   `json:"Volume" example:"15000000"`
}

// TopPerformers groups the day's movers. Each list holds at most MaxPerformers entries;
// gainers never have a negative change and losers never have a positive one.
//
// swagger:model TopPerformers
type TopPerformers struct {
	TopGainers []Performer `json:"topGainers"`
	TopLosers  []Performer `json:"topLosers"`
	MostActive []Performer `json:"mostActive"`
	DataSource Source      `json:"dataSource"`
}

// MaxPerformers caps each TopPerformers list.
const MaxPerformers = 10

// CapBucket is one market capitalization class. A cap belongs to the first
// bucket (in CapBuckets order) whose Min it reaches; Micro takes any positive cap.
type CapBucket struct {
	Name  string
	Label string
	Min   float64
}

// CapBuckets are the fixed, ordered, non-overlapping market cap classes.
var CapBuckets = []CapBucket{
	{Name: "Mega", Label: "Mega Cap (>$200B)", Min: 200e9},
	{Name: "Large", Label: "Large Cap ($10B-$200B)", Min: 10e9},
	{Name: "Mid", Label: "Mid Cap ($2B-$10B)", Min: 2e9},
	{Name: "Small", Label: "Small Cap ($300M-$2B)", Min: 300e6},
	{Name: "Micro", Label: "Micro Cap (<$300M)", Min: 0},
}

// MarketCapDistribution counts symbols per CapBucket, keyed by bucket label.
//
// swagger:model MarketCapDistribution
type MarketCapDistribution struct {
	Categories map[string]int `json:"categories"`
	Order      []string       `json:"order"`
	Timestamp  time.Time      `json:"timestamp"`
}

// NewMarketCapDistribution returns a distribution with every bucket present at zero.
func NewMarketCapDistribution(ts time.Time) MarketCapDistribution {
	d := MarketCapDistribution{
		Categories: make(map[string]int, len(CapBuckets)),
		Order:      make([]string, 0, len(CapBuckets)),
		Timestamp:  ts,
	}
	for _, b := range CapBuckets {
		d.Categories[b.Label] = 0
		d.Order = append(d.Order, b.Label)
	}
	return d
}
