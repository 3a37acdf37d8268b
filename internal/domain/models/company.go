package models

import "github.com/shopspring/decimal"

// CompanyProfile holds company fundamentals for one symbol.
//
// Fields:
//   - DividendYield is a percentage (2.5 means 2.5%).
//   - MarketCap and Employees are never negative.
//   - FiftyTwoWeekHigh >= FiftyTwoWeekLow >= 0.
//
// swagger:model CompanyProfile
type CompanyProfile struct {
	Symbol           string          `json:"symbol" example:"AAPL"`
	Description      string          `json:"description"`
	Employees        int64           `json:"employees" example:"161000"`
	Industry         string          `json:"industry" example:"Consumer Electronics"`
	Sector           string          `json:"sector" example:"Technology"`
	Website          string          `json:"website" example:"https://www.apple.com"`
	CEO              string          `json:"ceo"`
	MarketCap        decimal.Decimal `json:"marketCap" swaggertype:"number" example:"2900000000000"`
	PERatio          float64         `json:"peRatio" example:"29.4"`
	DividendYield    float64         `json:"dividendYield" example:"0.52"`
	EPS              float64         `json:"eps" example:"6.13"`
	Beta             float64         `json:"beta" example:"1.24"`
	FiftyTwoWeekHigh float64         `json:"fiftyTwoWeekHigh" example:"199.62"`
	FiftyTwoWeekLow  float64         `json:"fiftyTwoWeekLow" example:"164.08"`
}

// NewsItem is one news article about a symbol.
//
// swagger:model NewsItem
type NewsItem struct {
	Headline  string `json:"headline"`
	Date      string `json:"date" example:"2024-09-03"`
	Source    string `json:"source" example:"Reuters"`
	URL       string `json:"url"`
	Summary   string `json:"summary"`
	Sentiment string `json:"sentiment" example:"Somewhat-Bullish"`
}

// News sentiment labels.
const (
	SentimentBullish         = "Bullish"
	SentimentSomewhatBullish = "Somewhat-Bullish"
	SentimentNeutral         = "Neutral"
	SentimentSomewhatBearish = "Somewhat-Bearish"
	SentimentBearish         = "Bearish"
)

// NewsSentiments lists the news sentiment labels from most to least positive.
var NewsSentiments = []string{
	SentimentBullish,
	SentimentSomewhatBullish,
	SentimentNeutral,
	SentimentSomewhatBearish,
	SentimentBearish,
}
