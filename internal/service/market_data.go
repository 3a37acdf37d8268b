package service

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/guttosm/stockpulse/internal/alphavantage"
	"github.com/guttosm/stockpulse/internal/domain/failure"
	"github.com/guttosm/stockpulse/internal/domain/models"
	"github.com/guttosm/stockpulse/internal/logger"
	"github.com/guttosm/stockpulse/internal/marketdata"
	"github.com/guttosm/stockpulse/internal/metrics"
)

// Result is the outcome of one aggregation.
//
// Value is always a structurally valid canonical record. Source tells whether it
// came from the provider or from a mock generator; Reason is the error that caused
// a fallback (nil when the provider data was used).
type Result[T any] struct {
	Value  T
	Source models.Source
	Reason error
}

// Fallback reports whether the value was synthesized.
func (r Result[T]) Fallback() bool {
	return r.Source == models.SourceMock
}

// FundamentalsSource provides the stored price and market cap of every tracked symbol.
type FundamentalsSource interface {
	CapRecords(ctx context.Context) ([]marketdata.CapRecord, error)
}

// MarketDataService is the aggregation facade over the market data provider.
//
// Every operation returns a usable record. Transport, provider and shape failures
// (and panics raised while handling a payload) are converted into mock data and
// reported through Result.Reason; none of them escape as errors.
type MarketDataService interface {
	Historical(ctx context.Context, symbol string, period models.Period) Result[[]models.PricePoint]
	Profile(ctx context.Context, symbol string) Result[models.CompanyProfile]
	News(ctx context.Context, symbol string) Result[[]models.NewsItem]
	MarketSummary(ctx context.Context) Result[models.MarketSummary]
	TopPerformers(ctx context.Context) Result[models.TopPerformers]
	MarketCapDistribution(ctx context.Context) Result[models.MarketCapDistribution]
}

// Option customizes a MarketDataService.
type Option func(*marketDataService)

// WithClock replaces the time source used for timestamps and mock dates.
func WithClock(now func() time.Time) Option {
	return func(s *marketDataService) { s.now = now }
}

// WithRand replaces the factory of random sources handed to mock generators.
func WithRand(newRand func() *rand.Rand) Option {
	return func(s *marketDataService) { s.newRand = newRand }
}

type marketDataService struct {
	client       alphavantage.Client
	fundamentals FundamentalsSource
	indexSymbol  string
	now          func() time.Time
	newRand      func() *rand.Rand
	log          zerolog.Logger
}

// NewMarketDataService builds the facade.
//
// Parameters:
//   - client: upstream provider client (cached).
//   - fundamentals: record source for market cap bucketing; nil always yields the mock distribution.
//   - indexSymbol: symbol queried for the market summary index quote.
func NewMarketDataService(client alphavantage.Client, fundamentals FundamentalsSource, indexSymbol string, opts ...Option) MarketDataService {
	s := &marketDataService{
		client:       client,
		fundamentals: fundamentals,
		indexSymbol:  indexSymbol,
		now:          time.Now,
		newRand: func() *rand.Rand {
			return marketdata.NewRand(rand.Uint64(), rand.Uint64())
		},
		log: logger.With("market_data"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ─── Single category operations ──────────────────────────────────────────────

func (s *marketDataService) Historical(ctx context.Context, symbol string, period models.Period) Result[[]models.PricePoint] {
	if period == "" {
		period = models.DefaultPeriod
	}
	return resolve(ctx, s, marketdata.History(symbol, period))
}

func (s *marketDataService) Profile(ctx context.Context, symbol string) Result[models.CompanyProfile] {
	return resolve(ctx, s, marketdata.Profile(symbol))
}

func (s *marketDataService) News(ctx context.Context, symbol string) Result[[]models.NewsItem] {
	return resolve(ctx, s, marketdata.News(symbol))
}

func (s *marketDataService) TopPerformers(ctx context.Context) Result[models.TopPerformers] {
	res := resolve(ctx, s, marketdata.TopPerformers())
	res.Value.DataSource = res.Source
	return res
}

// ─── Composite operations ────────────────────────────────────────────────────

// MarketSummary combines the index quote, market breadth and sector ranking.
//
// Behavior:
//   - The three parts are fetched concurrently and fall back independently.
//   - DataSource records the provenance of each part.
//   - The summary counts as provider data only when every part does.
func (s *marketDataService) MarketSummary(ctx context.Context) Result[models.MarketSummary] {
	var (
		quote   Result[models.IndexQuote]
		breadth Result[models.MarketBreadth]
		sectors Result[[]models.SectorPerformance]
	)

	var g errgroup.Group
	g.Go(func() error {
		quote = resolve(ctx, s, marketdata.IndexQuote(s.indexSymbol))
		return nil
	})
	g.Go(func() error {
		breadth = resolve(ctx, s, marketdata.Breadth())
		return nil
	})
	g.Go(func() error {
		sectors = resolve(ctx, s, marketdata.Sectors())
		return nil
	})
	_ = g.Wait()

	summary := models.MarketSummary{
		SPXIndex:          quote.Value,
		MarketBreadth:     breadth.Value,
		SectorPerformance: sectors.Value,
		Sentiment:         marketdata.SentimentFromBreadth(breadth.Value),
		Timestamp:         s.now(),
		DataSource: models.SummarySources{
			SPX:     quote.Source,
			Breadth: breadth.Source,
			Sectors: sectors.Source,
		},
	}

	res := Result[models.MarketSummary]{
		Value:  summary,
		Source: models.SourceAlphaVantage,
		Reason: errors.Join(quote.Reason, breadth.Reason, sectors.Reason),
	}
	if res.Reason != nil {
		res.Source = models.SourceMock
	}
	metrics.Aggregations.WithLabelValues(string(marketdata.CategoryMarketSummary), string(res.Source)).Inc()
	return res
}

// MarketCapDistribution buckets the tracked symbols by current market cap.
//
// Behavior:
//   - Caps are re-priced with the latest mover prices; symbols not among the movers keep their stored cap.
//   - A movers failure degrades to stored caps, reported as mock provenance with the failure in Reason.
//   - A record source failure returns the mock distribution.
func (s *marketDataService) MarketCapDistribution(ctx context.Context) (res Result[models.MarketCapDistribution]) {
	now := s.now()
	category := marketdata.CategoryCapDistrib
	defer func() {
		if p := recover(); p != nil {
			res = s.mockCapDistribution(ctx, category, now, fmt.Errorf("panic while bucketing market caps: %v", p))
		}
	}()

	if s.fundamentals == nil {
		return s.mockCapDistribution(ctx, category, now, errors.New("no fundamentals source configured"))
	}
	records, err := s.fundamentals.CapRecords(ctx)
	if err != nil {
		return s.mockCapDistribution(ctx, category, now, err)
	}

	prices := resolve(ctx, s, marketdata.LatestMoverPrices())
	res = Result[models.MarketCapDistribution]{
		Value:  marketdata.DistributeMarketCaps(records, prices.Value, now),
		Source: models.SourceAlphaVantage,
	}
	if prices.Reason != nil {
		// Stored caps only; nothing in the value came from the provider.
		res.Source = models.SourceMock
		res.Reason = prices.Reason
	}
	return res
}

func (s *marketDataService) mockCapDistribution(ctx context.Context, category marketdata.Category, now time.Time, reason error) Result[models.MarketCapDistribution] {
	s.logFallback(ctx, category, reason)
	return Result[models.MarketCapDistribution]{
		Value:  marketdata.MockCapDistribution(now),
		Source: models.SourceMock,
		Reason: reason,
	}
}

// ─── Resolution ──────────────────────────────────────────────────────────────

// resolve runs one adapter: call, validate, normalize. Any error or panic on the
// way yields the adapter's mock instead.
func resolve[T any](ctx context.Context, s *marketDataService, a marketdata.Adapter[T]) (res Result[T]) {
	now := s.now()
	defer func() {
		if p := recover(); p != nil {
			res = fallback(ctx, s, a, now, fmt.Errorf("panic while resolving %s: %v", a.Category, p))
		}
	}()

	body, err := s.client.Call(ctx, a.Request)
	if err != nil {
		return fallback(ctx, s, a, now, err)
	}
	node, err := a.Validate(body)
	if err != nil {
		return fallback(ctx, s, a, now, err)
	}
	value, err := a.Normalize(node)
	if err != nil {
		return fallback(ctx, s, a, now, err)
	}

	s.log.Debug().
		Str("category", string(a.Category)).
		Str("function", a.Request.Function).
		Str("symbol", a.Request.Symbol+a.Request.Tickers).
		Msg("served provider data")
	metrics.Aggregations.WithLabelValues(string(a.Category), string(models.SourceAlphaVantage)).Inc()
	return Result[T]{Value: value, Source: models.SourceAlphaVantage}
}

func fallback[T any](ctx context.Context, s *marketDataService, a marketdata.Adapter[T], now time.Time, reason error) Result[T] {
	s.logFallback(ctx, a.Category, reason)
	return Result[T]{
		Value:  a.Mock(s.newRand(), now),
		Source: models.SourceMock,
		Reason: reason,
	}
}

func (s *marketDataService) logFallback(ctx context.Context, category marketdata.Category, reason error) {
	kind := failure.KindOf(reason).String()
	metrics.Fallbacks.WithLabelValues(string(category), kind).Inc()
	metrics.Aggregations.WithLabelValues(string(category), string(models.SourceMock)).Inc()
	s.log.Warn().
		Err(reason).
		Str("request_id", logger.RequestID(ctx)).
		Str("category", string(category)).
		Str("reason", kind).
		Msg("serving mock data")
}
