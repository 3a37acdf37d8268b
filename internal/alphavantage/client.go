// Package alphavantage is the client for the upstream market-data provider.
//
// Every call goes through the response cache first. Misses for the same key are
// collapsed into a single upstream request, gated by a client-side quota and a
// circuit breaker. Provider payloads that signal an error are turned into
// classified failures even when the HTTP status is 200.
package alphavantage

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
	"github.com/tidwall/gjson"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"

	"github.com/guttosm/stockpulse/config"
	"github.com/guttosm/stockpulse/internal/cache"
	"github.com/guttosm/stockpulse/internal/domain/failure"
	"github.com/guttosm/stockpulse/internal/logger"
	"github.com/guttosm/stockpulse/internal/metrics"
)

// Provider function identifiers.
const (
	FunctionIntraday    = "TIME_SERIES_INTRADAY"
	FunctionDaily       = "TIME_SERIES_DAILY"
	FunctionWeekly      = "TIME_SERIES_WEEKLY"
	FunctionOverview    = "OVERVIEW"
	FunctionNews        = "NEWS_SENTIMENT"
	FunctionGlobalQuote = "GLOBAL_QUOTE"
	FunctionTopMovers   = "TOP_GAINERS_LOSERS"
	FunctionSector      = "SECTOR"
)

// SectorRealTimeRankKey is the ranking object every SECTOR response must carry.
const SectorRealTimeRankKey = "Rank A: Real-Time Performance"

const (
	rateLimitNoticeMarker  = "API call frequency"
	errorMessageField      = "Error Message"
	informationField       = "Information"
	noteField              = "Note"
	defaultRequestTimeout  = 10 * time.Second
	defaultBreakerFailures = 5
	requestIDHeader        = "X-Request-ID"
)

// Request is one provider call. Empty fields are not sent.
type Request struct {
	Function   string
	Symbol     string
	Interval   string
	OutputSize string
	Tickers    string
}

// Params returns the request as query parameters, without the API key.
func (r Request) Params() map[string]string {
	p := map[string]string{"function": r.Function}
	if r.Symbol != "" {
		p["symbol"] = r.Symbol
	}
	if r.Interval != "" {
		p["interval"] = r.Interval
	}
	if r.OutputSize != "" {
		p["outputsize"] = r.OutputSize
	}
	if r.Tickers != "" {
		p["tickers"] = r.Tickers
	}
	return p
}

// Client issues provider calls.
type Client interface {
	// Call returns the raw JSON body for req, or a *failure.Error.
	Call(ctx context.Context, req Request) (json.RawMessage, error)
}

type client struct {
	http    *resty.Client
	apiKey  string
	cache   *cache.Cache
	limiter *rate.Limiter
	breaker *gobreaker.CircuitBreaker
	group   singleflight.Group
	log     zerolog.Logger
}

// NewClient builds a provider client backed by c.
//
// Behavior:
//   - Each upstream request is bounded by cfg.Timeout (10s when unset).
//   - At most cfg.RequestsPerMinute upstream requests are issued per minute;
//     calls over the quota fail fast as rate limited. Zero disables the quota.
//   - After cfg.BreakerFailures consecutive transport or quota failures the
//     breaker opens for cfg.BreakerCooldown and calls fail without I/O.
//   - Failed calls are never cached and never retried.
func NewClient(cfg config.AlphaVantageConfig, c *cache.Cache) Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultRequestTimeout
	}
	limit := rate.Inf
	burst := 1
	if cfg.RequestsPerMinute > 0 {
		limit = rate.Every(time.Minute / time.Duration(cfg.RequestsPerMinute))
		burst = cfg.RequestsPerMinute
	}
	failures := cfg.BreakerFailures
	if failures <= 0 {
		failures = defaultBreakerFailures
	}

	return &client{
		http: resty.New().
			SetBaseURL(cfg.BaseURL).
			SetTimeout(timeout).
			SetHeader("Accept", "application/json"),
		apiKey:  cfg.APIKey,
		cache:   c,
		limiter: rate.NewLimiter(limit, burst),
		breaker: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:    "alphavantage",
			Timeout: cfg.BreakerCooldown,
			ReadyToTrip: func(counts gobreaker.Counts) bool {
				return counts.ConsecutiveFailures >= uint32(failures)
			},
			// Payload-level failures mean the provider is up.
			IsSuccessful: func(err error) bool {
				return err == nil || (failure.KindOf(err) != failure.KindTransport && !failure.IsRateLimited(err))
			},
		}),
		log: logger.With("alphavantage"),
	}
}

func (c *client) Call(ctx context.Context, req Request) (json.RawMessage, error) {
	if strings.TrimSpace(req.Function) == "" {
		return nil, failure.Caller("", "Function parameter is required")
	}

	key := cache.Key(req.Params())
	rid := logger.RequestID(ctx)
	if payload, ok := c.cache.Get(ctx, key); ok {
		c.log.Debug().Str("request_id", rid).Str("function", req.Function).Str("symbol", req.Symbol).Str("cache", "hit").Send()
		return payload, nil
	}
	c.log.Debug().Str("request_id", rid).Str("function", req.Function).Str("symbol", req.Symbol).Str("cache", "miss").Send()

	v, err, _ := c.group.Do(key, func() (any, error) {
		body, err := c.fetch(ctx, req)
		if err != nil {
			return nil, err
		}
		c.cache.Put(ctx, key, body)
		return body, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(json.RawMessage), nil
}

// fetch performs one upstream request and classifies the outcome.
func (c *client) fetch(ctx context.Context, req Request) (json.RawMessage, error) {
	start := time.Now()

	if !c.limiter.Allow() {
		metrics.ObserveUpstream(req.Function, "rate_limited", 0)
		return nil, failure.RateLimit(req.Function, "client quota exhausted")
	}

	v, err := c.breaker.Execute(func() (interface{}, error) {
		return c.do(ctx, req)
	})
	elapsed := time.Since(start)

	switch {
	case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
		metrics.ObserveUpstream(req.Function, "breaker_open", elapsed)
		return nil, failure.Transport(req.Function, err, false)
	case failure.IsTimeout(err):
		metrics.ObserveUpstream(req.Function, "timeout", elapsed)
		return nil, err
	case failure.IsRateLimited(err):
		metrics.ObserveUpstream(req.Function, "rate_limited", elapsed)
		return nil, err
	case err != nil:
		metrics.ObserveUpstream(req.Function, "error", elapsed)
		return nil, err
	}
	metrics.ObserveUpstream(req.Function, "success", elapsed)
	return v.(json.RawMessage), nil
}

func (c *client) do(ctx context.Context, req Request) (json.RawMessage, error) {
	params := req.Params()
	params["apikey"] = c.apiKey

	r := c.http.R().
		SetContext(ctx).
		SetQueryParams(params)
	// Lets provider-side logs be matched with ours.
	if rid := logger.RequestID(ctx); rid != "" {
		r.SetHeader(requestIDHeader, rid)
	}
	resp, err := r.Get("")
	if err != nil {
		return nil, failure.Transport(req.Function, err, isTimeout(err))
	}
	if !resp.IsSuccess() {
		return nil, failure.Status(req.Function, resp.StatusCode())
	}
	body := resp.Body()
	if err := Classify(req.Function, body); err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// Classify inspects a 200 response body and returns the failure it signals, if any.
func Classify(function string, body []byte) error {
	if !gjson.ValidBytes(body) {
		return failure.Shape(function, "response is not valid JSON")
	}
	if msg := gjson.GetBytes(body, errorMessageField); msg.Exists() {
		return failure.Provider(function, msg.String())
	}
	for _, field := range []string{informationField, noteField} {
		if notice := gjson.GetBytes(body, field); strings.Contains(notice.String(), rateLimitNoticeMarker) {
			return failure.RateLimit(function, notice.String())
		}
	}
	if function == FunctionSector && !gjson.GetBytes(body, SectorRealTimeRankKey).Exists() {
		return failure.Shape(function, "missing %q", SectorRealTimeRankKey)
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}
