package alphavantage

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/guttosm/stockpulse/config"
	"github.com/guttosm/stockpulse/internal/cache"
	"github.com/guttosm/stockpulse/internal/domain/failure"
	"github.com/guttosm/stockpulse/internal/logger"
)

// fakeProvider is an httptest server that replies with a fixed status and body
// and counts the requests it receives.
type fakeProvider struct {
	srv   *httptest.Server
	calls atomic.Int32

	mu     sync.Mutex
	status int
	body   string
	delay  time.Duration
	query  map[string]string
	rid    string
}

func newFakeProvider(t *testing.T, status int, body string) *fakeProvider {
	t.Helper()
	fp := &fakeProvider{status: status, body: body}
	fp.srv = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fp.calls.Add(1)
		fp.mu.Lock()
		status, body, delay := fp.status, fp.body, fp.delay
		fp.rid = r.Header.Get("X-Request-ID")
		fp.query = map[string]string{}
		for k := range r.URL.Query() {
			fp.query[k] = r.URL.Query().Get(k)
		}
		fp.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(fp.srv.Close)
	return fp
}

func (fp *fakeProvider) setDelay(d time.Duration) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	fp.delay = d
}

func (fp *fakeProvider) set(status int, body string) {
	fp.mu.Lock()
	defer fp.mu.Unlock()
	fp.status, fp.body = status, body
}

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newTestClient(t *testing.T, baseURL string, mutate func(*config.AlphaVantageConfig)) (Client, *testClock) {
	t.Helper()
	store, err := cache.NewMemoryStore(context.Background(), 0, time.Hour)
	if err != nil {
		t.Fatalf("memory store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	clock := &testClock{now: time.Date(2025, 1, 2, 15, 0, 0, 0, time.UTC)}
	c := cache.New(store, 30*time.Minute).WithClock(clock.Now)

	cfg := config.AlphaVantageConfig{
		APIKey:          "test-key",
		BaseURL:         baseURL,
		Timeout:         2 * time.Second,
		BreakerFailures: 100,
		BreakerCooldown: time.Minute,
	}
	if mutate != nil {
		mutate(&cfg)
	}
	return NewClient(cfg, c), clock
}

const dailyBody = `{"Meta Data":{},"Time Series (Daily)":{"2025-01-02":{"1. open":"1","2. high":"2","3. low":"0.5","4. close":"1.5","5. volume":"100"}}}`

func TestCall_MissingFunctionIsCallerError(t *testing.T) {
	fp := newFakeProvider(t, http.StatusOK, dailyBody)
	c, _ := newTestClient(t, fp.srv.URL, nil)

	_, err := c.Call(context.Background(), Request{Symbol: "ACME"})
	if failure.KindOf(err) != failure.KindCaller {
		t.Fatalf("expected caller error, got %v", err)
	}
	if fp.calls.Load() != 0 {
		t.Fatalf("caller error must not reach the provider")
	}
}

func TestCall_SendsParamsAndCachesWithinTTL(t *testing.T) {
	fp := newFakeProvider(t, http.StatusOK, dailyBody)
	c, clock := newTestClient(t, fp.srv.URL, nil)
	ctx := context.Background()
	req := Request{Function: FunctionDaily, Symbol: "ACME", OutputSize: "full"}

	body, err := c.Call(ctx, req)
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	if string(body) != dailyBody {
		t.Fatalf("body not forwarded verbatim: %s", body)
	}
	fp.mu.Lock()
	q := fp.query
	fp.mu.Unlock()
	if q["function"] != FunctionDaily || q["symbol"] != "ACME" || q["outputsize"] != "full" || q["apikey"] != "test-key" {
		t.Fatalf("unexpected query %v", q)
	}
	if _, ok := q["interval"]; ok {
		t.Fatalf("empty interval must not be sent")
	}

	clock.Advance(29 * time.Minute)
	if _, err := c.Call(ctx, req); err != nil {
		t.Fatalf("second call: %v", err)
	}
	if got := fp.calls.Load(); got != 1 {
		t.Fatalf("expected 1 upstream call within ttl, got %d", got)
	}

	clock.Advance(2 * time.Minute)
	if _, err := c.Call(ctx, req); err != nil {
		t.Fatalf("third call: %v", err)
	}
	if got := fp.calls.Load(); got != 2 {
		t.Fatalf("expected refresh after ttl, got %d calls", got)
	}
}

func TestCall_ForwardsRequestID(t *testing.T) {
	cases := []struct {
		name string
		ctx  context.Context
		want string
	}{
		{name: "with request id", ctx: logger.WithRequestID(context.Background(), "req-7"), want: "req-7"},
		{name: "without request id", ctx: context.Background(), want: ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fp := newFakeProvider(t, http.StatusOK, dailyBody)
			c, _ := newTestClient(t, fp.srv.URL, nil)

			if _, err := c.Call(tc.ctx, Request{Function: FunctionDaily, Symbol: "ACME"}); err != nil {
				t.Fatalf("call: %v", err)
			}
			fp.mu.Lock()
			got := fp.rid
			fp.mu.Unlock()
			if got != tc.want {
				t.Fatalf("X-Request-ID=%q want %q", got, tc.want)
			}
		})
	}
}

func TestCall_FailureClassification(t *testing.T) {
	cases := []struct {
		name     string
		function string
		status   int
		body     string
		kind     failure.Kind
		limited  bool
	}{
		{"error message", FunctionOverview, http.StatusOK, `{"Error Message":"Invalid API call."}`, failure.KindProvider, false},
		{"frequency notice", FunctionOverview, http.StatusOK, `{"Information":"Thank you for using Alpha Vantage! Our standard API call frequency is 5 calls per minute."}`, failure.KindProvider, true},
		{"frequency note", FunctionNews, http.StatusOK, `{"Note":"Our standard API call frequency is 5 calls per minute."}`, failure.KindProvider, true},
		{"sector missing rank", FunctionSector, http.StatusOK, `{"Meta Data":{}}`, failure.KindShape, false},
		{"not json", FunctionGlobalQuote, http.StatusOK, `<html>`, failure.KindShape, false},
		{"server error", FunctionDaily, http.StatusInternalServerError, `{}`, failure.KindTransport, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			fp := newFakeProvider(t, tc.status, tc.body)
			c, _ := newTestClient(t, fp.srv.URL, nil)
			ctx := context.Background()
			req := Request{Function: tc.function, Symbol: "ACME"}

			_, err := c.Call(ctx, req)
			if failure.KindOf(err) != tc.kind {
				t.Fatalf("kind=%v want %v (err=%v)", failure.KindOf(err), tc.kind, err)
			}
			if failure.IsRateLimited(err) != tc.limited {
				t.Fatalf("rate limited=%v want %v", failure.IsRateLimited(err), tc.limited)
			}

			// failures are never cached
			_, _ = c.Call(ctx, req)
			if got := fp.calls.Load(); got != 2 {
				t.Fatalf("expected failed response to be re-requested, got %d calls", got)
			}
		})
	}
}

func TestCall_Timeout(t *testing.T) {
	fp := newFakeProvider(t, http.StatusOK, dailyBody)
	fp.setDelay(500 * time.Millisecond)
	c, _ := newTestClient(t, fp.srv.URL, func(cfg *config.AlphaVantageConfig) {
		cfg.Timeout = 50 * time.Millisecond
	})

	_, err := c.Call(context.Background(), Request{Function: FunctionDaily, Symbol: "ACME"})
	if !failure.IsTimeout(err) {
		t.Fatalf("expected timeout, got %v", err)
	}
}

func TestCall_QuotaFailsFast(t *testing.T) {
	fp := newFakeProvider(t, http.StatusOK, dailyBody)
	c, _ := newTestClient(t, fp.srv.URL, func(cfg *config.AlphaVantageConfig) {
		cfg.RequestsPerMinute = 1
	})
	ctx := context.Background()

	if _, err := c.Call(ctx, Request{Function: FunctionDaily, Symbol: "A"}); err != nil {
		t.Fatalf("first call: %v", err)
	}
	_, err := c.Call(ctx, Request{Function: FunctionDaily, Symbol: "B"})
	if !failure.IsRateLimited(err) {
		t.Fatalf("expected quota failure, got %v", err)
	}
	// cached keys are still served
	if _, err := c.Call(ctx, Request{Function: FunctionDaily, Symbol: "A"}); err != nil {
		t.Fatalf("cached call: %v", err)
	}
	if got := fp.calls.Load(); got != 1 {
		t.Fatalf("expected 1 upstream call, got %d", got)
	}
}

func TestCall_BreakerOpensAfterConsecutiveFailures(t *testing.T) {
	fp := newFakeProvider(t, http.StatusBadGateway, `{}`)
	c, _ := newTestClient(t, fp.srv.URL, func(cfg *config.AlphaVantageConfig) {
		cfg.BreakerFailures = 2
	})
	ctx := context.Background()
	req := Request{Function: FunctionGlobalQuote, Symbol: "ACME"}

	for i := 0; i < 2; i++ {
		if _, err := c.Call(ctx, req); failure.KindOf(err) != failure.KindTransport {
			t.Fatalf("call %d: expected transport error, got %v", i, err)
		}
	}
	fp.set(http.StatusOK, `{"Global Quote":{"01. symbol":"ACME"}}`)

	_, err := c.Call(ctx, req)
	if failure.KindOf(err) != failure.KindTransport {
		t.Fatalf("expected open breaker to fail as transport, got %v", err)
	}
	var fe *failure.Error
	if !errors.As(err, &fe) || fe.Err == nil {
		t.Fatalf("expected wrapped breaker error, got %#v", err)
	}
	if got := fp.calls.Load(); got != 2 {
		t.Fatalf("open breaker must not reach the provider, got %d calls", got)
	}
}

func TestCall_ProviderErrorsDoNotTripBreaker(t *testing.T) {
	fp := newFakeProvider(t, http.StatusOK, `{"Error Message":"bad symbol"}`)
	c, _ := newTestClient(t, fp.srv.URL, func(cfg *config.AlphaVantageConfig) {
		cfg.BreakerFailures = 1
	})
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if _, err := c.Call(ctx, Request{Function: FunctionOverview, Symbol: "ZZZZ"}); failure.KindOf(err) != failure.KindProvider {
			t.Fatalf("call %d: expected provider error, got %v", i, err)
		}
	}
	if got := fp.calls.Load(); got != 3 {
		t.Fatalf("expected every call to reach the provider, got %d", got)
	}
}

func TestCall_ConcurrentMissesCollapse(t *testing.T) {
	fp := newFakeProvider(t, http.StatusOK, dailyBody)
	fp.setDelay(50 * time.Millisecond)
	c, _ := newTestClient(t, fp.srv.URL, nil)
	req := Request{Function: FunctionDaily, Symbol: "ACME", OutputSize: "full"}

	var wg sync.WaitGroup
	errs := make(chan error, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := c.Call(context.Background(), req)
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if got := fp.calls.Load(); got != 1 {
		t.Fatalf("expected a single upstream call, got %d", got)
	}
}

func TestClassify(t *testing.T) {
	cases := []struct {
		name     string
		function string
		body     string
		kind     failure.Kind
	}{
		{"valid sector", FunctionSector, `{"Rank A: Real-Time Performance":{"Energy":"1.0%"}}`, failure.KindUnknown},
		{"demo notice is not a failure", FunctionOverview, `{"Information":"The demo API key is for demo purposes only."}`, failure.KindUnknown},
		{"empty object", FunctionOverview, `{}`, failure.KindUnknown},
		{"error message", FunctionDaily, `{"Error Message":"x"}`, failure.KindProvider},
		{"invalid json", FunctionDaily, `{`, failure.KindShape},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := failure.KindOf(Classify(tc.function, []byte(tc.body))); got != tc.kind {
				t.Fatalf("kind=%v want %v", got, tc.kind)
			}
		})
	}
}

func TestRequest_Params(t *testing.T) {
	p := Request{Function: FunctionTopMovers}.Params()
	if len(p) != 1 || p["function"] != FunctionTopMovers {
		t.Fatalf("unexpected params %v", p)
	}
	p = Request{Function: FunctionIntraday, Symbol: "ACME", Interval: "5min", OutputSize: "full", Tickers: "ACME"}.Params()
	if len(p) != 5 || p["interval"] != "5min" || p["tickers"] != "ACME" {
		t.Fatalf("unexpected params %v", p)
	}
}
