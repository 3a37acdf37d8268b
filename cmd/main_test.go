package main

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"syscall"
	"testing"
	"time"

	"github.com/guttosm/stockpulse/internal/domain/models"
	"github.com/guttosm/stockpulse/internal/service"
)

type dummyHandler struct{}

func (d dummyHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) }

func TestStartServerAndShutdown(t *testing.T) {
	srv := startServer(dummyHandler{}, "0") // random port
	if srv == nil {
		t.Fatalf("expected server")
	}

	// Give server a moment to start
	time.Sleep(50 * time.Millisecond)

	// Shutdown quickly with short timeout and no-op cleanup
	_, cancel := context.WithCancel(context.Background())
	go func() {
		// trigger gracefulShutdown select by simulating signal via closing after a brief delay
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	// We cannot send OS signals easily here; instead, directly call Shutdown to simulate graceful flow.
	// Verify it doesn't panic and completes.
	shutdownCtx, c := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer c()
	if err := srv.Shutdown(shutdownCtx); err != nil && err != http.ErrServerClosed {
		t.Fatalf("shutdown err: %v", err)
	}
}

func TestGracefulShutdown_SignalPath(t *testing.T) {
	// Use a server that responds immediately
	srv := startServer(dummyHandler{}, "0")

	cleaned := make(chan struct{}, 1)
	go func() {
		ctx := context.Background()
		gracefulShutdown(ctx, srv, func() { close(cleaned) })
	}()

	// Give the goroutine time to set up signal notifications
	time.Sleep(50 * time.Millisecond)

	// Send SIGTERM to current process
	p, _ := os.FindProcess(os.Getpid())
	_ = p.Signal(syscall.SIGTERM)

	select {
	case <-cleaned:
		// success
	case <-time.After(2 * time.Second):
		t.Fatalf("cleanup not called after SIGTERM")
	}
}

// stubService returns canned results and records the last symbol and period.
type stubService struct {
	symbol string
	period models.Period
}

func (s *stubService) Historical(_ context.Context, symbol string, period models.Period) service.Result[[]models.PricePoint] {
	s.symbol, s.period = symbol, period
	return service.Result[[]models.PricePoint]{Value: []models.PricePoint{{Volume: 7}}, Source: models.SourceAlphaVantage}
}
func (s *stubService) Profile(_ context.Context, symbol string) service.Result[models.CompanyProfile] {
	s.symbol = symbol
	return service.Result[models.CompanyProfile]{Value: models.CompanyProfile{Symbol: symbol}, Source: models.SourceAlphaVantage}
}
func (s *stubService) News(_ context.Context, symbol string) service.Result[[]models.NewsItem] {
	s.symbol = symbol
	return service.Result[[]models.NewsItem]{Source: models.SourceAlphaVantage}
}
func (s *stubService) MarketSummary(context.Context) service.Result[models.MarketSummary] {
	return service.Result[models.MarketSummary]{Source: models.SourceMock, Reason: errors.New("quota")}
}
func (s *stubService) TopPerformers(context.Context) service.Result[models.TopPerformers] {
	return service.Result[models.TopPerformers]{Source: models.SourceAlphaVantage}
}
func (s *stubService) MarketCapDistribution(context.Context) service.Result[models.MarketCapDistribution] {
	return service.Result[models.MarketCapDistribution]{Source: models.SourceAlphaVantage}
}

func TestRunFetch_TableDriven(t *testing.T) {
	cases := []struct {
		name     string
		category string
		symbol   string
		wantErr  bool
		source   models.Source
		reason   string
	}{
		{name: "history", category: "history", symbol: " acme ", source: models.SourceAlphaVantage},
		{name: "profile", category: "PROFILE", symbol: "acme", source: models.SourceAlphaVantage},
		{name: "summary fallback", category: "market_summary", source: models.SourceMock, reason: "quota"},
		{name: "cap distribution", category: "cap_distribution", source: models.SourceAlphaVantage},
		{name: "symbol required", category: "news", wantErr: true},
		{name: "unknown category", category: "weather", wantErr: true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			svc := &stubService{}
			var buf bytes.Buffer
			err := runFetch(context.Background(), svc, &buf, tc.category, tc.symbol, models.Period1M)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			var out struct {
				Category string `json:"category"`
				Source   string `json:"source"`
				Reason   string `json:"reason"`
			}
			if err := json.Unmarshal(buf.Bytes(), &out); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if out.Source != string(tc.source) || out.Reason != tc.reason {
				t.Fatalf("unexpected output %s", buf.String())
			}
			if tc.symbol != "" && svc.symbol != "ACME" {
				t.Fatalf("symbol not normalized: %q", svc.symbol)
			}
		})
	}
}

func TestRootCmd_Commands(t *testing.T) {
	root := newRootCmd()
	for _, name := range []string{"serve", "fetch", "warm"} {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Fatalf("command %q not registered: %v", name, err)
		}
	}
	fetch, _, _ := root.Find([]string{"fetch"})
	if f := fetch.Flags().Lookup("period"); f == nil || f.DefValue != "1y" {
		t.Fatalf("fetch --period flag missing or wrong default")
	}
}
