// Package warmup primes the response cache ahead of user traffic.
package warmup

import (
	"context"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/guttosm/stockpulse/internal/domain/models"
	"github.com/guttosm/stockpulse/internal/inventory"
	"github.com/guttosm/stockpulse/internal/logger"
	"github.com/guttosm/stockpulse/internal/service"
)

const (
	maxParallel = 7
	maxSymbols  = 100
)

// Report summarizes one warmup run.
type Report struct {
	Symbols   int           `json:"symbols"`
	Fetches   int           `json:"fetches"`
	Fallbacks int           `json:"fallbacks"`
	Elapsed   time.Duration `json:"elapsed"`
}

// Run warms the cache for market-wide categories and for the first n inventory symbols.
//
//   - svc: aggregation facade; its provider client writes through the cache.
//   - symbols: symbol source, usually the fundamentals inventory.
//   - n: number of symbols to warm, clamped to 0..100.
//   - parallel: worker count; 0 means min(7, NumCPU), larger values are clamped to 7.
//
// Behavior:
//   - Market summary, top performers and cap distribution are warmed first.
//   - Each symbol gets its default history, profile and news.
//   - Fallbacks are counted, not treated as errors: the provider quota is usually the limit.
//   - Returns early only when ctx is cancelled or the symbol list cannot be read.
func Run(ctx context.Context, svc service.MarketDataService, symbols inventory.Inventory, n, parallel int) (Report, error) {
	start := time.Now()
	log := logger.With("warmup")

	if n < 0 {
		n = 0
	}
	if n > maxSymbols {
		n = maxSymbols
	}

	var list []inventory.SymbolInfo
	if n > 0 {
		all, err := symbols.Symbols(ctx)
		if err != nil {
			return Report{}, fmt.Errorf("failed to list symbols: %w", err)
		}
		list = all[:min(n, len(all))]
	}

	workers := maxParallel
	if parallel > 0 {
		workers = min(parallel, maxParallel)
	} else if c := runtime.NumCPU(); c < workers {
		workers = c
	}
	log.Info().Int("symbols", len(list)).Int("workers", workers).Msg("warmup start")

	var fetches, fallbacks atomic.Int32
	count := func(fallback bool) {
		fetches.Add(1)
		if fallback {
			fallbacks.Add(1)
		}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	g.Go(func() error { count(svc.MarketSummary(gctx).Fallback()); return gctx.Err() })
	g.Go(func() error { count(svc.TopPerformers(gctx).Fallback()); return gctx.Err() })
	g.Go(func() error { count(svc.MarketCapDistribution(gctx).Fallback()); return gctx.Err() })

	for i, s := range list {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			count(svc.Historical(gctx, s.Symbol, models.DefaultPeriod).Fallback())
			count(svc.Profile(gctx, s.Symbol).Fallback())
			count(svc.News(gctx, s.Symbol).Fallback())
			log.Debug().Int("idx", i+1).Int("total", len(list)).Str("symbol", s.Symbol).Msg("symbol warmed")
			return gctx.Err()
		})
	}

	err := g.Wait()
	report := Report{
		Symbols:   len(list),
		Fetches:   int(fetches.Load()),
		Fallbacks: int(fallbacks.Load()),
		Elapsed:   time.Since(start),
	}
	if err != nil {
		log.Error().Err(err).Msg("warmup interrupted")
		return report, err
	}
	log.Info().
		Int("fetches", report.Fetches).
		Int("fallbacks", report.Fallbacks).
		Dur("elapsed", report.Elapsed).
		Msg("warmup done")
	return report, nil
}
