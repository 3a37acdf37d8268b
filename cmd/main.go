package main

//
//  @title           stockpulse API
//  @version         1.0
//  @description     Equity market data aggregation with cached Alpha Vantage access and mock fallbacks.
//  @termsOfService  https://github.com/guttosm/stockpulse
//  @contact.name    API Support
//  @contact.url     https://github.com/guttosm/stockpulse
//  @contact.email   support@example.com
//  @license.name    MIT
//  @license.url     https://opensource.org/licenses/MIT
//  @host            localhost:8080
//  @BasePath        /
//  @schemes         http
//
//  @tag.name        proxy
//  @tag.description Cached pass-through to the market data provider
//
//  @tag.name        market
//  @tag.description Canonical market data with mock fallback
//
//  @tag.name        inventory
//  @tag.description Fundamentals from the local dataset
//
//  @tag.name        health
//  @tag.description Liveness and readiness probes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/guttosm/stockpulse/config"
	_ "github.com/guttosm/stockpulse/docs" // swagger docs
	"github.com/guttosm/stockpulse/internal/app"
	"github.com/guttosm/stockpulse/internal/domain/models"
	"github.com/guttosm/stockpulse/internal/logger"
	"github.com/guttosm/stockpulse/internal/marketdata"
	"github.com/guttosm/stockpulse/internal/service"
	"github.com/guttosm/stockpulse/internal/warmup"
)

// startServer initializes and starts the HTTP server in a separate goroutine.
//
// Parameters:
//   - router (http.Handler): The HTTP router (Gin Engine) configured with all routes.
//   - port (string): The port where the server will listen for incoming requests.
//
// Returns:
//   - *http.Server: The initialized HTTP server instance.
func startServer(router http.Handler, port string) *http.Server {
	server := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		logger.L().Info().Str("port", port).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.L().Fatal().Err(err).Msg("server failed to start")
		}
	}()

	return server
}

// gracefulShutdown gracefully terminates the HTTP server and cleans up resources
// when an OS interrupt signal (SIGINT, SIGTERM) is received.
//
// Parameters:
//   - ctx (context.Context): A context with timeout for graceful shutdown.
//   - server (*http.Server): The HTTP server instance to shut down.
//   - cleanup (func()): Cleanup callback to release resources (e.g., cache connections).
func gracefulShutdown(ctx context.Context, server *http.Server, cleanup func()) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	<-quit
	logger.L().Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.L().Fatal().Err(err).Msg("server forced to shutdown")
	}

	cleanup()
	logger.L().Info().Msg("server exited gracefully")
}

// fetchOutput is what the fetch command prints.
type fetchOutput struct {
	Category marketdata.Category `json:"category"`
	Source   models.Source       `json:"source"`
	Reason   string              `json:"reason,omitempty"`
	Value    any                 `json:"value"`
}

func newFetchOutput[T any](category marketdata.Category, res service.Result[T]) fetchOutput {
	out := fetchOutput{Category: category, Source: res.Source, Value: res.Value}
	if res.Reason != nil {
		out.Reason = res.Reason.Error()
	}
	return out
}

// runFetch resolves one category through the facade and writes it as indented JSON.
func runFetch(ctx context.Context, svc service.MarketDataService, w io.Writer, category, symbol string, period models.Period) error {
	cat := marketdata.Category(strings.ToLower(category))
	symbol = strings.ToUpper(strings.TrimSpace(symbol))

	needsSymbol := cat == marketdata.CategoryHistory || cat == marketdata.CategoryProfile || cat == marketdata.CategoryNews
	if needsSymbol && symbol == "" {
		return fmt.Errorf("category %q needs a symbol", cat)
	}

	var out fetchOutput
	switch cat {
	case marketdata.CategoryHistory:
		out = newFetchOutput(cat, svc.Historical(ctx, symbol, period))
	case marketdata.CategoryProfile:
		out = newFetchOutput(cat, svc.Profile(ctx, symbol))
	case marketdata.CategoryNews:
		out = newFetchOutput(cat, svc.News(ctx, symbol))
	case marketdata.CategoryMarketSummary:
		out = newFetchOutput(cat, svc.MarketSummary(ctx))
	case marketdata.CategoryTopPerformers:
		out = newFetchOutput(cat, svc.TopPerformers(ctx))
	case marketdata.CategoryCapDistrib:
		out = newFetchOutput(cat, svc.MarketCapDistribution(ctx))
	default:
		return fmt.Errorf("unknown category %q (want one of %v)", category, marketdata.Categories)
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

// newRootCmd builds the CLI.
//
// Commands:
//   - serve: Starts the REST API (proxy, market data, inventory, health, metrics).
//   - fetch <category> [symbol]: Prints one facade result as JSON.
//   - warm: Primes the response cache for market-wide categories and the first N symbols.
func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "stockpulse",
		Short:         "Equity market data aggregation service",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Load configuration from environment or .env file
			config.LoadConfig()

			// Initialize JSON logger
			logger.Init()
		},
	}

	var port string
	serve := &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger.L().Info().Msg("starting API server")

			router, cleanup, err := app.InitializeApp()
			if err != nil {
				return fmt.Errorf("app init error: %w", err)
			}
			if port == "" {
				port = config.AppConfig.Server.Port
			}

			// Shutdown gets a fresh context: cmd.Context() is already cancelled by the signal.
			server := startServer(router, port)
			gracefulShutdown(context.Background(), server, cleanup)
			return nil
		},
	}
	serve.Flags().StringVar(&port, "port", "", "Port for the API server (default SERVER_PORT)")

	var period string
	fetch := &cobra.Command{
		Use:   "fetch <category> [symbol]",
		Short: "Print one market data category as JSON",
		Long:  fmt.Sprintf("Categories: %v", marketdata.Categories),
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			comps, cleanup, err := app.NewComponents(config.AppConfig)
			if err != nil {
				return err
			}
			defer cleanup()

			symbol := ""
			if len(args) == 2 {
				symbol = args[1]
			}
			return runFetch(cmd.Context(), comps.Service, cmd.OutOrStdout(), args[0], symbol, models.Period(period))
		},
	}
	fetch.Flags().StringVar(&period, "period", string(models.DefaultPeriod), "History period: 1d|1w|1m|3m|6m|1y|5y")

	var symbols, parallel int
	warm := &cobra.Command{
		Use:   "warm",
		Short: "Prime the response cache",
		RunE: func(cmd *cobra.Command, args []string) error {
			comps, cleanup, err := app.NewComponents(config.AppConfig)
			if err != nil {
				return err
			}
			defer cleanup()

			report, err := warmup.Run(cmd.Context(), comps.Service, comps.Inventory, symbols, parallel)
			if err != nil {
				return fmt.Errorf("warmup failed: %w", err)
			}
			logger.L().Info().
				Int("symbols", report.Symbols).
				Int("fetches", report.Fetches).
				Int("fallbacks", report.Fallbacks).
				Msg("warmup completed successfully")
			return nil
		},
	}
	warm.Flags().IntVar(&symbols, "symbols", 10, "How many inventory symbols to warm (0-100)")
	warm.Flags().IntVar(&parallel, "parallel", 0, "Concurrent workers (0=auto up to CPU, max 7)")

	root.AddCommand(serve, fetch, warm)
	return root
}

// main is the entry point of the stockpulse application.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logger.L().Fatal().Err(err).Msg("command failed")
	}
}
