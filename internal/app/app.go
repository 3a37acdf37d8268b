package app

import (
	"context"
	"fmt"

	"github.com/gin-gonic/gin"

	"github.com/guttosm/stockpulse/config"
	"github.com/guttosm/stockpulse/internal/alphavantage"
	"github.com/guttosm/stockpulse/internal/api"
	"github.com/guttosm/stockpulse/internal/cache"
	"github.com/guttosm/stockpulse/internal/inventory"
	"github.com/guttosm/stockpulse/internal/logger"
	"github.com/guttosm/stockpulse/internal/service"
	"github.com/guttosm/stockpulse/internal/storage"
)

// Components holds the wired application layers. The CLI modes that do not
// serve HTTP (fetch, warm) use the service and inventory directly.
type Components struct {
	Cache     *cache.Cache
	Client    alphavantage.Client
	Inventory inventory.Inventory
	Service   service.MarketDataService
}

// NewComponents builds every layer below HTTP from the given configuration.
//
// Responsibilities:
//   - Opens the response cache backend selected by CACHE_BACKEND (memory, redis or postgres).
//   - Creates the provider client on top of the cache.
//   - Loads the fundamentals inventory lazily from INVENTORY_FILE.
//   - Creates the aggregation facade.
//
// Returns:
//   - *Components: the wired layers.
//   - func(): cleanup function closing the cache backend.
//   - error: any initialization error that occurred.
func NewComponents(cfg config.Config) (*Components, func(), error) {
	store, err := openCacheStore(cfg)
	if err != nil {
		return nil, nil, err
	}
	c := cache.New(store, cfg.Cache.TTL)

	client := alphavantage.NewClient(cfg.AlphaVantage, c)
	inv := inventory.NewFileInventory(cfg.Market.InventoryFile)
	svc := service.NewMarketDataService(client, inv, cfg.Market.IndexSymbol)

	logger.L().Info().
		Str("cache_backend", cfg.Cache.Backend).
		Dur("cache_ttl", c.TTL()).
		Str("index_symbol", cfg.Market.IndexSymbol).
		Msg("components ready")

	cleanup := func() {
		_ = c.Close()
	}
	return &Components{Cache: c, Client: client, Inventory: inv, Service: svc}, cleanup, nil
}

// InitializeApp sets up all application dependencies and returns
// a fully configured Gin router, a cleanup function for graceful shutdown,
// and any error encountered during initialization.
//
// Responsibilities:
//   - Builds the cache, client, inventory and facade with NewComponents().
//   - Creates the HTTP handler layer to handle requests.
//   - Configures the Gin router with all API routes.
//   - Registers health and readiness probes (readiness pings the cache backend).
//   - Provides a cleanup function to close resources (e.g., DB or redis connection).
//
// Returns:
//   - *gin.Engine: the configured Gin HTTP router.
//   - func(): cleanup function to be executed on shutdown.
//   - error: any initialization error that occurred.
func InitializeApp() (*gin.Engine, func(), error) {
	// Load global configuration
	cfg := config.AppConfig

	comps, cleanup, err := NewComponents(cfg)
	if err != nil {
		return nil, nil, err
	}

	// Initialize HTTP handler layer (business logic to HTTP mapping)
	handler := api.NewHandler(comps.Client, comps.Service, comps.Inventory)

	// Setup Gin router with routes
	router := api.NewRouter(handler, cfg.Server.AllowedOrigins)

	// Register health and readiness probes; readiness pings the cache backend
	api.NewHealthHandler(cfg.Cache.Backend, comps.Cache.Ping).Register(router)

	return router, cleanup, nil
}

// openCacheStore opens the backend selected by cfg.Cache.Backend.
func openCacheStore(cfg config.Config) (cache.Store, error) {
	switch cfg.Cache.Backend {
	case "memory":
		store, err := cache.NewMemoryStore(context.Background(), cfg.Cache.MaxSizeMB, cfg.Cache.TTL)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize memory cache: %w", err)
		}
		return store, nil

	case "redis":
		// indirection for unit testing
		rdb, err := redisOpener(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize redis: %w", err)
		}
		return cache.NewRedisStore(rdb, cfg.Cache.TTL), nil

	case "postgres":
		// indirection for unit testing
		db, err := postgresOpener(cfg)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize postgres: %w", err)
		}
		repo := storage.NewResponseRepository(db)
		ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
		defer cancel()
		if err := repo.EnsureSchema(ctx); err != nil {
			_ = repo.Close()
			return nil, fmt.Errorf("failed to prepare postgres cache: %w", err)
		}
		return repo, nil

	default:
		return nil, fmt.Errorf("unsupported cache backend %q", cfg.Cache.Backend)
	}
}
