package app

import (
	"database/sql"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/redis/go-redis/v9"

	"github.com/guttosm/stockpulse/config"
)

func testConfig(backend string) config.Config {
	return config.Config{
		Server: config.ServerConfig{Port: "0"},
		AlphaVantage: config.AlphaVantageConfig{
			APIKey:  "k",
			BaseURL: "http://127.0.0.1:1",
			Timeout: time.Second,
		},
		Cache:  config.CacheConfig{Backend: backend, TTL: time.Minute, MaxSizeMB: 8},
		Redis:  config.RedisConfig{Addr: "127.0.0.1:1"},
		Market: config.MarketConfig{IndexSymbol: "^GSPC", InventoryFile: "does-not-exist.csv"},
		Postgres: config.PostgresConfig{
			Host:     "127.0.0.1",
			Port:     54329, // unlikely mapped
			User:     "x",
			Password: "y",
			DBName:   "z",
			SSLMode:  "disable",
		},
	}
}

func useConfig(t *testing.T, cfg config.Config) {
	t.Helper()
	old := config.AppConfig
	t.Cleanup(func() { config.AppConfig = old })
	config.AppConfig = cfg
}

func hit(t *testing.T, h http.Handler, path string) int {
	t.Helper()
	w := httptest.NewRecorder()
	h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w.Code
}

// TestInitPostgres_InvalidHost expects ping failure.
func TestInitPostgres_InvalidHost(t *testing.T) {
	db, err := InitPostgres(testConfig("postgres"))
	if err == nil {
		_ = db.Close()
		t.Fatalf("expected error connecting to invalid DB")
	}
}

func TestInitializeApp_BackendFailures(t *testing.T) {
	cases := []struct {
		name    string
		backend string
	}{
		{name: "postgres unreachable", backend: "postgres"},
		{name: "redis unreachable", backend: "redis"},
		{name: "unknown backend", backend: "memcached"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			useConfig(t, testConfig(tc.backend))
			r, cleanup, err := InitializeApp()
			if err == nil || r != nil || cleanup != nil {
				if cleanup != nil {
					cleanup()
				}
				t.Fatalf("expected error from InitializeApp with backend %q", tc.backend)
			}
		})
	}
}

func TestInitializeApp_MemoryBackend(t *testing.T) {
	useConfig(t, testConfig("memory"))

	router, cleanup, err := InitializeApp()
	if err != nil || router == nil || cleanup == nil {
		t.Fatalf("InitializeApp failed: %v", err)
	}
	defer cleanup()

	if code := hit(t, router, "/healthz"); code != http.StatusOK {
		t.Fatalf("healthz status=%d", code)
	}
	if code := hit(t, router, "/readyz"); code != http.StatusOK {
		t.Fatalf("readyz status=%d", code)
	}
	// Unreachable provider and missing inventory still yield a mock distribution.
	if code := hit(t, router, "/api/v1/market/cap-distribution"); code != http.StatusOK {
		t.Fatalf("cap distribution status=%d", code)
	}
	if code := hit(t, router, "/api/v1/symbols"); code != http.StatusInternalServerError {
		t.Fatalf("symbols status=%d, want 500 for missing inventory", code)
	}
}

func TestInitializeApp_PostgresBackend(t *testing.T) {
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS provider_responses`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectPing()
	mock.ExpectPing().WillReturnError(errors.New("gone"))
	mock.ExpectClose()

	old := postgresOpener
	postgresOpener = func(cfg config.Config) (*sql.DB, error) { return db, nil }
	t.Cleanup(func() { postgresOpener = old })
	useConfig(t, testConfig("postgres"))

	router, cleanup, err := InitializeApp()
	if err != nil || router == nil || cleanup == nil {
		t.Fatalf("InitializeApp failed: %v", err)
	}
	if code := hit(t, router, "/readyz"); code != http.StatusOK {
		t.Fatalf("readyz status=%d", code)
	}
	if code := hit(t, router, "/readyz"); code != http.StatusServiceUnavailable {
		t.Fatalf("readyz with failing ping status=%d", code)
	}

	cleanup()
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestInitializeApp_PostgresSchemaError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock new: %v", err)
	}
	mock.ExpectExec(`CREATE TABLE`).WillReturnError(errors.New("permission denied"))
	mock.ExpectClose()

	old := postgresOpener
	postgresOpener = func(cfg config.Config) (*sql.DB, error) { return db, nil }
	t.Cleanup(func() { postgresOpener = old })
	useConfig(t, testConfig("postgres"))

	if _, _, err := InitializeApp(); err == nil {
		t.Fatalf("expected schema error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestNewComponents_RedisBackend(t *testing.T) {
	old := redisOpener
	var opened *redis.Client
	redisOpener = func(cfg config.Config) (*redis.Client, error) {
		opened = redis.NewClient(&redis.Options{Addr: cfg.Redis.Addr})
		return opened, nil
	}
	t.Cleanup(func() { redisOpener = old })

	comps, cleanup, err := NewComponents(testConfig("redis"))
	if err != nil {
		t.Fatalf("NewComponents: %v", err)
	}
	defer cleanup()
	if opened == nil || comps.Service == nil || comps.Client == nil || comps.Inventory == nil {
		t.Fatalf("components not wired: %+v", comps)
	}
}
