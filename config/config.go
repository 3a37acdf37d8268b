package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the full application configuration loaded from environment variables or .env file.
//
// It is composed of smaller structs that represent different concerns of the system,
// such as server settings, the upstream market-data provider and the response cache.
//
// Example ENV equivalent:
//
//	SERVER_PORT=8080
//	ALPHAVANTAGE_API_KEY=demo
//	ALPHAVANTAGE_TIMEOUT=10s
//	CACHE_BACKEND=memory
//	CACHE_TTL=30m
//	INVENTORY_FILE=./data/constituents-financials.csv
type Config struct {
	Server       ServerConfig       // HTTP server configuration
	AlphaVantage AlphaVantageConfig // Upstream provider settings
	Cache        CacheConfig        // Response cache settings
	Redis        RedisConfig        // Redis connection (CACHE_BACKEND=redis)
	Postgres     PostgresConfig     // PostgreSQL connection (CACHE_BACKEND=postgres)
	Market       MarketConfig       // Market-wide data settings
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port           string   // The TCP port the HTTP server will listen on (e.g., "8080")
	AllowedOrigins []string // CORS origins allowed to call the API ("*" for any)
}

// AlphaVantageConfig defines how the upstream provider is reached.
//
// Fields:
//   - APIKey: static credential appended to every request.
//   - BaseURL: query endpoint of the provider.
//   - Timeout: per-request timeout; exceeding it is a transport failure.
//   - RequestsPerMinute: client-side quota; calls above it fail fast as rate limited.
//   - BreakerFailures: consecutive failures that open the circuit breaker.
//   - BreakerCooldown: how long the breaker stays open before probing again.
type AlphaVantageConfig struct {
	APIKey            string
	BaseURL           string
	Timeout           time.Duration
	RequestsPerMinute int
	BreakerFailures   int
	BreakerCooldown   time.Duration
}

// CacheConfig selects and sizes the response cache.
type CacheConfig struct {
	Backend   string        // memory | redis | postgres
	TTL       time.Duration // entry time-to-live
	MaxSizeMB int           // hard cap for the memory backend
}

// RedisConfig holds the connection settings for the redis cache backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// PostgresConfig defines connection details for PostgreSQL.
//
// Fields:
//   - Host: hostname of the database server.
//   - Port: port number of the database server (default 5432).
//   - User: username for authentication.
//   - Password: password for authentication.
//   - DBName: target database name.
//   - SSLMode: SSL mode (e.g., "disable", "require").
//   - URL: computed DSN used by database/sql to connect.
type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	URL      string
}

// MarketConfig holds settings for market-wide aggregations.
type MarketConfig struct {
	IndexSymbol   string // symbol queried for the index quote of the market summary
	InventoryFile string // CSV with per-symbol fundamentals
}

// AppConfig is the globally accessible configuration instance.
//
// It is populated once via LoadConfig() and used throughout the application.
var AppConfig Config

// LoadConfig initializes the global AppConfig by reading from .env file
// or directly from environment variables.
//
// Precedence (from lowest to highest):
//  1. Defaults set in this function.
//  2. Values from .env file (if present).
//  3. Environment variables.
//
// Fatal exit:
//   - If required variables are missing, validateConfig() will terminate the app
//     with a descriptive log message.
func LoadConfig() {
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")

	viper.SetDefault("ALPHAVANTAGE_API_KEY", "demo")
	viper.SetDefault("ALPHAVANTAGE_BASE_URL", "https://www.alphavantage.co/query")
	viper.SetDefault("ALPHAVANTAGE_TIMEOUT", "10s")
	viper.SetDefault("ALPHAVANTAGE_REQUESTS_PER_MINUTE", 5)
	viper.SetDefault("ALPHAVANTAGE_BREAKER_FAILURES", 5)
	viper.SetDefault("ALPHAVANTAGE_BREAKER_COOLDOWN", "1m")

	viper.SetDefault("CACHE_BACKEND", "memory")
	viper.SetDefault("CACHE_TTL", "30m")
	viper.SetDefault("CACHE_MAX_SIZE_MB", 64)

	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)

	viper.SetDefault("POSTGRES_HOST", "localhost")
	viper.SetDefault("POSTGRES_PORT", 5432)
	viper.SetDefault("POSTGRES_USER", "postgres")
	viper.SetDefault("POSTGRES_PASSWORD", "postgres")
	viper.SetDefault("POSTGRES_DB", "stockpulse")
	viper.SetDefault("POSTGRES_SSLMODE", "disable")

	viper.SetDefault("MARKET_INDEX_SYMBOL", "^GSPC")
	viper.SetDefault("INVENTORY_FILE", "./data/constituents-financials.csv")

	// Optionally read from .env if present (common in local dev)
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig() // ignore error if no .env

	viper.AutomaticEnv()

	AppConfig = Config{
		Server: ServerConfig{
			Port:           viper.GetString("SERVER_PORT"),
			AllowedOrigins: splitList(viper.GetString("CORS_ALLOWED_ORIGINS")),
		},
		AlphaVantage: AlphaVantageConfig{
			APIKey:            viper.GetString("ALPHAVANTAGE_API_KEY"),
			BaseURL:           viper.GetString("ALPHAVANTAGE_BASE_URL"),
			Timeout:           viper.GetDuration("ALPHAVANTAGE_TIMEOUT"),
			RequestsPerMinute: viper.GetInt("ALPHAVANTAGE_REQUESTS_PER_MINUTE"),
			BreakerFailures:   viper.GetInt("ALPHAVANTAGE_BREAKER_FAILURES"),
			BreakerCooldown:   viper.GetDuration("ALPHAVANTAGE_BREAKER_COOLDOWN"),
		},
		Cache: CacheConfig{
			Backend:   strings.ToLower(viper.GetString("CACHE_BACKEND")),
			TTL:       viper.GetDuration("CACHE_TTL"),
			MaxSizeMB: viper.GetInt("CACHE_MAX_SIZE_MB"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Postgres: PostgresConfig{
			Host:     viper.GetString("POSTGRES_HOST"),
			Port:     viper.GetInt("POSTGRES_PORT"),
			User:     viper.GetString("POSTGRES_USER"),
			Password: viper.GetString("POSTGRES_PASSWORD"),
			DBName:   viper.GetString("POSTGRES_DB"),
			SSLMode:  viper.GetString("POSTGRES_SSLMODE"),
		},
		Market: MarketConfig{
			IndexSymbol:   viper.GetString("MARKET_INDEX_SYMBOL"),
			InventoryFile: viper.GetString("INVENTORY_FILE"),
		},
	}

	// Construct Postgres DSN (used by database/sql)
	AppConfig.Postgres.URL = fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		AppConfig.Postgres.User,
		AppConfig.Postgres.Password,
		AppConfig.Postgres.Host,
		AppConfig.Postgres.Port,
		AppConfig.Postgres.DBName,
		AppConfig.Postgres.SSLMode,
	)

	validateConfig()
}

// splitList turns a comma separated env value into a trimmed, non-empty slice.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// validateConfig ensures required variables are present and terminates
// the application if they are missing.
//
// Behavior:
//   - Checks each critical field of AppConfig.
//   - Backend specific settings are only required for the selected cache backend.
//   - If any are missing, logs them and terminates the app with log.Fatalf().
func validateConfig() {
	var missing []string

	if AppConfig.Server.Port == "" {
		missing = append(missing, "SERVER_PORT")
	}
	if AppConfig.AlphaVantage.APIKey == "" {
		missing = append(missing, "ALPHAVANTAGE_API_KEY")
	}
	if AppConfig.AlphaVantage.BaseURL == "" {
		missing = append(missing, "ALPHAVANTAGE_BASE_URL")
	}
	if AppConfig.AlphaVantage.Timeout <= 0 {
		missing = append(missing, "ALPHAVANTAGE_TIMEOUT")
	}
	if AppConfig.Cache.TTL <= 0 {
		missing = append(missing, "CACHE_TTL")
	}

	switch AppConfig.Cache.Backend {
	case "memory":
	case "redis":
		if AppConfig.Redis.Addr == "" {
			missing = append(missing, "REDIS_ADDR")
		}
	case "postgres":
		if AppConfig.Postgres.Host == "" {
			missing = append(missing, "POSTGRES_HOST")
		}
		if AppConfig.Postgres.Port == 0 {
			missing = append(missing, "POSTGRES_PORT")
		}
		if AppConfig.Postgres.User == "" {
			missing = append(missing, "POSTGRES_USER")
		}
		if AppConfig.Postgres.DBName == "" {
			missing = append(missing, "POSTGRES_DB")
		}
	default:
		missing = append(missing, "CACHE_BACKEND (memory|redis|postgres)")
	}

	if len(missing) > 0 {
		log.Fatalf("❌ Missing required environment variables: %v\n", missing)
	}
}
