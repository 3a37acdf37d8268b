package app

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/guttosm/stockpulse/config"
)

// InitRedis opens a redis client for the shared cache backend and pings it.
//
// Returns:
//   - *redis.Client: a live client (safe for concurrent use).
//   - error: if the server cannot be reached within connectTimeout.
func InitRedis(cfg config.Config) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return rdb, nil
}

// redisOpener is an indirection used by openCacheStore; overridden in tests to avoid real connections.
var redisOpener = InitRedis
