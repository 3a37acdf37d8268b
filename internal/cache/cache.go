// Package cache holds raw provider responses for a fixed time-to-live.
//
// A Cache wraps a Store. Stores only persist entries; the Cache decides freshness
// by comparing an entry's timestamp with the TTL on every read (lazy expiry).
// Expired entries are treated as absent and are replaced, never mutated, by the
// next successful upstream call for the same key.
package cache

import (
	"context"
	"encoding/json"
	"net/url"
	"time"

	"github.com/rs/zerolog"

	"github.com/guttosm/stockpulse/internal/logger"
	"github.com/guttosm/stockpulse/internal/metrics"
)

// DefaultTTL is how long a provider response stays fresh.
const DefaultTTL = 30 * time.Minute

// Entry is one cached provider response.
type Entry struct {
	Key       string          `json:"key"`
	Timestamp time.Time       `json:"timestamp"`
	Payload   json.RawMessage `json:"payload"`
}

// Store persists entries by key. Implementations must be safe for concurrent use.
type Store interface {
	Get(ctx context.Context, key string) (Entry, bool, error)
	Put(ctx context.Context, entry Entry) error
	Ping(ctx context.Context) error
	Close() error
}

// Cache serves fresh entries from a Store.
type Cache struct {
	store Store
	ttl   time.Duration
	now   func() time.Time
	log   zerolog.Logger
}

// New wraps store with the given ttl. A non-positive ttl falls back to DefaultTTL.
func New(store Store, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{
		store: store,
		ttl:   ttl,
		now:   time.Now,
		log:   logger.With("cache"),
	}
}

// WithClock replaces the time source. Used by tests to move past the TTL.
func (c *Cache) WithClock(now func() time.Time) *Cache {
	c.now = now
	return c
}

// TTL returns the configured time-to-live.
func (c *Cache) TTL() time.Duration { return c.ttl }

// Get returns the payload stored under key if it is younger than the TTL.
// Store errors are logged and reported as a miss.
func (c *Cache) Get(ctx context.Context, key string) ([]byte, bool) {
	entry, ok, err := c.store.Get(ctx, key)
	switch {
	case err != nil:
		metrics.CacheLookups.WithLabelValues("error").Inc()
		c.log.Warn().Err(err).Str("key", key).Msg("cache read failed")
		return nil, false
	case !ok:
		metrics.CacheLookups.WithLabelValues("miss").Inc()
		return nil, false
	case c.now().Sub(entry.Timestamp) >= c.ttl:
		metrics.CacheLookups.WithLabelValues("expired").Inc()
		return nil, false
	}
	metrics.CacheLookups.WithLabelValues("hit").Inc()
	return entry.Payload, true
}

// Put stores payload under key, stamped with the current time.
// Store errors are logged; a failed write only costs a future upstream call.
func (c *Cache) Put(ctx context.Context, key string, payload []byte) {
	entry := Entry{Key: key, Timestamp: c.now(), Payload: json.RawMessage(payload)}
	if err := c.store.Put(ctx, entry); err != nil {
		c.log.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}
}

// Ping checks the underlying store.
func (c *Cache) Ping(ctx context.Context) error { return c.store.Ping(ctx) }

// Close releases the underlying store.
func (c *Cache) Close() error { return c.store.Close() }

// Key builds the canonical cache key for a set of request parameters.
// Empty values are dropped and keys are sorted, so logically identical
// requests always map to the same key regardless of parameter order.
func Key(params map[string]string) string {
	v := url.Values{}
	for k, val := range params {
		if val == "" {
			continue
		}
		v.Set(k, val)
	}
	return v.Encode()
}
