package cache

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"
	"time"

	"github.com/allegro/bigcache/v3"
)

// memoryShards keeps per-shard capacity large enough for full daily series.
const memoryShards = 16

// MemoryStore is an in-process Store bounded to a fixed size.
// When full, the oldest entries are evicted first. There is no background sweeper.
type MemoryStore struct {
	bc *bigcache.BigCache
}

// NewMemoryStore creates a MemoryStore capped at maxSizeMB megabytes (0 means unbounded).
// ttl is a hint used by bigcache to drop expired entries when a shard needs room.
func NewMemoryStore(ctx context.Context, maxSizeMB int, ttl time.Duration) (*MemoryStore, error) {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	cfg := bigcache.DefaultConfig(ttl)
	cfg.Shards = memoryShards
	cfg.CleanWindow = 0
	cfg.HardMaxCacheSize = maxSizeMB
	cfg.MaxEntrySize = 4096
	cfg.MaxEntriesInWindow = 1024
	cfg.Verbose = false

	bc, err := bigcache.New(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create memory cache: %w", err)
	}
	return &MemoryStore{bc: bc}, nil
}

// Get implements Store.
func (m *MemoryStore) Get(_ context.Context, key string) (Entry, bool, error) {
	raw, err := m.bc.Get(key)
	if errors.Is(err, bigcache.ErrEntryNotFound) {
		return Entry{}, false, nil
	}
	if err != nil {
		return Entry{}, false, err
	}
	entry, err := decodeEntry(key, raw)
	if err != nil {
		return Entry{}, false, err
	}
	return entry, true, nil
}

// Put implements Store.
func (m *MemoryStore) Put(_ context.Context, entry Entry) error {
	return m.bc.Set(entry.Key, encodeEntry(entry))
}

// Ping implements Store.
func (m *MemoryStore) Ping(context.Context) error { return nil }

// Close implements Store.
func (m *MemoryStore) Close() error { return m.bc.Close() }

// Len reports the number of stored entries, expired ones included.
func (m *MemoryStore) Len() int { return m.bc.Len() }

// encodeEntry lays out an entry as an 8 byte big-endian unix-nano timestamp followed by the payload.
func encodeEntry(e Entry) []byte {
	buf := make([]byte, 8+len(e.Payload))
	binary.BigEndian.PutUint64(buf, uint64(e.Timestamp.UnixNano()))
	copy(buf[8:], e.Payload)
	return buf
}

func decodeEntry(key string, raw []byte) (Entry, error) {
	if len(raw) < 8 {
		return Entry{}, fmt.Errorf("corrupt cache entry for %q", key)
	}
	ts := time.Unix(0, int64(binary.BigEndian.Uint64(raw[:8])))
	payload := make([]byte, len(raw)-8)
	copy(payload, raw[8:])
	return Entry{Key: key, Timestamp: ts, Payload: payload}, nil
}
