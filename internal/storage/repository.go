package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/guttosm/stockpulse/internal/cache"
)

// ResponseRepository persists provider responses in PostgreSQL.
// It satisfies cache.Store so it can back the response cache directly.
type ResponseRepository interface {
	cache.Store
	EnsureSchema(ctx context.Context) error
}

type responseRepository struct {
	db *sql.DB
}

// NewResponseRepository wraps an open *sql.DB.
func NewResponseRepository(db *sql.DB) ResponseRepository {
	return &responseRepository{db: db}
}

// EnsureSchema creates the provider_responses table when missing.
func (r *responseRepository) EnsureSchema(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS provider_responses (
			cache_key  TEXT PRIMARY KEY,
			payload    JSONB NOT NULL,
			fetched_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("failed to create provider_responses: %w", err)
	}
	return nil
}

// Get returns the stored response for key. A missing row is a miss, not an error.
func (r *responseRepository) Get(ctx context.Context, key string) (cache.Entry, bool, error) {
	entry := cache.Entry{Key: key}
	var payload []byte
	err := r.db.QueryRowContext(ctx,
		`SELECT payload, fetched_at FROM provider_responses WHERE cache_key = $1`, key,
	).Scan(&payload, &entry.Timestamp)
	if errors.Is(err, sql.ErrNoRows) {
		return cache.Entry{}, false, nil
	}
	if err != nil {
		return cache.Entry{}, false, err
	}
	entry.Payload = payload
	return entry, true, nil
}

// Put replaces the stored response for entry.Key.
func (r *responseRepository) Put(ctx context.Context, entry cache.Entry) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO provider_responses (cache_key, payload, fetched_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (cache_key)
		DO UPDATE SET payload = EXCLUDED.payload,
					  fetched_at = EXCLUDED.fetched_at
	`, entry.Key, []byte(entry.Payload), entry.Timestamp)
	return err
}

// Ping checks database connectivity.
func (r *responseRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}

// Close closes the database handle.
func (r *responseRepository) Close() error {
	return r.db.Close()
}
