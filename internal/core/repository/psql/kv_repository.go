package psql

import (
	"context"
	"errors"
	"fmt"

	"github.com/duynhne/profile-editor/internal/core/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createTable = `CREATE TABLE IF NOT EXISTS profile_kv (
	key        TEXT PRIMARY KEY,
	value      TEXT NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// KVRepository implements domain.KeyValueStore on a PostgreSQL table
type KVRepository struct {
	pool *pgxpool.Pool
}

// NewKVRepository creates the profile_kv table if needed and returns the repository.
// The repository owns the pool and closes it on Close.
func NewKVRepository(ctx context.Context, pool *pgxpool.Pool) (*KVRepository, error) {
	if pool == nil {
		return nil, domain.ErrStoreUnavailable
	}
	if _, err := pool.Exec(ctx, createTable); err != nil {
		return nil, fmt.Errorf("create profile_kv table: %w", err)
	}
	return &KVRepository{pool: pool}, nil
}

// Get returns the value stored under key
func (r *KVRepository) Get(ctx context.Context, key string) (string, error) {
	if r == nil || r.pool == nil {
		return "", domain.ErrStoreUnavailable
	}

	var value string
	err := r.pool.QueryRow(ctx, `SELECT value FROM profile_kv WHERE key = $1`, key).Scan(&value)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", domain.ErrKeyNotFound
		}
		return "", fmt.Errorf("query profile_kv %q: %w", key, err)
	}
	return value, nil
}

// Set upserts key, replacing any previous value
func (r *KVRepository) Set(ctx context.Context, key, value string) error {
	if r == nil || r.pool == nil {
		return domain.ErrStoreUnavailable
	}

	query := `INSERT INTO profile_kv (key, value, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (key) DO UPDATE SET value = EXCLUDED.value, updated_at = EXCLUDED.updated_at`
	if _, err := r.pool.Exec(ctx, query, key, value); err != nil {
		return fmt.Errorf("upsert profile_kv %q: %w", key, err)
	}
	return nil
}

// Ping checks the pool can reach the database
func (r *KVRepository) Ping(ctx context.Context) error {
	if r == nil || r.pool == nil {
		return domain.ErrStoreUnavailable
	}
	return r.pool.Ping(ctx)
}

// Close releases the pool
func (r *KVRepository) Close() error {
	if r != nil && r.pool != nil {
		r.pool.Close()
	}
	return nil
}
