// Package repository selects and instruments the key-value backend behind the profile store.
package repository

import (
	"context"
	"fmt"

	"github.com/duynhne/profile-editor/config"
	database "github.com/duynhne/profile-editor/internal/core"
	"github.com/duynhne/profile-editor/internal/core/domain"
	"github.com/duynhne/profile-editor/internal/core/repository/bolt"
	"github.com/duynhne/profile-editor/internal/core/repository/memory"
	"github.com/duynhne/profile-editor/internal/core/repository/psql"
	"github.com/duynhne/profile-editor/internal/core/repository/redis"
	"github.com/duynhne/profile-editor/internal/core/repository/sqlite"
	"go.uber.org/zap"
)

// Open builds the backend named by cfg.Store.Backend and wraps it with Instrument.
func Open(ctx context.Context, cfg *config.Config, logger *zap.Logger) (domain.KeyValueStore, error) {
	var (
		kv  domain.KeyValueStore
		err error
	)

	switch cfg.Store.Backend {
	case config.BackendBolt:
		kv, err = bolt.Open(cfg.Store.Path)
	case config.BackendSQLite:
		kv, err = sqlite.Open(cfg.Store.Path)
	case config.BackendPostgres:
		kv, err = openPostgres(ctx, cfg)
	case config.BackendRedis:
		kv, err = redis.New(ctx, redis.Options{
			Addr:      cfg.Redis.Addr,
			Password:  cfg.Redis.Password,
			DB:        cfg.Redis.DB,
			Namespace: cfg.Store.Namespace,
		})
	case config.BackendMemory:
		kv = memory.New()
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s store: %w", cfg.Store.Backend, err)
	}

	logger.Info("Profile store opened",
		zap.String("backend", cfg.Store.Backend),
		zap.String("path", cfg.Store.Path),
	)
	return Instrument(kv, cfg.Store.Backend), nil
}

func openPostgres(ctx context.Context, cfg *config.Config) (domain.KeyValueStore, error) {
	pool, err := database.Connect(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}
	repo, err := psql.NewKVRepository(ctx, pool)
	if err != nil {
		pool.Close()
		return nil, err
	}
	return repo, nil
}
