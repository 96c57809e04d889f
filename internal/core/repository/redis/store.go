package redis

import (
	"context"
	"errors"
	"fmt"

	"github.com/duynhne/profile-editor/internal/core/domain"
	goredis "github.com/redis/go-redis/v9"
)

// Store keeps profile keys in redis under "<namespace>:<key>".
// Values never expire.
type Store struct {
	client    goredis.UniversalClient
	namespace string
}

// Options configures New.
type Options struct {
	Addr      string
	Password  string
	DB        int
	Namespace string
}

// New connects to redis and verifies the connection with PING.
func New(ctx context.Context, opts Options) (*Store, error) {
	client := goredis.NewClient(&goredis.Options{
		Addr:     opts.Addr,
		Password: opts.Password,
		DB:       opts.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", opts.Addr, err)
	}
	return NewWithClient(client, opts.Namespace), nil
}

// NewWithClient wraps an existing client (single node or cluster).
func NewWithClient(client goredis.UniversalClient, namespace string) *Store {
	return &Store{client: client, namespace: namespace}
}

func (s *Store) keyFor(key string) string {
	if s.namespace == "" {
		return key
	}
	return s.namespace + ":" + key
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if s == nil || s.client == nil {
		return "", domain.ErrStoreUnavailable
	}
	value, err := s.client.Get(ctx, s.keyFor(key)).Result()
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", domain.ErrKeyNotFound
		}
		return "", fmt.Errorf("redis get %q: %w", key, err)
	}
	return value, nil
}

// Set replaces the value stored under key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if s == nil || s.client == nil {
		return domain.ErrStoreUnavailable
	}
	if err := s.client.Set(ctx, s.keyFor(key), value, 0).Err(); err != nil {
		return fmt.Errorf("redis set %q: %w", key, err)
	}
	return nil
}

// Ping checks the redis connection.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.client == nil {
		return domain.ErrStoreUnavailable
	}
	return s.client.Ping(ctx).Err()
}

// Close closes the client.
func (s *Store) Close() error {
	if s == nil || s.client == nil {
		return nil
	}
	return s.client.Close()
}
