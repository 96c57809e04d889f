package domain

import "context"

// KeyValueStore is the durable string-to-string mapping behind the profile store.
// Get returns ErrKeyNotFound when the key was never written.
type KeyValueStore interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Ping(ctx context.Context) error
	Close() error
}
