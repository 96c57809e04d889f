// Package bolt stores profile keys in a single-file BoltDB database.
package bolt

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/duynhne/profile-editor/internal/core/domain"
	"go.etcd.io/bbolt"
)

const profileBucket = "profile"

// Store provides a BoltDB-backed key-value store.
type Store struct {
	db *bbolt.DB
}

// Open opens (creating if needed) the BoltDB file at path.
func Open(path string) (*Store, error) {
	if strings.TrimSpace(path) == "" {
		return nil, fmt.Errorf("storage path is required")
	}

	db, err := bbolt.Open(filepath.Clean(path), 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open storage db: %w", err)
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists([]byte(profileBucket)); err != nil {
			return fmt.Errorf("create profile bucket: %w", err)
		}
		return nil
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close closes the underlying BoltDB database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Get returns the value stored under key.
func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s == nil || s.db == nil {
		return "", domain.ErrStoreUnavailable
	}

	var value string
	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(profileBucket))
		if bucket == nil {
			return fmt.Errorf("profile bucket is missing")
		}
		payload := bucket.Get([]byte(key))
		if payload == nil {
			return domain.ErrKeyNotFound
		}
		// payload is only valid inside the transaction
		value = string(payload)
		return nil
	})
	if err != nil {
		return "", err
	}
	return value, nil
}

// Set replaces the value stored under key.
func (s *Store) Set(ctx context.Context, key, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s == nil || s.db == nil {
		return domain.ErrStoreUnavailable
	}

	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket([]byte(profileBucket))
		if bucket == nil {
			return fmt.Errorf("profile bucket is missing")
		}
		return bucket.Put([]byte(key), []byte(value))
	})
}

// Ping reports whether the database file is open.
func (s *Store) Ping(ctx context.Context) error {
	if s == nil || s.db == nil {
		return domain.ErrStoreUnavailable
	}
	return s.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket([]byte(profileBucket)) == nil {
			return errors.New("profile bucket is missing")
		}
		return nil
	})
}
