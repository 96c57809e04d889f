package psql

import (
	"context"
	"errors"
	"os"
	"testing"

	database "github.com/duynhne/profile-editor/internal/core"
	"github.com/duynhne/profile-editor/internal/core/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

func openTestRepository(t *testing.T) *KVRepository {
	t.Helper()
	dsn := os.Getenv("PROFILE_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("PROFILE_TEST_POSTGRES_DSN not set")
	}

	ctx := context.Background()
	poolCfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		t.Fatalf("parse dsn: %v", err)
	}
	pool, err := database.ConnectConfig(ctx, poolCfg)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	repo, err := NewKVRepository(ctx, pool)
	if err != nil {
		pool.Close()
		t.Fatalf("new repository: %v", err)
	}
	t.Cleanup(func() {
		_, _ = pool.Exec(context.Background(), `DELETE FROM profile_kv WHERE key LIKE 'test:%'`)
		_ = repo.Close()
	})
	return repo
}

func TestKVRepositorySetGet(t *testing.T) {
	repo := openTestRepository(t)
	ctx := context.Background()

	if _, err := repo.Get(ctx, "test:missing"); !errors.Is(err, domain.ErrKeyNotFound) {
		t.Fatalf("get missing: expected ErrKeyNotFound, got %v", err)
	}
	if err := repo.Set(ctx, "test:pfp", "file://a.png"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := repo.Set(ctx, "test:pfp", "file://b.png"); err != nil {
		t.Fatalf("overwrite: %v", err)
	}
	got, err := repo.Get(ctx, "test:pfp")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "file://b.png" {
		t.Fatalf("value = %q, want %q", got, "file://b.png")
	}
}

func TestNilRepositoryIsUnavailable(t *testing.T) {
	var repo *KVRepository
	if _, err := repo.Get(context.Background(), "k"); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if _, err := NewKVRepository(context.Background(), nil); !errors.Is(err, domain.ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
}
