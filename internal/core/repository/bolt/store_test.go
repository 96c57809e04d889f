package bolt

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/duynhne/profile-editor/internal/core/domain"
)

func TestOpenRequiresPath(t *testing.T) {
	if _, err := Open("  "); err == nil {
		t.Fatal("expected error")
	}
}

func TestStoreSetGet(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "profile.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if _, err := store.Get(ctx, domain.ProfilePictureKey); !errors.Is(err, domain.ErrKeyNotFound) {
		t.Fatalf("expected ErrKeyNotFound, got %v", err)
	}
	if err := store.Set(ctx, domain.ProfilePictureKey, "file://x.png"); err != nil {
		t.Fatalf("set: %v", err)
	}
	got, err := store.Get(ctx, domain.ProfilePictureKey)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "file://x.png" {
		t.Fatalf("value = %q, want %q", got, "file://x.png")
	}
	if err := store.Ping(ctx); err != nil {
		t.Fatalf("ping: %v", err)
	}
}

func TestStorePersistsAcrossReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profile.db")
	store, err := Open(path)
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	if err := store.Set(context.Background(), "k", "v1"); err != nil {
		t.Fatalf("set: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	reopened, err := Open(path)
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	defer reopened.Close()
	got, err := reopened.Get(context.Background(), "k")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got != "v1" {
		t.Fatalf("value = %q, want %q", got, "v1")
	}
}

func TestStoreHonorsCanceledContext(t *testing.T) {
	store, err := Open(filepath.Join(t.TempDir(), "profile.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	defer store.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := store.Set(ctx, "k", "v"); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}
