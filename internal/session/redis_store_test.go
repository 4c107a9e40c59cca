package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
)

func setupTestRedis(t *testing.T) *RedisStore {
	t.Helper()
	mr := miniredis.RunT(t)
	store, err := NewRedisStore("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("failed to create redis store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestRedisSaveAndLookup(t *testing.T) {
	store := setupTestRedis(t)
	ctx := context.Background()

	id := Identity{Name: "Jane Smith", Role: "editor"}
	if err := store.Save(ctx, "hash-1", id, time.Now().Add(24*time.Hour)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	got, err := store.Lookup(ctx, "hash-1")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if got != id {
		t.Errorf("got %+v, want %+v", got, id)
	}
}

func TestRedisLookupExpired(t *testing.T) {
	mr := miniredis.RunT(t)
	store, err := NewRedisStore("redis://" + mr.Addr())
	if err != nil {
		t.Fatalf("failed to create redis store: %v", err)
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.Save(ctx, "hash-exp", Identity{Name: "Ken"}, time.Now().Add(time.Millisecond)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	mr.FastForward(2 * time.Millisecond)

	if _, err := store.Lookup(ctx, "hash-exp"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRedisLookupMissing(t *testing.T) {
	store := setupTestRedis(t)
	if _, err := store.Lookup(context.Background(), "no-such-hash"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestRedisRevoke(t *testing.T) {
	store := setupTestRedis(t)
	ctx := context.Background()

	if err := store.Save(ctx, "hash-rev", Identity{Name: "Jane"}, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if err := store.Revoke(ctx, "hash-rev"); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if _, err := store.Lookup(ctx, "hash-rev"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after revoke, got %v", err)
	}
}

func TestRedisDefaultsRole(t *testing.T) {
	store := setupTestRedis(t)
	ctx := context.Background()

	if err := store.Save(ctx, "hash-role", Identity{Name: "Jane"}, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := store.Lookup(ctx, "hash-role")
	if err != nil {
		t.Fatalf("Lookup failed: %v", err)
	}
	if got.Role != "viewer" {
		t.Errorf("Role = %q, want viewer", got.Role)
	}
}

func TestMemoryStore(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	id := Identity{Name: "Jane", Role: "admin"}
	if err := store.Save(ctx, "h", id, time.Now().Add(time.Hour)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	got, err := store.Lookup(ctx, "h")
	if err != nil || got != id {
		t.Fatalf("Lookup = %+v, %v", got, err)
	}

	if err := store.Save(ctx, "old", id, time.Now().Add(-time.Minute)); err != nil {
		t.Fatalf("Save failed: %v", err)
	}
	if _, err := store.Lookup(ctx, "old"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound for expired entry, got %v", err)
	}

	if err := store.Revoke(ctx, "h"); err != nil {
		t.Fatalf("Revoke failed: %v", err)
	}
	if _, err := store.Lookup(ctx, "h"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound after revoke, got %v", err)
	}
}
