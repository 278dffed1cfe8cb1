package service

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func TestInMemoryPermissionCacheStore(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryPermissionCacheStore()

	if _, ok, _ := store.Get(ctx, 1); ok {
		t.Fatal("expected miss on empty store")
	}

	if err := store.Set(ctx, 1, []string{"view-todos", "create-todos"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	names, ok, err := store.Get(ctx, 1)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if len(names) != 2 || names[0] != "view-todos" {
		t.Fatalf("unexpected names: %v", names)
	}

	// Returned slice is a copy; mutating it must not poison the cache.
	names[0] = "delete-users"
	again, _, _ := store.Get(ctx, 1)
	if again[0] != "view-todos" {
		t.Fatalf("cache entry mutated through returned slice: %v", again)
	}

	if err := store.InvalidateUser(ctx, 1); err != nil {
		t.Fatalf("invalidate user: %v", err)
	}
	if _, ok, _ := store.Get(ctx, 1); ok {
		t.Fatal("expected miss after user invalidation")
	}

	_ = store.Set(ctx, 2, []string{"view-roles"}, time.Minute)
	_ = store.Set(ctx, 3, []string{"view-users"}, time.Minute)
	if err := store.InvalidateAll(ctx); err != nil {
		t.Fatalf("invalidate all: %v", err)
	}
	for _, id := range []uint{2, 3} {
		if _, ok, _ := store.Get(ctx, id); ok {
			t.Fatalf("expected miss for user %d after full invalidation", id)
		}
	}
}

func TestInMemoryPermissionCacheStoreExpiry(t *testing.T) {
	ctx := context.Background()
	store := NewInMemoryPermissionCacheStore()

	if err := store.Set(ctx, 1, []string{"view-todos"}, -time.Second); err != nil {
		t.Fatalf("set with non-positive ttl: %v", err)
	}
	if _, ok, _ := store.Get(ctx, 1); ok {
		t.Fatal("non-positive ttl must not cache")
	}

	_ = store.Set(ctx, 2, []string{"view-todos"}, time.Millisecond)
	time.Sleep(5 * time.Millisecond)
	if _, ok, _ := store.Get(ctx, 2); ok {
		t.Fatal("expected expired entry to miss")
	}
}

func newRedisCacheStoreForTest(t *testing.T) (*miniredis.Miniredis, *RedisPermissionCacheStore) {
	t.Helper()
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		m.Close()
	})
	return m, NewRedisPermissionCacheStore(client, "perm_test")
}

func TestRedisPermissionCacheStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	_, store := newRedisCacheStoreForTest(t)

	if _, ok, err := store.Get(ctx, 1); err != nil || ok {
		t.Fatalf("expected clean miss, got ok=%v err=%v", ok, err)
	}

	if err := store.Set(ctx, 1, []string{"view-todos", "update-todos"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	names, ok, err := store.Get(ctx, 1)
	if err != nil || !ok {
		t.Fatalf("expected hit, got ok=%v err=%v", ok, err)
	}
	if len(names) != 2 || names[1] != "update-todos" {
		t.Fatalf("unexpected names: %v", names)
	}

	if err := store.InvalidateUser(ctx, 1); err != nil {
		t.Fatalf("invalidate user: %v", err)
	}
	if _, ok, _ := store.Get(ctx, 1); ok {
		t.Fatal("expected miss after user invalidation")
	}
}

func TestRedisPermissionCacheStoreInvalidateAll(t *testing.T) {
	ctx := context.Background()
	m, store := newRedisCacheStoreForTest(t)

	_ = store.Set(ctx, 1, []string{"view-todos"}, time.Minute)
	_ = store.Set(ctx, 2, []string{"view-roles"}, time.Minute)

	if err := store.InvalidateAll(ctx); err != nil {
		t.Fatalf("invalidate all: %v", err)
	}
	for _, id := range []uint{1, 2} {
		if _, ok, _ := store.Get(ctx, id); ok {
			t.Fatalf("expected miss for user %d after full invalidation", id)
		}
	}
	if got := len(m.Keys()); got != 0 {
		t.Fatalf("expected no keys left in redis, got %d: %v", got, m.Keys())
	}
}

func TestRedisPermissionCacheStoreCorruptEntryIsMiss(t *testing.T) {
	ctx := context.Background()
	m, store := newRedisCacheStoreForTest(t)

	_ = store.Set(ctx, 1, []string{"view-todos"}, time.Minute)
	m.Set("perm_test:user:1", "{not json")

	if _, ok, err := store.Get(ctx, 1); err != nil || ok {
		t.Fatalf("corrupt payload must read as miss, got ok=%v err=%v", ok, err)
	}
}

func TestNoopPermissionCacheStore(t *testing.T) {
	ctx := context.Background()
	store := NewNoopPermissionCacheStore()

	if err := store.Set(ctx, 1, []string{"view-todos"}, time.Minute); err != nil {
		t.Fatalf("set: %v", err)
	}
	if _, ok, err := store.Get(ctx, 1); err != nil || ok {
		t.Fatal("noop store never hits")
	}
	if err := store.InvalidateAll(ctx); err != nil {
		t.Fatalf("invalidate all: %v", err)
	}
}
