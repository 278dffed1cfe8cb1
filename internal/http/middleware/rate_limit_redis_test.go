package middleware

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

func newRedisLimiterForTest(t *testing.T) (*miniredis.Miniredis, *RedisFixedWindowLimiter) {
	t.Helper()
	m := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: m.Addr()})
	t.Cleanup(func() {
		_ = client.Close()
		m.Close()
	})
	return m, NewRedisFixedWindowLimiter(client, "rl_test")
}

func TestRedisFixedWindowLimiterAllowThenDeny(t *testing.T) {
	_, limiter := newRedisLimiterForTest(t)
	ctx := context.Background()

	allowed, _, err := limiter.Allow(ctx, "client-a", 2, time.Minute)
	if err != nil || !allowed {
		t.Fatalf("first request: allowed=%v err=%v", allowed, err)
	}
	allowed, _, err = limiter.Allow(ctx, "client-a", 2, time.Minute)
	if err != nil || !allowed {
		t.Fatalf("second request: allowed=%v err=%v", allowed, err)
	}
	allowed, retryAfter, err := limiter.Allow(ctx, "client-a", 2, time.Minute)
	if err != nil {
		t.Fatalf("third request: %v", err)
	}
	if allowed {
		t.Fatal("expected third request denied")
	}
	if retryAfter <= 0 {
		t.Fatalf("expected positive retry-after, got %v", retryAfter)
	}
}

func TestRedisFixedWindowLimiterKeysAreIndependent(t *testing.T) {
	_, limiter := newRedisLimiterForTest(t)
	ctx := context.Background()

	if allowed, _, _ := limiter.Allow(ctx, "client-a", 1, time.Minute); !allowed {
		t.Fatal("expected client-a first request allowed")
	}
	if allowed, _, _ := limiter.Allow(ctx, "client-a", 1, time.Minute); allowed {
		t.Fatal("expected client-a second request denied")
	}
	if allowed, _, _ := limiter.Allow(ctx, "client-b", 1, time.Minute); !allowed {
		t.Fatal("expected client-b unaffected by client-a's window")
	}
}

func TestRedisFixedWindowLimiterWindowExpiry(t *testing.T) {
	m, limiter := newRedisLimiterForTest(t)
	ctx := context.Background()

	if allowed, _, _ := limiter.Allow(ctx, "client-a", 1, time.Second); !allowed {
		t.Fatal("expected first request allowed")
	}
	if allowed, _, _ := limiter.Allow(ctx, "client-a", 1, time.Second); allowed {
		t.Fatal("expected second request denied")
	}
	m.FastForward(2 * time.Second)
	if allowed, _, _ := limiter.Allow(ctx, "client-a", 1, time.Second); !allowed {
		t.Fatal("expected new window after expiry")
	}
}

func TestRedisFixedWindowLimiterBackendAndNilClientErrors(t *testing.T) {
	limiter := NewRedisFixedWindowLimiter(nil, "")
	if _, _, err := limiter.Allow(context.Background(), "k", 1, time.Minute); err == nil {
		t.Fatal("expected nil client error")
	}

	badClient := redis.NewClient(&redis.Options{Addr: "127.0.0.1:1", DialTimeout: 20 * time.Millisecond, ReadTimeout: 20 * time.Millisecond, WriteTimeout: 20 * time.Millisecond})
	t.Cleanup(func() { _ = badClient.Close() })
	limiter = NewRedisFixedWindowLimiter(badClient, "")
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	if _, _, err := limiter.Allow(ctx, "k", 1, time.Minute); err == nil {
		t.Fatal("expected backend error")
	}
}
