package config

import (
	"strings"
	"testing"
)

func validEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DATABASE_URL", "postgres://localhost/todo_admin_test")
	t.Setenv("JWT_SECRET", strings.Repeat("s", 32))
}

func TestLoadDefaults(t *testing.T) {
	validEnv(t)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.HTTPPort != "8080" || cfg.Env != "development" {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.PaginationDefaultSize != 10 {
		t.Fatalf("unexpected default page size: %d", cfg.PaginationDefaultSize)
	}
	want := []int{10, 20, 50, 100, 500}
	if len(cfg.PaginationAllowedSizes) != len(want) {
		t.Fatalf("unexpected allowed sizes: %v", cfg.PaginationAllowedSizes)
	}
	for i, size := range want {
		if cfg.PaginationAllowedSizes[i] != size {
			t.Fatalf("unexpected allowed sizes: %v", cfg.PaginationAllowedSizes)
		}
	}
}

func TestLoadRejectsShortSecret(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/todo_admin_test")
	t.Setenv("JWT_SECRET", "short")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "JWT_SECRET") {
		t.Fatalf("expected JWT_SECRET validation error, got %v", err)
	}
}

func TestLoadRejectsDefaultSizeOutsideAllowList(t *testing.T) {
	validEnv(t)
	t.Setenv("PAGINATION_ALLOWED_SIZES", "10,20")
	t.Setenv("PAGINATION_DEFAULT_SIZE", "25")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "PAGINATION_DEFAULT_SIZE") {
		t.Fatalf("expected page size validation error, got %v", err)
	}
}

func TestLoadParsesCustomPaginationAndTTL(t *testing.T) {
	validEnv(t)
	t.Setenv("PAGINATION_ALLOWED_SIZES", " 25 , 50 , junk , -5 ")
	t.Setenv("PAGINATION_DEFAULT_SIZE", "25")
	t.Setenv("PERMISSION_CACHE_TTL", "90s")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if len(cfg.PaginationAllowedSizes) != 2 || cfg.PaginationAllowedSizes[0] != 25 {
		t.Fatalf("unexpected parsed allow-list: %v", cfg.PaginationAllowedSizes)
	}
	if cfg.PermissionCacheTTL.Seconds() != 90 {
		t.Fatalf("unexpected cache ttl: %v", cfg.PermissionCacheTTL)
	}
}

func TestLoadBadTTLFails(t *testing.T) {
	validEnv(t)
	t.Setenv("JWT_TTL", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Fatal("expected JWT_TTL parse error")
	}
}
