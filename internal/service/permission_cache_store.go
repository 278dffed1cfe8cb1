package service

import (
	"context"
	"sync"
	"time"
)

// PermissionCacheStore caches the resolved permission names of a user so the
// auth middleware does not hit the database on every request. Entries are
// invalidated whenever role or user-role assignments change.
type PermissionCacheStore interface {
	Get(ctx context.Context, userID uint) ([]string, bool, error)
	Set(ctx context.Context, userID uint, names []string, ttl time.Duration) error
	InvalidateUser(ctx context.Context, userID uint) error
	InvalidateAll(ctx context.Context) error
}

type NoopPermissionCacheStore struct{}

func NewNoopPermissionCacheStore() *NoopPermissionCacheStore {
	return &NoopPermissionCacheStore{}
}

func (s *NoopPermissionCacheStore) Get(context.Context, uint) ([]string, bool, error) {
	return nil, false, nil
}

func (s *NoopPermissionCacheStore) Set(context.Context, uint, []string, time.Duration) error {
	return nil
}

func (s *NoopPermissionCacheStore) InvalidateUser(context.Context, uint) error { return nil }

func (s *NoopPermissionCacheStore) InvalidateAll(context.Context) error { return nil }

type permissionCacheEntry struct {
	names     []string
	expiresAt time.Time
}

type InMemoryPermissionCacheStore struct {
	mu      sync.RWMutex
	entries map[uint]permissionCacheEntry
}

func NewInMemoryPermissionCacheStore() *InMemoryPermissionCacheStore {
	return &InMemoryPermissionCacheStore{entries: map[uint]permissionCacheEntry{}}
}

func (s *InMemoryPermissionCacheStore) Get(_ context.Context, userID uint) ([]string, bool, error) {
	now := time.Now().UTC()
	s.mu.RLock()
	entry, ok := s.entries[userID]
	s.mu.RUnlock()
	if !ok {
		return nil, false, nil
	}
	if now.After(entry.expiresAt) {
		s.mu.Lock()
		delete(s.entries, userID)
		s.mu.Unlock()
		return nil, false, nil
	}
	return append([]string(nil), entry.names...), true, nil
}

func (s *InMemoryPermissionCacheStore) Set(_ context.Context, userID uint, names []string, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	s.mu.Lock()
	s.entries[userID] = permissionCacheEntry{
		names:     append([]string(nil), names...),
		expiresAt: time.Now().UTC().Add(ttl),
	}
	s.mu.Unlock()
	return nil
}

func (s *InMemoryPermissionCacheStore) InvalidateUser(_ context.Context, userID uint) error {
	s.mu.Lock()
	delete(s.entries, userID)
	s.mu.Unlock()
	return nil
}

func (s *InMemoryPermissionCacheStore) InvalidateAll(_ context.Context) error {
	s.mu.Lock()
	s.entries = map[uint]permissionCacheEntry{}
	s.mu.Unlock()
	return nil
}
