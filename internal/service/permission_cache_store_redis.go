package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

type RedisPermissionCacheStore struct {
	client redis.UniversalClient
	prefix string
}

func NewRedisPermissionCacheStore(client redis.UniversalClient, prefix string) *RedisPermissionCacheStore {
	if prefix == "" {
		prefix = "permission_cache"
	}
	return &RedisPermissionCacheStore{client: client, prefix: prefix}
}

func (s *RedisPermissionCacheStore) Get(ctx context.Context, userID uint) ([]string, bool, error) {
	if s.client == nil {
		return nil, false, nil
	}
	payload, err := s.client.Get(ctx, s.dataKey(userID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var names []string
	if err := json.Unmarshal(payload, &names); err != nil {
		// A corrupt entry is treated as a miss so the caller reloads it.
		return nil, false, nil
	}
	return names, true, nil
}

func (s *RedisPermissionCacheStore) Set(ctx context.Context, userID uint, names []string, ttl time.Duration) error {
	if s.client == nil || ttl <= 0 {
		return nil
	}
	payload, err := json.Marshal(names)
	if err != nil {
		return err
	}
	dataKey := s.dataKey(userID)
	allIndex := s.allIndexKey()
	pipe := s.client.TxPipeline()
	pipe.Set(ctx, dataKey, payload, ttl)
	pipe.SAdd(ctx, allIndex, dataKey)
	pipe.Expire(ctx, allIndex, ttl+time.Minute)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisPermissionCacheStore) InvalidateUser(ctx context.Context, userID uint) error {
	if s.client == nil {
		return nil
	}
	dataKey := s.dataKey(userID)
	pipe := s.client.TxPipeline()
	pipe.Del(ctx, dataKey)
	pipe.SRem(ctx, s.allIndexKey(), dataKey)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisPermissionCacheStore) InvalidateAll(ctx context.Context) error {
	if s.client == nil {
		return nil
	}
	allIndex := s.allIndexKey()
	keys, err := s.client.SMembers(ctx, allIndex).Result()
	if err != nil && err != redis.Nil {
		return err
	}
	pipe := s.client.TxPipeline()
	if len(keys) > 0 {
		pipe.Del(ctx, keys...)
	}
	pipe.Del(ctx, allIndex)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisPermissionCacheStore) dataKey(userID uint) string {
	return fmt.Sprintf("%s:user:%s", s.prefix, strconv.FormatUint(uint64(userID), 10))
}

func (s *RedisPermissionCacheStore) allIndexKey() string {
	return fmt.Sprintf("%s:index:all", s.prefix)
}
