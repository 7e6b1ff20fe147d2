package weather

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const cacheKeyPrefix = "weather:"

// kv is the part of *redis.Client the cache needs.
type kv interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

// RedisCache stores reports as JSON under "weather:<area>".
type RedisCache struct {
	rdb kv
	ttl time.Duration
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{rdb: rdb, ttl: ttl}
}

// Get reports ok=false on a miss.
func (c *RedisCache) Get(ctx context.Context, area string) (*Report, bool, error) {
	raw, err := c.rdb.Get(ctx, cacheKey(area)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var r Report
	if err := json.Unmarshal([]byte(raw), &r); err != nil {
		return nil, false, fmt.Errorf("decode cached report: %w", err)
	}
	return &r, true, nil
}

func (c *RedisCache) Set(ctx context.Context, area string, r *Report) error {
	data, err := json.Marshal(r)
	if err != nil {
		return err
	}
	if err := c.rdb.Set(ctx, cacheKey(area), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

// NopCache never hits. Used when no Redis address is configured.
type NopCache struct{}

func (NopCache) Get(context.Context, string) (*Report, bool, error) { return nil, false, nil }
func (NopCache) Set(context.Context, string, *Report) error         { return nil }

func cacheKey(area string) string {
	return cacheKeyPrefix + strings.ToLower(strings.TrimSpace(area))
}
