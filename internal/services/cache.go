package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// CacheKeyPrefix is the Redis key prefix for cached data
	CacheKeyPrefix = "cache:"
	// DefaultCacheTTL applies when the caller has no better estimate
	DefaultCacheTTL = 8 * time.Hour
	// MinCacheTTL is 6 hours
	MinCacheTTL = 6 * time.Hour
	// MaxCacheTTL is 12 hours
	MaxCacheTTL = 12 * time.Hour
)

// CacheService stores JSON documents in Redis under the cache: prefix.
// A nil client turns every call into a miss.
type CacheService struct {
	rdb redis.UniversalClient
}

func NewCacheService(rdb redis.UniversalClient) *CacheService {
	return &CacheService{rdb: rdb}
}

// Get decodes the cached value into dest. A missing key is a miss, not an error.
func (c *CacheService) Get(ctx context.Context, key string, dest any) (bool, error) {
	if c.rdb == nil {
		return false, nil
	}
	val, err := c.rdb.Get(ctx, CacheKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(val, dest); err != nil {
		return false, err
	}
	return true, nil
}

// Set stores a value in cache with default TTL
func (c *CacheService) Set(ctx context.Context, key string, value any) error {
	return c.SetWithTTL(ctx, key, value, DefaultCacheTTL)
}

// SetWithTTL stores a value with a TTL clamped to 6-12 hours.
func (c *CacheService) SetWithTTL(ctx context.Context, key string, value any, ttl time.Duration) error {
	if c.rdb == nil {
		return nil
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, CacheKeyPrefix+key, data, clampTTL(ttl)).Err()
}

// Delete removes the given keys; absent keys are ignored.
func (c *CacheService) Delete(ctx context.Context, keys ...string) error {
	if c.rdb == nil || len(keys) == 0 {
		return nil
	}
	full := make([]string, len(keys))
	for i, k := range keys {
		full[i] = CacheKeyPrefix + k
	}
	return c.rdb.Del(ctx, full...).Err()
}

func clampTTL(ttl time.Duration) time.Duration {
	if ttl < MinCacheTTL {
		return MinCacheTTL
	}
	if ttl > MaxCacheTTL {
		return MaxCacheTTL
	}
	return ttl
}

// CacheKey generates a cache key for a specific resource
func CacheKey(resource string, identifier string) string {
	return fmt.Sprintf("%s:%s", resource, identifier)
}

// AnalyticsCacheKey is the key of one user's analytics summary for a period.
func AnalyticsCacheKey(userID, period string) string {
	return CacheKey("analytics", userID+":"+period)
}
