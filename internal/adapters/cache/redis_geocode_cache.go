package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"route-planner/internal/domain"
	"route-planner/internal/platform/obs"
)

const redisKeyPrefix = "geocode:"

// Redis-backed cache of geocoder responses with TTL-based expiry.
type RedisGeocodeCache struct {
	RDB *redis.Client
	TTL time.Duration
}

func NewRedisGeocodeCache(rdb *redis.Client, ttl time.Duration) *RedisGeocodeCache {
	return &RedisGeocodeCache{RDB: rdb, TTL: ttl}
}

// Fetch the cached response for the given key.
func (r *RedisGeocodeCache) Get(ctx context.Context, key string) (_ []domain.GeocodeResult, _ bool, err error) {
	defer obs.Time(ctx, "geocode.cache.redis.get")(&err)

	if r.RDB == nil {
		return nil, false, errors.New("geocode cache: redis client is nil")
	}
	if strings.TrimSpace(key) == "" {
		return nil, false, nil
	}

	payload, err := r.RDB.Get(ctx, redisKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get geocode cache key=%q: %w", key, err)
	}

	var items []domain.GeocodeResult
	if err := json.Unmarshal(payload, &items); err != nil {
		return nil, false, fmt.Errorf("get geocode cache: decode payload key=%q: %w", key, err)
	}

	return items, true, nil
}

// Store a geocoder response under the given key.
func (r *RedisGeocodeCache) Put(ctx context.Context, key string, items []domain.GeocodeResult) (err error) {
	defer obs.Time(ctx, "geocode.cache.redis.put")(&err)

	if r.RDB == nil {
		return errors.New("geocode cache: redis client is nil")
	}
	if strings.TrimSpace(key) == "" {
		return fmt.Errorf("insert geocode cache: empty key")
	}

	payload, err := json.Marshal(items)
	if err != nil {
		return fmt.Errorf("insert geocode cache: encode payload key=%q: %w", key, err)
	}

	if err := r.RDB.Set(ctx, redisKeyPrefix+key, payload, r.TTL).Err(); err != nil {
		return fmt.Errorf("insert geocode cache key=%q: %w", key, err)
	}

	return nil
}
