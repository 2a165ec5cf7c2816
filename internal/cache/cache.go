// Package cache stores computed analysis results keyed by their inputs.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/cespare/xxhash/v2"
	"github.com/eightweeks/fujimi-forecast/internal/config"
	"go.uber.org/zap"
)

// Backend names accepted in the cache configuration.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

// Cache is a string key/value store with per-entry expiry.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// Key derives a cache key from prefix and the JSON encoding of v.
func Key(prefix string, v any) (string, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("cache key for %s: %w", prefix, err)
	}
	return prefix + ":" + strconv.FormatUint(xxhash.Sum64(data), 16), nil
}

// New returns the cache backend named in conf, or nil for BackendNone.
func New(logger *zap.Logger, conf config.CacheConfig) (Cache, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch conf.Backend {
	case "", BackendMemory:
		logger.Debug("using in-memory cache", zap.String("op", "cache.New"))
		return NewMemory(), nil
	case BackendRedis:
		logger.Debug("using redis cache",
			zap.String("op", "cache.New"),
			zap.String("address", conf.RedisAddress),
			zap.Int("db", conf.RedisDB),
		)
		return NewRedis(conf.RedisAddress, conf.RedisPassword, conf.RedisDB), nil
	case BackendNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown cache backend %q", conf.Backend)
	}
}

// GetJSON decodes a cached JSON value into dst.
func GetJSON(ctx context.Context, c Cache, key string, dst any) (bool, error) {
	raw, ok, err := c.Get(ctx, key)
	if err != nil || !ok {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dst); err != nil {
		return false, fmt.Errorf("decode cached %s: %w", key, err)
	}
	return true, nil
}

// SetJSON stores v encoded as JSON.
func SetJSON(ctx context.Context, c Cache, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return c.Set(ctx, key, string(data), ttl)
}
