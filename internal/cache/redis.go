// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pdiddy/ecosyz/internal/metrics"
	"github.com/pdiddy/ecosyz/pkg/types"
)

const redisKeyPrefix = "ecosyz:envelope:"

// redisOpTimeout bounds each cache round trip so a slow Redis degrades to a
// miss instead of stalling the query.
const redisOpTimeout = 250 * time.Millisecond

// Redis is a Store shared between processes. Entries expire server-side
// after the TTL; capacity is governed by the server's maxmemory policy.
type Redis struct {
	client  *redis.Client
	ttl     time.Duration
	log     *zap.Logger
	metrics *metrics.Recorder
}

// NewRedis returns a Redis store for cfg.RedisAddr. It does not connect
// eagerly; an unreachable server shows up as misses.
func NewRedis(cfg types.CacheConfig, log *zap.Logger, rec *metrics.Recorder) *Redis {
	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if log == nil {
		log = zap.NewNop()
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Password:     cfg.RedisPassword,
		DialTimeout:  redisOpTimeout,
		ReadTimeout:  redisOpTimeout,
		WriteTimeout: redisOpTimeout,
		MaxRetries:   -1,
	})
	return &Redis{
		client:  client,
		ttl:     ttl,
		log:     log.With(zap.String("component", "cache.redis"), zap.String("addr", cfg.RedisAddr)),
		metrics: rec,
	}
}

// Get fetches and decodes the envelope under key.
func (r *Redis) Get(ctx context.Context, key string) (types.Envelope, bool) {
	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	data, err := r.client.Get(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		r.metrics.CacheEvent(metrics.CacheMiss)
		return types.Envelope{}, false
	}
	if err != nil {
		r.log.Warn("cache read failed", zap.Error(err))
		r.metrics.CacheEvent(metrics.CacheError)
		return types.Envelope{}, false
	}

	var env types.Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		r.log.Warn("discarding corrupt cache entry", zap.String("key", key), zap.Error(err))
		r.metrics.CacheEvent(metrics.CacheError)
		return types.Envelope{}, false
	}
	r.metrics.CacheEvent(metrics.CacheHit)
	return env, true
}

// Set encodes env and stores it with the TTL.
func (r *Redis) Set(ctx context.Context, key string, env types.Envelope) {
	data, err := json.Marshal(env)
	if err != nil {
		r.log.Warn("encoding cache entry", zap.Error(err))
		return
	}

	ctx, cancel := context.WithTimeout(ctx, redisOpTimeout)
	defer cancel()

	if err := r.client.Set(ctx, redisKeyPrefix+key, data, r.ttl).Err(); err != nil {
		r.log.Warn("cache write failed", zap.Error(err))
		r.metrics.CacheEvent(metrics.CacheError)
	}
}

// Close releases the Redis connection pool.
func (r *Redis) Close() error {
	return r.client.Close()
}
