// Package cache implements the Cache Adapter: a keyed get/set layer
// over Redis with TTL, namespacing, and statistics. Every failure mode is
// absorbed at the boundary: the cache is a performance optimization and
// must never become a correctness dependency.
package cache

import (
	"context"
	"encoding/json"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Config configures the Redis-backed cache adapter.
type Config struct {
	URL                 string
	Password            string
	DB                  int
	PoolSize            int
	MinIdleConns        int
	DefaultTTL          time.Duration
	HealthCheckInterval time.Duration
}

// Recorder receives every lookup's hit or miss for process-wide metrics; a
// lookup that fails on a backend error is counted only in Stats().Errors.
// A nil Recorder disables forwarding; the adapter's own Stats counters are
// kept either way.
type Recorder interface {
	ObserveCache(hit bool)
}

// Adapter is the Redis-backed cache. A nil/unreachable backing Redis never
// causes an Adapter method to return an error to the caller — every
// operation degrades to a miss (Get) or silent no-op (Set/Delete).
type Adapter struct {
	redis      *redis.Client
	defaultTTL time.Duration
	recorder   Recorder
	logger     *zap.Logger

	hits    atomic.Uint64
	misses  atomic.Uint64
	errors  atomic.Uint64
	sets    atomic.Uint64
	deletes atomic.Uint64
}

// New connects to Redis at cfg.URL. If cfg.URL is empty, it returns an
// Adapter with no backing client: every Get is a miss and every Set is a
// silent no-op, so an unset CACHE_URL disables caching rather than failing.
func New(cfg Config, recorder Recorder, logger *zap.Logger) *Adapter {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &Adapter{
		defaultTTL: cfg.DefaultTTL,
		recorder:   recorder,
		logger:     logger.With(zap.String("component", "cache")),
	}
	if cfg.URL == "" {
		logger.Info("cache disabled: no CACHE_URL configured")
		return a
	}

	a.redis = redis.NewClient(&redis.Options{
		Addr:         cfg.URL,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
	})

	if cfg.HealthCheckInterval > 0 {
		go a.healthCheckLoop(cfg.HealthCheckInterval)
	}
	return a
}

// Get looks up key and returns (value, true) on a hit, ("", false) on a
// miss or any backend error — it never returns an error.
func (a *Adapter) Get(ctx context.Context, key string) (string, bool) {
	if a.redis == nil {
		a.miss()
		return "", false
	}
	val, err := a.redis.Get(ctx, key).Result()
	if err == redis.Nil {
		a.miss()
		return "", false
	}
	if err != nil {
		a.errors.Add(1)
		a.logger.Warn("cache get failed", zap.String("key", key), zap.Error(err))
		return "", false
	}
	a.hits.Add(1)
	if a.recorder != nil {
		a.recorder.ObserveCache(true)
	}
	return val, true
}

func (a *Adapter) miss() {
	a.misses.Add(1)
	if a.recorder != nil {
		a.recorder.ObserveCache(false)
	}
}

// GetJSON is Get followed by a JSON unmarshal into dest; returns false on
// either a miss or a decode failure (a corrupt/stale entry is treated as a
// miss, never surfaced as an error).
func (a *Adapter) GetJSON(ctx context.Context, key string, dest any) bool {
	val, ok := a.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal([]byte(val), dest); err != nil {
		a.logger.Warn("cache value undecodable, treating as miss", zap.String("key", key), zap.Error(err))
		return false
	}
	return true
}

// Set writes key=value with the given ttl (or the configured default when
// ttl is zero). It returns whether the write succeeded but never returns an
// error — a failed Set is logged and counted, not propagated.
func (a *Adapter) Set(ctx context.Context, key, value string, ttl time.Duration) bool {
	if a.redis == nil {
		return false
	}
	if ttl == 0 {
		ttl = a.defaultTTL
	}
	if err := a.redis.Set(ctx, key, value, ttl).Err(); err != nil {
		a.errors.Add(1)
		a.logger.Warn("cache set failed", zap.String("key", key), zap.Error(err))
		return false
	}
	a.sets.Add(1)
	return true
}

// SetJSON marshals value to JSON and Sets it. A marshal failure (an
// unencodable value) returns false without touching the backend.
func (a *Adapter) SetJSON(ctx context.Context, key string, value any, ttl time.Duration) bool {
	data, err := json.Marshal(value)
	if err != nil {
		a.logger.Warn("cache value not JSON-encodable", zap.String("key", key), zap.Error(err))
		return false
	}
	return a.Set(ctx, key, string(data), ttl)
}

// Delete removes key. Failures are absorbed silently.
func (a *Adapter) Delete(ctx context.Context, key string) {
	if a.redis == nil {
		return
	}
	if err := a.redis.Del(ctx, key).Err(); err != nil {
		a.errors.Add(1)
		a.logger.Warn("cache delete failed", zap.String("key", key), zap.Error(err))
		return
	}
	a.deletes.Add(1)
}

// Exists reports whether key is present, treating any backend error as absent.
func (a *Adapter) Exists(ctx context.Context, key string) bool {
	if a.redis == nil {
		return false
	}
	n, err := a.redis.Exists(ctx, key).Result()
	if err != nil {
		a.errors.Add(1)
		return false
	}
	return n > 0
}

// Close releases the backing Redis connection pool, if any.
func (a *Adapter) Close() error {
	if a.redis == nil {
		return nil
	}
	return a.redis.Close()
}

func (a *Adapter) healthCheckLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for range ticker.C {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		if err := a.redis.Ping(ctx).Err(); err != nil {
			a.logger.Warn("cache health check failed", zap.Error(err))
		}
		cancel()
	}
}

// Stats reports the adapter's cumulative operation counters.
type Stats struct {
	Hits    uint64  `json:"hits"`
	Misses  uint64  `json:"misses"`
	Errors  uint64  `json:"errors"`
	Sets    uint64  `json:"sets"`
	Deletes uint64  `json:"deletes"`
	HitRate float64 `json:"hit_rate"`
}

// Stats returns a snapshot of the cache's cumulative counters.
// HitRate is hits / max(1, hits+misses).
func (a *Adapter) Stats() Stats {
	hits := a.hits.Load()
	misses := a.misses.Load()
	denom := hits + misses
	if denom == 0 {
		denom = 1
	}
	return Stats{
		Hits:    hits,
		Misses:  misses,
		Errors:  a.errors.Load(),
		Sets:    a.sets.Load(),
		Deletes: a.deletes.Load(),
		HitRate: float64(hits) / float64(denom),
	}
}
