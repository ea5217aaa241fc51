package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Decision is the outcome of a single rate-limit check.
type Decision struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter int // seconds; meaningful only when not allowed
}

// Limiter decides whether a (caller, endpoint) pair may proceed.
type Limiter interface {
	Allow(ctx context.Context, key, endpoint string) Decision
}

// Config holds per-endpoint limits. Endpoints absent from the maps use the
// "default" entry.
type Config struct {
	RateLimits  map[string]int // requests per window
	BurstLimits map[string]int // requests per burst window
	Window      time.Duration
	BurstWindow time.Duration
}

func DefaultConfig() Config {
	return Config{
		RateLimits: map[string]int{
			"chat":     30,
			"login":    10,
			"register": 5,
			"default":  100,
		},
		BurstLimits: map[string]int{
			"chat":    3,
			"login":   2,
			"default": 10,
		},
		Window:      time.Minute,
		BurstWindow: time.Second,
	}
}

func (c Config) rateLimit(endpoint string) int {
	if l, ok := c.RateLimits[endpoint]; ok {
		return l
	}
	return c.RateLimits["default"]
}

func (c Config) burstLimit(endpoint string) int {
	if l, ok := c.BurstLimits[endpoint]; ok {
		return l
	}
	return c.BurstLimits["default"]
}

// MemoryLimiter is the single-instance fallback. Request timestamps live in
// an expiring cache so abandoned keys are reclaimed without a sweeper.
type MemoryLimiter struct {
	cfg   Config
	cache *gocache.Cache
	mu    sync.Mutex
	now   func() time.Time
}

func NewMemoryLimiter(cfg Config) *MemoryLimiter {
	return &MemoryLimiter{
		cfg:   cfg,
		cache: gocache.New(cfg.Window+10*time.Second, 2*cfg.Window),
		now:   time.Now,
	}
}

func (m *MemoryLimiter) Allow(ctx context.Context, key, endpoint string) Decision {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	rateKey := key + ":" + endpoint
	rateLimit := m.cfg.rateLimit(endpoint)
	burstLimit := m.cfg.burstLimit(endpoint)

	var timestamps []time.Time
	if v, ok := m.cache.Get(rateKey); ok {
		timestamps = v.([]time.Time)
	}

	// Drop entries outside the window.
	kept := timestamps[:0]
	for _, ts := range timestamps {
		if now.Sub(ts) < m.cfg.Window {
			kept = append(kept, ts)
		}
	}
	timestamps = kept

	burstCount := 0
	for _, ts := range timestamps {
		if now.Sub(ts) < m.cfg.BurstWindow {
			burstCount++
		}
	}

	if burstCount >= burstLimit {
		return Decision{Allowed: false, Limit: burstLimit, RetryAfter: 1}
	}

	if len(timestamps) >= rateLimit {
		oldest := timestamps[0]
		for _, ts := range timestamps {
			if ts.Before(oldest) {
				oldest = ts
			}
		}
		retryAfter := int(m.cfg.Window.Seconds()-now.Sub(oldest).Seconds()) + 1
		return Decision{Allowed: false, Limit: rateLimit, RetryAfter: retryAfter}
	}

	timestamps = append(timestamps, now)
	m.cache.Set(rateKey, timestamps, gocache.DefaultExpiration)

	return Decision{
		Allowed:   true,
		Limit:     rateLimit,
		Remaining: rateLimit - len(timestamps),
	}
}

// RedisLimiter is the multi-instance limiter: a sliding window over a sorted
// set per (caller, endpoint). When Redis is unreachable it degrades to the
// in-memory limiter rather than failing closed.
type RedisLimiter struct {
	client   *redis.Client
	cfg      Config
	fallback *MemoryLimiter
}

func NewRedisLimiter(client *redis.Client, cfg Config) *RedisLimiter {
	return &RedisLimiter{
		client:   client,
		cfg:      cfg,
		fallback: NewMemoryLimiter(cfg),
	}
}

func (r *RedisLimiter) Allow(ctx context.Context, key, endpoint string) Decision {
	now := time.Now()
	nowScore := float64(now.UnixNano()) / float64(time.Second)
	rateKey := fmt.Sprintf("rate_limit:%s:%s", key, endpoint)
	rateLimit := r.cfg.rateLimit(endpoint)
	burstLimit := r.cfg.burstLimit(endpoint)

	pipe := r.client.Pipeline()
	pipe.ZRemRangeByScore(ctx, rateKey, "0", formatScore(nowScore-r.cfg.Window.Seconds()))
	cardCmd := pipe.ZCard(ctx, rateKey)
	burstCmd := pipe.ZCount(ctx, rateKey, formatScore(nowScore-r.cfg.BurstWindow.Seconds()), formatScore(nowScore))

	if _, err := pipe.Exec(ctx); err != nil {
		return r.fallback.Allow(ctx, key, endpoint)
	}

	currentCount := int(cardCmd.Val())
	burstCount := int(burstCmd.Val())

	if burstCount >= burstLimit {
		return Decision{Allowed: false, Limit: burstLimit, RetryAfter: 1}
	}

	if currentCount >= rateLimit {
		retryAfter := int(r.cfg.Window.Seconds())
		if oldest, err := r.client.ZRangeWithScores(ctx, rateKey, 0, 0).Result(); err == nil && len(oldest) > 0 {
			retryAfter = int(r.cfg.Window.Seconds()-(nowScore-oldest[0].Score)) + 1
		}
		return Decision{Allowed: false, Limit: rateLimit, RetryAfter: retryAfter}
	}

	member := strconv.FormatFloat(nowScore, 'f', 6, 64)
	if err := r.client.ZAdd(ctx, rateKey, redis.Z{Score: nowScore, Member: member}).Err(); err != nil {
		return r.fallback.Allow(ctx, key, endpoint)
	}
	r.client.Expire(ctx, rateKey, r.cfg.Window+10*time.Second)

	return Decision{
		Allowed:   true,
		Limit:     rateLimit,
		Remaining: rateLimit - currentCount - 1,
	}
}

func formatScore(f float64) string {
	return strconv.FormatFloat(f, 'f', 6, 64)
}
