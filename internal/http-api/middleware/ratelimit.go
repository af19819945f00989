package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"blogapi/internal/config"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

// Decision is the outcome of one token-bucket check.
type Decision struct {
	Allowed    bool
	Remaining  int64
	RetryAfter time.Duration
}

// Limiter takes one token from the bucket identified by key.
type Limiter interface {
	Take(ctx context.Context, key string) (Decision, error)
}

// NewLimiter prefers the shared redis bucket and falls back to in-process buckets.
func NewLimiter(cfg *config.Config, rdb *redis.Client) Limiter {
	if rdb != nil {
		return NewRedisLimiter(rdb, cfg.RateLimitCapacity, cfg.RateLimitRefillInterval, cfg.RateLimitTTL)
	}
	return NewLocalLimiter(cfg.RateLimitCapacity, cfg.RateLimitRefillInterval, cfg.RateLimitTTL)
}

var tokenBucketScript = redis.NewScript(`
	local key = KEYS[1]
	local now_ms = tonumber(ARGV[1])
	local capacity = tonumber(ARGV[2])
	local interval_ms = tonumber(ARGV[3])
	local ttl_seconds = tonumber(ARGV[4])

	local state = redis.call('HMGET', key, 'tokens', 'last_refill_ms')
	local tokens = tonumber(state[1])
	local last_refill = tonumber(state[2])

	if tokens == nil or last_refill == nil then
		tokens = capacity
		last_refill = now_ms
	end

	if interval_ms > 0 then
		local elapsed = math.max(0, now_ms - last_refill)
		local intervals = math.floor(elapsed / interval_ms)
		if intervals > 0 then
			tokens = math.min(capacity, tokens + intervals)
			last_refill = last_refill + (intervals * interval_ms)
		end
	end

	local allowed = 0
	local retry_after_ms = 0
	if tokens > 0 then
		allowed = 1
		tokens = tokens - 1
	else
		retry_after_ms = math.max(0, interval_ms - (now_ms - last_refill))
	end

	redis.call('HSET', key, 'tokens', tokens, 'last_refill_ms', last_refill)
	redis.call('EXPIRE', key, ttl_seconds)

	return { allowed, tokens, retry_after_ms }
`)

type RedisLimiter struct {
	rdb      *redis.Client
	capacity int
	interval time.Duration
	ttl      time.Duration
}

func NewRedisLimiter(rdb *redis.Client, capacity int, interval, ttl time.Duration) *RedisLimiter {
	if ttl < 5*interval {
		ttl = 5 * interval
	}
	return &RedisLimiter{rdb: rdb, capacity: capacity, interval: interval, ttl: ttl}
}

func (l *RedisLimiter) Take(ctx context.Context, key string) (Decision, error) {
	vals, err := tokenBucketScript.Run(ctx, l.rdb, []string{"rl:" + key},
		time.Now().UnixMilli(),
		l.capacity,
		l.interval.Milliseconds(),
		int64(math.Ceil(l.ttl.Seconds())),
	).Int64Slice()
	if err != nil {
		return Decision{}, err
	}
	if len(vals) != 3 {
		return Decision{}, fmt.Errorf("unexpected rate limit script result: %v", vals)
	}
	return Decision{
		Allowed:    vals[0] == 1,
		Remaining:  vals[1],
		RetryAfter: time.Duration(vals[2]) * time.Millisecond,
	}, nil
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// LocalLimiter keeps one rate.Limiter per key in memory. Idle keys are
// evicted after ttl.
type LocalLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	capacity  int
	interval  time.Duration
	ttl       time.Duration
	lastSweep time.Time
}

func NewLocalLimiter(capacity int, interval, ttl time.Duration) *LocalLimiter {
	return &LocalLimiter{
		visitors: make(map[string]*visitor),
		capacity: capacity,
		interval: interval,
		ttl:      ttl,
	}
}

func (l *LocalLimiter) Take(_ context.Context, key string) (Decision, error) {
	now := time.Now()

	l.mu.Lock()
	defer l.mu.Unlock()

	if now.Sub(l.lastSweep) > l.ttl {
		for k, v := range l.visitors {
			if now.Sub(v.lastSeen) > l.ttl {
				delete(l.visitors, k)
			}
		}
		l.lastSweep = now
	}

	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(rate.Every(l.interval), l.capacity)}
		l.visitors[key] = v
	}
	v.lastSeen = now

	if v.limiter.AllowN(now, 1) {
		return Decision{Allowed: true, Remaining: int64(v.limiter.TokensAt(now))}, nil
	}
	missing := 1 - v.limiter.TokensAt(now)
	return Decision{
		Allowed:    false,
		RetryAfter: time.Duration(missing * float64(l.interval)),
	}, nil
}

// RateLimit rejects clients that exhausted their bucket with 429. Limiter
// errors let the request through.
func RateLimit(limiter Limiter, capacity int, logger *slog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := c.ClientIP() + ":" + c.FullPath()
		d, err := limiter.Take(c.Request.Context(), key)
		if err != nil {
			logger.Warn("rate_limit_unavailable", "key", key, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(capacity))
		c.Header("X-RateLimit-Remaining", strconv.FormatInt(d.Remaining, 10))

		if !d.Allowed {
			secs := int(math.Ceil(d.RetryAfter.Seconds()))
			if secs < 1 {
				secs = 1
			}
			c.Header("Retry-After", strconv.Itoa(secs))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many requests. Please try again later.",
				"kind":        "rate_limited",
				"retry_after": secs,
			})
			return
		}
		c.Next()
	}
}
