package middleware

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// RateLimitResult is the outcome of one Allow call.
type RateLimitResult struct {
	Allowed   bool
	Remaining int
	ResetAt   time.Time
}

// RateLimiter decides whether key may make another request.
type RateLimiter interface {
	Allow(ctx context.Context, key string) (RateLimitResult, error)
}

// MemoryRateLimiter keeps a sliding window of request timestamps per key.
type MemoryRateLimiter struct {
	limit  int
	window time.Duration
	now    func() time.Time

	mu        sync.Mutex
	requests  map[string][]time.Time
	lastSweep time.Time
}

// NewMemoryRateLimiter allows limit requests per window per key.
func NewMemoryRateLimiter(limit int, window time.Duration) *MemoryRateLimiter {
	return &MemoryRateLimiter{
		limit:    limit,
		window:   window,
		now:      time.Now,
		requests: make(map[string][]time.Time),
	}
}

func (m *MemoryRateLimiter) Allow(_ context.Context, key string) (RateLimitResult, error) {
	now := m.now()
	windowStart := now.Add(-m.window)

	m.mu.Lock()
	defer m.mu.Unlock()

	if now.Sub(m.lastSweep) >= m.window {
		m.sweep(windowStart)
		m.lastSweep = now
	}

	// Clean old requests outside the window
	valid := m.requests[key][:0]
	for _, ts := range m.requests[key] {
		if ts.After(windowStart) {
			valid = append(valid, ts)
		}
	}

	resetAt := now.Add(m.window)
	if len(valid) > 0 {
		resetAt = valid[0].Add(m.window)
	}

	if len(valid) >= m.limit {
		m.requests[key] = valid
		return RateLimitResult{Allowed: false, Remaining: 0, ResetAt: resetAt}, nil
	}

	valid = append(valid, now)
	m.requests[key] = valid
	return RateLimitResult{Allowed: true, Remaining: m.limit - len(valid), ResetAt: resetAt}, nil
}

// sweep drops keys with no request inside the window.
func (m *MemoryRateLimiter) sweep(windowStart time.Time) {
	for key, ts := range m.requests {
		if len(ts) == 0 || !ts[len(ts)-1].After(windowStart) {
			delete(m.requests, key)
		}
	}
}

// Keys returns how many clients are currently tracked.
func (m *MemoryRateLimiter) Keys() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.requests)
}

// RedisRateLimiter counts requests in fixed windows shared by every
// instance of the service.
type RedisRateLimiter struct {
	client redis.UniversalClient
	limit  int
	window time.Duration
	now    func() time.Time
}

// NewRedisRateLimiter allows limit requests per window per key.
func NewRedisRateLimiter(client redis.UniversalClient, limit int, window time.Duration) *RedisRateLimiter {
	return &RedisRateLimiter{client: client, limit: limit, window: window, now: time.Now}
}

func (r *RedisRateLimiter) Allow(ctx context.Context, key string) (RateLimitResult, error) {
	now := r.now()
	slot := now.UnixNano() / int64(r.window)
	windowKey := fmt.Sprintf("ratelimit:fixed:%s:%d", key, slot)
	resetAt := time.Unix(0, (slot+1)*int64(r.window))

	pipe := r.client.TxPipeline()
	incr := pipe.Incr(ctx, windowKey)
	pipe.ExpireNX(ctx, windowKey, r.window+time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		return RateLimitResult{}, err
	}

	count := int(incr.Val())
	if count > r.limit {
		return RateLimitResult{Allowed: false, Remaining: 0, ResetAt: resetAt}, nil
	}
	return RateLimitResult{Allowed: true, Remaining: r.limit - count, ResetAt: resetAt}, nil
}

// RateLimit limits requests per client IP as resolved by gin, so forwarded
// headers only count when the peer is a trusted proxy. Limiter errors let the
// request through.
func RateLimit(limiter RateLimiter, limit int, log logrus.FieldLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := limiter.Allow(c.Request.Context(), clientIP(c))
		if err != nil {
			log.WithError(err).Warn("Rate limiter unavailable, allowing request")
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "Rate limit exceeded"})
			return
		}
		c.Next()
	}
}

func clientIP(c *gin.Context) string {
	if ip := c.ClientIP(); ip != "" {
		return ip
	}
	return "unknown"
}
