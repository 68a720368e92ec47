package middleware

import (
	"strconv"
	"sync"
	"time"

	"charity_marketplace_backend/internal/common"

	"github.com/gin-gonic/gin"
	"github.com/patrickmn/go-cache"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

// IPRateLimiter hands out one token bucket per client IP. Idle buckets expire
// from the cache after evictTTL.
type IPRateLimiter struct {
	mu       sync.Mutex
	limiters *cache.Cache
	r        rate.Limit
	burst    int
	evictTTL time.Duration
}

// NewIPRateLimiter allows perMinute requests per IP with the given burst.
func NewIPRateLimiter(perMinute, burst int, evictTTL time.Duration) *IPRateLimiter {
	if burst <= 0 {
		burst = 1
	}
	return &IPRateLimiter{
		limiters: cache.New(evictTTL, evictTTL),
		r:        rate.Limit(float64(perMinute) / 60.0),
		burst:    burst,
		evictTTL: evictTTL,
	}
}

// Allow reports whether the given IP is within its rate limit.
func (rl *IPRateLimiter) Allow(ip string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	var l *rate.Limiter
	if v, ok := rl.limiters.Get(ip); ok {
		l = v.(*rate.Limiter)
	} else {
		l = rate.NewLimiter(rl.r, rl.burst)
	}
	// Refresh the idle timer on every hit.
	rl.limiters.Set(ip, l, rl.evictTTL)
	return l.Allow()
}

// RateLimit rejects requests from an IP that exhausted its bucket with 429.
func RateLimit(rl *IPRateLimiter, logger *zap.Logger) gin.HandlerFunc {
	retryAfter := strconv.Itoa(int(time.Minute.Seconds()))
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !rl.Allow(ip) {
			logger.Warn("Rate limit exceeded", zap.String("ip", ip), zap.String("path", c.Request.URL.Path))
			c.Header("Retry-After", retryAfter)
			common.RespondWithError(c, common.ErrTooManyRequests)
			return
		}
		c.Next()
	}
}
