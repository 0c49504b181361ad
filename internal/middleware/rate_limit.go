// file: internal/middleware/rate_limit.go
package middleware

import (
	"context"
	"ecotrack/internal/cache"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// RateLimiter decides whether a caller identified by key may proceed
type RateLimiter interface {
	Allow(ctx context.Context, key string) (bool, int, error)
	Limit() int
}

// cacheRateLimiter counts requests per fixed window in the shared cache, so
// limits hold across instances when Redis backs the cache
type cacheRateLimiter struct {
	cache  cache.Cache
	limit  int
	window time.Duration
}

// NewCacheRateLimiter creates a fixed-window limiter allowing limit requests
// per window
func NewCacheRateLimiter(c cache.Cache, limit int, window time.Duration) RateLimiter {
	if limit <= 0 {
		limit = 120
	}
	if window <= 0 {
		window = time.Minute
	}
	return &cacheRateLimiter{
		cache:  c,
		limit:  limit,
		window: window,
	}
}

func (l *cacheRateLimiter) Limit() int {
	return l.limit
}

func (l *cacheRateLimiter) Allow(ctx context.Context, key string) (bool, int, error) {
	bucket := time.Now().Unix() / int64(l.window.Seconds())
	cacheKey := fmt.Sprintf("ratelimit:%s:%d", key, bucket)

	count, err := l.cache.Increment(ctx, cacheKey, 1)
	if err != nil {
		return false, 0, err
	}
	if count == 1 {
		_ = l.cache.SetTTL(ctx, cacheKey, l.window)
	}

	remaining := l.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return int(count) <= l.limit, remaining, nil
}

// RateLimit applies the limiter per client IP. Limiter failures let the
// request through rather than taking the API down with the cache.
func RateLimit(limiter RateLimiter, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			allowed, remaining, err := limiter.Allow(r.Context(), getClientIP(r))
			if err != nil {
				logger.Warn("Rate limiter unavailable", zap.Error(err))
				next.ServeHTTP(w, r)
				return
			}

			w.Header().Set("X-RateLimit-Limit", strconv.Itoa(limiter.Limit()))
			w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))

			if !allowed {
				w.Header().Set("Retry-After", "60")
				writeAuthError(w, r, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
