package middleware

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/nocturnelux/storefront/utils"
	"github.com/redis/go-redis/v9"
)

// RateLimiter counts requests per client in fixed windows stored in Redis.
type RateLimiter struct {
	client *redis.Client
	prefix string
	limit  int
	window time.Duration
}

// NewRateLimiter returns nil, which allows everything, when client is nil or limit is not positive.
func NewRateLimiter(client *redis.Client, prefix string, limit int, window time.Duration) *RateLimiter {
	if client == nil || limit <= 0 {
		return nil
	}
	return &RateLimiter{client: client, prefix: prefix, limit: limit, window: window}
}

// Allow records one request for key and reports whether it is within the limit.
func (l *RateLimiter) Allow(ctx context.Context, key string) (allowed bool, remaining int, err error) {
	if l == nil {
		return true, -1, nil
	}
	bucket := time.Now().UnixNano() / int64(l.window)
	redisKey := fmt.Sprintf("%s%s:%d", l.prefix, key, bucket)

	pipe := l.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	pipe.Expire(ctx, redisKey, l.window)
	if _, err := pipe.Exec(ctx); err != nil {
		return true, -1, fmt.Errorf("rate limit: %w", err)
	}
	count := int(incr.Val())
	if count > l.limit {
		return false, 0, nil
	}
	return true, l.limit - count, nil
}

// RateLimitMiddleware limits each client IP per route. Redis errors let the
// request through.
func RateLimitMiddleware(l *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if l == nil {
			c.Next()
			return
		}
		key := c.FullPath() + ":" + c.ClientIP()
		allowed, remaining, err := l.Allow(c.Request.Context(), key)
		if err != nil {
			utils.LogError("Rate limiter unavailable: %v", err)
			c.Next()
			return
		}
		c.Header("X-RateLimit-Limit", strconv.Itoa(l.limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(remaining))
		if !allowed {
			utils.LogInfo("Rate limit exceeded for %s", key)
			utils.TooManyRequests(c, "Too many requests, please try again later")
			return
		}
		c.Next()
	}
}
