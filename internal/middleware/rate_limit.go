package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/contactbook/contactbook/pkg/logger"
	"github.com/contactbook/contactbook/pkg/redis"
)

// RateLimit enforces a fixed window of maxRequest calls per window for
// each caller on each route, counted in Redis so all instances share the
// window. Callers are keyed by authenticated user id when available,
// client IP otherwise. Redis failures fail open: limiting is an
// optimization and must not take down the endpoint.
func RateLimit(client redis.Client, maxRequest int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity := c.ClientIP()
		if userID, ok := UserID(c); ok {
			identity = fmt.Sprintf("u%d", userID)
		}

		key := fmt.Sprintf("ratelimit:%s:%s:%s", identity, c.Request.Method, c.FullPath())
		ctx := c.Request.Context()

		count, err := client.Incr(ctx, key)
		if err != nil {
			logger.GetLogger().Warn("Rate limiter unavailable, allowing request",
				zap.String("key", key),
				zap.Error(err))
			c.Next()
			return
		}

		if count == 1 {
			if err := client.Expire(ctx, key, window); err != nil {
				logger.GetLogger().Warn("Failed to set rate limit window",
					zap.String("key", key),
					zap.Error(err))
			}
		}

		if count > int64(maxRequest) {
			logger.GetLogger().Warn("Rate limit exceeded",
				zap.String("identity", identity),
				zap.String("method", c.Request.Method),
				zap.String("path", c.Request.URL.Path),
				zap.Int64("current_requests", count),
				zap.Int("max_requests", maxRequest))

			c.Header("Retry-After", fmt.Sprintf("%d", int(window.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Rate limit exceeded",
				"retry_after": window.Seconds(),
			})
			return
		}

		remaining := int64(maxRequest) - count
		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", maxRequest))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", remaining))

		c.Next()
	}
}
