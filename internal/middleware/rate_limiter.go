package middleware

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

// RateLimiterConfig holds fixed-window rate limiter settings.
type RateLimiterConfig struct {
	Max    int           // Maximum requests per window
	Window time.Duration // Window length
}

// LoginRateLimiterConfig limits credential guessing: 10 attempts per source
// IP in a 15 minute window.
func LoginRateLimiterConfig() *RateLimiterConfig {
	return &RateLimiterConfig{
		Max:    10,
		Window: 15 * time.Minute,
	}
}

// RateLimiterMiddleware implements a fixed-window counter in Redis, keyed by
// client IP. Over-limit requests are rejected before the handler (and the
// data store) is ever touched.
func RateLimiterMiddleware(redisClient *redis.Client, config *RateLimiterConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()
		key := LoginRateLimiterKey(c.ClientIP())

		count, err := redisClient.Incr(ctx, key).Result()
		if err != nil {
			logrus.WithError(err).Error("Failed to update rate limiter counter")
			// Fail open: allow request if Redis fails
			c.Next()
			return
		}

		if count == 1 {
			// First hit in this window, start the clock
			if err := redisClient.Expire(ctx, key, config.Window).Err(); err != nil {
				logrus.WithError(err).Error("Failed to set rate limiter window")
			}
		}

		if count > int64(config.Max) {
			c.JSON(http.StatusTooManyRequests, gin.H{
				"error": "Too many attempts. Try again in a few minutes.",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

// Build rate limiter key for a client IP
func LoginRateLimiterKey(ip string) string {
	return fmt.Sprintf("login_attempts:ip:%s", ip)
}
