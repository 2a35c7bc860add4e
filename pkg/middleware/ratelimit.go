package middleware

import (
	"net/http"
	"strconv"

	"github.com/fangzhou-tech/flipops/pkg/logger"
	"github.com/fangzhou-tech/flipops/pkg/ratelimit"
	"github.com/gin-gonic/gin"
)

// RateLimit 按客户端 IP 限流。限流器不可用时放行而不是拒绝，
// 可用性优先于严格限流。
func RateLimit(limiter ratelimit.Limiter, limit ratelimit.Limit) gin.HandlerFunc {
	return func(c *gin.Context) {
		key := "ratelimit:" + c.FullPath() + ":" + c.ClientIP()

		result, err := limiter.Allow(c.Request.Context(), key, limit)
		if err != nil {
			logger.Warn(c.Request.Context(), "rate limit check failed", "error", err)
			c.Next()
			return
		}

		if !result.Allowed {
			c.Header("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": "too many requests"})
			return
		}
		c.Next()
	}
}
