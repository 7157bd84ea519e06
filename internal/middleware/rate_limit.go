package middleware

import (
	"fmt"
	"net/http"
	"time"

	"assettracker/internal/rate_limiter"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// RateLimit rejects clients over their quota with 429. When the limiter itself
// fails the request is let through.
func RateLimit(limiter rate_limiter.Limiter, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := limiter.Allow(c.Request.Context(), c.ClientIP())
		if err != nil {
			logger.Warn("Rate limiter not available, request let through", zap.Error(err))
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", fmt.Sprintf("%d", result.Limit))
		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
		c.Header("X-RateLimit-Reset", fmt.Sprintf("%d", time.Now().Add(result.ResetAfter).Unix()))

		if !result.Allowed {
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{
				"error":       "Too many requests",
				"retry_after": result.ResetAfter.Seconds(),
			})
			return
		}

		c.Next()
	}
}
