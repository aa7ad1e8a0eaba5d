package middleware

import (
	"math"
	"strconv"
	"time"

	"wedding_backend/internal/logger"
	"wedding_backend/internal/ratelimit"
	"wedding_backend/pkg/apperrors"

	"github.com/gin-gonic/gin"
)

// RateLimitByIP ограничивает запросы с одного IP в рамках scope
func RateLimitByIP(store ratelimit.Store, scope string, limit int, window time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 {
			c.Next()
			return
		}

		key := scope + ":" + c.ClientIP()
		allowed, retryAfter := store.Allow(key, limit, window)
		if !allowed {
			logger.CtxWarn(c.Request.Context(), "rate limit exceeded", "scope", scope, "ip", c.ClientIP())
			c.Header("Retry-After", strconv.Itoa(int(math.Ceil(retryAfter.Seconds()))))
			apperrors.HandleError(c, apperrors.ErrRateLimited)
			c.Abort()
			return
		}
		c.Next()
	}
}
