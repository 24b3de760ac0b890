package ratelimit

import (
	"fmt"
	"net/http"
	"time"

	"ticketly/internal/shared/middleware"
	"ticketly/internal/shared/utils/response"
	"ticketly/pkg/logger"

	"github.com/gin-gonic/gin"
)

// Middleware enforces the per-session hold-grant limit. It must run after
// the session middleware so the session id is on the context.
func Middleware(rl *RateLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		if rl == nil {
			c.Next()
			return
		}

		sessionID := middleware.SessionID(c)
		result, err := rl.Allow(c.Request.Context(), sessionID)
		if err != nil {
			// fail open, but leave a trace
			logger.GetDefault().Warn("rate limiter degraded", "error", err.Error())
		}

		c.Header("X-RateLimit-Remaining", fmt.Sprintf("%d", result.Remaining))
		if !result.Allowed {
			c.Header("Retry-After", fmt.Sprintf("%d", retryAfterSeconds(result.ResetAt, time.Now())))
			response.RespondJSON(c, "error", http.StatusTooManyRequests,
				"Too many hold requests, slow down", nil, gin.H{"reset_at": result.ResetAt})
			c.Abort()
			return
		}

		c.Next()
	}
}

// retryAfterSeconds converts the window reset time into the delta-seconds
// form the Retry-After header expects, never less than one second.
func retryAfterSeconds(resetAt, now time.Time) int {
	secs := int(resetAt.Sub(now).Seconds())
	if secs < 1 {
		return 1
	}
	return secs
}
