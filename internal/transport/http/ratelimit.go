package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/vovakirdan/left4translate/internal/core"
	"github.com/vovakirdan/left4translate/internal/ratelimit"
)

func newTranscriptLimiter(perMinute int) *ratelimit.Limiter {
	return ratelimit.New(perMinute)
}

// RateLimitMiddleware rejects requests with 429 once the limiter is empty.
// A nil limiter lets everything through.
func RateLimitMiddleware(limiter *ratelimit.Limiter, logger *zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limiter != nil && !limiter.Acquire() {
			logger.Warn().Str("path", c.Request.URL.Path).Msg("rate limit exceeded")
			c.AbortWithStatusJSON(http.StatusTooManyRequests, ErrorResponse{
				Error: "rate limit exceeded",
				Code:  core.ErrCodeRateLimited,
			})
			return
		}
		c.Next()
	}
}
