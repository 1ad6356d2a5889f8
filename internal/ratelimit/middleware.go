package ratelimit

import (
	"log/slog"
	"math"
	"strconv"

	"github.com/gin-gonic/gin"

	apperrors "github.com/ZanzyTHEbar/github-activity-tracker/internal/errors"
)

// LimitedHandler writes the response for a request refused by the limiter
type LimitedHandler func(c *gin.Context, appErr *apperrors.AppError)

// JSONLimited renders the refusal as the structured JSON error body
func JSONLimited(c *gin.Context, appErr *apperrors.AppError) {
	c.AbortWithStatusJSON(appErr.HTTPStatus, appErr)
}

// AnalysisRateLimitMiddleware limits how many analysis runs each client IP
// may start per minute. Mount it on the analyze routes only.
func (rl *RateLimiter) AnalysisRateLimitMiddleware(onLimited LimitedHandler) gin.HandlerFunc {
	if onLimited == nil {
		onLimited = JSONLimited
	}

	return func(c *gin.Context) {
		ip := c.ClientIP()

		result, err := rl.AllowAnalysis(c.Request.Context(), ip)
		if err != nil {
			slog.Error("Rate limit check failed", "ip", ip, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", strconv.Itoa(result.Limit))
		c.Header("X-RateLimit-Remaining", strconv.Itoa(result.Remaining))
		c.Header("X-RateLimit-Reset", strconv.FormatInt(result.ResetAt.Unix(), 10))

		if !result.Allowed {
			if rl.metrics != nil {
				rl.metrics.IncrementRateLimitIPBlock()
			}

			retryAfter := strconv.Itoa(int(math.Ceil(result.RetryAfter.Seconds())))
			c.Header("Retry-After", retryAfter)

			appErr := apperrors.NewRateLimitError(retryAfter)
			apperrors.LogError(c, appErr)
			onLimited(c, appErr)
			c.Abort()
			return
		}

		c.Next()
	}
}
