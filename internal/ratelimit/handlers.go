package ratelimit

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// HandleRateLimitStatus reports the analysis limit that applies to the caller
func (rl *RateLimiter) HandleRateLimitStatus() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"ip": c.ClientIP(),
			"limits": gin.H{
				"analyses_per_minute": gin.H{
					"limit":  rl.config.AnalysesPerMin,
					"period": "1 minute",
				},
			},
			"backend":   rl.GetStats(),
			"timestamp": time.Now().Format(time.RFC3339),
		})
	}
}
