package middleware

import (
	"net/http"
	"strconv"
	"time"

	ratelimit "github.com/JGLTechnologies/gin-rate-limit"
	"github.com/gin-gonic/gin"

	"github.com/yungbote/roastmycode-backend/internal/domain/roast"
)

// RateLimit caps upstream-bound requests per client IP per window. A limit of
// zero disables it. The session client id is not a usable key: a cookieless
// request gets a fresh one and X-Client-Id is caller-chosen. ClientIP only
// honors forwarding headers from the engine's trusted proxies.
func RateLimit(limit uint, window time.Duration) gin.HandlerFunc {
	if limit == 0 {
		return func(c *gin.Context) { c.Next() }
	}
	if window <= 0 {
		window = time.Minute
	}
	store := ratelimit.InMemoryStore(&ratelimit.InMemoryOptions{
		Rate:  window,
		Limit: limit,
	})
	return ratelimit.RateLimiter(store, &ratelimit.Options{
		ErrorHandler: func(c *gin.Context, info ratelimit.Info) {
			c.Header("Retry-After", strconv.Itoa(max(1, int(time.Until(info.ResetTime).Seconds()))))
			c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"error": roast.KindRateLimited.UserMessage()})
		},
		KeyFunc: func(c *gin.Context) string {
			return c.ClientIP()
		},
	})
}
