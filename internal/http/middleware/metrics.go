package middleware

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/roastmycode-backend/internal/observability"
)

// Metrics records request count and latency per route. Preflight requests
// are answered by CORS before reaching here.
func Metrics(m *observability.Metrics) gin.HandlerFunc {
	if m == nil {
		return func(c *gin.Context) { c.Next() }
	}
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}
		start := time.Now()
		m.APIInflightInc()
		defer m.APIInflightDec()
		c.Next()
		m.ObserveAPI(c.Request.Method, routeLabel(c), c.Writer.Status(), time.Since(start))
	}
}
