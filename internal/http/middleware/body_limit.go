package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// BodyLimit caps request bodies at limit bytes. A declared Content-Length
// over the cap is rejected before the handler runs; otherwise reads past the
// cap fail with *http.MaxBytesError. reject must abort the context.
func BodyLimit(limit int64, reject gin.HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit <= 0 || c.Request.Body == nil {
			c.Next()
			return
		}
		if c.Request.ContentLength > limit {
			reject(c)
			return
		}
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		c.Next()
	}
}
