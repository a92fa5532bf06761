package middleware

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/roastmycode-backend/internal/domain/roast"
	"github.com/yungbote/roastmycode-backend/internal/platform/ctxutil"
	"github.com/yungbote/roastmycode-backend/internal/platform/logger"
)

// healthRoutes are polled by orchestrators and only logged at debug level.
var healthRoutes = map[string]bool{
	"/healthz": true,
	"/readyz":  true,
	"/metrics": true,
}

func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		if log == nil {
			return
		}

		status := c.Writer.Status()
		route := routeLabel(c)
		fields := []interface{}{
			"method", c.Request.Method,
			"route", route,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
		}
		fields = append(fields, ctxutil.LogFields(c.Request.Context())...)
		if err := c.Errors.Last(); err != nil {
			var re *roast.Error
			if errors.As(err.Err, &re) {
				fields = append(fields, "error_kind", string(re.Kind))
			}
			fields = append(fields, "error", err.Error())
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		case healthRoutes[route]:
			log.Debug("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

// routeLabel keeps unmatched paths out of logs and metric labels.
func routeLabel(c *gin.Context) string {
	if p := c.FullPath(); p != "" {
		return p
	}
	return "unmatched"
}
