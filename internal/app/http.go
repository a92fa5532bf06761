package app

import (
	"github.com/yungbote/roastmycode-backend/internal/http"
	"github.com/yungbote/roastmycode-backend/internal/observability"
	"github.com/yungbote/roastmycode-backend/internal/platform/logger"
	"github.com/yungbote/roastmycode-backend/internal/sessions"
)

func wireServer(log *logger.Logger, cfg Config, handlers Handlers, metrics *observability.Metrics) *http.Server {
	rateLimit := uint(0)
	if cfg.RateLimit > 0 {
		rateLimit = uint(cfg.RateLimit)
	}
	return http.NewServer(http.ServerConfig{Addr: cfg.HTTPAddr}, http.RouterConfig{
		Log:            log,
		Metrics:        metrics,
		ServiceName:    serviceName,
		Production:     cfg.Production(),
		AllowedOrigins: cfg.AllowedOrigins,
		Cookie: sessions.CookieOptions{
			Secret: cfg.SessionSecret,
			Secure: cfg.Production(),
		},
		RateLimit:      rateLimit,
		RateWindow:     cfg.RateWindow,
		TrustedProxies: cfg.TrustedProxies,
		MaxBodyBytes:   cfg.MaxBodyBytes,

		RoastHandler:    handlers.Roast,
		SessionHandler:  handlers.Session,
		ProgressHandler: handlers.Progress,
		ShareHandler:    handlers.Share,
		HealthHandler:   handlers.Health,
	})
}
