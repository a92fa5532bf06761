package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/roastmycode-backend/internal/observability"
	"github.com/yungbote/roastmycode-backend/internal/platform/logger"
	"github.com/yungbote/roastmycode-backend/internal/storage/kv"
)

type HealthHandler struct {
	log     *logger.Logger
	pinger  kv.Pinger
	metrics *observability.Metrics
}

// NewHealthHandler takes the store's pinger; nil means the store is local
// and always ready.
func NewHealthHandler(log *logger.Logger, pinger kv.Pinger, metrics *observability.Metrics) *HealthHandler {
	if log == nil {
		log = logger.NewNop()
	}
	return &HealthHandler{log: log.With("handler", "HealthHandler"), pinger: pinger, metrics: metrics}
}

// GET /healthz
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	c.String(http.StatusOK, "ok")
}

// GET /readyz
func (h *HealthHandler) Ready(c *gin.Context) {
	if h.pinger == nil {
		h.metrics.SetKVUp(true)
		c.String(http.StatusOK, "ok")
		return
	}
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()
	if err := h.pinger.Ping(ctx); err != nil {
		h.metrics.SetKVUp(false)
		h.log.Warn("kv ping failed", "error", err)
		c.String(http.StatusServiceUnavailable, "kv unavailable")
		return
	}
	h.metrics.SetKVUp(true)
	c.String(http.StatusOK, "ok")
}
