package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/yungbote/roastmycode-backend/internal/domain/roast"
	"github.com/yungbote/roastmycode-backend/internal/inference/engine"
	"github.com/yungbote/roastmycode-backend/internal/inference/router"
	"github.com/yungbote/roastmycode-backend/internal/observability"
	"github.com/yungbote/roastmycode-backend/internal/platform/ctxutil"
	"github.com/yungbote/roastmycode-backend/internal/platform/logger"
	"github.com/yungbote/roastmycode-backend/internal/prompts"
)

// Gateway sends one composed prompt upstream and returns the raw completion.
// It never retries; every failure comes back as a *roast.Error.
type Gateway interface {
	Complete(ctx context.Context, req prompts.Request) (string, error)
}

type RouteSource interface {
	RouteForMode(mode string) (router.Route, bool)
}

type gateway struct {
	log     *logger.Logger
	routes  RouteSource
	metrics *observability.Metrics
}

func NewGateway(log *logger.Logger, routes RouteSource, metrics *observability.Metrics) Gateway {
	if log == nil {
		log = logger.NewNop()
	}
	return &gateway{
		log:     log.With("service", "Gateway"),
		routes:  routes,
		metrics: metrics,
	}
}

func (g *gateway) Complete(ctx context.Context, req prompts.Request) (string, error) {
	route, ok := g.routes.RouteForMode(req.Mode)
	if !ok || route.Engine == nil {
		g.log.Error("AI gateway not configured", "mode", req.Mode)
		g.metrics.ObserveUpstream(req.Mode, string(roast.KindNotConfigured), 0)
		return "", roast.NewError(roast.KindNotConfigured, fmt.Errorf("no engine for mode %q", req.Mode))
	}

	ctx, span := observability.Tracer().Start(ctx, "gateway.complete", trace.WithAttributes(
		attribute.String("roast.mode", route.Mode),
		attribute.String("roast.engine", route.EngineName),
		attribute.String("roast.model", route.UpstreamModel),
	))
	defer span.End()

	g.metrics.UpstreamInflightInc()
	start := time.Now()
	text, err := route.Engine.GenerateText(ctx, route.UpstreamModel, req.Messages, engine.GenerateOptions{
		Temperature: route.Temperature,
		MaxTokens:   route.MaxTokens,
		JSONObject:  route.JSONObject,
	})
	dur := time.Since(start)
	g.metrics.UpstreamInflightDec()

	if err == nil && strings.TrimSpace(text) == "" {
		err = engine.ErrEmptyCompletion
	}
	if err != nil {
		classified := classify(err)
		kind := roast.KindOf(classified)
		fields := append([]interface{}{
			"mode", route.Mode,
			"engine", route.EngineName,
			"status", engine.StatusOf(err),
			"kind", kind,
			"duration_ms", dur.Milliseconds(),
			"error", err,
		}, ctxutil.LogFields(ctx)...)
		var se engine.StatusError
		if errors.As(err, &se) {
			fields = append(fields, "body", se.Snippet())
		}
		g.log.Error("AI gateway error", fields...)
		g.metrics.ObserveUpstream(route.Mode, string(kind), dur)
		span.RecordError(err)
		span.SetStatus(codes.Error, string(kind))
		return "", classified
	}

	span.SetAttributes(attribute.Int("roast.completion_bytes", len(text)))
	g.metrics.ObserveUpstream(route.Mode, "ok", dur)
	return text, nil
}

// classify maps an engine failure onto the user-visible taxonomy.
func classify(err error) error {
	if errors.Is(err, engine.ErrEmptyCompletion) {
		return roast.NewError(roast.KindEmptyResponse, err)
	}
	switch engine.StatusOf(err) {
	case http.StatusTooManyRequests:
		return roast.NewError(roast.KindRateLimited, err)
	case http.StatusPaymentRequired:
		return roast.NewError(roast.KindQuotaExceeded, err)
	default:
		return roast.NewError(roast.KindUpstreamUnavailable, err)
	}
}
