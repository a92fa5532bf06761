package app

import (
	"context"
	"fmt"
	"io"

	"github.com/yungbote/roastmycode-backend/internal/http"
	"github.com/yungbote/roastmycode-backend/internal/observability"
	"github.com/yungbote/roastmycode-backend/internal/platform/envutil"
	"github.com/yungbote/roastmycode-backend/internal/platform/logger"
	"github.com/yungbote/roastmycode-backend/internal/storage/kv"
)

const serviceName = "roastmycode"

type App struct {
	Log      *logger.Logger
	Cfg      Config
	Store    kv.Store
	Services Services
	Server   *http.Server
	Metrics  *observability.Metrics

	storeCloser  io.Closer
	otelShutdown func(context.Context) error
}

func New(ctx context.Context) (*App, error) {
	envErr := LoadEnvFile()
	log, err := logger.New(envutil.String("LOG_MODE", "development"))
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	if envErr != nil {
		log.Warn("could not load .env", "error", envErr)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: serviceName,
		Environment: cfg.Environment,
		Version:     cfg.Version,
	})
	metrics := observability.Init(log)

	store, closer, err := kv.Open(ctx, cfg.KV, log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init kv store: %w", err)
	}

	serviceset, err := wireServices(ctx, log, cfg, store, metrics)
	if err != nil {
		_ = closer.Close()
		log.Sync()
		return nil, err
	}
	handlerset := wireHandlers(log, serviceset, store, metrics)
	server := wireServer(log, cfg, handlerset, metrics)

	return &App{
		Log:          log,
		Cfg:          cfg,
		Store:        store,
		Services:     serviceset,
		Server:       server,
		Metrics:      metrics,
		storeCloser:  closer,
		otelShutdown: otelShutdown,
	}, nil
}

// Run serves HTTP until ctx is cancelled. A separate metrics listener is
// started when METRICS_ADDR is set.
func (a *App) Run(ctx context.Context) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	a.Metrics.StartServer(ctx, a.Log, a.Cfg.MetricsAddr)
	a.Log.Info("HTTP server listening", "addr", a.Cfg.HTTPAddr, "kv_backend", a.Cfg.KV.Backend)
	return a.Server.Run(ctx)
}

func (a *App) Close(ctx context.Context) {
	if a == nil {
		return
	}
	if a.otelShutdown != nil {
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
	}
	if a.storeCloser != nil {
		if err := a.storeCloser.Close(); err != nil {
			a.Log.Warn("kv close failed", "error", err)
		}
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
