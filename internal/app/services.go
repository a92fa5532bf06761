package app

import (
	"context"
	"fmt"

	"github.com/yungbote/roastmycode-backend/internal/inference/config"
	"github.com/yungbote/roastmycode-backend/internal/inference/router"
	"github.com/yungbote/roastmycode-backend/internal/observability"
	"github.com/yungbote/roastmycode-backend/internal/platform/clock"
	"github.com/yungbote/roastmycode-backend/internal/platform/logger"
	"github.com/yungbote/roastmycode-backend/internal/services"
	"github.com/yungbote/roastmycode-backend/internal/sessions"
	"github.com/yungbote/roastmycode-backend/internal/storage/kv"
	"github.com/yungbote/roastmycode-backend/internal/storage/objectstore"
)

type Services struct {
	Roast    services.RoastService
	Sessions *sessions.Manager
	Shares   objectstore.Store
	Clock    clock.Clock
}

func wireServices(ctx context.Context, log *logger.Logger, cfg Config, store kv.Store, metrics *observability.Metrics) (Services, error) {
	log.Info("Wiring services...")

	inferenceCfg, err := config.Load()
	if err != nil {
		return Services{}, fmt.Errorf("load inference config: %w", err)
	}
	routes, err := router.New(ctx, inferenceCfg, log)
	if err != nil {
		return Services{}, fmt.Errorf("build inference router: %w", err)
	}
	gateway := services.NewGateway(log, routes, metrics)
	roastService := services.NewRoastService(log, gateway, cfg.AIMaxInflight)

	clk := clock.System(cfg.Location)
	manager, err := sessions.NewManager(log, store, clk, roastService, metrics, cfg.SessionCacheSize)
	if err != nil {
		return Services{}, fmt.Errorf("init session manager: %w", err)
	}

	shares, err := resolveShareStore(log, cfg)
	if err != nil {
		return Services{}, err
	}

	return Services{
		Roast:    roastService,
		Sessions: manager,
		Shares:   shares,
		Clock:    clk,
	}, nil
}
