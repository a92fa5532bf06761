package app

import (
	httpH "github.com/yungbote/roastmycode-backend/internal/http/handlers"
	"github.com/yungbote/roastmycode-backend/internal/observability"
	"github.com/yungbote/roastmycode-backend/internal/platform/logger"
	"github.com/yungbote/roastmycode-backend/internal/storage/kv"
)

type Handlers struct {
	Health   *httpH.HealthHandler
	Roast    *httpH.RoastHandler
	Session  *httpH.SessionHandler
	Progress *httpH.ProgressHandler
	Share    *httpH.ShareHandler
}

func wireHandlers(log *logger.Logger, services Services, store kv.Store, metrics *observability.Metrics) Handlers {
	log.Info("Wiring handlers...")
	pinger, _ := store.(kv.Pinger)
	return Handlers{
		Health:   httpH.NewHealthHandler(log, pinger, metrics),
		Roast:    httpH.NewRoastHandler(services.Roast),
		Session:  httpH.NewSessionHandler(services.Sessions),
		Progress: httpH.NewProgressHandler(services.Sessions, services.Clock),
		Share:    httpH.NewShareHandler(log, services.Sessions, services.Shares),
	}
}
