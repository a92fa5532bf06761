package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/yungbote/roastmycode-backend/internal/platform/logger"
	"github.com/yungbote/roastmycode-backend/internal/storage/kv"
)

// Migrate opens the configured SQL backend, which creates or updates the
// kv table, and closes it again.
func Migrate(ctx context.Context, log *logger.Logger, cfg Config) error {
	backend := strings.ToLower(strings.TrimSpace(cfg.KV.Backend))
	if backend != "postgres" && backend != "sqlite" {
		return fmt.Errorf("migrate: KV_BACKEND %q has no schema", cfg.KV.Backend)
	}
	_, closer, err := kv.Open(ctx, cfg.KV, log)
	if err != nil {
		return err
	}
	log.Info("kv schema up to date", "backend", backend)
	return closer.Close()
}
