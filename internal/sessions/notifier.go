package sessions

import (
	"context"

	"github.com/yungbote/roastmycode-backend/internal/platform/ctxutil"
	"github.com/yungbote/roastmycode-backend/internal/platform/logger"
	"github.com/yungbote/roastmycode-backend/internal/progress"
)

// logNotifier stands in for the browser's notification sound: the server
// side effect of a finished roast is a log line.
type logNotifier struct {
	log *logger.Logger
}

func (n logNotifier) RoastReady(ctx context.Context, entry progress.HistoryEntry) {
	n.log.Info("roast ready", append([]interface{}{"history_id", entry.ID, "language", entry.Language}, ctxutil.LogFields(ctx)...)...)
}
