package main

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/yungbote/roastmycode-backend/internal/client/roastclient"
	"github.com/yungbote/roastmycode-backend/internal/platform/clock"
	"github.com/yungbote/roastmycode-backend/internal/platform/envutil"
	"github.com/yungbote/roastmycode-backend/internal/progress"
	"github.com/yungbote/roastmycode-backend/internal/storage/kv"
)

var (
	apiURL    string
	statePath string
	clientID  string
)

func init() {
	for _, cmd := range []*cobra.Command{roastCmd, challengeCmd} {
		c := cmd.Flags()
		c.StringVar(&apiURL, "api", envutil.String("ROAST_API_URL", roastclient.DefaultBaseURL), "roastmycode API base URL")
		c.StringVar(&statePath, "state", envutil.String("ROAST_STATE_PATH", defaultStatePath()), "sqlite file for local history and streaks")
		c.StringVar(&clientID, "client-id", envutil.String("ROAST_CLIENT_ID", "terminal"), "client id sent to the API")
	}
}

func defaultStatePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "roastmycode-state.db"
	}
	return filepath.Join(home, ".roastmycode", "state.db")
}

// terminalEnv is what the terminal commands share: an API client and the
// progress trackers over a local sqlite store.
type terminalEnv struct {
	client   *roastclient.Client
	progress *progress.Trackers
	clock    clock.Clock
	closer   io.Closer
}

func openTerminalEnv(ctx context.Context) (*terminalEnv, error) {
	client, err := roastclient.New(roastclient.Options{BaseURL: apiURL, ClientID: clientID})
	if err != nil {
		return nil, err
	}
	store, closer, err := kv.Open(ctx, kv.Options{Backend: "sqlite", SQLitePath: statePath}, log)
	if err != nil {
		return nil, err
	}
	// Calendar days for a terminal user follow the machine's zone.
	clk := clock.System(time.Local)
	return &terminalEnv{
		client:   client,
		progress: progress.New(store, clk),
		clock:    clk,
		closer:   closer,
	}, nil
}
