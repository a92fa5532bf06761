// Package progress persists a client's roast history, quiz streak and daily
// challenge state in a kv.Store.
package progress

import (
	"github.com/yungbote/roastmycode-backend/internal/platform/clock"
	"github.com/yungbote/roastmycode-backend/internal/storage/kv"
)

// Trackers bundles one client's progress views over a single store.
type Trackers struct {
	History    *History
	Streak     *StreakTracker
	Challenges *ChallengeTracker
}

func New(store kv.Store, clk clock.Clock) *Trackers {
	return &Trackers{
		History:    NewHistory(store, clk),
		Streak:     NewStreakTracker(store, clk),
		Challenges: NewChallengeTracker(store, clk),
	}
}

// ForClient scopes the trackers to clientID's keys in a shared store.
func ForClient(store kv.Store, clientID string, clk clock.Clock) *Trackers {
	return New(kv.Namespace(store, kv.ClientPrefix(clientID)), clk)
}
