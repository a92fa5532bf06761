package progress

import (
	"context"
	"time"

	"github.com/yungbote/roastmycode-backend/internal/platform/clock"
	"github.com/yungbote/roastmycode-backend/internal/storage/kv"
)

const StreakKey = "roast_escape_streak"

// StreakData counts consecutive passed quizzes. It has no calendar logic.
type StreakData struct {
	CurrentStreak int       `json:"currentStreak"`
	BestStreak    int       `json:"bestStreak"`
	TotalCorrect  int       `json:"totalCorrect"`
	LastUpdated   time.Time `json:"lastUpdated"`
}

type StreakTracker struct {
	store kv.Store
	clock clock.Clock
}

func NewStreakTracker(store kv.Store, clk clock.Clock) *StreakTracker {
	return &StreakTracker{store: store, clock: clk}
}

func (t *StreakTracker) Get(ctx context.Context) (StreakData, error) {
	d, _, err := kv.GetJSON[StreakData](ctx, t.store, StreakKey)
	return d, err
}

// RecordQuiz bumps the streak on a pass and resets it on a fail.
func (t *StreakTracker) RecordQuiz(ctx context.Context, passed bool) (StreakData, error) {
	now := t.clock.Now()
	return kv.UpdateJSON(ctx, t.store, StreakKey, func(d *StreakData) error {
		if passed {
			d.CurrentStreak++
			d.BestStreak = max(d.BestStreak, d.CurrentStreak)
			d.TotalCorrect++
		} else {
			d.CurrentStreak = 0
		}
		d.LastUpdated = now
		return nil
	})
}

func StreakMessage(streak int) string {
	switch {
	case streak >= 10:
		return "🔥🔥🔥 LEGEND! 10 roasts survive kar liye!"
	case streak >= 7:
		return "🔥🔥 Bhai tu toh pro hai! 7 streak!"
	case streak >= 5:
		return "🔥 Badiya! 5 mistakes fix without repeat!"
	case streak >= 3:
		return "👏 3 consecutive wins! Keep going!"
	case streak >= 1:
		return "💪 Streak shuru ho gayi!"
	default:
		return ""
	}
}
