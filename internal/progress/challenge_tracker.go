package progress

import (
	"context"
	"time"

	"github.com/yungbote/roastmycode-backend/internal/platform/clock"
	"github.com/yungbote/roastmycode-backend/internal/storage/kv"
)

const ChallengeStateKey = "daily_challenge_state"

type ChallengeState struct {
	CompletedToday    bool    `json:"completedToday"`
	LastCompletedDate *string `json:"lastCompletedDate"`
	TotalCompleted    int     `json:"totalCompleted"`
	CurrentStreak     int     `json:"currentStreak"`
}

type ChallengeTracker struct {
	store kv.Store
	clock clock.Clock
}

func NewChallengeTracker(store kv.Store, clk clock.Clock) *ChallengeTracker {
	return &ChallengeTracker{store: store, clock: clk}
}

// State returns the persisted state as seen today: completedToday is
// recomputed and a streak whose last completion is older than yesterday
// reads as 0.
func (t *ChallengeTracker) State(ctx context.Context) (ChallengeState, error) {
	s, _, err := kv.GetJSON[ChallengeState](ctx, t.store, ChallengeStateKey)
	if err != nil {
		return ChallengeState{}, err
	}
	return normalize(s, t.clock.Now()), nil
}

// MarkCompleted records today's completion. Completing again on the same
// day changes nothing.
func (t *ChallengeTracker) MarkCompleted(ctx context.Context) (ChallengeState, error) {
	now := t.clock.Now()
	today, yesterday := dates(now)
	return kv.UpdateJSON(ctx, t.store, ChallengeStateKey, func(s *ChallengeState) error {
		cur := normalize(*s, now)
		if cur.LastCompletedDate != nil && *cur.LastCompletedDate == today {
			*s = cur
			return nil
		}
		streak := 1
		if (cur.LastCompletedDate != nil && *cur.LastCompletedDate == yesterday) || cur.CurrentStreak == 0 {
			streak = cur.CurrentStreak + 1
		}
		*s = ChallengeState{
			CompletedToday:    true,
			LastCompletedDate: &today,
			TotalCompleted:    cur.TotalCompleted + 1,
			CurrentStreak:     streak,
		}
		return nil
	})
}

func normalize(s ChallengeState, now time.Time) ChallengeState {
	today, yesterday := dates(now)
	last := ""
	if s.LastCompletedDate != nil {
		last = *s.LastCompletedDate
	}
	s.CompletedToday = last == today
	if last != today && last != yesterday {
		s.CurrentStreak = 0
	}
	return s
}

func dates(now time.Time) (today, yesterday string) {
	day := clock.Day(now)
	return clock.DateString(day), clock.DateString(day.AddDate(0, 0, -1))
}
