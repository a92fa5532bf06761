// Package workflow drives one client's roast session: which screen is
// active, the single in-flight submission, the quiz and the daily challenge.
package workflow

import (
	"context"
	"errors"
	"time"

	"github.com/yungbote/roastmycode-backend/internal/domain/roast"
	"github.com/yungbote/roastmycode-backend/internal/progress"
	"github.com/yungbote/roastmycode-backend/internal/quiz"
)

type State string

const (
	StateSplash  State = "splash"
	StateLanding State = "landing"
	StateEditor  State = "editor"
	StateLoading State = "loading"
	StateResults State = "results"
	StateQuiz    State = "quiz"
)

// SplashDuration is the splash display time plus its fade-out.
const SplashDuration = 2*time.Second + 500*time.Millisecond

var (
	ErrInvalidTransition = errors.New("workflow: invalid transition")
	// ErrSuperseded is returned to a submission whose response arrived after
	// the user navigated away (retry, home or back).
	ErrSuperseded = errors.New("workflow: submission superseded")
)

type Gateway interface {
	Roast(ctx context.Context, code string, lang roast.Language) (roast.Result, error)
}

type Connectivity interface {
	Online(ctx context.Context) bool
}

// Notifier receives the "roast ready" side effect after a successful submission.
type Notifier interface {
	RoastReady(ctx context.Context, entry progress.HistoryEntry)
}

type HistoryRecorder interface {
	Add(ctx context.Context, code string, lang roast.Language, result roast.Result) (progress.HistoryEntry, error)
}

type StreakRecorder interface {
	RecordQuiz(ctx context.Context, passed bool) (progress.StreakData, error)
}

type ChallengeRecorder interface {
	MarkCompleted(ctx context.Context) (progress.ChallengeState, error)
}

// AlwaysOnline is the connectivity of a server-side controller: if the
// request reached us, the client is online.
type AlwaysOnline struct{}

func (AlwaysOnline) Online(context.Context) bool { return true }

type ErrorInfo struct {
	Kind    roast.Kind `json:"kind"`
	Message string     `json:"message"`
}

type QuizReport struct {
	Outcome       quiz.Outcome             `json:"outcome"`
	Streak        progress.StreakData      `json:"streak"`
	StreakMessage string                   `json:"streakMessage,omitempty"`
	Challenge     *progress.ChallengeState `json:"challenge,omitempty"`
}

// Snapshot is a copy of the controller state safe to hand to other goroutines.
type Snapshot struct {
	State         State               `json:"state"`
	Stack         []State             `json:"stack"`
	Busy          bool                `json:"busy"`
	Code          string              `json:"code,omitempty"`
	Language      roast.Language      `json:"language,omitempty"`
	Result        *roast.Result       `json:"result,omitempty"`
	HistoryID     string              `json:"historyId,omitempty"`
	Error         *ErrorInfo          `json:"error,omitempty"`
	ChallengeMode bool                `json:"challengeMode"`
	Challenge     *progress.Challenge `json:"challenge,omitempty"`
	LastQuiz      *QuizReport         `json:"lastQuiz,omitempty"`
}
