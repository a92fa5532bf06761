package workflow

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/yungbote/roastmycode-backend/internal/domain/roast"
	"github.com/yungbote/roastmycode-backend/internal/observability"
	"github.com/yungbote/roastmycode-backend/internal/platform/clock"
	"github.com/yungbote/roastmycode-backend/internal/platform/logger"
	"github.com/yungbote/roastmycode-backend/internal/progress"
	"github.com/yungbote/roastmycode-backend/internal/quiz"
)

type Deps struct {
	Gateway      Gateway
	Connectivity Connectivity
	Notifier     Notifier
	History      HistoryRecorder
	Streak       StreakRecorder
	Challenges   ChallengeRecorder
	Clock        clock.Clock
	Log          *logger.Logger
	Metrics      *observability.Metrics
}

// Controller is safe for concurrent use. The upstream call runs without the
// lock held so Snapshot, Back and Home stay responsive while loading.
type Controller struct {
	deps Deps

	mu    sync.Mutex
	state State
	stack []State

	// gen increments on every navigation that abandons a pending submission.
	gen      uint64
	inflight uint64

	code      string
	lang      roast.Language
	result    *roast.Result
	historyID string
	lastErr   *ErrorInfo
	lastQuiz  *QuizReport

	challengeMode bool
	challenge     *progress.Challenge

	// scoring is set while SubmitAnswers records the outcome.
	scoring bool
}

func NewController(deps Deps) *Controller {
	if deps.Connectivity == nil {
		deps.Connectivity = AlwaysOnline{}
	}
	if deps.Clock == nil {
		deps.Clock = clock.System(time.UTC)
	}
	if deps.Log == nil {
		deps.Log = logger.NewNop()
	}
	deps.Log = deps.Log.With("service", "WorkflowController")
	return &Controller{deps: deps, state: StateSplash}
}

// Start enters splash, or landing when the splash was already shown this
// session.
func (c *Controller) Start(splashSeen bool) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.abandonLocked()
	c.stack = nil
	c.state = StateSplash
	if splashSeen {
		c.state = StateLanding
	}
	return c.snapshotLocked()
}

func (c *Controller) DismissSplash() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateSplash {
		c.state = StateLanding
	}
	return c.snapshotLocked()
}

// SplashElapsed advances past the splash once it has been visible for
// SplashDuration. It reports whether the state changed.
func (c *Controller) SplashElapsed(d time.Duration) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateSplash || d < SplashDuration {
		return false
	}
	c.state = StateLanding
	return true
}

func (c *Controller) GetStarted() (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateLanding && c.state != StateSplash {
		return c.snapshotLocked(), ErrInvalidTransition
	}
	c.challengeMode = false
	c.challenge = nil
	if c.state == StateLanding {
		c.pushLocked(StateEditor)
	} else {
		c.state = StateEditor
	}
	return c.snapshotLocked(), nil
}

// Submit sends code upstream from the editor. Offline, validation, busy and
// wrong-screen failures leave the state untouched; upstream failures return
// to the editor.
func (c *Controller) Submit(ctx context.Context, code string, lang roast.Language) (Snapshot, error) {
	if !c.deps.Connectivity.Online(ctx) {
		err := roast.Errorf(roast.KindOffline, roast.KindOffline.UserMessage())
		return c.recordFailure(err), err
	}
	if strings.TrimSpace(code) == "" || !lang.Valid() {
		err := roast.Errorf(roast.KindInvalidRequest, roast.KindInvalidRequest.UserMessage())
		return c.recordFailure(err), err
	}

	c.mu.Lock()
	if c.inflight != 0 {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, roast.Errorf(roast.KindBusy, roast.KindBusy.UserMessage())
	}
	if c.state != StateEditor {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		return snap, ErrInvalidTransition
	}
	c.gen++
	gen := c.gen
	c.inflight = gen
	c.state = StateLoading
	c.code = code
	c.lang = lang
	c.result = nil
	c.historyID = ""
	c.lastErr = nil
	c.lastQuiz = nil
	c.mu.Unlock()

	res, err := c.deps.Gateway.Roast(ctx, code, lang)

	var entry progress.HistoryEntry
	var histErr error
	if err == nil && c.current(gen) && c.deps.History != nil {
		entry, histErr = c.deps.History.Add(ctx, code, lang, res)
	}

	c.mu.Lock()
	if c.gen != gen {
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.deps.Log.Debug("discarding superseded roast response", "generation", gen)
		return snap, ErrSuperseded
	}
	c.inflight = 0
	if err != nil {
		c.state = StateEditor
		c.lastErr = errorInfo(err)
		snap := c.snapshotLocked()
		c.mu.Unlock()
		c.deps.Metrics.IncSubmission(string(roast.KindOf(err)))
		c.deps.Log.Warn("roast submission failed", "kind", roast.KindOf(err), "error", err)
		return snap, err
	}
	c.stack = append(c.stack, StateEditor)
	c.state = StateResults
	c.result = &res
	c.historyID = entry.ID
	snap := c.snapshotLocked()
	c.mu.Unlock()

	c.deps.Metrics.IncSubmission("ok")
	if histErr != nil {
		c.deps.Log.Warn("failed to record roast history (ignored)", "error", histErr)
	}
	if c.deps.Notifier != nil {
		c.deps.Notifier.RoastReady(ctx, entry)
	}
	return snap, nil
}

func (c *Controller) StartQuiz() (Snapshot, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state != StateResults || c.result == nil || len(c.result.MCQs) == 0 {
		return c.snapshotLocked(), ErrInvalidTransition
	}
	c.pushLocked(StateQuiz)
	return c.snapshotLocked(), nil
}

// SubmitAnswers scores the quiz, records the pass streak and, in challenge
// mode, completes today's challenge on a pass. It returns to results.
func (c *Controller) SubmitAnswers(ctx context.Context, answers quiz.Answers) (QuizReport, error) {
	c.mu.Lock()
	if c.state != StateQuiz || c.result == nil {
		c.mu.Unlock()
		return QuizReport{}, ErrInvalidTransition
	}
	if c.scoring {
		c.mu.Unlock()
		return QuizReport{}, roast.Errorf(roast.KindBusy, roast.KindBusy.UserMessage())
	}
	c.scoring = true
	mcqs := c.result.MCQs
	challengeMode := c.challengeMode
	c.mu.Unlock()

	report, err := c.scoreQuiz(ctx, mcqs, answers, challengeMode)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.scoring = false
	if err != nil {
		return QuizReport{}, err
	}
	if c.state == StateQuiz {
		if n := len(c.stack); n > 0 && c.stack[n-1] == StateResults {
			c.stack = c.stack[:n-1]
		}
		c.state = StateResults
	}
	c.lastQuiz = &report
	return report, nil
}

// scoreQuiz runs without the lock; the scoring flag keeps it single-flight.
func (c *Controller) scoreQuiz(ctx context.Context, mcqs []roast.MCQ, answers quiz.Answers, challengeMode bool) (QuizReport, error) {
	outcome, err := quiz.Score(mcqs, answers)
	if err != nil {
		return QuizReport{}, err
	}
	report := QuizReport{Outcome: outcome}
	if c.deps.Streak != nil {
		streak, err := c.deps.Streak.RecordQuiz(ctx, outcome.Passed)
		if err != nil {
			return QuizReport{}, err
		}
		report.Streak = streak
		report.StreakMessage = progress.StreakMessage(streak.CurrentStreak)
	}
	if challengeMode && outcome.Passed && c.deps.Challenges != nil {
		st, err := c.deps.Challenges.MarkCompleted(ctx)
		if err != nil {
			return QuizReport{}, err
		}
		report.Challenge = &st
		c.deps.Metrics.IncChallengeCompleted()
	}
	c.deps.Metrics.ObserveQuiz(outcome.Score, outcome.Passed)
	return report, nil
}

// Back pops the navigation stack, or falls back to the fixed predecessor.
// Backing out of loading abandons the submission and returns to the editor.
func (c *Controller) Back() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.state == StateLoading {
		c.abandonLocked()
		return c.snapshotLocked()
	}
	if n := len(c.stack); n > 0 {
		c.state = c.stack[n-1]
		c.stack = c.stack[:n-1]
		return c.snapshotLocked()
	}
	switch c.state {
	case StateQuiz:
		c.state = StateResults
	case StateResults:
		c.state = StateEditor
	default:
		c.state = StateLanding
	}
	return c.snapshotLocked()
}

// Retry starts a fresh roast in the editor. It leaves challenge mode: the
// next submission is no longer the day's snippet.
func (c *Controller) Retry() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.abandonLocked()
	c.result = nil
	c.code = ""
	c.historyID = ""
	c.lastErr = nil
	c.lastQuiz = nil
	c.challengeMode = false
	c.challenge = nil
	c.stack = nil
	c.state = StateEditor
	return c.snapshotLocked()
}

func (c *Controller) Home() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.abandonLocked()
	c.result = nil
	c.historyID = ""
	c.lastErr = nil
	c.lastQuiz = nil
	c.challengeMode = false
	c.challenge = nil
	c.stack = nil
	c.state = StateLanding
	return c.snapshotLocked()
}

// StartChallenge loads today's buggy snippet into the editor.
func (c *Controller) StartChallenge(ctx context.Context) (Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return Snapshot{}, err
	}
	ch := progress.TodaysChallenge(c.deps.Clock.Now())

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.inflight != 0 {
		return c.snapshotLocked(), roast.Errorf(roast.KindBusy, roast.KindBusy.UserMessage())
	}
	c.challengeMode = true
	c.challenge = &ch
	c.code = ch.BuggyCode
	c.lang = ch.Language
	c.result = nil
	c.historyID = ""
	c.lastErr = nil
	c.lastQuiz = nil
	if c.state != StateEditor {
		c.pushLocked(StateEditor)
	}
	return c.snapshotLocked(), nil
}

func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.snapshotLocked()
}

func (c *Controller) current(gen uint64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen == gen
}

func (c *Controller) pushLocked(next State) {
	c.stack = append(c.stack, c.state)
	c.state = next
}

// abandonLocked invalidates any pending submission so its response is dropped.
func (c *Controller) abandonLocked() {
	if c.inflight == 0 {
		return
	}
	c.gen++
	c.inflight = 0
	if c.state == StateLoading {
		c.state = StateEditor
	}
}

func (c *Controller) recordFailure(err error) Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.lastErr = errorInfo(err)
	return c.snapshotLocked()
}

func (c *Controller) snapshotLocked() Snapshot {
	s := Snapshot{
		State:         c.state,
		Stack:         append([]State{}, c.stack...),
		Busy:          c.inflight != 0,
		Code:          c.code,
		Language:      c.lang,
		HistoryID:     c.historyID,
		ChallengeMode: c.challengeMode,
	}
	if c.result != nil {
		r := *c.result
		s.Result = &r
	}
	if c.lastErr != nil {
		e := *c.lastErr
		s.Error = &e
	}
	if c.challenge != nil {
		ch := *c.challenge
		s.Challenge = &ch
	}
	if c.lastQuiz != nil {
		q := *c.lastQuiz
		s.LastQuiz = &q
	}
	return s
}

func errorInfo(err error) *ErrorInfo {
	if err == nil {
		return nil
	}
	var re *roast.Error
	if !errors.As(err, &re) {
		re = roast.NewError(roast.KindOf(err), err)
	}
	return &ErrorInfo{Kind: re.Kind, Message: roast.UserMessage(re)}
}
