package workflow

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/yungbote/roastmycode-backend/internal/domain/roast"
	"github.com/yungbote/roastmycode-backend/internal/platform/clock"
	"github.com/yungbote/roastmycode-backend/internal/progress"
	"github.com/yungbote/roastmycode-backend/internal/quiz"
	"github.com/yungbote/roastmycode-backend/internal/storage/kv"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func sampleResult() roast.Result {
	return roast.Result{
		Roast:         "Bhai infinite loop?",
		CorrectedCode: "for (let i = 0; i < 3; i++) {}",
		GoldenRule:    "Loop ka exit likh pehle",
		MemoryHook:    "Loop ka exit likh pehle",
		MCQs: []roast.MCQ{
			{Question: "q1", Options: []string{"a", "b"}, CorrectIndex: 0},
			{Question: "q2", Options: []string{"a", "b"}, CorrectIndex: 1},
			{Question: "q3", Options: []string{"a", "b"}, CorrectIndex: 1},
		},
	}
}

type gatewayFunc func(ctx context.Context, code string, lang roast.Language) (roast.Result, error)

func (f gatewayFunc) Roast(ctx context.Context, code string, lang roast.Language) (roast.Result, error) {
	return f(ctx, code, lang)
}

type offline struct{}

func (offline) Online(context.Context) bool { return false }

type notifier struct {
	mu      sync.Mutex
	entries []progress.HistoryEntry
}

func (n *notifier) RoastReady(_ context.Context, e progress.HistoryEntry) {
	n.mu.Lock()
	n.entries = append(n.entries, e)
	n.mu.Unlock()
}

type harness struct {
	ctrl     *Controller
	trackers *progress.Trackers
	clock    *clock.Fake
	notify   *notifier
	calls    int
}

func newHarness(t *testing.T, gw Gateway) *harness {
	t.Helper()
	h := &harness{
		clock:  clock.NewFake(time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)),
		notify: &notifier{},
	}
	h.trackers = progress.New(kv.NewMemory(), h.clock)
	if gw == nil {
		gw = gatewayFunc(func(ctx context.Context, code string, lang roast.Language) (roast.Result, error) {
			h.calls++
			return sampleResult(), nil
		})
	}
	h.ctrl = NewController(Deps{
		Gateway:    gw,
		Notifier:   h.notify,
		History:    h.trackers.History,
		Streak:     h.trackers.Streak,
		Challenges: h.trackers.Challenges,
		Clock:      h.clock,
	})
	return h
}

func (h *harness) toEditor(t *testing.T) {
	t.Helper()
	h.ctrl.Start(true)
	_, err := h.ctrl.GetStarted()
	require.NoError(t, err)
}

func TestSplash(t *testing.T) {
	h := newHarness(t, nil)
	assert.Equal(t, StateSplash, h.ctrl.Start(false).State)
	assert.False(t, h.ctrl.SplashElapsed(2*time.Second))
	assert.True(t, h.ctrl.SplashElapsed(SplashDuration))
	assert.Equal(t, StateLanding, h.ctrl.Snapshot().State)

	assert.Equal(t, StateSplash, h.ctrl.Start(false).State)
	assert.Equal(t, StateLanding, h.ctrl.DismissSplash().State)

	assert.Equal(t, StateLanding, h.ctrl.Start(true).State, "splash shows once per session")
}

func TestSubmitSuccess(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	h.toEditor(t)

	snap, err := h.ctrl.Submit(ctx, "for(;;){}", roast.JavaScript)
	require.NoError(t, err)
	assert.Equal(t, StateResults, snap.State)
	assert.Equal(t, []State{StateLanding, StateEditor}, snap.Stack)
	require.NotNil(t, snap.Result)
	assert.NotEmpty(t, snap.HistoryID)
	assert.False(t, snap.Busy)

	list, err := h.trackers.History.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, snap.HistoryID, list[0].ID)
	if diff := cmp.Diff(sampleResult(), list[0].Result); diff != "" {
		t.Fatalf("history result mismatch (-want +got):\n%s", diff)
	}
	assert.Len(t, h.notify.entries, 1)
}

func TestSubmitOfflineMakesNoCall(t *testing.T) {
	h := newHarness(t, nil)
	h.ctrl.deps.Connectivity = offline{}
	h.toEditor(t)

	snap, err := h.ctrl.Submit(context.Background(), "for(;;){}", roast.JavaScript)
	assert.Equal(t, roast.KindOffline, roast.KindOf(err))
	assert.Equal(t, StateEditor, snap.State)
	require.NotNil(t, snap.Error)
	assert.Equal(t, roast.KindOffline, snap.Error.Kind)
	assert.Zero(t, h.calls)
}

func TestSubmitValidation(t *testing.T) {
	h := newHarness(t, nil)
	h.toEditor(t)
	_, err := h.ctrl.Submit(context.Background(), "  ", roast.Python)
	assert.Equal(t, roast.KindInvalidRequest, roast.KindOf(err))
	_, err = h.ctrl.Submit(context.Background(), "x", roast.Language("go"))
	assert.Equal(t, roast.KindInvalidRequest, roast.KindOf(err))
	assert.Zero(t, h.calls)
	assert.Equal(t, StateEditor, h.ctrl.Snapshot().State)
}

func TestSubmitRateLimitedReturnsToEditor(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, gatewayFunc(func(ctx context.Context, code string, lang roast.Language) (roast.Result, error) {
		return roast.Result{}, roast.NewError(roast.KindRateLimited, errors.New("429"))
	}))
	h.toEditor(t)

	snap, err := h.ctrl.Submit(ctx, "x = 1", roast.Python)
	assert.Equal(t, roast.KindRateLimited, roast.KindOf(err))
	assert.Equal(t, StateEditor, snap.State)
	require.NotNil(t, snap.Error)
	assert.Equal(t, roast.KindRateLimited.UserMessage(), snap.Error.Message)
	assert.Nil(t, snap.Result)

	list, _ := h.trackers.History.List(ctx)
	assert.Empty(t, list)
	assert.Empty(t, h.notify.entries)
}

func TestMalformedResponseNeverReachesResults(t *testing.T) {
	h := newHarness(t, gatewayFunc(func(ctx context.Context, code string, lang roast.Language) (roast.Result, error) {
		return roast.Result{}, roast.Errorf(roast.KindMalformedJSON, "bad json")
	}))
	h.toEditor(t)
	snap, err := h.ctrl.Submit(context.Background(), "x", roast.Cpp)
	require.Error(t, err)
	assert.Equal(t, StateEditor, snap.State)
}

// blockingGateway holds each call until release is closed.
func blockingGateway(started chan<- struct{}, release <-chan struct{}) Gateway {
	return gatewayFunc(func(ctx context.Context, code string, lang roast.Language) (roast.Result, error) {
		started <- struct{}{}
		<-release
		return sampleResult(), nil
	})
}

func TestSecondSubmitWhileLoadingIsBusy(t *testing.T) {
	started := make(chan struct{}, 2)
	release := make(chan struct{})
	h := newHarness(t, blockingGateway(started, release))
	h.toEditor(t)

	done := make(chan error, 1)
	go func() {
		_, err := h.ctrl.Submit(context.Background(), "a", roast.Python)
		done <- err
	}()
	<-started
	snap := h.ctrl.Snapshot()
	assert.Equal(t, StateLoading, snap.State)
	assert.True(t, snap.Busy)

	_, err := h.ctrl.Submit(context.Background(), "b", roast.Python)
	assert.Equal(t, roast.KindBusy, roast.KindOf(err))

	close(release)
	require.NoError(t, <-done)
	assert.Equal(t, StateResults, h.ctrl.Snapshot().State)
}

func TestRetryDiscardsLateResponse(t *testing.T) {
	ctx := context.Background()
	started := make(chan struct{}, 1)
	release := make(chan struct{})
	h := newHarness(t, blockingGateway(started, release))
	h.toEditor(t)

	done := make(chan error, 1)
	go func() {
		_, err := h.ctrl.Submit(ctx, "a", roast.Python)
		done <- err
	}()
	<-started

	snap := h.ctrl.Retry()
	assert.Equal(t, StateEditor, snap.State)
	assert.Empty(t, snap.Stack)
	assert.False(t, snap.Busy)

	close(release)
	assert.ErrorIs(t, <-done, ErrSuperseded)

	snap = h.ctrl.Snapshot()
	assert.Equal(t, StateEditor, snap.State)
	assert.Nil(t, snap.Result)
	list, _ := h.trackers.History.List(ctx)
	assert.Empty(t, list)
}

func TestBackNavigation(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	h.toEditor(t)
	_, err := h.ctrl.Submit(ctx, "x", roast.Java)
	require.NoError(t, err)
	_, err = h.ctrl.StartQuiz()
	require.NoError(t, err)

	assert.Equal(t, StateResults, h.ctrl.Back().State)
	assert.Equal(t, StateEditor, h.ctrl.Back().State)
	assert.Equal(t, StateLanding, h.ctrl.Back().State)
	assert.Equal(t, StateLanding, h.ctrl.Back().State)
}

func TestBackDefaultsWithEmptyStack(t *testing.T) {
	h := newHarness(t, nil)
	h.ctrl.mu.Lock()
	h.ctrl.state = StateQuiz
	h.ctrl.mu.Unlock()
	assert.Equal(t, StateResults, h.ctrl.Back().State)
	assert.Equal(t, StateEditor, h.ctrl.Back().State)
	assert.Equal(t, StateLanding, h.ctrl.Back().State)
}

func TestRetryAndHomeClearResult(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	h.toEditor(t)
	_, err := h.ctrl.Submit(ctx, "x", roast.Java)
	require.NoError(t, err)

	snap := h.ctrl.Retry()
	assert.Equal(t, StateEditor, snap.State)
	assert.Nil(t, snap.Result)
	assert.Empty(t, snap.Code)
	assert.Empty(t, snap.Stack)

	_, err = h.ctrl.Submit(ctx, "x", roast.Java)
	require.NoError(t, err)
	snap = h.ctrl.Home()
	assert.Equal(t, StateLanding, snap.State)
	assert.Nil(t, snap.Result)
}

func TestQuizScoringAndStreak(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	h.toEditor(t)
	_, err := h.ctrl.Submit(ctx, "x", roast.Python)
	require.NoError(t, err)

	_, err = h.ctrl.SubmitAnswers(ctx, quiz.Answers{quiz.Answer(0)})
	assert.ErrorIs(t, err, ErrInvalidTransition, "answers outside the quiz")

	_, err = h.ctrl.StartQuiz()
	require.NoError(t, err)
	report, err := h.ctrl.SubmitAnswers(ctx, quiz.Answers{quiz.Answer(0), quiz.Answer(0), quiz.Answer(1)})
	require.NoError(t, err)
	assert.Equal(t, quiz.Outcome{Correct: 2, Total: 3, Score: 7, Passed: true}, report.Outcome)
	assert.Equal(t, 1, report.Streak.CurrentStreak)
	assert.NotEmpty(t, report.StreakMessage)
	assert.Nil(t, report.Challenge, "not in challenge mode")

	snap := h.ctrl.Snapshot()
	assert.Equal(t, StateResults, snap.State)
	assert.Equal(t, []State{StateLanding, StateEditor}, snap.Stack)
	require.NotNil(t, snap.LastQuiz)

	_, err = h.ctrl.StartQuiz()
	require.NoError(t, err)
	report, err = h.ctrl.SubmitAnswers(ctx, quiz.Answers{nil, nil, nil})
	require.NoError(t, err)
	assert.Equal(t, 1, report.Outcome.Score)
	assert.Equal(t, 0, report.Streak.CurrentStreak)
	assert.Equal(t, 1, report.Streak.BestStreak)
}

func TestChallengeModeCompletesOnPass(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	h.ctrl.Start(true)

	snap, err := h.ctrl.StartChallenge(ctx)
	require.NoError(t, err)
	want := progress.TodaysChallenge(h.clock.Now())
	assert.Equal(t, StateEditor, snap.State)
	assert.True(t, snap.ChallengeMode)
	assert.Equal(t, want.BuggyCode, snap.Code)
	assert.Equal(t, want.Language, snap.Language)

	_, err = h.ctrl.Submit(ctx, snap.Code, snap.Language)
	require.NoError(t, err)
	_, err = h.ctrl.StartQuiz()
	require.NoError(t, err)
	report, err := h.ctrl.SubmitAnswers(ctx, quiz.Answers{quiz.Answer(0), quiz.Answer(1), quiz.Answer(1)})
	require.NoError(t, err)
	require.NotNil(t, report.Challenge)
	assert.True(t, report.Challenge.CompletedToday)
	assert.Equal(t, 1, report.Challenge.CurrentStreak)
}

func TestConcurrentSnapshots(t *testing.T) {
	h := newHarness(t, nil)
	h.toEditor(t)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = h.ctrl.Snapshot()
				_ = h.ctrl.Back()
			}
		}()
	}
	wg.Wait()
}

func TestSubmitOnlyFromEditor(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)

	snap, err := h.ctrl.Submit(ctx, "x", roast.Python)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, StateSplash, snap.State)
	assert.Empty(t, snap.Stack)

	h.ctrl.Start(true)
	_, err = h.ctrl.Submit(ctx, "x", roast.Python)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Zero(t, h.calls)

	h.toEditor(t)
	_, err = h.ctrl.Submit(ctx, "x", roast.Python)
	require.NoError(t, err)

	snap, err = h.ctrl.Submit(ctx, "y", roast.Python)
	assert.ErrorIs(t, err, ErrInvalidTransition, "results is not the editor")
	assert.Equal(t, StateResults, snap.State)
	assert.Equal(t, []State{StateLanding, StateEditor}, snap.Stack)

	_, err = h.ctrl.StartQuiz()
	require.NoError(t, err)
	_, err = h.ctrl.Submit(ctx, "y", roast.Python)
	assert.ErrorIs(t, err, ErrInvalidTransition)
	assert.Equal(t, 1, h.calls)
}

func TestRetryLeavesChallengeMode(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	h.ctrl.Start(true)
	_, err := h.ctrl.StartChallenge(ctx)
	require.NoError(t, err)

	snap := h.ctrl.Retry()
	assert.False(t, snap.ChallengeMode)
	assert.Nil(t, snap.Challenge)

	_, err = h.ctrl.Submit(ctx, "print('unrelated')", roast.Python)
	require.NoError(t, err)
	_, err = h.ctrl.StartQuiz()
	require.NoError(t, err)
	report, err := h.ctrl.SubmitAnswers(ctx, quiz.Answers{quiz.Answer(0), quiz.Answer(1), quiz.Answer(1)})
	require.NoError(t, err)
	assert.True(t, report.Outcome.Passed)
	assert.Nil(t, report.Challenge)

	st, err := h.trackers.Challenges.State(ctx)
	require.NoError(t, err)
	assert.False(t, st.CompletedToday)
}

func TestGetStartedLeavesChallengeMode(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	h.ctrl.Start(true)
	_, err := h.ctrl.StartChallenge(ctx)
	require.NoError(t, err)
	assert.Equal(t, StateLanding, h.ctrl.Back().State)

	snap, err := h.ctrl.GetStarted()
	require.NoError(t, err)
	assert.False(t, snap.ChallengeMode)
}

// blockingStreak holds RecordQuiz until release is closed.
type blockingStreak struct {
	started chan struct{}
	release chan struct{}
	mu      sync.Mutex
	calls   int
}

func (s *blockingStreak) RecordQuiz(ctx context.Context, passed bool) (progress.StreakData, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	s.started <- struct{}{}
	<-s.release
	return progress.StreakData{CurrentStreak: 1, BestStreak: 1}, nil
}

func TestConcurrentAnswerSubmissionsScoreOnce(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t, nil)
	streak := &blockingStreak{started: make(chan struct{}, 2), release: make(chan struct{})}
	h.ctrl.deps.Streak = streak
	h.toEditor(t)
	_, err := h.ctrl.Submit(ctx, "x", roast.Python)
	require.NoError(t, err)
	_, err = h.ctrl.StartQuiz()
	require.NoError(t, err)

	answers := quiz.Answers{quiz.Answer(0), quiz.Answer(1), quiz.Answer(1)}
	done := make(chan error, 1)
	go func() {
		_, err := h.ctrl.SubmitAnswers(ctx, answers)
		done <- err
	}()
	<-streak.started

	_, err = h.ctrl.SubmitAnswers(ctx, answers)
	assert.Equal(t, roast.KindBusy, roast.KindOf(err))

	close(streak.release)
	require.NoError(t, <-done)
	assert.Equal(t, 1, streak.calls)
	assert.Equal(t, StateResults, h.ctrl.Snapshot().State)

	_, err = h.ctrl.SubmitAnswers(ctx, answers)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
