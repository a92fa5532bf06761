package quiz

import (
	"errors"
	"testing"

	"github.com/yungbote/roastmycode-backend/internal/domain/roast"
)

func mcqs(correct ...int) []roast.MCQ {
	out := make([]roast.MCQ, 0, len(correct))
	for _, c := range correct {
		out = append(out, roast.MCQ{Question: "q", Options: []string{"a", "b", "c", "d"}, CorrectIndex: c})
	}
	return out
}

func TestScoreBounds(t *testing.T) {
	for n := 1; n <= 12; n++ {
		qs := make([]int, n)
		all := make(Answers, n)
		none := make(Answers, n)
		for i := range qs {
			qs[i] = i % 4
			all[i] = Answer(i % 4)
			none[i] = Answer((i + 1) % 4)
		}
		got, err := Score(mcqs(qs...), all)
		if err != nil {
			t.Fatalf("n=%d: %v", n, err)
		}
		if got.Score != MaxScore || !got.Passed {
			t.Fatalf("n=%d all correct: %+v", n, got)
		}
		got, _ = Score(mcqs(qs...), none)
		if got.Score != MinScore || got.Passed {
			t.Fatalf("n=%d all wrong: %+v", n, got)
		}
	}
}

func TestScoreTwoOfThree(t *testing.T) {
	got, err := Score(mcqs(1, 2, 3), Answers{Answer(1), Answer(0), Answer(3)})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	if got.Correct != 2 || got.Score != 7 || !got.Passed {
		t.Fatalf("got %+v", got)
	}
}

func TestScoreUnansweredAndShortAnswers(t *testing.T) {
	got, err := Score(mcqs(0, 0, 0, 0), Answers{Answer(0), nil})
	if err != nil {
		t.Fatalf("Score: %v", err)
	}
	// 1/4*9 = 2.25 -> 2, +1
	if got.Correct != 1 || got.Score != 3 || got.Passed {
		t.Fatalf("got %+v", got)
	}
}

func TestScoreRoundsHalfUp(t *testing.T) {
	// 1/2*9 = 4.5 -> 5, +1 = 6
	got, _ := Score(mcqs(0, 0), Answers{Answer(0), Answer(1)})
	if got.Score != 6 || got.Passed {
		t.Fatalf("got %+v", got)
	}
}

func TestScoreEmpty(t *testing.T) {
	if _, err := Score(nil, nil); !errors.Is(err, ErrNoQuestions) {
		t.Fatalf("expected ErrNoQuestions, got %v", err)
	}
}
