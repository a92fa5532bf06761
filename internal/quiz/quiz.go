// Package quiz scores multiple-choice answers against a roast's questions.
package quiz

import (
	"errors"
	"math"

	"github.com/yungbote/roastmycode-backend/internal/domain/roast"
)

const (
	MinScore      = 1
	MaxScore      = 10
	PassThreshold = 7
)

var ErrNoQuestions = errors.New("quiz: no questions to score")

// Answers is aligned with the MCQs; a nil entry is unanswered.
type Answers []*int

type Outcome struct {
	Correct int  `json:"correct"`
	Total   int  `json:"total"`
	Score   int  `json:"score"`
	Passed  bool `json:"passed"`
}

// Score maps correct/total onto [1,10]. One point is always awarded for the
// ungraded practice problem, so zero correct still scores 1.
func Score(mcqs []roast.MCQ, answers Answers) (Outcome, error) {
	if len(mcqs) == 0 {
		return Outcome{}, ErrNoQuestions
	}
	correct := 0
	for i, q := range mcqs {
		if i >= len(answers) || answers[i] == nil {
			continue
		}
		if *answers[i] == q.CorrectIndex {
			correct++
		}
	}
	ratio := float64(correct) / float64(len(mcqs))
	score := int(math.Round(ratio*9)) + 1
	return Outcome{
		Correct: correct,
		Total:   len(mcqs),
		Score:   score,
		Passed:  score >= PassThreshold,
	}, nil
}

// Answer is a convenience for building Answers literals.
func Answer(i int) *int { return &i }
