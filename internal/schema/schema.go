// Package schema turns raw model text into typed results. Model output is
// untrusted: lengths and indexes are range-checked before anything is
// returned.
package schema

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/yungbote/roastmycode-backend/internal/domain/roast"
)

// StripFences removes an optional ```json (or bare ```) fence around raw.
func StripFences(raw string) string {
	s := strings.TrimSpace(raw)
	if rest, ok := strings.CutPrefix(s, "```json"); ok {
		s = rest
	} else if rest, ok := strings.CutPrefix(s, "```"); ok {
		s = rest
	}
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

func decode(raw string, out any) error {
	body := StripFences(raw)
	if body == "" {
		return roast.NewError(roast.KindMalformedJSON, fmt.Errorf("empty body"))
	}
	if err := json.Unmarshal([]byte(body), out); err != nil {
		return roast.NewError(roast.KindMalformedJSON, err)
	}
	return nil
}

func malformed(format string, args ...any) error {
	return roast.NewError(roast.KindMalformedJSON, fmt.Errorf(format, args...))
}

// ParseRoast decodes and validates a roast. memoryHook defaults to goldenRule.
func ParseRoast(raw string) (roast.Result, error) {
	var r roast.Result
	if err := decode(raw, &r); err != nil {
		return roast.Result{}, err
	}
	if err := ValidateRoast(r); err != nil {
		return roast.Result{}, err
	}
	if strings.TrimSpace(r.MemoryHook) == "" {
		r.MemoryHook = r.GoldenRule
	}
	return r, nil
}

// ValidateRoast checks the fields the workflow depends on. An out-of-range
// correctIndex rejects the whole result since the quiz would mis-score.
func ValidateRoast(r roast.Result) error {
	switch {
	case strings.TrimSpace(r.Roast) == "":
		return malformed("missing roast")
	case strings.TrimSpace(r.CorrectedCode) == "":
		return malformed("missing correctedCode")
	case strings.TrimSpace(r.GoldenRule) == "":
		return malformed("missing goldenRule")
	case len(r.MCQs) == 0:
		return malformed("mcqs must be non-empty")
	}
	for i, q := range r.MCQs {
		if strings.TrimSpace(q.Question) == "" {
			return malformed("mcqs[%d]: missing question", i)
		}
		if len(q.Options) < 2 {
			return malformed("mcqs[%d]: need at least 2 options, got %d", i, len(q.Options))
		}
		if q.CorrectIndex < 0 || q.CorrectIndex >= len(q.Options) {
			return malformed("mcqs[%d]: correctIndex %d out of range [0,%d)", i, q.CorrectIndex, len(q.Options))
		}
	}
	return nil
}

func ParseExplainBack(raw string) (roast.ExplainBackVerdict, error) {
	// passed is a pointer so a missing field is distinguishable from false.
	var wire struct {
		Feedback string `json:"feedback"`
		Passed   *bool  `json:"passed"`
	}
	if err := decode(raw, &wire); err != nil {
		return roast.ExplainBackVerdict{}, err
	}
	if strings.TrimSpace(wire.Feedback) == "" || wire.Passed == nil {
		return roast.ExplainBackVerdict{}, malformed("explain-back needs feedback and passed")
	}
	return roast.ExplainBackVerdict{Feedback: wire.Feedback, Passed: *wire.Passed}, nil
}

func ParseExtractedCode(raw string) (roast.ExtractedCode, error) {
	var out roast.ExtractedCode
	if err := decode(raw, &out); err != nil {
		return roast.ExtractedCode{}, err
	}
	if strings.TrimSpace(out.Code) == "" && strings.TrimSpace(out.Error) == "" {
		return roast.ExtractedCode{}, malformed("extract-code needs code or error")
	}
	return out, nil
}

func ParseQuestionSolution(raw string) (roast.QuestionSolution, error) {
	var out roast.QuestionSolution
	if err := decode(raw, &out); err != nil {
		return roast.QuestionSolution{}, err
	}
	if strings.TrimSpace(out.QuestionSummary) == "" && strings.TrimSpace(out.Error) == "" {
		return roast.QuestionSolution{}, malformed("solve-question needs questionSummary or error")
	}
	return out, nil
}
