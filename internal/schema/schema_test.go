package schema

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/roastmycode-backend/internal/domain/roast"
)

func sampleResult() roast.Result {
	return roast.Result{
		Roast:             "Bhai ye kya hai",
		WhyThisHappens:    "kyunki",
		RealWorldProblems: "server down",
		StepByStepFix:     []string{"one", "two"},
		CorrectedCode:     "for (let i = 0; i < 3; i++) {}",
		GoldenRule:        "Loop ko exit do",
		MemoryHook:        "exit = darwaza",
		MCQs: []roast.MCQ{
			{Question: "q1", Options: []string{"a", "b", "c", "d"}, CorrectIndex: 2, Explanation: "e1"},
			{Question: "q2", Options: []string{"a", "b"}, CorrectIndex: 0, Explanation: "e2"},
		},
		PracticeProblem: roast.PracticeProblem{Title: "t", Description: "d", Hint: "h"},
	}
}

func TestStripFences(t *testing.T) {
	cases := map[string]string{
		"```json\n{\"a\":1}\n```": `{"a":1}`,
		"```\n{\"a\":1}\n```":     `{"a":1}`,
		"  {\"a\":1}  ":           `{"a":1}`,
		"```json{\"a\":1}":        `{"a":1}`,
	}
	for in, want := range cases {
		assert.Equal(t, want, StripFences(in), "input %q", in)
	}
}

func TestParseRoastRoundTripThroughFence(t *testing.T) {
	want := sampleResult()
	b, err := json.Marshal(want)
	require.NoError(t, err)

	got, err := ParseRoast("```json\n" + string(b) + "\n```")
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("round trip mismatch (-want +got):\n%s", diff)
	}
}

func TestParseRoastFillsMemoryHook(t *testing.T) {
	in := sampleResult()
	in.MemoryHook = ""
	b, _ := json.Marshal(in)

	got, err := ParseRoast(string(b))
	require.NoError(t, err)
	assert.Equal(t, in.GoldenRule, got.MemoryHook)
}

func TestParseRoastRejects(t *testing.T) {
	mutate := map[string]func(r *roast.Result){
		"no roast":          func(r *roast.Result) { r.Roast = "" },
		"no corrected code": func(r *roast.Result) { r.CorrectedCode = " " },
		"no golden rule":    func(r *roast.Result) { r.GoldenRule = "" },
		"empty mcqs":        func(r *roast.Result) { r.MCQs = nil },
		"one option":        func(r *roast.Result) { r.MCQs[1].Options = []string{"a"} },
		"index too high":    func(r *roast.Result) { r.MCQs[0].CorrectIndex = 4 },
		"negative index":    func(r *roast.Result) { r.MCQs[0].CorrectIndex = -1 },
	}
	for name, fn := range mutate {
		t.Run(name, func(t *testing.T) {
			r := sampleResult()
			fn(&r)
			b, _ := json.Marshal(r)
			_, err := ParseRoast(string(b))
			assert.Equal(t, roast.KindMalformedJSON, roast.KindOf(err))
		})
	}
}

func TestParseRoastNotJSON(t *testing.T) {
	_, err := ParseRoast("Sorry, I can't help with that.")
	assert.Equal(t, roast.KindMalformedJSON, roast.KindOf(err))
	_, err = ParseRoast("```json\n```")
	assert.Equal(t, roast.KindMalformedJSON, roast.KindOf(err))
}

func TestParseExplainBack(t *testing.T) {
	v, err := ParseExplainBack("```json\n{\"feedback\":\"sahi\",\"passed\":false}\n```")
	require.NoError(t, err)
	assert.Equal(t, roast.ExplainBackVerdict{Feedback: "sahi", Passed: false}, v)

	_, err = ParseExplainBack(`{"feedback":"sahi"}`)
	assert.Equal(t, roast.KindMalformedJSON, roast.KindOf(err))
}

func TestParseImageResults(t *testing.T) {
	code, err := ParseExtractedCode(`{"code":"print(1)","language":"python","confidence":"high"}`)
	require.NoError(t, err)
	assert.Equal(t, "python", code.Language)

	code, err = ParseExtractedCode(`{"error":"code nahi mila"}`)
	require.NoError(t, err)
	assert.Equal(t, "code nahi mila", code.Error)

	_, err = ParseExtractedCode(`{}`)
	assert.Error(t, err)

	sol, err := ParseQuestionSolution(`{"questionSummary":"sum","approach":["a","b"],"tips":"t"}`)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, sol.Approach)
}
