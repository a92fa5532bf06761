package roast

type MCQ struct {
	Question     string   `json:"question"`
	Options      []string `json:"options"`
	CorrectIndex int      `json:"correctIndex"`
	Explanation  string   `json:"explanation"`
}

type PracticeProblem struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Hint        string `json:"hint"`
}

// Result is the structured critique returned for a roast request.
// MCQs and StepByStepFix are order-significant.
type Result struct {
	Roast             string          `json:"roast"`
	WhyThisHappens    string          `json:"whyThisHappens"`
	RealWorldProblems string          `json:"realWorldProblems"`
	StepByStepFix     []string        `json:"stepByStepFix"`
	CorrectedCode     string          `json:"correctedCode"`
	GoldenRule        string          `json:"goldenRule"`
	MemoryHook        string          `json:"memoryHook,omitempty"`
	MCQs              []MCQ           `json:"mcqs"`
	PracticeProblem   PracticeProblem `json:"practiceProblem"`
}

// ExplainBackVerdict grades a user's own explanation of the fix.
type ExplainBackVerdict struct {
	Feedback string `json:"feedback"`
	Passed   bool   `json:"passed"`
}

// ExtractedCode is the extract-code image mode response.
type ExtractedCode struct {
	Code       string `json:"code"`
	Language   string `json:"language"`
	Confidence string `json:"confidence"`
	Error      string `json:"error,omitempty"`
}

// QuestionSolution is the question-solving image mode response.
type QuestionSolution struct {
	QuestionSummary string   `json:"questionSummary"`
	Explanation     string   `json:"explanation"`
	Approach        []string `json:"approach"`
	Code            string   `json:"code,omitempty"`
	Tips            string   `json:"tips"`
	Error           string   `json:"error,omitempty"`
}

type ImageMode string

const (
	ImageModeExtractCode   ImageMode = "extract-code"
	ImageModeSolveQuestion ImageMode = "solve-question"
)

// ParseImageMode maps anything other than extract-code to question solving,
// matching the edge function's behavior.
func ParseImageMode(s string) ImageMode {
	if s == string(ImageModeExtractCode) {
		return ImageModeExtractCode
	}
	return ImageModeSolveQuestion
}
