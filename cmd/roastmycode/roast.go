package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/yungbote/roastmycode-backend/internal/domain/roast"
	"github.com/yungbote/roastmycode-backend/internal/imaging"
	"github.com/yungbote/roastmycode-backend/internal/progress"
	"github.com/yungbote/roastmycode-backend/internal/quiz"
	"github.com/yungbote/roastmycode-backend/internal/workflow"
)

var (
	roastFile     string
	roastLang     string
	roastQuiz     bool
	roastExplain  bool
	roastImage    string
	roastSolve    bool
	challengeMode bool
)

var roastCmd = &cobra.Command{
	Use:   "roast [file]",
	Short: "Roast a snippet from a file, stdin or a screenshot",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 1 {
			roastFile = args[0]
		}
		env, err := openTerminalEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer env.closer.Close()
		in := bufio.NewReader(cmd.InOrStdin())
		return runRoast(cmd.Context(), cmd.OutOrStdout(), in, env)
	},
}

func init() {
	f := roastCmd.Flags()
	f.StringVarP(&roastLang, "lang", "l", "", "javascript, python, cpp or java (guessed from the file extension when empty)")
	f.BoolVarP(&roastQuiz, "quiz", "q", false, "take the quiz after the roast")
	f.BoolVar(&roastExplain, "explain", false, "explain the fix back in your own words")
	f.StringVar(&roastImage, "image", "", "screenshot of code (or a question) to analyze instead of a file")
	f.BoolVar(&roastSolve, "solve", false, "with --image, solve the pictured question instead of extracting code")
}

type terminalNotifier struct {
	out io.Writer
}

func (n terminalNotifier) RoastReady(ctx context.Context, entry progress.HistoryEntry) {
	fmt.Fprintf(n.out, "\a🔥 Roast ready (%s)\n", entry.ID)
}

func newController(env *terminalEnv, out io.Writer) *workflow.Controller {
	return workflow.NewController(workflow.Deps{
		Gateway:      env.client,
		Connectivity: env.client,
		Notifier:     terminalNotifier{out: out},
		History:      env.progress.History,
		Streak:       env.progress.Streak,
		Challenges:   env.progress.Challenges,
		Clock:        env.clock,
		Log:          log,
	})
}

func runRoast(ctx context.Context, out io.Writer, in *bufio.Reader, env *terminalEnv) error {
	ctrl := newController(env, out)
	ctrl.Start(true)
	if _, err := ctrl.GetStarted(); err != nil {
		return err
	}

	var (
		code string
		lang roast.Language
		err  error
	)
	switch {
	case challengeMode:
		snap, err := ctrl.StartChallenge(ctx)
		if err != nil {
			return err
		}
		printChallenge(out, *snap.Challenge)
		code, lang = snap.Code, snap.Language
	case roastImage != "":
		done, c, l, err := analyzeImage(ctx, out, env, roastImage)
		if err != nil || done {
			return err
		}
		code, lang = c, l
	default:
		code, lang, err = readSnippet(in)
		if err != nil {
			return err
		}
	}

	fmt.Fprintln(out, "🔥 Roasting...")
	snap, err := ctrl.Submit(ctx, code, lang)
	if err != nil {
		return errors.New(roast.UserMessage(err))
	}
	printResult(out, *snap.Result)

	if roastExplain {
		if err := explainBack(ctx, out, in, env, code, lang, snap.Result.CorrectedCode); err != nil {
			return err
		}
	}
	if roastQuiz || challengeMode {
		return takeQuiz(ctx, out, in, ctrl, snap.Result.MCQs)
	}
	fmt.Fprintln(out, imaging.ShareText(snap.Result.Roast, snap.Result.GoldenRule, 0))
	return nil
}

func readSnippet(stdin *bufio.Reader) (string, roast.Language, error) {
	var (
		b   []byte
		err error
	)
	if roastFile == "" || roastFile == "-" {
		b, err = io.ReadAll(stdin)
	} else {
		b, err = os.ReadFile(roastFile)
	}
	if err != nil {
		return "", "", err
	}
	name := roastLang
	if name == "" {
		name = languageFromExt(roastFile)
	}
	lang, err := roast.ParseLanguage(name)
	if err != nil {
		return "", "", fmt.Errorf("pick a language with --lang: %w", err)
	}
	return string(b), lang, nil
}

func languageFromExt(path string) string {
	switch {
	case strings.HasSuffix(path, ".py"):
		return "python"
	case strings.HasSuffix(path, ".js"), strings.HasSuffix(path, ".mjs"), strings.HasSuffix(path, ".ts"):
		return "javascript"
	case strings.HasSuffix(path, ".java"):
		return "java"
	case strings.HasSuffix(path, ".cpp"), strings.HasSuffix(path, ".cc"), strings.HasSuffix(path, ".hpp"):
		return "cpp"
	}
	return ""
}

// analyzeImage either prints a solved question (done) or returns the
// extracted code for roasting.
func analyzeImage(ctx context.Context, out io.Writer, env *terminalEnv, path string) (bool, string, roast.Language, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return false, "", "", err
	}
	dataURL, err := imaging.PrepareForVision(imaging.EncodeDataURL(raw))
	if err != nil {
		return false, "", "", err
	}
	if roastSolve {
		sol, err := env.client.SolveQuestion(ctx, dataURL)
		if err != nil {
			return false, "", "", errors.New(roast.UserMessage(err))
		}
		fmt.Fprintf(out, "\n❓ %s\n\n%s\n\n", sol.QuestionSummary, sol.Explanation)
		for i, step := range sol.Approach {
			fmt.Fprintf(out, "%d. %s\n", i+1, step)
		}
		fmt.Fprintf(out, "\n%s\n\n💡 %s\n", sol.Code, sol.Tips)
		return true, "", "", nil
	}
	ext, err := env.client.ExtractCode(ctx, dataURL)
	if err != nil {
		return false, "", "", errors.New(roast.UserMessage(err))
	}
	name := roastLang
	if name == "" {
		name = ext.Language
	}
	lang, err := roast.ParseLanguage(name)
	if err != nil {
		return false, "", "", fmt.Errorf("could not tell the language, pass --lang: %w", err)
	}
	fmt.Fprintf(out, "📸 Extracted %s code (confidence: %s)\n", lang.Label(), ext.Confidence)
	return false, ext.Code, lang, nil
}

func printResult(out io.Writer, r roast.Result) {
	fmt.Fprintf(out, "\n🔥 %s\n\n", r.Roast)
	fmt.Fprintf(out, "🤔 Why this happens\n%s\n\n", r.WhyThisHappens)
	fmt.Fprintf(out, "🌍 Real-world problems\n%s\n\n", r.RealWorldProblems)
	fmt.Fprintln(out, "🛠  Step-by-step fix")
	for i, s := range r.StepByStepFix {
		fmt.Fprintf(out, "  %d. %s\n", i+1, s)
	}
	fmt.Fprintf(out, "\n✅ Corrected code\n%s\n\n", r.CorrectedCode)
	fmt.Fprintf(out, "💡 Golden rule: %s\n", r.GoldenRule)
	if r.MemoryHook != "" {
		fmt.Fprintf(out, "🧠 Memory hook: %s\n", r.MemoryHook)
	}
	if r.PracticeProblem.Title != "" {
		fmt.Fprintf(out, "\n🏋️ Practice: %s\n%s\nHint: %s\n", r.PracticeProblem.Title, r.PracticeProblem.Description, r.PracticeProblem.Hint)
	}
}

func explainBack(ctx context.Context, out io.Writer, in *bufio.Reader, env *terminalEnv, code string, lang roast.Language, corrected string) error {
	fmt.Fprint(out, "\n✍️  Explain the fix in your own words: ")
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	v, err := env.client.ExplainBack(ctx, code, lang, corrected, strings.TrimSpace(line))
	if err != nil {
		return errors.New(roast.UserMessage(err))
	}
	mark := "❌"
	if v.Passed {
		mark = "✅"
	}
	fmt.Fprintf(out, "%s %s\n", mark, v.Feedback)
	return nil
}

func takeQuiz(ctx context.Context, out io.Writer, in *bufio.Reader, ctrl *workflow.Controller, mcqs []roast.MCQ) error {
	if _, err := ctrl.StartQuiz(); err != nil {
		return err
	}
	answers := make(quiz.Answers, len(mcqs))
	for i, q := range mcqs {
		fmt.Fprintf(out, "\nQ%d. %s\n", i+1, q.Question)
		for j, opt := range q.Options {
			fmt.Fprintf(out, "  %c) %s\n", 'a'+j, opt)
		}
		fmt.Fprint(out, "> ")
		line, err := in.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return err
		}
		answers[i] = parseChoice(strings.TrimSpace(line), len(q.Options))
	}
	report, err := ctrl.SubmitAnswers(ctx, answers)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "\n📊 Score: %d/%d (%d/%d correct)\n", report.Outcome.Score, quiz.MaxScore, report.Outcome.Correct, report.Outcome.Total)
	if report.StreakMessage != "" {
		fmt.Fprintln(out, report.StreakMessage)
	}
	if report.Challenge != nil {
		fmt.Fprintf(out, "🏁 Daily challenge done! Streak: %d, total: %d\n", report.Challenge.CurrentStreak, report.Challenge.TotalCompleted)
	}
	snap := ctrl.Snapshot()
	if snap.Result != nil {
		fmt.Fprintln(out, imaging.ShareText(snap.Result.Roast, snap.Result.GoldenRule, report.Outcome.Score))
	}
	return nil
}

// parseChoice accepts "b" or "2"; anything else is unanswered.
func parseChoice(s string, n int) *int {
	if s == "" {
		return nil
	}
	if len(s) == 1 && s[0] >= 'a' && int(s[0]-'a') < n {
		return quiz.Answer(int(s[0] - 'a'))
	}
	if i, err := strconv.Atoi(s); err == nil && i >= 1 && i <= n {
		return quiz.Answer(i - 1)
	}
	return nil
}
