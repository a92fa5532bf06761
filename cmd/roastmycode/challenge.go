package main

import (
	"bufio"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/yungbote/roastmycode-backend/internal/progress"
)

var challengeCmd = &cobra.Command{
	Use:   "challenge",
	Short: "Show or play today's debugging challenge",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := openTerminalEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer env.closer.Close()

		out := cmd.OutOrStdout()
		now := env.clock.Now()
		state, err := env.progress.Challenges.State(cmd.Context())
		if err != nil {
			return err
		}
		if !challengePlay {
			printChallenge(out, progress.TodaysChallenge(now))
			fmt.Fprintf(out, "\nCompleted today: %t  Streak: %d  Total: %d\n", state.CompletedToday, state.CurrentStreak, state.TotalCompleted)
			fmt.Fprintf(out, "Next challenge in %s\n", progress.FormatCountdown(progress.TimeUntilNext(now)))
			return nil
		}
		challengeMode = true
		return runRoast(cmd.Context(), out, bufio.NewReader(cmd.InOrStdin()), env)
	},
}

var challengePlay bool

func init() {
	challengeCmd.Flags().BoolVar(&challengePlay, "play", false, "roast today's buggy snippet and take the quiz")
}

func printChallenge(out io.Writer, c progress.Challenge) {
	fmt.Fprintf(out, "🎯 %s [%s, %s]\n%s\n\n%s\n", c.Title, c.Language.Label(), c.Difficulty, c.Description, c.BuggyCode)
	if c.Hint != "" {
		fmt.Fprintf(out, "Hint: %s\n", c.Hint)
	}
}
