package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yungbote/roastmycode-backend/internal/platform/envutil"
	"github.com/yungbote/roastmycode-backend/internal/platform/logger"
)

var (
	logMode string
	log     *logger.Logger
)

var rootCmd = &cobra.Command{
	Use:   "roastmycode",
	Short: "Roast My Code API server and terminal client",
	Long: `roastmycode serves the code-roasting API and ships a terminal client
that drives the same roast, quiz and daily-challenge workflow.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if log != nil {
			return nil
		}
		l, err := logger.New(logMode)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		log = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			log.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&logMode, "log-mode", envutil.String("LOG_MODE", "development"), "development or production logging")
	rootCmd.AddCommand(serveCmd, roastCmd, challengeCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
