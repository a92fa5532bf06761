package main

import (
	"github.com/spf13/cobra"

	"github.com/yungbote/roastmycode-backend/internal/app"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create the kv table for the postgres or sqlite backend",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := app.LoadEnvFile(); err != nil {
			log.Warn("could not load .env", "error", err)
		}
		cfg := app.LoadConfig(log)
		return app.Migrate(cmd.Context(), log, cfg)
	},
}
