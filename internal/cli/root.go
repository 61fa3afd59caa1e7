// Package cli wires the bot's subcommands: serve, migrate and seed.
package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "art-history-quiz-bot",
		Short: "Telegram quiz bot for art history exam preparation",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// .env is optional; deployments set real environment variables.
			_ = godotenv.Load()
		},
	}

	cmd.AddCommand(newServeCmd())
	cmd.AddCommand(newMigrateCmd())
	cmd.AddCommand(newSeedCmd())
	return cmd
}
