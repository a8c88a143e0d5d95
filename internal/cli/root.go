package cli

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "leadline",
	Short: "Leadline - lead capture and A/B testing backend for landing pages",
	Long: `Leadline is a self-hosted lead-capture and A/B testing backend for
marketing landing pages. Single Go binary; Redis for production or
embedded SQLite for single-host setups.

Running without a subcommand starts the server (same as 'leadline serve').`,
	RunE: runServe,
}

func Execute() error {
	// Best effort: absent .env means plain environment config.
	_ = godotenv.Load()
	return rootCmd.Execute()
}
