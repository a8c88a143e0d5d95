package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leadline-hq/leadline/internal/config"
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Show the dashboard URL with the access token",
	Long: `Show the dashboard URL with the configured stats token.

Example:
  leadline token`,
	RunE: runToken,
}

func init() {
	rootCmd.AddCommand(tokenCmd)
}

func runToken(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if cfg.Stats.Token == "" {
		fmt.Println("No stats token configured; /stats is open.")
		fmt.Println("Set LEADLINE_STATS_TOKEN (or run 'leadline init') to protect it.")
		return nil
	}

	fmt.Printf("Dashboard: http://localhost:%d/stats?token=%s\n", cfg.App.Port, cfg.Stats.Token)
	return nil
}
