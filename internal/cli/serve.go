package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leadline-hq/leadline/internal/config"
	"github.com/leadline-hq/leadline/internal/leads"
	"github.com/leadline-hq/leadline/internal/logging"
	"github.com/leadline-hq/leadline/internal/retell"
	"github.com/leadline-hq/leadline/internal/server"
	"github.com/leadline-hq/leadline/internal/stats"
	"github.com/leadline-hq/leadline/internal/track"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Start the leadline HTTP server.

The server provides:
  - /track    event ingestion (impressions, conversions)
  - /submit   lead capture with outbound call trigger
  - /stats    JSON stats or HTML dashboard (token-protected if configured)
  - /assign   cookie-based variant assignment for no-JS embeds
  - /lp.js    embeddable client script
  - /health   health check

Example:
  leadline serve`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logging.New(cfg.App.LogLevel, cfg.App.LogFormat, "leadline")

	s, err := openStore(context.Background(), cfg)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer s.Close()

	caller := retell.New(cfg.Retell.BaseURL, cfg.Retell.APIKey, cfg.Retell.AgentID, cfg.Retell.FromNumber)
	if !caller.Configured() {
		log.Warn().Msg("retell credentials not configured; leads will be captured without call triggers")
	}
	if cfg.Stats.Token == "" {
		log.Warn().Msg("no stats token configured; /stats is open")
	}

	srv := server.New(server.Options{
		Store:      s,
		Tracker:    track.New(s, log),
		Pipeline:   leads.New(s, caller, log),
		Reporter:   stats.NewReporter(s, log),
		Log:        log,
		StatsToken: cfg.Stats.Token,
		Port:       cfg.App.Port,
	})

	dashboardURL := fmt.Sprintf("http://localhost:%d/stats", cfg.App.Port)
	if cfg.Stats.Token != "" {
		dashboardURL += "?token=" + cfg.Stats.Token
	}
	log.Info().Str("dashboard", dashboardURL).Str("backend", s.Kind()).Msg("starting")

	return srv.Start()
}
