package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/leadline-hq/leadline/internal/config"
	"github.com/leadline-hq/leadline/internal/stats"
	"github.com/leadline-hq/leadline/internal/store"
)

var statsPeriod string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the A/B test report",
	Long: `Show impressions, conversions, conversion rates and statistical
significance for the experiment.

Examples:
  leadline stats
  leadline stats --period 2026-08-29`,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().StringVarP(&statsPeriod, "period", "p", store.PeriodTotal, "period (total or YYYY-MM-DD)")
	rootCmd.AddCommand(statsCmd)
}

func runStats(cmd *cobra.Command, args []string) error {
	return withStore(func(cfg *config.Config, s store.Store) error {
		report := buildReport(s, statsPeriod)
		printReport(report)
		return nil
	})
}

func buildReport(s store.Store, period string) stats.Report {
	reporter := stats.NewReporter(s, zerolog.Nop())
	return reporter.Report(context.Background(), period)
}

func printReport(report stats.Report) {
	fmt.Printf("PERIOD: %s\n", report.Period)
	fmt.Println()

	fmt.Println("VARIANT                     IMPRESSIONS  CONVERSIONS  RATE      UNIQUE")
	fmt.Println(strings.Repeat("-", 72))
	for _, key := range []string{store.VariantA, store.VariantB} {
		v := report.Variants[key]
		fmt.Printf("%-26s  %-11d  %-11d  %-7s%%  %d\n",
			v.Name, v.Impressions, v.Conversions, v.ConversionRate, v.UniqueVisitors)
	}
	fmt.Println()

	sig := report.Significance
	if sig.PValue != nil {
		fmt.Printf("Significance: %s (p=%s, z=%s)\n", sig.Message, *sig.PValue, sig.ZScore)
	} else {
		fmt.Printf("Significance: %s\n", sig.Message)
	}

	if report.Winner != nil {
		fmt.Printf("Winner: Variant %s\n", *report.Winner)
	}

	fmt.Println()
	fmt.Printf("Recent leads: %d\n", len(report.RecentLeads))
	for _, lead := range report.RecentLeads {
		status := lead.CallStatus
		if status == "" {
			status = "pending"
		}
		fmt.Printf("  %-14s  %-2s  %-25s  %s\n", lead.Phone, lead.Variant, lead.Timestamp, status)
	}
}
