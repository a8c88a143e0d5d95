package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leadline-hq/leadline/internal/config"
	"github.com/leadline-hq/leadline/internal/store"
)

func init() {
	rootCmd.AddCommand(newWinnerCmd())
}

func newWinnerCmd() *cobra.Command {
	var period string

	cmd := &cobra.Command{
		Use:   "winner",
		Short: "Show the statistically significant winner, if any",
		Long: `Show which variant is winning, but only once the difference is
statistically significant (p < 0.05).

Example:
  leadline winner`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withStore(func(cfg *config.Config, s store.Store) error {
				report := buildReport(s, period)

				if report.Winner == nil {
					fmt.Printf("No winner yet: %s\n", report.Significance.Message)
					return nil
				}

				v := report.Variants[store.VariantA]
				if *report.Winner == "B" {
					v = report.Variants[store.VariantB]
				}
				fmt.Printf("Winner: %s\n", v.Name)
				fmt.Printf("Conversion rate: %s%% over %d impressions\n", v.ConversionRate, v.Impressions)
				if report.Significance.PValue != nil {
					fmt.Printf("p-value: %s\n", *report.Significance.PValue)
				}
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&period, "period", "p", store.PeriodTotal, "period (total or YYYY-MM-DD)")
	return cmd
}
