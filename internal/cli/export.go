package cli

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/leadline-hq/leadline/internal/config"
	"github.com/leadline-hq/leadline/internal/store"
)

var (
	exportFormat string
	exportLimit  int
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export captured leads",
	Long: `Export stored leads in CSV or JSON format, most recent first.

Examples:
  leadline export --format csv > leads.csv
  leadline export --format json --limit 500 > leads.json`,
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "csv", "output format (csv or json)")
	exportCmd.Flags().IntVarP(&exportLimit, "limit", "n", 100, "maximum number of leads")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	if exportFormat != "csv" && exportFormat != "json" {
		return fmt.Errorf("invalid format: must be 'csv' or 'json'")
	}

	return withStore(func(cfg *config.Config, s store.Store) error {
		leads, err := s.RecentLeads(context.Background(), exportLimit)
		if err != nil {
			return fmt.Errorf("failed to read leads: %w", err)
		}

		if exportFormat == "csv" {
			return exportCSV(leads)
		}
		return exportJSON(leads)
	})
}

func exportCSV(leads []*store.Lead) error {
	w := csv.NewWriter(os.Stdout)
	defer w.Flush()

	header := []string{"id", "phone", "variant", "visitor_id", "timestamp", "created_at", "status", "call_status"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}

	for _, lead := range leads {
		row := []string{
			lead.ID,
			lead.Phone,
			lead.Variant,
			lead.VisitorID,
			lead.Timestamp,
			lead.CreatedAt,
			lead.Status,
			lead.CallStatus,
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}
	return nil
}

type jsonLead struct {
	ID         string `json:"id"`
	Phone      string `json:"phone"`
	Variant    string `json:"variant"`
	VisitorID  string `json:"visitor_id"`
	Timestamp  string `json:"timestamp"`
	CreatedAt  string `json:"created_at"`
	Status     string `json:"status"`
	CallStatus string `json:"call_status,omitempty"`
}

func exportJSON(leads []*store.Lead) error {
	out := struct {
		Leads []jsonLead `json:"leads"`
	}{Leads: make([]jsonLead, len(leads))}

	for i, lead := range leads {
		out.Leads[i] = jsonLead{
			ID:         lead.ID,
			Phone:      lead.Phone,
			Variant:    lead.Variant,
			VisitorID:  lead.VisitorID,
			Timestamp:  lead.Timestamp,
			CreatedAt:  lead.CreatedAt,
			Status:     lead.Status,
			CallStatus: lead.CallStatus,
		}
	}

	encoder := json.NewEncoder(os.Stdout)
	encoder.SetIndent("", "  ")
	return encoder.Encode(out)
}
