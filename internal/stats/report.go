package stats

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/leadline-hq/leadline/internal/store"
)

// Display names shown on the dashboard and in the API.
const (
	VariantNameA = "Variant A (Safety Focus)"
	VariantNameB = "Variant B (Value Focus)"
)

// DefaultLeadLimit bounds the recent-leads projection.
const DefaultLeadLimit = 10

// VariantReport is the per-variant slice of the stats payload.
type VariantReport struct {
	Name             string `json:"name"`
	Impressions      int64  `json:"impressions"`
	Conversions      int64  `json:"conversions"`
	UniqueVisitors   int64  `json:"uniqueVisitors"`
	UniqueConverters int64  `json:"uniqueConverters"`
	ConversionRate   string `json:"conversionRate"`
}

// LeadSummary is the reduced lead view exposed by the report.
type LeadSummary struct {
	ID         string `json:"id"`
	Phone      string `json:"phone"`
	Variant    string `json:"variant"`
	Timestamp  string `json:"timestamp"`
	CallStatus string `json:"callStatus,omitempty"`
}

// Report is the full stats payload for one period.
type Report struct {
	Period       string                   `json:"period"`
	LastUpdated  string                   `json:"lastUpdated"`
	Variants     map[string]VariantReport `json:"variants"`
	Significance Result                   `json:"significance"`
	Winner       *string                  `json:"winner"`
	RecentLeads  []LeadSummary            `json:"recentLeads"`
}

// Reporter aggregates counters and recent leads into a Report. Backend
// read failures degrade to zeroed metrics and an empty lead list; a
// report request never fails outright.
type Reporter struct {
	store     store.Store
	log       zerolog.Logger
	leadLimit int
	now       func() time.Time
}

func NewReporter(s store.Store, log zerolog.Logger) *Reporter {
	return &Reporter{
		store:     s,
		log:       log,
		leadLimit: DefaultLeadLimit,
		now:       time.Now,
	}
}

// Report builds the stats payload for the given period ("total" or a
// YYYY-MM-DD date).
func (r *Reporter) Report(ctx context.Context, period string) Report {
	if period == "" {
		period = store.PeriodTotal
	}

	a := r.variantReport(ctx, period, store.VariantA, VariantNameA)
	b := r.variantReport(ctx, period, store.VariantB, VariantNameB)

	sig := Significance(
		Counts{Impressions: a.Impressions, Conversions: a.Conversions},
		Counts{Impressions: b.Impressions, Conversions: b.Conversions},
	)

	var winner *string
	if sig.Significant {
		label := "B"
		if parseRate(a.ConversionRate) > parseRate(b.ConversionRate) {
			label = "A"
		}
		winner = &label
	}

	return Report{
		Period:       period,
		LastUpdated:  r.now().UTC().Format(time.RFC3339),
		Variants:     map[string]VariantReport{store.VariantA: a, store.VariantB: b},
		Significance: sig,
		Winner:       winner,
		RecentLeads:  r.recentLeads(ctx),
	}
}

func (r *Reporter) variantReport(ctx context.Context, period, variant, name string) VariantReport {
	report := VariantReport{Name: name, ConversionRate: "0.00"}

	metrics, err := r.store.Metrics(ctx, period, variant)
	if err != nil {
		r.log.Warn().Err(err).Str("variant", variant).Str("period", period).
			Msg("metrics read failed, reporting zeros")
		return report
	}
	report.Impressions = metrics.Impressions
	report.Conversions = metrics.Conversions
	report.ConversionRate = ConversionRate(metrics.Impressions, metrics.Conversions)

	if visitors, err := r.store.UniqueCount(ctx, store.SetVisitors, period, variant); err == nil {
		report.UniqueVisitors = visitors
	} else {
		r.log.Warn().Err(err).Str("variant", variant).Msg("visitor count read failed")
	}
	if converters, err := r.store.UniqueCount(ctx, store.SetConverters, period, variant); err == nil {
		report.UniqueConverters = converters
	} else {
		r.log.Warn().Err(err).Str("variant", variant).Msg("converter count read failed")
	}
	return report
}

func (r *Reporter) recentLeads(ctx context.Context) []LeadSummary {
	summaries := make([]LeadSummary, 0, r.leadLimit)
	leads, err := r.store.RecentLeads(ctx, r.leadLimit)
	if err != nil {
		r.log.Warn().Err(err).Msg("recent leads read failed, reporting none")
		return summaries
	}
	for _, lead := range leads {
		summaries = append(summaries, LeadSummary{
			ID:         lead.ID,
			Phone:      lead.Phone,
			Variant:    lead.Variant,
			Timestamp:  lead.Timestamp,
			CallStatus: lead.CallStatus,
		})
	}
	return summaries
}

func parseRate(rate string) float64 {
	v, err := strconv.ParseFloat(rate, 64)
	if err != nil {
		return 0
	}
	return v
}
