package stats_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"

	"github.com/leadline-hq/leadline/internal/stats"
	"github.com/leadline-hq/leadline/internal/store"
)

func seedVariant(t *testing.T, s store.Store, variant string, impressions, conversions int) {
	t.Helper()
	ctx := context.Background()
	for i := 0; i < impressions; i++ {
		if err := s.IncrMetric(ctx, store.PeriodTotal, variant, store.FieldImpressions); err != nil {
			t.Fatalf("incr impressions: %v", err)
		}
	}
	for i := 0; i < conversions; i++ {
		if err := s.IncrMetric(ctx, store.PeriodTotal, variant, store.FieldConversions); err != nil {
			t.Fatalf("incr conversions: %v", err)
		}
	}
}

func TestReport_Basic(t *testing.T) {
	s := store.NewMemory()
	seedVariant(t, s, store.VariantA, 100, 10)
	seedVariant(t, s, store.VariantB, 100, 12)

	ctx := context.Background()
	s.AddUnique(ctx, store.SetVisitors, store.PeriodTotal, store.VariantA, "v1")
	s.AddUnique(ctx, store.SetVisitors, store.PeriodTotal, store.VariantA, "v2")
	s.AddUnique(ctx, store.SetVisitors, store.PeriodTotal, store.VariantA, "v1")
	s.AddUnique(ctx, store.SetConverters, store.PeriodTotal, store.VariantA, "v1")

	r := stats.NewReporter(s, zerolog.Nop())
	report := r.Report(ctx, "")

	if report.Period != store.PeriodTotal {
		t.Errorf("empty period should default to total, got %q", report.Period)
	}

	a := report.Variants[store.VariantA]
	if a.Name != stats.VariantNameA {
		t.Errorf("variant a name %q", a.Name)
	}
	if a.Impressions != 100 || a.Conversions != 10 {
		t.Errorf("variant a counters %d/%d", a.Impressions, a.Conversions)
	}
	if a.ConversionRate != "10.00" {
		t.Errorf("variant a rate %q", a.ConversionRate)
	}
	if a.UniqueVisitors != 2 || a.UniqueConverters != 1 {
		t.Errorf("variant a uniques %d/%d", a.UniqueVisitors, a.UniqueConverters)
	}

	b := report.Variants[store.VariantB]
	if b.Name != stats.VariantNameB {
		t.Errorf("variant b name %q", b.Name)
	}
	if b.ConversionRate != "12.00" {
		t.Errorf("variant b rate %q", b.ConversionRate)
	}

	// 10% vs 12% over 100 each is nowhere near significant.
	if report.Winner != nil {
		t.Errorf("expected no winner, got %s", *report.Winner)
	}
	if report.RecentLeads == nil {
		t.Error("recentLeads must be a non-nil slice")
	}
	if report.LastUpdated == "" {
		t.Error("lastUpdated missing")
	}
}

func TestReport_WinnerWhenSignificant(t *testing.T) {
	s := store.NewMemory()
	seedVariant(t, s, store.VariantA, 1000, 100)
	seedVariant(t, s, store.VariantB, 1000, 200)

	r := stats.NewReporter(s, zerolog.Nop())
	report := r.Report(context.Background(), store.PeriodTotal)

	if !report.Significance.Significant {
		t.Fatal("expected significance")
	}
	if report.Winner == nil || *report.Winner != "B" {
		t.Fatalf("expected winner B, got %v", report.Winner)
	}

	// Flip the rates and the winner flips.
	s2 := store.NewMemory()
	seedVariant(t, s2, store.VariantA, 1000, 200)
	seedVariant(t, s2, store.VariantB, 1000, 100)
	report = stats.NewReporter(s2, zerolog.Nop()).Report(context.Background(), store.PeriodTotal)
	if report.Winner == nil || *report.Winner != "A" {
		t.Fatalf("expected winner A, got %v", report.Winner)
	}
}

func TestReport_RecentLeads(t *testing.T) {
	s := store.NewMemory()
	ctx := context.Background()
	for i := 0; i < 15; i++ {
		lead := &store.Lead{
			ID:      "lead_" + string(rune('a'+i)),
			Phone:   "1234567890",
			Variant: store.VariantA,
			Status:  store.StatusPendingCall,
		}
		if err := s.SaveLead(ctx, lead); err != nil {
			t.Fatalf("save lead: %v", err)
		}
	}

	report := stats.NewReporter(s, zerolog.Nop()).Report(ctx, store.PeriodTotal)
	if len(report.RecentLeads) != stats.DefaultLeadLimit {
		t.Fatalf("got %d leads, want %d", len(report.RecentLeads), stats.DefaultLeadLimit)
	}
	// Most recent first.
	if report.RecentLeads[0].ID != "lead_o" {
		t.Errorf("first lead %q, want the newest", report.RecentLeads[0].ID)
	}
}

// brokenStore fails every read; writes succeed so it can stand in for a
// backend that degraded mid-flight.
type brokenStore struct {
	*store.MemoryStore
}

var errBackend = errors.New("backend down")

func (b brokenStore) Metrics(ctx context.Context, period, variant string) (store.VariantMetrics, error) {
	return store.VariantMetrics{}, errBackend
}

func (b brokenStore) UniqueCount(ctx context.Context, kind, period, variant string) (int64, error) {
	return 0, errBackend
}

func (b brokenStore) RecentLeads(ctx context.Context, limit int) ([]*store.Lead, error) {
	return nil, errBackend
}

func TestReport_DegradedBackend(t *testing.T) {
	s := brokenStore{store.NewMemory()}
	report := stats.NewReporter(s, zerolog.Nop()).Report(context.Background(), store.PeriodTotal)

	a := report.Variants[store.VariantA]
	if a.Impressions != 0 || a.Conversions != 0 {
		t.Errorf("expected zeroed counters, got %d/%d", a.Impressions, a.Conversions)
	}
	if a.ConversionRate != "0.00" {
		t.Errorf("expected 0.00 rate, got %q", a.ConversionRate)
	}
	if report.Significance.Message != "Insufficient data" {
		t.Errorf("got message %q", report.Significance.Message)
	}
	if report.RecentLeads == nil || len(report.RecentLeads) != 0 {
		t.Errorf("expected empty non-nil leads, got %v", report.RecentLeads)
	}
}

func TestReport_JSONShape(t *testing.T) {
	s := store.NewMemory()
	seedVariant(t, s, store.VariantA, 10, 1)
	seedVariant(t, s, store.VariantB, 10, 1)

	report := stats.NewReporter(s, zerolog.Nop()).Report(context.Background(), store.PeriodTotal)
	raw, err := json.Marshal(report)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	var decoded map[string]json.RawMessage
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	for _, key := range []string{"period", "lastUpdated", "variants", "significance", "winner", "recentLeads"} {
		if _, ok := decoded[key]; !ok {
			t.Errorf("payload missing %q", key)
		}
	}
	// Winner is an explicit null until significance is reached.
	if string(decoded["winner"]) != "null" {
		t.Errorf("winner = %s, want null", decoded["winner"])
	}
}
