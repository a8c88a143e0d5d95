package stats_test

import (
	"strconv"
	"testing"

	"github.com/leadline-hq/leadline/internal/stats"
)

func TestSignificance_InsufficientData(t *testing.T) {
	cases := []struct {
		name string
		a, b stats.Counts
	}{
		{"both empty", stats.Counts{}, stats.Counts{}},
		{"a empty", stats.Counts{}, stats.Counts{Impressions: 100, Conversions: 10}},
		{"b empty", stats.Counts{Impressions: 100, Conversions: 10}, stats.Counts{}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			res := stats.Significance(tc.a, tc.b)
			if res.Significant {
				t.Error("expected not significant")
			}
			if res.PValue != nil {
				t.Errorf("expected nil p-value, got %s", *res.PValue)
			}
			if res.Message != "Insufficient data" {
				t.Errorf("got message %q", res.Message)
			}
		})
	}
}

func TestSignificance_NoVariance(t *testing.T) {
	// Zero conversions on both sides: pooled rate 0, zero standard error.
	res := stats.Significance(
		stats.Counts{Impressions: 100},
		stats.Counts{Impressions: 200},
	)
	if res.Significant {
		t.Error("expected not significant")
	}
	if res.PValue != nil {
		t.Errorf("expected nil p-value, got %s", *res.PValue)
	}
	if res.Message != "No variance" {
		t.Errorf("got message %q", res.Message)
	}

	// Everyone converting is the other degenerate case.
	res = stats.Significance(
		stats.Counts{Impressions: 50, Conversions: 50},
		stats.Counts{Impressions: 50, Conversions: 50},
	)
	if res.Message != "No variance" {
		t.Errorf("got message %q", res.Message)
	}
}

func TestSignificance_ClearWinner(t *testing.T) {
	// 10% vs 20% over 1000 impressions each is far past alpha 0.05.
	res := stats.Significance(
		stats.Counts{Impressions: 1000, Conversions: 100},
		stats.Counts{Impressions: 1000, Conversions: 200},
	)
	if !res.Significant {
		t.Fatal("expected significant result")
	}
	if res.Message != "Statistically significant!" {
		t.Errorf("got message %q", res.Message)
	}
	if res.PValue == nil {
		t.Fatal("expected p-value")
	}
	p, err := strconv.ParseFloat(*res.PValue, 64)
	if err != nil {
		t.Fatalf("p-value %q not parseable: %v", *res.PValue, err)
	}
	if p >= 0.05 {
		t.Errorf("p-value %f not below 0.05", p)
	}
	z, err := strconv.ParseFloat(res.ZScore, 64)
	if err != nil {
		t.Fatalf("z-score %q not parseable: %v", res.ZScore, err)
	}
	if z < 5 {
		t.Errorf("z-score %f unexpectedly small for a 2x rate gap", z)
	}
}

func TestSignificance_SmallSample(t *testing.T) {
	res := stats.Significance(
		stats.Counts{Impressions: 10, Conversions: 1},
		stats.Counts{Impressions: 10, Conversions: 2},
	)
	if res.Significant {
		t.Error("expected not significant for tiny samples")
	}
	if res.Message != "Not yet significant" {
		t.Errorf("got message %q", res.Message)
	}
	if res.PValue == nil {
		t.Fatal("expected p-value even when not significant")
	}
}

func TestSignificance_Symmetric(t *testing.T) {
	a := stats.Counts{Impressions: 500, Conversions: 40}
	b := stats.Counts{Impressions: 520, Conversions: 75}

	ab := stats.Significance(a, b)
	ba := stats.Significance(b, a)

	if ab.Significant != ba.Significant {
		t.Error("significance differs after swapping variants")
	}
	if *ab.PValue != *ba.PValue {
		t.Errorf("p-value differs: %s vs %s", *ab.PValue, *ba.PValue)
	}
	if ab.ZScore != ba.ZScore {
		t.Errorf("z-score differs: %s vs %s", ab.ZScore, ba.ZScore)
	}
}

func TestConversionRate(t *testing.T) {
	cases := []struct {
		impressions int64
		conversions int64
		want        string
	}{
		{0, 0, "0.00"},
		{0, 5, "0.00"},
		{100, 0, "0.00"},
		{100, 10, "10.00"},
		{3, 1, "33.33"},
		{8, 1, "12.50"},
		{200, 200, "100.00"},
	}

	for _, tc := range cases {
		if got := stats.ConversionRate(tc.impressions, tc.conversions); got != tc.want {
			t.Errorf("ConversionRate(%d, %d) = %q, want %q", tc.impressions, tc.conversions, got, tc.want)
		}
	}
}
