package store

import "testing"

// The key layout is a compatibility contract; a rename silently
// orphans existing data.
func TestRedisKeyLayout(t *testing.T) {
	cases := []struct {
		got  string
		want string
	}{
		{metricsKey("total", VariantA), "metrics:total:a"},
		{metricsKey("2026-08-29", VariantB), "metrics:2026-08-29:b"},
		{uniqueKey(SetVisitors, "total", VariantA), "visitors:total:a"},
		{uniqueKey(SetConverters, "2026-08-29", VariantB), "converters:2026-08-29:b"},
		{leadsVariantKey(VariantA), "leads:variant:a"},
		{eventsListKey, "events:all"},
		{leadsListKey, "leads:all"},
	}

	for _, tc := range cases {
		if tc.got != tc.want {
			t.Errorf("key %q, want %q", tc.got, tc.want)
		}
	}
}

func TestParseCounter(t *testing.T) {
	if parseCounter("") != 0 {
		t.Error("empty string should parse to 0")
	}
	if parseCounter("42") != 42 {
		t.Error("expected 42")
	}
	if parseCounter("garbage") != 0 {
		t.Error("unparseable value should fall back to 0")
	}
}
