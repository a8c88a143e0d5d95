// Package track ingests impression and conversion events and maintains
// the per-day and all-time aggregates behind the stats report.
package track

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/leadline-hq/leadline/internal/ids"
	"github.com/leadline-hq/leadline/internal/store"
)

// Result is what callers get back. Tracking never fails from the
// caller's point of view: backend errors are logged and swallowed so a
// broken counter can never break a page view or a form submit.
type Result struct {
	Success bool   `json:"success"`
	EventID string `json:"eventId"`
}

type Tracker struct {
	store store.Store
	log   zerolog.Logger
	now   func() time.Time
}

func New(s store.Store, log zerolog.Logger) *Tracker {
	return &Tracker{store: s, log: log, now: time.Now}
}

// Track persists the raw event and bumps the aggregates for its
// variant. Impressions and conversions each increment both the current
// UTC date's counters and the all-time counters, and insert the visitor
// into the matching unique set; the total counters are therefore always
// the sum of the daily ones. Unknown event types are stored raw and
// leave the aggregates alone.
func (t *Tracker) Track(ctx context.Context, ev *store.Event) Result {
	ev.ID = ids.New("event")
	ev.StoredAt = t.now().UTC().Format(time.RFC3339)

	if err := t.store.SaveEvent(ctx, ev); err != nil {
		t.log.Warn().Err(err).Str("event_type", ev.EventType).Str("variant", ev.Variant).
			Msg("event not persisted, tracking dropped")
		return Result{Success: true, EventID: ev.ID}
	}

	dateKey := t.now().UTC().Format("2006-01-02")

	switch ev.EventType {
	case store.EventImpression:
		t.bump(ctx, dateKey, ev.Variant, store.FieldImpressions, store.SetVisitors, ev.VisitorID)
	case store.EventConversion:
		t.bump(ctx, dateKey, ev.Variant, store.FieldConversions, store.SetConverters, ev.VisitorID)
	}

	t.log.Debug().Str("event_id", ev.ID).Str("event_type", ev.EventType).
		Str("variant", ev.Variant).Msg("event tracked")
	return Result{Success: true, EventID: ev.ID}
}

func (t *Tracker) bump(ctx context.Context, dateKey, variant, field, setKind, visitorID string) {
	for _, period := range []string{dateKey, store.PeriodTotal} {
		if err := t.store.IncrMetric(ctx, period, variant, field); err != nil {
			t.log.Warn().Err(err).Str("period", period).Str("field", field).
				Msg("metric increment failed")
		}
		if err := t.store.AddUnique(ctx, setKind, period, variant, visitorID); err != nil {
			t.log.Warn().Err(err).Str("period", period).Str("set", setKind).
				Msg("unique set add failed")
		}
	}
}
