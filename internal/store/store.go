package store

import (
	"context"
	"errors"
)

var ErrNotFound = errors.New("not found")

// Store is the key-value backend behind tracking, leads and stats.
// Every mutation maps to a single atomic backend operation (counter
// increment, set add, key write); no implementation needs cross-key
// transactions. Implementations: Redis (production), SQLite (embedded
// single-binary mode) and Memory (tests, ephemeral mode).
type Store interface {
	// Event operations
	SaveEvent(ctx context.Context, ev *Event) error
	IncrMetric(ctx context.Context, period, variant, field string) error
	AddUnique(ctx context.Context, kind, period, variant, visitorID string) error

	// Aggregate reads
	Metrics(ctx context.Context, period, variant string) (VariantMetrics, error)
	UniqueCount(ctx context.Context, kind, period, variant string) (int64, error)

	// Lead operations
	SaveLead(ctx context.Context, lead *Lead) error
	Lead(ctx context.Context, id string) (*Lead, error)
	UpdateLead(ctx context.Context, lead *Lead) error
	RecentLeads(ctx context.Context, limit int) ([]*Lead, error)

	// Lifecycle
	Kind() string
	Ping(ctx context.Context) error
	Close() error
}
