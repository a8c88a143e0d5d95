package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteStore is the embedded backend used when no Redis URL is
// configured. Same operations, local file, single binary.
type SQLiteStore struct {
	db *sql.DB
}

const schema = `
CREATE TABLE IF NOT EXISTS metrics (
    period TEXT NOT NULL,
    variant TEXT NOT NULL,
    impressions INTEGER NOT NULL DEFAULT 0,
    conversions INTEGER NOT NULL DEFAULT 0,
    PRIMARY KEY (period, variant)
);

CREATE TABLE IF NOT EXISTS uniques (
    kind TEXT NOT NULL,
    period TEXT NOT NULL,
    variant TEXT NOT NULL,
    visitor_id TEXT NOT NULL,
    PRIMARY KEY (kind, period, variant, visitor_id)
);

CREATE TABLE IF NOT EXISTS events (
    id TEXT PRIMARY KEY,
    payload TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS leads (
    id TEXT PRIMARY KEY,
    variant TEXT NOT NULL,
    payload TEXT NOT NULL
);
`

func OpenSQLite(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Kind() string { return "sqlite" }

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) SaveEvent(ctx context.Context, ev *Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO events (id, payload) VALUES (?, ?)`, ev.ID, string(payload))
	if err != nil {
		return fmt.Errorf("storing event: %w", err)
	}
	return nil
}

// counterColumn maps a metric field name to its column, rejecting
// anything outside the two known counters.
func counterColumn(field string) (string, error) {
	switch field {
	case FieldImpressions, FieldConversions:
		return field, nil
	}
	return "", fmt.Errorf("unknown metric field %q", field)
}

func (s *SQLiteStore) IncrMetric(ctx context.Context, period, variant, field string) error {
	column, err := counterColumn(field)
	if err != nil {
		return err
	}
	query := fmt.Sprintf(
		`INSERT INTO metrics (period, variant, %s) VALUES (?, ?, 1)
		 ON CONFLICT(period, variant) DO UPDATE SET %s = %s + 1`,
		column, column, column)
	if _, err := s.db.ExecContext(ctx, query, period, variant); err != nil {
		return fmt.Errorf("incrementing %s: %w", field, err)
	}
	return nil
}

func (s *SQLiteStore) AddUnique(ctx context.Context, kind, period, variant, visitorID string) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO uniques (kind, period, variant, visitor_id) VALUES (?, ?, ?, ?)`,
		kind, period, variant, visitorID)
	if err != nil {
		return fmt.Errorf("adding unique visitor: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Metrics(ctx context.Context, period, variant string) (VariantMetrics, error) {
	var m VariantMetrics
	err := s.db.QueryRowContext(ctx,
		`SELECT impressions, conversions FROM metrics WHERE period = ? AND variant = ?`,
		period, variant,
	).Scan(&m.Impressions, &m.Conversions)
	if errors.Is(err, sql.ErrNoRows) {
		return VariantMetrics{}, nil
	}
	if err != nil {
		return VariantMetrics{}, fmt.Errorf("reading metrics: %w", err)
	}
	return m, nil
}

func (s *SQLiteStore) UniqueCount(ctx context.Context, kind, period, variant string) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM uniques WHERE kind = ? AND period = ? AND variant = ?`,
		kind, period, variant,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting uniques: %w", err)
	}
	return count, nil
}

func (s *SQLiteStore) SaveLead(ctx context.Context, lead *Lead) error {
	payload, err := json.Marshal(lead)
	if err != nil {
		return fmt.Errorf("marshaling lead: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO leads (id, variant, payload) VALUES (?, ?, ?)`,
		lead.ID, lead.Variant, string(payload))
	if err != nil {
		return fmt.Errorf("storing lead: %w", err)
	}
	return nil
}

func (s *SQLiteStore) Lead(ctx context.Context, id string) (*Lead, error) {
	var payload string
	err := s.db.QueryRowContext(ctx,
		`SELECT payload FROM leads WHERE id = ?`, id,
	).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("reading lead: %w", err)
	}
	var lead Lead
	if err := json.Unmarshal([]byte(payload), &lead); err != nil {
		return nil, fmt.Errorf("unmarshaling lead: %w", err)
	}
	lead.ID = id
	return &lead, nil
}

func (s *SQLiteStore) UpdateLead(ctx context.Context, lead *Lead) error {
	payload, err := json.Marshal(lead)
	if err != nil {
		return fmt.Errorf("marshaling lead: %w", err)
	}
	result, err := s.db.ExecContext(ctx,
		`UPDATE leads SET payload = ? WHERE id = ?`, string(payload), lead.ID)
	if err != nil {
		return fmt.Errorf("updating lead: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("checking update: %w", err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) RecentLeads(ctx context.Context, limit int) ([]*Lead, error) {
	// A negative LIMIT means unlimited to SQLite; treat it as empty
	// like the other backends.
	if limit <= 0 {
		return nil, nil
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, payload FROM leads ORDER BY rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing leads: %w", err)
	}
	defer rows.Close()

	var leads []*Lead
	for rows.Next() {
		var id, payload string
		if err := rows.Scan(&id, &payload); err != nil {
			return nil, fmt.Errorf("scanning lead: %w", err)
		}
		var lead Lead
		if err := json.Unmarshal([]byte(payload), &lead); err != nil {
			return nil, fmt.Errorf("unmarshaling lead: %w", err)
		}
		lead.ID = id
		leads = append(leads, &lead)
	}
	return leads, rows.Err()
}
