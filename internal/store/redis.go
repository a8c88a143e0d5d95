package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// Key layout is a compatibility contract with existing dashboard
// tooling: metrics:<period>:<variant> (hash with
// impressions/conversions fields), visitors:<period>:<variant> and
// converters:<period>:<variant> (sets), events:all and leads:all
// (lists, most recent pushed first), leads:variant:<variant> (list),
// and raw event/lead documents addressed by their generated id.
const (
	eventsListKey = "events:all"
	leadsListKey  = "leads:all"
)

func metricsKey(period, variant string) string {
	return fmt.Sprintf("metrics:%s:%s", period, variant)
}

func uniqueKey(kind, period, variant string) string {
	return fmt.Sprintf("%s:%s:%s", kind, period, variant)
}

func leadsVariantKey(variant string) string {
	return fmt.Sprintf("leads:variant:%s", variant)
}

// RedisStore is the production backend.
type RedisStore struct {
	client *redis.Client
}

// OpenRedis connects using a redis:// URL and verifies connectivity.
func OpenRedis(ctx context.Context, url string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parsing redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return &RedisStore{client: client}, nil
}

func (s *RedisStore) Kind() string { return "redis" }

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}

func (s *RedisStore) SaveEvent(ctx context.Context, ev *Event) error {
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("marshaling event: %w", err)
	}
	if err := s.client.Set(ctx, ev.ID, payload, 0).Err(); err != nil {
		return fmt.Errorf("storing event: %w", err)
	}
	if err := s.client.LPush(ctx, eventsListKey, ev.ID).Err(); err != nil {
		return fmt.Errorf("appending event id: %w", err)
	}
	return nil
}

func (s *RedisStore) IncrMetric(ctx context.Context, period, variant, field string) error {
	return s.client.HIncrBy(ctx, metricsKey(period, variant), field, 1).Err()
}

func (s *RedisStore) AddUnique(ctx context.Context, kind, period, variant, visitorID string) error {
	return s.client.SAdd(ctx, uniqueKey(kind, period, variant), visitorID).Err()
}

func (s *RedisStore) Metrics(ctx context.Context, period, variant string) (VariantMetrics, error) {
	fields, err := s.client.HGetAll(ctx, metricsKey(period, variant)).Result()
	if err != nil {
		return VariantMetrics{}, fmt.Errorf("reading metrics: %w", err)
	}
	return VariantMetrics{
		Impressions: parseCounter(fields[FieldImpressions]),
		Conversions: parseCounter(fields[FieldConversions]),
	}, nil
}

func (s *RedisStore) UniqueCount(ctx context.Context, kind, period, variant string) (int64, error) {
	count, err := s.client.SCard(ctx, uniqueKey(kind, period, variant)).Result()
	if err != nil {
		return 0, fmt.Errorf("reading set cardinality: %w", err)
	}
	return count, nil
}

func (s *RedisStore) SaveLead(ctx context.Context, lead *Lead) error {
	payload, err := json.Marshal(lead)
	if err != nil {
		return fmt.Errorf("marshaling lead: %w", err)
	}
	if err := s.client.Set(ctx, lead.ID, payload, 0).Err(); err != nil {
		return fmt.Errorf("storing lead: %w", err)
	}
	if err := s.client.LPush(ctx, leadsListKey, lead.ID).Err(); err != nil {
		return fmt.Errorf("appending lead id: %w", err)
	}
	if err := s.client.LPush(ctx, leadsVariantKey(lead.Variant), lead.ID).Err(); err != nil {
		return fmt.Errorf("appending lead id to variant list: %w", err)
	}
	return nil
}

func (s *RedisStore) Lead(ctx context.Context, id string) (*Lead, error) {
	payload, err := s.client.Get(ctx, id).Result()
	if errors.Is(err, redis.Nil) {
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

func (s *RedisStore) UpdateLead(ctx context.Context, lead *Lead) error {
	payload, err := json.Marshal(lead)
	if err != nil {
		return fmt.Errorf("marshaling lead: %w", err)
	}
	return s.client.Set(ctx, lead.ID, payload, 0).Err()
}

func (s *RedisStore) RecentLeads(ctx context.Context, limit int) ([]*Lead, error) {
	if limit <= 0 {
		return nil, nil
	}
	ids, err := s.client.LRange(ctx, leadsListKey, 0, int64(limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading lead list: %w", err)
	}
	leads := make([]*Lead, 0, len(ids))
	for _, id := range ids {
		lead, err := s.Lead(ctx, id)
		if errors.Is(err, ErrNotFound) {
			// Dangling list entry; keep the id so the report still
			// shows a row.
			leads = append(leads, &Lead{ID: id})
			continue
		}
		if err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, nil
}

func parseCounter(raw string) int64 {
	if raw == "" {
		return 0
	}
	n, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
