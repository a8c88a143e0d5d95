package store

import (
	"context"
	"sync"
)

// MemoryStore keeps everything in process memory. Used by tests and by
// the explicit no-persistence mode; data is lost on restart.
type MemoryStore struct {
	mu       sync.Mutex
	metrics  map[string]*VariantMetrics
	uniques  map[string]map[string]struct{}
	events   map[string]Event
	eventIDs []string // most recent first
	leads    map[string]Lead
	leadIDs  []string // most recent first
}

func NewMemory() *MemoryStore {
	return &MemoryStore{
		metrics: make(map[string]*VariantMetrics),
		uniques: make(map[string]map[string]struct{}),
		events:  make(map[string]Event),
		leads:   make(map[string]Lead),
	}
}

func (s *MemoryStore) Kind() string { return "memory" }

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) SaveEvent(ctx context.Context, ev *Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events[ev.ID] = *ev
	s.eventIDs = append([]string{ev.ID}, s.eventIDs...)
	return nil
}

func (s *MemoryStore) IncrMetric(ctx context.Context, period, variant, field string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := period + ":" + variant
	m, ok := s.metrics[key]
	if !ok {
		m = &VariantMetrics{}
		s.metrics[key] = m
	}
	switch field {
	case FieldImpressions:
		m.Impressions++
	case FieldConversions:
		m.Conversions++
	}
	return nil
}

func (s *MemoryStore) AddUnique(ctx context.Context, kind, period, variant, visitorID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := kind + ":" + period + ":" + variant
	set, ok := s.uniques[key]
	if !ok {
		set = make(map[string]struct{})
		s.uniques[key] = set
	}
	set[visitorID] = struct{}{}
	return nil
}

func (s *MemoryStore) Metrics(ctx context.Context, period, variant string) (VariantMetrics, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if m, ok := s.metrics[period+":"+variant]; ok {
		return *m, nil
	}
	return VariantMetrics{}, nil
}

func (s *MemoryStore) UniqueCount(ctx context.Context, kind, period, variant string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return int64(len(s.uniques[kind+":"+period+":"+variant])), nil
}

func (s *MemoryStore) SaveLead(ctx context.Context, lead *Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leads[lead.ID] = *lead
	s.leadIDs = append([]string{lead.ID}, s.leadIDs...)
	return nil
}

func (s *MemoryStore) Lead(ctx context.Context, id string) (*Lead, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	lead, ok := s.leads[id]
	if !ok {
		return nil, ErrNotFound
	}
	lead.ID = id
	return &lead, nil
}

func (s *MemoryStore) UpdateLead(ctx context.Context, lead *Lead) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.leads[lead.ID]; !ok {
		return ErrNotFound
	}
	s.leads[lead.ID] = *lead
	return nil
}

func (s *MemoryStore) RecentLeads(ctx context.Context, limit int) ([]*Lead, error) {
	if limit <= 0 {
		return nil, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	n := limit
	if n > len(s.leadIDs) {
		n = len(s.leadIDs)
	}
	leads := make([]*Lead, 0, n)
	for _, id := range s.leadIDs[:n] {
		lead := s.leads[id]
		lead.ID = id
		leads = append(leads, &lead)
	}
	return leads, nil
}
