package core

import (
	"context"
	"time"

	"github.com/huangsam/readiness/internal/contract"
	"github.com/huangsam/readiness/schema"
)

// StoreHealthSource reads metrics previously captured in the history store.
type StoreHealthSource struct {
	store contract.HistoryStore
}

var _ contract.HealthSource = &StoreHealthSource{} // Compile-time check

// NewStoreHealthSource wraps a history store. A nil store never has data.
func NewStoreHealthSource(store contract.HistoryStore) *StoreHealthSource {
	return &StoreHealthSource{store: store}
}

// Fetch implements the HealthSource interface.
func (s *StoreHealthSource) Fetch(ctx context.Context, day time.Time) (*schema.MetricsRecord, error) {
	if s.store == nil {
		return nil, nil
	}
	m, err := s.store.GetMetrics(ctx, day)
	if err != nil || m == nil {
		return nil, err
	}
	if !m.HasAnyData() {
		return nil, nil
	}
	return m, nil
}
