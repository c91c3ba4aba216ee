package stats

import (
	"context"
	"encoding/json"
	"time"

	"github.com/openrelief/masterlist/pkg/common/logger"
)

// Overview is the dashboard aggregate for one owner's masterlists.
type Overview struct {
	TotalRecords     int64   `json:"total_records"`
	TotalPairs       int64   `json:"total_pairs"`
	ProcessedRecords int64   `json:"processed_records"`
	CleanRecords     int64   `json:"clean_records"`
	ConfirmedPairs   int64   `json:"confirmed_pairs"`
	PendingPairs     int64   `json:"pending_pairs"`
	ResolvedPairs    int64   `json:"resolved_pairs"`
	ProcessedPercent float64 `json:"processed_percent"`
	ResolvedPercent  float64 `json:"resolved_percent"`
	Active           bool    `json:"active"`
}

type AggregateStore interface {
	Totals(ctx context.Context, ownerID string) (records, pairs, processedRecords int64, err error)
	PairCounts(ctx context.Context, ownerID string) (confirmed, pending, resolved int64, err error)
	HasActiveRun(ctx context.Context, ownerID string) (bool, error)
}

// Cache is a small string cache; the production implementation sits on
// Redis so dashboard reloads don't re-run the aggregate queries.
type Cache interface {
	Get(ctx context.Context, key string) (string, bool)
	Set(ctx context.Context, key, value string, ttl time.Duration)
}

type Service struct {
	store AggregateStore
	cache Cache
	ttl   time.Duration
}

func NewService(store AggregateStore, cache Cache, ttl time.Duration) *Service {
	return &Service{store: store, cache: cache, ttl: ttl}
}

func (s *Service) Overview(ctx context.Context, ownerID string) (*Overview, error) {
	key := "stats:overview:" + ownerID

	if s.cache != nil {
		if cached, ok := s.cache.Get(ctx, key); ok {
			var overview Overview
			if err := json.Unmarshal([]byte(cached), &overview); err == nil {
				return &overview, nil
			}
		}
	}

	records, pairs, processed, err := s.store.Totals(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	confirmed, pending, resolved, err := s.store.PairCounts(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	active, err := s.store.HasActiveRun(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	clean := records - confirmed
	if clean < 0 {
		clean = 0
	}

	overview := &Overview{
		TotalRecords:     records,
		TotalPairs:       pairs,
		ProcessedRecords: processed,
		CleanRecords:     clean,
		ConfirmedPairs:   confirmed,
		PendingPairs:     pending,
		ResolvedPairs:    resolved,
		ProcessedPercent: percent(processed, records),
		ResolvedPercent:  percent(resolved, pairs),
		Active:           active,
	}

	if s.cache != nil {
		if encoded, err := json.Marshal(overview); err == nil {
			s.cache.Set(ctx, key, string(encoded), s.ttl)
		} else {
			logger.Log.WithError(err).Warn("failed to cache stats overview")
		}
	}

	return overview, nil
}

func percent(part, whole int64) float64 {
	if whole <= 0 {
		return 0
	}
	return float64(part) / float64(whole) * 100
}
