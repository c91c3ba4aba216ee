package stats

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/openrelief/masterlist/pkg/common/logger"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type fakeAggregateStore struct {
	records, pairs, processed    int64
	confirmed, pending, resolved int64
	active                       bool
	calls                        int
	err                          error
}

func (s *fakeAggregateStore) Totals(ctx context.Context, ownerID string) (int64, int64, int64, error) {
	s.calls++
	if s.err != nil {
		return 0, 0, 0, s.err
	}
	return s.records, s.pairs, s.processed, nil
}

func (s *fakeAggregateStore) PairCounts(ctx context.Context, ownerID string) (int64, int64, int64, error) {
	if s.err != nil {
		return 0, 0, 0, s.err
	}
	return s.confirmed, s.pending, s.resolved, nil
}

func (s *fakeAggregateStore) HasActiveRun(ctx context.Context, ownerID string) (bool, error) {
	if s.err != nil {
		return false, s.err
	}
	return s.active, nil
}

type mapCache struct {
	entries map[string]string
	sets    int
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string]string)}
}

func (c *mapCache) Get(ctx context.Context, key string) (string, bool) {
	v, ok := c.entries[key]
	return v, ok
}

func (c *mapCache) Set(ctx context.Context, key, value string, ttl time.Duration) {
	c.entries[key] = value
	c.sets++
}

func TestOverviewComputesAggregates(t *testing.T) {
	store := &fakeAggregateStore{
		records: 1000, pairs: 40, processed: 800,
		confirmed: 10, pending: 25, resolved: 15,
		active: true,
	}
	service := NewService(store, nil, time.Minute)

	overview, err := service.Overview(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if overview.TotalRecords != 1000 || overview.TotalPairs != 40 {
		t.Fatalf("wrong totals: %+v", overview)
	}
	if overview.CleanRecords != 990 {
		t.Fatalf("clean records should exclude confirmed duplicates, got %d", overview.CleanRecords)
	}
	if overview.ProcessedPercent != 80 {
		t.Fatalf("expected 80%% processed, got %v", overview.ProcessedPercent)
	}
	if overview.ResolvedPercent != 37.5 {
		t.Fatalf("expected 37.5%% resolved, got %v", overview.ResolvedPercent)
	}
	if !overview.Active {
		t.Fatal("expected active run flag")
	}
}

func TestOverviewZeroDenominators(t *testing.T) {
	service := NewService(&fakeAggregateStore{}, nil, time.Minute)

	overview, err := service.Overview(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if overview.ProcessedPercent != 0 || overview.ResolvedPercent != 0 {
		t.Fatalf("percentages over zero totals must be 0, got %+v", overview)
	}
}

func TestOverviewUsesCacheOnSecondCall(t *testing.T) {
	store := &fakeAggregateStore{records: 100, pairs: 4, processed: 100, confirmed: 1}
	cache := newMapCache()
	service := NewService(store, cache, time.Minute)

	first, err := service.Overview(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("first call: %v", err)
	}
	if store.calls != 1 || cache.sets != 1 {
		t.Fatalf("expected one store read and one cache fill, got %d/%d", store.calls, cache.sets)
	}

	second, err := service.Overview(context.Background(), "owner-1")
	if err != nil {
		t.Fatalf("second call: %v", err)
	}
	if store.calls != 1 {
		t.Fatalf("second call should hit the cache, store reads = %d", store.calls)
	}
	if *first != *second {
		t.Fatalf("cached overview differs: %+v vs %+v", first, second)
	}
}

func TestOverviewCacheKeyPerOwner(t *testing.T) {
	store := &fakeAggregateStore{records: 100}
	cache := newMapCache()
	service := NewService(store, cache, time.Minute)

	if _, err := service.Overview(context.Background(), "owner-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := service.Overview(context.Background(), "owner-2"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.calls != 2 {
		t.Fatalf("different owners must not share cache entries, store reads = %d", store.calls)
	}
}

func TestOverviewPropagatesStoreErrors(t *testing.T) {
	wantErr := errors.New("db down")
	service := NewService(&fakeAggregateStore{err: wantErr}, newMapCache(), time.Minute)

	if _, err := service.Overview(context.Background(), "owner-1"); !errors.Is(err, wantErr) {
		t.Fatalf("expected store error, got %v", err)
	}
}
