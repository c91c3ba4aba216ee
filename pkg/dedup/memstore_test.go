package dedup

import (
	"context"
	"fmt"
	"sync"

	"github.com/openrelief/masterlist/pkg/masterlist"
)

// memPairStore mimics the duplicate_pairs table: upserts conflict on the
// ordered (record_1_id, record_2_id) pair and refresh only the computed
// columns, exactly like the gorm OnConflict clause.
type memPairStore struct {
	mu         sync.Mutex
	pairs      map[[2]uint64]DuplicatePair
	chunkSizes []int
	failNext   error
}

func newMemPairStore() *memPairStore {
	return &memPairStore{pairs: make(map[[2]uint64]DuplicatePair)}
}

func (s *memPairStore) UpsertPairs(ctx context.Context, chunk []DuplicatePair) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failNext != nil {
		err := s.failNext
		s.failNext = nil
		return err
	}

	s.chunkSizes = append(s.chunkSizes, len(chunk))
	for _, p := range chunk {
		key := [2]uint64{p.Record1ID, p.Record2ID}
		if existing, ok := s.pairs[key]; ok {
			existing.MatchType = p.MatchType
			existing.Confidence = p.Confidence
			existing.UpdatedAt = p.UpdatedAt
			s.pairs[key] = existing
			continue
		}
		p.ID = uint64(len(s.pairs) + 1)
		s.pairs[key] = p
	}
	return nil
}

func (s *memPairStore) get(r1, r2 uint64) (DuplicatePair, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	p, ok := s.pairs[[2]uint64{r1, r2}]
	return p, ok
}

func (s *memPairStore) setStatus(r1, r2 uint64, status PairStatus) {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := [2]uint64{r1, r2}
	p := s.pairs[key]
	p.Status = status
	s.pairs[key] = p
}

func (s *memPairStore) size() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.pairs)
}

type memBatchStore struct {
	batch      masterlist.Masterlist
	statusLog  []masterlist.Status
	pairCounts []int
}

func (s *memBatchStore) Get(ctx context.Context, id uint64) (*masterlist.Masterlist, error) {
	if id != s.batch.ID {
		return nil, fmt.Errorf("masterlist %d not found", id)
	}
	copied := s.batch
	return &copied, nil
}

func (s *memBatchStore) SetStatus(ctx context.Context, id uint64, status masterlist.Status) error {
	s.batch.Status = status
	s.statusLog = append(s.statusLog, status)
	return nil
}

func (s *memBatchStore) Complete(ctx context.Context, id uint64, pairCount int) error {
	s.batch.Status = masterlist.StatusCompleted
	s.batch.DuplicatePairCount = pairCount
	s.statusLog = append(s.statusLog, masterlist.StatusCompleted)
	s.pairCounts = append(s.pairCounts, pairCount)
	return nil
}

type memRecordSource struct {
	target  []masterlist.Record
	foreign []masterlist.Record
	loadErr error
}

func (s *memRecordSource) TargetRecords(ctx context.Context, masterlistID uint64) ([]masterlist.Record, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.target, nil
}

func (s *memRecordSource) ForeignRecords(ctx context.Context, masterlistID uint64) ([]masterlist.Record, error) {
	if s.loadErr != nil {
		return nil, s.loadErr
	}
	return s.foreign, nil
}
