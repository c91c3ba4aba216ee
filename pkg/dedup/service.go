package dedup

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/openrelief/masterlist/pkg/common/logger"
	"github.com/openrelief/masterlist/pkg/masterlist"
)

// ErrNotEligible signals a precondition violation: the masterlist is not in
// a state that allows deduplication. Distinct from runtime failures so the
// trigger side can report "not eligible" instead of "failed".
var ErrNotEligible = errors.New("masterlist not eligible for deduplication")

// BatchStore is the slice of masterlist persistence the run needs.
type BatchStore interface {
	Get(ctx context.Context, id uint64) (*masterlist.Masterlist, error)
	SetStatus(ctx context.Context, id uint64, status masterlist.Status) error
	Complete(ctx context.Context, id uint64, pairCount int) error
}

// RecordSource supplies the record snapshot for a run.
type RecordSource interface {
	TargetRecords(ctx context.Context, masterlistID uint64) ([]masterlist.Record, error)
	ForeignRecords(ctx context.Context, masterlistID uint64) ([]masterlist.Record, error)
}

type RunResult struct {
	MasterlistID uint64
	RecordCount  int
	PairCount    int
	Elapsed      time.Duration
}

// Service sequences a deduplication run: eligibility check, the
// deduplicating transition, scan, reconcile, completion. An interrupted run
// leaves the masterlist in deduplicating; the trigger side re-invokes Run.
type Service struct {
	batches    BatchStore
	records    RecordSource
	scanner    Scanner
	reconciler *Reconciler
}

func NewService(batches BatchStore, records RecordSource, scanner Scanner, reconciler *Reconciler) *Service {
	return &Service{batches: batches, records: records, scanner: scanner, reconciler: reconciler}
}

func (s *Service) Run(ctx context.Context, masterlistID uint64) (*RunResult, error) {
	started := time.Now()

	ml, err := s.batches.Get(ctx, masterlistID)
	if err != nil {
		return nil, err
	}
	if !ml.Status.CanStartDedup() {
		return nil, fmt.Errorf("%w: status is %s", ErrNotEligible, ml.Status)
	}

	// Visible to concurrent readers before scanning begins.
	if err := s.batches.SetStatus(ctx, masterlistID, masterlist.StatusDeduplicating); err != nil {
		return nil, fmt.Errorf("marking masterlist deduplicating: %w", err)
	}

	target, err := s.records.TargetRecords(ctx, masterlistID)
	if err != nil {
		return nil, fmt.Errorf("loading target records: %w", err)
	}
	foreign, err := s.records.ForeignRecords(ctx, masterlistID)
	if err != nil {
		return nil, fmt.Errorf("loading foreign records: %w", err)
	}

	matches := s.scanner.FindMatches(target, foreign)

	count, err := s.reconciler.Reconcile(ctx, masterlistID, matches)
	if err != nil {
		return nil, err
	}

	if err := s.batches.Complete(ctx, masterlistID, count); err != nil {
		return nil, fmt.Errorf("completing masterlist: %w", err)
	}

	result := &RunResult{
		MasterlistID: masterlistID,
		RecordCount:  len(target),
		PairCount:    count,
		Elapsed:      time.Since(started),
	}

	logger.Log.WithFields(map[string]interface{}{
		"masterlist_id": masterlistID,
		"record_count":  result.RecordCount,
		"pair_count":    result.PairCount,
		"elapsed_ms":    result.Elapsed.Milliseconds(),
	}).Info("Deduplication run completed")

	return result, nil
}
