package dedup

import (
	"context"
	"fmt"
	"time"
)

// PairStore persists duplicate pairs. UpsertPairs must treat the ordered
// (record_1_id, record_2_id) pair as the conflict key and, on conflict,
// overwrite only match_type, confidence, and updated_at. The review status
// is never touched.
type PairStore interface {
	UpsertPairs(ctx context.Context, pairs []DuplicatePair) error
}

// Reconciler merges a run's matches into persistent state. Chunking is a
// write-efficiency choice only; the persisted outcome is identical for any
// chunk size.
type Reconciler struct {
	store     PairStore
	chunkSize int
}

func NewReconciler(store PairStore, chunkSize int) *Reconciler {
	if chunkSize <= 0 {
		chunkSize = 500
	}
	return &Reconciler{store: store, chunkSize: chunkSize}
}

// Reconcile upserts the matches and returns the size of this run's output
// set — refreshed pre-existing pairs count just like new ones.
func (r *Reconciler) Reconcile(ctx context.Context, masterlistID uint64, matches []PairMatch) (int, error) {
	now := time.Now().UTC()
	pairs := make([]DuplicatePair, len(matches))
	for i, m := range matches {
		pairs[i] = DuplicatePair{
			MasterlistID: masterlistID,
			Record1ID:    m.Record1ID,
			Record2ID:    m.Record2ID,
			MatchType:    m.Type,
			Confidence:   m.Confidence,
			Status:       PairPending,
			CreatedAt:    now,
			UpdatedAt:    now,
		}
	}

	for start := 0; start < len(pairs); start += r.chunkSize {
		end := start + r.chunkSize
		if end > len(pairs) {
			end = len(pairs)
		}
		if err := r.store.UpsertPairs(ctx, pairs[start:end]); err != nil {
			return 0, fmt.Errorf("upserting duplicate pairs: %w", err)
		}
	}

	return len(pairs), nil
}
