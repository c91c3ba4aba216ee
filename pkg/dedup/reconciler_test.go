package dedup

import (
	"context"
	"errors"
	"fmt"
	"testing"
)

func TestReconcileWritesInChunks(t *testing.T) {
	store := newMemPairStore()
	reconciler := NewReconciler(store, 500)

	matches := make([]PairMatch, 1200)
	for i := range matches {
		matches[i] = PairMatch{
			Record1ID:  uint64(i + 1),
			Record2ID:  uint64(i + 100000),
			Type:       MatchTypo,
			Confidence: 75,
		}
	}

	count, err := reconciler.Reconcile(context.Background(), 1, matches)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1200 {
		t.Fatalf("expected count 1200, got %d", count)
	}
	if store.size() != 1200 {
		t.Fatalf("expected 1200 persisted pairs, got %d", store.size())
	}

	want := []int{500, 500, 200}
	if len(store.chunkSizes) != len(want) {
		t.Fatalf("expected %d chunks, got %v", len(want), store.chunkSizes)
	}
	for i, size := range want {
		if store.chunkSizes[i] != size {
			t.Fatalf("chunk %d: expected %d rows, got %d", i, size, store.chunkSizes[i])
		}
	}
}

func TestReconcileChunkSizeDoesNotChangeOutcome(t *testing.T) {
	matches := make([]PairMatch, 37)
	for i := range matches {
		matches[i] = PairMatch{
			Record1ID:  uint64(i + 1),
			Record2ID:  uint64(i + 500),
			Type:       MatchFuzzy,
			Confidence: 90,
		}
	}

	for _, chunkSize := range []int{1, 7, 500} {
		store := newMemPairStore()
		count, err := NewReconciler(store, chunkSize).Reconcile(context.Background(), 1, matches)
		if err != nil {
			t.Fatalf("chunk size %d: unexpected error: %v", chunkSize, err)
		}
		if count != len(matches) {
			t.Fatalf("chunk size %d: expected count %d, got %d", chunkSize, len(matches), count)
		}
		if store.size() != len(matches) {
			t.Fatalf("chunk size %d: expected %d persisted pairs, got %d", chunkSize, len(matches), store.size())
		}
	}
}

func TestReconcileRefreshesWithoutTouchingReview(t *testing.T) {
	store := newMemPairStore()
	reconciler := NewReconciler(store, 500)

	first := []PairMatch{{Record1ID: 1, Record2ID: 2, Type: MatchFuzzy, Confidence: 90}}
	if _, err := reconciler.Reconcile(context.Background(), 1, first); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A human confirms the pair between runs.
	store.setStatus(1, 2, PairConfirmed)

	// The re-run computes a different tier for the same identity pair.
	second := []PairMatch{{Record1ID: 1, Record2ID: 2, Type: MatchExact, Confidence: 100}}
	count, err := reconciler.Reconcile(context.Background(), 1, second)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 1 {
		t.Fatalf("refreshed pairs still count toward the run total, got %d", count)
	}

	pair, ok := store.get(1, 2)
	if !ok {
		t.Fatal("pair disappeared after re-run")
	}
	if pair.Status != PairConfirmed {
		t.Fatalf("review status must survive a re-run, got %s", pair.Status)
	}
	if pair.MatchType != MatchExact || pair.Confidence != 100 {
		t.Fatalf("tier/confidence must refresh, got %s/%d", pair.MatchType, pair.Confidence)
	}
	if store.size() != 1 {
		t.Fatalf("re-run must not duplicate the identity pair, got %d rows", store.size())
	}
}

func TestReconcileEmptyRun(t *testing.T) {
	store := newMemPairStore()
	count, err := NewReconciler(store, 500).Reconcile(context.Background(), 1, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected zero count, got %d", count)
	}
	if len(store.chunkSizes) != 0 {
		t.Fatalf("no writes expected for an empty run, got %v", store.chunkSizes)
	}
}

func TestReconcilePropagatesStoreErrors(t *testing.T) {
	store := newMemPairStore()
	store.failNext = fmt.Errorf("connection reset")

	_, err := NewReconciler(store, 500).Reconcile(context.Background(), 1,
		[]PairMatch{{Record1ID: 1, Record2ID: 2, Type: MatchTypo, Confidence: 75}})
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.Is(err, ErrNotEligible) {
		t.Fatal("store failures must not look like precondition violations")
	}
}
