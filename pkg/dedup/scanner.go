package dedup

import (
	"sort"

	"github.com/openrelief/masterlist/pkg/masterlist"
)

// Scanner enumerates candidate pairs and reports the ones that match.
// It is an interface so the naive pairwise strategy can later be replaced
// by a blocking/indexing strategy without touching the matcher or the
// reconciler.
type Scanner interface {
	FindMatches(target, others []masterlist.Record) []PairMatch
}

// PairwiseScanner compares every pair exactly once: all i<j combinations
// within the target masterlist, then the full cross product against records
// of every other masterlist. A cross-masterlist pair may be rediscovered
// when the other masterlist runs; the reconciler's upsert absorbs that.
type PairwiseScanner struct {
	matcher *Matcher
}

func NewPairwiseScanner(matcher *Matcher) *PairwiseScanner {
	return &PairwiseScanner{matcher: matcher}
}

func (s *PairwiseScanner) FindMatches(target, others []masterlist.Record) []PairMatch {
	// Ascending-ID order pins the role assignment for same-masterlist
	// pairs: record_1 always gets the lower identifier, so the same pair
	// lands on the same identity key run over run.
	sorted := make([]masterlist.Record, len(target))
	copy(sorted, target)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].ID < sorted[j].ID })

	targetKeys := make([]ComparisonKey, len(sorted))
	for i := range sorted {
		targetKeys[i] = Normalize(&sorted[i])
	}

	var matches []PairMatch

	for i := 0; i < len(sorted); i++ {
		for j := i + 1; j < len(sorted); j++ {
			if m := s.matcher.Compare(targetKeys[i], targetKeys[j]); m != nil {
				matches = append(matches, PairMatch{
					Record1ID:  sorted[i].ID,
					Record2ID:  sorted[j].ID,
					Type:       m.Type,
					Confidence: m.Confidence,
				})
			}
		}
	}

	// Cross-masterlist pairs keep the target's record as record_1 so that
	// a confirmed match always drops the foreign record from this
	// masterlist's export, never its own.
	otherKeys := make([]ComparisonKey, len(others))
	for i := range others {
		otherKeys[i] = Normalize(&others[i])
	}

	for i := range sorted {
		for j := range others {
			if m := s.matcher.Compare(targetKeys[i], otherKeys[j]); m != nil {
				matches = append(matches, PairMatch{
					Record1ID:  sorted[i].ID,
					Record2ID:  others[j].ID,
					Type:       m.Type,
					Confidence: m.Confidence,
				})
			}
		}
	}

	return matches
}
