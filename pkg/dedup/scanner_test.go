package dedup

import (
	"testing"
	"time"

	"github.com/openrelief/masterlist/pkg/masterlist"
)

func record(id, masterlistID uint64, last, first string, birthday *time.Time) masterlist.Record {
	return masterlist.Record{
		ID:           id,
		MasterlistID: masterlistID,
		LastName:     last,
		FirstName:    first,
		Birthday:     birthday,
	}
}

func TestScannerFindsIntraAndCrossMatches(t *testing.T) {
	scanner := NewPairwiseScanner(NewMatcher(DefaultRules()))

	target := []masterlist.Record{
		record(1, 1, "Cruz", "Juan", datePtr(2000, time.January, 1)),
		record(2, 1, "Cruz", "Jaun", datePtr(2000, time.June, 1)),
		record(3, 1, "Santos", "Maria", nil),
	}
	others := []masterlist.Record{
		record(10, 2, "Cruz", "Juan", datePtr(2000, time.January, 1)),
	}

	matches := scanner.FindMatches(target, others)
	if len(matches) != 3 {
		t.Fatalf("expected 3 matches, got %d: %+v", len(matches), matches)
	}

	byKey := make(map[[2]uint64]PairMatch, len(matches))
	for _, m := range matches {
		byKey[[2]uint64{m.Record1ID, m.Record2ID}] = m
	}

	intra, ok := byKey[[2]uint64{1, 2}]
	if !ok || intra.Type != MatchFuzzy {
		t.Fatalf("expected intra-batch fuzzy pair (1,2), got %+v", byKey)
	}
	exact, ok := byKey[[2]uint64{1, 10}]
	if !ok || exact.Type != MatchExact {
		t.Fatalf("expected cross-batch exact pair (1,10), got %+v", byKey)
	}
	if _, ok := byKey[[2]uint64{2, 10}]; !ok {
		t.Fatalf("expected cross-batch pair (2,10), got %+v", byKey)
	}
}

func TestScannerNeverPairsRecordWithItself(t *testing.T) {
	scanner := NewPairwiseScanner(NewMatcher(DefaultRules()))

	// Two physically distinct but field-identical records.
	target := []masterlist.Record{
		record(1, 1, "Cruz", "Juan", datePtr(2000, time.January, 1)),
		record(2, 1, "Cruz", "Juan", datePtr(2000, time.January, 1)),
	}

	matches := scanner.FindMatches(target, nil)
	if len(matches) != 1 {
		t.Fatalf("expected exactly one pair, got %d", len(matches))
	}
	m := matches[0]
	if m.Record1ID == m.Record2ID {
		t.Fatalf("record paired with itself: %+v", m)
	}
	if m.Record1ID != 1 || m.Record2ID != 2 {
		t.Fatalf("expected pair (1,2), got (%d,%d)", m.Record1ID, m.Record2ID)
	}
}

// The role assignment must not depend on input order: record_1 always gets
// the lower identifier for same-masterlist pairs.
func TestScannerRoleAssignmentIsStable(t *testing.T) {
	scanner := NewPairwiseScanner(NewMatcher(DefaultRules()))

	forward := []masterlist.Record{
		record(5, 1, "Reyes", "Ana", datePtr(1990, time.April, 2)),
		record(9, 1, "Reyes", "Ana", datePtr(1990, time.April, 2)),
	}
	reversed := []masterlist.Record{forward[1], forward[0]}

	a := scanner.FindMatches(forward, nil)
	b := scanner.FindMatches(reversed, nil)
	if len(a) != 1 || len(b) != 1 {
		t.Fatalf("expected one pair each, got %d and %d", len(a), len(b))
	}
	if a[0] != b[0] {
		t.Fatalf("role assignment depends on iteration order: %+v vs %+v", a[0], b[0])
	}
	if a[0].Record1ID != 5 || a[0].Record2ID != 9 {
		t.Fatalf("expected record_1 to take the lower id, got (%d,%d)", a[0].Record1ID, a[0].Record2ID)
	}
}

func TestScannerCrossBatchKeepsTargetFirst(t *testing.T) {
	scanner := NewPairwiseScanner(NewMatcher(DefaultRules()))

	target := []masterlist.Record{
		record(42, 1, "Garcia", "Pedro", datePtr(1985, time.December, 25)),
	}
	others := []masterlist.Record{
		record(7, 2, "Garcia", "Pedro", datePtr(1985, time.December, 25)),
	}

	matches := scanner.FindMatches(target, others)
	if len(matches) != 1 {
		t.Fatalf("expected one pair, got %d", len(matches))
	}
	// The foreign record is record_2 even though its id is lower: a
	// confirmed cross-batch pair must drop the foreign copy from this
	// masterlist's export, never its own record.
	if matches[0].Record1ID != 42 || matches[0].Record2ID != 7 {
		t.Fatalf("expected (42,7), got (%d,%d)", matches[0].Record1ID, matches[0].Record2ID)
	}
}

func TestScannerDiscardsNonMatches(t *testing.T) {
	scanner := NewPairwiseScanner(NewMatcher(DefaultRules()))

	target := []masterlist.Record{
		record(1, 1, "Cruz", "Juan", datePtr(2000, time.January, 1)),
		record(2, 1, "Bautista", "Elena", datePtr(1970, time.February, 14)),
	}
	others := []masterlist.Record{
		record(10, 2, "Ocampo", "Ramon", datePtr(1960, time.August, 30)),
	}

	if matches := scanner.FindMatches(target, others); len(matches) != 0 {
		t.Fatalf("expected no matches, got %+v", matches)
	}
}
