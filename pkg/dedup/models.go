package dedup

import "time"

// MatchType is the coarse match-strength tier of a duplicate pair.
type MatchType string

const (
	MatchExact MatchType = "exact"
	MatchFuzzy MatchType = "fuzzy"
	MatchTypo  MatchType = "typo"
)

// PairStatus is the human-review disposition of a duplicate pair.
type PairStatus string

const (
	PairPending   PairStatus = "pending"
	PairConfirmed PairStatus = "confirmed"
	PairDismissed PairStatus = "dismissed"
)

func (s PairStatus) Valid() bool {
	switch s {
	case PairPending, PairConfirmed, PairDismissed:
		return true
	}
	return false
}

// DuplicatePair asserts that two records likely refer to the same person.
// The ordered pair (record_1_id, record_2_id) is the identity key: at most
// one row may exist per ordered pair. Confirmed pairs drop record_2 from
// clean exports, so the role assignment is load-bearing.
type DuplicatePair struct {
	ID           uint64     `json:"id" gorm:"primaryKey;column:id"`
	MasterlistID uint64     `json:"masterlist_id" gorm:"column:masterlist_id;index:idx_duplicate_pairs_masterlist_status,priority:1"`
	Record1ID    uint64     `json:"record_1_id" gorm:"column:record_1_id;uniqueIndex:uniq_duplicate_pairs_records,priority:1"`
	Record2ID    uint64     `json:"record_2_id" gorm:"column:record_2_id;uniqueIndex:uniq_duplicate_pairs_records,priority:2"`
	MatchType    MatchType  `json:"match_type" gorm:"column:match_type"`
	Confidence   int        `json:"confidence" gorm:"column:confidence"`
	Status       PairStatus `json:"status" gorm:"column:status;default:pending;index:idx_duplicate_pairs_masterlist_status,priority:2"`
	CreatedAt    time.Time  `json:"created_at" gorm:"column:created_at"`
	UpdatedAt    time.Time  `json:"updated_at" gorm:"column:updated_at"`
}

func (DuplicatePair) TableName() string {
	return "duplicate_pairs"
}

// Match is the outcome of comparing two normalized records.
type Match struct {
	Type       MatchType
	Confidence int
}

// PairMatch is a scanner finding: the ordered record pair plus its
// classification, ready for reconciliation.
type PairMatch struct {
	Record1ID  uint64
	Record2ID  uint64
	Type       MatchType
	Confidence int
}
