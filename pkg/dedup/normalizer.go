package dedup

import (
	"strings"
	"time"

	"github.com/openrelief/masterlist/pkg/masterlist"
)

// ComparisonKey is the canonical comparison form of a record: the
// lowercased "last first middle" name and the parsed birthday, if any.
type ComparisonKey struct {
	Name     string
	Birthday *time.Time
}

// Normalize derives the comparison key for a record. Absent middle names
// contribute nothing; absent birthdays stay nil. Pure function.
func Normalize(rec *masterlist.Record) ComparisonKey {
	parts := make([]string, 0, 3)
	for _, field := range []string{rec.LastName, rec.FirstName, deref(rec.MiddleName)} {
		if trimmed := strings.TrimSpace(field); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}

	return ComparisonKey{
		Name:     strings.ToLower(strings.Join(parts, " ")),
		Birthday: rec.Birthday,
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
