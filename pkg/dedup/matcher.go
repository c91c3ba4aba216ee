package dedup

import (
	"time"

	"github.com/agnivade/levenshtein"
)

// Matcher classifies a pair of comparison keys into a match tier.
// Compare is symmetric: Compare(a, b) and Compare(b, a) agree.
type Matcher struct {
	rules Rules
}

func NewMatcher(rules Rules) *Matcher {
	if rules == (Rules{}) {
		rules = DefaultRules()
	}
	return &Matcher{rules: rules}
}

// Compare applies the tier policy in precedence order and returns nil when
// no tier applies. Pairs where either birthday is missing can never match:
// every tier requires birthday corroboration.
func (m *Matcher) Compare(a, b ComparisonKey) *Match {
	equal := bothPresent(a, b) && a.Birthday.Equal(*b.Birthday)
	near := bothPresent(a, b) && daysApart(*a.Birthday, *b.Birthday) <= m.rules.BirthdayWindowDays

	if a.Name == b.Name && equal {
		return &Match{Type: MatchExact, Confidence: m.rules.ExactConfidence}
	}

	if a.Name != "" && b.Name != "" {
		if Similarity(a.Name, b.Name) >= m.rules.FuzzyThreshold && (equal || near) {
			return &Match{Type: MatchFuzzy, Confidence: m.rules.FuzzyConfidence}
		}
	}

	if levenshtein.ComputeDistance(a.Name, b.Name) <= m.rules.MaxTypoDistance && (equal || near) {
		return &Match{Type: MatchTypo, Confidence: m.rules.TypoConfidence}
	}

	return nil
}

func bothPresent(a, b ComparisonKey) bool {
	return a.Birthday != nil && b.Birthday != nil
}

func daysApart(a, b time.Time) int {
	diff := a.Sub(b)
	if diff < 0 {
		diff = -diff
	}
	return int(diff.Hours() / 24)
}

// Similarity is the classic similar_text percentage metric as a 0..1 ratio:
// twice the matched character count over the summed lengths, where matches
// are found by recursively taking the longest common substring and scanning
// the remainders on each side.
func Similarity(s1, s2 string) float64 {
	if len(s1)+len(s2) == 0 {
		return 0
	}
	return 2 * float64(similarChars(s1, s2)) / float64(len(s1)+len(s2))
}

func similarChars(s1, s2 string) int {
	max, pos1, pos2 := 0, 0, 0
	for i := 0; i < len(s1); i++ {
		for j := 0; j < len(s2); j++ {
			k := 0
			for i+k < len(s1) && j+k < len(s2) && s1[i+k] == s2[j+k] {
				k++
			}
			if k > max {
				max, pos1, pos2 = k, i, j
			}
		}
	}

	if max == 0 {
		return 0
	}

	sum := max
	if pos1 > 0 && pos2 > 0 {
		sum += similarChars(s1[:pos1], s2[:pos2])
	}
	if pos1+max < len(s1) && pos2+max < len(s2) {
		sum += similarChars(s1[pos1+max:], s2[pos2+max:])
	}
	return sum
}
