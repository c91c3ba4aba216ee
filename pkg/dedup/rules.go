package dedup

import (
	"errors"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Rules are the matcher thresholds and per-tier confidences. The defaults
// are the production values; a YAML file can override them for tuning.
type Rules struct {
	FuzzyThreshold     float64 `yaml:"fuzzy_threshold" json:"fuzzy_threshold"`
	MaxTypoDistance    int     `yaml:"max_typo_distance" json:"max_typo_distance"`
	BirthdayWindowDays int     `yaml:"birthday_window_days" json:"birthday_window_days"`
	ExactConfidence    int     `yaml:"exact_confidence" json:"exact_confidence"`
	FuzzyConfidence    int     `yaml:"fuzzy_confidence" json:"fuzzy_confidence"`
	TypoConfidence     int     `yaml:"typo_confidence" json:"typo_confidence"`
}

func DefaultRules() Rules {
	return Rules{
		FuzzyThreshold:     0.85,
		MaxTypoDistance:    3,
		BirthdayWindowDays: 365,
		ExactConfidence:    100,
		FuzzyConfidence:    90,
		TypoConfidence:     75,
	}
}

func LoadRules(path string) (Rules, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	content, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return DefaultRules(), err
	}

	rules := DefaultRules()
	if err := yaml.Unmarshal(content, &rules); err != nil {
		return Rules{}, err
	}

	if rules.FuzzyThreshold <= 0 || rules.FuzzyThreshold > 1 {
		return Rules{}, errors.New("fuzzy_threshold must be in (0, 1]")
	}
	if rules.MaxTypoDistance < 0 || rules.BirthdayWindowDays < 0 {
		return Rules{}, errors.New("distances must be non-negative")
	}

	return rules, nil
}
