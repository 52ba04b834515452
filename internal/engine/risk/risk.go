// Package risk rescales raw outlier scores into bounded risk scores and
// classifies them into discrete levels.
package risk

import "github.com/ashvale/logwarden/internal/model"

// Classification thresholds. Each lower bound is inclusive: a score of
// exactly 75 is HIGH, exactly 40 is MEDIUM.
const (
	HighThreshold   = 75
	MediumThreshold = 40
)

// Normalize maps raw outlier scores (smaller = more anomalous) onto a
// 0-100 risk scale (higher = more anomalous) using the batch's own min and
// max. When every raw score is identical — a batch of one, or no spread —
// there is no information to discriminate and every risk score is 0.
// Scores are batch-relative: the same behavior against a different batch
// can land at a different absolute score.
func Normalize(raw []float64) []float64 {
	if len(raw) == 0 {
		return nil
	}

	min, max := raw[0], raw[0]
	for _, r := range raw[1:] {
		if r < min {
			min = r
		}
		if r > max {
			max = r
		}
	}

	scores := make([]float64, len(raw))
	if max == min {
		return scores
	}

	spread := max - min
	for i, r := range raw {
		s := (max - r) / spread * 100
		if s < 0 {
			s = 0
		}
		if s > 100 {
			s = 100
		}
		scores[i] = s
	}
	return scores
}

// Classify maps a risk score to its discrete level.
func Classify(score float64) model.RiskLevel {
	switch {
	case score >= HighThreshold:
		return model.RiskHigh
	case score >= MediumThreshold:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}
