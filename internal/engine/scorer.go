package engine

// Level thresholds are a fixed contract shared with every consumer of
// persisted scores (dashboards, coaching benchmarks). Do not make these
// configurable.
const (
	highRiskThreshold   = 70
	mediumRiskThreshold = 40
)

// Score combines factor weights into a bounded assessment. Pure and total:
// an empty factor list yields {0, LOW}.
func Score(factors []RiskFactor) RiskAssessment {
	total := 0
	for _, f := range factors {
		total += f.Weight
	}
	if total < 0 {
		total = 0
	}
	if total > 100 {
		total = 100
	}
	return RiskAssessment{
		Score:   total,
		Level:   LevelFor(total),
		Factors: factors,
	}
}

// LevelFor bands a score: >=70 HIGH, 40..69 MEDIUM, else LOW.
func LevelFor(score int) string {
	switch {
	case score >= highRiskThreshold:
		return RiskLevelHigh
	case score >= mediumRiskThreshold:
		return RiskLevelMedium
	default:
		return RiskLevelLow
	}
}
