package domain

import "fmt"

// RiskLevel is the ordered classification of a risk assessment.
type RiskLevel string

const (
	RiskMinimal  RiskLevel = "minimal"
	RiskLow      RiskLevel = "low"
	RiskMedium   RiskLevel = "medium"
	RiskHigh     RiskLevel = "high"
	RiskCritical RiskLevel = "critical"
)

// RiskLevels lists all levels in ascending order.
var RiskLevels = []RiskLevel{RiskMinimal, RiskLow, RiskMedium, RiskHigh, RiskCritical}

// Rank returns the position of the level in the ascending order, -1 for
// unknown levels.
func (l RiskLevel) Rank() int {
	for i, level := range RiskLevels {
		if l == level {
			return i
		}
	}
	return -1
}

// Max returns the higher-ranked of the two levels.
func (l RiskLevel) Max(other RiskLevel) RiskLevel {
	if other.Rank() > l.Rank() {
		return other
	}
	return l
}

// RiskThresholds maps overall risk scores onto levels. Thresholds are fixed
// at construction and must be strictly descending.
type RiskThresholds struct {
	Critical float64 `yaml:"critical"`
	High     float64 `yaml:"high"`
	Medium   float64 `yaml:"medium"`
	Low      float64 `yaml:"low"`
}

// DefaultRiskThresholds returns the standard thresholds
// (critical 0.9, high 0.7, medium 0.5, low 0.3).
func DefaultRiskThresholds() RiskThresholds {
	return RiskThresholds{Critical: 0.9, High: 0.7, Medium: 0.5, Low: 0.3}
}

// Validate rejects threshold sets that are out of range or not strictly
// descending.
func (t RiskThresholds) Validate() error {
	values := []float64{t.Critical, t.High, t.Medium, t.Low}
	for _, v := range values {
		if v <= 0 || v > 1 {
			return fmt.Errorf("risk thresholds must be in (0,1], got %v", v)
		}
	}
	if !(t.Critical > t.High && t.High > t.Medium && t.Medium > t.Low) {
		return fmt.Errorf("risk thresholds must be strictly descending: critical=%v high=%v medium=%v low=%v",
			t.Critical, t.High, t.Medium, t.Low)
	}
	return nil
}

// Level classifies an overall risk score. Monotonic in score.
func (t RiskThresholds) Level(score float64) RiskLevel {
	switch {
	case score >= t.Critical:
		return RiskCritical
	case score >= t.High:
		return RiskHigh
	case score >= t.Medium:
		return RiskMedium
	case score >= t.Low:
		return RiskLow
	default:
		return RiskMinimal
	}
}

// RiskAssessment is the multi-factor risk picture for one ticket. All scores
// are clamped to [0,1].
type RiskAssessment struct {
	ChurnRisk       float64
	EscalationRisk  float64
	BusinessImpact  float64
	ResponseUrgency float64
	OverallRisk     float64
	RiskLevel       RiskLevel
}
