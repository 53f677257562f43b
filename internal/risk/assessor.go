package risk

import (
	"github.com/jonboulle/clockwork"
	"github.com/pulsecheck/watchdog/internal/domain"
)

// Sub-score weights for the overall risk combination.
const (
	weightChurn           = 0.30
	weightEscalation      = 0.25
	weightBusinessImpact  = 0.25
	weightResponseUrgency = 0.20
)

// Priority score combination weights, used for queue ordering downstream.
const (
	priorityWeightRisk    = 0.6
	priorityWeightUrgency = 0.4
)

// EmotionalIntensity labels the strongest single emotion in a signal.
type EmotionalIntensity string

const (
	IntensityLow    EmotionalIntensity = "low"
	IntensityMedium EmotionalIntensity = "medium"
	IntensityHigh   EmotionalIntensity = "high"
)

// UrgencySignals reports what made a ticket look urgent.
type UrgencySignals struct {
	Words   []string
	Level   domain.UrgencyLevel
	Present bool
}

// Indicators collects the qualitative evidence behind the numeric sub-scores.
type Indicators struct {
	ChurnIndicators      []string
	EscalationIndicators []string
	EmotionalIntensity   EmotionalIntensity
	UrgencySignals       UrgencySignals
}

// Result is the full output of one assessment run.
type Result struct {
	Assessment      domain.RiskAssessment
	Indicators      Indicators
	Recommendations []string
	PriorityScore   float64
}

// Thresholds groups the tunable business-impact inputs.
type Thresholds struct {
	Risk             domain.RiskThresholds
	AccountValueHigh float64 // account value above which impact gets the large bonus
	AccountValueLow  float64 // account value above which impact gets the small bonus
	TenureBonusYears float64 // customer tenure above which impact gets a bonus
}

// DefaultThresholds returns the standard assessment thresholds.
func DefaultThresholds() Thresholds {
	return Thresholds{
		Risk:             domain.DefaultRiskThresholds(),
		AccountValueHigh: 10_000,
		AccountValueLow:  1_000,
		TenureBonusYears: 2,
	}
}

// Assessor computes risk assessments. Scoring is deterministic for a fixed
// clock, detector, and threshold set.
type Assessor struct {
	detector   Detector
	thresholds Thresholds
	clock      clockwork.Clock
}

func NewAssessor(detector Detector, thresholds Thresholds, clock clockwork.Clock) *Assessor {
	return &Assessor{detector: detector, thresholds: thresholds, clock: clock}
}

// SafeDefault is the fail-open result used when assessment could not run:
// medium risk rather than a dropped ticket, since under-escalating is worse
// than a slightly wrong severity.
func SafeDefault() Result {
	return Result{
		Assessment: domain.RiskAssessment{
			ChurnRisk:       0.5,
			EscalationRisk:  0.5,
			BusinessImpact:  0.5,
			ResponseUrgency: 0.5,
			OverallRisk:     0.5,
			RiskLevel:       domain.RiskMedium,
		},
		PriorityScore: 0.5,
	}
}

// Assess scores one (signal, ticket) pair. The signal is expected to be
// normalized; every sub-score and the overall score are clamped to [0,1].
func (a *Assessor) Assess(signal domain.SentimentSignal, ticket domain.Ticket) Result {
	content := ticket.Content

	churnFound := a.detector.ChurnIndicators(content)
	escalationFound := a.detector.EscalationIndicators(content)
	urgencyWords := a.detector.UrgencyWords(content)

	churn := a.churnRisk(signal, len(churnFound))
	escalation := a.escalationRisk(signal, len(escalationFound))
	impact := a.businessImpact(ticket, churn)
	urgency := responseUrgency(escalation, signal.Urgency)

	overall := clamp01(churn*weightChurn +
		escalation*weightEscalation +
		impact*weightBusinessImpact +
		urgency*weightResponseUrgency)

	level := a.thresholds.Risk.Level(overall)

	return Result{
		Assessment: domain.RiskAssessment{
			ChurnRisk:       churn,
			EscalationRisk:  escalation,
			BusinessImpact:  impact,
			ResponseUrgency: urgency,
			OverallRisk:     overall,
			RiskLevel:       level,
		},
		Indicators: Indicators{
			ChurnIndicators:      churnFound,
			EscalationIndicators: escalationFound,
			EmotionalIntensity:   intensityOf(signal),
			UrgencySignals: UrgencySignals{
				Words:   urgencyWords,
				Level:   signal.Urgency,
				Present: len(urgencyWords) > 0 || signal.Urgency != domain.UrgencyLow,
			},
		},
		Recommendations: recommendations(level, churn, escalation),
		PriorityScore:   clamp01(overall*priorityWeightRisk + urgency*priorityWeightUrgency),
	}
}

func (a *Assessor) churnRisk(signal domain.SentimentSignal, indicatorCount int) float64 {
	risk := 0.0

	if signal.Score < -0.5 {
		risk += 0.4
	} else if signal.Score < -0.2 {
		risk += 0.2
	}

	risk += float64(indicatorCount) * 0.15

	anger := signal.Emotion(domain.EmotionAnger)
	frustration := signal.Emotion(domain.EmotionFrustration)
	if anger > 0.7 || frustration > 0.8 {
		risk += 0.3
	} else if anger > 0.5 || frustration > 0.6 {
		risk += 0.2
	}

	return clamp01(risk)
}

func (a *Assessor) escalationRisk(signal domain.SentimentSignal, indicatorCount int) float64 {
	risk := urgencyWeight(signal.Urgency)

	risk += float64(indicatorCount) * 0.1

	switch intensityOf(signal) {
	case IntensityHigh:
		risk += 0.3
	case IntensityMedium:
		risk += 0.2
	}

	return clamp01(risk)
}

func (a *Assessor) businessImpact(ticket domain.Ticket, churnRisk float64) float64 {
	impact := tierWeight(ticket.CustomerTier) * churnRisk

	// Only the higher account-value bucket applies.
	if ticket.AccountValue > a.thresholds.AccountValueHigh {
		impact += 0.2
	} else if ticket.AccountValue > a.thresholds.AccountValueLow {
		impact += 0.1
	}

	if ticket.TenureYears(a.clock.Now()) > a.thresholds.TenureBonusYears {
		impact += 0.1
	}

	return clamp01(impact)
}

func responseUrgency(escalationRisk float64, level domain.UrgencyLevel) float64 {
	return clamp01(escalationRisk*0.6 + urgencyWeight(level))
}

func urgencyWeight(level domain.UrgencyLevel) float64 {
	switch level {
	case domain.UrgencyHigh:
		return 0.4
	case domain.UrgencyMedium:
		return 0.2
	default:
		return 0.1
	}
}

func tierWeight(tier domain.CustomerTier) float64 {
	switch tier {
	case domain.TierEnterprise:
		return 1.0
	case domain.TierPremium:
		return 0.8
	case domain.TierBasic:
		return 0.3
	default:
		return 0.5
	}
}

func intensityOf(signal domain.SentimentSignal) EmotionalIntensity {
	strongest := signal.MaxEmotion()
	switch {
	case strongest > 0.8:
		return IntensityHigh
	case strongest > 0.5:
		return IntensityMedium
	default:
		return IntensityLow
	}
}

// recommendations is a deterministic lookup keyed by level and the two
// elevated sub-scores. No side effects.
func recommendations(level domain.RiskLevel, churnRisk, escalationRisk float64) []string {
	var recs []string
	switch level {
	case domain.RiskCritical:
		recs = append(recs,
			"immediate escalation required",
			"assign to senior support representative",
			"consider executive outreach",
			"monitor closely for 24-48 hours",
		)
	case domain.RiskHigh:
		recs = append(recs,
			"escalate within 2 hours",
			"assign to experienced support representative",
			"consider proactive outreach",
			"monitor customer behavior closely",
		)
	case domain.RiskMedium:
		recs = append(recs,
			"respond within 4 hours",
			"assign to appropriate support tier",
			"monitor for escalation signals",
			"consider follow-up within 24 hours",
		)
	default:
		recs = append(recs,
			"standard response time acceptable",
			"monitor for pattern changes",
			"consider proactive engagement if patterns emerge",
		)
	}

	if churnRisk > 0.7 {
		recs = append(recs, "high churn risk - consider retention strategies")
	}
	if escalationRisk > 0.7 {
		recs = append(recs, "high escalation risk - prepare escalation resources")
	}
	return recs
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
