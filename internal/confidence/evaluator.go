// Package confidence scores how much an upstream sentiment signal can be
// trusted before risk scoring consumes it.
package confidence

import (
	"math"

	"github.com/pulsecheck/watchdog/internal/domain"
)

// Level classifies an overall confidence score.
type Level string

const (
	LevelVeryLow Level = "very_low"
	LevelLow     Level = "low"
	LevelMedium  Level = "medium"
	LevelHigh    Level = "high"
	// LevelUnknown is the degraded level used when no evaluation happened.
	LevelUnknown Level = "unknown"
)

// Factor weights. They sum to 1 so the overall score stays in [0,1].
const (
	weightAgreement      = 0.30
	weightSubjectivity   = 0.20
	weightConsistency    = 0.20
	weightTextQuality    = 0.15
	weightSignalStrength = 0.15
)

// Level thresholds on the overall confidence score.
const (
	levelHigh   = 0.8
	levelMedium = 0.6
	levelLow    = 0.4
)

// conflictBand is the emotion sum above which simultaneous positive and
// negative emotions count as contradictory.
const conflictBand = 0.5

// Factors breaks the overall confidence down into its weighted components.
type Factors struct {
	Agreement          float64
	Subjectivity       float64
	EmotionConsistency float64
	TextQuality        float64
	SignalStrength     float64
}

// Evaluation is the confidence verdict for one signal.
type Evaluation struct {
	Overall         float64
	Level           Level
	Factors         Factors
	Recommendations []string
	Warnings        []string
}

// Degraded returns the fail-open evaluation used when the evaluator could not
// run: middling confidence, unknown level, never aborting the pipeline.
func Degraded() Evaluation {
	return Evaluation{Overall: 0.5, Level: LevelUnknown}
}

// Evaluator scores signal reliability. Stateless and safe for concurrent use.
type Evaluator struct{}

func NewEvaluator() *Evaluator {
	return &Evaluator{}
}

// Evaluate computes the weighted confidence score for a signal. The input is
// expected to be normalized; out-of-range fields only weaken the score, they
// never cause a failure.
func (e *Evaluator) Evaluate(signal domain.SentimentSignal) Evaluation {
	factors := Factors{
		Agreement:          agreementScore(signal.Confidence),
		Subjectivity:       subjectivityScore(signal.Confidence.Subjectivity),
		EmotionConsistency: emotionConsistency(signal.Emotions),
		TextQuality:        textQuality(signal.TextLength),
		SignalStrength:     signalStrength(signal.Score),
	}

	overall := factors.Agreement*weightAgreement +
		factors.Subjectivity*weightSubjectivity +
		factors.EmotionConsistency*weightConsistency +
		factors.TextQuality*weightTextQuality +
		factors.SignalStrength*weightSignalStrength

	level := levelFor(overall)

	return Evaluation{
		Overall:         overall,
		Level:           level,
		Factors:         factors,
		Recommendations: recommendationsFor(level),
		Warnings:        warningsFor(signal, overall),
	}
}

// agreementScore rewards the two extraction methods landing close together.
func agreementScore(inputs domain.ConfidenceInputs) float64 {
	difference := math.Abs(inputs.PrimaryScore - inputs.SecondaryScore)
	return math.Max(0, 1-difference)
}

// subjectivityScore prefers moderately objective text: fully objective text
// is often neutral, highly subjective text is unreliable.
func subjectivityScore(subjectivity float64) float64 {
	switch {
	case subjectivity < 0.2:
		return 0.7
	case subjectivity < 0.5:
		return 0.9
	case subjectivity < 0.8:
		return 0.6
	default:
		return 0.4
	}
}

func emotionConsistency(emotions map[string]float64) float64 {
	if len(emotions) == 0 {
		return 0.5
	}

	if conflictingEmotions(emotions) {
		return 0.3
	}

	maxEmotion := 0.0
	for _, v := range emotions {
		if v > maxEmotion {
			maxEmotion = v
		}
	}
	switch {
	case maxEmotion > 0.7:
		return 0.9
	case maxEmotion > 0.4:
		return 0.7
	default:
		return 0.5
	}
}

// conflictingEmotions reports simultaneously strong positive and negative
// emotion, which signals a contradictory extraction.
func conflictingEmotions(emotions map[string]float64) bool {
	positive := emotions[domain.EmotionSatisfaction] + emotions[domain.EmotionDelight]
	negative := emotions[domain.EmotionAnger] + emotions[domain.EmotionFrustration]
	return positive > conflictBand && negative > conflictBand
}

func textQuality(textLength int) float64 {
	switch {
	case textLength < 10:
		return 0.3
	case textLength < 50:
		return 0.6
	case textLength < 200:
		return 0.8
	default:
		return 0.9
	}
}

func signalStrength(score float64) float64 {
	compound := math.Abs(score)
	switch {
	case compound > 0.7:
		return 0.9
	case compound > 0.4:
		return 0.7
	case compound > 0.2:
		return 0.5
	default:
		return 0.3
	}
}

func levelFor(overall float64) Level {
	switch {
	case overall >= levelHigh:
		return LevelHigh
	case overall >= levelMedium:
		return LevelMedium
	case overall >= levelLow:
		return LevelLow
	default:
		return LevelVeryLow
	}
}

func recommendationsFor(level Level) []string {
	switch level {
	case LevelVeryLow:
		return []string{
			"consider manual review of this analysis",
			"request additional context or clarification",
			"use multiple analysis methods for verification",
		}
	case LevelLow:
		return []string{
			"proceed with caution",
			"consider secondary analysis",
			"monitor for pattern changes",
		}
	case LevelMedium:
		return []string{
			"analysis is reasonably reliable",
			"consider context for final decision",
			"monitor for consistency",
		}
	default:
		return []string{
			"analysis is highly reliable",
			"proceed with confidence",
			"use as primary decision factor",
		}
	}
}

func warningsFor(signal domain.SentimentSignal, overall float64) []string {
	var warnings []string
	if signal.TextLength < 10 {
		warnings = append(warnings, "very short text may not provide sufficient context")
	}
	if conflictingEmotions(signal.Emotions) {
		warnings = append(warnings, "conflicting emotional signals detected")
	}
	if overall < levelLow {
		warnings = append(warnings, "low confidence score indicates potential unreliability")
	}
	if math.Abs(signal.Score) < 0.1 {
		warnings = append(warnings, "very neutral sentiment may indicate unclear intent")
	}
	return warnings
}
