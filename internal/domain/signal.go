package domain

// Emotion keys produced by the upstream extraction service. Unknown keys are
// carried through untouched; the scoring components only read these.
const (
	EmotionAnger        = "anger"
	EmotionFrustration  = "frustration"
	EmotionConfusion    = "confusion"
	EmotionSatisfaction = "satisfaction"
	EmotionDelight      = "delight"
	EmotionUrgency      = "urgency"
)

// UrgencyLevel is the coarse urgency classification attached to a signal.
type UrgencyLevel string

const (
	UrgencyLow    UrgencyLevel = "low"
	UrgencyMedium UrgencyLevel = "medium"
	UrgencyHigh   UrgencyLevel = "high"
)

// ConfidenceInputs carries the raw per-method outputs of the upstream
// sentiment extraction. Two independent methods score the same text; how far
// they disagree drives the confidence evaluation.
type ConfidenceInputs struct {
	PrimaryScore   float64 // compound score of the primary method, [-1,1]
	SecondaryScore float64 // score of the secondary method, [-1,1]
	Subjectivity   float64 // [0,1], 0 means fully objective text
}

// SentimentSignal is the typed result of the external NLP step for a single
// ticket interaction. Immutable once produced; the pipeline works on a
// normalized copy.
type SentimentSignal struct {
	Score      float64 // compound sentiment, [-1,1]
	Positive   float64 // positive component, [0,1]
	Negative   float64 // negative component, [0,1]
	Neutral    float64 // neutral component, [0,1]
	Confidence ConfidenceInputs
	Emotions   map[string]float64
	Keywords   []string
	Urgency    UrgencyLevel
	TextLength int
}

// Emotion returns the named emotion score, or 0 if absent.
func (s SentimentSignal) Emotion(name string) float64 {
	if s.Emotions == nil {
		return 0
	}
	return s.Emotions[name]
}

// MaxEmotion returns the strongest single emotion score, or 0 if none are set.
func (s SentimentSignal) MaxEmotion() float64 {
	maxVal := 0.0
	for _, v := range s.Emotions {
		if v > maxVal {
			maxVal = v
		}
	}
	return maxVal
}

// Normalize returns a copy with every field forced into its documented range.
// Malformed or partial signals are clamped rather than rejected: an escalation
// decision must never be dropped because an upstream field is missing.
func (s SentimentSignal) Normalize() SentimentSignal {
	out := s
	out.Score = clampRange(s.Score, -1, 1)
	out.Positive = clamp01(s.Positive)
	out.Negative = clamp01(s.Negative)
	out.Neutral = clamp01(s.Neutral)
	out.Confidence.PrimaryScore = clampRange(s.Confidence.PrimaryScore, -1, 1)
	out.Confidence.SecondaryScore = clampRange(s.Confidence.SecondaryScore, -1, 1)
	out.Confidence.Subjectivity = clamp01(s.Confidence.Subjectivity)

	switch s.Urgency {
	case UrgencyLow, UrgencyMedium, UrgencyHigh:
	default:
		out.Urgency = UrgencyLow
	}

	if s.TextLength < 0 {
		out.TextLength = 0
	}

	if len(s.Emotions) > 0 {
		emotions := make(map[string]float64, len(s.Emotions))
		for k, v := range s.Emotions {
			emotions[k] = clamp01(v)
		}
		out.Emotions = emotions
	}
	return out
}

func clamp01(v float64) float64 {
	return clampRange(v, 0, 1)
}

func clampRange(v, low, high float64) float64 {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}
