package domain

// AlertSeverity classifies how loud a triggered alert should be.
type AlertSeverity string

const (
	SeverityLow      AlertSeverity = "low"
	SeverityMedium   AlertSeverity = "medium"
	SeverityHigh     AlertSeverity = "high"
	SeverityCritical AlertSeverity = "critical"
)

// AlertContent is the rendered notification payload handed to the external
// transport layer. The core decides content, not delivery.
type AlertContent struct {
	Title           string
	Message         string
	Recommendations []string
}

// AlertDecision is the outcome of the alert trigger evaluation for one run.
// Content is only populated when ShouldAlert is true.
type AlertDecision struct {
	ShouldAlert bool
	Severity    AlertSeverity
	Reason      string
	Content     *AlertContent
}

// Suppression reasons reported on AlertDecision.Reason.
const (
	ReasonNoConditions = "no alert conditions met"
	ReasonCooldown     = "cooldown"
)
