package domain

import "time"

// TicketPriority is the intake-assigned priority of a support ticket.
type TicketPriority string

const (
	PriorityLow    TicketPriority = "low"
	PriorityNormal TicketPriority = "normal"
	PriorityHigh   TicketPriority = "high"
	PriorityUrgent TicketPriority = "urgent"
)

// CustomerTier is the commercial tier of the customer behind a ticket.
type CustomerTier string

const (
	TierBasic      CustomerTier = "basic"
	TierStandard   CustomerTier = "standard"
	TierPremium    CustomerTier = "premium"
	TierEnterprise CustomerTier = "enterprise"
)

// Ticket is the context for one pipeline run, produced by the external
// intake service. Immutable input.
type Ticket struct {
	ID            string
	Channel       string
	Source        string
	Priority      TicketPriority
	CustomerTier  CustomerTier
	AccountValue  float64
	CustomerSince time.Time
	IsVIP         bool
	Content       string
}

// DedupKey is the default deduplication key for alert cooldowns and trend
// windows: all tickets arriving on the same channel from the same source
// share one key.
func (t Ticket) DedupKey() string {
	return t.Channel + ":" + t.Source
}

// TenureYears returns how long the customer has been on the books at the
// given instant, in fractional years. Zero if CustomerSince is unset.
func (t Ticket) TenureYears(now time.Time) float64 {
	if t.CustomerSince.IsZero() || now.Before(t.CustomerSince) {
		return 0
	}
	return now.Sub(t.CustomerSince).Hours() / (24 * 365)
}
