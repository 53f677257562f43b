package domain

// SLA is a response-time commitment from the fixed acceleration ladder.
type SLA string

const (
	SLAImmediate SLA = "immediate"
	SLA1Hour     SLA = "1_hour"
	SLA2Hours    SLA = "2_hours"
	SLA4Hours    SLA = "4_hours"
	SLA12Hours   SLA = "12_hours"
	SLA24Hours   SLA = "24_hours"
)

// slaLadder orders SLAs from slowest to fastest.
var slaLadder = []SLA{SLA24Hours, SLA12Hours, SLA4Hours, SLA2Hours, SLA1Hour, SLAImmediate}

// Valid reports whether the SLA is on the ladder.
func (s SLA) Valid() bool {
	for _, step := range slaLadder {
		if s == step {
			return true
		}
	}
	return false
}

// Accelerate returns the next faster step on the ladder. Immediate stays
// immediate; unknown values are returned unchanged.
func (s SLA) Accelerate() SLA {
	for i, step := range slaLadder {
		if s == step && i+1 < len(slaLadder) {
			return slaLadder[i+1]
		}
	}
	return s
}

// PriorityOverride records a forced risk-level change applied during routing.
type PriorityOverride struct {
	Applied  bool
	Reason   string
	NewLevel RiskLevel
}

// TeamStatus is a point-in-time view of one team's assignment load.
type TeamStatus struct {
	Team        string  `json:"team"`
	CurrentLoad int     `json:"current_load"`
	MaxCapacity int     `json:"max_capacity"`
	Utilization float64 `json:"utilization"`
}

// EscalationPlan is the routing outcome for one ticket: who handles it, how
// fast, and over which channels. Handed to the external dispatcher.
type EscalationPlan struct {
	RiskLevel        RiskLevel
	AssignedTeam     string
	UsedBackup       bool
	Unresolved       bool
	Channels         []string
	ResponseSLA      SLA
	ImmediateActions []string
	Notes            []string
	Override         PriorityOverride
}
