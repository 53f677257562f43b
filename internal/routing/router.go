package routing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/jonboulle/clockwork"
	"github.com/pulsecheck/watchdog/internal/domain"
	"github.com/pulsecheck/watchdog/internal/metrics"
)

// ErrNoCapacity is returned when the primary team and the whole bounded
// backup chain are saturated. The plan is still returned with
// Unresolved=true so the caller can queue the ticket for human ops.
var ErrNoCapacity = errors.New("no team capacity within backup chain")

// Context-adjustment channels appended to a path's channel list.
const (
	channelDedicatedSupport = "dedicated_support_line"
	channelExecutive        = "executive_escalation"
	channelAccountManager   = "account_manager_notification"
	channelLoyalty          = "loyalty_program_notification"
)

// Priority-override reasons.
const (
	overrideVIP    = "VIP customer"
	overrideLegal  = "legal/compliance concern"
	overrideSocial = "social media escalation threat"
)

// Path is one escalation route: who responds, how fast, and over which
// channels.
type Path struct {
	Team             string     `yaml:"team"`
	ResponseSLA      domain.SLA `yaml:"response_time"`
	Channels         []string   `yaml:"channels"`
	ImmediateActions []string   `yaml:"immediate_actions"`
}

// Options carries the validated routing tables and adjustment thresholds.
type Options struct {
	Paths            map[domain.RiskLevel]Path
	Backups          map[string]string
	MaxBackupHops    int
	EnterpriseTeam   string  // team forced for enterprise-tier tickets
	PremiumFloorTeam string  // minimum team for premium tier at low/medium risk
	ExecutiveValue   float64 // account value adding the executive channel
	AccountMgrValue  float64 // account value adding the account-manager channel
	LoyaltyYears     float64 // tenure adding the loyalty channel
	AccelerateAbove  float64 // priority score accelerating the SLA one step
	LegalKeywords    []string
	SocialKeywords   []string
}

// DefaultOptions returns the standard adjustment thresholds and override
// keyword lists. Paths, backups, and team names still have to be supplied.
func DefaultOptions() Options {
	return Options{
		MaxBackupHops:   3,
		ExecutiveValue:  50_000,
		AccountMgrValue: 10_000,
		LoyaltyYears:    5,
		AccelerateAbove: 0.8,
		LegalKeywords:   []string{"legal", "lawyer", "attorney", "compliance", "regulatory"},
		SocialKeywords:  []string{"twitter", "facebook", "social media", "public", "review"},
	}
}

// Router resolves escalation plans. Safe for concurrent use; all mutable
// state lives in the capacity store.
type Router struct {
	opts     Options
	capacity CapacityStore
	clock    clockwork.Clock
}

func NewRouter(opts Options, capacity CapacityStore, clock clockwork.Clock) (*Router, error) {
	if err := validateOptions(opts); err != nil {
		return nil, err
	}
	return &Router{opts: opts, capacity: capacity, clock: clock}, nil
}

func validateOptions(opts Options) error {
	for _, level := range domain.RiskLevels {
		path, ok := opts.Paths[level]
		if !ok {
			return fmt.Errorf("routing: missing escalation path for risk level %q", level)
		}
		if path.Team == "" {
			return fmt.Errorf("routing: escalation path for %q has no team", level)
		}
		if !path.ResponseSLA.Valid() {
			return fmt.Errorf("routing: escalation path for %q has invalid SLA %q", level, path.ResponseSLA)
		}
	}
	if opts.MaxBackupHops < 1 {
		return fmt.Errorf("routing: max backup hops must be at least 1, got %d", opts.MaxBackupHops)
	}
	return nil
}

// Status reports the current per-team load.
func (r *Router) Status(ctx context.Context) ([]domain.TeamStatus, error) {
	return r.capacity.Status(ctx)
}

// Release hands back one unit of team capacity after a ticket is resolved or
// reassigned by the external collaborator.
func (r *Router) Release(ctx context.Context, team string) error {
	return r.capacity.Release(ctx, team)
}

// Route resolves the escalation plan for one assessed ticket. On success the
// assigned team's load is incremented; this is the single state commit of the
// call, performed after all checks. When the backup chain is exhausted the
// returned plan has Unresolved=true and the error wraps ErrNoCapacity.
func (r *Router) Route(ctx context.Context, assessment domain.RiskAssessment, priorityScore float64, ticket domain.Ticket) (domain.EscalationPlan, error) {
	override := r.checkOverride(ticket)
	level := assessment.RiskLevel
	if override.Applied {
		level = level.Max(override.NewLevel)
		metrics.PriorityOverridesTotal.WithLabelValues(override.Reason).Inc()
		slog.InfoContext(ctx, "priority override applied",
			"ticket_id", ticket.ID, "reason", override.Reason, "risk_level", string(level))
	}

	plan := r.basePlan(level)
	plan.Override = override
	r.adjustForContext(&plan, ticket, priorityScore)

	if err := r.assignTeam(ctx, &plan, assessment); err != nil {
		return plan, err
	}

	metrics.EscalationsTotal.WithLabelValues(plan.AssignedTeam, string(level)).Inc()
	return plan, nil
}

func (r *Router) basePlan(level domain.RiskLevel) domain.EscalationPlan {
	path := r.opts.Paths[level]
	return domain.EscalationPlan{
		RiskLevel:        level,
		AssignedTeam:     path.Team,
		Channels:         append([]string(nil), path.Channels...),
		ResponseSLA:      path.ResponseSLA,
		ImmediateActions: append([]string(nil), path.ImmediateActions...),
	}
}

func (r *Router) adjustForContext(plan *domain.EscalationPlan, ticket domain.Ticket, priorityScore float64) {
	switch ticket.CustomerTier {
	case domain.TierEnterprise:
		plan.AssignedTeam = r.opts.EnterpriseTeam
		plan.Channels = append(plan.Channels, channelDedicatedSupport)
	case domain.TierPremium:
		if plan.RiskLevel == domain.RiskLow || plan.RiskLevel == domain.RiskMedium {
			plan.AssignedTeam = r.opts.PremiumFloorTeam
		}
	}

	if ticket.AccountValue > r.opts.ExecutiveValue {
		plan.Channels = append(plan.Channels, channelExecutive)
	} else if ticket.AccountValue > r.opts.AccountMgrValue {
		plan.Channels = append(plan.Channels, channelAccountManager)
	}

	if ticket.TenureYears(r.clock.Now()) > r.opts.LoyaltyYears {
		plan.Channels = append(plan.Channels, channelLoyalty)
	}

	if priorityScore > r.opts.AccelerateAbove {
		plan.ResponseSLA = plan.ResponseSLA.Accelerate()
	}
}

// assignTeam walks the backup chain, at most MaxBackupHops hops past the
// primary, taking the first team with free capacity. The hop bound makes
// cyclic backup tables safe.
func (r *Router) assignTeam(ctx context.Context, plan *domain.EscalationPlan, assessment domain.RiskAssessment) error {
	team := plan.AssignedTeam
	primary := team

	for hop := 0; hop <= r.opts.MaxBackupHops; hop++ {
		ok, err := r.capacity.TryAcquire(ctx, team)
		if err != nil {
			return fmt.Errorf("capacity check for %s: %w", team, err)
		}
		if ok {
			if hop > 0 {
				plan.AssignedTeam = team
				plan.UsedBackup = true
				plan.Notes = append(plan.Notes,
					fmt.Sprintf("primary team %s at capacity, routing to %s", primary, team))
				metrics.BackupFailoversTotal.Inc()
			}
			r.annotate(plan, assessment)
			return nil
		}

		backup, exists := r.opts.Backups[team]
		if !exists {
			break
		}
		team = backup
	}

	plan.Unresolved = true
	plan.AssignedTeam = ""
	plan.Notes = append(plan.Notes,
		fmt.Sprintf("backup chain exhausted after %d hops from %s", r.opts.MaxBackupHops, primary))
	metrics.UnresolvedEscalationsTotal.Inc()
	slog.WarnContext(ctx, "escalation unresolved, backup chain exhausted",
		"primary_team", primary, "max_hops", r.opts.MaxBackupHops)
	return fmt.Errorf("routing %s: %w", primary, ErrNoCapacity)
}

func (r *Router) annotate(plan *domain.EscalationPlan, assessment domain.RiskAssessment) {
	if plan.RiskLevel == domain.RiskCritical {
		plan.Notes = append(plan.Notes, "critical risk level - immediate attention required")
	}
	if assessment.ChurnRisk > 0.7 {
		plan.Notes = append(plan.Notes, "high churn risk detected - retention focus required")
	}
}

// checkOverride inspects the ticket for conditions that force the risk level
// up regardless of the computed score. Overrides change the target level
// only; capacity checks still apply.
func (r *Router) checkOverride(ticket domain.Ticket) domain.PriorityOverride {
	if ticket.IsVIP {
		return domain.PriorityOverride{Applied: true, Reason: overrideVIP, NewLevel: domain.RiskCritical}
	}

	content := strings.ToLower(ticket.Content)
	for _, keyword := range r.opts.LegalKeywords {
		if strings.Contains(content, keyword) {
			return domain.PriorityOverride{Applied: true, Reason: overrideLegal, NewLevel: domain.RiskCritical}
		}
	}
	for _, keyword := range r.opts.SocialKeywords {
		if strings.Contains(content, keyword) {
			return domain.PriorityOverride{Applied: true, Reason: overrideSocial, NewLevel: domain.RiskHigh}
		}
	}
	return domain.PriorityOverride{}
}
