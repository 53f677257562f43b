package config

import (
	"fmt"
	"os"

	"github.com/pulsecheck/watchdog/internal/domain"
	"github.com/pulsecheck/watchdog/internal/risk"
	"github.com/pulsecheck/watchdog/internal/routing"
	"gopkg.in/yaml.v3"
)

// Lexicons are the indicator phrase lists fed to the risk detector.
type Lexicons struct {
	Churn      []string `yaml:"churn_indicators"`
	Escalation []string `yaml:"escalation_indicators"`
	Urgency    []string `yaml:"urgency_words"`
}

// Tables is the operator-tunable rule set: risk thresholds, escalation
// paths, team capacities and indicator lexicons. Loaded from YAML, with a
// built-in default when no file is configured.
type Tables struct {
	RiskThresholds  domain.RiskThresholds             `yaml:"risk_thresholds"`
	Paths           map[domain.RiskLevel]routing.Path `yaml:"escalation_paths"`
	Backups         map[string]string                 `yaml:"backup_teams"`
	MaxBackupHops   int                               `yaml:"max_backup_hops"`
	Capacities      map[string]int                    `yaml:"team_capacities"`
	EnterpriseTeam  string                            `yaml:"enterprise_team"`
	PremiumFloor    string                            `yaml:"premium_floor_team"`
	ExecutiveValue  float64                           `yaml:"executive_value"`
	AccountMgrValue float64                           `yaml:"account_manager_value"`
	LoyaltyYears    float64                           `yaml:"loyalty_years"`
	AccelerateAbove float64                           `yaml:"accelerate_above"`
	LegalKeywords   []string                          `yaml:"legal_keywords"`
	SocialKeywords  []string                          `yaml:"social_keywords"`
	Lexicons        Lexicons                          `yaml:",inline"`
}

// DefaultTables returns the built-in rule set used when ROUTING_CONFIG is
// not set.
func DefaultTables() Tables {
	opts := routing.DefaultOptions()
	return Tables{
		RiskThresholds: domain.DefaultRiskThresholds(),
		Paths: map[domain.RiskLevel]routing.Path{
			domain.RiskCritical: {
				Team:        "crisis_response",
				ResponseSLA: domain.SLAImmediate,
				Channels:    []string{"pager", "phone", "email"},
				ImmediateActions: []string{
					"notify crisis response lead",
					"prepare retention offer",
				},
			},
			domain.RiskHigh: {
				Team:        "senior_support",
				ResponseSLA: domain.SLA1Hour,
				Channels:    []string{"phone", "email"},
				ImmediateActions: []string{
					"assign senior agent",
				},
			},
			domain.RiskMedium: {
				Team:        "tier_2_support",
				ResponseSLA: domain.SLA4Hours,
				Channels:    []string{"email"},
			},
			domain.RiskLow: {
				Team:        "standard_support",
				ResponseSLA: domain.SLA12Hours,
				Channels:    []string{"email"},
			},
			domain.RiskMinimal: {
				Team:        "standard_support",
				ResponseSLA: domain.SLA24Hours,
				Channels:    []string{"email"},
			},
		},
		Backups: map[string]string{
			"crisis_response":  "senior_support",
			"senior_support":   "tier_2_support",
			"tier_2_support":   "standard_support",
			"standard_support": "tier_2_support",
		},
		MaxBackupHops: opts.MaxBackupHops,
		Capacities: map[string]int{
			"crisis_response":  5,
			"senior_support":   10,
			"tier_2_support":   20,
			"standard_support": 50,
		},
		EnterpriseTeam:  "senior_support",
		PremiumFloor:    "tier_2_support",
		ExecutiveValue:  opts.ExecutiveValue,
		AccountMgrValue: opts.AccountMgrValue,
		LoyaltyYears:    opts.LoyaltyYears,
		AccelerateAbove: opts.AccelerateAbove,
		LegalKeywords:   opts.LegalKeywords,
		SocialKeywords:  opts.SocialKeywords,
		Lexicons: Lexicons{
			Churn:      risk.DefaultChurnIndicators,
			Escalation: risk.DefaultEscalationIndicators,
			Urgency:    risk.DefaultUrgencyWords,
		},
	}
}

// LoadTables reads the rule set from a YAML file, layered over the defaults:
// fields absent from the file keep their default values, map entries merge
// key by key.
func LoadTables(path string) (Tables, error) {
	tables := DefaultTables()
	if path == "" {
		return tables, nil
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return Tables{}, fmt.Errorf("read routing config: %w", err)
	}
	if err := yaml.Unmarshal(raw, &tables); err != nil {
		return Tables{}, fmt.Errorf("parse routing config: %w", err)
	}
	if err := tables.Validate(); err != nil {
		return Tables{}, fmt.Errorf("routing config %s: %w", path, err)
	}
	return tables, nil
}

// Validate checks the cross-table consistency the router cannot see on its
// own: capacities for every routed team, backups pointing at known teams.
func (t Tables) Validate() error {
	if err := t.RiskThresholds.Validate(); err != nil {
		return err
	}

	teams := make(map[string]bool)
	for _, level := range domain.RiskLevels {
		path, ok := t.Paths[level]
		if !ok {
			return fmt.Errorf("missing escalation path for risk level %q", level)
		}
		if path.Team == "" {
			return fmt.Errorf("escalation path for %q has no team", level)
		}
		if !path.ResponseSLA.Valid() {
			return fmt.Errorf("escalation path for %q has invalid response time %q", level, path.ResponseSLA)
		}
		teams[path.Team] = true
	}
	if t.EnterpriseTeam != "" {
		teams[t.EnterpriseTeam] = true
	}
	if t.PremiumFloor != "" {
		teams[t.PremiumFloor] = true
	}

	for team, backup := range t.Backups {
		if backup == "" {
			return fmt.Errorf("backup for team %q is empty", team)
		}
		teams[backup] = true
	}

	for team := range teams {
		if _, ok := t.Capacities[team]; !ok {
			return fmt.Errorf("team %q has no capacity entry", team)
		}
	}
	for team, capacity := range t.Capacities {
		if capacity < 0 {
			return fmt.Errorf("team %q has negative capacity %d", team, capacity)
		}
	}

	if t.MaxBackupHops < 1 {
		return fmt.Errorf("max_backup_hops must be at least 1, got %d", t.MaxBackupHops)
	}
	return nil
}

// RouterOptions converts the tables into the router's option set.
func (t Tables) RouterOptions() routing.Options {
	return routing.Options{
		Paths:            t.Paths,
		Backups:          t.Backups,
		MaxBackupHops:    t.MaxBackupHops,
		EnterpriseTeam:   t.EnterpriseTeam,
		PremiumFloorTeam: t.PremiumFloor,
		ExecutiveValue:   t.ExecutiveValue,
		AccountMgrValue:  t.AccountMgrValue,
		LoyaltyYears:     t.LoyaltyYears,
		AccelerateAbove:  t.AccelerateAbove,
		LegalKeywords:    t.LegalKeywords,
		SocialKeywords:   t.SocialKeywords,
	}
}
