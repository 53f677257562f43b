package routing

import (
	"context"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/pulsecheck/watchdog/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testOptions() Options {
	opts := DefaultOptions()
	opts.Paths = map[domain.RiskLevel]Path{
		domain.RiskCritical: {
			Team:             "crisis_response",
			ResponseSLA:      domain.SLAImmediate,
			Channels:         []string{"slack_urgent", "email_urgent", "phone_call"},
			ImmediateActions: []string{"senior_support", "manager_alert", "executive_notification"},
		},
		domain.RiskHigh: {
			Team:             "senior_support",
			ResponseSLA:      domain.SLA2Hours,
			Channels:         []string{"slack_high", "email_high"},
			ImmediateActions: []string{"senior_support", "manager_alert"},
		},
		domain.RiskMedium: {
			Team:             "tier_2_support",
			ResponseSLA:      domain.SLA4Hours,
			Channels:         []string{"slack_medium", "email_standard"},
			ImmediateActions: []string{"tier_2_support"},
		},
		domain.RiskLow: {
			Team:             "standard_support",
			ResponseSLA:      domain.SLA24Hours,
			Channels:         []string{"email_standard"},
			ImmediateActions: []string{"standard_support"},
		},
		domain.RiskMinimal: {
			Team:             "standard_support",
			ResponseSLA:      domain.SLA24Hours,
			Channels:         []string{"email_standard"},
			ImmediateActions: []string{"standard_support"},
		},
	}
	opts.Backups = map[string]string{
		"crisis_response":  "senior_support",
		"senior_support":   "tier_2_support",
		"tier_2_support":   "standard_support",
		"standard_support": "tier_2_support", // deliberate cycle, bounded by hops
	}
	opts.EnterpriseTeam = "senior_support"
	opts.PremiumFloorTeam = "tier_2_support"
	return opts
}

func testLimits() map[string]int {
	return map[string]int{
		"crisis_response":  5,
		"senior_support":   15,
		"tier_2_support":   30,
		"standard_support": 100,
	}
}

func newTestRouter(t *testing.T, limits map[string]int) (*Router, *MemoryCapacityStore, *clockwork.FakeClock) {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	store := NewMemoryCapacityStore(limits)
	router, err := NewRouter(testOptions(), store, clock)
	require.NoError(t, err)
	return router, store, clock
}

func assessmentAt(level domain.RiskLevel) domain.RiskAssessment {
	return domain.RiskAssessment{RiskLevel: level}
}

func TestRouteBasePath(t *testing.T) {
	router, _, _ := newTestRouter(t, testLimits())

	plan, err := router.Route(context.Background(), assessmentAt(domain.RiskHigh), 0.5, domain.Ticket{CustomerTier: domain.TierStandard})

	require.NoError(t, err)
	assert.Equal(t, "senior_support", plan.AssignedTeam)
	assert.Equal(t, domain.SLA2Hours, plan.ResponseSLA)
	assert.Equal(t, []string{"slack_high", "email_high"}, plan.Channels)
	assert.False(t, plan.UsedBackup)
	assert.False(t, plan.Unresolved)
}

func TestRouteEnterpriseForcesSeniorSupport(t *testing.T) {
	router, _, _ := newTestRouter(t, testLimits())

	plan, err := router.Route(context.Background(), assessmentAt(domain.RiskLow), 0.2, domain.Ticket{CustomerTier: domain.TierEnterprise})

	require.NoError(t, err)
	assert.Equal(t, "senior_support", plan.AssignedTeam)
	assert.Contains(t, plan.Channels, "dedicated_support_line")
}

func TestRoutePremiumFloorsAtTier2(t *testing.T) {
	router, _, _ := newTestRouter(t, testLimits())

	plan, err := router.Route(context.Background(), assessmentAt(domain.RiskLow), 0.2, domain.Ticket{CustomerTier: domain.TierPremium})
	require.NoError(t, err)
	assert.Equal(t, "tier_2_support", plan.AssignedTeam)

	// High risk premium keeps the base path team.
	plan, err = router.Route(context.Background(), assessmentAt(domain.RiskHigh), 0.2, domain.Ticket{CustomerTier: domain.TierPremium})
	require.NoError(t, err)
	assert.Equal(t, "senior_support", plan.AssignedTeam)

	// The floor applies at low and medium only, not minimal.
	plan, err = router.Route(context.Background(), assessmentAt(domain.RiskMinimal), 0.1, domain.Ticket{CustomerTier: domain.TierPremium})
	require.NoError(t, err)
	assert.Equal(t, "standard_support", plan.AssignedTeam)
}

func TestRouteAccountValueChannels(t *testing.T) {
	router, _, _ := newTestRouter(t, testLimits())
	ctx := context.Background()

	plan, err := router.Route(ctx, assessmentAt(domain.RiskMedium), 0.2, domain.Ticket{AccountValue: 60_000})
	require.NoError(t, err)
	assert.Contains(t, plan.Channels, "executive_escalation")
	assert.NotContains(t, plan.Channels, "account_manager_notification")

	plan, err = router.Route(ctx, assessmentAt(domain.RiskMedium), 0.2, domain.Ticket{AccountValue: 20_000})
	require.NoError(t, err)
	assert.Contains(t, plan.Channels, "account_manager_notification")
	assert.NotContains(t, plan.Channels, "executive_escalation")
}

func TestRouteLoyaltyChannel(t *testing.T) {
	router, _, clock := newTestRouter(t, testLimits())

	plan, err := router.Route(context.Background(), assessmentAt(domain.RiskMedium), 0.2,
		domain.Ticket{CustomerSince: clock.Now().AddDate(-6, 0, 0)})

	require.NoError(t, err)
	assert.Contains(t, plan.Channels, "loyalty_program_notification")
}

func TestRouteHighPriorityScoreAcceleratesSLA(t *testing.T) {
	router, _, _ := newTestRouter(t, testLimits())

	plan, err := router.Route(context.Background(), assessmentAt(domain.RiskLow), 0.85, domain.Ticket{})

	require.NoError(t, err)
	assert.Equal(t, domain.SLA12Hours, plan.ResponseSLA)
}

func TestRouteBackupFailover(t *testing.T) {
	limits := testLimits()
	limits["senior_support"] = 1
	router, store, _ := newTestRouter(t, limits)
	ctx := context.Background()

	// Saturate the primary.
	ok, err := store.TryAcquire(ctx, "senior_support")
	require.NoError(t, err)
	require.True(t, ok)

	plan, err := router.Route(ctx, assessmentAt(domain.RiskHigh), 0.5, domain.Ticket{})

	require.NoError(t, err)
	assert.Equal(t, "tier_2_support", plan.AssignedTeam)
	assert.True(t, plan.UsedBackup)
	require.NotEmpty(t, plan.Notes)
	assert.Contains(t, plan.Notes[0], "senior_support at capacity")
}

func TestRouteBackupChainExhaustedIsUnresolved(t *testing.T) {
	router, _, _ := newTestRouter(t, map[string]int{
		"crisis_response":  0,
		"senior_support":   0,
		"tier_2_support":   0,
		"standard_support": 0,
	})

	plan, err := router.Route(context.Background(), assessmentAt(domain.RiskCritical), 0.9, domain.Ticket{})

	require.ErrorIs(t, err, ErrNoCapacity)
	assert.True(t, plan.Unresolved)
	assert.Empty(t, plan.AssignedTeam)
}

func TestRouteCyclicBackupTableTerminates(t *testing.T) {
	// standard_support and tier_2_support back each other up; with both
	// saturated the hop bound must stop the walk.
	router, _, _ := newTestRouter(t, map[string]int{
		"crisis_response":  5,
		"senior_support":   15,
		"tier_2_support":   0,
		"standard_support": 0,
	})

	plan, err := router.Route(context.Background(), assessmentAt(domain.RiskLow), 0.1, domain.Ticket{})

	require.ErrorIs(t, err, ErrNoCapacity)
	assert.True(t, plan.Unresolved)
}

func TestRouteVIPOverrideForcesCritical(t *testing.T) {
	router, _, _ := newTestRouter(t, testLimits())

	plan, err := router.Route(context.Background(), assessmentAt(domain.RiskMinimal), 0.1, domain.Ticket{IsVIP: true})

	require.NoError(t, err)
	assert.Equal(t, domain.RiskCritical, plan.RiskLevel)
	assert.Equal(t, "crisis_response", plan.AssignedTeam)
	assert.True(t, plan.Override.Applied)
	assert.Equal(t, "VIP customer", plan.Override.Reason)
}

func TestRouteLegalKeywordForcesCritical(t *testing.T) {
	router, _, _ := newTestRouter(t, testLimits())

	plan, err := router.Route(context.Background(), assessmentAt(domain.RiskLow), 0.1,
		domain.Ticket{Content: "I will contact my Lawyer about this"})

	require.NoError(t, err)
	assert.Equal(t, domain.RiskCritical, plan.RiskLevel)
	assert.True(t, plan.Override.Applied)
}

func TestRouteSocialKeywordForcesAtLeastHigh(t *testing.T) {
	router, _, _ := newTestRouter(t, testLimits())
	ctx := context.Background()

	plan, err := router.Route(ctx, assessmentAt(domain.RiskLow), 0.1,
		domain.Ticket{Content: "I will post this on twitter"})
	require.NoError(t, err)
	assert.Equal(t, domain.RiskHigh, plan.RiskLevel)

	// Social override never lowers an already critical level.
	plan, err = router.Route(ctx, assessmentAt(domain.RiskCritical), 0.9,
		domain.Ticket{Content: "I will post this on twitter"})
	require.NoError(t, err)
	assert.Equal(t, domain.RiskCritical, plan.RiskLevel)
}

func TestRouteOverrideStillSubjectToCapacity(t *testing.T) {
	limits := testLimits()
	limits["crisis_response"] = 0
	router, _, _ := newTestRouter(t, limits)

	plan, err := router.Route(context.Background(), assessmentAt(domain.RiskMinimal), 0.1, domain.Ticket{IsVIP: true})

	require.NoError(t, err)
	assert.True(t, plan.UsedBackup)
	assert.Equal(t, "senior_support", plan.AssignedTeam)
}

func TestRouteIncrementsAssignedTeamLoad(t *testing.T) {
	router, store, _ := newTestRouter(t, testLimits())
	ctx := context.Background()

	_, err := router.Route(ctx, assessmentAt(domain.RiskMedium), 0.2, domain.Ticket{})
	require.NoError(t, err)

	statuses, err := store.Status(ctx)
	require.NoError(t, err)
	for _, status := range statuses {
		if status.Team == "tier_2_support" {
			assert.Equal(t, 1, status.CurrentLoad)
			return
		}
	}
	t.Fatal("tier_2_support not in status")
}

func TestCapacityReleaseClampsAtZero(t *testing.T) {
	store := NewMemoryCapacityStore(testLimits())
	ctx := context.Background()

	require.NoError(t, store.Release(ctx, "tier_2_support"))
	require.NoError(t, store.Release(ctx, "tier_2_support"))

	statuses, err := store.Status(ctx)
	require.NoError(t, err)
	for _, status := range statuses {
		assert.GreaterOrEqual(t, status.CurrentLoad, 0)
	}
}

func TestCapacityUnknownTeamGetsDefault(t *testing.T) {
	store := NewMemoryCapacityStore(nil)
	ctx := context.Background()

	for i := 0; i < DefaultMaxConcurrent; i++ {
		ok, err := store.TryAcquire(ctx, "mystery_team")
		require.NoError(t, err)
		require.True(t, ok)
	}
	ok, err := store.TryAcquire(ctx, "mystery_team")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNewRouterValidatesOptions(t *testing.T) {
	store := NewMemoryCapacityStore(testLimits())
	clock := clockwork.NewFakeClock()

	opts := testOptions()
	delete(opts.Paths, domain.RiskMedium)
	_, err := NewRouter(opts, store, clock)
	assert.ErrorContains(t, err, "missing escalation path")

	opts = testOptions()
	path := opts.Paths[domain.RiskLow]
	path.ResponseSLA = "whenever"
	opts.Paths[domain.RiskLow] = path
	_, err = NewRouter(opts, store, clock)
	assert.ErrorContains(t, err, "invalid SLA")

	opts = testOptions()
	opts.MaxBackupHops = 0
	_, err = NewRouter(opts, store, clock)
	assert.ErrorContains(t, err, "max backup hops")
}
