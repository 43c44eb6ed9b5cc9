package guardrail

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/lumenhr/lumen/store"
)

func newEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine()
	require.NoError(t, err)
	return engine
}

func TestSufficientBalance(t *testing.T) {
	engine := newEngine(t)
	gctx := &Context{
		Role:     store.RoleEmployee,
		Balances: map[string]float64{"casual": 3, "sick": 0},
	}

	decision, err := engine.Check([]string{RuleSufficientBalance}, map[string]any{
		"leaveTypeId": "casual",
		"startDate":   "2025-06-18",
		"endDate":     "2025-06-19",
	}, gctx)
	require.NoError(t, err)
	require.True(t, decision.Allowed)

	// Zero balance denies and the reason carries the numbers.
	decision, err = engine.Check([]string{RuleSufficientBalance}, map[string]any{
		"leaveTypeId": "sick",
		"startDate":   "2025-06-18",
		"endDate":     "2025-06-19",
	}, gctx)
	require.NoError(t, err)
	require.False(t, decision.Allowed)
	require.Equal(t, RuleSufficientBalance, decision.Rule)
	require.Contains(t, decision.Reason, "insufficient sick leave balance")
	require.Contains(t, decision.Reason, "requested 2.0 days")
	require.Contains(t, decision.Reason, "available 0.0")

	// Requesting more than available denies.
	decision, err = engine.Check([]string{RuleSufficientBalance}, map[string]any{
		"leaveTypeId": "casual",
		"startDate":   "2025-06-18",
		"endDate":     "2025-06-25",
	}, gctx)
	require.NoError(t, err)
	require.False(t, decision.Allowed)

	// Unknown leave type has no balance row, so it denies too.
	decision, err = engine.Check([]string{RuleSufficientBalance}, map[string]any{
		"leaveTypeId": "sabbatical",
		"startDate":   "2025-06-18",
		"endDate":     "2025-06-18",
	}, gctx)
	require.NoError(t, err)
	require.False(t, decision.Allowed)
}

func TestValidDateRange(t *testing.T) {
	engine := newEngine(t)
	gctx := &Context{Role: store.RoleEmployee}

	decision, err := engine.Check([]string{RuleValidDateRange}, map[string]any{
		"startDate": "2025-06-18",
		"endDate":   "2025-06-18",
	}, gctx)
	require.NoError(t, err)
	require.True(t, decision.Allowed)

	decision, err = engine.Check([]string{RuleValidDateRange}, map[string]any{
		"startDate": "2025-06-20",
		"endDate":   "2025-06-18",
	}, gctx)
	require.NoError(t, err)
	require.False(t, decision.Allowed)
	require.Contains(t, decision.Reason, "invalid date range")
}

func TestClockGuardrails(t *testing.T) {
	engine := newEngine(t)

	// Fresh day: clock-in allowed, clock-out denied.
	fresh := &Context{Role: store.RoleEmployee}
	decision, err := engine.Check([]string{RuleNotAlreadyClockedIn}, map[string]any{}, fresh)
	require.NoError(t, err)
	require.True(t, decision.Allowed)

	decision, err = engine.Check([]string{RuleClockedInToday}, map[string]any{}, fresh)
	require.NoError(t, err)
	require.False(t, decision.Allowed)
	require.Contains(t, decision.Reason, "no open check-in")

	// Clocked in: the reverse, and the denial carries the check-in time.
	clockedIn := &Context{Role: store.RoleEmployee, CheckedIn: true, CheckInTime: "09:05"}
	decision, err = engine.Check([]string{RuleNotAlreadyClockedIn}, map[string]any{}, clockedIn)
	require.NoError(t, err)
	require.False(t, decision.Allowed)
	require.Equal(t, "already clocked in today at 09:05", decision.Reason)

	decision, err = engine.Check([]string{RuleClockedInToday}, map[string]any{}, clockedIn)
	require.NoError(t, err)
	require.True(t, decision.Allowed)

	// Already clocked out: no second clock-out.
	done := &Context{Role: store.RoleEmployee, CheckedIn: true, CheckInTime: "09:05", ClockedOut: true}
	decision, err = engine.Check([]string{RuleClockedInToday}, map[string]any{}, done)
	require.NoError(t, err)
	require.False(t, decision.Allowed)
}

func TestManagerRole(t *testing.T) {
	engine := newEngine(t)

	decision, err := engine.Check([]string{RuleManagerRole}, map[string]any{}, &Context{Role: store.RoleManager})
	require.NoError(t, err)
	require.True(t, decision.Allowed)

	decision, err = engine.Check([]string{RuleManagerRole}, map[string]any{}, &Context{Role: store.RoleEmployee})
	require.NoError(t, err)
	require.False(t, decision.Allowed)
	require.Equal(t, "approvals require the manager role", decision.Reason)
}

func TestMultipleRulesFirstDenialWins(t *testing.T) {
	engine := newEngine(t)
	gctx := &Context{
		Role:     store.RoleEmployee,
		Balances: map[string]float64{"casual": 10},
	}

	decision, err := engine.Check(
		[]string{RuleValidDateRange, RuleSufficientBalance},
		map[string]any{
			"leaveTypeId": "casual",
			"startDate":   "2025-06-20",
			"endDate":     "2025-06-18",
		},
		gctx,
	)
	require.NoError(t, err)
	require.False(t, decision.Allowed)
	require.Equal(t, RuleValidDateRange, decision.Rule)
}

func TestUnknownRuleIsError(t *testing.T) {
	engine := newEngine(t)

	_, err := engine.Check([]string{"noSuchRule"}, map[string]any{}, &Context{Role: store.RoleEmployee})
	require.Error(t, err)
}
