// Package guardrail enforces deterministic preconditions on mutating
// operations. The system directive asks the model to respect the same rules
// in prose, but prose adherence is not a safety guarantee; these checks are.
//
// Each rule is a named CEL predicate compiled once at startup and evaluated
// against a per-turn activation derived from the acting employee's current
// state. A false predicate denies the invocation with a machine-readable
// reason that the follow-up narrative uses to explain and suggest
// alternatives.
package guardrail

import (
	"fmt"

	"github.com/google/cel-go/cel"
	"github.com/pkg/errors"

	"github.com/lumenhr/lumen/hr"
	"github.com/lumenhr/lumen/store"
)

// Rule names. Operations reference these in their OperationSpec.
const (
	RuleSufficientBalance   = "sufficientBalance"
	RuleValidDateRange      = "validDateRange"
	RuleNotAlreadyClockedIn = "notAlreadyClockedIn"
	RuleClockedInToday      = "clockedInToday"
	RuleManagerRole         = "managerRole"
)

// Context is the per-turn state guardrails evaluate against. It is computed
// fresh every turn, never cached across turns: balances and attendance
// change between turns.
type Context struct {
	Employee    *store.Employee
	Role        store.Role
	Balances    map[string]float64 // leave type uid -> remaining balance
	CheckedIn   bool
	CheckInTime string
	ClockedOut  bool
}

// Decision is the outcome of a guardrail check. Reason is set on denial.
type Decision struct {
	Allowed bool
	Rule    string
	Reason  string
}

func allow() Decision {
	return Decision{Allowed: true}
}

func deny(rule, reason string) Decision {
	return Decision{Allowed: false, Rule: rule, Reason: reason}
}

type rule struct {
	name    string
	program cel.Program
	reason  func(gctx *Context, args map[string]any) string
}

// Engine evaluates named guardrails. Programs are compiled at construction;
// evaluation is side-effect free.
type Engine struct {
	rules map[string]*rule
}

var ruleExprs = map[string]string{
	RuleSufficientBalance:   `requestedDays > 0.0 && requestedDays <= balance`,
	RuleValidDateRange:      `has(args.startDate) && has(args.endDate) && string(args.startDate) <= string(args.endDate)`,
	RuleNotAlreadyClockedIn: `!checkedIn`,
	RuleClockedInToday:      `checkedIn && !clockedOut`,
	RuleManagerRole:         `role == 'manager'`,
}

func NewEngine() (*Engine, error) {
	env, err := cel.NewEnv(
		cel.Variable("args", cel.MapType(cel.StringType, cel.DynType)),
		cel.Variable("role", cel.StringType),
		cel.Variable("balance", cel.DoubleType),
		cel.Variable("requestedDays", cel.DoubleType),
		cel.Variable("checkedIn", cel.BoolType),
		cel.Variable("clockedOut", cel.BoolType),
	)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create cel env")
	}

	reasons := map[string]func(gctx *Context, args map[string]any) string{
		RuleSufficientBalance: func(gctx *Context, args map[string]any) string {
			uid, _ := args["leaveTypeId"].(string)
			days := requestedDays(args)
			return fmt.Sprintf("insufficient %s leave balance: requested %.1f days, available %.1f", uid, days, gctx.Balances[uid])
		},
		RuleValidDateRange: func(_ *Context, args map[string]any) string {
			return fmt.Sprintf("invalid date range: start %v is after end %v", args["startDate"], args["endDate"])
		},
		RuleNotAlreadyClockedIn: func(gctx *Context, _ map[string]any) string {
			return fmt.Sprintf("already clocked in today at %s", gctx.CheckInTime)
		},
		RuleClockedInToday: func(_ *Context, _ map[string]any) string {
			return "no open check-in found for today"
		},
		RuleManagerRole: func(_ *Context, _ map[string]any) string {
			return "approvals require the manager role"
		},
	}

	engine := &Engine{rules: make(map[string]*rule, len(ruleExprs))}
	for name, expr := range ruleExprs {
		compiled, issues := env.Compile(expr)
		if issues != nil && issues.Err() != nil {
			return nil, errors.Wrapf(issues.Err(), "failed to compile guardrail %s", name)
		}
		program, err := env.Program(compiled)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to program guardrail %s", name)
		}
		engine.rules[name] = &rule{name: name, program: program, reason: reasons[name]}
	}
	return engine, nil
}

// Check evaluates the named guardrails in order against the arguments and
// context. The first failing rule denies; an unknown rule name is an error,
// not a silent allow.
func (e *Engine) Check(names []string, args map[string]any, gctx *Context) (Decision, error) {
	activation := map[string]any{
		"args":          args,
		"role":          string(gctx.Role),
		"balance":       balanceFor(gctx, args),
		"requestedDays": requestedDays(args),
		"checkedIn":     gctx.CheckedIn,
		"clockedOut":    gctx.ClockedOut,
	}

	for _, name := range names {
		r, ok := e.rules[name]
		if !ok {
			return Decision{}, errors.Errorf("unknown guardrail: %s", name)
		}
		out, _, err := r.program.Eval(activation)
		if err != nil {
			return Decision{}, errors.Wrapf(err, "failed to evaluate guardrail %s", name)
		}
		allowed, ok := out.Value().(bool)
		if !ok {
			return Decision{}, errors.Errorf("guardrail %s did not evaluate to bool", name)
		}
		if !allowed {
			return deny(name, r.reason(gctx, args)), nil
		}
	}
	return allow(), nil
}

func balanceFor(gctx *Context, args map[string]any) float64 {
	uid, _ := args["leaveTypeId"].(string)
	return gctx.Balances[uid]
}

// requestedDays derives the inclusive day count from applyLeave arguments.
// Malformed dates yield 0, which sufficientBalance rejects; the executor's
// schema validation reports the field-level detail.
func requestedDays(args map[string]any) float64 {
	start, _ := args["startDate"].(string)
	end, _ := args["endDate"].(string)
	var partial *string
	if p, ok := args["partialDay"].(string); ok {
		partial = &p
	}
	days, err := hr.LeaveDays(start, end, partial)
	if err != nil {
		return 0
	}
	return days
}
