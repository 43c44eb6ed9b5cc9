package assistant

import (
	"context"

	"github.com/lumenhr/lumen/assistant/catalog"
	"github.com/lumenhr/lumen/assistant/guardrail"
	"github.com/lumenhr/lumen/assistant/llm"
	"github.com/lumenhr/lumen/hr"
	"github.com/lumenhr/lumen/store"
)

// NewCatalog registers every operation the assistant can invoke against the
// HR service. Descriptions are written for the model: they state when to use
// the operation and what it needs, in the same voice the system directive
// uses.
func NewCatalog(hrSvc *hr.Service) (*catalog.Catalog, error) {
	return catalog.New(
		&catalog.OperationSpec{
			Name:        "applyLeave",
			Description: "Apply for leave on behalf of the employee. Use when the user wants to take time off, request vacation, or report sick leave.",
			Parameters: objectSchema(
				[]string{"leaveTypeId", "startDate", "endDate", "reason"},
				map[string]*llm.JSONSchema{
					"leaveTypeId": {Type: "string", Description: "Leave type identifier: casual, sick, or annual"},
					"startDate":   {Type: "string", Description: "Start date in YYYY-MM-DD format"},
					"endDate":     {Type: "string", Description: "End date in YYYY-MM-DD format"},
					"reason":      {Type: "string", Description: "Reason for the leave request"},
					"partialDay":  {Type: "string", Description: "Set for a half-day request on a single date", Enum: []string{"first_half", "second_half"}},
				},
			),
			Mutating:   true,
			Guardrails: []string{guardrail.RuleValidDateRange, guardrail.RuleSufficientBalance},
			Handler: func(ctx context.Context, actor *store.Employee, args map[string]any) (any, error) {
				return hrSvc.ApplyLeave(ctx, actor.ID,
					stringArg(args, "leaveTypeId"),
					stringArg(args, "startDate"),
					stringArg(args, "endDate"),
					stringArg(args, "reason"),
					optionalStringArg(args, "partialDay"),
				)
			},
		},
		&catalog.OperationSpec{
			Name:        "getLeaveBalance",
			Description: "Get the employee's leave balances by type, including consumed days and utilization.",
			Parameters: objectSchema(nil, map[string]*llm.JSONSchema{
				"year": {Type: "integer", Description: "Year to query, defaults to the current year"},
			}),
			Handler: func(ctx context.Context, actor *store.Employee, args map[string]any) (any, error) {
				year := intArg(args, "year", 0)
				return hrSvc.GetLeaveBalance(ctx, actor.ID, year)
			},
		},
		&catalog.OperationSpec{
			Name:        "getLeaveTypes",
			Description: "List the available leave types with their annual entitlements.",
			Parameters:  objectSchema(nil, nil),
			Handler: func(ctx context.Context, actor *store.Employee, _ map[string]any) (any, error) {
				return hrSvc.GetLeaveTypes(ctx)
			},
		},
		&catalog.OperationSpec{
			Name:        "getAttendance",
			Description: "Get the employee's attendance records for a date range.",
			Parameters: objectSchema(
				[]string{"startDate", "endDate"},
				map[string]*llm.JSONSchema{
					"startDate": {Type: "string", Description: "Start date in YYYY-MM-DD format"},
					"endDate":   {Type: "string", Description: "End date in YYYY-MM-DD format"},
				},
			),
			Handler: func(ctx context.Context, actor *store.Employee, args map[string]any) (any, error) {
				return hrSvc.GetAttendance(ctx, actor.ID, stringArg(args, "startDate"), stringArg(args, "endDate"))
			},
		},
		&catalog.OperationSpec{
			Name:        "clockIn",
			Description: "Clock the employee in for today. Use when the user says they are starting work.",
			Parameters: objectSchema(nil, map[string]*llm.JSONSchema{
				"location": {Type: "string", Description: "Work location, e.g. office or remote"},
			}),
			Mutating:   true,
			Guardrails: []string{guardrail.RuleNotAlreadyClockedIn},
			Handler: func(ctx context.Context, actor *store.Employee, args map[string]any) (any, error) {
				return hrSvc.ClockIn(ctx, actor.ID, optionalStringArg(args, "location"))
			},
		},
		&catalog.OperationSpec{
			Name:        "clockOut",
			Description: "Clock the employee out for today and compute worked hours. Use when the user says they are done for the day.",
			Parameters: objectSchema(nil, map[string]*llm.JSONSchema{
				"location": {Type: "string", Description: "Work location, e.g. office or remote"},
			}),
			Mutating:   true,
			Guardrails: []string{guardrail.RuleClockedInToday},
			Handler: func(ctx context.Context, actor *store.Employee, args map[string]any) (any, error) {
				return hrSvc.ClockOut(ctx, actor.ID, optionalStringArg(args, "location"))
			},
		},
		&catalog.OperationSpec{
			Name:        "raiseRegularization",
			Description: "Raise an attendance regularization request for a past date with a missing or wrong punch.",
			Parameters: objectSchema(
				[]string{"date", "reason"},
				map[string]*llm.JSONSchema{
					"date":              {Type: "string", Description: "Date to regularize in YYYY-MM-DD format"},
					"reason":            {Type: "string", Description: "Why the correction is needed"},
					"requestedCheckIn":  {Type: "string", Description: "Corrected check-in time in HH:MM format"},
					"requestedCheckOut": {Type: "string", Description: "Corrected check-out time in HH:MM format"},
				},
			),
			Mutating: true,
			Handler: func(ctx context.Context, actor *store.Employee, args map[string]any) (any, error) {
				return hrSvc.RaiseRegularization(ctx, actor.ID,
					stringArg(args, "date"),
					stringArg(args, "reason"),
					optionalStringArg(args, "requestedCheckIn"),
					optionalStringArg(args, "requestedCheckOut"),
				)
			},
		},
		&catalog.OperationSpec{
			Name:        "submitTimesheet",
			Description: "Submit timesheet entries for a week. Each entry records hours worked on a project for a date.",
			Parameters: objectSchema(
				[]string{"weekStart", "entries"},
				map[string]*llm.JSONSchema{
					"weekStart": {Type: "string", Description: "Monday of the week in YYYY-MM-DD format"},
					"entries": {
						Type: "array",
						Items: objectSchema(
							[]string{"date", "projectId", "hours", "billable"},
							map[string]*llm.JSONSchema{
								"date":        {Type: "string", Description: "Work date in YYYY-MM-DD format"},
								"projectId":   {Type: "string", Description: "Project identifier"},
								"hours":       {Type: "number", Description: "Hours worked, at most 24"},
								"description": {Type: "string", Description: "What was worked on"},
								"billable":    {Type: "boolean", Description: "Whether the hours are billable"},
							},
						),
					},
				},
			),
			Mutating: true,
			Handler: func(ctx context.Context, actor *store.Employee, args map[string]any) (any, error) {
				return hrSvc.SubmitTimesheet(ctx, actor.ID, stringArg(args, "weekStart"), timesheetEntries(args))
			},
		},
		&catalog.OperationSpec{
			Name:        "submitExpense",
			Description: "Submit an expense claim for reimbursement.",
			Parameters: objectSchema(
				[]string{"categoryId", "amount", "description", "expenseDate"},
				map[string]*llm.JSONSchema{
					"categoryId":  {Type: "string", Description: "Expense category, e.g. travel, meals, equipment"},
					"amount":      {Type: "number", Description: "Claimed amount, must be positive"},
					"currency":    {Type: "string", Description: "Currency code, defaults to USD"},
					"description": {Type: "string", Description: "What the expense was for"},
					"expenseDate": {Type: "string", Description: "Date of the expense in YYYY-MM-DD format"},
					"receiptUrl":  {Type: "string", Description: "Link to the uploaded receipt"},
				},
			),
			Mutating: true,
			Handler: func(ctx context.Context, actor *store.Employee, args map[string]any) (any, error) {
				currency := stringArg(args, "currency")
				return hrSvc.SubmitExpense(ctx, actor.ID,
					stringArg(args, "categoryId"),
					floatArg(args, "amount"),
					currency,
					stringArg(args, "description"),
					stringArg(args, "expenseDate"),
					optionalStringArg(args, "receiptUrl"),
				)
			},
		},
		&catalog.OperationSpec{
			Name:        "approveRequest",
			Description: "Approve or reject a pending request. Only managers can do this.",
			Parameters: objectSchema(
				[]string{"requestType", "requestId", "decision"},
				map[string]*llm.JSONSchema{
					"requestType": {Type: "string", Description: "Kind of request to act on", Enum: []string{"leave", "regularization", "expense"}},
					"requestId":   {Type: "string", Description: "Identifier of the pending request"},
					"decision":    {Type: "string", Description: "Whether to approve or reject", Enum: []string{"approve", "reject"}},
					"comments":    {Type: "string", Description: "Optional comments for the requester"},
				},
			),
			Mutating:   true,
			Guardrails: []string{guardrail.RuleManagerRole},
			Handler: func(ctx context.Context, actor *store.Employee, args map[string]any) (any, error) {
				return hrSvc.ApproveOrReject(ctx, actor.ID,
					stringArg(args, "requestType"),
					stringArg(args, "requestId"),
					stringArg(args, "decision"),
					optionalStringArg(args, "comments"),
				)
			},
		},
		&catalog.OperationSpec{
			Name:        "getPayslips",
			Description: "Get the employee's payslips, optionally for a specific period.",
			Parameters: objectSchema(nil, map[string]*llm.JSONSchema{
				"period": {Type: "string", Description: "Pay period in YYYY-MM format"},
			}),
			Handler: func(ctx context.Context, actor *store.Employee, args map[string]any) (any, error) {
				return hrSvc.GetPayslips(ctx, actor.ID, optionalStringArg(args, "period"))
			},
		},
	)
}

func objectSchema(required []string, properties map[string]*llm.JSONSchema) *llm.JSONSchema {
	return &llm.JSONSchema{
		Type:       "object",
		Properties: properties,
		Required:   required,
	}
}

func stringArg(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}

func optionalStringArg(args map[string]any, key string) *string {
	if s, ok := args[key].(string); ok && s != "" {
		return &s
	}
	return nil
}

func floatArg(args map[string]any, key string) float64 {
	switch v := args[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func intArg(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case int:
		return v
	case float64:
		return int(v)
	}
	return fallback
}

func timesheetEntries(args map[string]any) []hr.TimesheetEntryInput {
	raw, _ := args["entries"].([]any)
	entries := make([]hr.TimesheetEntryInput, 0, len(raw))
	for _, item := range raw {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		entries = append(entries, hr.TimesheetEntryInput{
			Date:        stringArg(entry, "date"),
			ProjectID:   stringArg(entry, "projectId"),
			Hours:       floatArg(entry, "hours"),
			Description: stringArg(entry, "description"),
			Billable:    boolArg(entry, "billable"),
		})
	}
	return entries
}

func boolArg(args map[string]any, key string) bool {
	b, _ := args[key].(bool)
	return b
}
