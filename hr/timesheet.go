package hr

import (
	"context"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	"github.com/lumenhr/lumen/store"
)

// TimesheetEntryInput is one day of work inside a week submission.
type TimesheetEntryInput struct {
	Date        string
	ProjectID   string
	Hours       float64
	Description string
	Billable    bool
}

// SubmitTimesheet persists a week of timesheet entries atomically.
func (s *Service) SubmitTimesheet(ctx context.Context, employeeID int32, weekStart string, entries []TimesheetEntryInput) ([]*store.TimesheetEntry, error) {
	if _, err := time.Parse("2006-01-02", weekStart); err != nil {
		return nil, errors.Errorf("invalid week start: %s", weekStart)
	}
	if len(entries) == 0 {
		return nil, errors.New("no timesheet entries provided")
	}

	creates := make([]*store.CreateTimesheetEntry, 0, len(entries))
	for _, entry := range entries {
		if _, err := time.Parse("2006-01-02", entry.Date); err != nil {
			return nil, errors.Errorf("invalid entry date: %s", entry.Date)
		}
		if entry.Hours <= 0 || entry.Hours > 24 {
			return nil, errors.Errorf("invalid hours for %s: %v", entry.Date, entry.Hours)
		}
		creates = append(creates, &store.CreateTimesheetEntry{
			EmployeeID:  employeeID,
			WeekStart:   weekStart,
			Date:        entry.Date,
			ProjectID:   entry.ProjectID,
			Hours:       entry.Hours,
			Description: entry.Description,
			Billable:    entry.Billable,
		})
	}
	return s.store.CreateTimesheetEntries(ctx, creates)
}

// SubmitExpense files a pending expense claim. Currency defaults to USD.
func (s *Service) SubmitExpense(ctx context.Context, employeeID int32, categoryID string, amount float64, currency, description, expenseDate string, receiptURL *string) (*store.ExpenseClaim, error) {
	if amount <= 0 {
		return nil, errors.Errorf("invalid amount: %v", amount)
	}
	if _, err := time.Parse("2006-01-02", expenseDate); err != nil {
		return nil, errors.Errorf("invalid expense date: %s", expenseDate)
	}
	if currency == "" {
		currency = "USD"
	}
	return s.store.CreateExpenseClaim(ctx, &store.CreateExpenseClaim{
		UID:         shortuuid.New(),
		EmployeeID:  employeeID,
		CategoryID:  categoryID,
		Amount:      amount,
		Currency:    currency,
		Description: description,
		ExpenseDate: expenseDate,
		ReceiptURL:  receiptURL,
	})
}
