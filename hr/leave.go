package hr

import (
	"context"
	"math"
	"time"

	"github.com/lithammer/shortuuid/v4"
	"github.com/pkg/errors"

	"github.com/lumenhr/lumen/store"
)

const lowBalanceThreshold = 5

// LeaveApplication is the outcome of a submitted leave request.
type LeaveApplication struct {
	RequestID string  `json:"applicationId"`
	Days      float64 `json:"days"`
	Status    string  `json:"status"`
	Message   string  `json:"message"`
}

// BalanceByType is one leave type's balance row for an employee, enriched
// with the derived fields the assistant narrates (low-balance flag,
// utilization percentage).
type BalanceByType struct {
	LeaveType             *store.LeaveType `json:"leaveType"`
	Opening               float64          `json:"opening"`
	Accrued               float64          `json:"accrued"`
	Consumed              float64          `json:"consumed"`
	Balance               float64          `json:"balance"`
	IsLowBalance          bool             `json:"isLowBalance"`
	UtilizationPercentage int              `json:"utilizationPercentage"`
}

// ApplyLeave creates a pending leave request. The day count is inclusive of
// both endpoints; a partial-day request for a single date counts as half a
// day. Balance enforcement happens before this is reached, so the method
// itself does not consume balance; consumption happens on approval.
func (s *Service) ApplyLeave(ctx context.Context, employeeID int32, leaveTypeUID, startDate, endDate, reason string, partialDay *string) (*LeaveApplication, error) {
	leaveType, err := s.store.GetLeaveTypeByUID(ctx, leaveTypeUID)
	if err != nil {
		return nil, err
	}
	if leaveType == nil {
		return nil, errors.Errorf("invalid leave type: %s", leaveTypeUID)
	}

	days, err := LeaveDays(startDate, endDate, partialDay)
	if err != nil {
		return nil, err
	}

	request, err := s.store.CreateLeaveRequest(ctx, &store.CreateLeaveRequest{
		UID:         shortuuid.New(),
		EmployeeID:  employeeID,
		LeaveTypeID: leaveType.ID,
		StartDate:   startDate,
		EndDate:     endDate,
		Days:        days,
		Reason:      reason,
		PartialDay:  partialDay,
	})
	if err != nil {
		return nil, err
	}

	return &LeaveApplication{
		RequestID: request.UID,
		Days:      request.Days,
		Status:    string(request.Status),
		Message:   "Leave application submitted successfully",
	}, nil
}

// GetLeaveBalance returns one row per leave type for the given year, which
// defaults to the current year. Types without a balance record report zeros
// rather than being omitted.
func (s *Service) GetLeaveBalance(ctx context.Context, employeeID int32, year int) ([]*BalanceByType, error) {
	if year <= 0 {
		year = s.now().Year()
	}
	leaveTypes, err := s.store.ListLeaveTypes(ctx)
	if err != nil {
		return nil, err
	}
	balances, err := s.store.ListLeaveBalances(ctx, &store.FindLeaveBalance{
		EmployeeID: &employeeID,
		Year:       &year,
	})
	if err != nil {
		return nil, err
	}

	byType := make(map[int32]*store.LeaveBalance, len(balances))
	for _, balance := range balances {
		byType[balance.LeaveTypeID] = balance
	}

	rows := make([]*BalanceByType, 0, len(leaveTypes))
	for _, leaveType := range leaveTypes {
		row := &BalanceByType{LeaveType: leaveType}
		if balance, ok := byType[leaveType.ID]; ok {
			row.Opening = balance.Opening
			row.Accrued = balance.Accrued
			row.Consumed = balance.Consumed
			row.Balance = balance.Balance
		}
		row.IsLowBalance = row.Balance < lowBalanceThreshold
		if entitled := row.Opening + row.Accrued; entitled > 0 {
			row.UtilizationPercentage = int(math.Round(row.Consumed / entitled * 100))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func (s *Service) GetLeaveTypes(ctx context.Context) ([]*store.LeaveType, error) {
	return s.store.ListLeaveTypes(ctx)
}

// LeaveDays computes the inclusive day count of a date range. A partial-day
// marker on a single-date range halves it.
func LeaveDays(startDate, endDate string, partialDay *string) (float64, error) {
	start, err := time.Parse("2006-01-02", startDate)
	if err != nil {
		return 0, errors.Errorf("invalid start date: %s", startDate)
	}
	end, err := time.Parse("2006-01-02", endDate)
	if err != nil {
		return 0, errors.Errorf("invalid end date: %s", endDate)
	}
	if end.Before(start) {
		return 0, errors.New("end date is before start date")
	}

	days := end.Sub(start).Hours()/24 + 1
	if partialDay != nil && startDate == endDate {
		days = 0.5
	}
	return days, nil
}
