package hr

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/lumenhr/lumen/internal/profile"
	"github.com/lumenhr/lumen/store"
	"github.com/lumenhr/lumen/store/db/sqlite"
)

func newTestService(t *testing.T) *Service {
	t.Helper()
	p := &profile.Profile{
		Mode:   "dev",
		Driver: "sqlite",
		DSN:    filepath.Join(t.TempDir(), "test.db"),
	}
	driver, err := sqlite.NewDB(p)
	require.NoError(t, err)
	t.Cleanup(func() { _ = driver.Close() })

	ctx := context.Background()
	require.NoError(t, driver.Migrate(ctx))

	svc := NewService(store.New(driver, p))
	svc.now = func() time.Time {
		return time.Date(2025, 6, 16, 9, 5, 0, 0, time.UTC)
	}
	require.NoError(t, svc.Seed(ctx))
	return svc
}

func findUser(t *testing.T, svc *Service, userID string) *store.Employee {
	t.Helper()
	employee, err := svc.LookupEmployee(context.Background(), userID)
	require.NoError(t, err)
	require.NotNil(t, employee)
	return employee
}

func TestSeedIdempotent(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	require.NoError(t, svc.Seed(ctx))

	employees, err := svc.store.ListEmployees(ctx, &store.FindEmployee{})
	require.NoError(t, err)
	require.Len(t, employees, 3)

	leaveTypes, err := svc.GetLeaveTypes(ctx)
	require.NoError(t, err)
	require.Len(t, leaveTypes, 3)
}

func TestLookupEmployeeMissing(t *testing.T) {
	svc := newTestService(t)

	employee, err := svc.LookupEmployee(context.Background(), "nobody")
	require.NoError(t, err)
	require.Nil(t, employee)
}

func TestClockInAndOut(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	employee := findUser(t, svc, "demo-user")

	record, err := svc.ClockIn(ctx, employee.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, record.CheckIn)
	require.Equal(t, "09:05", *record.CheckIn)
	require.Equal(t, "present", record.Status)

	// Second clock-in must surface the existing check-in time.
	_, err = svc.ClockIn(ctx, employee.ID, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "already clocked in today at 09:05")

	svc.now = func() time.Time {
		return time.Date(2025, 6, 16, 17, 35, 0, 0, time.UTC)
	}
	record, err = svc.ClockOut(ctx, employee.ID, nil)
	require.NoError(t, err)
	require.NotNil(t, record.CheckOut)
	require.Equal(t, "17:35", *record.CheckOut)
	require.Equal(t, 8.5, record.WorkHours)

	_, err = svc.ClockOut(ctx, employee.ID, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "already clocked out")
}

func TestClockOutWithoutCheckIn(t *testing.T) {
	svc := newTestService(t)
	employee := findUser(t, svc, "demo-user")

	_, err := svc.ClockOut(context.Background(), employee.ID, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "no check-in record")
}

func TestWorkHoursRounding(t *testing.T) {
	hours, err := workHours("09:05", "17:25")
	require.NoError(t, err)
	require.Equal(t, 8.33, hours)

	_, err = workHours("bogus", "17:00")
	require.Error(t, err)
}

func TestLeaveDays(t *testing.T) {
	half := "first_half"
	tests := []struct {
		start, end string
		partial    *string
		want       float64
		wantErr    bool
	}{
		{"2025-06-16", "2025-06-16", nil, 1, false},
		{"2025-06-16", "2025-06-17", nil, 2, false},
		{"2025-06-16", "2025-06-20", nil, 5, false},
		{"2025-06-16", "2025-06-16", &half, 0.5, false},
		{"2025-06-20", "2025-06-16", nil, 0, true},
		{"not-a-date", "2025-06-16", nil, 0, true},
	}
	for _, tt := range tests {
		got, err := LeaveDays(tt.start, tt.end, tt.partial)
		if tt.wantErr {
			require.Error(t, err, "%s..%s", tt.start, tt.end)
			continue
		}
		require.NoError(t, err)
		require.Equal(t, tt.want, got, "%s..%s", tt.start, tt.end)
	}
}

func TestApplyLeaveAndBalance(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	employee := findUser(t, svc, "demo-user")

	application, err := svc.ApplyLeave(ctx, employee.ID, "casual", "2025-07-01", "2025-07-02", "family event", nil)
	require.NoError(t, err)
	require.Equal(t, 2.0, application.Days)
	require.Equal(t, "pending", application.Status)

	_, err = svc.ApplyLeave(ctx, employee.ID, "unpaid", "2025-07-01", "2025-07-02", "x", nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid leave type")

	// Pending requests do not consume balance.
	balances, err := svc.GetLeaveBalance(ctx, employee.ID, 2025)
	require.NoError(t, err)
	require.Len(t, balances, 3)
	for _, row := range balances {
		require.Zero(t, row.Consumed)
		require.Equal(t, row.LeaveType.AnnualEntitlement, row.Balance)
		require.False(t, row.IsLowBalance)
		require.Zero(t, row.UtilizationPercentage)
	}
}

func TestApprovalConsumesBalance(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	manager := findUser(t, svc, "demo-manager")
	employee := findUser(t, svc, "demo-user")

	application, err := svc.ApplyLeave(ctx, employee.ID, "sick", "2025-06-18", "2025-06-19", "flu", nil)
	require.NoError(t, err)

	result, err := svc.ApproveOrReject(ctx, manager.ID, "leave", application.RequestID, "approve", nil)
	require.NoError(t, err)
	require.Equal(t, "approved", result.Status)

	balances, err := svc.GetLeaveBalance(ctx, employee.ID, 2025)
	require.NoError(t, err)
	for _, row := range balances {
		if row.LeaveType.UID != "sick" {
			continue
		}
		require.Equal(t, 2.0, row.Consumed)
		require.Equal(t, 8.0, row.Balance)
		require.Equal(t, 20, row.UtilizationPercentage)
	}

	// A decided request cannot be decided again.
	_, err = svc.ApproveOrReject(ctx, manager.ID, "leave", application.RequestID, "reject", nil)
	require.Error(t, err)

	// The employee got notified.
	notifications, err := svc.store.ListNotifications(ctx, &store.FindNotification{EmployeeID: &employee.ID})
	require.NoError(t, err)
	require.Len(t, notifications, 1)
	require.Equal(t, "leave", notifications[0].Type)
}

func TestRejectLeavesBalanceUntouched(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	manager := findUser(t, svc, "demo-manager")
	employee := findUser(t, svc, "demo-user")

	application, err := svc.ApplyLeave(ctx, employee.ID, "casual", "2025-06-18", "2025-06-18", "errand", nil)
	require.NoError(t, err)

	comments := "short notice"
	result, err := svc.ApproveOrReject(ctx, manager.ID, "leave", application.RequestID, "reject", &comments)
	require.NoError(t, err)
	require.Equal(t, "rejected", result.Status)

	balances, err := svc.GetLeaveBalance(ctx, employee.ID, 2025)
	require.NoError(t, err)
	for _, row := range balances {
		require.Zero(t, row.Consumed)
	}
}

func TestRegularizationApproval(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	manager := findUser(t, svc, "demo-manager")
	employee := findUser(t, svc, "demo-user")

	checkIn := "09:00"
	reg, err := svc.RaiseRegularization(ctx, employee.ID, "2025-06-13", "forgot to punch in", &checkIn, nil)
	require.NoError(t, err)
	require.Equal(t, store.StatusPending, reg.Status)

	result, err := svc.ApproveOrReject(ctx, manager.ID, "regularization", reg.UID, "approve", nil)
	require.NoError(t, err)
	require.Equal(t, "approved", result.Status)

	_, err = svc.ApproveOrReject(ctx, manager.ID, "regularization", "missing-uid", "approve", nil)
	require.Error(t, err)
}

func TestSubmitTimesheet(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	employee := findUser(t, svc, "demo-user")

	entries, err := svc.SubmitTimesheet(ctx, employee.ID, "2025-06-16", []TimesheetEntryInput{
		{Date: "2025-06-16", ProjectID: "PRJ-1", Hours: 8, Description: "api work", Billable: true},
		{Date: "2025-06-17", ProjectID: "PRJ-1", Hours: 6.5, Billable: false},
	})
	require.NoError(t, err)
	require.Len(t, entries, 2)

	_, err = svc.SubmitTimesheet(ctx, employee.ID, "2025-06-16", nil)
	require.Error(t, err)

	_, err = svc.SubmitTimesheet(ctx, employee.ID, "2025-06-16", []TimesheetEntryInput{
		{Date: "2025-06-16", ProjectID: "PRJ-1", Hours: 30, Billable: true},
	})
	require.Error(t, err)
	require.Contains(t, err.Error(), "invalid hours")
}

func TestSubmitExpenseDefaultsCurrency(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	employee := findUser(t, svc, "demo-user")

	claim, err := svc.SubmitExpense(ctx, employee.ID, "travel", 120.50, "", "client visit", "2025-06-10", nil)
	require.NoError(t, err)
	require.Equal(t, "USD", claim.Currency)
	require.Equal(t, store.StatusPending, claim.Status)

	_, err = svc.SubmitExpense(ctx, employee.ID, "travel", -3, "USD", "x", "2025-06-10", nil)
	require.Error(t, err)
}

func TestGeneratePayslip(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()
	employee := findUser(t, svc, "demo-user")

	payslip, err := svc.GeneratePayslip(ctx, employee.ID, 2025, 6)
	require.NoError(t, err)
	require.Equal(t, "2025-06", payslip.Period)

	basic := employee.Salary
	require.Equal(t, basic, payslip.Earnings.Basic)
	require.Equal(t, basic*0.4, payslip.Earnings.HRA)
	require.Equal(t, basic*0.1, payslip.Earnings.Allowances)
	require.InDelta(t, basic*1.5, payslip.Earnings.Total, 1e-6)
	require.Equal(t, basic*0.12, payslip.Deductions.PF)
	require.Equal(t, basic*0.1, payslip.Deductions.Tax)
	require.InDelta(t, basic*1.5-basic*0.22, payslip.NetPay, 1e-6)

	_, err = svc.GeneratePayslip(ctx, employee.ID, 2025, 6)
	require.Error(t, err)
	require.Contains(t, err.Error(), "already generated")

	period := "2025-06"
	payslips, err := svc.GetPayslips(ctx, employee.ID, &period)
	require.NoError(t, err)
	require.Len(t, payslips, 1)
}

func TestPolicies(t *testing.T) {
	svc := newTestService(t)

	policies := svc.Policies()
	require.NotEmpty(t, policies)
	require.NotNil(t, svc.GetPolicy("leave-policy"))
	require.Nil(t, svc.GetPolicy("nope"))

	html, err := RenderPolicyHTML(policies[0])
	require.NoError(t, err)
	require.Contains(t, html, "<strong>Working Hours:</strong>")
}
