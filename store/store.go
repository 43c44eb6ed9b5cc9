// Package store provides database access to all raw objects.
package store

import (
	"context"
	"database/sql"

	"github.com/lumenhr/lumen/internal/profile"
)

// Store provides database access to all raw objects.
type Store struct {
	profile *profile.Profile
	driver  Driver
}

// New creates a new instance of Store.
func New(driver Driver, profile *profile.Profile) *Store {
	return &Store{
		driver:  driver,
		profile: profile,
	}
}

func (s *Store) GetDriver() Driver {
	return s.driver
}

func (s *Store) GetDB() *sql.DB {
	return s.driver.GetDB()
}

func (s *Store) Close() error {
	return s.driver.Close()
}

func (s *Store) Migrate(ctx context.Context) error {
	return s.driver.Migrate(ctx)
}

func (s *Store) CreateEmployee(ctx context.Context, create *CreateEmployee) (*Employee, error) {
	return s.driver.CreateEmployee(ctx, create)
}

func (s *Store) GetEmployee(ctx context.Context, find *FindEmployee) (*Employee, error) {
	return s.driver.GetEmployee(ctx, find)
}

func (s *Store) ListEmployees(ctx context.Context, find *FindEmployee) ([]*Employee, error) {
	return s.driver.ListEmployees(ctx, find)
}

func (s *Store) CreateLeaveType(ctx context.Context, create *CreateLeaveType) (*LeaveType, error) {
	return s.driver.CreateLeaveType(ctx, create)
}

func (s *Store) ListLeaveTypes(ctx context.Context) ([]*LeaveType, error) {
	return s.driver.ListLeaveTypes(ctx)
}

func (s *Store) GetLeaveTypeByUID(ctx context.Context, uid string) (*LeaveType, error) {
	return s.driver.GetLeaveTypeByUID(ctx, uid)
}

func (s *Store) UpsertLeaveBalance(ctx context.Context, upsert *UpsertLeaveBalance) (*LeaveBalance, error) {
	return s.driver.UpsertLeaveBalance(ctx, upsert)
}

func (s *Store) ListLeaveBalances(ctx context.Context, find *FindLeaveBalance) ([]*LeaveBalance, error) {
	return s.driver.ListLeaveBalances(ctx, find)
}

func (s *Store) AdjustLeaveBalance(ctx context.Context, employeeID, leaveTypeID int32, year int, days float64) error {
	return s.driver.AdjustLeaveBalance(ctx, employeeID, leaveTypeID, year, days)
}

func (s *Store) CreateLeaveRequest(ctx context.Context, create *CreateLeaveRequest) (*LeaveRequest, error) {
	return s.driver.CreateLeaveRequest(ctx, create)
}

func (s *Store) GetLeaveRequest(ctx context.Context, find *FindLeaveRequest) (*LeaveRequest, error) {
	return s.driver.GetLeaveRequest(ctx, find)
}

func (s *Store) ListLeaveRequests(ctx context.Context, find *FindLeaveRequest) ([]*LeaveRequest, error) {
	return s.driver.ListLeaveRequests(ctx, find)
}

func (s *Store) UpdateLeaveRequest(ctx context.Context, update *UpdateLeaveRequest) (*LeaveRequest, error) {
	return s.driver.UpdateLeaveRequest(ctx, update)
}

func (s *Store) CreateAttendance(ctx context.Context, create *CreateAttendance) (*AttendanceRecord, error) {
	return s.driver.CreateAttendance(ctx, create)
}

func (s *Store) GetAttendance(ctx context.Context, find *FindAttendance) (*AttendanceRecord, error) {
	return s.driver.GetAttendance(ctx, find)
}

func (s *Store) ListAttendance(ctx context.Context, find *FindAttendance) ([]*AttendanceRecord, error) {
	return s.driver.ListAttendance(ctx, find)
}

func (s *Store) UpdateAttendance(ctx context.Context, update *UpdateAttendance) (*AttendanceRecord, error) {
	return s.driver.UpdateAttendance(ctx, update)
}

func (s *Store) CreateRegularization(ctx context.Context, create *CreateRegularization) (*Regularization, error) {
	return s.driver.CreateRegularization(ctx, create)
}

func (s *Store) GetRegularization(ctx context.Context, find *FindRegularization) (*Regularization, error) {
	return s.driver.GetRegularization(ctx, find)
}

func (s *Store) UpdateRegularization(ctx context.Context, update *UpdateRegularization) (*Regularization, error) {
	return s.driver.UpdateRegularization(ctx, update)
}

func (s *Store) CreateTimesheetEntries(ctx context.Context, creates []*CreateTimesheetEntry) ([]*TimesheetEntry, error) {
	return s.driver.CreateTimesheetEntries(ctx, creates)
}

func (s *Store) ListTimesheetEntries(ctx context.Context, find *FindTimesheetEntry) ([]*TimesheetEntry, error) {
	return s.driver.ListTimesheetEntries(ctx, find)
}

func (s *Store) CreateExpenseClaim(ctx context.Context, create *CreateExpenseClaim) (*ExpenseClaim, error) {
	return s.driver.CreateExpenseClaim(ctx, create)
}

func (s *Store) GetExpenseClaim(ctx context.Context, find *FindExpenseClaim) (*ExpenseClaim, error) {
	return s.driver.GetExpenseClaim(ctx, find)
}

func (s *Store) UpdateExpenseClaim(ctx context.Context, update *UpdateExpenseClaim) (*ExpenseClaim, error) {
	return s.driver.UpdateExpenseClaim(ctx, update)
}

func (s *Store) CreatePayslip(ctx context.Context, create *CreatePayslip) (*Payslip, error) {
	return s.driver.CreatePayslip(ctx, create)
}

func (s *Store) ListPayslips(ctx context.Context, find *FindPayslip) ([]*Payslip, error) {
	return s.driver.ListPayslips(ctx, find)
}

func (s *Store) CreateNotification(ctx context.Context, create *CreateNotification) (*Notification, error) {
	return s.driver.CreateNotification(ctx, create)
}

func (s *Store) ListNotifications(ctx context.Context, find *FindNotification) ([]*Notification, error) {
	return s.driver.ListNotifications(ctx, find)
}

func (s *Store) UpsertChatSession(ctx context.Context, upsert *UpsertChatSession) (*ChatSession, error) {
	return s.driver.UpsertChatSession(ctx, upsert)
}

func (s *Store) GetChatSession(ctx context.Context, find *FindChatSession) (*ChatSession, error) {
	return s.driver.GetChatSession(ctx, find)
}

func (s *Store) ListChatSessions(ctx context.Context, find *FindChatSession) ([]*ChatSession, error) {
	return s.driver.ListChatSessions(ctx, find)
}

func (s *Store) CreateChatTurn(ctx context.Context, create *CreateChatTurn) (*ChatTurn, error) {
	return s.driver.CreateChatTurn(ctx, create)
}

func (s *Store) ListChatTurns(ctx context.Context, sessionID int32) ([]*ChatTurn, error) {
	return s.driver.ListChatTurns(ctx, sessionID)
}
