package store

import (
	"context"
	"database/sql"
)

// Driver is an interface for database drivers.
type Driver interface {
	GetDB() *sql.DB
	Close() error
	Migrate(ctx context.Context) error

	// Employee model.
	CreateEmployee(ctx context.Context, create *CreateEmployee) (*Employee, error)
	GetEmployee(ctx context.Context, find *FindEmployee) (*Employee, error)
	ListEmployees(ctx context.Context, find *FindEmployee) ([]*Employee, error)

	// Leave model.
	CreateLeaveType(ctx context.Context, create *CreateLeaveType) (*LeaveType, error)
	ListLeaveTypes(ctx context.Context) ([]*LeaveType, error)
	GetLeaveTypeByUID(ctx context.Context, uid string) (*LeaveType, error)
	UpsertLeaveBalance(ctx context.Context, upsert *UpsertLeaveBalance) (*LeaveBalance, error)
	ListLeaveBalances(ctx context.Context, find *FindLeaveBalance) ([]*LeaveBalance, error)
	AdjustLeaveBalance(ctx context.Context, employeeID, leaveTypeID int32, year int, days float64) error
	CreateLeaveRequest(ctx context.Context, create *CreateLeaveRequest) (*LeaveRequest, error)
	GetLeaveRequest(ctx context.Context, find *FindLeaveRequest) (*LeaveRequest, error)
	ListLeaveRequests(ctx context.Context, find *FindLeaveRequest) ([]*LeaveRequest, error)
	UpdateLeaveRequest(ctx context.Context, update *UpdateLeaveRequest) (*LeaveRequest, error)

	// Attendance model.
	CreateAttendance(ctx context.Context, create *CreateAttendance) (*AttendanceRecord, error)
	GetAttendance(ctx context.Context, find *FindAttendance) (*AttendanceRecord, error)
	ListAttendance(ctx context.Context, find *FindAttendance) ([]*AttendanceRecord, error)
	UpdateAttendance(ctx context.Context, update *UpdateAttendance) (*AttendanceRecord, error)
	CreateRegularization(ctx context.Context, create *CreateRegularization) (*Regularization, error)
	GetRegularization(ctx context.Context, find *FindRegularization) (*Regularization, error)
	UpdateRegularization(ctx context.Context, update *UpdateRegularization) (*Regularization, error)

	// Timesheet and expense model.
	CreateTimesheetEntries(ctx context.Context, creates []*CreateTimesheetEntry) ([]*TimesheetEntry, error)
	ListTimesheetEntries(ctx context.Context, find *FindTimesheetEntry) ([]*TimesheetEntry, error)
	CreateExpenseClaim(ctx context.Context, create *CreateExpenseClaim) (*ExpenseClaim, error)
	GetExpenseClaim(ctx context.Context, find *FindExpenseClaim) (*ExpenseClaim, error)
	UpdateExpenseClaim(ctx context.Context, update *UpdateExpenseClaim) (*ExpenseClaim, error)

	// Payroll model.
	CreatePayslip(ctx context.Context, create *CreatePayslip) (*Payslip, error)
	ListPayslips(ctx context.Context, find *FindPayslip) ([]*Payslip, error)

	// Notification model.
	CreateNotification(ctx context.Context, create *CreateNotification) (*Notification, error)
	ListNotifications(ctx context.Context, find *FindNotification) ([]*Notification, error)

	// Chat session model (append-only turns).
	UpsertChatSession(ctx context.Context, upsert *UpsertChatSession) (*ChatSession, error)
	GetChatSession(ctx context.Context, find *FindChatSession) (*ChatSession, error)
	ListChatSessions(ctx context.Context, find *FindChatSession) ([]*ChatSession, error)
	CreateChatTurn(ctx context.Context, create *CreateChatTurn) (*ChatTurn, error)
	ListChatTurns(ctx context.Context, sessionID int32) ([]*ChatTurn, error)
}
