package hr

import (
	"context"
	"log/slog"

	"github.com/lumenhr/lumen/store"
)

type seedLeaveType struct {
	uid         string
	name        string
	description string
	entitlement float64
	paid        bool
}

var seedLeaveTypes = []seedLeaveType{
	{"casual", "Casual Leave", "Short-notice personal leave", 12, true},
	{"sick", "Sick Leave", "Medical leave; certificate required beyond 3 days", 10, true},
	{"annual", "Annual Leave", "Planned vacation leave", 21, true},
}

type seedEmployee struct {
	userID       string
	employeeCode string
	firstName    string
	lastName     string
	email        string
	department   string
	designation  string
	role         store.Role
	salary       float64
	joinDate     string
}

var seedEmployees = []seedEmployee{
	{"demo-manager", "EMP001", "Charles", "Brown", "charles.b@example.com", "HR", "HR Manager", store.RoleManager, 88000, "2020-11-01"},
	{"demo-user", "EMP002", "Alex", "Johnson", "alex.j@example.com", "Technology", "Senior Developer", store.RoleEmployee, 95000, "2021-08-15"},
	{"demo-user-2", "EMP003", "Brenda", "Smith", "brenda.s@example.com", "Technology", "UI/UX Designer", store.RoleEmployee, 82000, "2022-03-20"},
}

// Seed loads the demo dataset: leave types, a manager, two employees
// reporting to the manager, and a full year's leave balances. Idempotent;
// re-running against a seeded database is a no-op.
func (s *Service) Seed(ctx context.Context) error {
	existing, err := s.store.GetEmployee(ctx, &store.FindEmployee{UserID: &seedEmployees[0].userID})
	if err != nil {
		return err
	}
	if existing != nil {
		slog.Debug("seed.skip", "reason", "already seeded")
		return nil
	}

	leaveTypes := make([]*store.LeaveType, 0, len(seedLeaveTypes))
	for _, lt := range seedLeaveTypes {
		created, err := s.store.CreateLeaveType(ctx, &store.CreateLeaveType{
			UID:               lt.uid,
			Name:              lt.name,
			Description:       lt.description,
			AnnualEntitlement: lt.entitlement,
			Paid:              lt.paid,
		})
		if err != nil {
			return err
		}
		leaveTypes = append(leaveTypes, created)
	}

	year := s.now().Year()
	var managerID *int32
	for i, se := range seedEmployees {
		employee, err := s.store.CreateEmployee(ctx, &store.CreateEmployee{
			UserID:       se.userID,
			EmployeeCode: se.employeeCode,
			FirstName:    se.firstName,
			LastName:     se.lastName,
			Email:        se.email,
			Department:   se.department,
			Designation:  se.designation,
			Role:         se.role,
			ManagerID:    managerID,
			Salary:       se.salary,
			JoinDate:     se.joinDate,
		})
		if err != nil {
			return err
		}
		if i == 0 {
			managerID = &employee.ID
		}

		for j, leaveType := range leaveTypes {
			if _, err := s.store.UpsertLeaveBalance(ctx, &store.UpsertLeaveBalance{
				EmployeeID:  employee.ID,
				LeaveTypeID: leaveType.ID,
				Year:        year,
				Accrued:     seedLeaveTypes[j].entitlement,
			}); err != nil {
				return err
			}
		}

		// Last month's payslip, so payroll queries have data on a fresh
		// install.
		lastMonth := s.now().AddDate(0, -1, 0)
		if _, err := s.GeneratePayslip(ctx, employee.ID, lastMonth.Year(), int(lastMonth.Month())); err != nil {
			return err
		}
	}

	slog.Info("seed.done", "employees", len(seedEmployees), "leave_types", len(leaveTypes))
	return nil
}
