package hr

import (
	"context"
	"fmt"

	"github.com/pkg/errors"

	"github.com/lumenhr/lumen/store"
)

// GetPayslips returns the employee's payslips, newest period first. An
// optional period ("YYYY-MM") narrows to one month.
func (s *Service) GetPayslips(ctx context.Context, employeeID int32, period *string) ([]*store.Payslip, error) {
	return s.store.ListPayslips(ctx, &store.FindPayslip{
		EmployeeID: &employeeID,
		Period:     period,
	})
}

// GeneratePayslip produces one payslip for a month from the employee's base
// salary. HRA is 40% of basic, allowances 10%; deductions are 12% PF and 10%
// tax. Generating twice for the same period is an error.
func (s *Service) GeneratePayslip(ctx context.Context, employeeID int32, year, month int) (*store.Payslip, error) {
	employee, err := s.store.GetEmployee(ctx, &store.FindEmployee{ID: &employeeID})
	if err != nil {
		return nil, err
	}
	if employee == nil {
		return nil, errors.Errorf("employee not found: %d", employeeID)
	}

	period := fmt.Sprintf("%04d-%02d", year, month)
	existing, err := s.store.ListPayslips(ctx, &store.FindPayslip{
		EmployeeID: &employeeID,
		Period:     &period,
	})
	if err != nil {
		return nil, err
	}
	if len(existing) > 0 {
		return nil, errors.Errorf("payslip already generated for %s", period)
	}

	basic := employee.Salary
	hra := basic * 0.4
	allowances := basic * 0.1
	gross := basic + hra + allowances

	pf := basic * 0.12
	tax := basic * 0.1
	totalDeductions := pf + tax

	return s.store.CreatePayslip(ctx, &store.CreatePayslip{
		EmployeeID: employeeID,
		Period:     period,
		Earnings: store.PayslipEarnings{
			Basic:      basic,
			HRA:        hra,
			Allowances: allowances,
			Total:      gross,
		},
		Deductions: store.PayslipDeductions{
			PF:    pf,
			Tax:   tax,
			Total: totalDeductions,
		},
		NetPay:      gross - totalDeductions,
		WorkingDays: 22,
		PresentDays: 22,
	})
}
