package store

// PayslipEarnings is the earnings breakdown, stored as JSON.
type PayslipEarnings struct {
	Basic      float64 `json:"basic"`
	HRA        float64 `json:"hra"`
	Allowances float64 `json:"allowances"`
	Overtime   float64 `json:"overtime"`
	Bonus      float64 `json:"bonus"`
	Total      float64 `json:"total"`
}

// PayslipDeductions is the deductions breakdown, stored as JSON.
type PayslipDeductions struct {
	PF    float64 `json:"pf"`
	ESI   float64 `json:"esi"`
	Tax   float64 `json:"tax"`
	Loan  float64 `json:"loan"`
	Other float64 `json:"other"`
	Total float64 `json:"total"`
}

// Payslip is one employee's pay statement for one period. One row per
// (employee, period); generation for an existing period is an error.
type Payslip struct {
	ID          int32
	EmployeeID  int32
	Period      string // YYYY-MM
	Earnings    PayslipEarnings
	Deductions  PayslipDeductions
	NetPay      float64
	WorkingDays int
	PresentDays int
	CreatedTs   int64
}

type CreatePayslip struct {
	EmployeeID  int32
	Period      string
	Earnings    PayslipEarnings
	Deductions  PayslipDeductions
	NetPay      float64
	WorkingDays int
	PresentDays int
}

type FindPayslip struct {
	EmployeeID *int32
	Period     *string
}

// Notification is an in-app message pushed to an employee, e.g. when a
// request of theirs is decided.
type Notification struct {
	ID         int64
	EmployeeID int32
	Type       string // leave, regularization, expense, system
	Title      string
	Message    string
	Read       bool
	CreatedTs  int64
}

type CreateNotification struct {
	EmployeeID int32
	Type       string
	Title      string
	Message    string
}

type FindNotification struct {
	EmployeeID *int32
	Read       *bool
	Limit      *int
}
