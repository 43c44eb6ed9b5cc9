package store

// TimesheetEntry is one day of project work inside a submitted week.
type TimesheetEntry struct {
	ID          int64
	EmployeeID  int32
	WeekStart   string // YYYY-MM-DD, Monday of the week
	Date        string // YYYY-MM-DD
	ProjectID   string
	Hours       float64
	Description string
	Billable    bool
	CreatedTs   int64
}

type CreateTimesheetEntry struct {
	EmployeeID  int32
	WeekStart   string
	Date        string
	ProjectID   string
	Hours       float64
	Description string
	Billable    bool
}

type FindTimesheetEntry struct {
	EmployeeID *int32
	WeekStart  *string
}

// ExpenseClaim is a reimbursement request.
type ExpenseClaim struct {
	ID          int32
	UID         string
	EmployeeID  int32
	CategoryID  string
	Amount      float64
	Currency    string
	Description string
	ExpenseDate string // YYYY-MM-DD
	ReceiptURL  *string
	Status      RequestStatus
	ApproverID  *int32
	Comments    *string
	CreatedTs   int64
	UpdatedTs   int64
}

type CreateExpenseClaim struct {
	UID         string
	EmployeeID  int32
	CategoryID  string
	Amount      float64
	Currency    string
	Description string
	ExpenseDate string
	ReceiptURL  *string
}

type FindExpenseClaim struct {
	ID         *int32
	UID        *string
	EmployeeID *int32
	Status     *RequestStatus
}

type UpdateExpenseClaim struct {
	ID         int32
	Status     *RequestStatus
	ApproverID *int32
	Comments   *string
	UpdatedTs  int64
}
