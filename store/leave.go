package store

// RequestStatus is the lifecycle of an approvable request (leave,
// regularization, expense). Requests are created pending; managers move them
// to approved or rejected.
type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusApproved RequestStatus = "approved"
	StatusRejected RequestStatus = "rejected"
)

// LeaveType describes one category of leave and its annual entitlement.
// UID is the stable key the operation catalog exposes to the model
// ("casual", "sick", "annual").
type LeaveType struct {
	ID                int32
	UID               string
	Name              string
	Description       string
	AnnualEntitlement float64
	Paid              bool
	CreatedTs         int64
}

type CreateLeaveType struct {
	UID               string
	Name              string
	Description       string
	AnnualEntitlement float64
	Paid              bool
}

// LeaveBalance is one employee's balance for one leave type in one year.
// balance = opening + accrued - consumed, maintained by AdjustLeaveBalance.
type LeaveBalance struct {
	ID          int32
	EmployeeID  int32
	LeaveTypeID int32
	Year        int
	Opening     float64
	Accrued     float64
	Consumed    float64
	Balance     float64
}

type FindLeaveBalance struct {
	EmployeeID  *int32
	LeaveTypeID *int32
	Year        *int
}

type UpsertLeaveBalance struct {
	EmployeeID  int32
	LeaveTypeID int32
	Year        int
	Opening     float64
	Accrued     float64
	Consumed    float64
}

// LeaveRequest is a leave application awaiting (or past) approval.
type LeaveRequest struct {
	ID          int32
	UID         string
	EmployeeID  int32
	LeaveTypeID int32
	StartDate   string // YYYY-MM-DD
	EndDate     string // YYYY-MM-DD
	Days        float64
	Reason      string
	PartialDay  *string // first_half or second_half
	Status      RequestStatus
	ApproverID  *int32
	Comments    *string
	CreatedTs   int64
	UpdatedTs   int64
}

type CreateLeaveRequest struct {
	UID         string
	EmployeeID  int32
	LeaveTypeID int32
	StartDate   string
	EndDate     string
	Days        float64
	Reason      string
	PartialDay  *string
}

type FindLeaveRequest struct {
	ID         *int32
	UID        *string
	EmployeeID *int32
	Status     *RequestStatus
}

type UpdateLeaveRequest struct {
	ID         int32
	Status     *RequestStatus
	ApproverID *int32
	Comments   *string
	UpdatedTs  int64
}
