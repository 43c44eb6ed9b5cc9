package store

// AttendanceRecord is one employee-day. The (employee_id, date) pair is
// unique; concurrent clock actions for the same day serialize on that
// constraint rather than on application-level locking.
type AttendanceRecord struct {
	ID         int64
	EmployeeID int32
	Date       string  // YYYY-MM-DD
	CheckIn    *string // HH:MM
	CheckOut   *string // HH:MM
	Status     string  // present, absent, on_leave
	WorkHours  float64
	Location   *string
	CreatedTs  int64
	UpdatedTs  int64
}

type FindAttendance struct {
	EmployeeID *int32
	Date       *string
	StartDate  *string
	EndDate    *string
}

type CreateAttendance struct {
	EmployeeID int32
	Date       string
	CheckIn    *string
	Status     string
	Location   *string
}

type UpdateAttendance struct {
	ID        int64
	CheckIn   *string
	CheckOut  *string
	Status    *string
	WorkHours *float64
	Location  *string
	UpdatedTs int64
}

// Regularization is a correction request for a missed or wrong punch.
type Regularization struct {
	ID                int32
	UID               string
	EmployeeID        int32
	Date              string
	Reason            string
	RequestedCheckIn  *string
	RequestedCheckOut *string
	Status            RequestStatus
	ApproverID        *int32
	Comments          *string
	CreatedTs         int64
	UpdatedTs         int64
}

type CreateRegularization struct {
	UID               string
	EmployeeID        int32
	Date              string
	Reason            string
	RequestedCheckIn  *string
	RequestedCheckOut *string
}

type FindRegularization struct {
	ID         *int32
	UID        *string
	EmployeeID *int32
	Status     *RequestStatus
}

type UpdateRegularization struct {
	ID         int32
	Status     *RequestStatus
	ApproverID *int32
	Comments   *string
	UpdatedTs  int64
}
