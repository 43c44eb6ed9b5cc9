package store

// Role is the employee's role in approval workflows.
type Role string

const (
	RoleEmployee Role = "employee"
	RoleManager  Role = "manager"
)

// Employee is the HR record behind a chat user. UserID links to the external
// authentication subsystem; EmployeeCode is the human-facing id (EMP001).
type Employee struct {
	ID           int32
	UserID       string
	EmployeeCode string
	FirstName    string
	LastName     string
	Email        string
	Department   string
	Designation  string
	Role         Role
	ManagerID    *int32
	Salary       float64
	JoinDate     string // YYYY-MM-DD
	CreatedTs    int64
	UpdatedTs    int64
}

// FullName returns the display name.
func (e *Employee) FullName() string {
	return e.FirstName + " " + e.LastName
}

type FindEmployee struct {
	ID         *int32
	UserID     *string
	Department *string
}

type CreateEmployee struct {
	UserID       string
	EmployeeCode string
	FirstName    string
	LastName     string
	Email        string
	Department   string
	Designation  string
	Role         Role
	ManagerID    *int32
	Salary       float64
	JoinDate     string
}
