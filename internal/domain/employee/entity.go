package employee

import "time"

type Role string

const (
	RoleHR       Role = "HR"
	RoleEmployee Role = "EMPLOYEE"
)

// Employee is owned by the directory service; this backend only reads it.
type Employee struct {
	ID           string
	EmployeeCode string
	FullName     string
	Email        string
	Designation  *string
	Role         Role
	IsActive     bool
	JoinDate     time.Time
	DepartmentID *string
	CreatedAt    time.Time
	UpdatedAt    time.Time

	// DTO
	DepartmentName *string
}
