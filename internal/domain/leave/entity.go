package leave

import "time"

type LeaveStatus string

const (
	LeaveStatusPending  LeaveStatus = "PENDING"
	LeaveStatusApproved LeaveStatus = "APPROVED"
	LeaveStatusRejected LeaveStatus = "REJECTED"
)

// Leave is a leave request. The date range is inclusive on both ends.
// Requests are created by the self-service surface; this core only decides
// them, never deletes them.
type Leave struct {
	ID         string
	EmployeeID string
	LeaveType  string
	StartDate  time.Time
	EndDate    time.Time
	Reason     string

	Status       LeaveStatus
	RequestedAt  time.Time
	ActionAt     *time.Time
	ApprovedByID *string

	CreatedAt time.Time
	UpdatedAt time.Time

	// DTO
	EmployeeName     *string
	EmployeeCode     *string
	EmployeeEmail    *string
	EmployeeIsActive bool
	Designation      *string
	DepartmentID     *string
	DepartmentName   *string
	ApproverName     *string
	ApproverCode     *string
}
