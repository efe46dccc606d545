package attendance

import "time"

type Status string

const (
	StatusPresent Status = "PRESENT"
	StatusAbsent  Status = "ABSENT"
	StatusLate    Status = "LATE"
	StatusOnLeave Status = "ON_LEAVE"
	StatusHalfDay Status = "HALF_DAY"
)

// ValidStatuses lists every accepted attendance status, in display order.
var ValidStatuses = []string{
	string(StatusPresent),
	string(StatusAbsent),
	string(StatusLate),
	string(StatusOnLeave),
	string(StatusHalfDay),
}

// Source records which path created or last rewrote a record: an explicit HR
// action, the absence backfill, or an approved leave.
type Source string

const (
	SourceManual     Source = "MANUAL"
	SourceAutoAbsent Source = "AUTO_ABSENT"
	SourceAutoLeave  Source = "AUTO_LEAVE"
)

// Attendance is one record per (employee, calendar day). Date carries no
// time-of-day component.
type Attendance struct {
	ID         string
	EmployeeID string
	Date       time.Time
	Status     Status
	Notes      *string
	Source     Source
	CreatedAt  time.Time
	UpdatedAt  time.Time

	// DTO
	EmployeeName *string
	EmployeeCode *string
}
