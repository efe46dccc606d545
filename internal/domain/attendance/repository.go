package attendance

import (
	"context"
	"time"
)

// SummaryRow is the per-employee aggregate the summary report is built from.
// Counts cover [join_date, through]; TotalDays is derived by the service.
type SummaryRow struct {
	EmployeeID     string
	EmployeeCode   string
	EmployeeName   string
	DepartmentName *string
	JoinDate       time.Time
	PresentDays    int
	AbsentDays     int
	OnLeaveDays    int
	LateDays       int
}

// AttendanceRepository defines data access for attendance records. The
// (employee_id, date) pair is unique; Upsert and BulkCreateAbsences rely on
// that constraint for their conflict semantics.
type AttendanceRepository interface {
	// Upsert creates the record for (att.EmployeeID, att.Date) or overwrites
	// its status and source. Notes are only overwritten when att.Notes is
	// non-nil. Returns the stored record.
	Upsert(ctx context.Context, att Attendance) (Attendance, error)

	// GetByID retrieves a record joined with employee display fields.
	GetByID(ctx context.Context, id string) (Attendance, error)

	// List retrieves records matching the filter conjunction, newest date
	// first, with offset pagination and the unpaginated total.
	List(ctx context.Context, filter AttendanceFilter) ([]Attendance, int64, error)

	// ListByEmployee is List scoped to one employee.
	ListByEmployee(ctx context.Context, employeeID string, filter EmployeeAttendanceFilter) ([]Attendance, int64, error)

	// ExistingDates returns the set of days in [from, to] that already have a
	// record for the employee, keyed by YYYY-MM-DD.
	ExistingDates(ctx context.Context, employeeID string, from, to time.Time) (map[string]struct{}, error)

	// BulkCreateAbsences inserts the given records, silently skipping any that
	// collide with a concurrently created record for the same day. Returns the
	// number actually inserted.
	BulkCreateAbsences(ctx context.Context, records []Attendance) (int64, error)

	// Update applies a partial update (status and/or notes) by record ID.
	Update(ctx context.Context, req UpdateRequest) (Attendance, error)

	// Delete hard-deletes by ID. Returns ErrAttendanceNotFound when absent.
	Delete(ctx context.Context, id string) error

	// SummaryByEmployee aggregates status counts per active employee over
	// [join_date, through].
	SummaryByEmployee(ctx context.Context, through time.Time) ([]SummaryRow, error)
}
