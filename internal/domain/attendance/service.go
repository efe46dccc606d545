package attendance

import "context"

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CreateOrUpdate records or overwrites attendance for one employee-day (HR action)
	CreateOrUpdate(ctx context.Context, req CreateOrUpdateRequest) (AttendanceResponse, error)

	// List retrieves attendance records with filters and pagination
	List(ctx context.Context, filter AttendanceFilter) (ListAttendanceResponse, error)

	// Get retrieves a single attendance record by ID
	Get(ctx context.Context, id string) (AttendanceResponse, error)

	// Update applies a partial update to an attendance record
	Update(ctx context.Context, req UpdateRequest) (AttendanceResponse, error)

	// Delete hard-deletes an attendance record
	Delete(ctx context.Context, id string) error

	// GetEmployeeAttendance reconciles the employee's calendar, then returns
	// their records with the employee header
	GetEmployeeAttendance(ctx context.Context, employeeID string, filter EmployeeAttendanceFilter) (EmployeeAttendanceResponse, error)

	// Summary computes the per-employee attendance report for all active employees
	Summary(ctx context.Context) ([]EmployeeSummary, error)
}

// Reconciler guarantees every active employee has exactly one attendance
// record per elapsed working day.
type Reconciler interface {
	// EnsureReconciled backfills ABSENT records for every day in
	// [join_date, yesterday] the employee has no record for. Missing or
	// inactive employees are a no-op.
	EnsureReconciled(ctx context.Context, employeeID string) error

	// ReconcileAll runs EnsureReconciled for every active employee.
	// Per-employee failures are logged, not propagated.
	ReconcileAll(ctx context.Context) error
}
