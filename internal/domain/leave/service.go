package leave

import "context"

// LeaveService defines business logic for leave requests
type LeaveService interface {
	// Decide approves or rejects a pending request. On approval the
	// employee's attendance calendar is rewritten to ON_LEAVE for every day
	// of the range, atomically with the status change.
	Decide(ctx context.Context, req DecideRequest) (LeaveResponse, error)

	// List retrieves leave requests with filters and pagination
	List(ctx context.Context, filter LeaveFilter) (ListLeavesResponse, error)

	// Statistics computes leave counts by status, optionally per department
	Statistics(ctx context.Context, departmentID *string) (LeaveStatistics, error)
}
