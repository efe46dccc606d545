package leave

import (
	"context"
	"time"
)

// LeaveRepository defines data access for leave requests. The core never
// creates or deletes requests; it reads them and applies decisions.
type LeaveRepository interface {
	// GetByID retrieves a request joined with employee display fields
	// (including the employee's active flag). Returns ErrLeaveRequestNotFound
	// when absent.
	GetByID(ctx context.Context, id string) (Leave, error)

	// UpdateDecision sets status, action_at and approved_by in one statement.
	UpdateDecision(ctx context.Context, id string, status LeaveStatus, actionAt time.Time, approverID string) error

	// List retrieves requests matching the filter, PENDING first, then most
	// recently requested.
	List(ctx context.Context, filter LeaveFilter) ([]Leave, int64, error)

	// CountByStatus computes the leave statistics, optionally scoped to a
	// department via the employee join.
	CountByStatus(ctx context.Context, departmentID *string) (LeaveStatistics, error)
}
