package employee

import "context"

// EmployeeRepository is the read-only view of the employee directory this
// backend consumes. Mutation happens elsewhere.
type EmployeeRepository interface {
	// GetByID retrieves an employee by ID, joined with department name.
	// Returns ErrEmployeeNotFound when no row matches.
	GetByID(ctx context.Context, id string) (Employee, error)

	// ListActive retrieves every active employee, used by bulk reconciliation.
	ListActive(ctx context.Context) ([]Employee, error)
}
