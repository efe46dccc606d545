package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/staffly/hrm-backend-go/internal/domain/leave"
	"github.com/staffly/hrm-backend-go/internal/pkg/database"
)

type leaveRepository struct {
	db *database.DB
}

const leaveColumns = `l.id, l.employee_id, l.leave_type, l.start_date, l.end_date, l.reason,
		   l.status, l.requested_at, l.action_at, l.approved_by,
		   l.created_at, l.updated_at`

const leaveJoins = `
	FROM leaves l
	LEFT JOIN employees e ON e.id = l.employee_id
	LEFT JOIN departments d ON d.id = e.department_id
	LEFT JOIN employees ap ON ap.id = l.approved_by`

// GetByID implements leave.LeaveRepository.
func (r *leaveRepository) GetByID(ctx context.Context, id string) (leave.Leave, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + leaveColumns + `,
			   e.full_name, e.employee_code, e.email, e.is_active, e.designation,
			   e.department_id, d.name AS department_name,
			   ap.full_name AS approver_name, ap.employee_code AS approver_code
		` + leaveJoins + `
		WHERE l.id = $1
	`

	var l leave.Leave
	err := q.QueryRow(ctx, query, id).Scan(
		&l.ID, &l.EmployeeID, &l.LeaveType, &l.StartDate, &l.EndDate, &l.Reason,
		&l.Status, &l.RequestedAt, &l.ActionAt, &l.ApprovedByID,
		&l.CreatedAt, &l.UpdatedAt,
		&l.EmployeeName, &l.EmployeeCode, &l.EmployeeEmail, &l.EmployeeIsActive, &l.Designation,
		&l.DepartmentID, &l.DepartmentName,
		&l.ApproverName, &l.ApproverCode,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.Leave{}, leave.ErrLeaveRequestNotFound
		}
		return leave.Leave{}, fmt.Errorf("failed to get leave request by ID: %w", err)
	}

	return l, nil
}

// UpdateDecision implements leave.LeaveRepository.
func (r *leaveRepository) UpdateDecision(ctx context.Context, id string, status leave.LeaveStatus, actionAt time.Time, approverID string) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leaves
		SET status = $1, action_at = $2, approved_by = $3, updated_at = NOW()
		WHERE id = $4
	`

	commandTag, err := q.Exec(ctx, query, status, actionAt, approverID, id)
	if err != nil {
		return fmt.Errorf("failed to update leave decision: %w", err)
	}
	if commandTag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}

	return nil
}

// List implements leave.LeaveRepository.
func (r *leaveRepository) List(ctx context.Context, filter leave.LeaveFilter) ([]leave.Leave, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND l.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.DepartmentID != nil && *filter.DepartmentID != "" {
		baseWhere += fmt.Sprintf(" AND e.department_id = $%d", argIdx)
		args = append(args, *filter.DepartmentID)
		argIdx++
	}
	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND l.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND l.start_date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND l.end_date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	countQuery := `SELECT COUNT(*) FROM leaves l LEFT JOIN employees e ON e.id = l.employee_id WHERE ` + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count leave requests: %w", err)
	}

	// Pending requests first, then most recently requested.
	selectQuery := fmt.Sprintf(`
		SELECT `+leaveColumns+`,
			   e.full_name, e.employee_code, e.email, e.is_active, e.designation,
			   e.department_id, d.name AS department_name,
			   ap.full_name AS approver_name, ap.employee_code AS approver_code
		`+leaveJoins+`
		WHERE %s
		ORDER BY (l.status = 'PENDING') DESC, l.requested_at DESC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)

	offset := (filter.Page - 1) * filter.Limit
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query leave requests: %w", err)
	}
	defer rows.Close()

	var leaves []leave.Leave
	for rows.Next() {
		var l leave.Leave
		err := rows.Scan(
			&l.ID, &l.EmployeeID, &l.LeaveType, &l.StartDate, &l.EndDate, &l.Reason,
			&l.Status, &l.RequestedAt, &l.ActionAt, &l.ApprovedByID,
			&l.CreatedAt, &l.UpdatedAt,
			&l.EmployeeName, &l.EmployeeCode, &l.EmployeeEmail, &l.EmployeeIsActive, &l.Designation,
			&l.DepartmentID, &l.DepartmentName,
			&l.ApproverName, &l.ApproverCode,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan leave request: %w", err)
		}
		leaves = append(leaves, l)
	}

	return leaves, total, rows.Err()
}

// CountByStatus implements leave.LeaveRepository.
func (r *leaveRepository) CountByStatus(ctx context.Context, departmentID *string) (leave.LeaveStatistics, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1=1"
	args := []interface{}{}
	if departmentID != nil && *departmentID != "" {
		baseWhere = "e.department_id = $1"
		args = append(args, *departmentID)
	}

	query := `
		SELECT COUNT(*),
			   COUNT(*) FILTER (WHERE l.status = 'PENDING'),
			   COUNT(*) FILTER (WHERE l.status = 'APPROVED'),
			   COUNT(*) FILTER (WHERE l.status = 'REJECTED')
		FROM leaves l
		LEFT JOIN employees e ON e.id = l.employee_id
		WHERE ` + baseWhere

	var stats leave.LeaveStatistics
	err := q.QueryRow(ctx, query, args...).Scan(&stats.Total, &stats.Pending, &stats.Approved, &stats.Rejected)
	if err != nil {
		return leave.LeaveStatistics{}, fmt.Errorf("failed to count leave requests by status: %w", err)
	}

	return stats, nil
}

func NewLeaveRepository(db *database.DB) leave.LeaveRepository {
	return &leaveRepository{db: db}
}
