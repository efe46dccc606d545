package postgresql

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/staffly/hrm-backend-go/internal/domain/attendance"
	"github.com/staffly/hrm-backend-go/internal/pkg/database"
)

type attendanceRepository struct {
	db *database.DB
}

const attendanceColumns = `a.id, a.employee_id, a.date, a.status, a.notes, a.source, a.created_at, a.updated_at`

// Upsert implements attendance.AttendanceRepository.
func (r *attendanceRepository) Upsert(ctx context.Context, att attendance.Attendance) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	// Notes are only overwritten when explicitly supplied; a bare status
	// change keeps whatever note is already on the record.
	query := `
		INSERT INTO attendances (id, employee_id, date, status, notes, source)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (employee_id, date) DO UPDATE
		SET status = EXCLUDED.status,
			source = EXCLUDED.source,
			updated_at = NOW()
		RETURNING id, employee_id, date, status, notes, source, created_at, updated_at
	`
	if att.Notes != nil {
		query = `
			INSERT INTO attendances (id, employee_id, date, status, notes, source)
			VALUES ($1, $2, $3, $4, $5, $6)
			ON CONFLICT (employee_id, date) DO UPDATE
			SET status = EXCLUDED.status,
				notes = EXCLUDED.notes,
				source = EXCLUDED.source,
				updated_at = NOW()
			RETURNING id, employee_id, date, status, notes, source, created_at, updated_at
		`
	}

	var stored attendance.Attendance
	err := q.QueryRow(ctx, query,
		uuid.NewString(),
		att.EmployeeID,
		att.Date,
		att.Status,
		att.Notes,
		att.Source,
	).Scan(
		&stored.ID, &stored.EmployeeID, &stored.Date, &stored.Status,
		&stored.Notes, &stored.Source, &stored.CreatedAt, &stored.UpdatedAt,
	)
	if err != nil {
		return attendance.Attendance{}, fmt.Errorf("failed to upsert attendance: %w", err)
	}

	return stored, nil
}

// GetByID implements attendance.AttendanceRepository.
func (r *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + attendanceColumns + `,
			   e.full_name AS employee_name,
			   e.employee_code AS employee_code
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE a.id = $1
	`

	var att attendance.Attendance
	err := q.QueryRow(ctx, query, id).Scan(
		&att.ID, &att.EmployeeID, &att.Date, &att.Status,
		&att.Notes, &att.Source, &att.CreatedAt, &att.UpdatedAt,
		&att.EmployeeName, &att.EmployeeCode,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to get attendance by ID: %w", err)
	}

	return att, nil
}

// List implements attendance.AttendanceRepository.
func (r *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.Attendance, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere := "1=1"
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	countQuery := "SELECT COUNT(*) FROM attendances a WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendances: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT `+attendanceColumns+`,
			   e.full_name AS employee_name,
			   e.employee_code AS employee_code
		FROM attendances a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE %s
		ORDER BY a.date DESC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)

	offset := (filter.Page - 1) * filter.Limit
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query attendances: %w", err)
	}
	defer rows.Close()

	attendances, err := scanAttendanceRows(rows)
	if err != nil {
		return nil, 0, err
	}

	return attendances, total, nil
}

// ListByEmployee implements attendance.AttendanceRepository.
func (r *attendanceRepository) ListByEmployee(ctx context.Context, employeeID string, filter attendance.EmployeeAttendanceFilter) ([]attendance.Attendance, int64, error) {
	inner := attendance.AttendanceFilter{
		EmployeeID: &employeeID,
		Status:     filter.Status,
		StartDate:  filter.StartDate,
		EndDate:    filter.EndDate,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}
	return r.List(ctx, inner)
}

// ExistingDates implements attendance.AttendanceRepository.
func (r *attendanceRepository) ExistingDates(ctx context.Context, employeeID string, from, to time.Time) (map[string]struct{}, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT date FROM attendances
		WHERE employee_id = $1 AND date >= $2 AND date <= $3
	`

	rows, err := q.Query(ctx, query, employeeID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to query existing attendance dates: %w", err)
	}
	defer rows.Close()

	dates := make(map[string]struct{})
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan attendance date: %w", err)
		}
		dates[d.Format("2006-01-02")] = struct{}{}
	}

	return dates, rows.Err()
}

// BulkCreateAbsences implements attendance.AttendanceRepository.
func (r *attendanceRepository) BulkCreateAbsences(ctx context.Context, records []attendance.Attendance) (int64, error) {
	if len(records) == 0 {
		return 0, nil
	}

	q := GetQuerier(ctx, r.db)

	// DO NOTHING keeps the backfill safe against a concurrent explicit upsert
	// or a second reconciliation run for the same employee/day.
	query := `
		INSERT INTO attendances (id, employee_id, date, status, notes, source)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (employee_id, date) DO NOTHING
	`

	batch := &pgx.Batch{}
	for _, rec := range records {
		batch.Queue(query, uuid.NewString(), rec.EmployeeID, rec.Date, rec.Status, rec.Notes, rec.Source)
	}

	results := q.SendBatch(ctx, batch)
	defer results.Close()

	var inserted int64
	for range records {
		tag, err := results.Exec()
		if err != nil {
			return inserted, fmt.Errorf("failed to bulk insert absences: %w", err)
		}
		inserted += tag.RowsAffected()
	}

	return inserted, nil
}

// Update implements attendance.AttendanceRepository.
func (r *attendanceRepository) Update(ctx context.Context, req attendance.UpdateRequest) (attendance.Attendance, error) {
	q := GetQuerier(ctx, r.db)

	updates := make([]string, 0, 3)
	args := make([]interface{}, 0, 4)
	argIdx := 1

	if req.Status != nil {
		updates = append(updates, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *req.Status)
		argIdx++
	}
	if req.Notes != nil {
		updates = append(updates, fmt.Sprintf("notes = $%d", argIdx))
		args = append(args, *req.Notes)
		argIdx++
	}

	if len(updates) == 0 {
		return attendance.Attendance{}, attendance.ErrNoFieldsToUpdate
	}

	// An explicit HR edit makes the record manual regardless of origin.
	updates = append(updates, fmt.Sprintf("source = $%d", argIdx))
	args = append(args, attendance.SourceManual)
	argIdx++

	updates = append(updates, "updated_at = NOW()")
	args = append(args, req.ID)

	query := "UPDATE attendances SET " + strings.Join(updates, ", ") +
		fmt.Sprintf(" WHERE id = $%d RETURNING id, employee_id, date, status, notes, source, created_at, updated_at", argIdx)

	var att attendance.Attendance
	err := q.QueryRow(ctx, query, args...).Scan(
		&att.ID, &att.EmployeeID, &att.Date, &att.Status,
		&att.Notes, &att.Source, &att.CreatedAt, &att.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Attendance{}, attendance.ErrAttendanceNotFound
		}
		return attendance.Attendance{}, fmt.Errorf("failed to update attendance: %w", err)
	}

	return att, nil
}

// Delete implements attendance.AttendanceRepository.
func (r *attendanceRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	commandTag, err := q.Exec(ctx, `DELETE FROM attendances WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}

	if commandTag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}

	return nil
}

// SummaryByEmployee implements attendance.AttendanceRepository.
func (r *attendanceRepository) SummaryByEmployee(ctx context.Context, through time.Time) ([]attendance.SummaryRow, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT e.id, e.employee_code, e.full_name, d.name AS department_name, e.join_date,
			   COUNT(a.id) FILTER (WHERE a.status IN ('PRESENT', 'HALF_DAY')) AS present_days,
			   COUNT(a.id) FILTER (WHERE a.status = 'ABSENT') AS absent_days,
			   COUNT(a.id) FILTER (WHERE a.status = 'ON_LEAVE') AS on_leave_days,
			   COUNT(a.id) FILTER (WHERE a.status = 'LATE') AS late_days
		FROM employees e
		LEFT JOIN departments d ON d.id = e.department_id
		LEFT JOIN attendances a
			ON a.employee_id = e.id
			AND a.date >= e.join_date
			AND a.date <= $1
		WHERE e.is_active = true
		GROUP BY e.id, e.employee_code, e.full_name, d.name, e.join_date
		ORDER BY e.full_name ASC
	`

	rows, err := q.Query(ctx, query, through)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance summary: %w", err)
	}
	defer rows.Close()

	var summaries []attendance.SummaryRow
	for rows.Next() {
		var row attendance.SummaryRow
		err := rows.Scan(
			&row.EmployeeID, &row.EmployeeCode, &row.EmployeeName, &row.DepartmentName, &row.JoinDate,
			&row.PresentDays, &row.AbsentDays, &row.OnLeaveDays, &row.LateDays,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan summary row: %w", err)
		}
		summaries = append(summaries, row)
	}

	return summaries, rows.Err()
}

func scanAttendanceRows(rows pgx.Rows) ([]attendance.Attendance, error) {
	var attendances []attendance.Attendance
	for rows.Next() {
		var att attendance.Attendance
		err := rows.Scan(
			&att.ID, &att.EmployeeID, &att.Date, &att.Status,
			&att.Notes, &att.Source, &att.CreatedAt, &att.UpdatedAt,
			&att.EmployeeName, &att.EmployeeCode,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		attendances = append(attendances, att)
	}
	return attendances, rows.Err()
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}
