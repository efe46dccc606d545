package attendance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/staffly/hrm-backend-go/internal/domain/attendance"
	"github.com/staffly/hrm-backend-go/internal/domain/employee"
	"golang.org/x/sync/errgroup"
)

// reconcileConcurrency caps the number of employees backfilled in parallel
// by the bulk run.
const reconcileConcurrency = 8

const autoAbsentNote = "Auto-marked absent by system"

type ReconcilerImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	logger *slog.Logger

	now func() time.Time
}

func NewReconciler(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	logger *slog.Logger,
) *ReconcilerImpl {
	return &ReconcilerImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		logger:               logger,
		now:                  time.Now,
	}
}

// EnsureReconciled implements attendance.Reconciler.
func (r *ReconcilerImpl) EnsureReconciled(ctx context.Context, employeeID string) error {
	emp, err := r.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return nil
		}
		return fmt.Errorf("failed to get employee for reconciliation: %w", err)
	}

	return r.reconcile(ctx, emp)
}

func (r *ReconcilerImpl) reconcile(ctx context.Context, emp employee.Employee) error {
	if !emp.IsActive {
		return nil
	}

	yesterday := truncateToDay(r.now()).AddDate(0, 0, -1)
	// Rebuild the join date in the clock's location so the comparison is by
	// calendar day, not by instant.
	from := time.Date(emp.JoinDate.Year(), emp.JoinDate.Month(), emp.JoinDate.Day(), 0, 0, 0, 0, yesterday.Location())
	if from.After(yesterday) {
		// Joined today or in the future, nothing has elapsed yet.
		return nil
	}

	existing, err := r.AttendanceRepository.ExistingDates(ctx, emp.ID, from, yesterday)
	if err != nil {
		return fmt.Errorf("failed to load existing attendance dates: %w", err)
	}

	note := autoAbsentNote
	var missing []attendance.Attendance
	for day := from; !day.After(yesterday); day = day.AddDate(0, 0, 1) {
		if _, ok := existing[day.Format("2006-01-02")]; ok {
			continue
		}
		missing = append(missing, attendance.Attendance{
			EmployeeID: emp.ID,
			Date:       day,
			Status:     attendance.StatusAbsent,
			Notes:      &note,
			Source:     attendance.SourceAutoAbsent,
		})
	}

	if len(missing) == 0 {
		return nil
	}

	inserted, err := r.AttendanceRepository.BulkCreateAbsences(ctx, missing)
	if err != nil {
		return fmt.Errorf("failed to backfill absences: %w", err)
	}

	r.logger.Debug("backfilled absent days",
		slog.String("employee_id", emp.ID),
		slog.Int64("inserted", inserted),
	)
	return nil
}

// ReconcileAll implements attendance.Reconciler.
func (r *ReconcilerImpl) ReconcileAll(ctx context.Context) error {
	employees, err := r.EmployeeRepository.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("failed to list active employees: %w", err)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(reconcileConcurrency)

	for _, emp := range employees {
		g.Go(func() error {
			if err := r.reconcile(ctx, emp); err != nil {
				// One employee failing must not abort the batch.
				r.logger.Error("attendance reconciliation failed",
					slog.String("employee_id", emp.ID),
					slog.Any("error", err),
				)
			}
			return nil
		})
	}

	return g.Wait()
}
