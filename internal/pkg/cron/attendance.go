package cron

import (
	"context"
	"log/slog"
	"time"

	"github.com/staffly/hrm-backend-go/internal/domain/attendance"
)

// AttendanceJobs holds the attendance reconciliation cron job.
type AttendanceJobs struct {
	reconciler attendance.Reconciler
}

func NewAttendanceJobs(reconciler attendance.Reconciler) *AttendanceJobs {
	return &AttendanceJobs{reconciler: reconciler}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("reconcile_attendance", 1*time.Hour, j.ReconcileAttendance)
}

// ReconcileAttendance backfills ABSENT records for every active employee.
// Runs hourly but only does work during the first hour of the day, right
// after yesterday becomes final.
func (j *AttendanceJobs) ReconcileAttendance(ctx context.Context) error {
	if time.Now().Hour() != 0 {
		return nil
	}

	slog.Info("Cron: Starting attendance reconciliation job")
	if err := j.reconciler.ReconcileAll(ctx); err != nil {
		return err
	}
	slog.Info("Cron: Attendance reconciliation finished")
	return nil
}
