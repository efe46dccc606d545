package attendance

import (
	"context"
	"errors"
	"log/slog"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/staffly/hrm-backend-go/internal/domain/attendance"
	"github.com/staffly/hrm-backend-go/internal/domain/employee"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 15, 9, 30, 0, 0, time.UTC)

func day(s string) time.Time {
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return d
}

func testEmployee(joinDate string, active bool) employee.Employee {
	return employee.Employee{
		ID:           uuid.NewString(),
		EmployeeCode: "EMP001",
		FullName:     "Test Employee",
		Email:        "test@example.com",
		Role:         employee.RoleEmployee,
		IsActive:     active,
		JoinDate:     day(joinDate),
	}
}

func newTestReconciler(emps ...employee.Employee) (*ReconcilerImpl, *fakeAttendanceRepo) {
	empRepo := newFakeEmployeeRepo(emps...)
	attRepo := newFakeAttendanceRepo(empRepo)
	r := NewReconciler(attRepo, empRepo, slog.Default())
	r.now = func() time.Time { return testNow }
	return r, attRepo
}

func TestEnsureReconciledBackfillsMissingDays(t *testing.T) {
	ctx := context.Background()
	emp := testEmployee("2025-03-05", true)
	r, attRepo := newTestReconciler(emp)

	// Two days already recorded, the other eight are gaps.
	_, err := attRepo.Upsert(ctx, attendance.Attendance{
		EmployeeID: emp.ID, Date: day("2025-03-06"),
		Status: attendance.StatusPresent, Source: attendance.SourceManual,
	})
	require.NoError(t, err)
	_, err = attRepo.Upsert(ctx, attendance.Attendance{
		EmployeeID: emp.ID, Date: day("2025-03-10"),
		Status: attendance.StatusOnLeave, Source: attendance.SourceAutoLeave,
	})
	require.NoError(t, err)

	require.NoError(t, r.EnsureReconciled(ctx, emp.ID))

	// One record per day in [join date, yesterday], nothing beyond.
	records := attRepo.all(emp.ID)
	require.Len(t, records, 10)

	byDate := make(map[string]attendance.Attendance)
	for _, att := range records {
		byDate[att.Date.Format("2006-01-02")] = att
	}
	for d := day("2025-03-05"); !d.After(day("2025-03-14")); d = d.AddDate(0, 0, 1) {
		require.Contains(t, byDate, d.Format("2006-01-02"))
	}

	// Pre-existing records are untouched.
	assert.Equal(t, attendance.StatusPresent, byDate["2025-03-06"].Status)
	assert.Equal(t, attendance.StatusOnLeave, byDate["2025-03-10"].Status)

	// Backfilled days are auto-marked ABSENT.
	backfilled := byDate["2025-03-07"]
	assert.Equal(t, attendance.StatusAbsent, backfilled.Status)
	assert.Equal(t, attendance.SourceAutoAbsent, backfilled.Source)
	require.NotNil(t, backfilled.Notes)
	assert.Equal(t, autoAbsentNote, *backfilled.Notes)
}

func TestEnsureReconciledIsIdempotent(t *testing.T) {
	ctx := context.Background()
	emp := testEmployee("2025-03-10", true)
	r, attRepo := newTestReconciler(emp)

	require.NoError(t, r.EnsureReconciled(ctx, emp.ID))
	first := attRepo.all(emp.ID)
	require.Len(t, first, 5)

	require.NoError(t, r.EnsureReconciled(ctx, emp.ID))
	second := attRepo.all(emp.ID)
	require.Len(t, second, 5)

	// Same rows, not re-created ones.
	ids := make(map[string]bool)
	for _, att := range first {
		ids[att.ID] = true
	}
	for _, att := range second {
		assert.True(t, ids[att.ID])
	}
}

func TestEnsureReconciledNoOpCases(t *testing.T) {
	ctx := context.Background()

	t.Run("unknown employee", func(t *testing.T) {
		r, attRepo := newTestReconciler()
		require.NoError(t, r.EnsureReconciled(ctx, uuid.NewString()))
		assert.Empty(t, attRepo.records)
	})

	t.Run("inactive employee", func(t *testing.T) {
		emp := testEmployee("2025-03-01", false)
		r, attRepo := newTestReconciler(emp)
		require.NoError(t, r.EnsureReconciled(ctx, emp.ID))
		assert.Empty(t, attRepo.records)
	})

	t.Run("joined today", func(t *testing.T) {
		emp := testEmployee("2025-03-15", true)
		r, attRepo := newTestReconciler(emp)
		require.NoError(t, r.EnsureReconciled(ctx, emp.ID))
		assert.Empty(t, attRepo.records)
	})

	t.Run("joins in the future", func(t *testing.T) {
		emp := testEmployee("2025-04-01", true)
		r, attRepo := newTestReconciler(emp)
		require.NoError(t, r.EnsureReconciled(ctx, emp.ID))
		assert.Empty(t, attRepo.records)
	})
}

func TestEnsureReconciledCoversEveryElapsedDay(t *testing.T) {
	// An employee five days in with no records at all gets one ABSENT
	// record for each of the five elapsed days.
	ctx := context.Background()
	emp := testEmployee("2025-03-10", true)
	r, attRepo := newTestReconciler(emp)

	require.NoError(t, r.EnsureReconciled(ctx, emp.ID))

	records := attRepo.all(emp.ID)
	require.Len(t, records, 5)
	for _, att := range records {
		assert.Equal(t, attendance.StatusAbsent, att.Status)
		assert.Equal(t, attendance.SourceAutoAbsent, att.Source)
	}
}

func TestReconcileAllContinuesPastFailures(t *testing.T) {
	ctx := context.Background()
	broken := testEmployee("2025-03-10", true)
	healthy := testEmployee("2025-03-12", true)

	empRepo := newFakeEmployeeRepo(broken, healthy)
	attRepo := newFakeAttendanceRepo(empRepo)
	attRepo.existingDatesErr[broken.ID] = errors.New("connection reset")

	r := NewReconciler(attRepo, empRepo, slog.Default())
	r.now = func() time.Time { return testNow }

	// One employee failing must not fail the batch or starve the rest.
	require.NoError(t, r.ReconcileAll(ctx))
	assert.Empty(t, attRepo.all(broken.ID))
	assert.Len(t, attRepo.all(healthy.ID), 3)
}

func TestReconcileAllSkipsInactiveEmployees(t *testing.T) {
	ctx := context.Background()
	active := testEmployee("2025-03-13", true)
	inactive := testEmployee("2025-03-01", false)

	r, attRepo := newTestReconciler(active, inactive)

	require.NoError(t, r.ReconcileAll(ctx))
	assert.Len(t, attRepo.all(active.ID), 2)
	assert.Empty(t, attRepo.all(inactive.ID))
}
