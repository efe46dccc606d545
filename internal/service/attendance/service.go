package attendance

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/staffly/hrm-backend-go/internal/domain/attendance"
	"github.com/staffly/hrm-backend-go/internal/domain/employee"
	"github.com/staffly/hrm-backend-go/internal/pkg/validator"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	employee.EmployeeRepository
	reconciler attendance.Reconciler

	// now is swapped out in tests to pin the day boundary.
	now func() time.Time
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	reconciler attendance.Reconciler,
) *AttendanceServiceImpl {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		reconciler:           reconciler,
		now:                  time.Now,
	}
}

// truncateToDay drops the time-of-day component, keeping the location.
func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// daysInclusive counts calendar days in [from, to], ignoring locations and
// time-of-day. Zero when from is after to.
func daysInclusive(from, to time.Time) int {
	f := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, time.UTC)
	t := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, time.UTC)
	if f.After(t) {
		return 0
	}
	return int(t.Sub(f).Hours()/24) + 1
}

func toAttendanceResponse(att attendance.Attendance) attendance.AttendanceResponse {
	return attendance.AttendanceResponse{
		ID:           att.ID,
		EmployeeID:   att.EmployeeID,
		EmployeeName: att.EmployeeName,
		EmployeeCode: att.EmployeeCode,
		Date:         att.Date.Format("2006-01-02"),
		Status:       string(att.Status),
		Notes:        att.Notes,
		Source:       string(att.Source),
		CreatedAt:    att.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    att.UpdatedAt.Format(time.RFC3339),
	}
}

func buildPagination(total int64, page, limit int) attendance.Pagination {
	return attendance.Pagination{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
	}
}

// CreateOrUpdate implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) CreateOrUpdate(ctx context.Context, req attendance.CreateOrUpdateRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}
	if !emp.IsActive {
		// Inactive employees do not resolve for attendance marking.
		return attendance.AttendanceResponse{}, employee.ErrEmployeeNotFound
	}

	date, _ := time.Parse("2006-01-02", req.Date)

	stored, err := s.AttendanceRepository.Upsert(ctx, attendance.Attendance{
		EmployeeID: req.EmployeeID,
		Date:       date,
		Status:     attendance.Status(req.Status),
		Notes:      req.Notes,
		Source:     attendance.SourceManual,
	})
	if err != nil {
		return attendance.AttendanceResponse{}, fmt.Errorf("failed to upsert attendance: %w", err)
	}

	stored.EmployeeName = &emp.FullName
	stored.EmployeeCode = &emp.EmployeeCode
	return toAttendanceResponse(stored), nil
}

// List implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) List(ctx context.Context, filter attendance.AttendanceFilter) (attendance.ListAttendanceResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := s.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	data := make([]attendance.AttendanceResponse, 0, len(records))
	for _, att := range records {
		data = append(data, toAttendanceResponse(att))
	}

	return attendance.ListAttendanceResponse{
		Data:       data,
		Pagination: buildPagination(total, filter.Page, filter.Limit),
	}, nil
}

// Get implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Get(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	if !validator.IsValidUUID(id) {
		return attendance.AttendanceResponse{}, validator.ValidationErrors{
			{Field: "id", Message: "id must be a valid UUID"},
		}
	}

	att, err := s.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return toAttendanceResponse(att), nil
}

// Update implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Update(ctx context.Context, req attendance.UpdateRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	att, err := s.AttendanceRepository.Update(ctx, req)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return toAttendanceResponse(att), nil
}

// Delete implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Delete(ctx context.Context, id string) error {
	if !validator.IsValidUUID(id) {
		return validator.ValidationErrors{
			{Field: "id", Message: "id must be a valid UUID"},
		}
	}

	return s.AttendanceRepository.Delete(ctx, id)
}

// GetEmployeeAttendance implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) GetEmployeeAttendance(ctx context.Context, employeeID string, filter attendance.EmployeeAttendanceFilter) (attendance.EmployeeAttendanceResponse, error) {
	if !validator.IsValidUUID(employeeID) {
		return attendance.EmployeeAttendanceResponse{}, validator.ValidationErrors{
			{Field: "employee_id", Message: "employee_id must be a valid UUID"},
		}
	}
	if err := filter.Validate(); err != nil {
		return attendance.EmployeeAttendanceResponse{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, employeeID)
	if err != nil {
		return attendance.EmployeeAttendanceResponse{}, err
	}

	// Backfill missing ABSENT days before reading, so the calendar the
	// caller sees has no gaps.
	if err := s.reconciler.EnsureReconciled(ctx, employeeID); err != nil {
		return attendance.EmployeeAttendanceResponse{}, fmt.Errorf("failed to reconcile attendance: %w", err)
	}

	records, total, err := s.AttendanceRepository.ListByEmployee(ctx, employeeID, filter)
	if err != nil {
		return attendance.EmployeeAttendanceResponse{}, fmt.Errorf("failed to list employee attendance: %w", err)
	}

	data := make([]attendance.AttendanceResponse, 0, len(records))
	for _, att := range records {
		data = append(data, toAttendanceResponse(att))
	}

	return attendance.EmployeeAttendanceResponse{
		Employee: attendance.EmployeeInfo{
			ID:             emp.ID,
			EmployeeCode:   emp.EmployeeCode,
			FullName:       emp.FullName,
			Email:          emp.Email,
			DepartmentName: emp.DepartmentName,
			JoinDate:       emp.JoinDate.Format("2006-01-02"),
			IsActive:       emp.IsActive,
		},
		Attendance: data,
		Pagination: buildPagination(total, filter.Page, filter.Limit),
	}, nil
}

// Summary implements attendance.AttendanceService.
func (s *AttendanceServiceImpl) Summary(ctx context.Context) ([]attendance.EmployeeSummary, error) {
	yesterday := truncateToDay(s.now()).AddDate(0, 0, -1)

	rows, err := s.AttendanceRepository.SummaryByEmployee(ctx, yesterday)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate attendance summary: %w", err)
	}

	summaries := make([]attendance.EmployeeSummary, 0, len(rows))
	for _, row := range rows {
		totalDays := daysInclusive(row.JoinDate, yesterday)

		percentage := 0
		if totalDays > 0 {
			percentage = int(math.Round(float64(row.PresentDays) / float64(totalDays) * 100))
		}

		summaries = append(summaries, attendance.EmployeeSummary{
			EmployeeID:           row.EmployeeID,
			EmployeeCode:         row.EmployeeCode,
			EmployeeName:         row.EmployeeName,
			DepartmentName:       row.DepartmentName,
			TotalDays:            totalDays,
			PresentDays:          row.PresentDays,
			AbsentDays:           row.AbsentDays,
			OnLeaveDays:          row.OnLeaveDays,
			LateDays:             row.LateDays,
			AttendancePercentage: percentage,
		})
	}

	return summaries, nil
}
