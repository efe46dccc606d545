package leave

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/staffly/hrm-backend-go/internal/domain/attendance"
	"github.com/staffly/hrm-backend-go/internal/domain/employee"
	"github.com/staffly/hrm-backend-go/internal/domain/leave"
	"github.com/staffly/hrm-backend-go/internal/pkg/database"
)

type LeaveServiceImpl struct {
	leave.LeaveRepository
	attendance.AttendanceRepository
	employee.EmployeeRepository
	transactor database.Transactor
	logger     *slog.Logger

	now func() time.Time
}

func NewLeaveService(
	leaveRepo leave.LeaveRepository,
	attendanceRepo attendance.AttendanceRepository,
	employeeRepo employee.EmployeeRepository,
	transactor database.Transactor,
	logger *slog.Logger,
) *LeaveServiceImpl {
	return &LeaveServiceImpl{
		LeaveRepository:      leaveRepo,
		AttendanceRepository: attendanceRepo,
		EmployeeRepository:   employeeRepo,
		transactor:           transactor,
		logger:               logger,
		now:                  time.Now,
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func toLeaveResponse(l leave.Leave) leave.LeaveResponse {
	resp := leave.LeaveResponse{
		ID:             l.ID,
		EmployeeID:     l.EmployeeID,
		Designation:    l.Designation,
		DepartmentName: l.DepartmentName,
		LeaveType:      l.LeaveType,
		StartDate:      l.StartDate.Format("2006-01-02"),
		EndDate:        l.EndDate.Format("2006-01-02"),
		Reason:         l.Reason,
		Status:         string(l.Status),
		RequestedAt:    l.RequestedAt.Format(time.RFC3339),
	}

	if l.EmployeeName != nil || l.EmployeeCode != nil || l.EmployeeEmail != nil {
		resp.Employee = &leave.EmployeeSummary{
			ID:           l.EmployeeID,
			EmployeeCode: l.EmployeeCode,
			Name:         l.EmployeeName,
			Email:        l.EmployeeEmail,
		}
	}

	if l.ActionAt != nil {
		actionAt := l.ActionAt.Format(time.RFC3339)
		resp.ActionAt = &actionAt
	}

	if l.ApprovedByID != nil {
		resp.ApprovedBy = &leave.EmployeeSummary{
			ID:           *l.ApprovedByID,
			EmployeeCode: l.ApproverCode,
			Name:         l.ApproverName,
		}
	}

	return resp
}

// Decide implements leave.LeaveService.
func (s *LeaveServiceImpl) Decide(ctx context.Context, req leave.DecideRequest) (leave.LeaveResponse, error) {
	if err := req.Validate(); err != nil {
		return leave.LeaveResponse{}, err
	}

	approver, err := s.EmployeeRepository.GetByID(ctx, req.ApproverID)
	if err != nil || approver.Role != employee.RoleHR || !approver.IsActive {
		return leave.LeaveResponse{}, leave.ErrApproverNotAuthorized
	}

	l, err := s.LeaveRepository.GetByID(ctx, req.LeaveID)
	if err != nil {
		return leave.LeaveResponse{}, err
	}

	switch l.Status {
	case leave.LeaveStatusApproved:
		return leave.LeaveResponse{}, leave.ErrLeaveAlreadyApproved
	case leave.LeaveStatusRejected:
		return leave.LeaveResponse{}, leave.ErrLeaveAlreadyRejected
	}

	if !l.EmployeeIsActive {
		return leave.LeaveResponse{}, leave.ErrEmployeeInactive
	}

	if l.EmployeeID == req.ApproverID {
		return leave.LeaveResponse{}, leave.ErrSelfApproval
	}

	status := leave.LeaveStatus(req.Status)

	// Compared as calendar days so the stored date's location cannot skew
	// the boundary. Rejection of a stale request stays allowed so HR can
	// clear it out.
	today := s.now().Format("2006-01-02")
	if status == leave.LeaveStatusApproved && l.StartDate.Format("2006-01-02") < today {
		return leave.LeaveResponse{}, leave.ErrPastDatedLeave
	}

	actionAt := s.now()
	err = s.transactor.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.LeaveRepository.UpdateDecision(ctx, l.ID, status, actionAt, req.ApproverID); err != nil {
			return err
		}

		if status != leave.LeaveStatusApproved {
			return nil
		}

		note := fmt.Sprintf("On approved leave (%s)", l.ID)
		start := truncateToDay(l.StartDate)
		end := truncateToDay(l.EndDate)
		for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
			_, err := s.AttendanceRepository.Upsert(ctx, attendance.Attendance{
				EmployeeID: l.EmployeeID,
				Date:       day,
				Status:     attendance.StatusOnLeave,
				Notes:      &note,
				Source:     attendance.SourceAutoLeave,
			})
			if err != nil {
				return fmt.Errorf("failed to mark day %s on leave: %w", day.Format("2006-01-02"), err)
			}
		}
		return nil
	})
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("failed to apply leave decision: %w", err)
	}

	if req.Remarks != nil {
		s.logger.Info("leave decision remarks",
			slog.String("leave_id", l.ID),
			slog.String("approver_id", req.ApproverID),
			slog.String("status", req.Status),
			slog.String("remarks", *req.Remarks),
		)
	}

	decided, err := s.LeaveRepository.GetByID(ctx, l.ID)
	if err != nil {
		return leave.LeaveResponse{}, fmt.Errorf("failed to reload leave request: %w", err)
	}

	return toLeaveResponse(decided), nil
}

// List implements leave.LeaveService.
func (s *LeaveServiceImpl) List(ctx context.Context, filter leave.LeaveFilter) (leave.ListLeavesResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListLeavesResponse{}, err
	}

	leaves, total, err := s.LeaveRepository.List(ctx, filter)
	if err != nil {
		return leave.ListLeavesResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	data := make([]leave.LeaveResponse, 0, len(leaves))
	for _, l := range leaves {
		data = append(data, toLeaveResponse(l))
	}

	totalPages := int(math.Ceil(float64(total) / float64(filter.Limit)))
	return leave.ListLeavesResponse{
		Data: data,
		Pagination: leave.LeavePagination{
			Total:           total,
			Page:            filter.Page,
			Limit:           filter.Limit,
			TotalPages:      totalPages,
			HasNextPage:     filter.Page < totalPages,
			HasPreviousPage: filter.Page > 1,
		},
	}, nil
}

// Statistics implements leave.LeaveService.
func (s *LeaveServiceImpl) Statistics(ctx context.Context, departmentID *string) (leave.LeaveStatistics, error) {
	stats, err := s.LeaveRepository.CountByStatus(ctx, departmentID)
	if err != nil {
		return leave.LeaveStatistics{}, fmt.Errorf("failed to count leave requests: %w", err)
	}

	return stats, nil
}
