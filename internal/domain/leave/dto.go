package leave

import (
	"github.com/staffly/hrm-backend-go/internal/pkg/validator"
)

// ========================================
// LEAVE DTOs
// ========================================

// DecideRequest is the HR action on a pending leave. Remarks are logged for
// the audit trail, not persisted on the request.
type DecideRequest struct {
	LeaveID    string  `json:"-"`
	ApproverID string  `json:"-"`
	Status     string  `json:"status"` // APPROVED or REJECTED
	Remarks    *string `json:"remarks"`
}

func (r *DecideRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.LeaveID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid UUID",
		})
	}

	if r.Status != string(LeaveStatusApproved) && r.Status != string(LeaveStatusRejected) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be either APPROVED or REJECTED",
		})
	}

	if r.Remarks != nil {
		if validator.IsEmpty(*r.Remarks) {
			errs = append(errs, validator.ValidationError{
				Field:   "remarks",
				Message: "remarks cannot be empty",
			})
		} else if len(*r.Remarks) > 500 {
			errs = append(errs, validator.ValidationError{
				Field:   "remarks",
				Message: "remarks cannot exceed 500 characters",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type LeaveFilter struct {
	Status       *string `json:"status,omitempty"`
	DepartmentID *string `json:"department_id,omitempty"`
	EmployeeID   *string `json:"employee_id,omitempty"`
	StartDate    *string `json:"start_date,omitempty"` // YYYY-MM-DD, lower bound on start_date
	EndDate      *string `json:"end_date,omitempty"`   // YYYY-MM-DD, upper bound on end_date

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *LeaveFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 10
	}
	if f.Limit > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must not exceed 100",
		})
	}

	if f.Status != nil {
		valid := []string{
			string(LeaveStatusPending),
			string(LeaveStatusApproved),
			string(LeaveStatusRejected),
		}
		if !validator.IsInSlice(*f.Status, valid) {
			errs = append(errs, validator.ValidationError{
				Field:   "status",
				Message: "status must be one of: PENDING, APPROVED, REJECTED",
			})
		}
	}

	if f.DepartmentID != nil && !validator.IsValidUUID(*f.DepartmentID) {
		errs = append(errs, validator.ValidationError{
			Field:   "department_id",
			Message: "department_id must be a valid UUID",
		})
	}

	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	var start, end validator.Date
	if f.StartDate != nil && *f.StartDate != "" {
		d, valid := validator.IsValidDate(*f.StartDate)
		if !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
		start = validator.Date(d)
	}
	if f.EndDate != nil && *f.EndDate != "" {
		d, valid := validator.IsValidDate(*f.EndDate)
		if !valid {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
		end = validator.Date(d)
	}
	if f.StartDate != nil && f.EndDate != nil && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be before or equal to end_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type EmployeeSummary struct {
	ID           string  `json:"id"`
	EmployeeCode *string `json:"employee_code,omitempty"`
	Name         *string `json:"name,omitempty"`
	Email        *string `json:"email,omitempty"`
}

type LeaveResponse struct {
	ID             string           `json:"id"`
	EmployeeID     string           `json:"employee_id"`
	Employee       *EmployeeSummary `json:"employee,omitempty"`
	Designation    *string          `json:"designation,omitempty"`
	DepartmentName *string          `json:"department_name,omitempty"`
	LeaveType      string           `json:"leave_type"`
	StartDate      string           `json:"start_date"`
	EndDate        string           `json:"end_date"`
	Reason         string           `json:"reason"`
	Status         string           `json:"status"`
	RequestedAt    string           `json:"requested_at"`
	ActionAt       *string          `json:"action_at,omitempty"`
	ApprovedBy     *EmployeeSummary `json:"approved_by,omitempty"`
}

type LeavePagination struct {
	Total           int64 `json:"total"`
	Page            int   `json:"page"`
	Limit           int   `json:"limit"`
	TotalPages      int   `json:"total_pages"`
	HasNextPage     bool  `json:"has_next_page"`
	HasPreviousPage bool  `json:"has_previous_page"`
}

type ListLeavesResponse struct {
	Data       []LeaveResponse `json:"data"`
	Pagination LeavePagination `json:"pagination"`
}

type LeaveStatistics struct {
	Total    int64 `json:"total"`
	Pending  int64 `json:"pending"`
	Approved int64 `json:"approved"`
	Rejected int64 `json:"rejected"`
}
