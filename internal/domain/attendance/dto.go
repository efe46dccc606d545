package attendance

import (
	"github.com/staffly/hrm-backend-go/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

type CreateOrUpdateRequest struct {
	EmployeeID string  `json:"employee_id"`
	Date       string  `json:"date"` // YYYY-MM-DD
	Status     string  `json:"status"`
	Notes      *string `json:"notes"`
}

func (r *CreateOrUpdateRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	} else if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	if _, valid := validator.IsValidDate(r.Date); !valid {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if !validator.IsInSlice(r.Status, ValidStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: PRESENT, ABSENT, LATE, ON_LEAVE, HALF_DAY",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type UpdateRequest struct {
	ID     string  `json:"-"`
	Status *string `json:"status"`
	Notes  *string `json:"notes"`
}

func (r *UpdateRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id must be a valid UUID",
		})
	}

	if r.Status != nil && !validator.IsInSlice(*r.Status, ValidStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: PRESENT, ABSENT, LATE, ON_LEAVE, HALF_DAY",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type AttendanceFilter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Status     *string `json:"status,omitempty"`
	StartDate  *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate    *string `json:"end_date,omitempty"`   // YYYY-MM-DD

	// Pagination (1-indexed)
	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *AttendanceFilter) Validate() error {
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

	if f.EmployeeID != nil && !validator.IsValidUUID(*f.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id must be a valid UUID",
		})
	}

	if f.Status != nil && !validator.IsInSlice(*f.Status, ValidStatuses) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status must be one of: PRESENT, ABSENT, LATE, ON_LEAVE, HALF_DAY",
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
			Field:   "end_date",
			Message: "end_date must be after or equal to start_date",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// EmployeeAttendanceFilter filters the per-employee detail endpoint. The
// employee ID travels in the URL, not the filter.
type EmployeeAttendanceFilter struct {
	Status    *string `json:"status,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	Page      int     `json:"page"`
	Limit     int     `json:"limit"`
}

func (f *EmployeeAttendanceFilter) Validate() error {
	inner := AttendanceFilter{
		Status:    f.Status,
		StartDate: f.StartDate,
		EndDate:   f.EndDate,
		Page:      f.Page,
		Limit:     f.Limit,
	}
	if err := inner.Validate(); err != nil {
		return err
	}
	f.Page = inner.Page
	f.Limit = inner.Limit
	return nil
}

type AttendanceResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	EmployeeName *string `json:"employee_name,omitempty"`
	EmployeeCode *string `json:"employee_code,omitempty"`
	Date         string  `json:"date"`
	Status       string  `json:"status"`
	Notes        *string `json:"notes,omitempty"`
	Source       string  `json:"source"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

type Pagination struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"total_pages"`
}

type ListAttendanceResponse struct {
	Data       []AttendanceResponse `json:"data"`
	Pagination Pagination           `json:"pagination"`
}

// EmployeeInfo is the employee header returned by the detail endpoint.
type EmployeeInfo struct {
	ID             string  `json:"id"`
	EmployeeCode   string  `json:"employee_code"`
	FullName       string  `json:"full_name"`
	Email          string  `json:"email"`
	DepartmentName *string `json:"department_name,omitempty"`
	JoinDate       string  `json:"join_date"`
	IsActive       bool    `json:"is_active"`
}

type EmployeeAttendanceResponse struct {
	Employee   EmployeeInfo         `json:"employee"`
	Attendance []AttendanceResponse `json:"attendance"`
	Pagination Pagination           `json:"pagination"`
}

// EmployeeSummary is one row of the all-employees attendance report.
// HALF_DAY counts toward PresentDays at full weight.
type EmployeeSummary struct {
	EmployeeID           string  `json:"employee_id"`
	EmployeeCode         string  `json:"employee_code"`
	EmployeeName         string  `json:"employee_name"`
	DepartmentName       *string `json:"department_name,omitempty"`
	TotalDays            int     `json:"total_days"`
	PresentDays          int     `json:"present_days"`
	AbsentDays           int     `json:"absent_days"`
	OnLeaveDays          int     `json:"on_leave_days"`
	LateDays             int     `json:"late_days"`
	AttendancePercentage int     `json:"attendance_percentage"`
}
