package response

import (
	"errors"
	"net/http"

	"github.com/staffly/hrm-backend-go/internal/domain/attendance"
	"github.com/staffly/hrm-backend-go/internal/domain/employee"
	"github.com/staffly/hrm-backend-go/internal/domain/leave"
	"github.com/staffly/hrm-backend-go/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrNoFieldsToUpdate):
		BadRequest(w, "No fields to update", nil)

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrApproverNotAuthorized):
		Forbidden(w, leave.ErrApproverNotAuthorized.Error())
	case errors.Is(err, leave.ErrSelfApproval):
		Forbidden(w, leave.ErrSelfApproval.Error())
	case errors.Is(err, leave.ErrLeaveAlreadyApproved):
		Conflict(w, leave.ErrLeaveAlreadyApproved.Error())
	case errors.Is(err, leave.ErrLeaveAlreadyRejected):
		Conflict(w, leave.ErrLeaveAlreadyRejected.Error())
	case errors.Is(err, leave.ErrEmployeeInactive):
		InvalidState(w, leave.ErrEmployeeInactive.Error())
	case errors.Is(err, leave.ErrPastDatedLeave):
		InvalidState(w, leave.ErrPastDatedLeave.Error())

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
