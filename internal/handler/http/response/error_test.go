package response

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/staffly/hrm-backend-go/internal/domain/attendance"
	"github.com/staffly/hrm-backend-go/internal/domain/employee"
	"github.com/staffly/hrm-backend-go/internal/domain/leave"
	"github.com/staffly/hrm-backend-go/internal/pkg/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func handle(t *testing.T, err error) (int, Response) {
	t.Helper()
	rec := httptest.NewRecorder()
	HandleError(rec, err)

	var body Response
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	return rec.Code, body
}

func TestHandleErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"employee not found", employee.ErrEmployeeNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"attendance not found", attendance.ErrAttendanceNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"leave not found", leave.ErrLeaveRequestNotFound, http.StatusNotFound, "NOT_FOUND"},
		{"empty update", attendance.ErrNoFieldsToUpdate, http.StatusBadRequest, "BAD_REQUEST"},
		{"unauthorized approver", leave.ErrApproverNotAuthorized, http.StatusForbidden, "FORBIDDEN"},
		{"self approval", leave.ErrSelfApproval, http.StatusForbidden, "FORBIDDEN"},
		{"already approved", leave.ErrLeaveAlreadyApproved, http.StatusConflict, "CONFLICT"},
		{"already rejected", leave.ErrLeaveAlreadyRejected, http.StatusConflict, "CONFLICT"},
		{"inactive leave employee", leave.ErrEmployeeInactive, http.StatusUnprocessableEntity, "INVALID_STATE"},
		{"past dated leave", leave.ErrPastDatedLeave, http.StatusUnprocessableEntity, "INVALID_STATE"},
		{"unknown error", errors.New("boom"), http.StatusInternalServerError, "INTERNAL_SERVER_ERROR"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, body := handle(t, tt.err)
			assert.Equal(t, tt.wantStatus, status)
			assert.False(t, body.Success)
			require.NotNil(t, body.Error)
			assert.Equal(t, tt.wantCode, body.Error.Code)
		})
	}
}

func TestHandleErrorWrappedSentinel(t *testing.T) {
	wrapped := errors.Join(errors.New("failed to apply leave decision"), leave.ErrLeaveAlreadyApproved)
	status, body := handle(t, wrapped)
	assert.Equal(t, http.StatusConflict, status)
	assert.Equal(t, "CONFLICT", body.Error.Code)
}

func TestHandleErrorValidation(t *testing.T) {
	verrs := validator.ValidationErrors{
		{Field: "status", Message: "status must be one of: PRESENT, ABSENT, LATE, ON_LEAVE, HALF_DAY"},
	}

	status, body := handle(t, verrs)
	assert.Equal(t, http.StatusUnprocessableEntity, status)
	require.NotNil(t, body.Error)
	assert.Equal(t, "VALIDATION_ERROR", body.Error.Code)
	assert.Contains(t, body.Error.Details, "status")
}
