package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/jwtauth/v5"
	"github.com/staffly/hrm-backend-go/internal/domain/leave"
	"github.com/staffly/hrm-backend-go/internal/handler/http/response"
)

type LeaveHandler interface {
	List(w http.ResponseWriter, r *http.Request)
	Statistics(w http.ResponseWriter, r *http.Request)
	Decide(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService leave.LeaveService
}

func NewLeaveHandler(leaveService leave.LeaveService) LeaveHandler {
	return &LeaveHandlerImpl{leaveService: leaveService}
}

// List implements LeaveHandler.
func (h *LeaveHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	filter := leave.LeaveFilter{
		Status:       queryString(r, "status"),
		DepartmentID: queryString(r, "department_id"),
		EmployeeID:   queryString(r, "employee_id"),
		StartDate:    queryString(r, "start_date"),
		EndDate:      queryString(r, "end_date"),
		Page:         queryInt(r, "page"),
		Limit:        queryInt(r, "limit"),
	}

	result, err := h.leaveService.List(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Statistics implements LeaveHandler.
func (h *LeaveHandlerImpl) Statistics(w http.ResponseWriter, r *http.Request) {
	result, err := h.leaveService.Statistics(r.Context(), queryString(r, "department_id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Decide implements LeaveHandler.
func (h *LeaveHandlerImpl) Decide(w http.ResponseWriter, r *http.Request) {
	var req leave.DecideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		slog.Error("Decide decode error", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.LeaveID = chi.URLParam(r, "id")

	// The approver is whoever holds the token, never a request field.
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		response.Unauthorized(w, "Unauthorized")
		return
	}
	approverID, ok := claims["employee_id"].(string)
	if !ok || approverID == "" {
		response.Unauthorized(w, "Access token has no employee identity")
		return
	}
	req.ApproverID = approverID

	result, err := h.leaveService.Decide(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	message := "Leave request rejected successfully"
	if result.Status == string(leave.LeaveStatusApproved) {
		message = "Leave request approved successfully"
	}
	response.SuccessWithMessage(w, message, result)
}
