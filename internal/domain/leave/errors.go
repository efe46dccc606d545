package leave

import "errors"

// Decision preconditions, in the order the workflow checks them.
var (
	ErrApproverNotAuthorized = errors.New("only active HR employees can approve or reject leave requests")
	ErrLeaveRequestNotFound  = errors.New("leave request not found")
	ErrLeaveAlreadyApproved  = errors.New("this leave request has already been approved")
	ErrLeaveAlreadyRejected  = errors.New("this leave request has already been rejected")
	ErrEmployeeInactive      = errors.New("cannot update leave request for inactive employee")
	ErrSelfApproval          = errors.New("you cannot approve or reject your own leave request")
	ErrPastDatedLeave        = errors.New("cannot approve leave requests with past start dates")
)
