package attendance

import "errors"

var (
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrNoFieldsToUpdate   = errors.New("no updatable fields provided")
)
