package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in errors
	ErrAlreadyCheckedIn  = errors.New("employee has already checked in today")
	ErrNotCheckedIn      = errors.New("employee has not checked in yet")
	ErrAlreadyCheckedOut = errors.New("employee has already checked out")

	// Absence errors
	ErrAttendanceExists = errors.New("attendance already recorded for this date")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrInvalidWindow      = errors.New("attendance window end must not be before start")
)
