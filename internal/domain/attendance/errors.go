package attendance

import "errors"

// Attendance domain errors
var (
	// Check-in / check-out errors
	ErrAlreadyCheckedIn  = errors.New("you have already checked in for this day")
	ErrTooEarlyToCheckIn = errors.New("too early to check in")
	ErrNotCheckedIn      = errors.New("you have not checked in yet")
	ErrAlreadyCheckedOut = errors.New("you have already checked out")
	ErrNoShiftAssigned   = errors.New("no work shift assigned")

	// General errors
	ErrDayNotFound        = errors.New("attendance record not found")
	ErrDuplicateDay       = errors.New("attendance record already exists for this day")
	ErrCheckOutBeforeIn   = errors.New("check-out time must not be before check-in time")
	ErrEmployeeNotInScope = errors.New("employee does not belong to this company")
)
