package leave

import "errors"

var (
	ErrLeaveRequestNotFound = errors.New("leave request not found")
	ErrLeaveTypeNotFound    = errors.New("leave type not found")
	ErrLeaveTypeInactive    = errors.New("leave type is inactive")
	ErrOverlappingLeave     = errors.New("an overlapping leave request already exists")
	ErrAlreadyProcessed     = errors.New("leave request has already been processed")
	ErrOnlyOffDays          = errors.New("leave range contains only weekly off days")
	ErrAttendanceConflict   = errors.New("attendance already recorded on a date in the leave range")
	ErrNotRequestOwner      = errors.New("only the requesting employee may cancel this request")
	ErrInvalidDateRange     = errors.New("end date must not be before start date")
)
