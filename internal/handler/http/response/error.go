package response

import (
	"errors"
	"net/http"

	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/attendance"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/company"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/employee"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/leave"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/regularization"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/shift"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/user"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/pkg/validator"
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
	// User / access errors
	case errors.Is(err, user.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")
	case errors.Is(err, user.ErrManagerAccessRequired):
		Forbidden(w, "Manager or owner role required")
	case errors.Is(err, user.ErrCompanyIDRequired):
		Forbidden(w, "No company associated with this user")

	// Company domain errors
	case errors.Is(err, company.ErrCompanyNotFound):
		NotFound(w, "Company not found")
	case errors.Is(err, company.ErrCompanySuspended):
		Forbidden(w, "Company is suspended")

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")

	// Shift domain errors
	case errors.Is(err, shift.ErrShiftNotFound):
		NotFound(w, "Work shift not found")

	// Attendance domain errors
	case errors.Is(err, attendance.ErrAlreadyCheckedIn):
		Conflict(w, "Already checked in for this day")
	case errors.Is(err, attendance.ErrTooEarlyToCheckIn):
		BadRequest(w, "Too early to check in for this shift", nil)
	case errors.Is(err, attendance.ErrNotCheckedIn):
		BadRequest(w, "No open check-in found", nil)
	case errors.Is(err, attendance.ErrAlreadyCheckedOut):
		Conflict(w, "Already checked out for this day")
	case errors.Is(err, attendance.ErrNoShiftAssigned):
		BadRequest(w, "No active work shift assigned", nil)
	case errors.Is(err, attendance.ErrDayNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrDuplicateDay):
		Conflict(w, "An attendance record already exists for this day")
	case errors.Is(err, attendance.ErrCheckOutBeforeIn):
		BadRequest(w, "Check-out time must not be before check-in time", nil)
	case errors.Is(err, attendance.ErrEmployeeNotInScope):
		Forbidden(w, "Employee does not belong to your company")

	// Regularization domain errors
	case errors.Is(err, regularization.ErrRequestNotFound):
		NotFound(w, "Regularization request not found")
	case errors.Is(err, regularization.ErrDuplicatePending):
		Conflict(w, "A pending regularization already exists for this date")
	case errors.Is(err, regularization.ErrAlreadyProcessed):
		Conflict(w, "Regularization request already processed")
	case errors.Is(err, regularization.ErrDateInFuture):
		BadRequest(w, "Regularization date cannot be in the future", nil)
	case errors.Is(err, regularization.ErrDateTooOld):
		BadRequest(w, "Regularization date is outside the allowed window", nil)
	case errors.Is(err, regularization.ErrNotRequestOwner):
		Forbidden(w, "Only the requesting employee may cancel this request")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveTypeNotFound):
		NotFound(w, "Leave type not found")
	case errors.Is(err, leave.ErrLeaveTypeInactive):
		BadRequest(w, "Leave type is inactive", nil)
	case errors.Is(err, leave.ErrOverlappingLeave):
		Conflict(w, "An overlapping leave request already exists")
	case errors.Is(err, leave.ErrAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrOnlyOffDays):
		BadRequest(w, "Leave range contains only weekly off days", nil)
	case errors.Is(err, leave.ErrAttendanceConflict):
		Conflict(w, "Attendance already recorded on a date in the leave range")
	case errors.Is(err, leave.ErrNotRequestOwner):
		Forbidden(w, "Only the requesting employee may cancel this request")
	case errors.Is(err, leave.ErrInvalidDateRange):
		BadRequest(w, "End date must not be before start date", nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
