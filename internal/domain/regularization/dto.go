package regularization

import (
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/pkg/timeutil"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/pkg/validator"
)

type CreateRequest struct {
	EmployeeID            *string `json:"employee_id,omitempty"` // company-level actors may file for others
	Date                  string  `json:"date"`                  // YYYY-MM-DD
	RequestType           string  `json:"request_type"`
	RequestedCheckInTime  *string `json:"requested_check_in_time,omitempty"`  // HH:MM wall clock
	RequestedCheckOutTime *string `json:"requested_check_out_time,omitempty"` // HH:MM wall clock
	Reason                string  `json:"reason"`
}

func (r *CreateRequest) Validate() error {
	var errs validator.ValidationErrors

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	reqType := RequestType(r.RequestType)
	if !IsValidRequestType(reqType) {
		errs = append(errs, validator.ValidationError{
			Field:   "request_type",
			Message: "unknown request type",
		})
	}

	if r.RequestedCheckInTime != nil && !validator.IsValidTimeOfDay(*r.RequestedCheckInTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "requested_check_in_time",
			Message: "requested_check_in_time must be a time of day (HH:MM)",
		})
	}
	if r.RequestedCheckOutTime != nil && !validator.IsValidTimeOfDay(*r.RequestedCheckOutTime) {
		errs = append(errs, validator.ValidationError{
			Field:   "requested_check_out_time",
			Message: "requested_check_out_time must be a time of day (HH:MM)",
		})
	}

	if r.RequestedCheckInTime != nil && r.RequestedCheckOutTime != nil {
		in, inErr := timeutil.ParseTimeOfDay(*r.RequestedCheckInTime)
		out, outErr := timeutil.ParseTimeOfDay(*r.RequestedCheckOutTime)
		if inErr == nil && outErr == nil && !out.After(in) {
			errs = append(errs, validator.ValidationError{
				Field:   "requested_check_out_time",
				Message: "requested_check_out_time must be after requested_check_in_time",
			})
		}
	}

	// Required time fields per request type
	switch reqType {
	case TypeMissedCheckIn:
		if r.RequestedCheckInTime == nil {
			errs = append(errs, validator.ValidationError{
				Field:   "requested_check_in_time",
				Message: "requested_check_in_time is required for MISSED_CHECKIN",
			})
		}
	case TypeMissedCheckOut:
		if r.RequestedCheckOutTime == nil {
			errs = append(errs, validator.ValidationError{
				Field:   "requested_check_out_time",
				Message: "requested_check_out_time is required for MISSED_CHECKOUT",
			})
		}
	case TypeWrongTime:
		if r.RequestedCheckInTime == nil && r.RequestedCheckOutTime == nil {
			errs = append(errs, validator.ValidationError{
				Field:   "request_type",
				Message: "WRONG_TIME requires at least one corrected time",
			})
		}
	case TypeFullDayEdit:
		if r.RequestedCheckInTime == nil || r.RequestedCheckOutTime == nil {
			errs = append(errs, validator.ValidationError{
				Field:   "request_type",
				Message: "FULL_DAY_EDIT requires both corrected times",
			})
		}
	}

	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type ReviewRequest struct {
	ID         string  `json:"-"`
	ReviewNote *string `json:"review_note,omitempty"`
}

type Response struct {
	ID                    string       `json:"id"`
	EmployeeID            string       `json:"employee_id"`
	EmployeeName          *string      `json:"employee_name,omitempty"`
	EmployeeCode          *string      `json:"employee_code,omitempty"`
	Date                  string       `json:"date"`
	RequestType           string       `json:"request_type"`
	RequestedCheckInTime  *string      `json:"requested_check_in_time,omitempty"`
	RequestedCheckOutTime *string      `json:"requested_check_out_time,omitempty"`
	Reason                string       `json:"reason"`
	Status                string       `json:"status"`
	ReviewerID            *string      `json:"reviewer_id,omitempty"`
	ReviewNote            *string      `json:"review_note,omitempty"`
	ReviewedAt            *string      `json:"reviewed_at,omitempty"`
	BeforeSnapshot        *DaySnapshot `json:"before_snapshot,omitempty"`
	AfterSnapshot         *DaySnapshot `json:"after_snapshot,omitempty"`
	CreatedAt             string       `json:"created_at"`
	UpdatedAt             string       `json:"updated_at"`
}

type Filter struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	Status     *string `json:"status,omitempty"`
	StartDate  *string `json:"start_date,omitempty"`
	EndDate    *string `json:"end_date,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`
}

func (f *Filter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{Field: "page", Message: "page must be a positive number"})
	}
	if f.Page == 0 {
		f.Page = 1
	}
	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{Field: "limit", Message: "limit must be a positive number"})
	}
	if f.Limit == 0 {
		f.Limit = 20
	}
	if f.Limit > 100 {
		f.Limit = 100
	}

	if f.Status != nil && *f.Status != "" {
		switch Status(*f.Status) {
		case StatusPending, StatusApproved, StatusRejected, StatusCancelled:
		default:
			errs = append(errs, validator.ValidationError{Field: "status", Message: "unknown status"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ListResponse struct {
	TotalCount int64      `json:"total_count"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
	TotalPages int        `json:"total_pages"`
	Requests   []Response `json:"requests"`
}
