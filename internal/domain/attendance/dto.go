package attendance

import (
	"time"

	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/pkg/validator"
)

// ========================================
// ATTENDANCE DTOs
// ========================================

// CheckInRequest clocks the actor (or, for company-level actors, another
// employee) in at the current instant.
type CheckInRequest struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	IPAddress  *string `json:"-"`
	UserAgent  *string `json:"-"`
}

type CheckOutRequest struct {
	EmployeeID *string `json:"employee_id,omitempty"`
	IPAddress  *string `json:"-"`
	UserAgent  *string `json:"-"`
}

// ManualUpsertRequest creates or overwrites a day record for an employee.
// Times are ISO-8601 instants; StatusOverride, when present, always wins
// over the calculator's output.
type ManualUpsertRequest struct {
	EmployeeID     string  `json:"employee_id"`
	Date           string  `json:"date"` // YYYY-MM-DD, organizational civil day
	CheckInTime    *string `json:"check_in_time,omitempty"`
	CheckOutTime   *string `json:"check_out_time,omitempty"`
	WorkShiftID    *string `json:"work_shift_id,omitempty"`
	StatusOverride *string `json:"status_override,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

func (r *ManualUpsertRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}

	if r.CheckInTime != nil {
		if _, err := time.Parse(time.RFC3339, *r.CheckInTime); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "check_in_time",
				Message: "check_in_time must be an ISO-8601 instant",
			})
		}
	}
	if r.CheckOutTime != nil {
		if _, err := time.Parse(time.RFC3339, *r.CheckOutTime); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "check_out_time",
				Message: "check_out_time must be an ISO-8601 instant",
			})
		}
	}

	if r.StatusOverride != nil && !IsValidStatus(Status(*r.StatusOverride)) {
		errs = append(errs, validator.ValidationError{
			Field:   "status_override",
			Message: "unknown attendance status",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateDayRequest edits an existing day record by ID.
type UpdateDayRequest struct {
	ID           string  `json:"-"`
	CheckInTime  *string `json:"check_in_time,omitempty"`
	CheckOutTime *string `json:"check_out_time,omitempty"`
	Status       *string `json:"status,omitempty"`
	Notes        *string `json:"notes,omitempty"`
}

func (r *UpdateDayRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.CheckInTime != nil {
		if _, err := time.Parse(time.RFC3339, *r.CheckInTime); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "check_in_time",
				Message: "check_in_time must be an ISO-8601 instant",
			})
		}
	}
	if r.CheckOutTime != nil {
		if _, err := time.Parse(time.RFC3339, *r.CheckOutTime); err != nil {
			errs = append(errs, validator.ValidationError{
				Field:   "check_out_time",
				Message: "check_out_time must be an ISO-8601 instant",
			})
		}
	}

	if r.Status != nil && !IsValidStatus(Status(*r.Status)) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "unknown attendance status",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type DayResponse struct {
	ID               string  `json:"id"`
	EmployeeID       string  `json:"employee_id"`
	EmployeeName     *string `json:"employee_name,omitempty"`
	EmployeeCode     *string `json:"employee_code,omitempty"`
	Date             string  `json:"date"`
	WorkShiftID      *string `json:"work_shift_id,omitempty"`
	ShiftName        *string `json:"shift_name,omitempty"`
	CheckInTime      *string `json:"check_in_time,omitempty"`
	CheckOutTime     *string `json:"check_out_time,omitempty"`
	TotalWorkMinutes int     `json:"total_work_minutes"`
	LateMinutes      int     `json:"late_minutes"`
	OvertimeMinutes  int     `json:"overtime_minutes"`
	Status           string  `json:"status"`
	Source           string  `json:"source"`
	Notes            *string `json:"notes,omitempty"`
	CreatedAt        string  `json:"created_at"`
	UpdatedAt        string  `json:"updated_at"`
}

type LogResponse struct {
	ID              string  `json:"id"`
	AttendanceDayID string  `json:"attendance_day_id"`
	EmployeeID      string  `json:"employee_id"`
	Type            string  `json:"type"`
	Method          string  `json:"method"`
	Timestamp       string  `json:"timestamp"`
	IPAddress       *string `json:"ip_address,omitempty"`
	UserAgent       *string `json:"user_agent,omitempty"`
}

type DayFilter struct {
	// Search & Filter
	EmployeeID   *string `json:"employee_id,omitempty"`
	EmployeeName *string `json:"employee_name,omitempty"`
	Date         *string `json:"date,omitempty"`       // YYYY-MM-DD
	StartDate    *string `json:"start_date,omitempty"` // YYYY-MM-DD
	EndDate      *string `json:"end_date,omitempty"`   // YYYY-MM-DD
	Status       *string `json:"status,omitempty"`

	// Pagination
	Page  int `json:"page"`
	Limit int `json:"limit"`

	// Sorting
	SortBy    string `json:"sort_by"`    // date, employee_name, check_in_time, check_out_time, status
	SortOrder string `json:"sort_order"` // asc, desc
}

func (f *DayFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.Page < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "page",
			Message: "page must be a positive number",
		})
	}
	if f.Page == 0 {
		f.Page = 1 // Default page
	}

	if f.Limit < 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "limit",
			Message: "limit must be a positive number",
		})
	}
	if f.Limit == 0 {
		f.Limit = 20 // Default limit
	}
	if f.Limit > 100 {
		f.Limit = 100
	}

	for _, d := range []struct {
		name  string
		value *string
	}{
		{"date", f.Date},
		{"start_date", f.StartDate},
		{"end_date", f.EndDate},
	} {
		if d.value != nil && *d.value != "" {
			if _, ok := validator.IsValidDate(*d.value); !ok {
				errs = append(errs, validator.ValidationError{
					Field:   d.name,
					Message: d.name + " must be in YYYY-MM-DD format",
				})
			}
		}
	}

	if f.Status != nil && *f.Status != "" && !IsValidStatus(Status(*f.Status)) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "unknown attendance status",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

type MyDayFilter struct {
	Date      *string `json:"date,omitempty"`
	StartDate *string `json:"start_date,omitempty"`
	EndDate   *string `json:"end_date,omitempty"`
	Status    *string `json:"status,omitempty"`

	Page  int `json:"page"`
	Limit int `json:"limit"`

	SortBy    string `json:"sort_by"`
	SortOrder string `json:"sort_order"`
}

func (f *MyDayFilter) Validate() error {
	df := DayFilter{
		Date:      f.Date,
		StartDate: f.StartDate,
		EndDate:   f.EndDate,
		Status:    f.Status,
		Page:      f.Page,
		Limit:     f.Limit,
	}
	if err := df.Validate(); err != nil {
		return err
	}
	f.Page = df.Page
	f.Limit = df.Limit
	return nil
}

type ListDaysResponse struct {
	TotalCount int64         `json:"total_count"`
	Page       int           `json:"page"`
	Limit      int           `json:"limit"`
	TotalPages int           `json:"total_pages"`
	Showing    string        `json:"showing"`
	Days       []DayResponse `json:"days"`
}

// ImportRowError reports one failed import row. Row numbers are 1-based and
// count the header.
type ImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type ImportSummary struct {
	Total   int              `json:"total"`
	Success int              `json:"success"`
	Failed  int              `json:"failed"`
	Errors  []ImportRowError `json:"errors,omitempty"`
}

// MarkAbsentRequest triggers the absence backfill for one date manually.
type MarkAbsentRequest struct {
	Date string `json:"date"` // YYYY-MM-DD
}

func (r *MarkAbsentRequest) Validate() error {
	var errs validator.ValidationErrors
	if _, ok := validator.IsValidDate(r.Date); !ok {
		errs = append(errs, validator.ValidationError{
			Field:   "date",
			Message: "date must be in YYYY-MM-DD format",
		})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BackfillResult struct {
	Date     string `json:"date"`
	Inserted int    `json:"inserted"`
	Skipped  bool   `json:"skipped"` // weekly off day
}
