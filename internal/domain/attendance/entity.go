package attendance

import "time"

// Status classifies an attendance day. Closed set; the metrics calculator
// switches over it exhaustively.
type Status string

const (
	StatusPresent Status = "PRESENT"
	StatusLate    Status = "LATE"
	StatusHalfDay Status = "HALF_DAY"
	StatusAbsent  Status = "ABSENT"
	StatusOnLeave Status = "ON_LEAVE"
	StatusWeekend Status = "WEEKEND"
	StatusHoliday Status = "HOLIDAY"
)

// IsValidStatus reports whether s is one of the closed Status values.
func IsValidStatus(s Status) bool {
	switch s {
	case StatusPresent, StatusLate, StatusHalfDay, StatusAbsent,
		StatusOnLeave, StatusWeekend, StatusHoliday:
		return true
	}
	return false
}

// Source records which path wrote the day.
type Source string

const (
	SourceSelf   Source = "SELF"
	SourceAdmin  Source = "ADMIN"
	SourceImport Source = "IMPORT"
)

// LogType is the kind of clock event.
type LogType string

const (
	LogCheckIn  LogType = "CHECK_IN"
	LogCheckOut LogType = "CHECK_OUT"
)

// LogMethod records how the clock event reached the system.
type LogMethod string

const (
	MethodWeb    LogMethod = "WEB"
	MethodAdmin  LogMethod = "ADMIN"
	MethodImport LogMethod = "IMPORT"
)

// Day is the single attendance record per (employee, civil day). Date is
// always the start of the civil day in the organization's fixed offset.
type Day struct {
	ID               string
	EmployeeID       string
	CompanyID        string
	Date             time.Time
	WorkShiftID      *string
	CheckInTime      *time.Time
	CheckOutTime     *time.Time
	TotalWorkMinutes int
	LateMinutes      int
	OvertimeMinutes  int
	Status           Status
	Source           Source
	Notes            *string
	CreatedByID      *string
	UpdatedByID      *string
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// Joined for list/export views
	EmployeeName *string
	EmployeeCode *string
	ShiftName    *string
}

// HasClockTimes reports whether the day carries any recorded clock time.
// Leave approval refuses to overwrite such days.
func (d Day) HasClockTimes() bool {
	return d.CheckInTime != nil || d.CheckOutTime != nil
}

// Log is one append-only clock event row. Never updated or deleted.
type Log struct {
	ID              string
	AttendanceDayID string
	EmployeeID      string
	CompanyID       string
	Type            LogType
	Method          LogMethod
	Timestamp       time.Time
	IPAddress       *string
	UserAgent       *string
	CreatedAt       time.Time
}
