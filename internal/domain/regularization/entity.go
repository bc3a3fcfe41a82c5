package regularization

import (
	"time"

	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/attendance"
)

// RequestType says which part of the day the employee is correcting.
type RequestType string

const (
	TypeMissedCheckIn  RequestType = "MISSED_CHECKIN"
	TypeMissedCheckOut RequestType = "MISSED_CHECKOUT"
	TypeWrongTime      RequestType = "WRONG_TIME"
	TypeFullDayEdit    RequestType = "FULL_DAY_EDIT"
)

func IsValidRequestType(t RequestType) bool {
	switch t {
	case TypeMissedCheckIn, TypeMissedCheckOut, TypeWrongTime, TypeFullDayEdit:
		return true
	}
	return false
}

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

// DaySnapshot freezes the attendance day fields a regularization touches.
// Stored as JSONB on the request row. Exists is false when the day had no
// record at snapshot time.
type DaySnapshot struct {
	Exists           bool              `json:"exists"`
	CheckInTime      *time.Time        `json:"check_in_time,omitempty"`
	CheckOutTime     *time.Time        `json:"check_out_time,omitempty"`
	TotalWorkMinutes int               `json:"total_work_minutes"`
	LateMinutes      int               `json:"late_minutes"`
	OvertimeMinutes  int               `json:"overtime_minutes"`
	Status           attendance.Status `json:"status,omitempty"`
}

// SnapshotOf captures the relevant fields of an existing day record.
func SnapshotOf(day *attendance.Day) DaySnapshot {
	if day == nil {
		return DaySnapshot{Exists: false}
	}
	return DaySnapshot{
		Exists:           true,
		CheckInTime:      day.CheckInTime,
		CheckOutTime:     day.CheckOutTime,
		TotalWorkMinutes: day.TotalWorkMinutes,
		LateMinutes:      day.LateMinutes,
		OvertimeMinutes:  day.OvertimeMinutes,
		Status:           day.Status,
	}
}

// Regularization is an employee-submitted correction to one day's recorded
// times. Requested times are wall-clock times of day applied against Date.
type Regularization struct {
	ID                    string
	EmployeeID            string
	CompanyID             string
	Date                  time.Time
	RequestType           RequestType
	RequestedCheckInTime  *time.Time
	RequestedCheckOutTime *time.Time
	Reason                string
	Status                Status
	ReviewerID            *string
	ReviewNote            *string
	ReviewedAt            *time.Time
	BeforeSnapshot        *DaySnapshot
	AfterSnapshot         *DaySnapshot
	CreatedByID           *string
	CreatedAt             time.Time
	UpdatedAt             time.Time

	// Joined for list views
	EmployeeName *string
	EmployeeCode *string
}
