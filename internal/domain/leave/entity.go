package leave

import "time"

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusApproved  Status = "APPROVED"
	StatusRejected  Status = "REJECTED"
	StatusCancelled Status = "CANCELLED"
)

// LeaveType is owned by the external leave-type CRUD; consumed read-only.
type LeaveType struct {
	ID        string
	CompanyID string
	Name      string
	IsActive  bool
}

// LeaveRequest covers an inclusive [StartDate, EndDate] range of civil days.
// TotalDays counts the days in range that are not the weekly off day.
type LeaveRequest struct {
	ID          string
	EmployeeID  string
	CompanyID   string
	LeaveTypeID string
	StartDate   time.Time
	EndDate     time.Time
	TotalDays   int
	Reason      string
	Status      Status
	ReviewerID  *string
	ReviewNote  *string
	ReviewedAt  *time.Time
	CreatedAt   time.Time
	UpdatedAt   time.Time

	// Joined for list views
	EmployeeName  *string
	LeaveTypeName *string
}
