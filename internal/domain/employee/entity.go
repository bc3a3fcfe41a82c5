package employee

import "time"

// Employee records are owned by the external profile service; only the
// fields the attendance engine consumes are mapped here.
type Employee struct {
	ID               string
	UserID           *string
	CompanyID        string
	Code             string
	FullName         string
	Email            string
	WorkShiftID      *string
	EmploymentStatus string // "active", "inactive"
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

func (e Employee) IsActive() bool {
	return e.EmploymentStatus == "active"
}
