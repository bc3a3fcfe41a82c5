package leave

import (
	"context"
	"time"
)

type LeaveRequestRepository interface {
	Create(ctx context.Context, req LeaveRequest) (LeaveRequest, error)

	GetByID(ctx context.Context, id string, companyID string) (LeaveRequest, error)

	// CheckOverlapping reports whether a PENDING or APPROVED request for the
	// employee intersects [startDate, endDate]. excludeID skips the request
	// being re-validated at approval time.
	CheckOverlapping(ctx context.Context, employeeID string, startDate, endDate time.Time, excludeID string) (bool, error)

	// UpdateReview writes the terminal status and reviewer fields.
	UpdateReview(ctx context.Context, req LeaveRequest) error

	List(ctx context.Context, filter Filter, companyID string) ([]LeaveRequest, int64, error)

	ListByEmployee(ctx context.Context, employeeID string, filter Filter, companyID string) ([]LeaveRequest, int64, error)
}

type LeaveTypeRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (LeaveType, error)
}
