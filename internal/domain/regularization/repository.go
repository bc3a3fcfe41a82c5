package regularization

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, req Regularization) (Regularization, error)

	GetByID(ctx context.Context, id string, companyID string) (Regularization, error)

	// HasPendingForDate enforces the one-active-request-per-(employee, date)
	// rule at creation time.
	HasPendingForDate(ctx context.Context, employeeID string, date time.Time, companyID string) (bool, error)

	// UpdateReview writes the terminal status, reviewer fields and the after
	// snapshot.
	UpdateReview(ctx context.Context, req Regularization) error

	List(ctx context.Context, filter Filter, companyID string) ([]Regularization, int64, error)

	ListByEmployee(ctx context.Context, employeeID string, filter Filter, companyID string) ([]Regularization, int64, error)
}
