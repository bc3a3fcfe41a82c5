package shift

import "context"

type WorkShiftRepository interface {
	GetByID(ctx context.Context, id string, companyID string) (WorkShift, error)

	// GetByName resolves a shift by its display name. Used by the CSV import
	// path where rows carry shift names, not IDs.
	GetByName(ctx context.Context, name string, companyID string) (WorkShift, error)
}
