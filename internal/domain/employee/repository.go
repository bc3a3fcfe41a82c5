package employee

import "context"

// EmployeeRepository is the read side of the external employee service.
// All methods include companyID where cross-company access is possible.
type EmployeeRepository interface {
	GetByID(ctx context.Context, id string) (Employee, error)

	GetByUserID(ctx context.Context, userID string) (Employee, error)

	GetByCode(ctx context.Context, code string, companyID string) (Employee, error)

	GetByEmail(ctx context.Context, email string, companyID string) (Employee, error)

	GetActiveByCompanyID(ctx context.Context, companyID string) ([]Employee, error)

	// ListActiveCompanyIDs returns distinct company IDs having at least one
	// active employee. Drives the backfill job's per-company loop.
	ListActiveCompanyIDs(ctx context.Context) ([]string, error)
}
