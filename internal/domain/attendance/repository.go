package attendance

import (
	"context"
	"time"
)

// DayRepository defines data access for attendance day records. The
// (employee_id, date) uniqueness constraint is the only concurrency guard;
// methods that race on it document how they resolve.
type DayRepository interface {
	// Create inserts a new day record. Returns ErrDuplicateDay when a record
	// for (employee, date) already exists.
	Create(ctx context.Context, day Day) (Day, error)

	// ClaimCheckIn sets the check-in fields on an existing record only if no
	// check-in is recorded yet. Returns ErrAlreadyCheckedIn when the guard
	// fails, so concurrent check-ins resolve to exactly one winner.
	ClaimCheckIn(ctx context.Context, day Day) (Day, error)

	// ClaimCheckOut sets the check-out fields only if the record has a
	// check-in and no check-out yet. Returns ErrAlreadyCheckedOut when the
	// guard fails.
	ClaimCheckOut(ctx context.Context, day Day) (Day, error)

	// Upsert creates or overwrites the record keyed on (employee_id, date) in
	// one atomic statement. Used by manual edits, import, regularization
	// approval and leave approval.
	Upsert(ctx context.Context, day Day) (Day, error)

	GetByID(ctx context.Context, id string, companyID string) (Day, error)

	// GetByEmployeeAndDate returns nil when no record exists.
	GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*Day, error)

	// GetOpenDay returns the employee's latest record with a check-in and no
	// check-out. Returns ErrNotCheckedIn when none exists.
	GetOpenDay(ctx context.Context, employeeID string, companyID string) (Day, error)

	Update(ctx context.Context, day Day) error

	List(ctx context.Context, filter DayFilter, companyID string) ([]Day, int64, error)

	ListByEmployee(ctx context.Context, employeeID string, filter MyDayFilter, companyID string) ([]Day, int64, error)

	// ListForExport applies the filter without pagination.
	ListForExport(ctx context.Context, filter DayFilter, companyID string) ([]Day, error)

	// ListEmployeeIDsWithDay returns the set of employee IDs that already
	// have a record on date. The backfill excludes them.
	ListEmployeeIDsWithDay(ctx context.Context, companyID string, date time.Time) (map[string]struct{}, error)

	// FindDaysWithClockTimes returns, among the given dates, those where the
	// employee has a record with a check-in or check-out set. Leave approval
	// treats any hit as a conflict.
	FindDaysWithClockTimes(ctx context.Context, employeeID string, dates []time.Time, companyID string) ([]time.Time, error)

	// BulkCreateAbsences inserts the given records in one batch, skipping
	// (employee, date) pairs that already exist.
	BulkCreateAbsences(ctx context.Context, days []Day) error
}

// LogRepository is append-only.
type LogRepository interface {
	Append(ctx context.Context, log Log) (Log, error)

	ListByDay(ctx context.Context, dayID string, companyID string) ([]Log, error)
}
