package attendance

import (
	"context"
	"time"
)

// AttendanceService defines business logic for attendance operations
type AttendanceService interface {
	// CheckIn clocks the actor (or a target employee) in at the current
	// instant, against the resolved shift window.
	CheckIn(ctx context.Context, req CheckInRequest) (DayResponse, error)

	// CheckOut closes the open day and computes full metrics.
	CheckOut(ctx context.Context, req CheckOutRequest) (DayResponse, error)

	// GetMyAttendance retrieves day records for the authenticated employee.
	GetMyAttendance(ctx context.Context, filter MyDayFilter) (ListDaysResponse, error)

	// ListAttendance retrieves day records with filters (manager/owner).
	ListAttendance(ctx context.Context, filter DayFilter) (ListDaysResponse, error)

	GetDay(ctx context.Context, id string) (DayResponse, error)

	// ManualUpsert creates or overwrites a day record from admin-supplied
	// times, recomputing metrics unless a status override is given.
	ManualUpsert(ctx context.Context, req ManualUpsertRequest) (DayResponse, error)

	// UpdateDay edits an existing record by ID (manager/owner).
	UpdateDay(ctx context.Context, req UpdateDayRequest) (DayResponse, error)

	// Export renders the filtered records as delimited text with the fixed
	// column contract.
	Export(ctx context.Context, filter DayFilter) ([]byte, error)

	// Import processes a tabular payload row by row; rows fail independently.
	Import(ctx context.Context, payload []byte) (ImportSummary, error)

	// MarkAbsent runs the absence backfill for the caller's company and date.
	MarkAbsent(ctx context.Context, req MarkAbsentRequest) (BackfillResult, error)

	// BackfillAbsences inserts ABSENT records for active employees of the
	// company lacking a record on date. Idempotent. Used by the scheduler.
	BackfillAbsences(ctx context.Context, companyID string, date time.Time) (int, error)

	ListDayLogs(ctx context.Context, dayID string) ([]LogResponse, error)
}
