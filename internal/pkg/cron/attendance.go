package cron

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/config"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/attendance"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/employee"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/pkg/timeutil"
)

// AttendanceJobs holds the absence backfill job. The job ticks every minute
// and fires at most once per civil day, after the configured time of day in
// the organization's offset.
type AttendanceJobs struct {
	attendanceSvc attendance.AttendanceService
	employeeRepo  employee.EmployeeRepository
	cfg           config.AttendanceConfig
	loc           *time.Location
	now           func() time.Time

	mu      sync.Mutex
	lastRun time.Time // start of the civil day last backfilled; zero before first run
}

func NewAttendanceJobs(
	attendanceSvc attendance.AttendanceService,
	employeeRepo employee.EmployeeRepository,
	cfg config.AttendanceConfig,
	loc *time.Location,
) *AttendanceJobs {
	return &AttendanceJobs{
		attendanceSvc: attendanceSvc,
		employeeRepo:  employeeRepo,
		cfg:           cfg,
		loc:           loc,
		now:           time.Now,
	}
}

func (j *AttendanceJobs) RegisterJobs(scheduler *Scheduler) {
	scheduler.AddJob("backfill_absences", 1*time.Minute, j.BackfillAbsences)
}

// BackfillAbsences marks employees without any attendance record on the
// current civil day as ABSENT, across all companies with active employees.
// The run-on-start behavior of the scheduler doubles as restart catch-up: a
// process started after the scheduled time runs the backfill immediately.
func (j *AttendanceJobs) BackfillAbsences(ctx context.Context) error {
	now := j.now().In(j.loc)
	today := timeutil.StartOfDay(now, j.loc)

	scheduled, err := timeutil.ParseTimeOfDay(j.cfg.BackfillTime)
	if err != nil {
		return fmt.Errorf("invalid backfill time: %w", err)
	}
	if now.Before(timeutil.Combine(today, scheduled, j.loc)) {
		return nil
	}

	j.mu.Lock()
	if j.lastRun.Equal(today) {
		j.mu.Unlock()
		return nil
	}
	j.mu.Unlock()

	if today.Weekday() == j.cfg.WeeklyOffDay {
		j.markRun(today)
		return nil
	}

	slog.Info("Cron: Starting absence backfill", "date", today.Format("2006-01-02"))

	companyIDs, err := j.employeeRepo.ListActiveCompanyIDs(ctx)
	if err != nil {
		return fmt.Errorf("failed to list companies: %w", err)
	}

	total := 0
	failed := 0
	for _, companyID := range companyIDs {
		inserted, err := j.attendanceSvc.BackfillAbsences(ctx, companyID, today)
		if err != nil {
			slog.Error("Cron: Absence backfill failed for company",
				"company_id", companyID,
				"error", err)
			failed++
			continue
		}
		total += inserted
	}

	// One failed company leaves lastRun unset so the next tick retries all;
	// the per-company inserts are idempotent.
	if failed == 0 {
		j.markRun(today)
	}

	slog.Info("Cron: Absence backfill finished",
		"date", today.Format("2006-01-02"),
		"inserted", total,
		"companies", len(companyIDs),
		"failed_companies", failed)
	return nil
}

func (j *AttendanceJobs) markRun(day time.Time) {
	j.mu.Lock()
	j.lastRun = day
	j.mu.Unlock()
}
