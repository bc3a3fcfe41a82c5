package cron

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/config"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/attendance"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/employee"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/pkg/timeutil"
)

type backfillCall struct {
	companyID string
	date      time.Time
}

// fakeAttendanceSvc implements only BackfillAbsences; the embedded nil
// interface panics loudly if anything else gets called.
type fakeAttendanceSvc struct {
	attendance.AttendanceService
	calls []backfillCall
	fail  map[string]error
}

func (f *fakeAttendanceSvc) BackfillAbsences(_ context.Context, companyID string, date time.Time) (int, error) {
	f.calls = append(f.calls, backfillCall{companyID: companyID, date: date})
	if err, ok := f.fail[companyID]; ok {
		return 0, err
	}
	return 2, nil
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	companyIDs []string
}

func (f *fakeEmployeeRepo) ListActiveCompanyIDs(_ context.Context) ([]string, error) {
	return f.companyIDs, nil
}

func newJobs(t *testing.T, svc *fakeAttendanceSvc, at time.Time) *AttendanceJobs {
	t.Helper()
	loc, err := timeutil.ParseOffset("+05:45")
	require.NoError(t, err)

	cfg := config.AttendanceConfig{
		UTCOffset:    "+05:45",
		WeeklyOffDay: time.Saturday,
		BackfillTime: "21:00",
	}

	jobs := NewAttendanceJobs(svc, &fakeEmployeeRepo{companyIDs: []string{"co-1", "co-2"}}, cfg, loc)
	jobs.now = func() time.Time { return at }
	return jobs
}

func TestBackfillSkipsBeforeScheduledTime(t *testing.T) {
	loc, _ := timeutil.ParseOffset("+05:45")
	svc := &fakeAttendanceSvc{}
	jobs := newJobs(t, svc, time.Date(2026, 3, 11, 20, 59, 0, 0, loc))

	require.NoError(t, jobs.BackfillAbsences(context.Background()))
	assert.Empty(t, svc.calls)
	assert.True(t, jobs.lastRun.IsZero())
}

func TestBackfillRunsOncePerDay(t *testing.T) {
	loc, _ := timeutil.ParseOffset("+05:45")
	svc := &fakeAttendanceSvc{}
	jobs := newJobs(t, svc, time.Date(2026, 3, 11, 21, 5, 0, 0, loc))

	require.NoError(t, jobs.BackfillAbsences(context.Background()))
	require.Len(t, svc.calls, 2)
	assert.Equal(t, "co-1", svc.calls[0].companyID)
	assert.Equal(t, "co-2", svc.calls[1].companyID)
	assert.Equal(t, time.Date(2026, 3, 11, 0, 0, 0, 0, loc), svc.calls[0].date)

	// a later tick on the same day does nothing
	jobs.now = func() time.Time { return time.Date(2026, 3, 11, 22, 0, 0, 0, loc) }
	require.NoError(t, jobs.BackfillAbsences(context.Background()))
	assert.Len(t, svc.calls, 2)
}

func TestBackfillRunsAgainNextDay(t *testing.T) {
	loc, _ := timeutil.ParseOffset("+05:45")
	svc := &fakeAttendanceSvc{}
	jobs := newJobs(t, svc, time.Date(2026, 3, 11, 21, 5, 0, 0, loc))

	require.NoError(t, jobs.BackfillAbsences(context.Background()))
	require.Len(t, svc.calls, 2)

	jobs.now = func() time.Time { return time.Date(2026, 3, 12, 21, 5, 0, 0, loc) }
	require.NoError(t, jobs.BackfillAbsences(context.Background()))
	assert.Len(t, svc.calls, 4)
	assert.Equal(t, time.Date(2026, 3, 12, 0, 0, 0, 0, loc), svc.calls[2].date)
}

func TestBackfillSkipsWeeklyOffDay(t *testing.T) {
	loc, _ := timeutil.ParseOffset("+05:45")
	svc := &fakeAttendanceSvc{}
	// 2026-03-14 is a Saturday
	jobs := newJobs(t, svc, time.Date(2026, 3, 14, 21, 5, 0, 0, loc))

	require.NoError(t, jobs.BackfillAbsences(context.Background()))
	assert.Empty(t, svc.calls)
	// the day still counts as handled
	assert.Equal(t, time.Date(2026, 3, 14, 0, 0, 0, 0, loc), jobs.lastRun)
}

func TestBackfillRetriesAfterCompanyFailure(t *testing.T) {
	loc, _ := timeutil.ParseOffset("+05:45")
	svc := &fakeAttendanceSvc{fail: map[string]error{"co-2": errors.New("db unavailable")}}
	jobs := newJobs(t, svc, time.Date(2026, 3, 11, 21, 5, 0, 0, loc))

	require.NoError(t, jobs.BackfillAbsences(context.Background()))
	require.Len(t, svc.calls, 2)
	assert.True(t, jobs.lastRun.IsZero())

	// the failure clears and the next tick covers both companies again
	svc.fail = nil
	require.NoError(t, jobs.BackfillAbsences(context.Background()))
	assert.Len(t, svc.calls, 4)
	assert.False(t, jobs.lastRun.IsZero())
}

func TestSchedulerRunOnce(t *testing.T) {
	loc, _ := timeutil.ParseOffset("+05:45")
	svc := &fakeAttendanceSvc{}
	jobs := newJobs(t, svc, time.Date(2026, 3, 11, 21, 5, 0, 0, loc))

	s := NewScheduler()
	jobs.RegisterJobs(s)
	s.RunOnce(context.Background())

	assert.Len(t, svc.calls, 2)
}
