package regularization

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
	jwxjwt "github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/config"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/attendance"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/company"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/employee"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/regularization"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/shift"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/user"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/pkg/database"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/pkg/timeutil"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/pkg/validator"
)

func authContext(t *testing.T, claims map[string]interface{}) context.Context {
	t.Helper()
	b := jwxjwt.NewBuilder()
	for k, v := range claims {
		b = b.Claim(k, v)
	}
	tok, err := b.Build()
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), tok, nil)
}

func strPtr(s string) *string { return &s }

type fakeRegRepo struct {
	requests map[string]*regularization.Regularization
	nextID   int
}

func (f *fakeRegRepo) Create(_ context.Context, req regularization.Regularization) (regularization.Regularization, error) {
	f.nextID++
	req.ID = fmt.Sprintf("reg-%d", f.nextID)
	copied := req
	f.requests[req.ID] = &copied
	return req, nil
}

func (f *fakeRegRepo) GetByID(_ context.Context, id string, companyID string) (regularization.Regularization, error) {
	r, ok := f.requests[id]
	if !ok || r.CompanyID != companyID {
		return regularization.Regularization{}, regularization.ErrRequestNotFound
	}
	return *r, nil
}

func (f *fakeRegRepo) HasPendingForDate(_ context.Context, employeeID string, date time.Time, companyID string) (bool, error) {
	for _, r := range f.requests {
		if r.EmployeeID == employeeID && r.CompanyID == companyID &&
			r.Date.Equal(date) && r.Status == regularization.StatusPending {
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeRegRepo) UpdateReview(_ context.Context, req regularization.Regularization) error {
	r, ok := f.requests[req.ID]
	if !ok {
		return regularization.ErrRequestNotFound
	}
	*r = req
	return nil
}

func (f *fakeRegRepo) List(_ context.Context, _ regularization.Filter, companyID string) ([]regularization.Regularization, int64, error) {
	var out []regularization.Regularization
	for _, r := range f.requests {
		if r.CompanyID == companyID {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRegRepo) ListByEmployee(_ context.Context, employeeID string, _ regularization.Filter, companyID string) ([]regularization.Regularization, int64, error) {
	var out []regularization.Regularization
	for _, r := range f.requests {
		if r.CompanyID == companyID && r.EmployeeID == employeeID {
			out = append(out, *r)
		}
	}
	return out, int64(len(out)), nil
}

// fakeDayRepo implements only the methods this service touches; the embedded
// nil interface panics loudly if anything else gets called.
type fakeDayRepo struct {
	attendance.DayRepository
	days map[string]*attendance.Day
}

func dayKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

func (f *fakeDayRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time, _ string) (*attendance.Day, error) {
	if d, ok := f.days[dayKey(employeeID, date)]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeDayRepo) Upsert(_ context.Context, day attendance.Day) (attendance.Day, error) {
	key := dayKey(day.EmployeeID, day.Date)
	if existing, ok := f.days[key]; ok {
		day.ID = existing.ID
	} else {
		day.ID = "day-" + key
	}
	copied := day
	f.days[key] = &copied
	return day, nil
}

type fakeEmployeeRepo struct {
	employee.EmployeeRepository
	employees []employee.Employee
}

func (f *fakeEmployeeRepo) GetByID(_ context.Context, id string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) GetByUserID(_ context.Context, userID string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.UserID != nil && *e.UserID == userID {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

type fakeShiftRepo struct {
	shift.WorkShiftRepository
	shifts []shift.WorkShift
}

func (f *fakeShiftRepo) GetByID(_ context.Context, id string, companyID string) (shift.WorkShift, error) {
	for _, s := range f.shifts {
		if s.ID == id && s.CompanyID == companyID {
			return s, nil
		}
	}
	return shift.WorkShift{}, shift.ErrShiftNotFound
}

type fakeCompanyRepo struct {
	company.CompanyRepository
	companies []company.Company
}

func (f *fakeCompanyRepo) GetByID(_ context.Context, id string) (company.Company, error) {
	for _, c := range f.companies {
		if c.ID == id {
			return c, nil
		}
	}
	return company.Company{}, company.ErrCompanyNotFound
}

type regFixture struct {
	svc   *RegularizationServiceImpl
	reqs  *fakeRegRepo
	days  *fakeDayRepo
	loc   *time.Location
	today time.Time
}

func newRegFixture(t *testing.T) *regFixture {
	t.Helper()
	loc, err := timeutil.ParseOffset("+05:45")
	require.NoError(t, err)

	tod := func(s string) time.Time {
		v, err := timeutil.ParseTimeOfDay(s)
		require.NoError(t, err)
		return v
	}

	cfg := config.AttendanceConfig{
		UTCOffset:             "+05:45",
		GraceMinutes:          15,
		HalfDayMinutes:        240,
		EarlyWindowMinutes:    30,
		WeeklyOffDay:          time.Saturday,
		RegularizationMaxDays: 30,
	}

	reqs := &fakeRegRepo{requests: map[string]*regularization.Regularization{}}
	days := &fakeDayRepo{days: map[string]*attendance.Day{}}
	employees := &fakeEmployeeRepo{employees: []employee.Employee{
		{ID: "emp-1", UserID: strPtr("user-1"), CompanyID: "co-1", Code: "E001", FullName: "Asha Rai", WorkShiftID: strPtr("shift-day"), EmploymentStatus: "active"},
		{ID: "emp-2", UserID: strPtr("user-2"), CompanyID: "co-1", Code: "E002", FullName: "Bikash Thapa", WorkShiftID: strPtr("shift-day"), EmploymentStatus: "active"},
		{ID: "emp-night", UserID: strPtr("user-3"), CompanyID: "co-1", Code: "E003", FullName: "Chandra KC", WorkShiftID: strPtr("shift-night"), EmploymentStatus: "active"},
	}}
	shifts := &fakeShiftRepo{shifts: []shift.WorkShift{
		{ID: "shift-day", CompanyID: "co-1", Name: "Day", StartTime: tod("09:00"), EndTime: tod("17:00"), IsActive: true},
		{ID: "shift-night", CompanyID: "co-1", Name: "Night", StartTime: tod("22:00"), EndTime: tod("06:00"), IsActive: true},
	}}
	companies := &fakeCompanyRepo{companies: []company.Company{
		{ID: "co-1", Name: "Acme", Status: "active"},
	}}

	svc := NewRegularizationService(nil, cfg, loc, reqs, days, employees, shifts, companies).(*RegularizationServiceImpl)
	svc.runTx = func(_ context.Context, _ *database.DB, fn func(tx pgx.Tx) error) error {
		return fn(nil)
	}

	return &regFixture{
		svc:   svc,
		reqs:  reqs,
		days:  days,
		loc:   loc,
		today: timeutil.StartOfDay(time.Now(), loc),
	}
}

func (f *regFixture) dateStr(daysAgo int) string {
	return f.today.AddDate(0, 0, -daysAgo).Format("2006-01-02")
}

func employeeClaims() map[string]interface{} {
	return map[string]interface{}{
		"user_id": "user-1", "employee_id": "emp-1",
		"company_id": "co-1", "role": "employee", "type": "access",
	}
}

func managerClaims() map[string]interface{} {
	return map[string]interface{}{
		"user_id": "user-2", "employee_id": "emp-2",
		"company_id": "co-1", "role": "manager", "type": "access",
	}
}

func TestCreateRequest(t *testing.T) {
	f := newRegFixture(t)
	ctx := authContext(t, employeeClaims())

	got, err := f.svc.Create(ctx, regularization.CreateRequest{
		Date:                  f.dateStr(1),
		RequestType:           string(regularization.TypeMissedCheckOut),
		RequestedCheckOutTime: strPtr("17:30"),
		Reason:                "forgot to clock out",
	})
	require.NoError(t, err)

	assert.Equal(t, "emp-1", got.EmployeeID)
	assert.Equal(t, string(regularization.StatusPending), got.Status)
	require.NotNil(t, got.BeforeSnapshot)
	assert.False(t, got.BeforeSnapshot.Exists)
	require.NotNil(t, got.RequestedCheckOutTime)
	assert.Equal(t, "17:30", *got.RequestedCheckOutTime)
}

func TestCreateSnapshotsExistingDay(t *testing.T) {
	f := newRegFixture(t)
	ctx := authContext(t, employeeClaims())

	date := f.today.AddDate(0, 0, -1)
	checkIn := timeutil.Combine(date, mustTod(t, "09:05"), f.loc)
	_, err := f.days.Upsert(ctx, attendance.Day{
		EmployeeID: "emp-1", CompanyID: "co-1", Date: date,
		WorkShiftID: strPtr("shift-day"), CheckInTime: &checkIn,
		Status: attendance.StatusPresent, Source: attendance.SourceSelf,
	})
	require.NoError(t, err)

	got, err := f.svc.Create(ctx, regularization.CreateRequest{
		Date:                  f.dateStr(1),
		RequestType:           string(regularization.TypeMissedCheckOut),
		RequestedCheckOutTime: strPtr("17:30"),
		Reason:                "forgot to clock out",
	})
	require.NoError(t, err)

	require.NotNil(t, got.BeforeSnapshot)
	assert.True(t, got.BeforeSnapshot.Exists)
	require.NotNil(t, got.BeforeSnapshot.CheckInTime)
	assert.Nil(t, got.BeforeSnapshot.CheckOutTime)
}

func TestCreateDuplicatePending(t *testing.T) {
	f := newRegFixture(t)
	ctx := authContext(t, employeeClaims())

	req := regularization.CreateRequest{
		Date:                  f.dateStr(1),
		RequestType:           string(regularization.TypeMissedCheckOut),
		RequestedCheckOutTime: strPtr("17:30"),
		Reason:                "forgot to clock out",
	}
	_, err := f.svc.Create(ctx, req)
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, regularization.ErrDuplicatePending)
}

func TestCreateFutureDate(t *testing.T) {
	f := newRegFixture(t)
	ctx := authContext(t, employeeClaims())

	_, err := f.svc.Create(ctx, regularization.CreateRequest{
		Date:                  f.dateStr(-1),
		RequestType:           string(regularization.TypeMissedCheckOut),
		RequestedCheckOutTime: strPtr("17:30"),
		Reason:                "forgot to clock out",
	})
	assert.ErrorIs(t, err, regularization.ErrDateInFuture)
}

func TestCreateDateTooOld(t *testing.T) {
	f := newRegFixture(t)
	ctx := authContext(t, employeeClaims())

	_, err := f.svc.Create(ctx, regularization.CreateRequest{
		Date:                  f.dateStr(31),
		RequestType:           string(regularization.TypeMissedCheckOut),
		RequestedCheckOutTime: strPtr("17:30"),
		Reason:                "forgot to clock out",
	})
	assert.ErrorIs(t, err, regularization.ErrDateTooOld)
}

func TestCreateCheckOutNotAfterCheckIn(t *testing.T) {
	f := newRegFixture(t)
	ctx := authContext(t, employeeClaims())

	for _, out := range []string{"09:00", "17:00"} {
		_, err := f.svc.Create(ctx, regularization.CreateRequest{
			Date:                  f.dateStr(1),
			RequestType:           string(regularization.TypeFullDayEdit),
			RequestedCheckInTime:  strPtr("17:00"),
			RequestedCheckOutTime: strPtr(out),
			Reason:                "swapped the times",
		})
		require.Error(t, err)

		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "requested_check_out_time", verrs[0].Field)
	}
}

func TestApproveRequiresManager(t *testing.T) {
	f := newRegFixture(t)
	ctx := authContext(t, employeeClaims())

	created, err := f.svc.Create(ctx, regularization.CreateRequest{
		Date:                  f.dateStr(1),
		RequestType:           string(regularization.TypeMissedCheckOut),
		RequestedCheckOutTime: strPtr("17:30"),
		Reason:                "forgot to clock out",
	})
	require.NoError(t, err)

	_, err = f.svc.Approve(ctx, regularization.ReviewRequest{ID: created.ID})
	assert.ErrorIs(t, err, user.ErrManagerAccessRequired)
}

func TestApproveAppliesRequestedTimes(t *testing.T) {
	f := newRegFixture(t)
	empCtx := authContext(t, employeeClaims())

	date := f.today.AddDate(0, 0, -1)
	checkIn := timeutil.Combine(date, mustTod(t, "09:05"), f.loc)
	_, err := f.days.Upsert(empCtx, attendance.Day{
		EmployeeID: "emp-1", CompanyID: "co-1", Date: date,
		WorkShiftID: strPtr("shift-day"), CheckInTime: &checkIn,
		Status: attendance.StatusPresent, Source: attendance.SourceSelf,
	})
	require.NoError(t, err)

	created, err := f.svc.Create(empCtx, regularization.CreateRequest{
		Date:                  f.dateStr(1),
		RequestType:           string(regularization.TypeMissedCheckOut),
		RequestedCheckOutTime: strPtr("17:30"),
		Reason:                "forgot to clock out",
	})
	require.NoError(t, err)

	mgrCtx := authContext(t, managerClaims())
	got, err := f.svc.Approve(mgrCtx, regularization.ReviewRequest{ID: created.ID, ReviewNote: strPtr("verified")})
	require.NoError(t, err)

	assert.Equal(t, string(regularization.StatusApproved), got.Status)
	require.NotNil(t, got.ReviewedAt)
	require.NotNil(t, got.AfterSnapshot)
	assert.True(t, got.AfterSnapshot.Exists)
	require.NotNil(t, got.AfterSnapshot.CheckOutTime)
	assert.Equal(t, 505, got.AfterSnapshot.TotalWorkMinutes)
	assert.Equal(t, 25, got.AfterSnapshot.OvertimeMinutes)

	// before snapshot stays frozen at creation state
	require.NotNil(t, got.BeforeSnapshot)
	assert.Nil(t, got.BeforeSnapshot.CheckOutTime)

	day := f.days.days[dayKey("emp-1", date)]
	require.NotNil(t, day)
	require.NotNil(t, day.CheckOutTime)
	assert.Equal(t, 505, day.TotalWorkMinutes)
	assert.Equal(t, attendance.SourceAdmin, day.Source)
}

func TestApproveOvernightCheckOut(t *testing.T) {
	f := newRegFixture(t)
	empCtx := authContext(t, map[string]interface{}{
		"user_id": "user-3", "employee_id": "emp-night",
		"company_id": "co-1", "role": "employee", "type": "access",
	})

	date := f.today.AddDate(0, 0, -1)
	checkIn := timeutil.Combine(date, mustTod(t, "22:00"), f.loc)
	_, err := f.days.Upsert(empCtx, attendance.Day{
		EmployeeID: "emp-night", CompanyID: "co-1", Date: date,
		WorkShiftID: strPtr("shift-night"), CheckInTime: &checkIn,
		Status: attendance.StatusPresent, Source: attendance.SourceSelf,
	})
	require.NoError(t, err)

	created, err := f.svc.Create(empCtx, regularization.CreateRequest{
		Date:                  f.dateStr(1),
		RequestType:           string(regularization.TypeMissedCheckOut),
		RequestedCheckOutTime: strPtr("06:00"),
		Reason:                "left before clocking out",
	})
	require.NoError(t, err)

	mgrCtx := authContext(t, managerClaims())
	got, err := f.svc.Approve(mgrCtx, regularization.ReviewRequest{ID: created.ID})
	require.NoError(t, err)

	// A corrected check-out earlier than the check-in crosses midnight.
	day := f.days.days[dayKey("emp-night", date)]
	require.NotNil(t, day)
	require.NotNil(t, day.CheckOutTime)
	assert.True(t, day.CheckOutTime.After(*day.CheckInTime))
	assert.Equal(t, 480, got.AfterSnapshot.TotalWorkMinutes)
	assert.Equal(t, string(attendance.StatusPresent), string(got.AfterSnapshot.Status))
}

func TestApproveAlreadyProcessed(t *testing.T) {
	f := newRegFixture(t)
	empCtx := authContext(t, employeeClaims())

	created, err := f.svc.Create(empCtx, regularization.CreateRequest{
		Date:                  f.dateStr(1),
		RequestType:           string(regularization.TypeMissedCheckOut),
		RequestedCheckOutTime: strPtr("17:30"),
		Reason:                "forgot to clock out",
	})
	require.NoError(t, err)

	mgrCtx := authContext(t, managerClaims())
	_, err = f.svc.Approve(mgrCtx, regularization.ReviewRequest{ID: created.ID})
	require.NoError(t, err)

	_, err = f.svc.Approve(mgrCtx, regularization.ReviewRequest{ID: created.ID})
	assert.ErrorIs(t, err, regularization.ErrAlreadyProcessed)
}

func TestRejectLeavesDayUntouched(t *testing.T) {
	f := newRegFixture(t)
	empCtx := authContext(t, employeeClaims())

	created, err := f.svc.Create(empCtx, regularization.CreateRequest{
		Date:                  f.dateStr(1),
		RequestType:           string(regularization.TypeMissedCheckOut),
		RequestedCheckOutTime: strPtr("17:30"),
		Reason:                "forgot to clock out",
	})
	require.NoError(t, err)

	mgrCtx := authContext(t, managerClaims())
	got, err := f.svc.Reject(mgrCtx, regularization.ReviewRequest{ID: created.ID, ReviewNote: strPtr("no evidence")})
	require.NoError(t, err)

	assert.Equal(t, string(regularization.StatusRejected), got.Status)
	assert.Empty(t, f.days.days)
}

func TestCancel(t *testing.T) {
	f := newRegFixture(t)
	ctx := authContext(t, employeeClaims())

	req := regularization.CreateRequest{
		Date:                  f.dateStr(1),
		RequestType:           string(regularization.TypeMissedCheckOut),
		RequestedCheckOutTime: strPtr("17:30"),
		Reason:                "forgot to clock out",
	}
	created, err := f.svc.Create(ctx, req)
	require.NoError(t, err)

	got, err := f.svc.Cancel(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, string(regularization.StatusCancelled), got.Status)

	// cancelling frees the date for a fresh request
	_, err = f.svc.Create(ctx, req)
	assert.NoError(t, err)
}

func TestCancelNotOwner(t *testing.T) {
	f := newRegFixture(t)
	ctx := authContext(t, employeeClaims())

	created, err := f.svc.Create(ctx, regularization.CreateRequest{
		Date:                  f.dateStr(1),
		RequestType:           string(regularization.TypeMissedCheckOut),
		RequestedCheckOutTime: strPtr("17:30"),
		Reason:                "forgot to clock out",
	})
	require.NoError(t, err)

	otherCtx := authContext(t, managerClaims())
	_, err = f.svc.Cancel(otherCtx, created.ID)
	assert.ErrorIs(t, err, regularization.ErrNotRequestOwner)
}

func TestGetScopedToOwnerForEmployees(t *testing.T) {
	f := newRegFixture(t)
	ctx := authContext(t, employeeClaims())

	created, err := f.svc.Create(ctx, regularization.CreateRequest{
		Date:                  f.dateStr(1),
		RequestType:           string(regularization.TypeMissedCheckOut),
		RequestedCheckOutTime: strPtr("17:30"),
		Reason:                "forgot to clock out",
	})
	require.NoError(t, err)

	_, err = f.svc.Get(ctx, created.ID)
	require.NoError(t, err)

	otherCtx := authContext(t, map[string]interface{}{
		"user_id": "user-3", "employee_id": "emp-night",
		"company_id": "co-1", "role": "employee", "type": "access",
	})
	_, err = f.svc.Get(otherCtx, created.ID)
	assert.ErrorIs(t, err, regularization.ErrRequestNotFound)
}

func mustTod(t *testing.T, s string) time.Time {
	t.Helper()
	v, err := timeutil.ParseTimeOfDay(s)
	require.NoError(t, err)
	return v
}
