package attendance

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/go-chi/jwtauth/v5"
	jwxjwt "github.com/lestrrat-go/jwx/v2/jwt"
	"github.com/stretchr/testify/require"

	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/attendance"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/company"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/employee"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/shift"
)

// authContext builds a request context carrying the given JWT claims, the
// same shape the token verifier middleware produces.
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

func dayKey(employeeID string, date time.Time) string {
	return employeeID + "|" + date.Format("2006-01-02")
}

type fakeDayRepo struct {
	days   map[string]*attendance.Day
	nextID int
}

func newFakeDayRepo() *fakeDayRepo {
	return &fakeDayRepo{days: map[string]*attendance.Day{}}
}

func (f *fakeDayRepo) Create(_ context.Context, day attendance.Day) (attendance.Day, error) {
	key := dayKey(day.EmployeeID, day.Date)
	if _, ok := f.days[key]; ok {
		return attendance.Day{}, attendance.ErrDuplicateDay
	}
	f.nextID++
	day.ID = fmt.Sprintf("day-%d", f.nextID)
	f.days[key] = &day
	return day, nil
}

func (f *fakeDayRepo) ClaimCheckIn(_ context.Context, day attendance.Day) (attendance.Day, error) {
	existing := f.byID(day.ID)
	if existing == nil || existing.CheckInTime != nil {
		return attendance.Day{}, attendance.ErrAlreadyCheckedIn
	}
	existing.CheckInTime = day.CheckInTime
	existing.LateMinutes = day.LateMinutes
	existing.Status = day.Status
	existing.Source = day.Source
	if day.WorkShiftID != nil {
		existing.WorkShiftID = day.WorkShiftID
	}
	existing.UpdatedByID = day.UpdatedByID
	return *existing, nil
}

func (f *fakeDayRepo) ClaimCheckOut(_ context.Context, day attendance.Day) (attendance.Day, error) {
	existing := f.byID(day.ID)
	if existing == nil || existing.CheckInTime == nil || existing.CheckOutTime != nil {
		return attendance.Day{}, attendance.ErrAlreadyCheckedOut
	}
	existing.CheckOutTime = day.CheckOutTime
	existing.TotalWorkMinutes = day.TotalWorkMinutes
	existing.LateMinutes = day.LateMinutes
	existing.OvertimeMinutes = day.OvertimeMinutes
	existing.Status = day.Status
	existing.UpdatedByID = day.UpdatedByID
	return *existing, nil
}

func (f *fakeDayRepo) Upsert(_ context.Context, day attendance.Day) (attendance.Day, error) {
	key := dayKey(day.EmployeeID, day.Date)
	if existing, ok := f.days[key]; ok {
		day.ID = existing.ID
	} else {
		f.nextID++
		day.ID = fmt.Sprintf("day-%d", f.nextID)
	}
	f.days[key] = &day
	return day, nil
}

func (f *fakeDayRepo) GetByID(_ context.Context, id string, companyID string) (attendance.Day, error) {
	d := f.byID(id)
	if d == nil || d.CompanyID != companyID {
		return attendance.Day{}, attendance.ErrDayNotFound
	}
	return *d, nil
}

func (f *fakeDayRepo) GetByEmployeeAndDate(_ context.Context, employeeID string, date time.Time, _ string) (*attendance.Day, error) {
	if d, ok := f.days[dayKey(employeeID, date)]; ok {
		copied := *d
		return &copied, nil
	}
	return nil, nil
}

func (f *fakeDayRepo) GetOpenDay(_ context.Context, employeeID string, _ string) (attendance.Day, error) {
	var open *attendance.Day
	for _, d := range f.days {
		if d.EmployeeID != employeeID || d.CheckInTime == nil || d.CheckOutTime != nil {
			continue
		}
		if open == nil || d.CheckInTime.After(*open.CheckInTime) {
			open = d
		}
	}
	if open == nil {
		return attendance.Day{}, attendance.ErrNotCheckedIn
	}
	return *open, nil
}

func (f *fakeDayRepo) Update(_ context.Context, day attendance.Day) error {
	existing := f.byID(day.ID)
	if existing == nil {
		return attendance.ErrDayNotFound
	}
	day.Date = existing.Date
	*existing = day
	return nil
}

func (f *fakeDayRepo) List(_ context.Context, filter attendance.DayFilter, companyID string) ([]attendance.Day, int64, error) {
	var days []attendance.Day
	for _, d := range f.days {
		if d.CompanyID != companyID {
			continue
		}
		if filter.EmployeeID != nil && *filter.EmployeeID != "" && d.EmployeeID != *filter.EmployeeID {
			continue
		}
		days = append(days, *d)
	}
	return days, int64(len(days)), nil
}

func (f *fakeDayRepo) ListByEmployee(ctx context.Context, employeeID string, filter attendance.MyDayFilter, companyID string) ([]attendance.Day, int64, error) {
	return f.List(ctx, attendance.DayFilter{EmployeeID: &employeeID}, companyID)
}

func (f *fakeDayRepo) ListForExport(ctx context.Context, filter attendance.DayFilter, companyID string) ([]attendance.Day, error) {
	days, _, err := f.List(ctx, filter, companyID)
	return days, err
}

func (f *fakeDayRepo) ListEmployeeIDsWithDay(_ context.Context, companyID string, date time.Time) (map[string]struct{}, error) {
	covered := map[string]struct{}{}
	for _, d := range f.days {
		if d.CompanyID == companyID && d.Date.Equal(date) {
			covered[d.EmployeeID] = struct{}{}
		}
	}
	return covered, nil
}

func (f *fakeDayRepo) FindDaysWithClockTimes(_ context.Context, employeeID string, dates []time.Time, _ string) ([]time.Time, error) {
	var conflicts []time.Time
	for _, date := range dates {
		if d, ok := f.days[dayKey(employeeID, date)]; ok && d.HasClockTimes() {
			conflicts = append(conflicts, date)
		}
	}
	return conflicts, nil
}

func (f *fakeDayRepo) BulkCreateAbsences(_ context.Context, days []attendance.Day) error {
	for _, day := range days {
		key := dayKey(day.EmployeeID, day.Date)
		if _, ok := f.days[key]; ok {
			continue
		}
		f.nextID++
		day.ID = fmt.Sprintf("day-%d", f.nextID)
		copied := day
		f.days[key] = &copied
	}
	return nil
}

func (f *fakeDayRepo) byID(id string) *attendance.Day {
	for _, d := range f.days {
		if d.ID == id {
			return d
		}
	}
	return nil
}

type fakeLogRepo struct {
	logs []attendance.Log
}

func (f *fakeLogRepo) Append(_ context.Context, log attendance.Log) (attendance.Log, error) {
	log.ID = fmt.Sprintf("log-%d", len(f.logs)+1)
	f.logs = append(f.logs, log)
	return log, nil
}

func (f *fakeLogRepo) ListByDay(_ context.Context, dayID string, companyID string) ([]attendance.Log, error) {
	var out []attendance.Log
	for _, l := range f.logs {
		if l.AttendanceDayID == dayID && l.CompanyID == companyID {
			out = append(out, l)
		}
	}
	return out, nil
}

type fakeEmployeeRepo struct {
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

func (f *fakeEmployeeRepo) GetByCode(_ context.Context, code string, companyID string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.Code == code && e.CompanyID == companyID {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) GetByEmail(_ context.Context, email string, companyID string) (employee.Employee, error) {
	for _, e := range f.employees {
		if e.Email == email && e.CompanyID == companyID {
			return e, nil
		}
	}
	return employee.Employee{}, employee.ErrEmployeeNotFound
}

func (f *fakeEmployeeRepo) GetActiveByCompanyID(_ context.Context, companyID string) ([]employee.Employee, error) {
	var out []employee.Employee
	for _, e := range f.employees {
		if e.CompanyID == companyID && e.IsActive() {
			out = append(out, e)
		}
	}
	return out, nil
}

func (f *fakeEmployeeRepo) ListActiveCompanyIDs(_ context.Context) ([]string, error) {
	seen := map[string]struct{}{}
	var out []string
	for _, e := range f.employees {
		if !e.IsActive() {
			continue
		}
		if _, ok := seen[e.CompanyID]; ok {
			continue
		}
		seen[e.CompanyID] = struct{}{}
		out = append(out, e.CompanyID)
	}
	return out, nil
}

type fakeShiftRepo struct {
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

func (f *fakeShiftRepo) GetByName(_ context.Context, name string, companyID string) (shift.WorkShift, error) {
	for _, s := range f.shifts {
		if s.Name == name && s.CompanyID == companyID {
			return s, nil
		}
	}
	return shift.WorkShift{}, shift.ErrShiftNotFound
}

type fakeCompanyRepo struct {
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
