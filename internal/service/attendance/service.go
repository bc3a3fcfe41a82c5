package attendance

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/config"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/attendance"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/company"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/employee"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/shift"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/user"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/pkg/timeutil"
)

type AttendanceServiceImpl struct {
	cfg config.AttendanceConfig
	loc *time.Location
	now func() time.Time
	attendance.DayRepository
	attendance.LogRepository
	employee.EmployeeRepository
	shift.WorkShiftRepository
	company.CompanyRepository
}

func NewAttendanceService(
	cfg config.AttendanceConfig,
	loc *time.Location,
	dayRepo attendance.DayRepository,
	logRepo attendance.LogRepository,
	employeeRepo employee.EmployeeRepository,
	shiftRepo shift.WorkShiftRepository,
	companyRepo company.CompanyRepository,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		cfg:                 cfg,
		loc:                 loc,
		now:                 time.Now,
		DayRepository:       dayRepo,
		LogRepository:       logRepo,
		EmployeeRepository:  employeeRepo,
		WorkShiftRepository: shiftRepo,
		CompanyRepository:   companyRepo,
	}
}

type actor struct {
	UserID     string
	EmployeeID string
	CompanyID  string
	Role       user.Role
}

func actorFromContext(ctx context.Context) (actor, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return actor{}, fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return actor{}, fmt.Errorf("user_id claim is missing or invalid")
	}
	companyID, ok := claims["company_id"].(string)
	if !ok || companyID == "" {
		return actor{}, user.ErrCompanyIDRequired
	}

	act := actor{UserID: userID, CompanyID: companyID}
	if employeeID, ok := claims["employee_id"].(string); ok {
		act.EmployeeID = employeeID
	}
	if role, ok := claims["role"].(string); ok {
		act.Role = user.Role(role)
	}
	return act, nil
}

// requireActiveCompany gates every mutation on the company not being
// suspended.
func (a *AttendanceServiceImpl) requireActiveCompany(ctx context.Context, companyID string) error {
	comp, err := a.CompanyRepository.GetByID(ctx, companyID)
	if err != nil {
		return err
	}
	if !comp.IsActive() {
		return company.ErrCompanySuspended
	}
	return nil
}

// resolveTargetEmployee applies the self-fallback rule: the requested
// employee is used only when the actor holds a company-level role and the
// employee belongs to the actor's company. Every other case silently falls
// back to the actor's own employee record rather than raising a permission
// error.
func (a *AttendanceServiceImpl) resolveTargetEmployee(ctx context.Context, act actor, requested *string) (employee.Employee, bool, error) {
	if requested != nil && *requested != "" && act.Role.IsCompanyLevel() {
		target, err := a.EmployeeRepository.GetByID(ctx, *requested)
		if err == nil && target.CompanyID == act.CompanyID {
			isSelf := act.EmployeeID != "" && target.ID == act.EmployeeID
			return target, isSelf, nil
		}
		if err != nil && !errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, false, fmt.Errorf("failed to get target employee: %w", err)
		}
		// fall through to self
	}

	self, err := a.EmployeeRepository.GetByUserID(ctx, act.UserID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, false, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, false, fmt.Errorf("failed to get own employee record: %w", err)
	}
	return self, true, nil
}

// currentShift loads the employee's assigned shift, requiring it active.
func (a *AttendanceServiceImpl) currentShift(ctx context.Context, emp employee.Employee) (shift.WorkShift, error) {
	if emp.WorkShiftID == nil || *emp.WorkShiftID == "" {
		return shift.WorkShift{}, attendance.ErrNoShiftAssigned
	}
	sh, err := a.WorkShiftRepository.GetByID(ctx, *emp.WorkShiftID, emp.CompanyID)
	if err != nil {
		if errors.Is(err, shift.ErrShiftNotFound) {
			return shift.WorkShift{}, attendance.ErrNoShiftAssigned
		}
		return shift.WorkShift{}, fmt.Errorf("failed to get work shift: %w", err)
	}
	if !sh.IsActive {
		return shift.WorkShift{}, attendance.ErrNoShiftAssigned
	}
	return sh, nil
}

func (a *AttendanceServiceImpl) metricsInput(checkIn, checkOut *time.Time, win *Window) MetricsInput {
	return MetricsInput{
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		Window:         win,
		GraceMinutes:   a.cfg.GraceMinutes,
		BreakMinutes:   a.cfg.BreakMinutes,
		HalfDayMinutes: a.cfg.HalfDayMinutes,
	}
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.DayResponse, error) {
	act, err := actorFromContext(ctx)
	if err != nil {
		return attendance.DayResponse{}, err
	}
	if err := a.requireActiveCompany(ctx, act.CompanyID); err != nil {
		return attendance.DayResponse{}, err
	}

	emp, isSelf, err := a.resolveTargetEmployee(ctx, act, req.EmployeeID)
	if err != nil {
		return attendance.DayResponse{}, err
	}

	sh, err := a.currentShift(ctx, emp)
	if err != nil {
		return attendance.DayResponse{}, err
	}

	now := a.now()
	win := ResolveShiftWindow(sh.StartTime, sh.EndTime, now, a.loc)

	earliestAllowed := win.Start.Add(-time.Duration(a.cfg.EarlyWindowMinutes) * time.Minute)
	if now.Before(earliestAllowed) {
		return attendance.DayResponse{}, attendance.ErrTooEarlyToCheckIn
	}

	// The civil day the resolved occurrence starts on, so an overnight
	// check-in after midnight lands on the previous day's record.
	date := timeutil.StartOfDay(win.Start, a.loc)

	metrics := ComputeMetrics(a.metricsInput(&now, nil, &win))

	source := attendance.SourceSelf
	method := attendance.MethodWeb
	if !isSelf {
		source = attendance.SourceAdmin
		method = attendance.MethodAdmin
	}

	day := attendance.Day{
		EmployeeID:  emp.ID,
		CompanyID:   emp.CompanyID,
		Date:        date,
		WorkShiftID: &sh.ID,
		CheckInTime: &now,
		LateMinutes: metrics.LateMinutes,
		Status:      metrics.Status,
		Source:      source,
		CreatedByID: &act.UserID,
		UpdatedByID: &act.UserID,
	}

	existing, err := a.DayRepository.GetByEmployeeAndDate(ctx, emp.ID, date, emp.CompanyID)
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to get attendance day: %w", err)
	}

	var saved attendance.Day
	if existing == nil {
		saved, err = a.DayRepository.Create(ctx, day)
		if err != nil {
			if errors.Is(err, attendance.ErrDuplicateDay) {
				// lost the race against a concurrent check-in
				return attendance.DayResponse{}, attendance.ErrAlreadyCheckedIn
			}
			return attendance.DayResponse{}, fmt.Errorf("failed to create attendance day: %w", err)
		}
	} else {
		if existing.CheckInTime != nil {
			return attendance.DayResponse{}, attendance.ErrAlreadyCheckedIn
		}
		// Backfilled or leave-written record without clock times: claim it.
		day.ID = existing.ID
		day.Notes = existing.Notes
		saved, err = a.DayRepository.ClaimCheckIn(ctx, day)
		if err != nil {
			return attendance.DayResponse{}, err
		}
	}

	if _, err := a.LogRepository.Append(ctx, attendance.Log{
		AttendanceDayID: saved.ID,
		EmployeeID:      emp.ID,
		CompanyID:       emp.CompanyID,
		Type:            attendance.LogCheckIn,
		Method:          method,
		Timestamp:       now,
		IPAddress:       req.IPAddress,
		UserAgent:       req.UserAgent,
	}); err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to append attendance log: %w", err)
	}

	return a.mapDayToResponse(saved), nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.DayResponse, error) {
	act, err := actorFromContext(ctx)
	if err != nil {
		return attendance.DayResponse{}, err
	}
	if err := a.requireActiveCompany(ctx, act.CompanyID); err != nil {
		return attendance.DayResponse{}, err
	}

	emp, isSelf, err := a.resolveTargetEmployee(ctx, act, req.EmployeeID)
	if err != nil {
		return attendance.DayResponse{}, err
	}

	now := a.now()

	open, err := a.DayRepository.GetOpenDay(ctx, emp.ID, emp.CompanyID)
	if err != nil {
		if errors.Is(err, attendance.ErrNotCheckedIn) {
			return attendance.DayResponse{}, a.classifyMissingOpenDay(ctx, emp, now)
		}
		return attendance.DayResponse{}, fmt.Errorf("failed to get open attendance day: %w", err)
	}

	// Shift recorded on the day wins; the employee's current shift is the
	// fallback. With neither, the calculator gets no window.
	var win *Window
	sh, shiftErr := a.shiftForDay(ctx, open, emp)
	if shiftErr == nil {
		w := ResolveShiftWindow(sh.StartTime, sh.EndTime, *open.CheckInTime, a.loc)
		win = &w
	}

	metrics := ComputeMetrics(a.metricsInput(open.CheckInTime, &now, win))

	open.CheckOutTime = &now
	open.TotalWorkMinutes = metrics.TotalWorkMinutes
	open.LateMinutes = metrics.LateMinutes
	open.OvertimeMinutes = metrics.OvertimeMinutes
	open.Status = metrics.Status
	open.UpdatedByID = &act.UserID

	updated, err := a.DayRepository.ClaimCheckOut(ctx, open)
	if err != nil {
		return attendance.DayResponse{}, err
	}

	method := attendance.MethodWeb
	if !isSelf {
		method = attendance.MethodAdmin
	}
	if _, err := a.LogRepository.Append(ctx, attendance.Log{
		AttendanceDayID: updated.ID,
		EmployeeID:      emp.ID,
		CompanyID:       emp.CompanyID,
		Type:            attendance.LogCheckOut,
		Method:          method,
		Timestamp:       now,
		IPAddress:       req.IPAddress,
		UserAgent:       req.UserAgent,
	}); err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to append attendance log: %w", err)
	}

	return a.mapDayToResponse(updated), nil
}

// classifyMissingOpenDay distinguishes "not checked in" from "already
// checked out" for today's record.
func (a *AttendanceServiceImpl) classifyMissingOpenDay(ctx context.Context, emp employee.Employee, now time.Time) error {
	today := timeutil.StartOfDay(now, a.loc)
	existing, err := a.DayRepository.GetByEmployeeAndDate(ctx, emp.ID, today, emp.CompanyID)
	if err != nil {
		return fmt.Errorf("failed to get attendance day: %w", err)
	}
	if existing != nil && existing.CheckOutTime != nil {
		return attendance.ErrAlreadyCheckedOut
	}
	return attendance.ErrNotCheckedIn
}

func (a *AttendanceServiceImpl) shiftForDay(ctx context.Context, day attendance.Day, emp employee.Employee) (shift.WorkShift, error) {
	if day.WorkShiftID != nil && *day.WorkShiftID != "" {
		sh, err := a.WorkShiftRepository.GetByID(ctx, *day.WorkShiftID, day.CompanyID)
		if err == nil {
			return sh, nil
		}
		if !errors.Is(err, shift.ErrShiftNotFound) {
			return shift.WorkShift{}, err
		}
	}
	return a.currentShift(ctx, emp)
}

// ManualUpsert implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ManualUpsert(ctx context.Context, req attendance.ManualUpsertRequest) (attendance.DayResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.DayResponse{}, err
	}

	act, err := actorFromContext(ctx)
	if err != nil {
		return attendance.DayResponse{}, err
	}
	if err := a.requireActiveCompany(ctx, act.CompanyID); err != nil {
		return attendance.DayResponse{}, err
	}

	emp, err := a.EmployeeRepository.GetByID(ctx, req.EmployeeID)
	if err != nil {
		return attendance.DayResponse{}, err
	}
	if emp.CompanyID != act.CompanyID {
		return attendance.DayResponse{}, attendance.ErrEmployeeNotInScope
	}

	date, err := timeutil.ParseDate(req.Date, a.loc)
	if err != nil {
		return attendance.DayResponse{}, err
	}

	checkIn, checkOut, err := parseInstantPair(req.CheckInTime, req.CheckOutTime)
	if err != nil {
		return attendance.DayResponse{}, err
	}

	day, err := a.buildComputedDay(ctx, emp, date, checkIn, checkOut, req.WorkShiftID, req.StatusOverride)
	if err != nil {
		return attendance.DayResponse{}, err
	}
	day.Source = attendance.SourceAdmin
	day.Notes = req.Notes
	day.CreatedByID = &act.UserID
	day.UpdatedByID = &act.UserID

	saved, err := a.DayRepository.Upsert(ctx, day)
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to upsert attendance day: %w", err)
	}

	return a.mapDayToResponse(saved), nil
}

// buildComputedDay assembles a day record from supplied times, resolving the
// shift (override, else the employee's) and running the calculator. An
// explicit status override always wins.
func (a *AttendanceServiceImpl) buildComputedDay(
	ctx context.Context,
	emp employee.Employee,
	date time.Time,
	checkIn, checkOut *time.Time,
	shiftOverride *string,
	statusOverride *string,
) (attendance.Day, error) {
	if checkIn != nil && checkOut != nil && checkOut.Before(*checkIn) {
		return attendance.Day{}, attendance.ErrCheckOutBeforeIn
	}

	var sh *shift.WorkShift
	if shiftOverride != nil && *shiftOverride != "" {
		s, err := a.WorkShiftRepository.GetByID(ctx, *shiftOverride, emp.CompanyID)
		if err != nil {
			return attendance.Day{}, err
		}
		sh = &s
	} else if emp.WorkShiftID != nil && *emp.WorkShiftID != "" {
		s, err := a.WorkShiftRepository.GetByID(ctx, *emp.WorkShiftID, emp.CompanyID)
		if err == nil {
			sh = &s
		} else if !errors.Is(err, shift.ErrShiftNotFound) {
			return attendance.Day{}, err
		}
	}

	var win *Window
	if sh != nil {
		ref := date
		if checkIn != nil {
			ref = *checkIn
		}
		w := ResolveShiftWindow(sh.StartTime, sh.EndTime, ref, a.loc)
		win = &w
	}

	metrics := ComputeMetrics(a.metricsInput(checkIn, checkOut, win))

	status := metrics.Status
	if statusOverride != nil && *statusOverride != "" {
		status = attendance.Status(*statusOverride)
	}

	day := attendance.Day{
		EmployeeID:       emp.ID,
		CompanyID:        emp.CompanyID,
		Date:             date,
		CheckInTime:      checkIn,
		CheckOutTime:     checkOut,
		TotalWorkMinutes: metrics.TotalWorkMinutes,
		LateMinutes:      metrics.LateMinutes,
		OvertimeMinutes:  metrics.OvertimeMinutes,
		Status:           status,
	}
	if sh != nil {
		day.WorkShiftID = &sh.ID
	}
	return day, nil
}

// UpdateDay implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) UpdateDay(ctx context.Context, req attendance.UpdateDayRequest) (attendance.DayResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.DayResponse{}, err
	}

	act, err := actorFromContext(ctx)
	if err != nil {
		return attendance.DayResponse{}, err
	}
	if err := a.requireActiveCompany(ctx, act.CompanyID); err != nil {
		return attendance.DayResponse{}, err
	}

	day, err := a.DayRepository.GetByID(ctx, req.ID, act.CompanyID)
	if err != nil {
		return attendance.DayResponse{}, err
	}

	checkIn, checkOut, err := parseInstantPair(req.CheckInTime, req.CheckOutTime)
	if err != nil {
		return attendance.DayResponse{}, err
	}

	timesChanged := false
	if checkIn != nil {
		day.CheckInTime = checkIn
		timesChanged = true
	}
	if checkOut != nil {
		day.CheckOutTime = checkOut
		timesChanged = true
	}
	if day.CheckInTime != nil && day.CheckOutTime != nil && day.CheckOutTime.Before(*day.CheckInTime) {
		return attendance.DayResponse{}, attendance.ErrCheckOutBeforeIn
	}

	if timesChanged {
		emp, err := a.EmployeeRepository.GetByID(ctx, day.EmployeeID)
		if err != nil {
			return attendance.DayResponse{}, err
		}
		var win *Window
		if sh, shiftErr := a.shiftForDay(ctx, day, emp); shiftErr == nil {
			ref := day.Date
			if day.CheckInTime != nil {
				ref = *day.CheckInTime
			}
			w := ResolveShiftWindow(sh.StartTime, sh.EndTime, ref, a.loc)
			win = &w
		}
		metrics := ComputeMetrics(a.metricsInput(day.CheckInTime, day.CheckOutTime, win))
		day.TotalWorkMinutes = metrics.TotalWorkMinutes
		day.LateMinutes = metrics.LateMinutes
		day.OvertimeMinutes = metrics.OvertimeMinutes
		day.Status = metrics.Status
	}

	if req.Status != nil && *req.Status != "" {
		day.Status = attendance.Status(*req.Status)
	}
	if req.Notes != nil {
		day.Notes = req.Notes
	}
	day.UpdatedByID = &act.UserID

	if err := a.DayRepository.Update(ctx, day); err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to update attendance day: %w", err)
	}

	updated, err := a.DayRepository.GetByID(ctx, req.ID, act.CompanyID)
	if err != nil {
		return attendance.DayResponse{}, fmt.Errorf("failed to get updated attendance day: %w", err)
	}

	return a.mapDayToResponse(updated), nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, filter attendance.MyDayFilter) (attendance.ListDaysResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListDaysResponse{}, err
	}

	act, err := actorFromContext(ctx)
	if err != nil {
		return attendance.ListDaysResponse{}, err
	}

	emp, _, err := a.resolveTargetEmployee(ctx, act, nil)
	if err != nil {
		return attendance.ListDaysResponse{}, err
	}

	days, total, err := a.DayRepository.ListByEmployee(ctx, emp.ID, filter, act.CompanyID)
	if err != nil {
		return attendance.ListDaysResponse{}, fmt.Errorf("failed to list my attendance: %w", err)
	}

	return a.buildListResponse(days, total, filter.Page, filter.Limit), nil
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.DayFilter) (attendance.ListDaysResponse, error) {
	if err := filter.Validate(); err != nil {
		return attendance.ListDaysResponse{}, err
	}

	act, err := actorFromContext(ctx)
	if err != nil {
		return attendance.ListDaysResponse{}, err
	}

	days, total, err := a.DayRepository.List(ctx, filter, act.CompanyID)
	if err != nil {
		return attendance.ListDaysResponse{}, fmt.Errorf("failed to list attendance: %w", err)
	}

	return a.buildListResponse(days, total, filter.Page, filter.Limit), nil
}

// GetDay implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetDay(ctx context.Context, id string) (attendance.DayResponse, error) {
	act, err := actorFromContext(ctx)
	if err != nil {
		return attendance.DayResponse{}, err
	}

	day, err := a.DayRepository.GetByID(ctx, id, act.CompanyID)
	if err != nil {
		return attendance.DayResponse{}, err
	}

	return a.mapDayToResponse(day), nil
}

// MarkAbsent implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) MarkAbsent(ctx context.Context, req attendance.MarkAbsentRequest) (attendance.BackfillResult, error) {
	if err := req.Validate(); err != nil {
		return attendance.BackfillResult{}, err
	}

	act, err := actorFromContext(ctx)
	if err != nil {
		return attendance.BackfillResult{}, err
	}
	if err := a.requireActiveCompany(ctx, act.CompanyID); err != nil {
		return attendance.BackfillResult{}, err
	}

	date, err := timeutil.ParseDate(req.Date, a.loc)
	if err != nil {
		return attendance.BackfillResult{}, err
	}

	result := attendance.BackfillResult{Date: date.Format("2006-01-02")}
	if date.Weekday() == a.cfg.WeeklyOffDay {
		result.Skipped = true
		return result, nil
	}

	inserted, err := a.BackfillAbsences(ctx, act.CompanyID, date)
	if err != nil {
		return attendance.BackfillResult{}, err
	}
	result.Inserted = inserted
	return result, nil
}

// BackfillAbsences implements attendance.AttendanceService. Idempotent:
// employees that already have a record on date are excluded, so a second
// run inserts nothing.
func (a *AttendanceServiceImpl) BackfillAbsences(ctx context.Context, companyID string, date time.Time) (int, error) {
	employees, err := a.EmployeeRepository.GetActiveByCompanyID(ctx, companyID)
	if err != nil {
		return 0, fmt.Errorf("failed to get active employees: %w", err)
	}

	existing, err := a.DayRepository.ListEmployeeIDsWithDay(ctx, companyID, date)
	if err != nil {
		return 0, fmt.Errorf("failed to list covered employees: %w", err)
	}

	var absences []attendance.Day
	for _, emp := range employees {
		if _, ok := existing[emp.ID]; ok {
			continue
		}
		day := attendance.Day{
			EmployeeID: emp.ID,
			CompanyID:  companyID,
			Date:       date,
			Status:     attendance.StatusAbsent,
			Source:     attendance.SourceAdmin,
		}
		if emp.WorkShiftID != nil && *emp.WorkShiftID != "" {
			day.WorkShiftID = emp.WorkShiftID
		}
		absences = append(absences, day)
	}

	if len(absences) == 0 {
		return 0, nil
	}

	if err := a.DayRepository.BulkCreateAbsences(ctx, absences); err != nil {
		return 0, fmt.Errorf("failed to bulk create absences: %w", err)
	}

	return len(absences), nil
}

// ListDayLogs implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListDayLogs(ctx context.Context, dayID string) ([]attendance.LogResponse, error) {
	act, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	// Company-scoped existence check before exposing logs
	if _, err := a.DayRepository.GetByID(ctx, dayID, act.CompanyID); err != nil {
		return nil, err
	}

	logs, err := a.LogRepository.ListByDay(ctx, dayID, act.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance logs: %w", err)
	}

	responses := make([]attendance.LogResponse, 0, len(logs))
	for _, l := range logs {
		responses = append(responses, attendance.LogResponse{
			ID:              l.ID,
			AttendanceDayID: l.AttendanceDayID,
			EmployeeID:      l.EmployeeID,
			Type:            string(l.Type),
			Method:          string(l.Method),
			Timestamp:       l.Timestamp.In(a.loc).Format(time.RFC3339),
			IPAddress:       l.IPAddress,
			UserAgent:       l.UserAgent,
		})
	}
	return responses, nil
}

func (a *AttendanceServiceImpl) buildListResponse(days []attendance.Day, total int64, page, limit int) attendance.ListDaysResponse {
	responses := make([]attendance.DayResponse, 0, len(days))
	for _, d := range days {
		responses = append(responses, a.mapDayToResponse(d))
	}

	totalPages := int(math.Ceil(float64(total) / float64(limit)))
	showing := fmt.Sprintf("%d-%d of %d", (page-1)*limit+1, min(page*limit, int(total)), total)
	if total == 0 {
		showing = "0 of 0"
	}

	return attendance.ListDaysResponse{
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		TotalPages: totalPages,
		Showing:    showing,
		Days:       responses,
	}
}

func (a *AttendanceServiceImpl) mapDayToResponse(day attendance.Day) attendance.DayResponse {
	return attendance.DayResponse{
		ID:               day.ID,
		EmployeeID:       day.EmployeeID,
		EmployeeName:     day.EmployeeName,
		EmployeeCode:     day.EmployeeCode,
		Date:             day.Date.In(a.loc).Format("2006-01-02"),
		WorkShiftID:      day.WorkShiftID,
		ShiftName:        day.ShiftName,
		CheckInTime:      a.formatInstant(day.CheckInTime),
		CheckOutTime:     a.formatInstant(day.CheckOutTime),
		TotalWorkMinutes: day.TotalWorkMinutes,
		LateMinutes:      day.LateMinutes,
		OvertimeMinutes:  day.OvertimeMinutes,
		Status:           string(day.Status),
		Source:           string(day.Source),
		Notes:            day.Notes,
		CreatedAt:        day.CreatedAt.In(a.loc).Format(time.RFC3339),
		UpdatedAt:        day.UpdatedAt.In(a.loc).Format(time.RFC3339),
	}
}

func (a *AttendanceServiceImpl) formatInstant(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.In(a.loc).Format(time.RFC3339)
	return &s
}

// parseInstantPair parses optional RFC3339 boundary instants.
func parseInstantPair(in, out *string) (*time.Time, *time.Time, error) {
	var checkIn, checkOut *time.Time
	if in != nil && *in != "" {
		t, err := time.Parse(time.RFC3339, *in)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid check_in_time: %w", err)
		}
		checkIn = &t
	}
	if out != nil && *out != "" {
		t, err := time.Parse(time.RFC3339, *out)
		if err != nil {
			return nil, nil, fmt.Errorf("invalid check_out_time: %w", err)
		}
		checkOut = &t
	}
	return checkIn, checkOut, nil
}
