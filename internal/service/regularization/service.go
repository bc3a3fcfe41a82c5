package regularization

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/jackc/pgx/v5"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/config"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/attendance"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/company"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/employee"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/regularization"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/shift"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/user"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/pkg/database"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/pkg/timeutil"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/repository/postgresql"
	attendanceservice "github.com/subhashadhikari057/hrm-fyp-sub000/internal/service/attendance"
)

// txRunner matches postgresql.WithTransaction; tests substitute a stub.
type txRunner func(ctx context.Context, db *database.DB, fn func(tx pgx.Tx) error) error

type RegularizationServiceImpl struct {
	db    *database.DB
	runTx txRunner
	cfg   config.AttendanceConfig
	loc   *time.Location
	regularization.Repository
	attendance.DayRepository
	employee.EmployeeRepository
	shift.WorkShiftRepository
	company.CompanyRepository
}

func NewRegularizationService(
	db *database.DB,
	cfg config.AttendanceConfig,
	loc *time.Location,
	repo regularization.Repository,
	dayRepo attendance.DayRepository,
	employeeRepo employee.EmployeeRepository,
	shiftRepo shift.WorkShiftRepository,
	companyRepo company.CompanyRepository,
) regularization.Service {
	return &RegularizationServiceImpl{
		db:                  db,
		runTx:               postgresql.WithTransaction,
		cfg:                 cfg,
		loc:                 loc,
		Repository:          repo,
		DayRepository:       dayRepo,
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

func (s *RegularizationServiceImpl) requireActiveCompany(ctx context.Context, companyID string) error {
	comp, err := s.CompanyRepository.GetByID(ctx, companyID)
	if err != nil {
		return err
	}
	if !comp.IsActive() {
		return company.ErrCompanySuspended
	}
	return nil
}

func (s *RegularizationServiceImpl) resolveTargetEmployee(ctx context.Context, act actor, requested *string) (employee.Employee, error) {
	if requested != nil && *requested != "" && act.Role.IsCompanyLevel() {
		target, err := s.EmployeeRepository.GetByID(ctx, *requested)
		if err == nil && target.CompanyID == act.CompanyID {
			return target, nil
		}
		if err != nil && !errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, fmt.Errorf("failed to get target employee: %w", err)
		}
	}

	self, err := s.EmployeeRepository.GetByUserID(ctx, act.UserID)
	if err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get own employee record: %w", err)
	}
	return self, nil
}

// Create implements regularization.Service.
func (s *RegularizationServiceImpl) Create(ctx context.Context, req regularization.CreateRequest) (regularization.Response, error) {
	if err := req.Validate(); err != nil {
		return regularization.Response{}, err
	}

	act, err := actorFromContext(ctx)
	if err != nil {
		return regularization.Response{}, err
	}
	if err := s.requireActiveCompany(ctx, act.CompanyID); err != nil {
		return regularization.Response{}, err
	}

	emp, err := s.resolveTargetEmployee(ctx, act, req.EmployeeID)
	if err != nil {
		return regularization.Response{}, err
	}

	date, err := timeutil.ParseDate(req.Date, s.loc)
	if err != nil {
		return regularization.Response{}, err
	}

	today := timeutil.StartOfDay(time.Now(), s.loc)
	if date.After(today) {
		return regularization.Response{}, regularization.ErrDateInFuture
	}
	oldest := today.AddDate(0, 0, -s.cfg.RegularizationMaxDays)
	if date.Before(oldest) {
		return regularization.Response{}, regularization.ErrDateTooOld
	}

	pending, err := s.Repository.HasPendingForDate(ctx, emp.ID, date, emp.CompanyID)
	if err != nil {
		return regularization.Response{}, fmt.Errorf("failed to check pending requests: %w", err)
	}
	if pending {
		return regularization.Response{}, regularization.ErrDuplicatePending
	}

	// Freeze the day's current state now; approval writes the after side.
	existing, err := s.DayRepository.GetByEmployeeAndDate(ctx, emp.ID, date, emp.CompanyID)
	if err != nil {
		return regularization.Response{}, fmt.Errorf("failed to get attendance day: %w", err)
	}
	before := regularization.SnapshotOf(existing)

	checkIn, err := s.parseWallClock(req.RequestedCheckInTime)
	if err != nil {
		return regularization.Response{}, err
	}
	checkOut, err := s.parseWallClock(req.RequestedCheckOutTime)
	if err != nil {
		return regularization.Response{}, err
	}

	created, err := s.Repository.Create(ctx, regularization.Regularization{
		EmployeeID:            emp.ID,
		CompanyID:             emp.CompanyID,
		Date:                  date,
		RequestType:           regularization.RequestType(req.RequestType),
		RequestedCheckInTime:  checkIn,
		RequestedCheckOutTime: checkOut,
		Reason:                req.Reason,
		Status:                regularization.StatusPending,
		BeforeSnapshot:        &before,
		CreatedByID:           &act.UserID,
	})
	if err != nil {
		return regularization.Response{}, fmt.Errorf("failed to create regularization request: %w", err)
	}

	return s.mapToResponse(created), nil
}

// Approve implements regularization.Service. The attendance day write and
// the request's status change commit together or not at all.
func (s *RegularizationServiceImpl) Approve(ctx context.Context, req regularization.ReviewRequest) (regularization.Response, error) {
	act, err := actorFromContext(ctx)
	if err != nil {
		return regularization.Response{}, err
	}
	if !act.Role.IsCompanyLevel() {
		return regularization.Response{}, user.ErrManagerAccessRequired
	}
	if err := s.requireActiveCompany(ctx, act.CompanyID); err != nil {
		return regularization.Response{}, err
	}

	request, err := s.Repository.GetByID(ctx, req.ID, act.CompanyID)
	if err != nil {
		return regularization.Response{}, err
	}
	if request.Status != regularization.StatusPending {
		return regularization.Response{}, regularization.ErrAlreadyProcessed
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, request.EmployeeID)
	if err != nil {
		return regularization.Response{}, err
	}

	existing, err := s.DayRepository.GetByEmployeeAndDate(ctx, request.EmployeeID, request.Date, request.CompanyID)
	if err != nil {
		return regularization.Response{}, fmt.Errorf("failed to get attendance day: %w", err)
	}

	day, err := s.applyRequestedTimes(ctx, request, emp, existing)
	if err != nil {
		return regularization.Response{}, err
	}
	day.UpdatedByID = &act.UserID

	now := time.Now()
	request.Status = regularization.StatusApproved
	request.ReviewerID = &act.UserID
	request.ReviewNote = req.ReviewNote
	request.ReviewedAt = &now

	err = s.runTx(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		saved, err := s.DayRepository.Upsert(txCtx, day)
		if err != nil {
			return fmt.Errorf("failed to upsert attendance day: %w", err)
		}

		after := regularization.SnapshotOf(&saved)
		request.AfterSnapshot = &after

		if err := s.Repository.UpdateReview(txCtx, request); err != nil {
			return fmt.Errorf("failed to update regularization request: %w", err)
		}
		return nil
	})
	if err != nil {
		return regularization.Response{}, err
	}

	return s.mapToResponse(request), nil
}

// applyRequestedTimes merges the requested wall-clock corrections over the
// day's existing times and recomputes metrics. A corrected check-out that
// falls before the check-in is read as crossing midnight.
func (s *RegularizationServiceImpl) applyRequestedTimes(
	ctx context.Context,
	request regularization.Regularization,
	emp employee.Employee,
	existing *attendance.Day,
) (attendance.Day, error) {
	var checkIn, checkOut *time.Time
	if existing != nil {
		checkIn = existing.CheckInTime
		checkOut = existing.CheckOutTime
	}

	if request.RequestedCheckInTime != nil {
		t := timeutil.Combine(request.Date, *request.RequestedCheckInTime, s.loc)
		checkIn = &t
	}
	if request.RequestedCheckOutTime != nil {
		t := timeutil.Combine(request.Date, *request.RequestedCheckOutTime, s.loc)
		if checkIn != nil && t.Before(*checkIn) {
			t = t.Add(24 * time.Hour)
		}
		checkOut = &t
	}
	if checkIn != nil && checkOut != nil && checkOut.Before(*checkIn) {
		return attendance.Day{}, attendance.ErrCheckOutBeforeIn
	}

	var sh *shift.WorkShift
	if existing != nil && existing.WorkShiftID != nil && *existing.WorkShiftID != "" {
		if loaded, err := s.WorkShiftRepository.GetByID(ctx, *existing.WorkShiftID, request.CompanyID); err == nil {
			sh = &loaded
		} else if !errors.Is(err, shift.ErrShiftNotFound) {
			return attendance.Day{}, err
		}
	}
	if sh == nil && emp.WorkShiftID != nil && *emp.WorkShiftID != "" {
		if loaded, err := s.WorkShiftRepository.GetByID(ctx, *emp.WorkShiftID, request.CompanyID); err == nil {
			sh = &loaded
		} else if !errors.Is(err, shift.ErrShiftNotFound) {
			return attendance.Day{}, err
		}
	}

	var win *attendanceservice.Window
	if sh != nil {
		ref := request.Date
		if checkIn != nil {
			ref = *checkIn
		}
		w := attendanceservice.ResolveShiftWindow(sh.StartTime, sh.EndTime, ref, s.loc)
		win = &w
	}

	metrics := attendanceservice.ComputeMetrics(attendanceservice.MetricsInput{
		CheckIn:        checkIn,
		CheckOut:       checkOut,
		Window:         win,
		GraceMinutes:   s.cfg.GraceMinutes,
		BreakMinutes:   s.cfg.BreakMinutes,
		HalfDayMinutes: s.cfg.HalfDayMinutes,
	})

	day := attendance.Day{
		EmployeeID:       request.EmployeeID,
		CompanyID:        request.CompanyID,
		Date:             request.Date,
		CheckInTime:      checkIn,
		CheckOutTime:     checkOut,
		TotalWorkMinutes: metrics.TotalWorkMinutes,
		LateMinutes:      metrics.LateMinutes,
		OvertimeMinutes:  metrics.OvertimeMinutes,
		Status:           metrics.Status,
		Source:           attendance.SourceAdmin,
	}
	if sh != nil {
		day.WorkShiftID = &sh.ID
	}
	if existing != nil {
		day.Notes = existing.Notes
	}
	return day, nil
}

// Reject implements regularization.Service.
func (s *RegularizationServiceImpl) Reject(ctx context.Context, req regularization.ReviewRequest) (regularization.Response, error) {
	act, err := actorFromContext(ctx)
	if err != nil {
		return regularization.Response{}, err
	}
	if !act.Role.IsCompanyLevel() {
		return regularization.Response{}, user.ErrManagerAccessRequired
	}

	request, err := s.Repository.GetByID(ctx, req.ID, act.CompanyID)
	if err != nil {
		return regularization.Response{}, err
	}
	if request.Status != regularization.StatusPending {
		return regularization.Response{}, regularization.ErrAlreadyProcessed
	}

	now := time.Now()
	request.Status = regularization.StatusRejected
	request.ReviewerID = &act.UserID
	request.ReviewNote = req.ReviewNote
	request.ReviewedAt = &now

	if err := s.Repository.UpdateReview(ctx, request); err != nil {
		return regularization.Response{}, fmt.Errorf("failed to update regularization request: %w", err)
	}

	return s.mapToResponse(request), nil
}

// Cancel implements regularization.Service. Only the requesting employee
// may cancel, and only while the request is still pending.
func (s *RegularizationServiceImpl) Cancel(ctx context.Context, id string) (regularization.Response, error) {
	act, err := actorFromContext(ctx)
	if err != nil {
		return regularization.Response{}, err
	}

	request, err := s.Repository.GetByID(ctx, id, act.CompanyID)
	if err != nil {
		return regularization.Response{}, err
	}

	self, err := s.EmployeeRepository.GetByUserID(ctx, act.UserID)
	if err != nil {
		return regularization.Response{}, err
	}
	if request.EmployeeID != self.ID {
		return regularization.Response{}, regularization.ErrNotRequestOwner
	}
	if request.Status != regularization.StatusPending {
		return regularization.Response{}, regularization.ErrAlreadyProcessed
	}

	request.Status = regularization.StatusCancelled

	if err := s.Repository.UpdateReview(ctx, request); err != nil {
		return regularization.Response{}, fmt.Errorf("failed to update regularization request: %w", err)
	}

	return s.mapToResponse(request), nil
}

// Get implements regularization.Service.
func (s *RegularizationServiceImpl) Get(ctx context.Context, id string) (regularization.Response, error) {
	act, err := actorFromContext(ctx)
	if err != nil {
		return regularization.Response{}, err
	}

	request, err := s.Repository.GetByID(ctx, id, act.CompanyID)
	if err != nil {
		return regularization.Response{}, err
	}

	if !act.Role.IsCompanyLevel() {
		self, err := s.EmployeeRepository.GetByUserID(ctx, act.UserID)
		if err != nil || request.EmployeeID != self.ID {
			return regularization.Response{}, regularization.ErrRequestNotFound
		}
	}

	return s.mapToResponse(request), nil
}

// ListMine implements regularization.Service.
func (s *RegularizationServiceImpl) ListMine(ctx context.Context, filter regularization.Filter) (regularization.ListResponse, error) {
	if err := filter.Validate(); err != nil {
		return regularization.ListResponse{}, err
	}

	act, err := actorFromContext(ctx)
	if err != nil {
		return regularization.ListResponse{}, err
	}

	self, err := s.EmployeeRepository.GetByUserID(ctx, act.UserID)
	if err != nil {
		return regularization.ListResponse{}, err
	}

	requests, total, err := s.Repository.ListByEmployee(ctx, self.ID, filter, act.CompanyID)
	if err != nil {
		return regularization.ListResponse{}, fmt.Errorf("failed to list my regularization requests: %w", err)
	}

	return s.buildListResponse(requests, total, filter.Page, filter.Limit), nil
}

// List implements regularization.Service.
func (s *RegularizationServiceImpl) List(ctx context.Context, filter regularization.Filter) (regularization.ListResponse, error) {
	if err := filter.Validate(); err != nil {
		return regularization.ListResponse{}, err
	}

	act, err := actorFromContext(ctx)
	if err != nil {
		return regularization.ListResponse{}, err
	}

	requests, total, err := s.Repository.List(ctx, filter, act.CompanyID)
	if err != nil {
		return regularization.ListResponse{}, fmt.Errorf("failed to list regularization requests: %w", err)
	}

	return s.buildListResponse(requests, total, filter.Page, filter.Limit), nil
}

func (s *RegularizationServiceImpl) parseWallClock(v *string) (*time.Time, error) {
	if v == nil || *v == "" {
		return nil, nil
	}
	t, err := timeutil.ParseTimeOfDay(*v)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func (s *RegularizationServiceImpl) buildListResponse(requests []regularization.Regularization, total int64, page, limit int) regularization.ListResponse {
	responses := make([]regularization.Response, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, s.mapToResponse(r))
	}

	return regularization.ListResponse{
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		Requests:   responses,
	}
}

func (s *RegularizationServiceImpl) mapToResponse(r regularization.Regularization) regularization.Response {
	resp := regularization.Response{
		ID:             r.ID,
		EmployeeID:     r.EmployeeID,
		EmployeeName:   r.EmployeeName,
		EmployeeCode:   r.EmployeeCode,
		Date:           r.Date.In(s.loc).Format("2006-01-02"),
		RequestType:    string(r.RequestType),
		Reason:         r.Reason,
		Status:         string(r.Status),
		ReviewerID:     r.ReviewerID,
		ReviewNote:     r.ReviewNote,
		BeforeSnapshot: r.BeforeSnapshot,
		AfterSnapshot:  r.AfterSnapshot,
		CreatedAt:      r.CreatedAt.In(s.loc).Format(time.RFC3339),
		UpdatedAt:      r.UpdatedAt.In(s.loc).Format(time.RFC3339),
	}
	if r.RequestedCheckInTime != nil {
		v := r.RequestedCheckInTime.Format("15:04")
		resp.RequestedCheckInTime = &v
	}
	if r.RequestedCheckOutTime != nil {
		v := r.RequestedCheckOutTime.Format("15:04")
		resp.RequestedCheckOutTime = &v
	}
	if r.ReviewedAt != nil {
		v := r.ReviewedAt.In(s.loc).Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	return resp
}
