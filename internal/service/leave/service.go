package leave

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
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/leave"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/user"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/pkg/database"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/pkg/timeutil"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/repository/postgresql"
)

// txRunner matches postgresql.WithTransaction; tests substitute a stub.
type txRunner func(ctx context.Context, db *database.DB, fn func(tx pgx.Tx) error) error

type LeaveServiceImpl struct {
	db    *database.DB
	runTx txRunner
	cfg   config.AttendanceConfig
	loc   *time.Location
	leave.LeaveRequestRepository
	leave.LeaveTypeRepository
	attendance.DayRepository
	employee.EmployeeRepository
	company.CompanyRepository
}

func NewLeaveService(
	db *database.DB,
	cfg config.AttendanceConfig,
	loc *time.Location,
	requestRepo leave.LeaveRequestRepository,
	typeRepo leave.LeaveTypeRepository,
	dayRepo attendance.DayRepository,
	employeeRepo employee.EmployeeRepository,
	companyRepo company.CompanyRepository,
) leave.Service {
	return &LeaveServiceImpl{
		db:                     db,
		runTx:                  postgresql.WithTransaction,
		cfg:                    cfg,
		loc:                    loc,
		LeaveRequestRepository: requestRepo,
		LeaveTypeRepository:    typeRepo,
		DayRepository:          dayRepo,
		EmployeeRepository:     employeeRepo,
		CompanyRepository:      companyRepo,
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

func (s *LeaveServiceImpl) requireActiveCompany(ctx context.Context, companyID string) error {
	comp, err := s.CompanyRepository.GetByID(ctx, companyID)
	if err != nil {
		return err
	}
	if !comp.IsActive() {
		return company.ErrCompanySuspended
	}
	return nil
}

func (s *LeaveServiceImpl) resolveTargetEmployee(ctx context.Context, act actor, requested *string) (employee.Employee, error) {
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

// targetDates expands [start, end] to the civil days leave actually covers,
// excluding the weekly off day.
func (s *LeaveServiceImpl) targetDates(start, end time.Time) []time.Time {
	var dates []time.Time
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if d.Weekday() == s.cfg.WeeklyOffDay {
			continue
		}
		dates = append(dates, d)
	}
	return dates
}

// Create implements leave.Service.
func (s *LeaveServiceImpl) Create(ctx context.Context, req leave.CreateRequest) (leave.Response, error) {
	if err := req.Validate(); err != nil {
		return leave.Response{}, err
	}

	act, err := actorFromContext(ctx)
	if err != nil {
		return leave.Response{}, err
	}
	if err := s.requireActiveCompany(ctx, act.CompanyID); err != nil {
		return leave.Response{}, err
	}

	emp, err := s.resolveTargetEmployee(ctx, act, req.EmployeeID)
	if err != nil {
		return leave.Response{}, err
	}

	leaveType, err := s.LeaveTypeRepository.GetByID(ctx, req.LeaveTypeID, act.CompanyID)
	if err != nil {
		return leave.Response{}, err
	}
	if !leaveType.IsActive {
		return leave.Response{}, leave.ErrLeaveTypeInactive
	}

	start, err := timeutil.ParseDate(req.StartDate, s.loc)
	if err != nil {
		return leave.Response{}, err
	}
	end, err := timeutil.ParseDate(req.EndDate, s.loc)
	if err != nil {
		return leave.Response{}, err
	}
	if end.Before(start) {
		return leave.Response{}, leave.ErrInvalidDateRange
	}

	overlapping, err := s.LeaveRequestRepository.CheckOverlapping(ctx, emp.ID, start, end, "")
	if err != nil {
		return leave.Response{}, fmt.Errorf("failed to check overlapping leave: %w", err)
	}
	if overlapping {
		return leave.Response{}, leave.ErrOverlappingLeave
	}

	created, err := s.LeaveRequestRepository.Create(ctx, leave.LeaveRequest{
		EmployeeID:  emp.ID,
		CompanyID:   emp.CompanyID,
		LeaveTypeID: leaveType.ID,
		StartDate:   start,
		EndDate:     end,
		TotalDays:   len(s.targetDates(start, end)),
		Reason:      req.Reason,
		Status:      leave.StatusPending,
	})
	if err != nil {
		return leave.Response{}, fmt.Errorf("failed to create leave request: %w", err)
	}

	created.LeaveTypeName = &leaveType.Name
	return s.mapToResponse(created), nil
}

// Approve implements leave.Service. All ON_LEAVE day writes and the status
// change commit in one transaction.
func (s *LeaveServiceImpl) Approve(ctx context.Context, req leave.ReviewRequest) (leave.Response, error) {
	act, err := actorFromContext(ctx)
	if err != nil {
		return leave.Response{}, err
	}
	if !act.Role.IsCompanyLevel() {
		return leave.Response{}, user.ErrManagerAccessRequired
	}
	if err := s.requireActiveCompany(ctx, act.CompanyID); err != nil {
		return leave.Response{}, err
	}

	request, err := s.LeaveRequestRepository.GetByID(ctx, req.ID, act.CompanyID)
	if err != nil {
		return leave.Response{}, err
	}
	if request.Status != leave.StatusPending {
		return leave.Response{}, leave.ErrAlreadyProcessed
	}

	dates := s.targetDates(request.StartDate, request.EndDate)
	if len(dates) == 0 {
		return leave.Response{}, leave.ErrOnlyOffDays
	}

	// Re-validate overlap at approval; another request may have been
	// approved since creation.
	overlapping, err := s.LeaveRequestRepository.CheckOverlapping(ctx, request.EmployeeID, request.StartDate, request.EndDate, request.ID)
	if err != nil {
		return leave.Response{}, fmt.Errorf("failed to check overlapping leave: %w", err)
	}
	if overlapping {
		return leave.Response{}, leave.ErrOverlappingLeave
	}

	conflicts, err := s.DayRepository.FindDaysWithClockTimes(ctx, request.EmployeeID, dates, request.CompanyID)
	if err != nil {
		return leave.Response{}, fmt.Errorf("failed to check attendance conflicts: %w", err)
	}
	if len(conflicts) > 0 {
		return leave.Response{}, leave.ErrAttendanceConflict
	}

	leaveType, err := s.LeaveTypeRepository.GetByID(ctx, request.LeaveTypeID, request.CompanyID)
	if err != nil {
		return leave.Response{}, err
	}

	emp, err := s.EmployeeRepository.GetByID(ctx, request.EmployeeID)
	if err != nil {
		return leave.Response{}, err
	}

	note := fmt.Sprintf("On leave: %s", leaveType.Name)
	now := time.Now()
	request.Status = leave.StatusApproved
	request.ReviewerID = &act.UserID
	request.ReviewNote = req.ReviewNote
	request.ReviewedAt = &now

	err = s.runTx(ctx, s.db, func(tx pgx.Tx) error {
		txCtx := context.WithValue(ctx, "tx", tx)

		for _, date := range dates {
			day := attendance.Day{
				EmployeeID:  request.EmployeeID,
				CompanyID:   request.CompanyID,
				Date:        date,
				Status:      attendance.StatusOnLeave,
				Source:      attendance.SourceAdmin,
				Notes:       &note,
				CreatedByID: &act.UserID,
				UpdatedByID: &act.UserID,
			}
			if emp.WorkShiftID != nil && *emp.WorkShiftID != "" {
				day.WorkShiftID = emp.WorkShiftID
			}
			if _, err := s.DayRepository.Upsert(txCtx, day); err != nil {
				return fmt.Errorf("failed to upsert on-leave day: %w", err)
			}
		}

		if err := s.LeaveRequestRepository.UpdateReview(txCtx, request); err != nil {
			return fmt.Errorf("failed to update leave request: %w", err)
		}
		return nil
	})
	if err != nil {
		return leave.Response{}, err
	}

	request.LeaveTypeName = &leaveType.Name
	return s.mapToResponse(request), nil
}

// Reject implements leave.Service.
func (s *LeaveServiceImpl) Reject(ctx context.Context, req leave.ReviewRequest) (leave.Response, error) {
	act, err := actorFromContext(ctx)
	if err != nil {
		return leave.Response{}, err
	}
	if !act.Role.IsCompanyLevel() {
		return leave.Response{}, user.ErrManagerAccessRequired
	}

	request, err := s.LeaveRequestRepository.GetByID(ctx, req.ID, act.CompanyID)
	if err != nil {
		return leave.Response{}, err
	}
	if request.Status != leave.StatusPending {
		return leave.Response{}, leave.ErrAlreadyProcessed
	}

	now := time.Now()
	request.Status = leave.StatusRejected
	request.ReviewerID = &act.UserID
	request.ReviewNote = req.ReviewNote
	request.ReviewedAt = &now

	if err := s.LeaveRequestRepository.UpdateReview(ctx, request); err != nil {
		return leave.Response{}, fmt.Errorf("failed to update leave request: %w", err)
	}

	return s.mapToResponse(request), nil
}

// Cancel implements leave.Service. Only the requesting employee may cancel,
// and only while the request is still pending.
func (s *LeaveServiceImpl) Cancel(ctx context.Context, id string) (leave.Response, error) {
	act, err := actorFromContext(ctx)
	if err != nil {
		return leave.Response{}, err
	}

	request, err := s.LeaveRequestRepository.GetByID(ctx, id, act.CompanyID)
	if err != nil {
		return leave.Response{}, err
	}

	self, err := s.EmployeeRepository.GetByUserID(ctx, act.UserID)
	if err != nil {
		return leave.Response{}, err
	}
	if request.EmployeeID != self.ID {
		return leave.Response{}, leave.ErrNotRequestOwner
	}
	if request.Status != leave.StatusPending {
		return leave.Response{}, leave.ErrAlreadyProcessed
	}

	request.Status = leave.StatusCancelled

	if err := s.LeaveRequestRepository.UpdateReview(ctx, request); err != nil {
		return leave.Response{}, fmt.Errorf("failed to update leave request: %w", err)
	}

	return s.mapToResponse(request), nil
}

// Get implements leave.Service.
func (s *LeaveServiceImpl) Get(ctx context.Context, id string) (leave.Response, error) {
	act, err := actorFromContext(ctx)
	if err != nil {
		return leave.Response{}, err
	}

	request, err := s.LeaveRequestRepository.GetByID(ctx, id, act.CompanyID)
	if err != nil {
		return leave.Response{}, err
	}

	if !act.Role.IsCompanyLevel() {
		self, err := s.EmployeeRepository.GetByUserID(ctx, act.UserID)
		if err != nil || request.EmployeeID != self.ID {
			return leave.Response{}, leave.ErrLeaveRequestNotFound
		}
	}

	return s.mapToResponse(request), nil
}

// ListMine implements leave.Service.
func (s *LeaveServiceImpl) ListMine(ctx context.Context, filter leave.Filter) (leave.ListResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListResponse{}, err
	}

	act, err := actorFromContext(ctx)
	if err != nil {
		return leave.ListResponse{}, err
	}

	self, err := s.EmployeeRepository.GetByUserID(ctx, act.UserID)
	if err != nil {
		return leave.ListResponse{}, err
	}

	requests, total, err := s.LeaveRequestRepository.ListByEmployee(ctx, self.ID, filter, act.CompanyID)
	if err != nil {
		return leave.ListResponse{}, fmt.Errorf("failed to list my leave requests: %w", err)
	}

	return s.buildListResponse(requests, total, filter.Page, filter.Limit), nil
}

// List implements leave.Service.
func (s *LeaveServiceImpl) List(ctx context.Context, filter leave.Filter) (leave.ListResponse, error) {
	if err := filter.Validate(); err != nil {
		return leave.ListResponse{}, err
	}

	act, err := actorFromContext(ctx)
	if err != nil {
		return leave.ListResponse{}, err
	}

	requests, total, err := s.LeaveRequestRepository.List(ctx, filter, act.CompanyID)
	if err != nil {
		return leave.ListResponse{}, fmt.Errorf("failed to list leave requests: %w", err)
	}

	return s.buildListResponse(requests, total, filter.Page, filter.Limit), nil
}

func (s *LeaveServiceImpl) buildListResponse(requests []leave.LeaveRequest, total int64, page, limit int) leave.ListResponse {
	responses := make([]leave.Response, 0, len(requests))
	for _, r := range requests {
		responses = append(responses, s.mapToResponse(r))
	}

	return leave.ListResponse{
		TotalCount: total,
		Page:       page,
		Limit:      limit,
		TotalPages: int(math.Ceil(float64(total) / float64(limit))),
		Requests:   responses,
	}
}

func (s *LeaveServiceImpl) mapToResponse(r leave.LeaveRequest) leave.Response {
	resp := leave.Response{
		ID:            r.ID,
		EmployeeID:    r.EmployeeID,
		EmployeeName:  r.EmployeeName,
		LeaveTypeID:   r.LeaveTypeID,
		LeaveTypeName: r.LeaveTypeName,
		StartDate:     r.StartDate.In(s.loc).Format("2006-01-02"),
		EndDate:       r.EndDate.In(s.loc).Format("2006-01-02"),
		TotalDays:     r.TotalDays,
		Reason:        r.Reason,
		Status:        string(r.Status),
		ReviewerID:    r.ReviewerID,
		ReviewNote:    r.ReviewNote,
		CreatedAt:     r.CreatedAt.In(s.loc).Format(time.RFC3339),
		UpdatedAt:     r.UpdatedAt.In(s.loc).Format(time.RFC3339),
	}
	if r.ReviewedAt != nil {
		v := r.ReviewedAt.In(s.loc).Format(time.RFC3339)
		resp.ReviewedAt = &v
	}
	return resp
}
