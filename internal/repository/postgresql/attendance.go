package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/attendance"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/pkg/database"
)

type attendanceDayRepository struct {
	db *database.DB
}

func NewAttendanceDayRepository(db *database.DB) attendance.DayRepository {
	return &attendanceDayRepository{db: db}
}

const dayColumns = `
	a.id, a.employee_id, a.company_id, a.date, a.work_shift_id,
	a.check_in_time, a.check_out_time,
	a.total_work_minutes, a.late_minutes, a.overtime_minutes,
	a.status, a.source, a.notes,
	a.created_by, a.updated_by, a.created_at, a.updated_at`

func scanDay(row pgx.Row) (attendance.Day, error) {
	var d attendance.Day
	err := row.Scan(
		&d.ID, &d.EmployeeID, &d.CompanyID, &d.Date, &d.WorkShiftID,
		&d.CheckInTime, &d.CheckOutTime,
		&d.TotalWorkMinutes, &d.LateMinutes, &d.OvertimeMinutes,
		&d.Status, &d.Source, &d.Notes,
		&d.CreatedByID, &d.UpdatedByID, &d.CreatedAt, &d.UpdatedAt,
	)
	return d, err
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// Create implements attendance.DayRepository.
func (r *attendanceDayRepository) Create(ctx context.Context, day attendance.Day) (attendance.Day, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_days (
			id, employee_id, company_id, date, work_shift_id,
			check_in_time, check_out_time,
			total_work_minutes, late_minutes, overtime_minutes,
			status, source, notes, created_by, updated_by,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4,
			$5, $6,
			$7, $8, $9,
			$10, $11, $12, $13, $14,
			NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		day.EmployeeID,
		day.CompanyID,
		day.Date,
		day.WorkShiftID,
		day.CheckInTime,
		day.CheckOutTime,
		day.TotalWorkMinutes,
		day.LateMinutes,
		day.OvertimeMinutes,
		day.Status,
		day.Source,
		day.Notes,
		day.CreatedByID,
		day.UpdatedByID,
	).Scan(&day.ID, &day.CreatedAt, &day.UpdatedAt)

	if err != nil {
		if isUniqueViolation(err) {
			return attendance.Day{}, attendance.ErrDuplicateDay
		}
		return attendance.Day{}, fmt.Errorf("failed to create attendance day: %w", err)
	}

	return day, nil
}

// ClaimCheckIn implements attendance.DayRepository. The check_in_time IS
// NULL guard makes concurrent claims resolve to one winner.
func (r *attendanceDayRepository) ClaimCheckIn(ctx context.Context, day attendance.Day) (attendance.Day, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_days
		SET check_in_time = $1,
			work_shift_id = COALESCE($2, work_shift_id),
			late_minutes = $3,
			status = $4,
			source = $5,
			updated_by = $6,
			updated_at = NOW()
		WHERE id = $7
		  AND check_in_time IS NULL
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		day.CheckInTime,
		day.WorkShiftID,
		day.LateMinutes,
		day.Status,
		day.Source,
		day.UpdatedByID,
		day.ID,
	).Scan(&day.CreatedAt, &day.UpdatedAt)

	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Day{}, attendance.ErrAlreadyCheckedIn
		}
		return attendance.Day{}, fmt.Errorf("failed to claim check-in: %w", err)
	}

	return day, nil
}

// ClaimCheckOut implements attendance.DayRepository.
func (r *attendanceDayRepository) ClaimCheckOut(ctx context.Context, day attendance.Day) (attendance.Day, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_days
		SET check_out_time = $1,
			total_work_minutes = $2,
			late_minutes = $3,
			overtime_minutes = $4,
			status = $5,
			updated_by = $6,
			updated_at = NOW()
		WHERE id = $7
		  AND check_in_time IS NOT NULL
		  AND check_out_time IS NULL
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		day.CheckOutTime,
		day.TotalWorkMinutes,
		day.LateMinutes,
		day.OvertimeMinutes,
		day.Status,
		day.UpdatedByID,
		day.ID,
	).Scan(&day.CreatedAt, &day.UpdatedAt)

	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Day{}, attendance.ErrAlreadyCheckedOut
		}
		return attendance.Day{}, fmt.Errorf("failed to claim check-out: %w", err)
	}

	return day, nil
}

// Upsert implements attendance.DayRepository.
func (r *attendanceDayRepository) Upsert(ctx context.Context, day attendance.Day) (attendance.Day, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_days (
			id, employee_id, company_id, date, work_shift_id,
			check_in_time, check_out_time,
			total_work_minutes, late_minutes, overtime_minutes,
			status, source, notes, created_by, updated_by,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4,
			$5, $6,
			$7, $8, $9,
			$10, $11, $12, $13, $14,
			NOW(), NOW()
		)
		ON CONFLICT (employee_id, date) DO UPDATE SET
			work_shift_id = EXCLUDED.work_shift_id,
			check_in_time = EXCLUDED.check_in_time,
			check_out_time = EXCLUDED.check_out_time,
			total_work_minutes = EXCLUDED.total_work_minutes,
			late_minutes = EXCLUDED.late_minutes,
			overtime_minutes = EXCLUDED.overtime_minutes,
			status = EXCLUDED.status,
			source = EXCLUDED.source,
			notes = EXCLUDED.notes,
			updated_by = EXCLUDED.updated_by,
			updated_at = NOW()
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		day.EmployeeID,
		day.CompanyID,
		day.Date,
		day.WorkShiftID,
		day.CheckInTime,
		day.CheckOutTime,
		day.TotalWorkMinutes,
		day.LateMinutes,
		day.OvertimeMinutes,
		day.Status,
		day.Source,
		day.Notes,
		day.CreatedByID,
		day.UpdatedByID,
	).Scan(&day.ID, &day.CreatedAt, &day.UpdatedAt)

	if err != nil {
		return attendance.Day{}, fmt.Errorf("failed to upsert attendance day: %w", err)
	}

	return day, nil
}

// GetByID implements attendance.DayRepository.
func (r *attendanceDayRepository) GetByID(ctx context.Context, id string, companyID string) (attendance.Day, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + dayColumns + `,
			   e.full_name AS employee_name,
			   e.code AS employee_code,
			   ws.name AS shift_name
		FROM attendance_days a
		LEFT JOIN employees e ON e.id = a.employee_id
		LEFT JOIN work_shifts ws ON ws.id = a.work_shift_id
		WHERE a.id = $1
		  AND a.company_id = $2
	`

	var d attendance.Day
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&d.ID, &d.EmployeeID, &d.CompanyID, &d.Date, &d.WorkShiftID,
		&d.CheckInTime, &d.CheckOutTime,
		&d.TotalWorkMinutes, &d.LateMinutes, &d.OvertimeMinutes,
		&d.Status, &d.Source, &d.Notes,
		&d.CreatedByID, &d.UpdatedByID, &d.CreatedAt, &d.UpdatedAt,
		&d.EmployeeName, &d.EmployeeCode, &d.ShiftName,
	)

	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Day{}, attendance.ErrDayNotFound
		}
		return attendance.Day{}, fmt.Errorf("failed to get attendance day by ID: %w", err)
	}

	return d, nil
}

// GetByEmployeeAndDate implements attendance.DayRepository.
func (r *attendanceDayRepository) GetByEmployeeAndDate(ctx context.Context, employeeID string, date time.Time, companyID string) (*attendance.Day, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + dayColumns + `
		FROM attendance_days a
		WHERE a.employee_id = $1
		  AND a.date = $2
		  AND a.company_id = $3
		LIMIT 1
	`

	d, err := scanDay(q.QueryRow(ctx, query, employeeID, date, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil // no record for this day
		}
		return nil, fmt.Errorf("failed to get attendance day by employee and date: %w", err)
	}

	return &d, nil
}

// GetOpenDay implements attendance.DayRepository.
func (r *attendanceDayRepository) GetOpenDay(ctx context.Context, employeeID string, companyID string) (attendance.Day, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + dayColumns + `
		FROM attendance_days a
		WHERE a.employee_id = $1
		  AND a.company_id = $2
		  AND a.check_in_time IS NOT NULL
		  AND a.check_out_time IS NULL
		ORDER BY a.check_in_time DESC
		LIMIT 1
	`

	d, err := scanDay(q.QueryRow(ctx, query, employeeID, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return attendance.Day{}, attendance.ErrNotCheckedIn
		}
		return attendance.Day{}, fmt.Errorf("failed to get open attendance day: %w", err)
	}

	return d, nil
}

// Update implements attendance.DayRepository.
func (r *attendanceDayRepository) Update(ctx context.Context, day attendance.Day) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_days
		SET work_shift_id = $1,
			check_in_time = $2,
			check_out_time = $3,
			total_work_minutes = $4,
			late_minutes = $5,
			overtime_minutes = $6,
			status = $7,
			notes = $8,
			updated_by = $9,
			updated_at = NOW()
		WHERE id = $10
		  AND company_id = $11
	`

	commandTag, err := q.Exec(ctx, query,
		day.WorkShiftID,
		day.CheckInTime,
		day.CheckOutTime,
		day.TotalWorkMinutes,
		day.LateMinutes,
		day.OvertimeMinutes,
		day.Status,
		day.Notes,
		day.UpdatedByID,
		day.ID,
		day.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance day: %w", err)
	}
	if commandTag.RowsAffected() != 1 {
		return attendance.ErrDayNotFound
	}

	return nil
}

func buildDayWhere(filter attendance.DayFilter, companyID string) (string, []interface{}, int) {
	baseWhere := "a.company_id = $1"
	args := []interface{}{companyID}
	argIdx := 2

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND a.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.EmployeeName != nil && *filter.EmployeeName != "" {
		baseWhere += fmt.Sprintf(" AND e.full_name ILIKE $%d", argIdx)
		args = append(args, "%"+*filter.EmployeeName+"%")
		argIdx++
	}
	if filter.Date != nil && *filter.Date != "" {
		baseWhere += fmt.Sprintf(" AND a.date = $%d", argIdx)
		args = append(args, *filter.Date)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND a.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND a.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}

	return baseWhere, args, argIdx
}

func dayOrderBy(sortBy, sortOrder string) string {
	orderByField := "a.date"
	switch sortBy {
	case "employee_name":
		orderByField = "e.full_name"
	case "check_in_time":
		orderByField = "a.check_in_time"
	case "check_out_time":
		orderByField = "a.check_out_time"
	case "status":
		orderByField = "a.status"
	}
	order := "DESC"
	if strings.ToLower(sortOrder) == "asc" {
		order = "ASC"
	}
	return orderByField + " " + order
}

func (r *attendanceDayRepository) queryDays(ctx context.Context, baseWhere string, args []interface{}, orderBy string, limits string) ([]attendance.Day, error) {
	q := GetQuerier(ctx, r.db)

	selectQuery := fmt.Sprintf(`
		SELECT `+dayColumns+`,
			   e.full_name AS employee_name,
			   e.code AS employee_code,
			   ws.name AS shift_name
		FROM attendance_days a
		LEFT JOIN employees e ON e.id = a.employee_id
		LEFT JOIN work_shifts ws ON ws.id = a.work_shift_id
		WHERE %s
		ORDER BY %s
		%s
	`, baseWhere, orderBy, limits)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query attendance days: %w", err)
	}
	defer rows.Close()

	var days []attendance.Day
	for rows.Next() {
		var d attendance.Day
		err := rows.Scan(
			&d.ID, &d.EmployeeID, &d.CompanyID, &d.Date, &d.WorkShiftID,
			&d.CheckInTime, &d.CheckOutTime,
			&d.TotalWorkMinutes, &d.LateMinutes, &d.OvertimeMinutes,
			&d.Status, &d.Source, &d.Notes,
			&d.CreatedByID, &d.UpdatedByID, &d.CreatedAt, &d.UpdatedAt,
			&d.EmployeeName, &d.EmployeeCode, &d.ShiftName,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance day: %w", err)
		}
		days = append(days, d)
	}

	return days, nil
}

// List implements attendance.DayRepository.
func (r *attendanceDayRepository) List(ctx context.Context, filter attendance.DayFilter, companyID string) ([]attendance.Day, int64, error) {
	q := GetQuerier(ctx, r.db)

	baseWhere, args, argIdx := buildDayWhere(filter, companyID)

	countQuery := `
		SELECT COUNT(*)
		FROM attendance_days a
		LEFT JOIN employees e ON e.id = a.employee_id
		WHERE ` + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count attendance days: %w", err)
	}

	limits := fmt.Sprintf("LIMIT $%d OFFSET $%d", argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	days, err := r.queryDays(ctx, baseWhere, args, dayOrderBy(filter.SortBy, filter.SortOrder), limits)
	if err != nil {
		return nil, 0, err
	}

	return days, total, nil
}

// ListByEmployee implements attendance.DayRepository.
func (r *attendanceDayRepository) ListByEmployee(ctx context.Context, employeeID string, filter attendance.MyDayFilter, companyID string) ([]attendance.Day, int64, error) {
	employeeFilter := attendance.DayFilter{
		EmployeeID: &employeeID,
		Date:       filter.Date,
		StartDate:  filter.StartDate,
		EndDate:    filter.EndDate,
		Status:     filter.Status,
		Page:       filter.Page,
		Limit:      filter.Limit,
		SortBy:     filter.SortBy,
		SortOrder:  filter.SortOrder,
	}
	return r.List(ctx, employeeFilter, companyID)
}

// ListForExport implements attendance.DayRepository.
func (r *attendanceDayRepository) ListForExport(ctx context.Context, filter attendance.DayFilter, companyID string) ([]attendance.Day, error) {
	baseWhere, args, _ := buildDayWhere(filter, companyID)
	return r.queryDays(ctx, baseWhere, args, "a.date ASC, e.full_name ASC", "")
}

// ListEmployeeIDsWithDay implements attendance.DayRepository.
func (r *attendanceDayRepository) ListEmployeeIDsWithDay(ctx context.Context, companyID string, date time.Time) (map[string]struct{}, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT employee_id
		FROM attendance_days
		WHERE company_id = $1
		  AND date = $2
	`

	rows, err := q.Query(ctx, query, companyID, date)
	if err != nil {
		return nil, fmt.Errorf("failed to list covered employee IDs: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan employee ID: %w", err)
		}
		ids[id] = struct{}{}
	}

	return ids, nil
}

// FindDaysWithClockTimes implements attendance.DayRepository.
func (r *attendanceDayRepository) FindDaysWithClockTimes(ctx context.Context, employeeID string, dates []time.Time, companyID string) ([]time.Time, error) {
	if len(dates) == 0 {
		return nil, nil
	}

	q := GetQuerier(ctx, r.db)

	query := `
		SELECT date
		FROM attendance_days
		WHERE employee_id = $1
		  AND company_id = $2
		  AND date = ANY($3)
		  AND (check_in_time IS NOT NULL OR check_out_time IS NOT NULL)
	`

	rows, err := q.Query(ctx, query, employeeID, companyID, dates)
	if err != nil {
		return nil, fmt.Errorf("failed to find days with clock times: %w", err)
	}
	defer rows.Close()

	var conflicts []time.Time
	for rows.Next() {
		var d time.Time
		if err := rows.Scan(&d); err != nil {
			return nil, fmt.Errorf("failed to scan conflict date: %w", err)
		}
		conflicts = append(conflicts, d)
	}

	return conflicts, nil
}

// BulkCreateAbsences implements attendance.DayRepository. One statement, so
// the batch is atomic; existing (employee, date) rows are left untouched.
func (r *attendanceDayRepository) BulkCreateAbsences(ctx context.Context, days []attendance.Day) error {
	if len(days) == 0 {
		return nil
	}

	q := GetQuerier(ctx, r.db)

	employeeIDs := make([]string, len(days))
	companyIDs := make([]string, len(days))
	dates := make([]time.Time, len(days))
	shiftIDs := make([]*string, len(days))
	for i, d := range days {
		employeeIDs[i] = d.EmployeeID
		companyIDs[i] = d.CompanyID
		dates[i] = d.Date
		shiftIDs[i] = d.WorkShiftID
	}

	query := `
		INSERT INTO attendance_days (
			id, employee_id, company_id, date, work_shift_id,
			status, source, created_at, updated_at
		)
		SELECT uuidv7(), t.employee_id, t.company_id, t.date, t.work_shift_id,
			   $5, $6, NOW(), NOW()
		FROM unnest($1::text[], $2::text[], $3::timestamptz[], $4::text[])
			 AS t(employee_id, company_id, date, work_shift_id)
		ON CONFLICT (employee_id, date) DO NOTHING
	`

	if _, err := q.Exec(ctx, query,
		employeeIDs, companyIDs, dates, shiftIDs,
		attendance.StatusAbsent, attendance.SourceAdmin,
	); err != nil {
		return fmt.Errorf("failed to bulk create absences: %w", err)
	}

	return nil
}
