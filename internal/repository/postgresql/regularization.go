package postgresql

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/regularization"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/pkg/database"
)

type regularizationRepository struct {
	db *database.DB
}

func NewRegularizationRepository(db *database.DB) regularization.Repository {
	return &regularizationRepository{db: db}
}

const regularizationColumns = `
	r.id, r.employee_id, r.company_id, r.date, r.request_type,
	r.requested_check_in_time, r.requested_check_out_time,
	r.reason, r.status, r.reviewer_id, r.review_note, r.reviewed_at,
	r.before_snapshot, r.after_snapshot,
	r.created_by, r.created_at, r.updated_at`

// Create implements regularization.Repository. Requested wall-clock times
// are stored without a date.
func (r *regularizationRepository) Create(ctx context.Context, req regularization.Regularization) (regularization.Regularization, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO attendance_regularizations (
			id, employee_id, company_id, date, request_type,
			requested_check_in_time, requested_check_out_time,
			reason, status, before_snapshot, created_by,
			created_at, updated_at
		) VALUES (
			uuidv7(), $1, $2, $3, $4,
			$5, $6,
			$7, $8, $9, $10,
			NOW(), NOW()
		) RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		req.EmployeeID,
		req.CompanyID,
		req.Date,
		req.RequestType,
		wallClock(req.RequestedCheckInTime),
		wallClock(req.RequestedCheckOutTime),
		req.Reason,
		req.Status,
		req.BeforeSnapshot,
		req.CreatedByID,
	).Scan(&req.ID, &req.CreatedAt, &req.UpdatedAt)

	if err != nil {
		return regularization.Regularization{}, fmt.Errorf("failed to create regularization request: %w", err)
	}

	return req, nil
}

// GetByID implements regularization.Repository.
func (r *regularizationRepository) GetByID(ctx context.Context, id string, companyID string) (regularization.Regularization, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT ` + regularizationColumns + `,
			   e.full_name AS employee_name,
			   e.code AS employee_code
		FROM attendance_regularizations r
		LEFT JOIN employees e ON e.id = r.employee_id
		WHERE r.id = $1
		  AND r.company_id = $2
	`

	req, err := scanRegularization(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return regularization.Regularization{}, regularization.ErrRequestNotFound
		}
		return regularization.Regularization{}, fmt.Errorf("failed to get regularization request: %w", err)
	}

	return req, nil
}

// HasPendingForDate implements regularization.Repository.
func (r *regularizationRepository) HasPendingForDate(ctx context.Context, employeeID string, date time.Time, companyID string) (bool, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT EXISTS (
			SELECT 1
			FROM attendance_regularizations
			WHERE employee_id = $1
			  AND date = $2
			  AND company_id = $3
			  AND status = $4
		)
	`

	var exists bool
	err := q.QueryRow(ctx, query, employeeID, date, companyID, regularization.StatusPending).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check pending regularization: %w", err)
	}

	return exists, nil
}

// UpdateReview implements regularization.Repository.
func (r *regularizationRepository) UpdateReview(ctx context.Context, req regularization.Regularization) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE attendance_regularizations
		SET status = $1,
			reviewer_id = $2,
			review_note = $3,
			reviewed_at = $4,
			after_snapshot = $5,
			updated_at = NOW()
		WHERE id = $6
		  AND company_id = $7
	`

	commandTag, err := q.Exec(ctx, query,
		req.Status,
		req.ReviewerID,
		req.ReviewNote,
		req.ReviewedAt,
		req.AfterSnapshot,
		req.ID,
		req.CompanyID,
	)
	if err != nil {
		return fmt.Errorf("failed to update regularization review: %w", err)
	}
	if commandTag.RowsAffected() != 1 {
		return regularization.ErrRequestNotFound
	}

	return nil
}

// List implements regularization.Repository.
func (r *regularizationRepository) List(ctx context.Context, filter regularization.Filter, companyID string) ([]regularization.Regularization, int64, error) {
	baseWhere := "r.company_id = $1"
	args := []interface{}{companyID}
	argIdx := 2

	if filter.EmployeeID != nil && *filter.EmployeeID != "" {
		baseWhere += fmt.Sprintf(" AND r.employee_id = $%d", argIdx)
		args = append(args, *filter.EmployeeID)
		argIdx++
	}
	if filter.Status != nil && *filter.Status != "" {
		baseWhere += fmt.Sprintf(" AND r.status = $%d", argIdx)
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.StartDate != nil && *filter.StartDate != "" {
		baseWhere += fmt.Sprintf(" AND r.date >= $%d", argIdx)
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil && *filter.EndDate != "" {
		baseWhere += fmt.Sprintf(" AND r.date <= $%d", argIdx)
		args = append(args, *filter.EndDate)
		argIdx++
	}

	q := GetQuerier(ctx, r.db)

	countQuery := "SELECT COUNT(*) FROM attendance_regularizations r WHERE " + baseWhere
	var total int64
	if err := q.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count regularization requests: %w", err)
	}

	selectQuery := fmt.Sprintf(`
		SELECT `+regularizationColumns+`,
			   e.full_name AS employee_name,
			   e.code AS employee_code
		FROM attendance_regularizations r
		LEFT JOIN employees e ON e.id = r.employee_id
		WHERE %s
		ORDER BY r.created_at DESC
		LIMIT $%d OFFSET $%d
	`, baseWhere, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, selectQuery, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to query regularization requests: %w", err)
	}
	defer rows.Close()

	var requests []regularization.Regularization
	for rows.Next() {
		req, err := scanRegularization(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan regularization request: %w", err)
		}
		requests = append(requests, req)
	}

	return requests, total, nil
}

// ListByEmployee implements regularization.Repository.
func (r *regularizationRepository) ListByEmployee(ctx context.Context, employeeID string, filter regularization.Filter, companyID string) ([]regularization.Regularization, int64, error) {
	filter.EmployeeID = &employeeID
	return r.List(ctx, filter, companyID)
}

func scanRegularization(row pgx.Row) (regularization.Regularization, error) {
	var req regularization.Regularization
	var checkIn, checkOut *string
	err := row.Scan(
		&req.ID, &req.EmployeeID, &req.CompanyID, &req.Date, &req.RequestType,
		&checkIn, &checkOut,
		&req.Reason, &req.Status, &req.ReviewerID, &req.ReviewNote, &req.ReviewedAt,
		&req.BeforeSnapshot, &req.AfterSnapshot,
		&req.CreatedByID, &req.CreatedAt, &req.UpdatedAt,
		&req.EmployeeName, &req.EmployeeCode,
	)
	if err != nil {
		return regularization.Regularization{}, err
	}
	if req.RequestedCheckInTime, err = parseWallClock(checkIn); err != nil {
		return regularization.Regularization{}, err
	}
	if req.RequestedCheckOutTime, err = parseWallClock(checkOut); err != nil {
		return regularization.Regularization{}, err
	}
	return req, nil
}

func parseWallClock(s *string) (*time.Time, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	t, err := time.Parse("15:04:05", *s)
	if err != nil {
		return nil, fmt.Errorf("invalid wall clock value %q: %w", *s, err)
	}
	return &t, nil
}

// wallClock renders a time-of-day value for a TIME column.
func wallClock(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format("15:04:05")
	return &s
}
