package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/shift"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/pkg/database"
)

// workShiftRepository reads the work_shifts table maintained by the shift
// CRUD service. Start and end times are stored as wall-clock values.
type workShiftRepository struct {
	db *database.DB
}

func NewWorkShiftRepository(db *database.DB) shift.WorkShiftRepository {
	return &workShiftRepository{db: db}
}

func scanWorkShift(row pgx.Row) (shift.WorkShift, error) {
	var s shift.WorkShift
	var startTime, endTime string
	err := row.Scan(
		&s.ID, &s.CompanyID, &s.Name, &startTime, &endTime,
		&s.IsActive, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return shift.WorkShift{}, err
	}

	start, err := parseWallClock(&startTime)
	if err != nil {
		return shift.WorkShift{}, err
	}
	end, err := parseWallClock(&endTime)
	if err != nil {
		return shift.WorkShift{}, err
	}
	s.StartTime = *start
	s.EndTime = *end
	return s, nil
}

// GetByID implements shift.WorkShiftRepository.
func (r *workShiftRepository) GetByID(ctx context.Context, id string, companyID string) (shift.WorkShift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, name, start_time, end_time,
			   is_active, created_at, updated_at
		FROM work_shifts
		WHERE id = $1
		  AND company_id = $2
	`

	s, err := scanWorkShift(q.QueryRow(ctx, query, id, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.WorkShift{}, shift.ErrShiftNotFound
		}
		return shift.WorkShift{}, fmt.Errorf("failed to get work shift by ID: %w", err)
	}

	return s, nil
}

// GetByName implements shift.WorkShiftRepository.
func (r *workShiftRepository) GetByName(ctx context.Context, name string, companyID string) (shift.WorkShift, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, name, start_time, end_time,
			   is_active, created_at, updated_at
		FROM work_shifts
		WHERE name = $1
		  AND company_id = $2
		LIMIT 1
	`

	s, err := scanWorkShift(q.QueryRow(ctx, query, name, companyID))
	if err != nil {
		if err == pgx.ErrNoRows {
			return shift.WorkShift{}, shift.ErrShiftNotFound
		}
		return shift.WorkShift{}, fmt.Errorf("failed to get work shift by name: %w", err)
	}

	return s, nil
}
