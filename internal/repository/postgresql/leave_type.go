package postgresql

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/leave"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/pkg/database"
)

// leaveTypeRepository is read-only; leave types are managed elsewhere.
type leaveTypeRepository struct {
	db *database.DB
}

func NewLeaveTypeRepository(db *database.DB) leave.LeaveTypeRepository {
	return &leaveTypeRepository{db: db}
}

// GetByID implements leave.LeaveTypeRepository.
func (r *leaveTypeRepository) GetByID(ctx context.Context, id string, companyID string) (leave.LeaveType, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, company_id, name, is_active
		FROM leave_types
		WHERE id = $1
		  AND company_id = $2
	`

	var lt leave.LeaveType
	err := q.QueryRow(ctx, query, id, companyID).Scan(
		&lt.ID, &lt.CompanyID, &lt.Name, &lt.IsActive,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return leave.LeaveType{}, leave.ErrLeaveTypeNotFound
		}
		return leave.LeaveType{}, fmt.Errorf("failed to get leave type: %w", err)
	}

	return lt, nil
}
