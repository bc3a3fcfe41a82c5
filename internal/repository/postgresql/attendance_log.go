package postgresql

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/attendance"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/pkg/database"
)

// attendanceLogRepository is append-only: no update or delete statements
// exist for attendance_logs.
type attendanceLogRepository struct {
	db *database.DB
}

func NewAttendanceLogRepository(db *database.DB) attendance.LogRepository {
	return &attendanceLogRepository{db: db}
}

// Append implements attendance.LogRepository.
func (r *attendanceLogRepository) Append(ctx context.Context, log attendance.Log) (attendance.Log, error) {
	q := GetQuerier(ctx, r.db)

	log.ID = uuid.New().String()

	query := `
		INSERT INTO attendance_logs (
			id, attendance_day_id, employee_id, company_id,
			type, method, timestamp, ip_address, user_agent, created_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8, $9, NOW()
		) RETURNING id, created_at
	`

	err := q.QueryRow(ctx, query,
		log.ID,
		log.AttendanceDayID,
		log.EmployeeID,
		log.CompanyID,
		log.Type,
		log.Method,
		log.Timestamp,
		log.IPAddress,
		log.UserAgent,
	).Scan(&log.ID, &log.CreatedAt)

	if err != nil {
		return attendance.Log{}, fmt.Errorf("failed to append attendance log: %w", err)
	}

	return log, nil
}

// ListByDay implements attendance.LogRepository.
func (r *attendanceLogRepository) ListByDay(ctx context.Context, dayID string, companyID string) ([]attendance.Log, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, attendance_day_id, employee_id, company_id,
			   type, method, timestamp, ip_address, user_agent, created_at
		FROM attendance_logs
		WHERE attendance_day_id = $1
		  AND company_id = $2
		ORDER BY timestamp ASC
	`

	rows, err := q.Query(ctx, query, dayID, companyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance logs: %w", err)
	}
	defer rows.Close()

	var logs []attendance.Log
	for rows.Next() {
		var l attendance.Log
		err := rows.Scan(
			&l.ID, &l.AttendanceDayID, &l.EmployeeID, &l.CompanyID,
			&l.Type, &l.Method, &l.Timestamp, &l.IPAddress, &l.UserAgent, &l.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance log: %w", err)
		}
		logs = append(logs, l)
	}

	return logs, nil
}
