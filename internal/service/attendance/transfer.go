package attendance

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/attendance"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/employee"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/shift"
	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/pkg/timeutil"
)

var exportHeader = []string{
	"employee_code", "employee_id", "date", "status",
	"check_in_time", "check_out_time",
	"total_work_minutes", "late_minutes", "overtime_minutes",
	"shift_name", "notes", "employee_name",
}

// Export implements attendance.AttendanceService. Returns CSV bytes for the
// filtered range, unpaginated.
func (a *AttendanceServiceImpl) Export(ctx context.Context, filter attendance.DayFilter) ([]byte, error) {
	if err := filter.Validate(); err != nil {
		return nil, err
	}

	act, err := actorFromContext(ctx)
	if err != nil {
		return nil, err
	}

	days, err := a.DayRepository.ListForExport(ctx, filter, act.CompanyID)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance for export: %w", err)
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeader); err != nil {
		return nil, fmt.Errorf("failed to write export header: %w", err)
	}

	for _, d := range days {
		record := []string{
			derefString(d.EmployeeCode),
			d.EmployeeID,
			d.Date.In(a.loc).Format("2006-01-02"),
			string(d.Status),
			derefString(a.formatInstant(d.CheckInTime)),
			derefString(a.formatInstant(d.CheckOutTime)),
			fmt.Sprintf("%d", d.TotalWorkMinutes),
			fmt.Sprintf("%d", d.LateMinutes),
			fmt.Sprintf("%d", d.OvertimeMinutes),
			derefString(d.ShiftName),
			derefString(d.Notes),
			derefString(d.EmployeeName),
		}
		if err := w.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write export row: %w", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush export: %w", err)
	}

	return buf.Bytes(), nil
}

// importColumns maps header names to positions. Either employee_code or
// employee_email identifies the row's employee; code wins when both are set.
type importColumns struct {
	code, email, date, checkIn, checkOut, shiftName, notes int
}

func resolveImportColumns(header []string) (importColumns, error) {
	cols := importColumns{code: -1, email: -1, date: -1, checkIn: -1, checkOut: -1, shiftName: -1, notes: -1}
	for i, name := range header {
		switch strings.TrimSpace(strings.ToLower(name)) {
		case "employee_code":
			cols.code = i
		case "employee_email":
			cols.email = i
		case "date":
			cols.date = i
		case "check_in_time":
			cols.checkIn = i
		case "check_out_time":
			cols.checkOut = i
		case "shift_name":
			cols.shiftName = i
		case "notes":
			cols.notes = i
		}
	}
	if cols.code == -1 && cols.email == -1 {
		return cols, fmt.Errorf("header must contain employee_code or employee_email")
	}
	if cols.date == -1 {
		return cols, fmt.Errorf("header must contain date")
	}
	return cols, nil
}

func (c importColumns) field(record []string, idx int) string {
	if idx < 0 || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}

// Import implements attendance.AttendanceService. Rows are processed
// independently: a failed row is reported in the summary and does not stop
// the rest.
func (a *AttendanceServiceImpl) Import(ctx context.Context, data []byte) (attendance.ImportSummary, error) {
	act, err := actorFromContext(ctx)
	if err != nil {
		return attendance.ImportSummary{}, err
	}
	if err := a.requireActiveCompany(ctx, act.CompanyID); err != nil {
		return attendance.ImportSummary{}, err
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		return attendance.ImportSummary{}, fmt.Errorf("failed to read import header: %w", err)
	}
	cols, err := resolveImportColumns(header)
	if err != nil {
		return attendance.ImportSummary{}, err
	}

	summary := attendance.ImportSummary{}
	rowNum := 1 // header is row 1

	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		rowNum++
		if err != nil {
			summary.Total++
			summary.Failed++
			summary.Errors = append(summary.Errors, attendance.ImportRowError{
				Row:     rowNum,
				Message: fmt.Sprintf("malformed row: %v", err),
			})
			continue
		}

		summary.Total++
		if err := a.importRow(ctx, act, cols, record); err != nil {
			summary.Failed++
			summary.Errors = append(summary.Errors, attendance.ImportRowError{
				Row:     rowNum,
				Message: err.Error(),
			})
			continue
		}
		summary.Success++
	}

	return summary, nil
}

func (a *AttendanceServiceImpl) importRow(ctx context.Context, act actor, cols importColumns, record []string) error {
	emp, err := a.resolveImportEmployee(ctx, act.CompanyID, cols.field(record, cols.code), cols.field(record, cols.email))
	if err != nil {
		return err
	}

	date, err := timeutil.ParseDate(cols.field(record, cols.date), a.loc)
	if err != nil {
		return fmt.Errorf("invalid date: %v", err)
	}

	checkIn, err := parseOptionalInstant(cols.field(record, cols.checkIn))
	if err != nil {
		return fmt.Errorf("invalid check_in_time: %v", err)
	}
	checkOut, err := parseOptionalInstant(cols.field(record, cols.checkOut))
	if err != nil {
		return fmt.Errorf("invalid check_out_time: %v", err)
	}

	var shiftID *string
	if name := cols.field(record, cols.shiftName); name != "" {
		sh, err := a.WorkShiftRepository.GetByName(ctx, name, act.CompanyID)
		if err != nil {
			if errors.Is(err, shift.ErrShiftNotFound) {
				return fmt.Errorf("unknown shift %q", name)
			}
			return err
		}
		shiftID = &sh.ID
	}

	day, err := a.buildComputedDay(ctx, emp, date, checkIn, checkOut, shiftID, nil)
	if err != nil {
		return err
	}
	day.Source = attendance.SourceImport
	if notes := cols.field(record, cols.notes); notes != "" {
		day.Notes = &notes
	}
	day.CreatedByID = &act.UserID
	day.UpdatedByID = &act.UserID

	if _, err := a.DayRepository.Upsert(ctx, day); err != nil {
		return fmt.Errorf("failed to upsert day: %v", err)
	}
	return nil
}

func (a *AttendanceServiceImpl) resolveImportEmployee(ctx context.Context, companyID, code, email string) (employee.Employee, error) {
	if code != "" {
		emp, err := a.EmployeeRepository.GetByCode(ctx, code, companyID)
		if err == nil {
			return emp, nil
		}
		if !errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, err
		}
		if email == "" {
			return employee.Employee{}, fmt.Errorf("unknown employee code %q", code)
		}
	}
	if email != "" {
		emp, err := a.EmployeeRepository.GetByEmail(ctx, email, companyID)
		if err == nil {
			return emp, nil
		}
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return employee.Employee{}, fmt.Errorf("unknown employee email %q", email)
		}
		return employee.Employee{}, err
	}
	return employee.Employee{}, fmt.Errorf("row has neither employee_code nor employee_email")
}

func parseOptionalInstant(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
