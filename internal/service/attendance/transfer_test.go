package attendance

import (
	"bytes"
	"encoding/csv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/attendance"
)

func TestExport(t *testing.T) {
	f := newSvcFixture(t)
	ctx := authContext(t, managerClaims())

	_, err := f.svc.ManualUpsert(ctx, attendance.ManualUpsertRequest{
		EmployeeID:   "emp-1",
		Date:         "2026-03-10",
		CheckInTime:  strPtr("2026-03-10T09:00:00+05:45"),
		CheckOutTime: strPtr("2026-03-10T17:00:00+05:45"),
	})
	require.NoError(t, err)
	_, err = f.svc.ManualUpsert(ctx, attendance.ManualUpsertRequest{
		EmployeeID:     "emp-2",
		Date:           "2026-03-10",
		StatusOverride: strPtr(string(attendance.StatusOnLeave)),
	})
	require.NoError(t, err)

	data, err := f.svc.Export(ctx, attendance.DayFilter{})
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{
		"employee_code", "employee_id", "date", "status",
		"check_in_time", "check_out_time",
		"total_work_minutes", "late_minutes", "overtime_minutes",
		"shift_name", "notes", "employee_name",
	}, records[0])

	statuses := map[string]bool{}
	ids := map[string]bool{}
	for _, rec := range records[1:] {
		ids[rec[1]] = true
		assert.Equal(t, "2026-03-10", rec[2])
		statuses[rec[3]] = true
	}
	assert.True(t, ids["emp-1"])
	assert.True(t, ids["emp-2"])
	assert.True(t, statuses[string(attendance.StatusPresent)])
	assert.True(t, statuses[string(attendance.StatusOnLeave)])
}

func TestImport(t *testing.T) {
	f := newSvcFixture(t)
	ctx := authContext(t, managerClaims())

	csvData := []byte("employee_code,date,check_in_time,check_out_time,shift_name,notes\n" +
		"E001,2026-03-10,2026-03-10T09:00:00+05:45,2026-03-10T17:00:00+05:45,Day,migrated\n" +
		"NOPE,2026-03-10,,,,\n" +
		"E002,2026-03-10,not-a-time,,,\n" +
		"E001,10/03/2026,,,,\n" +
		"E001,2026-03-10,,,Graveyard,\n")

	summary, err := f.svc.Import(ctx, csvData)
	require.NoError(t, err)

	assert.Equal(t, 5, summary.Total)
	assert.Equal(t, 1, summary.Success)
	assert.Equal(t, 4, summary.Failed)
	require.Len(t, summary.Errors, 4)

	// row numbers are 1-based and count the header
	assert.Equal(t, 3, summary.Errors[0].Row)
	assert.Contains(t, summary.Errors[0].Message, "unknown employee code")
	assert.Equal(t, 4, summary.Errors[1].Row)
	assert.Contains(t, summary.Errors[1].Message, "check_in_time")
	assert.Equal(t, 5, summary.Errors[2].Row)
	assert.Contains(t, summary.Errors[2].Message, "invalid date")
	assert.Equal(t, 6, summary.Errors[3].Row)
	assert.Contains(t, summary.Errors[3].Message, "unknown shift")

	date := time.Date(2026, 3, 10, 0, 0, 0, 0, f.loc)
	saved, err := f.days.GetByEmployeeAndDate(ctx, "emp-1", date, "co-1")
	require.NoError(t, err)
	require.NotNil(t, saved)
	assert.Equal(t, attendance.SourceImport, saved.Source)
	assert.Equal(t, 480, saved.TotalWorkMinutes)
	require.NotNil(t, saved.Notes)
	assert.Equal(t, "migrated", *saved.Notes)
}

func TestImportByEmail(t *testing.T) {
	f := newSvcFixture(t)
	ctx := authContext(t, managerClaims())

	csvData := []byte("employee_email,date,check_in_time\n" +
		"bikash@example.com,2026-03-10,2026-03-10T09:05:00+05:45\n")

	summary, err := f.svc.Import(ctx, csvData)
	require.NoError(t, err)
	assert.Equal(t, 1, summary.Success)

	date := time.Date(2026, 3, 10, 0, 0, 0, 0, f.loc)
	saved, err := f.days.GetByEmployeeAndDate(ctx, "emp-2", date, "co-1")
	require.NoError(t, err)
	require.NotNil(t, saved)
}

func TestImportHeaderMissingIdentifier(t *testing.T) {
	f := newSvcFixture(t)
	ctx := authContext(t, managerClaims())

	_, err := f.svc.Import(ctx, []byte("date,notes\n2026-03-10,x\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "employee_code or employee_email")
}
