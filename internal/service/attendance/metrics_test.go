package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/attendance"
)

func TestComputeMetrics(t *testing.T) {
	loc := time.FixedZone("UTC+05:45", 5*3600+45*60)
	day := func(h, m int) time.Time {
		return time.Date(2026, 3, 11, h, m, 0, 0, loc)
	}
	ptr := func(tm time.Time) *time.Time { return &tm }

	window := &Window{Start: day(9, 0), End: day(17, 0)}

	tests := []struct {
		name string
		in   MetricsInput
		want Metrics
	}{
		{
			name: "no check-in is absent",
			in:   MetricsInput{Window: window, GraceMinutes: 10, HalfDayMinutes: 240},
			want: Metrics{Status: attendance.StatusAbsent},
		},
		{
			name: "no window is absent",
			in:   MetricsInput{CheckIn: ptr(day(9, 0)), GraceMinutes: 10, HalfDayMinutes: 240},
			want: Metrics{Status: attendance.StatusAbsent},
		},
		{
			name: "open day on time",
			in:   MetricsInput{CheckIn: ptr(day(9, 5)), Window: window, GraceMinutes: 10, HalfDayMinutes: 240},
			want: Metrics{Status: attendance.StatusPresent},
		},
		{
			name: "check-in at grace limit is on time",
			in:   MetricsInput{CheckIn: ptr(day(9, 10)), Window: window, GraceMinutes: 10, HalfDayMinutes: 240},
			want: Metrics{Status: attendance.StatusPresent},
		},
		{
			name: "one minute past grace is late from shift start",
			in:   MetricsInput{CheckIn: ptr(day(9, 11)), Window: window, GraceMinutes: 10, HalfDayMinutes: 240},
			want: Metrics{LateMinutes: 11, Status: attendance.StatusLate},
		},
		{
			name: "wide grace still counts lateness from shift start",
			in:   MetricsInput{CheckIn: ptr(day(9, 35)), Window: window, GraceMinutes: 30, HalfDayMinutes: 240},
			want: Metrics{LateMinutes: 35, Status: attendance.StatusLate},
		},
		{
			name: "full day with break deducted",
			in: MetricsInput{
				CheckIn:        ptr(day(9, 0)),
				CheckOut:       ptr(day(17, 0)),
				Window:         window,
				GraceMinutes:   10,
				BreakMinutes:   60,
				HalfDayMinutes: 240,
			},
			want: Metrics{TotalWorkMinutes: 420, Status: attendance.StatusPresent},
		},
		{
			name: "overtime past planned minutes",
			in: MetricsInput{
				CheckIn:        ptr(day(9, 0)),
				CheckOut:       ptr(day(19, 0)),
				Window:         window,
				GraceMinutes:   10,
				BreakMinutes:   60,
				HalfDayMinutes: 240,
			},
			want: Metrics{TotalWorkMinutes: 540, OvertimeMinutes: 120, Status: attendance.StatusPresent},
		},
		{
			name: "overtime with no break configured",
			in: MetricsInput{
				CheckIn:        ptr(day(9, 0)),
				CheckOut:       ptr(day(18, 30)),
				Window:         window,
				GraceMinutes:   10,
				HalfDayMinutes: 240,
			},
			want: Metrics{TotalWorkMinutes: 570, OvertimeMinutes: 90, Status: attendance.StatusPresent},
		},
		{
			name: "no overtime when planned is zero",
			in: MetricsInput{
				CheckIn:        ptr(day(9, 0)),
				CheckOut:       ptr(day(19, 0)),
				Window:         &Window{Start: day(9, 0), End: day(9, 30)},
				GraceMinutes:   10,
				BreakMinutes:   60,
				HalfDayMinutes: 240,
			},
			want: Metrics{TotalWorkMinutes: 540, Status: attendance.StatusPresent},
		},
		{
			name: "worked exactly half-day minutes is a full day",
			in: MetricsInput{
				CheckIn:        ptr(day(9, 0)),
				CheckOut:       ptr(day(13, 0)),
				Window:         window,
				GraceMinutes:   10,
				HalfDayMinutes: 240,
			},
			want: Metrics{TotalWorkMinutes: 240, Status: attendance.StatusPresent},
		},
		{
			name: "half day beats late",
			in: MetricsInput{
				CheckIn:        ptr(day(11, 0)),
				CheckOut:       ptr(day(13, 0)),
				Window:         window,
				GraceMinutes:   10,
				HalfDayMinutes: 240,
			},
			want: Metrics{TotalWorkMinutes: 120, LateMinutes: 120, Status: attendance.StatusHalfDay},
		},
		{
			name: "late full day",
			in: MetricsInput{
				CheckIn:        ptr(day(10, 0)),
				CheckOut:       ptr(day(18, 0)),
				Window:         window,
				GraceMinutes:   10,
				HalfDayMinutes: 240,
			},
			want: Metrics{TotalWorkMinutes: 480, LateMinutes: 60, Status: attendance.StatusLate},
		},
		{
			name: "break longer than raw work clamps to zero",
			in: MetricsInput{
				CheckIn:        ptr(day(9, 0)),
				CheckOut:       ptr(day(9, 30)),
				Window:         window,
				GraceMinutes:   10,
				BreakMinutes:   60,
				HalfDayMinutes: 240,
			},
			want: Metrics{TotalWorkMinutes: 0, Status: attendance.StatusHalfDay},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ComputeMetrics(tt.in))
		})
	}
}

func TestComputeMetricsOvernight(t *testing.T) {
	loc := time.FixedZone("UTC+05:45", 5*3600+45*60)
	checkIn := time.Date(2026, 3, 11, 22, 0, 0, 0, loc)
	checkOut := time.Date(2026, 3, 12, 6, 0, 0, 0, loc)
	window := &Window{
		Start: time.Date(2026, 3, 11, 22, 0, 0, 0, loc),
		End:   time.Date(2026, 3, 12, 6, 0, 0, 0, loc),
	}

	got := ComputeMetrics(MetricsInput{
		CheckIn:        &checkIn,
		CheckOut:       &checkOut,
		Window:         window,
		GraceMinutes:   10,
		BreakMinutes:   30,
		HalfDayMinutes: 240,
	})

	assert.Equal(t, 450, got.TotalWorkMinutes)
	assert.Equal(t, 0, got.LateMinutes)
	assert.Equal(t, 0, got.OvertimeMinutes)
	assert.Equal(t, attendance.StatusPresent, got.Status)
}
