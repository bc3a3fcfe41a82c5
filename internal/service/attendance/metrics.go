package attendance

import (
	"time"

	"github.com/subhashadhikari057/hrm-fyp-sub000/internal/domain/attendance"
)

// MetricsInput feeds one metrics computation. Window is nil when no shift
// could be resolved.
type MetricsInput struct {
	CheckIn        *time.Time
	CheckOut       *time.Time
	Window         *Window
	GraceMinutes   int
	BreakMinutes   int
	HalfDayMinutes int
}

// Metrics is the derived attendance state for one day.
type Metrics struct {
	TotalWorkMinutes int
	LateMinutes      int
	OvertimeMinutes  int
	Status           attendance.Status
}

// ComputeMetrics derives worked/late/overtime minutes and the status
// classification. Half-day classification takes precedence over late.
func ComputeMetrics(in MetricsInput) Metrics {
	// No check-in or no resolvable shift window: nothing to measure.
	if in.CheckIn == nil || in.Window == nil {
		return Metrics{Status: attendance.StatusAbsent}
	}

	late := lateMinutes(*in.CheckIn, *in.Window, in.GraceMinutes)

	// Check-in only: worked/overtime not determinable yet.
	if in.CheckOut == nil {
		status := attendance.StatusPresent
		if late > 0 {
			status = attendance.StatusLate
		}
		return Metrics{LateMinutes: late, Status: status}
	}

	rawMinutes := int(in.CheckOut.Sub(*in.CheckIn).Minutes())
	if rawMinutes < 0 {
		rawMinutes = 0
	}
	worked := rawMinutes - in.BreakMinutes
	if worked < 0 {
		worked = 0
	}

	planned := in.Window.PlannedMinutes() - in.BreakMinutes

	overtime := 0
	if planned > 0 && worked > planned {
		overtime = worked - planned
	}

	var status attendance.Status
	switch {
	case worked < in.HalfDayMinutes:
		status = attendance.StatusHalfDay
	case late > 0:
		status = attendance.StatusLate
	default:
		status = attendance.StatusPresent
	}

	return Metrics{
		TotalWorkMinutes: worked,
		LateMinutes:      late,
		OvertimeMinutes:  overtime,
		Status:           status,
	}
}

// lateMinutes measures from the shift start, not from the grace limit: a
// check-in one minute past the grace period is grace+1 minutes late.
func lateMinutes(checkIn time.Time, w Window, graceMinutes int) int {
	graceLimit := w.Start.Add(time.Duration(graceMinutes) * time.Minute)
	if !checkIn.After(graceLimit) {
		return 0
	}
	return int(checkIn.Sub(w.Start).Minutes())
}
