package attendance

import (
	"time"
)

// Window is one concrete occurrence of a work shift: absolute start and end
// instants on a given civil day.
type Window struct {
	Start time.Time
	End   time.Time
}

// PlannedMinutes is the scheduled length of the occurrence.
func (w Window) PlannedMinutes() int {
	return int(w.End.Sub(w.Start).Minutes())
}

// ResolveShiftWindow aligns a shift's wall-clock start/end onto the civil
// day of ref (in loc) and returns the occurrence ref falls within or most
// recently preceded.
//
// When the shift end is not after its start the shift crosses midnight and
// the end lands on the following day. For such shifts an early-hours ref
// (say 01:00) belongs to the occurrence that started the previous evening,
// so if ref precedes today's start and fits inside yesterday's occurrence,
// yesterday's occurrence wins.
func ResolveShiftWindow(shiftStart, shiftEnd time.Time, ref time.Time, loc *time.Location) Window {
	local := ref.In(loc)

	start := time.Date(
		local.Year(), local.Month(), local.Day(),
		shiftStart.Hour(), shiftStart.Minute(), shiftStart.Second(), 0,
		loc,
	)
	end := time.Date(
		local.Year(), local.Month(), local.Day(),
		shiftEnd.Hour(), shiftEnd.Minute(), shiftEnd.Second(), 0,
		loc,
	)

	overnight := !end.After(start)
	if overnight {
		end = end.Add(24 * time.Hour)
	}

	if overnight && local.Before(start) {
		prevStart := start.Add(-24 * time.Hour)
		prevEnd := end.Add(-24 * time.Hour)
		if !local.Before(prevStart) && local.Before(prevEnd) {
			return Window{Start: prevStart, End: prevEnd}
		}
	}

	return Window{Start: start, End: end}
}
