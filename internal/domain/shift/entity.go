package shift

import "time"

// WorkShift is owned by the external shift CRUD service. StartTime and
// EndTime are wall-clock times of day with no date; when EndTime is not
// after StartTime the shift crosses midnight.
type WorkShift struct {
	ID        string
	CompanyID string
	Name      string
	StartTime time.Time
	EndTime   time.Time
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsOvernight reports whether the shift spans midnight.
func (s WorkShift) IsOvernight() bool {
	end := s.EndTime
	start := s.StartTime
	endMinutes := end.Hour()*60 + end.Minute()
	startMinutes := start.Hour()*60 + start.Minute()
	return endMinutes <= startMinutes
}
