package company

import "time"

// Company records are owned by the external org-management service; only the
// fields the attendance engine consumes are mapped here.
type Company struct {
	ID        string
	Name      string
	Status    string // "active" or "suspended"
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (c Company) IsActive() bool {
	return c.Status == "active"
}
