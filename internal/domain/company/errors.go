package company

import "errors"

var (
	ErrCompanyNotFound  = errors.New("company not found")
	ErrCompanySuspended = errors.New("company is suspended")
)
