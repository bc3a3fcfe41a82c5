package user

import "errors"

var (
	ErrInvalidToken          = errors.New("invalid or expired token")
	ErrManagerAccessRequired = errors.New("manager or owner role required")
	ErrCompanyIDRequired     = errors.New("no company associated with this user")
)
