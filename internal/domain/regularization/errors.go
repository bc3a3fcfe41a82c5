package regularization

import "errors"

var (
	ErrRequestNotFound  = errors.New("regularization request not found")
	ErrDuplicatePending = errors.New("a pending regularization already exists for this date")
	ErrAlreadyProcessed = errors.New("regularization request has already been processed")
	ErrDateInFuture     = errors.New("regularization date cannot be in the future")
	ErrDateTooOld       = errors.New("regularization date is outside the allowed window")
	ErrNotRequestOwner  = errors.New("only the requesting employee may cancel this request")
)
