package employee

import "errors"

var (
	ErrEmployeeNotFound     = errors.New("employee not found")
	ErrInvalidCategory      = errors.New("invalid employee category")
	ErrFutureDateNotAllowed = errors.New("date cannot be in the future")
)
