package employment

import "errors"

var (
	ErrEmploymentNotFound     = errors.New("employment record not found")
	ErrActiveEmploymentExists = errors.New("employee already has an active employment")
	ErrEmploymentNotActive    = errors.New("employment is not active")
	ErrNoActiveEmployment     = errors.New("employee has no active employment")
)
