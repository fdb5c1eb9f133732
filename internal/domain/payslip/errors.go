package payslip

import "errors"

var (
	ErrMissingBasicPay = errors.New("no enabled basic pay field")
	ErrMissingValue    = errors.New("mandatory field has no value")
	ErrNonNumericValue = errors.New("monetary field is not numeric")
	ErrNegativeAmount  = errors.New("monetary values must not be negative")
	ErrInvalidPeriod   = errors.New("invalid pay period")
)
