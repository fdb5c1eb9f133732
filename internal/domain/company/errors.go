package company

import "errors"

var (
	ErrCompanyNotFound     = errors.New("company not found")
	ErrCompanyInactive     = errors.New("company is inactive")
	ErrCompanyNameExists   = errors.New("company name already exists")
	ErrInvalidCompanyName  = errors.New("company name cannot be empty")
	ErrInvalidStatusChange = errors.New("invalid company status")
)
