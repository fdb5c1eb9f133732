package employment

import (
	"time"

	"github.com/shopspring/decimal"
)

// History is one assignment of an employee to a company. Records are never
// deleted; terminating one flips it to INACTIVE with a leaving date.
type History struct {
	ID                string
	EmployeeID        string
	CompanyID         string
	Designation       string
	Department        string
	Salary            decimal.Decimal
	JoiningDate       time.Time
	LeavingDate       *time.Time
	Status            Status
	TerminationReason *string
	CreatedAt         time.Time
	UpdatedAt         time.Time
}

type Status string

const (
	StatusActive   Status = "ACTIVE"
	StatusInactive Status = "INACTIVE"
)

func (s Status) IsValid() bool {
	return s == StatusActive || s == StatusInactive
}

func (h History) IsActive() bool {
	return h.Status == StatusActive
}
