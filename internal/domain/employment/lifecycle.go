package employment

import (
	"time"

	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/utils"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// ActiveCount counts ACTIVE records in an employee's history.
func ActiveCount(history []History) int {
	n := 0
	for _, h := range history {
		if h.IsActive() {
			n++
		}
	}
	return n
}

// Current returns the ACTIVE record, if any.
func Current(history []History) (History, bool) {
	for _, h := range history {
		if h.IsActive() {
			return h, true
		}
	}
	return History{}, false
}

// CheckAssign rejects a new assignment while another one is ACTIVE.
func CheckAssign(history []History) error {
	if active, ok := Current(history); ok {
		return activeConflict(active)
	}
	return nil
}

// ApplyTerminate returns rec ended on leavingDate.
func ApplyTerminate(rec History, leavingDate time.Time, reason *string) (History, error) {
	if !rec.IsActive() {
		return History{}, apperror.InvalidState(ErrEmploymentNotActive, "employment", rec.ID,
			"only an ACTIVE employment can be terminated")
	}
	leaving := utils.DateOnly(leavingDate)
	if leaving.Before(rec.JoiningDate) {
		return History{}, leavingBeforeJoining()
	}

	next := rec
	next.Status = StatusInactive
	next.LeavingDate = &leaving
	next.TerminationReason = reason
	return next, nil
}

// Changes is a partial edit of an employment record.
type Changes struct {
	CompanyID   *string
	Designation *string
	Department  *string
	Salary      *decimal.Decimal
	JoiningDate *time.Time
	LeavingDate *time.Time
	Status      *Status
}

// ApplyUpdate edits rec within the context of the employee's full history.
// ACTIVE -> INACTIVE needs a leaving date; INACTIVE -> ACTIVE is refused while
// a sibling is ACTIVE and clears the leaving date.
func ApplyUpdate(history []History, rec History, c Changes) (History, error) {
	next := rec

	if c.CompanyID != nil {
		next.CompanyID = *c.CompanyID
	}
	if c.Designation != nil {
		next.Designation = *c.Designation
	}
	if c.Department != nil {
		next.Department = *c.Department
	}
	if c.Salary != nil {
		if !c.Salary.IsPositive() {
			return History{}, validator.Single("salary", "must be greater than zero")
		}
		next.Salary = *c.Salary
	}
	if c.JoiningDate != nil {
		next.JoiningDate = utils.DateOnly(*c.JoiningDate)
	}
	if c.LeavingDate != nil {
		leaving := utils.DateOnly(*c.LeavingDate)
		next.LeavingDate = &leaving
	}

	if c.Status != nil && *c.Status != rec.Status {
		switch *c.Status {
		case StatusInactive:
			if next.LeavingDate == nil {
				return History{}, validator.Single("leaving_date", "is required when setting status to INACTIVE")
			}
		case StatusActive:
			for _, h := range history {
				if h.ID != rec.ID && h.IsActive() {
					return History{}, activeConflict(h)
				}
			}
			next.LeavingDate = nil
			next.TerminationReason = nil
		default:
			return History{}, validator.Single("status", "must be ACTIVE or INACTIVE")
		}
		next.Status = *c.Status
	}

	if next.IsActive() && next.LeavingDate != nil {
		return History{}, validator.Single("leaving_date", "must be empty while the employment is ACTIVE")
	}
	if next.LeavingDate != nil && next.LeavingDate.Before(next.JoiningDate) {
		return History{}, leavingBeforeJoining()
	}
	return next, nil
}

func activeConflict(active History) error {
	return apperror.Conflict(ErrActiveEmploymentExists, "employment", active.ID,
		"employee already has an active employment at company "+active.CompanyID)
}

func leavingBeforeJoining() error {
	return validator.Single("leaving_date", "must not be before joining date")
}
