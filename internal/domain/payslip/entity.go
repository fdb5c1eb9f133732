package payslip

import (
	"fmt"
	"time"

	"github.com/cmlabs-hris/salary-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/salary-engine-go/internal/domain/salarytemplate"
	"github.com/shopspring/decimal"
)

// Wage is the pay basis of one employee for one computation.
type Wage struct {
	Category      employee.Category
	SubCategory   *employee.SubCategory
	RatePerDay    *decimal.Decimal
	MonthlySalary *decimal.Decimal
	PFEnrolled    bool
	ESICEnrolled  bool
}

type Period struct {
	Year       int
	Month      time.Month
	DaysWorked *int
}

func (p Period) String() string {
	return fmt.Sprintf("%04d-%02d", p.Year, int(p.Month))
}

// Line is one monetary field as it landed on the payslip. SkippedReason is
// set when the field was zeroed instead of read, e.g. PF for an employee not
// enrolled in the scheme.
type Line struct {
	Key           string              `json:"key"`
	Label         string              `json:"label"`
	Kind          salarytemplate.Kind `json:"kind"`
	Amount        decimal.Decimal     `json:"amount"`
	SkippedReason string              `json:"skipped_reason,omitempty"`
}

const (
	SkippedNotPFEnrolled   = "NOT_PF_ENROLLED"
	SkippedNotESICEnrolled = "NOT_ESIC_ENROLLED"
)

type Earnings struct {
	Basic          decimal.Decimal
	Allowance      decimal.Decimal
	OtherAllowance decimal.Decimal
	Other          decimal.Decimal
	GrossEarning   decimal.Decimal
	Lines          []Line
}

type Deductions struct {
	EPFContribution  decimal.Decimal
	ESICContribution decimal.Decimal
	Advance          decimal.Decimal
	Other            decimal.Decimal
	GrossDeduction   decimal.Decimal
	Lines            []Line
}

// BasicCheck compares the template basic with rate per day times days worked.
// A mismatch is reported, never corrected.
type BasicCheck struct {
	RatePerDay decimal.Decimal
	DaysWorked int
	Expected   decimal.Decimal
	Actual     decimal.Decimal
	Matches    bool
}

type Payslip struct {
	Period         Period
	Earnings       Earnings
	Deductions     Deductions
	NetPay         decimal.Decimal
	NegativeNetPay bool
	BasicCheck     *BasicCheck
	Information    map[string]string
}
