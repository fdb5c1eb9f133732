package payslip

import (
	"time"

	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type GenerateRequest struct {
	EmployeeID string            `json:"-"`
	Year       int               `json:"year"`
	Month      int               `json:"month"`
	DaysWorked *int              `json:"days_worked,omitempty"`
	RateAsOf   *string           `json:"rate_as_of,omitempty"`
	Values     map[string]string `json:"values,omitempty"`
}

func (r *GenerateRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	errs = append(errs, validateRequestPeriod(r.Year, r.Month)...)
	if r.DaysWorked != nil && *r.DaysWorked < 0 {
		errs = append(errs, validator.ValidationError{Field: "days_worked", Message: "must not be negative"})
	}
	if r.RateAsOf != nil {
		if _, ok := validator.IsValidDate(*r.RateAsOf); !ok {
			errs = append(errs, validator.ValidationError{Field: "rate_as_of", Message: "must be in YYYY-MM-DD format"})
		}
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// AsOf is the date used to resolve the daily rate: rate_as_of when given,
// otherwise the first day of the period.
func (r *GenerateRequest) AsOf() time.Time {
	if r.RateAsOf != nil {
		if d, ok := validator.IsValidDate(*r.RateAsOf); ok {
			return d
		}
	}
	return time.Date(r.Year, time.Month(r.Month), 1, 0, 0, 0, 0, time.UTC)
}

type CompanyRequest struct {
	CompanyID string `json:"-"`
	Year      int    `json:"year"`
	Month     int    `json:"month"`
	// Values apply to every employee of the batch, over the template defaults.
	Values map[string]string `json:"values,omitempty"`
}

func (r *CompanyRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.CompanyID) {
		errs = append(errs, validator.ValidationError{Field: "company_id", Message: "is required"})
	}
	errs = append(errs, validateRequestPeriod(r.Year, r.Month)...)
	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateRequestPeriod(year, month int) validator.ValidationErrors {
	var errs validator.ValidationErrors
	if year < 1900 || year > 9999 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "must be a four digit year"})
	}
	if month < 1 || month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "must be between 1 and 12"})
	}
	return errs
}

type EarningsResponse struct {
	Basic          decimal.Decimal `json:"basic"`
	Allowance      decimal.Decimal `json:"allowance"`
	OtherAllowance decimal.Decimal `json:"other_allowance"`
	Other          decimal.Decimal `json:"other"`
	GrossEarning   decimal.Decimal `json:"gross_earning"`
	Lines          []Line          `json:"lines"`
}

type DeductionsResponse struct {
	EPFContribution  decimal.Decimal `json:"epf_contribution"`
	ESICContribution decimal.Decimal `json:"esic_contribution"`
	Advance          decimal.Decimal `json:"advance"`
	Other            decimal.Decimal `json:"other"`
	GrossDeduction   decimal.Decimal `json:"gross_deduction"`
	Lines            []Line          `json:"lines"`
}

type BasicCheckResponse struct {
	RatePerDay decimal.Decimal `json:"rate_per_day"`
	DaysWorked int             `json:"days_worked"`
	Expected   decimal.Decimal `json:"expected"`
	Actual     decimal.Decimal `json:"actual"`
	Matches    bool            `json:"matches"`
}

type PayslipResponse struct {
	EmployeeID     string              `json:"employee_id"`
	EmployeeName   string              `json:"employee_name"`
	CompanyID      string              `json:"company_id"`
	EmploymentID   string              `json:"employment_id"`
	Designation    string              `json:"designation"`
	Department     string              `json:"department"`
	Period         string              `json:"period"`
	DaysWorked     *int                `json:"days_worked,omitempty"`
	RateScheduleID *string             `json:"rate_schedule_id,omitempty"`
	Earnings       EarningsResponse    `json:"earnings"`
	Deductions     DeductionsResponse  `json:"deductions"`
	NetPay         decimal.Decimal     `json:"net_pay"`
	NegativeNetPay bool                `json:"negative_net_pay"`
	BasicCheck     *BasicCheckResponse `json:"basic_check,omitempty"`
	Information    map[string]string   `json:"information"`
}

// Context is the employee metadata echoed next to a computed payslip.
type Context struct {
	EmployeeID     string
	EmployeeName   string
	CompanyID      string
	EmploymentID   string
	Designation    string
	Department     string
	RateScheduleID *string
}

func ToResponse(c Context, p Payslip) PayslipResponse {
	resp := PayslipResponse{
		EmployeeID:     c.EmployeeID,
		EmployeeName:   c.EmployeeName,
		CompanyID:      c.CompanyID,
		EmploymentID:   c.EmploymentID,
		Designation:    c.Designation,
		Department:     c.Department,
		Period:         p.Period.String(),
		DaysWorked:     p.Period.DaysWorked,
		RateScheduleID: c.RateScheduleID,
		Earnings: EarningsResponse{
			Basic:          p.Earnings.Basic,
			Allowance:      p.Earnings.Allowance,
			OtherAllowance: p.Earnings.OtherAllowance,
			Other:          p.Earnings.Other,
			GrossEarning:   p.Earnings.GrossEarning,
			Lines:          nonNilLines(p.Earnings.Lines),
		},
		Deductions: DeductionsResponse{
			EPFContribution:  p.Deductions.EPFContribution,
			ESICContribution: p.Deductions.ESICContribution,
			Advance:          p.Deductions.Advance,
			Other:            p.Deductions.Other,
			GrossDeduction:   p.Deductions.GrossDeduction,
			Lines:            nonNilLines(p.Deductions.Lines),
		},
		NetPay:         p.NetPay,
		NegativeNetPay: p.NegativeNetPay,
		Information:    p.Information,
	}
	if p.BasicCheck != nil {
		resp.BasicCheck = &BasicCheckResponse{
			RatePerDay: p.BasicCheck.RatePerDay,
			DaysWorked: p.BasicCheck.DaysWorked,
			Expected:   p.BasicCheck.Expected,
			Actual:     p.BasicCheck.Actual,
			Matches:    p.BasicCheck.Matches,
		}
	}
	return resp
}

func nonNilLines(lines []Line) []Line {
	if lines == nil {
		return []Line{}
	}
	return lines
}

// Failure records why one employee of a batch got no payslip.
type Failure struct {
	EmployeeID   string            `json:"employee_id"`
	EmploymentID string            `json:"employment_id"`
	Code         string            `json:"code"`
	Message      string            `json:"message"`
	Details      map[string]string `json:"details,omitempty"`
}

type BatchResponse struct {
	CompanyID string            `json:"company_id"`
	Period    string            `json:"period"`
	Payslips  []PayslipResponse `json:"payslips"`
	Failures  []Failure         `json:"failures"`
}
