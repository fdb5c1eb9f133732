package employee

import (
	"strings"

	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateEmployeeRequest struct {
	FullName       string           `json:"full_name"`
	Category       string           `json:"category"`
	SubCategory    *string          `json:"sub_category,omitempty"`
	RatePerDay     *decimal.Decimal `json:"rate_per_day,omitempty"`
	MonthlySalary  *decimal.Decimal `json:"monthly_salary,omitempty"`
	PFEnrolled     bool             `json:"pf_enrolled"`
	ESICEnrolled   bool             `json:"esic_enrolled"`
	OnboardingDate string           `json:"onboarding_date"`
}

func (r *CreateEmployeeRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.FullName) {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "is required"})
	} else if len(r.FullName) > 255 {
		errs = append(errs, validator.ValidationError{Field: "full_name", Message: "must not exceed 255 characters"})
	}
	if validator.IsEmpty(r.OnboardingDate) {
		errs = append(errs, validator.ValidationError{Field: "onboarding_date", Message: "is required"})
	} else if _, ok := validator.IsValidDate(r.OnboardingDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "onboarding_date", Message: "must be in YYYY-MM-DD format"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToEntity builds the employee and checks the pay basis invariant.
func (r *CreateEmployeeRequest) ToEntity() (Employee, error) {
	onboarding, _ := validator.IsValidDate(r.OnboardingDate)
	e := Employee{
		FullName:       strings.TrimSpace(r.FullName),
		Category:       Category(strings.ToUpper(r.Category)),
		RatePerDay:     r.RatePerDay,
		MonthlySalary:  r.MonthlySalary,
		PFEnrolled:     r.PFEnrolled,
		ESICEnrolled:   r.ESICEnrolled,
		OnboardingDate: onboarding,
	}
	if r.SubCategory != nil && *r.SubCategory != "" {
		sc := SubCategory(strings.ToUpper(*r.SubCategory))
		e.SubCategory = &sc
	}
	if err := e.ValidatePayBasis(); err != nil {
		return Employee{}, err
	}
	return e, nil
}

type UpdateEmployeeRequest struct {
	ID            string           `json:"-"`
	FullName      *string          `json:"full_name,omitempty"`
	Category      *string          `json:"category,omitempty"`
	SubCategory   *string          `json:"sub_category,omitempty"`
	RatePerDay    *decimal.Decimal `json:"rate_per_day,omitempty"`
	MonthlySalary *decimal.Decimal `json:"monthly_salary,omitempty"`
	PFEnrolled    *bool            `json:"pf_enrolled,omitempty"`
	ESICEnrolled  *bool            `json:"esic_enrolled,omitempty"`
}

// Apply merges the request into current and re-checks the pay basis.
// Switching to SPECIALIZED drops sub-category and rate; switching to a
// rate-based category drops the monthly salary.
func (r *UpdateEmployeeRequest) Apply(current Employee) (Employee, error) {
	next := current
	if r.FullName != nil {
		if validator.IsEmpty(*r.FullName) {
			return Employee{}, validator.Single("full_name", "must not be empty")
		}
		next.FullName = strings.TrimSpace(*r.FullName)
	}
	if r.Category != nil {
		next.Category = Category(strings.ToUpper(*r.Category))
		if next.Category.IsRateBased() {
			next.MonthlySalary = nil
		} else {
			next.SubCategory = nil
			next.RatePerDay = nil
		}
	}
	if r.SubCategory != nil {
		sc := SubCategory(strings.ToUpper(*r.SubCategory))
		next.SubCategory = &sc
	}
	if r.RatePerDay != nil {
		next.RatePerDay = r.RatePerDay
	}
	if r.MonthlySalary != nil {
		next.MonthlySalary = r.MonthlySalary
	}
	if r.PFEnrolled != nil {
		next.PFEnrolled = *r.PFEnrolled
	}
	if r.ESICEnrolled != nil {
		next.ESICEnrolled = *r.ESICEnrolled
	}
	if err := next.ValidatePayBasis(); err != nil {
		return Employee{}, err
	}
	return next, nil
}

type EmployeeResponse struct {
	ID             string           `json:"id"`
	FullName       string           `json:"full_name"`
	Category       string           `json:"category"`
	SubCategory    *string          `json:"sub_category,omitempty"`
	RatePerDay     *decimal.Decimal `json:"rate_per_day,omitempty"`
	MonthlySalary  *decimal.Decimal `json:"monthly_salary,omitempty"`
	PFEnrolled     bool             `json:"pf_enrolled"`
	ESICEnrolled   bool             `json:"esic_enrolled"`
	OnboardingDate string           `json:"onboarding_date"`
}

func ToResponse(e Employee) EmployeeResponse {
	var sub *string
	if e.SubCategory != nil {
		s := string(*e.SubCategory)
		sub = &s
	}
	return EmployeeResponse{
		ID:             e.ID,
		FullName:       e.FullName,
		Category:       string(e.Category),
		SubCategory:    sub,
		RatePerDay:     e.RatePerDay,
		MonthlySalary:  e.MonthlySalary,
		PFEnrolled:     e.PFEnrolled,
		ESICEnrolled:   e.ESICEnrolled,
		OnboardingDate: e.OnboardingDate.Format("2006-01-02"),
	}
}
