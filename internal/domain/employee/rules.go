package employee

import (
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/validator"
)

// ValidatePayBasis enforces the category invariant: CENTRAL and STATE employees
// carry a sub-category and a per-day rate, SPECIALIZED employees a monthly salary.
func (e Employee) ValidatePayBasis() error {
	var errs validator.ValidationErrors

	if !e.Category.IsValid() {
		errs = append(errs, validator.ValidationError{Field: "category", Message: "must be one of CENTRAL, STATE, SPECIALIZED"})
		return errs
	}

	if e.Category.IsRateBased() {
		if e.SubCategory == nil {
			errs = append(errs, validator.ValidationError{Field: "sub_category", Message: "is required for category " + string(e.Category)})
		} else if !e.SubCategory.IsValid() {
			errs = append(errs, validator.ValidationError{Field: "sub_category", Message: "must be one of SKILLED, UNSKILLED, HIGHSKILLED, SEMISKILLED"})
		}
		if e.RatePerDay == nil {
			errs = append(errs, validator.ValidationError{Field: "rate_per_day", Message: "is required for category " + string(e.Category)})
		} else if !e.RatePerDay.IsPositive() {
			errs = append(errs, validator.ValidationError{Field: "rate_per_day", Message: "must be greater than zero"})
		}
	} else {
		if e.SubCategory != nil {
			errs = append(errs, validator.ValidationError{Field: "sub_category", Message: "is not allowed for category SPECIALIZED"})
		}
		if e.MonthlySalary == nil {
			errs = append(errs, validator.ValidationError{Field: "monthly_salary", Message: "is required for category SPECIALIZED"})
		} else if !e.MonthlySalary.IsPositive() {
			errs = append(errs, validator.ValidationError{Field: "monthly_salary", Message: "must be greater than zero"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}
