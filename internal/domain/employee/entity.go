package employee

import (
	"time"

	"github.com/shopspring/decimal"
)

type Employee struct {
	ID             string
	FullName       string
	Category       Category
	SubCategory    *SubCategory
	RatePerDay     *decimal.Decimal
	MonthlySalary  *decimal.Decimal
	PFEnrolled     bool
	ESICEnrolled   bool
	OnboardingDate time.Time
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Category is the pay basis of an employee.
type Category string

const (
	CategoryCentral     Category = "CENTRAL"
	CategoryState       Category = "STATE"
	CategorySpecialized Category = "SPECIALIZED"
)

func (c Category) IsValid() bool {
	switch c {
	case CategoryCentral, CategoryState, CategorySpecialized:
		return true
	}
	return false
}

// IsRateBased reports whether pay follows a per-day rate schedule.
func (c Category) IsRateBased() bool {
	return c == CategoryCentral || c == CategoryState
}

type SubCategory string

const (
	SubCategorySkilled     SubCategory = "SKILLED"
	SubCategoryUnskilled   SubCategory = "UNSKILLED"
	SubCategoryHighSkilled SubCategory = "HIGHSKILLED"
	SubCategorySemiSkilled SubCategory = "SEMISKILLED"
)

func (s SubCategory) IsValid() bool {
	switch s {
	case SubCategorySkilled, SubCategoryUnskilled, SubCategoryHighSkilled, SubCategorySemiSkilled:
		return true
	}
	return false
}
