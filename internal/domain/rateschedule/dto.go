package rateschedule

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/salary-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/utils"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateRateScheduleRequest struct {
	Category      string          `json:"category"`
	SubCategory   string          `json:"sub_category"`
	RatePerDay    decimal.Decimal `json:"rate_per_day"`
	EffectiveFrom string          `json:"effective_from"`
	EffectiveTo   *string         `json:"effective_to,omitempty"`
}

func (r *CreateRateScheduleRequest) Validate() error {
	var errs validator.ValidationErrors

	if !employee.Category(strings.ToUpper(r.Category)).IsRateBased() {
		errs = append(errs, validator.ValidationError{Field: "category", Message: "must be CENTRAL or STATE"})
	}
	if !employee.SubCategory(strings.ToUpper(r.SubCategory)).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "sub_category", Message: "must be one of SKILLED, UNSKILLED, HIGHSKILLED, SEMISKILLED"})
	}
	if !r.RatePerDay.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "rate_per_day", Message: "must be greater than zero"})
	}

	from, fromOK := validator.IsValidDate(r.EffectiveFrom)
	if !fromOK {
		errs = append(errs, validator.ValidationError{Field: "effective_from", Message: "must be in YYYY-MM-DD format"})
	}
	if r.EffectiveTo != nil && *r.EffectiveTo != "" {
		to, ok := validator.IsValidDate(*r.EffectiveTo)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "effective_to", Message: "must be in YYYY-MM-DD format"})
		} else if fromOK && to.Before(from) {
			errs = append(errs, validator.ValidationError{Field: "effective_to", Message: ErrInvalidInterval.Error()})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToEntity assumes Validate has passed.
func (r *CreateRateScheduleRequest) ToEntity() Schedule {
	from, _ := validator.IsValidDate(r.EffectiveFrom)
	s := Schedule{
		Category:      employee.Category(strings.ToUpper(r.Category)),
		SubCategory:   employee.SubCategory(strings.ToUpper(r.SubCategory)),
		RatePerDay:    r.RatePerDay,
		EffectiveFrom: utils.DateOnly(from),
	}
	if r.EffectiveTo != nil && *r.EffectiveTo != "" {
		to, _ := validator.IsValidDate(*r.EffectiveTo)
		to = utils.DateOnly(to)
		s.EffectiveTo = &to
	}
	return s
}

type UpdateRateScheduleRequest struct {
	ID          string           `json:"-"`
	RatePerDay  *decimal.Decimal `json:"rate_per_day,omitempty"`
	EffectiveTo *string          `json:"effective_to,omitempty"`
	// ReopenInterval clears effective_to when true.
	ReopenInterval bool `json:"reopen_interval,omitempty"`
}

func (r *UpdateRateScheduleRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.RatePerDay != nil && !r.RatePerDay.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "rate_per_day", Message: "must be greater than zero"})
	}
	if r.EffectiveTo != nil {
		if _, ok := validator.IsValidDate(*r.EffectiveTo); !ok {
			errs = append(errs, validator.ValidationError{Field: "effective_to", Message: "must be in YYYY-MM-DD format"})
		}
		if r.ReopenInterval {
			errs = append(errs, validator.ValidationError{Field: "reopen_interval", Message: "cannot be combined with effective_to"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// Apply returns current with the requested edits.
func (r *UpdateRateScheduleRequest) Apply(current Schedule) (Schedule, error) {
	next := current
	if r.RatePerDay != nil {
		next.RatePerDay = *r.RatePerDay
	}
	if r.EffectiveTo != nil {
		to, _ := validator.IsValidDate(*r.EffectiveTo)
		to = utils.DateOnly(to)
		if to.Before(next.EffectiveFrom) {
			return Schedule{}, validator.Single("effective_to", ErrInvalidInterval.Error())
		}
		next.EffectiveTo = &to
	}
	if r.ReopenInterval {
		next.EffectiveTo = nil
	}
	return next, nil
}

type RateScheduleFilter struct {
	Category    *string
	SubCategory *string
	AsOf        *time.Time
	ActiveOnly  bool
	Page        int
	Limit       int
}

func (f *RateScheduleFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
}

type ResolveRateRequest struct {
	Category    string `json:"category"`
	SubCategory string `json:"sub_category"`
	AsOf        string `json:"as_of"`
}

func (r *ResolveRateRequest) Validate() error {
	var errs validator.ValidationErrors

	if !employee.Category(strings.ToUpper(r.Category)).IsRateBased() {
		errs = append(errs, validator.ValidationError{Field: "category", Message: "must be CENTRAL or STATE"})
	}
	if !employee.SubCategory(strings.ToUpper(r.SubCategory)).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "sub_category", Message: "must be one of SKILLED, UNSKILLED, HIGHSKILLED, SEMISKILLED"})
	}
	if _, ok := validator.IsValidDate(r.AsOf); !ok {
		errs = append(errs, validator.ValidationError{Field: "as_of", Message: "must be in YYYY-MM-DD format"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RateScheduleResponse struct {
	ID            string          `json:"id"`
	Category      string          `json:"category"`
	SubCategory   string          `json:"sub_category"`
	RatePerDay    decimal.Decimal `json:"rate_per_day"`
	EffectiveFrom string          `json:"effective_from"`
	EffectiveTo   *string         `json:"effective_to,omitempty"`
	IsOpen        bool            `json:"is_open"`
}

type ListRateScheduleResponse struct {
	Data       []RateScheduleResponse `json:"data"`
	TotalCount int64                  `json:"total_count"`
	Page       int                    `json:"page"`
	Limit      int                    `json:"limit"`
}

func ToResponse(s Schedule) RateScheduleResponse {
	return RateScheduleResponse{
		ID:            s.ID,
		Category:      string(s.Category),
		SubCategory:   string(s.SubCategory),
		RatePerDay:    s.RatePerDay,
		EffectiveFrom: utils.FormatDate(s.EffectiveFrom),
		EffectiveTo:   utils.FormatDatePtr(s.EffectiveTo),
		IsOpen:        s.IsOpen(),
	}
}
