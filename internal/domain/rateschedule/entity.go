package rateschedule

import (
	"time"

	"github.com/cmlabs-hris/salary-engine-go/internal/domain/employee"
	"github.com/shopspring/decimal"
)

// Schedule is a per-day wage for a (category, sub-category) pair over
// [EffectiveFrom, EffectiveTo]. Both bounds are calendar days and inclusive;
// a nil EffectiveTo means the interval is still open.
type Schedule struct {
	ID            string
	Category      employee.Category
	SubCategory   employee.SubCategory
	RatePerDay    decimal.Decimal
	EffectiveFrom time.Time
	EffectiveTo   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

func (s Schedule) IsOpen() bool {
	return s.EffectiveTo == nil
}

// Covers reports whether the calendar day d falls inside the schedule.
func (s Schedule) Covers(d time.Time) bool {
	if d.Before(s.EffectiveFrom) {
		return false
	}
	return s.EffectiveTo == nil || !d.After(*s.EffectiveTo)
}

// Overlaps reports whether two schedules share at least one day.
func (s Schedule) Overlaps(o Schedule) bool {
	if s.EffectiveTo != nil && s.EffectiveTo.Before(o.EffectiveFrom) {
		return false
	}
	if o.EffectiveTo != nil && o.EffectiveTo.Before(s.EffectiveFrom) {
		return false
	}
	return true
}

func (s Schedule) SamePair(category employee.Category, sub employee.SubCategory) bool {
	return s.Category == category && s.SubCategory == sub
}
