package rateschedule

import (
	"time"

	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/utils"
)

// Closure is an open schedule that must be ended before a successor is stored.
type Closure struct {
	ScheduleID  string
	EffectiveTo time.Time
}

// CreatePlan lists the writes needed to insert a schedule without breaking
// the interval invariants of its pair.
type CreatePlan struct {
	Close *Closure
}

// PlanCreate checks candidate against the existing schedules of its pair.
// An open predecessor that starts before an open candidate is closed on the
// day before the candidate starts. A closed candidate starting inside the
// open interval is refused, as it would leave the pair without a rate after
// its end. Any other overlap is a conflict.
func PlanCreate(existing []Schedule, candidate Schedule) (CreatePlan, error) {
	var plan CreatePlan

	for _, s := range existing {
		if !s.SamePair(candidate.Category, candidate.SubCategory) || s.ID == candidate.ID {
			continue
		}

		if s.IsOpen() && s.EffectiveFrom.Before(candidate.EffectiveFrom) {
			if !candidate.IsOpen() {
				return CreatePlan{}, apperror.Conflict(ErrSplitsOpenSchedule, "rate_schedule", s.ID,
					"rate schedule would end inside the open schedule for "+string(s.Category)+"/"+string(s.SubCategory)+"; create an open-ended successor instead")
			}
			plan.Close = &Closure{
				ScheduleID:  s.ID,
				EffectiveTo: utils.DayBefore(candidate.EffectiveFrom),
			}
			continue
		}

		if s.Overlaps(candidate) {
			return CreatePlan{}, apperror.Conflict(ErrOverlappingSchedule, "rate_schedule", s.ID,
				"rate schedule overlaps an existing schedule for "+string(s.Category)+"/"+string(s.SubCategory))
		}
	}

	return plan, nil
}

// CheckUpdate verifies that an edited schedule does not overlap its siblings
// and that the pair keeps at most one open interval.
func CheckUpdate(existing []Schedule, updated Schedule) error {
	for _, s := range existing {
		if !s.SamePair(updated.Category, updated.SubCategory) || s.ID == updated.ID {
			continue
		}
		if s.IsOpen() && updated.IsOpen() {
			return apperror.Conflict(ErrOpenScheduleExists, "rate_schedule", s.ID,
				"another open rate schedule exists for "+string(s.Category)+"/"+string(s.SubCategory))
		}
		if s.Overlaps(updated) {
			return apperror.Conflict(ErrOverlappingSchedule, "rate_schedule", s.ID,
				"rate schedule overlaps an existing schedule for "+string(s.Category)+"/"+string(s.SubCategory))
		}
	}
	return nil
}
