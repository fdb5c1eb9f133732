package rateschedule

import (
	"time"

	"github.com/cmlabs-hris/salary-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/utils"
)

// Resolve returns the schedule active for the pair on asOf. A missing rate is
// reported through ok=false, never as an error. If inconsistent data yields
// several candidates, the open-ended one wins, then the latest start.
func Resolve(schedules []Schedule, category employee.Category, sub employee.SubCategory, asOf time.Time) (Schedule, bool) {
	day := utils.DateOnly(asOf)

	var best Schedule
	found := false
	for _, s := range schedules {
		if !s.SamePair(category, sub) || !s.Covers(day) {
			continue
		}
		if !found || preferred(s, best) {
			best = s
			found = true
		}
	}
	return best, found
}

func preferred(candidate, current Schedule) bool {
	if candidate.IsOpen() != current.IsOpen() {
		return candidate.IsOpen()
	}
	return candidate.EffectiveFrom.After(current.EffectiveFrom)
}
