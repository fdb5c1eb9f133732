package rateschedule

import (
	"context"
	"time"

	"github.com/cmlabs-hris/salary-engine-go/internal/domain/employee"
)

type RateScheduleService interface {
	Create(ctx context.Context, req CreateRateScheduleRequest) (RateScheduleResponse, error)
	Get(ctx context.Context, id string) (RateScheduleResponse, error)
	List(ctx context.Context, filter RateScheduleFilter) (ListRateScheduleResponse, error)
	Update(ctx context.Context, req UpdateRateScheduleRequest) (RateScheduleResponse, error)
	Delete(ctx context.Context, id string) error

	// Resolve returns the rate active on asOf, or an UNRESOLVED_RATE error.
	Resolve(ctx context.Context, category employee.Category, sub employee.SubCategory, asOf time.Time) (Schedule, error)
}
