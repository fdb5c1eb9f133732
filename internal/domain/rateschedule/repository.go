package rateschedule

import (
	"context"

	"github.com/cmlabs-hris/salary-engine-go/internal/domain/employee"
)

type RateScheduleRepository interface {
	// LockPair serializes writers of one (category, sub-category) pair for the
	// rest of the current transaction.
	LockPair(ctx context.Context, category employee.Category, sub employee.SubCategory) error
	GetByID(ctx context.Context, id string) (Schedule, error)
	ListByPair(ctx context.Context, category employee.Category, sub employee.SubCategory) ([]Schedule, error)
	List(ctx context.Context, filter RateScheduleFilter) ([]Schedule, int64, error)
	Create(ctx context.Context, s Schedule) (Schedule, error)
	Update(ctx context.Context, s Schedule) error
	Delete(ctx context.Context, id string) error
}
