package rateschedule

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/salary-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/salary-engine-go/internal/domain/rateschedule"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/utils"
)

type RateScheduleServiceImpl struct {
	tx database.Transactor
	rateschedule.RateScheduleRepository
}

func NewRateScheduleService(tx database.Transactor, repo rateschedule.RateScheduleRepository) rateschedule.RateScheduleService {
	return &RateScheduleServiceImpl{tx: tx, RateScheduleRepository: repo}
}

// Create implements rateschedule.RateScheduleService.
// The pair lock, the closure of the open predecessor and the insert commit
// together.
func (s *RateScheduleServiceImpl) Create(ctx context.Context, req rateschedule.CreateRateScheduleRequest) (rateschedule.RateScheduleResponse, error) {
	if err := req.Validate(); err != nil {
		return rateschedule.RateScheduleResponse{}, err
	}
	candidate := req.ToEntity()

	var created rateschedule.Schedule
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		if err := s.RateScheduleRepository.LockPair(txCtx, candidate.Category, candidate.SubCategory); err != nil {
			return err
		}
		existing, err := s.RateScheduleRepository.ListByPair(txCtx, candidate.Category, candidate.SubCategory)
		if err != nil {
			return fmt.Errorf("failed to load rate schedules: %w", err)
		}

		plan, err := rateschedule.PlanCreate(existing, candidate)
		if err != nil {
			return err
		}
		if plan.Close != nil {
			prior, err := findSchedule(existing, plan.Close.ScheduleID)
			if err != nil {
				return err
			}
			to := plan.Close.EffectiveTo
			prior.EffectiveTo = &to
			if err := s.RateScheduleRepository.Update(txCtx, prior); err != nil {
				return fmt.Errorf("failed to close rate schedule %s: %w", prior.ID, err)
			}
			slog.Info("Closed open rate schedule", "schedule_id", prior.ID, "effective_to", utils.FormatDate(to))
		}

		created, err = s.RateScheduleRepository.Create(txCtx, candidate)
		return err
	})
	if err != nil {
		return rateschedule.RateScheduleResponse{}, err
	}

	slog.Info("Created rate schedule",
		"schedule_id", created.ID,
		"category", created.Category,
		"sub_category", created.SubCategory,
		"rate_per_day", created.RatePerDay.String(),
		"effective_from", utils.FormatDate(created.EffectiveFrom),
	)
	return rateschedule.ToResponse(created), nil
}

// Get implements rateschedule.RateScheduleService.
func (s *RateScheduleServiceImpl) Get(ctx context.Context, id string) (rateschedule.RateScheduleResponse, error) {
	found, err := s.RateScheduleRepository.GetByID(ctx, id)
	if err != nil {
		return rateschedule.RateScheduleResponse{}, notFound(err, id)
	}
	return rateschedule.ToResponse(found), nil
}

// List implements rateschedule.RateScheduleService.
func (s *RateScheduleServiceImpl) List(ctx context.Context, filter rateschedule.RateScheduleFilter) (rateschedule.ListRateScheduleResponse, error) {
	filter.Normalize()

	schedules, total, err := s.RateScheduleRepository.List(ctx, filter)
	if err != nil {
		return rateschedule.ListRateScheduleResponse{}, fmt.Errorf("failed to list rate schedules: %w", err)
	}

	data := make([]rateschedule.RateScheduleResponse, 0, len(schedules))
	for _, sc := range schedules {
		data = append(data, rateschedule.ToResponse(sc))
	}
	return rateschedule.ListRateScheduleResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// Update implements rateschedule.RateScheduleService.
func (s *RateScheduleServiceImpl) Update(ctx context.Context, req rateschedule.UpdateRateScheduleRequest) (rateschedule.RateScheduleResponse, error) {
	if err := req.Validate(); err != nil {
		return rateschedule.RateScheduleResponse{}, err
	}

	var updated rateschedule.Schedule
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.RateScheduleRepository.GetByID(txCtx, req.ID)
		if err != nil {
			return notFound(err, req.ID)
		}
		if err := s.RateScheduleRepository.LockPair(txCtx, current.Category, current.SubCategory); err != nil {
			return err
		}
		existing, err := s.RateScheduleRepository.ListByPair(txCtx, current.Category, current.SubCategory)
		if err != nil {
			return fmt.Errorf("failed to load rate schedules: %w", err)
		}

		updated, err = req.Apply(current)
		if err != nil {
			return err
		}
		if err := rateschedule.CheckUpdate(existing, updated); err != nil {
			return err
		}
		return s.RateScheduleRepository.Update(txCtx, updated)
	})
	if err != nil {
		return rateschedule.RateScheduleResponse{}, err
	}

	slog.Info("Updated rate schedule", "schedule_id", updated.ID, "rate_per_day", updated.RatePerDay.String())
	return rateschedule.ToResponse(updated), nil
}

// Delete implements rateschedule.RateScheduleService.
func (s *RateScheduleServiceImpl) Delete(ctx context.Context, id string) error {
	if err := s.RateScheduleRepository.Delete(ctx, id); err != nil {
		return notFound(err, id)
	}
	slog.Info("Deleted rate schedule", "schedule_id", id)
	return nil
}

// Resolve implements rateschedule.RateScheduleService.
func (s *RateScheduleServiceImpl) Resolve(ctx context.Context, category employee.Category, sub employee.SubCategory, asOf time.Time) (rateschedule.Schedule, error) {
	if !category.IsRateBased() {
		return rateschedule.Schedule{}, apperror.Validation(employee.ErrInvalidCategory, "category",
			"rates are only defined for CENTRAL and STATE categories")
	}

	schedules, err := s.RateScheduleRepository.ListByPair(ctx, category, sub)
	if err != nil {
		return rateschedule.Schedule{}, fmt.Errorf("failed to load rate schedules: %w", err)
	}

	found, ok := rateschedule.Resolve(schedules, category, sub, asOf)
	if !ok {
		date := utils.FormatDate(asOf)
		return rateschedule.Schedule{}, apperror.UnresolvedRate(rateschedule.ErrUnresolvedRate,
			map[string]string{
				"category":     string(category),
				"sub_category": string(sub),
				"as_of":        date,
			},
			fmt.Sprintf("no rate schedule for %s/%s as of %s", category, sub, date),
		)
	}
	return found, nil
}

func findSchedule(schedules []rateschedule.Schedule, id string) (rateschedule.Schedule, error) {
	for _, sc := range schedules {
		if sc.ID == id {
			return sc, nil
		}
	}
	return rateschedule.Schedule{}, notFound(rateschedule.ErrRateScheduleNotFound, id)
}

func notFound(err error, id string) error {
	if errors.Is(err, rateschedule.ErrRateScheduleNotFound) {
		return apperror.NotFound(rateschedule.ErrRateScheduleNotFound, "rate_schedule", id)
	}
	return err
}
