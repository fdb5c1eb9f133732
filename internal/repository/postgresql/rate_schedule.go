package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cmlabs-hris/salary-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/salary-engine-go/internal/domain/rateschedule"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const (
	rateScheduleOverlapConstraint = "salary_rate_schedules_no_overlap"
	rateScheduleOpenIndex         = "salary_rate_schedules_one_open"
)

type rateScheduleRepositoryImpl struct {
	db *database.DB
}

func NewRateScheduleRepository(db *database.DB) rateschedule.RateScheduleRepository {
	return &rateScheduleRepositoryImpl{db: db}
}

const rateScheduleColumns = `
	id, category, sub_category, rate_per_day, effective_from, effective_to, created_at, updated_at`

func scanRateSchedule(row pgx.Row) (rateschedule.Schedule, error) {
	var s rateschedule.Schedule
	var category, subCategory string
	err := row.Scan(
		&s.ID, &category, &subCategory, &s.RatePerDay, &s.EffectiveFrom, &s.EffectiveTo, &s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return rateschedule.Schedule{}, err
	}
	s.Category = employee.Category(category)
	s.SubCategory = employee.SubCategory(subCategory)
	return s, nil
}

func collectRateSchedules(rows pgx.Rows) ([]rateschedule.Schedule, error) {
	defer rows.Close()

	var schedules []rateschedule.Schedule
	for rows.Next() {
		s, err := scanRateSchedule(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan rate schedule: %w", err)
		}
		schedules = append(schedules, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate rate schedules: %w", err)
	}
	return schedules, nil
}

// LockPair implements rateschedule.RateScheduleRepository.
func (r *rateScheduleRepositoryImpl) LockPair(ctx context.Context, category employee.Category, sub employee.SubCategory) error {
	q := GetQuerier(ctx, r.db)

	key := "salary_rate_schedules:" + string(category) + ":" + string(sub)
	if _, err := q.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, key); err != nil {
		return fmt.Errorf("failed to lock rate schedules of %s/%s: %w", category, sub, err)
	}
	return nil
}

// GetByID implements rateschedule.RateScheduleRepository.
func (r *rateScheduleRepositoryImpl) GetByID(ctx context.Context, id string) (rateschedule.Schedule, error) {
	if !validator.IsValidUUID(id) {
		return rateschedule.Schedule{}, rateschedule.ErrRateScheduleNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + rateScheduleColumns + ` FROM salary_rate_schedules WHERE id = $1`

	s, err := scanRateSchedule(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return rateschedule.Schedule{}, rateschedule.ErrRateScheduleNotFound
		}
		return rateschedule.Schedule{}, fmt.Errorf("failed to get rate schedule with id %s: %w", id, err)
	}
	return s, nil
}

// ListByPair implements rateschedule.RateScheduleRepository.
func (r *rateScheduleRepositoryImpl) ListByPair(ctx context.Context, category employee.Category, sub employee.SubCategory) ([]rateschedule.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + rateScheduleColumns + `
		FROM salary_rate_schedules
		WHERE category = $1 AND sub_category = $2
		ORDER BY effective_from`

	rows, err := q.Query(ctx, query, string(category), string(sub))
	if err != nil {
		return nil, fmt.Errorf("failed to list rate schedules of %s/%s: %w", category, sub, err)
	}
	return collectRateSchedules(rows)
}

// List implements rateschedule.RateScheduleRepository.
func (r *rateScheduleRepositoryImpl) List(ctx context.Context, filter rateschedule.RateScheduleFilter) ([]rateschedule.Schedule, int64, error) {
	q := GetQuerier(ctx, r.db)

	var conditions []string
	var args []interface{}
	add := func(cond string, arg interface{}) {
		args = append(args, arg)
		conditions = append(conditions, fmt.Sprintf(cond, len(args)))
	}

	if filter.Category != nil {
		add("category = $%d", strings.ToUpper(*filter.Category))
	}
	if filter.SubCategory != nil {
		add("sub_category = $%d", strings.ToUpper(*filter.SubCategory))
	}
	if filter.AsOf != nil {
		add("daterange(effective_from, effective_to, '[]') @> $%d::date", *filter.AsOf)
	}
	if filter.ActiveOnly {
		conditions = append(conditions, "effective_to IS NULL")
	}

	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM salary_rate_schedules"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count rate schedules: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM salary_rate_schedules%s
		ORDER BY category, sub_category, effective_from DESC
		LIMIT $%d OFFSET $%d`, rateScheduleColumns, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list rate schedules: %w", err)
	}
	schedules, err := collectRateSchedules(rows)
	if err != nil {
		return nil, 0, err
	}
	return schedules, total, nil
}

// Create implements rateschedule.RateScheduleRepository.
func (r *rateScheduleRepositoryImpl) Create(ctx context.Context, s rateschedule.Schedule) (rateschedule.Schedule, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO salary_rate_schedules (id, category, sub_category, rate_per_day, effective_from, effective_to)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING ` + rateScheduleColumns

	created, err := scanRateSchedule(q.QueryRow(ctx, query,
		uuid.Must(uuid.NewV7()).String(), string(s.Category), string(s.SubCategory), s.RatePerDay,
		s.EffectiveFrom, s.EffectiveTo,
	))
	if err != nil {
		return rateschedule.Schedule{}, mapRateScheduleError(err, "")
	}
	return created, nil
}

// Update implements rateschedule.RateScheduleRepository.
func (r *rateScheduleRepositoryImpl) Update(ctx context.Context, s rateschedule.Schedule) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE salary_rate_schedules
		SET rate_per_day = $1, effective_from = $2, effective_to = $3, updated_at = NOW()
		WHERE id = $4
	`

	tag, err := q.Exec(ctx, query, s.RatePerDay, s.EffectiveFrom, s.EffectiveTo, s.ID)
	if err != nil {
		return mapRateScheduleError(err, s.ID)
	}
	if tag.RowsAffected() == 0 {
		return rateschedule.ErrRateScheduleNotFound
	}
	return nil
}

// Delete implements rateschedule.RateScheduleRepository.
func (r *rateScheduleRepositoryImpl) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM salary_rate_schedules WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete rate schedule with id %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return rateschedule.ErrRateScheduleNotFound
	}
	return nil
}

func mapRateScheduleError(err error, id string) error {
	constraint, ok := constraintViolation(err, pgExclusionViolation, pgUniqueViolation)
	if !ok {
		return fmt.Errorf("failed to write rate schedule: %w", err)
	}
	switch constraint {
	case rateScheduleOverlapConstraint:
		return apperror.Conflict(rateschedule.ErrOverlappingSchedule, "rate_schedule", id,
			"rate schedule overlaps an existing interval")
	case rateScheduleOpenIndex:
		return apperror.Conflict(rateschedule.ErrOpenScheduleExists, "rate_schedule", id,
			"another open-ended rate schedule exists for this category")
	}
	return fmt.Errorf("failed to write rate schedule: %w", err)
}
