package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/salary-engine-go/internal/domain/employment"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

const oneActiveEmploymentIndex = "employment_histories_one_active"

type employmentRepositoryImpl struct {
	db *database.DB
}

func NewEmploymentRepository(db *database.DB) employment.EmploymentRepository {
	return &employmentRepositoryImpl{db: db}
}

const employmentColumns = `
	id, employee_id, company_id, designation, department, salary, joining_date,
	leaving_date, status, termination_reason, created_at, updated_at`

func scanEmployment(row pgx.Row) (employment.History, error) {
	var h employment.History
	var status string
	err := row.Scan(
		&h.ID, &h.EmployeeID, &h.CompanyID, &h.Designation, &h.Department, &h.Salary, &h.JoiningDate,
		&h.LeavingDate, &status, &h.TerminationReason, &h.CreatedAt, &h.UpdatedAt,
	)
	if err != nil {
		return employment.History{}, err
	}
	h.Status = employment.Status(status)
	return h, nil
}

func (r *employmentRepositoryImpl) list(ctx context.Context, where string, arg any) ([]employment.History, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employmentColumns + ` FROM employment_histories WHERE ` + where +
		` ORDER BY joining_date, created_at`

	rows, err := q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("failed to list employment histories: %w", err)
	}
	defer rows.Close()

	var records []employment.History
	for rows.Next() {
		h, err := scanEmployment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan employment history: %w", err)
		}
		records = append(records, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate employment histories: %w", err)
	}
	return records, nil
}

// GetByID implements employment.EmploymentRepository.
func (r *employmentRepositoryImpl) GetByID(ctx context.Context, id string) (employment.History, error) {
	if !validator.IsValidUUID(id) {
		return employment.History{}, employment.ErrEmploymentNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employmentColumns + ` FROM employment_histories WHERE id = $1`

	h, err := scanEmployment(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employment.History{}, employment.ErrEmploymentNotFound
		}
		return employment.History{}, fmt.Errorf("failed to get employment history with id %s: %w", id, err)
	}
	return h, nil
}

// ListByEmployee implements employment.EmploymentRepository.
func (r *employmentRepositoryImpl) ListByEmployee(ctx context.Context, employeeID string) ([]employment.History, error) {
	return r.list(ctx, "employee_id = $1", employeeID)
}

// ListActiveByCompany implements employment.EmploymentRepository.
func (r *employmentRepositoryImpl) ListActiveByCompany(ctx context.Context, companyID string) ([]employment.History, error) {
	return r.list(ctx, "company_id = $1 AND status = 'ACTIVE'", companyID)
}

// Create implements employment.EmploymentRepository.
func (r *employmentRepositoryImpl) Create(ctx context.Context, h employment.History) (employment.History, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employment_histories (
			id, employee_id, company_id, designation, department, salary, joining_date,
			leaving_date, status, termination_reason
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING ` + employmentColumns

	created, err := scanEmployment(q.QueryRow(ctx, query,
		uuid.Must(uuid.NewV7()).String(), h.EmployeeID, h.CompanyID, h.Designation, h.Department, h.Salary,
		h.JoiningDate, h.LeavingDate, string(h.Status), h.TerminationReason,
	))
	if err != nil {
		return employment.History{}, r.mapWriteError(ctx, err, h.EmployeeID)
	}
	return created, nil
}

// Update implements employment.EmploymentRepository.
func (r *employmentRepositoryImpl) Update(ctx context.Context, h employment.History) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employment_histories
		SET company_id = $1, designation = $2, department = $3, salary = $4, joining_date = $5,
			leaving_date = $6, status = $7, termination_reason = $8, updated_at = NOW()
		WHERE id = $9
	`

	tag, err := q.Exec(ctx, query,
		h.CompanyID, h.Designation, h.Department, h.Salary, h.JoiningDate,
		h.LeavingDate, string(h.Status), h.TerminationReason, h.ID,
	)
	if err != nil {
		return r.mapWriteError(ctx, err, h.EmployeeID)
	}
	if tag.RowsAffected() == 0 {
		return employment.ErrEmploymentNotFound
	}
	return nil
}

// mapWriteError turns a hit on the one-active index into the same conflict
// the lifecycle rules report.
func (r *employmentRepositoryImpl) mapWriteError(ctx context.Context, err error, employeeID string) error {
	constraint, ok := constraintViolation(err, pgUniqueViolation)
	if !ok || constraint != oneActiveEmploymentIndex {
		return fmt.Errorf("failed to write employment history for employee %s: %w", employeeID, err)
	}

	// The failed statement aborted any surrounding transaction, so the
	// conflicting id is only looked up outside of it.
	var activeID string
	lookup := `SELECT id FROM employment_histories WHERE employee_id = $1 AND status = 'ACTIVE'`
	if scanErr := r.db.Pool.QueryRow(context.WithoutCancel(ctx), lookup, employeeID).Scan(&activeID); scanErr != nil {
		activeID = ""
	}
	return apperror.Conflict(employment.ErrActiveEmploymentExists, "employment", activeID,
		"employee already has an active employment")
}
