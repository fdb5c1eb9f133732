package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/salary-engine-go/internal/domain/employee"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
)

type employeeRepositoryImpl struct {
	db *database.DB
}

func NewEmployeeRepository(db *database.DB) employee.EmployeeRepository {
	return &employeeRepositoryImpl{db: db}
}

const employeeColumns = `
	id, full_name, category, sub_category, rate_per_day, monthly_salary,
	pf_enrolled, esic_enrolled, onboarding_date, created_at, updated_at`

func scanEmployee(row pgx.Row) (employee.Employee, error) {
	var (
		e             employee.Employee
		category      string
		subCategory   *string
		ratePerDay    decimal.NullDecimal
		monthlySalary decimal.NullDecimal
	)
	err := row.Scan(
		&e.ID, &e.FullName, &category, &subCategory, &ratePerDay, &monthlySalary,
		&e.PFEnrolled, &e.ESICEnrolled, &e.OnboardingDate, &e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return employee.Employee{}, err
	}
	e.Category = employee.Category(category)
	if subCategory != nil {
		sub := employee.SubCategory(*subCategory)
		e.SubCategory = &sub
	}
	e.RatePerDay = fromNullDecimal(ratePerDay)
	e.MonthlySalary = fromNullDecimal(monthlySalary)
	return e, nil
}

// GetByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) GetByID(ctx context.Context, id string) (employee.Employee, error) {
	if !validator.IsValidUUID(id) {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1`

	e, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to get employee with id %s: %w", id, err)
	}
	return e, nil
}

// LockByID implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) LockByID(ctx context.Context, id string) (employee.Employee, error) {
	if !validator.IsValidUUID(id) {
		return employee.Employee{}, employee.ErrEmployeeNotFound
	}
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + employeeColumns + ` FROM employees WHERE id = $1 FOR UPDATE`

	e, err := scanEmployee(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return employee.Employee{}, employee.ErrEmployeeNotFound
		}
		return employee.Employee{}, fmt.Errorf("failed to lock employee with id %s: %w", id, err)
	}
	return e, nil
}

// Create implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Create(ctx context.Context, newEmployee employee.Employee) (employee.Employee, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO employees (
			id, full_name, category, sub_category, rate_per_day, monthly_salary,
			pf_enrolled, esic_enrolled, onboarding_date
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING ` + employeeColumns

	created, err := scanEmployee(q.QueryRow(ctx, query,
		uuid.Must(uuid.NewV7()).String(),
		newEmployee.FullName,
		string(newEmployee.Category),
		subCategoryArg(newEmployee.SubCategory),
		toNullDecimal(newEmployee.RatePerDay),
		toNullDecimal(newEmployee.MonthlySalary),
		newEmployee.PFEnrolled,
		newEmployee.ESICEnrolled,
		newEmployee.OnboardingDate,
	))
	if err != nil {
		return employee.Employee{}, fmt.Errorf("failed to create employee: %w", err)
	}
	return created, nil
}

// Update implements employee.EmployeeRepository.
func (r *employeeRepositoryImpl) Update(ctx context.Context, e employee.Employee) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE employees
		SET full_name = $1, category = $2, sub_category = $3, rate_per_day = $4, monthly_salary = $5,
			pf_enrolled = $6, esic_enrolled = $7, onboarding_date = $8, updated_at = NOW()
		WHERE id = $9
	`

	tag, err := q.Exec(ctx, query,
		e.FullName,
		string(e.Category),
		subCategoryArg(e.SubCategory),
		toNullDecimal(e.RatePerDay),
		toNullDecimal(e.MonthlySalary),
		e.PFEnrolled,
		e.ESICEnrolled,
		e.OnboardingDate,
		e.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update employee with id %s: %w", e.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return employee.ErrEmployeeNotFound
	}
	return nil
}

func subCategoryArg(sub *employee.SubCategory) *string {
	if sub == nil {
		return nil
	}
	s := string(*sub)
	return &s
}

func toNullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NullDecimal{Decimal: *d, Valid: true}
}

func fromNullDecimal(n decimal.NullDecimal) *decimal.Decimal {
	if !n.Valid {
		return nil
	}
	d := n.Decimal
	return &d
}
