package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/salary-engine-go/internal/domain/company"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type companyRepositoryImpl struct {
	db *database.DB
}

func NewCompanyRepository(db *database.DB) company.CompanyRepository {
	return &companyRepositoryImpl{db: db}
}

func scanCompany(row pgx.Row) (company.Company, error) {
	var c company.Company
	var status string
	if err := row.Scan(&c.ID, &c.Name, &status, &c.Address, &c.CreatedAt, &c.UpdatedAt); err != nil {
		return company.Company{}, err
	}
	c.Status = company.Status(status)
	return c, nil
}

// Update implements company.CompanyRepository.
func (c *companyRepositoryImpl) Update(ctx context.Context, id string, req company.UpdateCompanyRequest) error {
	q := GetQuerier(ctx, c.db)

	updates := make(map[string]interface{})

	if req.Name != nil {
		updates["name"] = strings.TrimSpace(*req.Name)
	}
	if req.Address != nil {
		updates["address"] = *req.Address
	}
	if req.Status != nil {
		updates["status"] = strings.ToUpper(*req.Status)
	}

	if len(updates) == 0 {
		return fmt.Errorf("no updatable fields provided for company update")
	}
	updates["updated_at"] = time.Now()

	setClauses := make([]string, 0, len(updates))
	args := make([]interface{}, 0, len(updates)+1)
	i := 1
	for col, val := range updates {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", col, i))
		args = append(args, val)
		i++
	}

	sql := "UPDATE companies SET " + strings.Join(setClauses, ", ") + fmt.Sprintf(" WHERE id = $%d", i)
	args = append(args, id)

	var updatedID string
	if err := q.QueryRow(ctx, sql+" RETURNING id", args...).Scan(&updatedID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return company.ErrCompanyNotFound
		}
		if _, ok := constraintViolation(err, pgUniqueViolation); ok {
			return company.ErrCompanyNameExists
		}
		return fmt.Errorf("failed to update company with id %s: %w", id, err)
	}
	return nil
}

// Create implements company.CompanyRepository.
func (c *companyRepositoryImpl) Create(ctx context.Context, newCompany company.Company) (company.Company, error) {
	q := GetQuerier(ctx, c.db)

	query := `
		INSERT INTO companies (id, name, status, address)
		VALUES ($1, $2, $3, $4)
		RETURNING id, name, status, address, created_at, updated_at
	`

	status := newCompany.Status
	if status == "" {
		status = company.StatusActive
	}
	created, err := scanCompany(q.QueryRow(ctx, query,
		uuid.Must(uuid.NewV7()).String(), newCompany.Name, string(status), newCompany.Address))
	if err != nil {
		if _, ok := constraintViolation(err, pgUniqueViolation); ok {
			return company.Company{}, company.ErrCompanyNameExists
		}
		return company.Company{}, fmt.Errorf("failed to create company: %w", err)
	}
	return created, nil
}

// GetByID implements company.CompanyRepository.
func (c *companyRepositoryImpl) GetByID(ctx context.Context, id string) (company.Company, error) {
	if !validator.IsValidUUID(id) {
		return company.Company{}, company.ErrCompanyNotFound
	}
	q := GetQuerier(ctx, c.db)

	query := `
		SELECT id, name, status, address, created_at, updated_at
		FROM companies
		WHERE id = $1
	`

	found, err := scanCompany(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return company.Company{}, company.ErrCompanyNotFound
		}
		return company.Company{}, fmt.Errorf("failed to get company with id %s: %w", id, err)
	}
	return found, nil
}

// List implements company.CompanyRepository.
func (c *companyRepositoryImpl) List(ctx context.Context, filter company.CompanyFilter) ([]company.Company, int64, error) {
	q := GetQuerier(ctx, c.db)

	where := ""
	args := []interface{}{}
	if filter.Status != nil {
		where = " WHERE status = $1"
		args = append(args, strings.ToUpper(*filter.Status))
	}

	var total int64
	if err := q.QueryRow(ctx, "SELECT COUNT(*) FROM companies"+where, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count companies: %w", err)
	}

	offset := (filter.Page - 1) * filter.Limit
	query := fmt.Sprintf(`
		SELECT id, name, status, address, created_at, updated_at
		FROM companies%s
		ORDER BY name
		LIMIT $%d OFFSET $%d
	`, where, len(args)+1, len(args)+2)
	args = append(args, filter.Limit, offset)

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list companies: %w", err)
	}
	defer rows.Close()

	var companies []company.Company
	for rows.Next() {
		found, err := scanCompany(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan company: %w", err)
		}
		companies = append(companies, found)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate companies: %w", err)
	}

	return companies, total, nil
}
