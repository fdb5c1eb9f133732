package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/salary-engine-go/internal/domain/salarytemplate"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type salaryTemplateRepositoryImpl struct {
	db *database.DB
}

func NewSalaryTemplateRepository(db *database.DB) salarytemplate.TemplateRepository {
	return &salaryTemplateRepositoryImpl{db: db}
}

func scanTemplate(row pgx.Row) (salarytemplate.Config, error) {
	var (
		companyID string
		raw       []byte
		version   int
		cfg       salarytemplate.Config
	)
	if err := row.Scan(&companyID, &raw, &version, &cfg.UpdatedAt); err != nil {
		return salarytemplate.Config{}, err
	}
	var doc salarytemplate.Document
	if err := json.Unmarshal(raw, &doc); err != nil {
		return salarytemplate.Config{}, fmt.Errorf("decode salary template of company %s: %w", companyID, err)
	}
	updatedAt := cfg.UpdatedAt
	cfg = salarytemplate.ConfigFromDocument(companyID, doc, version)
	cfg.UpdatedAt = updatedAt
	return cfg, nil
}

// GetByCompanyID implements salarytemplate.TemplateRepository.
func (r *salaryTemplateRepositoryImpl) GetByCompanyID(ctx context.Context, companyID string) (salarytemplate.Config, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT company_id, fields, version, updated_at FROM salary_templates WHERE company_id = $1`

	cfg, err := scanTemplate(q.QueryRow(ctx, query, companyID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salarytemplate.Config{}, salarytemplate.ErrTemplateNotFound
		}
		return salarytemplate.Config{}, fmt.Errorf("failed to get salary template of company %s: %w", companyID, err)
	}
	return cfg, nil
}

// Create implements salarytemplate.TemplateRepository. A template created
// concurrently by another request wins and is returned instead.
func (r *salaryTemplateRepositoryImpl) Create(ctx context.Context, c salarytemplate.Config) (salarytemplate.Config, error) {
	q := GetQuerier(ctx, r.db)

	body, err := json.Marshal(c.Document())
	if err != nil {
		return salarytemplate.Config{}, fmt.Errorf("encode salary template: %w", err)
	}

	query := `
		INSERT INTO salary_templates (company_id, fields, version)
		VALUES ($1, $2, 1)
		ON CONFLICT (company_id) DO NOTHING
		RETURNING company_id, fields, version, updated_at
	`

	created, err := scanTemplate(q.QueryRow(ctx, query, c.CompanyID, body))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return r.GetByCompanyID(ctx, c.CompanyID)
		}
		if _, ok := constraintViolation(err, pgForeignKeyViolation); ok {
			return salarytemplate.Config{}, apperror.NotFound(errors.New("company not found"), "company", c.CompanyID)
		}
		return salarytemplate.Config{}, fmt.Errorf("failed to create salary template: %w", err)
	}
	return created, nil
}

// Save implements salarytemplate.TemplateRepository.
func (r *salaryTemplateRepositoryImpl) Save(ctx context.Context, c salarytemplate.Config) (salarytemplate.Config, error) {
	q := GetQuerier(ctx, r.db)

	body, err := json.Marshal(c.Document())
	if err != nil {
		return salarytemplate.Config{}, fmt.Errorf("encode salary template: %w", err)
	}

	query := `
		UPDATE salary_templates
		SET fields = $1, version = version + 1, updated_at = NOW()
		WHERE company_id = $2 AND version = $3
		RETURNING company_id, fields, version, updated_at
	`

	saved, err := scanTemplate(q.QueryRow(ctx, query, body, c.CompanyID, c.Version))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return salarytemplate.Config{}, apperror.Conflict(salarytemplate.ErrStaleTemplate, "salary_template", c.CompanyID,
				fmt.Sprintf("salary template changed since version %d; reload and retry", c.Version))
		}
		return salarytemplate.Config{}, fmt.Errorf("failed to save salary template of company %s: %w", c.CompanyID, err)
	}
	return saved, nil
}
