package company

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/cmlabs-hris/salary-engine-go/internal/domain/company"
	"github.com/cmlabs-hris/salary-engine-go/internal/domain/salarytemplate"
	"github.com/cmlabs-hris/salary-engine-go/internal/fixtures"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/database"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type CompanyServiceImpl struct {
	tx database.Transactor
	company.CompanyRepository
	templateRepo salarytemplate.TemplateRepository
}

func NewCompanyService(
	tx database.Transactor,
	companyRepository company.CompanyRepository,
	templateRepo salarytemplate.TemplateRepository,
) company.CompanyService {
	return &CompanyServiceImpl{
		tx:                tx,
		CompanyRepository: companyRepository,
		templateRepo:      templateRepo,
	}
}

// Create implements company.CompanyService.
// Subtle: this method shadows the method (CompanyRepository).Create of CompanyServiceImpl.CompanyRepository.
func (c *CompanyServiceImpl) Create(ctx context.Context, req company.CreateCompanyRequest) (company.CompanyResponse, error) {
	if err := req.Validate(); err != nil {
		return company.CompanyResponse{}, err
	}

	var newCompany company.Company
	err := c.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		var err error
		newCompany, err = c.CompanyRepository.Create(txCtx, company.Company{
			Name:    strings.TrimSpace(req.Name),
			Status:  company.StatusActive,
			Address: req.Address,
		})
		if err != nil {
			if errors.Is(err, company.ErrCompanyNameExists) {
				return apperror.Conflict(company.ErrCompanyNameExists, "company", "", "a company with this name already exists")
			}
			return fmt.Errorf("failed to create company: %w", err)
		}

		// Seed the default salary template for the new company
		defaults, err := fixtures.GetDefaultSalaryTemplate(newCompany.ID)
		if err != nil {
			return fmt.Errorf("failed to build default salary template: %w", err)
		}
		if _, err := c.templateRepo.Create(txCtx, defaults); err != nil {
			slog.Error("Failed to seed salary template for company", "company_id", newCompany.ID, "error", err)
			return fmt.Errorf("failed to seed salary template: %w", err)
		}
		return nil
	})
	if err != nil {
		return company.CompanyResponse{}, err
	}

	slog.Info("Created company", "company_id", newCompany.ID, "name", newCompany.Name)
	return company.ToResponse(newCompany), nil
}

// GetByID implements company.CompanyService.
// Subtle: this method shadows the method (CompanyRepository).GetByID of CompanyServiceImpl.CompanyRepository.
func (c *CompanyServiceImpl) GetByID(ctx context.Context, id string) (company.CompanyResponse, error) {
	companyData, err := c.CompanyRepository.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, company.ErrCompanyNotFound) {
			return company.CompanyResponse{}, apperror.NotFound(company.ErrCompanyNotFound, "company", id)
		}
		return company.CompanyResponse{}, fmt.Errorf("failed to get company by ID: %w", err)
	}
	return company.ToResponse(companyData), nil
}

// List implements company.CompanyService.
// Subtle: this method shadows the method (CompanyRepository).List of CompanyServiceImpl.CompanyRepository.
func (c *CompanyServiceImpl) List(ctx context.Context, filter company.CompanyFilter) (company.ListCompanyResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}
	if filter.Status != nil {
		status := company.Status(strings.ToUpper(*filter.Status))
		if !status.IsValid() {
			return company.ListCompanyResponse{}, apperror.Validation(company.ErrInvalidStatusChange, "status", "must be ACTIVE or INACTIVE")
		}
	}

	companies, total, err := c.CompanyRepository.List(ctx, filter)
	if err != nil {
		return company.ListCompanyResponse{}, fmt.Errorf("failed to list companies: %w", err)
	}

	data := make([]company.CompanyResponse, 0, len(companies))
	for _, found := range companies {
		data = append(data, company.ToResponse(found))
	}
	return company.ListCompanyResponse{
		Data:       data,
		TotalCount: total,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// Update implements company.CompanyService.
// Subtle: this method shadows the method (CompanyRepository).Update of CompanyServiceImpl.CompanyRepository.
func (c *CompanyServiceImpl) Update(ctx context.Context, id string, req company.UpdateCompanyRequest) (company.CompanyResponse, error) {
	if err := req.Validate(); err != nil {
		return company.CompanyResponse{}, err
	}

	if err := c.CompanyRepository.Update(ctx, id, req); err != nil {
		switch {
		case errors.Is(err, company.ErrCompanyNotFound):
			return company.CompanyResponse{}, apperror.NotFound(company.ErrCompanyNotFound, "company", id)
		case errors.Is(err, company.ErrCompanyNameExists):
			return company.CompanyResponse{}, apperror.Conflict(company.ErrCompanyNameExists, "company", id, "a company with this name already exists")
		}
		return company.CompanyResponse{}, fmt.Errorf("failed to update company with id %s: %w", id, err)
	}

	if req.Status != nil {
		slog.Info("Changed company status", "company_id", id, "status", strings.ToUpper(*req.Status))
	}
	return c.GetByID(ctx, id)
}
