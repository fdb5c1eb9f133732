package salarytemplate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/salary-engine-go/internal/domain/salarytemplate"
	"github.com/cmlabs-hris/salary-engine-go/internal/fixtures"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/database"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/validator"
)

type TemplateServiceImpl struct {
	tx database.Transactor
	salarytemplate.TemplateRepository
}

func NewTemplateService(tx database.Transactor, repo salarytemplate.TemplateRepository) salarytemplate.TemplateService {
	return &TemplateServiceImpl{
		tx:                 tx,
		TemplateRepository: repo,
	}
}

// Load implements salarytemplate.TemplateService.
func (s *TemplateServiceImpl) Load(ctx context.Context, companyID string) (salarytemplate.Config, error) {
	if validator.IsEmpty(companyID) {
		return salarytemplate.Config{}, validator.Single("company_id", "is required")
	}
	cfg, err := s.TemplateRepository.GetByCompanyID(ctx, companyID)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, salarytemplate.ErrTemplateNotFound) {
		return salarytemplate.Config{}, fmt.Errorf("failed to load salary template: %w", err)
	}

	defaults, err := fixtures.GetDefaultSalaryTemplate(companyID)
	if err != nil {
		return salarytemplate.Config{}, fmt.Errorf("failed to build default salary template: %w", err)
	}
	created, err := s.TemplateRepository.Create(ctx, defaults)
	if err != nil {
		return salarytemplate.Config{}, err
	}
	slog.Info("Seeded default salary template", "company_id", companyID, "version", created.Version)
	return created, nil
}

// mutate applies fn to the company's current template and persists the
// result under the version it was read at.
func (s *TemplateServiceImpl) mutate(
	ctx context.Context,
	companyID string,
	guard salarytemplate.VersionGuard,
	action string,
	fn func(salarytemplate.Config) (salarytemplate.Config, error),
) (salarytemplate.TemplateResponse, error) {
	var saved salarytemplate.Config
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		current, err := s.Load(txCtx, companyID)
		if err != nil {
			return err
		}
		if guard.Version != nil && *guard.Version != current.Version {
			return apperror.Conflict(salarytemplate.ErrStaleTemplate, "salary_template", companyID,
				fmt.Sprintf("salary template is at version %d, not %d; reload and retry", current.Version, *guard.Version))
		}
		next, err := fn(current)
		if err != nil {
			return err
		}
		next.CompanyID = current.CompanyID
		next.Version = current.Version
		saved, err = s.TemplateRepository.Save(txCtx, next)
		return err
	})
	if err != nil {
		if apperror.Is(err, apperror.KindConflict) {
			slog.Warn("Rejected stale salary template edit", "company_id", companyID, "action", action)
		}
		return salarytemplate.TemplateResponse{}, err
	}

	slog.Info("Updated salary template", "company_id", companyID, "action", action, "version", saved.Version)
	return salarytemplate.ToResponse(saved), nil
}

// Get implements salarytemplate.TemplateService.
func (s *TemplateServiceImpl) Get(ctx context.Context, companyID string) (salarytemplate.TemplateResponse, error) {
	cfg, err := s.Load(ctx, companyID)
	if err != nil {
		return salarytemplate.TemplateResponse{}, err
	}
	return salarytemplate.ToResponse(cfg), nil
}

// Toggle implements salarytemplate.TemplateService.
func (s *TemplateServiceImpl) Toggle(ctx context.Context, req salarytemplate.ToggleFieldRequest) (salarytemplate.TemplateResponse, error) {
	if err := req.Validate(); err != nil {
		return salarytemplate.TemplateResponse{}, err
	}
	return s.mutate(ctx, req.CompanyID, req.VersionGuard, "toggle", func(c salarytemplate.Config) (salarytemplate.Config, error) {
		return salarytemplate.Toggle(c, req.Key, *req.Enabled)
	})
}

// SetDefaultValue implements salarytemplate.TemplateService.
func (s *TemplateServiceImpl) SetDefaultValue(ctx context.Context, req salarytemplate.SetDefaultValueRequest) (salarytemplate.TemplateResponse, error) {
	if err := req.Validate(); err != nil {
		return salarytemplate.TemplateResponse{}, err
	}
	return s.mutate(ctx, req.CompanyID, req.VersionGuard, "set_default_value", func(c salarytemplate.Config) (salarytemplate.Config, error) {
		if req.Value == nil {
			return salarytemplate.ClearDefaultValue(c, req.Key)
		}
		return salarytemplate.SetDefaultValue(c, req.Key, *req.Value)
	})
}

// AddCustomField implements salarytemplate.TemplateService. A definition in
// the request is applied to the new field in the same edit.
func (s *TemplateServiceImpl) AddCustomField(ctx context.Context, req salarytemplate.CustomFieldRequest) (salarytemplate.TemplateResponse, error) {
	def, err := req.ToDefinition()
	if err != nil {
		return salarytemplate.TemplateResponse{}, err
	}
	return s.mutate(ctx, req.CompanyID, req.VersionGuard, "add_custom_field", func(c salarytemplate.Config) (salarytemplate.Config, error) {
		next := salarytemplate.AddCustomField(c)
		if isEmptyDefinition(def) {
			return next, nil
		}
		added := next.Custom[len(next.Custom)-1]
		return salarytemplate.UpdateCustomField(next, added.Key, def)
	})
}

func isEmptyDefinition(d salarytemplate.Definition) bool {
	return d.Key == nil && d.Label == nil && d.Type == nil && d.Options == nil && d.Purpose == nil && d.Kind == nil
}

// UpdateCustomField implements salarytemplate.TemplateService.
func (s *TemplateServiceImpl) UpdateCustomField(ctx context.Context, req salarytemplate.CustomFieldRequest) (salarytemplate.TemplateResponse, error) {
	if validator.IsEmpty(req.Key) {
		return salarytemplate.TemplateResponse{}, validator.Single("key", "is required")
	}
	def, err := req.ToDefinition()
	if err != nil {
		return salarytemplate.TemplateResponse{}, err
	}
	return s.mutate(ctx, req.CompanyID, req.VersionGuard, "update_custom_field", func(c salarytemplate.Config) (salarytemplate.Config, error) {
		return salarytemplate.UpdateCustomField(c, req.Key, def)
	})
}

// RemoveCustomField implements salarytemplate.TemplateService.
func (s *TemplateServiceImpl) RemoveCustomField(ctx context.Context, companyID, key string, guard salarytemplate.VersionGuard) (salarytemplate.TemplateResponse, error) {
	return s.mutate(ctx, companyID, guard, "remove_custom_field", func(c salarytemplate.Config) (salarytemplate.Config, error) {
		return salarytemplate.RemoveCustomField(c, key)
	})
}

// SetValidationRule implements salarytemplate.TemplateService.
func (s *TemplateServiceImpl) SetValidationRule(ctx context.Context, req salarytemplate.SetValidationRuleRequest) (salarytemplate.TemplateResponse, error) {
	if validator.IsEmpty(req.Key) {
		return salarytemplate.TemplateResponse{}, validator.Single("key", "is required")
	}
	return s.mutate(ctx, req.CompanyID, req.VersionGuard, "set_validation_rule", func(c salarytemplate.Config) (salarytemplate.Config, error) {
		return salarytemplate.SetValidationRule(c, req.Key, req.Rule)
	})
}

// ListEnabledFields implements salarytemplate.TemplateService.
func (s *TemplateServiceImpl) ListEnabledFields(ctx context.Context, companyID string, filter salarytemplate.EnabledFieldsFilter) ([]salarytemplate.Field, error) {
	purpose, err := filter.Parse()
	if err != nil {
		return nil, err
	}
	cfg, err := s.Load(ctx, companyID)
	if err != nil {
		return nil, err
	}
	fields := salarytemplate.EnabledFields(cfg, purpose)
	if fields == nil {
		fields = []salarytemplate.Field{}
	}
	return fields, nil
}

// Reset implements salarytemplate.TemplateService.
func (s *TemplateServiceImpl) Reset(ctx context.Context, companyID string, guard salarytemplate.VersionGuard) (salarytemplate.TemplateResponse, error) {
	return s.mutate(ctx, companyID, guard, "reset", func(c salarytemplate.Config) (salarytemplate.Config, error) {
		return fixtures.GetDefaultSalaryTemplate(c.CompanyID)
	})
}
