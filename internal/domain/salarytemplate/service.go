package salarytemplate

import "context"

type TemplateService interface {
	Get(ctx context.Context, companyID string) (TemplateResponse, error)
	// Load returns the stored config, seeding the defaults on first use.
	Load(ctx context.Context, companyID string) (Config, error)
	Toggle(ctx context.Context, req ToggleFieldRequest) (TemplateResponse, error)
	SetDefaultValue(ctx context.Context, req SetDefaultValueRequest) (TemplateResponse, error)
	AddCustomField(ctx context.Context, req CustomFieldRequest) (TemplateResponse, error)
	UpdateCustomField(ctx context.Context, req CustomFieldRequest) (TemplateResponse, error)
	RemoveCustomField(ctx context.Context, companyID, key string, guard VersionGuard) (TemplateResponse, error)
	SetValidationRule(ctx context.Context, req SetValidationRuleRequest) (TemplateResponse, error)
	ListEnabledFields(ctx context.Context, companyID string, filter EnabledFieldsFilter) ([]Field, error)
	Reset(ctx context.Context, companyID string, guard VersionGuard) (TemplateResponse, error)
}
