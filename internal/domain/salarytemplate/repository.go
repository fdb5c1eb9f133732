package salarytemplate

import "context"

type TemplateRepository interface {
	GetByCompanyID(ctx context.Context, companyID string) (Config, error)
	Create(ctx context.Context, c Config) (Config, error)
	// Save writes c if the stored version still equals c.Version and returns
	// the config with its bumped version. A stale version yields ErrStaleTemplate.
	Save(ctx context.Context, c Config) (Config, error)
}
