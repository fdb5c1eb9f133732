package employment

import "context"

type EmploymentRepository interface {
	GetByID(ctx context.Context, id string) (History, error)
	ListByEmployee(ctx context.Context, employeeID string) ([]History, error)
	// ListActiveByCompany returns the ACTIVE records of a company.
	ListActiveByCompany(ctx context.Context, companyID string) ([]History, error)
	Create(ctx context.Context, h History) (History, error)
	Update(ctx context.Context, h History) error
}
