package company

import (
	"context"
)

type CompanyService interface {
	List(ctx context.Context, filter CompanyFilter) (ListCompanyResponse, error)
	Create(ctx context.Context, req CreateCompanyRequest) (CompanyResponse, error)
	GetByID(ctx context.Context, id string) (CompanyResponse, error)
	Update(ctx context.Context, id string, req UpdateCompanyRequest) (CompanyResponse, error)
}
