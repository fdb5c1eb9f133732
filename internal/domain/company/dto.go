package company

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/validator"
)

type CompanyResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"company_name"`
	Status    string    `json:"status"`
	Address   *string   `json:"company_address,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type CreateCompanyRequest struct {
	Name    string  `json:"company_name"`
	Address *string `json:"company_address,omitempty"`
}

func (r *CreateCompanyRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{Field: "company_name", Message: "company_name is required"})
	}
	if len(r.Name) > 255 {
		errs = append(errs, validator.ValidationError{Field: "company_name", Message: "company_name must not exceed 255 characters"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateCompanyRequest struct {
	Name    *string `json:"company_name,omitempty"`
	Address *string `json:"company_address,omitempty"`
	Status  *string `json:"status,omitempty"`
}

func (r *UpdateCompanyRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Name != nil && validator.IsEmpty(*r.Name) {
		errs = append(errs, validator.ValidationError{Field: "company_name", Message: "company_name must not be empty"})
	}
	if r.Status != nil && !Status(strings.ToUpper(*r.Status)).IsValid() {
		errs = append(errs, validator.ValidationError{Field: "status", Message: "must be ACTIVE or INACTIVE"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type CompanyFilter struct {
	Status *string
	Page   int
	Limit  int
}

type ListCompanyResponse struct {
	Data       []CompanyResponse `json:"data"`
	TotalCount int64             `json:"total_count"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
}

func ToResponse(c Company) CompanyResponse {
	return CompanyResponse{
		ID:        c.ID,
		Name:      c.Name,
		Status:    string(c.Status),
		Address:   c.Address,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
