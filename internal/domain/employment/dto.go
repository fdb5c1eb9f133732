package employment

import (
	"strings"

	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/utils"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type AssignRequest struct {
	EmployeeID  string          `json:"-"`
	CompanyID   string          `json:"company_id"`
	Designation string          `json:"designation"`
	Department  string          `json:"department"`
	Salary      decimal.Decimal `json:"salary"`
	JoiningDate string          `json:"joining_date"`
}

func (r *AssignRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "is required"})
	}
	if validator.IsEmpty(r.CompanyID) {
		errs = append(errs, validator.ValidationError{Field: "company_id", Message: "is required"})
	}
	if validator.IsEmpty(r.Designation) {
		errs = append(errs, validator.ValidationError{Field: "designation", Message: "is required"})
	}
	if validator.IsEmpty(r.Department) {
		errs = append(errs, validator.ValidationError{Field: "department", Message: "is required"})
	}
	if !r.Salary.IsPositive() {
		errs = append(errs, validator.ValidationError{Field: "salary", Message: "must be greater than zero"})
	}
	if _, ok := validator.IsValidDate(r.JoiningDate); !ok {
		errs = append(errs, validator.ValidationError{Field: "joining_date", Message: "must be in YYYY-MM-DD format"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToEntity assumes Validate has passed.
func (r *AssignRequest) ToEntity() History {
	joining, _ := validator.IsValidDate(r.JoiningDate)
	return History{
		EmployeeID:  r.EmployeeID,
		CompanyID:   r.CompanyID,
		Designation: strings.TrimSpace(r.Designation),
		Department:  strings.TrimSpace(r.Department),
		Salary:      r.Salary,
		JoiningDate: utils.DateOnly(joining),
		Status:      StatusActive,
	}
}

type TerminateRequest struct {
	ID          string  `json:"-"`
	LeavingDate string  `json:"leaving_date"`
	Reason      *string `json:"reason,omitempty"`
}

func (r *TerminateRequest) Validate() error {
	if _, ok := validator.IsValidDate(r.LeavingDate); !ok {
		return validator.Single("leaving_date", "must be in YYYY-MM-DD format")
	}
	return nil
}

type UpdateRequest struct {
	ID          string           `json:"-"`
	CompanyID   *string          `json:"company_id,omitempty"`
	Designation *string          `json:"designation,omitempty"`
	Department  *string          `json:"department,omitempty"`
	Salary      *decimal.Decimal `json:"salary,omitempty"`
	JoiningDate *string          `json:"joining_date,omitempty"`
	LeavingDate *string          `json:"leaving_date,omitempty"`
	Status      *string          `json:"status,omitempty"`
}

// ToChanges validates formats and converts the request.
func (r *UpdateRequest) ToChanges() (Changes, error) {
	var errs validator.ValidationErrors
	var c Changes

	if r.CompanyID != nil {
		if validator.IsEmpty(*r.CompanyID) {
			errs = append(errs, validator.ValidationError{Field: "company_id", Message: "must not be empty"})
		}
		c.CompanyID = r.CompanyID
	}
	if r.Designation != nil {
		if validator.IsEmpty(*r.Designation) {
			errs = append(errs, validator.ValidationError{Field: "designation", Message: "must not be empty"})
		}
		c.Designation = r.Designation
	}
	if r.Department != nil {
		if validator.IsEmpty(*r.Department) {
			errs = append(errs, validator.ValidationError{Field: "department", Message: "must not be empty"})
		}
		c.Department = r.Department
	}
	c.Salary = r.Salary
	if r.JoiningDate != nil {
		d, ok := validator.IsValidDate(*r.JoiningDate)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "joining_date", Message: "must be in YYYY-MM-DD format"})
		}
		c.JoiningDate = &d
	}
	if r.LeavingDate != nil {
		d, ok := validator.IsValidDate(*r.LeavingDate)
		if !ok {
			errs = append(errs, validator.ValidationError{Field: "leaving_date", Message: "must be in YYYY-MM-DD format"})
		}
		c.LeavingDate = &d
	}
	if r.Status != nil {
		st := Status(strings.ToUpper(*r.Status))
		if !st.IsValid() {
			errs = append(errs, validator.ValidationError{Field: "status", Message: "must be ACTIVE or INACTIVE"})
		}
		c.Status = &st
	}

	if len(errs) > 0 {
		return Changes{}, errs
	}
	return c, nil
}

type EmploymentResponse struct {
	ID                string          `json:"id"`
	EmployeeID        string          `json:"employee_id"`
	CompanyID         string          `json:"company_id"`
	Designation       string          `json:"designation"`
	Department        string          `json:"department"`
	Salary            decimal.Decimal `json:"salary"`
	JoiningDate       string          `json:"joining_date"`
	LeavingDate       *string         `json:"leaving_date,omitempty"`
	Status            string          `json:"status"`
	TerminationReason *string         `json:"termination_reason,omitempty"`
}

func ToResponse(h History) EmploymentResponse {
	return EmploymentResponse{
		ID:                h.ID,
		EmployeeID:        h.EmployeeID,
		CompanyID:         h.CompanyID,
		Designation:       h.Designation,
		Department:        h.Department,
		Salary:            h.Salary,
		JoiningDate:       utils.FormatDate(h.JoiningDate),
		LeavingDate:       utils.FormatDatePtr(h.LeavingDate),
		Status:            string(h.Status),
		TerminationReason: h.TerminationReason,
	}
}

func ToResponses(records []History) []EmploymentResponse {
	result := make([]EmploymentResponse, 0, len(records))
	for _, h := range records {
		result = append(result, ToResponse(h))
	}
	return result
}
