package salarytemplate

import (
	"strings"
	"time"

	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/validator"
)

// VersionGuard lets a client pin the template version it edited.
type VersionGuard struct {
	Version *int `json:"version,omitempty"`
}

type TemplateResponse struct {
	CompanyID       string    `json:"company_id"`
	Version         int       `json:"version"`
	MandatoryFields []Field   `json:"mandatory_fields"`
	OptionalFields  []Field   `json:"optional_fields"`
	CustomFields    []Field   `json:"custom_fields"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func ToResponse(c Config) TemplateResponse {
	return TemplateResponse{
		CompanyID:       c.CompanyID,
		Version:         c.Version,
		MandatoryFields: nonNil(c.Mandatory),
		OptionalFields:  nonNil(c.Optional),
		CustomFields:    nonNil(c.Custom),
		UpdatedAt:       c.UpdatedAt,
	}
}

func nonNil(fields []Field) []Field {
	if fields == nil {
		return []Field{}
	}
	return fields
}

type ToggleFieldRequest struct {
	VersionGuard
	CompanyID string `json:"-"`
	Key       string `json:"-"`
	Enabled   *bool  `json:"enabled"`
}

func (r *ToggleFieldRequest) Validate() error {
	var errs validator.ValidationErrors
	if validator.IsEmpty(r.Key) {
		errs = append(errs, validator.ValidationError{Field: "key", Message: "is required"})
	}
	if r.Enabled == nil {
		errs = append(errs, validator.ValidationError{Field: "enabled", Message: "is required"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// SetDefaultValueRequest clears the default when Value is null.
type SetDefaultValueRequest struct {
	VersionGuard
	CompanyID string  `json:"-"`
	Key       string  `json:"-"`
	Value     *string `json:"value"`
}

func (r *SetDefaultValueRequest) Validate() error {
	if validator.IsEmpty(r.Key) {
		return validator.Single("key", "is required")
	}
	return nil
}

type CustomFieldRequest struct {
	VersionGuard
	CompanyID string   `json:"-"`
	Key       string   `json:"-"`
	NewKey    *string  `json:"key,omitempty"`
	Label     *string  `json:"label,omitempty"`
	Type      *string  `json:"type,omitempty"`
	Options   []string `json:"options,omitempty"`
	Purpose   *string  `json:"purpose,omitempty"`
	Kind      *string  `json:"kind,omitempty"`
}

// ToDefinition validates enum values and converts the request.
func (r *CustomFieldRequest) ToDefinition() (Definition, error) {
	var errs validator.ValidationErrors
	d := Definition{Key: r.NewKey, Options: r.Options}

	if r.Label != nil {
		if validator.IsEmpty(*r.Label) {
			errs = append(errs, validator.ValidationError{Field: "label", Message: "must not be empty"})
		}
		d.Label = r.Label
	}
	if r.Type != nil {
		t := FieldType(strings.ToUpper(*r.Type))
		if !t.IsValid() {
			errs = append(errs, validator.ValidationError{Field: "type", Message: "must be TEXT, NUMBER or SELECT"})
		}
		d.Type = &t
	}
	if r.Purpose != nil {
		p := Purpose(strings.ToUpper(*r.Purpose))
		if !p.IsValid() {
			errs = append(errs, validator.ValidationError{Field: "purpose", Message: "must be INFORMATION, CALCULATION, ALLOWANCE or DEDUCTION"})
		}
		d.Purpose = &p
	}
	if r.Kind != nil {
		k := Kind(strings.ToUpper(*r.Kind))
		if !k.IsValid() {
			errs = append(errs, validator.ValidationError{Field: "kind", Message: "invalid kind"})
		}
		d.Kind = &k
	}
	for _, opt := range r.Options {
		if validator.IsEmpty(opt) {
			errs = append(errs, validator.ValidationError{Field: "options", Message: "must not contain empty values"})
			break
		}
	}

	if len(errs) > 0 {
		return Definition{}, errs
	}
	return d, nil
}

type SetValidationRuleRequest struct {
	VersionGuard
	CompanyID string `json:"-"`
	Key       string `json:"-"`
	Rule      string `json:"rule"`
}

type EnabledFieldsFilter struct {
	Purpose *string
}

func (f *EnabledFieldsFilter) Parse() (*Purpose, error) {
	if f.Purpose == nil || *f.Purpose == "" {
		return nil, nil
	}
	p := Purpose(strings.ToUpper(*f.Purpose))
	if !p.IsValid() {
		return nil, validator.Single("purpose", "must be INFORMATION, CALCULATION, ALLOWANCE or DEDUCTION")
	}
	return &p, nil
}
