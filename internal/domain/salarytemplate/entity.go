package salarytemplate

import (
	"time"

	"github.com/shopspring/decimal"
)

type FieldType string

const (
	FieldTypeText   FieldType = "TEXT"
	FieldTypeNumber FieldType = "NUMBER"
	FieldTypeSelect FieldType = "SELECT"
)

func (t FieldType) IsValid() bool {
	return t == FieldTypeText || t == FieldTypeNumber || t == FieldTypeSelect
}

type FieldCategory string

const (
	CategoryMandatory FieldCategory = "MANDATORY_WITH_RULES"
	CategoryOptional  FieldCategory = "OPTIONAL"
	CategoryCustom    FieldCategory = "CUSTOM"
)

type Purpose string

const (
	PurposeInformation Purpose = "INFORMATION"
	PurposeCalculation Purpose = "CALCULATION"
	PurposeAllowance   Purpose = "ALLOWANCE"
	PurposeDeduction   Purpose = "DEDUCTION"
)

func (p Purpose) IsValid() bool {
	switch p {
	case PurposeInformation, PurposeCalculation, PurposeAllowance, PurposeDeduction:
		return true
	}
	return false
}

// IsMonetary reports whether fields of this purpose carry money amounts.
func (p Purpose) IsMonetary() bool {
	return p == PurposeCalculation || p == PurposeAllowance || p == PurposeDeduction
}

// Kind tags a field with the payslip line it feeds.
type Kind string

const (
	KindNone           Kind = "NONE"
	KindBasicPay       Kind = "BASIC_PAY"
	KindAllowance      Kind = "ALLOWANCE"
	KindOtherAllowance Kind = "OTHER_ALLOWANCE"
	KindOtherEarning   Kind = "OTHER_EARNING"
	KindPF             Kind = "PF"
	KindESIC           Kind = "ESIC"
	KindAdvance        Kind = "ADVANCE"
	KindOtherDeduction Kind = "OTHER_DEDUCTION"
)

var kindPurpose = map[Kind]Purpose{
	KindBasicPay:       PurposeCalculation,
	KindAllowance:      PurposeAllowance,
	KindOtherAllowance: PurposeAllowance,
	KindOtherEarning:   PurposeAllowance,
	KindPF:             PurposeDeduction,
	KindESIC:           PurposeDeduction,
	KindAdvance:        PurposeDeduction,
	KindOtherDeduction: PurposeDeduction,
}

func (k Kind) IsValid() bool {
	if k == KindNone {
		return true
	}
	_, ok := kindPurpose[k]
	return ok
}

// FitsPurpose reports whether a field of purpose p may carry this kind.
func (k Kind) FitsPurpose(p Purpose) bool {
	if k == KindNone || k == "" {
		return true
	}
	return kindPurpose[k] == p
}

// Field is one configurable payslip line. Input holds the type-specific
// default and constraints.
type Field struct {
	Key      string
	Label    string
	Category FieldCategory
	Purpose  Purpose
	Kind     Kind
	Enabled  bool
	Rule     string
	Input    Input
}

func (f Field) Type() FieldType {
	if f.Input == nil {
		return FieldTypeText
	}
	return f.Input.Type()
}

// EffectiveKind fills in the kind implied by the purpose when none is set.
func (f Field) EffectiveKind() Kind {
	if f.Kind != "" && f.Kind != KindNone {
		return f.Kind
	}
	switch f.Purpose {
	case PurposeAllowance:
		return KindAllowance
	case PurposeDeduction:
		return KindOtherDeduction
	}
	return KindNone
}

// Amount returns the numeric default of a NUMBER field.
func (f Field) Amount() (decimal.Decimal, bool) {
	n, ok := f.Input.(NumberInput)
	if !ok || n.DefaultValue == nil {
		return decimal.Zero, false
	}
	return *n.DefaultValue, true
}

// Config is the salary template of one company.
type Config struct {
	CompanyID string
	Mandatory []Field
	Optional  []Field
	Custom    []Field
	Version   int
	UpdatedAt time.Time
}

// All returns every field in mandatory, optional, custom order.
func (c Config) All() []Field {
	all := make([]Field, 0, len(c.Mandatory)+len(c.Optional)+len(c.Custom))
	all = append(all, c.Mandatory...)
	all = append(all, c.Optional...)
	all = append(all, c.Custom...)
	return all
}

// Find locates a field by key.
func (c Config) Find(key string) (Field, bool) {
	for _, f := range c.All() {
		if f.Key == key {
			return f, true
		}
	}
	return Field{}, false
}

// Clone deep-copies the field collections so transforms never share backing
// arrays with their input.
func (c Config) Clone() Config {
	next := c
	next.Mandatory = cloneFields(c.Mandatory)
	next.Optional = cloneFields(c.Optional)
	next.Custom = cloneFields(c.Custom)
	return next
}

func cloneFields(fields []Field) []Field {
	if fields == nil {
		return nil
	}
	out := make([]Field, len(fields))
	for i, f := range fields {
		out[i] = f
		if f.Input != nil {
			out[i].Input = f.Input.clone()
		}
	}
	return out
}
