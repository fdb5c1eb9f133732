package salarytemplate

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// Input is the type-specific half of a Field: TextInput, NumberInput or
// SelectInput.
type Input interface {
	Type() FieldType
	// Default renders the current default, if any.
	Default() (string, bool)
	// WithDefault parses raw against the input's constraints and returns a
	// copy carrying it as default.
	WithDefault(raw string) (Input, error)
	// RuleValue converts the default to the value a CEL rule sees.
	RuleValue() (any, bool)
	clone() Input
}

type TextInput struct {
	DefaultValue *string
	MaxLength    int
}

func (TextInput) Type() FieldType { return FieldTypeText }

func (in TextInput) Default() (string, bool) {
	if in.DefaultValue == nil {
		return "", false
	}
	return *in.DefaultValue, true
}

func (in TextInput) WithDefault(raw string) (Input, error) {
	if in.MaxLength > 0 && utf8.RuneCountInString(raw) > in.MaxLength {
		return nil, fmt.Errorf("must be at most %d characters", in.MaxLength)
	}
	next := in
	next.DefaultValue = &raw
	return next, nil
}

func (in TextInput) RuleValue() (any, bool) {
	if in.DefaultValue == nil {
		return nil, false
	}
	return *in.DefaultValue, true
}

func (in TextInput) clone() Input {
	if in.DefaultValue != nil {
		v := *in.DefaultValue
		in.DefaultValue = &v
	}
	return in
}

type NumberInput struct {
	DefaultValue *decimal.Decimal
	Min          *decimal.Decimal
	Max          *decimal.Decimal
}

func (NumberInput) Type() FieldType { return FieldTypeNumber }

func (in NumberInput) Default() (string, bool) {
	if in.DefaultValue == nil {
		return "", false
	}
	return in.DefaultValue.String(), true
}

func (in NumberInput) WithDefault(raw string) (Input, error) {
	d, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil {
		return nil, errors.New("must be a finite number")
	}
	if in.Min != nil && d.LessThan(*in.Min) {
		return nil, fmt.Errorf("must be at least %s", in.Min.String())
	}
	if in.Max != nil && d.GreaterThan(*in.Max) {
		return nil, fmt.Errorf("must be at most %s", in.Max.String())
	}
	next := in
	next.DefaultValue = &d
	return next, nil
}

func (in NumberInput) RuleValue() (any, bool) {
	if in.DefaultValue == nil {
		return nil, false
	}
	f, _ := in.DefaultValue.Float64()
	return f, true
}

func (in NumberInput) clone() Input {
	if in.DefaultValue != nil {
		v := *in.DefaultValue
		in.DefaultValue = &v
	}
	return in
}

type SelectInput struct {
	Options      []string
	DefaultValue *string
}

func (SelectInput) Type() FieldType { return FieldTypeSelect }

func (in SelectInput) Default() (string, bool) {
	if in.DefaultValue == nil {
		return "", false
	}
	return *in.DefaultValue, true
}

func (in SelectInput) WithDefault(raw string) (Input, error) {
	if !validator.IsInSlice(raw, in.Options) {
		return nil, fmt.Errorf("must be one of: %s", strings.Join(in.Options, ", "))
	}
	next := in.clone().(SelectInput)
	next.DefaultValue = &raw
	return next, nil
}

func (in SelectInput) RuleValue() (any, bool) {
	if in.DefaultValue == nil {
		return nil, false
	}
	return *in.DefaultValue, true
}

func (in SelectInput) clone() Input {
	in.Options = slices.Clone(in.Options)
	if in.DefaultValue != nil {
		v := *in.DefaultValue
		in.DefaultValue = &v
	}
	return in
}

// NewInput builds an empty input of type t.
func NewInput(t FieldType, options []string) Input {
	switch t {
	case FieldTypeNumber:
		return NumberInput{}
	case FieldTypeSelect:
		return SelectInput{Options: slices.Clone(options)}
	default:
		return TextInput{}
	}
}
