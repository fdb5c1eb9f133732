package salarytemplate

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/celrule"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/validator"
)

// Every transform here returns a new Config and leaves its input untouched.
// A rejected edit returns the zero Config alongside the error.

const customKeyPrefix = "custom_field_"

// position addresses a field inside one of the three collections.
type position struct {
	group *[]Field
	index int
}

func (c *Config) locate(key string) (position, bool) {
	for _, group := range []*[]Field{&c.Mandatory, &c.Optional, &c.Custom} {
		for i, f := range *group {
			if f.Key == key {
				return position{group: group, index: i}, true
			}
		}
	}
	return position{}, false
}

func (p position) field() *Field {
	return &(*p.group)[p.index]
}

func fieldNotFound(key string) error {
	return apperror.NotFound(ErrFieldNotFound, "template_field", key)
}

// Toggle flips a field's enabled flag. Mandatory fields cannot be disabled.
func Toggle(c Config, key string, enabled bool) (Config, error) {
	next := c.Clone()
	pos, ok := next.locate(key)
	if !ok {
		return Config{}, fieldNotFound(key)
	}
	f := pos.field()
	if f.Category == CategoryMandatory && !enabled {
		return Config{}, apperror.Validation(ErrMandatoryFieldLocked, key,
			fmt.Sprintf("field %q is mandatory and cannot be disabled", key))
	}
	f.Enabled = enabled
	if err := Validate(next); err != nil {
		return Config{}, err
	}
	return next, nil
}

// SetDefaultValue parses raw against the field's input type, its monetary
// constraint and its validation rule, then stores it as the default.
func SetDefaultValue(c Config, key, raw string) (Config, error) {
	next := c.Clone()
	pos, ok := next.locate(key)
	if !ok {
		return Config{}, fieldNotFound(key)
	}
	f := pos.field()
	updated, err := ParseValue(*f, raw)
	if err != nil {
		return Config{}, err
	}
	*f = updated
	return next, nil
}

// ParseValue returns f carrying raw as its value, or a validation error.
func ParseValue(f Field, raw string) (Field, error) {
	input := f.Input
	if input == nil {
		input = TextInput{}
	}
	parsed, err := input.WithDefault(raw)
	if err != nil {
		return Field{}, apperror.Validation(ErrInvalidDefaultValue, f.Key, err.Error())
	}
	f.Input = parsed
	if amount, ok := f.Amount(); ok && f.Purpose.IsMonetary() && amount.IsNegative() {
		return Field{}, apperror.Validation(ErrInvalidDefaultValue, f.Key, "must not be negative")
	}
	if err := checkRule(f); err != nil {
		return Field{}, err
	}
	return f, nil
}

// ClearDefaultValue drops the field's default.
func ClearDefaultValue(c Config, key string) (Config, error) {
	next := c.Clone()
	pos, ok := next.locate(key)
	if !ok {
		return Config{}, fieldNotFound(key)
	}
	f := pos.field()
	f.Input = NewInput(f.Type(), selectOptions(f.Input))
	return next, nil
}

// AddCustomField appends an enabled TEXT/INFORMATION custom field under the
// first free custom_field_N key.
func AddCustomField(c Config) Config {
	next := c.Clone()
	n := len(next.Custom) + 1
	for {
		key := customKeyPrefix + strconv.Itoa(n)
		if _, taken := next.locate(key); !taken {
			next.Custom = append(next.Custom, Field{
				Key:      key,
				Label:    "Custom Field " + strconv.Itoa(n),
				Category: CategoryCustom,
				Purpose:  PurposeInformation,
				Kind:     KindNone,
				Enabled:  true,
				Input:    TextInput{},
			})
			return next
		}
		n++
	}
}

// Definition is a partial redefinition of a custom field.
type Definition struct {
	Key     *string
	Label   *string
	Type    *FieldType
	Options []string
	Purpose *Purpose
	Kind    *Kind
}

// UpdateCustomField redefines a custom field. Changing the type drops the
// default value and the validation rule.
func UpdateCustomField(c Config, key string, d Definition) (Config, error) {
	next := c.Clone()
	pos, ok := next.locate(key)
	if !ok {
		return Config{}, fieldNotFound(key)
	}
	f := pos.field()
	if f.Category != CategoryCustom {
		return Config{}, apperror.Validation(ErrFieldNotEditable, key,
			fmt.Sprintf("field %q is not a custom field", key))
	}

	if d.Key != nil && *d.Key != f.Key {
		newKey := strings.TrimSpace(*d.Key)
		if !validator.IsValidFieldKey(newKey) {
			return Config{}, apperror.Validation(ErrInvalidFieldKey, "key", "must start with a letter and contain only letters, digits or underscores")
		}
		if _, taken := next.locate(newKey); taken {
			return Config{}, apperror.Validation(ErrDuplicateFieldKey, "key",
				fmt.Sprintf("key %q is already used in this template", newKey))
		}
		f.Key = newKey
	}
	if d.Label != nil {
		f.Label = strings.TrimSpace(*d.Label)
	}
	if d.Type != nil && *d.Type != f.Type() {
		f.Input = NewInput(*d.Type, d.Options)
		f.Rule = ""
	} else if d.Options != nil && f.Type() == FieldTypeSelect {
		f.Input = NewInput(FieldTypeSelect, d.Options)
	}
	if d.Purpose != nil {
		f.Purpose = *d.Purpose
	}
	if d.Kind != nil {
		f.Kind = *d.Kind
	}

	if err := Validate(next); err != nil {
		return Config{}, err
	}
	return next, nil
}

// RemoveCustomField deletes a custom field. Mandatory and optional fields can
// only be disabled.
func RemoveCustomField(c Config, key string) (Config, error) {
	next := c.Clone()
	pos, ok := next.locate(key)
	if !ok {
		return Config{}, fieldNotFound(key)
	}
	if pos.field().Category != CategoryCustom {
		return Config{}, apperror.Validation(ErrFieldNotRemovable, key,
			fmt.Sprintf("field %q is not a custom field and can only be disabled", key))
	}
	next.Custom = slices.Delete(next.Custom, pos.index, pos.index+1)
	if err := Validate(next); err != nil {
		return Config{}, err
	}
	return next, nil
}

// SetValidationRule attaches a CEL rule to a field. An empty rule clears it.
// The field's current default must satisfy the new rule.
func SetValidationRule(c Config, key, rule string) (Config, error) {
	next := c.Clone()
	pos, ok := next.locate(key)
	if !ok {
		return Config{}, fieldNotFound(key)
	}
	f := pos.field()
	rule = strings.TrimSpace(rule)
	if rule == "" {
		f.Rule = ""
		return next, nil
	}
	if _, err := celrule.Compile(ruleValueType(*f), rule); err != nil {
		return Config{}, apperror.Validation(ErrInvalidRule, key, err.Error())
	}
	f.Rule = rule
	if err := checkRule(*f); err != nil {
		return Config{}, err
	}
	return next, nil
}

// EnabledFields lists enabled fields in mandatory, optional, custom order,
// optionally restricted to one purpose.
func EnabledFields(c Config, purpose *Purpose) []Field {
	var out []Field
	for _, f := range c.All() {
		if !f.Enabled {
			continue
		}
		if purpose != nil && f.Purpose != *purpose {
			continue
		}
		out = append(out, f)
	}
	return out
}

// Validate checks the structural invariants of a config.
func Validate(c Config) error {
	var errs validator.ValidationErrors
	seen := make(map[string]bool)
	basic := 0

	check := func(group []Field, category FieldCategory) {
		for _, f := range group {
			if !validator.IsValidFieldKey(f.Key) {
				errs = append(errs, validator.ValidationError{Field: f.Key, Message: "invalid field key"})
			}
			if seen[f.Key] {
				errs = append(errs, validator.ValidationError{Field: f.Key, Message: ErrDuplicateFieldKey.Error()})
			}
			seen[f.Key] = true
			if f.Category != category {
				errs = append(errs, validator.ValidationError{Field: f.Key, Message: "must have category " + string(category)})
			}
			if !f.Purpose.IsValid() {
				errs = append(errs, validator.ValidationError{Field: f.Key, Message: "invalid purpose"})
			}
			if !f.Type().IsValid() {
				errs = append(errs, validator.ValidationError{Field: f.Key, Message: "invalid type"})
			}
			if f.Kind != "" && !f.Kind.IsValid() {
				errs = append(errs, validator.ValidationError{Field: f.Key, Message: "invalid kind"})
			} else if !f.Kind.FitsPurpose(f.Purpose) {
				errs = append(errs, validator.ValidationError{Field: f.Key, Message: "kind " + string(f.Kind) + " does not fit purpose " + string(f.Purpose)})
			}
			if (f.Purpose == PurposeAllowance || f.Purpose == PurposeDeduction || f.Kind == KindBasicPay) && f.Type() != FieldTypeNumber {
				errs = append(errs, validator.ValidationError{Field: f.Key, Message: "monetary fields must be of type NUMBER"})
			}
			if sel, ok := f.Input.(SelectInput); ok && len(sel.Options) == 0 {
				errs = append(errs, validator.ValidationError{Field: f.Key, Message: "select fields need at least one option"})
			}
			if category == CategoryMandatory && !f.Enabled {
				errs = append(errs, validator.ValidationError{Field: f.Key, Message: ErrMandatoryFieldLocked.Error()})
			}
			if f.Enabled && f.Kind == KindBasicPay {
				basic++
			}
		}
	}
	check(c.Mandatory, CategoryMandatory)
	check(c.Optional, CategoryOptional)
	check(c.Custom, CategoryCustom)

	if basic != 1 {
		errs = append(errs, validator.ValidationError{Field: "basic_pay", Message: ErrBasicPayFieldRequired.Error()})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// BasicPayField returns the canonical basic pay field among fields.
func BasicPayField(fields []Field) (Field, bool) {
	for _, f := range fields {
		if f.Kind == KindBasicPay && f.Purpose == PurposeCalculation {
			return f, true
		}
	}
	return Field{}, false
}

func ruleValueType(f Field) celrule.ValueType {
	if f.Type() == FieldTypeNumber {
		return celrule.ValueNumber
	}
	return celrule.ValueString
}

func checkRule(f Field) error {
	if f.Rule == "" || f.Input == nil {
		return nil
	}
	value, ok := f.Input.RuleValue()
	if !ok {
		return nil
	}
	if err := celrule.Check(ruleValueType(f), f.Rule, value); err != nil {
		return apperror.Validation(ErrInvalidDefaultValue, f.Key, fmt.Sprintf("violates rule %q: %v", f.Rule, err))
	}
	return nil
}

func selectOptions(in Input) []string {
	if s, ok := in.(SelectInput); ok {
		return s.Options
	}
	return nil
}
