package salarytemplate

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// fieldJSON is the flat wire and storage shape of a Field.
type fieldJSON struct {
	Key       string           `json:"key" yaml:"key"`
	Label     string           `json:"label" yaml:"label"`
	Type      FieldType        `json:"type" yaml:"type"`
	Category  FieldCategory    `json:"category" yaml:"category"`
	Purpose   Purpose          `json:"purpose" yaml:"purpose"`
	Kind      Kind             `json:"kind,omitempty" yaml:"kind"`
	Enabled   bool             `json:"enabled" yaml:"enabled"`
	Rule      string           `json:"rule,omitempty" yaml:"rule"`
	Default   *string          `json:"default,omitempty" yaml:"default"`
	Options   []string         `json:"options,omitempty" yaml:"options"`
	Min       *decimal.Decimal `json:"min,omitempty" yaml:"min"`
	Max       *decimal.Decimal `json:"max,omitempty" yaml:"max"`
	MaxLength int              `json:"max_length,omitempty" yaml:"max_length"`
}

func (f Field) toJSON() fieldJSON {
	out := fieldJSON{
		Key:      f.Key,
		Label:    f.Label,
		Type:     f.Type(),
		Category: f.Category,
		Purpose:  f.Purpose,
		Kind:     f.Kind,
		Enabled:  f.Enabled,
		Rule:     f.Rule,
	}
	if f.Input != nil {
		if v, ok := f.Input.Default(); ok {
			out.Default = &v
		}
	}
	switch in := f.Input.(type) {
	case TextInput:
		out.MaxLength = in.MaxLength
	case NumberInput:
		out.Min, out.Max = in.Min, in.Max
	case SelectInput:
		out.Options = in.Options
	}
	return out
}

func (w fieldJSON) toField() (Field, error) {
	f := Field{
		Key:      w.Key,
		Label:    w.Label,
		Category: w.Category,
		Purpose:  w.Purpose,
		Kind:     w.Kind,
		Enabled:  w.Enabled,
		Rule:     w.Rule,
	}
	if f.Kind == "" {
		f.Kind = KindNone
	}

	var input Input
	switch w.Type {
	case FieldTypeText, "":
		input = TextInput{MaxLength: w.MaxLength}
	case FieldTypeNumber:
		input = NumberInput{Min: w.Min, Max: w.Max}
	case FieldTypeSelect:
		input = SelectInput{Options: w.Options}
	default:
		return Field{}, fmt.Errorf("field %q: unknown type %q", w.Key, w.Type)
	}
	if w.Default != nil {
		withDefault, err := input.WithDefault(*w.Default)
		if err != nil {
			return Field{}, fmt.Errorf("field %q: default: %w", w.Key, err)
		}
		input = withDefault
	}
	f.Input = input
	return f, nil
}

func (f Field) MarshalJSON() ([]byte, error) {
	return json.Marshal(f.toJSON())
}

func (f *Field) UnmarshalJSON(data []byte) error {
	var w fieldJSON
	if err := json.Unmarshal(data, &w); err != nil {
		return err
	}
	parsed, err := w.toField()
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// UnmarshalYAML lets fixture files describe fields in the wire shape.
func (f *Field) UnmarshalYAML(value *yaml.Node) error {
	var w fieldJSON
	if err := value.Decode(&w); err != nil {
		return err
	}
	parsed, err := w.toField()
	if err != nil {
		return err
	}
	*f = parsed
	return nil
}

// Document is the persisted body of a Config.
type Document struct {
	Mandatory []Field `json:"mandatory_fields" yaml:"mandatory_fields"`
	Optional  []Field `json:"optional_fields" yaml:"optional_fields"`
	Custom    []Field `json:"custom_fields" yaml:"custom_fields"`
}

func (c Config) Document() Document {
	return Document{Mandatory: c.Mandatory, Optional: c.Optional, Custom: c.Custom}
}

// ConfigFromDocument attaches a document to its company.
func ConfigFromDocument(companyID string, d Document, version int) Config {
	return Config{
		CompanyID: companyID,
		Mandatory: d.Mandatory,
		Optional:  d.Optional,
		Custom:    d.Custom,
		Version:   version,
	}
}
