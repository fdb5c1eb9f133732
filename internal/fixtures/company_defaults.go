package fixtures

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/cmlabs-hris/salary-engine-go/internal/domain/salarytemplate"
	"gopkg.in/yaml.v3"
)

// ==========================================
// DEFAULT SALARY TEMPLATE
// ==========================================

//go:embed salary_template.yaml
var defaultSalaryTemplate []byte

var (
	defaultTemplateOnce sync.Once
	defaultTemplateDoc  salarytemplate.Document
	defaultTemplateErr  error
)

func loadDefaultTemplate() (salarytemplate.Document, error) {
	defaultTemplateOnce.Do(func() {
		defaultTemplateDoc, defaultTemplateErr = ParseSalaryTemplate(defaultSalaryTemplate)
	})
	return defaultTemplateDoc, defaultTemplateErr
}

// ParseSalaryTemplate decodes a YAML template document and checks its invariants.
func ParseSalaryTemplate(data []byte) (salarytemplate.Document, error) {
	var doc salarytemplate.Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return salarytemplate.Document{}, fmt.Errorf("decode salary template: %w", err)
	}
	if err := salarytemplate.Validate(salarytemplate.ConfigFromDocument("", doc, 0)); err != nil {
		return salarytemplate.Document{}, fmt.Errorf("invalid salary template: %w", err)
	}
	return doc, nil
}

// GetDefaultSalaryTemplate returns a fresh copy of the default template for a
// new company.
func GetDefaultSalaryTemplate(companyID string) (salarytemplate.Config, error) {
	doc, err := loadDefaultTemplate()
	if err != nil {
		return salarytemplate.Config{}, err
	}
	return salarytemplate.ConfigFromDocument(companyID, doc, 0).Clone(), nil
}
