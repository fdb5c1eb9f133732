package fixtures

import (
	"testing"

	"github.com/cmlabs-hris/salary-engine-go/internal/domain/salarytemplate"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDefaultSalaryTemplate(t *testing.T) {
	cfg, err := GetDefaultSalaryTemplate("company-1")
	require.NoError(t, err)

	assert.Equal(t, "company-1", cfg.CompanyID)
	assert.Len(t, cfg.Mandatory, 4)
	assert.Empty(t, cfg.Custom)
	require.NoError(t, salarytemplate.Validate(cfg))

	basic, ok := salarytemplate.BasicPayField(cfg.Mandatory)
	require.True(t, ok)
	assert.Equal(t, "basic_pay", basic.Key)

	payMode, ok := cfg.Find("pay_mode")
	require.True(t, ok)
	v, ok := payMode.Input.Default()
	require.True(t, ok)
	assert.Equal(t, "BANK_TRANSFER", v)

	for _, key := range []string{"pf", "esic"} {
		f, ok := cfg.Find(key)
		require.True(t, ok, key)
		amount, ok := f.Amount()
		require.True(t, ok, key)
		assert.True(t, amount.IsZero(), key)
	}
}

func TestGetDefaultSalaryTemplate_ReturnsIndependentCopies(t *testing.T) {
	a, err := GetDefaultSalaryTemplate("a")
	require.NoError(t, err)
	a.Optional[0].Enabled = false

	b, err := GetDefaultSalaryTemplate("b")
	require.NoError(t, err)
	assert.True(t, b.Optional[0].Enabled)
}

func TestParseSalaryTemplate_RejectsInvalidDocuments(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{
			name: "no basic pay field",
			yaml: `
mandatory_fields:
  - {key: pf, label: PF, type: NUMBER, category: MANDATORY_WITH_RULES, purpose: DEDUCTION, kind: PF, enabled: true}
`,
		},
		{
			name: "duplicate key",
			yaml: `
mandatory_fields:
  - {key: basic_pay, label: Basic, type: NUMBER, category: MANDATORY_WITH_RULES, purpose: CALCULATION, kind: BASIC_PAY, enabled: true}
optional_fields:
  - {key: basic_pay, label: Again, type: NUMBER, category: OPTIONAL, purpose: ALLOWANCE, enabled: true}
`,
		},
		{
			name: "unknown type",
			yaml: `
mandatory_fields:
  - {key: basic_pay, label: Basic, type: DATE, category: MANDATORY_WITH_RULES, purpose: CALCULATION, kind: BASIC_PAY, enabled: true}
`,
		},
		{
			name: "default outside options",
			yaml: `
mandatory_fields:
  - {key: basic_pay, label: Basic, type: NUMBER, category: MANDATORY_WITH_RULES, purpose: CALCULATION, kind: BASIC_PAY, enabled: true}
  - {key: mode, label: Mode, type: SELECT, category: MANDATORY_WITH_RULES, purpose: INFORMATION, enabled: true, options: [CASH], default: CARD}
`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseSalaryTemplate([]byte(tt.yaml))
			assert.Error(t, err)
		})
	}
}
