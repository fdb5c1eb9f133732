package salarytemplate

import (
	"encoding/json"
	"testing"

	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/validator"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func amount(v int64) *decimal.Decimal {
	d := decimal.NewFromInt(v)
	return &d
}

func str(s string) *string { return &s }

func testConfig() Config {
	return Config{
		CompanyID: "company-1",
		Version:   3,
		Mandatory: []Field{
			{Key: "basic_pay", Label: "Basic Pay", Category: CategoryMandatory, Purpose: PurposeCalculation, Kind: KindBasicPay, Enabled: true, Input: NumberInput{DefaultValue: amount(15000)}},
			{Key: "pf", Label: "PF", Category: CategoryMandatory, Purpose: PurposeDeduction, Kind: KindPF, Enabled: true, Input: NumberInput{}},
			{Key: "pay_mode", Label: "Pay Mode", Category: CategoryMandatory, Purpose: PurposeInformation, Kind: KindNone, Enabled: true, Input: SelectInput{Options: []string{"CASH", "BANK_TRANSFER"}}},
		},
		Optional: []Field{
			{Key: "hra", Label: "HRA", Category: CategoryOptional, Purpose: PurposeAllowance, Kind: KindAllowance, Enabled: true, Input: NumberInput{}},
			{Key: "advance", Label: "Advance", Category: CategoryOptional, Purpose: PurposeDeduction, Kind: KindAdvance, Enabled: false, Input: NumberInput{}},
			{Key: "uan_number", Label: "UAN", Category: CategoryOptional, Purpose: PurposeInformation, Kind: KindNone, Enabled: false, Input: TextInput{MaxLength: 12}},
		},
	}
}

func TestValidate_TestConfig(t *testing.T) {
	require.NoError(t, Validate(testConfig()))
}

func TestToggle(t *testing.T) {
	t.Run("enables optional field", func(t *testing.T) {
		cfg := testConfig()
		next, err := Toggle(cfg, "advance", true)

		require.NoError(t, err)
		f, _ := next.Find("advance")
		assert.True(t, f.Enabled)
		orig, _ := cfg.Find("advance")
		assert.False(t, orig.Enabled, "input must not be mutated")
	})

	t.Run("rejects disabling mandatory field", func(t *testing.T) {
		cfg := testConfig()
		before := cfg.Clone()

		_, err := Toggle(cfg, "pf", false)

		require.Error(t, err)
		assert.ErrorIs(t, err, ErrMandatoryFieldLocked)
		assert.True(t, apperror.Is(err, apperror.KindValidation))
		assert.Equal(t, before, cfg)
	})

	t.Run("enabling mandatory field is a no-op", func(t *testing.T) {
		next, err := Toggle(testConfig(), "pf", true)
		require.NoError(t, err)
		f, _ := next.Find("pf")
		assert.True(t, f.Enabled)
	})

	t.Run("unknown key", func(t *testing.T) {
		_, err := Toggle(testConfig(), "bonus", true)
		assert.ErrorIs(t, err, ErrFieldNotFound)
		assert.True(t, apperror.Is(err, apperror.KindNotFound))
	})
}

func TestSetDefaultValue(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		raw     string
		want    string
		wantErr error
	}{
		{name: "number", key: "hra", raw: "2000.50", want: "2000.5"},
		{name: "number not finite", key: "hra", raw: "NaN", wantErr: ErrInvalidDefaultValue},
		{name: "number garbage", key: "hra", raw: "two thousand", wantErr: ErrInvalidDefaultValue},
		{name: "negative money", key: "advance", raw: "-10", wantErr: ErrInvalidDefaultValue},
		{name: "select option", key: "pay_mode", raw: "CASH", want: "CASH"},
		{name: "select outside options", key: "pay_mode", raw: "UPI", wantErr: ErrInvalidDefaultValue},
		{name: "text too long", key: "uan_number", raw: "1234567890123", wantErr: ErrInvalidDefaultValue},
		{name: "text", key: "uan_number", raw: "100200300400", want: "100200300400"},
		{name: "unknown key", key: "bonus", raw: "1", wantErr: ErrFieldNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			next, err := SetDefaultValue(cfg, tt.key, tt.raw)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, testConfig(), cfg)
				return
			}
			require.NoError(t, err)
			f, _ := next.Find(tt.key)
			got, ok := f.Input.Default()
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSetDefaultValue_RespectsRule(t *testing.T) {
	cfg, err := SetValidationRule(testConfig(), "hra", "value <= 5000.0")
	require.NoError(t, err)

	_, err = SetDefaultValue(cfg, "hra", "6000")
	var appErr *apperror.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, "hra", appErr.Field)

	_, err = SetDefaultValue(cfg, "hra", "4000")
	assert.NoError(t, err)
}

func TestClearDefaultValue(t *testing.T) {
	next, err := ClearDefaultValue(testConfig(), "basic_pay")
	require.NoError(t, err)

	f, _ := next.Find("basic_pay")
	_, ok := f.Amount()
	assert.False(t, ok)
}

func TestSetValidationRule(t *testing.T) {
	t.Run("rejects rule failing current default", func(t *testing.T) {
		_, err := SetValidationRule(testConfig(), "basic_pay", "value < 10000.0")
		assert.ErrorIs(t, err, ErrInvalidDefaultValue)
	})

	t.Run("rejects non boolean", func(t *testing.T) {
		_, err := SetValidationRule(testConfig(), "basic_pay", "value * 2.0")
		assert.ErrorIs(t, err, ErrInvalidRule)
	})

	t.Run("rejects type mismatch", func(t *testing.T) {
		_, err := SetValidationRule(testConfig(), "uan_number", "value > 3.0")
		assert.ErrorIs(t, err, ErrInvalidRule)
	})

	t.Run("clears rule", func(t *testing.T) {
		cfg, err := SetValidationRule(testConfig(), "hra", "value >= 0.0")
		require.NoError(t, err)
		cfg, err = SetValidationRule(cfg, "hra", "")
		require.NoError(t, err)
		f, _ := cfg.Find("hra")
		assert.Empty(t, f.Rule)
	})
}

func TestAddCustomField(t *testing.T) {
	cfg := AddCustomField(testConfig())
	cfg = AddCustomField(cfg)

	require.Len(t, cfg.Custom, 2)
	assert.Equal(t, "custom_field_1", cfg.Custom[0].Key)
	assert.Equal(t, "custom_field_2", cfg.Custom[1].Key)

	f := cfg.Custom[0]
	assert.Equal(t, CategoryCustom, f.Category)
	assert.Equal(t, PurposeInformation, f.Purpose)
	assert.Equal(t, FieldTypeText, f.Type())
	assert.True(t, f.Enabled)
	require.NoError(t, Validate(cfg))
}

func TestAddCustomField_SkipsTakenKeys(t *testing.T) {
	cfg := AddCustomField(AddCustomField(testConfig()))
	cfg, err := RemoveCustomField(cfg, "custom_field_1")
	require.NoError(t, err)

	cfg = AddCustomField(cfg)

	keys := []string{cfg.Custom[0].Key, cfg.Custom[1].Key}
	assert.Equal(t, []string{"custom_field_2", "custom_field_3"}, keys)
}

func TestUpdateCustomField(t *testing.T) {
	base := AddCustomField(testConfig())
	number := FieldTypeNumber
	allowance := PurposeAllowance
	other := KindOtherAllowance

	t.Run("becomes an allowance", func(t *testing.T) {
		next, err := UpdateCustomField(base, "custom_field_1", Definition{
			Key: str("night_shift"), Label: str("Night Shift"), Type: &number, Purpose: &allowance, Kind: &other,
		})
		require.NoError(t, err)

		f, ok := next.Find("night_shift")
		require.True(t, ok)
		assert.Equal(t, FieldTypeNumber, f.Type())
		assert.Equal(t, KindOtherAllowance, f.EffectiveKind())
	})

	t.Run("monetary purpose needs number type", func(t *testing.T) {
		_, err := UpdateCustomField(base, "custom_field_1", Definition{Purpose: &allowance})
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
	})

	t.Run("duplicate key", func(t *testing.T) {
		_, err := UpdateCustomField(base, "custom_field_1", Definition{Key: str("hra")})
		assert.ErrorIs(t, err, ErrDuplicateFieldKey)
	})

	t.Run("second basic pay", func(t *testing.T) {
		basic := KindBasicPay
		calc := PurposeCalculation
		_, err := UpdateCustomField(base, "custom_field_1", Definition{Type: &number, Purpose: &calc, Kind: &basic})
		var verrs validator.ValidationErrors
		require.ErrorAs(t, err, &verrs)
		assert.Equal(t, "basic_pay", verrs[0].Field)
	})

	t.Run("not custom", func(t *testing.T) {
		_, err := UpdateCustomField(base, "hra", Definition{Label: str("Rent")})
		assert.ErrorIs(t, err, ErrFieldNotEditable)
	})
}

func TestRemoveCustomField(t *testing.T) {
	cfg := AddCustomField(testConfig())

	next, err := RemoveCustomField(cfg, "custom_field_1")
	require.NoError(t, err)
	assert.Empty(t, next.Custom)
	assert.Len(t, cfg.Custom, 1)

	_, err = RemoveCustomField(cfg, "hra")
	assert.ErrorIs(t, err, ErrFieldNotRemovable)

	_, err = RemoveCustomField(cfg, "nope")
	assert.ErrorIs(t, err, ErrFieldNotFound)
}

func TestRemoveCustomField_LastBasicPayRejected(t *testing.T) {
	cfg := testConfig()
	cfg.Mandatory = cfg.Mandatory[1:]
	cfg.Custom = []Field{
		{Key: "base_wage", Label: "Base Wage", Category: CategoryCustom, Purpose: PurposeCalculation, Kind: KindBasicPay, Enabled: true, Input: NumberInput{DefaultValue: amount(12000)}},
	}
	require.NoError(t, Validate(cfg))

	_, err := RemoveCustomField(cfg, "base_wage")

	var verrs validator.ValidationErrors
	require.ErrorAs(t, err, &verrs)
	assert.Equal(t, "basic_pay", verrs[0].Field)
	assert.Len(t, cfg.Custom, 1)
}

func TestEnabledFields(t *testing.T) {
	cfg := AddCustomField(testConfig())

	var keys []string
	for _, f := range EnabledFields(cfg, nil) {
		keys = append(keys, f.Key)
	}
	assert.Equal(t, []string{"basic_pay", "pf", "pay_mode", "hra", "custom_field_1"}, keys)

	deduction := PurposeDeduction
	got := EnabledFields(cfg, &deduction)
	require.Len(t, got, 1)
	assert.Equal(t, "pf", got[0].Key)
}

func TestValidate_CategoryPlacement(t *testing.T) {
	cfg := testConfig()
	cfg.Optional[0].Category = CategoryCustom

	var verrs validator.ValidationErrors
	require.ErrorAs(t, Validate(cfg), &verrs)
	assert.Equal(t, "hra", verrs[0].Field)
}

func TestField_JSONRoundTripKeepsVariant(t *testing.T) {
	cfg, err := SetDefaultValue(testConfig(), "pay_mode", "CASH")
	require.NoError(t, err)

	data, err := json.Marshal(cfg.Document())
	require.NoError(t, err)

	var doc Document
	require.NoError(t, json.Unmarshal(data, &doc))

	got := ConfigFromDocument(cfg.CompanyID, doc, cfg.Version)
	payMode, _ := got.Find("pay_mode")
	sel, ok := payMode.Input.(SelectInput)
	require.True(t, ok)
	assert.Equal(t, []string{"CASH", "BANK_TRANSFER"}, sel.Options)
	assert.Equal(t, "CASH", *sel.DefaultValue)

	basic, _ := got.Find("basic_pay")
	v, ok := basic.Amount()
	require.True(t, ok)
	assert.True(t, v.Equal(decimal.NewFromInt(15000)))
}

func TestField_Amount(t *testing.T) {
	cfg := testConfig()

	basic, _ := cfg.Find("basic_pay")
	got, ok := basic.Amount()
	require.True(t, ok)
	assert.True(t, got.Equal(decimal.NewFromInt(15000)))

	pf, _ := cfg.Find("pf")
	_, ok = pf.Amount()
	assert.False(t, ok)

	payMode, _ := cfg.Find("pay_mode")
	_, ok = payMode.Amount()
	assert.False(t, ok)
}
