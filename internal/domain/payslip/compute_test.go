package payslip

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/salary-engine-go/internal/domain/employee"
	st "github.com/cmlabs-hris/salary-engine-go/internal/domain/salarytemplate"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/apperror"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func money(v string) *decimal.Decimal {
	d := decimal.RequireFromString(v)
	return &d
}

func numberField(key string, category st.FieldCategory, purpose st.Purpose, kind st.Kind, value string) st.Field {
	in := st.NumberInput{}
	if value != "" {
		in.DefaultValue = money(value)
	}
	return st.Field{Key: key, Label: key, Category: category, Purpose: purpose, Kind: kind, Enabled: true, Input: in}
}

func sampleFields() []st.Field {
	return []st.Field{
		numberField("basic", st.CategoryMandatory, st.PurposeCalculation, st.KindBasicPay, "15000"),
		numberField("hra", st.CategoryOptional, st.PurposeAllowance, st.KindAllowance, "2000"),
		numberField("pf", st.CategoryMandatory, st.PurposeDeduction, st.KindPF, "1800"),
		numberField("esic", st.CategoryMandatory, st.PurposeDeduction, st.KindESIC, "113"),
	}
}

func enrolled() Wage {
	return Wage{Category: employee.CategorySpecialized, MonthlySalary: money("15000"), PFEnrolled: true, ESICEnrolled: true}
}

func june() Period {
	return Period{Year: 2024, Month: time.June}
}

func TestCompute_Arithmetic(t *testing.T) {
	slip, err := Compute(sampleFields(), enrolled(), june())
	require.NoError(t, err)

	assert.Equal(t, "15000", slip.Earnings.Basic.String())
	assert.Equal(t, "2000", slip.Earnings.Allowance.String())
	assert.Equal(t, "17000", slip.Earnings.GrossEarning.String())
	assert.Equal(t, "1800", slip.Deductions.EPFContribution.String())
	assert.Equal(t, "113", slip.Deductions.ESICContribution.String())
	assert.Equal(t, "1913", slip.Deductions.GrossDeduction.String())
	assert.Equal(t, "15087", slip.NetPay.String())
	assert.False(t, slip.NegativeNetPay)
	assert.Nil(t, slip.BasicCheck)
	assert.Len(t, slip.Earnings.Lines, 2)
	assert.Len(t, slip.Deductions.Lines, 2)
}

func TestCompute_Idempotent(t *testing.T) {
	fields := sampleFields()
	first, err := Compute(fields, enrolled(), june())
	require.NoError(t, err)
	second, err := Compute(fields, enrolled(), june())
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCompute_NegativeNetPaySurfaced(t *testing.T) {
	fields := sampleFields()
	fields = append(fields, numberField("advance", st.CategoryOptional, st.PurposeDeduction, st.KindAdvance, "20000"))

	slip, err := Compute(fields, enrolled(), june())
	require.NoError(t, err)

	assert.Equal(t, "-4913", slip.NetPay.String())
	assert.True(t, slip.NegativeNetPay)
	assert.Equal(t, "20000", slip.Deductions.Advance.String())
}

func TestCompute_KindsRouteToLines(t *testing.T) {
	fields := append(sampleFields(),
		numberField("uniform", st.CategoryOptional, st.PurposeAllowance, st.KindOtherAllowance, "300"),
		numberField("overtime", st.CategoryOptional, st.PurposeAllowance, st.KindOtherEarning, "450.50"),
		numberField("ptax", st.CategoryOptional, st.PurposeDeduction, st.KindOtherDeduction, "200"),
		numberField("canteen", st.CategoryCustom, st.PurposeDeduction, st.KindNone, "50"),
	)

	slip, err := Compute(fields, enrolled(), june())
	require.NoError(t, err)

	assert.Equal(t, "300", slip.Earnings.OtherAllowance.String())
	assert.Equal(t, "450.5", slip.Earnings.Other.String())
	assert.Equal(t, "17750.5", slip.Earnings.GrossEarning.String())
	assert.Equal(t, "250", slip.Deductions.Other.String())
	assert.Equal(t, "2163", slip.Deductions.GrossDeduction.String())
	assert.Equal(t, "15587.5", slip.NetPay.String())
}

func TestCompute_OptionalWithoutValueIsZero(t *testing.T) {
	fields := append(sampleFields(), numberField("conveyance", st.CategoryOptional, st.PurposeAllowance, st.KindAllowance, ""))

	slip, err := Compute(fields, enrolled(), june())
	require.NoError(t, err)
	assert.Equal(t, "17000", slip.Earnings.GrossEarning.String())
}

func TestCompute_DisabledFieldsIgnored(t *testing.T) {
	fields := sampleFields()
	fields[1].Enabled = false

	slip, err := Compute(fields, enrolled(), june())
	require.NoError(t, err)
	assert.Equal(t, "15000", slip.Earnings.GrossEarning.String())
}

func TestCompute_NotEnrolledSkipsStatutoryDeductions(t *testing.T) {
	fields := sampleFields()
	fields[2] = numberField("pf", st.CategoryMandatory, st.PurposeDeduction, st.KindPF, "")
	wage := enrolled()
	wage.PFEnrolled = false

	slip, err := Compute(fields, wage, june())
	require.NoError(t, err)
	assert.True(t, slip.Deductions.EPFContribution.IsZero())
	assert.Equal(t, "113", slip.Deductions.GrossDeduction.String())

	reasons := make(map[string]string)
	for _, l := range slip.Deductions.Lines {
		reasons[l.Key] = l.SkippedReason
	}
	assert.Equal(t, SkippedNotPFEnrolled, reasons["pf"])
	assert.Empty(t, reasons["esic"])

	wage.ESICEnrolled = false
	slip, err = Compute(sampleFields(), wage, june())
	require.NoError(t, err)
	assert.Equal(t, "17000", slip.NetPay.String())
	for _, l := range slip.Deductions.Lines {
		assert.NotEmpty(t, l.SkippedReason, l.Key)
		assert.True(t, l.Amount.IsZero(), l.Key)
	}
}

func TestCompute_Failures(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func([]st.Field) []st.Field
		period  Period
		wantErr error
		field   string
	}{
		{
			name:    "missing basic field",
			mutate:  func(f []st.Field) []st.Field { return f[1:] },
			wantErr: ErrMissingBasicPay,
			field:   "basic_pay",
		},
		{
			name: "basic without value",
			mutate: func(f []st.Field) []st.Field {
				f[0] = numberField("basic", st.CategoryMandatory, st.PurposeCalculation, st.KindBasicPay, "")
				return f
			},
			wantErr: ErrMissingValue,
			field:   "basic",
		},
		{
			name: "mandatory deduction without value",
			mutate: func(f []st.Field) []st.Field {
				f[3] = numberField("esic", st.CategoryMandatory, st.PurposeDeduction, st.KindESIC, "")
				return f
			},
			wantErr: ErrMissingValue,
			field:   "esic",
		},
		{
			name: "non numeric deduction",
			mutate: func(f []st.Field) []st.Field {
				v := "1800"
				f[2].Input = st.TextInput{DefaultValue: &v}
				return f
			},
			wantErr: ErrNonNumericValue,
			field:   "pf",
		},
		{
			name: "negative allowance",
			mutate: func(f []st.Field) []st.Field {
				f[1] = numberField("hra", st.CategoryOptional, st.PurposeAllowance, st.KindAllowance, "-1")
				return f
			},
			wantErr: ErrNegativeAmount,
			field:   "hra",
		},
		{
			name:    "bad month",
			period:  Period{Year: 2024, Month: 13},
			wantErr: ErrInvalidPeriod,
			field:   "month",
		},
		{
			name:    "too many days",
			period:  Period{Year: 2024, Month: time.February, DaysWorked: intPtr(30)},
			wantErr: ErrInvalidPeriod,
			field:   "days_worked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := sampleFields()
			if tt.mutate != nil {
				fields = tt.mutate(fields)
			}
			period := tt.period
			if period.Year == 0 {
				period = june()
			}

			_, err := Compute(fields, enrolled(), period)

			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			var appErr *apperror.Error
			require.ErrorAs(t, err, &appErr)
			assert.Equal(t, tt.field, appErr.Field)
		})
	}
}

func intPtr(i int) *int { return &i }

func TestCompute_BasicCheck(t *testing.T) {
	sub := employee.SubCategorySkilled
	wage := Wage{Category: employee.CategoryCentral, SubCategory: &sub, RatePerDay: money("500"), PFEnrolled: true, ESICEnrolled: true}

	t.Run("matches", func(t *testing.T) {
		slip, err := Compute(sampleFields(), wage, Period{Year: 2024, Month: time.June, DaysWorked: intPtr(30)})
		require.NoError(t, err)
		require.NotNil(t, slip.BasicCheck)
		assert.True(t, slip.BasicCheck.Matches)
		assert.Equal(t, "15000", slip.BasicCheck.Expected.String())
	})

	t.Run("mismatch keeps template basic", func(t *testing.T) {
		slip, err := Compute(sampleFields(), wage, Period{Year: 2024, Month: time.June, DaysWorked: intPtr(26)})
		require.NoError(t, err)
		require.NotNil(t, slip.BasicCheck)
		assert.False(t, slip.BasicCheck.Matches)
		assert.Equal(t, "13000", slip.BasicCheck.Expected.String())
		assert.Equal(t, "15000", slip.Earnings.Basic.String())
	})

	t.Run("no attendance", func(t *testing.T) {
		slip, err := Compute(sampleFields(), wage, june())
		require.NoError(t, err)
		assert.Nil(t, slip.BasicCheck)
	})
}

func TestCompute_InformationFields(t *testing.T) {
	mode := "CASH"
	fields := append(sampleFields(), st.Field{
		Key: "pay_mode", Category: st.CategoryMandatory, Purpose: st.PurposeInformation, Kind: st.KindNone, Enabled: true,
		Input: st.SelectInput{Options: []string{"CASH"}, DefaultValue: &mode},
	})

	slip, err := Compute(fields, enrolled(), june())
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"pay_mode": "CASH"}, slip.Information)
}
