package payslip

import (
	"fmt"

	"github.com/cmlabs-hris/salary-engine-go/internal/domain/salarytemplate"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/apperror"
	"github.com/cmlabs-hris/salary-engine-go/internal/pkg/utils"
	"github.com/shopspring/decimal"
)

// Compute turns the enabled template fields into a payslip for one period.
// It is a pure function of its inputs. Enabled optional and custom money
// fields without a value count as zero; a mandatory one is an error. PF and
// ESIC lines are zero for employees not enrolled in the scheme.
func Compute(fields []salarytemplate.Field, wage Wage, period Period) (Payslip, error) {
	if err := validatePeriod(period); err != nil {
		return Payslip{}, err
	}

	var (
		basicField *salarytemplate.Field
		allowances []salarytemplate.Field
		deductions []salarytemplate.Field
		info       = make(map[string]string)
	)
	for i := range fields {
		f := fields[i]
		if !f.Enabled {
			continue
		}
		switch f.Purpose {
		case salarytemplate.PurposeInformation:
			if f.Input != nil {
				if v, ok := f.Input.Default(); ok {
					info[f.Key] = v
				}
			}
		case salarytemplate.PurposeCalculation:
			if f.Kind == salarytemplate.KindBasicPay && basicField == nil {
				basicField = &fields[i]
			}
		case salarytemplate.PurposeAllowance:
			allowances = append(allowances, f)
		case salarytemplate.PurposeDeduction:
			deductions = append(deductions, f)
		}
	}

	if basicField == nil {
		return Payslip{}, apperror.Validation(ErrMissingBasicPay, "basic_pay",
			"template has no enabled CALCULATION field of kind BASIC_PAY")
	}
	basic, err := amountOf(*basicField, true)
	if err != nil {
		return Payslip{}, err
	}

	slip := Payslip{Period: period, Information: info}
	slip.Earnings.Basic = basic
	slip.Earnings.Lines = append(slip.Earnings.Lines, lineOf(*basicField, basic))

	for _, f := range allowances {
		v, err := amountOf(f, f.Category == salarytemplate.CategoryMandatory)
		if err != nil {
			return Payslip{}, err
		}
		switch f.EffectiveKind() {
		case salarytemplate.KindOtherAllowance:
			slip.Earnings.OtherAllowance = slip.Earnings.OtherAllowance.Add(v)
		case salarytemplate.KindOtherEarning:
			slip.Earnings.Other = slip.Earnings.Other.Add(v)
		default:
			slip.Earnings.Allowance = slip.Earnings.Allowance.Add(v)
		}
		slip.Earnings.Lines = append(slip.Earnings.Lines, lineOf(f, v))
	}
	slip.Earnings.GrossEarning = slip.Earnings.Basic.
		Add(slip.Earnings.Allowance).
		Add(slip.Earnings.OtherAllowance).
		Add(slip.Earnings.Other)

	for _, f := range deductions {
		kind := f.EffectiveKind()
		if reason := skipReason(kind, wage); reason != "" {
			line := lineOf(f, decimal.Zero)
			line.SkippedReason = reason
			slip.Deductions.Lines = append(slip.Deductions.Lines, line)
			continue
		}
		v, err := amountOf(f, f.Category == salarytemplate.CategoryMandatory)
		if err != nil {
			return Payslip{}, err
		}
		switch kind {
		case salarytemplate.KindPF:
			slip.Deductions.EPFContribution = slip.Deductions.EPFContribution.Add(v)
		case salarytemplate.KindESIC:
			slip.Deductions.ESICContribution = slip.Deductions.ESICContribution.Add(v)
		case salarytemplate.KindAdvance:
			slip.Deductions.Advance = slip.Deductions.Advance.Add(v)
		default:
			slip.Deductions.Other = slip.Deductions.Other.Add(v)
		}
		slip.Deductions.Lines = append(slip.Deductions.Lines, lineOf(f, v))
	}
	slip.Deductions.GrossDeduction = slip.Deductions.EPFContribution.
		Add(slip.Deductions.ESICContribution).
		Add(slip.Deductions.Advance).
		Add(slip.Deductions.Other)

	slip.NetPay = slip.Earnings.GrossEarning.Sub(slip.Deductions.GrossDeduction)
	slip.NegativeNetPay = slip.NetPay.IsNegative()
	slip.BasicCheck = checkBasic(wage, period, basic)

	return slip, nil
}

func checkBasic(wage Wage, period Period, basic decimal.Decimal) *BasicCheck {
	if !wage.Category.IsRateBased() || wage.RatePerDay == nil || period.DaysWorked == nil {
		return nil
	}
	expected := wage.RatePerDay.Mul(decimal.NewFromInt(int64(*period.DaysWorked)))
	return &BasicCheck{
		RatePerDay: *wage.RatePerDay,
		DaysWorked: *period.DaysWorked,
		Expected:   expected,
		Actual:     basic,
		Matches:    expected.Equal(basic),
	}
}

func amountOf(f salarytemplate.Field, required bool) (decimal.Decimal, error) {
	if f.Type() != salarytemplate.FieldTypeNumber {
		return decimal.Zero, apperror.Validation(ErrNonNumericValue, f.Key,
			fmt.Sprintf("field %q must be a NUMBER field to carry money", f.Key))
	}
	v, ok := f.Amount()
	if !ok {
		if required || f.Kind == salarytemplate.KindBasicPay {
			return decimal.Zero, apperror.Validation(ErrMissingValue, f.Key,
				fmt.Sprintf("field %q has no value", f.Key))
		}
		return decimal.Zero, nil
	}
	if v.IsNegative() {
		return decimal.Zero, apperror.Validation(ErrNegativeAmount, f.Key,
			fmt.Sprintf("field %q must not be negative", f.Key))
	}
	return v, nil
}

func skipReason(kind salarytemplate.Kind, wage Wage) string {
	switch {
	case kind == salarytemplate.KindPF && !wage.PFEnrolled:
		return SkippedNotPFEnrolled
	case kind == salarytemplate.KindESIC && !wage.ESICEnrolled:
		return SkippedNotESICEnrolled
	}
	return ""
}

func lineOf(f salarytemplate.Field, amount decimal.Decimal) Line {
	return Line{Key: f.Key, Label: f.Label, Kind: f.EffectiveKind(), Amount: amount}
}

func validatePeriod(p Period) error {
	if p.Month < 1 || p.Month > 12 {
		return apperror.Validation(ErrInvalidPeriod, "month", "must be between 1 and 12")
	}
	if p.Year < 1900 || p.Year > 9999 {
		return apperror.Validation(ErrInvalidPeriod, "year", "must be a four digit year")
	}
	if p.DaysWorked != nil {
		_, last := utils.MonthBounds(p.Year, p.Month)
		if *p.DaysWorked < 0 || *p.DaysWorked > last.Day() {
			return apperror.Validation(ErrInvalidPeriod, "days_worked",
				fmt.Sprintf("must be between 0 and %d", last.Day()))
		}
	}
	return nil
}
