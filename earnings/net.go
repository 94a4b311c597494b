/*
net.go - Net-from-gross estimation

PURPOSE:
  Converts a monthly gross figure to an estimated net. Three strategies,
  selected by NetConfig.Method, all pure functions of the gross.

STRATEGIES:
  irpef       progressive brackets on the annualized gross
                0 - 28,000     23%
                28,000 - 50,000 35%
                50,000+        43%
              minus work deduction 1,880 and personal deduction 1,955
              (full up to 15,000, linear to 0 at 28,000), floored at 0,
              divided by 12. Social contributions and additional regional
              and municipal taxes are itemized on the monthly gross.
  custom      net = gross * (1 - rate/100)
  calibrated  ratio from a reference payslip; within 2% of the reference
              gross the reference net is returned exactly

Only irpef fills Breakdown; the others report an aggregate.
*/
package earnings

import (
	"github.com/shopspring/decimal"
	"github.com/warp/earnings-engine/generic"
)

type taxBracket struct {
	upTo decimal.Decimal // zero means unbounded
	rate decimal.Decimal
}

var (
	irpefBrackets = []taxBracket{
		{upTo: decimal.NewFromInt(28000), rate: generic.MustParseDecimal("0.23")},
		{upTo: decimal.NewFromInt(50000), rate: generic.MustParseDecimal("0.35")},
		{upTo: decimal.Zero, rate: generic.MustParseDecimal("0.43")},
	}

	workDeduction        = decimal.NewFromInt(1880)
	personalDeduction    = decimal.NewFromInt(1955)
	personalPhaseOutFrom = decimal.NewFromInt(15000)
	personalPhaseOutTo   = decimal.NewFromInt(28000)

	calibrationTolerance = generic.MustParseDecimal("0.02")
)

// TaxBreakdown itemizes the progressive estimate (monthly amounts).
type TaxBreakdown struct {
	AnnualGross         decimal.Decimal
	GrossTax            decimal.Decimal // annual, before deductions
	WorkDeduction       decimal.Decimal
	PersonalDeduction   decimal.Decimal
	IRPEF               decimal.Decimal
	SocialContributions decimal.Decimal
	AdditionalTaxes     decimal.Decimal
}

type NetResult struct {
	Method          NetMethod
	Gross           decimal.Decimal
	Net             decimal.Decimal
	TotalDeductions decimal.Decimal
	DeductionRate   decimal.Decimal // percent of gross
	Breakdown       *TaxBreakdown
}

// NetEstimator applies the configured strategy.
type NetEstimator struct {
	Config NetConfig
}

// Estimate returns the net of a monthly gross. A negative gross is treated as 0.
func (e NetEstimator) Estimate(gross decimal.Decimal) NetResult {
	gross = generic.NonNegative(gross)
	switch e.Config.Method {
	case NetProgressive:
		return e.progressive(gross)
	case NetCustom:
		return e.custom(gross)
	case NetCalibrated:
		return e.calibrated(gross)
	default:
		// Resolve rejects unknown methods, so only a hand-built config reaches this.
		return NetResult{Method: e.Config.Method, Gross: gross, Net: gross}
	}
}

func (e NetEstimator) progressive(gross decimal.Decimal) NetResult {
	annual := gross.Mul(generic.Twelve)

	grossTax := decimal.Zero
	lower := decimal.Zero
	for _, b := range irpefBrackets {
		if !annual.GreaterThan(lower) {
			break
		}
		top := annual
		if !b.upTo.IsZero() {
			top = generic.MinDecimal(annual, b.upTo)
		}
		grossTax = grossTax.Add(top.Sub(lower).Mul(b.rate))
		if b.upTo.IsZero() {
			break
		}
		lower = b.upTo
	}

	personal := PersonalDeduction(annual)
	annualIRPEF := generic.NonNegative(grossTax.Sub(workDeduction).Sub(personal))

	bd := &TaxBreakdown{
		AnnualGross:         annual,
		GrossTax:            grossTax,
		WorkDeduction:       workDeduction,
		PersonalDeduction:   personal,
		IRPEF:               annualIRPEF.Div(generic.Twelve),
		SocialContributions: gross.Mul(e.Config.SocialContributionRate).Div(generic.Hundred),
		AdditionalTaxes:     gross.Mul(e.Config.AdditionalTaxRate).Div(generic.Hundred),
	}
	deductions := bd.IRPEF.Add(bd.SocialContributions).Add(bd.AdditionalTaxes)
	return result(NetProgressive, gross, deductions, bd)
}

// PersonalDeduction is 1955 up to 15k of annual income, decreasing linearly
// to 0 at 28k.
func PersonalDeduction(annual decimal.Decimal) decimal.Decimal {
	switch {
	case annual.LessThanOrEqual(personalPhaseOutFrom):
		return personalDeduction
	case annual.GreaterThanOrEqual(personalPhaseOutTo):
		return decimal.Zero
	}
	remaining := personalPhaseOutTo.Sub(annual).Div(personalPhaseOutTo.Sub(personalPhaseOutFrom))
	return personalDeduction.Mul(remaining)
}

func (e NetEstimator) custom(gross decimal.Decimal) NetResult {
	rate := generic.MinDecimal(e.Config.CustomRate, generic.Hundred)
	return result(NetCustom, gross, gross.Mul(rate).Div(generic.Hundred), nil)
}

func (e NetEstimator) calibrated(gross decimal.Decimal) NetResult {
	ref := e.Config.ReferenceGross
	if ref.IsZero() {
		return result(NetCalibrated, gross, decimal.Zero, nil)
	}
	if gross.Sub(ref).Abs().LessThanOrEqual(ref.Mul(calibrationTolerance)) {
		return result(NetCalibrated, gross, gross.Sub(e.Config.ReferenceNet), nil)
	}
	net := gross.Mul(e.Config.ReferenceNet).Div(ref)
	return result(NetCalibrated, gross, gross.Sub(net), nil)
}

func result(m NetMethod, gross, deductions decimal.Decimal, bd *TaxBreakdown) NetResult {
	r := NetResult{
		Method:          m,
		Gross:           gross,
		Net:             gross.Sub(deductions),
		TotalDeductions: deductions,
		DeductionRate:   decimal.Zero,
		Breakdown:       bd,
	}
	if gross.IsPositive() {
		r.DeductionRate = deductions.Div(gross).Mul(generic.Hundred)
	}
	return r
}
