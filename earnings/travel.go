/*
travel.go - Daily travel allowance (indennita di trasferta)

PURPOSE:
  Produces one allowance amount per day from exactly one configured policy.

POLICIES:
  ALWAYS                    full amount whenever requested
  WITH_TRAVEL               full amount when travel hours > 0
  FULL_DAY_ONLY             full amount when total hours >= 8
  HALF_ALLOWANCE_HALF_DAY   half when 0 < total < 8, else full
  PROPORTIONAL_CCNL         amount * min(total / 8, 1)

PROPORTIONAL TOTAL:
  work + travel + standby work + standby travel. Standby hours are always
  folded in when an intervention happened, so a 7h day completed by a
  callout reaches 100%. With multi-shift travel enabled, external travel
  (company to site and back) is left out.

GATES (applied before any policy):
  - Allowance enabled in settings and requested on the entry
  - Sunday/holiday: suppressed unless ApplyOnSpecialDays or the entry's
    manual override. Saturday is never special here.

SECONDARY FACTOR:
  The entry's percent override (0-1, default 1) scales every policy except
  PROPORTIONAL_CCNL, which always uses 1.
*/
package earnings

import (
	"github.com/shopspring/decimal"
	"github.com/warp/earnings-engine/generic"
)

var half = decimal.NewFromFloat(0.5)

// TravelInput are the hours a policy may look at.
type TravelInput struct {
	WorkHours           decimal.Decimal
	TravelHours         decimal.Decimal
	ExternalTravelHours decimal.Decimal
	StandbyHours        decimal.Decimal // standby work + standby travel
	StandbyOccurred     bool
}

// TravelRequest is the entry side of the calculation.
type TravelRequest struct {
	Requested      bool
	Percent        *decimal.Decimal
	ManualOverride bool
}

// TravelAllowance evaluates the configured policy.
type TravelAllowance struct {
	Config TravelConfig
}

// Calculate returns the allowance for one day.
func (t TravelAllowance) Calculate(in TravelInput, req TravelRequest, d DayType) decimal.Decimal {
	cfg := t.Config
	if !cfg.Enabled || !req.Requested {
		return decimal.Zero
	}
	if d.IsSpecial() && !cfg.ApplyOnSpecialDays && !req.ManualOverride {
		return decimal.Zero
	}

	amount := generic.NonNegative(cfg.DailyAmount)
	total := in.WorkHours.Add(in.TravelHours)

	var base decimal.Decimal
	switch cfg.Policy {
	case TravelAlways:
		base = amount
	case TravelWithTravel:
		if in.TravelHours.IsPositive() {
			base = amount
		}
	case TravelFullDayOnly:
		if total.GreaterThanOrEqual(ordinaryThresholdHours) {
			base = amount
		}
	case TravelHalfDay:
		if total.IsPositive() && total.LessThan(ordinaryThresholdHours) {
			base = amount.Mul(half)
		} else {
			base = amount
		}
	case TravelProportional:
		// The secondary factor is fixed at 1 for this policy.
		return amount.Mul(ProportionalFactor(in, cfg.MultiShiftTravel))
	}

	percent := generic.One
	if req.Percent != nil {
		percent = generic.ClampUnit(*req.Percent)
	}
	return base.Mul(percent)
}

// EffectiveHours is the total the proportional policy divides by 8.
func EffectiveHours(in TravelInput, multiShift bool) decimal.Decimal {
	total := in.WorkHours.Add(in.TravelHours)
	if multiShift {
		total = total.Sub(in.ExternalTravelHours)
	}
	if in.StandbyOccurred {
		total = total.Add(in.StandbyHours)
	}
	return generic.NonNegative(total)
}

// ProportionalFactor is min(EffectiveHours / 8, 1).
func ProportionalFactor(in TravelInput, multiShift bool) decimal.Decimal {
	return generic.ClampUnit(EffectiveHours(in, multiShift).Div(ordinaryThresholdHours))
}
