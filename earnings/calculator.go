/*
calculator.go - Per-day earnings composition

PURPOSE:
  Calculator.Day composes shift aggregation, overtime allocation, standby,
  travel and meals into one EarningsBreakdown.

KEY INVARIANT:
  TotalEarnings == Ordinary.Total + Allowances.Travel + Standby.TotalEarnings

  Allowances.Standby mirrors Standby.DailyIndemnity so a presentation
  layer can show it on its own line. It is already inside
  Standby.TotalEarnings and must never be added a second time.

  Meals are non-taxable reimbursements and are reported beside the total,
  not inside it.

FIXED DAYS:
  Vacation, sick leave, permit, rest and holiday entries short-circuit to
  their precomputed earnings with zero hours. Every other field of the
  entry is ignored.

USAGE:
  calc := earnings.Calculator{Settings: resolved, Calendar: generic.ItalianCalendar{}}
  day, err := calc.Day(entry)
*/
package earnings

import (
	"github.com/shopspring/decimal"
	"github.com/warp/earnings-engine/generic"
)

// =============================================================================
// OUTPUT TYPES
// =============================================================================

type EarningsBreakdown struct {
	Date    generic.TimePoint
	DayType DayType
	// StandbyDay is the resolved standby flag of the entry.
	StandbyDay bool
	Fixed      *FixedDay

	Hours      DayHours
	Ordinary   OrdinaryBreakdown
	Standby    StandbyBreakdown
	Allowances Allowances
	Meals      MealBreakdown

	TotalEarnings decimal.Decimal
}

// DayHours summarizes the hours of the day.
type DayHours struct {
	Work           decimal.Decimal
	Travel         decimal.Decimal
	ExternalTravel decimal.Decimal
	InternalTravel decimal.Decimal
	Ordinary       decimal.Decimal
	Overtime       decimal.Decimal
	Standby        decimal.Decimal
}

// OrdinaryBreakdown covers non-standby work and travel.
type OrdinaryBreakdown struct {
	RegularHours  BandHours
	OvertimeHours BandHours
	TravelHours   decimal.Decimal

	RegularPay  BandAmounts
	OvertimePay BandAmounts
	TravelPay   decimal.Decimal

	Total decimal.Decimal
}

type Allowances struct {
	Travel decimal.Decimal
	// Standby is informational; see the package invariant.
	Standby decimal.Decimal
	Meal    decimal.Decimal
}

// CheckInvariant reports whether the total equals its three components.
func (b EarningsBreakdown) CheckInvariant() bool {
	want := b.Ordinary.Total.Add(b.Allowances.Travel).Add(b.Standby.TotalEarnings)
	return b.TotalEarnings.Equal(want)
}

// =============================================================================
// CALCULATOR
// =============================================================================

// Calculator holds one resolved settings snapshot. It is a value: copies
// share nothing mutable, so one calculation can never observe another
// settings edit.
type Calculator struct {
	Settings ResolvedSettings
	Calendar generic.HolidayCalendar
}

func NewCalculator(settings ResolvedSettings, cal generic.HolidayCalendar) Calculator {
	if cal == nil {
		cal = generic.NoHolidays{}
	}
	return Calculator{Settings: settings, Calendar: cal}
}

// IsStandbyDay resolves the tri-state flag of an entry.
func (c Calculator) IsStandbyDay(entry WorkEntry) bool {
	switch entry.Standby {
	case StandbyOn:
		return true
	case StandbyOff:
		return false
	default:
		return c.Settings.Standby.IsStandbyDate(entry.Date)
	}
}

// Day computes the breakdown of one entry.
func (c Calculator) Day(entry WorkEntry) (EarningsBreakdown, error) {
	if entry.Date.IsZero() {
		return EarningsBreakdown{}, &generic.EntryError{Field: "date", Reason: "missing"}
	}
	dayType := DayTypeFor(entry.Date, c.Calendar)

	if entry.FixedDay != nil {
		return c.fixedDay(entry, dayType)
	}

	s := c.Settings
	out := EarningsBreakdown{
		Date:       entry.Date,
		DayType:    dayType,
		StandbyDay: c.IsStandbyDay(entry),
	}

	// Ordinary work and travel.
	tl, totals := AggregateShifts(entry)
	alloc := AllocateMinutes(tl, dayType)
	out.Ordinary = c.ordinary(alloc, PricingDay(dayType, s.Standby.SaturdayAsRest))

	out.Hours = DayHours{
		Work:           generic.ToHours(totals.WorkMinutes),
		Travel:         generic.ToHours(totals.TravelMinutes),
		ExternalTravel: generic.ToHours(totals.ExternalTravelMinutes),
		InternalTravel: generic.ToHours(totals.InternalTravelMinutes),
	}
	split := AllocateHours(out.Hours.Work, dayType)
	out.Hours.Ordinary, out.Hours.Overtime = split.Ordinary, split.Overtime

	// Standby.
	engine := StandbyEngine{HourlyRate: s.HourlyRate, Multipliers: s.Multipliers, Config: s.Standby}
	out.Standby = engine.Breakdown(entry.Interventions, dayType, out.StandbyDay)
	out.Hours.Standby = out.Standby.TotalHours()

	// Travel allowance.
	travel := TravelAllowance{Config: s.Travel}
	out.Allowances.Travel = travel.Calculate(TravelInput{
		WorkHours:           out.Hours.Work,
		TravelHours:         out.Hours.Travel,
		ExternalTravelHours: out.Hours.ExternalTravel,
		StandbyHours:        out.Hours.Standby,
		StandbyOccurred:     out.Standby.Interventions > 0,
	}, TravelRequest{
		Requested:      entry.TravelAllowanceRequested,
		Percent:        entry.TravelAllowancePercent,
		ManualOverride: entry.ManualOverrideSpecialDay,
	}, dayType)

	out.Allowances.Standby = out.Standby.DailyIndemnity

	out.Meals = AggregateMeals(entry.Lunch, entry.Dinner, s.Meals)
	out.Allowances.Meal = out.Meals.Total

	out.TotalEarnings = out.Ordinary.Total.Add(out.Allowances.Travel).Add(out.Standby.TotalEarnings)
	return out, nil
}

func (c Calculator) fixedDay(entry WorkEntry, dayType DayType) (EarningsBreakdown, error) {
	if _, err := ParseFixedDayType(string(entry.FixedDay.Type)); err != nil {
		return EarningsBreakdown{}, err
	}
	fixed := FixedDay{Type: entry.FixedDay.Type, Earnings: generic.NonNegative(entry.FixedDay.Earnings)}
	return EarningsBreakdown{
		Date:          entry.Date,
		DayType:       dayType,
		Fixed:         &fixed,
		Ordinary:      OrdinaryBreakdown{Total: fixed.Earnings},
		TotalEarnings: fixed.Earnings,
	}, nil
}

func (c Calculator) ordinary(a Allocation, pricing DayType) OrdinaryBreakdown {
	s := c.Settings
	out := OrdinaryBreakdown{
		RegularHours:  a.Regular.Hours(),
		OvertimeHours: a.Overtime.Hours(),
		TravelHours:   generic.ToHours(a.Travel),
	}
	out.RegularPay = priceBands(a.Regular, s.HourlyRate, s.Multipliers, pricing, false)
	out.OvertimePay = priceBands(a.Overtime, s.HourlyRate, s.Multipliers, pricing, true)
	out.TravelPay = generic.PayFor(a.Travel, s.HourlyRate.Mul(s.Multipliers.Travel))
	out.Total = out.RegularPay.Total().Add(out.OvertimePay.Total()).Add(out.TravelPay)
	return out
}

func priceBands(minutes BandMinutes, rate decimal.Decimal, m Multipliers, d DayType, overtime bool) BandAmounts {
	return BandAmounts{
		Day:     generic.PayFor(minutes.Day, rate.Mul(m.For(BandDay, d, overtime))),
		Evening: generic.PayFor(minutes.Evening, rate.Mul(m.For(BandEvening, d, overtime))),
		Night:   generic.PayFor(minutes.Night, rate.Mul(m.For(BandNight, d, overtime))),
	}
}
