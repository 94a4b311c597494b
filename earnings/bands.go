/*
bands.go - Time-of-day bands, day types and CCNL multipliers

PURPOSE:
  Every minute worked is priced by two orthogonal axes: the band it falls
  in (day, evening, night) and the type of the calendar day (weekday,
  Saturday, Sunday, holiday). This file classifies minutes and maps the
  pair to a multiplier.

BANDS:
  day      06:00 - 20:00
  evening  20:00 - 22:00
  night    22:00 - 06:00

MULTIPLIER TABLE (defaults):
                    day     evening   night
  weekday ordinary  1.00    1.25      1.35
  weekday overtime  1.20    1.25      1.35
  saturday          1.25    1.50      1.50
  holiday           1.30    1.55      1.55
  holiday overtime  1.30    1.55      1.65

ADDITIVE COMPOSITION:
  On Saturday and special days the band surcharge is ADDED to the
  day-type base, never multiplied into it:

    saturday + night          = 1.25 + 0.25 = 1.50   (not 1.5625)
    holiday  + night          = 1.30 + 0.25 = 1.55   (not 1.625)
    holiday  + overtime night = 1.30 + 0.35 = 1.65   (not 1.755)

SEE ALSO:
  - overtime.go: Which minutes are overtime
  - standby.go: Interventions priced in overtime context
*/
package earnings

import (
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/earnings-engine/generic"
)

// =============================================================================
// BANDS
// =============================================================================

type Band string

const (
	BandDay     Band = "day"
	BandEvening Band = "evening"
	BandNight   Band = "night"
)

// Bands lists every band in display order.
var Bands = []Band{BandDay, BandEvening, BandNight}

const (
	dayStart     = 6 * generic.MinutesPerHour
	eveningStart = 20 * generic.MinutesPerHour
	nightStart   = 22 * generic.MinutesPerHour
)

// ClassifyMinute returns the band of a minute of the day (0-1439).
func ClassifyMinute(minuteOfDay int) Band {
	m := ((minuteOfDay % generic.MinutesPerDay) + generic.MinutesPerDay) % generic.MinutesPerDay
	switch {
	case m >= dayStart && m < eveningStart:
		return BandDay
	case m >= eveningStart && m < nightStart:
		return BandEvening
	default:
		return BandNight
	}
}

// =============================================================================
// DAY TYPES
// =============================================================================

type DayType string

const (
	Weekday  DayType = "weekday"
	Saturday DayType = "saturday"
	Sunday   DayType = "sunday"
	Holiday  DayType = "holiday"
)

// DayTypeFor classifies a calendar date. A holiday wins over the weekday.
func DayTypeFor(date generic.TimePoint, cal generic.HolidayCalendar) DayType {
	if cal != nil && cal.IsHoliday(date) {
		return Holiday
	}
	switch date.Weekday() {
	case time.Sunday:
		return Sunday
	case time.Saturday:
		return Saturday
	default:
		return Weekday
	}
}

// IsSpecial reports Sunday or holiday. Saturday is never special.
func (d DayType) IsSpecial() bool {
	return d == Sunday || d == Holiday
}

// IsRest reports whether the day counts as a rest day for standby and pricing.
func (d DayType) IsRest(saturdayAsRest bool) bool {
	return d.IsSpecial() || (d == Saturday && saturdayAsRest)
}

// HasOvertimeThreshold reports whether the 8-hour ordinary/overtime split applies.
func (d DayType) HasOvertimeThreshold() bool {
	return d == Weekday
}

// PricingDay returns the day type used for multipliers. A Saturday configured
// as rest is priced as a holiday.
func PricingDay(d DayType, saturdayAsRest bool) DayType {
	if d == Saturday && saturdayAsRest {
		return Holiday
	}
	return d
}

// =============================================================================
// MULTIPLIERS
// =============================================================================

// Multipliers is the contract rate table. All fields are resolved.
type Multipliers struct {
	Day             decimal.Decimal // weekday overtime, day band
	EveningUntil22  decimal.Decimal
	EveningOvertime decimal.Decimal
	NightAfter22    decimal.Decimal
	Saturday        decimal.Decimal
	Holiday         decimal.Decimal
	NightSurcharge  decimal.Decimal // added to the base on special-day nights
	Travel          decimal.Decimal
}

// For returns the multiplier of a minute in band on a day of type d.
func (m Multipliers) For(band Band, d DayType, overtime bool) decimal.Decimal {
	if d == Weekday {
		switch band {
		case BandEvening:
			if overtime {
				return m.EveningOvertime
			}
			return m.EveningUntil22
		case BandNight:
			return m.NightAfter22
		default:
			if overtime {
				return m.Day
			}
			return generic.One
		}
	}

	base := m.Holiday
	if d == Saturday {
		base = m.Saturday
	}
	switch band {
	case BandEvening:
		return base.Add(m.surcharge(m.EveningUntil22))
	case BandNight:
		if overtime {
			return base.Add(m.surcharge(m.NightAfter22))
		}
		return base.Add(m.NightSurcharge)
	default:
		return base
	}
}

// surcharge is the part of a weekday multiplier above 1.
func (m Multipliers) surcharge(rate decimal.Decimal) decimal.Decimal {
	return generic.NonNegative(rate.Sub(generic.One))
}
