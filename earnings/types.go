// Package earnings implements the CCNL earnings calculation on top of the
// generic core: pay bands, overtime, standby interventions, travel and meal
// allowances, net estimation, and the per-day and per-month aggregation.
//
// Every function here is a pure transform of an entry and a resolved
// settings value. Nothing reads a store, a clock or a global.
package earnings

import (
	"github.com/shopspring/decimal"
	"github.com/warp/earnings-engine/generic"
)

// =============================================================================
// WORK ENTRY - One calendar day's record
// =============================================================================

// WorkEntry is the typed, already-validated record of one day.
type WorkEntry struct {
	Date generic.TimePoint

	// Primary shift plus any further shifts worked the same day, in order.
	Shift            Shift
	AdditionalShifts []Shift

	// Standby callouts.
	Interventions []Intervention

	Lunch  MealClaim
	Dinner MealClaim

	TravelAllowanceRequested bool
	// TravelAllowancePercent scales the allowance (0-1). nil means 1.
	TravelAllowancePercent *decimal.Decimal
	// ManualOverrideSpecialDay forces the allowance on Sunday/holiday.
	ManualOverrideSpecialDay bool

	Standby StandbyFlag

	// FixedDay short-circuits every other field.
	FixedDay *FixedDay

	Notes string
}

// Shift is one outbound-trip, work, return-trip block. Every field is an
// optional "HH:MM"; a pair with a missing endpoint is skipped.
type Shift struct {
	DepartureCompany string
	ArrivalSite      string
	WorkStart1       string
	WorkEnd1         string
	WorkStart2       string
	WorkEnd2         string
	DepartureReturn  string
	ArrivalCompany   string
}

// Intervention is a standby callout. It has the same shape as a shift.
type Intervention Shift

// IsEmpty reports whether no pair of the shift can produce a segment.
func (s Shift) IsEmpty() bool {
	return len(s.segments()) == 0
}

// MealClaim is the per-meal record on an entry.
type MealClaim struct {
	Voucher bool
	// Cash is a specific amount spent; when > 0 it wins over the voucher.
	Cash *decimal.Decimal
}

// StandbyFlag is the tri-state standby marker of an entry.
type StandbyFlag int

const (
	StandbyInherit StandbyFlag = iota // use the standby calendar in settings
	StandbyOn
	StandbyOff
)

func (f StandbyFlag) String() string {
	switch f {
	case StandbyOn:
		return "on"
	case StandbyOff:
		return "off"
	default:
		return "inherit"
	}
}

// =============================================================================
// FIXED DAYS - Flat payout, no hour computation
// =============================================================================

type FixedDayType string

const (
	FixedVacation FixedDayType = "ferie"
	FixedSick     FixedDayType = "malattia"
	FixedLeave    FixedDayType = "permesso"
	FixedRest     FixedDayType = "riposo"
	FixedHoliday  FixedDayType = "festivo"
)

// FixedDayTypes lists every fixed day type, in display order.
var FixedDayTypes = []FixedDayType{FixedVacation, FixedSick, FixedLeave, FixedRest, FixedHoliday}

// ParseFixedDayType validates a fixed-day string.
func ParseFixedDayType(s string) (FixedDayType, error) {
	for _, t := range FixedDayTypes {
		if string(t) == s {
			return t, nil
		}
	}
	return "", &generic.ConfigError{Field: "fixed_day_type", Value: s}
}

type FixedDay struct {
	Type     FixedDayType
	Earnings decimal.Decimal
}
