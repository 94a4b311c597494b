/*
Package generic provides the domain-agnostic core of the earnings engine.

PURPOSE:
  This package contains the time and number primitives every calculation is
  built on: wall-clock parsing and duration arithmetic, calendar days and
  periods, holiday calendars, the persistence boundary and the error
  vocabulary. Nothing in here knows about pay bands, allowances or taxes.

KEY CONCEPTS IN THIS FILE (types.go):
  - Decimal helpers: money and hours are decimal.Decimal, never float64
  - Clamping: negative configuration values never produce negative pay
  - EntityID: identifier of the worker a set of entries belongs to

DESIGN PRINCIPLES:
  1. Precision: Uses decimal.Decimal to avoid floating-point drift in sums
  2. Leniency: Parsing helpers degrade to "absent" instead of failing
  3. Purity: No I/O, no globals that change after init

USAGE:
  rate := generic.MustParseDecimal("16.41")
  pay := generic.PayFor(90, rate) // 1.5h * 16.41

SEE ALSO:
  - clock.go: "HH:MM" parsing and midnight rollover
  - time.go: Calendar days and holiday calendars
  - period.go: Date ranges (months)
*/
package generic

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type EntityID string

// DefaultEntity is used when a deployment tracks a single worker.
const DefaultEntity EntityID = "default"

// =============================================================================
// DECIMAL HELPERS
// =============================================================================

var (
	Hundred   = decimal.NewFromInt(100)
	Twelve    = decimal.NewFromInt(12)
	One       = decimal.NewFromInt(1)
	minuteDiv = decimal.NewFromInt(60)
)

// MustParseDecimal parses s or returns zero. Use for trusted constants.
func MustParseDecimal(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// Dec is a short constructor for literal amounts in tables and tests.
func Dec(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// DecPtr returns a pointer to a copy of d.
func DecPtr(d decimal.Decimal) *decimal.Decimal { return &d }

// NonNegative clamps d to zero.
func NonNegative(d decimal.Decimal) decimal.Decimal {
	if d.IsNegative() {
		return decimal.Zero
	}
	return d
}

// OrDefault resolves an optional value: nil falls back to def, negatives clamp to zero.
func OrDefault(v *decimal.Decimal, def decimal.Decimal) decimal.Decimal {
	if v == nil {
		return def
	}
	return NonNegative(*v)
}

// BoolOr resolves an optional flag.
func BoolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}

// MinDecimal returns the smaller of a and b.
func MinDecimal(a, b decimal.Decimal) decimal.Decimal {
	if a.LessThan(b) {
		return a
	}
	return b
}

// ClampUnit clamps d into [0, 1].
func ClampUnit(d decimal.Decimal) decimal.Decimal {
	return MinDecimal(NonNegative(d), One)
}
