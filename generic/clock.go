package generic

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// =============================================================================
// CLOCK - Wall-clock times as minutes since midnight
// =============================================================================

const (
	MinutesPerHour = 60
	MinutesPerDay  = 24 * MinutesPerHour
)

// ParseClock parses "HH:MM" (or "H:MM") into minutes since midnight.
// Empty or malformed input returns ok=false, which callers treat as "absent".
func ParseClock(s string) (minutes int, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, false
	}
	h, m, found := strings.Cut(s, ":")
	if !found || len(h) == 0 || len(h) > 2 || len(m) != 2 {
		return 0, false
	}
	hh, err := strconv.Atoi(h)
	if err != nil {
		return 0, false
	}
	mm, err := strconv.Atoi(m)
	if err != nil {
		return 0, false
	}
	if hh < 0 || hh > 23 || mm < 0 || mm > 59 {
		return 0, false
	}
	return hh*MinutesPerHour + mm, true
}

// ValidClock reports whether s is empty or a well-formed "HH:MM".
func ValidClock(s string) bool {
	if strings.TrimSpace(s) == "" {
		return true
	}
	_, ok := ParseClock(s)
	return ok
}

// FormatClock renders minutes since midnight as "HH:MM", wrapping past 24h.
func FormatClock(minutes int) string {
	minutes = ((minutes % MinutesPerDay) + MinutesPerDay) % MinutesPerDay
	h, m := minutes/MinutesPerHour, minutes%MinutesPerHour
	return twoDigits(h) + ":" + twoDigits(m)
}

func twoDigits(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

// Duration returns the minutes between two "HH:MM" strings.
// An end earlier than start is an overnight span. Absent endpoints give 0.
func Duration(start, end string) int {
	s, ok := ParseClock(start)
	if !ok {
		return 0
	}
	e, ok := ParseClock(end)
	if !ok {
		return 0
	}
	return DurationBetween(s, e)
}

// DurationBetween applies the midnight-rollover rule to parsed minutes.
func DurationBetween(start, end int) int {
	if end < start {
		end += MinutesPerDay
	}
	return end - start
}

// ToHours converts minutes to hours. The only rounding is the 16-digit
// precision of decimal division, so price from minutes with PayFor.
func ToHours(minutes int) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Div(minuteDiv)
}

// PayFor prices minutes at an hourly rate as minutes × rate ÷ 60, dividing once.
func PayFor(minutes int, hourlyRate decimal.Decimal) decimal.Decimal {
	return decimal.NewFromInt(int64(minutes)).Mul(hourlyRate).Div(minuteDiv)
}

// =============================================================================
// SPAN - A parsed [start, start+length) interval on the clock
// =============================================================================

// Span is a clock interval. Start is minutes since midnight, Minutes its length.
type Span struct {
	Start   int
	Minutes int
}

// ParseSpan parses a start/end pair. ok is false when either endpoint is absent.
func ParseSpan(start, end string) (Span, bool) {
	s, ok := ParseClock(start)
	if !ok {
		return Span{}, false
	}
	e, ok := ParseClock(end)
	if !ok {
		return Span{}, false
	}
	return Span{Start: s, Minutes: DurationBetween(s, e)}, true
}

// Each calls fn with the minute-of-day of every whole minute in the span.
func (sp Span) Each(fn func(minuteOfDay int)) {
	for i := 0; i < sp.Minutes; i++ {
		fn((sp.Start + i) % MinutesPerDay)
	}
}
