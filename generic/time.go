package generic

import (
	"time"
)

// =============================================================================
// TIME POINT - A calendar day (entries are keyed by date)
// =============================================================================

const DateLayout = "2006-01-02"

type TimePoint struct {
	Time time.Time
}

// Constructors
func NewTimePoint(year int, month time.Month, day int) TimePoint {
	return TimePoint{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses "YYYY-MM-DD".
func ParseDate(s string) (TimePoint, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return TimePoint{}, err
	}
	return NewTimePoint(t.Year(), t.Month(), t.Day()), nil
}

// Comparison
func (tp TimePoint) Before(other TimePoint) bool        { return tp.normalize().Before(other.normalize()) }
func (tp TimePoint) Equal(other TimePoint) bool         { return tp.normalize().Equal(other.normalize()) }
func (tp TimePoint) After(other TimePoint) bool         { return tp.normalize().After(other.normalize()) }
func (tp TimePoint) BeforeOrEqual(other TimePoint) bool { return !tp.After(other) }
func (tp TimePoint) AfterOrEqual(other TimePoint) bool  { return !tp.Before(other) }

func (tp TimePoint) normalize() time.Time {
	return time.Date(tp.Time.Year(), tp.Time.Month(), tp.Time.Day(), 0, 0, 0, 0, time.UTC)
}

// Arithmetic
func (tp TimePoint) AddDays(n int) TimePoint   { return TimePoint{Time: tp.normalize().AddDate(0, 0, n)} }
func (tp TimePoint) AddMonths(n int) TimePoint { return TimePoint{Time: tp.normalize().AddDate(0, n, 0)} }

// Properties
func (tp TimePoint) Year() int             { return tp.Time.Year() }
func (tp TimePoint) Month() time.Month     { return tp.Time.Month() }
func (tp TimePoint) Day() int              { return tp.Time.Day() }
func (tp TimePoint) Weekday() time.Weekday { return tp.Time.Weekday() }
func (tp TimePoint) IsZero() bool          { return tp.Time.IsZero() }

// Key is the canonical map key for a day.
func (tp TimePoint) Key() string { return tp.String() }

func (tp TimePoint) String() string { return tp.Time.Format(DateLayout) }

// =============================================================================
// HOLIDAY CALENDAR
// =============================================================================

// Holiday is a public or company holiday. Holidays are paid at the festivo rate.
type Holiday struct {
	ID        string
	Date      TimePoint
	Name      string
	Recurring bool // true = same month/day every year
}

// Matches reports whether the holiday falls on date.
func (h Holiday) Matches(date TimePoint) bool {
	if h.Recurring {
		return h.Date.Month() == date.Month() && h.Date.Day() == date.Day()
	}
	return h.Date.Equal(date)
}

// HolidayCalendar answers whether a date is a holiday.
type HolidayCalendar interface {
	IsHoliday(date TimePoint) bool
}

// NoHolidays is a calendar without holidays.
type NoHolidays struct{}

func (NoHolidays) IsHoliday(TimePoint) bool { return false }

// HolidayList is a fixed in-memory calendar.
type HolidayList []Holiday

func (l HolidayList) IsHoliday(date TimePoint) bool {
	for _, h := range l {
		if h.Matches(date) {
			return true
		}
	}
	return false
}

// CombinedCalendar reports a holiday when any of its calendars does.
type CombinedCalendar []HolidayCalendar

func (c CombinedCalendar) IsHoliday(date TimePoint) bool {
	for _, cal := range c {
		if cal != nil && cal.IsHoliday(date) {
			return true
		}
	}
	return false
}

// ItalianCalendar holds the national public holidays, including Easter Monday.
type ItalianCalendar struct{}

var italianFixedHolidays = []struct {
	month time.Month
	day   int
	name  string
}{
	{time.January, 1, "Capodanno"},
	{time.January, 6, "Epifania"},
	{time.April, 25, "Festa della Liberazione"},
	{time.May, 1, "Festa del Lavoro"},
	{time.June, 2, "Festa della Repubblica"},
	{time.August, 15, "Ferragosto"},
	{time.November, 1, "Ognissanti"},
	{time.December, 8, "Immacolata Concezione"},
	{time.December, 25, "Natale"},
	{time.December, 26, "Santo Stefano"},
}

func (ItalianCalendar) IsHoliday(date TimePoint) bool {
	for _, h := range italianFixedHolidays {
		if date.Month() == h.month && date.Day() == h.day {
			return true
		}
	}
	return date.Equal(EasterSunday(date.Year()).AddDays(1))
}

// Holidays lists the national holidays of a year, in date order.
func (ItalianCalendar) Holidays(year int) []Holiday {
	var out []Holiday
	easterMonday := EasterSunday(year).AddDays(1)
	added := false
	for _, h := range italianFixedHolidays {
		d := NewTimePoint(year, h.month, h.day)
		if !added && easterMonday.Before(d) {
			out = append(out, Holiday{Date: easterMonday, Name: "Lunedì dell'Angelo"})
			added = true
		}
		out = append(out, Holiday{Date: d, Name: h.name, Recurring: true})
	}
	return out
}

// EasterSunday computes the Gregorian Easter date (anonymous Gregorian algorithm).
func EasterSunday(year int) TimePoint {
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := (h+l-7*m+114)%31 + 1
	return NewTimePoint(year, time.Month(month), day)
}
