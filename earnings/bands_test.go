package earnings_test

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/warp/earnings-engine/earnings"
	"github.com/warp/earnings-engine/generic"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertDec(t *testing.T, want string, got decimal.Decimal, msgAndArgs ...interface{}) {
	t.Helper()
	if !dec(want).Equal(got) {
		t.Errorf("expected %s, got %s %v", want, got, msgAndArgs)
	}
}

var (
	tuesday  = generic.NewTimePoint(2025, time.June, 3)
	saturday = generic.NewTimePoint(2025, time.June, 7)
	sunday   = generic.NewTimePoint(2025, time.June, 8)
	// Festa della Repubblica, a Monday in 2025.
	republicDay = generic.NewTimePoint(2025, time.June, 2)
)

// =============================================================================
// BAND CLASSIFICATION
// =============================================================================

func TestClassifyMinute_Boundaries(t *testing.T) {
	cases := map[int]earnings.Band{
		0:    earnings.BandNight,
		359:  earnings.BandNight,
		360:  earnings.BandDay,
		1199: earnings.BandDay,
		1200: earnings.BandEvening,
		1319: earnings.BandEvening,
		1320: earnings.BandNight,
		1439: earnings.BandNight,
	}
	for minute, want := range cases {
		assert.Equal(t, want, earnings.ClassifyMinute(minute), "minute %d", minute)
	}
}

func TestDayTypeFor(t *testing.T) {
	cal := generic.ItalianCalendar{}
	assert.Equal(t, earnings.Weekday, earnings.DayTypeFor(tuesday, cal))
	assert.Equal(t, earnings.Saturday, earnings.DayTypeFor(saturday, cal))
	assert.Equal(t, earnings.Sunday, earnings.DayTypeFor(sunday, cal))
	assert.Equal(t, earnings.Holiday, earnings.DayTypeFor(republicDay, cal))
	assert.Equal(t, earnings.Weekday, earnings.DayTypeFor(republicDay, nil))
}

func TestDayType_RestAndSpecial(t *testing.T) {
	assert.False(t, earnings.Saturday.IsSpecial())
	assert.True(t, earnings.Saturday.IsRest(true))
	assert.False(t, earnings.Saturday.IsRest(false))
	assert.True(t, earnings.Holiday.IsRest(false))
	assert.Equal(t, earnings.Holiday, earnings.PricingDay(earnings.Saturday, true))
	assert.Equal(t, earnings.Saturday, earnings.PricingDay(earnings.Saturday, false))
}

// =============================================================================
// MULTIPLIERS
// =============================================================================

func TestMultipliers_WeekdayTable(t *testing.T) {
	m := earnings.DefaultMultipliers()

	assertDec(t, "1.00", m.For(earnings.BandDay, earnings.Weekday, false))
	assertDec(t, "1.20", m.For(earnings.BandDay, earnings.Weekday, true))
	assertDec(t, "1.25", m.For(earnings.BandEvening, earnings.Weekday, false))
	assertDec(t, "1.25", m.For(earnings.BandEvening, earnings.Weekday, true))
	assertDec(t, "1.35", m.For(earnings.BandNight, earnings.Weekday, false))
	assertDec(t, "1.35", m.For(earnings.BandNight, earnings.Weekday, true))
}

func TestMultipliers_CompositeSurchargesAreAdditive(t *testing.T) {
	// GIVEN: Default CCNL multipliers
	// WHEN: Combining a special day with the night band
	// THEN: Surcharges are added to the base, never multiplied

	m := earnings.DefaultMultipliers()

	assertDec(t, "1.50", m.For(earnings.BandNight, earnings.Saturday, false), "saturday night, not 1.5625")
	assertDec(t, "1.55", m.For(earnings.BandNight, earnings.Holiday, false), "holiday night, not 1.625")
	assertDec(t, "1.65", m.For(earnings.BandNight, earnings.Holiday, true), "holiday overtime night, not 1.755")
	assertDec(t, "1.55", m.For(earnings.BandNight, earnings.Sunday, false))
}

func TestMultipliers_SpecialDayFlat(t *testing.T) {
	m := earnings.DefaultMultipliers()

	assertDec(t, "1.25", m.For(earnings.BandDay, earnings.Saturday, false))
	assertDec(t, "1.25", m.For(earnings.BandDay, earnings.Saturday, true))
	assertDec(t, "1.30", m.For(earnings.BandDay, earnings.Holiday, false))
	assertDec(t, "1.50", m.For(earnings.BandEvening, earnings.Saturday, false))
}

func TestMultipliers_EveningOvertimeIsConfigurable(t *testing.T) {
	rate := dec("1.30")
	resolved, err := earnings.Settings{
		Contract: earnings.ContractSettings{
			Multipliers: earnings.MultiplierSettings{EveningOvertime: &rate},
		},
	}.Resolve()
	assert.NoError(t, err)

	m := resolved.Multipliers
	assertDec(t, "1.25", m.For(earnings.BandEvening, earnings.Weekday, false))
	assertDec(t, "1.30", m.For(earnings.BandEvening, earnings.Weekday, true))
}
