package earnings_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/warp/earnings-engine/earnings"
)

func TestAllocateHours_WeekdayThreshold(t *testing.T) {
	// GIVEN: 9 hours of work on a weekday
	// WHEN: Splitting
	// THEN: 8 ordinary, 1 overtime

	split := earnings.AllocateHours(dec("9"), earnings.Weekday)
	assertDec(t, "8", split.Ordinary)
	assertDec(t, "1", split.Overtime)
}

func TestAllocateHours_NoThresholdOnWeekend(t *testing.T) {
	for _, d := range []earnings.DayType{earnings.Saturday, earnings.Sunday, earnings.Holiday} {
		split := earnings.AllocateHours(dec("9"), d)
		assertDec(t, "9", split.Ordinary, string(d))
		assertDec(t, "0", split.Overtime, string(d))
	}
}

func TestAllocateHours_UnderThreshold(t *testing.T) {
	split := earnings.AllocateHours(dec("7.5"), earnings.Weekday)
	assertDec(t, "7.5", split.Ordinary)
	assert.True(t, split.Overtime.IsZero())
}

func TestAllocateMinutes_OvertimeKeepsItsBand(t *testing.T) {
	// GIVEN: A 14:00-23:00 weekday shift
	// WHEN: Allocating minute by minute
	// THEN: 14-22 is regular (day+evening), 22-23 is overtime night

	tl := earnings.BuildTimeline(earnings.Shift{WorkStart1: "14:00", WorkEnd1: "23:00"})
	a := earnings.AllocateMinutes(tl, earnings.Weekday)

	assert.Equal(t, earnings.BandMinutes{Day: 360, Evening: 120}, a.Regular)
	assert.Equal(t, earnings.BandMinutes{Night: 60}, a.Overtime)
}

func TestAllocateMinutes_TravelDoesNotCount(t *testing.T) {
	tl := earnings.BuildTimeline(earnings.Shift{
		DepartureCompany: "06:00", ArrivalSite: "08:00",
		WorkStart1: "08:00", WorkEnd1: "16:00",
		DepartureReturn: "16:00", ArrivalCompany: "18:00",
	})
	a := earnings.AllocateMinutes(tl, earnings.Weekday)

	assert.Equal(t, 480, a.Regular.Total())
	assert.Equal(t, 0, a.Overtime.Total())
	assert.Equal(t, 240, a.Travel)
}

func TestAllocateMinutes_SaturdayAllRegular(t *testing.T) {
	tl := earnings.BuildTimeline(earnings.Shift{WorkStart1: "08:00", WorkEnd1: "18:00"})
	a := earnings.AllocateMinutes(tl, earnings.Saturday)

	assert.Equal(t, 600, a.Regular.Total())
	assert.Equal(t, 0, a.Overtime.Total())
}
