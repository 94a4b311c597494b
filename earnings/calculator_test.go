package earnings_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/earnings-engine/earnings"
	"github.com/warp/earnings-engine/generic"
)

// =============================================================================
// TEST HELPERS
// =============================================================================

func calculator(t *testing.T, s earnings.Settings) earnings.Calculator {
	t.Helper()
	resolved, err := s.Resolve()
	require.NoError(t, err)
	return earnings.NewCalculator(resolved, generic.ItalianCalendar{})
}

func nineHours() earnings.Shift {
	return earnings.Shift{WorkStart1: "08:00", WorkEnd1: "12:00", WorkStart2: "13:00", WorkEnd2: "18:00"}
}

// =============================================================================
// ORDINARY WORK
// =============================================================================

func TestDay_WeekdayOvertime(t *testing.T) {
	// GIVEN: 9 worked hours on a Tuesday at the default rate 16.41
	// WHEN: Computing the day
	// THEN: 8h at 1.00 and 1h at the day overtime rate 1.20

	calc := calculator(t, earnings.Settings{})
	day, err := calc.Day(earnings.WorkEntry{Date: tuesday, Shift: nineHours()})
	require.NoError(t, err)

	assert.Equal(t, earnings.Weekday, day.DayType)
	assertDec(t, "9", day.Hours.Work)
	assertDec(t, "8", day.Hours.Ordinary)
	assertDec(t, "1", day.Hours.Overtime)
	assertDec(t, "131.28", day.Ordinary.RegularPay.Total())
	assertDec(t, "19.692", day.Ordinary.OvertimePay.Day)
	assertDec(t, "150.972", day.TotalEarnings)
	assert.True(t, day.CheckInvariant())
}

func TestDay_PartialHourPricedExactly(t *testing.T) {
	// GIVEN: Three 20-minute work slices on a Tuesday
	// WHEN: Computing the day
	// THEN: Exactly one hour of pay, no 16-digit division residue

	calc := calculator(t, earnings.Settings{})
	day, err := calc.Day(earnings.WorkEntry{Date: tuesday, Shift: earnings.Shift{WorkStart1: "08:00", WorkEnd1: "08:20"}})
	require.NoError(t, err)
	assertDec(t, "5.47", day.TotalEarnings)

	day, err = calc.Day(earnings.WorkEntry{Date: tuesday, Shift: earnings.Shift{WorkStart1: "08:00", WorkEnd1: "08:20"},
		AdditionalShifts: []earnings.Shift{
			{WorkStart1: "09:00", WorkEnd1: "09:20"},
			{WorkStart1: "10:00", WorkEnd1: "10:20"},
		}})
	require.NoError(t, err)
	assertDec(t, "16.41", day.TotalEarnings)
}

func TestDay_SaturdayFlatMultiplier(t *testing.T) {
	// GIVEN: The same 9 hours on a Saturday
	// THEN: No overtime split, every hour at 1.25

	calc := calculator(t, earnings.Settings{})
	day, err := calc.Day(earnings.WorkEntry{Date: saturday, Shift: nineHours()})
	require.NoError(t, err)

	assertDec(t, "9", day.Hours.Ordinary)
	assert.True(t, day.Hours.Overtime.IsZero())
	assert.True(t, day.Ordinary.OvertimePay.Total().IsZero())
	assertDec(t, "184.6125", day.TotalEarnings)
}

func TestDay_SaturdayAsRestPricedAsHoliday(t *testing.T) {
	calc := calculator(t, earnings.Settings{
		Standby: earnings.StandbySettings{SaturdayAsRest: enabled()},
	})
	day, err := calc.Day(earnings.WorkEntry{Date: saturday, Shift: earnings.Shift{WorkStart1: "08:00", WorkEnd1: "09:00"}})
	require.NoError(t, err)
	assertDec(t, "21.333", day.TotalEarnings) // 16.41 * 1.30
}

func TestDay_TravelPaidAtTravelRate(t *testing.T) {
	calc := calculator(t, earnings.Settings{})
	day, err := calc.Day(earnings.WorkEntry{Date: tuesday, Shift: earnings.Shift{
		DepartureCompany: "07:00", ArrivalSite: "08:00",
		WorkStart1: "08:00", WorkEnd1: "16:00",
	}})
	require.NoError(t, err)

	assertDec(t, "1", day.Ordinary.TravelHours)
	assertDec(t, "16.41", day.Ordinary.TravelPay)
	assert.True(t, day.Hours.Overtime.IsZero())
}

// =============================================================================
// STANDBY AND THE DOUBLE-COUNT INVARIANT
// =============================================================================

func TestDay_StandbyIndemnityCountedOnce(t *testing.T) {
	// GIVEN: A standby day with a callout and indemnity 7.03
	// WHEN: Computing the day
	// THEN: The total includes the indemnity exactly once

	calc := calculator(t, earnings.Settings{
		Standby: earnings.StandbySettings{Enabled: enabled()},
	})
	day, err := calc.Day(earnings.WorkEntry{
		Date:          tuesday,
		Shift:         nineHours(),
		Standby:       earnings.StandbyOn,
		Interventions: []earnings.Intervention{{WorkStart1: "21:00", WorkEnd1: "23:00"}},
	})
	require.NoError(t, err)

	require.True(t, day.Allowances.Standby.IsPositive())
	assertDec(t, "7.03", day.Allowances.Standby)

	want := day.Ordinary.Total.Add(day.Allowances.Travel).Add(day.Standby.TotalEarnings)
	assert.True(t, want.Equal(day.TotalEarnings))

	doubled := want.Add(day.Allowances.Standby)
	assert.False(t, doubled.Equal(day.TotalEarnings))
	assert.True(t, day.CheckInvariant())
}

func TestDay_StandbyFlagInheritsCalendar(t *testing.T) {
	calc := calculator(t, earnings.Settings{
		Standby: earnings.StandbySettings{Enabled: enabled(), Dates: []generic.TimePoint{tuesday}},
	})

	inherited, err := calc.Day(earnings.WorkEntry{Date: tuesday})
	require.NoError(t, err)
	assert.True(t, inherited.StandbyDay)
	assertDec(t, "7.03", inherited.TotalEarnings)

	off, err := calc.Day(earnings.WorkEntry{Date: tuesday, Standby: earnings.StandbyOff})
	require.NoError(t, err)
	assert.False(t, off.StandbyDay)
	assert.True(t, off.TotalEarnings.IsZero())
}

func TestDay_ProportionalAllowanceWithStandby(t *testing.T) {
	amount := dec("40")
	calc := calculator(t, earnings.Settings{
		TravelAllowance: earnings.TravelAllowanceSettings{
			Enabled:     enabled(),
			DailyAmount: &amount,
			Policy:      string(earnings.TravelProportional),
		},
	})
	day, err := calc.Day(earnings.WorkEntry{
		Date:                     tuesday,
		Shift:                    earnings.Shift{WorkStart1: "08:00", WorkEnd1: "15:00"},
		TravelAllowanceRequested: true,
		Interventions: []earnings.Intervention{{
			DepartureCompany: "19:00", ArrivalSite: "20:00",
			WorkStart1: "20:00", WorkEnd1: "22:00",
			DepartureReturn: "22:00", ArrivalCompany: "23:00",
		}},
	})
	require.NoError(t, err)

	assertDec(t, "4", day.Hours.Standby)
	assertDec(t, "40", day.Allowances.Travel)
	assert.True(t, day.CheckInvariant())
}

// =============================================================================
// MEALS AND FIXED DAYS
// =============================================================================

func TestDay_MealsOutsideTotal(t *testing.T) {
	calc := calculator(t, earnings.Settings{})
	day, err := calc.Day(earnings.WorkEntry{
		Date:  tuesday,
		Lunch: earnings.MealClaim{Voucher: true, Cash: generic.DecPtr(dec("5"))},
	})
	require.NoError(t, err)

	assertDec(t, "5", day.Allowances.Meal)
	assert.True(t, day.TotalEarnings.IsZero())
}

func TestDay_FixedDayShortCircuits(t *testing.T) {
	// GIVEN: A vacation day that also carries shift, standby and meal fields
	// WHEN: Computing the day
	// THEN: Only the flat earnings count, with zero hours

	calc := calculator(t, earnings.Settings{
		Standby: earnings.StandbySettings{Enabled: enabled()},
	})
	day, err := calc.Day(earnings.WorkEntry{
		Date:          tuesday,
		Shift:         nineHours(),
		Standby:       earnings.StandbyOn,
		Interventions: []earnings.Intervention{{WorkStart1: "21:00", WorkEnd1: "23:00"}},
		Lunch:         earnings.MealClaim{Voucher: true},
		FixedDay:      &earnings.FixedDay{Type: earnings.FixedVacation, Earnings: dec("109.19")},
	})
	require.NoError(t, err)

	require.NotNil(t, day.Fixed)
	assertDec(t, "109.19", day.TotalEarnings)
	assert.True(t, day.Hours.Work.IsZero())
	assert.True(t, day.Standby.TotalEarnings.IsZero())
	assert.True(t, day.Allowances.Meal.IsZero())
	assert.True(t, day.CheckInvariant())
}

func TestDay_InvalidFixedDayType(t *testing.T) {
	calc := calculator(t, earnings.Settings{})
	_, err := calc.Day(earnings.WorkEntry{
		Date:     tuesday,
		FixedDay: &earnings.FixedDay{Type: "vacation"},
	})
	assert.ErrorIs(t, err, generic.ErrInvalidConfig)
}

func TestDay_MissingDate(t *testing.T) {
	calc := calculator(t, earnings.Settings{})
	_, err := calc.Day(earnings.WorkEntry{})
	assert.ErrorIs(t, err, generic.ErrInvalidEntry)
}
