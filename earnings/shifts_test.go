package earnings_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/earnings-engine/earnings"
)

// =============================================================================
// SHIFT AGGREGATION
// =============================================================================

func TestAggregateShifts_SingleShift(t *testing.T) {
	entry := earnings.WorkEntry{
		Date: tuesday,
		Shift: earnings.Shift{
			DepartureCompany: "07:00", ArrivalSite: "08:00",
			WorkStart1: "08:00", WorkEnd1: "12:00",
			WorkStart2: "13:00", WorkEnd2: "17:00",
			DepartureReturn: "17:00", ArrivalCompany: "18:00",
		},
	}

	tl, totals := earnings.AggregateShifts(entry)

	require.Len(t, tl, 4)
	assert.Equal(t, 480, totals.WorkMinutes)
	assert.Equal(t, 120, totals.TravelMinutes)
	assert.Equal(t, 120, totals.ExternalTravelMinutes)
	assert.Equal(t, 0, totals.InternalTravelMinutes)
}

func TestAggregateShifts_InternalTravelBetweenShifts(t *testing.T) {
	// GIVEN: Two shifts at different sites on the same day
	// WHEN: Aggregating
	// THEN: Only the first departure and the last return are external

	entry := earnings.WorkEntry{
		Date: tuesday,
		Shift: earnings.Shift{
			DepartureCompany: "07:00", ArrivalSite: "08:00",
			WorkStart1: "08:00", WorkEnd1: "12:00",
			WorkStart2: "13:00", WorkEnd2: "17:00",
			DepartureReturn: "17:00", ArrivalCompany: "18:00",
		},
		AdditionalShifts: []earnings.Shift{{
			DepartureCompany: "18:30", ArrivalSite: "19:00",
			WorkStart1: "19:00", WorkEnd1: "21:00",
			DepartureReturn: "21:00", ArrivalCompany: "21:30",
		}},
	}

	tl, totals := earnings.AggregateShifts(entry)

	require.Len(t, tl, 7)
	assert.True(t, tl[0].External)
	assert.False(t, tl[3].External)
	assert.False(t, tl[4].External)
	assert.True(t, tl[6].External)

	assert.Equal(t, 600, totals.WorkMinutes)
	assert.Equal(t, 180, totals.TravelMinutes)
	assert.Equal(t, 90, totals.ExternalTravelMinutes)
	assert.Equal(t, 90, totals.InternalTravelMinutes)
}

func TestAggregateShifts_IncompletePairsSkipped(t *testing.T) {
	entry := earnings.WorkEntry{
		Date: tuesday,
		Shift: earnings.Shift{
			WorkStart1: "08:00", WorkEnd1: "12:00",
			WorkStart2: "13:00",
			DepartureReturn: "bogus", ArrivalCompany: "18:00",
		},
	}

	tl, totals := earnings.AggregateShifts(entry)

	assert.Len(t, tl, 1)
	assert.Equal(t, 240, totals.WorkMinutes)
	assert.Equal(t, 0, totals.TravelMinutes)
}

func TestAggregateShifts_OvernightWork(t *testing.T) {
	entry := earnings.WorkEntry{
		Date:  tuesday,
		Shift: earnings.Shift{WorkStart1: "22:00", WorkEnd1: "06:00"},
	}

	_, totals := earnings.AggregateShifts(entry)
	assert.Equal(t, 480, totals.WorkMinutes)
}

func TestShift_IsEmpty(t *testing.T) {
	assert.True(t, earnings.Shift{}.IsEmpty())
	assert.True(t, earnings.Shift{WorkStart1: "08:00"}.IsEmpty())
	assert.False(t, earnings.Shift{WorkStart1: "08:00", WorkEnd1: "09:00"}.IsEmpty())
	assert.True(t, earnings.Intervention{WorkStart1: "10:00", WorkEnd1: "10:00"}.IsEmpty())
}
