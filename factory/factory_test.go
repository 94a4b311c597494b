package factory_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/earnings-engine/earnings"
	"github.com/warp/earnings-engine/factory"
	"github.com/warp/earnings-engine/generic"
)

// =============================================================================
// SETTINGS
// =============================================================================

func TestParseSettings_Full(t *testing.T) {
	doc := `{
		"contract": {"hourly_rate": 18.5, "overtime_rates": {"evening_overtime": 1.30}},
		"travel_allowance": {"enabled": true, "daily_amount": "46.48", "policy": "PROPORTIONAL_CCNL"},
		"meal_allowances": {"lunch": {"voucher_amount": 7}},
		"standby": {"enabled": true, "indemnity_type": "16h", "standby_days": ["2025-06-07"]},
		"net_calculation": {"method": "custom", "custom_rate": 27}
	}`

	f := factory.NewSettingsFactory()
	r, err := f.LoadSettings([]byte(doc))
	require.NoError(t, err)

	assert.Equal(t, "18.5", r.HourlyRate.String())
	assert.Equal(t, "1.3", r.Multipliers.EveningOvertime.String())
	assert.Equal(t, "1.25", r.Multipliers.EveningUntil22.String())
	assert.True(t, r.Travel.Enabled)
	assert.Equal(t, earnings.TravelProportional, r.Travel.Policy)
	assert.Equal(t, "46.48", r.Travel.DailyAmount.String())
	assert.Equal(t, "7", r.Meals.Lunch.Voucher.String())
	assert.Equal(t, earnings.Indemnity16h, r.Standby.Indemnity)
	assert.True(t, r.Standby.IsStandbyDate(mustDate(t, "2025-06-07")))
	assert.Equal(t, earnings.NetCustom, r.Net.Method)
}

func TestParseSettings_EmptyDocumentIsDefaults(t *testing.T) {
	f := factory.NewSettingsFactory()
	for _, doc := range []string{"", "{}"} {
		r, err := f.LoadSettings([]byte(doc))
		require.NoError(t, err)
		assert.True(t, earnings.DefaultHourlyRate.Equal(r.HourlyRate))
	}
}

func TestParseSettings_Rejects(t *testing.T) {
	f := factory.NewSettingsFactory()

	_, err := f.ParseSettings([]byte(`{"travel_allowance": {"policy": "NEVER"}}`))
	assert.ErrorIs(t, err, generic.ErrInvalidConfig)

	_, err = f.ParseSettings([]byte(`{"standby": {"standby_days": ["07/06/2025"]}}`))
	assert.ErrorIs(t, err, generic.ErrInvalidConfig)

	_, err = f.ParseSettings([]byte(`{"contract": `))
	assert.Error(t, err)
}

func TestSettings_RoundTripKeepsUnsetFields(t *testing.T) {
	// GIVEN: A document that sets only the hourly rate
	// WHEN: Parsing, encoding and parsing again
	// THEN: The other fields are still unset and resolve to defaults

	f := factory.NewSettingsFactory()
	s, err := f.ParseSettings([]byte(`{"contract": {"hourly_rate": 20}}`))
	require.NoError(t, err)

	data, err := f.MarshalSettings(s)
	require.NoError(t, err)

	again, err := f.ParseSettings(data)
	require.NoError(t, err)
	assert.Nil(t, again.Contract.DailyRate)
	require.NotNil(t, again.Contract.HourlyRate)
	assert.Equal(t, "20", again.Contract.HourlyRate.String())
}

// =============================================================================
// ENTRIES
// =============================================================================

func TestParseEntry_InterventionsAsArrayOrString(t *testing.T) {
	asArray := `{"date": "2025-06-07", "interventions": [{"work_start_1": "22:00", "work_end_1": "23:30"}]}`
	asString := `{"date": "2025-06-07", "interventions": "[{\"work_start_1\":\"22:00\",\"work_end_1\":\"23:30\"}]"}`

	f := factory.NewEntryFactory(true)
	for _, doc := range []string{asArray, asString} {
		e, err := f.ParseEntry([]byte(doc))
		require.NoError(t, err)
		require.Len(t, e.Interventions, 1)
		assert.Equal(t, "22:00", e.Interventions[0].WorkStart1)
	}
}

func TestParseEntry_EmptyLooseLists(t *testing.T) {
	f := factory.NewEntryFactory(true)
	for _, raw := range []string{`""`, `null`, `"[]"`, `[]`} {
		e, err := f.ParseEntry([]byte(`{"date": "2025-06-07", "additional_shifts": ` + raw + `}`))
		require.NoError(t, err, raw)
		assert.Empty(t, e.AdditionalShifts, raw)
	}
}

func TestParseEntry_StrictRejectsBadTime(t *testing.T) {
	doc := `{"date": "2025-06-03", "interventions": [{"work_start_1": "25:00", "work_end_1": "23:00"}]}`

	_, err := factory.NewEntryFactory(true).ParseEntry([]byte(doc))
	require.Error(t, err)
	assert.ErrorIs(t, err, generic.ErrInvalidEntry)
	assert.Contains(t, err.Error(), "interventions[0].work_start_1")
}

func TestParseEntry_LenientDropsBadTime(t *testing.T) {
	doc := `{"date": "2025-06-03", "work_start_1": "8.00", "work_end_1": "12:00"}`

	e, err := factory.NewEntryFactory(false).ParseEntry([]byte(doc))
	require.NoError(t, err)
	assert.Empty(t, e.Shift.WorkStart1)
	assert.True(t, e.Shift.IsEmpty())
}

func TestParseEntry_StandbyTriState(t *testing.T) {
	f := factory.NewEntryFactory(true)
	cases := map[string]earnings.StandbyFlag{
		`{"date": "2025-06-03"}`:                          earnings.StandbyInherit,
		`{"date": "2025-06-03", "is_standby_day": null}`:  earnings.StandbyInherit,
		`{"date": "2025-06-03", "is_standby_day": true}`:  earnings.StandbyOn,
		`{"date": "2025-06-03", "is_standby_day": false}`: earnings.StandbyOff,
	}
	for doc, want := range cases {
		e, err := f.ParseEntry([]byte(doc))
		require.NoError(t, err)
		assert.Equal(t, want, e.Standby, doc)
	}
}

func TestParseEntry_FixedDay(t *testing.T) {
	f := factory.NewEntryFactory(true)
	f.FixedEarnings = earnings.DefaultDailyRate

	e, err := f.ParseEntry([]byte(`{"date": "2025-06-04", "fixed_day_type": "ferie"}`))
	require.NoError(t, err)
	require.NotNil(t, e.FixedDay)
	assert.Equal(t, earnings.FixedVacation, e.FixedDay.Type)
	assert.Equal(t, "109.19", e.FixedDay.Earnings.String())

	_, err = f.ParseEntry([]byte(`{"date": "2025-06-04", "fixed_day_type": "holiday"}`))
	assert.ErrorIs(t, err, generic.ErrInvalidConfig)
}

func TestParseEntry_Rejects(t *testing.T) {
	f := factory.NewEntryFactory(true)

	_, err := f.ParseEntry([]byte(`{"date": "03/06/2025"}`))
	assert.ErrorIs(t, err, generic.ErrInvalidEntry)

	_, err = f.ParseEntry([]byte(`{"date": "2025-06-03", "travel_allowance_percent": 1.5}`))
	assert.ErrorIs(t, err, generic.ErrInvalidEntry)

	_, err = f.ParseEntry([]byte(`not json`))
	assert.ErrorIs(t, err, generic.ErrInvalidEntry)
}

func TestEntry_RoundTrip(t *testing.T) {
	doc := `{
		"date": "2025-06-03",
		"work_start_1": "08:00", "work_end_1": "12:00",
		"additional_shifts": "[{\"work_start_1\":\"19:00\",\"work_end_1\":\"21:00\"}]",
		"interventions": [{"departure_company": "22:00", "arrival_site": "22:30"}],
		"meal_lunch_voucher": true, "meal_dinner_cash": 6.5,
		"travel_allowance": true, "travel_allowance_percent": 0.5,
		"is_standby_day": true,
		"notes": "cantiere"
	}`

	f := factory.NewEntryFactory(true)
	first, err := f.ParseEntry([]byte(doc))
	require.NoError(t, err)

	data, err := f.MarshalEntry(first)
	require.NoError(t, err)

	second, err := f.ParseEntry(data)
	require.NoError(t, err)

	assert.Equal(t, first.Shift, second.Shift)
	assert.Equal(t, first.AdditionalShifts, second.AdditionalShifts)
	assert.Equal(t, first.Interventions, second.Interventions)
	assert.Equal(t, first.Standby, second.Standby)
	assert.Equal(t, first.Notes, second.Notes)
	assert.True(t, first.Dinner.Cash.Equal(*second.Dinner.Cash))
	assert.True(t, first.TravelAllowancePercent.Equal(*second.TravelAllowancePercent))
}

func mustDate(t *testing.T, s string) generic.TimePoint {
	t.Helper()
	d, err := generic.ParseDate(s)
	require.NoError(t, err)
	return d
}
