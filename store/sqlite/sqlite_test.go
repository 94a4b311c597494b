package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/earnings-engine/generic"
	"github.com/warp/earnings-engine/store/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	s, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func day(d int) generic.TimePoint {
	return generic.NewTimePoint(2025, time.June, d)
}

// =============================================================================
// ENTRIES
// =============================================================================

func TestEntries_SaveReplaceAndList(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.SaveEntry(ctx, generic.DayRecord{EntityID: "emp-1", Date: day(5), Payload: []byte(`{"v":1}`)}))
	require.NoError(t, s.SaveEntry(ctx, generic.DayRecord{EntityID: "emp-1", Date: day(3), Payload: []byte(`{"v":2}`)}))
	require.NoError(t, s.SaveEntry(ctx, generic.DayRecord{EntityID: "emp-1", Date: day(5), Payload: []byte(`{"v":3}`)}))
	require.NoError(t, s.SaveEntry(ctx, generic.DayRecord{EntityID: "emp-2", Date: day(4), Payload: []byte(`{}`)}))

	recs, err := s.ListEntries(ctx, "emp-1", day(1), day(30))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "2025-06-03", recs[0].Date.String())
	assert.Equal(t, `{"v":3}`, string(recs[1].Payload))

	rec, err := s.GetEntry(ctx, "emp-1", day(3))
	require.NoError(t, err)
	assert.Equal(t, generic.EntityID("emp-1"), rec.EntityID)
	assert.False(t, rec.UpdatedAt.IsZero())
}

func TestEntries_RangeIsInclusive(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	for _, d := range []int{1, 15, 30} {
		require.NoError(t, s.SaveEntry(ctx, generic.DayRecord{EntityID: "emp-1", Date: day(d), Payload: []byte(`{}`)}))
	}

	recs, err := s.ListEntries(ctx, "emp-1", day(1), day(15))
	require.NoError(t, err)
	assert.Len(t, recs, 2)
}

func TestEntries_NotFound(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.GetEntry(ctx, "emp-1", day(3))
	assert.ErrorIs(t, err, generic.ErrEntryNotFound)

	err = s.DeleteEntry(ctx, "emp-1", day(3))
	assert.ErrorIs(t, err, generic.ErrEntryNotFound)
}

func TestEntries_Delete(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.SaveEntry(ctx, generic.DayRecord{EntityID: "emp-1", Date: day(3), Payload: []byte(`{}`)}))
	require.NoError(t, s.DeleteEntry(ctx, "emp-1", day(3)))

	_, err := s.GetEntry(ctx, "emp-1", day(3))
	assert.ErrorIs(t, err, generic.ErrEntryNotFound)
}

// =============================================================================
// SETTINGS SNAPSHOTS
// =============================================================================

func TestSettings_VersionsAppend(t *testing.T) {
	// GIVEN: Two settings edits for the same worker
	// WHEN: Saving both
	// THEN: Versions 1 and 2, latest wins, history keeps both

	ctx := context.Background()
	s := newStore(t)

	_, err := s.LatestSettings(ctx, "emp-1")
	assert.ErrorIs(t, err, generic.ErrSettingsNotFound)

	first, err := s.SaveSettings(ctx, generic.SettingsSnapshot{EntityID: "emp-1", Payload: []byte(`{"a":1}`)})
	require.NoError(t, err)
	second, err := s.SaveSettings(ctx, generic.SettingsSnapshot{EntityID: "emp-1", Payload: []byte(`{"a":2}`)})
	require.NoError(t, err)

	assert.Equal(t, 1, first.Version)
	assert.Equal(t, 2, second.Version)
	assert.NotEqual(t, first.ID, second.ID)

	latest, err := s.LatestSettings(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, `{"a":2}`, string(latest.Payload))

	history, err := s.SettingsHistory(ctx, "emp-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 1, history[0].Version)
}

func TestSettings_DuplicateVersionRejected(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	_, err := s.SaveSettings(ctx, generic.SettingsSnapshot{EntityID: "emp-1", Version: 3, Payload: []byte(`{}`)})
	require.NoError(t, err)
	_, err = s.SaveSettings(ctx, generic.SettingsSnapshot{EntityID: "emp-1", Version: 3, Payload: []byte(`{}`)})
	assert.Error(t, err)
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func TestHolidays_CalendarAndRecurring(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	patron, err := s.SaveHoliday(ctx, generic.Holiday{Date: generic.NewTimePoint(2020, time.June, 24), Name: "San Giovanni", Recurring: true})
	require.NoError(t, err)
	assert.NotEmpty(t, patron.ID)

	_, err = s.SaveHoliday(ctx, generic.Holiday{Date: day(13), Name: "Plant closure"})
	require.NoError(t, err)

	assert.True(t, s.IsHoliday(day(24)))
	assert.True(t, s.IsHoliday(day(13)))
	assert.False(t, s.IsHoliday(generic.NewTimePoint(2026, time.June, 13)))

	all, err := s.ListHolidays(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	require.NoError(t, s.DeleteHoliday(ctx, patron.ID))
	assert.False(t, s.IsHoliday(day(24)))
}

func TestHolidays_SaveSameDateAndNameUpdates(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	first, err := s.SaveHoliday(ctx, generic.Holiday{Date: day(13), Name: "Plant closure"})
	require.NoError(t, err)
	second, err := s.SaveHoliday(ctx, generic.Holiday{Date: day(13), Name: "Plant closure", Recurring: true})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	all, err := s.ListHolidays(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.True(t, all[0].Recurring)
}

func TestReset(t *testing.T) {
	ctx := context.Background()
	s := newStore(t)

	require.NoError(t, s.SaveEntry(ctx, generic.DayRecord{EntityID: "emp-1", Date: day(3), Payload: []byte(`{}`)}))
	_, err := s.SaveSettings(ctx, generic.SettingsSnapshot{EntityID: "emp-1", Payload: []byte(`{}`)})
	require.NoError(t, err)

	require.NoError(t, s.Reset(ctx))

	recs, err := s.ListEntries(ctx, "emp-1", day(1), day(30))
	require.NoError(t, err)
	assert.Empty(t, recs)
	_, err = s.LatestSettings(ctx, "emp-1")
	assert.ErrorIs(t, err, generic.ErrSettingsNotFound)
}
