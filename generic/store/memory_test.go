package store_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/earnings-engine/generic"
	"github.com/warp/earnings-engine/generic/store"
)

func june(d int) generic.TimePoint { return generic.NewTimePoint(2025, time.June, d) }

func TestMemory_Entries(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	payload := []byte(`{"v":1}`)
	require.NoError(t, m.SaveEntry(ctx, generic.DayRecord{EntityID: "emp-1", Date: june(4), Payload: payload}))
	require.NoError(t, m.SaveEntry(ctx, generic.DayRecord{EntityID: "emp-1", Date: june(2), Payload: []byte(`{}`)}))
	require.NoError(t, m.SaveEntry(ctx, generic.DayRecord{EntityID: "emp-2", Date: june(3), Payload: []byte(`{}`)}))

	// The store keeps its own copy of the payload.
	payload[2] = 'x'
	rec, err := m.GetEntry(ctx, "emp-1", june(4))
	require.NoError(t, err)
	assert.Equal(t, `{"v":1}`, string(rec.Payload))

	recs, err := m.ListEntries(ctx, "emp-1", june(1), june(30))
	require.NoError(t, err)
	require.Len(t, recs, 2)
	assert.Equal(t, "2025-06-02", recs[0].Date.String())

	require.NoError(t, m.DeleteEntry(ctx, "emp-1", june(4)))
	assert.ErrorIs(t, m.DeleteEntry(ctx, "emp-1", june(4)), generic.ErrEntryNotFound)
	_, err = m.GetEntry(ctx, "emp-1", june(4))
	assert.ErrorIs(t, err, generic.ErrEntryNotFound)
}

func TestMemory_SettingsVersions(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	_, err := m.LatestSettings(ctx, "emp-1")
	assert.ErrorIs(t, err, generic.ErrSettingsNotFound)

	first, err := m.SaveSettings(ctx, generic.SettingsSnapshot{EntityID: "emp-1", Payload: []byte(`{"a":1}`)})
	require.NoError(t, err)
	second, err := m.SaveSettings(ctx, generic.SettingsSnapshot{EntityID: "emp-1", Payload: []byte(`{"a":2}`)})
	require.NoError(t, err)
	assert.Equal(t, 1, first.Version)
	assert.Equal(t, 2, second.Version)

	_, err = m.SaveSettings(ctx, generic.SettingsSnapshot{EntityID: "emp-1", Version: 2})
	assert.Error(t, err)

	latest, err := m.LatestSettings(ctx, "emp-1")
	require.NoError(t, err)
	assert.Equal(t, second.ID, latest.ID)

	history, err := m.SettingsHistory(ctx, "emp-1")
	require.NoError(t, err)
	assert.Len(t, history, 2)
}

func TestMemory_HolidaysAndReset(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	h, err := m.SaveHoliday(ctx, generic.Holiday{Date: generic.NewTimePoint(2024, time.June, 24), Name: "San Giovanni", Recurring: true})
	require.NoError(t, err)
	assert.NotEmpty(t, h.ID)
	assert.True(t, m.IsHoliday(june(24)))
	assert.False(t, m.IsHoliday(june(25)))

	require.NoError(t, m.SaveEntry(ctx, generic.DayRecord{EntityID: "emp-1", Date: june(2), Payload: []byte(`{}`)}))
	require.NoError(t, m.Reset(ctx))

	assert.False(t, m.IsHoliday(june(24)))
	recs, err := m.ListEntries(ctx, "emp-1", june(1), june(30))
	require.NoError(t, err)
	assert.Empty(t, recs)
}
