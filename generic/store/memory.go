// Package store provides Store implementations.
package store

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/warp/earnings-engine/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu       sync.RWMutex
	entries  map[key]generic.DayRecord
	settings map[generic.EntityID][]generic.SettingsSnapshot
	holidays map[string]generic.Holiday
}

type key struct {
	EntityID generic.EntityID
	Date     string
}

var _ generic.Store = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{
		entries:  make(map[key]generic.DayRecord),
		settings: make(map[generic.EntityID][]generic.SettingsSnapshot),
		holidays: make(map[string]generic.Holiday),
	}
}

// =============================================================================
// ENTRIES
// =============================================================================

func (m *Memory) SaveEntry(_ context.Context, rec generic.DayRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}
	rec.Payload = append([]byte(nil), rec.Payload...)
	m.entries[key{EntityID: rec.EntityID, Date: rec.Date.Key()}] = rec
	return nil
}

func (m *Memory) GetEntry(_ context.Context, entityID generic.EntityID, date generic.TimePoint) (generic.DayRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	rec, ok := m.entries[key{EntityID: entityID, Date: date.Key()}]
	if !ok {
		return generic.DayRecord{}, generic.ErrEntryNotFound
	}
	return rec, nil
}

func (m *Memory) ListEntries(_ context.Context, entityID generic.EntityID, from, to generic.TimePoint) ([]generic.DayRecord, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	period := generic.Period{Start: from, End: to}
	var result []generic.DayRecord
	for k, rec := range m.entries {
		if k.EntityID == entityID && period.Contains(rec.Date) {
			result = append(result, rec)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (m *Memory) DeleteEntry(_ context.Context, entityID generic.EntityID, date generic.TimePoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	k := key{EntityID: entityID, Date: date.Key()}
	if _, ok := m.entries[k]; !ok {
		return generic.ErrEntryNotFound
	}
	delete(m.entries, k)
	return nil
}

// =============================================================================
// SETTINGS SNAPSHOTS
// =============================================================================

func (m *Memory) SaveSettings(_ context.Context, snap generic.SettingsSnapshot) (generic.SettingsSnapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	history := m.settings[snap.EntityID]
	if snap.Version == 0 {
		snap.Version = len(history) + 1
	}
	for _, prev := range history {
		if prev.Version == snap.Version {
			return generic.SettingsSnapshot{}, fmt.Errorf("settings version %d for %s already exists", snap.Version, snap.EntityID)
		}
	}
	if snap.ID == "" {
		snap.ID = uuid.New().String()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}
	snap.Payload = append([]byte(nil), snap.Payload...)
	m.settings[snap.EntityID] = append(history, snap)
	return snap, nil
}

func (m *Memory) LatestSettings(_ context.Context, entityID generic.EntityID) (generic.SettingsSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	history := m.settings[entityID]
	if len(history) == 0 {
		return generic.SettingsSnapshot{}, generic.ErrSettingsNotFound
	}
	return history[len(history)-1], nil
}

func (m *Memory) SettingsHistory(_ context.Context, entityID generic.EntityID) ([]generic.SettingsSnapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]generic.SettingsSnapshot, len(m.settings[entityID]))
	copy(result, m.settings[entityID])
	return result, nil
}

// =============================================================================
// HOLIDAYS
// =============================================================================

func (m *Memory) SaveHoliday(_ context.Context, h generic.Holiday) (generic.Holiday, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if h.ID == "" {
		h.ID = uuid.New().String()
	}
	m.holidays[h.ID] = h
	return h, nil
}

func (m *Memory) DeleteHoliday(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.holidays, id)
	return nil
}

func (m *Memory) ListHolidays(_ context.Context) ([]generic.Holiday, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	result := make([]generic.Holiday, 0, len(m.holidays))
	for _, h := range m.holidays {
		result = append(result, h)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].Date.Before(result[j].Date) })
	return result, nil
}

func (m *Memory) IsHoliday(date generic.TimePoint) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, h := range m.holidays {
		if h.Matches(date) {
			return true
		}
	}
	return false
}

// Reset clears all data.
func (m *Memory) Reset(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.entries = make(map[key]generic.DayRecord)
	m.settings = make(map[generic.EntityID][]generic.SettingsSnapshot)
	m.holidays = make(map[string]generic.Holiday)
	return nil
}
