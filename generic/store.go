/*
store.go - Persistence interface for entries, settings and holidays

PURPOSE:
  Defines the boundary between the pure engine and whatever keeps the
  records. The engine never reads or writes a store: the api layer loads
  records, hands them to factory for parsing and validation, and passes
  typed values into the calculator.

RECORDS ARE DOCUMENTS:
  A DayRecord holds one calendar day's entry as an opaque JSON payload.
  Decoding happens in factory (the parse/validate boundary), so stores
  never interpret loosely typed fields such as interventions.

SETTINGS ARE SNAPSHOTS:
  Settings are append-only versioned snapshots. A calculation resolves one
  snapshot into an immutable value; later edits create a new version and
  can never drift a calculation already in progress.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite
  - generic/store/memory.go: In-memory for testing

SEE ALSO:
  - factory/: JSON payload schema
  - api/handlers.go: The only writer
*/
package generic

import (
	"context"
	"time"
)

// =============================================================================
// RECORDS
// =============================================================================

// DayRecord is one persisted work entry.
type DayRecord struct {
	EntityID  EntityID
	Date      TimePoint
	Payload   []byte
	UpdatedAt time.Time
}

// SettingsSnapshot is one version of a worker's settings.
type SettingsSnapshot struct {
	ID        string
	EntityID  EntityID
	Version   int
	Payload   []byte
	CreatedAt time.Time
}

// =============================================================================
// STORE INTERFACES
// =============================================================================

// EntryStore persists day records. Saving a date that exists replaces it.
type EntryStore interface {
	SaveEntry(ctx context.Context, rec DayRecord) error

	// GetEntry returns ErrEntryNotFound when the day has no record.
	GetEntry(ctx context.Context, entityID EntityID, date TimePoint) (DayRecord, error)

	// ListEntries returns records in [from, to], ordered by date.
	ListEntries(ctx context.Context, entityID EntityID, from, to TimePoint) ([]DayRecord, error)

	DeleteEntry(ctx context.Context, entityID EntityID, date TimePoint) error
}

// SettingsStore persists settings snapshots. Append-only.
type SettingsStore interface {
	// SaveSettings assigns the next version when snap.Version is zero.
	SaveSettings(ctx context.Context, snap SettingsSnapshot) (SettingsSnapshot, error)

	// LatestSettings returns ErrSettingsNotFound when nothing was saved.
	LatestSettings(ctx context.Context, entityID EntityID) (SettingsSnapshot, error)

	// SettingsHistory returns all versions, oldest first.
	SettingsHistory(ctx context.Context, entityID EntityID) ([]SettingsSnapshot, error)
}

// HolidayStore persists company holidays and serves them as a calendar.
type HolidayStore interface {
	HolidayCalendar

	// SaveHoliday assigns an ID when h.ID is empty and returns the stored holiday.
	SaveHoliday(ctx context.Context, h Holiday) (Holiday, error)
	DeleteHoliday(ctx context.Context, id string) error
	ListHolidays(ctx context.Context) ([]Holiday, error)
}

// Store bundles every persistence capability the api layer needs.
type Store interface {
	EntryStore
	SettingsStore
	HolidayStore

	// Reset clears all data (for testing/demo).
	Reset(ctx context.Context) error
}
