/*
Package sqlite provides a SQLite-backed implementation of the storage interfaces.

PURPOSE:
  Implements generic.Store (entries, settings snapshots, company holidays)
  using SQLite. The engine never touches this package: the api layer loads
  records here, decodes them through factory and calls the calculator.

INTERFACES IMPLEMENTED:
  generic.EntryStore:    One JSON document per (entity, date)
  generic.SettingsStore: Append-only versioned settings snapshots
  generic.HolidayStore:  Company holidays, also a HolidayCalendar

KEY TABLES:
  entries:            Day records, replaced on save
  settings_snapshots: Every settings edit is a new version
  holidays:           Company holidays (national ones are computed)

INDEXES:
  - entries primary key (entity_id, date): month range scans (hot path)
  - idx_settings_entity_version: latest-version lookup
  - idx_holidays_unique: one holiday per (date, name)

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. Version assignment for snapshots
  happens under the write lock, so two concurrent saves never share a
  version number.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time

USAGE:
  store, err := sqlite.New("./earnings.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - generic/store.go: Interface definitions
  - generic/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/warp/earnings-engine/generic"
)

// Store implements generic.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ generic.Store = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every pooled connection would otherwise get its own empty database.
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Work entries (one per entity and day)
	CREATE TABLE IF NOT EXISTS entries (
		entity_id TEXT NOT NULL,
		date TEXT NOT NULL,
		payload_json TEXT NOT NULL,
		updated_at TEXT NOT NULL,
		PRIMARY KEY (entity_id, date)
	);

	-- Settings snapshots (append-only)
	CREATE TABLE IF NOT EXISTS settings_snapshots (
		id TEXT PRIMARY KEY,
		entity_id TEXT NOT NULL,
		version INTEGER NOT NULL,
		payload_json TEXT NOT NULL,
		created_at TEXT NOT NULL,
		UNIQUE(entity_id, version)
	);

	CREATE INDEX IF NOT EXISTS idx_settings_entity_version
		ON settings_snapshots(entity_id, version DESC);

	-- Company holidays
	CREATE TABLE IF NOT EXISTS holidays (
		id TEXT PRIMARY KEY,
		date TEXT NOT NULL,
		name TEXT NOT NULL,
		recurring BOOLEAN DEFAULT FALSE,
		created_at TEXT NOT NULL
	);

	CREATE UNIQUE INDEX IF NOT EXISTS idx_holidays_unique
		ON holidays(date, name);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ENTRY STORE (generic.EntryStore interface)
// =============================================================================

// SaveEntry inserts or replaces the record of a day.
func (s *Store) SaveEntry(ctx context.Context, rec generic.DayRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec.UpdatedAt.IsZero() {
		rec.UpdatedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO entries (entity_id, date, payload_json, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(entity_id, date) DO UPDATE SET
			payload_json = excluded.payload_json,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query,
		rec.EntityID,
		rec.Date.Key(),
		string(rec.Payload),
		rec.UpdatedAt.Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("failed to save entry: %w", err)
	}
	return nil
}

// GetEntry returns the record of one day.
func (s *Store) GetEntry(ctx context.Context, entityID generic.EntityID, date generic.TimePoint) (generic.DayRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT entity_id, date, payload_json, updated_at
		FROM entries
		WHERE entity_id = ? AND date = ?
	`, entityID, date.Key())

	rec, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return generic.DayRecord{}, generic.ErrEntryNotFound
	}
	return rec, err
}

// ListEntries returns records in [from, to], ordered by date.
func (s *Store) ListEntries(ctx context.Context, entityID generic.EntityID, from, to generic.TimePoint) ([]generic.DayRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT entity_id, date, payload_json, updated_at
		FROM entries
		WHERE entity_id = ? AND date >= ? AND date <= ?
		ORDER BY date ASC
	`, entityID, from.Key(), to.Key())
	if err != nil {
		return nil, fmt.Errorf("failed to query entries: %w", err)
	}
	defer rows.Close()

	var records []generic.DayRecord
	for rows.Next() {
		rec, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// DeleteEntry removes the record of one day.
func (s *Store) DeleteEntry(ctx context.Context, entityID generic.EntityID, date generic.TimePoint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx, "DELETE FROM entries WHERE entity_id = ? AND date = ?", entityID, date.Key())
	if err != nil {
		return fmt.Errorf("failed to delete entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return generic.ErrEntryNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (generic.DayRecord, error) {
	var (
		rec       generic.DayRecord
		entityID  string
		dateStr   string
		payload   string
		updatedAt string
	)
	if err := row.Scan(&entityID, &dateStr, &payload, &updatedAt); err != nil {
		return generic.DayRecord{}, err
	}

	date, err := generic.ParseDate(dateStr)
	if err != nil {
		return generic.DayRecord{}, fmt.Errorf("corrupt entry date %q: %w", dateStr, err)
	}
	rec.EntityID = generic.EntityID(entityID)
	rec.Date = date
	rec.Payload = []byte(payload)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339, updatedAt)
	return rec, nil
}

// =============================================================================
// SETTINGS STORE (generic.SettingsStore interface)
// =============================================================================

// SaveSettings appends a snapshot. A zero Version gets the next one.
func (s *Store) SaveSettings(ctx context.Context, snap generic.SettingsSnapshot) (generic.SettingsSnapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if snap.Version == 0 {
		var current sql.NullInt64
		err := s.db.QueryRowContext(ctx,
			"SELECT MAX(version) FROM settings_snapshots WHERE entity_id = ?",
			snap.EntityID,
		).Scan(&current)
		if err != nil {
			return generic.SettingsSnapshot{}, fmt.Errorf("failed to read settings version: %w", err)
		}
		snap.Version = int(current.Int64) + 1
	}
	if snap.ID == "" {
		snap.ID = uuid.New().String()
	}
	if snap.CreatedAt.IsZero() {
		snap.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings_snapshots (id, entity_id, version, payload_json, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, snap.ID, snap.EntityID, snap.Version, string(snap.Payload), snap.CreatedAt.Format(time.RFC3339Nano))
	if err != nil {
		if isUniqueConstraintError(err) {
			return generic.SettingsSnapshot{}, fmt.Errorf("settings version %d already exists: %w", snap.Version, err)
		}
		return generic.SettingsSnapshot{}, fmt.Errorf("failed to save settings: %w", err)
	}
	return snap, nil
}

// LatestSettings returns the highest version.
func (s *Store) LatestSettings(ctx context.Context, entityID generic.EntityID) (generic.SettingsSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx, `
		SELECT id, entity_id, version, payload_json, created_at
		FROM settings_snapshots
		WHERE entity_id = ?
		ORDER BY version DESC
		LIMIT 1
	`, entityID)

	snap, err := scanSnapshot(row)
	if errors.Is(err, sql.ErrNoRows) {
		return generic.SettingsSnapshot{}, generic.ErrSettingsNotFound
	}
	return snap, err
}

// SettingsHistory returns all versions, oldest first.
func (s *Store) SettingsHistory(ctx context.Context, entityID generic.EntityID) ([]generic.SettingsSnapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, entity_id, version, payload_json, created_at
		FROM settings_snapshots
		WHERE entity_id = ?
		ORDER BY version ASC
	`, entityID)
	if err != nil {
		return nil, fmt.Errorf("failed to query settings: %w", err)
	}
	defer rows.Close()

	var snaps []generic.SettingsSnapshot
	for rows.Next() {
		snap, err := scanSnapshot(rows)
		if err != nil {
			return nil, err
		}
		snaps = append(snaps, snap)
	}
	return snaps, rows.Err()
}

func scanSnapshot(row scanner) (generic.SettingsSnapshot, error) {
	var (
		snap      generic.SettingsSnapshot
		entityID  string
		payload   string
		createdAt string
	)
	if err := row.Scan(&snap.ID, &entityID, &snap.Version, &payload, &createdAt); err != nil {
		return generic.SettingsSnapshot{}, err
	}
	snap.EntityID = generic.EntityID(entityID)
	snap.Payload = []byte(payload)
	snap.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	return snap, nil
}

// =============================================================================
// HOLIDAY CALENDAR IMPLEMENTATION
// =============================================================================

// SaveHoliday saves a holiday. Saving the same date and name again updates it.
func (s *Store) SaveHoliday(ctx context.Context, h generic.Holiday) (generic.Holiday, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if h.ID == "" {
		h.ID = uuid.New().String()
	}

	query := `
		INSERT INTO holidays (id, date, name, recurring, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(date, name) DO UPDATE SET
			recurring = excluded.recurring
		RETURNING id
	`

	err := s.db.QueryRowContext(ctx, query,
		h.ID,
		h.Date.Key(),
		h.Name,
		h.Recurring,
		time.Now().UTC().Format(time.RFC3339),
	).Scan(&h.ID)
	if err != nil {
		return generic.Holiday{}, fmt.Errorf("failed to save holiday: %w", err)
	}
	return h, nil
}

// DeleteHoliday deletes a holiday by ID.
func (s *Store) DeleteHoliday(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM holidays WHERE id = ?", id)
	return err
}

// ListHolidays returns all holidays (for admin UI).
func (s *Store) ListHolidays(ctx context.Context) ([]generic.Holiday, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, date, name, recurring
		FROM holidays
		ORDER BY date ASC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var holidays []generic.Holiday
	for rows.Next() {
		var h generic.Holiday
		var dateStr string
		if err := rows.Scan(&h.ID, &dateStr, &h.Name, &h.Recurring); err != nil {
			return nil, err
		}
		h.Date, _ = generic.ParseDate(dateStr)
		holidays = append(holidays, h)
	}

	return holidays, rows.Err()
}

// IsHoliday checks whether a company holiday falls on date. Errors read as
// "not a holiday"; the calendar interface has no error channel.
func (s *Store) IsHoliday(date generic.TimePoint) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT COUNT(*) FROM holidays
		WHERE (recurring = FALSE AND date = ?)
		   OR (recurring = TRUE AND strftime('%m-%d', date) = ?)
	`

	var count int
	err := s.db.QueryRow(query, date.Key(), date.Time.Format("01-02")).Scan(&count)
	if err != nil {
		return false
	}
	return count > 0
}

// =============================================================================
// UTILITIES
// =============================================================================

// Reset clears all data (for testing/demo).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	tables := []string{"entries", "settings_snapshots", "holidays"}
	for _, table := range tables {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return nil
}

func isUniqueConstraintError(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
