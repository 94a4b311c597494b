/*
errors.go - Centralized error types for the earnings engine

PURPOSE:
  All error types in one place for consistency and discoverability.
  Domain packages wrap these errors with additional context.

ERROR CATEGORIES:
  1. Configuration errors - Unknown policy/method strings (fatal by contract)
  2. Input errors - Malformed entries, bad periods, duplicate days
  3. Store errors - Missing records

LENIENCY:
  Missing or malformed time fields are NOT errors: they parse to "absent"
  and the segment is skipped. Only configuration that would silently change
  pay (an unknown enum value) fails loudly.

USAGE:
  if errors.Is(err, generic.ErrInvalidConfig) {
      // reject the settings, keep the previous snapshot
  }
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrInvalidConfig is returned when settings carry an unrecognised enum value.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidEntry is returned at the parse boundary for a malformed entry.
	ErrInvalidEntry = errors.New("invalid work entry")

	// ErrInvalidPeriod is returned when a period is malformed (end before start).
	ErrInvalidPeriod = errors.New("invalid period: end before start")

	// ErrDuplicateEntry is returned when two entries share a date in one calculation.
	ErrDuplicateEntry = errors.New("duplicate entry for date")

	// ErrEntryNotFound is returned when no entry exists for a date.
	ErrEntryNotFound = errors.New("entry not found")

	// ErrSettingsNotFound is returned when no settings snapshot has been stored.
	ErrSettingsNotFound = errors.New("settings not found")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// ConfigError names the setting and the value that could not be resolved.
type ConfigError struct {
	Field string
	Value string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s=%q", e.Field, e.Value)
}

func (e *ConfigError) Unwrap() error {
	return ErrInvalidConfig
}

// EntryError points at the offending field of an entry.
type EntryError struct {
	Date   string
	Field  string
	Reason string
}

func (e *EntryError) Error() string {
	return fmt.Sprintf("invalid entry %s: %s: %s", e.Date, e.Field, e.Reason)
}

func (e *EntryError) Unwrap() error {
	return ErrInvalidEntry
}

// DuplicateEntryError reports the date seen twice.
type DuplicateEntryError struct {
	Date TimePoint
}

func (e *DuplicateEntryError) Error() string {
	return fmt.Sprintf("duplicate entry for %s", e.Date)
}

func (e *DuplicateEntryError) Unwrap() error {
	return ErrDuplicateEntry
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError returns true if the error is due to invalid client input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidConfig) ||
		errors.Is(err, ErrInvalidEntry) ||
		errors.Is(err, ErrInvalidPeriod) ||
		errors.Is(err, ErrDuplicateEntry)
}

// IsNotFound returns true if the error indicates a missing resource.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrEntryNotFound) ||
		errors.Is(err, ErrSettingsNotFound)
}
