/*
handlers.go - HTTP API handlers for the earnings engine

PURPOSE:
  Exposes the earnings engine via REST API. Handles HTTP request/response,
  JSON serialization, and delegates to the pure calculator.

ENDPOINTS:
  Settings:
    GET    /api/settings                 Latest settings (defaults when none saved)
    PUT    /api/settings                 Save a new settings version

  Entries:
    GET    /api/entries?from=&to=        Entries in a date range (default: this month)
    GET    /api/entries/{date}           One entry with its breakdown
    PUT    /api/entries/{date}           Create or replace an entry
    DELETE /api/entries/{date}           Delete an entry
    GET    /api/entries/{date}/breakdown Earnings of one stored day

  Calculation:
    POST   /api/calculate/day            Price an entry without storing it
    POST   /api/calculate/month          Summarize entries without storing them
    GET    /api/summary/{year}/{month}   Summary of stored entries
    POST   /api/net                      Net-from-gross estimate

  Holidays:
    GET    /api/holidays?year=           Company holidays (plus national ones for a year)
    POST   /api/holidays                 Add a company holiday
    DELETE /api/holidays/{id}            Remove a company holiday

ARCHITECTURE:
  Handler struct holds all dependencies:
  - Store: entries, settings snapshots, holidays
  - SettingsFactory / EntryFactory: the parse and validate boundary
  Every calculation resolves one settings snapshot and one holiday list
  into an earnings.Calculator value, so a concurrent settings edit cannot
  change a calculation that has already started.

ERROR HANDLING:
  Errors are returned as JSON with appropriate HTTP status:
  - 400: Validation errors, invalid input
  - 404: Resource not found
  - 500: Internal errors

SECURITY NOTE:
  Currently NO authentication or authorization. All endpoints are public.

SEE ALSO:
  - dto.go: Request/response data structures
  - scenarios.go: Demo scenario loaders
  - server.go: Router setup and middleware
*/
package api

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	json "github.com/goccy/go-json"
	"github.com/warp/earnings-engine/earnings"
	"github.com/warp/earnings-engine/factory"
	"github.com/warp/earnings-engine/generic"
)

// maxBodyBytes caps request bodies. A month of entries is well below it.
const maxBodyBytes = 1 << 20

// =============================================================================
// HANDLER CONTEXT
// =============================================================================

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store           generic.Store
	EntityID        generic.EntityID
	SettingsFactory *factory.SettingsFactory
	Logger          *slog.Logger

	// Now returns the current day; tests pin it.
	Now func() time.Time

	mu              sync.RWMutex
	currentScenario string
}

// NewHandler creates a new handler for one worker's records.
func NewHandler(store generic.Store, entityID generic.EntityID, logger *slog.Logger) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		Store:           store,
		EntityID:        entityID,
		SettingsFactory: factory.NewSettingsFactory(),
		Logger:          logger,
		Now:             time.Now,
	}
}

// SeedSettings stores doc as the first settings version when none exists.
// It reports whether a version was written.
func (h *Handler) SeedSettings(ctx context.Context, doc []byte) (bool, error) {
	_, err := h.Store.LatestSettings(ctx, h.EntityID)
	if err == nil {
		return false, nil
	}
	if !errors.Is(err, generic.ErrSettingsNotFound) {
		return false, err
	}
	if _, err := h.saveSettings(ctx, doc); err != nil {
		return false, err
	}
	return true, nil
}

// =============================================================================
// SETTINGS HANDLERS
// =============================================================================

// GetSettings returns the latest settings document and its resolved values.
// GET /api/settings
func (h *Handler) GetSettings(w http.ResponseWriter, r *http.Request) {
	settings, version, err := h.latestSettings(r.Context())
	if err != nil {
		h.fail(w, "Failed to load settings", err)
		return
	}
	resolved, err := settings.Resolve()
	if err != nil {
		h.fail(w, "Stored settings are invalid", err)
		return
	}

	writeJSON(w, http.StatusOK, SettingsResponse{
		Version:  version,
		Settings: h.SettingsFactory.ToJSON(settings),
		Resolved: toResolvedSettingsDTO(resolved),
	})
}

// PutSettings validates and stores a new settings version.
// PUT /api/settings
func (h *Handler) PutSettings(w http.ResponseWriter, r *http.Request) {
	body, err := readBody(w, r)
	if err != nil {
		writeBodyError(w, err)
		return
	}

	snap, err := h.saveSettings(r.Context(), body)
	if errors.Is(err, errStore) {
		h.fail(w, "Failed to save settings", err)
		return
	}
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid settings", err)
		return
	}

	settings, err := h.SettingsFactory.ParseSettings(snap.Payload)
	if err != nil {
		h.fail(w, "Failed to read back settings", err)
		return
	}
	resolved, _ := settings.Resolve()

	h.Logger.Info("settings saved", slog.String("entity_id", string(h.EntityID)), slog.Int("version", snap.Version))
	writeJSON(w, http.StatusOK, SettingsResponse{
		Version:  snap.Version,
		Settings: h.SettingsFactory.ToJSON(settings),
		Resolved: toResolvedSettingsDTO(resolved),
	})
}

// errStore marks failures of the store rather than of the document.
var errStore = errors.New("store")

// saveSettings parses doc, stores its canonical form and returns the snapshot.
func (h *Handler) saveSettings(ctx context.Context, doc []byte) (generic.SettingsSnapshot, error) {
	settings, err := h.SettingsFactory.ParseSettings(doc)
	if err != nil {
		return generic.SettingsSnapshot{}, err
	}
	payload, err := h.SettingsFactory.MarshalSettings(settings)
	if err != nil {
		return generic.SettingsSnapshot{}, err
	}
	snap, err := h.Store.SaveSettings(ctx, generic.SettingsSnapshot{EntityID: h.EntityID, Payload: payload})
	if err != nil {
		return generic.SettingsSnapshot{}, fmt.Errorf("%w: %w", errStore, err)
	}
	return snap, nil
}

// latestSettings returns the stored settings, or empty settings (all
// defaults) with version 0 when nothing was saved.
func (h *Handler) latestSettings(ctx context.Context) (earnings.Settings, int, error) {
	snap, err := h.Store.LatestSettings(ctx, h.EntityID)
	if errors.Is(err, generic.ErrSettingsNotFound) {
		return earnings.Settings{}, 0, nil
	}
	if err != nil {
		return earnings.Settings{}, 0, err
	}
	settings, err := h.SettingsFactory.ParseSettings(snap.Payload)
	if err != nil {
		return earnings.Settings{}, 0, err
	}
	return settings, snap.Version, nil
}

// =============================================================================
// CALCULATION CONTEXT
// =============================================================================

// engine bundles the calculator with the entry factories bound to it.
type engine struct {
	calc    earnings.Calculator
	strict  *factory.EntryFactory
	lenient *factory.EntryFactory
}

// newEngine resolves settings and the holiday calendar once. override, when
// non-empty, replaces the stored settings.
func (h *Handler) newEngine(ctx context.Context, override []byte) (engine, error) {
	var resolved earnings.ResolvedSettings
	if len(override) > 0 && string(override) != "null" {
		r, err := h.SettingsFactory.LoadSettings(override)
		if err != nil {
			if !generic.IsClientError(err) {
				err = fmt.Errorf("%w: settings: %v", generic.ErrInvalidConfig, err)
			}
			return engine{}, err
		}
		resolved = r
	} else {
		settings, _, err := h.latestSettings(ctx)
		if err != nil {
			return engine{}, err
		}
		if resolved, err = settings.Resolve(); err != nil {
			return engine{}, err
		}
	}

	holidays, err := h.Store.ListHolidays(ctx)
	if err != nil {
		return engine{}, err
	}
	cal := generic.CombinedCalendar{generic.ItalianCalendar{}, generic.HolidayList(holidays)}

	strict := factory.NewEntryFactory(true)
	strict.FixedEarnings = resolved.DailyRate
	lenient := factory.NewEntryFactory(false)
	lenient.FixedEarnings = resolved.DailyRate

	return engine{
		calc:    earnings.NewCalculator(resolved, cal),
		strict:  strict,
		lenient: lenient,
	}, nil
}

// storedEntries loads and leniently parses the stored entries of a period.
func (h *Handler) storedEntries(ctx context.Context, e engine, period generic.Period) ([]earnings.WorkEntry, error) {
	recs, err := h.Store.ListEntries(ctx, h.EntityID, period.Start, period.End)
	if err != nil {
		return nil, err
	}
	entries := make([]earnings.WorkEntry, 0, len(recs))
	for _, rec := range recs {
		entry, err := e.lenient.ParseEntry(rec.Payload)
		if err != nil {
			h.Logger.Warn("skipping unreadable entry",
				slog.String("date", rec.Date.String()),
				slog.String("error", err.Error()))
			continue
		}
		entries = append(entries, entry)
	}
	return entries, nil
}

// =============================================================================
// ENTRY HANDLERS
// =============================================================================

// ListEntries returns stored entries in [from, to].
// GET /api/entries?from=2025-06-01&to=2025-06-30
func (h *Handler) ListEntries(w http.ResponseWriter, r *http.Request) {
	period, err := h.queryPeriod(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid period", err)
		return
	}

	e, err := h.newEngine(r.Context(), nil)
	if err != nil {
		h.fail(w, "Failed to load settings", err)
		return
	}
	entries, err := h.storedEntries(r.Context(), e, period)
	if err != nil {
		h.fail(w, "Failed to list entries", err)
		return
	}

	dtos := make([]factory.EntryJSON, 0, len(entries))
	for _, entry := range entries {
		dtos = append(dtos, e.lenient.ToJSON(entry))
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"period":  PeriodDTO{From: period.Start.String(), To: period.End.String()},
		"entries": dtos,
	})
}

// GetEntry returns one stored entry with its breakdown.
// GET /api/entries/{date}
func (h *Handler) GetEntry(w http.ResponseWriter, r *http.Request) {
	h.entryResponse(w, r, true)
}

// GetEntryBreakdown returns only the breakdown of one stored day.
// GET /api/entries/{date}/breakdown
func (h *Handler) GetEntryBreakdown(w http.ResponseWriter, r *http.Request) {
	h.entryResponse(w, r, false)
}

func (h *Handler) entryResponse(w http.ResponseWriter, r *http.Request, withEntry bool) {
	date, err := pathDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}

	ctx := r.Context()
	rec, err := h.Store.GetEntry(ctx, h.EntityID, date)
	if err != nil {
		h.fail(w, "Failed to get entry", err)
		return
	}
	e, err := h.newEngine(ctx, nil)
	if err != nil {
		h.fail(w, "Failed to load settings", err)
		return
	}
	entry, err := e.lenient.ParseEntry(rec.Payload)
	if err != nil {
		h.fail(w, "Stored entry is unreadable", err)
		return
	}
	day, err := e.calc.Day(entry)
	if err != nil {
		h.fail(w, "Failed to calculate earnings", err)
		return
	}

	dto := toBreakdownDTO(day)
	if !withEntry {
		writeJSON(w, http.StatusOK, dto)
		return
	}
	writeJSON(w, http.StatusOK, EntryResponse{Entry: e.lenient.ToJSON(entry), Breakdown: &dto})
}

// PutEntry validates and stores the entry of one day, replacing any
// previous one.
// PUT /api/entries/{date}
func (h *Handler) PutEntry(w http.ResponseWriter, r *http.Request) {
	date, err := pathDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}
	body, err := readBody(w, r)
	if err != nil {
		writeBodyError(w, err)
		return
	}

	var ej factory.EntryJSON
	if err := json.Unmarshal(body, &ej); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if ej.Date != "" && ej.Date != date.String() {
		writeError(w, http.StatusBadRequest, "Entry date does not match the URL",
			&generic.EntryError{Date: ej.Date, Field: "date", Reason: "must equal " + date.String()})
		return
	}
	ej.Date = date.String()

	ctx := r.Context()
	e, err := h.newEngine(ctx, nil)
	if err != nil {
		h.fail(w, "Failed to load settings", err)
		return
	}
	entry, err := e.strict.FromJSON(ej)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid entry", err)
		return
	}
	day, err := e.calc.Day(entry)
	if err != nil {
		h.fail(w, "Failed to calculate earnings", err)
		return
	}

	payload, err := e.strict.MarshalEntry(entry)
	if err != nil {
		h.fail(w, "Failed to encode entry", err)
		return
	}
	if err := h.Store.SaveEntry(ctx, generic.DayRecord{EntityID: h.EntityID, Date: date, Payload: payload}); err != nil {
		h.fail(w, "Failed to save entry", err)
		return
	}

	dto := toBreakdownDTO(day)
	writeJSON(w, http.StatusOK, EntryResponse{Entry: e.strict.ToJSON(entry), Breakdown: &dto})
}

// DeleteEntry removes the entry of one day.
// DELETE /api/entries/{date}
func (h *Handler) DeleteEntry(w http.ResponseWriter, r *http.Request) {
	date, err := pathDate(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date", err)
		return
	}
	if err := h.Store.DeleteEntry(r.Context(), h.EntityID, date); err != nil {
		h.fail(w, "Failed to delete entry", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "deleted", "date": date.String()})
}

// =============================================================================
// CALCULATION HANDLERS
// =============================================================================

// CalculateDay prices one entry without storing it.
// POST /api/calculate/day
func (h *Handler) CalculateDay(w http.ResponseWriter, r *http.Request) {
	var req CalculateDayRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeBodyError(w, err)
		return
	}
	if len(req.Entry) == 0 {
		writeError(w, http.StatusBadRequest, "entry is required", nil)
		return
	}

	e, err := h.newEngine(r.Context(), req.Settings)
	if err != nil {
		h.fail(w, "Failed to resolve settings", err)
		return
	}
	entry, err := e.strict.ParseEntry(req.Entry)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid entry", err)
		return
	}
	day, err := e.calc.Day(entry)
	if err != nil {
		h.fail(w, "Failed to calculate earnings", err)
		return
	}
	writeJSON(w, http.StatusOK, toBreakdownDTO(day))
}

// GetSummary summarizes the stored entries of a month.
// GET /api/summary/{year}/{month}
func (h *Handler) GetSummary(w http.ResponseWriter, r *http.Request) {
	period, err := monthPeriod(chi.URLParam(r, "year"), chi.URLParam(r, "month"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month", err)
		return
	}

	ctx := r.Context()
	e, err := h.newEngine(ctx, nil)
	if err != nil {
		h.fail(w, "Failed to load settings", err)
		return
	}
	entries, err := h.storedEntries(ctx, e, period)
	if err != nil {
		h.fail(w, "Failed to list entries", err)
		return
	}

	summary, err := e.calc.Summarize(ctx, period, entries)
	if err != nil {
		h.fail(w, "Failed to summarize", err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(summary))
}

// CalculateMonth summarizes the entries in the body without storing them.
// POST /api/calculate/month
func (h *Handler) CalculateMonth(w http.ResponseWriter, r *http.Request) {
	var req CalculateMonthRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeBodyError(w, err)
		return
	}
	period, err := monthPeriod(strconv.Itoa(req.Year), strconv.Itoa(req.Month))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month", err)
		return
	}

	ctx := r.Context()
	e, err := h.newEngine(ctx, req.Settings)
	if err != nil {
		h.fail(w, "Failed to resolve settings", err)
		return
	}

	entries := make([]earnings.WorkEntry, 0, len(req.Entries))
	for i, raw := range req.Entries {
		entry, err := e.strict.ParseEntry(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid entry at index %d", i), err)
			return
		}
		entries = append(entries, entry)
	}

	summary, err := e.calc.Summarize(ctx, period, entries)
	if err != nil {
		h.fail(w, "Failed to summarize", err)
		return
	}
	writeJSON(w, http.StatusOK, toSummaryDTO(summary))
}

// EstimateNet returns a net-from-gross estimate.
// POST /api/net
func (h *Handler) EstimateNet(w http.ResponseWriter, r *http.Request) {
	var req NetRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeBodyError(w, err)
		return
	}
	if req.Gross.IsNegative() {
		writeError(w, http.StatusBadRequest, "gross must not be negative", nil)
		return
	}

	e, err := h.newEngine(r.Context(), req.Settings)
	if err != nil {
		h.fail(w, "Failed to resolve settings", err)
		return
	}
	est := earnings.NetEstimator{Config: e.calc.Settings.Net}
	writeJSON(w, http.StatusOK, toNetDTO(est.Estimate(req.Gross)))
}

// =============================================================================
// HOLIDAY HANDLERS
// =============================================================================

// ListHolidays returns company holidays. With ?year= the national holidays
// of that year are listed too.
// GET /api/holidays
func (h *Handler) ListHolidays(w http.ResponseWriter, r *http.Request) {
	holidays, err := h.Store.ListHolidays(r.Context())
	if err != nil {
		h.fail(w, "Failed to get holidays", err)
		return
	}

	dtos := make([]HolidayDTO, 0, len(holidays))
	if y := r.URL.Query().Get("year"); y != "" {
		year, err := strconv.Atoi(y)
		if err != nil || year < 1583 {
			writeError(w, http.StatusBadRequest, "Invalid year", err)
			return
		}
		for _, hol := range (generic.ItalianCalendar{}).Holidays(year) {
			dtos = append(dtos, toHolidayDTO(hol, "national"))
		}
	}
	for _, hol := range holidays {
		dtos = append(dtos, toHolidayDTO(hol, "company"))
	}

	writeJSON(w, http.StatusOK, map[string]any{"holidays": dtos})
}

// CreateHoliday stores a company holiday.
// POST /api/holidays
func (h *Handler) CreateHoliday(w http.ResponseWriter, r *http.Request) {
	var req CreateHolidayRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeBodyError(w, err)
		return
	}
	if req.Date == "" || strings.TrimSpace(req.Name) == "" {
		writeError(w, http.StatusBadRequest, "Date and name are required", nil)
		return
	}
	date, err := generic.ParseDate(req.Date)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid date format (use YYYY-MM-DD)", err)
		return
	}

	saved, err := h.Store.SaveHoliday(r.Context(), generic.Holiday{
		Date:      date,
		Name:      strings.TrimSpace(req.Name),
		Recurring: req.Recurring,
	})
	if err != nil {
		h.fail(w, "Failed to create holiday", err)
		return
	}

	writeJSON(w, http.StatusCreated, toHolidayDTO(saved, "company"))
}

// DeleteHoliday removes a company holiday.
// DELETE /api/holidays/{id}
func (h *Handler) DeleteHoliday(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := h.Store.DeleteHoliday(r.Context(), id); err != nil {
		h.fail(w, "Failed to delete holiday", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"status": "deleted"})
}

// =============================================================================
// HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}

// fail maps err to a status: client errors 400, missing records 404,
// everything else 500 (logged).
func (h *Handler) fail(w http.ResponseWriter, message string, err error) {
	switch {
	case generic.IsClientError(err):
		writeError(w, http.StatusBadRequest, message, err)
	case generic.IsNotFound(err):
		writeError(w, http.StatusNotFound, message, err)
	default:
		h.Logger.Error(message, slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, message, err)
	}
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	return io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := readBody(w, r)
	if err != nil {
		return err
	}
	return json.Unmarshal(body, v)
}

// writeBodyError answers 413 for an oversized body and 400 otherwise.
func writeBodyError(w http.ResponseWriter, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		writeError(w, http.StatusRequestEntityTooLarge, "Request body too large", err)
		return
	}
	writeError(w, http.StatusBadRequest, "Invalid request body", err)
}

func pathDate(r *http.Request) (generic.TimePoint, error) {
	raw := chi.URLParam(r, "date")
	date, err := generic.ParseDate(raw)
	if err != nil {
		return generic.TimePoint{}, &generic.EntryError{Date: raw, Field: "date", Reason: "expected YYYY-MM-DD"}
	}
	return date, nil
}

func monthPeriod(year, month string) (generic.Period, error) {
	y, err := strconv.Atoi(year)
	if err != nil || y < 1 {
		return generic.Period{}, fmt.Errorf("%w: year %q", generic.ErrInvalidPeriod, year)
	}
	m, err := strconv.Atoi(month)
	if err != nil || m < 1 || m > 12 {
		return generic.Period{}, fmt.Errorf("%w: month %q", generic.ErrInvalidPeriod, month)
	}
	return generic.MonthPeriod(y, time.Month(m)), nil
}

// queryPeriod reads ?from=&to=. A missing bound defaults to the current
// month's first or last day.
func (h *Handler) queryPeriod(r *http.Request) (generic.Period, error) {
	now := h.Now()
	period := generic.MonthPeriod(now.Year(), now.Month())

	q := r.URL.Query()
	if from := q.Get("from"); from != "" {
		d, err := generic.ParseDate(from)
		if err != nil {
			return generic.Period{}, fmt.Errorf("%w: from %q", generic.ErrInvalidPeriod, from)
		}
		period.Start = d
	}
	if to := q.Get("to"); to != "" {
		d, err := generic.ParseDate(to)
		if err != nil {
			return generic.Period{}, fmt.Errorf("%w: to %q", generic.ErrInvalidPeriod, to)
		}
		period.End = d
	}
	return period, period.Validate()
}
