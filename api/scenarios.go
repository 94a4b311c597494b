/*
scenarios.go - Demo scenario loaders for testing and demonstrations

PURPOSE:

	Provides pre-built scenarios that populate the database with a realistic
	month of entries for demos. Each scenario stores one settings version,
	optional company holidays and the entries of June 2025.

AVAILABLE SCENARIOS:

	standard-month:  8h weekdays with site travel and lunch vouchers
	overtime:        Long days running into the evening and night bands
	standby-week:    Standby calendar with night and weekend interventions
	travel-ccnl:     Proportional CCNL travel allowance with split shifts
	absences:        Vacation, sick leave and permit days around normal work

HOW SCENARIOS WORK:
 1. Reset database (clear all data)
 2. Save the scenario settings document
 3. Save company holidays, if any
 4. Save each entry through the strict entry factory

USAGE VIA API:

	POST /api/scenarios/load
	{"scenario_id": "standby-week"}
	GET  /api/summary/2025/6

NOTE:

	Scenarios reset the database. Only use in development/demo environments.

SEE ALSO:
  - handlers.go: Settings and entry endpoints the scenarios feed
  - factory/: Settings and entry document schemas
*/
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/warp/earnings-engine/factory"
	"github.com/warp/earnings-engine/generic"
)

// ScenarioMonth is the month every scenario fills.
var ScenarioMonth = generic.MonthPeriod(2025, time.June)

// =============================================================================
// SCENARIO DEFINITIONS
// =============================================================================

type scenario struct {
	ScenarioDTO
	settings string
	holidays []generic.Holiday
	entries  func() []factory.EntryJSON
}

var scenarios = []scenario{
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "standard-month",
			Name:        "Standard Month",
			Description: "8h weekdays with 30 minutes of site travel each way and lunch vouchers",
		},
		settings: `{
			"contract": {"hourly_rate": 16.41},
			"travel_allowance": {"enabled": true, "daily_amount": 15.00, "policy": "WITH_TRAVEL"},
			"meal_allowances": {"lunch": {"voucher_amount": 8.00}}
		}`,
		entries: func() []factory.EntryJSON {
			var out []factory.EntryJSON
			for _, d := range weekdays(ScenarioMonth) {
				e := siteDay(d, "07:30", "08:00", "08:00", "12:00", "13:00", "17:00")
				e.MealLunchVoucher = true
				e.TravelAllowance = true
				out = append(out, e)
			}
			return out
		},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "overtime",
			Name:        "Overtime",
			Description: "Ten-hour days into the evening band and one Saturday night job",
		},
		settings: `{
			"contract": {"hourly_rate": 16.41, "overtime_rates": {"evening_overtime": 1.30}},
			"meal_allowances": {"lunch": {"voucher_amount": 8.00}, "dinner": {"voucher_amount": 8.00}}
		}`,
		entries: func() []factory.EntryJSON {
			var out []factory.EntryJSON
			for i, d := range weekdays(ScenarioMonth) {
				e := factory.EntryJSON{Date: d.String()}
				e.WorkStart1, e.WorkEnd1 = "08:00", "12:00"
				e.WorkStart2, e.WorkEnd2 = "13:00", "19:00"
				e.MealLunchVoucher = true
				if i%3 == 0 {
					e.WorkEnd2 = "21:30"
					e.MealDinnerVoucher = true
				}
				out = append(out, e)
			}
			saturday := factory.EntryJSON{Date: "2025-06-14"}
			saturday.WorkStart1, saturday.WorkEnd1 = "21:00", "02:00"
			return append(out, saturday)
		},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "standby-week",
			Name:        "Standby Week",
			Description: "Standby from 9 to 15 June with night and weekend interventions",
		},
		settings: `{
			"contract": {"hourly_rate": 16.41},
			"standby": {
				"enabled": true,
				"indemnity_type": "24h",
				"saturday_as_rest": false,
				"standby_days": ["2025-06-09", "2025-06-10", "2025-06-11", "2025-06-12", "2025-06-13", "2025-06-14", "2025-06-15"]
			}
		}`,
		entries: func() []factory.EntryJSON {
			var out []factory.EntryJSON
			for _, d := range weekdays(ScenarioMonth) {
				out = append(out, siteDay(d, "", "", "08:00", "12:00", "13:00", "17:00"))
			}
			out = withInterventions(out, "2025-06-10", intervention("22:00", "22:30", "22:30", "23:45", "23:45", "00:15"))
			out = append(out,
				factory.EntryJSON{Date: "2025-06-14", Interventions: factory.ShiftList{intervention("09:00", "09:40", "09:40", "12:00", "12:00", "12:40")}},
				factory.EntryJSON{Date: "2025-06-15"},
			)
			return out
		},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "travel-ccnl",
			Name:        "CCNL Travel",
			Description: "Proportional travel allowance with split shifts and internal transfers",
		},
		settings: `{
			"contract": {"hourly_rate": 16.41},
			"travel_allowance": {
				"enabled": true,
				"daily_amount": 46.48,
				"policy": "PROPORTIONAL_CCNL",
				"multi_shift_travel": true
			}
		}`,
		entries: func() []factory.EntryJSON {
			var out []factory.EntryJSON
			for i, d := range weekdays(ScenarioMonth) {
				e := siteDay(d, "07:00", "08:00", "08:00", "12:00", "", "")
				e.DepartureReturn, e.ArrivalCompany = "12:00", "12:30"
				e.AdditionalShifts = factory.ShiftList{{
					DepartureCompany: "13:30", ArrivalSite: "14:00",
					WorkStart1: "14:00", WorkEnd1: "16:00",
					DepartureReturn: "16:00", ArrivalCompany: "17:00",
				}}
				e.TravelAllowance = true
				if i%5 == 4 {
					half := generic.MustParseDecimal("0.5")
					e.TravelAllowancePercent = &half
				}
				out = append(out, e)
			}
			return out
		},
	},
	{
		ScenarioDTO: ScenarioDTO{
			ID:          "absences",
			Name:        "Absences",
			Description: "Vacation week, two sick days, a permit and a company holiday",
		},
		settings: `{"contract": {"hourly_rate": 16.41, "daily_rate": 109.19}}`,
		holidays: []generic.Holiday{
			{Date: generic.NewTimePoint(2025, time.June, 24), Name: "San Giovanni", Recurring: true},
		},
		entries: func() []factory.EntryJSON {
			fixed := map[string]string{
				"2025-06-16": "ferie", "2025-06-17": "ferie", "2025-06-18": "ferie",
				"2025-06-19": "ferie", "2025-06-20": "ferie",
				"2025-06-05": "malattia", "2025-06-06": "malattia",
				"2025-06-27": "permesso",
			}
			var out []factory.EntryJSON
			for _, d := range weekdays(ScenarioMonth) {
				if t, ok := fixed[d.String()]; ok {
					out = append(out, factory.EntryJSON{Date: d.String(), FixedDayType: t})
					continue
				}
				out = append(out, siteDay(d, "", "", "08:00", "12:00", "13:00", "17:00"))
			}
			return out
		},
	},
}

// ListScenarios returns available scenarios.
func (h *Handler) ListScenarios(w http.ResponseWriter, r *http.Request) {
	dtos := make([]ScenarioDTO, len(scenarios))
	for i, s := range scenarios {
		dtos[i] = s.ScenarioDTO
	}
	writeJSON(w, http.StatusOK, dtos)
}

// GetCurrentScenario returns the currently loaded scenario, if any.
func (h *Handler) GetCurrentScenario(w http.ResponseWriter, r *http.Request) {
	h.mu.RLock()
	current := h.currentScenario
	h.mu.RUnlock()

	if s, ok := findScenario(current); ok {
		writeJSON(w, http.StatusOK, s.ScenarioDTO)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

// LoadScenario loads a predefined scenario.
func (h *Handler) LoadScenario(w http.ResponseWriter, r *http.Request) {
	var req LoadScenarioRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeBodyError(w, err)
		return
	}
	s, ok := findScenario(req.ScenarioID)
	if !ok {
		writeError(w, http.StatusBadRequest, "Unknown scenario", nil)
		return
	}

	n, err := h.loadScenario(r.Context(), s)
	if err != nil {
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load scenario: %v", err), err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"status": "loaded", "scenario": s.ID, "entries": n})
}

// ResetDatabase clears all data.
func (h *Handler) ResetDatabase(w http.ResponseWriter, r *http.Request) {
	if err := h.Store.Reset(r.Context()); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to reset database", err)
		return
	}
	h.mu.Lock()
	h.currentScenario = ""
	h.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// =============================================================================
// SCENARIO LOADER
// =============================================================================

// loadScenario resets the store and writes the scenario. It returns the
// number of entries stored.
func (h *Handler) loadScenario(ctx context.Context, s scenario) (int, error) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if err := h.Store.Reset(ctx); err != nil {
		return 0, fmt.Errorf("reset: %w", err)
	}
	h.currentScenario = ""

	if _, err := h.saveSettings(ctx, []byte(s.settings)); err != nil {
		return 0, fmt.Errorf("settings: %w", err)
	}
	for _, hol := range s.holidays {
		if _, err := h.Store.SaveHoliday(ctx, hol); err != nil {
			return 0, fmt.Errorf("holiday %s: %w", hol.Date, err)
		}
	}

	e, err := h.newEngine(ctx, nil)
	if err != nil {
		return 0, err
	}
	entries := s.entries()
	for _, ej := range entries {
		entry, err := e.strict.FromJSON(ej)
		if err != nil {
			return 0, fmt.Errorf("entry %s: %w", ej.Date, err)
		}
		payload, err := e.strict.MarshalEntry(entry)
		if err != nil {
			return 0, err
		}
		rec := generic.DayRecord{EntityID: h.EntityID, Date: entry.Date, Payload: payload}
		if err := h.Store.SaveEntry(ctx, rec); err != nil {
			return 0, fmt.Errorf("entry %s: %w", ej.Date, err)
		}
	}

	h.currentScenario = s.ID
	h.Logger.Info("scenario loaded", "scenario", s.ID, "entries", len(entries))
	return len(entries), nil
}

func findScenario(id string) (scenario, bool) {
	for _, s := range scenarios {
		if s.ID == id {
			return s, true
		}
	}
	return scenario{}, false
}

// LoadScenarioByID resets the store and loads the named scenario.
func (h *Handler) LoadScenarioByID(ctx context.Context, id string) (int, error) {
	s, ok := findScenario(id)
	if !ok {
		return 0, fmt.Errorf("unknown scenario %q", id)
	}
	return h.loadScenario(ctx, s)
}

// =============================================================================
// ENTRY BUILDERS
// =============================================================================

// weekdays returns Monday to Friday of a period that are not national holidays.
func weekdays(p generic.Period) []generic.TimePoint {
	var out []generic.TimePoint
	cal := generic.ItalianCalendar{}
	for _, d := range p.Days() {
		switch d.Weekday() {
		case time.Saturday, time.Sunday:
			continue
		}
		if cal.IsHoliday(d) {
			continue
		}
		out = append(out, d)
	}
	return out
}

// siteDay builds a two-block day. Empty departure/arrival means no travel.
func siteDay(d generic.TimePoint, depart, arrive, start1, end1, start2, end2 string) factory.EntryJSON {
	e := factory.EntryJSON{Date: d.String()}
	e.DepartureCompany, e.ArrivalSite = depart, arrive
	e.WorkStart1, e.WorkEnd1 = start1, end1
	e.WorkStart2, e.WorkEnd2 = start2, end2
	if depart != "" && end2 != "" {
		e.DepartureReturn = end2
		e.ArrivalCompany = addMinutes(end2, generic.DurationBetween(mustClock(depart), mustClock(arrive)))
	}
	return e
}

func intervention(depart, arrive, start, end, leave, back string) factory.ShiftJSON {
	return factory.ShiftJSON{
		DepartureCompany: depart, ArrivalSite: arrive,
		WorkStart1: start, WorkEnd1: end,
		DepartureReturn: leave, ArrivalCompany: back,
	}
}

func withInterventions(entries []factory.EntryJSON, date string, ivs ...factory.ShiftJSON) []factory.EntryJSON {
	for i := range entries {
		if entries[i].Date == date {
			entries[i].Interventions = append(entries[i].Interventions, ivs...)
		}
	}
	return entries
}

func mustClock(s string) int {
	m, ok := generic.ParseClock(s)
	if !ok {
		panic("invalid clock " + s)
	}
	return m
}

func addMinutes(clock string, minutes int) string {
	return generic.FormatClock(mustClock(clock) + minutes)
}
