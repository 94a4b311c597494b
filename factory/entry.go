package factory

import (
	"bytes"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/warp/earnings-engine/earnings"
	"github.com/warp/earnings-engine/generic"
)

// =============================================================================
// ENTRY JSON SCHEMA
// =============================================================================
//
//   {
//     "date": "2025-06-03",
//     "departure_company": "07:30", "arrival_site": "08:00",
//     "work_start_1": "08:00", "work_end_1": "12:00",
//     "work_start_2": "13:00", "work_end_2": "17:00",
//     "departure_return": "17:00", "arrival_company": "17:30",
//     "additional_shifts": [ { ...same shift fields... } ],
//     "interventions": "[{\"work_start_1\":\"22:00\",\"work_end_1\":\"23:30\"}]",
//     "meal_lunch_voucher": true, "meal_lunch_cash": 0,
//     "meal_dinner_voucher": false, "meal_dinner_cash": 0,
//     "travel_allowance": true, "travel_allowance_percent": 1,
//     "manual_override_special_day": false,
//     "is_standby_day": null,
//     "fixed_day_type": "ferie", "fixed_earnings": 109.19,
//     "notes": ""
//   }
//
// interventions and additional_shifts accept an array or a string holding
// an encoded array. is_standby_day is tri-state: null inherits the standby
// calendar.

// ShiftJSON is the shape shared by shifts and interventions.
type ShiftJSON struct {
	DepartureCompany string `json:"departure_company,omitempty"`
	ArrivalSite      string `json:"arrival_site,omitempty"`
	WorkStart1       string `json:"work_start_1,omitempty"`
	WorkEnd1         string `json:"work_end_1,omitempty"`
	WorkStart2       string `json:"work_start_2,omitempty"`
	WorkEnd2         string `json:"work_end_2,omitempty"`
	DepartureReturn  string `json:"departure_return,omitempty"`
	ArrivalCompany   string `json:"arrival_company,omitempty"`
}

type EntryJSON struct {
	Date string `json:"date"`
	ShiftJSON

	AdditionalShifts ShiftList `json:"additional_shifts,omitempty"`
	Interventions    ShiftList `json:"interventions,omitempty"`

	MealLunchVoucher  bool             `json:"meal_lunch_voucher,omitempty"`
	MealLunchCash     *decimal.Decimal `json:"meal_lunch_cash,omitempty"`
	MealDinnerVoucher bool             `json:"meal_dinner_voucher,omitempty"`
	MealDinnerCash    *decimal.Decimal `json:"meal_dinner_cash,omitempty"`

	TravelAllowance          bool             `json:"travel_allowance,omitempty"`
	TravelAllowancePercent   *decimal.Decimal `json:"travel_allowance_percent,omitempty"`
	ManualOverrideSpecialDay bool             `json:"manual_override_special_day,omitempty"`

	IsStandbyDay *bool `json:"is_standby_day,omitempty"`

	FixedDayType  string           `json:"fixed_day_type,omitempty"`
	FixedEarnings *decimal.Decimal `json:"fixed_earnings,omitempty"`

	Notes string `json:"notes,omitempty"`
}

// ShiftList decodes from a JSON array, a string containing a JSON array,
// an empty string or null. It always encodes as an array.
type ShiftList []ShiftJSON

func (l *ShiftList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*l = nil
		return nil
	}

	if data[0] == '"' {
		var encoded string
		if err := json.Unmarshal(data, &encoded); err != nil {
			return err
		}
		encoded = strings.TrimSpace(encoded)
		if encoded == "" || encoded == "null" {
			*l = nil
			return nil
		}
		data = []byte(encoded)
	}

	var items []ShiftJSON
	if err := json.Unmarshal(data, &items); err != nil {
		return fmt.Errorf("shift list: %w", err)
	}
	*l = items
	return nil
}

// =============================================================================
// ENTRY FACTORY
// =============================================================================

// EntryFactory converts entry JSON to earnings.WorkEntry.
type EntryFactory struct {
	// Strict rejects malformed "HH:MM" values and out-of-range percents.
	// When false they degrade to absent, which is how stored records are read.
	Strict bool

	// FixedEarnings is used for a fixed day that carries no amount.
	FixedEarnings decimal.Decimal
}

func NewEntryFactory(strict bool) *EntryFactory {
	return &EntryFactory{Strict: strict}
}

// ParseEntry decodes and validates one entry document.
func (f *EntryFactory) ParseEntry(data []byte) (earnings.WorkEntry, error) {
	var ej EntryJSON
	if err := json.Unmarshal(data, &ej); err != nil {
		return earnings.WorkEntry{}, &generic.EntryError{Field: "body", Reason: err.Error()}
	}
	return f.FromJSON(ej)
}

// FromJSON converts EntryJSON to earnings.WorkEntry.
func (f *EntryFactory) FromJSON(ej EntryJSON) (earnings.WorkEntry, error) {
	date, err := generic.ParseDate(strings.TrimSpace(ej.Date))
	if err != nil {
		return earnings.WorkEntry{}, &generic.EntryError{Date: ej.Date, Field: "date", Reason: "expected YYYY-MM-DD"}
	}

	v := validator{date: date.String(), strict: f.Strict}
	entry := earnings.WorkEntry{
		Date:                     date,
		Shift:                    v.shift("", ej.ShiftJSON),
		TravelAllowanceRequested: ej.TravelAllowance,
		ManualOverrideSpecialDay: ej.ManualOverrideSpecialDay,
		Lunch:                    earnings.MealClaim{Voucher: ej.MealLunchVoucher, Cash: ej.MealLunchCash},
		Dinner:                   earnings.MealClaim{Voucher: ej.MealDinnerVoucher, Cash: ej.MealDinnerCash},
		Notes:                    ej.Notes,
	}
	for i, s := range ej.AdditionalShifts {
		entry.AdditionalShifts = append(entry.AdditionalShifts, v.shift(fmt.Sprintf("additional_shifts[%d].", i), s))
	}
	for i, s := range ej.Interventions {
		entry.Interventions = append(entry.Interventions, earnings.Intervention(v.shift(fmt.Sprintf("interventions[%d].", i), s)))
	}

	if p := ej.TravelAllowancePercent; p != nil {
		if f.Strict && (p.IsNegative() || p.GreaterThan(generic.One)) {
			v.fail("travel_allowance_percent", "must be between 0 and 1")
		}
		clamped := generic.ClampUnit(*p)
		entry.TravelAllowancePercent = &clamped
	}

	switch {
	case ej.IsStandbyDay == nil:
		entry.Standby = earnings.StandbyInherit
	case *ej.IsStandbyDay:
		entry.Standby = earnings.StandbyOn
	default:
		entry.Standby = earnings.StandbyOff
	}

	if ej.FixedDayType != "" {
		t, err := earnings.ParseFixedDayType(ej.FixedDayType)
		if err != nil {
			return earnings.WorkEntry{}, err
		}
		earned := f.FixedEarnings
		if ej.FixedEarnings != nil {
			earned = generic.NonNegative(*ej.FixedEarnings)
		}
		entry.FixedDay = &earnings.FixedDay{Type: t, Earnings: earned}
	}

	if v.err != nil {
		return earnings.WorkEntry{}, v.err
	}
	return entry, nil
}

// ToJSON converts a WorkEntry back to its document form.
func (f *EntryFactory) ToJSON(e earnings.WorkEntry) EntryJSON {
	ej := EntryJSON{
		Date:                     e.Date.String(),
		ShiftJSON:                shiftToJSON(e.Shift),
		MealLunchVoucher:         e.Lunch.Voucher,
		MealLunchCash:            e.Lunch.Cash,
		MealDinnerVoucher:        e.Dinner.Voucher,
		MealDinnerCash:           e.Dinner.Cash,
		TravelAllowance:          e.TravelAllowanceRequested,
		TravelAllowancePercent:   e.TravelAllowancePercent,
		ManualOverrideSpecialDay: e.ManualOverrideSpecialDay,
		Notes:                    e.Notes,
	}
	for _, s := range e.AdditionalShifts {
		ej.AdditionalShifts = append(ej.AdditionalShifts, shiftToJSON(s))
	}
	for _, iv := range e.Interventions {
		ej.Interventions = append(ej.Interventions, shiftToJSON(earnings.Shift(iv)))
	}
	switch e.Standby {
	case earnings.StandbyOn:
		on := true
		ej.IsStandbyDay = &on
	case earnings.StandbyOff:
		off := false
		ej.IsStandbyDay = &off
	}
	if e.FixedDay != nil {
		ej.FixedDayType = string(e.FixedDay.Type)
		ej.FixedEarnings = generic.DecPtr(e.FixedDay.Earnings)
	}
	return ej
}

// MarshalEntry encodes an entry in canonical document form.
func (f *EntryFactory) MarshalEntry(e earnings.WorkEntry) ([]byte, error) {
	return json.Marshal(f.ToJSON(e))
}

// =============================================================================
// VALIDATION
// =============================================================================

// validator collects the first field error of an entry.
type validator struct {
	date   string
	strict bool
	err    error
}

func (v *validator) fail(field, reason string) {
	if v.err == nil {
		v.err = &generic.EntryError{Date: v.date, Field: field, Reason: reason}
	}
}

// clock returns s trimmed when valid. Invalid values fail in strict mode
// and become absent otherwise.
func (v *validator) clock(field, s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if !generic.ValidClock(s) {
		if v.strict {
			v.fail(field, fmt.Sprintf("invalid time %q, expected HH:MM", s))
		}
		return ""
	}
	return s
}

func (v *validator) shift(prefix string, s ShiftJSON) earnings.Shift {
	return earnings.Shift{
		DepartureCompany: v.clock(prefix+"departure_company", s.DepartureCompany),
		ArrivalSite:      v.clock(prefix+"arrival_site", s.ArrivalSite),
		WorkStart1:       v.clock(prefix+"work_start_1", s.WorkStart1),
		WorkEnd1:         v.clock(prefix+"work_end_1", s.WorkEnd1),
		WorkStart2:       v.clock(prefix+"work_start_2", s.WorkStart2),
		WorkEnd2:         v.clock(prefix+"work_end_2", s.WorkEnd2),
		DepartureReturn:  v.clock(prefix+"departure_return", s.DepartureReturn),
		ArrivalCompany:   v.clock(prefix+"arrival_company", s.ArrivalCompany),
	}
}

func shiftToJSON(s earnings.Shift) ShiftJSON {
	return ShiftJSON{
		DepartureCompany: s.DepartureCompany,
		ArrivalSite:      s.ArrivalSite,
		WorkStart1:       s.WorkStart1,
		WorkEnd1:         s.WorkEnd1,
		WorkStart2:       s.WorkStart2,
		WorkEnd2:         s.WorkEnd2,
		DepartureReturn:  s.DepartureReturn,
		ArrivalCompany:   s.ArrivalCompany,
	}
}
