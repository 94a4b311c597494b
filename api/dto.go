/*
dto.go - Data Transfer Objects for API requests and responses

PURPOSE:
  Defines the JSON structures for API communication. These types decouple
  the engine's domain model from the external API contract: earnings types
  carry no JSON tags and are converted here.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
  - *Response: Complex response wrappers

TYPES:
  Settings:  SettingsResponse (wraps factory.SettingsJSON), ResolvedSettingsDTO
  Entries:   EntryResponse (wraps factory.EntryJSON)
  Earnings:  EarningsBreakdownDTO, SummaryDTO, NetDTO
  Requests:  CalculateDayRequest, CalculateMonthRequest, NetRequest
  Holidays:  HolidayDTO, CreateHolidayRequest
  Scenarios: ScenarioDTO, LoadScenarioRequest

AMOUNTS:
  Money and hours are decimals rounded to cents for display. The engine
  keeps exact values; rounding happens only at this boundary.

SEE ALSO:
  - handlers.go: Uses these types
  - factory/: Settings and entry document schemas
*/
package api

import (
	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/warp/earnings-engine/earnings"
	"github.com/warp/earnings-engine/factory"
	"github.com/warp/earnings-engine/generic"
)

// =============================================================================
// SETTINGS
// =============================================================================

// SettingsResponse is the stored settings document plus what it resolves to.
// Version 0 means nothing was saved and defaults apply.
type SettingsResponse struct {
	Version  int                  `json:"version"`
	Settings factory.SettingsJSON `json:"settings"`
	Resolved ResolvedSettingsDTO  `json:"resolved"`
}

type ResolvedSettingsDTO struct {
	HourlyRate    decimal.Decimal `json:"hourly_rate"`
	DailyRate     decimal.Decimal `json:"daily_rate"`
	MonthlySalary decimal.Decimal `json:"monthly_salary"`

	Multipliers map[string]decimal.Decimal `json:"multipliers"`

	TravelAllowance struct {
		Enabled            bool            `json:"enabled"`
		DailyAmount        decimal.Decimal `json:"daily_amount"`
		Policy             string          `json:"policy"`
		ApplyOnSpecialDays bool            `json:"apply_on_special_days"`
		MultiShiftTravel   bool            `json:"multi_shift_travel"`
	} `json:"travel_allowance"`

	Standby struct {
		Enabled        bool            `json:"enabled"`
		IndemnityType  string          `json:"indemnity_type"`
		Feriale16      decimal.Decimal `json:"feriale_16"`
		Feriale24      decimal.Decimal `json:"feriale_24"`
		Festivo        decimal.Decimal `json:"festivo"`
		SaturdayAsRest bool            `json:"saturday_as_rest"`
	} `json:"standby"`

	NetMethod string `json:"net_method"`
}

func toResolvedSettingsDTO(r earnings.ResolvedSettings) ResolvedSettingsDTO {
	m := r.Multipliers
	dto := ResolvedSettingsDTO{
		HourlyRate:    r.HourlyRate,
		DailyRate:     r.DailyRate,
		MonthlySalary: r.MonthlySalary,
		Multipliers: map[string]decimal.Decimal{
			"day":              m.Day,
			"evening_until_22": m.EveningUntil22,
			"evening_overtime": m.EveningOvertime,
			"night_after_22":   m.NightAfter22,
			"saturday":         m.Saturday,
			"holiday":          m.Holiday,
			"night_surcharge":  m.NightSurcharge,
			"travel":           m.Travel,
		},
		NetMethod: string(r.Net.Method),
	}
	dto.TravelAllowance.Enabled = r.Travel.Enabled
	dto.TravelAllowance.DailyAmount = r.Travel.DailyAmount
	dto.TravelAllowance.Policy = string(r.Travel.Policy)
	dto.TravelAllowance.ApplyOnSpecialDays = r.Travel.ApplyOnSpecialDays
	dto.TravelAllowance.MultiShiftTravel = r.Travel.MultiShiftTravel

	dto.Standby.Enabled = r.Standby.Enabled
	dto.Standby.IndemnityType = string(r.Standby.Indemnity)
	dto.Standby.Feriale16 = r.Standby.Feriale16
	dto.Standby.Feriale24 = r.Standby.Feriale24
	dto.Standby.Festivo = r.Standby.Festivo
	dto.Standby.SaturdayAsRest = r.Standby.SaturdayAsRest
	return dto
}

// =============================================================================
// ENTRIES AND BREAKDOWNS
// =============================================================================

// EntryResponse returns a stored entry with its computed breakdown.
type EntryResponse struct {
	Entry     factory.EntryJSON     `json:"entry"`
	Breakdown *EarningsBreakdownDTO `json:"breakdown,omitempty"`
}

// BandDTO splits a quantity across the day, evening and night bands.
type BandDTO struct {
	Day     decimal.Decimal `json:"day"`
	Evening decimal.Decimal `json:"evening"`
	Night   decimal.Decimal `json:"night"`
	Total   decimal.Decimal `json:"total"`
}

type HoursDTO struct {
	Work           decimal.Decimal `json:"work"`
	Travel         decimal.Decimal `json:"travel"`
	ExternalTravel decimal.Decimal `json:"external_travel"`
	InternalTravel decimal.Decimal `json:"internal_travel"`
	Ordinary       decimal.Decimal `json:"ordinary"`
	Overtime       decimal.Decimal `json:"overtime"`
	Standby        decimal.Decimal `json:"standby"`
}

type OrdinaryDTO struct {
	RegularHours  BandDTO         `json:"regular_hours"`
	OvertimeHours BandDTO         `json:"overtime_hours"`
	TravelHours   decimal.Decimal `json:"travel_hours"`
	RegularPay    BandDTO         `json:"regular_pay"`
	OvertimePay   BandDTO         `json:"overtime_pay"`
	TravelPay     decimal.Decimal `json:"travel_pay"`
	Total         decimal.Decimal `json:"total"`
}

type StandbyDTO struct {
	Active         bool            `json:"active"`
	Interventions  int             `json:"interventions"`
	WorkHours      BandDTO         `json:"work_hours"`
	TravelHours    BandDTO         `json:"travel_hours"`
	WorkPay        BandDTO         `json:"work_pay"`
	TravelPay      BandDTO         `json:"travel_pay"`
	DailyIndemnity decimal.Decimal `json:"daily_indemnity"`
	TotalEarnings  decimal.Decimal `json:"total_earnings"`
}

// AllowancesDTO mirrors earnings.Allowances. Standby is already inside
// standby.total_earnings and is listed for display only.
type AllowancesDTO struct {
	Travel  decimal.Decimal `json:"travel"`
	Standby decimal.Decimal `json:"standby"`
	Meal    decimal.Decimal `json:"meal"`
}

type MealSlotDTO struct {
	Amount decimal.Decimal `json:"amount"`
	Source string          `json:"source,omitempty"`
}

type MealsDTO struct {
	Lunch   MealSlotDTO     `json:"lunch"`
	Dinner  MealSlotDTO     `json:"dinner"`
	Total   decimal.Decimal `json:"total"`
	Cash    decimal.Decimal `json:"cash"`
	Voucher decimal.Decimal `json:"voucher"`
}

type FixedDayDTO struct {
	Type     string          `json:"type"`
	Earnings decimal.Decimal `json:"earnings"`
}

// EarningsBreakdownDTO is one day of earnings.
type EarningsBreakdownDTO struct {
	Date          string          `json:"date"`
	DayType       string          `json:"day_type"`
	StandbyDay    bool            `json:"is_standby_day"`
	FixedDay      *FixedDayDTO    `json:"fixed_day,omitempty"`
	Hours         HoursDTO        `json:"hours"`
	Ordinary      OrdinaryDTO     `json:"ordinary"`
	Standby       StandbyDTO      `json:"standby"`
	Allowances    AllowancesDTO   `json:"allowances"`
	Meals         MealsDTO        `json:"meals"`
	TotalEarnings decimal.Decimal `json:"total_earnings"`
}

func toBreakdownDTO(b earnings.EarningsBreakdown) EarningsBreakdownDTO {
	dto := EarningsBreakdownDTO{
		Date:       b.Date.String(),
		DayType:    string(b.DayType),
		StandbyDay: b.StandbyDay,
		Hours:      toHoursDTO(b.Hours),
		Ordinary: OrdinaryDTO{
			RegularHours:  toBandDTO(b.Ordinary.RegularHours),
			OvertimeHours: toBandDTO(b.Ordinary.OvertimeHours),
			TravelHours:   round(b.Ordinary.TravelHours),
			RegularPay:    toBandDTO(b.Ordinary.RegularPay),
			OvertimePay:   toBandDTO(b.Ordinary.OvertimePay),
			TravelPay:     round(b.Ordinary.TravelPay),
			Total:         round(b.Ordinary.Total),
		},
		Standby: StandbyDTO{
			Active:         b.Standby.Active,
			Interventions:  b.Standby.Interventions,
			WorkHours:      toBandDTO(b.Standby.WorkHours),
			TravelHours:    toBandDTO(b.Standby.TravelHours),
			WorkPay:        toBandDTO(b.Standby.WorkPay),
			TravelPay:      toBandDTO(b.Standby.TravelPay),
			DailyIndemnity: round(b.Standby.DailyIndemnity),
			TotalEarnings:  round(b.Standby.TotalEarnings),
		},
		Allowances: AllowancesDTO{
			Travel:  round(b.Allowances.Travel),
			Standby: round(b.Allowances.Standby),
			Meal:    round(b.Allowances.Meal),
		},
		Meals:         toMealsDTO(b.Meals),
		TotalEarnings: round(b.TotalEarnings),
	}
	if b.Fixed != nil {
		dto.FixedDay = &FixedDayDTO{Type: string(b.Fixed.Type), Earnings: round(b.Fixed.Earnings)}
	}
	return dto
}

func toBandDTO(b earnings.BandHours) BandDTO {
	return BandDTO{
		Day:     round(b.Day),
		Evening: round(b.Evening),
		Night:   round(b.Night),
		Total:   round(b.Total()),
	}
}

func toHoursDTO(h earnings.DayHours) HoursDTO {
	return HoursDTO{
		Work:           round(h.Work),
		Travel:         round(h.Travel),
		ExternalTravel: round(h.ExternalTravel),
		InternalTravel: round(h.InternalTravel),
		Ordinary:       round(h.Ordinary),
		Overtime:       round(h.Overtime),
		Standby:        round(h.Standby),
	}
}

func toMealsDTO(m earnings.MealBreakdown) MealsDTO {
	return MealsDTO{
		Lunch:   MealSlotDTO{Amount: round(m.Lunch.Amount), Source: string(m.Lunch.Source)},
		Dinner:  MealSlotDTO{Amount: round(m.Dinner.Amount), Source: string(m.Dinner.Source)},
		Total:   round(m.Total),
		Cash:    round(m.Cash),
		Voucher: round(m.Voucher),
	}
}

// =============================================================================
// MONTHLY SUMMARY AND NET
// =============================================================================

type PeriodDTO struct {
	From string `json:"from"`
	To   string `json:"to"`
}

type FixedDayTotalDTO struct {
	Count    int             `json:"count"`
	Earnings decimal.Decimal `json:"earnings"`
}

// SummaryDTO is a month (or any period) of earnings.
type SummaryDTO struct {
	Period PeriodDTO `json:"period"`

	WorkedDays    int                         `json:"worked_days"`
	StandbyDays   int                         `json:"standby_days"`
	Interventions int                         `json:"interventions"`
	FixedDays     map[string]FixedDayTotalDTO `json:"fixed_days"`

	Hours              HoursDTO `json:"hours"`
	RegularHours       BandDTO  `json:"regular_hours"`
	OvertimeHours      BandDTO  `json:"overtime_hours"`
	StandbyWorkHours   BandDTO  `json:"standby_work_hours"`
	StandbyTravelHours BandDTO  `json:"standby_travel_hours"`

	Ordinary         decimal.Decimal `json:"ordinary"`
	Fixed            decimal.Decimal `json:"fixed"`
	TravelAllowances decimal.Decimal `json:"travel_allowances"`
	StandbyEarnings  decimal.Decimal `json:"standby_earnings"`
	StandbyIndemnity decimal.Decimal `json:"standby_indemnity"`

	Meals struct {
		Total   decimal.Decimal `json:"total"`
		Cash    decimal.Decimal `json:"cash"`
		Voucher decimal.Decimal `json:"voucher"`
	} `json:"meals"`

	TotalEarnings decimal.Decimal `json:"total_earnings"`
	Net           NetDTO          `json:"net"`

	Days []EarningsBreakdownDTO `json:"days"`
}

func toSummaryDTO(m earnings.MonthlySummary) SummaryDTO {
	dto := SummaryDTO{
		Period:             PeriodDTO{From: m.Period.Start.String(), To: m.Period.End.String()},
		WorkedDays:         m.WorkedDays,
		StandbyDays:        m.StandbyDays,
		Interventions:      m.Interventions,
		FixedDays:          make(map[string]FixedDayTotalDTO, len(m.FixedDays)),
		Hours:              toHoursDTO(m.Hours),
		RegularHours:       toBandDTO(m.RegularHours),
		OvertimeHours:      toBandDTO(m.OvertimeHours),
		StandbyWorkHours:   toBandDTO(m.StandbyWorkHours),
		StandbyTravelHours: toBandDTO(m.StandbyTravelHours),
		Ordinary:           round(m.Ordinary),
		Fixed:              round(m.Fixed),
		TravelAllowances:   round(m.TravelAllowances),
		StandbyEarnings:    round(m.StandbyEarnings),
		StandbyIndemnity:   round(m.StandbyIndemnity),
		TotalEarnings:      round(m.TotalEarnings),
		Net:                toNetDTO(m.Net),
		Days:               make([]EarningsBreakdownDTO, 0, len(m.Days)),
	}
	dto.Meals.Total = round(m.Meals)
	dto.Meals.Cash = round(m.MealCash)
	dto.Meals.Voucher = round(m.MealVoucher)

	for t, total := range m.FixedDays {
		dto.FixedDays[string(t)] = FixedDayTotalDTO{Count: total.Count, Earnings: round(total.Earnings)}
	}
	for _, d := range m.Days {
		dto.Days = append(dto.Days, toBreakdownDTO(d))
	}
	return dto
}

type TaxBreakdownDTO struct {
	AnnualGross         decimal.Decimal `json:"annual_gross"`
	GrossTax            decimal.Decimal `json:"gross_tax"`
	WorkDeduction       decimal.Decimal `json:"work_deduction"`
	PersonalDeduction   decimal.Decimal `json:"personal_deduction"`
	IRPEF               decimal.Decimal `json:"irpef"`
	SocialContributions decimal.Decimal `json:"social_contributions"`
	AdditionalTaxes     decimal.Decimal `json:"additional_taxes"`
}

type NetDTO struct {
	Method          string           `json:"method"`
	Gross           decimal.Decimal  `json:"gross"`
	Net             decimal.Decimal  `json:"net"`
	TotalDeductions decimal.Decimal  `json:"total_deductions"`
	DeductionRate   decimal.Decimal  `json:"deduction_rate"`
	Breakdown       *TaxBreakdownDTO `json:"breakdown,omitempty"`
}

func toNetDTO(n earnings.NetResult) NetDTO {
	dto := NetDTO{
		Method:          string(n.Method),
		Gross:           round(n.Gross),
		Net:             round(n.Net),
		TotalDeductions: round(n.TotalDeductions),
		DeductionRate:   round(n.DeductionRate),
	}
	if b := n.Breakdown; b != nil {
		dto.Breakdown = &TaxBreakdownDTO{
			AnnualGross:         round(b.AnnualGross),
			GrossTax:            round(b.GrossTax),
			WorkDeduction:       round(b.WorkDeduction),
			PersonalDeduction:   round(b.PersonalDeduction),
			IRPEF:               round(b.IRPEF),
			SocialContributions: round(b.SocialContributions),
			AdditionalTaxes:     round(b.AdditionalTaxes),
		}
	}
	return dto
}

// =============================================================================
// STATELESS CALCULATION REQUESTS
// =============================================================================

// CalculateDayRequest prices one entry. Settings are optional: when absent
// the stored settings are used.
type CalculateDayRequest struct {
	Settings json.RawMessage `json:"settings,omitempty"`
	Entry    json.RawMessage `json:"entry"`
}

// CalculateMonthRequest summarizes a month of entries without storing them.
type CalculateMonthRequest struct {
	Settings json.RawMessage   `json:"settings,omitempty"`
	Year     int               `json:"year"`
	Month    int               `json:"month"`
	Entries  []json.RawMessage `json:"entries"`
}

type NetRequest struct {
	Gross    decimal.Decimal `json:"gross"`
	Settings json.RawMessage `json:"settings,omitempty"`
}

// =============================================================================
// HOLIDAYS AND SCENARIOS
// =============================================================================

type HolidayDTO struct {
	ID        string `json:"id,omitempty"`
	Date      string `json:"date"`
	Name      string `json:"name"`
	Recurring bool   `json:"recurring"`
	// Source is "company" for stored holidays and "national" for the
	// computed Italian calendar.
	Source string `json:"source"`
}

func toHolidayDTO(h generic.Holiday, source string) HolidayDTO {
	return HolidayDTO{ID: h.ID, Date: h.Date.String(), Name: h.Name, Recurring: h.Recurring, Source: source}
}

type CreateHolidayRequest struct {
	Date      string `json:"date"`
	Name      string `json:"name"`
	Recurring bool   `json:"recurring"`
}

// ScenarioDTO represents a demo scenario.
type ScenarioDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
}

// LoadScenarioRequest is the request to load a scenario.
type LoadScenarioRequest struct {
	ScenarioID string `json:"scenario_id"`
}

// ErrorResponse is returned on errors.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
}

func round(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}
