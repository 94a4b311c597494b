/*
Package factory provides JSON to Go conversion for settings and work entries.

PURPOSE:
  Converts the JSON documents written by a settings editor and a time-entry
  UI into earnings.Settings and earnings.WorkEntry values. This is the only
  place raw, loosely typed data is interpreted: the engine never sees text.

WHY A BOUNDARY?
  - Interventions and additional shifts historically arrive either as a
    JSON array or as a JSON-encoded string; both are decoded here
  - "HH:MM" fields are validated once, with the offending field named
  - Enum strings are checked before anything is stored

SETTINGS JSON SCHEMA (every field optional):
  {
    "contract": {
      "hourly_rate": 16.41, "daily_rate": 109.19, "monthly_salary": 2839.07,
      "overtime_rates": {
        "day": 1.20, "evening_until_22": 1.25, "evening_overtime": 1.25,
        "night_after_22": 1.35, "saturday": 1.25, "holiday": 1.30,
        "night_surcharge": 0.25, "travel": 1.00
      }
    },
    "travel_allowance": {
      "enabled": true, "daily_amount": 46.48, "policy": "PROPORTIONAL_CCNL",
      "apply_on_special_days": false, "multi_shift_travel": false
    },
    "meal_allowances": {
      "lunch":  {"voucher_amount": 8.00, "cash_amount": 0},
      "dinner": {"voucher_amount": 8.00, "cash_amount": 0}
    },
    "standby": {
      "enabled": true, "indemnity_type": "24h",
      "custom_feriale_16": 4.22, "custom_feriale_24": 7.03, "custom_festivo": 10.63,
      "saturday_as_rest": false, "standby_days": ["2025-06-07"]
    },
    "net_calculation": {
      "method": "irpef", "custom_rate": 25, "use_actual_amount": true,
      "social_contribution_rate": 9.19, "additional_tax_rate": 2.33,
      "reference_gross": 2839.07, "reference_net": 2122.00
    }
  }

USAGE:
  f := factory.NewSettingsFactory()
  settings, err := f.ParseSettings(data)
  resolved, err := settings.Resolve()

SEE ALSO:
  - earnings/settings.go: Defaults and Resolve
  - factory/entry.go: Work entry schema
*/
package factory

import (
	"fmt"

	json "github.com/goccy/go-json"
	"github.com/shopspring/decimal"
	"github.com/warp/earnings-engine/earnings"
	"github.com/warp/earnings-engine/generic"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

type SettingsJSON struct {
	Contract        *ContractJSON        `json:"contract,omitempty"`
	TravelAllowance *TravelAllowanceJSON `json:"travel_allowance,omitempty"`
	Meals           *MealsJSON           `json:"meal_allowances,omitempty"`
	Standby         *StandbyJSON         `json:"standby,omitempty"`
	Net             *NetJSON             `json:"net_calculation,omitempty"`
}

type ContractJSON struct {
	HourlyRate    *decimal.Decimal `json:"hourly_rate,omitempty"`
	DailyRate     *decimal.Decimal `json:"daily_rate,omitempty"`
	MonthlySalary *decimal.Decimal `json:"monthly_salary,omitempty"`
	OvertimeRates *MultipliersJSON `json:"overtime_rates,omitempty"`
}

type MultipliersJSON struct {
	Day             *decimal.Decimal `json:"day,omitempty"`
	EveningUntil22  *decimal.Decimal `json:"evening_until_22,omitempty"`
	EveningOvertime *decimal.Decimal `json:"evening_overtime,omitempty"`
	NightAfter22    *decimal.Decimal `json:"night_after_22,omitempty"`
	Saturday        *decimal.Decimal `json:"saturday,omitempty"`
	Holiday         *decimal.Decimal `json:"holiday,omitempty"`
	NightSurcharge  *decimal.Decimal `json:"night_surcharge,omitempty"`
	Travel          *decimal.Decimal `json:"travel,omitempty"`
}

type TravelAllowanceJSON struct {
	Enabled            *bool            `json:"enabled,omitempty"`
	DailyAmount        *decimal.Decimal `json:"daily_amount,omitempty"`
	Policy             string           `json:"policy,omitempty"`
	ApplyOnSpecialDays *bool            `json:"apply_on_special_days,omitempty"`
	MultiShiftTravel   *bool            `json:"multi_shift_travel,omitempty"`
}

type MealsJSON struct {
	Lunch  *MealRateJSON `json:"lunch,omitempty"`
	Dinner *MealRateJSON `json:"dinner,omitempty"`
}

type MealRateJSON struct {
	VoucherAmount *decimal.Decimal `json:"voucher_amount,omitempty"`
	CashAmount    *decimal.Decimal `json:"cash_amount,omitempty"`
}

type StandbyJSON struct {
	Enabled         *bool            `json:"enabled,omitempty"`
	IndemnityType   string           `json:"indemnity_type,omitempty"`
	CustomFeriale16 *decimal.Decimal `json:"custom_feriale_16,omitempty"`
	CustomFeriale24 *decimal.Decimal `json:"custom_feriale_24,omitempty"`
	CustomFestivo   *decimal.Decimal `json:"custom_festivo,omitempty"`
	SaturdayAsRest  *bool            `json:"saturday_as_rest,omitempty"`
	StandbyDays     []string         `json:"standby_days,omitempty"`
}

type NetJSON struct {
	Method                 string           `json:"method,omitempty"`
	CustomRate             *decimal.Decimal `json:"custom_rate,omitempty"`
	UseActualAmount        *bool            `json:"use_actual_amount,omitempty"`
	SocialContributionRate *decimal.Decimal `json:"social_contribution_rate,omitempty"`
	AdditionalTaxRate      *decimal.Decimal `json:"additional_tax_rate,omitempty"`
	ReferenceGross         *decimal.Decimal `json:"reference_gross,omitempty"`
	ReferenceNet           *decimal.Decimal `json:"reference_net,omitempty"`
}

// =============================================================================
// SETTINGS FACTORY
// =============================================================================

// SettingsFactory converts settings JSON to earnings.Settings.
type SettingsFactory struct{}

func NewSettingsFactory() *SettingsFactory {
	return &SettingsFactory{}
}

// ParseSettings decodes and validates a settings document. Enum strings are
// checked here so a bad document is rejected before it is stored.
func (f *SettingsFactory) ParseSettings(data []byte) (earnings.Settings, error) {
	var sj SettingsJSON
	if len(data) > 0 {
		if err := json.Unmarshal(data, &sj); err != nil {
			return earnings.Settings{}, fmt.Errorf("failed to parse settings JSON: %w", err)
		}
	}

	s, err := f.FromJSON(sj)
	if err != nil {
		return earnings.Settings{}, err
	}
	if _, err := s.Resolve(); err != nil {
		return earnings.Settings{}, err
	}
	return s, nil
}

// LoadSettings parses and resolves in one step.
func (f *SettingsFactory) LoadSettings(data []byte) (earnings.ResolvedSettings, error) {
	s, err := f.ParseSettings(data)
	if err != nil {
		return earnings.ResolvedSettings{}, err
	}
	return s.Resolve()
}

// FromJSON converts SettingsJSON to earnings.Settings.
func (f *SettingsFactory) FromJSON(sj SettingsJSON) (earnings.Settings, error) {
	var s earnings.Settings

	if c := sj.Contract; c != nil {
		s.Contract = earnings.ContractSettings{
			HourlyRate:    c.HourlyRate,
			DailyRate:     c.DailyRate,
			MonthlySalary: c.MonthlySalary,
		}
		if m := c.OvertimeRates; m != nil {
			s.Contract.Multipliers = earnings.MultiplierSettings{
				Day:             m.Day,
				EveningUntil22:  m.EveningUntil22,
				EveningOvertime: m.EveningOvertime,
				NightAfter22:    m.NightAfter22,
				Saturday:        m.Saturday,
				Holiday:         m.Holiday,
				NightSurcharge:  m.NightSurcharge,
				Travel:          m.Travel,
			}
		}
	}

	if t := sj.TravelAllowance; t != nil {
		s.TravelAllowance = earnings.TravelAllowanceSettings{
			Enabled:            t.Enabled,
			DailyAmount:        t.DailyAmount,
			Policy:             t.Policy,
			ApplyOnSpecialDays: t.ApplyOnSpecialDays,
			MultiShiftTravel:   t.MultiShiftTravel,
		}
	}

	if m := sj.Meals; m != nil {
		s.Meals = earnings.MealSettings{Lunch: parseMealRate(m.Lunch), Dinner: parseMealRate(m.Dinner)}
	}

	if sb := sj.Standby; sb != nil {
		s.Standby = earnings.StandbySettings{
			Enabled:        sb.Enabled,
			Indemnity:      sb.IndemnityType,
			Feriale16:      sb.CustomFeriale16,
			Feriale24:      sb.CustomFeriale24,
			Festivo:        sb.CustomFestivo,
			SaturdayAsRest: sb.SaturdayAsRest,
		}
		for _, raw := range sb.StandbyDays {
			d, err := generic.ParseDate(raw)
			if err != nil {
				return earnings.Settings{}, &generic.ConfigError{Field: "standby.standby_days", Value: raw}
			}
			s.Standby.Dates = append(s.Standby.Dates, d)
		}
	}

	if n := sj.Net; n != nil {
		s.Net = earnings.NetSettings{
			Method:                 n.Method,
			CustomRate:             n.CustomRate,
			UseActualAmount:        n.UseActualAmount,
			SocialContributionRate: n.SocialContributionRate,
			AdditionalTaxRate:      n.AdditionalTaxRate,
			ReferenceGross:         n.ReferenceGross,
			ReferenceNet:           n.ReferenceNet,
		}
	}

	return s, nil
}

func parseMealRate(m *MealRateJSON) earnings.MealRate {
	if m == nil {
		return earnings.MealRate{}
	}
	return earnings.MealRate{VoucherAmount: m.VoucherAmount, CashAmount: m.CashAmount}
}

// ToJSON converts earnings.Settings back to its document form. Unset fields
// stay unset, so a round trip never bakes defaults into storage.
func (f *SettingsFactory) ToJSON(s earnings.Settings) SettingsJSON {
	ms := s.Contract.Multipliers
	sj := SettingsJSON{
		Contract: &ContractJSON{
			HourlyRate:    s.Contract.HourlyRate,
			DailyRate:     s.Contract.DailyRate,
			MonthlySalary: s.Contract.MonthlySalary,
			OvertimeRates: &MultipliersJSON{
				Day:             ms.Day,
				EveningUntil22:  ms.EveningUntil22,
				EveningOvertime: ms.EveningOvertime,
				NightAfter22:    ms.NightAfter22,
				Saturday:        ms.Saturday,
				Holiday:         ms.Holiday,
				NightSurcharge:  ms.NightSurcharge,
				Travel:          ms.Travel,
			},
		},
		TravelAllowance: &TravelAllowanceJSON{
			Enabled:            s.TravelAllowance.Enabled,
			DailyAmount:        s.TravelAllowance.DailyAmount,
			Policy:             s.TravelAllowance.Policy,
			ApplyOnSpecialDays: s.TravelAllowance.ApplyOnSpecialDays,
			MultiShiftTravel:   s.TravelAllowance.MultiShiftTravel,
		},
		Meals: &MealsJSON{
			Lunch:  &MealRateJSON{VoucherAmount: s.Meals.Lunch.VoucherAmount, CashAmount: s.Meals.Lunch.CashAmount},
			Dinner: &MealRateJSON{VoucherAmount: s.Meals.Dinner.VoucherAmount, CashAmount: s.Meals.Dinner.CashAmount},
		},
		Standby: &StandbyJSON{
			Enabled:         s.Standby.Enabled,
			IndemnityType:   s.Standby.Indemnity,
			CustomFeriale16: s.Standby.Feriale16,
			CustomFeriale24: s.Standby.Feriale24,
			CustomFestivo:   s.Standby.Festivo,
			SaturdayAsRest:  s.Standby.SaturdayAsRest,
		},
		Net: &NetJSON{
			Method:                 s.Net.Method,
			CustomRate:             s.Net.CustomRate,
			UseActualAmount:        s.Net.UseActualAmount,
			SocialContributionRate: s.Net.SocialContributionRate,
			AdditionalTaxRate:      s.Net.AdditionalTaxRate,
			ReferenceGross:         s.Net.ReferenceGross,
			ReferenceNet:           s.Net.ReferenceNet,
		},
	}
	for _, d := range s.Standby.Dates {
		sj.Standby.StandbyDays = append(sj.Standby.StandbyDays, d.String())
	}
	return sj
}

// MarshalSettings encodes settings in canonical document form.
func (f *SettingsFactory) MarshalSettings(s earnings.Settings) ([]byte, error) {
	return json.Marshal(f.ToJSON(s))
}
