/*
settings.go - Worker settings and their single default-resolution step

PURPOSE:
  Settings is what a settings editor writes: every field optional. The
  engine never reads Settings directly. Resolve() turns it into a
  ResolvedSettings value where every field has exactly one documented
  default, negatives are clamped to zero and enum strings are checked.

WHY ONE STEP:
  Defaults scattered across call sites (rate || 32) drift apart and silently
  overwrite configured values. Here each field is resolved once, in one
  function, and the calculator only ever sees the resolved copy.

DEFAULTS (CCNL metalmeccanico reference values):
  Contract:   hourly 16.41, daily 109.19, monthly 2839.07
  Overtime:   day 1.20, evening 1.25, night 1.35, saturday 1.25, holiday 1.30
  Standby:    feriale 16h 4.22, feriale 24h 7.03, festivo 10.63
  Meals:      voucher 8.00, cash 0
  Net:        irpef, social contributions 9.19%, additional taxes 2.33%

FATAL VALUES:
  An unknown travel policy, net method or indemnity type returns a
  *generic.ConfigError. Falling back silently would change pay.
*/
package earnings

import (
	"github.com/shopspring/decimal"
	"github.com/warp/earnings-engine/generic"
)

// =============================================================================
// ENUMS - Closed sets, exact strings are part of the contract
// =============================================================================

// TravelPolicy selects how the daily travel allowance is earned.
type TravelPolicy string

const (
	TravelAlways       TravelPolicy = "ALWAYS"
	TravelWithTravel   TravelPolicy = "WITH_TRAVEL"
	TravelFullDayOnly  TravelPolicy = "FULL_DAY_ONLY"
	TravelHalfDay      TravelPolicy = "HALF_ALLOWANCE_HALF_DAY"
	TravelProportional TravelPolicy = "PROPORTIONAL_CCNL"
)

var travelPolicies = []TravelPolicy{TravelAlways, TravelWithTravel, TravelFullDayOnly, TravelHalfDay, TravelProportional}

func ParseTravelPolicy(s string) (TravelPolicy, error) {
	for _, p := range travelPolicies {
		if string(p) == s {
			return p, nil
		}
	}
	return "", &generic.ConfigError{Field: "travel_allowance.policy", Value: s}
}

// NetMethod selects the net-from-gross strategy.
type NetMethod string

const (
	NetProgressive NetMethod = "irpef"
	NetCustom      NetMethod = "custom"
	NetCalibrated  NetMethod = "calibrated"
)

func ParseNetMethod(s string) (NetMethod, error) {
	switch NetMethod(s) {
	case NetProgressive, NetCustom, NetCalibrated:
		return NetMethod(s), nil
	}
	return "", &generic.ConfigError{Field: "net.method", Value: s}
}

// IndemnityType selects the feriale standby indemnity.
type IndemnityType string

const (
	Indemnity16h IndemnityType = "16h"
	Indemnity24h IndemnityType = "24h"
)

func ParseIndemnityType(s string) (IndemnityType, error) {
	switch IndemnityType(s) {
	case Indemnity16h, Indemnity24h:
		return IndemnityType(s), nil
	}
	return "", &generic.ConfigError{Field: "standby.indemnity", Value: s}
}

// =============================================================================
// SETTINGS - As written by the settings editor (every field optional)
// =============================================================================

type Settings struct {
	Contract        ContractSettings
	TravelAllowance TravelAllowanceSettings
	Meals           MealSettings
	Standby         StandbySettings
	Net             NetSettings
}

type ContractSettings struct {
	HourlyRate    *decimal.Decimal
	DailyRate     *decimal.Decimal
	MonthlySalary *decimal.Decimal
	Multipliers   MultiplierSettings
}

type MultiplierSettings struct {
	Day             *decimal.Decimal
	EveningUntil22  *decimal.Decimal
	EveningOvertime *decimal.Decimal
	NightAfter22    *decimal.Decimal
	Saturday        *decimal.Decimal
	Holiday         *decimal.Decimal
	NightSurcharge  *decimal.Decimal
	Travel          *decimal.Decimal
}

type TravelAllowanceSettings struct {
	Enabled            *bool
	DailyAmount        *decimal.Decimal
	Policy             string
	ApplyOnSpecialDays *bool
	MultiShiftTravel   *bool
}

type MealSettings struct {
	Lunch  MealRate
	Dinner MealRate
}

type MealRate struct {
	VoucherAmount *decimal.Decimal
	CashAmount    *decimal.Decimal
}

type StandbySettings struct {
	Enabled        *bool
	Indemnity      string
	Feriale16      *decimal.Decimal
	Feriale24      *decimal.Decimal
	Festivo        *decimal.Decimal
	SaturdayAsRest *bool
	Dates          []generic.TimePoint
}

type NetSettings struct {
	Method                 string
	CustomRate             *decimal.Decimal
	UseActualAmount        *bool
	SocialContributionRate *decimal.Decimal
	AdditionalTaxRate      *decimal.Decimal
	ReferenceGross         *decimal.Decimal
	ReferenceNet           *decimal.Decimal
}

// =============================================================================
// RESOLVED SETTINGS - What the calculator reads
// =============================================================================

type ResolvedSettings struct {
	HourlyRate    decimal.Decimal
	DailyRate     decimal.Decimal
	MonthlySalary decimal.Decimal
	Multipliers   Multipliers

	Travel  TravelConfig
	Meals   MealConfig
	Standby StandbyConfig
	Net     NetConfig
}

type TravelConfig struct {
	Enabled            bool
	DailyAmount        decimal.Decimal
	Policy             TravelPolicy
	ApplyOnSpecialDays bool
	MultiShiftTravel   bool
}

type MealConfig struct {
	Lunch  MealDefaults
	Dinner MealDefaults
}

type MealDefaults struct {
	Voucher decimal.Decimal
	Cash    decimal.Decimal
}

type StandbyConfig struct {
	Enabled        bool
	Indemnity      IndemnityType
	Feriale16      decimal.Decimal
	Feriale24      decimal.Decimal
	Festivo        decimal.Decimal
	SaturdayAsRest bool
	// dates is keyed by TimePoint.Key(); unexported so the set cannot be
	// changed through a shared reference.
	dates map[string]struct{}
}

// IsStandbyDate reports whether the standby calendar contains date.
func (c StandbyConfig) IsStandbyDate(date generic.TimePoint) bool {
	_, ok := c.dates[date.Key()]
	return ok
}

type NetConfig struct {
	Method                 NetMethod
	CustomRate             decimal.Decimal
	UseActualAmount        bool
	SocialContributionRate decimal.Decimal
	AdditionalTaxRate      decimal.Decimal
	ReferenceGross         decimal.Decimal
	ReferenceNet           decimal.Decimal
}

// CCNL defaults.
var (
	DefaultHourlyRate    = generic.MustParseDecimal("16.41")
	DefaultDailyRate     = generic.MustParseDecimal("109.19")
	DefaultMonthlySalary = generic.MustParseDecimal("2839.07")

	DefaultStandbyFeriale16 = generic.MustParseDecimal("4.22")
	DefaultStandbyFeriale24 = generic.MustParseDecimal("7.03")
	DefaultStandbyFestivo   = generic.MustParseDecimal("10.63")

	DefaultMealVoucher = generic.MustParseDecimal("8.00")

	DefaultCustomNetRate          = generic.MustParseDecimal("25")
	DefaultSocialContributionRate = generic.MustParseDecimal("9.19")
	DefaultAdditionalTaxRate      = generic.MustParseDecimal("2.33")
	DefaultReferenceGross         = generic.MustParseDecimal("2839.07")
	DefaultReferenceNet           = generic.MustParseDecimal("2122.00")
)

// DefaultMultipliers returns the CCNL multiplier table.
func DefaultMultipliers() Multipliers {
	return Multipliers{
		Day:             generic.MustParseDecimal("1.20"),
		EveningUntil22:  generic.MustParseDecimal("1.25"),
		EveningOvertime: generic.MustParseDecimal("1.25"),
		NightAfter22:    generic.MustParseDecimal("1.35"),
		Saturday:        generic.MustParseDecimal("1.25"),
		Holiday:         generic.MustParseDecimal("1.30"),
		NightSurcharge:  generic.MustParseDecimal("0.25"),
		Travel:          generic.MustParseDecimal("1.00"),
	}
}

// DefaultSettings resolves an empty Settings. It cannot fail.
func DefaultSettings() ResolvedSettings {
	r, _ := Settings{}.Resolve()
	return r
}

// Resolve applies defaults, clamps negatives and validates enums.
func (s Settings) Resolve() (ResolvedSettings, error) {
	policy := TravelWithTravel
	if s.TravelAllowance.Policy != "" {
		p, err := ParseTravelPolicy(s.TravelAllowance.Policy)
		if err != nil {
			return ResolvedSettings{}, err
		}
		policy = p
	}

	indemnity := Indemnity24h
	if s.Standby.Indemnity != "" {
		it, err := ParseIndemnityType(s.Standby.Indemnity)
		if err != nil {
			return ResolvedSettings{}, err
		}
		indemnity = it
	}

	method := NetProgressive
	if s.Net.Method != "" {
		m, err := ParseNetMethod(s.Net.Method)
		if err != nil {
			return ResolvedSettings{}, err
		}
		method = m
	}

	def := DefaultMultipliers()
	ms := s.Contract.Multipliers
	mult := Multipliers{
		Day:            generic.OrDefault(ms.Day, def.Day),
		EveningUntil22: generic.OrDefault(ms.EveningUntil22, def.EveningUntil22),
		NightAfter22:   generic.OrDefault(ms.NightAfter22, def.NightAfter22),
		Saturday:       generic.OrDefault(ms.Saturday, def.Saturday),
		Holiday:        generic.OrDefault(ms.Holiday, def.Holiday),
		NightSurcharge: generic.OrDefault(ms.NightSurcharge, def.NightSurcharge),
		Travel:         generic.OrDefault(ms.Travel, def.Travel),
	}
	// Unset evening overtime follows the ordinary evening rate.
	mult.EveningOvertime = generic.OrDefault(ms.EveningOvertime, mult.EveningUntil22)

	dates := make(map[string]struct{}, len(s.Standby.Dates))
	for _, d := range s.Standby.Dates {
		dates[d.Key()] = struct{}{}
	}

	return ResolvedSettings{
		HourlyRate:    generic.OrDefault(s.Contract.HourlyRate, DefaultHourlyRate),
		DailyRate:     generic.OrDefault(s.Contract.DailyRate, DefaultDailyRate),
		MonthlySalary: generic.OrDefault(s.Contract.MonthlySalary, DefaultMonthlySalary),
		Multipliers:   mult,
		Travel: TravelConfig{
			Enabled:            generic.BoolOr(s.TravelAllowance.Enabled, false),
			DailyAmount:        generic.OrDefault(s.TravelAllowance.DailyAmount, decimal.Zero),
			Policy:             policy,
			ApplyOnSpecialDays: generic.BoolOr(s.TravelAllowance.ApplyOnSpecialDays, false),
			MultiShiftTravel:   generic.BoolOr(s.TravelAllowance.MultiShiftTravel, false),
		},
		Meals: MealConfig{
			Lunch:  resolveMeal(s.Meals.Lunch),
			Dinner: resolveMeal(s.Meals.Dinner),
		},
		Standby: StandbyConfig{
			Enabled:        generic.BoolOr(s.Standby.Enabled, false),
			Indemnity:      indemnity,
			Feriale16:      generic.OrDefault(s.Standby.Feriale16, DefaultStandbyFeriale16),
			Feriale24:      generic.OrDefault(s.Standby.Feriale24, DefaultStandbyFeriale24),
			Festivo:        generic.OrDefault(s.Standby.Festivo, DefaultStandbyFestivo),
			SaturdayAsRest: generic.BoolOr(s.Standby.SaturdayAsRest, false),
			dates:          dates,
		},
		Net: NetConfig{
			Method:                 method,
			CustomRate:             generic.OrDefault(s.Net.CustomRate, DefaultCustomNetRate),
			UseActualAmount:        generic.BoolOr(s.Net.UseActualAmount, true),
			SocialContributionRate: generic.OrDefault(s.Net.SocialContributionRate, DefaultSocialContributionRate),
			AdditionalTaxRate:      generic.OrDefault(s.Net.AdditionalTaxRate, DefaultAdditionalTaxRate),
			ReferenceGross:         generic.OrDefault(s.Net.ReferenceGross, DefaultReferenceGross),
			ReferenceNet:           generic.OrDefault(s.Net.ReferenceNet, DefaultReferenceNet),
		},
	}, nil
}

func resolveMeal(m MealRate) MealDefaults {
	return MealDefaults{
		Voucher: generic.OrDefault(m.VoucherAmount, DefaultMealVoucher),
		Cash:    generic.OrDefault(m.CashAmount, decimal.Zero),
	}
}
