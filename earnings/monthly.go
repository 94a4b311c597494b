package earnings

import (
	"context"
	"runtime"
	"sort"

	"github.com/shopspring/decimal"
	"github.com/warp/earnings-engine/generic"
	"golang.org/x/sync/errgroup"
)

// =============================================================================
// MONTHLY SUMMARY
// =============================================================================

// FixedDayTotal aggregates fixed days of one type.
type FixedDayTotal struct {
	Count    int
	Earnings decimal.Decimal
}

// MonthlySummary folds day breakdowns over a period. It is built once per
// Summarize call and never changed afterwards.
type MonthlySummary struct {
	Period generic.Period
	Days   []EarningsBreakdown

	WorkedDays    int
	StandbyDays   int
	Interventions int
	FixedDays     map[FixedDayType]FixedDayTotal

	Hours              DayHours
	RegularHours       BandHours
	OvertimeHours      BandHours
	StandbyWorkHours   BandHours
	StandbyTravelHours BandHours

	Ordinary         decimal.Decimal // computed days only
	Fixed            decimal.Decimal
	TravelAllowances decimal.Decimal
	StandbyEarnings  decimal.Decimal // includes StandbyIndemnity
	StandbyIndemnity decimal.Decimal

	Meals       decimal.Decimal
	MealCash    decimal.Decimal
	MealVoucher decimal.Decimal

	// TotalEarnings == Ordinary + Fixed + TravelAllowances + StandbyEarnings.
	TotalEarnings decimal.Decimal

	// Net is estimated on TotalEarnings, or on the contract monthly salary
	// when the settings ask for an estimate.
	Net NetResult
}

func newSummary(period generic.Period) MonthlySummary {
	return MonthlySummary{Period: period, FixedDays: make(map[FixedDayType]FixedDayTotal)}
}

// add folds one day. Sums are exact so the order of days does not matter.
func (m *MonthlySummary) add(day EarningsBreakdown) {
	m.Days = append(m.Days, day)
	m.TotalEarnings = m.TotalEarnings.Add(day.TotalEarnings)

	if day.Fixed != nil {
		ft := m.FixedDays[day.Fixed.Type]
		ft.Count++
		ft.Earnings = ft.Earnings.Add(day.Fixed.Earnings)
		m.FixedDays[day.Fixed.Type] = ft
		m.Fixed = m.Fixed.Add(day.Fixed.Earnings)
		return
	}

	if day.Hours.Work.IsPositive() || day.Hours.Travel.IsPositive() {
		m.WorkedDays++
	}
	if day.StandbyDay {
		m.StandbyDays++
	}
	m.Interventions += day.Standby.Interventions

	m.Hours = DayHours{
		Work:           m.Hours.Work.Add(day.Hours.Work),
		Travel:         m.Hours.Travel.Add(day.Hours.Travel),
		ExternalTravel: m.Hours.ExternalTravel.Add(day.Hours.ExternalTravel),
		InternalTravel: m.Hours.InternalTravel.Add(day.Hours.InternalTravel),
		Ordinary:       m.Hours.Ordinary.Add(day.Hours.Ordinary),
		Overtime:       m.Hours.Overtime.Add(day.Hours.Overtime),
		Standby:        m.Hours.Standby.Add(day.Hours.Standby),
	}
	m.RegularHours = m.RegularHours.Plus(day.Ordinary.RegularHours)
	m.OvertimeHours = m.OvertimeHours.Plus(day.Ordinary.OvertimeHours)
	m.StandbyWorkHours = m.StandbyWorkHours.Plus(day.Standby.WorkHours)
	m.StandbyTravelHours = m.StandbyTravelHours.Plus(day.Standby.TravelHours)

	m.Ordinary = m.Ordinary.Add(day.Ordinary.Total)
	m.TravelAllowances = m.TravelAllowances.Add(day.Allowances.Travel)
	m.StandbyEarnings = m.StandbyEarnings.Add(day.Standby.TotalEarnings)
	m.StandbyIndemnity = m.StandbyIndemnity.Add(day.Standby.DailyIndemnity)

	m.Meals = m.Meals.Add(day.Meals.Total)
	m.MealCash = m.MealCash.Add(day.Meals.Cash)
	m.MealVoucher = m.MealVoucher.Add(day.Meals.Voucher)
}

// =============================================================================
// SUMMARIZE
// =============================================================================

// Summarize computes every entry inside period and folds the results in
// date order. Entries outside the period are ignored. Two entries with the
// same date fail with ErrDuplicateEntry.
func (c Calculator) Summarize(ctx context.Context, period generic.Period, entries []WorkEntry) (MonthlySummary, error) {
	if err := period.Validate(); err != nil {
		return MonthlySummary{}, err
	}

	seen := make(map[string]struct{}, len(entries))
	inPeriod := make([]WorkEntry, 0, len(entries))
	for _, e := range entries {
		if !period.Contains(e.Date) {
			continue
		}
		if _, dup := seen[e.Date.Key()]; dup {
			return MonthlySummary{}, &generic.DuplicateEntryError{Date: e.Date}
		}
		seen[e.Date.Key()] = struct{}{}
		inPeriod = append(inPeriod, e)
	}
	sort.Slice(inPeriod, func(i, j int) bool { return inPeriod[i].Date.Before(inPeriod[j].Date) })

	days := make([]EarningsBreakdown, len(inPeriod))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range inPeriod {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			day, err := c.Day(inPeriod[i])
			if err != nil {
				return err
			}
			days[i] = day
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return MonthlySummary{}, err
	}

	summary := newSummary(period)
	for _, day := range days {
		summary.add(day)
	}

	basis := summary.TotalEarnings
	if !c.Settings.Net.UseActualAmount {
		basis = c.Settings.MonthlySalary
	}
	summary.Net = NetEstimator{Config: c.Settings.Net}.Estimate(basis)
	return summary, nil
}
