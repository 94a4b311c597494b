/*
standby.go - On-call (reperibilita) intervention breakdown

PURPOSE:
  A standby day pays a flat daily indemnity plus every minute actually
  spent on callouts. Each intervention contributes up to four segments
  (outbound travel, work 1, work 2, return travel). Every minute of every
  segment is classified on its own, because one segment can straddle
  bands (19:00-23:00 is day, evening and night).

PRICING:
  Intervention minutes are always priced in overtime context:
    pay(band) = hours(band) * hourlyRate * Multipliers.For(band, day, true)
  Work and travel are counted and priced separately.

INDEMNITY:
  Rest day (Sunday, holiday, or Saturday with SaturdayAsRest) -> festivo
  Otherwise -> feriale, 16h or 24h variant per settings
  Custom amounts in settings replace the CCNL table (resolved upstream).

  TotalEarnings = sum(work pay) + sum(travel pay) + DailyIndemnity
*/
package earnings

import (
	"github.com/shopspring/decimal"
)

// StandbyBreakdown is the standby section of a day.
type StandbyBreakdown struct {
	Active        bool
	Interventions int

	WorkHours   BandHours
	TravelHours BandHours
	WorkPay     BandAmounts
	TravelPay   BandAmounts

	DailyIndemnity decimal.Decimal
	TotalEarnings  decimal.Decimal
}

// TotalHours is work plus travel spent on interventions.
func (b StandbyBreakdown) TotalHours() decimal.Decimal {
	return b.WorkHours.Total().Add(b.TravelHours.Total())
}

// StandbyEngine prices interventions for a resolved contract.
type StandbyEngine struct {
	HourlyRate  decimal.Decimal
	Multipliers Multipliers
	Config      StandbyConfig
}

// Breakdown computes the standby section. active says whether the day is a
// standby day; the indemnity is paid only when it is and standby is enabled.
// Interventions are priced whenever they exist.
func (e StandbyEngine) Breakdown(interventions []Intervention, d DayType, active bool) StandbyBreakdown {
	var work, travel BandMinutes
	count := 0
	for _, iv := range interventions {
		segs := iv.segments()
		if len(segs) == 0 {
			continue
		}
		count++
		for _, seg := range segs {
			counter := &work
			if seg.Kind == SegmentTravel {
				counter = &travel
			}
			seg.Span.Each(func(minute int) {
				counter.Add(ClassifyMinute(minute), 1)
			})
		}
	}

	pricing := PricingDay(d, e.Config.SaturdayAsRest)
	out := StandbyBreakdown{
		Active:        active,
		Interventions: count,
		WorkHours:     work.Hours(),
		TravelHours:   travel.Hours(),
	}
	out.WorkPay = e.price(work, pricing)
	out.TravelPay = e.price(travel, pricing)

	if active && e.Config.Enabled {
		out.DailyIndemnity = e.Indemnity(d)
	}
	out.TotalEarnings = out.WorkPay.Total().Add(out.TravelPay.Total()).Add(out.DailyIndemnity)
	return out
}

// Indemnity selects the daily amount for a day type.
func (e StandbyEngine) Indemnity(d DayType) decimal.Decimal {
	if d.IsRest(e.Config.SaturdayAsRest) {
		return e.Config.Festivo
	}
	if e.Config.Indemnity == Indemnity16h {
		return e.Config.Feriale16
	}
	return e.Config.Feriale24
}

func (e StandbyEngine) price(minutes BandMinutes, d DayType) BandAmounts {
	return priceBands(minutes, e.HourlyRate, e.Multipliers, d, true)
}
