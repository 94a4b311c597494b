/*
overtime.go - Ordinary/overtime split of a day's work

PURPOSE:
  On weekdays the first 8 hours of work are ordinary and the remainder is
  overtime. On Saturday, Sunday and holidays there is no split: every hour
  is paid at the flat day-type multiplier.

TWO GRANULARITIES:
  AllocateHours splits a total (what a summary shows).
  AllocateMinutes walks the timeline minute by minute so each minute keeps
  both its band and its ordinary/overtime status. A 14:00-23:00 weekday
  produces regular day minutes, then overtime evening and night minutes.

TRAVEL:
  Travel minutes never count toward the threshold. They are paid at the
  hourly rate times the travel multiplier.
*/
package earnings

import (
	"github.com/shopspring/decimal"
	"github.com/warp/earnings-engine/generic"
)

// OrdinaryThresholdMinutes is the weekday ordinary allowance: 8 hours.
const OrdinaryThresholdMinutes = 8 * generic.MinutesPerHour

var ordinaryThresholdHours = decimal.NewFromInt(8)

// =============================================================================
// BAND COUNTERS
// =============================================================================

// BandMinutes counts minutes per band.
type BandMinutes struct {
	Day     int
	Evening int
	Night   int
}

func (b *BandMinutes) Add(band Band, n int) {
	switch band {
	case BandDay:
		b.Day += n
	case BandEvening:
		b.Evening += n
	case BandNight:
		b.Night += n
	}
}

func (b BandMinutes) Get(band Band) int {
	switch band {
	case BandDay:
		return b.Day
	case BandEvening:
		return b.Evening
	case BandNight:
		return b.Night
	}
	return 0
}

func (b BandMinutes) Total() int { return b.Day + b.Evening + b.Night }

func (b BandMinutes) Hours() BandHours {
	return BandHours{
		Day:     generic.ToHours(b.Day),
		Evening: generic.ToHours(b.Evening),
		Night:   generic.ToHours(b.Night),
	}
}

// BandHours is BandMinutes converted to hours.
type BandHours struct {
	Day     decimal.Decimal
	Evening decimal.Decimal
	Night   decimal.Decimal
}

func (b BandHours) Get(band Band) decimal.Decimal {
	switch band {
	case BandDay:
		return b.Day
	case BandEvening:
		return b.Evening
	case BandNight:
		return b.Night
	}
	return decimal.Zero
}

func (b BandHours) Total() decimal.Decimal { return b.Day.Add(b.Evening).Add(b.Night) }

func (b BandHours) Plus(o BandHours) BandHours {
	return BandHours{
		Day:     b.Day.Add(o.Day),
		Evening: b.Evening.Add(o.Evening),
		Night:   b.Night.Add(o.Night),
	}
}

// BandAmounts is money per band.
type BandAmounts = BandHours

// =============================================================================
// HOURS SPLIT
// =============================================================================

type HoursSplit struct {
	Ordinary decimal.Decimal
	Overtime decimal.Decimal
}

// AllocateHours splits total work hours. Only weekdays are subject to the
// 8-hour threshold.
func AllocateHours(total decimal.Decimal, d DayType) HoursSplit {
	total = generic.NonNegative(total)
	if !d.HasOvertimeThreshold() || total.LessThanOrEqual(ordinaryThresholdHours) {
		return HoursSplit{Ordinary: total, Overtime: decimal.Zero}
	}
	return HoursSplit{Ordinary: ordinaryThresholdHours, Overtime: total.Sub(ordinaryThresholdHours)}
}

// =============================================================================
// MINUTE ALLOCATION
// =============================================================================

// Allocation is the day's work minutes by status and band, plus travel.
type Allocation struct {
	Regular  BandMinutes
	Overtime BandMinutes
	Travel   int
}

// AllocateMinutes walks work segments chronologically. On weekdays the
// first OrdinaryThresholdMinutes are regular, the rest overtime.
func AllocateMinutes(tl Timeline, d DayType) Allocation {
	var a Allocation
	worked := 0
	threshold := d.HasOvertimeThreshold()

	for _, seg := range tl {
		if seg.Kind == SegmentTravel {
			a.Travel += seg.Minutes()
			continue
		}
		seg.Span.Each(func(minute int) {
			band := ClassifyMinute(minute)
			if threshold && worked >= OrdinaryThresholdMinutes {
				a.Overtime.Add(band, 1)
			} else {
				a.Regular.Add(band, 1)
			}
			worked++
		})
	}
	return a
}
