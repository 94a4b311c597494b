package earnings

import (
	"github.com/warp/earnings-engine/generic"
)

// =============================================================================
// SEGMENTS - One parsed clock interval of a shift
// =============================================================================

type SegmentKind string

const (
	SegmentWork   SegmentKind = "work"
	SegmentTravel SegmentKind = "travel"
)

// Segment is a parsed interval tagged with what was done in it.
type Segment struct {
	Kind SegmentKind
	Span generic.Span
	// External is set on travel that is not sandwiched between two work
	// segments of the same timeline (company to site, site to company).
	External bool
}

func (s Segment) Minutes() int { return s.Span.Minutes }

// segments returns outbound travel, work 1, work 2, return travel, in that
// order, skipping every pair with a missing endpoint or zero length.
func (s Shift) segments() []Segment {
	pairs := []struct {
		kind       SegmentKind
		start, end string
	}{
		{SegmentTravel, s.DepartureCompany, s.ArrivalSite},
		{SegmentWork, s.WorkStart1, s.WorkEnd1},
		{SegmentWork, s.WorkStart2, s.WorkEnd2},
		{SegmentTravel, s.DepartureReturn, s.ArrivalCompany},
	}

	out := make([]Segment, 0, len(pairs))
	for _, p := range pairs {
		span, ok := generic.ParseSpan(p.start, p.end)
		if !ok || span.Minutes == 0 {
			continue
		}
		out = append(out, Segment{Kind: p.kind, Span: span})
	}
	return out
}

func (iv Intervention) segments() []Segment {
	return Shift(iv).segments()
}

// IsEmpty reports whether the intervention has no usable pair.
func (iv Intervention) IsEmpty() bool {
	return len(iv.segments()) == 0
}

// =============================================================================
// TIMELINE - Ordered segments of a whole day
// =============================================================================

// Timeline is the day's segments in the order they were recorded.
type Timeline []Segment

// BuildTimeline concatenates the segments of every shift and tags each
// travel segment as external or internal.
func BuildTimeline(shifts ...Shift) Timeline {
	var tl Timeline
	for _, s := range shifts {
		tl = append(tl, s.segments()...)
	}
	tl.tagTravel()
	return tl
}

// tagTravel marks travel external unless work exists both before and after it.
func (tl Timeline) tagTravel() {
	lastWork := -1
	firstWork := -1
	for i, seg := range tl {
		if seg.Kind == SegmentWork {
			if firstWork < 0 {
				firstWork = i
			}
			lastWork = i
		}
	}
	for i := range tl {
		if tl[i].Kind != SegmentTravel {
			continue
		}
		tl[i].External = firstWork < 0 || i < firstWork || i > lastWork
	}
}

// =============================================================================
// SHIFT AGGREGATION
// =============================================================================

// ShiftTotals are the day's summed minutes.
type ShiftTotals struct {
	WorkMinutes           int
	TravelMinutes         int
	ExternalTravelMinutes int
	InternalTravelMinutes int
}

// Totals sums the timeline.
func (tl Timeline) Totals() ShiftTotals {
	var t ShiftTotals
	for _, seg := range tl {
		switch seg.Kind {
		case SegmentWork:
			t.WorkMinutes += seg.Minutes()
		case SegmentTravel:
			t.TravelMinutes += seg.Minutes()
			if seg.External {
				t.ExternalTravelMinutes += seg.Minutes()
			} else {
				t.InternalTravelMinutes += seg.Minutes()
			}
		}
	}
	return t
}

// AggregateShifts merges the primary shift and additional shifts of an entry.
func AggregateShifts(entry WorkEntry) (Timeline, ShiftTotals) {
	shifts := make([]Shift, 0, 1+len(entry.AdditionalShifts))
	shifts = append(shifts, entry.Shift)
	shifts = append(shifts, entry.AdditionalShifts...)
	tl := BuildTimeline(shifts...)
	return tl, tl.Totals()
}
