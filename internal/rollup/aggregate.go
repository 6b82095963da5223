package rollup

import (
	"math"
	"time"

	"github.com/alexanderramin/planline/internal/domain"
)

// Aggregate is the roll-up of a set of children.
//
// Absent values are ignored, never coerced: a child without a start date does
// not pull the minimum to the zero time, and a child without hours does not
// count as zero. Contributed is false when no child supplied any value.
type Aggregate struct {
	DateStart    *time.Time
	DateFinish   *time.Time
	HoursPlanned *float64
	Contributed  bool
}

// AggregateChildren computes min(start), max(finish) and sum(hours) over the
// children that carry each value. Negative or non-finite hours are skipped.
func AggregateChildren(children []*domain.WbsNode) Aggregate {
	var agg Aggregate
	for _, c := range children {
		if c.DateStart != nil && (agg.DateStart == nil || c.DateStart.Before(*agg.DateStart)) {
			d := *c.DateStart
			agg.DateStart = &d
			agg.Contributed = true
		}
		if c.DateFinish != nil && (agg.DateFinish == nil || c.DateFinish.After(*agg.DateFinish)) {
			d := *c.DateFinish
			agg.DateFinish = &d
			agg.Contributed = true
		}
		if c.HoursPlanned != nil && validHours(*c.HoursPlanned) {
			sum := *c.HoursPlanned
			if agg.HoursPlanned != nil {
				sum += *agg.HoursPlanned
			}
			agg.HoursPlanned = &sum
			agg.Contributed = true
		}
	}
	return agg
}

// ApplyTo writes the aggregate onto n. It reports false and leaves n untouched
// when nothing contributed.
func (a Aggregate) ApplyTo(n *domain.WbsNode, now time.Time) bool {
	if !a.Contributed {
		return false
	}
	n.DateStart = a.DateStart
	n.DateFinish = a.DateFinish
	n.HoursPlanned = a.HoursPlanned
	n.UpdatedAt = now
	return true
}

func validHours(h float64) bool {
	return h >= 0 && !math.IsNaN(h) && !math.IsInf(h, 0)
}
