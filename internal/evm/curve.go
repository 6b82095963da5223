package evm

import "time"

// CurveInput is everything needed to compute one weekly PV/EV curve.
type CurveInput struct {
	RangeStart time.Time
	RangeEnd   time.Time
	MaxWeeks   int
	Tasks      []PlannedTask
	Claims     []Claim
}

// Curve is the computed weekly series plus its summary.
type Curve struct {
	Weeks   []WeekBucket
	Metrics Metrics
	Warning *InvalidRangeWarning
	// Skipped lists task ids that contributed no planned value.
	Skipped []string
}

// Compute runs build, distribute, place, accumulate and calculate in order.
// BAC is the sum of every usable task cost, including cost falling outside a
// truncated range.
func Compute(in CurveInput) Curve {
	weeks, warn := BuildWeeksCapped(in.RangeStart, in.RangeEnd, in.MaxWeeks)

	var bac float64
	var skipped []string
	for _, t := range in.Tasks {
		if !Distribute(t, weeks) {
			skipped = append(skipped, t.TaskID)
		}
		if usableAmount(t.Cost) && inclusiveDays(t.Start, t.Finish) > 0 {
			bac += t.Cost
		}
	}
	for _, c := range in.Claims {
		Place(c, weeks)
	}
	Accumulate(weeks)

	return Curve{
		Weeks:   weeks,
		Metrics: Calculate(weeks, bac),
		Warning: warn,
		Skipped: skipped,
	}
}

// SpanOf returns the earliest start and latest date across tasks and claims.
// ok is false when there is nothing to span.
func SpanOf(tasks []PlannedTask, claims []Claim) (start, end time.Time, ok bool) {
	consider := func(a, b time.Time) {
		if !ok {
			start, end, ok = a, b, true
			return
		}
		if a.Before(start) {
			start = a
		}
		if b.After(end) {
			end = b
		}
	}
	for _, t := range tasks {
		if t.Finish.Before(t.Start) {
			continue
		}
		consider(t.Start, t.Finish)
	}
	for _, c := range claims {
		consider(c.PeriodEnd, c.PeriodEnd)
	}
	return start, end, ok
}
