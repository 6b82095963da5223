package evm

import (
	"math"
	"time"
)

// PlannedTask is the cost span of one task fed to Distribute.
type PlannedTask struct {
	TaskID string
	Start  time.Time
	Finish time.Time
	Cost   float64
}

// Distribute spreads task.Cost across the buckets it overlaps, proportional to
// inclusive calendar-day overlap. Tasks with no usable cost or an empty span are
// skipped. It reports whether the task contributed to any bucket.
func Distribute(task PlannedTask, buckets []WeekBucket) bool {
	if !usableAmount(task.Cost) {
		return false
	}
	total := inclusiveDays(task.Start, task.Finish)
	if total <= 0 {
		return false
	}

	start, finish := dateOf(task.Start), dateOf(task.Finish)
	contributed := false
	for i := range buckets {
		b := &buckets[i]
		lo := later(start, b.WeekStart)
		hi := earlier(finish, b.WeekEnd)
		overlap := inclusiveDays(lo, hi)
		if overlap <= 0 {
			continue
		}
		b.PV += task.Cost * float64(overlap) / float64(total)
		contributed = true
	}
	return contributed
}

// usableAmount rejects zero, negative and non-finite values.
func usableAmount(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

func later(a, b time.Time) time.Time {
	if a.After(b) {
		return a
	}
	return b
}

func earlier(a, b time.Time) time.Time {
	if a.Before(b) {
		return a
	}
	return b
}
