package evm

import (
	"fmt"
	"time"
)

// MaxWeeks is the hard cap on the number of buckets in one curve.
const MaxWeeks = 104

const day = 24 * time.Hour

// WeekBucket is one Monday-to-Sunday week of the planning horizon.
type WeekBucket struct {
	WeekStart time.Time
	WeekEnd   time.Time
	Label     string
	PV        float64
	EV        float64
	PVAcum    float64
	EVAcum    float64
}

// Contains reports whether the calendar day of t falls inside the bucket.
func (b *WeekBucket) Contains(t time.Time) bool {
	d := dateOf(t)
	return !d.Before(b.WeekStart) && !d.After(b.WeekEnd)
}

// InvalidRangeWarning is attached to a curve whose range exceeded the bucket cap.
// It is a notice, not a failure: the buckets returned are still contiguous.
type InvalidRangeWarning struct {
	RangeStart     time.Time
	RangeEnd       time.Time
	RequestedWeeks int
	ReturnedWeeks  int
}

func (w *InvalidRangeWarning) String() string {
	return fmt.Sprintf("range %s..%s spans %d weeks; curve truncated to the first %d",
		w.RangeStart.Format("2006-01-02"), w.RangeEnd.Format("2006-01-02"),
		w.RequestedWeeks, w.ReturnedWeeks)
}

// BuildWeeks returns the contiguous weeks covering [start, end] using MaxWeeks as the cap.
func BuildWeeks(start, end time.Time) ([]WeekBucket, *InvalidRangeWarning) {
	return BuildWeeksCapped(start, end, MaxWeeks)
}

// BuildWeeksCapped floors start to its Monday and ceils end to its Sunday, then
// emits one bucket per week. A cap outside 1..MaxWeeks falls back to MaxWeeks.
// An end before start yields no buckets.
func BuildWeeksCapped(start, end time.Time, maxWeeks int) ([]WeekBucket, *InvalidRangeWarning) {
	if maxWeeks <= 0 || maxWeeks > MaxWeeks {
		maxWeeks = MaxWeeks
	}
	first := MondayOf(start)
	last := SundayOf(end)
	if last.Before(first) {
		return nil, nil
	}

	requested := int(last.Sub(first)/day+1) / 7
	n := requested
	var warn *InvalidRangeWarning
	if n > maxWeeks {
		n = maxWeeks
		warn = &InvalidRangeWarning{
			RangeStart:     dateOf(start),
			RangeEnd:       dateOf(end),
			RequestedWeeks: requested,
			ReturnedWeeks:  n,
		}
	}

	buckets := make([]WeekBucket, n)
	for i := range buckets {
		monday := first.AddDate(0, 0, 7*i)
		buckets[i] = WeekBucket{
			WeekStart: monday,
			WeekEnd:   monday.AddDate(0, 0, 6),
			Label:     weekLabel(monday),
		}
	}
	return buckets, warn
}

// MondayOf returns the Monday (00:00 UTC) of the week containing t.
func MondayOf(t time.Time) time.Time {
	d := dateOf(t)
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDate(0, 0, -offset)
}

// SundayOf returns the Sunday (00:00 UTC) of the week containing t.
func SundayOf(t time.Time) time.Time {
	return MondayOf(t).AddDate(0, 0, 6)
}

// dateOf drops the clock part, keeping the calendar day as seen in t's location.
func dateOf(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// inclusiveDays counts calendar days in [a, b]; zero or negative when b < a.
func inclusiveDays(a, b time.Time) int {
	return int(dateOf(b).Sub(dateOf(a))/day) + 1
}

func weekLabel(monday time.Time) string {
	year, week := monday.ISOWeek()
	return fmt.Sprintf("%d-W%02d %s", year, week, monday.Format("02 Jan"))
}
