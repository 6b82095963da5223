package evm

import "time"

// Claim is a progress claim booked against the week containing PeriodEnd.
type Claim struct {
	PeriodEnd time.Time
	Amount    float64
}

// Place adds the whole claim amount to the bucket whose week contains
// PeriodEnd. Claims before the first week go to the first bucket and claims
// after the last week go to the last one; earned value is never split. It
// returns the index of the bucket that received the amount, or -1.
func Place(claim Claim, buckets []WeekBucket) int {
	if len(buckets) == 0 || !usableAmount(claim.Amount) {
		return -1
	}
	idx := bucketIndex(claim.PeriodEnd, buckets)
	buckets[idx].EV += claim.Amount
	return idx
}

// bucketIndex relies on buckets being contiguous weeks.
func bucketIndex(t time.Time, buckets []WeekBucket) int {
	d := dateOf(t)
	if d.Before(buckets[0].WeekStart) {
		return 0
	}
	idx := int(d.Sub(buckets[0].WeekStart)/day) / 7
	if idx >= len(buckets) {
		return len(buckets) - 1
	}
	return idx
}
