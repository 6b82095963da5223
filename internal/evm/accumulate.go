package evm

// Accumulate fills PVAcum and EVAcum with running totals in place and returns
// the same slice.
func Accumulate(buckets []WeekBucket) []WeekBucket {
	var pv, ev float64
	for i := range buckets {
		pv += buckets[i].PV
		ev += buckets[i].EV
		buckets[i].PVAcum = pv
		buckets[i].EVAcum = ev
	}
	return buckets
}
