package evm

// Metrics summarises an accumulated curve. SPI is nil when no planned value is
// recorded at the reference week. CPI and CV are always nil: there is no
// actual-cost signal to compute them from.
type Metrics struct {
	PVTotal float64
	EVTotal float64
	SPI     *float64
	SV      float64
	BAC     float64
	CPI     *float64
	CV      *float64

	// ReferenceWeek is the index of the bucket PVTotal was read from, -1 when empty.
	ReferenceWeek int
}

// Calculate derives schedule indicators from accumulated buckets.
//
// PV is read at the last week that recorded earned value, not at the calendar
// end of the range, so planned value is measured at the same point as progress.
// Without any earned value the last bucket is used.
func Calculate(buckets []WeekBucket, bac float64) Metrics {
	m := Metrics{BAC: bac, ReferenceWeek: -1}
	if len(buckets) == 0 {
		return m
	}

	m.EVTotal = buckets[len(buckets)-1].EVAcum
	ref := len(buckets) - 1
	for i := len(buckets) - 1; i >= 0; i-- {
		if buckets[i].EV != 0 {
			ref = i
			break
		}
	}
	m.ReferenceWeek = ref
	m.PVTotal = buckets[ref].PVAcum
	m.SV = m.EVTotal - m.PVTotal
	if m.PVTotal > 0 {
		spi := m.EVTotal / m.PVTotal
		m.SPI = &spi
	}
	return m
}
