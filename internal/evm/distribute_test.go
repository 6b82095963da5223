package evm

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sumPV(buckets []WeekBucket) float64 {
	var s float64
	for _, b := range buckets {
		s += b.PV
	}
	return s
}

func TestDistribute_TenDaysAcrossTwoWeeks(t *testing.T) {
	weeks, _ := BuildWeeks(date(2025, 1, 6), date(2025, 1, 19))
	require.Len(t, weeks, 2)

	// Mon Jan 6 .. Wed Jan 15 is 10 inclusive days: 7 in week one, 3 in week two.
	ok := Distribute(PlannedTask{TaskID: "t1", Start: date(2025, 1, 6), Finish: date(2025, 1, 15), Cost: 1000}, weeks)
	assert.True(t, ok)
	assert.InDelta(t, 700, weeks[0].PV, 1e-9)
	assert.InDelta(t, 300, weeks[1].PV, 1e-9)
	assert.InDelta(t, 1000, sumPV(weeks), 1e-9)
}

func TestDistribute_MondayToFriday(t *testing.T) {
	weeks, _ := BuildWeeks(date(2025, 1, 6), date(2025, 1, 19))

	// Jan 6 .. Jan 17 inclusive is 12 calendar days.
	Distribute(PlannedTask{Start: date(2025, 1, 6), Finish: date(2025, 1, 17), Cost: 1200}, weeks)
	assert.InDelta(t, 700, weeks[0].PV, 1e-9)
	assert.InDelta(t, 500, weeks[1].PV, 1e-9)
}

func TestDistribute_SkipsUnusableCost(t *testing.T) {
	for _, cost := range []float64{0, -10, math.NaN(), math.Inf(1)} {
		weeks, _ := BuildWeeks(date(2025, 1, 6), date(2025, 1, 19))
		ok := Distribute(PlannedTask{Start: date(2025, 1, 6), Finish: date(2025, 1, 10), Cost: cost}, weeks)
		assert.False(t, ok, "cost=%v", cost)
		assert.Zero(t, sumPV(weeks), "cost=%v", cost)
	}
}

func TestDistribute_SkipsInvertedSpan(t *testing.T) {
	weeks, _ := BuildWeeks(date(2025, 1, 6), date(2025, 1, 19))
	ok := Distribute(PlannedTask{Start: date(2025, 1, 10), Finish: date(2025, 1, 9), Cost: 100}, weeks)
	assert.False(t, ok)
	assert.Zero(t, sumPV(weeks))
}

func TestDistribute_SingleDayTask(t *testing.T) {
	weeks, _ := BuildWeeks(date(2025, 1, 6), date(2025, 1, 19))
	Distribute(PlannedTask{Start: date(2025, 1, 14), Finish: date(2025, 1, 14), Cost: 42}, weeks)
	assert.Zero(t, weeks[0].PV)
	assert.InDelta(t, 42, weeks[1].PV, 1e-12)
}

func TestDistribute_PartiallyOutsideRange(t *testing.T) {
	weeks, _ := BuildWeeks(date(2025, 1, 6), date(2025, 1, 12))
	Distribute(PlannedTask{Start: date(2025, 1, 6), Finish: date(2025, 1, 19), Cost: 1400}, weeks)
	assert.InDelta(t, 700, sumPV(weeks), 1e-9, "only the covered half lands in range")
}

func TestDistribute_CostConservation(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	base := date(2024, 12, 2)
	for i := 0; i < 500; i++ {
		start := base.AddDate(0, 0, rng.Intn(200))
		finish := start.AddDate(0, 0, rng.Intn(120))
		cost := 1 + rng.Float64()*1e6

		weeks, warn := BuildWeeks(start, finish)
		require.Nil(t, warn)
		require.True(t, Distribute(PlannedTask{Start: start, Finish: finish, Cost: cost}, weeks))

		got := sumPV(weeks)
		assert.LessOrEqual(t, math.Abs(got-cost)/cost, 1e-6, "start=%s finish=%s", start, finish)
	}
}
