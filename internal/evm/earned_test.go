package evm

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlace_ContainingWeek(t *testing.T) {
	weeks, _ := BuildWeeks(date(2025, 1, 6), date(2025, 1, 19))
	idx := Place(Claim{PeriodEnd: date(2025, 1, 10), Amount: 450}, weeks)
	assert.Equal(t, 0, idx)
	assert.Equal(t, 450.0, weeks[0].EV)
	assert.Zero(t, weeks[1].EV)
}

func TestPlace_WeekBoundaries(t *testing.T) {
	weeks, _ := BuildWeeks(date(2025, 1, 6), date(2025, 1, 26))
	require.Len(t, weeks, 3)

	assert.Equal(t, 0, Place(Claim{PeriodEnd: date(2025, 1, 12), Amount: 1}, weeks), "Sunday closes week one")
	assert.Equal(t, 1, Place(Claim{PeriodEnd: date(2025, 1, 13), Amount: 1}, weeks), "Monday opens week two")
	assert.Equal(t, 2, Place(Claim{PeriodEnd: date(2025, 1, 26), Amount: 1}, weeks))
}

func TestPlace_BeforeRangeGoesToFirst(t *testing.T) {
	weeks, _ := BuildWeeks(date(2025, 1, 6), date(2025, 1, 19))
	idx := Place(Claim{PeriodEnd: date(2024, 12, 23), Amount: 300}, weeks)
	assert.Equal(t, 0, idx)
	assert.Equal(t, 300.0, weeks[0].EV)
}

func TestPlace_AfterRangeGoesToLast(t *testing.T) {
	weeks, _ := BuildWeeks(date(2025, 1, 6), date(2025, 1, 19))
	idx := Place(Claim{PeriodEnd: date(2025, 6, 1), Amount: 125}, weeks)
	assert.Equal(t, 1, idx)
	assert.Equal(t, 125.0, weeks[1].EV)
}

func TestPlace_SkipsEmptyAmounts(t *testing.T) {
	weeks, _ := BuildWeeks(date(2025, 1, 6), date(2025, 1, 19))
	assert.Equal(t, -1, Place(Claim{PeriodEnd: date(2025, 1, 10)}, weeks))
	assert.Equal(t, -1, Place(Claim{PeriodEnd: date(2025, 1, 10), Amount: math.NaN()}, weeks))
	assert.Equal(t, -1, Place(Claim{PeriodEnd: date(2025, 1, 10), Amount: 10}, nil))
	assert.Zero(t, weeks[0].EV)
}
