package evm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMondayOf(t *testing.T) {
	cases := []struct {
		in   time.Time
		want time.Time
	}{
		{date(2025, 1, 6), date(2025, 1, 6)},   // Monday
		{date(2025, 1, 10), date(2025, 1, 6)},  // Friday
		{date(2025, 1, 12), date(2025, 1, 6)},  // Sunday
		{date(2025, 1, 1), date(2024, 12, 30)}, // crosses year
		{time.Date(2025, 1, 8, 23, 59, 0, 0, time.UTC), date(2025, 1, 6)},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, MondayOf(tc.in), "in=%s", tc.in)
		assert.Equal(t, tc.want.AddDate(0, 0, 6), SundayOf(tc.in), "in=%s", tc.in)
	}
}

func TestBuildWeeks_NormalizesToMondayAndSunday(t *testing.T) {
	weeks, warn := BuildWeeks(date(2025, 1, 8), date(2025, 1, 14))
	assert.Nil(t, warn)
	require.Len(t, weeks, 2)
	assert.Equal(t, date(2025, 1, 6), weeks[0].WeekStart)
	assert.Equal(t, date(2025, 1, 12), weeks[0].WeekEnd)
	assert.Equal(t, date(2025, 1, 13), weeks[1].WeekStart)
	assert.Equal(t, date(2025, 1, 19), weeks[1].WeekEnd)
	assert.Equal(t, "2025-W02 06 Jan", weeks[0].Label)
}

func TestBuildWeeks_SingleDay(t *testing.T) {
	weeks, warn := BuildWeeks(date(2025, 3, 5), date(2025, 3, 5))
	assert.Nil(t, warn)
	require.Len(t, weeks, 1)
	assert.True(t, weeks[0].Contains(date(2025, 3, 5)))
}

func TestBuildWeeks_Contiguous(t *testing.T) {
	weeks, warn := BuildWeeks(date(2024, 11, 20), date(2025, 4, 2))
	assert.Nil(t, warn)
	require.NotEmpty(t, weeks)
	for i := 1; i < len(weeks); i++ {
		assert.Equal(t, weeks[i-1].WeekEnd.AddDate(0, 0, 1), weeks[i].WeekStart, "gap at %d", i)
		assert.Equal(t, time.Monday, weeks[i].WeekStart.Weekday())
		assert.Equal(t, time.Sunday, weeks[i].WeekEnd.Weekday())
	}
}

func TestBuildWeeks_CapAt104(t *testing.T) {
	start := date(2025, 1, 6)
	end := start.AddDate(0, 0, 300*7-1)

	weeks, warn := BuildWeeks(start, end)
	require.Len(t, weeks, MaxWeeks)
	require.NotNil(t, warn)
	assert.Equal(t, 300, warn.RequestedWeeks)
	assert.Equal(t, MaxWeeks, warn.ReturnedWeeks)
	assert.Contains(t, warn.String(), "truncated")
	assert.Equal(t, start, weeks[0].WeekStart)
	assert.Equal(t, start.AddDate(0, 0, 7*103), weeks[103].WeekStart)
}

func TestBuildWeeks_ExactlyAtCap(t *testing.T) {
	start := date(2025, 1, 6)
	weeks, warn := BuildWeeks(start, start.AddDate(0, 0, MaxWeeks*7-1))
	assert.Nil(t, warn)
	assert.Len(t, weeks, MaxWeeks)
}

func TestBuildWeeksCapped_LowerCap(t *testing.T) {
	weeks, warn := BuildWeeksCapped(date(2025, 1, 6), date(2025, 3, 30), 4)
	assert.Len(t, weeks, 4)
	require.NotNil(t, warn)
	assert.Equal(t, 12, warn.RequestedWeeks)
}

func TestBuildWeeks_EndBeforeStart(t *testing.T) {
	weeks, warn := BuildWeeks(date(2025, 2, 1), date(2025, 1, 1))
	assert.Empty(t, weeks)
	assert.Nil(t, warn)
}

func TestBuildWeeks_Deterministic(t *testing.T) {
	a, _ := BuildWeeks(date(2025, 5, 1), date(2025, 7, 1))
	b, _ := BuildWeeks(date(2025, 5, 1), date(2025, 7, 1))
	assert.Equal(t, a, b)
}
