package evm

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccumulate_RunningTotals(t *testing.T) {
	weeks := []WeekBucket{{PV: 100, EV: 0}, {PV: 200, EV: 50}, {PV: 0, EV: 25}}
	Accumulate(weeks)
	assert.Equal(t, []float64{100, 300, 300}, []float64{weeks[0].PVAcum, weeks[1].PVAcum, weeks[2].PVAcum})
	assert.Equal(t, []float64{0, 50, 75}, []float64{weeks[0].EVAcum, weeks[1].EVAcum, weeks[2].EVAcum})
}

func TestAccumulate_Monotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 200; i++ {
		weeks := make([]WeekBucket, 1+rng.Intn(60))
		for j := range weeks {
			weeks[j].PV = rng.Float64() * 1000
			if rng.Intn(3) == 0 {
				weeks[j].EV = rng.Float64() * 1000
			}
		}
		Accumulate(weeks)
		for j := 1; j < len(weeks); j++ {
			assert.GreaterOrEqual(t, weeks[j].PVAcum, weeks[j-1].PVAcum)
			assert.GreaterOrEqual(t, weeks[j].EVAcum, weeks[j-1].EVAcum)
		}
	}
}

func TestAccumulate_Empty(t *testing.T) {
	assert.Empty(t, Accumulate(nil))
}

func TestCalculate_SPIAndSV(t *testing.T) {
	weeks := Accumulate([]WeekBucket{{PV: 500, EV: 300}, {PV: 300, EV: 400}, {PV: 400}})
	m := Calculate(weeks, 1200)

	assert.Equal(t, 1, m.ReferenceWeek, "last week with earned value")
	assert.Equal(t, 800.0, m.PVTotal)
	assert.Equal(t, 700.0, m.EVTotal)
	require.NotNil(t, m.SPI)
	assert.InDelta(t, 0.875, *m.SPI, 1e-12)
	assert.Equal(t, -100.0, m.SV)
	assert.Equal(t, 1200.0, m.BAC)
	assert.Nil(t, m.CPI)
	assert.Nil(t, m.CV)
}

func TestCalculate_NoEarnedValueUsesLastWeek(t *testing.T) {
	weeks := Accumulate([]WeekBucket{{PV: 100}, {PV: 50}})
	m := Calculate(weeks, 150)
	assert.Equal(t, 1, m.ReferenceWeek)
	assert.Equal(t, 150.0, m.PVTotal)
	assert.Zero(t, m.EVTotal)
	require.NotNil(t, m.SPI)
	assert.Zero(t, *m.SPI)
	assert.Equal(t, -150.0, m.SV)
}

func TestCalculate_SPINilIffPVZero(t *testing.T) {
	weeks := Accumulate([]WeekBucket{{EV: 100}, {PV: 400}})
	m := Calculate(weeks, 400)
	assert.Equal(t, 0, m.ReferenceWeek)
	assert.Zero(t, m.PVTotal)
	assert.Nil(t, m.SPI)
	assert.Equal(t, 100.0, m.SV)

	both := Calculate(Accumulate([]WeekBucket{{}, {}}), 0)
	assert.Nil(t, both.SPI)
	assert.Zero(t, both.SV)
}

func TestCalculate_Empty(t *testing.T) {
	m := Calculate(nil, 10)
	assert.Equal(t, -1, m.ReferenceWeek)
	assert.Nil(t, m.SPI)
	assert.Equal(t, 10.0, m.BAC)
}
