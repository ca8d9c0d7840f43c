package calculator

import (
	"errors"
	"testing"
	"time"

	"ETFSwitch/internal/model"

	"github.com/stretchr/testify/require"
)

func bars(n int, f func(i int) (high, low, close float64)) []model.PriceBar {
	start := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	out := make([]model.PriceBar, n)
	for i := range out {
		h, l, c := f(i)
		out[i] = model.PriceBar{Date: start.AddDate(0, 0, i), Open: c, High: h, Low: l, Close: c}
	}
	return out
}

func TestEWMA_KnownSequence(t *testing.T) {
	// span 3 → alpha 0.5, weights 1, .5, .25, .125 from the newest value.
	// (13 + 6 + 2.75 + 1.25) / 1.875
	v, err := EWMA([]float64{10, 11, 12, 13}, 3)
	require.NoError(t, err)
	require.InDelta(t, 23/1.875, v, 1e-12)
}

func TestEWMA_ConstantSeries(t *testing.T) {
	v, err := EWMA([]float64{2, 2, 2, 2, 2}, 233)
	require.NoError(t, err)
	require.InDelta(t, 2.0, v, 1e-12)
}

func TestEWMA_Errors(t *testing.T) {
	_, err := EWMA(nil, 3)
	require.ErrorIs(t, err, ErrInsufficientHistory)
	_, err = EWMA([]float64{1}, 0)
	require.Error(t, err)
}

func TestRisk_ConstantRange(t *testing.T) {
	series := bars(250, func(int) (float64, float64, float64) { return 101, 99, 100 })
	risk, err := Risk(series)
	require.NoError(t, err)
	require.InDelta(t, 0.02, risk, 1e-12)
}

func TestRisk_PositiveForMovingSeries(t *testing.T) {
	series := bars(300, func(i int) (float64, float64, float64) {
		c := 100 + float64(i%7)
		return c + 1 + float64(i%3), c - 1, c
	})
	risk, err := Risk(series)
	require.NoError(t, err)
	require.Greater(t, risk, 0.0)
}

func TestRisk_FlatSeriesIsZero(t *testing.T) {
	series := bars(250, func(int) (float64, float64, float64) { return 50, 50, 50 })
	risk, err := Risk(series)
	require.NoError(t, err)
	require.Equal(t, 0.0, risk)
}

func TestRisk_Errors(t *testing.T) {
	_, err := Risk(nil)
	require.True(t, errors.Is(err, ErrInsufficientHistory))

	zero := bars(3, func(int) (float64, float64, float64) { return 1, 0, 0 })
	_, err = Risk(zero)
	require.True(t, errors.Is(err, ErrDivisionByZero))
}

func TestRanges_IgnoresGaps(t *testing.T) {
	series := []model.PriceBar{
		{High: 11, Low: 9, Close: 10},
		{High: 21, Low: 19, Close: 20}, // gapped up by 10
	}
	require.Equal(t, []float64{2, 2}, Ranges(series))
	require.Equal(t, []float64{2, 11}, TrueRanges(series))
}

func TestMedian(t *testing.T) {
	in := []float64{3, 1, 2}
	m, err := Median(in)
	require.NoError(t, err)
	require.Equal(t, 2.0, m)
	require.Equal(t, []float64{3, 1, 2}, in)

	m, err = Median([]float64{4, 1, 3, 2})
	require.NoError(t, err)
	require.Equal(t, 2.5, m)

	_, err = Median(nil)
	require.Error(t, err)
}
