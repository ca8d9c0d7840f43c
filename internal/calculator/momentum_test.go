package calculator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func linearCloses(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	return closes
}

func TestHorizons(t *testing.T) {
	require.Equal(t, []int{2, 3, 5, 8, 13, 21, 34, 55, 89, 144, 233}, Horizons())
	require.Equal(t, 233, LongestHorizon())
}

func TestHorizons_ReturnsCopy(t *testing.T) {
	h := Horizons()
	h[0] = 999
	require.Equal(t, 2, Horizons()[0])
}

func TestMomentum_Deterministic300Bars(t *testing.T) {
	score, err := Momentum(linearCloses(300))
	require.NoError(t, err)
	require.InDelta(t, 0.7012375458625617, score, 1e-9)

	again, err := Momentum(linearCloses(300))
	require.NoError(t, err)
	require.Equal(t, score, again)
}

func TestMomentum_SkipsHorizonsLongerThanSeries(t *testing.T) {
	// 10 closes only cover horizons 2, 3, 5 and 8.
	score, err := Momentum(linearCloses(10))
	require.NoError(t, err)
	require.InDelta(t, 1.7046312076232384, score, 1e-9)
}

func TestMomentum_TwoBars(t *testing.T) {
	score, err := Momentum([]float64{100, 150})
	require.NoError(t, err)
	require.InDelta(t, 63.0, score, 1e-9)
}

func TestMomentum_InsufficientHistory(t *testing.T) {
	tests := []struct {
		name   string
		closes []float64
	}{
		{"empty", nil},
		{"single bar", []float64{100}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Momentum(tt.closes)
			require.True(t, errors.Is(err, ErrInsufficientHistory), "got %v", err)
		})
	}
}

func TestMomentum_FallingPricesNegative(t *testing.T) {
	closes := linearCloses(60)
	for i, j := 0, len(closes)-1; i < j; i, j = i+1, j-1 {
		closes[i], closes[j] = closes[j], closes[i]
	}
	score, err := Momentum(closes)
	require.NoError(t, err)
	require.Less(t, score, 0.0)
}

func TestMomentum_FlatIsZero(t *testing.T) {
	closes := make([]float64, 250)
	for i := range closes {
		closes[i] = 42
	}
	score, err := Momentum(closes)
	require.NoError(t, err)
	require.Equal(t, 0.0, score)
}
