package calculator

import (
	"errors"
	"sort"
)

// EWMA returns the final value of the adjusted exponentially weighted mean of
// values, with alpha = 2/(span+1). Weights are (1-alpha)^i for the i-th most
// recent value, normalized by their sum.
func EWMA(values []float64, span int) (float64, error) {
	if span < 1 {
		return 0, errors.New("span must be >= 1")
	}
	if len(values) == 0 {
		return 0, ErrInsufficientHistory
	}
	decay := 1 - 2.0/float64(span+1)
	var num, den float64
	for _, v := range values {
		num = v + decay*num
		den = 1 + decay*den
	}
	return num / den, nil
}

// Median returns the median of values; for an even count it is the mean of the
// two middle values. The input is not modified.
func Median(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, errors.New("median of empty slice")
	}
	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid], nil
	}
	return (sorted[mid-1] + sorted[mid]) / 2, nil
}
