package calculator

import (
	"fmt"
	"math"

	"ETFSwitch/internal/model"
)

// Ranges returns high-low for every bar.
//
// This is not Wilder's true range: the previous close is ignored. The scores
// are calibrated against this simplified range, see TrueRanges.
func Ranges(bars []model.PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		out[i] = b.High - b.Low
	}
	return out
}

// TrueRanges returns max(high-low, |high-prevClose|, |low-prevClose|). The
// first bar has no previous close and uses high-low.
func TrueRanges(bars []model.PriceBar) []float64 {
	out := make([]float64, len(bars))
	for i, b := range bars {
		tr := b.High - b.Low
		if i > 0 {
			prev := bars[i-1].Close
			tr = math.Max(tr, math.Max(math.Abs(b.High-prev), math.Abs(b.Low-prev)))
		}
		out[i] = tr
	}
	return out
}

// Risk returns the smoothed high-low range relative to the last close.
// A series that never moved scores 0.
func Risk(bars []model.PriceBar) (float64, error) {
	if len(bars) == 0 {
		return 0, fmt.Errorf("risk: %w", ErrInsufficientHistory)
	}
	smoothed, err := EWMA(Ranges(bars), LongestHorizon())
	if err != nil {
		return 0, fmt.Errorf("risk: %w", err)
	}
	last := bars[len(bars)-1].Close
	if last == 0 {
		return 0, fmt.Errorf("risk: last close is zero: %w", ErrDivisionByZero)
	}
	return smoothed / last, nil
}
