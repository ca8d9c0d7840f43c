package calculator

import "fmt"

// TradingDaysPerYear annualizes per-day momentum.
const TradingDaysPerYear = 252

// fibonacciTerms is the length of the generated sequence the horizons come from.
const fibonacciTerms = 13

var horizons = fibonacciHorizons(fibonacciTerms)

// fibonacciHorizons generates 0,1,1,2,... up to term n and drops the first
// three entries, leaving the proper sequence starting at 2.
func fibonacciHorizons(n int) []int {
	size := n + 1
	if size < 3 {
		size = 3
	}
	fib := make([]int, size)
	fib[1], fib[2] = 1, 1
	for i := 3; i <= n; i++ {
		fib[i] = fib[i-1] + fib[i-2]
	}
	return fib[3:]
}

// Horizons returns the look-back lengths used for momentum: 2,3,5,...,233.
func Horizons() []int {
	return append([]int(nil), horizons...)
}

// LongestHorizon is the largest look-back, also used as the risk smoothing span.
func LongestHorizon() int {
	return horizons[len(horizons)-1]
}

// Momentum averages the per-day trailing return over every horizon the series
// is long enough for, annualized to trading days. Horizons longer than the
// series are skipped, not counted as zero.
func Momentum(closes []float64) (float64, error) {
	n := len(closes)
	var sum float64
	var used int
	for _, h := range horizons {
		if n < h {
			continue
		}
		base := closes[n-h]
		if base == 0 {
			continue
		}
		sum += (closes[n-1]/base - 1) / float64(h)
		used++
	}
	if used == 0 {
		return 0, fmt.Errorf("momentum over %d closes: %w", n, ErrInsufficientHistory)
	}
	return sum / float64(used) * TradingDaysPerYear, nil
}
