package strategy

import (
	"fmt"
	"math"

	"ETFSwitch/internal/calculator"
	"ETFSwitch/internal/model"
)

// Allocate assigns each ranked candidate a capital ratio and share quantity.
//
// The ratio inverse-weights by risk against the median risk of the ranked set,
// capped at one full slot, and divides by the total slot count
// (categories present * limit):
//
//	ratio = min(1, median/risk) / (categories*limit)
//	quantity = ratio * capital / price
//
// Quantities are left fractional. The input slice is not modified.
func Allocate(ranked []model.ScoredCandidate, limit int, capital float64) ([]model.ScoredCandidate, error) {
	book := make([]model.ScoredCandidate, len(ranked))
	copy(book, ranked)
	if len(book) == 0 {
		return book, nil
	}

	slots := countCategories(len(book), func(i int) string { return book[i].Category }) * limit
	if slots <= 0 {
		return nil, fmt.Errorf("allocate: %d slots: %w", slots, calculator.ErrDivisionByZero)
	}

	risks := make([]float64, len(book))
	for i, c := range book {
		if c.Risk == 0 {
			return nil, fmt.Errorf("allocate %s: zero risk: %w", c.Symbol, calculator.ErrDivisionByZero)
		}
		if c.Price <= 0 {
			return nil, fmt.Errorf("allocate %s: invalid price %v", c.Symbol, c.Price)
		}
		risks[i] = c.Risk
	}
	median, err := calculator.Median(risks)
	if err != nil {
		return nil, fmt.Errorf("allocate: %w", err)
	}

	for i := range book {
		book[i].CapitalRatio = math.Min(1, median/book[i].Risk) / float64(slots)
		book[i].Quantity = book[i].CapitalRatio * capital / book[i].Price
	}
	return book, nil
}
