package strategy

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math"
	"sort"

	"ETFSwitch/internal/calculator"
	"ETFSwitch/internal/model"
)

// SeriesSource supplies the price history a candidate is scored on.
type SeriesSource interface {
	Fetch(ctx context.Context, symbol string) (*model.PriceSeries, error)
}

// Ranker scores candidates by momentum and keeps the strongest per category.
type Ranker struct {
	Prices SeriesSource
}

// NewRanker creates a Ranker reading prices from src.
func NewRanker(src SeriesSource) *Ranker {
	return &Ranker{Prices: src}
}

// Score attaches momentum, risk and last close to every candidate. Candidates
// whose history is too short are skipped; any fetch failure aborts.
func (r *Ranker) Score(ctx context.Context, candidates []model.Candidate) ([]model.ScoredCandidate, error) {
	scored := make([]model.ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		series, err := r.Prices.Fetch(ctx, c.Symbol)
		if err != nil {
			return nil, fmt.Errorf("score %s: %w", c.Symbol, err)
		}
		momentum, err := calculator.Momentum(series.Closes())
		if errors.Is(err, calculator.ErrInsufficientHistory) {
			log.Printf("[WARN] %s (%s) excluded: %v", c.Symbol, c.Name, err)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("momentum %s: %w", c.Symbol, err)
		}
		risk, err := calculator.Risk(series.Bars)
		if errors.Is(err, calculator.ErrInsufficientHistory) {
			log.Printf("[WARN] %s (%s) excluded: %v", c.Symbol, c.Name, err)
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("risk %s: %w", c.Symbol, err)
		}
		scored = append(scored, model.ScoredCandidate{
			Candidate: c,
			Momentum:  momentum,
			Risk:      risk,
			Price:     series.LastClose(),
		})
	}
	return scored, nil
}

// Rank scores candidates and returns at most limit positive-momentum entries
// per category, ordered by category then momentum descending.
func (r *Ranker) Rank(ctx context.Context, candidates []model.Candidate, limit int) ([]model.ScoredCandidate, error) {
	if limit <= 0 {
		return []model.ScoredCandidate{}, nil
	}
	scored, err := r.Score(ctx, candidates)
	if err != nil {
		return nil, err
	}
	return Select(scored, limit), nil
}

// Select applies the momentum filter and the per-category cap to scored candidates.
func Select(scored []model.ScoredCandidate, limit int) []model.ScoredCandidate {
	out := []model.ScoredCandidate{}
	if limit <= 0 {
		return out
	}

	byCategory := make(map[string][]model.ScoredCandidate)
	for _, s := range scored {
		if !(s.Momentum > 0) {
			continue
		}
		byCategory[s.Category] = append(byCategory[s.Category], s)
	}
	for _, group := range byCategory {
		sortByMomentum(group)
		if len(group) > limit {
			group = group[:limit]
		}
		out = append(out, group...)
	}

	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Category != out[j].Category {
			return out[i].Category < out[j].Category
		}
		if out[i].Momentum != out[j].Momentum {
			return out[i].Momentum > out[j].Momentum
		}
		return out[i].Symbol < out[j].Symbol
	})
	return out
}

func sortByMomentum(group []model.ScoredCandidate) {
	sort.SliceStable(group, func(i, j int) bool {
		if group[i].Momentum != group[j].Momentum {
			return group[i].Momentum > group[j].Momentum
		}
		return group[i].Symbol < group[j].Symbol
	})
}

// PerCategoryLimit returns how many positions each category may hold: whole
// capital slots divided evenly across the categories in the universe.
func PerCategoryLimit(capital, slotCapital float64, candidates []model.Candidate) int {
	categories := countCategories(len(candidates), func(i int) string { return candidates[i].Category })
	if slotCapital <= 0 || categories == 0 || capital <= 0 {
		return 0
	}
	slots := math.Floor(capital / slotCapital)
	return int(math.Floor(slots / float64(categories)))
}

func countCategories(n int, category func(i int) string) int {
	seen := make(map[string]struct{}, n)
	for i := 0; i < n; i++ {
		seen[category(i)] = struct{}{}
	}
	return len(seen)
}
