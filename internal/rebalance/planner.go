package rebalance

import (
	"context"
	"fmt"
	"log"

	"ETFSwitch/internal/collector"
	"ETFSwitch/internal/model"
	"ETFSwitch/internal/strategy"
)

// Plan is the outcome of one allocation pass.
type Plan struct {
	Capital float64
	Limit   int
	Book    []model.ScoredCandidate
	Sells   []model.OrderIntent
	Buys    []model.OrderIntent
}

// Planner turns a candidate universe and the current holdings into order intents.
type Planner struct {
	Fetcher collector.Fetcher
	Workers int
}

// NewPlanner creates a Planner that scores candidates on bars from fetcher.
// With workers > 1 price history is prefetched concurrently before scoring.
func NewPlanner(fetcher collector.Fetcher, workers int) *Planner {
	return &Planner{Fetcher: fetcher, Workers: workers}
}

// Plan ranks and allocates the universe against capital, then diffs the
// resulting target book against holdings. Each call reads prices through its
// own cache, so every plan scores on freshly fetched bars.
func (p *Planner) Plan(ctx context.Context, candidates []model.Candidate, holdings []model.Holding, capital, slotCapital float64) (*Plan, error) {
	limit := strategy.PerCategoryLimit(capital, slotCapital, candidates)
	log.Printf("[INFO] planning %d candidates, capital %.0f, per-category limit %d", len(candidates), capital, limit)

	cache := collector.NewCache(p.Fetcher)
	if limit > 0 && p.Workers > 1 {
		symbols := make([]string, len(candidates))
		for i, c := range candidates {
			symbols[i] = c.Symbol
		}
		if err := cache.Prefetch(ctx, symbols, p.Workers); err != nil {
			return nil, fmt.Errorf("prefetch prices: %w", err)
		}
	}

	ranked, err := strategy.NewRanker(cache).Rank(ctx, candidates, limit)
	if err != nil {
		return nil, fmt.Errorf("rank candidates: %w", err)
	}
	book, err := strategy.Allocate(ranked, limit, capital)
	if err != nil {
		return nil, err
	}
	sells, buys := Diff(holdings, book)
	return &Plan{
		Capital: capital,
		Limit:   limit,
		Book:    book,
		Sells:   sells,
		Buys:    buys,
	}, nil
}
