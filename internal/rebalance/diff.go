package rebalance

import (
	"sort"

	"ETFSwitch/internal/model"
)

// Match pairs a held position with its target entry.
type Match struct {
	Holding model.Holding
	Target  model.ScoredCandidate
}

// Partition is the three-way result of joining holdings and the target book by symbol.
type Partition struct {
	HeldOnly   []model.Holding
	TargetOnly []model.ScoredCandidate
	Matched    []Match
}

// Join performs a full outer join of holdings and book keyed by symbol.
// Repeated holdings of one symbol are summed; a repeated target symbol keeps
// its first entry. Every partition is sorted by symbol.
func Join(holdings []model.Holding, book []model.ScoredCandidate) Partition {
	held := make(map[string]model.Holding, len(holdings))
	for _, h := range holdings {
		if prev, ok := held[h.Symbol]; ok {
			prev.Quantity += h.Quantity
			held[h.Symbol] = prev
			continue
		}
		held[h.Symbol] = h
	}
	target := make(map[string]model.ScoredCandidate, len(book))
	for _, b := range book {
		if _, ok := target[b.Symbol]; !ok {
			target[b.Symbol] = b
		}
	}

	var p Partition
	for symbol, h := range held {
		if t, ok := target[symbol]; ok {
			p.Matched = append(p.Matched, Match{Holding: h, Target: t})
			continue
		}
		p.HeldOnly = append(p.HeldOnly, h)
	}
	for symbol, t := range target {
		if _, ok := held[symbol]; !ok {
			p.TargetOnly = append(p.TargetOnly, t)
		}
	}

	sort.Slice(p.HeldOnly, func(i, j int) bool { return p.HeldOnly[i].Symbol < p.HeldOnly[j].Symbol })
	sort.Slice(p.TargetOnly, func(i, j int) bool { return p.TargetOnly[i].Symbol < p.TargetOnly[j].Symbol })
	sort.Slice(p.Matched, func(i, j int) bool { return p.Matched[i].Holding.Symbol < p.Matched[j].Holding.Symbol })
	return p
}

// Diff reconciles holdings against the target book. Positions held but no
// longer targeted are sold in full, targeted positions not yet held are bought
// in full, and positions both held and targeted are left alone.
func Diff(holdings []model.Holding, book []model.ScoredCandidate) (sells, buys []model.OrderIntent) {
	p := Join(holdings, book)
	sells = make([]model.OrderIntent, 0, len(p.HeldOnly))
	for _, h := range p.HeldOnly {
		sells = append(sells, model.OrderIntent{
			Symbol:   h.Symbol,
			Name:     h.Name,
			Quantity: float64(h.Quantity),
			Side:     model.SideSell,
		})
	}
	buys = make([]model.OrderIntent, 0, len(p.TargetOnly))
	for _, t := range p.TargetOnly {
		buys = append(buys, model.OrderIntent{
			Symbol:   t.Symbol,
			Name:     t.Name,
			Quantity: t.Quantity,
			Side:     model.SideBuy,
		})
	}
	return sells, buys
}
