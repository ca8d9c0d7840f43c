package model

// Candidate is one instrument of the tradable universe.
type Candidate struct {
	Symbol   string
	Category string
	Name     string
}

// ScoredCandidate is a candidate with its scores and, once allocated, its target position.
type ScoredCandidate struct {
	Candidate
	Momentum     float64
	Risk         float64
	CapitalRatio float64
	Price        float64
	Quantity     float64
}

// Holding is a currently held position. Quantity is always positive.
type Holding struct {
	Symbol   string
	Name     string
	Quantity int64
}
