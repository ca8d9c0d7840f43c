package recorder

import (
	"time"

	"ETFSwitch/internal/model"
)

// RunRecord holds the inputs and target book of one rebalance run.
type RunRecord struct {
	RunID     string
	StartedAt time.Time
	Capital   float64
	Limit     int
	DryRun    bool
	Book      []model.ScoredCandidate
	Sells     int
	Buys      int
	Error     string
}

// OrderEvent records the outcome of one submitted (or skipped) order.
type OrderEvent struct {
	RunID  string
	Result model.OrderResult
}

// Recorder persists run history for later review.
type Recorder interface {
	RecordRun(run *RunRecord) error
	RecordOrder(evt *OrderEvent) error
	Close() error
}
