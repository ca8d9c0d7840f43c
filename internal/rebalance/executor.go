package rebalance

import (
	"context"
	"log"
	"math"

	"ETFSwitch/internal/model"

	"github.com/shopspring/decimal"
)

// Broker is the brokerage account the rebalance trades in.
type Broker interface {
	Authorize(accessToken string)
	AvailableCapital(ctx context.Context) (float64, error)
	Holdings(ctx context.Context) ([]model.Holding, error)
	Submit(ctx context.Context, symbol string, shares int64, side model.Side) (model.OrderStatus, string, error)
}

// Executor submits order intents one by one. A failed order never stops the
// ones after it, and nothing is rolled back.
type Executor struct {
	Broker Broker
}

// NewExecutor creates an Executor trading through broker.
func NewExecutor(broker Broker) *Executor {
	return &Executor{Broker: broker}
}

// Execute submits every intent and reports each outcome in order.
func (e *Executor) Execute(ctx context.Context, intents []model.OrderIntent) []model.OrderResult {
	results := make([]model.OrderResult, 0, len(intents))
	for _, in := range intents {
		results = append(results, e.submit(ctx, in))
	}
	return results
}

func (e *Executor) submit(ctx context.Context, in model.OrderIntent) model.OrderResult {
	res := model.OrderResult{Intent: in, Shares: WholeShares(in.Quantity)}
	if res.Shares <= 0 {
		res.Status = model.OrderSkipped
		res.Message = "quantity rounds down to zero shares"
		log.Printf("[WARN] %s %s skipped: %.3f shares", in.Side, in.Symbol, in.Quantity)
		return res
	}
	if err := ctx.Err(); err != nil {
		res.Status = model.OrderFailure
		res.Message = err.Error()
		return res
	}

	status, msg, err := e.Broker.Submit(ctx, in.Symbol, res.Shares, in.Side)
	if err != nil {
		res.Status = model.OrderFailure
		res.Message = err.Error()
		log.Printf("[ERROR] %s %s x%d: %v", in.Side, in.Symbol, res.Shares, err)
		return res
	}
	res.Status = status
	res.Message = msg
	log.Printf("[INFO] %s %s x%d: %s %s", in.Side, in.Symbol, res.Shares, status, msg)
	return res
}

// WholeShares floors a fractional share quantity.
func WholeShares(quantity float64) int64 {
	if quantity <= 0 || math.IsNaN(quantity) || math.IsInf(quantity, 0) {
		return 0
	}
	return decimal.NewFromFloat(quantity).Floor().IntPart()
}
