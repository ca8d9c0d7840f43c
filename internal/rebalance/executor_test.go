package rebalance

import (
	"context"
	"errors"
	"math"
	"testing"

	"ETFSwitch/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWholeShares(t *testing.T) {
	cases := []struct {
		in   float64
		want int64
	}{
		{0, 0},
		{-3, 0},
		{0.999, 0},
		{1, 1},
		{43.75, 43},
		{72.916666, 72},
		{math.NaN(), 0},
		{math.Inf(1), 0},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, WholeShares(c.in), "WholeShares(%v)", c.in)
	}
}

func TestExecute_IndependentOrders(t *testing.T) {
	broker := &fakeBroker{
		reject: map[string]string{"B": "insufficient cash"},
		fail:   map[string]error{"C": errors.New("connection reset")},
	}
	intents := []model.OrderIntent{
		{Symbol: "A", Quantity: 10.7, Side: model.SideBuy},
		{Symbol: "B", Quantity: 3, Side: model.SideBuy},
		{Symbol: "C", Quantity: 2, Side: model.SideBuy},
		{Symbol: "D", Quantity: 0.4, Side: model.SideBuy},
		{Symbol: "E", Quantity: 1, Side: model.SideBuy},
	}

	results := NewExecutor(broker).Execute(context.Background(), intents)
	require.Len(t, results, 5)

	assert.Equal(t, model.OrderSuccess, results[0].Status)
	assert.Equal(t, int64(10), results[0].Shares)
	assert.Equal(t, model.OrderFailure, results[1].Status)
	assert.Equal(t, "insufficient cash", results[1].Message)
	assert.Equal(t, model.OrderFailure, results[2].Status)
	assert.Equal(t, "connection reset", results[2].Message)
	assert.Equal(t, model.OrderSkipped, results[3].Status)
	assert.Equal(t, model.OrderSuccess, results[4].Status)

	assert.Equal(t, []submission{
		{Symbol: "A", Shares: 10, Side: model.SideBuy},
		{Symbol: "B", Shares: 3, Side: model.SideBuy},
		{Symbol: "C", Shares: 2, Side: model.SideBuy},
		{Symbol: "E", Shares: 1, Side: model.SideBuy},
	}, broker.submitted)
}

func TestExecute_CancelledContext(t *testing.T) {
	broker := &fakeBroker{}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := NewExecutor(broker).Execute(ctx, []model.OrderIntent{{Symbol: "A", Quantity: 1, Side: model.SideSell}})
	require.Len(t, results, 1)
	assert.Equal(t, model.OrderFailure, results[0].Status)
	assert.Empty(t, broker.submitted)
}
