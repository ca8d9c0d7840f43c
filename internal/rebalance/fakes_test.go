package rebalance

import (
	"context"
	"errors"
	"sync"

	"ETFSwitch/internal/model"
	"ETFSwitch/internal/recorder"
)

type submission struct {
	Symbol string
	Shares int64
	Side   model.Side
}

type fakeBroker struct {
	mu          sync.Mutex
	token       string
	capital     float64
	capitalErr  error
	holdings    []model.Holding
	holdingsErr error
	reject      map[string]string
	fail        map[string]error
	submitted   []submission
}

func (b *fakeBroker) Authorize(token string) { b.token = token }

func (b *fakeBroker) AvailableCapital(_ context.Context) (float64, error) {
	return b.capital, b.capitalErr
}

func (b *fakeBroker) Holdings(_ context.Context) ([]model.Holding, error) {
	return b.holdings, b.holdingsErr
}

func (b *fakeBroker) Submit(_ context.Context, symbol string, shares int64, side model.Side) (model.OrderStatus, string, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.submitted = append(b.submitted, submission{Symbol: symbol, Shares: shares, Side: side})
	if err, ok := b.fail[symbol]; ok {
		return model.OrderFailure, "", err
	}
	if msg, ok := b.reject[symbol]; ok {
		return model.OrderFailure, msg, nil
	}
	return model.OrderSuccess, "accepted", nil
}

type fakeCandidates struct {
	list []model.Candidate
	err  error
}

func (c fakeCandidates) ListCandidates(_ context.Context) ([]model.Candidate, error) {
	return c.list, c.err
}

type fakeTokens map[string]string

func (f fakeTokens) AccessToken(_ context.Context, account string) (string, error) {
	tok, ok := f[account]
	if !ok {
		return "", errors.New("no token")
	}
	return tok, nil
}

type captureNotifier struct {
	messages []string
}

func (n *captureNotifier) Send(_ context.Context, text string) error {
	n.messages = append(n.messages, text)
	return nil
}

type memRecorder struct {
	runs   []recorder.RunRecord
	orders []recorder.OrderEvent
}

func (r *memRecorder) RecordRun(run *recorder.RunRecord) error {
	r.runs = append(r.runs, *run)
	return nil
}

func (r *memRecorder) RecordOrder(evt *recorder.OrderEvent) error {
	r.orders = append(r.orders, *evt)
	return nil
}

func (r *memRecorder) Close() error { return nil }
