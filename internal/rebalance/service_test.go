package rebalance

import (
	"context"
	"errors"
	"strings"
	"testing"

	"ETFSwitch/internal/collector"
	"ETFSwitch/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serviceFixture struct {
	svc      *Service
	broker   *fakeBroker
	notifier *captureNotifier
	rec      *memRecorder
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	candidates, fetcher := testUniverse()
	f := &serviceFixture{
		broker: &fakeBroker{
			capital: 40_000_000,
			holdings: []model.Holding{
				{Symbol: "EQ2", Name: "Equity two", Quantity: 5},
				{Symbol: "OLD", Name: "Retired", Quantity: 7},
			},
		},
		notifier: &captureNotifier{},
		rec:      &memRecorder{},
	}
	f.svc = NewService("12345678", 10_000_000, f.broker, fakeCandidates{list: candidates},
		fakeTokens{"12345678": "tok"}, NewPlanner(fetcher, 2), f.notifier, f.rec)
	return f
}

func TestService_Run(t *testing.T) {
	f := newServiceFixture(t)
	f.broker.reject = map[string]string{"BD1": "insufficient cash"}

	report, err := f.svc.Run(context.Background(), false)
	require.NoError(t, err)

	assert.Equal(t, "tok", f.broker.token)
	assert.NotEmpty(t, report.RunID)
	require.NotNil(t, report.Plan)

	require.Len(t, f.broker.submitted, 3)
	assert.Equal(t, submission{Symbol: "OLD", Shares: 7, Side: model.SideSell}, f.broker.submitted[0])
	assert.Equal(t, "BD1", f.broker.submitted[1].Symbol)
	assert.Equal(t, "EQ1", f.broker.submitted[2].Symbol)
	assert.Equal(t, model.SideBuy, f.broker.submitted[2].Side)

	require.Len(t, report.Buys, 2)
	assert.Equal(t, model.OrderFailure, report.Buys[0].Status)
	assert.Equal(t, model.OrderSuccess, report.Buys[1].Status)

	require.Len(t, f.rec.runs, 1)
	assert.Equal(t, report.RunID, f.rec.runs[0].RunID)
	assert.Equal(t, 40_000_000.0, f.rec.runs[0].Capital)
	assert.Equal(t, 2, f.rec.runs[0].Limit)
	assert.Len(t, f.rec.runs[0].Book, 3)
	assert.Len(t, f.rec.orders, 3)

	msgs := f.notifier.messages
	require.Len(t, msgs, 5)
	assert.Contains(t, msgs[0], "ETF switching")
	assert.Contains(t, msgs[1], "₩40,000,000")
	assert.Contains(t, msgs[2], "Target book")
	assert.True(t, strings.HasPrefix(msgs[3], "👋 Sell"))
	assert.Contains(t, msgs[4], "insufficient cash")
}

func TestService_DryRunSubmitsNothing(t *testing.T) {
	f := newServiceFixture(t)

	report, err := f.svc.Run(context.Background(), true)
	require.NoError(t, err)
	assert.Empty(t, f.broker.submitted)
	assert.Empty(t, report.Sells)
	assert.Empty(t, report.Buys)
	require.Len(t, f.rec.runs, 1)
	assert.True(t, f.rec.runs[0].DryRun)
	assert.Empty(t, f.rec.orders)

	last := f.notifier.messages[len(f.notifier.messages)-1]
	assert.Contains(t, last, "Would buy")
}

func TestService_MissingTokenStopsRun(t *testing.T) {
	f := newServiceFixture(t)
	f.svc.Account = "99999999"

	_, err := f.svc.Run(context.Background(), false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "access token")
	assert.Empty(t, f.broker.submitted)

	last := f.notifier.messages[len(f.notifier.messages)-1]
	assert.Contains(t, last, "Run failed")
	require.Len(t, f.rec.runs, 1)
	assert.NotEmpty(t, f.rec.runs[0].Error)
}

func TestService_CollaboratorErrorsSurface(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name  string
		setup func(f *serviceFixture)
		want  string
	}{
		{"capital", func(f *serviceFixture) { f.broker.capitalErr = boom }, "available capital"},
		{"holdings", func(f *serviceFixture) { f.broker.holdingsErr = boom }, "holdings"},
		{"candidates", func(f *serviceFixture) { f.svc.Candidates = fakeCandidates{err: boom} }, "candidates"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newServiceFixture(t)
			tt.setup(f)
			_, err := f.svc.Run(context.Background(), false)
			require.Error(t, err)
			assert.ErrorIs(t, err, boom)
			assert.Contains(t, err.Error(), tt.want)
			assert.Empty(t, f.broker.submitted)
		})
	}
}

func TestService_Holdings(t *testing.T) {
	f := newServiceFixture(t)
	holdings, err := f.svc.Holdings(context.Background())
	require.NoError(t, err)
	assert.Len(t, holdings, 2)
	assert.Equal(t, "tok", f.broker.token)
}

func TestService_EachRunRefetchesPrices(t *testing.T) {
	fetcher := &collector.MockFetcher{Bars: map[string][]model.PriceBar{
		"A": collector.GenerateBars(100, 0.001, 0.01, 250),
	}}
	broker := &fakeBroker{capital: 10_000_000}
	svc := NewService("1", 10_000_000, broker,
		fakeCandidates{list: []model.Candidate{{Symbol: "A", Category: "equity"}}},
		fakeTokens{"1": "tok"}, NewPlanner(fetcher, 1), &captureNotifier{}, &memRecorder{})

	first, err := svc.Run(context.Background(), true)
	require.NoError(t, err)
	require.Len(t, first.Plan.Book, 1)
	assert.Equal(t, 1, fetcher.Calls("A"))

	fetcher.Bars["A"] = collector.GenerateBars(100, -0.001, 0.01, 250)
	second, err := svc.Run(context.Background(), true)
	require.NoError(t, err)
	assert.Equal(t, 2, fetcher.Calls("A"))
	assert.Empty(t, second.Plan.Book)
	assert.Empty(t, second.Plan.Buys)
}
