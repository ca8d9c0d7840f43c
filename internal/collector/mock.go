package collector

import (
	"context"
	"fmt"
	"sync"
	"time"

	"ETFSwitch/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Bars map[string][]model.PriceBar
	Errs map[string]error

	mu    sync.Mutex
	calls map[string]int
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailyBars(_ context.Context, symbol string, _, _ time.Time) ([]model.PriceBar, error) {
	m.mu.Lock()
	if m.calls == nil {
		m.calls = make(map[string]int)
	}
	m.calls[symbol]++
	m.mu.Unlock()

	if err, ok := m.Errs[symbol]; ok {
		return nil, err
	}
	bars, ok := m.Bars[symbol]
	if !ok {
		return nil, fmt.Errorf("mock: unknown symbol %s", symbol)
	}
	return append([]model.PriceBar(nil), bars...), nil
}

// Calls reports how many times symbol was fetched.
func (m *MockFetcher) Calls(symbol string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.calls[symbol]
}

// GenerateBars builds count daily bars ending yesterday whose close grows by
// drift per bar and whose high/low sit spread above and below the close.
func GenerateBars(basePrice, drift, spread float64, count int) []model.PriceBar {
	bars := make([]model.PriceBar, count)
	today := time.Now().UTC().Truncate(24 * time.Hour)
	for i := 0; i < count; i++ {
		p := basePrice * (1 + float64(i)*drift)
		bars[i] = model.PriceBar{
			Date:  today.AddDate(0, 0, -(count - i)),
			Open:  p,
			High:  p * (1 + spread),
			Low:   p * (1 - spread),
			Close: p,
		}
	}
	return bars
}
