package collector

import (
	"context"
	"fmt"
	"log"
	"math"
	"sort"
	"sync"
	"time"

	"ETFSwitch/internal/model"
)

// farFuture is the open end of the requested window; sources clamp it to today.
var farFuture = time.Date(2099, 12, 31, 0, 0, 0, 0, time.UTC)

// Cache memoizes one year of daily bars per symbol for the lifetime of the
// process. Concurrent callers for the same symbol share a single fetch.
// Failed fetches are not cached.
type Cache struct {
	Fetcher Fetcher
	Now     func() time.Time

	mu      sync.Mutex
	entries map[string]*cacheEntry
}

type cacheEntry struct {
	done   chan struct{}
	series *model.PriceSeries
	err    error
}

// NewCache creates a Cache backed by fetcher.
func NewCache(fetcher Fetcher) *Cache {
	return &Cache{
		Fetcher: fetcher,
		Now:     time.Now,
		entries: make(map[string]*cacheEntry),
	}
}

// Fetch returns the trailing one-year series for symbol, fetching it on first use.
func (c *Cache) Fetch(ctx context.Context, symbol string) (*model.PriceSeries, error) {
	c.mu.Lock()
	if e, ok := c.entries[symbol]; ok {
		c.mu.Unlock()
		select {
		case <-e.done:
			return e.series, e.err
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	e := &cacheEntry{done: make(chan struct{})}
	c.entries[symbol] = e
	c.mu.Unlock()

	e.series, e.err = c.load(ctx, symbol)
	if e.err != nil {
		c.mu.Lock()
		delete(c.entries, symbol)
		c.mu.Unlock()
	}
	close(e.done)
	return e.series, e.err
}

// Prefetch warms the cache for symbols using at most workers concurrent fetches.
// It returns the first error encountered.
func (c *Cache) Prefetch(ctx context.Context, symbols []string, workers int) error {
	if workers < 1 {
		workers = 1
	}
	var (
		wg       sync.WaitGroup
		once     sync.Once
		firstErr error
	)
	sem := make(chan struct{}, workers)
	for _, s := range symbols {
		wg.Add(1)
		sem <- struct{}{}
		go func(symbol string) {
			defer wg.Done()
			defer func() { <-sem }()
			if _, err := c.Fetch(ctx, symbol); err != nil {
				once.Do(func() { firstErr = err })
			}
		}(s)
	}
	wg.Wait()
	return firstErr
}

// Len returns the number of cached (or in-flight) symbols.
func (c *Cache) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.entries)
}

func (c *Cache) load(ctx context.Context, symbol string) (*model.PriceSeries, error) {
	now := c.Now().UTC()
	start := now.AddDate(-1, 0, 0)
	raw, err := c.Fetcher.FetchDailyBars(ctx, symbol, start, farFuture)
	if err != nil {
		return nil, fmt.Errorf("%s: %s: %w: %w", c.Fetcher.Name(), symbol, ErrDataUnavailable, err)
	}
	bars := normalizeBars(raw)
	if len(bars) == 0 {
		return nil, fmt.Errorf("%s: %s: no usable bars: %w", c.Fetcher.Name(), symbol, ErrDataUnavailable)
	}
	if dropped := len(raw) - len(bars); dropped > 0 {
		log.Printf("[WARN] %s: dropped %d malformed or duplicate bars", symbol, dropped)
	}
	return &model.PriceSeries{Symbol: symbol, Bars: bars, FetchedAt: now}, nil
}

// normalizeBars drops bars without a usable close, high or low, sorts by date
// and keeps the last bar seen for any repeated date.
func normalizeBars(raw []model.PriceBar) []model.PriceBar {
	bars := make([]model.PriceBar, 0, len(raw))
	for _, b := range raw {
		if !positive(b.Close) || !positive(b.High) || !positive(b.Low) || b.High < b.Low {
			continue
		}
		bars = append(bars, b)
	}
	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	out := bars[:0]
	for _, b := range bars {
		if n := len(out); n > 0 && out[n-1].Date.Equal(b.Date) {
			out[n-1] = b
			continue
		}
		out = append(out, b)
	}
	return out
}

func positive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0)
}
