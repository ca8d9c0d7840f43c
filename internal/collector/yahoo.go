package collector

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"ETFSwitch/internal/httpclient"
	"ETFSwitch/internal/model"

	finance "github.com/piquette/finance-go"
	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
)

// YahooFetcher implements Fetcher using the Yahoo Finance chart API.
type YahooFetcher struct {
	// Suffix is appended to symbols that are not mapped, e.g. ".KS" for KRX listings.
	Suffix    string
	SymbolMap map[string]string
	// Client is the HTTP client installed into finance-go, which keeps a
	// single package-level client for every chart request.
	Client *http.Client
}

// NewYahooFetcher creates a new Yahoo Finance fetcher with optional proxy support.
func NewYahooFetcher(suffix, proxyURL string) *YahooFetcher {
	client := httpclient.New(proxyURL, 0)
	finance.SetHTTPClient(client)
	return &YahooFetcher{Suffix: suffix, SymbolMap: map[string]string{}, Client: client}
}

func (f *YahooFetcher) Name() string { return "yahoo" }

func (f *YahooFetcher) yahooSymbol(symbol string) string {
	if mapped, ok := f.SymbolMap[symbol]; ok {
		return mapped
	}
	return symbol + f.Suffix
}

func (f *YahooFetcher) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.PriceBar, error) {
	if now := time.Now(); end.After(now) {
		end = now
	}
	params := &chart.Params{
		Symbol:   f.yahooSymbol(symbol),
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
		Interval: datetime.OneDay,
	}

	var bars []model.PriceBar
	iter := chart.Get(params)
	for iter.Next() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		b := iter.Bar()
		o, _ := b.Open.Float64()
		h, _ := b.High.Float64()
		l, _ := b.Low.Float64()
		c, _ := b.Close.Float64()
		if o == 0 && h == 0 && l == 0 && c == 0 {
			continue // null bars on holidays
		}
		bars = append(bars, model.PriceBar{
			Date:  time.Unix(int64(b.Timestamp), 0).UTC(),
			Open:  o,
			High:  h,
			Low:   l,
			Close: c,
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("yahoo fetch %s: %w", symbol, err)
	}
	return bars, nil
}
