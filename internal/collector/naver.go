package collector

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strconv"
	"strings"
	"time"

	"ETFSwitch/internal/httpclient"
	"ETFSwitch/internal/model"
)

const naverChartURL = "https://m.stock.naver.com/front-api/v1/external/chart/domestic/info"

var trailingComma = regexp.MustCompile(`,\s*\]`)

// NaverFetcher implements Fetcher using the Naver mobile chart endpoint, which
// covers KRX-listed ETFs by their six digit code.
type NaverFetcher struct {
	BaseURL string
	Client  *http.Client
}

// NewNaverFetcher creates a new fetcher with optional proxy support.
func NewNaverFetcher(proxyURL string) *NaverFetcher {
	return &NaverFetcher{
		BaseURL: naverChartURL,
		Client:  httpclient.New(proxyURL, 0),
	}
}

func (f *NaverFetcher) Name() string { return "naver" }

func (f *NaverFetcher) FetchDailyBars(ctx context.Context, symbol string, start, end time.Time) ([]model.PriceBar, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("requestType", "1")
	q.Set("timeframe", "day")
	q.Set("startTime", start.Format("20060102"))
	q.Set("endTime", end.Format("20060102"))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.BaseURL+"?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("naver fetch %s: %w", symbol, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("naver read body: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("naver: status %d, body: %s", resp.StatusCode, string(body))
	}
	return parseNaverChart(body)
}

// parseNaverChart decodes the chart payload: a JavaScript array literal whose
// first row holds column titles and every following row is
// [yyyymmdd, open, high, low, close, volume, foreign ratio].
func parseNaverChart(body []byte) ([]model.PriceBar, error) {
	text := strings.NewReplacer("\n", "", "\r", "", "\t", "", "'", `"`).Replace(string(body))
	text = trailingComma.ReplaceAllString(strings.TrimSpace(text), "]")

	var rows [][]interface{}
	if err := json.Unmarshal([]byte(text), &rows); err != nil {
		return nil, fmt.Errorf("naver decode: %w", err)
	}
	if len(rows) < 2 {
		return nil, fmt.Errorf("naver: no data returned")
	}

	bars := make([]model.PriceBar, 0, len(rows)-1)
	for i, row := range rows[1:] {
		if len(row) < 5 {
			return nil, fmt.Errorf("naver: row %d has %d columns", i+1, len(row))
		}
		ds, ok := row[0].(string)
		if !ok {
			return nil, fmt.Errorf("naver: row %d has no date", i+1)
		}
		date, err := time.Parse("20060102", strings.TrimSpace(ds))
		if err != nil {
			return nil, fmt.Errorf("naver: row %d: %w", i+1, err)
		}
		bars = append(bars, model.PriceBar{
			Date:  date,
			Open:  toFloat(row[1]),
			High:  toFloat(row[2]),
			Low:   toFloat(row[3]),
			Close: toFloat(row[4]),
		})
	}
	return bars, nil
}

func toFloat(v interface{}) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case int:
		return float64(n)
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0
		}
		return f
	default:
		return 0
	}
}
