package collector

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const naverSample = `[['날짜', '시가', '고가', '저가', '종가', '거래량', '외국인소진율'],
		["20250103", 10100, 10250, 10050, 10200, 120031, 1.52],
		["20250102", 10000, 10150, 9950, 10100, 98000, 1.49],
		]`

func TestParseNaverChart(t *testing.T) {
	bars, err := parseNaverChart([]byte(naverSample))
	require.NoError(t, err)
	require.Len(t, bars, 2)
	assert.Equal(t, time.Date(2025, 1, 3, 0, 0, 0, 0, time.UTC), bars[0].Date)
	assert.Equal(t, 10250.0, bars[0].High)
	assert.Equal(t, 9950.0, bars[1].Low)
	assert.Equal(t, 10100.0, bars[1].Close)
}

func TestParseNaverChart_Malformed(t *testing.T) {
	tests := map[string]string{
		"not an array": `<html>maintenance</html>`,
		"header only":  `[['날짜', '시가', '고가', '저가', '종가']]`,
		"short row":    `[['h'], ["20250102", 1, 2]]`,
		"bad date":     `[['h'], ["2025-01-02", 1, 2, 0.5, 1.5]]`,
	}
	for name, body := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := parseNaverChart([]byte(body))
			assert.Error(t, err)
		})
	}
}

func TestNaverFetcher_FetchDailyBars(t *testing.T) {
	var gotQuery map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{}
		for k := range r.URL.Query() {
			gotQuery[k] = r.URL.Query().Get(k)
		}
		_, _ = w.Write([]byte(naverSample))
	}))
	defer srv.Close()

	f := NewNaverFetcher("")
	f.BaseURL = srv.URL
	start := time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
	bars, err := f.FetchDailyBars(context.Background(), "069500", start, farFuture)
	require.NoError(t, err)
	assert.Len(t, bars, 2)
	assert.Equal(t, "069500", gotQuery["symbol"])
	assert.Equal(t, "day", gotQuery["timeframe"])
	assert.Equal(t, "20240102", gotQuery["startTime"])
	assert.Equal(t, "20991231", gotQuery["endTime"])
}

func TestNaverFetcher_StatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusBadGateway)
	}))
	defer srv.Close()

	f := NewNaverFetcher("")
	f.BaseURL = srv.URL
	_, err := f.FetchDailyBars(context.Background(), "069500", time.Now(), farFuture)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")
}
