package collector

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYahooFetcher_UsesProxy(t *testing.T) {
	f := NewYahooFetcher(".KS", "http://proxy.local:8080")
	tr, ok := f.Client.Transport.(*http.Transport)
	require.True(t, ok)
	require.NotNil(t, tr.Proxy)

	req, err := http.NewRequest(http.MethodGet, "https://query1.finance.yahoo.com/v8/finance/chart/069500.KS", nil)
	require.NoError(t, err)
	u, err := tr.Proxy(req)
	require.NoError(t, err)
	assert.Equal(t, "proxy.local:8080", u.Host)
}

func TestYahooFetcher_Symbol(t *testing.T) {
	f := NewYahooFetcher(".KS", "")
	f.SymbolMap["KOSPI"] = "^KS11"
	assert.Equal(t, "069500.KS", f.yahooSymbol("069500"))
	assert.Equal(t, "^KS11", f.yahooSymbol("KOSPI"))
}
