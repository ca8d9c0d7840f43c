package httpclient

import (
	"log"
	"net/http"
	"net/url"
	"time"
)

// DefaultTimeout bounds every outbound request unless a caller overrides it.
const DefaultTimeout = 30 * time.Second

// New returns a client that routes through proxyURL when it is set.
// An unparsable proxy is logged and ignored.
func New(proxyURL string, timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		} else {
			log.Printf("[WARN] ignoring invalid proxy %q: %v", proxyURL, err)
		}
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport,
	}
}
