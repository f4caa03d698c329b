package httpclient

import (
	"net/http"
	"sync"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// sharedTransport is reused by every outbound client so connections are pooled per host
var (
	sharedTransport http.RoundTripper
	transportOnce   sync.Once
)

func transport() http.RoundTripper {
	transportOnce.Do(func() {
		base := &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        100,
			MaxIdleConnsPerHost: 10,
			IdleConnTimeout:     90 * time.Second,
			TLSHandshakeTimeout: 5 * time.Second,
		}
		sharedTransport = otelhttp.NewTransport(base)
	})
	return sharedTransport
}

// New returns a traced HTTP client. timeout is a hard ceiling; callers should
// still bound individual calls with a context deadline.
func New(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &http.Client{
		Timeout:   timeout,
		Transport: transport(),
	}
}
