package rp

import (
	"net"
	"net/http"
	"time"

	cleanhttp "github.com/hashicorp/go-cleanhttp"
)

// newPooledHTTPClient builds the shared client used by every call: a pooled
// transport with the configured connect and read timeouts, and redirects
// returned to the caller instead of followed.
func newPooledHTTPClient(conn ConnectionConfig) *http.Client {
	transport := cleanhttp.DefaultPooledTransport()
	dialer := &net.Dialer{
		Timeout:   conn.ConnectTimeout,
		KeepAlive: 30 * time.Second,
	}
	transport.DialContext = dialer.DialContext
	transport.ResponseHeaderTimeout = conn.SocketTimeout

	return &http.Client{
		Transport:     transport,
		CheckRedirect: noRedirect,
	}
}

// withoutRedirects returns a shallow copy of c that does not follow redirects.
func withoutRedirects(c *http.Client) *http.Client {
	cp := *c
	cp.CheckRedirect = noRedirect
	return &cp
}

func noRedirect(*http.Request, []*http.Request) error {
	return http.ErrUseLastResponse
}
