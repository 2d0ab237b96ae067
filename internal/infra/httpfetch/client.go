package httpfetch

import (
	"crypto/tls"
	"net/http"
	"time"

	"dsfetch/internal/logging"
)

// NewClient returns an http.Client for dataset downloads. A zero timeout
// means requests may block indefinitely.
func NewClient(timeout time.Duration, logger logging.Logger) *http.Client {
	transport := &http.Transport{
		Proxy: http.ProxyFromEnvironment,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		ForceAttemptHTTP2:   true,
		TLSHandshakeTimeout: 10 * time.Second,
	}

	return &http.Client{
		Transport: &loggingTransport{base: transport, logger: logger},
		Timeout:   timeout,
	}
}

type loggingTransport struct {
	base   http.RoundTripper
	logger logging.Logger
}

func (t *loggingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.logger.Verbosef("http %s %s", req.Method, req.URL.String())
	return t.base.RoundTrip(req)
}
