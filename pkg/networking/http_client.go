// Package networking provides hardened HTTP clients for outbound calls to
// identity providers. Token-exchange and probe requests must be bounded:
// a hanging provider must fail the flow, not the handler.
package networking

import (
	"net/http"
	"time"
)

// HttpTimeout is the overall timeout for outgoing HTTP requests
const HttpTimeout = 30 * time.Second

// HTTPClient is the interface for HTTP clients, satisfied by *http.Client.
// Components take this interface so tests can substitute transports.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// HttpClientBuilder provides a fluent interface for building HTTP clients
type HttpClientBuilder struct {
	clientTimeout         time.Duration
	tlsHandshakeTimeout   time.Duration
	responseHeaderTimeout time.Duration
}

// NewHttpClientBuilder returns a new HttpClientBuilder
func NewHttpClientBuilder() *HttpClientBuilder {
	return &HttpClientBuilder{
		clientTimeout:         HttpTimeout,
		tlsHandshakeTimeout:   10 * time.Second,
		responseHeaderTimeout: 10 * time.Second,
	}
}

// WithTimeout sets the overall client timeout
func (b *HttpClientBuilder) WithTimeout(timeout time.Duration) *HttpClientBuilder {
	b.clientTimeout = timeout
	return b
}

// WithResponseHeaderTimeout sets the timeout for receiving response headers
func (b *HttpClientBuilder) WithResponseHeaderTimeout(timeout time.Duration) *HttpClientBuilder {
	b.responseHeaderTimeout = timeout
	return b
}

// Build creates the configured HTTP client
func (b *HttpClientBuilder) Build() *http.Client {
	transport := &http.Transport{
		TLSHandshakeTimeout:   b.tlsHandshakeTimeout,
		ResponseHeaderTimeout: b.responseHeaderTimeout,
	}

	return &http.Client{
		Transport: transport,
		Timeout:   b.clientTimeout,
	}
}
