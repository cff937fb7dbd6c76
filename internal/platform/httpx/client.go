// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

// Package httpx builds the outbound HTTP clients used by the daemon.
package httpx

import (
	"net"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

const (
	defaultClientTimeout         = 5 * time.Second
	defaultDialTimeout           = 3 * time.Second
	defaultResponseHeaderTimeout = 3 * time.Second
	defaultIdleConnTimeout       = 30 * time.Second
	defaultExpectContinueTimeout = 1 * time.Second
	defaultMaxIdleConns          = 16
	defaultMaxIdleConnsPerHost   = 4

	streamingIdleConnTimeout     = 90 * time.Second
	streamingMaxIdleConns        = 256
	streamingMaxIdleConnsPerHost = 64
)

// NewClient returns a hardened HTTP client for catalog queries and health probes.
// The overall timeout bounds the whole exchange including the body.
func NewClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultClientTimeout
	}

	dialTimeout := min(timeout, defaultDialTimeout)
	responseHeaderTimeout := min(timeout, defaultResponseHeaderTimeout)

	return &http.Client{
		Timeout: timeout,
		Transport: Instrument(&http.Transport{
			Proxy:                 http.ProxyFromEnvironment,
			DialContext:           (&net.Dialer{Timeout: dialTimeout, KeepAlive: 30 * time.Second}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          defaultMaxIdleConns,
			MaxIdleConnsPerHost:   defaultMaxIdleConnsPerHost,
			IdleConnTimeout:       defaultIdleConnTimeout,
			TLSHandshakeTimeout:   dialTimeout,
			ResponseHeaderTimeout: responseHeaderTimeout,
			ExpectContinueTimeout: defaultExpectContinueTimeout,
		}),
	}
}

// NewStreamingTransport returns a transport for long-lived media relays.
// Only connection setup and time-to-headers are bounded; the body may stream for as long
// as the request context allows. Compression is disabled so byte ranges stay byte-exact.
func NewStreamingTransport(responseHeaderTimeout time.Duration) *http.Transport {
	if responseHeaderTimeout <= 0 {
		responseHeaderTimeout = 15 * time.Second
	}
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		DialContext:           (&net.Dialer{Timeout: defaultDialTimeout * 2, KeepAlive: 30 * time.Second}).DialContext,
		ForceAttemptHTTP2:     true,
		DisableCompression:    true,
		MaxIdleConns:          streamingMaxIdleConns,
		MaxIdleConnsPerHost:   streamingMaxIdleConnsPerHost,
		IdleConnTimeout:       streamingIdleConnTimeout,
		TLSHandshakeTimeout:   defaultDialTimeout * 2,
		ResponseHeaderTimeout: responseHeaderTimeout,
		ExpectContinueTimeout: defaultExpectContinueTimeout,
	}
}

// Instrument wraps rt with OpenTelemetry client spans. It is a no-op tracer
// unless a global provider has been installed.
func Instrument(rt http.RoundTripper) http.RoundTripper {
	return otelhttp.NewTransport(rt)
}
