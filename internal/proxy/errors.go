// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package proxy

import (
	"context"
	"errors"
	"net"
	"syscall"
)

var (
	// ErrUnsupportedSource is returned for records the proxy does not relay.
	ErrUnsupportedSource = errors.New("proxy: source type not supported")

	// ErrUpstreamFailure marks failures to locate or fetch the backing object.
	ErrUpstreamFailure = errors.New("proxy: upstream fetch failed")
)

// Upstream error classes used as metric labels.
const (
	ErrorClassCanceled       = "canceled"
	ErrorClassTimeout        = "timeout"
	ErrorClassConnectRefused = "connect_refused"
	ErrorClassConnectReset   = "connect_reset"
	ErrorClassDNS            = "dns"
	ErrorClassOther          = "other"
)

// ClassifyUpstreamError maps a transport error to a stable class label.
// It returns an empty string for a nil error.
// Precedence: cancellation wins over everything, DNS failures over generic timeouts.
func ClassifyUpstreamError(err error) string {
	if err == nil {
		return ""
	}
	if errors.Is(err, context.Canceled) {
		return ErrorClassCanceled
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return ErrorClassDNS
	}
	if errors.Is(err, syscall.ECONNREFUSED) {
		return ErrorClassConnectRefused
	}
	if errors.Is(err, syscall.ECONNRESET) || errors.Is(err, syscall.EPIPE) {
		return ErrorClassConnectReset
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorClassTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return ErrorClassTimeout
	}
	return ErrorClassOther
}
