// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ProxyRequestsTotal counts play requests by terminal outcome.
	ProxyRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamflix_proxy_requests_total",
		Help: "Play requests handled by the streaming proxy by outcome",
	}, []string{"outcome"}) // outcome=relayed|not_found|unsupported|upstream_error|timeout|canceled|aborted

	// ProxyActiveRelays tracks relays currently streaming a body.
	ProxyActiveRelays = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "streamflix_proxy_active_relays",
		Help: "Number of relays currently in flight",
	})

	// ProxyUpstreamStatusTotal counts upstream responses by status code.
	ProxyUpstreamStatusTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamflix_proxy_upstream_status_total",
		Help: "Upstream responses by HTTP status code",
	}, []string{"code"})

	// ProxyUpstreamErrorsTotal counts upstream transport failures by class.
	ProxyUpstreamErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamflix_proxy_upstream_errors_total",
		Help: "Upstream transport failures by error class",
	}, []string{"class"})

	// ProxyUpstreamTTFB tracks time from request start to upstream response headers.
	ProxyUpstreamTTFB = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "streamflix_proxy_upstream_ttfb_seconds",
		Help:    "Time until upstream response headers were received",
		Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 15},
	})

	// ProxyLookupDuration tracks the catalog lookup phase of a play request.
	ProxyLookupDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "streamflix_proxy_lookup_duration_seconds",
		Help:    "Catalog lookup latency on the play path",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 5},
	}, []string{"result"}) // result=hit|miss|error
)

// IncProxyRequest records a terminal play-request outcome.
func IncProxyRequest(outcome string) {
	ProxyRequestsTotal.WithLabelValues(outcome).Inc()
}

// RelayStarted increments the active relay gauge and returns the matching decrement.
func RelayStarted() func() {
	ProxyActiveRelays.Inc()
	return ProxyActiveRelays.Dec
}

// ObserveUpstreamResponse records the upstream status code and time to headers.
func ObserveUpstreamResponse(status int, ttfb time.Duration) {
	ProxyUpstreamStatusTotal.WithLabelValues(strconv.Itoa(status)).Inc()
	ProxyUpstreamTTFB.Observe(ttfb.Seconds())
}

// IncUpstreamError records an upstream transport failure class.
func IncUpstreamError(class string) {
	ProxyUpstreamErrorsTotal.WithLabelValues(class).Inc()
}

// ObserveLookup records the catalog lookup latency for a play request.
func ObserveLookup(result string, d time.Duration) {
	ProxyLookupDuration.WithLabelValues(result).Observe(d.Seconds())
}
