// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// PlaybackResolveTotal counts resolver calls by source kind and outcome.
	PlaybackResolveTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "streamflix_playback_resolve_total",
		Help: "Playback resolutions by source kind and target kind (or error outcome)",
	}, []string{"source_kind", "outcome"}) // outcome=direct|embed|proxied|not_found|error

	// EmbedPassthroughTotal counts embed keys that could not be normalized and were passed through verbatim.
	EmbedPassthroughTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "streamflix_playback_embed_passthrough_total",
		Help: "Embed-host keys passed through verbatim because they could not be normalized",
	})
)

// IncPlaybackResolve records one resolver outcome.
func IncPlaybackResolve(sourceKind, outcome string) {
	if sourceKind == "" {
		sourceKind = "unknown"
	}
	PlaybackResolveTotal.WithLabelValues(sourceKind, outcome).Inc()
}

// IncEmbedPassthrough records a malformed embed key.
func IncEmbedPassthrough() {
	EmbedPassthroughTotal.Inc()
}
