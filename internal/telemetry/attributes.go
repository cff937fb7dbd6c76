// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package telemetry

import (
	"go.opentelemetry.io/otel/attribute"
)

// Attribute keys shared by server, resolver and relay spans.
const (
	HTTPMethodKey     = "http.method"
	HTTPStatusCodeKey = "http.status_code"
	HTTPRouteKey      = "http.route"
	HTTPURLKey        = "http.url"

	PlaybackSlugKey       = "playback.slug"
	PlaybackSourceKindKey = "playback.source_kind"
	PlaybackTargetKindKey = "playback.target_kind"

	UpstreamHostKey   = "upstream.host"
	UpstreamStatusKey = "upstream.status_code"
	UpstreamRangeKey  = "upstream.range"

	ErrorKey     = "error"
	ErrorTypeKey = "error.type"
)

// HTTPAttributes creates common HTTP span attributes.
func HTTPAttributes(method, route, url string, statusCode int) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.String(HTTPMethodKey, method),
		attribute.String(HTTPRouteKey, route),
		attribute.String(HTTPURLKey, url),
		attribute.Int(HTTPStatusCodeKey, statusCode),
	}
}

// PlaybackAttributes describes a resolved play request. Empty values are omitted.
func PlaybackAttributes(slug, sourceKind, targetKind string) []attribute.KeyValue {
	attrs := make([]attribute.KeyValue, 0, 3)
	if slug != "" {
		attrs = append(attrs, attribute.String(PlaybackSlugKey, slug))
	}
	if sourceKind != "" {
		attrs = append(attrs, attribute.String(PlaybackSourceKindKey, sourceKind))
	}
	if targetKind != "" {
		attrs = append(attrs, attribute.String(PlaybackTargetKindKey, targetKind))
	}
	return attrs
}

// UpstreamAttributes describes a relayed upstream response.
func UpstreamAttributes(host string, statusCode int, rangeHeader string) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		attribute.String(UpstreamHostKey, host),
		attribute.Int(UpstreamStatusKey, statusCode),
	}
	if rangeHeader != "" {
		attrs = append(attrs, attribute.String(UpstreamRangeKey, rangeHeader))
	}
	return attrs
}

// ErrorAttributes marks a span as failed with a stable error class.
func ErrorAttributes(errorType string) []attribute.KeyValue {
	return []attribute.KeyValue{
		attribute.Bool(ErrorKey, true),
		attribute.String(ErrorTypeKey, errorType),
	}
}
