// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package telemetry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func attrMap(attrs []attribute.KeyValue) map[string]attribute.Value {
	m := make(map[string]attribute.Value, len(attrs))
	for _, a := range attrs {
		m[string(a.Key)] = a.Value
	}
	return m
}

func TestHTTPAttributes(t *testing.T) {
	m := attrMap(HTTPAttributes("GET", "/api/play/{slug}", "/api/play/x", 206))
	assert.Equal(t, "GET", m[HTTPMethodKey].AsString())
	assert.Equal(t, "/api/play/{slug}", m[HTTPRouteKey].AsString())
	assert.Equal(t, int64(206), m[HTTPStatusCodeKey].AsInt64())
}

func TestPlaybackAttributes(t *testing.T) {
	assert.Len(t, PlaybackAttributes("", "", ""), 0)

	m := attrMap(PlaybackAttributes("blob-item", "blob", "proxied"))
	assert.Equal(t, "blob-item", m[PlaybackSlugKey].AsString())
	assert.Equal(t, "blob", m[PlaybackSourceKindKey].AsString())
	assert.Equal(t, "proxied", m[PlaybackTargetKindKey].AsString())
}

func TestUpstreamAttributes(t *testing.T) {
	assert.Len(t, UpstreamAttributes("media.example.com", 200, ""), 2)

	m := attrMap(UpstreamAttributes("media.example.com", 206, "bytes=0-99"))
	assert.Equal(t, "media.example.com", m[UpstreamHostKey].AsString())
	assert.Equal(t, int64(206), m[UpstreamStatusKey].AsInt64())
	assert.Equal(t, "bytes=0-99", m[UpstreamRangeKey].AsString())
}

func TestErrorAttributes(t *testing.T) {
	m := attrMap(ErrorAttributes("connect_refused"))
	assert.True(t, m[ErrorKey].AsBool())
	assert.Equal(t, "connect_refused", m[ErrorTypeKey].AsString())
}
