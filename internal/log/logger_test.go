// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	Configure(Config{Level: "debug", Output: &buf, Service: "test", Version: "v0.0.0-test"})
	t.Cleanup(func() {
		Configure(Config{})
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	})
	return &buf
}

func TestConfigure_AttachesServiceAndVersion(t *testing.T) {
	buf := captureLogs(t)

	l := WithComponent("proxy")
	l.Info().Msg("started")

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unmarshal log line: %v", err)
	}
	if entry["service"] != "test" {
		t.Errorf("service = %v, want test", entry["service"])
	}
	if entry["version"] != "v0.0.0-test" {
		t.Errorf("version = %v, want v0.0.0-test", entry["version"])
	}
	if entry[FieldComponent] != "proxy" {
		t.Errorf("component = %v, want proxy", entry[FieldComponent])
	}
}

func TestConfigure_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	Configure(Config{Level: "chatty", Output: &buf})
	t.Cleanup(func() { Configure(Config{}) })

	if got := zerolog.GlobalLevel(); got != zerolog.InfoLevel {
		t.Errorf("global level = %v, want info", got)
	}
}

func TestMiddleware_LogsStatusAndBytes(t *testing.T) {
	buf := captureLogs(t)

	h := Middleware()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusPartialContent)
		_, _ = w.Write([]byte("0123456789"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/play/blob-item", nil)
	req.Header.Set("Range", "bytes=0-9")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)

	line := strings.TrimSpace(buf.String())
	var entry map[string]any
	if err := json.Unmarshal([]byte(line), &entry); err != nil {
		t.Fatalf("unmarshal log line %q: %v", line, err)
	}
	if entry[FieldEvent] != "request.handled" {
		t.Errorf("event = %v", entry[FieldEvent])
	}
	if entry[FieldStatus] != float64(http.StatusPartialContent) {
		t.Errorf("status = %v, want 206", entry[FieldStatus])
	}
	if entry[FieldBytes] != float64(10) {
		t.Errorf("bytes = %v, want 10", entry[FieldBytes])
	}
	if entry[FieldRange] != "bytes=0-9" {
		t.Errorf("range = %v", entry[FieldRange])
	}
}
