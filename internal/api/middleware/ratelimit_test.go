// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/ManuGH/streamflix/internal/api/problem"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func hit(h http.Handler, remote string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/api/videos", nil)
	req.RemoteAddr = remote
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestRateLimit_BlocksOverLimit(t *testing.T) {
	h := RateLimit(RateLimitConfig{RequestLimit: 3, WindowSize: time.Minute})(okHandler)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(h, "192.168.1.1:1234").Code, "request %d", i+1)
	}
	rec := hit(h, "192.168.1.1:1234")
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "60", rec.Header().Get("Retry-After"))
	assert.Equal(t, problem.ContentType, rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "RATE_LIMITED")
}

func TestRateLimit_DifferentIPsIndependent(t *testing.T) {
	h := RateLimit(RateLimitConfig{RequestLimit: 2, WindowSize: time.Second})(okHandler)

	for i := 0; i < 2; i++ {
		assert.Equal(t, http.StatusOK, hit(h, "192.168.1.1:1234").Code)
	}
	assert.Equal(t, http.StatusOK, hit(h, "192.168.1.2:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "192.168.1.1:1234").Code)
}

func TestRateLimit_Whitelist(t *testing.T) {
	h := RateLimit(RateLimitConfig{
		RequestLimit: 1,
		WindowSize:   time.Second,
		Whitelist:    []string{"10.0.0.0/8", "127.0.0.1", "not-an-ip"},
	})(okHandler)

	for i := 0; i < 3; i++ {
		assert.Equal(t, http.StatusOK, hit(h, "10.1.2.3:1234").Code)
		assert.Equal(t, http.StatusOK, hit(h, "127.0.0.1:1234").Code)
	}
	assert.Equal(t, http.StatusOK, hit(h, "192.168.9.9:1234").Code)
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "192.168.9.9:1234").Code)
}

func TestAPIRateLimit_DefaultsWhenUnset(t *testing.T) {
	h := APIRateLimit(0, nil)(okHandler)
	for i := 0; i < DefaultAPIRateLimitRPM; i++ {
		if code := hit(h, "192.168.1.1:1234").Code; code != http.StatusOK {
			t.Fatalf("request %d: got %d", i+1, code)
		}
	}
	assert.Equal(t, http.StatusTooManyRequests, hit(h, "192.168.1.1:1234").Code)
}
