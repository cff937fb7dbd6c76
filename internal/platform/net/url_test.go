// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package net

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeURL(t *testing.T) {
	assert.Equal(t, "https://media.example.com/movies/a.mp4",
		SanitizeURL("https://user:pw@media.example.com/movies/a.mp4?token=s3cr3t#t=10"))
	assert.Equal(t, "invalid-url-redacted", SanitizeURL("http://[::1"))
}

func TestParseDirectHTTPURL(t *testing.T) {
	tests := []struct {
		in string
		ok bool
	}{
		{"https://media.example.com", true},
		{" http://10.0.0.5:9000/bucket ", true},
		{"HTTPS://media.example.com", true},
		{"ftp://media.example.com", false},
		{"https://", false},
		{"https://u:p@media.example.com", false},
		{"https://media.example.com/#x", false},
		{"media.example.com", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			_, ok := ParseDirectHTTPURL(tt.in)
			assert.Equal(t, tt.ok, ok)
		})
	}
}

func TestNormalizeHost(t *testing.T) {
	got, err := NormalizeHost("VidMoly.NET.")
	require.NoError(t, err)
	assert.Equal(t, "vidmoly.net", got)

	got, err = NormalizeHost("[2001:DB8::1]")
	require.NoError(t, err)
	assert.Equal(t, "2001:db8::1", got)

	got, err = NormalizeHost("bücher.example")
	require.NoError(t, err)
	assert.Equal(t, "xn--bcher-kva.example", got)

	for _, bad := range []string{"", "https://vidmoly.net", "vidmoly.net/embed", "u@vidmoly.net", "vidmoly.net:443", "fe80::1%eth0"} {
		_, err := NormalizeHost(bad)
		assert.Error(t, err, bad)
	}
}
