// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package playback

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var defaultHosts = []string{"vidmoly.net", "vidmoly.to"}

func TestNormalizeEmbedKey(t *testing.T) {
	tests := []struct {
		name string
		key  string
		want string
	}{
		{"bare id", "4pvdbj19xv02", "https://vidmoly.net/embed-4pvdbj19xv02.html"},
		{"padded id", "  4pvdbj19xv02\n", "https://vidmoly.net/embed-4pvdbj19xv02.html"},
		{"embed prefix", "embed-4pvdbj19xv02", "https://vidmoly.net/embed-4pvdbj19xv02.html"},
		{"html suffix", "4pvdbj19xv02.html", "https://vidmoly.net/embed-4pvdbj19xv02.html"},
		{"partial path", "embed-4pvdbj19xv02.html", "https://vidmoly.net/embed-4pvdbj19xv02.html"},
		{"host without scheme", "vidmoly.net/embed-4pvdbj19xv02.html", "https://vidmoly.net/embed-4pvdbj19xv02.html"},
		{"alternate host", "vidmoly.to/embed-abc_123.html", "https://vidmoly.net/embed-abc_123.html"},
		{"protocol relative", "//VIDMOLY.NET/embed-abc.html", "https://vidmoly.net/embed-abc.html"},
		{"full url unchanged", "https://vidmoly.net/embed-w10v3zrn2t9n.html", "https://vidmoly.net/embed-w10v3zrn2t9n.html"},
		{"foreign host url unchanged", "https://vidmoly.me/w/abc", "https://vidmoly.me/w/abc"},
		{"http url unchanged", " http://example.org/embed-x.html ", "http://example.org/embed-x.html"},
		{"malformed passes through", "not an id!", "not an id!"},
		{"unknown host path passes through", "other.host/embed-abc.html", "other.host/embed-abc.html"},
		{"empty after stripping", "embed-.html", "embed-.html"},
		{"empty", "   ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeEmbedKey(tt.key, "vidmoly.net", defaultHosts))
		})
	}
}

func TestNormalizeEmbedKey_Idempotent(t *testing.T) {
	inputs := []string{
		"4pvdbj19xv02",
		"embed-4pvdbj19xv02.html",
		"vidmoly.to/embed-x.html",
		"https://vidmoly.net/embed-w10v3zrn2t9n.html",
		"https://elsewhere.example/e/1",
		"bad key with spaces",
		"  padded  ",
		"embed-",
		".html",
		"",
		"ÜNICODE",
		"//vidmoly.net/",
	}
	for _, in := range inputs {
		once := NormalizeEmbedKey(in, "vidmoly.net", defaultHosts)
		twice := NormalizeEmbedKey(once, "vidmoly.net", defaultHosts)
		assert.Equal(t, once, twice, "input %q", in)
	}
}

func TestNormalizeEmbedKey_CustomEmbedHost(t *testing.T) {
	got := NormalizeEmbedKey("vidmoly.net/embed-abc.html", "vidmoly.biz", defaultHosts)
	assert.Equal(t, "https://vidmoly.biz/embed-abc.html", got)
}

func FuzzNormalizeEmbedKey_Idempotent(f *testing.F) {
	for _, seed := range []string{"4pvdbj19xv02", "https://vidmoly.net/embed-a.html", "embed-x", " a b "} {
		f.Add(seed)
	}
	f.Fuzz(func(t *testing.T, key string) {
		once := NormalizeEmbedKey(key, "vidmoly.net", defaultHosts)
		if twice := NormalizeEmbedKey(once, "vidmoly.net", defaultHosts); twice != once {
			t.Fatalf("not idempotent: %q -> %q -> %q", key, once, twice)
		}
	})
}
