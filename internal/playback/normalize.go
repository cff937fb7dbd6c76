// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package playback

import (
	"regexp"
	"strings"
)

var embedIDPattern = regexp.MustCompile(`^[A-Za-z0-9_-]+$`)

// NormalizeEmbedKey turns an embed-host source key into a canonical embeddable URL.
//
// Keys starting with "http" are returned trimmed but otherwise unchanged, whatever
// their host. Bare keys lose a known host prefix, an "embed-" prefix and a ".html"
// suffix, then become https://<embedHost>/embed-<id>.html. Keys that still do not
// look like an identifier are returned trimmed and verbatim.
//
// The result is stable: NormalizeEmbedKey(NormalizeEmbedKey(k)) == NormalizeEmbedKey(k).
func NormalizeEmbedKey(key, embedHost string, knownHosts []string) string {
	id, ok := embedID(key, embedHost, knownHosts)
	if !ok {
		return strings.TrimSpace(key)
	}
	return "https://" + embedHost + "/embed-" + id + ".html"
}

// embedID extracts the bare identifier. ok is false for URLs and malformed keys.
func embedID(key, embedHost string, knownHosts []string) (string, bool) {
	v := strings.TrimSpace(key)
	if strings.HasPrefix(v, "http") {
		return "", false
	}

	id := stripHostPrefix(v, embedHost, knownHosts)
	id = strings.TrimPrefix(id, "embed-")
	id = strings.TrimSuffix(id, ".html")
	if !embedIDPattern.MatchString(id) {
		return "", false
	}
	return id, true
}

func stripHostPrefix(v, embedHost string, knownHosts []string) string {
	hosts := append([]string{embedHost}, knownHosts...)
	for _, h := range hosts {
		if h == "" {
			continue
		}
		for _, p := range []string{"//" + h + "/", h + "/"} {
			if len(v) >= len(p) && strings.EqualFold(v[:len(p)], p) {
				return v[len(p):]
			}
		}
	}
	return v
}

// isPassthrough reports whether NormalizeEmbedKey would return key verbatim
// because it is neither a URL nor a recognizable identifier.
func isPassthrough(key, embedHost string, knownHosts []string) bool {
	v := strings.TrimSpace(key)
	if strings.HasPrefix(v, "http") {
		return false
	}
	_, ok := embedID(v, embedHost, knownHosts)
	return !ok
}
