// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package playback

// TargetKind tells the client how to play a Target.
type TargetKind string

const (
	// KindDirect URLs go straight into a native media element.
	KindDirect TargetKind = "direct"
	// KindEmbed URLs are rendered inside an embeddable frame.
	KindEmbed TargetKind = "embed"
	// KindProxied URLs point at the streaming proxy's play endpoint.
	KindProxied TargetKind = "proxied"
)

// Target is the resolver's output. It is computed per request and never stored.
type Target struct {
	Kind TargetKind `json:"kind"`
	URL  string     `json:"url"`
}

// DirectURL builds a direct target.
func DirectURL(u string) Target { return Target{Kind: KindDirect, URL: u} }

// EmbedURL builds an embed target.
func EmbedURL(u string) Target { return Target{Kind: KindEmbed, URL: u} }

// ProxiedStream builds a proxied target.
func ProxiedStream(endpoint string) Target { return Target{Kind: KindProxied, URL: endpoint} }
