// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package catalog

import (
	"fmt"
	"strings"
)

// SourceKind identifies where a record's bytes live. The set is closed.
type SourceKind int

const (
	sourceUnknown SourceKind = iota
	// SourceBlobStore is an object in the operator's blob store, relayed by the proxy.
	SourceBlobStore
	// SourceCloudShare is a file on a public cloud-drive share.
	SourceCloudShare
	// SourceEmbedHost is a video on a third-party embed host, played in its own player.
	SourceEmbedHost
)

// String returns the canonical wire name.
func (k SourceKind) String() string {
	switch k {
	case SourceBlobStore:
		return "blob"
	case SourceCloudShare:
		return "cloudshare"
	case SourceEmbedHost:
		return "embed"
	default:
		return fmt.Sprintf("SourceKind(%d)", int(k))
	}
}

// Valid reports whether k is one of the declared kinds.
func (k SourceKind) Valid() bool {
	switch k {
	case SourceBlobStore, SourceCloudShare, SourceEmbedHost:
		return true
	default:
		return false
	}
}

// ParseSourceKind accepts canonical names and the legacy catalog aliases r2, drive and vidmoly.
func ParseSourceKind(s string) (SourceKind, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "blob", "r2":
		return SourceBlobStore, nil
	case "cloudshare", "drive":
		return SourceCloudShare, nil
	case "embed", "vidmoly":
		return SourceEmbedHost, nil
	default:
		return sourceUnknown, fmt.Errorf("%w: %q", ErrUnknownSourceKind, s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (k SourceKind) MarshalText() ([]byte, error) {
	if !k.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrUnknownSourceKind, int(k))
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *SourceKind) UnmarshalText(b []byte) error {
	parsed, err := ParseSourceKind(string(b))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}
