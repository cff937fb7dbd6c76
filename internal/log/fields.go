// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package log

// Canonical field name constants for structured logging.
const (
	// Identity fields
	FieldRequestID = "request_id"
	FieldRecordID  = "record_id"
	FieldSlug      = "slug"

	// Process fields
	FieldEvent     = "event"
	FieldComponent = "component"

	// Playback fields
	FieldSourceKind = "source_kind"
	FieldTargetKind = "target_kind"

	// Upstream fields
	FieldUpstreamHost   = "upstream_host"
	FieldUpstreamStatus = "upstream_status"
	FieldRange          = "range"
	FieldErrorClass     = "error_class"

	// HTTP fields
	FieldMethod     = "method"
	FieldPath       = "path"
	FieldStatus     = "status"
	FieldBytes      = "bytes"
	FieldDurationMS = "duration_ms"
	FieldRemoteAddr = "remote_addr"
)
