// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package catalog

import "errors"

var (
	// ErrNotFound is returned when no record matches the slug or id.
	ErrNotFound = errors.New("catalog: record not found")
	// ErrUnknownSourceKind is returned for source kinds outside the closed set.
	ErrUnknownSourceKind = errors.New("catalog: unknown source kind")
	// ErrInvalidSlug is returned when a slug contains characters outside the URL-unreserved set.
	ErrInvalidSlug = errors.New("catalog: invalid slug")
	// ErrInvalidRecord is returned when a required field is missing.
	ErrInvalidRecord = errors.New("catalog: invalid record")
	// ErrSlugTaken is returned when another record already owns the slug.
	ErrSlugTaken = errors.New("catalog: slug already in use")
	// ErrSlugImmutable is returned when an update tries to change a record's slug.
	ErrSlugImmutable = errors.New("catalog: slug cannot change")
	// ErrReadOnly is returned by backends that do not accept writes.
	ErrReadOnly = errors.New("catalog: store is read-only")
)
