// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/ManuGH/streamflix/internal/resilience"
)

// ErrUnavailable is returned while the breaker guarding a remote store is open.
// It also matches resilience.ErrCircuitOpen.
var ErrUnavailable = fmt.Errorf("catalog: backend unavailable: %w", resilience.ErrCircuitOpen)

// GuardedStore fails fast while its remote backend is known to be down.
// Domain outcomes (not found, conflicts, validation) never trip the breaker.
type GuardedStore struct {
	next    Store
	breaker *resilience.CircuitBreaker
}

// NewGuardedStore wraps next. Build breaker with
// resilience.WithFailureFilter(IsBackendFailure) so lookup misses do not count.
func NewGuardedStore(next Store, breaker *resilience.CircuitBreaker) *GuardedStore {
	return &GuardedStore{next: next, breaker: breaker}
}

// IsBackendFailure reports whether err says something about the backend's
// health rather than about the request.
func IsBackendFailure(err error) bool {
	switch {
	case err == nil,
		errors.Is(err, context.Canceled),
		errors.Is(err, ErrNotFound),
		errors.Is(err, ErrUnknownSourceKind),
		errors.Is(err, ErrInvalidSlug),
		errors.Is(err, ErrInvalidRecord),
		errors.Is(err, ErrSlugTaken),
		errors.Is(err, ErrSlugImmutable),
		errors.Is(err, ErrReadOnly):
		return false
	}
	return true
}

func (s *GuardedStore) guard(fn func() error) error {
	err := s.breaker.Execute(fn)
	if errors.Is(err, resilience.ErrCircuitOpen) {
		return ErrUnavailable
	}
	return err
}

// LookupBySlug implements Store.
func (s *GuardedStore) LookupBySlug(ctx context.Context, slug string) (rec Record, err error) {
	err = s.guard(func() error {
		rec, err = s.next.LookupBySlug(ctx, slug)
		return err
	})
	return rec, err
}

// List implements Store.
func (s *GuardedStore) List(ctx context.Context) (recs []Record, err error) {
	err = s.guard(func() error {
		recs, err = s.next.List(ctx)
		return err
	})
	return recs, err
}

// Put implements Store.
func (s *GuardedStore) Put(ctx context.Context, rec Record) (out Record, err error) {
	err = s.guard(func() error {
		out, err = s.next.Put(ctx, rec)
		return err
	})
	return out, err
}

// Delete implements Store.
func (s *GuardedStore) Delete(ctx context.Context, id string) error {
	return s.guard(func() error { return s.next.Delete(ctx, id) })
}

// Ping probes through the breaker so readiness reports an open circuit.
func (s *GuardedStore) Ping(ctx context.Context) error {
	return s.guard(func() error {
		if p, ok := s.next.(Pinger); ok {
			return p.Ping(ctx)
		}
		_, err := s.next.List(ctx)
		return err
	})
}

// State exposes the breaker state.
func (s *GuardedStore) State() resilience.State { return s.breaker.State() }

// Close closes the wrapped store.
func (s *GuardedStore) Close() error { return s.next.Close() }
