// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package health

import (
	"context"
	"errors"

	"github.com/ManuGH/streamflix/internal/catalog"
)

// Pinger is a dependency that can verify its connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// CatalogChecker probes the catalog store. Stores without Ping get a List.
type CatalogChecker struct {
	store   catalog.Store
	backend string
}

// NewCatalogChecker creates a checker for store; backend only labels the result.
func NewCatalogChecker(store catalog.Store, backend string) *CatalogChecker {
	return &CatalogChecker{store: store, backend: backend}
}

func (c *CatalogChecker) Name() string { return "catalog" }

func (c *CatalogChecker) Check(ctx context.Context) CheckResult {
	var err error
	if p, ok := c.store.(catalog.Pinger); ok {
		err = p.Ping(ctx)
	} else {
		_, err = c.store.List(ctx)
	}
	if err != nil {
		return unhealthy(ctx, err)
	}
	return CheckResult{Status: StatusHealthy, Message: c.backend}
}

// PingChecker wraps any Pinger. Failures degrade rather than fail readiness
// unless critical is set.
type PingChecker struct {
	name     string
	target   Pinger
	critical bool
}

// NewPingChecker creates a checker around target.
func NewPingChecker(name string, target Pinger, critical bool) *PingChecker {
	return &PingChecker{name: name, target: target, critical: critical}
}

func (c *PingChecker) Name() string { return c.name }

func (c *PingChecker) Check(ctx context.Context) CheckResult {
	if err := c.target.Ping(ctx); err != nil {
		res := unhealthy(ctx, err)
		if !c.critical {
			res.Status = StatusDegraded
		}
		return res
	}
	return CheckResult{Status: StatusHealthy}
}

func unhealthy(ctx context.Context, err error) CheckResult {
	msg := err.Error()
	if errors.Is(ctx.Err(), context.DeadlineExceeded) {
		msg = "check timed out"
	}
	return CheckResult{Status: StatusUnhealthy, Error: msg}
}
