// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package daemon

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/ManuGH/streamflix/internal/api"
	"github.com/ManuGH/streamflix/internal/api/middleware"
	"github.com/ManuGH/streamflix/internal/health"
	"github.com/ManuGH/streamflix/internal/proxy"
)

// Operational routes served next to the relay and the JSON API.
const (
	RouteMetrics = "/metrics"
	RouteHealthz = "/healthz"
	RouteReadyz  = "/readyz"
)

// RouterConfig lists the handlers mounted on the root router.
type RouterConfig struct {
	ServiceName    string
	EnableTracing  bool
	MetricsEnabled bool

	Proxy  *proxy.Server
	API    *api.Server
	Health *health.Manager
}

// NewRouter builds the root handler. CORS is stamped inside the recoverer so
// that every response, 500s and preflights included, carries the fixed set.
// Unmatched paths get the relay's liveness placeholder.
func NewRouter(cfg RouterConfig) http.Handler {
	stack := middleware.StackConfig{
		EnableMetrics: cfg.MetricsEnabled,
		EnableLogging: true,
	}
	if cfg.EnableTracing {
		stack.TracingService = cfg.ServiceName
	}
	r := middleware.NewRouter(stack)
	r.Use(proxy.CORS)

	if cfg.MetricsEnabled {
		r.Method(http.MethodGet, RouteMetrics, promhttp.Handler())
	}
	if cfg.Health != nil {
		r.Get(RouteHealthz, cfg.Health.ServeHealth)
		r.Get(RouteReadyz, cfg.Health.ServeReady)
	}
	if cfg.API != nil {
		cfg.API.Routes(r)
	}
	if cfg.Proxy != nil {
		cfg.Proxy.Routes(r)
	}
	r.NotFound(proxy.Fallback)
	return r
}
