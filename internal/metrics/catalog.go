// Copyright (c) 2025 ManuGH
// Licensed under the PolyForm Noncommercial License 1.0.0

package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// CatalogRecords is the record count per source kind at the last refresh.
	CatalogRecords = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Name: "streamflix_catalog_records",
		Help: "Catalog records by source kind at the last refresh",
	}, []string{"source_kind"})

	// CatalogRefreshErrorsTotal counts failed catalog refreshes.
	CatalogRefreshErrorsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "streamflix_catalog_refresh_errors_total",
		Help: "Catalog size refreshes that failed to list the store",
	})
)

// SetCatalogRecords replaces the per-kind record counts.
func SetCatalogRecords(counts map[string]int) {
	CatalogRecords.Reset()
	for kind, n := range counts {
		CatalogRecords.WithLabelValues(kind).Set(float64(n))
	}
}

// IncCatalogRefreshError records a failed refresh.
func IncCatalogRefreshError() {
	CatalogRefreshErrorsTotal.Inc()
}
