// Package observability exposes run counters on an optional Prometheus
// endpoint, gated by METRICS_PORT.
package observability

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	PagesFetched = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "importer_pages_fetched_total",
			Help: "Supplier pages fetched, by fetch method",
		},
		[]string{"method"},
	)

	RecordsProcessed = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "importer_records_total",
			Help: "Import records processed, by final status",
		},
		[]string{"status"},
	)

	TranslationFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "importer_translation_failures_total",
			Help: "Translation calls that degraded to passthrough",
		},
	)
)

// Start registers the counters and serves /metrics on the given port.
func Start(port string) {
	prometheus.MustRegister(PagesFetched, RecordsProcessed, TranslationFailures)
	http.Handle("/metrics", promhttp.Handler())
	go http.ListenAndServe(":"+port, nil)
}
