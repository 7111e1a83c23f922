// Package metrics holds Prometheus instruments that are used across the
// portal.  All collectors are registered with the global registry, so
// importing this package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	ApplicationsSubmitted = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "etas_applications_submitted_total",
			Help: "Cumulative number of applications stored.",
		})

	ApplicationErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "etas_application_errors_total",
			Help: "Cumulative number of failed application submissions.",
		})

	DocumentsRendered = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "etas_documents_rendered_total",
			Help: "Cumulative number of documents rendered and packaged.",
		})

	RenderErrors = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "etas_document_render_errors_total",
			Help: "Cumulative number of failed render, raster, or packaging runs.",
		})

	ExportDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "etas_export_duration_seconds",
			Help:    "Wall time of the normalize-render-raster-package pipeline.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		})

	ActiveBlobRefs = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "etas_active_blob_refs",
			Help: "Transient PDF references currently held in memory.",
		})
)

func init() {
	prometheus.MustRegister(
		ApplicationsSubmitted,
		ApplicationErrors,
		DocumentsRendered,
		RenderErrors,
		ExportDuration,
		ActiveBlobRefs,
	)
}
