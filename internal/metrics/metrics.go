// Package metrics holds the Prometheus instruments shared by both binaries.
// All collectors are registered with the global registry, so importing this
// package in main.go is enough to expose them on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	// Mutations counts API writes by entity, op (create|update|delete|upsert|upload)
	// and result (ok or the error wire code).
	Mutations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viya_api_mutations_total",
			Help: "Data API write operations by entity, op, and result.",
		}, []string{"entity", "op", "result"})

	APILatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "viya_api_request_seconds",
			Help:    "Data API handler latency by route pattern.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route"})

	CacheHits = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viya_cache_hits_total",
			Help: "Collection cache hits by entity.",
		}, []string{"entity"})

	CacheMisses = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viya_cache_misses_total",
			Help: "Collection cache misses by entity.",
		}, []string{"entity"})

	CacheInvalidations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viya_cache_invalidations_total",
			Help: "Collection cache invalidations by entity.",
		}, []string{"entity"})

	FallbackActivations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "viya_fallback_activations_total",
			Help: "Public pages rendered from the sample dataset, by page.",
		}, []string{"page"})

	UploadRejections = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "viya_upload_rejections_total",
			Help: "Media uploads refused for exceeding the size limit.",
		})
)

func init() {
	prometheus.MustRegister(
		Mutations,
		APILatency,
		CacheHits,
		CacheMisses,
		CacheInvalidations,
		FallbackActivations,
		UploadRejections,
	)
}
