package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Dataset Metrics
	DatasetRecords = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "launchdash_dataset_records",
		Help: "The number of launch records loaded at startup",
	})

	// Dashboard Metrics
	CallbacksTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "launchdash_callbacks_total",
		Help: "The total number of callback evaluations by output component",
	}, []string{"output"})
	CallbackErrorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "launchdash_callback_errors_total",
		Help: "The total number of rejected or failed callback evaluations by output component",
	}, []string{"output"})
	RenderLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "launchdash_render_latency_seconds",
		Help:    "Latency of chart rendering",
		Buckets: prometheus.DefBuckets,
	}, []string{"kind"})
	CacheHitsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "launchdash_cache_hits_total",
		Help: "The total number of rendered charts served from cache",
	})
	CacheMissesTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "launchdash_cache_misses_total",
		Help: "The total number of rendered charts that had to be drawn",
	})

	// Worker Metrics
	WorkerJobsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "launchdash_worker_jobs_total",
		Help: "The total number of background jobs by result",
	}, []string{"result"})

	// HTTP Metrics
	HTTPRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "launchdash_http_requests_total",
		Help: "The total number of HTTP requests by route and status code",
	}, []string{"route", "code"})
)
