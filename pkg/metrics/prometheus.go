package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	scrapes       *prometheus.CounterVec
	cacheRequests *prometheus.CounterVec
	lastIndicator *prometheus.GaugeVec
	latency       *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		scrapes: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cafepull_scrapes_total",
				Help: "Total number of origin scrape attempts by outcome",
			},
			[]string{"source", "status"},
		),
		cacheRequests: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "cafepull_cache_requests_total",
				Help: "Cache lookups by key and result",
			},
			[]string{"key", "result"},
		),
		lastIndicator: promauto.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "cafepull_last_indicator_value",
				Help: "Last normalized value observed for an indicator",
			},
			[]string{"indicator"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "cafepull_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordScrape records a scrape outcome for a source.
func (r *Recorder) RecordScrape(source, status string) {
	r.scrapes.WithLabelValues(source, status).Inc()
}

// RecordCacheRequest records a cache hit or miss.
func (r *Recorder) RecordCacheRequest(key, result string) {
	r.cacheRequests.WithLabelValues(key, result).Inc()
}

// RecordLastIndicator records the last normalized value for an indicator.
func (r *Recorder) RecordLastIndicator(indicator string, value float64) {
	r.lastIndicator.WithLabelValues(indicator).Set(value)
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
