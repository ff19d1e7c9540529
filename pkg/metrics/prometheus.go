package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain repository.Metrics using Prometheus.
type Recorder struct {
	upstreamCalls    *prometheus.CounterVec
	cacheLookups     *prometheus.CounterVec
	resolverOutcomes *prometheus.CounterVec
	turnLatency      *prometheus.HistogramVec
	payloadBytes     prometheus.Histogram
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		upstreamCalls: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finsight_upstream_calls_total",
				Help: "Total upstream market-data API calls",
			},
			[]string{"category", "result"},
		),
		cacheLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finsight_cache_lookups_total",
				Help: "Data cache lookups by category and outcome",
			},
			[]string{"category", "outcome"},
		),
		resolverOutcomes: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "finsight_resolver_outcomes_total",
				Help: "Symbol resolution outcomes by strategy",
			},
			[]string{"strategy"},
		),
		turnLatency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "finsight_turn_duration_seconds",
				Help:    "Duration of one aggregation turn",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"outcome"},
		),
		payloadBytes: promauto.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "finsight_payload_bytes",
				Help:    "Size of compacted payloads",
				Buckets: prometheus.ExponentialBuckets(64, 2, 8),
			},
		),
	}
}

// RecordUpstreamCall records one upstream API call.
func (r *Recorder) RecordUpstreamCall(category, result string) {
	r.upstreamCalls.WithLabelValues(category, result).Inc()
}

// RecordCacheLookup records a cache hit or miss.
func (r *Recorder) RecordCacheLookup(category, outcome string) {
	r.cacheLookups.WithLabelValues(category, outcome).Inc()
}

// RecordResolution records which strategy resolved a query.
func (r *Recorder) RecordResolution(strategy string) {
	r.resolverOutcomes.WithLabelValues(strategy).Inc()
}

// RecordTurn records one turn's latency by outcome.
func (r *Recorder) RecordTurn(outcome string, seconds float64) {
	r.turnLatency.WithLabelValues(outcome).Observe(seconds)
}

// RecordPayloadSize records the compacted payload size in bytes.
func (r *Recorder) RecordPayloadSize(n int) {
	r.payloadBytes.Observe(float64(n))
}
