package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Upstream provider metrics
	UpstreamRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockpulse_upstream_requests_total",
			Help: "Total number of calls issued to the market data provider",
		},
		[]string{"function", "status"}, // status: success|error|timeout|rate_limited|breaker_open
	)

	UpstreamLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "stockpulse_upstream_latency_seconds",
			Help:    "Market data provider call latency in seconds",
			Buckets: []float64{0.1, 0.25, 0.5, 1, 2, 5, 10},
		},
		[]string{"function"},
	)

	// Response cache metrics
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockpulse_cache_lookups_total",
			Help: "Response cache lookups by result",
		},
		[]string{"result"}, // result: hit|miss|expired|error
	)

	// Aggregation metrics
	Fallbacks = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockpulse_fallbacks_total",
			Help: "Aggregations served from synthetic data",
		},
		[]string{"category", "reason"}, // reason: transport|provider|shape|caller|unknown
	)

	Aggregations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "stockpulse_aggregations_total",
			Help: "Aggregations served, by category and source",
		},
		[]string{"category", "source"},
	)
)

func init() {
	prometheus.MustRegister(
		UpstreamRequests,
		UpstreamLatency,
		CacheLookups,
		Fallbacks,
		Aggregations,
	)
}

// ObserveUpstream records one provider call.
func ObserveUpstream(function, status string, elapsed time.Duration) {
	UpstreamRequests.WithLabelValues(function, status).Inc()
	UpstreamLatency.WithLabelValues(function).Observe(elapsed.Seconds())
}

// Handler exposes the default registry for scraping.
func Handler() http.Handler {
	return promhttp.Handler()
}
