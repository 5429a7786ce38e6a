package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	providerRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqlqueryai_provider_requests_total",
			Help: "Total number of SQL generation requests sent to an LLM provider.",
		},
		[]string{"provider", "outcome"},
	)

	providerRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sqlqueryai_provider_request_duration_seconds",
			Help:    "LLM provider round-trip latency.",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 15, 30, 60},
		},
		[]string{"provider"},
	)

	extractionTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqlqueryai_extraction_total",
			Help: "Provider replies by the extraction rule that produced the query.",
		},
		[]string{"stage"},
	)

	httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "sqlqueryai_http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "route", "status"},
	)

	httpRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "sqlqueryai_http_request_duration_seconds",
			Help:    "HTTP request latency by route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
)

func init() {
	prometheus.MustRegister(
		providerRequestsTotal,
		providerRequestDurationSeconds,
		extractionTotal,
		httpRequestsTotal,
		httpRequestDurationSeconds,
	)
}

// ObserveProviderRequest records one provider round trip
func ObserveProviderRequest(provider, outcome string, elapsed time.Duration) {
	providerRequestsTotal.WithLabelValues(provider, outcome).Inc()
	providerRequestDurationSeconds.WithLabelValues(provider).Observe(elapsed.Seconds())
}

// ObserveExtraction records which extraction rule handled a reply
func ObserveExtraction(stage string) {
	extractionTotal.WithLabelValues(stage).Inc()
}

// ObserveHTTPRequest records one served HTTP request
func ObserveHTTPRequest(method, route string, status int, elapsed time.Duration) {
	httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpRequestDurationSeconds.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

// Handler exposes the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
