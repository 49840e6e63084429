// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gorental_http_requests_total",
			Help: "HTTP requests by method, route and status.",
		},
		[]string{"method", "route", "status"},
	)

	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "gorental_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	HTTPInFlight = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "gorental_http_in_flight_requests",
		Help: "Requests currently being served.",
	})

	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gorental_auth_logins_total",
			Help: "Login attempts by result (success, invalid, inactive, error).",
		},
		[]string{"result"},
	)

	QuotaDenialsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gorental_quota_denials_total",
			Help: "Creates rejected because the plan limit was reached, by entity kind.",
		},
		[]string{"kind"},
	)

	ReceiptsGeneratedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "gorental_receipts_generated_total",
			Help: "Receipts issued, by origin (api, worker).",
		},
		[]string{"origin"},
	)
)

func init() {
	prometheus.MustRegister(
		HTTPRequestsTotal,
		HTTPRequestDuration,
		HTTPInFlight,
		LoginsTotal,
		QuotaDenialsTotal,
		ReceiptsGeneratedTotal,
	)
}

// Handler serves the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}

// ObserveRequest records one finished HTTP request.
func ObserveRequest(method, route string, status int, elapsed time.Duration) {
	HTTPRequestsTotal.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	HTTPRequestDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
