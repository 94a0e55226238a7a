package obs

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds every storefront collector. It is private to the process so
// tests can construct servers repeatedly without duplicate registration.
var Registry = prometheus.NewRegistry()

var factory = promauto.With(Registry)

var (
	HTTPRequests = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "http_requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"route", "status"})

	HTTPLatencyMS = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "storefront",
		Name:      "http_request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"route"})

	CommerceCalls = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Subsystem: "commerce",
		Name:      "calls_total",
		Help:      "Calls made to the commerce API by operation and outcome.",
	}, []string{"operation", "outcome"})

	CommerceLatencyMS = factory.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "storefront",
		Subsystem: "commerce",
		Name:      "call_duration_ms",
		Help:      "Commerce API call latency in milliseconds.",
		Buckets:   []float64{25, 50, 100, 250, 500, 1000, 2500, 5000, 10000},
	}, []string{"operation"})

	CartIntents = factory.NewCounterVec(prometheus.CounterOpts{
		Namespace: "storefront",
		Name:      "cart_intents_total",
		Help:      "Cart intents dispatched by kind and outcome.",
	}, []string{"intent", "outcome"})
)

// ObserveCommerce records one commerce API call.
func ObserveCommerce(operation string, start time.Time, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	CommerceCalls.WithLabelValues(operation, outcome).Inc()
	CommerceLatencyMS.WithLabelValues(operation).Observe(float64(time.Since(start).Microseconds()) / 1000.0)
}

// ObserveIntent records one dispatched cart intent.
func ObserveIntent(intent string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	CartIntents.WithLabelValues(intent, outcome).Inc()
}

// MetricsHandler serves the registry in the Prometheus exposition format.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}
