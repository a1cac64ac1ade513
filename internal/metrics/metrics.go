// Package metrics provides Prometheus instrumentation for the SaaSMesh
// services. Emission is best-effort: a failed or missing metric never
// changes the outcome of the request that produced it.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the metric instruments for one service process.
// Domain counters are labeled by tenant tier, never by raw tenant id, to
// keep cardinality bounded and avoid leaking tenant identifiers.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	ProductsCreated     *prometheus.CounterVec
	OrdersCreated       *prometheus.CounterVec
	FulfillmentComplete *prometheus.CounterVec
	InvoiceTotalPrice   *prometheus.HistogramVec
}

// New creates a Metrics with all instruments registered on a fresh registry.
// serviceName is attached as a constant label on every series.
func New(serviceName string) *Metrics {
	reg := prometheus.NewRegistry()
	constLabels := prometheus.Labels{"service": serviceName}

	m := &Metrics{
		registry: reg,
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "http_requests_total",
				Help:        "Total number of HTTP requests",
				ConstLabels: constLabels,
			},
			[]string{"handler", "method", "status"},
		),
		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "http_request_duration_seconds",
				Help:        "HTTP request duration in seconds",
				Buckets:     prometheus.DefBuckets,
				ConstLabels: constLabels,
			},
			[]string{"handler", "method"},
		),
		ProductsCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "products_created_total",
				Help:        "Products created",
				ConstLabels: constLabels,
			},
			[]string{"tenant_tier"},
		),
		OrdersCreated: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "orders_created_total",
				Help:        "Orders created",
				ConstLabels: constLabels,
			},
			[]string{"tenant_tier"},
		),
		FulfillmentComplete: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name:        "fulfillments_complete_total",
				Help:        "Fulfillment requests forwarded to the queue",
				ConstLabels: constLabels,
			},
			[]string{"tenant_tier"},
		),
		InvoiceTotalPrice: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:        "invoice_total_price",
				Help:        "Computed invoice totals",
				Buckets:     []float64{1, 10, 50, 100, 500, 1000, 5000},
				ConstLabels: constLabels,
			},
			[]string{"tenant_tier"},
		),
	}

	reg.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.ProductsCreated,
		m.OrdersCreated,
		m.FulfillmentComplete,
		m.InvoiceTotalPrice,
	)
	return m
}

// Middleware instruments HTTP requests with count and duration, labeled by
// the route pattern given as handler name.
func (m *Metrics) Middleware(handler string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w, status: http.StatusOK}

			next.ServeHTTP(sw, r)

			m.requestsTotal.WithLabelValues(handler, r.Method, strconv.Itoa(sw.status)).Inc()
			m.requestDuration.WithLabelValues(handler, r.Method).Observe(time.Since(start).Seconds())
		})
	}
}

// Handler returns the /metrics scrape handler for this registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}
