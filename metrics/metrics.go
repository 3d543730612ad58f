package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "orderly"

// Checkout outcomes.
const (
	CheckoutSuccess    = "success"
	CheckoutEmptyCart  = "empty_cart"
	CheckoutOutOfStock = "out_of_stock"
	CheckoutRejected   = "rejected"
	CheckoutError      = "error"
)

type Metrics struct {
	Requests  *prometheus.CounterVec
	LatencyMS *prometheus.HistogramVec
	Checkouts *prometheus.CounterVec

	registry *prometheus.Registry
}

// New builds the collectors on their own registry so several APIs can live
// in one process.
func New() *Metrics {
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "requests_total",
		Help:      "Total number of HTTP requests.",
	}, []string{"route", "method", "status"})
	latency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "http",
		Name:      "request_duration_ms",
		Help:      "HTTP request latency in milliseconds.",
		Buckets:   []float64{5, 10, 25, 50, 100, 250, 500, 1000, 2500, 5000},
	}, []string{"route", "method"})
	checkouts := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "checkout",
		Name:      "attempts_total",
		Help:      "Checkout attempts by outcome.",
	}, []string{"result"})

	reg := prometheus.NewRegistry()
	reg.MustRegister(requests, latency, checkouts)

	return &Metrics{
		Requests:  requests,
		LatencyMS: latency,
		Checkouts: checkouts,
		registry:  reg,
	}
}

func (m *Metrics) Checkout(result string) {
	m.Checkouts.WithLabelValues(result).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
