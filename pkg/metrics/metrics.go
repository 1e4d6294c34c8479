// Package metrics exposes Prometheus collectors for the receipt pipeline and
// payment dispatch.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"splitbill/models"
)

// Parse results recorded by ObserveParse.
const (
	ParseOK          = "ok"
	ParseDecodeError = "decode_error"
	ParseNoItems     = "no_items"
	ParseError       = "error"
)

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	receipts     *prometheus.CounterVec
	items        prometheus.Histogram
	parseSeconds prometheus.Histogram
	payments     *prometheus.CounterVec
	requests     *prometheus.CounterVec
}

// New registers all collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		receipts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "splitbill_receipts_parsed_total",
			Help: "Receipt parse attempts by result.",
		}, []string{"result"}),
		items: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "splitbill_receipt_items",
			Help:    "Items extracted per successfully parsed receipt.",
			Buckets: []float64{1, 2, 3, 5, 8, 13, 21, 34},
		}),
		parseSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "splitbill_receipt_parse_seconds",
			Help:    "Time spent preprocessing and recognizing a receipt.",
			Buckets: prometheus.ExponentialBuckets(0.05, 2, 10),
		}),
		payments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "splitbill_payment_requests_total",
			Help: "Payment request outcomes per assigned item.",
		}, []string{"outcome"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "splitbill_http_requests_total",
			Help: "HTTP requests by route and status code.",
		}, []string{"method", "route", "code"}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.receipts, m.items, m.parseSeconds, m.payments, m.requests,
	)
	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// ObserveParse records one receipt parse attempt.
func (m *Metrics) ObserveParse(result string, items int, took time.Duration) {
	m.receipts.WithLabelValues(result).Inc()
	m.parseSeconds.Observe(took.Seconds())
	if result == ParseOK {
		m.items.Observe(float64(items))
	}
}

// ObserveOutcome records one dispatched item.
func (m *Metrics) ObserveOutcome(o models.Outcome) {
	m.payments.WithLabelValues(o.String()).Inc()
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(method, route string, code int) {
	m.requests.WithLabelValues(method, route, strconv.Itoa(code)).Inc()
}
