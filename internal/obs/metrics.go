package obs

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics groups the collectors exported on /metrics.
type Metrics struct {
	Registry         *prometheus.Registry
	UpstreamRequests *prometheus.CounterVec
	UpstreamDuration *prometheus.HistogramVec
	GatewayRequests  *prometheus.CounterVec
	Adjustments      *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		UpstreamRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vendor_upstream_requests_total",
			Help: "Requests issued to the inventory API, by method and status.",
		}, []string{"method", "status"}),
		UpstreamDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "vendor_upstream_request_duration_seconds",
			Help:    "Round trip time of requests to the inventory API, by method.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method"}),
		GatewayRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vendor_gateway_requests_total",
			Help: "Requests served by the gateway, by method and status.",
		}, []string{"method", "status"}),
		Adjustments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "vendor_stock_adjustments_total",
			Help: "Stock adjustments submitted, by transaction type and outcome.",
		}, []string{"transaction_type", "outcome"}),
	}
	m.Registry.MustRegister(
		collectors.NewGoCollector(),
		m.UpstreamRequests,
		m.UpstreamDuration,
		m.GatewayRequests,
		m.Adjustments,
	)
	return m
}

// ObserveUpstream matches the client request observer signature.
// A zero status means no response was received.
func (m *Metrics) ObserveUpstream(method string, status int, elapsed time.Duration) {
	label := "network_error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	m.UpstreamRequests.WithLabelValues(method, label).Inc()
	m.UpstreamDuration.WithLabelValues(method).Observe(elapsed.Seconds())
}

func (m *Metrics) ObserveGateway(method string, status int) {
	m.GatewayRequests.WithLabelValues(method, strconv.Itoa(status)).Inc()
}

func (m *Metrics) ObserveAdjustment(kind string, err error) {
	outcome := "succeeded"
	if err != nil {
		outcome = "failed"
	}
	m.Adjustments.WithLabelValues(kind, outcome).Inc()
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
