// Package metrics holds the Prometheus collectors of the service. All
// methods are safe to call on a nil *Metrics, which records nothing.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "logstream"

// Transport label values.
const (
	TransportSSE       = "sse"
	TransportWebSocket = "websocket"
)

// Metrics is a private registry plus the collectors registered in it.
type Metrics struct {
	registry *prometheus.Registry

	activeSessions *prometheus.GaugeVec
	sessionsTotal  *prometheus.CounterVec
	framesTotal    *prometheus.CounterVec
	streamErrors   *prometheus.CounterVec
}

// New creates the collectors. openHandles, when non-nil, is exported as the
// number of open log file handles.
func New(openHandles func() int64) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		activeSessions: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "active_sessions",
			Help:      "Number of connected stream clients.",
		}, []string{"transport"}),
		sessionsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_total",
			Help:      "Stream sessions started.",
		}, []string{"transport"}),
		framesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "frames_total",
			Help:      "Frames written to clients.",
		}, []string{"transport", "kind"}),
		streamErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stream_errors_total",
			Help:      "Sessions that ended with a read or open error.",
		}, []string{"code"}),
	}

	m.registry.MustRegister(
		m.activeSessions,
		m.sessionsTotal,
		m.framesTotal,
		m.streamErrors,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	if openHandles != nil {
		m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "open_file_handles",
			Help:      "Log file handles currently held by sessions.",
		}, func() float64 { return float64(openHandles()) }))
	}
	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// SessionStarted records a new connection and returns the func to call when
// it ends.
func (m *Metrics) SessionStarted(transport string) func() {
	if m == nil {
		return func() {}
	}
	m.sessionsTotal.WithLabelValues(transport).Inc()
	g := m.activeSessions.WithLabelValues(transport)
	g.Inc()
	return g.Dec
}

// FrameSent counts one frame written to a client.
func (m *Metrics) FrameSent(transport, kind string) {
	if m == nil {
		return
	}
	m.framesTotal.WithLabelValues(transport, kind).Inc()
}

// StreamError counts a session that ended with an error code.
func (m *Metrics) StreamError(code string) {
	if m == nil {
		return
	}
	m.streamErrors.WithLabelValues(code).Inc()
}
