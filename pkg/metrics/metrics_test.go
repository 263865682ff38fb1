package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// value returns the value of the series of family name whose labels match.
func value(t *testing.T, m *Metrics, name string, labels map[string]string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)

	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if matches(metric, labels) {
				switch {
				case metric.Gauge != nil:
					return metric.GetGauge().GetValue()
				case metric.Counter != nil:
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}

func matches(metric *dto.Metric, labels map[string]string) bool {
	if len(metric.GetLabel()) != len(labels) {
		return false
	}
	for _, lp := range metric.GetLabel() {
		if labels[lp.GetName()] != lp.GetValue() {
			return false
		}
	}
	return true
}

func TestSessionLifecycle(t *testing.T) {
	m := New(nil)
	sse := map[string]string{"transport": TransportSSE}

	done := m.SessionStarted(TransportSSE)
	assert.Equal(t, 1.0, value(t, m, "logstream_active_sessions", sse))
	assert.Equal(t, 1.0, value(t, m, "logstream_sessions_total", sse))

	done()
	assert.Equal(t, 0.0, value(t, m, "logstream_active_sessions", sse))
	assert.Equal(t, 1.0, value(t, m, "logstream_sessions_total", sse))
}

func TestFramesAndErrors(t *testing.T) {
	m := New(nil)
	m.FrameSent(TransportWebSocket, "line")
	m.FrameSent(TransportWebSocket, "line")
	m.StreamError("READ_ERROR")

	assert.Equal(t, 2.0, value(t, m, "logstream_frames_total",
		map[string]string{"transport": TransportWebSocket, "kind": "line"}))
	assert.Equal(t, 1.0, value(t, m, "logstream_stream_errors_total",
		map[string]string{"code": "READ_ERROR"}))
}

func TestNilMetrics(t *testing.T) {
	var m *Metrics
	m.SessionStarted(TransportSSE)()
	m.FrameSent(TransportSSE, "line")
	m.StreamError("X")
	assert.Nil(t, m.Registry())
}

func TestHandlerExposesOpenHandles(t *testing.T) {
	m := New(func() int64 { return 3 })

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest("GET", "/metrics", nil))

	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	assert.Equal(t, 200, rec.Code)
	assert.Contains(t, string(body), "logstream_open_file_handles 3")
}
