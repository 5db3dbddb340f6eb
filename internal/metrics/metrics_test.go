package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInstance_Counters(t *testing.T) {
	m := New(Options{Labels: prometheus.Labels{"pod": "test"}}).(*Instance)
	reg := prometheus.NewRegistry()
	require.NotPanics(t, func() { m.Register(reg) })

	done := m.StartRequest()
	assert.Equal(t, 1.0, testutil.ToFloat64(m.currentRequests))
	done(true)
	assert.Equal(t, 0.0, testutil.ToFloat64(m.currentRequests))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.totalSuccessfulRequests))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.totalFailedRequests))

	m.StartRequest()(false)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.totalFailedRequests))

	m.Rejected("syntax")
	m.Rejected("syntax")
	assert.Equal(t, 2.0, testutil.ToFloat64(m.rejections.WithLabelValues("syntax")))

	m.BytesFetched(100)
	m.BytesServed(40)
	assert.Equal(t, 100.0, testutil.ToFloat64(m.totalBytesFetched))
	assert.Equal(t, 40.0, testutil.ToFloat64(m.totalBytesServed))

	m.Operation("blur")()
	m.Fetch()()
	assert.Equal(t, 1, testutil.CollectAndCount(m.operationDurationSeconds))
}

func TestNoop(t *testing.T) {
	var m Metrics = Noop{}
	assert.NotPanics(t, func() {
		m.Register(prometheus.NewRegistry())
		m.StartRequest()(true)
		m.Operation("gray")()
		m.Fetch()()
		m.Rejected("syntax")
	})
}
