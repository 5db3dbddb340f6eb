package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "inteliver"

// Metrics is what the image service reports about each request.
type Metrics interface {
	Register(r prometheus.Registerer)

	StartRequest() func(success bool)
	Rejected(kind string)

	Fetch() func()
	Operation(name string) func()

	BytesFetched(int)
	BytesServed(int)
}

type Options struct {
	Labels prometheus.Labels
}

func copyLabels(p prometheus.Labels) prometheus.Labels {
	x := prometheus.Labels{}
	for k, v := range p {
		x[k] = v
	}
	return x
}

func New(o Options) Metrics {
	successful := copyLabels(o.Labels)
	failed := copyLabels(o.Labels)
	fetched := copyLabels(o.Labels)
	served := copyLabels(o.Labels)

	successful["state"] = "successful"
	failed["state"] = "failed"
	fetched["state"] = "fetched"
	served["state"] = "served"

	return &Instance{
		totalSuccessfulRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "total_requests",
			Help:        "The total number of image requests by outcome",
			ConstLabels: successful,
		}),
		totalFailedRequests: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "total_requests",
			Help:        "The total number of image requests by outcome",
			ConstLabels: failed,
		}),
		currentRequests: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace:   namespace,
			Name:        "current_requests",
			Help:        "The current number of image requests",
			ConstLabels: copyLabels(o.Labels),
		}),
		requestDurationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "request_duration_seconds",
			Help:        "The seconds spent serving image requests",
			ConstLabels: copyLabels(o.Labels),
		}),
		rejections: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "rejected_requests",
			Help:        "The requests rejected, by error kind",
			ConstLabels: copyLabels(o.Labels),
		}, []string{"kind"}),
		fetchDurationSeconds: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "fetch_duration_seconds",
			Help:        "The seconds spent fetching source images",
			ConstLabels: copyLabels(o.Labels),
		}),
		operationDurationSeconds: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace:   namespace,
			Name:        "operation_duration_seconds",
			Help:        "The seconds spent applying each operation",
			ConstLabels: copyLabels(o.Labels),
		}, []string{"operation"}),
		totalBytesFetched: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "total_bytes",
			Help:        "The total number of image bytes fetched or served",
			ConstLabels: fetched,
		}),
		totalBytesServed: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace:   namespace,
			Name:        "total_bytes",
			Help:        "The total number of image bytes fetched or served",
			ConstLabels: served,
		}),
	}
}

type Instance struct {
	totalSuccessfulRequests prometheus.Counter
	totalFailedRequests     prometheus.Counter
	currentRequests         prometheus.Gauge
	requestDurationSeconds  prometheus.Histogram
	rejections              *prometheus.CounterVec

	fetchDurationSeconds     prometheus.Histogram
	operationDurationSeconds *prometheus.HistogramVec

	totalBytesFetched prometheus.Counter
	totalBytesServed  prometheus.Counter
}

func (m *Instance) Register(r prometheus.Registerer) {
	r.MustRegister(
		m.currentRequests,
		m.requestDurationSeconds,
		m.totalFailedRequests,
		m.totalSuccessfulRequests,
		m.rejections,

		m.fetchDurationSeconds,
		m.operationDurationSeconds,

		m.totalBytesFetched,
		m.totalBytesServed,
	)
}

func (m *Instance) StartRequest() func(success bool) {
	start := time.Now()
	m.currentRequests.Inc()

	return func(success bool) {
		if success {
			m.totalSuccessfulRequests.Inc()
		} else {
			m.totalFailedRequests.Inc()
		}
		m.currentRequests.Dec()
		m.requestDurationSeconds.Observe(time.Since(start).Seconds())
	}
}

func (m *Instance) Rejected(kind string) {
	m.rejections.WithLabelValues(kind).Inc()
}

func (m *Instance) Fetch() func() {
	start := time.Now()

	return func() {
		m.fetchDurationSeconds.Observe(time.Since(start).Seconds())
	}
}

func (m *Instance) Operation(name string) func() {
	start := time.Now()
	observer := m.operationDurationSeconds.WithLabelValues(name)

	return func() {
		observer.Observe(time.Since(start).Seconds())
	}
}

func (m *Instance) BytesFetched(bytes int) {
	m.totalBytesFetched.Add(float64(bytes))
}

func (m *Instance) BytesServed(bytes int) {
	m.totalBytesServed.Add(float64(bytes))
}

// Noop discards everything. The render command and tests use it.
type Noop struct{}

func (Noop) Register(prometheus.Registerer)   {}
func (Noop) StartRequest() func(success bool) { return func(bool) {} }
func (Noop) Rejected(string)                  {}
func (Noop) Fetch() func()                    { return func() {} }
func (Noop) Operation(string) func()          { return func() {} }
func (Noop) BytesFetched(int)                 {}
func (Noop) BytesServed(int)                  {}
