package stats

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "olla_explorer"

const (
	labelResult = "result"
	labelState  = "state"
	labelType   = "type"

	resultSuccess = "success"
	resultFailure = "failure"
	stateComplete = "complete"
	stateDegraded = "degraded"
)

// promMetrics lives on its own registry rather than the global default so
// several collectors (tests mostly) can coexist in one process.
type promMetrics struct {
	registry *prometheus.Registry

	runs             prometheus.Counter
	runDuration      prometheus.Histogram
	servers          *prometheus.CounterVec
	serverDuration   *prometheus.HistogramVec
	models           *prometheus.CounterVec
	securityBlocked  *prometheus.CounterVec
	serversRequested prometheus.Histogram
}

func newPromMetrics() *promMetrics {
	m := &promMetrics{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "fetch",
			Name:      "runs_total",
			Help:      "Total number of aggregation runs",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "fetch",
			Name:      "run_duration_seconds",
			Help:      "Wall time of a full aggregation run",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30, 60},
		}),
		serversRequested: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "fetch",
			Name:      "servers_per_run",
			Help:      "Distinct servers queried per aggregation run",
			Buckets:   []float64{1, 2, 4, 8, 16, 32},
		}),
		servers: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "server",
			Name:      "fetches_total",
			Help:      "Server listing fetches by result",
		}, []string{labelResult}),
		serverDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "server",
			Name:      "fetch_duration_seconds",
			Help:      "Time to list and inspect one server",
			Buckets:   prometheus.DefBuckets,
		}, []string{labelResult}),
		models: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "model",
			Name:      "inspections_total",
			Help:      "Model inspections by outcome",
		}, []string{labelState}),
		securityBlocked: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "security",
			Name:      "violations_total",
			Help:      "Requests rejected by a security validator",
		}, []string{labelType}),
	}

	m.registry.MustRegister(
		m.runs,
		m.runDuration,
		m.serversRequested,
		m.servers,
		m.serverDuration,
		m.models,
		m.securityBlocked,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

func (m *promMetrics) observeRun(servers int, d time.Duration) {
	m.runs.Inc()
	m.runDuration.Observe(d.Seconds())
	m.serversRequested.Observe(float64(servers))
}

func (m *promMetrics) observeServer(success bool, d time.Duration) {
	result := resultFailure
	if success {
		result = resultSuccess
	}
	m.servers.WithLabelValues(result).Inc()
	m.serverDuration.WithLabelValues(result).Observe(d.Seconds())
}

func (m *promMetrics) observeModel(degraded bool) {
	state := stateComplete
	if degraded {
		state = stateDegraded
	}
	m.models.WithLabelValues(state).Inc()
}

func (m *promMetrics) handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
