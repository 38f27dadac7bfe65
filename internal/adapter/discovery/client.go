package discovery

import (
	"context"
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/thushan/olla-explorer/internal/core/domain"
)

// InventoryClient is the upstream side of the pipeline, one implementation
// talks to real Ollama servers and tests swap in fakes
type InventoryClient interface {
	// ListModels returns the server's model listing, an absent list is empty
	ListModels(ctx context.Context, baseURL string) ([]domain.ModelSummary, error)

	// DescribeModel returns the raw detail document for one model. The body
	// is guaranteed to be a JSON object, the contents are not.
	DescribeModel(ctx context.Context, baseURL, name string) ([]byte, error)
}

// InventoryMetrics is a point-in-time copy of the client counters
type InventoryMetrics struct {
	ErrorsByServer     map[string]int64 `json:"errors_by_server"`
	TotalRequests      int64            `json:"total_requests"`
	SuccessfulRequests int64            `json:"successful_requests"`
	FailedRequests     int64            `json:"failed_requests"`
	Retries            int64            `json:"retries"`
	AverageLatency     time.Duration    `json:"avg_latency"`
}

type clientMetrics struct {
	errorsByServer *xsync.Map[string, *xsync.Counter]
	total          *xsync.Counter
	successful     *xsync.Counter
	failed         *xsync.Counter
	retries        *xsync.Counter
	latencyNanos   *xsync.Counter
}

func newClientMetrics() *clientMetrics {
	return &clientMetrics{
		errorsByServer: xsync.NewMap[string, *xsync.Counter](),
		total:          xsync.NewCounter(),
		successful:     xsync.NewCounter(),
		failed:         xsync.NewCounter(),
		retries:        xsync.NewCounter(),
		latencyNanos:   xsync.NewCounter(),
	}
}

func (m *clientMetrics) recordSuccess(latency time.Duration) {
	m.total.Inc()
	m.successful.Inc()
	m.latencyNanos.Add(int64(latency))
}

func (m *clientMetrics) recordFailure(server string) {
	m.total.Inc()
	m.failed.Inc()
	counter, _ := m.errorsByServer.LoadOrCompute(server, func() (*xsync.Counter, bool) {
		return xsync.NewCounter(), false
	})
	counter.Inc()
}

func (m *clientMetrics) snapshot() InventoryMetrics {
	snap := InventoryMetrics{
		ErrorsByServer:     make(map[string]int64, m.errorsByServer.Size()),
		TotalRequests:      m.total.Value(),
		SuccessfulRequests: m.successful.Value(),
		FailedRequests:     m.failed.Value(),
		Retries:            m.retries.Value(),
	}
	if snap.SuccessfulRequests > 0 {
		snap.AverageLatency = time.Duration(m.latencyNanos.Value() / snap.SuccessfulRequests)
	}
	m.errorsByServer.Range(func(server string, counter *xsync.Counter) bool {
		snap.ErrorsByServer[server] = counter.Value()
		return true
	})
	return snap
}
