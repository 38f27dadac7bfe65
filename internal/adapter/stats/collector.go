package stats

/*
	Collector is the single sink for everything the explorer counts: aggregation
	runs, per-server fetch outcomes, model inspection results and the requests the
	security validators turn away. Two views come out of it, a JSON snapshot for
	/internal/stats and the prometheus registry behind /metrics.

	Servers are whatever callers typed into the form so the per-server table is
	bounded. Entries not seen for ServerTTL are dropped and we never keep more
	than MaxTrackedServers, oldest first.
*/

import (
	"net/http"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/puzpuzpuz/xsync/v4"

	"github.com/thushan/olla-explorer/internal/core/constants"
	"github.com/thushan/olla-explorer/internal/core/ports"
	"github.com/thushan/olla-explorer/internal/logger"
)

const (
	MaxTrackedServers = 100
	ServerTTL         = 1 * time.Hour
	CleanupInterval   = 5 * time.Minute

	rateLimitedIPTTL = time.Hour
	runSampleSize    = 200
)

type Collector struct {
	logger  logger.StyledLogger
	metrics *promMetrics

	servers        *xsync.Map[string, *serverData]
	rateLimitedIPs *xsync.Map[string, int64]
	runLatency     *ReservoirSampler

	runs             *xsync.Counter
	runNanos         *xsync.Counter
	serversSucceeded *xsync.Counter
	serversFailed    *xsync.Counter
	modelsInspected  *xsync.Counter
	modelsDegraded   *xsync.Counter
	rateViolations   *xsync.Counter
	sizeViolations   *xsync.Counter

	lastCleanup atomic.Int64
	cleanupMu   sync.Mutex
}

type serverData struct {
	successes    atomic.Int64
	failures     atomic.Int64
	models       atomic.Int64
	successNanos atomic.Int64
	lastSeen     atomic.Int64
}

// Snapshot is the body served on /internal/stats.
type Snapshot struct {
	Fetch      ports.FetchStats    `json:"fetch"`
	RunLatency LatencyPercentiles  `json:"run_latency_ms"`
	Servers    []ports.ServerStats `json:"servers"`
	Security   ports.SecurityStats `json:"security"`
}

type LatencyPercentiles struct {
	P50 int64 `json:"p50"`
	P95 int64 `json:"p95"`
	P99 int64 `json:"p99"`
}

func NewCollector(log logger.StyledLogger) *Collector {
	c := &Collector{
		logger:           log,
		metrics:          newPromMetrics(),
		servers:          xsync.NewMap[string, *serverData](),
		rateLimitedIPs:   xsync.NewMap[string, int64](),
		runLatency:       NewReservoirSampler(runSampleSize),
		runs:             xsync.NewCounter(),
		runNanos:         xsync.NewCounter(),
		serversSucceeded: xsync.NewCounter(),
		serversFailed:    xsync.NewCounter(),
		modelsInspected:  xsync.NewCounter(),
		modelsDegraded:   xsync.NewCounter(),
		rateViolations:   xsync.NewCounter(),
		sizeViolations:   xsync.NewCounter(),
	}
	c.lastCleanup.Store(time.Now().UnixNano())
	return c
}

func (c *Collector) RecordRun(servers int, duration time.Duration) {
	c.runs.Inc()
	c.runNanos.Add(int64(duration))
	c.runLatency.Add(duration.Milliseconds())
	c.metrics.observeRun(servers, duration)

	c.tryCleanup(time.Now().UnixNano())
}

func (c *Collector) RecordServer(server string, success bool, models int, duration time.Duration) {
	now := time.Now().UnixNano()

	data, _ := c.servers.LoadOrCompute(server, func() (*serverData, bool) {
		return &serverData{}, false
	})
	data.lastSeen.Store(now)

	if success {
		c.serversSucceeded.Inc()
		data.successes.Add(1)
		data.models.Add(int64(models))
		data.successNanos.Add(int64(duration))
	} else {
		c.serversFailed.Inc()
		data.failures.Add(1)
	}
	c.metrics.observeServer(success, duration)
}

func (c *Collector) RecordModel(degraded bool) {
	c.modelsInspected.Inc()
	if degraded {
		c.modelsDegraded.Inc()
	}
	c.metrics.observeModel(degraded)
}

func (c *Collector) RecordSecurityViolation(violation ports.SecurityViolation) {
	switch violation.ViolationType {
	case constants.ViolationRateLimit:
		c.rateViolations.Inc()
		c.recordRateLimitedIP(violation.ClientID, violation.Timestamp)
	case constants.ViolationSizeLimit:
		c.sizeViolations.Inc()
	default:
		c.logger.Debug("Ignoring unknown security violation", "type", violation.ViolationType)
		return
	}
	c.metrics.securityBlocked.WithLabelValues(violation.ViolationType).Inc()
}

func (c *Collector) recordRateLimitedIP(clientIP string, at time.Time) {
	if clientIP == "" {
		return
	}
	if at.IsZero() {
		at = time.Now()
	}
	c.rateLimitedIPs.Store(clientIP, at.UnixNano())
}

func (c *Collector) GetFetchStats() ports.FetchStats {
	runs := c.runs.Value()
	ok := c.serversSucceeded.Value()
	failed := c.serversFailed.Value()

	stats := ports.FetchStats{
		TotalRuns:        runs,
		ServersSucceeded: ok,
		ServersFailed:    failed,
		ModelsInspected:  c.modelsInspected.Value(),
		ModelsDegraded:   c.modelsDegraded.Value(),
	}
	if runs > 0 {
		stats.AverageRunMs = time.Duration(c.runNanos.Value() / runs).Milliseconds()
	}
	if total := ok + failed; total > 0 {
		stats.ServerSuccessPct = float64(ok) / float64(total) * 100
	}
	return stats
}

// GetServerStats is ordered by most recently seen first.
func (c *Collector) GetServerStats() []ports.ServerStats {
	stats := make([]ports.ServerStats, 0, c.servers.Size())

	c.servers.Range(func(server string, data *serverData) bool {
		successes := data.successes.Load()
		entry := ports.ServerStats{
			Server:         server,
			LastSeen:       time.Unix(0, data.lastSeen.Load()),
			Successes:      successes,
			Failures:       data.failures.Load(),
			ModelsReported: data.models.Load(),
		}
		if successes > 0 {
			entry.AverageLatency = time.Duration(data.successNanos.Load() / successes).Milliseconds()
		}
		stats = append(stats, entry)
		return true
	})

	slices.SortFunc(stats, func(a, b ports.ServerStats) int {
		if order := b.LastSeen.Compare(a.LastSeen); order != 0 {
			return order
		}
		if a.Server < b.Server {
			return -1
		}
		if a.Server > b.Server {
			return 1
		}
		return 0
	})
	return stats
}

func (c *Collector) GetSecurityStats() ports.SecurityStats {
	cutoff := time.Now().Add(-rateLimitedIPTTL).UnixNano()
	unique := 0
	c.rateLimitedIPs.Range(func(ip string, seen int64) bool {
		if seen >= cutoff {
			unique++
		}
		return true
	})

	return ports.SecurityStats{
		RateLimitViolations:  c.rateViolations.Value(),
		SizeLimitViolations:  c.sizeViolations.Value(),
		UniqueRateLimitedIPs: unique,
	}
}

func (c *Collector) Snapshot() Snapshot {
	p50, p95, p99 := c.runLatency.Percentiles()
	return Snapshot{
		Fetch:      c.GetFetchStats(),
		RunLatency: LatencyPercentiles{P50: p50, P95: p95, P99: p99},
		Servers:    c.GetServerStats(),
		Security:   c.GetSecurityStats(),
	}
}

// MetricsHandler serves the prometheus exposition for this collector only.
func (c *Collector) MetricsHandler() http.Handler {
	return c.metrics.handler()
}

func (c *Collector) tryCleanup(now int64) {
	if now-c.lastCleanup.Load() < int64(CleanupInterval) {
		return
	}
	if !c.cleanupMu.TryLock() {
		return
	}
	defer c.cleanupMu.Unlock()

	c.cleanup(now)
	c.lastCleanup.Store(now)
}

func (c *Collector) cleanup(now int64) {
	serverCutoff := now - int64(ServerTTL)
	ipCutoff := now - int64(rateLimitedIPTTL)

	type serverAge struct {
		server string
		seen   int64
	}
	var (
		alive   []serverAge
		expired int
	)

	c.servers.Range(func(server string, data *serverData) bool {
		seen := data.lastSeen.Load()
		if seen < serverCutoff {
			c.servers.Delete(server)
			expired++
			return true
		}
		alive = append(alive, serverAge{server, seen})
		return true
	})

	evicted := 0
	if len(alive) > MaxTrackedServers {
		slices.SortFunc(alive, func(a, b serverAge) int {
			switch {
			case a.seen < b.seen:
				return -1
			case a.seen > b.seen:
				return 1
			}
			return 0
		})
		evicted = len(alive) - MaxTrackedServers
		for _, s := range alive[:evicted] {
			c.servers.Delete(s.server)
		}
	}

	c.rateLimitedIPs.Range(func(ip string, seen int64) bool {
		if seen < ipCutoff {
			c.rateLimitedIPs.Delete(ip)
		}
		return true
	})

	if expired > 0 || evicted > 0 {
		c.logger.Debug("Cleaned up server stats", "expired", expired, "evicted", evicted, "remaining", c.servers.Size())
	}
}
