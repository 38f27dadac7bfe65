package discovery

import (
	"context"
	"sort"
	"time"

	"github.com/thushan/olla-explorer/internal/core/domain"
	"github.com/thushan/olla-explorer/internal/core/ports"
	"github.com/thushan/olla-explorer/internal/logger"
	"github.com/thushan/olla-explorer/internal/util"
	"github.com/thushan/olla-explorer/pkg/pool"
)

// Aggregator fans a run out across servers and folds the results into one
// AggregateResult. It holds no per-run state, so one instance serves every
// request.
type Aggregator struct {
	client InventoryClient
	stats  ports.StatsCollector
	logger logger.StyledLogger
	config Config
}

type serverResult struct {
	records []*domain.ModelRecord
	outcome domain.ServerOutcome
}

func NewAggregator(client InventoryClient, cfg Config, stats ports.StatsCollector, log logger.StyledLogger) *Aggregator {
	return &Aggregator{
		client: client,
		stats:  orNoopStats(stats),
		logger: log,
		config: cfg.withDefaults(),
	}
}

// WithConfig returns a copy using cfg, the receiver is left untouched
func (a *Aggregator) WithConfig(cfg Config) *Aggregator {
	clone := *a
	clone.config = cfg.withDefaults()
	return &clone
}

func (a *Aggregator) Config() Config {
	return a.config
}

// Aggregate normalises and dedupes rawServers, fetches each distinct server
// once and merges everything. It never fails; trouble is reported through
// ServerResults and degraded model records.
func (a *Aggregator) Aggregate(ctx context.Context, rawServers []string) *domain.AggregateResult {
	result := domain.NewAggregateResult()

	servers := util.DedupeServerURLs(rawServers)
	if len(servers) == 0 {
		return result
	}

	start := time.Now()
	fetcher := NewServerFetcher(a.client, a.config, a.stats, a.logger)
	workers := pool.Clamp(len(servers), pool.DefaultWorkers(a.config.ServerWorkers))

	fetch := func(ctx context.Context, server string) serverResult {
		records, outcome := fetcher.Fetch(ctx, server)
		return serverResult{records: records, outcome: outcome}
	}

	capabilities := make(map[string]struct{})
	families := make(map[string]struct{})

	// only this loop touches result, workers just hand values back
	for res := range pool.Stream(ctx, pool.NewExecutor(workers), servers, fetch) {
		result.ServerResults = append(result.ServerResults, res.outcome)
		if !res.outcome.Success {
			continue
		}

		result.Models = append(result.Models, res.records...)
		for _, record := range res.records {
			for _, capability := range record.Capabilities {
				capabilities[capability] = struct{}{}
			}
			if record.Family != "" {
				families[record.Family] = struct{}{}
			}
		}
	}

	result.Capabilities = sortedKeys(capabilities)
	result.Families = sortedKeys(families)

	elapsed := time.Since(start)
	a.stats.RecordRun(len(servers), elapsed)
	a.logger.InfoWithNumbers("Fetched %s models from %s servers (%s failed)",
		int64(len(result.Models)), int64(len(servers)), int64(result.FailedServers()))

	return result
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// noopStats lets the pipeline run without a collector wired in
type noopStats struct{}

func (noopStats) RecordRun(int, time.Duration)                    {}
func (noopStats) RecordServer(string, bool, int, time.Duration)   {}
func (noopStats) RecordModel(bool)                                {}
func (noopStats) RecordSecurityViolation(ports.SecurityViolation) {}

func orNoopStats(stats ports.StatsCollector) ports.StatsCollector {
	if stats == nil {
		return noopStats{}
	}
	return stats
}
