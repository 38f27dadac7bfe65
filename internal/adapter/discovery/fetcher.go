package discovery

import (
	"context"
	"time"

	"github.com/thushan/olla-explorer/internal/core/domain"
	"github.com/thushan/olla-explorer/internal/core/ports"
	"github.com/thushan/olla-explorer/internal/logger"
	"github.com/thushan/olla-explorer/pkg/pool"
)

// ServerFetcher collects every model from one server. A listing failure
// fails the server; a model failure only degrades that model's record.
type ServerFetcher struct {
	client    InventoryClient
	inspector *ModelInspector
	stats     ports.StatsCollector
	logger    logger.StyledLogger
	config    Config
}

func NewServerFetcher(client InventoryClient, cfg Config, stats ports.StatsCollector, log logger.StyledLogger) *ServerFetcher {
	stats = orNoopStats(stats)
	return &ServerFetcher{
		client:    client,
		inspector: NewModelInspector(client, stats, log),
		stats:     stats,
		logger:    log,
		config:    cfg.withDefaults(),
	}
}

func (f *ServerFetcher) Fetch(ctx context.Context, server string) ([]*domain.ModelRecord, domain.ServerOutcome) {
	start := time.Now()
	f.logger.InfoWithServer("Fetching models from", server)

	summaries, err := f.client.ListModels(ctx, server)
	if err != nil {
		reason := DescribeFailure(err)
		f.logger.ErrorWithServer("Failed to list models on", server, "error", reason)
		f.stats.RecordServer(server, false, 0, time.Since(start))
		return []*domain.ModelRecord{}, domain.ServerOutcome{
			Server:  server,
			Success: false,
			Error:   reason,
		}
	}

	records := make([]*domain.ModelRecord, 0, len(summaries))
	if len(summaries) > 0 {
		workers := pool.Clamp(len(summaries), pool.DefaultWorkers(f.config.ModelWorkers))
		inspect := func(ctx context.Context, summary domain.ModelSummary) *domain.ModelRecord {
			return f.inspector.Inspect(ctx, server, summary)
		}
		for record := range pool.Stream(ctx, pool.NewExecutor(workers), summaries, inspect) {
			records = append(records, record)
		}
	}

	f.logger.InfoWithCount("Found models on "+server, len(records))
	f.stats.RecordServer(server, true, len(records), time.Since(start))
	return records, domain.ServerOutcome{
		Server:     server,
		Success:    true,
		ModelCount: len(records),
	}
}
