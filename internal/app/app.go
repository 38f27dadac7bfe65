package app

import (
	"context"
	"fmt"
	"time"

	"github.com/thushan/olla-explorer/internal/adapter/discovery"
	"github.com/thushan/olla-explorer/internal/adapter/security"
	"github.com/thushan/olla-explorer/internal/adapter/stats"
	"github.com/thushan/olla-explorer/internal/app/handlers"
	"github.com/thushan/olla-explorer/internal/config"
	"github.com/thushan/olla-explorer/internal/logger"
	"github.com/thushan/olla-explorer/pkg/format"
)

// Application is the explorer process: one HTTP surface over a shared
// inventory client, nothing is cached between fetches.
type Application struct {
	http      *handlers.Application
	client    *discovery.HTTPInventoryClient
	collector *stats.Collector
	logger    logger.StyledLogger
}

func New(startTime time.Time, cfg *config.Config, log logger.StyledLogger) (*Application, error) {
	if cfg == nil {
		return nil, fmt.Errorf("no configuration provided")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	fetchCfg := discovery.NewConfig(cfg.Fetch)

	collector := stats.NewCollector(log)
	client := discovery.NewHTTPInventoryClient(fetchCfg, log)
	aggregator := discovery.NewAggregator(client, fetchCfg, collector, log)
	securityAdapters := security.NewSecurityAdapters(cfg, collector, log)

	httpApp := handlers.NewApplication(cfg, aggregator, collector, client, securityAdapters, log)
	httpApp.StartTime = startTime

	return &Application{
		http:      httpApp,
		client:    client,
		collector: collector,
		logger:    log,
	}, nil
}

func (a *Application) Start(ctx context.Context) error {
	return a.http.Start(ctx)
}

func (a *Application) Stop(ctx context.Context) error {
	err := a.http.Stop(ctx)

	metrics := a.client.GetMetrics()
	a.logger.Info("Upstream totals",
		"requests", metrics.TotalRequests,
		"failed", metrics.FailedRequests,
		"retries", metrics.Retries,
		"avg_latency", metrics.AverageLatency)

	fetch := a.collector.GetFetchStats()
	if fetch.TotalRuns > 0 {
		a.logger.Info("Fetch totals",
			"runs", fetch.TotalRuns,
			"models_inspected", fetch.ModelsInspected,
			"models_degraded", fetch.ModelsDegraded,
			"server_success", format.Percentage(fetch.ServerSuccessPct))
	}

	return err
}

// Errors surfaces a listener failure after a successful Start
func (a *Application) Errors() <-chan error {
	return a.http.Errors()
}

func (a *Application) Stats() stats.Snapshot {
	return a.collector.Snapshot()
}
