package handlers

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/thushan/olla-explorer/internal/adapter/discovery"
	"github.com/thushan/olla-explorer/internal/adapter/security"
	"github.com/thushan/olla-explorer/internal/adapter/stats"
	"github.com/thushan/olla-explorer/internal/config"
	"github.com/thushan/olla-explorer/internal/core/domain"
	"github.com/thushan/olla-explorer/internal/logger"
)

func createTestLogger() logger.StyledLogger {
	log := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
	return logger.NewPlainStyledLogger(log)
}

// stubAggregator hands back a canned result and remembers what it was asked for
type stubAggregator struct {
	result *domain.AggregateResult
	calls  [][]string
	mu     sync.Mutex
}

func (s *stubAggregator) Aggregate(_ context.Context, servers []string) *domain.AggregateResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, servers)
	if s.result == nil {
		return domain.NewAggregateResult()
	}
	return s.result
}

func (s *stubAggregator) lastCall() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.calls) == 0 {
		return nil
	}
	return s.calls[len(s.calls)-1]
}

func (s *stubAggregator) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.calls)
}

type stubInventory struct {
	metrics discovery.InventoryMetrics
}

func (s stubInventory) GetMetrics() discovery.InventoryMetrics {
	return s.metrics
}

func testConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Server.Host = "127.0.0.1"
	cfg.Server.Port = 0
	cfg.Server.ShutdownTimeout = time.Second
	cfg.Server.RateLimits.PerIPRequestsPerMinute = 0
	return cfg
}

type testApp struct {
	app        *Application
	aggregator *stubAggregator
	collector  *stats.Collector
	handler    http.Handler
}

func newTestApp(cfg *config.Config, result *domain.AggregateResult) *testApp {
	log := createTestLogger()
	collector := stats.NewCollector(log)
	aggregator := &stubAggregator{result: result}
	adapters := security.NewSecurityAdapters(cfg, collector, log)

	app := NewApplication(cfg, aggregator, collector, stubInventory{}, adapters, log)
	app.GetRouteRegistry().WithOutput(io.Discard)

	return &testApp{
		app:        app,
		aggregator: aggregator,
		collector:  collector,
		handler:    app.Handler(),
	}
}
