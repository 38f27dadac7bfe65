package handlers

import (
	"net/http"
	"time"

	"github.com/thushan/olla-explorer/internal/adapter/discovery"
	"github.com/thushan/olla-explorer/internal/adapter/security"
	"github.com/thushan/olla-explorer/internal/adapter/stats"
	"github.com/thushan/olla-explorer/internal/config"
	"github.com/thushan/olla-explorer/internal/core/ports"
	"github.com/thushan/olla-explorer/internal/logger"
	"github.com/thushan/olla-explorer/internal/router"
	"github.com/thushan/olla-explorer/pkg/container"
)

// InventoryMetricsProvider is satisfied by the HTTP inventory client, its
// counters show up on the stats page when present.
type InventoryMetricsProvider interface {
	GetMetrics() discovery.InventoryMetrics
}

// Application holds everything the HTTP handlers need
type Application struct {
	Config           *config.Config
	logger           logger.StyledLogger
	aggregator       ports.ModelAggregator
	statsCollector   *stats.Collector
	inventory        InventoryMetricsProvider
	securityAdapters *security.Adapters
	routeRegistry    *router.RouteRegistry
	server           *http.Server
	errCh            chan error
	StartTime        time.Time
	containerised    bool
}

func NewApplication(
	cfg *config.Config,
	aggregator ports.ModelAggregator,
	statsCollector *stats.Collector,
	inventory InventoryMetricsProvider,
	securityAdapters *security.Adapters,
	log logger.StyledLogger,
) *Application {
	return &Application{
		Config:           cfg,
		logger:           log,
		aggregator:       aggregator,
		statsCollector:   statsCollector,
		inventory:        inventory,
		securityAdapters: securityAdapters,
		routeRegistry:    router.NewRouteRegistry(log),
		server: &http.Server{
			Addr:              cfg.Server.GetAddress(),
			ReadTimeout:       cfg.Server.ReadTimeout,
			ReadHeaderTimeout: cfg.Server.ReadTimeout,
			WriteTimeout:      cfg.Server.WriteTimeout,
		},
		errCh:         make(chan error, 1),
		StartTime:     time.Now(),
		containerised: container.IsContainerised(),
	}
}

func (a *Application) GetRouteRegistry() *router.RouteRegistry {
	return a.routeRegistry
}

func (a *Application) GetServer() *http.Server {
	return a.server
}

// Errors reports a listener that died after Start returned
func (a *Application) Errors() <-chan error {
	return a.errCh
}
