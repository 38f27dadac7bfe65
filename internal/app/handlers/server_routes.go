package handlers

import (
	"net/http"

	"github.com/thushan/olla-explorer/internal/core/constants"
)

func (a *Application) registerRoutes() {
	a.routeRegistry.Register(constants.PathIndex, a.indexHandler, "Model explorer UI")
	a.routeRegistry.RegisterSecured(constants.PathFetch, a.fetchHandler, "Aggregate models across servers", http.MethodPost)

	a.routeRegistry.Register(constants.PathHealth, a.healthHandler, "Health check endpoint")
	a.routeRegistry.Register(constants.PathVersion, a.versionHandler, "Version information")
	a.routeRegistry.Register(constants.PathInternalStats, a.statsHandler, "Fetch and security statistics")
	a.routeRegistry.Register(constants.PathInternalProc, a.processStatsHandler, "Process status")

	if a.statsCollector != nil {
		a.routeRegistry.Register(constants.PathMetrics, a.metricsHandler, "Prometheus metrics")
	}
}
